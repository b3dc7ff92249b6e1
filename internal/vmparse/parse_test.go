package vmparse

import (
	"strings"
	"testing"

	"vmdecompile/internal/vmir"
)

func TestParse_StraightLine(t *testing.T) {
	src := `push constant 1 // comment
push constant 2
add
pop local 0
`
	cmds, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []vmir.Command{
		{Op: vmir.OpPush, Seg: vmir.CONST, Arg: 1, Line: 1},
		{Op: vmir.OpPush, Seg: vmir.CONST, Arg: 2, Line: 2},
		{Op: vmir.OpAdd, Line: 3},
		{Op: vmir.OpPop, Seg: vmir.LCL, Arg: 0, Line: 4},
	}
	if len(cmds) != len(want) {
		t.Fatalf("got %d commands, want %d", len(cmds), len(want))
	}
	for i := range want {
		if cmds[i] != want[i] {
			t.Errorf("cmd[%d] = %+v, want %+v", i, cmds[i], want[i])
		}
	}
}

func TestParse_SkipsBlankAndCommentOnlyLines(t *testing.T) {
	src := "\n// just a comment\n   \nadd\n"
	cmds, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cmds) != 1 || cmds[0].Op != vmir.OpAdd {
		t.Fatalf("cmds = %+v, want single add", cmds)
	}
}

func TestParse_UnknownOpcode(t *testing.T) {
	_, err := Parse(strings.NewReader("frobnicate 1 2"))
	var pe *ParseError
	if err == nil {
		t.Fatal("expected error")
	}
	if !asParseError(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Line != 1 {
		t.Errorf("Line = %d, want 1", pe.Line)
	}
}

func TestParse_UnknownSegment(t *testing.T) {
	_, err := Parse(strings.NewReader("push nowhere 0"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_BadInteger(t *testing.T) {
	_, err := Parse(strings.NewReader("push constant abc"))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestParse_ControlFlow(t *testing.T) {
	src := "label LOOP\nif-goto END\ngoto LOOP\nlabel END\ncall Foo.bar 2\nfunction Main.run 3\nreturn\n"
	cmds, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(cmds) != 7 {
		t.Fatalf("got %d commands, want 7", len(cmds))
	}
	if cmds[4].Name != "Foo.bar" || cmds[4].Arg != 2 {
		t.Errorf("call cmd = %+v", cmds[4])
	}
	if cmds[5].Name != "Main.run" || cmds[5].Arg != 3 {
		t.Errorf("function cmd = %+v", cmds[5])
	}
}

func asParseError(err error, target **ParseError) bool {
	pe, ok := err.(*ParseError)
	if !ok {
		return false
	}
	*target = pe
	return true
}
