package cfg

import (
	"testing"

	"vmdecompile/internal/vmir"
)

func push(n int32) vmir.Command { return vmir.Command{Op: vmir.OpPush, Seg: vmir.CONST, Arg: n} }

func TestBuild_StraightLine(t *testing.T) {
	cmds := []vmir.Command{push(1), push(2), {Op: vmir.OpAdd}}
	g := Build("main", cmds)
	if len(g.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(g.Blocks))
	}
	if len(g.Blocks[0].Commands) != 3 {
		t.Fatalf("got %d commands in entry block, want 3", len(g.Blocks[0].Commands))
	}
}

func TestBuild_SimpleIf(t *testing.T) {
	cmds := []vmir.Command{
		push(1),
		{Op: vmir.OpNot},
		{Op: vmir.OpIfGoto, Name: "END"},
		push(7),
		{Op: vmir.OpPop, Seg: vmir.LCL, Arg: 0},
		{Op: vmir.OpLabel, Name: "END"},
	}
	g := Build("main", cmds)

	entry := &g.Blocks[0]
	if len(entry.Succs) != 2 {
		t.Fatalf("entry block has %d succs, want 2", len(entry.Succs))
	}
	taken, err := g.TakenEdge(0)
	if err != nil {
		t.Fatal(err)
	}
	if g.Blocks[taken].Label != "END" {
		t.Errorf("taken edge targets block labeled %q, want END", g.Blocks[taken].Label)
	}
	notTaken, err := g.NotTakenEdge(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Blocks[notTaken].Commands) != 2 {
		t.Errorf("not-taken block has %d commands, want 2", len(g.Blocks[notTaken].Commands))
	}
}

func TestBuild_WhileLoop(t *testing.T) {
	cmds := []vmir.Command{
		{Op: vmir.OpLabel, Name: "LOOP"},
		push(0),
		{Op: vmir.OpIfGoto, Name: "END"},
		{Op: vmir.OpGoto, Name: "LOOP"},
		{Op: vmir.OpLabel, Name: "END"},
	}
	g := Build("main", cmds)

	header, ok := g.findLabel("LOOP")
	if !ok {
		t.Fatal("no block labeled LOOP")
	}
	if header != 0 {
		t.Errorf("LOOP header = block %d, want 0 (the entry block)", header)
	}
	preds := g.Preds(header)
	if len(preds) != 1 {
		t.Fatalf("LOOP header has %d preds, want 1 (the back edge; it is the entry block itself)", len(preds))
	}
	taken, err := g.TakenEdge(header)
	if err != nil {
		t.Fatal(err)
	}
	if g.Blocks[taken].Label != "END" {
		t.Errorf("taken edge out of LOOP targets block labeled %q, want END", g.Blocks[taken].Label)
	}
}

func TestBuild_DeadBlockAfterGotoIsShrunk(t *testing.T) {
	// A goto immediately followed by its own target label leaves a block
	// opened for whatever (absent) code would have come between them —
	// that block has no label, no commands and no predecessors once the
	// label resolves to the goto's destination block instead, so shrink
	// orphans it.
	cmds := []vmir.Command{
		{Op: vmir.OpGoto, Name: "END"},
		{Op: vmir.OpLabel, Name: "END"},
		{Op: vmir.OpReturn},
	}
	g := Build("main", cmds)

	var dead int
	for i := range g.Blocks {
		b := &g.Blocks[i]
		if b.Label == "" && len(b.Commands) == 0 {
			dead = i
		}
	}
	if len(g.Blocks[dead].Succs) != 0 {
		t.Errorf("dead block %d still has successor edges: %v", dead, g.Blocks[dead].Succs)
	}
	if len(g.Preds(dead)) != 0 {
		t.Errorf("dead block %d still has predecessors", dead)
	}
}

func TestGraph_PredsAndEdges(t *testing.T) {
	g := &Graph[vmir.Command]{Name: "t"}
	a := g.addBlock()
	b := g.addBlock()
	c := g.addBlock()
	g.addEdge(a, b, IfGoto)
	g.addEdge(a, c, Fallthrough)

	if got := g.Preds(b); len(got) != 1 || got[0] != a {
		t.Errorf("Preds(b) = %v, want [a]", got)
	}
	taken, err := g.TakenEdge(a)
	if err != nil || taken != b {
		t.Errorf("TakenEdge(a) = %d, %v; want b, nil", taken, err)
	}
	notTaken, err := g.NotTakenEdge(a)
	if err != nil || notTaken != c {
		t.Errorf("NotTakenEdge(a) = %d, %v; want c, nil", notTaken, err)
	}
}

func TestGraph_NoSuchEdge(t *testing.T) {
	g := &Graph[vmir.Command]{Name: "t"}
	g.addBlock()
	if _, err := g.TakenEdge(0); err == nil {
		t.Fatal("expected an error for a block with no if-goto edge")
	}
}
