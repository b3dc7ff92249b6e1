package structure

import (
	"testing"

	"vmdecompile/internal/cfg"
	"vmdecompile/internal/dom"
	"vmdecompile/internal/ir"
	"vmdecompile/internal/printer"
)

func addBlock(g *cfg.Graph[ir.Stmt], stmts ...ir.Stmt) int {
	idx := len(g.Blocks)
	g.Blocks = append(g.Blocks, cfg.Block[ir.Stmt]{Index: idx, Commands: stmts})
	return idx
}

func addEdge(g *cfg.Graph[ir.Stmt], src, dst int, kind cfg.EdgeKind) {
	g.Blocks[src].Succs = append(g.Blocks[src].Succs, cfg.Succ{Block: dst, Kind: kind})
}

// TestReconstruct_SimpleIf mirrors the worked example: push 1; not;
// if-goto END; push 7; pop LCL 0; label END — which structures into
// if (~(1)) { } else { let LCL_0 = 7; }
func TestReconstruct_SimpleIf(t *testing.T) {
	g := &cfg.Graph[ir.Stmt]{Name: "main"}
	cond := &ir.Unary{Op: "~", X: &ir.ConstInt{Value: 1}}
	entry := addBlock(g, &ir.ExprStmt{X: cond})
	thenBlk := addBlock(g, &ir.Assign{Lvalue: &ir.Var{Name: "LCL_0"}, Rvalue: &ir.ConstInt{Value: 7}})
	end := addBlock(g)
	addEdge(g, entry, end, cfg.IfGoto)
	addEdge(g, entry, thenBlk, cfg.Fallthrough)
	addEdge(g, thenBlk, end, cfg.Fallthrough)

	d, err := dom.Compute(g, 0)
	if err != nil {
		t.Fatal(err)
	}
	stmts, err := Reconstruct(g, d)
	if err != nil {
		t.Fatal(err)
	}

	got := printer.Function("main", stmts)
	want := "function main(...) {\n\nif (~(1)) {\n} else {\n  let LCL_0 = 7;\n}\n}\n"
	if got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestReconstruct_WhileLoop(t *testing.T) {
	g := &cfg.Graph[ir.Stmt]{Name: "main"}
	header := addBlock(g, &ir.ExprStmt{X: &ir.ConstInt{Value: 0}})
	body := addBlock(g, &ir.Assign{Lvalue: &ir.Var{Name: "LCL_0"}, Rvalue: &ir.ConstInt{Value: 1}})
	exit := addBlock(g, &ir.Return{X: &ir.ConstInt{Value: 0}})
	addEdge(g, header, exit, cfg.IfGoto)
	addEdge(g, header, body, cfg.Fallthrough)
	addEdge(g, body, header, cfg.Goto)

	d, err := dom.Compute(g, 0)
	if err != nil {
		t.Fatal(err)
	}
	if !d.IsLoopHeader(header) {
		t.Fatal("expected header to be detected as a loop header")
	}
	stmts, err := Reconstruct(g, d)
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d top-level statements, want 1 (the while loop)", len(stmts))
	}
	w, ok := stmts[0].(*ir.While)
	if !ok {
		t.Fatalf("top-level statement is %T, want *ir.While", stmts[0])
	}
	if len(w.Body) != 1 {
		t.Errorf("loop body has %d statements, want 1", len(w.Body))
	}
	if len(w.Continuation) != 1 {
		t.Errorf("loop continuation has %d statements, want 1 (the return)", len(w.Continuation))
	}
}

func TestReconstruct_TerminalArmsNoConvergenceError(t *testing.T) {
	g := &cfg.Graph[ir.Stmt]{Name: "main"}
	entry := addBlock(g, &ir.ExprStmt{X: &ir.ConstInt{Value: 1}})
	thenBlk := addBlock(g, &ir.Return{X: &ir.ConstInt{Value: 1}})
	elseBlk := addBlock(g, &ir.Return{X: &ir.ConstInt{Value: 2}})
	addEdge(g, entry, thenBlk, cfg.IfGoto)
	addEdge(g, entry, elseBlk, cfg.Fallthrough)

	d, err := dom.Compute(g, 0)
	if err != nil {
		t.Fatal(err)
	}
	_, err = Reconstruct(g, d)
	if err != nil {
		t.Fatalf("diverging returns on both arms is not a convergence error: %v", err)
	}
}
