package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"vmdecompile/internal/cfg"
	"vmdecompile/internal/dom"
	"vmdecompile/internal/funcsplit"
	"vmdecompile/internal/ir"
	"vmdecompile/internal/lift"
	"vmdecompile/internal/printer"
	"vmdecompile/internal/render"
	"vmdecompile/internal/structure"
	"vmdecompile/internal/vmparse"
)

func cmdDecompile(args []string) error {
	fs := flag.NewFlagSet("decompile", flag.ExitOnError)
	in := fs.String("in", "", "path to VM source")
	dotDir := fs.String("dot", "", "write one <function>.dot CFG diagnostic per function here")
	callgraphPath := fs.String("callgraph", "", "write a whole-program call-graph dot here")
	maxSteps := fs.Int("max-steps", 0, "cap on dominator fixpoint iterations (0 = unbounded); structuring recursion is not capped")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("decompile: --in is required")
	}

	f, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("decompile: open %s: %w", *in, err)
	}
	defer f.Close()

	fmt.Fprintf(os.Stderr, "vmdecompile: %s\n", *in)

	cmds, err := vmparse.Parse(f)
	if err != nil {
		return err
	}

	functions := funcsplit.Split(cmds)
	if *dotDir != "" {
		if err := os.MkdirAll(*dotDir, 0o755); err != nil {
			return fmt.Errorf("decompile: create %s: %w", *dotDir, err)
		}
		fmt.Fprintf(os.Stderr, "  cfg dot output: %s\n", *dotDir)
	}

	var callFuncs []render.FuncInfo

	for _, fn := range functions {
		cmdGraph := cfg.Build(fn.Name, fn.Commands)

		irGraph, err := lift.Graph(cmdGraph)
		if err != nil {
			return fmt.Errorf("decompile: function %s: %w", fn.Name, err)
		}

		dominance, err := dom.Compute(cmdGraph, *maxSteps)
		if err != nil {
			return fmt.Errorf("decompile: function %s: %w", fn.Name, err)
		}

		if *dotDir != "" {
			dotPath := filepath.Join(*dotDir, fn.Name+".dot")
			if err := os.WriteFile(dotPath, []byte(render.CFGDot(cmdGraph, dominance, render.NASA)), 0o644); err != nil {
				return fmt.Errorf("decompile: write %s: %w", dotPath, err)
			}
		}

		body, err := structure.Reconstruct(irGraph, dominance)
		if err != nil {
			return fmt.Errorf("decompile: function %s: %w", fn.Name, err)
		}
		body = ir.FoldStringLiterals(body)

		fmt.Print(printer.Function(fn.Name, body))

		if *callgraphPath != "" {
			callFuncs = append(callFuncs, render.FuncInfo{Name: fn.Name, Calls: callSites(body)})
		}
	}

	if *callgraphPath != "" {
		if err := os.WriteFile(*callgraphPath, []byte(render.CallGraphDot(callFuncs)), 0o644); err != nil {
			return fmt.Errorf("decompile: write %s: %w", *callgraphPath, err)
		}
		fmt.Fprintf(os.Stderr, "  call graph: %s\n", *callgraphPath)
	}

	fmt.Fprintf(os.Stderr, "decompiled %d functions → stdout\n", len(functions))
	return nil
}

// callSites walks a structured function body and collects every call
// target reachable from it, for the optional whole-program call-graph
// diagnostic.
func callSites(stmts []ir.Stmt) []render.CallSite {
	var sites []render.CallSite
	var walkExpr func(ir.Expr)
	var walkStmts func([]ir.Stmt)

	walkExpr = func(e ir.Expr) {
		switch n := e.(type) {
		case *ir.Call:
			sites = append(sites, render.CallSite{Callee: n.Func})
			for _, a := range n.Args {
				walkExpr(a)
			}
		case *ir.Unary:
			walkExpr(n.X)
		case *ir.Binary:
			walkExpr(n.X)
			walkExpr(n.Y)
		case *ir.ArrayOffset:
			walkExpr(n.Base)
			walkExpr(n.Offset)
		}
	}

	walkStmts = func(stmts []ir.Stmt) {
		for _, s := range stmts {
			switch n := s.(type) {
			case *ir.ExprStmt:
				walkExpr(n.X)
			case *ir.Assign:
				walkExpr(n.Lvalue)
				walkExpr(n.Rvalue)
			case *ir.Return:
				walkExpr(n.X)
			case *ir.If:
				walkExpr(n.Cond)
				walkStmts(n.Then)
				walkStmts(n.Else)
				walkStmts(n.Continuation)
			case *ir.While:
				walkExpr(n.Cond)
				walkStmts(n.Body)
				walkStmts(n.Continuation)
			}
		}
	}

	walkStmts(stmts)
	return sites
}
