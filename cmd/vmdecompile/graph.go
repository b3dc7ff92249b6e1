package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"vmdecompile/internal/cfg"
	"vmdecompile/internal/dom"
	"vmdecompile/internal/funcsplit"
	"vmdecompile/internal/render"
	"vmdecompile/internal/vmparse"
)

// cmdGraph runs only the CFG/dominator stages (A through D) and emits one
// CFG dot file per function, for inspecting control flow without
// attempting to structure it.
func cmdGraph(args []string) error {
	fs := flag.NewFlagSet("graph", flag.ExitOnError)
	in := fs.String("in", "", "path to VM source")
	outDir := fs.String("out", "", "output directory")
	maxSteps := fs.Int("max-steps", 0, "cap on dominator fixpoint (0 = unbounded)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *outDir == "" {
		return fmt.Errorf("graph: --in and --out are required")
	}

	f, err := os.Open(*in)
	if err != nil {
		return fmt.Errorf("graph: open %s: %w", *in, err)
	}
	defer f.Close()

	cmds, err := vmparse.Parse(f)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("graph: create %s: %w", *outDir, err)
	}

	functions := funcsplit.Split(cmds)
	for _, fn := range functions {
		g := cfg.Build(fn.Name, fn.Commands)

		var dominance *dom.Sets
		dominance, err = dom.Compute(g, *maxSteps)
		if err != nil {
			return fmt.Errorf("graph: function %s: %w", fn.Name, err)
		}

		path := filepath.Join(*outDir, fn.Name+".dot")
		if err := os.WriteFile(path, []byte(render.CFGDot(g, dominance, render.NASA)), 0o644); err != nil {
			return fmt.Errorf("graph: write %s: %w", path, err)
		}
	}

	fmt.Fprintf(os.Stderr, "graphed %d functions → %s\n", len(functions), *outDir)
	return nil
}
