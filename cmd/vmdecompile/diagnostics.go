package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/fatih/color"

	"vmdecompile/internal/cfg"
	"vmdecompile/internal/lift"
	"vmdecompile/internal/structure"
	"vmdecompile/internal/vmparse"
)

// reportFatal prints err in the cmd/kanso-cli style (color.Red, a leading
// "❌"), including the line number or block index the error carries when
// it is one of this pipeline's diagnostic error types. Every error here is
// fatal: there is no partial/best-effort recovery to report around.
func reportFatal(err error) {
	var perr *vmparse.ParseError
	if errors.As(err, &perr) {
		color.Red("❌ parse error at line %d: %v", perr.Line, perr.Err)
		fmt.Fprintf(os.Stderr, "  %s\n", perr.Text)
		return
	}

	var edgeErr *cfg.NoSuchEdgeError
	if errors.As(err, &edgeErr) {
		color.Red("❌ control-flow error in block %d: missing %s edge", edgeErr.Block, edgeErr.Which)
		return
	}

	var underflow *lift.StackUnderflowError
	if errors.As(err, &underflow) {
		color.Red("❌ lifting error: stack underflow on %v", underflow.Op)
		return
	}

	var cfErr *lift.ControlFlowInLiftError
	if errors.As(err, &cfErr) {
		color.Red("❌ lifting error: unexpected control-flow command %v", cfErr.Op)
		return
	}

	var convErr *structure.BranchConvergenceError
	if errors.As(err, &convErr) {
		color.Red("❌ structuring error: then-branch converges at block %d but else-branch converges at block %d", convErr.Then, convErr.Else)
		return
	}

	color.Red("❌ %v", err)
}
