// Package structure folds a CFG of lifted IR blocks, plus its dominance
// information, into a single nested if/while statement tree with no
// residual gotos.
//
// The recursion is ported from
// original_source/decompiler/src/decompiler.rs::reconstruct_from_node_until,
// generalized from Vec<Vec<usize>> dominator matrices to dom.Sets
// bitsets, and reshaped as a stop-predicate/accumulator recursion in the
// style of a recursive graph walk: descend until the stop block or a
// dead end, accumulating statements as the stack unwinds.
package structure

import (
	"fmt"

	"vmdecompile/internal/cfg"
	"vmdecompile/internal/dom"
	"vmdecompile/internal/ir"
)

// BranchConvergenceError reports that an if/else's then- and else-arms
// reached different continuation blocks — control flow that cannot be
// expressed as a reducible if/else.
type BranchConvergenceError struct {
	Then, Else int
}

func (e *BranchConvergenceError) Error() string {
	return fmt.Sprintf("structure: then-branch converges at block %d but else-branch converges at block %d", e.Then, e.Else)
}

// Reconstruct structures g (using precomputed dominance info) into a
// single ordered statement list, starting from block 0.
func Reconstruct(g *cfg.Graph[ir.Stmt], d *dom.Sets) ([]ir.Stmt, error) {
	_, stmts, err := reconstruct(g, d, 0, func(int) bool { return false })
	return stmts, err
}

// reconstruct walks forward from block n, folding straight-line runs,
// two-way branches and loop headers into nested statements until it hits
// stopHere or runs off the end of the function. It returns the block at
// which the caller's traversal should resume (nil if control fell off the
// end) and the statements produced along the way. A loop header always
// returns nil, even when the loop's continuation stopped at a block.
func reconstruct(g *cfg.Graph[ir.Stmt], d *dom.Sets, n int, stopHere func(int) bool) (*int, []ir.Stmt, error) {
	if stopHere(n) {
		return &n, nil, nil
	}

	block := &g.Blocks[n]
	out := append([]ir.Stmt(nil), block.Commands...)

	if len(block.Succs) == 0 {
		return nil, out, nil
	}

	if d.IsLoopHeader(n) {
		taken, err := g.TakenEdge(n)
		if err != nil {
			return nil, nil, err
		}
		notTaken, err := g.NotTakenEdge(n)
		if err != nil {
			return nil, nil, err
		}
		cond, out2, err := popTrailingExpr(out, n)
		if err != nil {
			return nil, nil, err
		}
		out = out2

		_, body, err := reconstruct(g, d, notTaken, func(i int) bool { return i == n })
		if err != nil {
			return nil, nil, err
		}
		_, continuation, err := reconstruct(g, d, taken, stopHere)
		if err != nil {
			return nil, nil, err
		}

		out = append(out, &ir.While{Cond: cond, Body: body, Continuation: continuation})
		return nil, out, nil
	}

	if len(block.Succs) == 2 {
		taken, err := g.TakenEdge(n)
		if err != nil {
			return nil, nil, err
		}
		notTaken, err := g.NotTakenEdge(n)
		if err != nil {
			return nil, nil, err
		}
		cond, out2, err := popTrailingExpr(out, n)
		if err != nil {
			return nil, nil, err
		}
		out = out2

		stopAtExitOf := func(target int) func(int) bool {
			return func(i int) bool { return !d.Dominates(target, i) }
		}

		n1, thenStmts, err := reconstruct(g, d, taken, stopAtExitOf(taken))
		if err != nil {
			return nil, nil, err
		}

		var elseStmts []ir.Stmt
		var n2 *int
		hasPrivateElse := len(g.Preds(notTaken)) == 1
		if hasPrivateElse {
			n2, elseStmts, err = reconstruct(g, d, notTaken, stopAtExitOf(notTaken))
			if err != nil {
				return nil, nil, err
			}
		}

		// The continuation block is wherever control resumes after the
		// if/else. When the else-branch is private to this if (F has a
		// single predecessor), that block has already been fully
		// structured as elseStmts, so resuming at F again would
		// duplicate it — instead resume at whichever arm's exit point
		// (n1/n2) is non-nil. Both arms returning is a "branches
		// converge at different blocks" error only when both actually
		// resume somewhere (both non-nil) and disagree; if an arm fell
		// off the end (return/terminal), it simply contributes no
		// continuation point.
		var contn *int
		switch {
		case !hasPrivateElse:
			contn = &notTaken
		case n1 != nil && n2 != nil:
			if *n1 != *n2 {
				return nil, nil, &BranchConvergenceError{Then: *n1, Else: *n2}
			}
			contn = n1
		case n1 != nil:
			contn = n1
		case n2 != nil:
			contn = n2
		default:
			contn = nil // both arms are terminal; the if/else itself is terminal
		}

		var ret *int
		var contStmts []ir.Stmt
		if contn != nil {
			ret, contStmts, err = reconstruct(g, d, *contn, stopHere)
			if err != nil {
				return nil, nil, err
			}
		}

		out = append(out, &ir.If{Cond: cond, Then: thenStmts, Else: elseStmts, Continuation: contStmts})
		return ret, out, nil
	}

	var ret *int
	for _, s := range block.Succs {
		r, stmts, err := reconstruct(g, d, s.Block, stopHere)
		if err != nil {
			return nil, nil, err
		}
		ret = r
		out = append(out, stmts...)
	}
	return ret, out, nil
}

// popTrailingExpr pops the last statement (expected to be the dangling
// ir.ExprStmt the lifter emits for a condition) and returns it as the
// condition expression.
func popTrailingExpr(stmts []ir.Stmt, block int) (ir.Expr, []ir.Stmt, error) {
	if len(stmts) == 0 {
		return nil, nil, fmt.Errorf("structure: block %d has a branch but no trailing condition expression", block)
	}
	last := stmts[len(stmts)-1]
	es, ok := last.(*ir.ExprStmt)
	if !ok {
		return nil, nil, fmt.Errorf("structure: block %d's trailing statement is not an expression", block)
	}
	return es.X, stmts[:len(stmts)-1], nil
}
