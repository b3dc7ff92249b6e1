// Package dom computes dominator sets, immediate dominators and
// natural-loop headers over a cfg.Graph.
//
// Dominator sets are represented as bitsets (one github.com/bits-and-blooms/
// bitset.BitSet of length N per block) rather than the boolean-vector
// representation in original_source/decompiler/src/decompiler.rs, following
// the iterative GEN/KILL-bitset dataflow pattern used throughout
// godoctor's analysis/dataflow package (e.g. reaching.go, live.go).
package dom

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"

	"vmdecompile/internal/cfg"
)

// Sets holds the computed dominance information for one function's CFG.
type Sets struct {
	n       int
	dom     []*bitset.BitSet // dom[b] = set of blocks dominating b
	idom    []int            // idom[b], valid for b > 0
	headers []bool           // headers[b] = b is a loop header
}

// Dominates reports whether block a dominates block b.
func (s *Sets) Dominates(a, b int) bool {
	return s.dom[b].Test(uint(a))
}

// ImmediateDominator returns idom[n] for n > 0. Calling it for n == 0 is a
// programmer error (the entry block has no immediate dominator).
func (s *Sets) ImmediateDominator(n int) int {
	return s.idom[n]
}

// IsLoopHeader reports whether n is the target of a back edge.
func (s *Sets) IsLoopHeader(n int) bool {
	return s.headers[n]
}

// Dominators returns the sorted list of blocks that dominate n (including
// n itself), for diagnostics (e.g. the Graphviz "doms{...}" annotation).
func (s *Sets) Dominators(n int) []int {
	var out []int
	for i := 0; i < s.n; i++ {
		if s.dom[n].Test(uint(i)) {
			out = append(out, i)
		}
	}
	return out
}

// Compute runs the classic iterative dominator fixpoint over g:
//
//	Dom[0] = {0}
//	Dom[n] = {0..N-1} for n > 0 (initial)
//	Dom[n] = {n} ∪ (⋂ Dom[p] for p in preds(n)), iterated to fixpoint
//
// maxSteps bounds the number of outer iterations as a runaway-input safety
// cap; 0 means unbounded. Exceeding it is a fatal structural error, not a
// silent truncation.
func Compute[T any](g *cfg.Graph[T], maxSteps int) (*Sets, error) {
	n := len(g.Blocks)
	s := &Sets{n: n, dom: make([]*bitset.BitSet, n)}

	s.dom[0] = bitset.New(uint(n)).Set(0)
	for i := 1; i < n; i++ {
		s.dom[i] = allOnes(n)
	}

	steps := 0
	for {
		if maxSteps > 0 && steps >= maxSteps {
			return nil, fmt.Errorf("dom: fixpoint did not converge within %d iterations", maxSteps)
		}
		steps++

		changed := false
		for i := 1; i < n; i++ {
			preds := g.Preds(i)
			t := allOnes(n)
			for _, p := range preds {
				t = t.Intersection(s.dom[p])
			}
			t.Set(uint(i))
			if !t.Equal(s.dom[i]) {
				s.dom[i] = t
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	s.idom = computeIdom(s.dom, n)
	s.headers = computeLoopHeaders(g, s.dom, n)
	return s, nil
}

// computeIdom extracts the immediate dominator of each block: start from
// Dom[n]\{n}, remove every t for which some other s in the residual also
// dominates t; exactly one survivor remains.
func computeIdom(domSets []*bitset.BitSet, n int) []int {
	residual := make([]*bitset.BitSet, n)
	for i := 0; i < n; i++ {
		residual[i] = domSets[i].Clone()
		residual[i].Clear(uint(i))
	}

	idom := make([]int, n)
	for i := 1; i < n; i++ {
		for s := uint(0); s < uint(n); s++ {
			if !residual[i].Test(s) {
				continue
			}
			for t := uint(0); t < uint(n); t++ {
				if t != s && residual[uint(s)].Test(t) {
					residual[i].Clear(t)
				}
			}
		}
	}
	for i := 1; i < n; i++ {
		idx, ok := residual[i].NextSet(0)
		if !ok {
			// Exactly one element should always survive the
			// elimination above; an empty residual only happens for
			// a block with no path from entry, which shrink() is
			// expected to have orphaned already.
			idx = 0
		}
		idom[i] = int(idx)
	}
	return idom
}

// computeLoopHeaders flags every block h that is the target of a back
// edge: some edge u→h exists with h ∈ Dom[u].
func computeLoopHeaders[T any](g *cfg.Graph[T], domSets []*bitset.BitSet, n int) []bool {
	headers := make([]bool, n)
	for u := range g.Blocks {
		for _, s := range g.Blocks[u].Succs {
			if domSets[u].Test(uint(s.Block)) {
				headers[s.Block] = true
			}
		}
	}
	return headers
}

func allOnes(n int) *bitset.BitSet {
	b := bitset.New(uint(n))
	for i := 0; i < n; i++ {
		b.Set(uint(i))
	}
	return b
}
