package render

import (
	"github.com/zboralski/lattice"
	latticerender "github.com/zboralski/lattice/render"
)

// CallSite records one call instruction found while lifting a function's
// body, for whole-program call-graph construction.
type CallSite struct {
	Callee string
}

// FuncInfo is the per-function input to BuildCallGraph: just enough to
// build a caller/callee edge list. This domain's "calls" come from
// lifted Call expressions rather than decoded branch instructions, so
// CallSite carries only the callee name.
type FuncInfo struct {
	Name  string
	Calls []CallSite
}

// BuildCallGraph builds a lattice.Graph of caller->callee edges across a
// whole program: one node per function, one deduplicated edge per
// distinct call site.
func BuildCallGraph(funcs []FuncInfo) *lattice.Graph {
	g := &lattice.Graph{}
	for _, f := range funcs {
		g.Nodes = append(g.Nodes, f.Name)
		for _, c := range f.Calls {
			if c.Callee == "" {
				continue
			}
			g.Edges = append(g.Edges, lattice.Edge{
				Caller: f.Name,
				Callee: c.Callee,
			})
		}
	}
	g.Dedup()
	return g
}

// CallGraphDot renders a whole-program call graph to DOT via the
// github.com/zboralski/lattice/render.DOT helper, producing the
// program's "callgraph.dot" diagnostic.
func CallGraphDot(funcs []FuncInfo) string {
	cg := BuildCallGraph(funcs)
	return latticerender.DOT(cg, "callgraph")
}
