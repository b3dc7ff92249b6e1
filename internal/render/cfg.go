// Package render produces Graphviz diagnostics for a decompiled program:
// a per-function CFG dot (this file) and a whole-program call-graph dot
// (callgraph.go).
package render

import (
	"fmt"
	"strings"

	"vmdecompile/internal/cfg"
	"vmdecompile/internal/dom"
	"vmdecompile/internal/ir"
	"vmdecompile/internal/printer"
	"vmdecompile/internal/vmir"
)

// CFGDot renders a per-function basic-block CFG as DOT, with node labels
// annotated with dominator/idom/loop-header information exactly as
// original_source/decompiler/src/decompiler.rs::write_graphviz does.
//
// d may be nil (e.g. when called for diagnostics before a dominator
// computation, or after one that failed); dominance annotations are
// omitted in that case.
func CFGDot(g *cfg.Graph[vmir.Command], d *dom.Sets, t Theme) string {
	if len(g.Blocks) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "digraph cfg {\n")
	b.WriteString("  rankdir=TB;\n")
	fmt.Fprintf(&b, "  bgcolor=%q;\n", t.Background)
	fmt.Fprintf(&b, "  node [shape=box, style=filled, fillcolor=%q, color=%q, fontname=\"Courier,monospace\", fontsize=9, fontcolor=%q];\n",
		t.NodeFill, t.NodeBorder, t.TextColor)
	fmt.Fprintf(&b, "  label=%q;\n  labelloc=t;\n\n", g.Name)

	for i := range g.Blocks {
		blk := &g.Blocks[i]
		if len(blk.Succs) == 0 && len(g.Preds(i)) == 0 && blk.Label == "" && len(blk.Commands) == 0 {
			continue // shrunk dead block
		}
		id := fmt.Sprintf("bb%d", i)

		var lines []string
		header := ""
		if d != nil && d.IsLoopHeader(i) {
			header = "header "
		}
		label := blk.Label
		lines = append(lines, dotEscape(fmt.Sprintf("%sblock %d label=%s", header, i, label)))
		if d != nil {
			lines = append(lines, dotEscape(fmt.Sprintf("doms%v idom=%d", d.Dominators(i), idomOf(d, i))))
		}
		for _, c := range blk.Commands {
			lines = append(lines, dotEscape(c.String()))
		}

		attrs := ""
		if d != nil && d.IsLoopHeader(i) {
			attrs = fmt.Sprintf(", color=%q, penwidth=2", t.HeaderBorder)
		}
		fmt.Fprintf(&b, "  %s [label=\"%s\"%s];\n", id, strings.Join(lines, "\\n"), attrs)
	}
	b.WriteByte('\n')

	for i := range g.Blocks {
		from := fmt.Sprintf("bb%d", i)
		for _, s := range g.Blocks[i].Succs {
			to := fmt.Sprintf("bb%d", s.Block)
			switch s.Kind {
			case cfg.IfGoto:
				fmt.Fprintf(&b, "  %s -> %s [color=%q, label=\"T\"];\n", from, to, t.EdgeTaken)
			case cfg.Goto:
				fmt.Fprintf(&b, "  %s -> %s [color=%q, label=\"goto\"];\n", from, to, t.EdgeGoto)
			default:
				fmt.Fprintf(&b, "  %s -> %s [color=%q];\n", from, to, t.EdgeFallthrough)
			}
		}
	}

	b.WriteString("}\n")
	return b.String()
}

// idomOf returns d.ImmediateDominator(i), or i itself for the entry block
// (which has no immediate dominator).
func idomOf(d *dom.Sets, i int) int {
	if i == 0 {
		return 0
	}
	return d.ImmediateDominator(i)
}

// StructuredCFGDot renders a post-structuring sanity dump: the same
// per-function layout, but with the reconstructed statement tree printed
// as a single label instead of per-block nodes. Useful when structuring
// succeeds but the result looks wrong.
func StructuredCFGDot(name string, body []ir.Stmt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "digraph structured {\n  label=%q;\n  labelloc=t;\n", name)
	fmt.Fprintf(&b, "  node [shape=box, fontname=\"Courier,monospace\", fontsize=9];\n")
	fmt.Fprintf(&b, "  out [label=\"%s\"];\n}\n", dotEscape(printer.Function(name, body)))
	return b.String()
}

func dotEscape(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return s
}
