package cfg

import "vmdecompile/internal/vmir"

// Build constructs the CFG for one function's command buffer:
// Label/Goto/IfGoto drive block creation and edge labeling; every other
// command is appended to the current block. The entry block is index 0
// by construction.
func Build(name string, cmds []vmir.Command) *Graph[vmir.Command] {
	g := &Graph[vmir.Command]{Name: name}
	cur := g.addBlock()

	for _, c := range cmds {
		switch c.Op {
		case vmir.OpLabel:
			cur = handleLabel(g, cur, c.Name)
		case vmir.OpGoto:
			handleGoto(g, cur, c.Name)
			cur = g.addBlock()
		case vmir.OpIfGoto:
			cur = handleIfGoto(g, cur, c.Name)
		default:
			g.Blocks[cur].Commands = append(g.Blocks[cur].Commands, c)
		}
	}

	shrink(g)
	return g
}

// handleLabel implements the Label(L) rule: reuse an existing block
// labeled L (adding a fallthrough edge into it), attach L to the current
// block in place if it is still empty, or else split into a new labeled
// block.
func handleLabel(g *Graph[vmir.Command], cur int, label string) int {
	if n, ok := g.findLabel(label); ok {
		g.addEdge(cur, n, Fallthrough)
		return n
	}
	if g.Blocks[cur].isEmpty() {
		g.Blocks[cur].Label = label
		return cur
	}
	m := g.addBlock()
	g.Blocks[m].Label = label
	g.addEdge(cur, m, Fallthrough)
	return m
}

// handleGoto implements the Goto(L) rule: locate/create the destination
// exactly as Label does, but the edge is always labeled "goto". Unlike
// Label, Goto never continues in the destination block — the caller opens
// a fresh block for whatever (unreachable, absent a later retargeting
// Label) code follows.
func handleGoto(g *Graph[vmir.Command], cur int, label string) {
	if n, ok := g.findLabel(label); ok {
		g.addEdge(cur, n, Goto)
		return
	}
	if g.Blocks[cur].isEmpty() {
		g.Blocks[cur].Label = label
		return
	}
	m := g.addBlock()
	g.Blocks[m].Label = label
	g.addEdge(cur, m, Goto)
}

// handleIfGoto implements the IfGoto(L) rule: locate/create the taken
// destination with an "if-goto" edge, then open a fresh fallthrough block
// and make it current.
func handleIfGoto(g *Graph[vmir.Command], cur int, label string) int {
	if n, ok := g.findLabel(label); ok {
		g.addEdge(cur, n, IfGoto)
	} else {
		m := g.addBlock()
		g.Blocks[m].Label = label
		g.addEdge(cur, m, IfGoto)
	}
	f := g.addBlock()
	g.addEdge(cur, f, Fallthrough)
	return f
}

// shrink clears the successor list of any block with no label, no
// commands and no predecessors. Blocks are never physically removed, so
// indices stay dense and stable for the dominator arrays.
func shrink[T any](g *Graph[T]) {
	for i := range g.Blocks {
		b := &g.Blocks[i]
		if b.Label != "" || len(b.Commands) != 0 {
			continue
		}
		if len(g.Preds(i)) == 0 {
			b.Succs = nil
		}
	}
}
