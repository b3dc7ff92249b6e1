// Package funcsplit splits a flat VM command stream into per-function
// command buffers at FunDef boundaries.
package funcsplit

import "vmdecompile/internal/vmir"

// Function is one function's command buffer, with its declared name and
// local-variable count. Commands before the first FunDef have Name == ""
// and are only ever non-empty for malformed input (the FunDef command
// itself is not included in Commands).
type Function struct {
	Name       string
	LocalCount int32
	Commands   []vmir.Command
}

// Split walks cmds and opens a new Function at each FunDef, flushing the
// previous one (if non-empty). Any commands trailing the last FunDef form
// a final function.
func Split(cmds []vmir.Command) []Function {
	var funcs []Function
	cur := Function{}

	flush := func() {
		if len(cur.Commands) > 0 {
			funcs = append(funcs, cur)
		}
	}

	for _, c := range cmds {
		if c.Op == vmir.OpFunDef {
			flush()
			cur = Function{Name: c.Name, LocalCount: c.Arg}
			continue
		}
		cur.Commands = append(cur.Commands, c)
	}
	flush()
	return funcs
}
