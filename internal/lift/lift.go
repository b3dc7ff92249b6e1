// Package lift converts straight-line VM commands into the untyped
// expression/statement IR by simulating the VM's operand stack. Operator
// spellings for Add/And/Or/Eq follow
// original_source/decompiler/src/untyped_ir.rs.
package lift

import (
	"fmt"
	"strconv"

	"vmdecompile/internal/cfg"
	"vmdecompile/internal/ir"
	"vmdecompile/internal/vmir"
)

// StackUnderflowError reports that a VM command tried to pop more values
// than the simulated stack held.
type StackUnderflowError struct {
	Op vmir.Op
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("lift: stack underflow on %v", e.Op)
}

// ControlFlowInLiftError reports a programmer-error invariant violation:
// the lifter was handed a control-flow command, which must have been
// stripped out by CFG construction.
type ControlFlowInLiftError struct {
	Op vmir.Op
}

func (e *ControlFlowInLiftError) Error() string {
	return fmt.Sprintf("lift: unexpected control-flow command %v reached the lifter", e.Op)
}

// Graph lifts every block of a command-stream CFG into an IR-statement
// CFG, preserving block index, label and successor structure exactly —
// only Commands changes shape, from []vmir.Command to []ir.Stmt.
func Graph(g *cfg.Graph[vmir.Command]) (*cfg.Graph[ir.Stmt], error) {
	out := &cfg.Graph[ir.Stmt]{Name: g.Name, Blocks: make([]cfg.Block[ir.Stmt], len(g.Blocks))}
	for i := range g.Blocks {
		src := &g.Blocks[i]
		stmts, err := Block(src.Commands)
		if err != nil {
			return nil, fmt.Errorf("lift: block %d: %w", i, err)
		}
		out.Blocks[i] = cfg.Block[ir.Stmt]{
			Index:    src.Index,
			Label:    src.Label,
			Commands: stmts,
			Succs:    src.Succs,
		}
	}
	return out, nil
}

// Block lifts one basic block's straight-line commands into a statement
// list by simulating the operand stack. If the stack is non-empty after
// the last command, the remaining top-of-stack expression is emitted as a
// trailing ir.ExprStmt (this is how an if/while condition survives to be
// consumed by structuring).
func Block(cmds []vmir.Command) ([]ir.Stmt, error) {
	var stack []ir.Expr
	var out []ir.Stmt

	pop := func(op vmir.Op) (ir.Expr, error) {
		if len(stack) == 0 {
			return nil, &StackUnderflowError{Op: op}
		}
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return e, nil
	}

	for _, c := range cmds {
		switch c.Op {
		case vmir.OpPush:
			stack = append(stack, pushOperand(c))
		case vmir.OpPop:
			e, err := pop(c.Op)
			if err != nil {
				return nil, err
			}
			out = append(out, &ir.Assign{Lvalue: &ir.Var{Name: popTarget(c)}, Rvalue: e})
		case vmir.OpNeg:
			e, err := pop(c.Op)
			if err != nil {
				return nil, err
			}
			stack = append(stack, &ir.Unary{Op: "-", X: e})
		case vmir.OpNot:
			e, err := pop(c.Op)
			if err != nil {
				return nil, err
			}
			stack = append(stack, &ir.Unary{Op: "~", X: e})
		case vmir.OpAdd, vmir.OpAnd, vmir.OpOr, vmir.OpEq, vmir.OpLt, vmir.OpGt, vmir.OpSub:
			e1, err := pop(c.Op)
			if err != nil {
				return nil, err
			}
			e2, err := pop(c.Op)
			if err != nil {
				return nil, err
			}
			stack = append(stack, binaryFor(c.Op, e1, e2))
		case vmir.OpCall:
			args := make([]ir.Expr, c.Arg)
			for i := int32(0); i < c.Arg; i++ {
				e, err := pop(c.Op)
				if err != nil {
					return nil, err
				}
				args[c.Arg-1-i] = e
			}
			stack = append(stack, &ir.Call{Func: c.Name, Args: args})
		case vmir.OpReturn:
			e, err := pop(c.Op)
			if err != nil {
				return nil, err
			}
			out = append(out, &ir.Return{X: e})
		case vmir.OpLabel, vmir.OpGoto, vmir.OpIfGoto, vmir.OpFunDef:
			return nil, &ControlFlowInLiftError{Op: c.Op}
		default:
			return nil, &ControlFlowInLiftError{Op: c.Op}
		}
	}

	if len(stack) > 0 {
		out = append(out, &ir.ExprStmt{X: stack[len(stack)-1]})
	}
	return out, nil
}

func pushOperand(c vmir.Command) ir.Expr {
	if c.Seg == vmir.CONST {
		return &ir.ConstInt{Value: c.Arg}
	}
	return &ir.Var{Name: c.Seg.DebugSpelling() + "_" + strconv.Itoa(int(c.Arg))}
}

func popTarget(c vmir.Command) string {
	if c.Seg == vmir.CONST {
		return strconv.Itoa(int(c.Arg))
	}
	return c.Seg.DebugSpelling() + "_" + strconv.Itoa(int(c.Arg))
}

// binaryFor builds the Binary node for a two-operand arithmetic/logic
// command. e1 is the value popped first (the right-hand operand on the
// source stack), e2 the value popped second (the left-hand operand).
//
// Lt/Gt are deliberately inverted and Sub restores source operand order,
// matching original_source/decompiler/src/untyped_ir.rs's (arguably
// buggy) semantics, which this repo preserves for output compatibility.
func binaryFor(op vmir.Op, e1, e2 ir.Expr) ir.Expr {
	switch op {
	case vmir.OpAdd:
		return &ir.Binary{Op: "+", X: e1, Y: e2}
	case vmir.OpAnd:
		return &ir.Binary{Op: "&", X: e1, Y: e2}
	case vmir.OpOr:
		return &ir.Binary{Op: "|", X: e1, Y: e2}
	case vmir.OpEq:
		return &ir.Binary{Op: "=", X: e1, Y: e2}
	case vmir.OpLt:
		return &ir.Binary{Op: ">", X: e1, Y: e2}
	case vmir.OpGt:
		return &ir.Binary{Op: "<", X: e1, Y: e2}
	case vmir.OpSub:
		return &ir.Binary{Op: "-", X: e2, Y: e1}
	default:
		panic("lift: binaryFor called with non-binary op")
	}
}
