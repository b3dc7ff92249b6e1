// Package printer renders the structured IR as pseudo-source text: a
// loose C/JavaScript-flavoured syntax with no precedence parentheses,
// continuations printed after their construct's closing brace at the
// same indent level, built with a strings.Builder and one Fprintf-driven
// line at a time.
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"vmdecompile/internal/ir"
)

const indentUnit = "  "

// Function renders one decompiled function as
//
//	function <name>(...) {
//
//	<stmt>;
//	...
//	}
func Function(name string, body []ir.Stmt) string {
	var b strings.Builder
	fmt.Fprintf(&b, "function %s(...) {\n\n", name)
	writeStmts(&b, body, 0)
	b.WriteString("}\n")
	return b.String()
}

func writeStmts(b *strings.Builder, stmts []ir.Stmt, depth int) {
	for _, s := range stmts {
		writeStmt(b, s, depth)
	}
}

func indent(b *strings.Builder, depth int) {
	for i := 0; i < depth; i++ {
		b.WriteString(indentUnit)
	}
}

func writeStmt(b *strings.Builder, s ir.Stmt, depth int) {
	switch n := s.(type) {
	case *ir.ExprStmt:
		indent(b, depth)
		b.WriteString(exprString(n.X))
		b.WriteString(";\n")
	case *ir.Assign:
		indent(b, depth)
		fmt.Fprintf(b, "let %s = %s;\n", exprString(n.Lvalue), exprString(n.Rvalue))
	case *ir.Return:
		indent(b, depth)
		fmt.Fprintf(b, "return %s;\n", exprString(n.X))
	case *ir.If:
		indent(b, depth)
		fmt.Fprintf(b, "if (%s) {\n", exprString(n.Cond))
		writeStmts(b, n.Then, depth+1)
		indent(b, depth)
		b.WriteString("} else {\n")
		writeStmts(b, n.Else, depth+1)
		indent(b, depth)
		b.WriteString("}\n")
		writeStmts(b, n.Continuation, depth)
	case *ir.While:
		indent(b, depth)
		fmt.Fprintf(b, "while (%s) {\n", exprString(n.Cond))
		writeStmts(b, n.Body, depth+1)
		indent(b, depth)
		b.WriteString("}\n")
		writeStmts(b, n.Continuation, depth)
	default:
		indent(b, depth)
		fmt.Fprintf(b, "/* unknown statement %T */;\n", s)
	}
}

// exprString renders an expression with no precedence parentheses: the
// source operator ordering is trusted to read correctly as-is.
func exprString(e ir.Expr) string {
	switch n := e.(type) {
	case *ir.ConstInt:
		return strconv.FormatInt(int64(n.Value), 10)
	case *ir.ConstString:
		return strconv.Quote(n.Value)
	case *ir.Var:
		return n.Name
	case *ir.Unary:
		return fmt.Sprintf("%s(%s)", n.Op, exprString(n.X))
	case *ir.Binary:
		return fmt.Sprintf("%s %s %s", exprString(n.X), n.Op, exprString(n.Y))
	case *ir.Call:
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			args[i] = exprString(a)
		}
		return fmt.Sprintf("%s(%s)", n.Func, strings.Join(args, ", "))
	case *ir.ArrayOffset:
		return fmt.Sprintf("%s[%s]", exprString(n.Base), exprString(n.Offset))
	default:
		return fmt.Sprintf("/* unknown expr %T */", e)
	}
}
