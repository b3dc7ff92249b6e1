package ir

// FoldStringLiterals rewrites String.new/String.appendChar call chains
// into ConstString literals. It recurses into every compound shape before
// attempting a match at the current node: recurse into children first,
// then check, so a rewrite always sees its operands already folded.
func FoldStringLiterals(stmts []Stmt) []Stmt {
	out := make([]Stmt, len(stmts))
	for i, s := range stmts {
		out[i] = foldStmt(s)
	}
	return out
}

func foldStmt(s Stmt) Stmt {
	switch n := s.(type) {
	case *ExprStmt:
		return &ExprStmt{X: foldExpr(n.X)}
	case *Assign:
		return &Assign{Lvalue: foldExpr(n.Lvalue), Rvalue: foldExpr(n.Rvalue)}
	case *Return:
		return &Return{X: foldExpr(n.X)}
	case *If:
		return &If{
			Cond:         foldExpr(n.Cond),
			Then:         FoldStringLiterals(n.Then),
			Else:         FoldStringLiterals(n.Else),
			Continuation: FoldStringLiterals(n.Continuation),
		}
	case *While:
		return &While{
			Cond:         foldExpr(n.Cond),
			Body:         FoldStringLiterals(n.Body),
			Continuation: FoldStringLiterals(n.Continuation),
		}
	default:
		return s
	}
}

func foldExpr(e Expr) Expr {
	switch n := e.(type) {
	case *Unary:
		return &Unary{Op: n.Op, X: foldExpr(n.X)}
	case *Binary:
		return &Binary{Op: n.Op, X: foldExpr(n.X), Y: foldExpr(n.Y)}
	case *ArrayOffset:
		return &ArrayOffset{Base: foldExpr(n.Base), Offset: foldExpr(n.Offset)}
	case *Call:
		args := make([]Expr, len(n.Args))
		for i, a := range n.Args {
			args[i] = foldExpr(a)
		}
		folded := &Call{Func: n.Func, Args: args}
		return tryFoldAppendChar(folded)
	default:
		return e
	}
}

// tryFoldAppendChar matches String.appendChar(s, c) where c is a constant
// and s is either a ConstString prefix (already folded) or a
// String.new(len) allocation (the start of a chain).
func tryFoldAppendChar(c *Call) Expr {
	if c.Func != "String.appendChar" || len(c.Args) != 2 {
		return c
	}
	ch, ok := c.Args[1].(*ConstInt)
	if !ok {
		return c
	}
	appended := byte(ch.Value & 0xFF)

	switch s := c.Args[0].(type) {
	case *ConstString:
		return &ConstString{Value: s.Value + string(appended)}
	case *Call:
		if s.Func == "String.new" && len(s.Args) == 1 {
			if _, ok := s.Args[0].(*ConstInt); ok {
				return &ConstString{Value: string(appended)}
			}
		}
	}
	return c
}
