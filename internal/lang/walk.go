package lang

// Children returns a node's direct children in source order. Nil children
// are skipped so callers can range without guards.
func Children(node Node) []Node {
	var out []Node

	addExpr := func(e Expr) {
		if e != nil {
			out = append(out, e)
		}
	}

	addStmt := func(s Stmt) {
		if s != nil {
			out = append(out, s)
		}
	}

	switch n := node.(type) {
	case *SourceUnit:
		out = append(out, n.Items...)
	case *ContractDecl:
		out = append(out, n.Items...)
	case *VarDecl:
		addExpr(n.Value)
	case *FunctionDecl:
		for _, mod := range n.Modifiers {
			for _, arg := range mod.Args {
				addExpr(arg)
			}
		}

		if n.Body != nil {
			out = append(out, n.Body)
		}
	case *BlockStmt:
		for _, s := range n.Stmts {
			addStmt(s)
		}
	case *IfStmt:
		addExpr(n.Cond)
		addStmt(n.Then)
		addStmt(n.Else)
	case *ForStmt:
		addStmt(n.Init)
		addExpr(n.Cond)
		addExpr(n.Post)
		addStmt(n.Body)
	case *WhileStmt:
		addExpr(n.Cond)
		addStmt(n.Body)
	case *DoWhileStmt:
		addStmt(n.Body)
		addExpr(n.Cond)
	case *ReturnStmt:
		addExpr(n.Value)
	case *EmitStmt:
		if n.Call != nil {
			out = append(out, n.Call)
		}
	case *RevertStmt:
		for _, arg := range n.Args {
			addExpr(arg)
		}
	case *TryStmt:
		addExpr(n.Call)

		if n.Body != nil {
			out = append(out, n.Body)
		}

		for _, c := range n.Catches {
			if c.Body != nil {
				out = append(out, c.Body)
			}
		}
	case *ExprStmt:
		addExpr(n.X)
	case *VarDeclStmt:
		addExpr(n.Value)
	case *BinaryExpr:
		addExpr(n.X)
		addExpr(n.Y)
	case *UnaryExpr:
		addExpr(n.X)
	case *AssignExpr:
		addExpr(n.LHS)
		addExpr(n.RHS)
	case *ConditionalExpr:
		addExpr(n.Cond)
		addExpr(n.Then)
		addExpr(n.Else)
	case *CallExpr:
		addExpr(n.Callee)

		for _, opt := range n.Options {
			addExpr(opt.Value)
		}

		for _, arg := range n.Args {
			addExpr(arg)
		}
	case *MemberExpr:
		addExpr(n.X)
	case *IndexExpr:
		addExpr(n.X)
		addExpr(n.Index)
		addExpr(n.End)
	case *TupleExpr:
		for _, e := range n.Elems {
			addExpr(e)
		}
	case *ArrayExpr:
		for _, e := range n.Elems {
			addExpr(e)
		}
	}

	return out
}

// Inspect walks the tree rooted at node depth-first, calling f for each
// node. If f returns false the node's children are skipped.
func Inspect(node Node, f func(Node) bool) {
	if node == nil {
		return
	}

	if !f(node) {
		return
	}

	for _, child := range Children(node) {
		Inspect(child, f)
	}
}

// ContainsExpr reports whether any expression under node satisfies pred.
func ContainsExpr(node Node, pred func(Expr) bool) bool {
	found := false

	Inspect(node, func(n Node) bool {
		if found {
			return false
		}

		if expr, ok := n.(Expr); ok && pred(expr) {
			found = true
			return false
		}

		return true
	})

	return found
}

// FindExprs collects every expression under node satisfying pred, in
// source order.
func FindExprs(node Node, pred func(Expr) bool) []Expr {
	var out []Expr

	Inspect(node, func(n Node) bool {
		if expr, ok := n.(Expr); ok && pred(expr) {
			out = append(out, expr)
		}

		return true
	})

	return out
}
