package cc

// WalkStmt visits every statement reachable from id, depth-first, calling
// visit on each one before descending into its children. It's the
// traversal sema.go's goto/label resolution rides on, kept as a plain type
// switch rather than a second Accept-based visitor since that caller needs
// no double dispatch — just "give me every statement".
func WalkStmt(a *Arena, id StmtID, visit func(StmtID, Stmt)) {
	if id == InvalidID {
		return
	}
	s := a.Stmt(id)
	if s == nil {
		return
	}
	visit(id, s)
	switch n := s.(type) {
	case *CompoundStmt:
		for _, child := range n.Items {
			WalkStmt(a, child, visit)
		}
	case *IfStmt:
		WalkStmt(a, n.Then, visit)
		WalkStmt(a, n.Else, visit)
	case *WhileStmt:
		WalkStmt(a, n.Body, visit)
	case *DoWhileStmt:
		WalkStmt(a, n.Body, visit)
	case *ForStmt:
		WalkStmt(a, n.Body, visit)
	case *LabeledStmt:
		WalkStmt(a, n.Stmt, visit)
	case *CaseStmt:
		WalkStmt(a, n.Stmt, visit)
	case *DefaultStmt:
		WalkStmt(a, n.Stmt, visit)
	case *SwitchStmt:
		WalkStmt(a, n.Body, visit)
	}
}

// WalkExpr visits id and every expression nested inside it, depth-first.
func WalkExpr(a *Arena, id ExprID, visit func(ExprID, Expr)) {
	if id == InvalidID {
		return
	}
	e := a.Expr(id)
	if e == nil {
		return
	}
	visit(id, e)
	switch n := e.(type) {
	case *BinaryExpr:
		WalkExpr(a, n.LHS, visit)
		WalkExpr(a, n.RHS, visit)
	case *UnaryExpr:
		WalkExpr(a, n.Operand, visit)
	case *AssignExpr:
		WalkExpr(a, n.LHS, visit)
		WalkExpr(a, n.RHS, visit)
	case *CondExpr:
		WalkExpr(a, n.Cond, visit)
		WalkExpr(a, n.Then, visit)
		WalkExpr(a, n.Else, visit)
	case *CallExpr:
		WalkExpr(a, n.Callee, visit)
		for _, arg := range n.Args {
			WalkExpr(a, arg, visit)
		}
	case *IndexExpr:
		WalkExpr(a, n.Base, visit)
		WalkExpr(a, n.Index, visit)
	case *MemberExpr:
		WalkExpr(a, n.Base, visit)
	case *CastExpr:
		WalkExpr(a, n.Operand, visit)
	case *SizeofExprNode:
		WalkExpr(a, n.Operand, visit)
	case *CommaExpr:
		WalkExpr(a, n.LHS, visit)
		WalkExpr(a, n.RHS, visit)
	case *CompoundLitExpr:
		walkInitItem(a, n.Init, visit)
	case *OffsetofExpr:
		for _, seg := range n.Path {
			WalkExpr(a, seg.Index, visit)
		}
	case *VaBuiltinExpr:
		WalkExpr(a, n.Ap, visit)
		WalkExpr(a, n.Arg, visit)
	}
}

func walkInitItem(a *Arena, item *InitItem, visit func(ExprID, Expr)) {
	if item == nil {
		return
	}
	for _, d := range item.Designators {
		WalkExpr(a, d.Index, visit)
	}
	WalkExpr(a, item.Value, visit)
	for _, child := range item.List {
		walkInitItem(a, child, visit)
	}
}
