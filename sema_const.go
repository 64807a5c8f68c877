package cc

// requireConst evaluates id in a context that demands a constant
// expression, reporting a typing error naming the context if it isn't one.
func (s *Sema) requireConst(id ExprID, what string) (int64, bool) {
	v, ok := s.constEval(id)
	if !ok {
		s.diag.Error(s.exprMark(id), "expected a constant expression in %s", what)
	}
	return v, ok
}

// constEval evaluates a typechecked expression tree at compile time,
// implementing the integer operators, `?:`, value-level casts, sizeof and
// _Alignof over cached layout, and enumerator references. Anything else is
// not a constant expression and returns ok == false; the evaluator itself
// never reports, leaving the choice of diagnostic to requireConst's
// callers. Evaluation is pure: running it twice over the same tree yields
// the same value.
func (s *Sema) constEval(id ExprID) (int64, bool) {
	if id == InvalidID {
		return 0, false
	}
	switch e := s.expr(id).(type) {
	case *IntLitExpr:
		return int64(e.Value), true
	case *CharLitExpr:
		return e.Value, true
	case *IdentExpr:
		if e.Decl == InvalidID {
			return 0, false
		}
		d := s.arena.Decl(e.Decl)
		if !d.IsEnumerator {
			return 0, false
		}
		if !s.ensureEnumComplete(d.Type, e.Mark) {
			return 0, false
		}
		return d.EnumValue, true
	case *BinaryExpr:
		return s.constBinary(e)
	case *UnaryExpr:
		v, ok := s.constEval(e.Operand)
		if !ok {
			return 0, false
		}
		switch e.Op {
		case TokMinus:
			return -v, true
		case TokPlus:
			return v, true
		case TokTilde:
			return ^v, true
		case TokNot:
			if v == 0 {
				return 1, true
			}
			return 0, true
		}
		return 0, false
	case *CondExpr:
		c, ok := s.constEval(e.Cond)
		if !ok {
			return 0, false
		}
		if c != 0 {
			return s.constEval(e.Then)
		}
		return s.constEval(e.Else)
	case *CastExpr:
		v, ok := s.constEval(e.Operand)
		if !ok || e.TargetType == InvalidID {
			return 0, false
		}
		return truncateToType(v, s.t(e.TargetType))
	case *SizeofExprNode:
		ot := exprResolvedType(s.expr(e.Operand))
		return s.constLayoutQuery(ot, e.Mark, e.Alignof)
	case *SizeofTypeNode:
		return s.constLayoutQuery(e.OperandType, e.Mark, e.Alignof)
	case *OffsetofExpr:
		return s.constOffsetof(e)
	}
	return 0, false
}

func (s *Sema) constBinary(e *BinaryExpr) (int64, bool) {
	a, ok := s.constEval(e.LHS)
	if !ok {
		return 0, false
	}
	// Short-circuit operators must not evaluate (or fault on) the dead
	// side, e.g. `1 || 1/0` is a valid constant expression.
	switch e.Op {
	case TokAndAnd:
		if a == 0 {
			return 0, true
		}
		b, ok := s.constEval(e.RHS)
		return boolToInt(b != 0), ok
	case TokOrOr:
		if a != 0 {
			return 1, true
		}
		b, ok := s.constEval(e.RHS)
		return boolToInt(b != 0), ok
	}
	b, ok := s.constEval(e.RHS)
	if !ok {
		return 0, false
	}
	switch e.Op {
	case TokPlus:
		return a + b, true
	case TokMinus:
		return a - b, true
	case TokStar:
		return a * b, true
	case TokSlash:
		if b == 0 {
			return 0, false
		}
		return a / b, true
	case TokPercent:
		if b == 0 {
			return 0, false
		}
		return a % b, true
	case TokShl:
		if b < 0 || b >= 64 {
			return 0, false
		}
		return a << uint(b), true
	case TokShr:
		if b < 0 || b >= 64 {
			return 0, false
		}
		return a >> uint(b), true
	case TokAmp:
		return a & b, true
	case TokCaret:
		return a ^ b, true
	case TokPipe:
		return a | b, true
	case TokEq:
		return boolToInt(a == b), true
	case TokNe:
		return boolToInt(a != b), true
	case TokLt:
		return boolToInt(a < b), true
	case TokGt:
		return boolToInt(a > b), true
	case TokLe:
		return boolToInt(a <= b), true
	case TokGe:
		return boolToInt(a >= b), true
	}
	return 0, false
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func (s *Sema) constLayoutQuery(id TypeID, m Mark, alignof bool) (int64, bool) {
	if id == InvalidID {
		return 0, false
	}
	if !s.completeType(id, m) {
		return 0, false
	}
	t := s.t(id)
	if alignof {
		return t.Align, true
	}
	return t.Size, true
}

func (s *Sema) constOffsetof(e *OffsetofExpr) (int64, bool) {
	if e.TargetType == InvalidID || !s.completeType(e.TargetType, e.Mark) {
		return 0, false
	}
	cur := e.TargetType
	var off int64
	for _, seg := range e.Path {
		ct := s.t(cur)
		if seg.Field != "" {
			if ct.Kind != TyStruct && ct.Kind != TyUnion {
				return 0, false
			}
			if !s.completeType(cur, e.Mark) {
				return 0, false
			}
			f, fOff, ok := s.findMember(cur, seg.Field)
			if !ok {
				return 0, false
			}
			off += fOff
			cur = f.Type
		} else {
			if ct.Kind != TyArray || !s.completeType(cur, e.Mark) {
				return 0, false
			}
			idx, ok := s.constEval(seg.Index)
			if !ok {
				return 0, false
			}
			off += idx * s.t(ct.Elem).Size
			cur = ct.Elem
		}
	}
	return off, true
}

// truncateToType narrows a constant to the value range of an integer
// target type; non-integer targets are not constant-foldable here.
func truncateToType(v int64, t *Type) (int64, bool) {
	switch t.Kind {
	case TyBool:
		return boolToInt(v != 0), true
	case TySChar:
		return int64(int8(v)), true
	case TyUChar, TyChar:
		return int64(uint8(v)), true
	case TyShort:
		return int64(int16(v)), true
	case TyUShort:
		return int64(uint16(v)), true
	case TyInt, TyEnum:
		return int64(int32(v)), true
	case TyUInt:
		return int64(uint32(v)), true
	case TyLong, TyULong, TyLongLong, TyULongLong:
		return v, true
	}
	return 0, false
}

// exprResolvedType reads the ResolvedType a checker pass recorded on any
// expression node, without another type switch at every call site.
func exprResolvedType(e Expr) TypeID {
	switch n := e.(type) {
	case *IdentExpr:
		return n.ResolvedType
	case *IntLitExpr:
		return n.ResolvedType
	case *FloatLitExpr:
		return n.ResolvedType
	case *StringLitExpr:
		return n.ResolvedType
	case *CharLitExpr:
		return n.ResolvedType
	case *BinaryExpr:
		return n.ResolvedType
	case *UnaryExpr:
		return n.ResolvedType
	case *AssignExpr:
		return n.ResolvedType
	case *CondExpr:
		return n.ResolvedType
	case *CallExpr:
		return n.ResolvedType
	case *IndexExpr:
		return n.ResolvedType
	case *MemberExpr:
		return n.ResolvedType
	case *CastExpr:
		return n.ResolvedType
	case *SizeofExprNode:
		return n.ResolvedType
	case *SizeofTypeNode:
		return n.ResolvedType
	case *CommaExpr:
		return n.ResolvedType
	case *CompoundLitExpr:
		return n.ResolvedType
	case *OffsetofExpr:
		return n.ResolvedType
	case *VaBuiltinExpr:
		return n.ResolvedType
	}
	return InvalidID
}
