package cc

// typeName renders a type for diagnostics, compactly and without chasing
// into aggregate bodies.
func (s *Sema) typeName(id TypeID) string {
	if id == InvalidID {
		return "<error>"
	}
	t := s.t(id)
	switch t.Kind {
	case TyVoid:
		return "void"
	case TyBool:
		return "_Bool"
	case TySChar:
		return "signed char"
	case TyUChar:
		return "unsigned char"
	case TyChar:
		return "char"
	case TyShort:
		return "short"
	case TyUShort:
		return "unsigned short"
	case TyInt:
		return "int"
	case TyUInt:
		return "unsigned int"
	case TyLong:
		return "long"
	case TyULong:
		return "unsigned long"
	case TyLongLong:
		return "long long"
	case TyULongLong:
		return "unsigned long long"
	case TyFloat:
		return "float"
	case TyDouble:
		return "double"
	case TyLongDouble:
		return "long double"
	case TyVaList:
		return "va_list"
	case TyPointer:
		return s.typeName(t.Elem) + " *"
	case TyArray:
		return s.typeName(t.Elem) + " []"
	case TyFunction:
		return s.typeName(t.Return) + " ()"
	case TyStruct:
		return "struct " + tagOrAnon(t.Tag)
	case TyUnion:
		return "union " + tagOrAnon(t.Tag)
	case TyEnum:
		return "enum " + tagOrAnon(t.Tag)
	}
	return "<type>"
}

func tagOrAnon(tag string) string {
	if tag == "" {
		return "<anonymous>"
	}
	return tag
}

// typesEqual implements the equivalence relation of spec-level C: compound
// types are equivalent only as the same node, functions pairwise, arrays
// by element type with unknown lengths wild. Top-level qualifiers do not
// affect identity.
func (s *Sema) typesEqual(a, b TypeID) bool {
	if a == b {
		return true // singleton fast path
	}
	if a == InvalidID || b == InvalidID {
		return false
	}
	ta, tb := s.t(a), s.t(b)
	if ta.Kind != tb.Kind {
		return false
	}
	switch ta.Kind {
	case TyStruct, TyUnion, TyEnum:
		return false // not the same node
	case TyPointer:
		return s.typesEqual(ta.Elem, tb.Elem)
	case TyArray:
		if !s.typesEqual(ta.Elem, tb.Elem) {
			return false
		}
		return ta.ArrayLen < 0 || tb.ArrayLen < 0 || ta.ArrayLen == tb.ArrayLen
	case TyFunction:
		if !s.typesEqual(ta.Return, tb.Return) {
			return false
		}
		if len(ta.Params) != len(tb.Params) || ta.Variadic != tb.Variadic {
			return false
		}
		for i := range ta.Params {
			if !s.typesEqual(ta.Params[i], tb.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true // same primitive kind
	}
}

// decay converts arrays to element pointers and functions to function
// pointers, the adjustment every rvalue context applies.
func (s *Sema) decay(id TypeID) TypeID {
	if id == InvalidID {
		return id
	}
	t := s.t(id)
	switch t.Kind {
	case TyArray:
		return s.types.Pointer(t.Elem)
	case TyFunction:
		return s.types.Pointer(id)
	}
	return id
}

func (s *Sema) isPointerish(id TypeID) bool {
	if id == InvalidID {
		return false
	}
	k := s.t(id).Kind
	return k == TyPointer || k == TyArray
}

func (s *Sema) pointee(id TypeID) TypeID {
	return s.t(id).Elem
}

func (s *Sema) isVoidPtr(id TypeID) bool {
	t := s.t(id)
	return t.Kind == TyPointer && s.t(t.Elem).Kind == TyVoid
}

// condUsable reports whether a type may appear where a truth value is
// needed: numerics, enums, pointers, arrays, and functions all qualify.
func (s *Sema) condUsable(id TypeID) bool {
	if id == InvalidID {
		return true // already diagnosed
	}
	t := s.t(id)
	switch t.Kind {
	case TyArray, TyFunction, TyPointer:
		return true
	}
	return s.types.IsArithmetic(id)
}

// assignable checks whether an rvalue of `from` may initialize or be
// assigned to an lvalue of `to`, warning for the pointer/integer mixes C
// tolerates and erroring for the rest. Returns false only for the hard
// errors.
func (s *Sema) assignable(to, from TypeID, m Mark, what string) bool {
	if to == InvalidID || from == InvalidID {
		return true // already diagnosed upstream
	}
	from = s.decay(from)
	if s.typesEqual(to, from) {
		return true
	}
	tt, tf := s.t(to), s.t(from)
	if tf.Kind == TyVoid || tt.Kind == TyVoid {
		s.diag.Error(m, "void value not ignored in %s", what)
		return false
	}
	if s.types.IsArithmetic(to) && s.types.IsArithmetic(from) {
		return true
	}
	if tt.Kind == TyPointer && s.types.IsInteger(from) {
		s.diag.Warning(m, "%s makes pointer from integer without a cast", what)
		return true
	}
	if s.types.IsInteger(to) && tf.Kind == TyPointer {
		s.diag.Warning(m, "%s makes integer from pointer without a cast", what)
		return true
	}
	if tt.Kind == TyPointer && tf.Kind == TyPointer {
		if s.isVoidPtr(to) || s.isVoidPtr(from) {
			return true
		}
		if s.typesEqual(tt.Elem, tf.Elem) {
			return true
		}
		s.diag.Error(m, "incompatible pointer types in %s (%s from %s)", what, s.typeName(to), s.typeName(from))
		return false
	}
	if (tt.Kind == TyStruct || tt.Kind == TyUnion) && to != from {
		s.diag.Error(m, "incompatible %s types in %s", kindWord(tt.Kind), what)
		return false
	}
	s.diag.Error(m, "incompatible types in %s (%s from %s)", what, s.typeName(to), s.typeName(from))
	return false
}

// promote applies the integer promotions: anything ranked below int
// becomes int; enums become int.
func (s *Sema) promote(id TypeID) TypeID {
	if id == InvalidID {
		return id
	}
	if !s.types.IsInteger(id) {
		return id
	}
	t := s.t(id)
	if t.Kind == TyEnum || s.types.IntegerRank(id) < s.types.IntegerRank(s.types.Basic(TyInt)) {
		return s.types.Basic(TyInt)
	}
	return id
}

// commonArith is the usual-arithmetic-conversions result of a binary
// operator over two arithmetic operands: the "higher" of the two along the
// primitive rank ordering, unsigned winning ties.
func (s *Sema) commonArith(a, b TypeID) TypeID {
	for _, k := range []TypeKind{TyLongDouble, TyDouble, TyFloat} {
		if s.t(a).Kind == k || s.t(b).Kind == k {
			return s.types.Basic(k)
		}
	}
	a, b = s.promote(a), s.promote(b)
	ra, rb := s.types.IntegerRank(a), s.types.IntegerRank(b)
	switch {
	case ra > rb:
		return s.normalizeBasic(a)
	case rb > ra:
		return s.normalizeBasic(b)
	case s.types.IsUnsigned(a):
		return s.normalizeBasic(a)
	default:
		return s.normalizeBasic(b)
	}
}

// normalizeBasic maps a (possibly qualified) arithmetic type back onto its
// shared singleton so result types always compare pointer-equal.
func (s *Sema) normalizeBasic(id TypeID) TypeID {
	k := s.t(id).Kind
	if k == TyEnum {
		return s.types.Basic(TyInt)
	}
	return s.types.Basic(k)
}

// isLValue implements the lvalue classification: variable references,
// member accesses, indexing, dereferences, string literals, compound
// literals, increments of lvalues, and comma chains ending in one.
func (s *Sema) isLValue(id ExprID) bool {
	switch e := s.expr(id).(type) {
	case *IdentExpr:
		if e.Decl == InvalidID {
			return false
		}
		d := s.arena.Decl(e.Decl)
		if d.IsEnumerator {
			return false
		}
		return s.t(d.Type).Kind != TyFunction
	case *MemberExpr:
		if e.Arrow {
			return true
		}
		return s.isLValue(e.Base)
	case *IndexExpr:
		return true
	case *UnaryExpr:
		switch e.Op {
		case TokStar:
			return !e.Postfix
		case TokPlusPlus, TokMinusMinus:
			return s.isLValue(e.Operand)
		}
		return false
	case *CommaExpr:
		return s.isLValue(e.RHS)
	case *StringLitExpr, *CompoundLitExpr:
		return true
	}
	return false
}

// checkExpr types one expression subtree, returning its type (InvalidID
// after a reported error) and recording it on the node.
func (s *Sema) checkExpr(id ExprID) TypeID {
	if id == InvalidID {
		return InvalidID
	}
	switch e := s.expr(id).(type) {
	case *IdentExpr:
		return s.checkIdent(e)
	case *IntLitExpr:
		e.ResolvedType = s.intLitType(e)
		return e.ResolvedType
	case *FloatLitExpr:
		if e.Width == 32 {
			e.ResolvedType = s.types.Basic(TyFloat)
		} else {
			e.ResolvedType = s.types.Basic(TyDouble)
		}
		return e.ResolvedType
	case *CharLitExpr:
		e.ResolvedType = s.types.Basic(TyInt)
		return e.ResolvedType
	case *StringLitExpr:
		n := int64(len(e.Value) + 1) // NUL included
		arr := s.arena.NewType(&Type{
			Kind: TyArray, Elem: s.types.Basic(TyChar),
			ArrayLen: n, ArrayLenExpr: InvalidID,
			Size: n, Align: 1, Complete: true,
		})
		e.ResolvedType = arr
		return arr
	case *BinaryExpr:
		e.ResolvedType = s.checkBinary(e)
		return e.ResolvedType
	case *UnaryExpr:
		e.ResolvedType = s.checkUnary(e)
		return e.ResolvedType
	case *AssignExpr:
		e.ResolvedType = s.checkAssign(e)
		return e.ResolvedType
	case *CondExpr:
		e.ResolvedType = s.checkCond(e)
		return e.ResolvedType
	case *CallExpr:
		e.ResolvedType = s.checkCall(e)
		return e.ResolvedType
	case *IndexExpr:
		e.ResolvedType = s.checkIndex(e)
		return e.ResolvedType
	case *MemberExpr:
		e.ResolvedType = s.checkMember(e)
		return e.ResolvedType
	case *CastExpr:
		e.ResolvedType = s.checkCast(e)
		return e.ResolvedType
	case *SizeofExprNode:
		op := s.checkExpr(e.Operand)
		if op != InvalidID {
			t := s.t(op)
			if t.Kind == TyFunction {
				s.diag.Error(e.Mark, "invalid application of %q to a function type", sizeofWord(e.Alignof))
			} else {
				s.completeType(op, e.Mark)
			}
		}
		e.ResolvedType = s.types.Basic(TyULong)
		return e.ResolvedType
	case *SizeofTypeNode:
		if e.OperandType != InvalidID {
			t := s.t(e.OperandType)
			if t.Kind == TyFunction {
				s.diag.Error(e.Mark, "invalid application of %q to a function type", sizeofWord(e.Alignof))
			} else {
				s.completeType(e.OperandType, e.Mark)
			}
		}
		e.ResolvedType = s.types.Basic(TyULong)
		return e.ResolvedType
	case *CommaExpr:
		s.checkExpr(e.LHS)
		e.ResolvedType = s.checkExpr(e.RHS)
		return e.ResolvedType
	case *CompoundLitExpr:
		s.canonicalizeInit(e.TargetType, e.Init)
		s.completeType(e.TargetType, e.Mark)
		e.ResolvedType = e.TargetType
		return e.ResolvedType
	case *OffsetofExpr:
		e.ResolvedType = s.checkOffsetof(e)
		return e.ResolvedType
	case *VaBuiltinExpr:
		e.ResolvedType = s.checkVaBuiltin(e)
		return e.ResolvedType
	}
	return InvalidID
}

func sizeofWord(alignof bool) string {
	if alignof {
		return "_Alignof"
	}
	return "sizeof"
}

func (s *Sema) checkIdent(e *IdentExpr) TypeID {
	if e.Decl == InvalidID {
		s.diag.Error(e.Mark, "undeclared identifier %q", e.Name)
		e.ResolvedType = InvalidID
		return InvalidID
	}
	d := s.arena.Decl(e.Decl)
	if d.IsEnumerator {
		s.ensureEnumComplete(d.Type, e.Mark)
		e.ResolvedType = s.types.Basic(TyInt)
		e.IsLValue = false
		return e.ResolvedType
	}
	e.ResolvedType = d.Type
	e.IsLValue = s.t(d.Type).Kind != TyFunction
	return d.Type
}

// intLitType picks the type of an integer constant: int if it fits, else
// long, else unsigned long with a warning, honoring u/l suffixes.
func (s *Sema) intLitType(e *IntLitExpr) TypeID {
	switch {
	case e.Unsigned && e.Width == 64:
		return s.types.Basic(TyULong)
	case e.Unsigned:
		if e.Value > 1<<32-1 {
			return s.types.Basic(TyULong)
		}
		return s.types.Basic(TyUInt)
	case e.Width == 64:
		if e.Value > 1<<63-1 {
			s.diag.Warning(e.Mark, "integer constant is so large that it is unsigned")
			return s.types.Basic(TyULong)
		}
		return s.types.Basic(TyLong)
	default:
		if e.Value <= 1<<31-1 {
			return s.types.Basic(TyInt)
		}
		if e.Value <= 1<<63-1 {
			return s.types.Basic(TyLong)
		}
		s.diag.Warning(e.Mark, "integer constant is so large that it is unsigned")
		return s.types.Basic(TyULong)
	}
}

func (s *Sema) checkBinary(e *BinaryExpr) TypeID {
	lt := s.checkExpr(e.LHS)
	rt := s.checkExpr(e.RHS)
	if lt == InvalidID || rt == InvalidID {
		return InvalidID
	}
	ld, rd := s.decay(lt), s.decay(rt)
	lp := s.t(ld).Kind == TyPointer
	rp := s.t(rd).Kind == TyPointer
	la := s.types.IsArithmetic(ld)
	ra := s.types.IsArithmetic(rd)

	switch e.Op {
	case TokPlus:
		switch {
		case la && ra:
			return s.commonArith(ld, rd)
		case lp && s.types.IsInteger(rd):
			return ld
		case rp && s.types.IsInteger(ld):
			return rd
		}
	case TokMinus:
		switch {
		case la && ra:
			return s.commonArith(ld, rd)
		case lp && s.types.IsInteger(rd):
			return ld
		case lp && rp:
			if !s.typesEqual(s.pointee(ld), s.pointee(rd)) {
				s.diag.Error(e.Mark, "subtraction of pointers to incompatible types")
				return InvalidID
			}
			return s.types.Basic(TyULong) // size_t
		}
	case TokStar, TokSlash:
		if la && ra {
			return s.commonArith(ld, rd)
		}
	case TokPercent, TokShl, TokShr, TokAmp, TokCaret, TokPipe:
		if s.types.IsInteger(ld) && s.types.IsInteger(rd) {
			if e.Op == TokShl || e.Op == TokShr {
				return s.promote(ld)
			}
			return s.commonArith(ld, rd)
		}
	case TokEq, TokNe, TokLt, TokGt, TokLe, TokGe:
		switch {
		case la && ra:
			return s.types.Basic(TyBool)
		case lp && rp:
			if !s.typesEqual(s.pointee(ld), s.pointee(rd)) && !s.isVoidPtr(ld) && !s.isVoidPtr(rd) {
				s.diag.Warning(e.Mark, "comparison of distinct pointer types")
			}
			return s.types.Basic(TyBool)
		case (lp && s.types.IsInteger(rd)) || (rp && s.types.IsInteger(ld)):
			s.diag.Warning(e.Mark, "comparison between pointer and integer")
			return s.types.Basic(TyBool)
		}
	case TokAndAnd, TokOrOr:
		if s.condUsable(ld) && s.condUsable(rd) {
			return s.types.Basic(TyBool)
		}
	}
	s.diag.Error(e.Mark, "invalid operands to binary %q (%s and %s)", opText(e.Op), s.typeName(lt), s.typeName(rt))
	return InvalidID
}

// opText recovers the printable spelling of an operator token for
// diagnostics.
func opText(k TokenKind) string {
	switch k {
	case TokPlus:
		return "+"
	case TokMinus:
		return "-"
	case TokStar:
		return "*"
	case TokSlash:
		return "/"
	case TokPercent:
		return "%"
	case TokShl:
		return "<<"
	case TokShr:
		return ">>"
	case TokAmp:
		return "&"
	case TokCaret:
		return "^"
	case TokPipe:
		return "|"
	case TokEq:
		return "=="
	case TokNe:
		return "!="
	case TokLt:
		return "<"
	case TokGt:
		return ">"
	case TokLe:
		return "<="
	case TokGe:
		return ">="
	case TokAndAnd:
		return "&&"
	case TokOrOr:
		return "||"
	case TokNot:
		return "!"
	case TokTilde:
		return "~"
	case TokPlusPlus:
		return "++"
	case TokMinusMinus:
		return "--"
	}
	return "?"
}

func (s *Sema) checkUnary(e *UnaryExpr) TypeID {
	ot := s.checkExpr(e.Operand)
	if ot == InvalidID {
		return InvalidID
	}
	switch e.Op {
	case TokPlusPlus, TokMinusMinus:
		if !s.isLValue(e.Operand) {
			s.diag.Error(e.Mark, "lvalue required as %s operand", opText(e.Op))
			return InvalidID
		}
		od := s.decay(ot)
		if !s.types.IsArithmetic(od) && s.t(od).Kind != TyPointer {
			s.diag.Error(e.Mark, "wrong type argument to %s", opText(e.Op))
			return InvalidID
		}
		return ot
	case TokAmp:
		if !s.isLValue(e.Operand) && s.t(ot).Kind != TyFunction {
			s.diag.Error(e.Mark, "lvalue required as unary %q operand", "&")
			return InvalidID
		}
		return s.types.Pointer(ot)
	case TokStar:
		od := s.decay(ot)
		if s.t(od).Kind != TyPointer {
			s.diag.Error(e.Mark, "invalid type argument of unary %q (have %s)", "*", s.typeName(ot))
			return InvalidID
		}
		base := s.pointee(od)
		bt := s.t(base)
		if bt.Kind == TyVoid {
			s.diag.Warning(e.Mark, "dereferencing %q pointer", "void *")
			return base
		}
		if (bt.Kind == TyStruct || bt.Kind == TyUnion) && !bt.Complete {
			s.diag.Error(e.Mark, "dereferencing pointer to incomplete type %s", s.typeName(base))
			return InvalidID
		}
		return base
	case TokNot:
		if !s.condUsable(s.decay(ot)) {
			s.diag.Error(e.Mark, "wrong type argument to unary %q", "!")
			return InvalidID
		}
		return s.types.Basic(TyBool)
	case TokTilde:
		if !s.types.IsInteger(ot) {
			s.diag.Error(e.Mark, "wrong type argument to unary %q", "~")
			return InvalidID
		}
		return s.promote(ot)
	case TokPlus, TokMinus:
		if !s.types.IsArithmetic(ot) {
			s.diag.Error(e.Mark, "wrong type argument to unary %q", opText(e.Op))
			return InvalidID
		}
		return s.promote(ot)
	}
	return InvalidID
}

func (s *Sema) checkAssign(e *AssignExpr) TypeID {
	lt := s.checkExpr(e.LHS)
	rt := s.checkExpr(e.RHS)
	if lt == InvalidID || rt == InvalidID {
		return InvalidID
	}
	if !s.isLValue(e.LHS) {
		s.diag.Error(e.Mark, "lvalue required as left operand of assignment")
		return InvalidID
	}
	if s.t(lt).Qualifiers.Has(QualConst) {
		s.diag.Error(e.Mark, "assignment of read-only location")
	}
	if e.Op == TokAssign {
		s.assignable(lt, rt, e.Mark, "assignment")
		return s.normalizeResult(lt)
	}
	// Compound assignment: the implied binary operator must accept the
	// operand pair. Scalar-ness covers the pointer += integer cases.
	ld, rd := s.decay(lt), s.decay(rt)
	if !s.types.IsScalar(ld) || !s.types.IsScalar(rd) {
		s.diag.Error(e.Mark, "invalid operands to compound assignment")
		return InvalidID
	}
	return s.normalizeResult(lt)
}

// normalizeResult strips qualifiers off an assignment's result type by
// mapping primitives back to their singletons; compound lvalues keep their
// node.
func (s *Sema) normalizeResult(id TypeID) TypeID {
	t := s.t(id)
	switch t.Kind {
	case TyStruct, TyUnion, TyEnum, TyPointer, TyArray, TyFunction, TyVaList:
		return id
	}
	return s.types.Basic(t.Kind)
}

func (s *Sema) checkCond(e *CondExpr) TypeID {
	ct := s.checkExpr(e.Cond)
	if ct != InvalidID && !s.condUsable(s.decay(ct)) {
		s.diag.Error(e.Mark, "used %s value where scalar is required", s.typeName(ct))
	}
	tt := s.checkExpr(e.Then)
	et := s.checkExpr(e.Else)
	if tt == InvalidID || et == InvalidID {
		return InvalidID
	}
	td, ed := s.decay(tt), s.decay(et)
	switch {
	case s.typesEqual(td, ed):
		return td
	case s.types.IsArithmetic(td) && s.types.IsArithmetic(ed):
		return s.commonArith(td, ed)
	case s.t(td).Kind == TyPointer && s.t(ed).Kind == TyPointer:
		if s.isVoidPtr(td) {
			return ed
		}
		if s.isVoidPtr(ed) {
			return td
		}
		if s.typesEqual(s.pointee(td), s.pointee(ed)) {
			return td
		}
		s.diag.Warning(e.Mark, "pointer type mismatch in conditional expression")
		return td
	case s.t(td).Kind == TyPointer && s.types.IsInteger(ed):
		return td // likely a null constant
	case s.t(ed).Kind == TyPointer && s.types.IsInteger(td):
		return ed
	case s.t(td).Kind == TyVoid && s.t(ed).Kind == TyVoid:
		return td
	}
	s.diag.Error(e.Mark, "type mismatch in conditional expression (%s and %s)", s.typeName(tt), s.typeName(et))
	return InvalidID
}

func (s *Sema) checkCall(e *CallExpr) TypeID {
	ct := s.checkExpr(e.Callee)
	if ct == InvalidID {
		for _, a := range e.Args {
			s.checkExpr(a)
		}
		return InvalidID
	}
	ft := ct
	if s.t(ft).Kind == TyPointer {
		ft = s.pointee(ft)
	}
	if s.t(ft).Kind != TyFunction {
		s.diag.Error(e.Mark, "called object is not a function or function pointer")
		for _, a := range e.Args {
			s.checkExpr(a)
		}
		return InvalidID
	}
	fn := s.t(ft)
	switch {
	case fn.Variadic && len(e.Args) < len(fn.Params):
		s.diag.Error(e.Mark, "too few arguments to variadic function (expected at least %d, have %d)", len(fn.Params), len(e.Args))
	case !fn.Variadic && len(e.Args) != len(fn.Params):
		s.diag.Error(e.Mark, "wrong number of arguments (expected %d, have %d)", len(fn.Params), len(e.Args))
	}
	for i, a := range e.Args {
		at := s.checkExpr(a)
		if i < len(fn.Params) && at != InvalidID {
			s.assignable(fn.Params[i], at, s.exprMark(a), "argument passing")
		}
	}
	return fn.Return
}

func (s *Sema) checkIndex(e *IndexExpr) TypeID {
	bt := s.checkExpr(e.Base)
	it := s.checkExpr(e.Index)
	if bt == InvalidID || it == InvalidID {
		return InvalidID
	}
	bd, id := s.decay(bt), s.decay(it)
	// C allows `2[a]` as well as `a[2]`.
	if s.t(bd).Kind != TyPointer && s.t(id).Kind == TyPointer {
		bd, id = id, bd
	}
	if s.t(bd).Kind != TyPointer {
		s.diag.Error(e.Mark, "subscripted value is neither array nor pointer")
		return InvalidID
	}
	if !s.types.IsInteger(id) {
		s.diag.Error(e.Mark, "array subscript is not an integer")
		return InvalidID
	}
	return s.pointee(bd)
}

func (s *Sema) checkMember(e *MemberExpr) TypeID {
	bt := s.checkExpr(e.Base)
	if bt == InvalidID {
		return InvalidID
	}
	target := bt
	if e.Arrow {
		bd := s.decay(bt)
		if s.t(bd).Kind != TyPointer {
			s.diag.Error(e.Mark, "invalid type argument of %q (have %s)", "->", s.typeName(bt))
			return InvalidID
		}
		target = s.pointee(bd)
	}
	tt := s.t(target)
	if tt.Kind != TyStruct && tt.Kind != TyUnion {
		s.diag.Error(e.Mark, "request for member %q in something not a structure or union", e.Field)
		return InvalidID
	}
	if !s.completeType(target, e.Mark) {
		return InvalidID
	}
	f, _, ok := s.findMember(target, e.Field)
	if !ok {
		s.diag.Error(e.Mark, "%s has no member named %q", s.typeName(target), e.Field)
		return InvalidID
	}
	return f.Type
}

func (s *Sema) checkCast(e *CastExpr) TypeID {
	ot := s.checkExpr(e.Operand)
	if e.TargetType == InvalidID {
		return InvalidID
	}
	tt := s.t(e.TargetType)
	if tt.Kind == TyVoid {
		return e.TargetType
	}
	if ot != InvalidID {
		od := s.decay(ot)
		targetScalar := s.types.IsScalar(e.TargetType) || tt.Kind == TyPointer
		operandScalar := s.types.IsScalar(od) || s.t(od).Kind == TyPointer
		if !targetScalar || !operandScalar {
			if !s.typesEqual(e.TargetType, od) {
				s.diag.Error(e.Mark, "conversion to non-scalar type requested")
				return InvalidID
			}
		}
	}
	return e.TargetType
}

func (s *Sema) checkOffsetof(e *OffsetofExpr) TypeID {
	if e.TargetType == InvalidID {
		return InvalidID
	}
	t := s.t(e.TargetType)
	if t.Kind != TyStruct && t.Kind != TyUnion {
		s.diag.Error(e.Mark, "offsetof requires a struct or union type")
		return InvalidID
	}
	if !s.completeType(e.TargetType, e.Mark) {
		return InvalidID
	}
	cur := e.TargetType
	for _, seg := range e.Path {
		ct := s.t(cur)
		if seg.Field != "" {
			if ct.Kind != TyStruct && ct.Kind != TyUnion {
				s.diag.Error(e.Mark, "offsetof member %q is not in a struct or union", seg.Field)
				return InvalidID
			}
			if !s.completeType(cur, e.Mark) {
				return InvalidID
			}
			f, _, ok := s.findMember(cur, seg.Field)
			if !ok {
				s.diag.Error(e.Mark, "%s has no member named %q", s.typeName(cur), seg.Field)
				return InvalidID
			}
			cur = f.Type
		} else {
			if ct.Kind != TyArray {
				s.diag.Error(e.Mark, "offsetof subscript applied to a non-array member")
				return InvalidID
			}
			s.checkExpr(seg.Index)
			cur = ct.Elem
		}
	}
	return s.types.Basic(TyULong) // size_t
}

func (s *Sema) checkVaBuiltin(e *VaBuiltinExpr) TypeID {
	apType := s.checkExpr(e.Ap)
	if apType != InvalidID && s.t(apType).Kind != TyVaList {
		s.diag.Error(e.Mark, "first argument must be of type va_list")
	}
	switch e.Which {
	case TokBuiltinVaStart:
		s.checkExpr(e.Arg)
		if !s.isLastNamedParam(e.Arg) {
			s.diag.Error(e.Mark, "second argument of va_start must be the last named parameter")
		}
		return s.types.Basic(TyVoid)
	case TokBuiltinVaArg:
		if e.ArgType == InvalidID {
			return InvalidID
		}
		s.completeType(e.ArgType, e.Mark)
		return e.ArgType
	case TokBuiltinVaCopy:
		at := s.checkExpr(e.Arg)
		if at != InvalidID && s.t(at).Kind != TyVaList {
			s.diag.Error(e.Mark, "second argument of va_copy must be of type va_list")
		}
		return s.types.Basic(TyVoid)
	default: // va_end
		return s.types.Basic(TyVoid)
	}
}

// isLastNamedParam reports whether id is a plain reference to the current
// function's final named parameter, the operand va_start requires.
func (s *Sema) isLastNamedParam(id ExprID) bool {
	if len(s.curParams) == 0 {
		return false
	}
	ref, ok := s.expr(id).(*IdentExpr)
	if !ok {
		return false
	}
	return ref.Decl == s.curParams[len(s.curParams)-1]
}
