package cc

// Expr is the tagged-variant expression node: every concrete expression
// type implements Accept so a pass (sema_type.go's checker, ast_printer.go's
// dumper) can dispatch on the real shape without a type switch sprawled
// through the whole codebase. Children are referenced by ExprID, not by Go
// pointer, so an Expr value is self-contained and safe to copy.
type Expr interface {
	Accept(v ExprVisitor) any
	exprMark() Mark
}

// ExprVisitor is implemented once per pass over expressions.
type ExprVisitor interface {
	VisitIdent(*IdentExpr) any
	VisitIntLit(*IntLitExpr) any
	VisitFloatLit(*FloatLitExpr) any
	VisitStringLit(*StringLitExpr) any
	VisitCharLit(*CharLitExpr) any
	VisitBinary(*BinaryExpr) any
	VisitUnary(*UnaryExpr) any
	VisitAssign(*AssignExpr) any
	VisitCond(*CondExpr) any
	VisitCall(*CallExpr) any
	VisitIndex(*IndexExpr) any
	VisitMember(*MemberExpr) any
	VisitCast(*CastExpr) any
	VisitSizeofExpr(*SizeofExprNode) any
	VisitSizeofType(*SizeofTypeNode) any
	VisitComma(*CommaExpr) any
	VisitCompoundLit(*CompoundLitExpr) any
	VisitOffsetof(*OffsetofExpr) any
	VisitVaBuiltin(*VaBuiltinExpr) any
}

type IdentExpr struct {
	Mark Mark
	Name string
	Sym  *Symbol

	ResolvedType TypeID
	Decl         DeclID
	IsLValue     bool
}

type IntLitExpr struct {
	Mark         Mark
	Value        uint64
	Unsigned     bool
	Width        int // 32 or 64, from the literal's l/ll suffix
	ResolvedType TypeID
}

type FloatLitExpr struct {
	Mark         Mark
	Value        float64
	Width        int // 32 for an f suffix, else 64
	ResolvedType TypeID
}

type StringLitExpr struct {
	Mark         Mark
	Value        []byte
	ResolvedType TypeID
}

type CharLitExpr struct {
	Mark         Mark
	Value        int64
	ResolvedType TypeID
}

// BinaryExpr covers every non-assigning binary operator: arithmetic,
// comparison, bitwise, and the short-circuiting `&&`/`||`.
type BinaryExpr struct {
	Mark         Mark
	Op           TokenKind
	LHS, RHS     ExprID
	ResolvedType TypeID
}

// UnaryExpr covers prefix `- + ! ~ * & ++ --` and postfix `++ --`
// (distinguished by Postfix); `sizeof expr` and `sizeof(type)` are their
// own node kinds below since they have different child shapes.
type UnaryExpr struct {
	Mark         Mark
	Op           TokenKind
	Operand      ExprID
	Postfix      bool
	ResolvedType TypeID
}

// AssignExpr covers `=` and the compound assignment operators
// (`+=`, `-=`, ...); Op is the token the parser saw, which sema_type.go's
// checkAssign uses to tell plain `=` from a compound form.
type AssignExpr struct {
	Mark         Mark
	Op           TokenKind
	LHS, RHS     ExprID
	ResolvedType TypeID
}

type CondExpr struct {
	Mark             Mark
	Cond, Then, Else ExprID
	ResolvedType     TypeID
}

type CallExpr struct {
	Mark         Mark
	Callee       ExprID
	Args         []ExprID
	ResolvedType TypeID
}

type IndexExpr struct {
	Mark         Mark
	Base, Index  ExprID
	ResolvedType TypeID
}

type MemberExpr struct {
	Mark         Mark
	Base         ExprID
	Field        string
	Arrow        bool // `->` vs `.`
	ResolvedType TypeID
}

type CastExpr struct {
	Mark         Mark
	TargetType   TypeID
	Operand      ExprID
	ResolvedType TypeID
}

// SizeofExprNode/SizeofTypeNode also carry `_Alignof`, which shares the
// operand shapes of `sizeof` and differs only in which cached layout
// number it reads.
type SizeofExprNode struct {
	Mark         Mark
	Operand      ExprID
	Alignof      bool
	ResolvedType TypeID
}

type SizeofTypeNode struct {
	Mark         Mark
	OperandType  TypeID
	Alignof      bool
	ResolvedType TypeID
}

// CommaExpr is the sequencing operator `a, b` (not a call/declarator
// argument separator, which the parser never builds a node for).
type CommaExpr struct {
	Mark         Mark
	LHS, RHS     ExprID
	ResolvedType TypeID
}

// CompoundLitExpr is `(T){...}`: a parenthesized type name followed by a
// brace-enclosed initializer. The initializer is canonicalized in place by
// the analyzer exactly like a declaration's.
type CompoundLitExpr struct {
	Mark         Mark
	TargetType   TypeID
	Init         *InitItem
	ResolvedType TypeID
}

// OffsetofSeg is one step of an offsetof member path: `.name` or
// `[index]`.
type OffsetofSeg struct {
	Field string
	Index ExprID // InvalidID unless this segment is an array subscript
}

// OffsetofExpr is `__builtin_offsetof(T, a.b[2].c)`.
type OffsetofExpr struct {
	Mark         Mark
	TargetType   TypeID
	Path         []OffsetofSeg
	ResolvedType TypeID
}

// VaBuiltinExpr covers __builtin_va_start/va_arg/va_end/va_copy. Which is
// the builtin's keyword token. Ap is the va_list operand; Arg is the second
// expression operand where one exists (va_start's last-parameter reference,
// va_copy's source); ArgType is va_arg's requested type.
type VaBuiltinExpr struct {
	Mark         Mark
	Which        TokenKind
	Ap           ExprID
	Arg          ExprID // InvalidID when the form has no second expression
	ArgType      TypeID // va_arg only
	ResolvedType TypeID
}

func (e *IdentExpr) exprMark() Mark       { return e.Mark }
func (e *IntLitExpr) exprMark() Mark      { return e.Mark }
func (e *FloatLitExpr) exprMark() Mark    { return e.Mark }
func (e *StringLitExpr) exprMark() Mark   { return e.Mark }
func (e *CharLitExpr) exprMark() Mark     { return e.Mark }
func (e *BinaryExpr) exprMark() Mark      { return e.Mark }
func (e *UnaryExpr) exprMark() Mark       { return e.Mark }
func (e *AssignExpr) exprMark() Mark      { return e.Mark }
func (e *CondExpr) exprMark() Mark        { return e.Mark }
func (e *CallExpr) exprMark() Mark        { return e.Mark }
func (e *IndexExpr) exprMark() Mark       { return e.Mark }
func (e *MemberExpr) exprMark() Mark      { return e.Mark }
func (e *CastExpr) exprMark() Mark        { return e.Mark }
func (e *SizeofExprNode) exprMark() Mark  { return e.Mark }
func (e *SizeofTypeNode) exprMark() Mark  { return e.Mark }
func (e *CommaExpr) exprMark() Mark       { return e.Mark }
func (e *CompoundLitExpr) exprMark() Mark { return e.Mark }
func (e *OffsetofExpr) exprMark() Mark    { return e.Mark }
func (e *VaBuiltinExpr) exprMark() Mark   { return e.Mark }

func (e *IdentExpr) Accept(v ExprVisitor) any      { return v.VisitIdent(e) }
func (e *IntLitExpr) Accept(v ExprVisitor) any     { return v.VisitIntLit(e) }
func (e *FloatLitExpr) Accept(v ExprVisitor) any   { return v.VisitFloatLit(e) }
func (e *StringLitExpr) Accept(v ExprVisitor) any  { return v.VisitStringLit(e) }
func (e *CharLitExpr) Accept(v ExprVisitor) any    { return v.VisitCharLit(e) }
func (e *BinaryExpr) Accept(v ExprVisitor) any     { return v.VisitBinary(e) }
func (e *UnaryExpr) Accept(v ExprVisitor) any      { return v.VisitUnary(e) }
func (e *AssignExpr) Accept(v ExprVisitor) any     { return v.VisitAssign(e) }
func (e *CondExpr) Accept(v ExprVisitor) any       { return v.VisitCond(e) }
func (e *CallExpr) Accept(v ExprVisitor) any       { return v.VisitCall(e) }
func (e *IndexExpr) Accept(v ExprVisitor) any      { return v.VisitIndex(e) }
func (e *MemberExpr) Accept(v ExprVisitor) any     { return v.VisitMember(e) }
func (e *CastExpr) Accept(v ExprVisitor) any       { return v.VisitCast(e) }
func (e *SizeofExprNode) Accept(v ExprVisitor) any  { return v.VisitSizeofExpr(e) }
func (e *SizeofTypeNode) Accept(v ExprVisitor) any  { return v.VisitSizeofType(e) }
func (e *CommaExpr) Accept(v ExprVisitor) any       { return v.VisitComma(e) }
func (e *CompoundLitExpr) Accept(v ExprVisitor) any { return v.VisitCompoundLit(e) }
func (e *OffsetofExpr) Accept(v ExprVisitor) any    { return v.VisitOffsetof(e) }
func (e *VaBuiltinExpr) Accept(v ExprVisitor) any   { return v.VisitVaBuiltin(e) }
