package cc

// StorageClass is a declaration's storage-class specifier, C11 6.7.1.
type StorageClass int

const (
	StorageNone StorageClass = iota
	StorageExtern
	StorageStatic
	StorageAuto
	StorageRegister
	StorageTypedef
)

// Decl is a finished declaration: a name bound to a fully-resolved type,
// independent of whether it's a local variable, a parameter, a typedef
// entry, or a global (GlobalDecl wraps a Decl for those that need a
// function body or file scope).
type Decl struct {
	Name    string
	Mark    Mark
	Type    TypeID
	Storage StorageClass
	Inline  bool

	Init     ExprID    // InvalidID unless there's a scalar initializer
	InitList *InitItem // non-nil for a brace-enclosed initializer
	Alignas  ExprID    // _Alignas operand; InvalidID when absent

	// IsParam marks a function parameter's Decl; the parser sets it and the
	// checker does not read it.
	IsParam bool

	// Enumerator constants are modeled as Decls so that an IdentExpr can
	// bind to one the same way it binds to a variable; EnumValue is filled
	// in when the owning enum type is completed by the analyzer.
	IsEnumerator bool
	EnumValue    int64
}
