package cc

// GlobalKind tags a top-level declaration. Non-goals keep this front end
// from ever needing more than these five shapes.
type GlobalKind int

const (
	GlobalVarDecl GlobalKind = iota
	GlobalFuncDecl
	GlobalFuncDef
	GlobalTypedef
	GlobalTagOnly // `struct Foo;` with no declarator
)

// GlobalDecl is one file-scope declaration. D is InvalidID only for
// GlobalTagOnly, which introduces a tag without naming anything.
type GlobalDecl struct {
	Kind GlobalKind
	Mark Mark
	D    DeclID

	Params []DeclID // GlobalFuncDef/GlobalFuncDecl: parameter Decls, in order
	Body   StmtID   // GlobalFuncDef only: the function's CompoundStmt

	TagType TypeID // GlobalTagOnly only
}
