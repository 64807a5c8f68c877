package cc

// Symbol is an interned name: identifiers and string-literal bytes are
// interned once per translation unit so that equality is a pointer/int
// comparison and the lexer can discover keyword-ness by table lookup
// instead of a chain of string compares.
type Symbol struct {
	ID   int
	Name string
}

// SymTab interns identifier and string-literal text for one translation
// unit. It is pre-seeded with the C keyword set at construction, exactly as
// spec.md section 3 describes: "the keyword table is pre-seeded so the
// lexer discovers keyword-ness by lookup."
type SymTab struct {
	byName map[string]*Symbol
	all    []*Symbol
	kinds  map[int]TokenKind
}

func NewSymTab() *SymTab {
	st := &SymTab{
		byName: map[string]*Symbol{},
		kinds:  map[int]TokenKind{},
	}
	for word, kind := range keywords {
		sym := st.intern(word)
		st.kinds[sym.ID] = kind
	}
	return st
}

// Intern returns the Symbol for name, creating it if this is the first
// occurrence.
func (st *SymTab) Intern(name string) *Symbol { return st.intern(name) }

func (st *SymTab) intern(name string) *Symbol {
	if sym, ok := st.byName[name]; ok {
		return sym
	}
	sym := &Symbol{ID: len(st.all), Name: name}
	st.byName[name] = sym
	st.all = append(st.all, sym)
	return sym
}

// KeywordKind returns the TokenKind a previously-interned symbol was seeded
// with, and whether it is a keyword at all. Looked up by the lexer after
// interning every identifier, per spec.md section 4.3.
func (st *SymTab) KeywordKind(sym *Symbol) (TokenKind, bool) {
	kind, ok := st.kinds[sym.ID]
	return kind, ok
}

// keywords is the C keyword table the SymTab is pre-seeded with. It
// includes the C11 keywords the parser recognizes lexically even when (per
// spec.md's non-goals) it does not fully implement their semantics, e.g.
// `_Generic` and `_Thread_local`.
var keywords = map[string]TokenKind{
	"auto":               TokAuto,
	"break":              TokBreak,
	"case":               TokCase,
	"char":               TokChar,
	"const":              TokConst,
	"continue":           TokContinue,
	"default":            TokDefault,
	"do":                 TokDo,
	"double":             TokDouble,
	"else":               TokElse,
	"enum":               TokEnum,
	"extern":             TokExtern,
	"float":              TokFloat,
	"for":                TokFor,
	"goto":               TokGoto,
	"if":                 TokIf,
	"inline":             TokInline,
	"int":                TokInt,
	"long":               TokLong,
	"register":           TokRegister,
	"restrict":           TokRestrict,
	"return":             TokReturn,
	"short":              TokShort,
	"signed":             TokSigned,
	"sizeof":             TokSizeof,
	"static":             TokStatic,
	"struct":             TokStruct,
	"switch":             TokSwitch,
	"typedef":            TokTypedef,
	"union":              TokUnion,
	"unsigned":           TokUnsigned,
	"void":               TokVoid,
	"volatile":           TokVolatile,
	"while":              TokWhile,
	"_Bool":              TokBool,
	"_Complex":           TokComplex,
	"_Alignas":           TokAlignas,
	"_Alignof":           TokAlignof,
	"_Atomic":            TokAtomic,
	"_Generic":           TokGeneric,
	"_Noreturn":          TokNoreturn,
	"_Static_assert":     TokStaticAssert,
	"_Thread_local":      TokThreadLocal,
	"__builtin_offsetof": TokBuiltinOffsetof,
	"__builtin_va_start": TokBuiltinVaStart,
	"__builtin_va_arg":   TokBuiltinVaArg,
	"__builtin_va_end":   TokBuiltinVaEnd,
	"__builtin_va_copy":  TokBuiltinVaCopy,
	"va_list":            TokVaList,
}
