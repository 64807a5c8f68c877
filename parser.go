package cc

// Parser is a recursive-descent parser with one token of lookahead. The
// one piece of context-sensitivity C's grammar needs — telling an
// identifier used as a typedef name apart from an ordinary identifier — is
// resolved by consulting the scope stack below rather than by backtracking
// or a separate symbol pass, the same way a hand-written C parser always
// has to.
type Parser struct {
	lx    *Lexer
	diag  Reporter
	arena *Arena
	types *TypeTable
	syms  *SymTab

	tok        Token
	ahead      Token
	aheadValid bool

	scopes []*scope

	// staticAsserts queues every `_Static_assert` seen anywhere in the
	// translation unit for the analyzer, which owns constant evaluation.
	staticAsserts []StaticAssert

	// declParams collects the parameter Decls of the outermost function
	// declarator most recently parsed, so parseExternalDecl can install
	// them into the body scope of a function definition. Goto/label
	// resolution itself runs in the analyzer, after parsing: a `goto` can
	// name a label defined later in the same function.
	declParams []DeclID
}

// scopeEntry records what an identifier currently names in the ordinary
// identifier namespace: a typedef, or an in-scope declaration.
type scopeEntry struct {
	isTypedef bool
	typeID    TypeID
	declID    DeclID
}

type scope struct {
	names map[string]*scopeEntry
}

func NewParser(lx *Lexer, diag Reporter, arena *Arena, types *TypeTable, syms *SymTab) *Parser {
	p := &Parser{lx: lx, diag: diag, arena: arena, types: types, syms: syms}
	p.pushScope()
	p.advance()
	return p
}

func (p *Parser) pushScope() {
	p.scopes = append(p.scopes, &scope{names: map[string]*scopeEntry{}})
	p.types.PushScope()
}

func (p *Parser) popScope() {
	p.scopes = p.scopes[:len(p.scopes)-1]
	p.types.PopScope()
}

func (p *Parser) declareTypedef(name string, ty TypeID) {
	top := p.scopes[len(p.scopes)-1]
	top.names[name] = &scopeEntry{isTypedef: true, typeID: ty}
}

func (p *Parser) declareOrdinary(name string, id DeclID) {
	top := p.scopes[len(p.scopes)-1]
	top.names[name] = &scopeEntry{declID: id}
}

func (p *Parser) lookup(name string) (*scopeEntry, bool) {
	for i := len(p.scopes) - 1; i >= 0; i-- {
		if e, ok := p.scopes[i].names[name]; ok {
			return e, true
		}
	}
	return nil, false
}

// isTypedefName reports whether name currently names a typedef, which is
// what lets the declaration-specifier parser in parser_decl.go decide
// whether a bare identifier starts a new declaration.
func (p *Parser) isTypedefName(name string) (TypeID, bool) {
	if e, ok := p.lookup(name); ok && e.isTypedef {
		return e.typeID, true
	}
	return 0, false
}

func (p *Parser) advance() {
	if p.aheadValid {
		p.tok = p.ahead
		p.aheadValid = false
		return
	}
	p.tok = p.lx.Next()
}

// peek returns the token after the current one without consuming anything,
// the one-token lookahead spec.md section 4.4 allows the parser.
func (p *Parser) peek() Token {
	if !p.aheadValid {
		p.ahead = p.lx.Next()
		p.aheadValid = true
	}
	return p.ahead
}

func (p *Parser) at(k TokenKind) bool { return p.tok.Kind == k }

func (p *Parser) accept(k TokenKind) bool {
	if p.tok.Kind == k {
		p.advance()
		return true
	}
	return false
}

func (p *Parser) expect(k TokenKind) Token {
	tok := p.tok
	if tok.Kind != k {
		p.diag.Error(tok.Mark, "unexpected token %q", tok.Text)
		return tok
	}
	p.advance()
	return tok
}

// ParseTranslationUnit parses the whole token stream as a sequence of
// top-level declarations and function definitions.
func (p *Parser) ParseTranslationUnit() []*GlobalDecl {
	for !p.at(TokEOF) {
		p.parseExternalDecl()
	}
	return p.arena.Globals()
}

// StaticAsserts returns every `_Static_assert` collected while parsing, in
// source order, for the analyzer to evaluate.
func (p *Parser) StaticAsserts() []StaticAssert { return p.staticAsserts }

// skipToSemiOrBrace performs the parser's error recovery: on a malformed
// top-level construct, it discards tokens up to the next statement/
// declaration boundary so one bad declaration doesn't cascade into
// hundreds of follow-on diagnostics.
func (p *Parser) skipToSemiOrBrace() {
	depth := 0
	for !p.at(TokEOF) {
		switch p.tok.Kind {
		case TokLBrace:
			depth++
		case TokRBrace:
			if depth == 0 {
				return
			}
			depth--
		case TokSemi:
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
