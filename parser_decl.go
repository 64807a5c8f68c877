package cc

// declSpec is the accumulated result of parsing declaration-specifiers: a
// fully-resolved base type plus the storage-class and function-specifier
// keywords that apply to every declarator in the declaration.
type declSpec struct {
	base    TypeID
	storage StorageClass
	inline  bool
	alignas ExprID
	mark    Mark
}

// StaticAssert is a parsed `_Static_assert(cond, "msg")`, checked by the
// analyzer once constant evaluation is available.
type StaticAssert struct {
	Mark Mark
	Cond ExprID
	Msg  string
}

func (p *Parser) newDecl(name string, m Mark, ty TypeID, spec declSpec) *Decl {
	return &Decl{
		Name:    name,
		Mark:    m,
		Type:    ty,
		Storage: spec.storage,
		Inline:  spec.inline,
		Init:    InvalidID,
		Alignas: spec.alignas,
	}
}

// parseExternalDecl parses one file-scope declaration: a variable or
// function declaration, a typedef, a bare tag declaration, a function
// definition, or a `_Static_assert`.
func (p *Parser) parseExternalDecl() {
	m := p.tok.Mark
	switch p.tok.Kind {
	case TokSemi:
		p.advance()
		return
	case TokStaticAssert:
		p.parseStaticAssert()
		return
	}
	spec, ok := p.parseDeclSpecifiers(true)
	if !ok {
		p.skipToSemiOrBrace()
		return
	}
	if p.at(TokSemi) {
		p.advance()
		bt := p.types.Get(spec.base)
		if bt.Kind == TyStruct || bt.Kind == TyUnion || bt.Kind == TyEnum {
			p.arena.NewGlobal(&GlobalDecl{Kind: GlobalTagOnly, Mark: m, D: InvalidID, Body: InvalidID, TagType: spec.base})
		} else {
			p.diag.Warning(m, "declaration does not declare anything")
		}
		return
	}
	first := true
	for {
		p.declParams = nil
		name, dm, ty := p.parseDeclarator(spec.base)
		params := p.declParams
		if name == "" {
			p.diag.Error(dm, "expected identifier in declaration")
			p.skipToSemiOrBrace()
			return
		}
		d := p.newDecl(name, dm, ty, spec)
		id := p.arena.NewDecl(d)
		switch {
		case spec.storage == StorageTypedef:
			p.declareTypedefChecked(name, dm, ty)
			p.arena.NewGlobal(&GlobalDecl{Kind: GlobalTypedef, Mark: dm, D: id, Body: InvalidID, TagType: InvalidID})
		case p.types.Get(ty).Kind == TyFunction:
			p.declareOrdinary(name, id)
			if first && p.at(TokLBrace) {
				p.pushScope()
				for _, pid := range params {
					pd := p.arena.Decl(pid)
					if pd.Name != "" {
						p.declareOrdinary(pd.Name, pid)
					}
				}
				body := p.parseCompound(false)
				p.popScope()
				p.arena.NewGlobal(&GlobalDecl{Kind: GlobalFuncDef, Mark: dm, D: id, Params: params, Body: body, TagType: InvalidID})
				return
			}
			p.arena.NewGlobal(&GlobalDecl{Kind: GlobalFuncDecl, Mark: dm, D: id, Params: params, Body: InvalidID, TagType: InvalidID})
		default:
			if p.accept(TokAssign) {
				p.parseInitializerInto(d)
			}
			p.declareOrdinary(name, id)
			p.arena.NewGlobal(&GlobalDecl{Kind: GlobalVarDecl, Mark: dm, D: id, Body: InvalidID, TagType: InvalidID})
		}
		first = false
		if !p.accept(TokComma) {
			break
		}
	}
	p.expect(TokSemi)
}

// declareTypedefChecked inserts a typedef into the current scope;
// redeclaring a name already bound as a typedef in this scope is accepted
// silently when the types agree (common in system headers) and is an error
// otherwise.
func (p *Parser) declareTypedefChecked(name string, m Mark, ty TypeID) {
	top := p.scopes[len(p.scopes)-1]
	if e, ok := top.names[name]; ok {
		if !e.isTypedef {
			p.diag.Error(m, "%q redeclared as different kind of symbol", name)
			return
		}
		if e.typeID != ty {
			p.diag.Error(m, "typedef %q redefined with a different type", name)
		}
		return
	}
	p.declareTypedef(name, ty)
}

// parseDeclSpecifiers accumulates declaration-specifiers into a declSpec.
// allowStorage is false in type-name contexts (casts, sizeof, parameter
// types would allow register, but nothing else).
func (p *Parser) parseDeclSpecifiers(allowStorage bool) (declSpec, bool) {
	spec := declSpec{base: InvalidID, alignas: InvalidID, mark: p.tok.Mark}
	var quals Qualifiers

	// Base-type words accumulate before they combine: `unsigned long long
	// int` is four specifiers naming one type.
	var (
		baseKind  TokenKind // void/char/int/float/double/_Bool, 0 if unseen
		longCount int
		short     bool
		signed    bool
		unsigned  bool
		sawBase   bool
	)

	setStorage := func(sc StorageClass) {
		if !allowStorage {
			p.diag.Error(p.tok.Mark, "storage class specifier not allowed here")
		} else if spec.storage != StorageNone {
			p.diag.Error(p.tok.Mark, "multiple storage class specifiers")
		} else {
			spec.storage = sc
		}
		p.advance()
	}

loop:
	for {
		switch p.tok.Kind {
		case TokTypedef:
			setStorage(StorageTypedef)
		case TokExtern:
			setStorage(StorageExtern)
		case TokStatic:
			setStorage(StorageStatic)
		case TokAuto:
			setStorage(StorageAuto)
		case TokRegister:
			setStorage(StorageRegister)
		case TokThreadLocal:
			// Accepted lexically; no semantic meaning in a single-TU front
			// end with no linkage model.
			p.advance()
		case TokInline, TokNoreturn:
			spec.inline = spec.inline || p.tok.Kind == TokInline
			p.advance()
		case TokConst:
			quals |= QualConst
			p.advance()
		case TokVolatile:
			quals |= QualVolatile
			p.advance()
		case TokRestrict:
			quals |= QualRestrict
			p.advance()
		case TokAtomic:
			quals |= QualAtomic
			p.advance()
		case TokAlignas:
			p.advance()
			p.expect(TokLParen)
			if p.startsTypeName(p.tok) {
				ty, _ := p.parseTypeName()
				spec.alignas = p.arena.NewExpr(&SizeofTypeNode{Mark: spec.mark, OperandType: ty, Alignof: true})
			} else {
				spec.alignas = p.parseConditional()
			}
			p.expect(TokRParen)
		case TokVoid, TokChar, TokInt, TokFloat, TokDouble, TokBool:
			if baseKind != 0 || sawBase {
				p.diag.Error(p.tok.Mark, "two or more data types in declaration specifiers")
			}
			baseKind = p.tok.Kind
			p.advance()
		case TokShort:
			if short {
				p.diag.Error(p.tok.Mark, "duplicate %q", "short")
			}
			short = true
			p.advance()
		case TokLong:
			longCount++
			if longCount > 2 {
				p.diag.Error(p.tok.Mark, "%q is too long for this front end", "long long long")
			}
			p.advance()
		case TokSigned:
			if signed {
				p.diag.Error(p.tok.Mark, "duplicate %q", "signed")
			}
			signed = true
			p.advance()
		case TokUnsigned:
			if unsigned {
				p.diag.Error(p.tok.Mark, "duplicate %q", "unsigned")
			}
			unsigned = true
			p.advance()
		case TokComplex:
			p.diag.Error(p.tok.Mark, "_Complex is not supported")
			p.advance()
		case TokVaList:
			if sawBase || baseKind != 0 {
				p.diag.Error(p.tok.Mark, "two or more data types in declaration specifiers")
			}
			spec.base = p.types.Basic(TyVaList)
			sawBase = true
			p.advance()
		case TokStruct, TokUnion:
			if sawBase || baseKind != 0 {
				p.diag.Error(p.tok.Mark, "two or more data types in declaration specifiers")
			}
			spec.base = p.parseStructOrUnion()
			sawBase = true
		case TokEnum:
			if sawBase || baseKind != 0 {
				p.diag.Error(p.tok.Mark, "two or more data types in declaration specifiers")
			}
			spec.base = p.parseEnum()
			sawBase = true
		case TokIdent:
			if sawBase || baseKind != 0 || short || longCount > 0 || signed || unsigned {
				break loop // a declarator identifier, not a type
			}
			ty, isTD := p.isTypedefName(p.tok.Text)
			if !isTD {
				break loop
			}
			spec.base = ty
			sawBase = true
			p.advance()
		default:
			break loop
		}
	}

	if !sawBase {
		kind, ok := combineBaseType(baseKind, short, longCount, signed, unsigned)
		if !ok {
			if baseKind == 0 && !short && longCount == 0 && !signed && !unsigned {
				p.diag.Error(spec.mark, "expected a type specifier")
				return spec, false
			}
			p.diag.Error(spec.mark, "invalid combination of type specifiers")
			kind = TyInt
		}
		spec.base = p.types.Basic(kind)
	} else if short || longCount > 0 || signed || unsigned {
		p.diag.Error(spec.mark, "invalid combination of type specifiers")
	}
	spec.base = p.types.Qualify(spec.base, quals)
	return spec, true
}

// combineBaseType folds the multiset of base-type words into one TypeKind,
// implementing C11 6.7.2's allowed combinations. `signed`/`unsigned`
// without any base defaults to int.
func combineBaseType(base TokenKind, short bool, longCount int, signed, unsigned bool) (TypeKind, bool) {
	switch base {
	case TokVoid:
		if short || longCount > 0 || signed || unsigned {
			return TyVoid, false
		}
		return TyVoid, true
	case TokBool:
		if short || longCount > 0 || signed || unsigned {
			return TyBool, false
		}
		return TyBool, true
	case TokFloat:
		if short || longCount > 0 || signed || unsigned {
			return TyFloat, false
		}
		return TyFloat, true
	case TokDouble:
		if short || longCount > 1 || signed || unsigned {
			return TyDouble, false
		}
		if longCount == 1 {
			return TyLongDouble, true
		}
		return TyDouble, true
	case TokChar:
		if short || longCount > 0 {
			return TyChar, false
		}
		switch {
		case signed:
			return TySChar, true
		case unsigned:
			return TyUChar, true
		default:
			return TyChar, true
		}
	case TokInt, 0:
		if base == 0 && !short && longCount == 0 && !signed && !unsigned {
			return TyInt, false // no specifier at all
		}
		if short && longCount > 0 {
			return TyInt, false
		}
		switch {
		case short && unsigned:
			return TyUShort, true
		case short:
			return TyShort, true
		case longCount == 2 && unsigned:
			return TyULongLong, true
		case longCount == 2:
			return TyLongLong, true
		case longCount == 1 && unsigned:
			return TyULong, true
		case longCount == 1:
			return TyLong, true
		case unsigned:
			return TyUInt, true
		default:
			return TyInt, true
		}
	}
	return TyInt, false
}

// parseStructOrUnion parses `struct`/`union` followed by an optional tag
// and an optional member list. A definition in the same scope as a
// forward declaration completes the forward-declared node in place, so
// every existing reference to the tag observes the completion.
func (p *Parser) parseStructOrUnion() TypeID {
	kind := TyStruct
	if p.at(TokUnion) {
		kind = TyUnion
	}
	m := p.tok.Mark
	p.advance()

	tag := ""
	if p.at(TokIdent) {
		tag = p.tok.Text
		p.advance()
	}

	if !p.at(TokLBrace) {
		if tag == "" {
			p.diag.Error(m, "expected tag or member list after %q", kindWord(kind))
			return p.types.Basic(TyInt)
		}
		if id, ok := p.types.LookupTag(tag); ok {
			if p.types.Get(id).Kind != kind {
				p.diag.Error(m, "%q defined as wrong kind of tag", tag)
			}
			return id
		}
		id := p.arena.NewType(&Type{Kind: kind, Tag: tag, Size: -1, ArrayLenExpr: InvalidID})
		p.types.DeclareTag(tag, id)
		return id
	}

	var id TypeID
	if tag != "" {
		if existing, ok := p.types.LookupTagCurrent(tag); ok {
			et := p.types.Get(existing)
			if et.Kind != kind {
				p.diag.Error(m, "%q defined as wrong kind of tag", tag)
			} else if et.Complete {
				p.diag.Error(m, "redefinition of %q", kindWord(kind)+" "+tag)
			}
			id = existing
		} else {
			id = p.arena.NewType(&Type{Kind: kind, Tag: tag, Size: -1, ArrayLenExpr: InvalidID})
			p.types.DeclareTag(tag, id)
		}
	} else {
		id = p.arena.NewType(&Type{Kind: kind, Size: -1, ArrayLenExpr: InvalidID})
	}

	fields := p.parseMemberList()
	t := p.types.Get(id)
	t.Fields = fields
	t.Complete = true
	t.Size = -1 // layout sentinel; the analyzer computes size/align lazily
	return id
}

func kindWord(k TypeKind) string {
	switch k {
	case TyUnion:
		return "union"
	case TyEnum:
		return "enum"
	default:
		return "struct"
	}
}

func (p *Parser) parseMemberList() []Field {
	p.expect(TokLBrace)
	var fields []Field
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		if p.at(TokStaticAssert) {
			p.parseStaticAssert()
			continue
		}
		spec, ok := p.parseDeclSpecifiers(false)
		if !ok {
			p.skipToSemiOrBrace()
			continue
		}
		if p.at(TokSemi) {
			// Either an anonymous struct/union member or a nested tag
			// declaration with no declarator.
			bt := p.types.Get(spec.base)
			if (bt.Kind == TyStruct || bt.Kind == TyUnion) && bt.Tag == "" {
				fields = append(fields, Field{Type: spec.base, Anonymous: true, BitWidthExpr: InvalidID, Mark: spec.mark})
			}
			p.advance()
			continue
		}
		for {
			f := Field{BitWidthExpr: InvalidID, Mark: p.tok.Mark}
			if p.at(TokColon) {
				// Unnamed bit-field: contributes padding only.
				p.advance()
				f.Type = spec.base
				f.IsBitField = true
				f.BitWidthExpr = p.parseConditional()
			} else {
				name, dm, ty := p.parseDeclarator(spec.base)
				f.Name = name
				f.Mark = dm
				f.Type = ty
				if name == "" {
					p.diag.Error(dm, "expected member name")
				}
				if p.accept(TokColon) {
					f.IsBitField = true
					f.BitWidthExpr = p.parseConditional()
				}
			}
			fields = append(fields, f)
			if !p.accept(TokComma) {
				break
			}
		}
		p.expect(TokSemi)
	}
	p.expect(TokRBrace)
	return fields
}

// parseEnum parses `enum tag? { A, B = expr, ... }`. Each enumerator
// becomes a Decl in the ordinary namespace so expressions can reference it;
// its value is computed by the analyzer when the enum is completed.
func (p *Parser) parseEnum() TypeID {
	m := p.tok.Mark
	p.advance()

	tag := ""
	if p.at(TokIdent) {
		tag = p.tok.Text
		p.advance()
	}

	if !p.at(TokLBrace) {
		if tag == "" {
			p.diag.Error(m, "expected tag or enumerator list after %q", "enum")
			return p.types.Basic(TyInt)
		}
		if id, ok := p.types.LookupTag(tag); ok {
			if p.types.Get(id).Kind != TyEnum {
				p.diag.Error(m, "%q defined as wrong kind of tag", tag)
			}
			return id
		}
		id := p.arena.NewType(&Type{Kind: TyEnum, Tag: tag, Size: 4, Align: 4, ArrayLenExpr: InvalidID})
		p.types.DeclareTag(tag, id)
		return id
	}

	var id TypeID
	if tag != "" {
		if existing, ok := p.types.LookupTagCurrent(tag); ok {
			if p.types.Get(existing).Complete {
				p.diag.Error(m, "redefinition of %q", "enum "+tag)
			}
			id = existing
		} else {
			id = p.arena.NewType(&Type{Kind: TyEnum, Tag: tag, Size: 4, Align: 4, ArrayLenExpr: InvalidID})
			p.types.DeclareTag(tag, id)
		}
	} else {
		id = p.arena.NewType(&Type{Kind: TyEnum, Size: 4, Align: 4, ArrayLenExpr: InvalidID})
	}

	p.expect(TokLBrace)
	var enums []Enumerator
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		if !p.at(TokIdent) {
			p.diag.Error(p.tok.Mark, "expected enumerator name")
			p.skipToSemiOrBrace()
			break
		}
		en := Enumerator{Name: p.tok.Text, Mark: p.tok.Mark, ValueExpr: InvalidID}
		p.advance()
		if p.accept(TokAssign) {
			en.ValueExpr = p.parseConditional()
		}
		d := &Decl{Name: en.Name, Mark: en.Mark, Type: id, Init: InvalidID, Alignas: InvalidID, IsEnumerator: true}
		en.D = p.arena.NewDecl(d)
		p.declareOrdinary(en.Name, en.D)
		enums = append(enums, en)
		if !p.accept(TokComma) {
			break
		}
	}
	p.expect(TokRBrace)

	t := p.types.Get(id)
	t.Enumerators = enums
	t.Complete = true
	return id
}

// parseDeclarator parses `* quals... direct-declarator`, elaborating base
// into the declared type and returning the declared name ("" for an
// abstract declarator).
func (p *Parser) parseDeclarator(base TypeID) (string, Mark, TypeID) {
	for p.at(TokStar) {
		p.advance()
		base = p.types.Pointer(base)
		base = p.parsePointerQualifiers(base)
	}
	return p.parseDirectDeclarator(base)
}

func (p *Parser) parsePointerQualifiers(base TypeID) TypeID {
	var quals Qualifiers
	for {
		switch p.tok.Kind {
		case TokConst:
			quals |= QualConst
		case TokVolatile:
			quals |= QualVolatile
		case TokRestrict:
			quals |= QualRestrict
		case TokAtomic:
			quals |= QualAtomic
		default:
			return p.types.Qualify(base, quals)
		}
		p.advance()
	}
}

// parseDirectDeclarator handles the identifier (or its absence, for an
// abstract declarator) and the nesting parentheses. A parenthesized inner
// declarator is parsed against a placeholder type node that is patched in
// place once the outer suffixes are known, which is what makes
// `int (*a[5])(void)` come out as array-of pointer-to function: the inner
// declarator builds pointer→hole, the suffix pass builds the function
// type, and patching the hole stitches them together in the right order.
func (p *Parser) parseDirectDeclarator(base TypeID) (string, Mark, TypeID) {
	m := p.tok.Mark
	switch {
	case p.at(TokIdent):
		name := p.tok.Text
		p.advance()
		return name, m, p.parseDeclaratorSuffixes(base)
	case p.at(TokLParen) && p.innerDeclaratorFollows():
		p.advance()
		hole := p.arena.NewType(&Type{ArrayLenExpr: InvalidID})
		name, dm, inner := p.parseDeclarator(hole)
		saved := p.declParams
		p.expect(TokRParen)
		full := p.parseDeclaratorSuffixes(base)
		*p.types.Get(hole) = *p.types.Get(full)
		p.declParams = saved
		return name, dm, inner
	default:
		return "", m, p.parseDeclaratorSuffixes(base)
	}
}

// innerDeclaratorFollows disambiguates `(` after a direct-declarator
// position: an inner declarator starts with `*`, `(`, or a non-typedef
// identifier; anything else (a type word, `)`, `...`) is a parameter list.
func (p *Parser) innerDeclaratorFollows() bool {
	n := p.peek()
	switch n.Kind {
	case TokStar, TokLParen:
		return true
	case TokIdent:
		_, isTD := p.isTypedefName(n.Text)
		return !isTD
	}
	return false
}

func (p *Parser) parseDeclaratorSuffixes(base TypeID) TypeID {
	switch {
	case p.at(TokLBracket):
		p.advance()
		lenExpr := ExprID(InvalidID)
		for p.at(TokStatic) || p.at(TokConst) || p.at(TokVolatile) || p.at(TokRestrict) {
			p.advance() // `int a[static const 4]` array-parameter qualifiers
		}
		if !p.at(TokRBracket) {
			lenExpr = p.parseAssign()
		}
		p.expect(TokRBracket)
		elem := p.parseDeclaratorSuffixes(base)
		return p.arena.NewType(&Type{Kind: TyArray, Elem: elem, ArrayLen: -1, ArrayLenExpr: lenExpr, Size: -1})
	case p.at(TokLParen):
		p.advance()
		params, names, declIDs, variadic := p.parseParamList()
		p.expect(TokRParen)
		ret := p.parseDeclaratorSuffixes(base)
		p.declParams = declIDs
		return p.types.Function(ret, params, names, variadic)
	default:
		return base
	}
}

func (p *Parser) parseParamList() (types []TypeID, names []string, decls []DeclID, variadic bool) {
	if p.at(TokRParen) {
		return nil, nil, nil, false
	}
	if p.at(TokVoid) && p.peek().Kind == TokRParen {
		p.advance()
		return nil, nil, nil, false
	}
	for {
		if p.at(TokEllipsis) {
			p.advance()
			variadic = true
			break
		}
		spec, ok := p.parseDeclSpecifiers(true)
		if !ok {
			p.skipToParamEnd()
			break
		}
		if spec.storage != StorageNone && spec.storage != StorageRegister {
			p.diag.Error(spec.mark, "invalid storage class for a parameter")
		}
		name, dm, ty := p.parseDeclarator(spec.base)
		ty = p.adjustParamType(ty)
		d := p.newDecl(name, dm, ty, declSpec{storage: StorageNone, alignas: InvalidID})
		d.IsParam = true
		id := p.arena.NewDecl(d)
		types = append(types, ty)
		names = append(names, name)
		decls = append(decls, id)
		if !p.accept(TokComma) {
			break
		}
	}
	return types, names, decls, variadic
}

// adjustParamType applies the parameter adjustments of C11 6.7.6.3:
// array-of-T becomes pointer-to-T, function becomes pointer-to-function.
func (p *Parser) adjustParamType(ty TypeID) TypeID {
	t := p.types.Get(ty)
	switch t.Kind {
	case TyArray:
		return p.types.Pointer(t.Elem)
	case TyFunction:
		return p.types.Pointer(ty)
	}
	return ty
}

func (p *Parser) skipToParamEnd() {
	depth := 0
	for !p.at(TokEOF) {
		switch p.tok.Kind {
		case TokLParen:
			depth++
		case TokRParen:
			if depth == 0 {
				return
			}
			depth--
		case TokComma:
			if depth == 0 {
				return
			}
		case TokSemi, TokLBrace:
			return
		}
		p.advance()
	}
}

// parseTypeName parses specifier-qualifier-list plus an abstract
// declarator, the form casts, sizeof, va_arg and offsetof all take.
func (p *Parser) parseTypeName() (TypeID, bool) {
	spec, ok := p.parseDeclSpecifiers(false)
	if !ok {
		return InvalidID, false
	}
	name, dm, ty := p.parseDeclarator(spec.base)
	if name != "" {
		p.diag.Error(dm, "unexpected identifier %q in type name", name)
	}
	return ty, true
}

// startsTypeName reports whether tok can begin a type-name: a type
// specifier or qualifier keyword, or an in-scope typedef name.
func (p *Parser) startsTypeName(tok Token) bool {
	switch tok.Kind {
	case TokVoid, TokChar, TokShort, TokInt, TokLong, TokFloat, TokDouble,
		TokSigned, TokUnsigned, TokBool, TokComplex, TokStruct, TokUnion,
		TokEnum, TokConst, TokVolatile, TokRestrict, TokAtomic, TokVaList:
		return true
	case TokIdent:
		_, ok := p.isTypedefName(tok.Text)
		return ok
	}
	return false
}

// startsDecl reports whether the current token can begin a declaration,
// which is how a compound statement tells a DeclStmt from an ExprStmt.
func (p *Parser) startsDecl() bool {
	switch p.tok.Kind {
	case TokTypedef, TokExtern, TokStatic, TokAuto, TokRegister,
		TokInline, TokNoreturn, TokAlignas, TokThreadLocal, TokStaticAssert:
		return true
	}
	return p.startsTypeName(p.tok)
}

// parseLocalDecl parses one declaration in statement position and returns
// the declared DeclIDs (typedefs included, so the dumper can show them).
func (p *Parser) parseLocalDecl() []DeclID {
	spec, ok := p.parseDeclSpecifiers(true)
	if !ok {
		p.skipToSemiOrBrace()
		return nil
	}
	if p.at(TokSemi) {
		p.advance()
		return nil // bare tag declaration inside a block
	}
	var ids []DeclID
	for {
		p.declParams = nil
		name, dm, ty := p.parseDeclarator(spec.base)
		if name == "" {
			p.diag.Error(dm, "expected identifier in declaration")
			p.skipToSemiOrBrace()
			return ids
		}
		d := p.newDecl(name, dm, ty, spec)
		if spec.storage == StorageTypedef {
			p.declareTypedefChecked(name, dm, ty)
		} else {
			if p.accept(TokAssign) {
				p.parseInitializerInto(d)
			}
		}
		id := p.arena.NewDecl(d)
		if spec.storage != StorageTypedef {
			p.declareOrdinary(name, id)
		}
		ids = append(ids, id)
		if !p.accept(TokComma) {
			break
		}
	}
	p.expect(TokSemi)
	return ids
}

func (p *Parser) parseInitializerInto(d *Decl) {
	if p.at(TokLBrace) {
		d.InitList = p.parseBracedInit()
		return
	}
	d.Init = p.parseAssign()
}

func (p *Parser) parseBracedInit() *InitItem {
	m := p.tok.Mark
	p.expect(TokLBrace)
	var items []*InitItem
	for !p.at(TokRBrace) && !p.at(TokEOF) {
		items = append(items, p.parseInitListEntry())
		if !p.accept(TokComma) {
			break
		}
	}
	p.expect(TokRBrace)
	return newListInit(m, items)
}

func (p *Parser) parseInitListEntry() *InitItem {
	m := p.tok.Mark
	var des []Designator
	for p.at(TokDot) || p.at(TokLBracket) {
		dm := p.tok.Mark
		if p.accept(TokDot) {
			name := p.expect(TokIdent)
			des = append(des, Designator{Mark: dm, Field: name.Text, Index: InvalidID})
		} else {
			p.advance()
			idx := p.parseConditional()
			p.expect(TokRBracket)
			des = append(des, Designator{Mark: dm, Index: idx})
		}
	}
	if len(des) > 0 {
		p.expect(TokAssign)
	}
	var item *InitItem
	if p.at(TokLBrace) {
		item = p.parseBracedInit()
	} else {
		item = newScalarInit(m, p.parseAssign())
	}
	item.Mark = m
	item.Designators = des
	return item
}

// parseStaticAssert parses `_Static_assert(cond, "message");` and queues
// it for the analyzer, which owns constant evaluation.
func (p *Parser) parseStaticAssert() {
	m := p.tok.Mark
	p.advance()
	p.expect(TokLParen)
	cond := p.parseConditional()
	msg := ""
	if p.accept(TokComma) {
		str := p.expect(TokStringLit)
		msg = string(str.StringValue)
	}
	p.expect(TokRParen)
	p.expect(TokSemi)
	p.staticAsserts = append(p.staticAsserts, StaticAssert{Mark: m, Cond: cond, Msg: msg})
}
