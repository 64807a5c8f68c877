package cc

// binPrec orders the binary operators for the precedence-climbing loop in
// parseBinary. Higher binds tighter; assignment and `?:` are handled by
// their own routines since they associate right.
var binPrec = map[TokenKind]int{
	TokOrOr:    1,
	TokAndAnd:  2,
	TokPipe:    3,
	TokCaret:   4,
	TokAmp:     5,
	TokEq:      6,
	TokNe:      6,
	TokLt:      7,
	TokGt:      7,
	TokLe:      7,
	TokGe:      7,
	TokShl:     8,
	TokShr:     8,
	TokPlus:    9,
	TokMinus:   9,
	TokStar:    10,
	TokSlash:   10,
	TokPercent: 10,
}

func isAssignOp(k TokenKind) bool {
	switch k {
	case TokAssign, TokPlusAssign, TokMinusAssign, TokStarAssign,
		TokSlashAssign, TokPercentAssign, TokAmpAssign, TokPipeAssign,
		TokCaretAssign, TokShlAssign, TokShrAssign:
		return true
	}
	return false
}

// parseExpr parses a full expression, comma operator included.
func (p *Parser) parseExpr() ExprID {
	e := p.parseAssign()
	for p.at(TokComma) {
		m := p.tok.Mark
		p.advance()
		rhs := p.parseAssign()
		e = p.arena.NewExpr(&CommaExpr{Mark: m, LHS: e, RHS: rhs})
	}
	return e
}

// parseAssign parses an assignment-expression. The left operand is parsed
// as a conditional-expression; whether it is actually assignable is the
// analyzer's call, not the grammar's.
func (p *Parser) parseAssign() ExprID {
	lhs := p.parseConditional()
	if !isAssignOp(p.tok.Kind) {
		return lhs
	}
	op := p.tok.Kind
	m := p.tok.Mark
	p.advance()
	rhs := p.parseAssign()
	return p.arena.NewExpr(&AssignExpr{Mark: m, Op: op, LHS: lhs, RHS: rhs})
}

// parseConditional parses `a ? b : c`, right-associative, with a full
// expression (comma allowed) as the middle operand per C11 6.5.15.
func (p *Parser) parseConditional() ExprID {
	cond := p.parseBinary(1)
	if !p.at(TokQuestion) {
		return cond
	}
	m := p.tok.Mark
	p.advance()
	then := p.parseExpr()
	p.expect(TokColon)
	els := p.parseConditional()
	return p.arena.NewExpr(&CondExpr{Mark: m, Cond: cond, Then: then, Else: els})
}

// parseBinary is the precedence climber: it folds every operator at
// minPrec or tighter into a left-associative tree.
func (p *Parser) parseBinary(minPrec int) ExprID {
	lhs := p.parseCastExpr()
	for {
		prec, ok := binPrec[p.tok.Kind]
		if !ok || prec < minPrec {
			return lhs
		}
		op := p.tok.Kind
		m := p.tok.Mark
		p.advance()
		rhs := p.parseBinary(prec + 1)
		lhs = p.arena.NewExpr(&BinaryExpr{Mark: m, Op: op, LHS: lhs, RHS: rhs})
	}
}

// parseCastExpr handles `(type-name) expr` and compound literals
// `(type-name){...}`; everything else falls through to parseUnary. The
// type table fully determines whether the parenthesized tokens are a type,
// so one token of lookahead suffices and nothing speculative needs
// unwinding.
func (p *Parser) parseCastExpr() ExprID {
	if p.at(TokLParen) && p.startsTypeName(p.peek()) {
		m := p.tok.Mark
		p.advance()
		ty, ok := p.parseTypeName()
		p.expect(TokRParen)
		if !ok {
			return p.errorExpr(m)
		}
		if p.at(TokLBrace) {
			init := p.parseBracedInit()
			e := p.arena.NewExpr(&CompoundLitExpr{Mark: m, TargetType: ty, Init: init})
			return p.parsePostfixOps(e)
		}
		operand := p.parseCastExpr()
		return p.arena.NewExpr(&CastExpr{Mark: m, TargetType: ty, Operand: operand})
	}
	return p.parseUnary()
}

func (p *Parser) parseUnary() ExprID {
	m := p.tok.Mark
	switch p.tok.Kind {
	case TokPlusPlus, TokMinusMinus:
		op := p.tok.Kind
		p.advance()
		operand := p.parseUnary()
		return p.arena.NewExpr(&UnaryExpr{Mark: m, Op: op, Operand: operand})
	case TokAmp, TokStar, TokPlus, TokMinus, TokTilde, TokNot:
		op := p.tok.Kind
		p.advance()
		operand := p.parseCastExpr()
		return p.arena.NewExpr(&UnaryExpr{Mark: m, Op: op, Operand: operand})
	case TokSizeof, TokAlignof:
		alignof := p.at(TokAlignof)
		p.advance()
		if p.at(TokLParen) && p.startsTypeName(p.peek()) {
			p.advance()
			ty, _ := p.parseTypeName()
			p.expect(TokRParen)
			return p.arena.NewExpr(&SizeofTypeNode{Mark: m, OperandType: ty, Alignof: alignof})
		}
		operand := p.parseUnary()
		return p.arena.NewExpr(&SizeofExprNode{Mark: m, Operand: operand, Alignof: alignof})
	case TokBuiltinOffsetof:
		return p.parseOffsetof()
	case TokBuiltinVaStart, TokBuiltinVaArg, TokBuiltinVaEnd, TokBuiltinVaCopy:
		return p.parseVaBuiltin()
	case TokGeneric:
		p.diag.Error(m, "_Generic is not supported")
		p.advance()
		p.skipBalancedParens()
		return p.errorExpr(m)
	}
	return p.parsePostfixOps(p.parsePrimary())
}

func (p *Parser) parseOffsetof() ExprID {
	m := p.tok.Mark
	p.advance()
	p.expect(TokLParen)
	ty, ok := p.parseTypeName()
	p.expect(TokComma)
	var path []OffsetofSeg
	name := p.expect(TokIdent)
	path = append(path, OffsetofSeg{Field: name.Text, Index: InvalidID})
	for {
		if p.accept(TokDot) {
			seg := p.expect(TokIdent)
			path = append(path, OffsetofSeg{Field: seg.Text, Index: InvalidID})
			continue
		}
		if p.accept(TokLBracket) {
			idx := p.parseConditional()
			p.expect(TokRBracket)
			path = append(path, OffsetofSeg{Index: idx})
			continue
		}
		break
	}
	p.expect(TokRParen)
	if !ok {
		return p.errorExpr(m)
	}
	return p.arena.NewExpr(&OffsetofExpr{Mark: m, TargetType: ty, Path: path})
}

func (p *Parser) parseVaBuiltin() ExprID {
	m := p.tok.Mark
	which := p.tok.Kind
	p.advance()
	p.expect(TokLParen)
	ap := p.parseAssign()
	arg := ExprID(InvalidID)
	argType := TypeID(InvalidID)
	switch which {
	case TokBuiltinVaStart, TokBuiltinVaCopy:
		p.expect(TokComma)
		arg = p.parseAssign()
	case TokBuiltinVaArg:
		p.expect(TokComma)
		ty, ok := p.parseTypeName()
		if ok {
			argType = ty
		}
	}
	p.expect(TokRParen)
	return p.arena.NewExpr(&VaBuiltinExpr{Mark: m, Which: which, Ap: ap, Arg: arg, ArgType: argType})
}

func (p *Parser) parsePostfixOps(e ExprID) ExprID {
	for {
		m := p.tok.Mark
		switch p.tok.Kind {
		case TokLBracket:
			p.advance()
			idx := p.parseExpr()
			p.expect(TokRBracket)
			e = p.arena.NewExpr(&IndexExpr{Mark: m, Base: e, Index: idx})
		case TokLParen:
			p.advance()
			var args []ExprID
			for !p.at(TokRParen) && !p.at(TokEOF) {
				args = append(args, p.parseAssign())
				if !p.accept(TokComma) {
					break
				}
			}
			p.expect(TokRParen)
			e = p.arena.NewExpr(&CallExpr{Mark: m, Callee: e, Args: args})
		case TokDot, TokArrow:
			arrow := p.at(TokArrow)
			p.advance()
			name := p.expect(TokIdent)
			e = p.arena.NewExpr(&MemberExpr{Mark: m, Base: e, Field: name.Text, Arrow: arrow})
		case TokPlusPlus, TokMinusMinus:
			op := p.tok.Kind
			p.advance()
			e = p.arena.NewExpr(&UnaryExpr{Mark: m, Op: op, Operand: e, Postfix: true})
		default:
			return e
		}
	}
}

func (p *Parser) parsePrimary() ExprID {
	m := p.tok.Mark
	switch p.tok.Kind {
	case TokIdent:
		name := p.tok.Text
		sym := p.tok.Sym
		p.advance()
		decl := DeclID(InvalidID)
		if e, ok := p.lookup(name); ok && !e.isTypedef {
			decl = e.declID
		}
		return p.arena.NewExpr(&IdentExpr{Mark: m, Name: name, Sym: sym, Decl: decl})
	case TokIntLit:
		tok := p.tok
		p.advance()
		return p.arena.NewExpr(&IntLitExpr{Mark: m, Value: tok.IntValue, Unsigned: tok.IsUnsigned, Width: tok.IntWidth})
	case TokFloatLit:
		tok := p.tok
		p.advance()
		return p.arena.NewExpr(&FloatLitExpr{Mark: m, Value: tok.FloatValue, Width: tok.IntWidth})
	case TokCharLit:
		tok := p.tok
		p.advance()
		return p.arena.NewExpr(&CharLitExpr{Mark: m, Value: tok.CharValue})
	case TokStringLit:
		// Adjacent string literals concatenate into one constant.
		value := append([]byte(nil), p.tok.StringValue...)
		p.advance()
		for p.at(TokStringLit) {
			value = append(value, p.tok.StringValue...)
			p.advance()
		}
		return p.arena.NewExpr(&StringLitExpr{Mark: m, Value: value})
	case TokLParen:
		p.advance()
		e := p.parseExpr()
		p.expect(TokRParen)
		return e
	default:
		p.diag.Error(m, "unexpected token %q in expression", p.tok.Text)
		p.advance()
		return p.errorExpr(m)
	}
}

// errorExpr is the parser's expression-level recovery value: a zero
// constant that lets surrounding parsing and checking continue so one bad
// expression doesn't hide every later diagnostic.
func (p *Parser) errorExpr(m Mark) ExprID {
	return p.arena.NewExpr(&IntLitExpr{Mark: m, Width: 32})
}

func (p *Parser) skipBalancedParens() {
	if !p.at(TokLParen) {
		return
	}
	depth := 0
	for !p.at(TokEOF) {
		switch p.tok.Kind {
		case TokLParen:
			depth++
		case TokRParen:
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		}
		p.advance()
	}
}
