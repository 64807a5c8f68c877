package cc

// Sema is the semantic analyzer: a recursive walk over the parsed AST that
// annotates every expression with its type, computes aggregate layout,
// canonicalizes initializer lists, evaluates required constant
// expressions, and resolves goto/break/continue/case back-references.
//
// Every routine reports through the Reporter and keeps going into sibling
// subtrees after a local error, so one pass surfaces as many diagnostics
// as possible; the translation unit as a whole fails if anything errored.
type Sema struct {
	arena *Arena
	types *TypeTable
	diag  Reporter

	// Per-function state, valid only while a GlobalFuncDef body is being
	// walked.
	curFunc   *GlobalDecl
	curRet    TypeID
	curParams []DeclID

	loopDepth   int
	switchStack []*SwitchStmt

	enumDone map[TypeID]bool
}

func NewSema(arena *Arena, types *TypeTable, diag Reporter) *Sema {
	return &Sema{arena: arena, types: types, diag: diag, enumDone: map[TypeID]bool{}}
}

// CheckTranslationUnit runs the whole analysis over tu and reports whether
// it passed. Globals are checked in source order; static assertions are
// evaluated afterward, once every enum and layout they might reference can
// be completed on demand.
func (s *Sema) CheckTranslationUnit(tu *TranslationUnit) bool {
	s.checkDuplicateDefinitions(tu)
	for _, g := range tu.Globals {
		s.checkGlobal(g)
	}
	for _, sa := range tu.StaticAsserts {
		s.checkExpr(sa.Cond)
		v, ok := s.requireConst(sa.Cond, "static assertion")
		if ok && v == 0 {
			if sa.Msg != "" {
				s.diag.Error(sa.Mark, "static assertion failed: %s", sa.Msg)
			} else {
				s.diag.Error(sa.Mark, "static assertion failed")
			}
		}
	}
	return !s.diag.Failed()
}

// checkDuplicateDefinitions rejects a second function body or a second
// initialized definition for the same file-scope name. Uninitialized
// variable declarations are tentative definitions and may repeat.
func (s *Sema) checkDuplicateDefinitions(tu *TranslationUnit) {
	funcDefs := map[string]bool{}
	varDefs := map[string]bool{}
	for _, g := range tu.Globals {
		if g.D == InvalidID {
			continue
		}
		d := s.arena.Decl(g.D)
		switch g.Kind {
		case GlobalFuncDef:
			if funcDefs[d.Name] {
				s.diag.Error(d.Mark, "redefinition of %q", d.Name)
			}
			funcDefs[d.Name] = true
		case GlobalVarDecl:
			if d.Init == InvalidID && d.InitList == nil {
				continue
			}
			if varDefs[d.Name] {
				s.diag.Error(d.Mark, "redefinition of %q", d.Name)
			}
			varDefs[d.Name] = true
		}
	}
}

// resolveLabels matches every `goto` in a function body against the labels
// the body defines. It runs after the body walk because a goto may name a
// label that appears later in the function.
func (s *Sema) resolveLabels(g *GlobalDecl) {
	labels := map[string]StmtID{}
	WalkStmt(s.arena, g.Body, func(id StmtID, st Stmt) {
		if l, ok := st.(*LabeledStmt); ok {
			if _, dup := labels[l.Label]; dup {
				s.diag.Error(l.Mark, "duplicate label %q", l.Label)
				return
			}
			labels[l.Label] = id
		}
	})
	WalkStmt(s.arena, g.Body, func(id StmtID, st Stmt) {
		if gt, ok := st.(*GotoStmt); ok {
			if _, found := labels[gt.Label]; !found {
				s.diag.Error(gt.Mark, "use of undeclared label %q", gt.Label)
			}
		}
	})
}

func (s *Sema) t(id TypeID) *Type { return s.types.Get(id) }

func (s *Sema) expr(id ExprID) Expr { return s.arena.Expr(id) }

func (s *Sema) exprMark(id ExprID) Mark {
	if e := s.expr(id); e != nil {
		return e.exprMark()
	}
	return Mark{}
}
