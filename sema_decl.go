package cc

// checkGlobal dispatches one file-scope declaration through the analyzer.
func (s *Sema) checkGlobal(g *GlobalDecl) {
	switch g.Kind {
	case GlobalTagOnly:
		// Declaring a tag has no checkable content of its own.
	case GlobalTypedef:
		// The aliased type is completed lazily at first use; a typedef of
		// an incomplete struct is legal.
	case GlobalVarDecl:
		s.checkVarDecl(g.D, true)
	case GlobalFuncDecl:
		s.checkFuncSignature(g)
	case GlobalFuncDef:
		s.checkFuncSignature(g)
		d := s.arena.Decl(g.D)
		fn := s.t(d.Type)
		s.curFunc = g
		s.curRet = fn.Return
		s.curParams = g.Params
		s.checkStmt(g.Body)
		s.resolveLabels(g)
		s.curFunc = nil
		s.curRet = InvalidID
		s.curParams = nil
	}
}

func (s *Sema) checkFuncSignature(g *GlobalDecl) {
	d := s.arena.Decl(g.D)
	fn := s.t(d.Type)
	if fn.Kind != TyFunction {
		return
	}
	rt := s.t(fn.Return)
	if rt.Kind == TyArray {
		s.diag.Error(d.Mark, "function %q declared as returning an array", d.Name)
	}
	if rt.Kind == TyFunction {
		s.diag.Error(d.Mark, "function %q declared as returning a function", d.Name)
	}
	for _, pid := range g.Params {
		pd := s.arena.Decl(pid)
		pt := s.t(pd.Type)
		if pt.Kind == TyVoid {
			s.diag.Error(pd.Mark, "parameter %q has void type", pd.Name)
			continue
		}
		if g.Kind == GlobalFuncDef {
			if pd.Name == "" {
				s.diag.Error(pd.Mark, "parameter name omitted in function definition")
			}
			s.completeType(pd.Type, pd.Mark)
		}
	}
	if g.Kind == GlobalFuncDef && (rt.Kind == TyStruct || rt.Kind == TyUnion) {
		s.completeType(fn.Return, d.Mark)
	}
}

// checkVarDecl checks one variable declaration, local or global:
// initializer canonicalization and assignability, layout completion, and
// the constant-initializer requirement at file scope.
func (s *Sema) checkVarDecl(id DeclID, global bool) {
	d := s.arena.Decl(id)
	if d == nil || d.Storage == StorageTypedef || d.IsEnumerator {
		return
	}
	t := s.t(d.Type)
	if t.Kind == TyVoid {
		s.diag.Error(d.Mark, "variable %q declared void", d.Name)
		return
	}
	if t.Kind == TyFunction {
		return // a block-scope function declaration
	}
	if d.Alignas != InvalidID {
		s.checkAlignas(d)
	}

	if d.InitList != nil {
		// Canonicalize first: `int a[] = {1,2,3}` needs the list to fix
		// the element count before layout can run.
		s.canonicalizeInit(d.Type, d.InitList)
	}

	hasInit := d.Init != InvalidID || d.InitList != nil
	if t.Kind == TyArray && t.ArrayLen < 0 && t.ArrayLenExpr == InvalidID && !hasInit {
		if d.Storage == StorageExtern {
			return // `extern int a[];` stays incomplete here
		}
		s.diag.Error(d.Mark, "array %q has no size and no initializer", d.Name)
		return
	}
	if d.Storage == StorageExtern && !hasInit && (t.Kind == TyStruct || t.Kind == TyUnion) && !t.Complete {
		return // `extern struct S s;` against a forward declaration
	}
	if !s.completeType(d.Type, d.Mark) {
		return
	}

	if d.Init != InvalidID {
		it := s.checkExpr(d.Init)
		if it != InvalidID {
			s.assignable(d.Type, it, s.exprMark(d.Init), "initialization")
		}
		if global && s.types.IsInteger(d.Type) {
			s.requireConst(d.Init, "initializer of a file-scope variable")
		}
	}
}

func (s *Sema) checkAlignas(d *Decl) {
	s.checkExpr(d.Alignas)
	v, ok := s.requireConst(d.Alignas, "_Alignas specifier")
	if !ok {
		return
	}
	if v <= 0 || v&(v-1) != 0 {
		s.diag.Error(d.Mark, "requested alignment %d is not a power of 2", v)
	}
}
