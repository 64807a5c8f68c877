package cc

import (
	"fmt"
	"io"
	"strings"
)

// AstPrinter renders a TranslationUnit as an indented tree for
// `--dump_ast`, the same shape of debugging aid the teacher's grammar tree
// dumper produces for a parsed grammar, adapted here to walk a C AST
// instead of a PEG tree.
type AstPrinter struct {
	arena *Arena
	types *TypeTable
	out   io.Writer
	depth int
}

func NewAstPrinter(arena *Arena, types *TypeTable, out io.Writer) *AstPrinter {
	return &AstPrinter{arena: arena, types: types, out: out}
}

func (p *AstPrinter) line(format string, args ...any) {
	fmt.Fprintf(p.out, "%s%s\n", strings.Repeat("  ", p.depth), fmt.Sprintf(format, args...))
}

func (p *AstPrinter) nested(f func()) {
	p.depth++
	f()
	p.depth--
}

func (p *AstPrinter) PrintTranslationUnit(tu *TranslationUnit) {
	for _, g := range tu.Globals {
		p.printGlobal(g)
	}
}

func (p *AstPrinter) printGlobal(g *GlobalDecl) {
	d := p.arena.Decl(g.D)
	switch g.Kind {
	case GlobalFuncDef:
		p.line("FuncDef %s", declName(d))
		p.nested(func() {
			p.printStmt(g.Body)
		})
	case GlobalFuncDecl:
		p.line("FuncDecl %s", declName(d))
	case GlobalVarDecl:
		p.line("VarDecl %s", declName(d))
	case GlobalTypedef:
		p.line("Typedef %s", declName(d))
	case GlobalTagOnly:
		t := p.types.Get(g.TagType)
		p.line("TagDecl %s", t.Tag)
	}
}

func declName(d *Decl) string {
	if d == nil {
		return "<anon>"
	}
	return d.Name
}

func (p *AstPrinter) printStmt(id StmtID) {
	if id == InvalidID {
		return
	}
	s := p.arena.Stmt(id)
	if s == nil {
		return
	}
	s.Accept(p)
}

func (p *AstPrinter) printExpr(id ExprID) {
	if id == InvalidID {
		return
	}
	e := p.arena.Expr(id)
	if e == nil {
		return
	}
	e.Accept(p)
}

// StmtVisitor

func (p *AstPrinter) VisitExprStmt(s *ExprStmt) any {
	p.line("ExprStmt")
	p.nested(func() { p.printExpr(s.E) })
	return nil
}

func (p *AstPrinter) VisitDeclStmt(s *DeclStmt) any {
	p.line("DeclStmt")
	return nil
}

func (p *AstPrinter) VisitCompound(s *CompoundStmt) any {
	p.line("Compound")
	p.nested(func() {
		for _, item := range s.Items {
			p.printStmt(item)
		}
	})
	return nil
}

func (p *AstPrinter) VisitIf(s *IfStmt) any {
	p.line("If")
	p.nested(func() {
		p.printExpr(s.Cond)
		p.printStmt(s.Then)
		if s.Else != InvalidID {
			p.printStmt(s.Else)
		}
	})
	return nil
}

func (p *AstPrinter) VisitWhile(s *WhileStmt) any {
	p.line("While")
	p.nested(func() { p.printExpr(s.Cond); p.printStmt(s.Body) })
	return nil
}

func (p *AstPrinter) VisitDoWhile(s *DoWhileStmt) any {
	p.line("DoWhile")
	p.nested(func() { p.printStmt(s.Body); p.printExpr(s.Cond) })
	return nil
}

func (p *AstPrinter) VisitFor(s *ForStmt) any {
	p.line("For")
	p.nested(func() {
		p.printExpr(s.Init)
		p.printExpr(s.Cond)
		p.printExpr(s.Post)
		p.printStmt(s.Body)
	})
	return nil
}

func (p *AstPrinter) VisitReturn(s *ReturnStmt) any {
	p.line("Return")
	p.nested(func() { p.printExpr(s.Value) })
	return nil
}

func (p *AstPrinter) VisitBreak(s *BreakStmt) any       { p.line("Break"); return nil }
func (p *AstPrinter) VisitContinue(s *ContinueStmt) any { p.line("Continue"); return nil }
func (p *AstPrinter) VisitGoto(s *GotoStmt) any         { p.line("Goto %s", s.Label); return nil }

func (p *AstPrinter) VisitLabeled(s *LabeledStmt) any {
	p.line("Label %s", s.Label)
	p.nested(func() { p.printStmt(s.Stmt) })
	return nil
}

func (p *AstPrinter) VisitCase(s *CaseStmt) any {
	p.line("Case")
	p.nested(func() { p.printExpr(s.Value); p.printStmt(s.Stmt) })
	return nil
}

func (p *AstPrinter) VisitDefault(s *DefaultStmt) any {
	p.line("Default")
	p.nested(func() { p.printStmt(s.Stmt) })
	return nil
}

func (p *AstPrinter) VisitSwitch(s *SwitchStmt) any {
	p.line("Switch")
	p.nested(func() { p.printExpr(s.Cond); p.printStmt(s.Body) })
	return nil
}

func (p *AstPrinter) VisitNull(s *NullStmt) any { p.line("NullStmt"); return nil }

// ExprVisitor

func (p *AstPrinter) VisitIdent(e *IdentExpr) any { p.line("Ident %s", e.Name); return nil }
func (p *AstPrinter) VisitIntLit(e *IntLitExpr) any {
	p.line("IntLit %d", e.Value)
	return nil
}
func (p *AstPrinter) VisitFloatLit(e *FloatLitExpr) any {
	p.line("FloatLit %g", e.Value)
	return nil
}
func (p *AstPrinter) VisitStringLit(e *StringLitExpr) any {
	p.line("StringLit %q", string(e.Value))
	return nil
}
func (p *AstPrinter) VisitCharLit(e *CharLitExpr) any {
	p.line("CharLit %d", e.Value)
	return nil
}

func (p *AstPrinter) VisitBinary(e *BinaryExpr) any {
	p.line("Binary")
	p.nested(func() { p.printExpr(e.LHS); p.printExpr(e.RHS) })
	return nil
}

func (p *AstPrinter) VisitUnary(e *UnaryExpr) any {
	p.line("Unary postfix=%v", e.Postfix)
	p.nested(func() { p.printExpr(e.Operand) })
	return nil
}

func (p *AstPrinter) VisitAssign(e *AssignExpr) any {
	p.line("Assign")
	p.nested(func() { p.printExpr(e.LHS); p.printExpr(e.RHS) })
	return nil
}

func (p *AstPrinter) VisitCond(e *CondExpr) any {
	p.line("Cond")
	p.nested(func() { p.printExpr(e.Cond); p.printExpr(e.Then); p.printExpr(e.Else) })
	return nil
}

func (p *AstPrinter) VisitCall(e *CallExpr) any {
	p.line("Call")
	p.nested(func() {
		p.printExpr(e.Callee)
		for _, arg := range e.Args {
			p.printExpr(arg)
		}
	})
	return nil
}

func (p *AstPrinter) VisitIndex(e *IndexExpr) any {
	p.line("Index")
	p.nested(func() { p.printExpr(e.Base); p.printExpr(e.Index) })
	return nil
}

func (p *AstPrinter) VisitMember(e *MemberExpr) any {
	p.line("Member .%s arrow=%v", e.Field, e.Arrow)
	p.nested(func() { p.printExpr(e.Base) })
	return nil
}

func (p *AstPrinter) VisitCast(e *CastExpr) any {
	p.line("Cast")
	p.nested(func() { p.printExpr(e.Operand) })
	return nil
}

func (p *AstPrinter) VisitSizeofExpr(e *SizeofExprNode) any {
	p.line("SizeofExpr")
	p.nested(func() { p.printExpr(e.Operand) })
	return nil
}

func (p *AstPrinter) VisitSizeofType(e *SizeofTypeNode) any {
	p.line("SizeofType")
	return nil
}

func (p *AstPrinter) VisitComma(e *CommaExpr) any {
	p.line("Comma")
	p.nested(func() { p.printExpr(e.LHS); p.printExpr(e.RHS) })
	return nil
}

func (p *AstPrinter) VisitCompoundLit(e *CompoundLitExpr) any {
	p.line("CompoundLit")
	p.nested(func() { p.printInit(e.Init) })
	return nil
}

func (p *AstPrinter) VisitOffsetof(e *OffsetofExpr) any {
	path := ""
	for _, seg := range e.Path {
		if seg.Field != "" {
			path += "." + seg.Field
		} else {
			path += "[]"
		}
	}
	p.line("Offsetof %s", path)
	return nil
}

func (p *AstPrinter) VisitVaBuiltin(e *VaBuiltinExpr) any {
	p.line("VaBuiltin")
	p.nested(func() { p.printExpr(e.Ap); p.printExpr(e.Arg) })
	return nil
}

func (p *AstPrinter) printInit(item *InitItem) {
	if item == nil {
		return
	}
	if item.Filler {
		p.line("InitFiller")
		return
	}
	if item.List == nil {
		p.printExpr(item.Value)
		return
	}
	p.line("InitList")
	p.nested(func() {
		for _, child := range item.List {
			p.printInit(child)
		}
	})
}
