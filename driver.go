package cc

import (
	"fmt"
	"os"
)

var stdout = os.Stdout

// Options collects every driver-level knob the CLI front end exposes. It's
// deliberately a plain struct rather than the grammar package's generic
// map-of-any config: the set of options is fixed and known at compile time,
// so a struct gives callers field-name typo safety the generic accessor
// pattern trades away on purpose for dynamically-named grammar directives.
type Options struct {
	IncludeDirs []string
	Defines     []string
	Undefines   []string

	Std              string
	WarningsAsErrors bool
	OptLevel         int

	DumpTokens bool
	DumpAST    bool
	DumpPP     bool

	BuildDate string
	BuildTime string
}

func DefaultOptions() *Options {
	return &Options{Std: "c11", BuildDate: "??? ?? ????", BuildTime: "??:??:??"}
}

// TranslationUnit is the front end's output: the arena holding every AST
// node produced while parsing and checking one source file, plus the
// global declaration list in source order.
type TranslationUnit struct {
	Arena         *Arena
	Globals       []*GlobalDecl
	Types         *TypeTable
	StaticAsserts []StaticAssert
}

// Pipeline wires the Registry, Preprocessor, Lexer, Parser and Sema stages
// together the way cmd/ccgo/main.go expects to run them: construct once per
// translation unit, call Run.
type Pipeline struct {
	Options *Options
	Diag    Reporter
	Reg     *Registry
	Syms    *SymTab
}

func NewPipeline(opts *Options, diag Reporter, reg *Registry) *Pipeline {
	return &Pipeline{Options: opts, Diag: diag, Reg: reg, Syms: NewSymTab()}
}

// Run preprocesses, lexes, parses and checks path, returning the resulting
// TranslationUnit. It returns a non-nil error only for conditions that
// prevent any output at all (the root file can't be opened); semantic and
// syntax errors are reported through Diag and reflected in Diag.Failed(),
// not returned as a Go error.
func (p *Pipeline) Run(path string) (*TranslationUnit, error) {
	pp := NewPreprocessor(p.Reg, p.Syms, p.Diag, p.Options)
	if err := pp.PushFile(path); err != nil {
		return nil, fmt.Errorf("ccgo: %w", err)
	}
	lx := NewLexer(pp, p.Syms)

	if p.Options.DumpPP {
		dumpPreprocessed(lx, p.Diag)
		return nil, nil
	}
	if p.Options.DumpTokens {
		dumpTokens(lx)
		return nil, nil
	}

	arena := NewArena()
	types := NewTypeTable(arena)
	parser := NewParser(lx, p.Diag, arena, types, p.Syms)

	globals := parser.ParseTranslationUnit()
	tu := &TranslationUnit{Arena: arena, Globals: globals, Types: types, StaticAsserts: parser.StaticAsserts()}

	sema := NewSema(arena, types, p.Diag)
	sema.CheckTranslationUnit(tu)

	if p.Options.DumpAST {
		NewAstPrinter(arena, types, stdout).PrintTranslationUnit(tu)
	}

	return tu, nil
}

// dumpPreprocessed drives the Lexer to EOF and reprints the expanded token
// stream with the spacing each token recorded, implementing `--dump_pp`.
func dumpPreprocessed(lx *Lexer, diag Reporter) {
	first := true
	for {
		tok := lx.Next()
		if tok.Kind == TokEOF {
			fmt.Println()
			return
		}
		if tok.SpaceBefore && !first {
			fmt.Print(" ")
		}
		fmt.Print(tok.Text)
		first = false
	}
}

// dumpTokens drains lx to EOF, printing one token per line for
// `--dump_tokens`.
func dumpTokens(lx *Lexer) {
	for {
		tok := lx.Next()
		fmt.Printf("%-20s %-12v %q\n", tok.Mark, tok.Kind, tok.Text)
		if tok.Kind == TokEOF {
			return
		}
	}
}
