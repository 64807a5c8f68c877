package cc

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

// compileFiles runs the whole front end over an in-memory file set and
// returns the translation unit plus the reporter holding every diagnostic.
func compileFiles(t *testing.T, files map[string]string, main string) (*TranslationUnit, *CollectingReporter) {
	t.Helper()
	loader := NewInMemoryLoader()
	for name, content := range files {
		loader.Add(name, []byte(content))
	}
	reg := NewRegistry(loader, nil)
	rep := NewCollectingReporter(io.Discard, reg.Bytes)
	pipe := NewPipeline(DefaultOptions(), rep, reg)
	tu, err := pipe.Run(main)
	require.NoError(t, err)
	require.NotNil(t, tu)
	return tu, rep
}

func compileSource(t *testing.T, src string) (*TranslationUnit, *CollectingReporter) {
	t.Helper()
	return compileFiles(t, map[string]string{"main.c": src}, "main.c")
}

// lexAll preprocesses and lexes src to EOF, returning the token stream.
func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	return lexAllFiles(t, map[string]string{"main.c": src}, "main.c", DefaultOptions())
}

func lexAllFiles(t *testing.T, files map[string]string, main string, opts *Options) []Token {
	t.Helper()
	loader := NewInMemoryLoader()
	for name, content := range files {
		loader.Add(name, []byte(content))
	}
	reg := NewRegistry(loader, nil)
	rep := NewCollectingReporter(io.Discard, reg.Bytes)
	syms := NewSymTab()
	pp := NewPreprocessor(reg, syms, rep, opts)
	require.NoError(t, pp.PushFile(main))
	lx := NewLexer(pp, syms)
	var toks []Token
	for {
		tok := lx.Next()
		if tok.Kind == TokEOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func tokenTexts(toks []Token) []string {
	out := make([]string, len(toks))
	for i, tok := range toks {
		out[i] = tok.Text
	}
	return out
}

// findGlobal returns the first file-scope declaration with the given name.
func findGlobal(t *testing.T, tu *TranslationUnit, name string) (*GlobalDecl, *Decl) {
	t.Helper()
	for _, g := range tu.Globals {
		if g.D == InvalidID {
			continue
		}
		d := tu.Arena.Decl(g.D)
		if d.Name == name {
			return g, d
		}
	}
	t.Fatalf("no global named %q", name)
	return nil, nil
}

// findLocal digs a named local declaration out of a function's body.
func findLocal(t *testing.T, tu *TranslationUnit, fn *GlobalDecl, name string) *Decl {
	t.Helper()
	var found *Decl
	WalkStmt(tu.Arena, fn.Body, func(id StmtID, st Stmt) {
		ds, ok := st.(*DeclStmt)
		if !ok {
			return
		}
		for _, did := range ds.Decls {
			if d := tu.Arena.Decl(did); d.Name == name {
				found = d
			}
		}
	})
	require.NotNil(t, found, "no local named %q", name)
	return found
}

// returnExpr digs the expression out of the first return statement in a
// function's body, the shape most of the end-to-end scenarios assert on.
func returnExpr(t *testing.T, tu *TranslationUnit, fn *GlobalDecl) ExprID {
	t.Helper()
	var ret ExprID = InvalidID
	WalkStmt(tu.Arena, fn.Body, func(id StmtID, st Stmt) {
		if r, ok := st.(*ReturnStmt); ok && ret == InvalidID {
			ret = r.Value
		}
	})
	require.NotEqual(t, ExprID(InvalidID), ret, "function has no return statement")
	return ret
}
