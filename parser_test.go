package cc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeclaratorShapes(t *testing.T) {
	// `int (*a[5])(void)` must come out as array-of pointer-to
	// function-returning-int, the classic patch-pointer exercise.
	tu, rep := compileSource(t, "int (*a[5])(void);\n")
	require.False(t, rep.Failed())

	_, d := findGlobal(t, tu, "a")
	arr := tu.Types.Get(d.Type)
	require.Equal(t, TyArray, arr.Kind)
	assert.Equal(t, int64(5), arr.ArrayLen)

	ptr := tu.Types.Get(arr.Elem)
	require.Equal(t, TyPointer, ptr.Kind)

	fn := tu.Types.Get(ptr.Elem)
	require.Equal(t, TyFunction, fn.Kind)
	assert.Empty(t, fn.Params)
	assert.Equal(t, TyInt, tu.Types.Get(fn.Return).Kind)
}

func TestParseMultiDeclaratorSharesBase(t *testing.T) {
	tu, rep := compileSource(t, "int *p, q[3];\n")
	require.False(t, rep.Failed())

	_, p := findGlobal(t, tu, "p")
	assert.Equal(t, TyPointer, tu.Types.Get(p.Type).Kind)

	_, q := findGlobal(t, tu, "q")
	qt := tu.Types.Get(q.Type)
	require.Equal(t, TyArray, qt.Kind)
	assert.Equal(t, TyInt, tu.Types.Get(qt.Elem).Kind)
}

func TestTypedefDisambiguation(t *testing.T) {
	src := `
typedef int T;
T x;
int main(void) {
    T a = 1;
    return a;
}
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	_, x := findGlobal(t, tu, "x")
	assert.Equal(t, TyInt, tu.Types.Get(x.Type).Kind)
}

func TestTypedefShadowing(t *testing.T) {
	// Inside the block, T names a variable; the typedef becomes visible
	// again when the block exits.
	src := `
typedef int T;
int main(void) {
    T a = 1;
    {
        int T = 2;
        T = T + 1;
    }
    T b = 2;
    return a + b;
}
`
	_, rep := compileSource(t, src)
	assert.False(t, rep.Failed())
}

func TestParseStructDefinition(t *testing.T) {
	src := `
struct point { int x; int y; };
struct point origin;
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "origin")
	st := tu.Types.Get(d.Type)
	require.Equal(t, TyStruct, st.Kind)
	assert.Equal(t, "point", st.Tag)
	require.Len(t, st.Fields, 2)
	assert.Equal(t, "x", st.Fields[0].Name)
	assert.Equal(t, "y", st.Fields[1].Name)
}

func TestParseForwardDeclaredStruct(t *testing.T) {
	src := `
struct node;
struct node { int value; struct node *next; };
struct node head;
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "head")
	st := tu.Types.Get(d.Type)
	require.True(t, st.Complete)
	require.Len(t, st.Fields, 2)
	// The self-referential pointer must point back at the same node.
	next := tu.Types.Get(st.Fields[1].Type)
	require.Equal(t, TyPointer, next.Kind)
	assert.Equal(t, d.Type, next.Elem)
}

func TestParseEnum(t *testing.T) {
	src := `
enum color { RED, GREEN = 5, BLUE };
enum color c = BLUE;
int x = BLUE;
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "c")
	et := tu.Types.Get(d.Type)
	require.Equal(t, TyEnum, et.Kind)
	require.Len(t, et.Enumerators, 3)
	assert.Equal(t, int64(0), et.Enumerators[0].Value)
	assert.Equal(t, int64(5), et.Enumerators[1].Value)
	assert.Equal(t, int64(6), et.Enumerators[2].Value)
}

func TestParseStatements(t *testing.T) {
	src := `
int main(void) {
    int i;
    for (i = 0; i < 10; i++) {
        if (i == 5)
            continue;
        while (i > 8)
            break;
    }
    switch (i) {
    case 1:
        return 1;
    default:
        break;
    }
    do {
        i--;
    } while (i > 0);
    goto done;
done:
    return 0;
}
`
	_, rep := compileSource(t, src)
	assert.False(t, rep.Failed())
}

func TestForScopeDeclaration(t *testing.T) {
	src := `
int main(void) {
    for (int i = 0; i < 3; i++) { }
    for (int i = 0; i < 5; i++) { }
    return 0;
}
`
	_, rep := compileSource(t, src)
	assert.False(t, rep.Failed())
}

func TestUnresolvedGotoIsError(t *testing.T) {
	src := `
int main(void) {
    goto missing;
    return 0;
}
`
	_, rep := compileSource(t, src)
	assert.True(t, rep.Failed())
}

func TestAdjacentStringLiteralsConcatenate(t *testing.T) {
	tu, rep := compileSource(t, `char *s = "ab" "cd";`+"\n")
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "s")
	lit, ok := tu.Arena.Expr(d.Init).(*StringLitExpr)
	require.True(t, ok)
	assert.Equal(t, "abcd", string(lit.Value))
}

func TestParserErrorRecovery(t *testing.T) {
	// A bad top-level declaration must not hide the good one after it.
	src := "int @ bad;\nint good;\n"
	tu, rep := compileSource(t, src)
	assert.True(t, rep.Failed())
	found := false
	for _, g := range tu.Globals {
		if g.D != InvalidID && tu.Arena.Decl(g.D).Name == "good" {
			found = true
		}
	}
	assert.True(t, found, "parser should recover and parse the declaration after the error")
}

func TestFunctionDefinitionParameters(t *testing.T) {
	src := `
int add(int a, int b) {
    return a + b;
}
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	g, d := findGlobal(t, tu, "add")
	require.Equal(t, GlobalFuncDef, g.Kind)
	fn := tu.Types.Get(d.Type)
	require.Equal(t, TyFunction, fn.Kind)
	require.Len(t, g.Params, 2)
	assert.Equal(t, "a", tu.Arena.Decl(g.Params[0]).Name)
	assert.Equal(t, "b", tu.Arena.Decl(g.Params[1]).Name)
}

func TestVariadicFunctionDeclaration(t *testing.T) {
	tu, rep := compileSource(t, "int printf(const char *fmt, ...);\n")
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "printf")
	fn := tu.Types.Get(d.Type)
	require.Equal(t, TyFunction, fn.Kind)
	assert.True(t, fn.Variadic)
	assert.Len(t, fn.Params, 1)
}
