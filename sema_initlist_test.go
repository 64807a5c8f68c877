package cc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initValue(t *testing.T, tu *TranslationUnit, item *InitItem) int64 {
	t.Helper()
	require.Nil(t, item.List, "expected a scalar entry")
	require.False(t, item.Filler, "expected a value, found a filler")
	lit, ok := tu.Arena.Expr(item.Value).(*IntLitExpr)
	require.True(t, ok, "expected an integer literal")
	return int64(lit.Value)
}

func TestCanonicalizeStructPositional(t *testing.T) {
	src := `
struct P { int x; int y; int z; };
struct P p = { 1, 2 };
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "p")
	require.NotNil(t, d.InitList)
	require.Len(t, d.InitList.List, 3)
	assert.Equal(t, int64(1), initValue(t, tu, d.InitList.List[0]))
	assert.Equal(t, int64(2), initValue(t, tu, d.InitList.List[1]))
	assert.True(t, d.InitList.List[2].Filler, "unfilled member becomes a zero placeholder")
}

func TestCanonicalizeDesignatorsReorder(t *testing.T) {
	src := `
struct P { int x; int y; };
struct P p = { .y = 2, .x = 1 };
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "p")
	require.Len(t, d.InitList.List, 2)
	assert.Equal(t, int64(1), initValue(t, tu, d.InitList.List[0]))
	assert.Equal(t, int64(2), initValue(t, tu, d.InitList.List[1]))
}

func TestCanonicalizeDesignatorOverwritesPositional(t *testing.T) {
	src := `
struct P { int x; int y; };
struct P p = { 9, 2, .x = 1 };
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "p")
	require.Len(t, d.InitList.List, 2)
	assert.Equal(t, int64(1), initValue(t, tu, d.InitList.List[0]))
	assert.Equal(t, int64(2), initValue(t, tu, d.InitList.List[1]))
}

func TestCanonicalizeAnonymousAggregates(t *testing.T) {
	// Scenario S5: designators that name members of anonymous aggregates
	// are collected into synthesized nested lists.
	src := `
typedef struct { int a; union { int b; struct { int c, d; }; }; } T;
T t = { .a = 1, .c = 2, .d = 3 };
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed(), "diagnostics: %v", rep.Diagnostics)
	_, d := findGlobal(t, tu, "t")
	top := d.InitList
	require.Len(t, top.List, 2)
	assert.Equal(t, int64(1), initValue(t, tu, top.List[0]))

	unionInit := top.List[1]
	require.NotNil(t, unionInit.List, "anonymous union member gets a nested list")
	require.Len(t, unionInit.List, 1)

	structInit := unionInit.List[0]
	require.NotNil(t, structInit.List, "anonymous struct member gets a nested list")
	require.Len(t, structInit.List, 2)
	assert.Equal(t, int64(2), initValue(t, tu, structInit.List[0]))
	assert.Equal(t, int64(3), initValue(t, tu, structInit.List[1]))
}

func TestCanonicalizeUnion(t *testing.T) {
	src := `
union U { int i; char c; };
union U a = { 5 };
union U b = { .c = 'x' };
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())

	_, da := findGlobal(t, tu, "a")
	require.Len(t, da.InitList.List, 1)
	assert.Equal(t, int64(5), initValue(t, tu, da.InitList.List[0]))

	_, db := findGlobal(t, tu, "b")
	require.Len(t, db.InitList.List, 1)
}

func TestCanonicalizeUnionLastDesignatorWins(t *testing.T) {
	src := `
union U { int i; char c; };
union U u = { .i = 1, .c = 'x' };
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "u")
	require.Len(t, d.InitList.List, 1)
	lit, ok := tu.Arena.Expr(d.InitList.List[0].Value).(*CharLitExpr)
	require.True(t, ok, "the later designator's value must win")
	assert.Equal(t, int64('x'), lit.Value)
}

func TestArrayLengthInference(t *testing.T) {
	src := "int a[] = { 1, 2, 3 };\n"
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "a")
	at := tu.Types.Get(d.Type)
	assert.Equal(t, int64(3), at.ArrayLen)
	assert.Equal(t, int64(12), at.Size)
	require.Len(t, d.InitList.List, 3)
}

func TestArrayDesignatedIndices(t *testing.T) {
	src := "int a[5] = { [2] = 7, 8 };\n"
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "a")
	require.Len(t, d.InitList.List, 5)
	assert.True(t, d.InitList.List[0].Filler)
	assert.True(t, d.InitList.List[1].Filler)
	assert.Equal(t, int64(7), initValue(t, tu, d.InitList.List[2]))
	assert.Equal(t, int64(8), initValue(t, tu, d.InitList.List[3]))
	assert.True(t, d.InitList.List[4].Filler)
}

func TestExcessArrayInitializerWarns(t *testing.T) {
	src := "int a[2] = { 1, 2, 3 };\n"
	tu, rep := compileSource(t, src)
	assert.False(t, rep.Failed(), "excess elements warn, they do not fail the unit")
	warned := false
	for _, d := range rep.Diagnostics {
		if d.Severity == SeverityWarning {
			warned = true
		}
	}
	assert.True(t, warned)
	_, d := findGlobal(t, tu, "a")
	assert.Len(t, d.InitList.List, 2)
}

func TestUnknownDesignatorIsError(t *testing.T) {
	src := "struct P { int x; }; struct P p = { .nope = 1 };\n"
	_, rep := compileSource(t, src)
	assert.True(t, rep.Failed())
}

func TestNestedInitLists(t *testing.T) {
	src := `
struct In { int a; int b; };
struct Out { struct In in; int tail; };
struct Out o = { { 1, 2 }, 3 };
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "o")
	require.Len(t, d.InitList.List, 2)
	inner := d.InitList.List[0]
	require.Len(t, inner.List, 2)
	assert.Equal(t, int64(1), initValue(t, tu, inner.List[0]))
	assert.Equal(t, int64(2), initValue(t, tu, inner.List[1]))
	assert.Equal(t, int64(3), initValue(t, tu, d.InitList.List[1]))
}

func TestCanonicalizationIsIdempotent(t *testing.T) {
	src := `
typedef struct { int a; union { int b; struct { int c, d; }; }; } T;
T t = { .a = 1, .c = 2, .d = 3 };
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "t")

	before := snapshotInit(d.InitList)
	s := NewSema(tu.Arena, tu.Types, rep)
	s.canonicalizeInit(d.Type, d.InitList)
	assert.Equal(t, before, snapshotInit(d.InitList))
}

// snapshotInit captures the structural shape of a canonical init tree so a
// repeated canonicalization can be shown to change nothing.
type initShape struct {
	Filler   bool
	Value    ExprID
	Children []initShape
}

func snapshotInit(item *InitItem) initShape {
	if item == nil {
		return initShape{Value: InvalidID}
	}
	shape := initShape{Filler: item.Filler, Value: item.Value}
	for _, child := range item.List {
		shape.Children = append(shape.Children, snapshotInit(child))
	}
	return shape
}
