package cc

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMacroArithmeticConstantFolds(t *testing.T) {
	// Scenario S1 end to end: nested function-like macros, type-checked,
	// constant-evaluated.
	src := `
#define FOO(a, b) ((a) + (b))
#define BAR(c, d) FOO(c*d, c*d)
int main(void) { return BAR(1, 2); }
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())

	g, _ := findGlobal(t, tu, "main")
	ret := returnExpr(t, tu, g)
	rt := exprResolvedType(tu.Arena.Expr(ret))
	assert.True(t, tu.Types.IsInteger(rt))

	s := NewSema(tu.Arena, tu.Types, rep)
	v, ok := s.constEval(ret)
	require.True(t, ok)
	assert.Equal(t, int64(4), v)
}

func TestTokenPasteConstantFolds(t *testing.T) {
	// Scenario S2: the pasted literal parses and evaluates to 123.
	src := `
#define CATTER(a,b,c) a ## ## b ## c ## L
int main(void) { return CATTER(1,2,3); }
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())

	g, _ := findGlobal(t, tu, "main")
	ret := returnExpr(t, tu, g)
	lit, ok := tu.Arena.Expr(ret).(*IntLitExpr)
	require.True(t, ok)
	assert.Equal(t, uint64(123), lit.Value)
}

func TestMacroShadowsFunctionOnce(t *testing.T) {
	// Scenario S3: the macro expands once, the inner occurrence stays a
	// plain call to the function of the same name.
	src := `
#define plus(x,y) x*y+plus(x,y)
int plus(int a, int b) { return a + b; }
int main(void) { return plus(2, 3); }
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())

	g, _ := findGlobal(t, tu, "main")
	ret := returnExpr(t, tu, g)
	sum, ok := tu.Arena.Expr(ret).(*BinaryExpr)
	require.True(t, ok)
	require.Equal(t, TokPlus, sum.Op)

	s := NewSema(tu.Arena, tu.Types, rep)
	lhs, ok := s.constEval(sum.LHS)
	require.True(t, ok)
	assert.Equal(t, int64(6), lhs)

	call, ok := tu.Arena.Expr(sum.RHS).(*CallExpr)
	require.True(t, ok)
	callee, ok := tu.Arena.Expr(call.Callee).(*IdentExpr)
	require.True(t, ok)
	assert.Equal(t, "plus", callee.Name)
	require.Len(t, call.Args, 2)
}

func TestExpressionTyping(t *testing.T) {
	for _, test := range []struct {
		name string
		src  string
		want TypeKind
	}{
		{name: "int plus int", src: "int a, b; int r = a + b;", want: TyInt},
		{name: "int plus long", src: "int a; long b; long r = a + b;", want: TyLong},
		{name: "int plus double", src: "int a; double b; double r = a + b;", want: TyDouble},
		{name: "char promotes", src: "char a, b; int r = a + b;", want: TyInt},
		{name: "comparison is bool", src: "int a, b; int r = a < b;", want: TyBool},
		{name: "logical is bool", src: "int a, b; int r = a && b;", want: TyBool},
		{name: "unsigned wins tie", src: "unsigned int a; int b; unsigned int r = a + b;", want: TyUInt},
		{name: "shift keeps left type", src: "long a; int b; long r = a << b;", want: TyLong},
	} {
		t.Run(test.name, func(t *testing.T) {
			tu, rep := compileSource(t, "int main(void) { "+test.src+" return 0; }\n")
			require.False(t, rep.Failed(), "diagnostics: %v", rep.Diagnostics)
			g, _ := findGlobal(t, tu, "main")
			d := findLocal(t, tu, g, "r")
			got := exprResolvedType(tu.Arena.Expr(d.Init))
			assert.Equal(t, test.want, tu.Types.Get(got).Kind)
		})
	}
}

func TestPointerArithmeticTyping(t *testing.T) {
	src := `
int main(void) {
    int arr[10];
    int *p = arr + 3;
    unsigned long d = &arr[9] - &arr[0];
    return (int)d + *p;
}
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed(), "diagnostics: %v", rep.Diagnostics)
	g, _ := findGlobal(t, tu, "main")

	p := findLocal(t, tu, g, "p")
	pt := tu.Types.Get(exprResolvedType(tu.Arena.Expr(p.Init)))
	require.Equal(t, TyPointer, pt.Kind)
	assert.Equal(t, TyInt, tu.Types.Get(pt.Elem).Kind)

	d := findLocal(t, tu, g, "d")
	dt := tu.Types.Get(exprResolvedType(tu.Arena.Expr(d.Init)))
	assert.Equal(t, TyULong, dt.Kind)
}

func TestAssignabilityMatrix(t *testing.T) {
	arena := NewArena()
	types := NewTypeTable(arena)
	rep := NewCollectingReporter(io.Discard, nil)
	s := NewSema(arena, types, rep)

	intT := types.Basic(TyInt)
	charT := types.Basic(TyChar)
	longT := types.Basic(TyLong)
	doubleT := types.Basic(TyDouble)
	voidP := types.Pointer(types.Basic(TyVoid))
	intP := types.Pointer(intT)
	charP := types.Pointer(charT)

	// Reflexive and transitive on numerics.
	numerics := []TypeID{charT, intT, longT, doubleT}
	for _, a := range numerics {
		for _, b := range numerics {
			assert.True(t, s.assignable(a, b, Mark{}, "test"))
		}
	}

	// void* unifies with any pointer.
	assert.True(t, s.assignable(voidP, intP, Mark{}, "test"))
	assert.True(t, s.assignable(intP, voidP, Mark{}, "test"))

	// Compatible pointees.
	assert.True(t, s.assignable(intP, types.Pointer(intT), Mark{}, "test"))

	// Incompatible pointees are a hard error.
	assert.False(t, s.assignable(intP, charP, Mark{}, "test"))

	// Pointer/integer mixes warn but pass.
	nWarn := len(rep.Diagnostics)
	assert.True(t, s.assignable(intP, intT, Mark{}, "test"))
	assert.True(t, s.assignable(intT, intP, Mark{}, "test"))
	assert.Greater(t, len(rep.Diagnostics), nWarn)
}

func TestTypingErrors(t *testing.T) {
	for _, test := range []struct {
		name string
		src  string
	}{
		{name: "undeclared identifier", src: "int main(void) { return missing; }"},
		{name: "assignment to rvalue", src: "int main(void) { 1 = 2; return 0; }"},
		{name: "struct mismatch", src: "struct A {int x;}; struct B {int x;}; struct A a; struct B b; int main(void) { a = b; return 0; }"},
		{name: "return struct from int fn", src: "struct S {int a;}; struct S s; int main(void) { return s; }"},
		{name: "case not constant", src: "int main(void) { int v = 1; switch (v) { case v: break; } return 0; }"},
		{name: "duplicate case", src: "int main(void) { switch (1) { case 2: break; case 2: break; } return 0; }"},
		{name: "break outside loop", src: "int main(void) { break; return 0; }"},
		{name: "continue outside loop", src: "int main(void) { continue; return 0; }"},
		{name: "member missing", src: "struct S {int a;}; struct S s; int main(void) { return s.b; }"},
		{name: "deref non-pointer", src: "int main(void) { int x = 1; return *x; }"},
		{name: "call non-function", src: "int main(void) { int x = 1; return x(); }"},
		{name: "wrong arg count", src: "int f(int a); int main(void) { return f(1, 2); }"},
		{name: "void in arithmetic", src: "void g(void); int main(void) { int x = g(); return x; }"},
		{name: "duplicate label", src: "int main(void) { l: ; l: ; return 0; }"},
		{name: "incomplete struct use", src: "struct S; struct S s; int main(void) { return 0; }"},
		{name: "static assert failure", src: "_Static_assert(1 == 2, \"oops\"); int main(void) { return 0; }"},
		{name: "function redefinition", src: "int f(void) { return 0; } int f(void) { return 1; } int main(void) { return f(); }"},
		{name: "initialized variable redefinition", src: "int x = 1; int x = 2; int main(void) { return x; }"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, rep := compileSource(t, test.src+"\n")
			assert.True(t, rep.Failed(), "expected a diagnostic")
		})
	}
}

func TestTypingAccepts(t *testing.T) {
	for _, test := range []struct {
		name string
		src  string
	}{
		{name: "member chain", src: "struct In {int v;}; struct Out {struct In in;}; struct Out o; int main(void) { return o.in.v; }"},
		{name: "arrow chain", src: "struct S {int v; struct S *next;}; struct S s; int main(void) { return s.next->v; }"},
		{name: "ternary", src: "int main(void) { int a = 1; return a ? 2 : 3; }"},
		{name: "comma", src: "int main(void) { int a; return (a = 1, a + 1); }"},
		{name: "compound assignment", src: "int main(void) { int a = 1; a += 2; a <<= 1; return a; }"},
		{name: "address and deref", src: "int main(void) { int a = 1; int *p = &a; return *p; }"},
		{name: "array index", src: "int main(void) { int a[3]; a[0] = 1; return a[0]; }"},
		{name: "sizeof", src: "int main(void) { return sizeof(int) + sizeof 'c'; }"},
		{name: "alignof", src: "int main(void) { return _Alignof(double); }"},
		{name: "cast", src: "int main(void) { double d = 1.5; return (int)d; }"},
		{name: "static assert pass", src: "_Static_assert(sizeof(int) == 4, \"int is 4\"); int main(void) { return 0; }"},
		{name: "string subscript", src: "int main(void) { return \"abc\"[1]; }"},
		{name: "compound literal", src: "struct P {int x, y;}; int main(void) { struct P p = (struct P){1, 2}; return p.x; }"},
		{name: "void function call statement", src: "void g(void); int main(void) { g(); return 0; }"},
	} {
		t.Run(test.name, func(t *testing.T) {
			_, rep := compileSource(t, test.src+"\n")
			assert.False(t, rep.Failed(), "unexpected diagnostics: %v", rep.Diagnostics)
		})
	}
}

func TestVaBuiltins(t *testing.T) {
	src := `
int sum(int n, ...) {
    va_list ap;
    __builtin_va_start(ap, n);
    int total = __builtin_va_arg(ap, int);
    va_list ap2;
    __builtin_va_copy(ap2, ap);
    __builtin_va_end(ap2);
    __builtin_va_end(ap);
    return total;
}
`
	_, rep := compileSource(t, src)
	assert.False(t, rep.Failed(), "unexpected diagnostics: %v", rep.Diagnostics)
}

func TestVaStartRequiresLastParam(t *testing.T) {
	src := `
int sum(int n, int m, ...) {
    va_list ap;
    __builtin_va_start(ap, n);
    return 0;
}
`
	_, rep := compileSource(t, src)
	assert.True(t, rep.Failed())
}

func TestConstEvaluatorDeterminism(t *testing.T) {
	src := `
enum { K = 3 };
int main(void) { return (K * 7 + 1) << 2 | (10 % 3); }
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	g, _ := findGlobal(t, tu, "main")
	ret := returnExpr(t, tu, g)
	s := NewSema(tu.Arena, tu.Types, rep)
	v1, ok1 := s.constEval(ret)
	v2, ok2 := s.constEval(ret)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.Equal(t, v1, v2)
	assert.Equal(t, int64((3*7+1)<<2|(10%3)), v1)
}

func TestOffsetofEvaluates(t *testing.T) {
	src := `
struct S { char c; int i; int arr[4]; };
unsigned long a = __builtin_offsetof(struct S, i);
unsigned long b = __builtin_offsetof(struct S, arr[2]);
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())
	s := NewSema(tu.Arena, tu.Types, rep)

	_, da := findGlobal(t, tu, "a")
	v, ok := s.constEval(da.Init)
	require.True(t, ok)
	assert.Equal(t, int64(4), v)

	_, db := findGlobal(t, tu, "b")
	v, ok = s.constEval(db.Init)
	require.True(t, ok)
	assert.Equal(t, int64(8+2*4), v)
}

func TestVariadicCallArgumentCount(t *testing.T) {
	src := `
int printf(const char *fmt, ...);
int main(void) {
    printf("%d %d", 1, 2);
    return printf();
}
`
	_, rep := compileSource(t, src)
	assert.True(t, rep.Failed(), "calling a variadic function with too few fixed arguments must be diagnosed")
}
