package cc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

type layoutCase struct {
	Name    string           `yaml:"name"`
	Source  string           `yaml:"source"`
	Size    int64            `yaml:"size"`
	Align   int64            `yaml:"align"`
	Offsets map[string]int64 `yaml:"offsets"`
}

type layoutFile struct {
	Cases []layoutCase `yaml:"cases"`
}

func TestLayoutGoldenCases(t *testing.T) {
	data, err := os.ReadFile(filepath.Join("testdata", "layout_cases.yaml"))
	require.NoError(t, err)
	var file layoutFile
	require.NoError(t, yaml.Unmarshal(data, &file))
	require.NotEmpty(t, file.Cases)

	for _, test := range file.Cases {
		t.Run(test.Name, func(t *testing.T) {
			tu, rep := compileSource(t, test.Source)
			require.False(t, rep.Failed(), "diagnostics: %v", rep.Diagnostics)

			_, d := findGlobal(t, tu, "v")
			ty := tu.Types.Get(d.Type)
			assert.Equal(t, test.Size, ty.Size, "size")
			assert.Equal(t, test.Align, ty.Align, "align")

			s := NewSema(tu.Arena, tu.Types, rep)
			for name, want := range test.Offsets {
				_, off, ok := s.findMember(d.Type, name)
				require.True(t, ok, "member %q not found", name)
				assert.Equal(t, want, off, "offsetof(%s)", name)
			}
		})
	}
}

func TestLayoutInvariants(t *testing.T) {
	// size(T) % align(T) == 0 and offsetof(m) % align(typeof(m)) == 0 for
	// every completed aggregate in a representative translation unit.
	src := `
struct A { char c; int i; double d; };
struct B { struct A a; char tail; };
union U { struct A a; long l; char c; };
struct C { char x; union U u; short s[3]; };
struct A va; struct B vb; union U vu; struct C vc;
`
	tu, rep := compileSource(t, src)
	require.False(t, rep.Failed())

	for _, g := range tu.Globals {
		if g.D == InvalidID {
			continue
		}
		d := tu.Arena.Decl(g.D)
		ty := tu.Types.Get(d.Type)
		if ty.Kind != TyStruct && ty.Kind != TyUnion {
			continue
		}
		require.GreaterOrEqual(t, ty.Size, int64(0), "%s not laid out", d.Name)
		assert.Zero(t, ty.Size%ty.Align, "size %% align for %s", d.Name)
		for _, f := range ty.Fields {
			if f.IsBitField {
				continue
			}
			ft := tu.Types.Get(f.Type)
			assert.Zero(t, f.Offset%ft.Align, "member %s.%s misaligned", d.Name, f.Name)
			if ty.Kind == TyUnion {
				assert.Zero(t, f.Offset, "union member %s.%s has nonzero offset", d.Name, f.Name)
			}
		}
	}
}

func TestArraySizeIsElementMultiple(t *testing.T) {
	tu, rep := compileSource(t, "struct P { int a; char b; }; struct P arr[7];\n")
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "arr")
	at := tu.Types.Get(d.Type)
	require.Equal(t, TyArray, at.Kind)
	elem := tu.Types.Get(at.Elem)
	assert.Equal(t, int64(7)*elem.Size, at.Size)
}

func TestLayoutIsIdempotent(t *testing.T) {
	tu, rep := compileSource(t, "struct S { char c; int i; }; struct S v;\n")
	require.False(t, rep.Failed())
	_, d := findGlobal(t, tu, "v")
	ty := tu.Types.Get(d.Type)
	size, align := ty.Size, ty.Align

	s := NewSema(tu.Arena, tu.Types, rep)
	require.True(t, s.completeType(d.Type, Mark{}))
	assert.Equal(t, size, ty.Size)
	assert.Equal(t, align, ty.Align)
}

func TestIncompleteArrayWithoutInitializerIsError(t *testing.T) {
	_, rep := compileSource(t, "int a[];\n")
	assert.True(t, rep.Failed())
}

func TestNegativeArrayLengthIsError(t *testing.T) {
	_, rep := compileSource(t, "int a[-1];\n")
	assert.True(t, rep.Failed())
}

func TestBitFieldWidthChecks(t *testing.T) {
	_, rep := compileSource(t, "struct S { int a:40; };\nstruct S v;\n")
	assert.True(t, rep.Failed(), "bit-field wider than its type must be diagnosed")

	_, rep = compileSource(t, "struct S { int a:0; };\nstruct S v;\n")
	assert.True(t, rep.Failed(), "a named zero-width bit-field must be diagnosed")
}
