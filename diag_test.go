package cc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReporterRendersSourceLineAndCaret(t *testing.T) {
	src := []byte("int x = bad;\n")
	var out strings.Builder
	rep := NewCollectingReporter(&out, func(file string) []byte {
		if file == "main.c" {
			return src
		}
		return nil
	})

	rep.Error(NewMark("main.c", 1, 9, 0), "undeclared identifier %q", "bad")
	rendered := out.String()
	assert.Contains(t, rendered, "main.c:1:9: error: undeclared identifier \"bad\"")
	assert.Contains(t, rendered, "int x = bad;")
	assert.Contains(t, rendered, "        ^")
	assert.True(t, rep.Failed())
}

func TestReporterRendersExpansionChain(t *testing.T) {
	var out strings.Builder
	rep := NewCollectingReporter(&out, nil)

	call := NewMark("main.c", 3, 1, 0)
	inner := NewMark("main.c", 1, 14, 0).WithParent(call)
	rep.Error(inner, "bad token")

	rendered := out.String()
	assert.Contains(t, rendered, "main.c:1:14: error: bad token")
	assert.Contains(t, rendered, "main.c:3:1: note: in expansion of macro")
}

func TestWarningsAsErrors(t *testing.T) {
	rep := NewCollectingReporter(&strings.Builder{}, nil)
	rep.Warning(Mark{}, "something")
	assert.False(t, rep.Failed())

	rep = NewCollectingReporter(&strings.Builder{}, nil)
	rep.SetWarningsAsErrors(true)
	rep.Warning(Mark{}, "something")
	assert.True(t, rep.Failed())
}

func TestMarkChain(t *testing.T) {
	root := NewMark("a.c", 10, 2, 0)
	mid := NewMark("macro", 1, 1, 0).WithParent(root)
	leaf := NewMark("macro2", 1, 5, 0).WithParent(mid)

	chain := leaf.Chain()
	require.Len(t, chain, 3)
	assert.Equal(t, "macro2:1:5", chain[0].String())
	assert.Equal(t, "macro:1:1", chain[1].String())
	assert.Equal(t, "a.c:10:2", chain[2].String())

	// Retain/Release are no-ops on a root mark and refcount a chain.
	root.Retain()
	root.Release()
	leaf.Retain().Release()
}
