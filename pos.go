package cc

import "fmt"

// Mark records where a token or AST node came from: a file, a 1-based
// line/column, the byte offset of the start of that line, and an optional
// parent mark. The parent chain is how a token produced by macro expansion
// is attributed back to the call site that produced it: expanding FOO(x)
// gives every token in the expansion a mark whose Parent is the mark of the
// `FOO(x)` invocation itself. x's substituted value is part of that same
// replacement text, so its tokens share the same Parent.
//
// Marks are refcounted (via markChain) rather than copied because many
// sibling tokens coming out of one macro invocation share the same parent
// chain; cloning it per-token would be wasteful and marks are never
// mutated once built.
type Mark struct {
	File       string
	Line       int
	Column     int
	LineOffset int
	chain      *markChain
}

type markChain struct {
	refs   int32
	parent *Mark
}

// NewMark returns a root mark with no expansion history.
func NewMark(file string, line, column, lineOffset int) Mark {
	return Mark{File: file, Line: line, Column: column, LineOffset: lineOffset}
}

// WithParent returns a copy of m whose Parent is p, retaining p's chain.
// Used when attributing a macro-expanded token back to the site that
// produced it.
func (m Mark) WithParent(p Mark) Mark {
	pc := p
	chain := &markChain{refs: 1, parent: &pc}
	return Mark{File: m.File, Line: m.Line, Column: m.Column, LineOffset: m.LineOffset, chain: chain}
}

// Parent returns the mark one level up the expansion chain, and whether one
// exists.
func (m Mark) Parent() (Mark, bool) {
	if m.chain == nil || m.chain.parent == nil {
		return Mark{}, false
	}
	return *m.chain.parent, true
}

// Retain and Release implement the chain's refcounting; they are no-ops on
// a root mark. Go's GC would reclaim an unreferenced chain on its own, but
// keeping explicit Retain/Release mirrors the ownership story in the spec
// (and lets diagnostics assert a chain outlives every token that shares it).
func (m Mark) Retain() Mark {
	if m.chain != nil {
		m.chain.refs++
	}
	return m
}

func (m Mark) Release() {
	if m.chain != nil {
		m.chain.refs--
	}
}

func (m Mark) String() string {
	return fmt.Sprintf("%s:%d:%d", m.File, m.Line, m.Column)
}

// Chain returns the full parent chain starting at m, innermost first.
func (m Mark) Chain() []Mark {
	chain := []Mark{m}
	cur := m
	for {
		p, ok := cur.Parent()
		if !ok {
			return chain
		}
		chain = append(chain, p)
		cur = p
	}
}
