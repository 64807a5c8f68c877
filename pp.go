package cc

import "fmt"

// ppFrame is one level of the preprocessor's input stack: either a mapped
// source file or the pushed replacement text of an in-flight macro
// expansion. Frames are popped automatically as they're exhausted, which is
// what makes macro expansion transparent to the lexer: it just keeps
// calling cur()/advance() and the preprocessor silently splices in and out
// of replacement text.
type ppFrame struct {
	stream    *textStream
	parent    Mark
	hasParent bool
	macroName string // non-empty iff this frame is a macro's pushed body

	// condDepth is the `#if` nesting depth when this file frame was
	// pushed; a conditional opened inside a file must close before the
	// file ends.
	condDepth int
}

// Preprocessor is the character-level engine sitting between the Registry
// and the Lexer. It owns the frame stack, the macro table, and `#if` nesting
// state, and performs macro expansion and directive handling transparently
// as the lexer pulls identifiers and whitespace from it.
type Preprocessor struct {
	reg    *Registry
	syms   *SymTab
	diag   Reporter
	macros *MacroTable
	opts   *Options

	frames      []*ppFrame
	expanding   []string // names of macros currently being expanded, for self-reference suppression
	conds       []condFrame
	wasExpanded bool

	dumpPP []byte // accumulated output for --dump_pp, nil unless requested
}

// condFrame tracks one level of `#if`/`#ifdef` nesting.
type condFrame struct {
	taken     bool // this branch's condition was true
	everTaken bool // some branch of this chain has already been taken
	seenElse  bool
	active    bool // the enclosing chain is active (governs whether this one's truth matters)
	mark      Mark
}

func NewPreprocessor(reg *Registry, syms *SymTab, diag Reporter, opts *Options) *Preprocessor {
	pp := &Preprocessor{
		reg:    reg,
		syms:   syms,
		diag:   diag,
		macros: NewMacroTable(),
		opts:   opts,
	}
	installPredefines(pp.macros, opts)
	return pp
}

// PushFile opens path as the root input file. Called once by the driver
// before the first Lexer.Next().
func (pp *Preprocessor) PushFile(path string) error {
	data, resolved, err := pp.reg.Load(path)
	if err != nil {
		return err
	}
	pp.frames = append(pp.frames, &ppFrame{stream: newTextStream(resolved, data), condDepth: len(pp.conds)})
	return nil
}

// top returns the innermost live frame, popping any that have been fully
// consumed. Returns nil once every frame is exhausted.
func (pp *Preprocessor) top() *ppFrame {
	for len(pp.frames) > 0 {
		f := pp.frames[len(pp.frames)-1]
		if !f.stream.atEOF() {
			return f
		}
		pp.popFrame()
	}
	return nil
}

func (pp *Preprocessor) popFrame() {
	n := len(pp.frames)
	f := pp.frames[n-1]
	pp.frames = pp.frames[:n-1]
	if !f.hasParent && len(pp.conds) > f.condDepth {
		pp.diag.Error(pp.conds[len(pp.conds)-1].mark, "unterminated conditional directive")
		pp.conds = pp.conds[:f.condDepth]
	}
	if f.macroName != "" {
		for i := len(pp.expanding) - 1; i >= 0; i-- {
			if pp.expanding[i] == f.macroName {
				pp.expanding = append(pp.expanding[:i], pp.expanding[i+1:]...)
				break
			}
		}
	}
}

func (pp *Preprocessor) atEOF() bool { return pp.top() == nil }

func (pp *Preprocessor) cur() byte {
	f := pp.top()
	if f == nil {
		return 0
	}
	return f.stream.cur()
}

func (pp *Preprocessor) last() byte {
	f := pp.top()
	if f == nil {
		return 0
	}
	return f.stream.last()
}

func (pp *Preprocessor) peek(n int) byte {
	f := pp.top()
	if f == nil {
		return 0
	}
	return f.stream.peekAt(n)
}

func (pp *Preprocessor) advance() byte {
	f := pp.top()
	if f == nil {
		return 0
	}
	return f.stream.advance()
}

func (pp *Preprocessor) skipString(q byte) (string, bool) {
	f := pp.top()
	if f == nil {
		return "", false
	}
	return f.stream.skipString(q)
}

func (pp *Preprocessor) mark() Mark {
	f := pp.top()
	if f == nil {
		return Mark{}
	}
	m := f.stream.mark()
	if f.hasParent {
		m = m.WithParent(f.parent)
	}
	return m
}

// skipInterTokenSpace consumes whitespace and comments, handling directive
// lines (`#...`) transparently as it crosses them, and reports whether it
// consumed anything. It is the only place that recognizes the start of a
// preprocessing directive: a '#' seen here, at the start of a logical line
// with only whitespace before it, is a directive rather than a token.
func (pp *Preprocessor) skipInterTokenSpace() bool {
	any := false
	for {
		f := pp.top()
		if f == nil {
			return any
		}
		switch {
		case !f.hasParent && f.stream.column == 1 && pp.atLineStart(f):
			// A '#' with only whitespace before it on the line, outside any
			// macro frame, starts a directive. This covers both the first
			// line of a file and every line after a consumed newline.
			pp.tryDirective(f)
			any = true
		case f.stream.cur() == ' ' || f.stream.cur() == '\t':
			f.stream.advance()
			any = true
		case f.stream.cur() == '\n':
			f.stream.advance()
			any = true
		case f.stream.cur() == '/' && f.stream.peekAt(1) == '/':
			f.stream.skipLine()
			any = true
		case f.stream.cur() == '/' && f.stream.peekAt(1) == '*':
			m := f.stream.mark()
			f.stream.advance()
			f.stream.advance()
			for !f.stream.atEOF() && !(f.stream.cur() == '*' && f.stream.peekAt(1) == '/') {
				f.stream.advance()
			}
			if f.stream.atEOF() {
				pp.diag.Error(m, "unterminated comment")
			} else {
				f.stream.advance()
				f.stream.advance()
			}
			any = true
		default:
			if f.stream.atEOF() {
				pp.popFrame()
				any = true
				continue
			}
			return any
		}
	}
}

// atLineStart reports whether the stream is positioned right after a
// newline with nothing but a '#' to come, i.e. the next non-blank content
// could be a directive.
func (pp *Preprocessor) atLineStart(f *ppFrame) bool {
	cp := f.stream.clone()
	cp.skipWS()
	return cp.cur() == '#'
}

// tryDirective consumes a leading '#' at the start of a line, if present,
// and hands the rest of the line to the directive dispatcher.
func (pp *Preprocessor) tryDirective(f *ppFrame) {
	f.stream.skipWS()
	if f.stream.cur() != '#' {
		return
	}
	f.stream.advance()
	pp.handleDirective(f)
}

// isDisabled reports whether name is currently being expanded higher up the
// frame stack, which blocks self-referential expansion (`#define X X`).
func (pp *Preprocessor) isDisabled(name string) bool {
	for _, n := range pp.expanding {
		if n == name {
			return true
		}
	}
	return false
}

// advanceIdentifier consumes the identifier under the cursor and, if it
// names an active macro, expands it: it pushes the (already argument-
// substituted) replacement text as a new frame and signals the caller via
// wasExpanded so the Lexer retries the token read from the new frame
// instead of treating the raw spelling as an identifier token.
func (pp *Preprocessor) advanceIdentifier() string {
	pp.wasExpanded = false
	startMark := pp.mark()
	f := pp.top()
	name := f.stream.advanceIdentifier()

	macro, ok := pp.macros.Lookup(name)
	if !ok || pp.isDisabled(name) {
		return name
	}

	switch macro.Kind {
	case MacroFunctionLike:
		if !pp.peekCallParen() {
			return name
		}
		pp.skipInterTokenSpace()
		pp.advance() // '('
		args, ok := pp.collectArgs(macro, startMark)
		if !ok {
			return name
		}
		body := pp.substituteMacroBody(macro, args, startMark)
		pp.pushMacroFrame(macro, body, startMark)
		pp.wasExpanded = true
		return ""
	case MacroBuiltin:
		text := macro.Builtin(pp, startMark)
		pp.pushMacroFrame(macro, text, startMark)
		pp.wasExpanded = true
		return ""
	default:
		// Object-like bodies still get `##` processing; the empty
		// invocation makes every identifier a non-parameter.
		empty := &invocation{macro: macro, rawArgs: map[string]string{}, expanded: map[string]string{}, callMark: startMark}
		body := pp.substituteMacroBody(macro, empty, startMark)
		pp.pushMacroFrame(macro, body, startMark)
		pp.wasExpanded = true
		return ""
	}
}

// peekCallParen reports whether, after skipping whitespace/comments/
// newlines, the next character is '(' — without disturbing the cursor if
// it isn't, since in that case the identifier is just an ordinary use of a
// function-like macro's name. The scan deliberately does NOT run
// directives it crosses: a macro name with a directive line between it and
// any '(' stands alone, and executing the directive inside a lookahead
// that may rewind would run it twice.
func (pp *Preprocessor) peekCallParen() bool {
	saved := pp.snapshot()
	isParen := false
scan:
	for {
		f := pp.top()
		if f == nil {
			break
		}
		c := f.stream.cur()
		switch {
		case c == ' ' || c == '\t':
			f.stream.advance()
		case c == '\n':
			f.stream.advance()
			if !f.hasParent && pp.atLineStart(f) {
				break scan
			}
		case c == '/' && f.stream.peekAt(1) == '/':
			f.stream.skipLine()
		case c == '/' && f.stream.peekAt(1) == '*':
			f.stream.advance()
			f.stream.advance()
			for !f.stream.atEOF() && !(f.stream.cur() == '*' && f.stream.peekAt(1) == '/') {
				f.stream.advance()
			}
			if !f.stream.atEOF() {
				f.stream.advance()
				f.stream.advance()
			}
		default:
			isParen = c == '('
			break scan
		}
	}
	if !isParen {
		pp.restore(saved)
	}
	return isParen
}

// snapshot/restore save and recreate the frame stack's cursor state for
// peekCallParen's bounded lookahead. Frames below the top are never
// mutated by skipInterTokenSpace except by being popped, so cloning each
// live frame's stream is sufficient.
type ppSnapshot struct {
	streams []*textStream
}

func (pp *Preprocessor) snapshot() ppSnapshot {
	s := ppSnapshot{streams: make([]*textStream, len(pp.frames))}
	for i, f := range pp.frames {
		s.streams[i] = f.stream.clone()
	}
	return s
}

func (pp *Preprocessor) restore(s ppSnapshot) {
	pp.frames = pp.frames[:len(s.streams)]
	for i, st := range s.streams {
		pp.frames[i].stream = st
	}
}

// pushMacroFrame pushes text as a new frame attributed to callMark, and
// disables macro's own name for the frame's lifetime.
func (pp *Preprocessor) pushMacroFrame(macro *Macro, text string, callMark Mark) {
	pp.expanding = append(pp.expanding, macro.Name)
	pp.frames = append(pp.frames, &ppFrame{
		stream:    newTextStream(fmt.Sprintf("<%s>", macro.Name), []byte(text)),
		parent:    callMark,
		hasParent: true,
		macroName: macro.Name,
	})
}

// pushTextFrame pushes raw text (e.g. a macro argument being fully
// expanded in isolation) without any disable-name bookkeeping.
func (pp *Preprocessor) pushTextFrame(text string, parent Mark) {
	pp.frames = append(pp.frames, &ppFrame{
		stream:    newTextStream(parent.File, []byte(text)),
		parent:    parent,
		hasParent: true,
	})
}

// expandTextFully macro-expands text in isolation (used for a macro
// argument's expanded form) and returns the resulting token spellings
// joined back into text, preserving each token's recorded SpaceBefore.
func (pp *Preprocessor) expandTextFully(text string, parent Mark) string {
	text = trimSpace(text)
	if text == "" {
		return ""
	}
	depthBefore := len(pp.frames)
	pp.pushTextFrame(text, parent)
	lx := NewLexer(pp, pp.syms)
	out := ""
	for {
		if len(pp.frames) == depthBefore+1 && pp.frames[depthBefore].stream.atEOF() {
			break
		}
		if len(pp.frames) <= depthBefore {
			break
		}
		tok := lx.Next()
		if tok.Kind == TokEOF {
			break
		}
		if tok.SpaceBefore && out != "" {
			out += " "
		}
		out += tok.Text
	}
	for len(pp.frames) > depthBefore {
		pp.popFrame()
	}
	return out
}
