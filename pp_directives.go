package cc

import (
	"strconv"
	"strings"
)

// handleDirective dispatches a `#` line, with the '#' itself already
// consumed. A blank directive (`#` alone on a line) is legal and does
// nothing, matching C11 6.10.7.
func (pp *Preprocessor) handleDirective(f *ppFrame) {
	f.stream.skipWS()
	if f.stream.atEOF() || f.stream.cur() == '\n' {
		return
	}
	if isDigit(f.stream.cur()) {
		pp.lineMarkerDirective(f)
		return
	}
	if !isIdentStart(f.stream.cur()) {
		pp.diag.Error(f.stream.mark(), "stray '#' in program")
		f.stream.skipLine()
		return
	}
	name := f.stream.advanceIdentifier()
	switch name {
	case "define":
		pp.defineDirective(f)
	case "undef":
		pp.undefDirective(f)
	case "include":
		pp.includeDirective(f, false)
	case "include_next":
		pp.includeDirective(f, true)
	case "if":
		pp.ifDirective(f)
	case "ifdef":
		pp.ifdefDirective(f, true)
	case "ifndef":
		pp.ifdefDirective(f, false)
	case "elif":
		pp.elifDirective(f)
	case "else":
		pp.elseDirective(f)
	case "endif":
		pp.endifDirective(f)
	case "error":
		pp.diag.Error(f.stream.mark(), "#error %s", strings.TrimSpace(readLineTail(f.stream)))
	case "warning":
		pp.diag.Warning(f.stream.mark(), "#warning %s", strings.TrimSpace(readLineTail(f.stream)))
	case "pragma":
		pp.pragmaDirective(f)
	case "line":
		pp.lineDirective(f)
	default:
		if pp.active() {
			pp.diag.Error(f.stream.mark(), "unknown preprocessing directive #%s", name)
		}
		f.stream.skipLine()
	}
}

// readLineTail consumes and returns the raw remainder of the current
// physical (post-splice) line, not including the newline.
func readLineTail(s *textStream) string {
	start := s.pos
	s.skipLine()
	return string(s.buf[start:s.pos])
}

func (pp *Preprocessor) active() bool {
	for _, c := range pp.conds {
		if !c.taken || !c.active {
			return false
		}
	}
	return true
}

// defineDirective implements `#define`. A '(' immediately following the
// macro name (no intervening space) makes it function-like; anything else,
// including a space before '(', makes it object-like whose body happens to
// start with a parenthesis.
func (pp *Preprocessor) defineDirective(f *ppFrame) {
	f.stream.skipWS()
	m := f.stream.mark()
	if !isIdentStart(f.stream.cur()) {
		pp.diag.Error(m, "macro name must be an identifier")
		f.stream.skipLine()
		return
	}
	name := f.stream.advanceIdentifier()
	macro := &Macro{Name: name, DefinedAt: m}
	if !pp.active() {
		f.stream.skipLine()
		return
	}
	if f.stream.cur() == '(' {
		macro.Kind = MacroFunctionLike
		f.stream.advance()
		for {
			f.stream.skipWS()
			if f.stream.cur() == ')' {
				f.stream.advance()
				break
			}
			if f.stream.cur() == '.' && f.stream.peekAt(1) == '.' && f.stream.peekAt(2) == '.' {
				f.stream.advance()
				f.stream.advance()
				f.stream.advance()
				macro.Variadic = true
				f.stream.skipWS()
				if f.stream.cur() == ')' {
					f.stream.advance()
				}
				break
			}
			if !isIdentStart(f.stream.cur()) {
				pp.diag.Error(f.stream.mark(), "expected parameter name in macro parameter list")
				f.stream.skipLine()
				return
			}
			macro.Params = append(macro.Params, f.stream.advanceIdentifier())
			f.stream.skipWS()
			if f.stream.cur() == ',' {
				f.stream.advance()
			}
		}
	} else {
		macro.Kind = MacroObjectLike
	}
	f.stream.skipWS()
	macro.Body = strings.TrimRight(readLineTail(f.stream), " \t")
	pp.macros.Define(macro)
}

func (pp *Preprocessor) undefDirective(f *ppFrame) {
	f.stream.skipWS()
	if !isIdentStart(f.stream.cur()) {
		f.stream.skipLine()
		return
	}
	name := f.stream.advanceIdentifier()
	f.stream.skipLine()
	if pp.active() {
		pp.macros.Undef(name)
	}
}

// includeDirective resolves and pushes the named file as a new frame.
// `#include_next` is accepted syntactically but resolved identically to
// `#include`: multi-directory search-path resumption is a GCC extension
// this front end doesn't need to emulate.
func (pp *Preprocessor) includeDirective(f *ppFrame, next bool) {
	f.stream.skipWS()
	m := f.stream.mark()
	raw := strings.TrimSpace(readLineTail(f.stream))
	if !pp.active() {
		return
	}
	var resolved string
	var err error
	switch {
	case strings.HasPrefix(raw, "\"") && strings.HasSuffix(raw, "\"") && len(raw) >= 2:
		resolved, err = pp.reg.ResolveQuoted(raw[1:len(raw)-1], f.stream.file)
	case strings.HasPrefix(raw, "<") && strings.HasSuffix(raw, ">") && len(raw) >= 2:
		resolved, err = pp.reg.ResolveAngled(raw[1 : len(raw)-1])
	default:
		expanded := pp.expandTextFully(raw, m)
		pp.includeFromExpanded(expanded, f, m)
		return
	}
	if err != nil {
		pp.diag.Error(m, "%s", err.Error())
		return
	}
	pp.pushInclude(resolved, m)
}

func (pp *Preprocessor) includeFromExpanded(expanded string, f *ppFrame, m Mark) {
	expanded = strings.TrimSpace(expanded)
	var resolved string
	var err error
	switch {
	case strings.HasPrefix(expanded, "\"") && strings.HasSuffix(expanded, "\""):
		resolved, err = pp.reg.ResolveQuoted(expanded[1:len(expanded)-1], f.stream.file)
	case strings.HasPrefix(expanded, "<") && strings.HasSuffix(expanded, ">"):
		resolved, err = pp.reg.ResolveAngled(expanded[1 : len(expanded)-1])
	default:
		pp.diag.Error(m, "#include expects \"FILENAME\" or <FILENAME>")
		return
	}
	if err != nil {
		pp.diag.Error(m, "%s", err.Error())
		return
	}
	pp.pushInclude(resolved, m)
}

func (pp *Preprocessor) pushInclude(resolved string, m Mark) {
	if pp.reg.seenOnce[resolved] {
		return // entered previously under a `#pragma once` in that file
	}
	data, _, err := pp.reg.Load(resolved)
	if err != nil {
		pp.diag.Error(m, "%s", err.Error())
		return
	}
	pp.frames = append(pp.frames, &ppFrame{stream: newTextStream(resolved, data), condDepth: len(pp.conds)})
}

func (pp *Preprocessor) ifDirective(f *ppFrame) {
	m := f.stream.mark()
	text := readLineTail(f.stream)
	parentActive := pp.active()
	taken := false
	if parentActive {
		taken = pp.evalConstExpr(text, m)
	}
	pp.conds = append(pp.conds, condFrame{taken: taken, everTaken: taken, active: parentActive, mark: m})
	if parentActive && !taken {
		pp.skipToBranch(f)
	}
}

func (pp *Preprocessor) ifdefDirective(f *ppFrame, wantDefined bool) {
	f.stream.skipWS()
	m := f.stream.mark()
	name := ""
	if isIdentStart(f.stream.cur()) {
		name = f.stream.advanceIdentifier()
	}
	f.stream.skipLine()
	parentActive := pp.active()
	taken := false
	if parentActive {
		taken = pp.macros.IsDefined(name) == wantDefined
	}
	pp.conds = append(pp.conds, condFrame{taken: taken, everTaken: taken, active: parentActive, mark: m})
	if parentActive && !taken {
		pp.skipToBranch(f)
	}
}

func (pp *Preprocessor) elifDirective(f *ppFrame) {
	text := readLineTail(f.stream)
	if len(pp.conds) == 0 {
		pp.diag.Error(f.stream.mark(), "#elif without #if")
		return
	}
	top := &pp.conds[len(pp.conds)-1]
	if top.seenElse {
		pp.diag.Error(f.stream.mark(), "#elif after #else")
	}
	if !top.active || top.everTaken {
		top.taken = false
		if top.active {
			pp.skipToBranch(f)
		}
		return
	}
	top.taken = pp.evalConstExpr(text, f.stream.mark())
	top.everTaken = top.everTaken || top.taken
	if !top.taken {
		pp.skipToBranch(f)
	}
}

func (pp *Preprocessor) elseDirective(f *ppFrame) {
	f.stream.skipLine()
	if len(pp.conds) == 0 {
		pp.diag.Error(f.stream.mark(), "#else without #if")
		return
	}
	top := &pp.conds[len(pp.conds)-1]
	if top.seenElse {
		pp.diag.Error(f.stream.mark(), "#else after #else")
	}
	top.seenElse = true
	top.taken = top.active && !top.everTaken
	top.everTaken = true
	if top.active && !top.taken {
		pp.skipToBranch(f)
	}
}

func (pp *Preprocessor) endifDirective(f *ppFrame) {
	f.stream.skipLine()
	if len(pp.conds) == 0 {
		pp.diag.Error(f.stream.mark(), "#endif without #if")
		return
	}
	pp.conds = pp.conds[:len(pp.conds)-1]
}

// skipToBranch scans forward from just after the current directive line
// (already consumed up to, but not past, its trailing newline) to the next
// `#elif`/`#else`/`#endif` belonging to this same conditional, skipping any
// fully-nested `#if...#endif` blocks along the way. It leaves the stream
// positioned right after the '#' and directive keyword of the line it
// stopped on, so the normal dispatch in handleDirective can take over from
// there on the next pass.
func (pp *Preprocessor) skipToBranch(f *ppFrame) {
	depth := 0
	for {
		if f.stream.atEOF() {
			return
		}
		f.stream.advance() // the newline that ended the previous line
		f.stream.skipWS()
		if f.stream.cur() != '#' {
			f.stream.skipLine()
			continue
		}
		f.stream.advance()
		f.stream.skipWS()
		if !isIdentStart(f.stream.cur()) {
			f.stream.skipLine()
			continue
		}
		name := f.stream.advanceIdentifier()
		switch name {
		case "if", "ifdef", "ifndef":
			depth++
			f.stream.skipLine()
		case "endif":
			if depth == 0 {
				pp.endifDirective(f)
				return
			}
			depth--
			f.stream.skipLine()
		case "elif":
			if depth == 0 {
				pp.elifDirective(f)
				return
			}
			f.stream.skipLine()
		case "else":
			if depth == 0 {
				pp.elseDirective(f)
				return
			}
			f.stream.skipLine()
		default:
			f.stream.skipLine()
		}
	}
}

// pragmaDirective handles the pragmas this front end gives meaning to
// (`once`) and silently discards the rest, the same stance GCC-compatible
// builds take on pragmas aimed at other compilers.
func (pp *Preprocessor) pragmaDirective(f *ppFrame) {
	f.stream.skipWS()
	if isIdentStart(f.stream.cur()) {
		save := f.stream.clone()
		word := f.stream.advanceIdentifier()
		if word == "once" {
			f.stream.skipLine()
			if pp.active() {
				pp.reg.MarkPragmaOnce(f.stream.file)
			}
			return
		}
		*f.stream = *save
	}
	f.stream.skipLine()
}

// lineDirective implements `#line N "file"`, overriding the line number
// (and optionally filename) reported from this point on in the current
// frame, per C11 6.10.4.
func (pp *Preprocessor) lineDirective(f *ppFrame) {
	f.stream.skipWS()
	start := f.stream.pos
	for !f.stream.atEOF() && isDigit(f.stream.cur()) {
		f.stream.advance()
	}
	n, err := strconv.Atoi(string(f.stream.buf[start:f.stream.pos]))
	f.stream.skipWS()
	var file string
	if f.stream.cur() == '"' {
		raw, _ := f.stream.skipString('"')
		file = raw[1 : len(raw)-1]
	}
	f.stream.skipLine()
	if !pp.active() || err != nil {
		return
	}
	f.stream.line = n
	if file != "" {
		f.stream.file = file
	}
}

// lineMarkerDirective accepts the GNU linemarker form `# 123 "file" flags`
// emitted by some preprocessors' own output, treating it exactly like
// `#line 123 "file"` and ignoring the flag digits.
func (pp *Preprocessor) lineMarkerDirective(f *ppFrame) {
	pp.lineDirective(f)
}
