package cc

import "strings"

// installPredefines seeds the macro table with the predefined macros every
// translation unit starts with: the standard `__FILE__`/`__LINE__`/
// `__DATE__`/`__TIME__` family, a handful of GCC-compatibility shims that
// let real system headers parse even though this front end doesn't
// implement the extensions they guard, and any `-D` macros the driver was
// invoked with.
func installPredefines(mt *MacroTable, opts *Options) {
	mt.Define(&Macro{Name: "__FILE__", Kind: MacroBuiltin, Builtin: func(pp *Preprocessor, m Mark) string {
		return quoteString(m.File)
	}})
	mt.Define(&Macro{Name: "__LINE__", Kind: MacroBuiltin, Builtin: func(pp *Preprocessor, m Mark) string {
		return itoa(m.Line)
	}})
	mt.Define(&Macro{Name: "__DATE__", Kind: MacroBuiltin, Builtin: func(pp *Preprocessor, m Mark) string {
		return quoteString(opts.BuildDate)
	}})
	mt.Define(&Macro{Name: "__TIME__", Kind: MacroBuiltin, Builtin: func(pp *Preprocessor, m Mark) string {
		return quoteString(opts.BuildTime)
	}})
	mt.Define(&Macro{Name: "__STDC__", Kind: MacroObjectLike, Body: "1"})
	mt.Define(&Macro{Name: "__STDC_VERSION__", Kind: MacroObjectLike, Body: stdcVersion(opts.Std)})
	mt.Define(&Macro{Name: "__STDC_HOSTED__", Kind: MacroObjectLike, Body: "1"})
	mt.Define(&Macro{Name: "__x86_64__", Kind: MacroObjectLike, Body: "1"})

	// Compatibility spellings mapped onto the forms the parser knows.
	mt.Define(&Macro{Name: "__alignof__", Kind: MacroObjectLike, Body: "_Alignof"})
	mt.Define(&Macro{Name: "__FUNCTION__", Kind: MacroObjectLike, Body: "__func__"})

	// GCC-compatibility shims: map the qualifier/keyword spellings glibc
	// headers use, unconditionally, onto the ones this front end's parser
	// actually recognizes.
	for name, body := range map[string]string{
		"__restrict":    "restrict",
		"__restrict__":  "restrict",
		"__const":       "const",
		"__const__":     "const",
		"__inline":      "inline",
		"__inline__":    "inline",
		"__signed__":    "signed",
		"__volatile__":  "volatile",
		"__extension__": "",
	} {
		mt.Define(&Macro{Name: name, Kind: MacroObjectLike, Body: body})
	}

	// `__attribute__((...))` and `__asm__("...")` are accepted and ignored:
	// both take a single parenthesized operand this front end discards.
	mt.Define(&Macro{Name: "__attribute__", Kind: MacroFunctionLike, Params: []string{"x"}, Body: ""})
	mt.Define(&Macro{Name: "__asm__", Kind: MacroFunctionLike, Params: []string{"x"}, Body: ""})
	mt.Define(&Macro{Name: "__asm", Kind: MacroFunctionLike, Params: []string{"x"}, Body: ""})
	mt.Define(&Macro{Name: "_Pragma", Kind: MacroFunctionLike, Params: []string{"x"}, Body: ""})

	for _, d := range opts.Defines {
		name, body := splitCLIDefine(d)
		mt.Define(&Macro{Name: name, Kind: MacroObjectLike, Body: body})
	}
	for _, name := range opts.Undefines {
		mt.Undef(name)
	}
}

// splitCLIDefine parses a `-D` flag's operand: `NAME=VALUE` or bare `NAME`
// (which defines it to `1`, matching GCC).
func splitCLIDefine(d string) (name, body string) {
	if i := strings.IndexByte(d, '='); i >= 0 {
		return d[:i], d[i+1:]
	}
	return d, "1"
}

func stdcVersion(std string) string {
	switch std {
	case "c99", "gnu99":
		return "199901L"
	case "c11", "gnu11":
		return "201112L"
	default:
		return "201112L"
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		if s[i] == '"' || s[i] == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('"')
	return b.String()
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
