package cc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexNumbers(t *testing.T) {
	for _, test := range []struct {
		name     string
		src      string
		kind     TokenKind
		intVal   uint64
		floatVal float64
		unsigned bool
		width    int
	}{
		{name: "decimal", src: "42", kind: TokIntLit, intVal: 42, width: 32},
		{name: "hex", src: "0x1F", kind: TokIntLit, intVal: 31, width: 32},
		{name: "octal", src: "017", kind: TokIntLit, intVal: 15, width: 32},
		{name: "unsigned suffix", src: "42u", kind: TokIntLit, intVal: 42, unsigned: true, width: 32},
		{name: "long suffix", src: "42l", kind: TokIntLit, intVal: 42, width: 64},
		{name: "long long suffix", src: "42LL", kind: TokIntLit, intVal: 42, width: 64},
		{name: "ull suffix", src: "7ULL", kind: TokIntLit, intVal: 7, unsigned: true, width: 64},
		{name: "float dot", src: "1.5", kind: TokFloatLit, floatVal: 1.5},
		{name: "float exponent", src: "1e3", kind: TokFloatLit, floatVal: 1000},
		{name: "float f suffix", src: "2.5f", kind: TokFloatLit, floatVal: 2.5},
		{name: "leading dot", src: ".25", kind: TokFloatLit, floatVal: 0.25},
	} {
		t.Run(test.name, func(t *testing.T) {
			toks := lexAll(t, test.src+"\n")
			require.Len(t, toks, 1)
			tok := toks[0]
			require.Equal(t, test.kind, tok.Kind)
			if test.kind == TokIntLit {
				assert.Equal(t, test.intVal, tok.IntValue)
				assert.Equal(t, test.unsigned, tok.IsUnsigned)
				assert.Equal(t, test.width, tok.IntWidth)
			} else {
				assert.Equal(t, test.floatVal, tok.FloatValue)
			}
		})
	}
}

func TestIntegerLiteralOverflow(t *testing.T) {
	_, rep := compileSource(t, "unsigned long x = 99999999999999999999999999;\n")
	assert.True(t, rep.Failed(), "a literal too large for any integer type must be diagnosed")
}

func TestLexCharLiterals(t *testing.T) {
	for _, test := range []struct {
		src  string
		want int64
	}{
		{`'a'`, 'a'},
		{`'\n'`, '\n'},
		{`'\t'`, '\t'},
		{`'\0'`, 0},
		{`'\\'`, '\\'},
		{`'\''`, '\''},
		{`'\x41'`, 'A'},
		{`'\101'`, 'A'},
	} {
		t.Run(test.src, func(t *testing.T) {
			toks := lexAll(t, test.src+"\n")
			require.Len(t, toks, 1)
			require.Equal(t, TokCharLit, toks[0].Kind)
			assert.Equal(t, test.want, toks[0].CharValue)
		})
	}
}

func TestLexStringLiterals(t *testing.T) {
	toks := lexAll(t, `"hi\n\tthere"`+"\n")
	require.Len(t, toks, 1)
	require.Equal(t, TokStringLit, toks[0].Kind)
	assert.Equal(t, "hi\n\tthere", string(toks[0].StringValue))

	toks = lexAll(t, `L"wide"`+"\n")
	require.Len(t, toks, 1)
	require.Equal(t, TokStringLit, toks[0].Kind)
	assert.Equal(t, "wide", string(toks[0].StringValue))
	assert.Equal(t, `L"wide"`, toks[0].Text)
}

func TestLexKeywordsAndIdentifiers(t *testing.T) {
	toks := lexAll(t, "int if ifx _Bool sizeof size\n")
	kinds := make([]TokenKind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []TokenKind{TokInt, TokIf, TokIdent, TokBool, TokSizeof, TokIdent}, kinds)
}

func TestLexPunctuators(t *testing.T) {
	for _, test := range []struct {
		src  string
		want []TokenKind
	}{
		{"a+++b", []TokenKind{TokIdent, TokPlusPlus, TokPlus, TokIdent}},
		{"a->b", []TokenKind{TokIdent, TokArrow, TokIdent}},
		{"a<<=1", []TokenKind{TokIdent, TokShlAssign, TokIntLit}},
		{"a>>b", []TokenKind{TokIdent, TokShr, TokIdent}},
		{"a<=b", []TokenKind{TokIdent, TokLe, TokIdent}},
		{"...", []TokenKind{TokEllipsis}},
		{"a!=b", []TokenKind{TokIdent, TokNe, TokIdent}},
		{"a&&b", []TokenKind{TokIdent, TokAndAnd, TokIdent}},
		{"a&b", []TokenKind{TokIdent, TokAmp, TokIdent}},
		{"a%=b", []TokenKind{TokIdent, TokPercentAssign, TokIdent}},
	} {
		t.Run(test.src, func(t *testing.T) {
			toks := lexAll(t, test.src+"\n")
			kinds := make([]TokenKind, len(toks))
			for i, tok := range toks {
				kinds[i] = tok.Kind
			}
			assert.Equal(t, test.want, kinds)
		})
	}
}

func TestLexMarks(t *testing.T) {
	toks := lexAll(t, "int x;\nint y;\n")
	require.Len(t, toks, 6)
	assert.Equal(t, 1, toks[0].Mark.Line)
	assert.Equal(t, 1, toks[0].Mark.Column)
	assert.Equal(t, 1, toks[1].Mark.Line)
	assert.Equal(t, 5, toks[1].Mark.Column)
	assert.Equal(t, 2, toks[3].Mark.Line)
	assert.Equal(t, "main.c", toks[3].Mark.File)
}

func TestMacroExpandedMarksChainToCallSite(t *testing.T) {
	toks := lexAll(t, "#define ID(x) x\nID(abc)\n")
	require.Len(t, toks, 1)
	parent, ok := toks[0].Mark.Parent()
	require.True(t, ok, "expanded token should carry an expansion parent mark")
	assert.Equal(t, 2, parent.Line)
	assert.Equal(t, "main.c", parent.File)
}
