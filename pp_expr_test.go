package cc

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPPExprParser(t *testing.T) {
	for _, test := range []struct {
		expr string
		want int64
	}{
		{"1", 1},
		{"1+2*3", 7},
		{"(1+2)*3", 9},
		{"10-4-3", 3},
		{"1<<4", 16},
		{"256>>4", 16},
		{"7&3", 3},
		{"4|1", 5},
		{"5^1", 4},
		{"10%4", 2},
		{"9/2", 4},
		{"1 ? 2 : 3", 2},
		{"0 ? 2 : 3", 3},
		{"1 ? 2 : 0 ? 3 : 4", 2},
		{"!0", 1},
		{"!5", 0},
		{"~0", -1},
		{"-3", -3},
		{"+3", 3},
		{"'A'", 65},
		{"0x10", 16},
		{"010", 8},
		{"1 && 0", 0},
		{"1 && 2", 1},
		{"0 || 0", 0},
		{"0 || 3", 1},
		{"2 > 1", 1},
		{"2 >= 2", 1},
		{"1 == 2", 0},
		{"1 != 2", 1},
		{"3 <= 2", 0},
		{"10 % 4 == 2", 1},
		{"1 + 2 == 3 && 4 > 1", 1},
		{"bogus_identifier", 0},
		{"bogus + 1", 1},
	} {
		t.Run(test.expr, func(t *testing.T) {
			rep := NewCollectingReporter(io.Discard, nil)
			v, err := newPPExprParser(test.expr, rep, Mark{}).parseExpr()
			require.NoError(t, err)
			assert.Equal(t, test.want, v)
		})
	}
}

func TestPPExprParserErrors(t *testing.T) {
	for _, expr := range []string{"", "1 +", "(1", "1 ? 2", "* 3", "1 2"} {
		t.Run(expr, func(t *testing.T) {
			rep := NewCollectingReporter(io.Discard, nil)
			_, err := newPPExprParser(expr, rep, Mark{}).parseExpr()
			assert.Error(t, err)
		})
	}
}
