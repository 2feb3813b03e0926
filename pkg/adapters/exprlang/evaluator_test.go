package exprlang_test

import (
	"math"
	"testing"

	"github.com/aretw0/abacus/pkg/adapters/exprlang"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ports.Evaluator = (*exprlang.Evaluator)(nil)

func number(t *testing.T, v any) float64 {
	t.Helper()
	switch n := v.(type) {
	case int:
		return float64(n)
	case float64:
		return n
	}
	t.Fatalf("expected a number, got %T (%v)", v, v)
	return 0
}

func TestEvaluator_Arithmetic(t *testing.T) {
	ev := exprlang.New()

	tests := []struct {
		in   string
		want float64
	}{
		{"0", 0},
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"7/2", 3.5},
		{"2^10", 1024},
		{"10-4-3", 3},
		{"-5+2", -3},
		{"7 % 3", 1},
		{"5.5 % 2", 1.5},
		{"-7 % 3", -1},
		{"(7 % 4) % 2", 1},
	}
	for _, tt := range tests {
		got, err := ev.Evaluate(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, number(t, got), 1e-12, tt.in)
	}
}

func TestEvaluator_FunctionsAndConstants(t *testing.T) {
	ev := exprlang.New()

	tests := []struct {
		in   string
		want float64
	}{
		{"pi", math.Pi},
		{"e", math.E},
		{"3*pi", 3 * math.Pi},
		{"sin(pi/2)", 1},
		{"cos(0)", 1},
		{"tan(0)", 0},
		{"sqrt(16)", 4},
		{"log(e)", 1},
		{"log10(1000)", 3},
		{"abs(-2.5)", 2.5},
		{"sin((pi/180)*30)", 0.5},
		{"sqrt(abs(-9))+1", 4},
	}
	for _, tt := range tests {
		got, err := ev.Evaluate(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, number(t, got), 1e-9, tt.in)
	}
}

func TestEvaluator_Errors(t *testing.T) {
	ev := exprlang.New()

	for _, in := range []string{
		"2+",
		"(1+2",
		"foo(1)",
		"x+1",
		"sin()",
		"sin(1, 2)",
		"sqrt('a')",
		"'abc'",
		"1 == 1",
		"1..3",
		"[1, 2]",
		"len('abc')",
		"upper('a')",
	} {
		_, err := ev.Evaluate(in)
		assert.Error(t, err, in)
	}
}

func TestEvaluator_Options(t *testing.T) {
	ev := exprlang.New(
		exprlang.WithConstant("tau", 2*math.Pi),
		exprlang.WithUnaryFunction("cbrt", math.Cbrt),
	)

	got, err := ev.Evaluate("tau/2")
	require.NoError(t, err)
	assert.InDelta(t, math.Pi, number(t, got), 1e-12)

	got, err = ev.Evaluate("cbrt(27)")
	require.NoError(t, err)
	assert.InDelta(t, 3, number(t, got), 1e-12)
}

func TestEvaluator_FloatArithmetic(t *testing.T) {
	ev := exprlang.New()

	tests := []struct {
		in   string
		want float64
	}{
		{"100000000000*100000000000", 1e20},
		{"3037000500*3037000500", 3037000500.0 * 3037000500.0},
		{"9223372036854775807+1", 9223372036854775808.0},
		{"12345678901234567890", 12345678901234567890.0},
		{"-12345678901234567890*2", -24691357802469135780.0},
		{"2^64", 18446744073709551616.0},
	}
	for _, tt := range tests {
		got, err := ev.Evaluate(tt.in)
		require.NoError(t, err, tt.in)
		require.IsType(t, float64(0), got, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestEvaluator_ResultsAreFloats(t *testing.T) {
	ev := exprlang.New()

	for _, in := range []string{"1", "2+3", "7 % 3", "abs(-4)", "floor(2.7)", "let x = 2; x * 3"} {
		got, err := ev.Evaluate(in)
		require.NoError(t, err, in)
		assert.IsType(t, float64(0), got, in)
	}
}
