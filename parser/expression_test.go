package parser

import (
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

// evalExpression lexes and evaluates one expression with the given options.
func evalExpression(t *testing.T, input string, opts ...ParseOption) (decimal.Decimal, error) {
	t.Helper()

	builder := NewTreeBuilder()
	lexer := NewLexer([]byte(input), "test", builder)
	tokens := lexer.ScanAll()

	p := NewParser([]byte(input), tokens, "test", lexer.Interner(), builder)
	for _, opt := range opts {
		opt(p)
	}

	return p.parseNumberExpr()
}

func assertEval(t *testing.T, input, want string, opts ...ParseOption) {
	t.Helper()

	got, err := evalExpression(t, input, opts...)
	assert.NoError(t, err)

	expected, err := decimal.NewFromString(want)
	assert.NoError(t, err)
	assert.True(t, got.Equal(expected), "%s: got %s, want %s", input, got.String(), expected.String())
}

func TestExpression_Binary(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2 + 3", "5"},
		{"5 - 3", "2"},
		{"2 * 3", "6"},
		{"6 / 2", "3"},
		{"100.00 - 25.50", "74.5"},
		{"1.5 + 2.7", "4.2"},
		{"10.123 * 2.5", "25.3075"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assertEval(t, tt.input, tt.want)
		})
	}
}

func TestExpression_Precedence(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2 + 3 * 4", "14"},
		{"10 - 2 * 3", "4"},
		{"20 / 4 + 5", "10"},
		{"2 * 3 + 4 * 5", "26"},
		{"100 / 2 - 10", "40"},
		{"1.5 + 2 * 3", "7.5"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assertEval(t, tt.input, tt.want)
		})
	}
}

func TestExpression_Parentheses(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"(2 + 3)", "5"},
		{"(2 + 3) * 4", "20"},
		{"2 * (3 + 4)", "14"},
		{"(1.5 + 2) * 3", "10.5"},
		{"((2 + 3) * 4)", "20"},
		{"(100 / 4) + (20 / 5)", "29"},
		{"100 / (2 + 3)", "20"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assertEval(t, tt.input, tt.want)
		})
	}
}

func TestExpression_UnaryMinus(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"-5", "-5"},
		{"-10.50", "-10.5"},
		{"-(2 + 3)", "-5"},
		{"-5 + 10", "5"},
		{"10 + -5", "5"},
		{"-5 * 2", "-10"},
		{"-1 - -2", "1"},
		{"- -7", "7"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assertEval(t, tt.input, tt.want)
		})
	}
}

// Wrapping any expression in parentheses or double negation leaves its
// value untouched.
func TestExpression_Idempotence(t *testing.T) {
	inputs := []string{"5", "1.5 + 2 * 3", "40.00 / 3", "-12.34"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			plain, err := evalExpression(t, input)
			assert.NoError(t, err)

			wrapped, err := evalExpression(t, "("+input+")")
			assert.NoError(t, err)
			assert.True(t, plain.Equal(wrapped), "(%s) changed the value", input)

			negated, err := evalExpression(t, "- -("+input+")")
			assert.NoError(t, err)
			assert.True(t, plain.Equal(negated), "- -(%s) changed the value", input)
		})
	}
}

func TestExpression_DivisionPrecision(t *testing.T) {
	// Default: 28 fractional digits, half-even.
	got, err := evalExpression(t, "1 / 3")
	assert.NoError(t, err)
	assert.Equal(t, "0."+strings.Repeat("3", 28), got.String())

	// Exact divisions stay exact regardless of precision.
	assertEval(t, "(100 + 50) / 3", "50")

	// Lowered precision rounds half-even.
	got, err = evalExpression(t, "1 / 8", WithPrecision(2))
	assert.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("0.12")), "got %s", got)

	got, err = evalExpression(t, "3 / 8", WithPrecision(2))
	assert.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("0.38")), "got %s", got)

	// Half-up mode rounds the same tie away from zero.
	got, err = evalExpression(t, "1 / 8", WithPrecision(2), WithRounding(RoundHalfUp))
	assert.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("0.13")), "got %s", got)
}

func TestExpression_DivisionByZero(t *testing.T) {
	tests := []string{
		"10 / 0",
		"5 / (2 - 2)",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			_, err := evalExpression(t, input)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "division by zero")
		})
	}
}

func TestExpression_CommasInNumbers(t *testing.T) {
	assertEval(t, "1,234.56 + 0.44", "1235")
	assertEval(t, "1,000,000 / 4", "250000")
}

func TestExpression_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing closing paren", "(2 + 3"},
		{"missing operand", "2 +"},
		{"operator run", "2 + * 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := evalExpression(t, tt.input)
			assert.Error(t, err)
		})
	}
}
