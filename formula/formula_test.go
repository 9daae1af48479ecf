// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package formula

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var evaluationCases = []struct {
	formula  string
	expected float64
}{
	{"0.8 * 6", 4.8},
	{"0.8 / 6", 0.133},
	{"0.8 + 6", 6.8},
	{"0.8 - 6", -5.2},
	{"0.4 * 0.5 * 0.2", 0.04},
	{"0.2 + 5 * 2", 10.2},
	{"0.8 - 2 * 0.3", 0.2},
	{"6 / 3 * 2", 1},
	{"0.2 + 6 / 2", 3.2},
	{"10 / 5 / 0.1", 0.2},
	{"0.2 + 0.5 + 2", 2.7},
	{"0.8 - 0.1 - 0.3", 1.0},
	{"0.2 - 0.5 / 2", -0.05},
	{"0.8 * 6 / 2", 2.4},
}

func TestExecute(t *testing.T) {
	for _, tc := range evaluationCases {
		t.Run(tc.formula, func(t *testing.T) {
			result, err := Execute(Tokenize(tc.formula))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestEvaluate_WithoutVariables(t *testing.T) {
	for _, tc := range evaluationCases {
		t.Run(tc.formula, func(t *testing.T) {
			result, err := Evaluate(tc.formula, nil)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestExecute_RightAssociative(t *testing.T) {
	triples := [][3]float64{
		{6, 3, 2},
		{10, 5, 0.1},
		{0.8, 0.1, 0.3},
		{1.5, 2.25, 4},
		{7, 0.3, 0.9},
	}
	ops := map[string]func(a, b float64) float64{
		"*": func(a, b float64) float64 { return a * b },
		"/": func(a, b float64) float64 { return a / b },
		"+": func(a, b float64) float64 { return a + b },
		"-": func(a, b float64) float64 { return a - b },
	}
	pairs := [][2]string{{"*", "/"}, {"/", "*"}, {"*", "*"}, {"/", "/"}, {"+", "-"}, {"-", "+"}, {"-", "-"}, {"+", "+"}}

	for _, tr := range triples {
		for _, p := range pairs {
			a, b, c := tr[0], tr[1], tr[2]
			tokens := []string{fmtFloat(a), p[0], fmtFloat(b), p[1], fmtFloat(c)}

			expected := Round(ops[p[0]](a, Round(ops[p[1]](b, c), Precision)), Precision)
			result, err := Execute(tokens)
			require.NoError(t, err, "tokens %v", tokens)
			assert.Equal(t, expected, result, "tokens %v", tokens)
		}
	}
}

func TestExecute_SingleOperandNotRounded(t *testing.T) {
	result, err := Execute([]string{"0.12345"})
	require.NoError(t, err)
	assert.Equal(t, 0.12345, result)
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   error
	}{
		{"no tokens", []string{}, ErrMalformed},
		{"trailing operator", []string{"3", "*"}, ErrMalformed},
		{"trailing operator deep", []string{"3", "*", "2", "+"}, ErrMalformed},
		{"unsupported operator", []string{"2", "^", "3"}, ErrUnsupportedOperator},
		{"unsupported operator deep", []string{"2", "*", "3", "%", "4"}, ErrUnsupportedOperator},
		{"operand not a number", []string{"meals", "*", "3"}, ErrInvalidOperand},
		{"last operand not a number", []string{"3", "*", "meals"}, ErrInvalidOperand},
		{"division by zero", []string{"3", "/", "0"}, ErrDivisionByZero},
		{"division by zero after rounding", []string{"3", "/", "0.0001", "*", "1"}, ErrDivisionByZero},
		{"infinity literal", []string{"inf", "*", "2"}, ErrInvalidOperand},
		{"nan literal", []string{"2", "+", "NaN"}, ErrInvalidOperand},
		{"single infinity operand", []string{"+Inf"}, ErrInvalidOperand},
		{"multiplication overflow", []string{"1e308", "*", "10"}, ErrNonFinite},
		{"subtraction overflow", []string{"-1e308", "-", "1e308"}, ErrNonFinite},
		{"overflow deep", []string{"2", "+", "1e308", "*", "10", "*", "1"}, ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Execute(tt.tokens)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSubstitute(t *testing.T) {
	answers := Answers{
		{Name: "current_meals", Value: decimal.NewFromInt(5)},
		{Name: "vegetarian_meals", Value: decimal.NewFromInt(3)},
	}

	assert.Equal(t, "0.8 * 3 * 0.5", Substitute("0.8 * vegetarian_meals * 0.5", answers))
	assert.Equal(t, "0.4 * 5", Substitute("0.4 * current_meals", answers))
	assert.Equal(t, "0.9 * 5 * 3", Substitute("0.9 * current_meals * vegetarian_meals", answers))
	assert.Equal(t, "5 + 5", Substitute("current_meals + current_meals", answers))
	assert.Equal(t, "1 + 2", Substitute("1 + 2", answers))
}

func TestSubstitute_DecimalValues(t *testing.T) {
	answers := Answers{
		{Name: "energy_supplier", Value: decimal.RequireFromString("0.50")},
		{Name: "number_of_people", Value: decimal.NewFromInt(2)},
	}

	result, err := Evaluate("energy_supplier * number_of_people", answers)
	require.NoError(t, err)
	assert.Equal(t, 1.0, result)
}

// Names are matched as substrings: "meals" is replaced inside
// "vegetarian_meals" before that answer gets a chance to be substituted.
func TestSubstitute_SubstringLimitation(t *testing.T) {
	answers := Answers{
		{Name: "meals", Value: decimal.NewFromInt(2)},
		{Name: "vegetarian_meals", Value: decimal.NewFromInt(3)},
	}

	substituted := Substitute("vegetarian_meals * 2", answers)
	assert.Equal(t, "vegetarian_2 * 2", substituted)

	_, err := Evaluate("vegetarian_meals * 2", answers)
	assert.ErrorIs(t, err, ErrInvalidOperand)
}

func TestEvaluate_FoodPledge(t *testing.T) {
	answers := Answers{
		{Name: "current_meals", Value: decimal.NewFromInt(5)},
		{Name: "vegetarian_meals", Value: decimal.NewFromInt(3)},
	}

	tests := []struct {
		formula  string
		expected float64
	}{
		{"0.8 * vegetarian_meals * 0.5", 1.2},
		{"0.4 * current_meals", 2.0},
		{"0.9 * current_meals * vegetarian_meals", 13.5},
	}

	for _, tt := range tests {
		t.Run(tt.formula, func(t *testing.T) {
			result, err := Evaluate(tt.formula, answers)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestValidate(t *testing.T) {
	names := []string{"current_meals", "vegetarian_meals"}

	assert.NoError(t, Validate("0.8 * vegetarian_meals * 0.5", names))
	assert.NoError(t, Validate("5 / current_meals - 1", names), "zero divisor with every variable bound to 1 is allowed")
	assert.ErrorIs(t, Validate("0.8 * heating_source", names), ErrInvalidOperand)
	assert.ErrorIs(t, Validate("0.8 x current_meals", names), ErrUnsupportedOperator)
	assert.ErrorIs(t, Validate("0.8 *", names), ErrMalformed)
	assert.ErrorIs(t, Validate("1e308 * 10 * current_meals", names), ErrNonFinite)
	assert.ErrorIs(t, Validate("inf - inf", names), ErrInvalidOperand)
}

func TestRound(t *testing.T) {
	tests := []struct {
		in       float64
		expected float64
	}{
		{1.2000000000000002, 1.2},
		{0.13333333333333333, 0.133},
		{0.20000000000000007, 0.2},
		{-0.05, -0.05},
		{2.675, 2.675},
		{13.5, 13.5},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, Round(tt.in, Precision), "Round(%v)", tt.in)
	}
}

func TestAnswers_MapAndNames(t *testing.T) {
	answers := Answers{
		{Name: "energy_supplier", Value: decimal.RequireFromString("0.5")},
		{Name: "number_of_people", Value: decimal.NewFromInt(2)},
		{Name: "heating_source", Value: decimal.NewFromInt(3)},
	}

	assert.Equal(t, []string{"energy_supplier", "number_of_people", "heating_source"}, answers.Names())

	m := answers.Map()
	require.Len(t, m, 3)
	assert.True(t, m["number_of_people"].Equal(decimal.NewFromInt(2)))
}

func fmtFloat(f float64) string {
	return decimal.NewFromFloat(f).String()
}
