// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package formula

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places each binary step is rounded to.
const Precision = 3

var (
	ErrUnsupportedOperator = errors.New("unsupported operator")
	ErrInvalidOperand      = errors.New("invalid operand")
	ErrMalformed           = errors.New("malformed formula")
	ErrDivisionByZero      = errors.New("division by zero")
	ErrNonFinite           = errors.New("non-finite result")
)

// Variable is a named answer substituted into a formula.
type Variable struct {
	Name  string
	Value decimal.Decimal
}

// Answers holds variables in substitution order.
type Answers []Variable

// Map returns the answers keyed by name.
func (a Answers) Map() map[string]decimal.Decimal {
	m := make(map[string]decimal.Decimal, len(a))
	for _, v := range a {
		m[v.Name] = v.Value
	}
	return m
}

// Names returns the variable names in substitution order.
func (a Answers) Names() []string {
	names := make([]string, len(a))
	for i, v := range a {
		names[i] = v.Name
	}
	return names
}

// Substitute replaces every occurrence of each answer name with its value.
// Names are matched as plain substrings, not as whole tokens.
func Substitute(formula string, answers Answers) string {
	for _, v := range answers {
		if strings.Contains(formula, v.Name) {
			formula = strings.ReplaceAll(formula, v.Name, v.Value.String())
		}
	}
	return formula
}

// Tokenize splits a formula on whitespace.
func Tokenize(formula string) []string {
	return strings.Fields(formula)
}

// Execute evaluates operand/operator tokens right to left:
//
//	eval([a])                = a
//	eval([a, op, b, rest..]) = round(a op eval([b, rest..]), 3)
func Execute(tokens []string) (float64, error) {
	switch len(tokens) {
	case 0:
		return 0, fmt.Errorf("%w: no tokens", ErrMalformed)
	case 1:
		return parseOperand(tokens[0])
	case 2:
		return 0, fmt.Errorf("%w: operator %q has no right operand", ErrMalformed, tokens[1])
	}

	op := tokens[1]
	if !isOperator(op) {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedOperator, op)
	}

	left, err := parseOperand(tokens[0])
	if err != nil {
		return 0, err
	}

	right, err := Execute(tokens[2:])
	if err != nil {
		return 0, err
	}

	var result float64
	switch op {
	case "*":
		result = left * right
	case "/":
		if right == 0 {
			return 0, fmt.Errorf("%w: %s / %s", ErrDivisionByZero, tokens[0], strings.Join(tokens[2:], " "))
		}
		result = left / right
	case "+":
		result = left + right
	case "-":
		result = left - right
	}

	if !isFinite(result) {
		return 0, fmt.Errorf("%w: %s %s %s", ErrNonFinite, tokens[0], op, strings.Join(tokens[2:], " "))
	}
	return Round(result, Precision), nil
}

// Evaluate substitutes answers into formula and executes it.
func Evaluate(formula string, answers Answers) (float64, error) {
	return Execute(Tokenize(Substitute(formula, answers)))
}

// Validate checks that formula executes once every named variable is bound.
// Each variable is bound to 1; a zero divisor under that binding is not
// reported since it depends on the real answers.
func Validate(formula string, names []string) error {
	answers := make(Answers, len(names))
	for i, name := range names {
		answers[i] = Variable{Name: name, Value: decimal.NewFromInt(1)}
	}
	_, err := Evaluate(formula, answers)
	if errors.Is(err, ErrDivisionByZero) {
		return nil
	}
	return err
}

// Round rounds x to the given number of decimal places. The exact binary
// value is rounded, with ties going to the even digit.
func Round(x float64, places int) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return x
	}
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', places, 64), 64)
	if err != nil {
		return x
	}
	return rounded
}

func isOperator(tok string) bool {
	switch tok {
	case "*", "/", "+", "-":
		return true
	}
	return false
}

func parseOperand(tok string) (float64, error) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil || !isFinite(v) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOperand, tok)
	}
	return v, nil
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
