// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package formula evaluates the savings formulas stored on actions.

# Formula Format

A formula is a whitespace-separated list of operands and operators:

	0.8 * vegetarian_meals * 0.5

Operands are numbers or variable names. Supported operators are *, /, + and -.

# Evaluation

Evaluate substitutes answers into the formula, splits it on whitespace and
executes the tokens:

	answers := formula.Answers{
		{Name: "current_meals", Value: decimal.NewFromInt(5)},
		{Name: "vegetarian_meals", Value: decimal.NewFromInt(3)},
	}
	co2, err := formula.Evaluate("0.8 * vegetarian_meals * 0.5", answers) // 1.2

There is no operator precedence. Execution combines the first operand with
the result of the remaining tokens, so expressions associate right to left:

	6 / 3 * 2      → 6 / (3 * 2)       = 1
	0.2 + 5 * 2    → 0.2 + (5 * 2)     = 10.2
	0.8 - 0.1 - 0.3 → 0.8 - (0.1 - 0.3) = 1

Every binary step is rounded to 3 decimal places. A single operand is
returned as parsed, without rounding.

# Substitution

Variables are replaced by plain substring replacement, in answer order.
A variable name that is a substring of another token is replaced inside
that token as well. Stored formulas rely on this behaviour, so it is kept.

# Errors

	ErrUnsupportedOperator  operator other than * / + -
	ErrInvalidOperand       operand that is not a number
	ErrMalformed            no tokens, or a trailing operator
	ErrDivisionByZero       right-hand side of / evaluates to 0

All errors are wrapped with the offending token and can be matched with
errors.Is.
*/
package formula
