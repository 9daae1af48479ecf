// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/danielhkuo/green-pledges/formula"
)

// AnswerKind discriminates the answer record variants an action can link to.
type AnswerKind string

const (
	AnswerKindFood   AnswerKind = "food"
	AnswerKindEnergy AnswerKind = "energy"
)

var (
	ErrUnknownAnswerKind = errors.New("unknown answer kind")
	ErrInvalidAnswer     = errors.New("invalid answer")
)

// AnswerRecord holds a user's answers to an action's questions.
type AnswerRecord interface {
	Kind() AnswerKind
	// Answers returns the variables in the order they are substituted.
	Answers() formula.Answers
	Validate() error
}

// Choice is an allowed answer value with its display label.
type Choice struct {
	Value decimal.Decimal
	Label string
}

func choice(value, label string) Choice {
	return Choice{Value: decimal.RequireFromString(value), Label: label}
}

var (
	VegetarianMealsChoices = []Choice{
		choice("2.5", "0"),
		choice("2.5", "1"),
		choice("2.5", "2"),
		choice("2.5", "3"),
		choice("2.5", "4"),
		choice("2.5", "5"),
		choice("3.0", "6"),
	}

	EnergySupplierChoices = []Choice{
		choice("0.5", "bog_standard"),
		choice("0.0", "green_supplier"),
	}

	HeatingSourceChoices = []Choice{
		choice("5.0", "gas or oil"),
		choice("3.0", "electricity"),
	}
)

func inChoices(v decimal.Decimal, choices []Choice) bool {
	return slices.ContainsFunc(choices, func(c Choice) bool { return c.Value.Equal(v) })
}

// FoodPledge records answers for replacing meat-based meals with vegetarian ones.
type FoodPledge struct {
	ID              string          `json:"id"`
	QuestionID      string          `json:"question_id"`
	PledgeID        string          `json:"pledge_id"`
	CurrentMeals    int64           `json:"current_meals" validate:"gte=0"`
	VegetarianMeals decimal.Decimal `json:"vegetarian_meals"`
}

func (f *FoodPledge) Kind() AnswerKind { return AnswerKindFood }

func (f *FoodPledge) Answers() formula.Answers {
	return formula.Answers{
		{Name: "current_meals", Value: decimal.NewFromInt(f.CurrentMeals)},
		{Name: "vegetarian_meals", Value: f.VegetarianMeals},
	}
}

func (f *FoodPledge) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAnswer, err)
	}
	if !inChoices(f.VegetarianMeals, VegetarianMealsChoices) {
		return fmt.Errorf("%w: vegetarian_meals %s is not an allowed choice", ErrInvalidAnswer, f.VegetarianMeals)
	}
	return nil
}

func (f *FoodPledge) String() string {
	return fmt.Sprintf("Current meals: %d, vegetarian meals: %s", f.CurrentMeals, f.VegetarianMeals)
}

// EnergyPledge records answers for switching to a greener energy supplier.
type EnergyPledge struct {
	ID             string          `json:"id"`
	QuestionID     string          `json:"question_id"`
	PledgeID       string          `json:"pledge_id"`
	EnergySupplier decimal.Decimal `json:"energy_supplier"`
	NumberOfPeople int64           `json:"number_of_people" validate:"gte=1"`
	HeatingSource  decimal.Decimal `json:"heating_source"`
}

func (e *EnergyPledge) Kind() AnswerKind { return AnswerKindEnergy }

func (e *EnergyPledge) Answers() formula.Answers {
	return formula.Answers{
		{Name: "energy_supplier", Value: e.EnergySupplier},
		{Name: "number_of_people", Value: decimal.NewFromInt(e.NumberOfPeople)},
		{Name: "heating_source", Value: e.HeatingSource},
	}
}

func (e *EnergyPledge) Validate() error {
	if err := validate.Struct(e); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidAnswer, err)
	}
	if !inChoices(e.EnergySupplier, EnergySupplierChoices) {
		return fmt.Errorf("%w: energy_supplier %s is not an allowed choice", ErrInvalidAnswer, e.EnergySupplier)
	}
	if !inChoices(e.HeatingSource, HeatingSourceChoices) {
		return fmt.Errorf("%w: heating_source %s is not an allowed choice", ErrInvalidAnswer, e.HeatingSource)
	}
	return nil
}

func (e *EnergyPledge) String() string {
	return fmt.Sprintf("Energy supplier: %s", e.EnergySupplier)
}

// answerVariant describes one answer record variant.
type answerVariant struct {
	variables []string
	decode    func(questionID string, raw map[string]decimal.Decimal) (AnswerRecord, error)
}

var answerVariants = map[AnswerKind]answerVariant{
	AnswerKindFood: {
		variables: []string{"current_meals", "vegetarian_meals"},
		decode: func(questionID string, raw map[string]decimal.Decimal) (AnswerRecord, error) {
			meals, err := integerAnswer(raw, "current_meals")
			if err != nil {
				return nil, err
			}
			veg, err := requiredAnswer(raw, "vegetarian_meals")
			if err != nil {
				return nil, err
			}
			return &FoodPledge{QuestionID: questionID, CurrentMeals: meals, VegetarianMeals: veg}, nil
		},
	},
	AnswerKindEnergy: {
		variables: []string{"energy_supplier", "number_of_people", "heating_source"},
		decode: func(questionID string, raw map[string]decimal.Decimal) (AnswerRecord, error) {
			supplier, err := requiredAnswer(raw, "energy_supplier")
			if err != nil {
				return nil, err
			}
			people, err := integerAnswer(raw, "number_of_people")
			if err != nil {
				return nil, err
			}
			heating, err := requiredAnswer(raw, "heating_source")
			if err != nil {
				return nil, err
			}
			return &EnergyPledge{
				QuestionID:     questionID,
				EnergySupplier: supplier,
				NumberOfPeople: people,
				HeatingSource:  heating,
			}, nil
		},
	},
}

// AnswerKinds returns the registered answer kinds.
func AnswerKinds() []AnswerKind {
	return []AnswerKind{AnswerKindFood, AnswerKindEnergy}
}

// AnswerVariables returns the formula variable names for an answer kind.
func AnswerVariables(kind AnswerKind) ([]string, error) {
	v, ok := answerVariants[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnswerKind, kind)
	}
	return slices.Clone(v.variables), nil
}

// DecodeAnswers builds and validates the answer record of the given kind from
// submitted name/value pairs. Unknown names are rejected.
func DecodeAnswers(kind AnswerKind, questionID string, raw map[string]decimal.Decimal) (AnswerRecord, error) {
	v, ok := answerVariants[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnswerKind, kind)
	}
	for name := range raw {
		if !slices.Contains(v.variables, name) {
			return nil, fmt.Errorf("%w: unexpected answer %q for %s pledge", ErrInvalidAnswer, name, kind)
		}
	}
	if questionID == "" {
		questionID = string(kind) + " pledge"
	}
	rec, err := v.decode(questionID, raw)
	if err != nil {
		return nil, err
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

func requiredAnswer(raw map[string]decimal.Decimal, name string) (decimal.Decimal, error) {
	v, ok := raw[name]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s is required", ErrInvalidAnswer, name)
	}
	return v, nil
}

func integerAnswer(raw map[string]decimal.Decimal, name string) (int64, error) {
	v, err := requiredAnswer(raw, name)
	if err != nil {
		return 0, err
	}
	if !v.IsInteger() {
		return 0, fmt.Errorf("%w: %s must be a whole number", ErrInvalidAnswer, name)
	}
	return v.IntPart(), nil
}
