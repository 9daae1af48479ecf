// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Metric selects one of the savings formulas on an action.
type Metric string

const (
	MetricCO2   Metric = "co2"
	MetricWater Metric = "water"
	MetricWaste Metric = "waste"
)

// Metrics lists every metric in display order.
var Metrics = []Metric{MetricCO2, MetricWater, MetricWaste}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct checks the validate tags of a request type.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}

// Request types

type CreateActionRequest struct {
	Action       string     `json:"action" validate:"required,max=128"`
	QuestionText string     `json:"question_text" validate:"required"`
	CO2Formula   *string    `json:"co2_formula" validate:"omitempty,max=512"`
	WaterFormula *string    `json:"water_formula" validate:"omitempty,max=512"`
	WasteFormula *string    `json:"waste_formula" validate:"omitempty,max=512"`
	Version      string     `json:"version" validate:"required,max=128"`
	AnswerKind   AnswerKind `json:"answer_kind" validate:"required,oneof=food energy"`
}

// Answers are keyed by variable name, e.g. {"current_meals": 5}.
type SubmitPledgeRequest struct {
	Username   string                     `json:"username" validate:"required,max=150"`
	ActionID   string                     `json:"action_id" validate:"required,uuid"`
	QuestionID string                     `json:"question_id" validate:"omitempty,max=128"`
	Answers    map[string]decimal.Decimal `json:"answers" validate:"required"`
}

// Response types

type CreateActionResponse struct {
	ActionID string `json:"action_id"`
}

type ActionListResponse struct {
	Actions []Action `json:"actions"`
}

type SubmitPledgeResponse struct {
	PledgeID string        `json:"pledge_id"`
	AnswerID string        `json:"answer_id"`
	Savings  PledgeSavings `json:"savings"`
}

// HomeResponse holds the totals shown on the home page.
type HomeResponse struct {
	AmountOfPledges   int              `json:"amount_of_pledges"`
	TotalCO2Savings   float64          `json:"total_co2_savings"`
	TotalWaterSavings float64          `json:"total_water_savings"`
	TotalWasteSavings float64          `json:"total_waste_savings"`
	FormulaProblems   []FormulaProblem `json:"formula_problems,omitempty"`
}

// PledgeSavings is one row of the search results.
type PledgeSavings struct {
	Username    string  `json:"username"`
	Action      string  `json:"action"`
	CO2Saving   float64 `json:"co2_saving"`
	WaterSaving float64 `json:"water_saving"`
	WasteSaving float64 `json:"waste_saving"`
}

type SearchResponse struct {
	Pledges         []PledgeSavings  `json:"pledges"`
	FormulaProblems []FormulaProblem `json:"formula_problems,omitempty"`
}

// FormulaProblem reports a stored formula that could not be evaluated.
type FormulaProblem struct {
	ActionID string `json:"action_id"`
	Action   string `json:"action"`
	Metric   Metric `json:"metric"`
	Error    string `json:"error"`
}

// Domain types

type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Action is a pledgeable behaviour change from the catalog. AnswerKind and
// AnswerID point at the answer record whose answers feed its formulas.
type Action struct {
	ID           string     `json:"id"`
	Name         string     `json:"action"`
	QuestionText string     `json:"question_text"`
	CO2Formula   *string    `json:"co2_formula,omitempty"`
	WaterFormula *string    `json:"water_formula,omitempty"`
	WasteFormula *string    `json:"waste_formula,omitempty"`
	Version      string     `json:"version"`
	AnswerKind   AnswerKind `json:"answer_kind"`
	AnswerID     *string    `json:"answer_id,omitempty"`
}

// Formula returns the formula configured for a metric. ok is false when
// none is set or it is blank.
func (a Action) Formula(m Metric) (formula string, ok bool) {
	var f *string
	switch m {
	case MetricCO2:
		f = a.CO2Formula
	case MetricWater:
		f = a.WaterFormula
	case MetricWaste:
		f = a.WasteFormula
	}
	if f == nil || strings.TrimSpace(*f) == "" {
		return "", false
	}
	return *f, true
}

// Pledge links a user to an action.
type Pledge struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	ActionID string `json:"action_id"`
}

// PledgeDetail is a pledge joined with its user, its action and the
// action's answer record. Record is nil when the action has none linked.
type PledgeDetail struct {
	Pledge
	Username string
	Action   Action
	Record   AnswerRecord
}

// Version returns the version of the pledged action.
func (p PledgeDetail) Version() string {
	return p.Action.Version
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
