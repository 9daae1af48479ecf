// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON, checked with ValidateStruct:

  - CreateActionRequest: action, question_text, formulas, version, answer_kind
  - SubmitPledgeRequest: username, action_id, question_id, answers

# Response Types

  - HomeResponse: amount_of_pledges and rounded savings totals
  - SearchResponse: per-pledge savings rows (PledgeSavings)
  - CreateActionResponse, ActionListResponse, SubmitPledgeResponse
  - FormulaProblem: a stored formula that failed to evaluate
  - ErrorResponse: error, message

# Domain Types

  - User: a username
  - Action: catalog entry with co2/water/waste formulas and a version
  - Pledge: links one user to one action
  - PledgeDetail: a pledge joined with its user, action and answer record

# Answer Records

Each action links to one answer record through AnswerKind and AnswerID.
AnswerRecord is implemented by a closed set of variants:

	AnswerKindFood   → *FoodPledge   (current_meals, vegetarian_meals)
	AnswerKindEnergy → *EnergyPledge (energy_supplier, number_of_people, heating_source)

Answers() returns the variables in declaration order, which is the order
formulas substitute them in. DecodeAnswers builds a validated record from
submitted answers; AnswerVariables lists the names a kind provides.

# Metrics

	MetricCO2   = "co2"
	MetricWater = "water"
	MetricWaste = "waste"

Action.Formula(metric) returns the formula for a metric, if configured.
*/
package models
