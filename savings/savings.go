// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package savings

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/danielhkuo/green-pledges/formula"
	"github.com/danielhkuo/green-pledges/models"
)

// Calculate evaluates the action's formula for one metric against answers.
// ok is false when the action has no formula for the metric, which counts
// as zero savings.
func Calculate(action models.Action, answers formula.Answers, metric models.Metric) (value float64, ok bool, err error) {
	f, ok := action.Formula(metric)
	if !ok {
		return 0, false, nil
	}

	value, err = formula.Evaluate(f, answers)
	if err != nil {
		return 0, true, fmt.Errorf("%s formula %q: %w", metric, f, err)
	}

	return value, true, nil
}

// Problem is a metric whose formula failed to evaluate.
type Problem struct {
	Metric models.Metric
	Err    error
}

// Savings holds the co2, water and waste savings of one pledge. Metrics
// without a formula, or whose formula failed, are 0.
type Savings struct {
	CO2      float64
	Water    float64
	Waste    float64
	Problems []Problem
}

// Of returns the saving for a metric.
func (s Savings) Of(m models.Metric) float64 {
	switch m {
	case models.MetricCO2:
		return s.CO2
	case models.MetricWater:
		return s.Water
	case models.MetricWaste:
		return s.Waste
	}
	return 0
}

// Compute evaluates all three metrics of an action.
func Compute(action models.Action, answers formula.Answers) Savings {
	var s Savings
	for _, m := range models.Metrics {
		v, ok, err := Calculate(action, answers, m)
		if err != nil {
			s.Problems = append(s.Problems, Problem{Metric: m, Err: err})
			continue
		}
		if !ok {
			continue
		}
		switch m {
		case models.MetricCO2:
			s.CO2 = v
		case models.MetricWater:
			s.Water = v
		case models.MetricWaste:
			s.Waste = v
		}
	}
	return s
}

// ForPledge computes a pledge's savings from its action's formulas and the
// answer record linked from that action.
func ForPledge(d models.PledgeDetail) Savings {
	var answers formula.Answers
	if d.Record != nil {
		answers = d.Record.Answers()
	}
	return Compute(d.Action, answers)
}

// Row is one pledge with its computed savings.
type Row struct {
	Detail  models.PledgeDetail
	Savings Savings
}

// PledgeSavings converts the row to its search result form.
func (r Row) PledgeSavings() models.PledgeSavings {
	return models.PledgeSavings{
		Username:    r.Detail.Username,
		Action:      r.Detail.Action.Name,
		CO2Saving:   r.Savings.CO2,
		WaterSaving: r.Savings.Water,
		WasteSaving: r.Savings.Waste,
	}
}

// Totals sums savings across pledges. Each total is rounded to 3 decimals.
type Totals struct {
	Pledges int
	CO2     float64
	Water   float64
	Waste   float64
}

// Report holds per-pledge savings, their totals and every formula that
// failed to evaluate (once per action and metric).
type Report struct {
	Rows     []Row
	Totals   Totals
	Problems []models.FormulaProblem
}

// Build computes the savings report for a set of pledges.
func Build(details []models.PledgeDetail) Report {
	rows := lo.Map(details, func(d models.PledgeDetail, _ int) Row {
		return Row{Detail: d, Savings: ForPledge(d)}
	})

	sum := func(m models.Metric) float64 {
		return formula.Round(lo.SumBy(rows, func(r Row) float64 { return r.Savings.Of(m) }), formula.Precision)
	}

	problems := lo.FlatMap(rows, func(r Row, _ int) []models.FormulaProblem {
		return lo.Map(r.Savings.Problems, func(p Problem, _ int) models.FormulaProblem {
			return models.FormulaProblem{
				ActionID: r.Detail.Action.ID,
				Action:   r.Detail.Action.Name,
				Metric:   p.Metric,
				Error:    p.Err.Error(),
			}
		})
	})
	problems = lo.UniqBy(problems, func(p models.FormulaProblem) string {
		return p.ActionID + "/" + string(p.Metric)
	})

	return Report{
		Rows: rows,
		Totals: Totals{
			Pledges: len(rows),
			CO2:     sum(models.MetricCO2),
			Water:   sum(models.MetricWater),
			Waste:   sum(models.MetricWaste),
		},
		Problems: problems,
	}
}
