// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package savings computes the CO2, water and waste savings of pledges.

A pledge's savings come from its action's formulas, evaluated with the
answers of the record linked from that action:

	s := savings.ForPledge(detail)
	fmt.Println(s.CO2, s.Water, s.Waste)

Missing formulas count as zero. Formulas that fail to evaluate also count
as zero and are reported in Savings.Problems.

Build computes every pledge's savings plus totals rounded to 3 decimals,
which is what the home and search views render.
*/
package savings
