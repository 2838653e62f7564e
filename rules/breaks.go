/*
breaks.go - Mandatory break rules

SEMANTICS:
  When hours worked on a date exceed the jurisdiction's threshold, at
  least one entry on that date must carry a confirmed meal break.
*/
package rules

import (
	"github.com/shopspring/decimal"

	"github.com/shiftguard/compliance-engine/engine"
)

// mealBreakRule enforces the confirmed-meal-break requirement on long days.
type mealBreakRule struct {
	ruleDef
	afterHours decimal.Decimal
}

func newMealBreakRule(afterHours decimal.Decimal) *mealBreakRule {
	return &mealBreakRule{
		ruleDef: ruleDef{
			id:       "meal-break-required",
			name:     "Meal break required on long days",
			category: engine.CategoryBreak,
			bands:    minorBands,
		},
		afterHours: afterHours,
	}
}

func (r *mealBreakRule) Evaluate(ctx *engine.EvaluationContext) engine.RuleResult {
	var details engine.Details
	for _, d := range ctx.WeekDates {
		total, worked := ctx.HoursByDate[d]
		if !worked || !total.GreaterThan(r.afterHours) {
			continue
		}
		confirmed := false
		for _, entry := range ctx.EntriesByDate[d] {
			if entry.MealBreakConfirmed {
				confirmed = true
				break
			}
		}
		if !confirmed {
			details.AffectedDates = append(details.AffectedDates, d)
			details.PerDate = append(details.PerDate, engine.DateValue{Date: d, Value: total})
		}
	}

	if len(details.AffectedDates) == 0 {
		return r.pass()
	}
	t := r.afterHours
	details.Threshold = &t
	return r.fail(details)
}
