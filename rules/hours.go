/*
hours.go - Daily and weekly hour limit rules

SEMANTICS:
  Limits are per age band and computed per calendar date, so a birthday
  mid-week moves a worker onto the next band's caps starting that day.
  A failing rule reports EVERY affected date, not just the first, with
  per-date actual hours, in ascending date order.
*/
package rules

import (
	"github.com/shopspring/decimal"

	"github.com/shiftguard/compliance-engine/engine"
)

// =============================================================================
// DAILY LIMIT
// =============================================================================

// dailyLimitRule caps hours worked on a single date. The schoolDay
// variant applies the tighter school-day limit, only on dates flagged as
// school days; the base variant applies the general limit on every date.
type dailyLimitRule struct {
	ruleDef
	limits    map[engine.AgeBand]BandLimits
	schoolDay bool
}

func (r *dailyLimitRule) Evaluate(ctx *engine.EvaluationContext) engine.RuleResult {
	if r.schoolDay && !ctx.IsSchoolWeek {
		return r.notApplicable("no school days recorded this week")
	}

	var details engine.Details
	for _, d := range ctx.WeekDates {
		total, worked := ctx.HoursByDate[d]
		if !worked {
			continue
		}
		if r.schoolDay && !ctx.SchoolDays[d] {
			continue
		}
		lim, ok := r.limits[ctx.BandByDate[d]]
		if !ok {
			continue // no limit for this band (adults)
		}
		limit := lim.DailyHours
		if r.schoolDay {
			limit = lim.DailyHoursSchoolDay
		}
		if total.GreaterThan(limit) {
			if details.Threshold == nil {
				t := limit
				details.Threshold = &t
				a := total
				details.Actual = &a
			}
			details.AffectedDates = append(details.AffectedDates, d)
			details.PerDate = append(details.PerDate, engine.DateValue{Date: d, Value: total})
		}
	}

	if len(details.AffectedDates) == 0 {
		return r.pass()
	}
	return r.fail(details)
}

// =============================================================================
// WEEKLY LIMIT
// =============================================================================

// weeklyLimitRule caps the week's total hours. When a birthday splits
// the week across bands, the strictest (lowest) limit among the bands
// present is enforced. The schoolWeek variant only applies when any
// school day has entries.
type weeklyLimitRule struct {
	ruleDef
	limits     map[engine.AgeBand]BandLimits
	schoolWeek bool
}

func (r *weeklyLimitRule) Evaluate(ctx *engine.EvaluationContext) engine.RuleResult {
	if r.schoolWeek && !ctx.IsSchoolWeek {
		return r.notApplicable("not a school week")
	}
	if len(ctx.WorkedDates) == 0 {
		return r.pass()
	}

	limit, capped := r.weeklyCap(ctx)
	if !capped {
		return r.notApplicable("no weekly limit for this age")
	}

	// Exactly at the limit is lawful; only strictly over fails.
	if !ctx.WeeklyHours.GreaterThan(limit) {
		return r.pass()
	}

	t := limit
	a := ctx.WeeklyHours
	return r.fail(engine.Details{
		Threshold:     &t,
		Actual:        &a,
		AffectedDates: append([]engine.Date(nil), ctx.WorkedDates...),
	})
}

// weeklyCap returns the lowest weekly limit among the bands present.
func (r *weeklyLimitRule) weeklyCap(ctx *engine.EvaluationContext) (decimal.Decimal, bool) {
	var limit decimal.Decimal
	found := false
	for band := range ctx.Bands {
		lim, ok := r.limits[band]
		if !ok {
			continue
		}
		v := lim.WeeklyHours
		if r.schoolWeek {
			v = lim.WeeklyHoursSchoolWk
		}
		if !found || v.LessThan(limit) {
			limit = v
			found = true
		}
	}
	return limit, found
}
