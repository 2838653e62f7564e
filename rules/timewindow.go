/*
timewindow.go - Permitted work-time window rules

SEMANTICS:
  An entry violates a window rule when its [start, end) interval
  overlaps a forbidden window on a day where that window is in force.
  School hours are forbidden on dates flagged as school days; the
  curfew window (before earliest start / after latest end) is in force
  every day, tighter on school nights.
*/
package rules

import (
	"github.com/shiftguard/compliance-engine/engine"
)

// =============================================================================
// SCHOOL HOURS
// =============================================================================

// schoolHoursRule forbids work overlapping school hours on school days.
type schoolHoursRule struct {
	ruleDef
	start engine.TimeOfDay
	end   engine.TimeOfDay
}

func (r *schoolHoursRule) Evaluate(ctx *engine.EvaluationContext) engine.RuleResult {
	if !ctx.IsSchoolWeek {
		return r.notApplicable("no school days recorded this week")
	}

	var details engine.Details
	for _, d := range ctx.WeekDates {
		if !ctx.SchoolDays[d] {
			continue
		}
		dateHit := false
		for _, entry := range ctx.EntriesByDate[d] {
			if engine.Overlaps(entry.StartTime, entry.EndTime, r.start, r.end) {
				details.AffectedEntries = append(details.AffectedEntries, entry.ID)
				dateHit = true
			}
		}
		if dateHit {
			details.AffectedDates = append(details.AffectedDates, d)
		}
	}

	if len(details.AffectedEntries) == 0 {
		return r.pass()
	}
	details.Notes = map[string]string{
		"window": r.start.String() + "-" + r.end.String(),
	}
	return r.fail(details)
}

// =============================================================================
// CURFEW
// =============================================================================

// curfewRule forbids work before a band's earliest permitted start or
// past its latest permitted end. School days use the tighter
// school-night end.
type curfewRule struct {
	ruleDef
	limits map[engine.AgeBand]BandLimits
}

func (r *curfewRule) Evaluate(ctx *engine.EvaluationContext) engine.RuleResult {
	var details engine.Details
	for _, d := range ctx.WeekDates {
		lim, ok := r.limits[ctx.BandByDate[d]]
		if !ok {
			continue
		}
		latest := lim.LatestEnd
		if ctx.SchoolDays[d] {
			latest = lim.LatestEndSchoolNight
		}
		dateHit := false
		for _, entry := range ctx.EntriesByDate[d] {
			if entry.StartTime < lim.EarliestStart || entry.EndTime > latest {
				details.AffectedEntries = append(details.AffectedEntries, entry.ID)
				dateHit = true
			}
		}
		if dateHit {
			details.AffectedDates = append(details.AffectedDates, d)
		}
	}

	if len(details.AffectedEntries) == 0 {
		return r.pass()
	}
	return r.fail(details)
}
