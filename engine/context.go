/*
context.go - Evaluation context construction

PURPOSE:
  Builds the single immutable snapshot every rule evaluates against.
  Construction is pure: the caller loads the worker, the week (with
  entries), and the worker's documents, and BuildContext folds them
  into per-date aggregates once. Rules never touch stores.

INVARIANTS:
  - Age and age band are computed PER DATE: a birthday mid-week changes
    which thresholds apply starting that day.
  - The context is never mutated after construction. Re-running a check
    on the same inputs is deterministic.
  - An empty week is a valid context (all aggregates empty, weekly total
    zero), not an error.
*/
package engine

import (
	"github.com/shopspring/decimal"
)

// EvaluationContext is the precomputed working set for one check.
// Fields are exported for rule access but must be treated as read-only.
type EvaluationContext struct {
	Worker    Worker
	Week      WorkWeek
	Documents []Document
	CheckDate Date

	// The 7 calendar days of the week, Sunday first. Rules iterate this
	// array (not the maps) wherever output ordering is observable.
	WeekDates [7]Date

	AgeByDate  map[Date]int
	BandByDate map[Date]AgeBand
	Bands      map[AgeBand]bool // set of bands present across the week

	HoursByDate   map[Date]decimal.Decimal
	EntriesByDate map[Date][]WorkEntry
	SchoolDays    map[Date]bool
	WorkedDates   []Date // ascending, only dates with at least one entry
	WeeklyHours   decimal.Decimal
	IsSchoolWeek  bool
}

// BuildContext assembles an EvaluationContext from pre-loaded records.
// Ages below the legal floor do not fail construction: those dates are
// classified BandUnderMin and the minimum-age rule reports them.
func BuildContext(worker Worker, week WorkWeek, documents []Document, checkDate Date) *EvaluationContext {
	ctx := &EvaluationContext{
		Worker:        worker,
		Week:          week,
		Documents:     documents,
		CheckDate:     checkDate,
		WeekDates:     week.Dates(),
		AgeByDate:     make(map[Date]int, 7),
		BandByDate:    make(map[Date]AgeBand, 7),
		Bands:         make(map[AgeBand]bool),
		HoursByDate:   make(map[Date]decimal.Decimal),
		EntriesByDate: make(map[Date][]WorkEntry),
		SchoolDays:    make(map[Date]bool),
		WeeklyHours:   decimal.Zero,
	}

	for _, d := range ctx.WeekDates {
		age := AgeAsOf(worker.DateOfBirth, d)
		band, _ := AgeBandFor(age) // under-minimum maps to BandUnderMin
		ctx.AgeByDate[d] = age
		ctx.BandByDate[d] = band
		ctx.Bands[band] = true
	}

	for _, entry := range week.Entries {
		d := entry.WorkDate
		ctx.EntriesByDate[d] = append(ctx.EntriesByDate[d], entry)
		prev, ok := ctx.HoursByDate[d]
		if !ok {
			prev = decimal.Zero
		}
		ctx.HoursByDate[d] = prev.Add(entry.Hours)
		ctx.WeeklyHours = ctx.WeeklyHours.Add(entry.Hours)
		if entry.IsSchoolDay {
			ctx.SchoolDays[d] = true
		}
	}

	// Worked dates in calendar order, derived from the fixed week array
	// so downstream affectedDates stay date-ordered.
	for _, d := range ctx.WeekDates {
		if len(ctx.EntriesByDate[d]) > 0 {
			ctx.WorkedDates = append(ctx.WorkedDates, d)
		}
	}

	ctx.IsSchoolWeek = len(ctx.SchoolDays) > 0
	return ctx
}

// DocumentValidOn reports whether the worker has a valid document of the
// given type as of date d.
func (ctx *EvaluationContext) DocumentValidOn(docType DocumentType, d Date) bool {
	for _, doc := range ctx.Documents {
		if doc.Type == docType && doc.ValidOn(d) {
			return true
		}
	}
	return false
}

// MinorOnAnyDate reports whether any date of the week falls in a minor band.
func (ctx *EvaluationContext) MinorOnAnyDate() bool {
	for band := range ctx.Bands {
		if band != BandAdult {
			return true
		}
	}
	return false
}

// AgeAtWeekStart is the worker's age on the week's anchor Sunday.
func (ctx *EvaluationContext) AgeAtWeekStart() int {
	return ctx.AgeByDate[ctx.Week.WeekStart]
}
