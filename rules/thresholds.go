/*
Package rules implements the compliance rule catalog.

PURPOSE:
  Concrete rules for age-graduated minor-labor regulations: hour limits,
  permitted work-time windows, task restrictions, documentation gates,
  and mandatory breaks. Each rule is a pure predicate over an
  engine.EvaluationContext; the catalog is assembled into an explicit
  engine.Registry by BuildRegistry.

THRESHOLDS:
  Every numeric limit and clock window lives in a Thresholds value
  injected at registry build time. Nothing regulatory is hard-coded in
  a rule body. Jurisdictions supply their own Thresholds (see factory/);
  DefaultThresholds provides a baseline set.

KEY CONCEPTS IN THIS FILE (thresholds.go):
  - BandLimits: per-age-band hour caps and permitted windows
  - Thresholds: the complete jurisdiction parameter set

SEE ALSO:
  - catalog.go: Registration order
  - hours.go, timewindow.go, task.go, documentation.go, breaks.go
  - format.go: Violation text templates
*/
package rules

import (
	"github.com/shopspring/decimal"

	"github.com/shiftguard/compliance-engine/engine"
)

// =============================================================================
// BAND LIMITS - Hour caps and windows for one age band
// =============================================================================

// BandLimits holds the regulatory limits for one age band. School-day
// and school-week variants tighten the base limits when the worker is
// attending school.
type BandLimits struct {
	DailyHours           decimal.Decimal
	DailyHoursSchoolDay  decimal.Decimal
	WeeklyHours          decimal.Decimal
	WeeklyHoursSchoolWk  decimal.Decimal
	EarliestStart        engine.TimeOfDay
	LatestEnd            engine.TimeOfDay
	LatestEndSchoolNight engine.TimeOfDay
}

// =============================================================================
// THRESHOLDS - Complete jurisdiction parameter set
// =============================================================================

// Thresholds is the full set of regulatory parameters the catalog is
// built from. Values are jurisdiction-specific; the engine treats them
// as opaque constants.
type Thresholds struct {
	// Limits maps each minor band to its hour caps and windows.
	// Adults carry no limits and are absent from the map.
	Limits map[engine.AgeBand]BandLimits

	// SchoolHoursStart/End bound the no-work-during-school window,
	// enforced on dates flagged as school days.
	SchoolHoursStart engine.TimeOfDay
	SchoolHoursEnd   engine.TimeOfDay

	// MealBreakAfterHours is the daily hours above which a confirmed
	// meal break is mandatory.
	MealBreakAfterHours decimal.Decimal

	// MachineryMinAge and SoloCashMinAge are floors for power-machinery
	// work and unsupervised cash handling.
	MachineryMinAge int
	SoloCashMinAge  int

	// PermitExpiryGraceDays is reserved for jurisdictions that allow a
	// short grace window on expired permits. Zero means no grace.
	PermitExpiryGraceDays int
}

func hours(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

// DefaultThresholds returns a baseline jurisdiction parameter set.
// Real deployments load jurisdiction-specific values via factory/.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Limits: map[engine.AgeBand]BandLimits{
			engine.Band1213: {
				DailyHours:           hours("4"),
				DailyHoursSchoolDay:  hours("2"),
				WeeklyHours:          hours("24"),
				WeeklyHoursSchoolWk:  hours("12"),
				EarliestStart:        engine.NewTimeOfDay(7, 0),
				LatestEnd:            engine.NewTimeOfDay(19, 0),
				LatestEndSchoolNight: engine.NewTimeOfDay(19, 0),
			},
			engine.Band1415: {
				DailyHours:           hours("8"),
				DailyHoursSchoolDay:  hours("3"),
				WeeklyHours:          hours("40"),
				WeeklyHoursSchoolWk:  hours("18"),
				EarliestStart:        engine.NewTimeOfDay(7, 0),
				LatestEnd:            engine.NewTimeOfDay(21, 0),
				LatestEndSchoolNight: engine.NewTimeOfDay(19, 0),
			},
			engine.Band1617: {
				DailyHours:           hours("10"),
				DailyHoursSchoolDay:  hours("8"),
				WeeklyHours:          hours("48"),
				WeeklyHoursSchoolWk:  hours("28"),
				EarliestStart:        engine.NewTimeOfDay(6, 0),
				LatestEnd:            engine.NewTimeOfDay(23, 0),
				LatestEndSchoolNight: engine.NewTimeOfDay(22, 0),
			},
		},
		SchoolHoursStart:    engine.NewTimeOfDay(8, 0),
		SchoolHoursEnd:      engine.NewTimeOfDay(15, 30),
		MealBreakAfterHours: hours("5"),
		MachineryMinAge:     16,
		SoloCashMinAge:      16,
	}
}
