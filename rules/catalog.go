/*
catalog.go - Registry assembly

PURPOSE:
  Builds the complete rule registry from a Thresholds set. Registration
  order here is the evaluation order everywhere: audit trails list rules
  in this order, and stop-on-first-failure halts along it. Gates come
  first (eligibility, paperwork), then hour limits, windows, task
  restrictions, and breaks.
*/
package rules

import (
	"github.com/shiftguard/compliance-engine/engine"
)

// BuildRegistry assembles the full catalog for one jurisdiction.
// The returned registry is immutable and safe to share across
// concurrent checks.
func BuildRegistry(th Thresholds) *engine.Registry {
	return engine.NewRegistry(
		// Eligibility and documentation gates
		newMinimumAgeRule(),
		newConsentRule(),
		newPermitRule(),
		newSafetyTrainingRule(),

		// Hour limits
		&dailyLimitRule{
			ruleDef: ruleDef{
				id:       "daily-hours-limit",
				name:     "Daily hour limit",
				category: engine.CategoryHours,
				bands:    engine.MinorBands,
			},
			limits: th.Limits,
		},
		&dailyLimitRule{
			ruleDef: ruleDef{
				id:       "daily-hours-limit-school-day",
				name:     "Daily hour limit on school days",
				category: engine.CategoryHours,
				bands:    engine.MinorBands,
			},
			limits:    th.Limits,
			schoolDay: true,
		},
		&weeklyLimitRule{
			ruleDef: ruleDef{
				id:       "weekly-hours-limit",
				name:     "Weekly hour limit",
				category: engine.CategoryHours,
				bands:    engine.MinorBands,
			},
			limits: th.Limits,
		},
		&weeklyLimitRule{
			ruleDef: ruleDef{
				id:       "weekly-hours-limit-school-week",
				name:     "Weekly hour limit during school weeks",
				category: engine.CategoryHours,
				bands:    engine.MinorBands,
			},
			limits:     th.Limits,
			schoolWeek: true,
		},

		// Time windows
		&schoolHoursRule{
			ruleDef: ruleDef{
				id:       "no-work-during-school-hours",
				name:     "No work during school hours",
				category: engine.CategoryTimeWindow,
				bands:    engine.MinorBands,
			},
			start: th.SchoolHoursStart,
			end:   th.SchoolHoursEnd,
		},
		&curfewRule{
			ruleDef: ruleDef{
				id:       "work-window-curfew",
				name:     "Permitted work window",
				category: engine.CategoryTimeWindow,
				bands:    engine.MinorBands,
			},
			limits: th.Limits,
		},

		// Task restrictions
		newTaskMinimumAgeRule(),
		newHazardousTaskRule(),
		newPowerMachineryRule(th.MachineryMinAge),
		newDrivingRule(),
		newSoloCashRule(th.SoloCashMinAge),
		newSupervisorAttestationRule(),

		// Breaks
		newMealBreakRule(th.MealBreakAfterHours),
	)
}
