/*
task.go - Task restriction rules

SEMANTICS:
  Task rules are per-entry: each entry is checked against its task's
  restriction attributes and the worker's age ON THAT ENTRY'S DATE.
  A birthday mid-week can make the same task lawful on Thursday that
  was unlawful on Tuesday.
*/
package rules

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/shiftguard/compliance-engine/engine"
)

// entryPredicate reports whether one entry violates a task restriction,
// given the worker's age on the entry's date.
type entryPredicate func(entry engine.WorkEntry, age int) bool

// taskRule is the shared walk for per-entry task checks: collect every
// offending entry and its date, in calendar order.
type taskRule struct {
	ruleDef
	violates entryPredicate
	note     func() map[string]string
}

func (r *taskRule) Evaluate(ctx *engine.EvaluationContext) engine.RuleResult {
	var details engine.Details
	for _, d := range ctx.WeekDates {
		age := ctx.AgeByDate[d]
		dateHit := false
		for _, entry := range ctx.EntriesByDate[d] {
			if r.violates(entry, age) {
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
	if r.note != nil {
		details.Notes = r.note()
	}
	return r.fail(details)
}

// =============================================================================
// CONCRETE TASK RULES
// =============================================================================

func newTaskMinimumAgeRule() *taskRule {
	return &taskRule{
		ruleDef: ruleDef{
			id:       "task-minimum-age",
			name:     "Minimum age for task",
			category: engine.CategoryTask,
			// Empty bands: a task floor can exceed 18, so always relevant.
		},
		violates: func(entry engine.WorkEntry, age int) bool {
			return age < entry.Task.MinAgeAllowed
		},
	}
}

func newHazardousTaskRule() *taskRule {
	return &taskRule{
		ruleDef: ruleDef{
			id:       "no-hazardous-work",
			name:     "Hazardous work prohibited for minors",
			category: engine.CategoryTask,
			bands:    minorBands,
		},
		violates: func(entry engine.WorkEntry, age int) bool {
			return age < 18 && entry.Task.IsHazardous
		},
	}
}

func newPowerMachineryRule(minAge int) *taskRule {
	return &taskRule{
		ruleDef: ruleDef{
			id:       "no-power-machinery",
			name:     "Power machinery age floor",
			category: engine.CategoryTask,
			bands:    minorBands,
		},
		violates: func(entry engine.WorkEntry, age int) bool {
			return age < minAge && entry.Task.PowerMachinery
		},
		note: func() map[string]string {
			return map[string]string{"minimum_age": strconv.Itoa(minAge)}
		},
	}
}

func newDrivingRule() *taskRule {
	return &taskRule{
		ruleDef: ruleDef{
			id:       "no-driving",
			name:     "Driving tasks prohibited for minors",
			category: engine.CategoryTask,
			bands:    minorBands,
		},
		violates: func(entry engine.WorkEntry, age int) bool {
			return age < 18 && entry.Task.DrivingRequired
		},
	}
}

func newSoloCashRule(minAge int) *taskRule {
	return &taskRule{
		ruleDef: ruleDef{
			id:       "no-solo-cash-handling",
			name:     "Solo cash handling age floor",
			category: engine.CategoryTask,
			bands:    minorBands,
		},
		violates: func(entry engine.WorkEntry, age int) bool {
			return age < minAge && entry.Task.SoloCashHandling
		},
		note: func() map[string]string {
			return map[string]string{"minimum_age": strconv.Itoa(minAge)}
		},
	}
}

func newSupervisorAttestationRule() *taskRule {
	return &taskRule{
		ruleDef: ruleDef{
			id:       "supervisor-attestation",
			name:     "Supervisor attestation required",
			category: engine.CategoryTask,
			// Always relevant: some tasks require supervision at any age.
		},
		violates: func(entry engine.WorkEntry, age int) bool {
			switch entry.Task.SupervisorRequired {
			case engine.SupervisorAlways:
				return entry.SupervisorPresentName == ""
			case engine.SupervisorForMinors:
				return age < 18 && entry.SupervisorPresentName == ""
			default:
				return false
			}
		},
	}
}

// decimalFromInt is a small helper for rules reporting integer
// thresholds through the decimal details fields.
func decimalFromInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}
