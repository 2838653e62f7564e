package rules_test

import (
	"github.com/shiftguard/compliance-engine/engine"
	"github.com/shiftguard/compliance-engine/rules"
)

// =============================================================================
// SHARED TEST SETUP
// =============================================================================

var (
	taskBagger  = engine.TaskCode{Code: "BAGGER", Name: "Bagger", MinAgeAllowed: 12}
	taskCashier = engine.TaskCode{Code: "CASHIER", Name: "Cashier", MinAgeAllowed: 14, SoloCashHandling: true, SupervisorRequired: engine.SupervisorForMinors}
	taskSlicer  = engine.TaskCode{Code: "DELI-SLICER", Name: "Deli slicer operator", MinAgeAllowed: 16, IsHazardous: true, PowerMachinery: true, SupervisorRequired: engine.SupervisorAlways}
	taskDriver  = engine.TaskCode{Code: "DELIVERY", Name: "Delivery driver", MinAgeAllowed: 18, DrivingRequired: true}
)

// entry builds a shift for the given task. Callers tweak flags
// (IsSchoolDay, MealBreakConfirmed, SupervisorPresentName) on the result.
func entry(date, start, end string, task engine.TaskCode) engine.WorkEntry {
	s, err := engine.ParseTimeOfDay(start)
	if err != nil {
		panic(err)
	}
	e, err := engine.ParseTimeOfDay(end)
	if err != nil {
		panic(err)
	}
	return engine.WorkEntry{
		ID:        "entry-" + date + "-" + start,
		WeekID:    "week-1",
		WorkDate:  engine.MustParseDate(date),
		TaskCode:  task.Code,
		Task:      task,
		StartTime: s,
		EndTime:   e,
		Hours:     engine.DerivedHours(s, e),
	}
}

// weekCtx builds a context for a worker born dob, a week starting at
// weekStart (a Sunday), checked on the week's Saturday.
func weekCtx(dob, weekStart string, docs []engine.Document, entries ...engine.WorkEntry) *engine.EvaluationContext {
	start := engine.MustParseDate(weekStart)
	worker := engine.Worker{ID: "w-1", Name: "Test Worker", DateOfBirth: engine.MustParseDate(dob)}
	week := engine.WorkWeek{
		ID:        "week-1",
		WorkerID:  worker.ID,
		WeekStart: start,
		Status:    engine.WeekOpen,
		Entries:   entries,
	}
	return engine.BuildContext(worker, week, docs, start.AddDays(6))
}

// evalRule runs a single catalog rule by id against a context.
func evalRule(ruleID string, ctx *engine.EvaluationContext) engine.RuleResult {
	registry := rules.BuildRegistry(rules.DefaultThresholds())
	for _, r := range registry.Rules() {
		if r.ID() == ruleID {
			return r.Evaluate(ctx)
		}
	}
	panic("unknown rule " + ruleID)
}
