/*
evaluator.go - The check runner

PURPOSE:
  Runs a rule registry against an evaluation context and aggregates the
  outcomes. This is the only place rule evaluation happens; the service
  layer wraps it with I/O (context loading, audit persistence).

GUARANTEES:
  - Rules run in registration order.
  - With StopOnFirstFailure, evaluation halts after the first fail;
    later rules do not run and do not appear in the result.
  - A panicking rule is contained: its outcome becomes a synthesized
    fail with a generic worker-facing message, and every other rule
    still runs. One broken rule never aborts the whole check.
  - Evaluation performs no I/O and is deterministic for a given context.
*/
package engine

// FallbackMessage is the worker-facing text used when a rule's own
// evaluation breaks. Never expose internal errors to workers.
const FallbackMessage = "This rule could not be checked. Please contact your supervisor."

// CheckOptions tunes a single check run.
type CheckOptions struct {
	// StopOnFirstFailure halts evaluation at the first failing rule.
	// Used by gating callers that only need a yes/no quickly.
	StopOnFirstFailure bool
}

// RunCheck evaluates every applicable rule against the context, in
// registration order, and aggregates the outcomes. Pure: persisting
// the results (audit trail) is the caller's concern.
func RunCheck(ctx *EvaluationContext, registry *Registry, opts CheckOptions) CheckResult {
	result := CheckResult{
		WeekID:    ctx.Week.ID,
		CheckDate: ctx.CheckDate,
		Passed:    true,
	}

	for _, rule := range registry.Applicable(ctx) {
		outcome := evaluateRule(rule, ctx)
		result.Results = append(result.Results, outcome)
		if outcome.Outcome == OutcomeFail {
			result.Passed = false
			if opts.StopOnFirstFailure {
				break
			}
		}
	}

	return result
}

// evaluateRule runs one rule inside a failure boundary. A panic becomes
// a fail outcome rather than propagating.
func evaluateRule(rule Rule, ctx *EvaluationContext) (result RuleResult) {
	defer func() {
		if r := recover(); r != nil {
			result = RuleResult{
				RuleID:   rule.ID(),
				RuleName: rule.Name(),
				Category: rule.Category(),
				Outcome:  OutcomeFail,
				Message:  FallbackMessage,
				Details: Details{
					Notes: map[string]string{"evaluation_error": "rule evaluation aborted"},
				},
			}
		}
	}()
	return rule.Evaluate(ctx)
}
