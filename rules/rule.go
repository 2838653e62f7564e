package rules

import (
	"github.com/shiftguard/compliance-engine/engine"
)

// =============================================================================
// RULE BASE - Shared identity plumbing for catalog rules
// =============================================================================

// ruleDef carries the declarative half of a rule: identity, category,
// and the age bands it is relevant to. Concrete rules embed it and add
// an Evaluate method.
type ruleDef struct {
	id       string
	name     string
	category engine.Category
	bands    []engine.AgeBand
}

func (r ruleDef) ID() string                { return r.id }
func (r ruleDef) Name() string              { return r.name }
func (r ruleDef) Category() engine.Category { return r.category }
func (r ruleDef) AppliesTo() []engine.AgeBand {
	return r.bands
}

// minorBands covers every band below 18, including workers under the
// legal floor, so prohibition rules still report for them.
var minorBands = []engine.AgeBand{
	engine.BandUnderMin, engine.Band1213, engine.Band1415, engine.Band1617,
}

// result constructors ---------------------------------------------------------

func (r ruleDef) pass() engine.RuleResult {
	return engine.RuleResult{
		RuleID:   r.id,
		RuleName: r.name,
		Category: r.category,
		Outcome:  engine.OutcomePass,
	}
}

func (r ruleDef) notApplicable(reason string) engine.RuleResult {
	res := engine.RuleResult{
		RuleID:   r.id,
		RuleName: r.name,
		Category: r.category,
		Outcome:  engine.OutcomeNotApplicable,
	}
	if reason != "" {
		res.Details.Notes = map[string]string{"reason": reason}
	}
	return res
}

// fail builds a failing result and attaches the templated worker-facing
// message and remediation for this rule id. Templates only read the
// details; see format.go.
func (r ruleDef) fail(details engine.Details) engine.RuleResult {
	res := engine.RuleResult{
		RuleID:   r.id,
		RuleName: r.name,
		Category: r.category,
		Outcome:  engine.OutcomeFail,
		Details:  details,
	}
	res.Message, res.Remediation = describe(r.id, details)
	return res
}
