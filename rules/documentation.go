/*
documentation.go - Documentation gates and the minimum-age rule

SEMANTICS:
  Documentation rules gate minors on paperwork: a required document must
  be on file and valid AS OF THE CHECK DATE. Weeks with no recorded work
  are a no-violation case, not an error. A worker below the legal
  working floor produces a normal, remediable rule failure here rather
  than a crashed check.
*/
package rules

import (
	"github.com/shiftguard/compliance-engine/engine"
)

// =============================================================================
// MINIMUM WORKING AGE
// =============================================================================

// minimumAgeRule fails when work is recorded on any date the worker is
// below the legal working floor.
type minimumAgeRule struct {
	ruleDef
}

func newMinimumAgeRule() *minimumAgeRule {
	return &minimumAgeRule{ruleDef{
		id:       "minimum-working-age",
		name:     "Minimum working age",
		category: engine.CategoryDocumentation,
		// Always relevant; under-floor weeks must still be reportable.
	}}
}

func (r *minimumAgeRule) Evaluate(ctx *engine.EvaluationContext) engine.RuleResult {
	var details engine.Details
	for _, d := range ctx.WorkedDates {
		if ctx.AgeByDate[d] < engine.MinimumWorkingAge {
			details.AffectedDates = append(details.AffectedDates, d)
		}
	}
	if len(details.AffectedDates) == 0 {
		return r.pass()
	}
	threshold := decimalFromInt(engine.MinimumWorkingAge)
	actual := decimalFromInt(ctx.AgeByDate[details.AffectedDates[0]])
	details.Threshold = &threshold
	details.Actual = &actual
	return r.fail(details)
}

// =============================================================================
// DOCUMENT GATES
// =============================================================================

// documentRule gates minors on one document type. The required func
// decides whether the gate is in force for this context at all; when it
// is not, the rule reports not-applicable.
type documentRule struct {
	ruleDef
	docType  engine.DocumentType
	required func(ctx *engine.EvaluationContext) bool
}

func (r *documentRule) Evaluate(ctx *engine.EvaluationContext) engine.RuleResult {
	if len(ctx.WorkedDates) == 0 {
		return r.notApplicable("no work recorded this week")
	}
	if !ctx.MinorOnAnyDate() {
		return r.notApplicable("worker is an adult all week")
	}
	if r.required != nil && !r.required(ctx) {
		return r.notApplicable("not required for this week's tasks")
	}
	if ctx.DocumentValidOn(r.docType, ctx.CheckDate) {
		return r.pass()
	}
	return r.fail(engine.Details{
		AffectedDates: append([]engine.Date(nil), ctx.WorkedDates...),
		Notes: map[string]string{
			"document_type": string(r.docType),
			"as_of":         ctx.CheckDate.String(),
		},
	})
}

func newConsentRule() *documentRule {
	return &documentRule{
		ruleDef: ruleDef{
			id:       "consent-on-file",
			name:     "Parental consent on file",
			category: engine.CategoryDocumentation,
			bands:    minorBands,
		},
		docType: engine.DocConsent,
	}
}

func newPermitRule() *documentRule {
	return &documentRule{
		ruleDef: ruleDef{
			id:       "work-permit-valid",
			name:     "Work permit on file and unexpired",
			category: engine.CategoryDocumentation,
			bands:    minorBands,
		},
		docType: engine.DocPermit,
	}
}

// newSafetyTrainingRule requires training only when the week actually
// touches hazardous or machinery work.
func newSafetyTrainingRule() *documentRule {
	return &documentRule{
		ruleDef: ruleDef{
			id:       "safety-training-complete",
			name:     "Safety training complete",
			category: engine.CategoryDocumentation,
			bands:    minorBands,
		},
		docType: engine.DocSafetyTraining,
		required: func(ctx *engine.EvaluationContext) bool {
			for _, d := range ctx.WorkedDates {
				for _, entry := range ctx.EntriesByDate[d] {
					if entry.Task.IsHazardous || entry.Task.PowerMachinery {
						return true
					}
				}
			}
			return false
		},
	}
}
