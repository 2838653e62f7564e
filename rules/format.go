/*
format.go - Violation text templates

PURPOSE:
  Pure string templates turning failed rule outcomes into worker-facing
  explanation and remediation text. Templates read ONLY the data already
  present in the rule's details, so they can be tested and localized
  independently of evaluation logic.
*/
package rules

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/shiftguard/compliance-engine/engine"
)

// Violation is the worker-facing projection of one failed rule.
type Violation struct {
	RuleID          string        `json:"ruleId"`
	RuleName        string        `json:"ruleName"`
	Message         string        `json:"message"`
	Remediation     string        `json:"remediation"`
	AffectedDates   []engine.Date `json:"affectedDates,omitempty"`
	AffectedEntries []string      `json:"affectedEntries,omitempty"`
}

// FormatViolation projects a failed rule result into a Violation.
// Results that already carry a message (e.g. the evaluator's fallback
// for a broken rule) keep it; everything else is templated from details.
func FormatViolation(r engine.RuleResult) Violation {
	message, remediation := r.Message, r.Remediation
	if message == "" {
		message, remediation = describe(r.RuleID, r.Details)
	}
	return Violation{
		RuleID:          r.RuleID,
		RuleName:        r.RuleName,
		Message:         message,
		Remediation:     remediation,
		AffectedDates:   r.Details.AffectedDates,
		AffectedEntries: r.Details.AffectedEntries,
	}
}

// Violations projects every failed rule of a check, in evaluation order.
func Violations(result engine.CheckResult) []Violation {
	var out []Violation
	for _, r := range result.Failed() {
		out = append(out, FormatViolation(r))
	}
	return out
}

// =============================================================================
// TEMPLATES
// =============================================================================

func describe(ruleID string, d engine.Details) (message, remediation string) {
	switch ruleID {
	case "minimum-working-age":
		message = fmt.Sprintf("Work was recorded on %s, but the worker is below the minimum working age of %s.",
			dateList(d.AffectedDates), num(d.Threshold))
		remediation = "Remove these entries. Workers may not be scheduled before reaching the minimum working age."

	case "consent-on-file":
		message = "No valid parental consent form is on file for this worker."
		remediation = "Have a parent or guardian sign a consent form and upload it before submitting this week."

	case "work-permit-valid":
		message = "The worker's employment permit is missing or expired."
		remediation = "Obtain or renew the work permit, then resubmit the week."

	case "safety-training-complete":
		message = "This week includes hazardous or machinery work, but safety training is not on record."
		remediation = "Complete the required safety training and upload the certificate, or reassign these shifts."

	case "daily-hours-limit":
		message = fmt.Sprintf("Daily hours exceed the limit of %s on %s (worked %s).",
			num(d.Threshold), dateList(d.AffectedDates), num(d.Actual))
		remediation = "Shorten or split the affected shifts so no single day exceeds the limit."

	case "daily-hours-limit-school-day":
		message = fmt.Sprintf("School-day hours exceed the limit of %s on %s.",
			num(d.Threshold), dateList(d.AffectedDates))
		remediation = "Reduce shift lengths on school days to fit the school-day limit."

	case "weekly-hours-limit":
		message = fmt.Sprintf("Weekly hours total %s, which exceeds the limit of %s.",
			num(d.Actual), num(d.Threshold))
		remediation = "Remove or shorten shifts until the week fits under the limit."

	case "weekly-hours-limit-school-week":
		message = fmt.Sprintf("Hours during a school week total %s, which exceeds the limit of %s.",
			num(d.Actual), num(d.Threshold))
		remediation = "Reduce scheduled hours during school weeks."

	case "no-work-during-school-hours":
		message = fmt.Sprintf("Shifts overlap school hours on %s.", dateList(d.AffectedDates))
		remediation = "Move the affected shifts outside school hours."

	case "work-window-curfew":
		message = fmt.Sprintf("Shifts fall outside the permitted work window on %s.", dateList(d.AffectedDates))
		remediation = "Reschedule the affected shifts inside the permitted start and end times for this age."

	case "task-minimum-age":
		message = fmt.Sprintf("Tasks on %s require a higher minimum age than the worker's age on those dates.", dateList(d.AffectedDates))
		remediation = "Assign a different task, or reschedule the work after the required birthday."

	case "no-hazardous-work":
		message = fmt.Sprintf("Hazardous tasks were recorded on %s. Minors may not perform hazardous work.", dateList(d.AffectedDates))
		remediation = "Reassign these shifts to non-hazardous tasks."

	case "no-power-machinery":
		message = fmt.Sprintf("Power machinery tasks were recorded on %s below the machinery age floor.", dateList(d.AffectedDates))
		remediation = "Reassign these shifts to tasks without power machinery."

	case "no-driving":
		message = fmt.Sprintf("Driving tasks were recorded on %s. Minors may not perform driving work.", dateList(d.AffectedDates))
		remediation = "Reassign these shifts to non-driving tasks."

	case "no-solo-cash-handling":
		message = fmt.Sprintf("Solo cash-handling tasks were recorded on %s below the permitted age.", dateList(d.AffectedDates))
		remediation = "Pair the worker with another cashier or reassign the shifts."

	case "supervisor-attestation":
		message = fmt.Sprintf("Shifts on %s require a named supervisor on site, but none was recorded.", dateList(d.AffectedDates))
		remediation = "Record the supervising adult's name on each affected entry."

	case "meal-break-required":
		message = fmt.Sprintf("Days over %s hours are missing a confirmed meal break: %s.",
			num(d.Threshold), dateList(d.AffectedDates))
		remediation = "Confirm the meal break taken on each affected day, or shorten the shifts."

	default:
		message = engine.FallbackMessage
	}
	return message, remediation
}

func dateList(dates []engine.Date) string {
	if len(dates) == 0 {
		return "this week"
	}
	parts := make([]string, len(dates))
	for i, d := range dates {
		parts[i] = d.String()
	}
	return strings.Join(parts, ", ")
}

func num(v *decimal.Decimal) string {
	if v == nil {
		return "?"
	}
	return v.String()
}
