package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftguard/compliance-engine/engine"
	"github.com/shiftguard/compliance-engine/rules"
)

// =============================================================================
// REGISTRY ASSEMBLY TESTS
// =============================================================================

func TestBuildRegistry_OrderIsStable(t *testing.T) {
	// Gates run before limits, limits before windows and tasks. Audit
	// trails and stop-on-first-failure both observe this order.
	registry := rules.BuildRegistry(rules.DefaultThresholds())

	var ids []string
	for _, r := range registry.Rules() {
		ids = append(ids, r.ID())
	}
	assert.Equal(t, []string{
		"minimum-working-age",
		"consent-on-file",
		"work-permit-valid",
		"safety-training-complete",
		"daily-hours-limit",
		"daily-hours-limit-school-day",
		"weekly-hours-limit",
		"weekly-hours-limit-school-week",
		"no-work-during-school-hours",
		"work-window-curfew",
		"task-minimum-age",
		"no-hazardous-work",
		"no-power-machinery",
		"no-driving",
		"no-solo-cash-handling",
		"supervisor-attestation",
		"meal-break-required",
	}, ids)
}

// =============================================================================
// END-TO-END CHECK TESTS
// =============================================================================

func TestCheck_ThirteenYearOld_SevenFiveHourDays(t *testing.T) {
	// GIVEN: A 13-year-old with consent and permit on file, working 5
	//        hours every day of the week (35 total; caps are 4/day, 24/wk)
	// WHEN: Running the full catalog
	// THEN: Both hour limits fail with full evidence; everything else
	//       passes or does not apply

	docs := []engine.Document{
		consentDoc("2025-01-01"),
		permitDoc("2025-01-01", nil),
	}
	var entries []engine.WorkEntry
	for i := 0; i < 7; i++ {
		d := engine.MustParseDate("2025-06-15").AddDays(i)
		entries = append(entries, entry(d.String(), "09:00", "14:00", taskBagger))
	}
	ctx := weekCtx("2012-01-10", "2025-06-15", docs, entries...)

	registry := rules.BuildRegistry(rules.DefaultThresholds())
	result := engine.RunCheck(ctx, registry, engine.CheckOptions{})

	assert.False(t, result.Passed)

	failed := result.Failed()
	require.Len(t, failed, 2)

	daily := failed[0]
	assert.Equal(t, "daily-hours-limit", daily.RuleID)
	assert.Len(t, daily.Details.AffectedDates, 7)
	assert.Equal(t, "4", daily.Details.Threshold.String())
	assert.Equal(t, "5", daily.Details.Actual.String())

	weekly := failed[1]
	assert.Equal(t, "weekly-hours-limit", weekly.RuleID)
	assert.Equal(t, "24", weekly.Details.Threshold.String())
	assert.Equal(t, "35", weekly.Details.Actual.String())

	violations := rules.Violations(result)
	require.Len(t, violations, 2)
	assert.NotEmpty(t, violations[0].Message)
	assert.NotEmpty(t, violations[0].Remediation)
}

func TestCheck_CompliantMinorWeek_Passes(t *testing.T) {
	docs := []engine.Document{
		consentDoc("2025-01-01"),
		permitDoc("2025-01-01", nil),
	}
	ctx := weekCtx("2012-01-10", "2025-06-15", docs,
		entry("2025-06-16", "09:00", "12:00", taskBagger),
		entry("2025-06-18", "09:00", "12:00", taskBagger))

	registry := rules.BuildRegistry(rules.DefaultThresholds())
	result := engine.RunCheck(ctx, registry, engine.CheckOptions{})

	assert.True(t, result.Passed)
	assert.Empty(t, result.Failed())
}

func TestCheck_AdultWeek_NoMinorRulesApply(t *testing.T) {
	// An adult's normal week runs only the always-on rules and passes
	// without any paperwork on file.
	ctx := weekCtx("1998-01-10", "2025-06-15", nil,
		entry("2025-06-16", "09:00", "17:00", taskBagger))

	registry := rules.BuildRegistry(rules.DefaultThresholds())
	result := engine.RunCheck(ctx, registry, engine.CheckOptions{})

	assert.True(t, result.Passed)
	for _, r := range result.Results {
		assert.NotEqual(t, engine.OutcomeFail, r.Outcome, r.RuleID)
	}
}

func TestCheck_EmptyWeek_Passes(t *testing.T) {
	ctx := weekCtx("2012-01-10", "2025-06-15", nil)
	registry := rules.BuildRegistry(rules.DefaultThresholds())
	result := engine.RunCheck(ctx, registry, engine.CheckOptions{})
	assert.True(t, result.Passed)
}

// =============================================================================
// VIOLATION FORMATTING TESTS
// =============================================================================

func TestFormatViolation_KeepsPresetMessage(t *testing.T) {
	// A result that already carries a message (the evaluator's fallback
	// for a broken rule) is not re-templated.
	r := engine.RuleResult{
		RuleID:   "broken-rule",
		RuleName: "Broken rule",
		Outcome:  engine.OutcomeFail,
		Message:  engine.FallbackMessage,
	}
	v := rules.FormatViolation(r)
	assert.Equal(t, engine.FallbackMessage, v.Message)
}

func TestFormatViolation_TemplatesFromDetails(t *testing.T) {
	ctx := weekCtx("2012-01-10", "2025-06-15", nil,
		entry("2025-06-16", "09:00", "14:00", taskBagger))

	result := evalRule("daily-hours-limit", ctx)
	v := rules.FormatViolation(result)

	assert.Contains(t, v.Message, "4")
	assert.Contains(t, v.Message, "2025-06-16")
	assert.NotEmpty(t, v.Remediation)
	assert.Equal(t, []engine.Date{engine.MustParseDate("2025-06-16")}, v.AffectedDates)
}
