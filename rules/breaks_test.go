package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftguard/compliance-engine/engine"
)

// =============================================================================
// MEAL BREAK TESTS
// =============================================================================

func TestMealBreak_ExactlyFiveHours_Passes(t *testing.T) {
	// The break is required above the threshold, not at it.
	ctx := weekCtx("2008-07-10", "2025-06-15", nil,
		entry("2025-06-16", "09:00", "14:00", taskBagger))

	result := evalRule("meal-break-required", ctx)
	assert.Equal(t, engine.OutcomePass, result.Outcome)
}

func TestMealBreak_LongDayWithoutConfirmation_Fails(t *testing.T) {
	// GIVEN: A 5.5 hour day with no confirmed break
	// WHEN: Evaluating the meal break rule
	// THEN: The day is flagged with its total hours

	ctx := weekCtx("2008-07-10", "2025-06-15", nil,
		entry("2025-06-16", "09:00", "14:30", taskBagger))

	result := evalRule("meal-break-required", ctx)
	require.Equal(t, engine.OutcomeFail, result.Outcome)
	assert.Equal(t, "5", result.Details.Threshold.String())
	require.Len(t, result.Details.PerDate, 1)
	assert.Equal(t, "5.5", result.Details.PerDate[0].Value.String())
}

func TestMealBreak_ConfirmedBreak_Passes(t *testing.T) {
	shift := entry("2025-06-16", "09:00", "14:30", taskBagger)
	shift.MealBreakConfirmed = true
	ctx := weekCtx("2008-07-10", "2025-06-15", nil, shift)

	result := evalRule("meal-break-required", ctx)
	assert.Equal(t, engine.OutcomePass, result.Outcome)
}

func TestMealBreak_SplitShiftsCountTogether(t *testing.T) {
	// Two 3-hour shifts total 6 hours on the date; one confirmed break on
	// either entry satisfies the requirement.
	first := entry("2025-06-16", "09:00", "12:00", taskBagger)
	second := entry("2025-06-16", "13:00", "16:00", taskBagger)
	ctx := weekCtx("2008-07-10", "2025-06-15", nil, first, second)

	result := evalRule("meal-break-required", ctx)
	assert.Equal(t, engine.OutcomeFail, result.Outcome)

	second.MealBreakConfirmed = true
	ctx = weekCtx("2008-07-10", "2025-06-15", nil, first, second)
	result = evalRule("meal-break-required", ctx)
	assert.Equal(t, engine.OutcomePass, result.Outcome)
}
