package factory_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftguard/compliance-engine/engine"
	"github.com/shiftguard/compliance-engine/factory"
	"github.com/shiftguard/compliance-engine/rules"
)

// =============================================================================
// PARSE TESTS
// =============================================================================

func TestParseThresholds_OverridesOneBand(t *testing.T) {
	// GIVEN: A jurisdiction tightening the 14-15 weekly cap
	// WHEN: Parsing
	// THEN: The override sticks; every omitted field keeps its default

	th, err := factory.ParseThresholds([]byte(`{
		"jurisdiction": "strict",
		"bands": {
			"14-15": {"weekly_hours": "30", "latest_end": "20:00"}
		}
	}`))
	require.NoError(t, err)

	band := th.Limits[engine.Band1415]
	assert.Equal(t, "30", band.WeeklyHours.String())
	assert.Equal(t, engine.NewTimeOfDay(20, 0), band.LatestEnd)

	// Untouched fields fall back to defaults.
	defaults := rules.DefaultThresholds().Limits[engine.Band1415]
	assert.True(t, band.DailyHours.Equal(defaults.DailyHours))
	assert.Equal(t, defaults.EarliestStart, band.EarliestStart)

	// Other bands are untouched entirely.
	assert.Equal(t, "24", th.Limits[engine.Band1213].WeeklyHours.String())
}

func TestParseThresholds_TopLevelOverrides(t *testing.T) {
	th, err := factory.ParseThresholds([]byte(`{
		"school_hours_end": "16:00",
		"meal_break_after_hours": "4",
		"machinery_min_age": 17
	}`))
	require.NoError(t, err)

	assert.Equal(t, engine.NewTimeOfDay(16, 0), th.SchoolHoursEnd)
	assert.Equal(t, "4", th.MealBreakAfterHours.String())
	assert.Equal(t, 17, th.MachineryMinAge)
	assert.Equal(t, 16, th.SoloCashMinAge) // untouched default
}

func TestParseThresholds_UnknownBandRejected(t *testing.T) {
	_, err := factory.ParseThresholds([]byte(`{"bands": {"10-11": {"daily_hours": "2"}}}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10-11")
}

func TestParseThresholds_BadValuesRejected(t *testing.T) {
	_, err := factory.ParseThresholds([]byte(`{"bands": {"12-13": {"daily_hours": "four"}}}`))
	assert.Error(t, err)

	_, err = factory.ParseThresholds([]byte(`{"bands": {"12-13": {"latest_end": "25:00"}}}`))
	assert.Error(t, err)

	_, err = factory.ParseThresholds([]byte(`not json`))
	assert.Error(t, err)
}

// =============================================================================
// LOAD AND BUILD TESTS
// =============================================================================

func TestLoadThresholds_EmptyPathUsesDefaults(t *testing.T) {
	th, err := factory.LoadThresholds("")
	require.NoError(t, err)
	assert.Equal(t, "4", th.Limits[engine.Band1213].DailyHours.String())
}

func TestBuildRegistry_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jurisdiction.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"jurisdiction": "test",
		"bands": {"12-13": {"daily_hours": "3"}}
	}`), 0o644))

	registry, err := factory.BuildRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, rules.BuildRegistry(rules.DefaultThresholds()).Len(), registry.Len())
}

func TestBuildRegistry_MissingFile(t *testing.T) {
	_, err := factory.BuildRegistry("/does/not/exist.json")
	assert.Error(t, err)
}
