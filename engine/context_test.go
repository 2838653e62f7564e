package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftguard/compliance-engine/engine"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func testWorker(dob string) engine.Worker {
	return engine.Worker{
		ID:          "w-1",
		Name:        "Test Worker",
		DateOfBirth: engine.MustParseDate(dob),
	}
}

func shift(date, start, end string, schoolDay bool) engine.WorkEntry {
	s, err := engine.ParseTimeOfDay(start)
	if err != nil {
		panic(err)
	}
	e, err := engine.ParseTimeOfDay(end)
	if err != nil {
		panic(err)
	}
	return engine.WorkEntry{
		ID:          "entry-" + date + "-" + start,
		WeekID:      "week-1",
		WorkDate:    engine.MustParseDate(date),
		TaskCode:    "BAGGER",
		Task:        engine.TaskCode{Code: "BAGGER", Name: "Bagger", MinAgeAllowed: 12},
		StartTime:   s,
		EndTime:     e,
		Hours:       engine.DerivedHours(s, e),
		IsSchoolDay: schoolDay,
	}
}

func testWeek(weekStart string, entries ...engine.WorkEntry) engine.WorkWeek {
	return engine.WorkWeek{
		ID:        "week-1",
		WorkerID:  "w-1",
		WeekStart: engine.MustParseDate(weekStart),
		Status:    engine.WeekOpen,
		Entries:   entries,
	}
}

// =============================================================================
// CONTEXT CONSTRUCTION TESTS
// =============================================================================

func TestBuildContext_EmptyWeek(t *testing.T) {
	// GIVEN: A week with no entries
	// WHEN: Building the context
	// THEN: Construction succeeds with empty aggregates, not an error

	ctx := engine.BuildContext(
		testWorker("2010-01-10"),
		testWeek("2025-06-15"),
		nil,
		engine.MustParseDate("2025-06-21"))

	assert.Empty(t, ctx.WorkedDates)
	assert.True(t, ctx.WeeklyHours.IsZero())
	assert.False(t, ctx.IsSchoolWeek)
	assert.True(t, ctx.Bands[engine.Band1415])
	assert.Len(t, ctx.AgeByDate, 7)
}

func TestBuildContext_BirthdayMidWeek_SplitsBands(t *testing.T) {
	// GIVEN: A worker turning 14 on Wednesday June 18
	// WHEN: Building the context for the week of June 15
	// THEN: Sun-Tue classify as 12-13 and Wed-Sat as 14-15

	ctx := engine.BuildContext(
		testWorker("2011-06-18"),
		testWeek("2025-06-15"),
		nil,
		engine.MustParseDate("2025-06-21"))

	tue := engine.MustParseDate("2025-06-17")
	wed := engine.MustParseDate("2025-06-18")

	assert.Equal(t, 13, ctx.AgeByDate[tue])
	assert.Equal(t, 14, ctx.AgeByDate[wed])
	assert.Equal(t, engine.Band1213, ctx.BandByDate[tue])
	assert.Equal(t, engine.Band1415, ctx.BandByDate[wed])
	assert.True(t, ctx.Bands[engine.Band1213])
	assert.True(t, ctx.Bands[engine.Band1415])
	assert.True(t, ctx.MinorOnAnyDate())
	assert.Equal(t, 13, ctx.AgeAtWeekStart())
}

func TestBuildContext_AggregatesHoursPerDate(t *testing.T) {
	// GIVEN: Two shifts on Monday and one on Wednesday
	// WHEN: Building the context
	// THEN: Daily totals sum per date, WorkedDates stay in calendar order

	ctx := engine.BuildContext(
		testWorker("2008-01-10"),
		testWeek("2025-06-15",
			shift("2025-06-18", "16:00", "19:00", false),
			shift("2025-06-16", "09:00", "12:00", false),
			shift("2025-06-16", "13:00", "15:30", false)),
		nil,
		engine.MustParseDate("2025-06-21"))

	mon := engine.MustParseDate("2025-06-16")
	wed := engine.MustParseDate("2025-06-18")

	assert.Equal(t, "5.5", ctx.HoursByDate[mon].String())
	assert.Equal(t, "3", ctx.HoursByDate[wed].String())
	assert.Equal(t, "8.5", ctx.WeeklyHours.String())
	require.Len(t, ctx.EntriesByDate[mon], 2)
	assert.Equal(t, []engine.Date{mon, wed}, ctx.WorkedDates)
}

func TestBuildContext_SchoolWeekFlag(t *testing.T) {
	ctx := engine.BuildContext(
		testWorker("2010-01-10"),
		testWeek("2025-06-15",
			shift("2025-06-16", "16:00", "18:00", true),
			shift("2025-06-17", "16:00", "18:00", false)),
		nil,
		engine.MustParseDate("2025-06-21"))

	assert.True(t, ctx.IsSchoolWeek)
	assert.True(t, ctx.SchoolDays[engine.MustParseDate("2025-06-16")])
	assert.False(t, ctx.SchoolDays[engine.MustParseDate("2025-06-17")])
}

func TestBuildContext_UnderMinimumAge_StillBuilds(t *testing.T) {
	// GIVEN: A 10-year-old with recorded work
	// WHEN: Building the context
	// THEN: Dates classify into the under-minimum band; no panic, no error

	ctx := engine.BuildContext(
		testWorker("2015-01-10"),
		testWeek("2025-06-15", shift("2025-06-16", "10:00", "12:00", false)),
		nil,
		engine.MustParseDate("2025-06-21"))

	assert.True(t, ctx.Bands[engine.BandUnderMin])
	assert.True(t, ctx.MinorOnAnyDate())
}

// =============================================================================
// DOCUMENT LOOKUP TESTS
// =============================================================================

func TestDocumentValidOn(t *testing.T) {
	expires := engine.MustParseDate("2025-06-18")
	invalidated := engine.MustParseDate("2025-06-01")

	docs := []engine.Document{
		{ID: "d1", WorkerID: "w-1", Type: engine.DocConsent, UploadedAt: engine.MustParseDate("2025-01-01")},
		{ID: "d2", WorkerID: "w-1", Type: engine.DocPermit, UploadedAt: engine.MustParseDate("2025-01-01"), ExpiresAt: &expires},
		{ID: "d3", WorkerID: "w-1", Type: engine.DocSafetyTraining, UploadedAt: engine.MustParseDate("2025-01-01"), InvalidatedAt: &invalidated},
	}

	ctx := engine.BuildContext(
		testWorker("2010-01-10"),
		testWeek("2025-06-15"),
		docs,
		engine.MustParseDate("2025-06-21"))

	// Non-expiring consent is always valid.
	assert.True(t, ctx.DocumentValidOn(engine.DocConsent, engine.MustParseDate("2025-06-21")))

	// Permit valid through its expiry date, not after.
	assert.True(t, ctx.DocumentValidOn(engine.DocPermit, engine.MustParseDate("2025-06-18")))
	assert.False(t, ctx.DocumentValidOn(engine.DocPermit, engine.MustParseDate("2025-06-19")))

	// Invalidated training never counts.
	assert.False(t, ctx.DocumentValidOn(engine.DocSafetyTraining, engine.MustParseDate("2025-06-21")))
}
