/*
handlers_test.go - HTTP API tests

Tests run against the full router with an in-memory store, exercising
the worker/document/week lifecycle end to end: create, record shifts,
validate, submit, approve, and read the audit trail.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftguard/compliance-engine/compliance"
	"github.com/shiftguard/compliance-engine/engine"
	"github.com/shiftguard/compliance-engine/engine/store"
	"github.com/shiftguard/compliance-engine/rules"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestServer(t *testing.T) (*chiServer, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	checker := compliance.NewChecker(mem, rules.BuildRegistry(rules.DefaultThresholds()))
	checker.Clock = func() engine.Date { return engine.MustParseDate("2025-06-21") }

	h := &Handler{
		Store:   mem,
		Checker: checker,
		Metrics: NewMetricsWith(prometheus.NewRegistry()),
	}
	require.NoError(t, Seed(context.Background(), mem))
	return &chiServer{router: NewRouter(h)}, mem
}

type chiServer struct {
	router http.Handler
}

func (s *chiServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

func (s *chiServer) createWorker(t *testing.T, id, dob string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/workers", CreateWorkerRequest{
		ID: id, Name: "Test Worker", DateOfBirth: dob,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *chiServer) addDocument(t *testing.T, workerID, docType string) {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/workers/"+workerID+"/documents", AddDocumentRequest{
		Type: docType, UploadedAt: "2025-01-01",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func (s *chiServer) createWeek(t *testing.T, workerID, weekStart string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/workers/"+workerID+"/weeks", CreateWeekRequest{WeekStart: weekStart})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[WeekDTO](t, rec).ID
}

func (s *chiServer) addEntry(t *testing.T, weekID string, req AddEntryRequest) EntryDTO {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/weeks/"+weekID+"/entries", req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[EntryDTO](t, rec)
}

// =============================================================================
// WORKER AND DOCUMENT TESTS
// =============================================================================

func TestCreateWorker_InvalidDateRejected(t *testing.T) {
	s, _ := newTestServer(t)
	rec := s.do(t, http.MethodPost, "/api/workers", CreateWorkerRequest{
		Name: "Bad Date", DateOfBirth: "01/10/2011",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetWorker_MinorFlag(t *testing.T) {
	s, _ := newTestServer(t)
	s.createWorker(t, "w-kid", "2011-01-10")

	rec := s.do(t, http.MethodGet, "/api/workers/w-kid", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dto := decode[WorkerDTO](t, rec)
	assert.True(t, dto.IsMinor)

	rec = s.do(t, http.MethodGet, "/api/workers/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAddDocument_UnknownTypeRejected(t *testing.T) {
	s, _ := newTestServer(t)
	s.createWorker(t, "w-kid", "2011-01-10")

	rec := s.do(t, http.MethodPost, "/api/workers/w-kid/documents", AddDocumentRequest{
		Type: "diploma", UploadedAt: "2025-01-01",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// WEEK AND ENTRY TESTS
// =============================================================================

func TestCreateWeek_MustStartOnSunday(t *testing.T) {
	s, _ := newTestServer(t)
	s.createWorker(t, "w-kid", "2011-01-10")

	rec := s.do(t, http.MethodPost, "/api/workers/w-kid/weeks", CreateWeekRequest{WeekStart: "2025-06-16"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	weekID := s.createWeek(t, "w-kid", "2025-06-15")
	assert.NotEmpty(t, weekID)
}

func TestCreateWeek_DuplicateAnchorConflicts(t *testing.T) {
	s, _ := newTestServer(t)
	s.createWorker(t, "w-kid", "2011-01-10")
	s.createWeek(t, "w-kid", "2025-06-15")

	rec := s.do(t, http.MethodPost, "/api/workers/w-kid/weeks", CreateWeekRequest{WeekStart: "2025-06-15"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAddEntry_DerivesHours(t *testing.T) {
	// GIVEN: A shift request with start and end times only
	// WHEN: Recording it
	// THEN: Hours come back derived server-side

	s, _ := newTestServer(t)
	s.createWorker(t, "w-kid", "2011-01-10")
	weekID := s.createWeek(t, "w-kid", "2025-06-15")

	entry := s.addEntry(t, weekID, AddEntryRequest{
		WorkDate: "2025-06-16", TaskCode: "BAGGER", StartTime: "09:00", EndTime: "11:30",
	})
	assert.Equal(t, "2.5", entry.Hours)
}

func TestAddEntry_Validation(t *testing.T) {
	s, _ := newTestServer(t)
	s.createWorker(t, "w-kid", "2011-01-10")
	weekID := s.createWeek(t, "w-kid", "2025-06-15")

	// End before start.
	rec := s.do(t, http.MethodPost, "/api/weeks/"+weekID+"/entries", AddEntryRequest{
		WorkDate: "2025-06-16", TaskCode: "BAGGER", StartTime: "14:00", EndTime: "09:00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Date outside the week.
	rec = s.do(t, http.MethodPost, "/api/weeks/"+weekID+"/entries", AddEntryRequest{
		WorkDate: "2025-06-23", TaskCode: "BAGGER", StartTime: "09:00", EndTime: "12:00",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Unknown task code.
	rec = s.do(t, http.MethodPost, "/api/weeks/"+weekID+"/entries", AddEntryRequest{
		WorkDate: "2025-06-16", TaskCode: "NOPE", StartTime: "09:00", EndTime: "12:00",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteEntry(t *testing.T) {
	s, _ := newTestServer(t)
	s.createWorker(t, "w-kid", "2011-01-10")
	weekID := s.createWeek(t, "w-kid", "2025-06-15")
	entry := s.addEntry(t, weekID, AddEntryRequest{
		WorkDate: "2025-06-16", TaskCode: "BAGGER", StartTime: "09:00", EndTime: "12:00",
	})

	rec := s.do(t, http.MethodDelete, "/api/entries/"+entry.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(t, http.MethodDelete, "/api/entries/"+entry.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// CHECK AND LIFECYCLE TESTS
// =============================================================================

func setupMinorWithPaperwork(t *testing.T, s *chiServer) string {
	t.Helper()
	s.createWorker(t, "w-kid", "2011-01-10")
	s.addDocument(t, "w-kid", "consent")
	s.addDocument(t, "w-kid", "permit")
	return s.createWeek(t, "w-kid", "2025-06-15")
}

func TestValidateWeek_ReportsViolationsWithoutAudit(t *testing.T) {
	s, mem := newTestServer(t)
	weekID := setupMinorWithPaperwork(t, s)
	// 14-year-old, 9 hours in a day (cap 8).
	s.addEntry(t, weekID, AddEntryRequest{
		WorkDate: "2025-06-16", TaskCode: "BAGGER", StartTime: "08:00", EndTime: "17:00",
		MealBreakConfirmed: true, SupervisorPresentName: "R. Vasquez",
	})

	rec := s.do(t, http.MethodPost, "/api/weeks/"+weekID+"/validate", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	validation := decode[compliance.Validation](t, rec)
	assert.False(t, validation.Valid)
	require.NotEmpty(t, validation.Violations)
	assert.Equal(t, "daily-hours-limit", validation.Violations[0].RuleID)

	records, err := mem.Query(context.Background(), engine.AuditFilter{WeekID: weekID})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSubmitWeek_FullLifecycle(t *testing.T) {
	// GIVEN: A compliant minor week
	// WHEN: Submitting, then approving
	// THEN: The status walks open -> submitted -> approved, and the audit
	//       trail records the check

	s, _ := newTestServer(t)
	weekID := setupMinorWithPaperwork(t, s)
	s.addEntry(t, weekID, AddEntryRequest{
		WorkDate: "2025-06-16", TaskCode: "BAGGER", StartTime: "09:00", EndTime: "12:00",
		SupervisorPresentName: "R. Vasquez",
	})

	rec := s.do(t, http.MethodPost, "/api/weeks/"+weekID+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[CheckResultDTO](t, rec)
	assert.True(t, result.Passed)
	assert.Equal(t, "submitted", result.Status)

	rec = s.do(t, http.MethodPost, "/api/weeks/"+weekID+"/approve", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "approved", decode[WeekDTO](t, rec).Status)

	rec = s.do(t, http.MethodGet, "/api/weeks/"+weekID+"/audit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	audit := decode[[]AuditRecordDTO](t, rec)
	assert.NotEmpty(t, audit)
}

func TestSubmitWeek_FailingWeekStaysOpen(t *testing.T) {
	s, _ := newTestServer(t)
	weekID := setupMinorWithPaperwork(t, s)
	// 9-hour day breaks the 14-15 daily cap.
	s.addEntry(t, weekID, AddEntryRequest{
		WorkDate: "2025-06-16", TaskCode: "BAGGER", StartTime: "08:00", EndTime: "17:00",
		MealBreakConfirmed: true, SupervisorPresentName: "R. Vasquez",
	})

	rec := s.do(t, http.MethodPost, "/api/weeks/"+weekID+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[CheckResultDTO](t, rec)
	assert.False(t, result.Passed)
	assert.Equal(t, "open", result.Status)
	assert.NotEmpty(t, result.Violations)
}

func TestRejectAndReopen(t *testing.T) {
	s, _ := newTestServer(t)
	weekID := setupMinorWithPaperwork(t, s)
	s.addEntry(t, weekID, AddEntryRequest{
		WorkDate: "2025-06-16", TaskCode: "BAGGER", StartTime: "09:00", EndTime: "12:00",
		SupervisorPresentName: "R. Vasquez",
	})

	rec := s.do(t, http.MethodPost, "/api/weeks/"+weekID+"/submit", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/weeks/"+weekID+"/reject", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rejected", decode[WeekDTO](t, rec).Status)

	// Approving a rejected week conflicts.
	rec = s.do(t, http.MethodPost, "/api/weeks/"+weekID+"/approve", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/weeks/"+weekID+"/reopen", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "open", decode[WeekDTO](t, rec).Status)

	// Open again: entries are editable.
	s.addEntry(t, weekID, AddEntryRequest{
		WorkDate: "2025-06-17", TaskCode: "BAGGER", StartTime: "09:00", EndTime: "12:00",
		SupervisorPresentName: "R. Vasquez",
	})
}

// =============================================================================
// TASK CATALOG TESTS
// =============================================================================

func TestTaskCatalog_PutAndList(t *testing.T) {
	s, _ := newTestServer(t)

	rec := s.do(t, http.MethodPut, "/api/taskcodes", TaskCodeDTO{
		Code: "FLORIST", Name: "Florist", MinAgeAllowed: 14,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/taskcodes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	codes := decode[[]TaskCodeDTO](t, rec)

	found := false
	for _, c := range codes {
		if c.Code == "FLORIST" {
			found = true
			assert.Equal(t, "none", c.SupervisorRequired)
		}
	}
	assert.True(t, found)

	rec = s.do(t, http.MethodPut, "/api/taskcodes", TaskCodeDTO{
		Code: "X", Name: "X", SupervisorRequired: "sometimes",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
