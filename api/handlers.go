/*
handlers.go - HTTP API handlers for the compliance system

PURPOSE:
  Exposes the scheduling and compliance engine via REST. Handlers parse
  and validate HTTP input, delegate to stores and the compliance
  Checker, and serialize responses.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Record not found
  - 409: Conflict (closed week, duplicate week)
  - 500: Internal errors
  Rule failures are NOT errors: a failed check is a 200 with passed=false
  and worker-facing violations. Only the fatal not-found cases surface
  as errors.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
  - compliance/checker.go: Check orchestration
*/
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/shiftguard/compliance-engine/compliance"
	"github.com/shiftguard/compliance-engine/engine"
)

// Backend is the full store surface the API needs.
type Backend interface {
	engine.WorkerStore
	engine.WeekStore
	engine.DocumentStore
	engine.TaskCodeStore
	engine.AuditLog
}

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store   Backend
	Checker *compliance.Checker
	Metrics *Metrics
}

// NewHandler creates a handler over a backend and a checker.
func NewHandler(store Backend, checker *compliance.Checker) *Handler {
	return &Handler{Store: store, Checker: checker, Metrics: NewMetrics()}
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := errorResponse{Error: message}
	if err != nil {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}

// writeStoreError maps store errors to HTTP statuses.
func writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case engine.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case engine.IsClientError(err):
		writeError(w, http.StatusConflict, "Request conflicts with current state", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

// =============================================================================
// WORKER HANDLERS
// =============================================================================

// ListWorkers returns all workers.
func (h *Handler) ListWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.Store.ListWorkers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list workers", err)
		return
	}
	dtos := make([]WorkerDTO, len(workers))
	for i, wk := range workers {
		dtos[i] = workerDTO(wk)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetWorker returns a single worker.
func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	id := engine.WorkerID(chi.URLParam(r, "id"))
	worker, err := h.Store.GetWorker(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, workerDTO(worker))
}

// CreateWorker creates a new worker.
func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req CreateWorkerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	dob, err := engine.ParseDate(req.DateOfBirth)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date_of_birth (use YYYY-MM-DD)", err)
		return
	}
	worker := engine.Worker{
		ID:          engine.WorkerID(req.ID),
		Name:        req.Name,
		DateOfBirth: dob,
	}
	if worker.ID == "" {
		worker.ID = engine.WorkerID(uuid.NewString())
	}
	if err := h.Store.CreateWorker(r.Context(), worker); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create worker", err)
		return
	}
	writeJSON(w, http.StatusCreated, workerDTO(worker))
}

// =============================================================================
// DOCUMENT HANDLERS
// =============================================================================

// ListDocuments returns a worker's documents.
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	workerID := engine.WorkerID(chi.URLParam(r, "id"))
	docs, err := h.Store.ListDocuments(r.Context(), workerID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	dtos := make([]DocumentDTO, len(docs))
	for i, d := range docs {
		dtos[i] = documentDTO(d)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddDocument records a document for a worker.
func (h *Handler) AddDocument(w http.ResponseWriter, r *http.Request) {
	workerID := engine.WorkerID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetWorker(r.Context(), workerID); err != nil {
		writeStoreError(w, err)
		return
	}

	var req AddDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	docType := engine.DocumentType(req.Type)
	switch docType {
	case engine.DocConsent, engine.DocPermit, engine.DocSafetyTraining:
	default:
		writeError(w, http.StatusBadRequest,
			fmt.Sprintf("Unknown document type %q", req.Type), nil)
		return
	}
	uploaded, err := engine.ParseDate(req.UploadedAt)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid uploaded_at (use YYYY-MM-DD)", err)
		return
	}
	doc := engine.Document{
		ID:         uuid.NewString(),
		WorkerID:   workerID,
		Type:       docType,
		UploadedAt: uploaded,
	}
	if req.ExpiresAt != nil {
		expires, err := engine.ParseDate(*req.ExpiresAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid expires_at (use YYYY-MM-DD)", err)
			return
		}
		doc.ExpiresAt = &expires
	}
	if err := h.Store.AddDocument(r.Context(), doc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to add document", err)
		return
	}
	writeJSON(w, http.StatusCreated, documentDTO(doc))
}

// InvalidateDocument soft-invalidates a document as of today.
func (h *Handler) InvalidateDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.InvalidateDocument(r.Context(), id, engine.Today()); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "invalidated"})
}

// =============================================================================
// TASK CODE HANDLERS
// =============================================================================

// ListTaskCodes returns the task catalog.
func (h *Handler) ListTaskCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.Store.ListTaskCodes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list task codes", err)
		return
	}
	dtos := make([]TaskCodeDTO, len(codes))
	for i, tc := range codes {
		dtos[i] = taskCodeDTO(tc)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// PutTaskCode creates or replaces a task code.
func (h *Handler) PutTaskCode(w http.ResponseWriter, r *http.Request) {
	var req TaskCodeDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Code == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "code and name are required", nil)
		return
	}
	sup := engine.SupervisorRequirement(req.SupervisorRequired)
	switch sup {
	case "":
		sup = engine.SupervisorNone
	case engine.SupervisorNone, engine.SupervisorForMinors, engine.SupervisorAlways:
	default:
		writeError(w, http.StatusBadRequest, "Invalid supervisor_required value", nil)
		return
	}

	tc := engine.TaskCode{
		Code:               req.Code,
		Name:               req.Name,
		MinAgeAllowed:      req.MinAgeAllowed,
		IsHazardous:        req.IsHazardous,
		PowerMachinery:     req.PowerMachinery,
		DrivingRequired:    req.DrivingRequired,
		SoloCashHandling:   req.SoloCashHandling,
		SupervisorRequired: sup,
	}
	if err := h.Store.PutTaskCode(r.Context(), tc); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save task code", err)
		return
	}
	writeJSON(w, http.StatusOK, taskCodeDTO(tc))
}

// =============================================================================
// WEEK HANDLERS
// =============================================================================

// CreateWeek opens a new work week for a worker.
func (h *Handler) CreateWeek(w http.ResponseWriter, r *http.Request) {
	workerID := engine.WorkerID(chi.URLParam(r, "id"))
	if _, err := h.Store.GetWorker(r.Context(), workerID); err != nil {
		writeStoreError(w, err)
		return
	}

	var req CreateWeekRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	weekStart, err := engine.ParseDate(req.WeekStart)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid week_start (use YYYY-MM-DD)", err)
		return
	}
	if weekStart.Weekday() != time.Sunday {
		writeError(w, http.StatusBadRequest, "week_start must be a Sunday", engine.ErrWeekStartNotSunday)
		return
	}

	week := engine.WorkWeek{
		ID:        uuid.NewString(),
		WorkerID:  workerID,
		WeekStart: weekStart,
		Status:    engine.WeekOpen,
	}
	if err := h.Store.CreateWeek(r.Context(), week); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, weekDTO(week))
}

// GetWeek returns a week with its entries.
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	week, err := h.Store.GetWeek(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weekDTO(week))
}

// ListWeeks returns a worker's weeks.
func (h *Handler) ListWeeks(w http.ResponseWriter, r *http.Request) {
	workerID := engine.WorkerID(chi.URLParam(r, "id"))
	weeks, err := h.Store.ListWeeks(r.Context(), workerID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	dtos := make([]WeekDTO, len(weeks))
	for i, wk := range weeks {
		dtos[i] = weekDTO(wk)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// AddEntry records a shift on an open week. Hours are derived from the
// start and end times; clients never supply them.
func (h *Handler) AddEntry(w http.ResponseWriter, r *http.Request) {
	weekID := chi.URLParam(r, "id")

	var req AddEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	workDate, err := engine.ParseDate(req.WorkDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid work_date (use YYYY-MM-DD)", err)
		return
	}
	start, err := engine.ParseTimeOfDay(req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_time (use HH:MM)", err)
		return
	}
	end, err := engine.ParseTimeOfDay(req.EndTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_time (use HH:MM)", err)
		return
	}
	if end <= start {
		writeError(w, http.StatusBadRequest, "end_time must be after start_time", engine.ErrInvalidEntryTimes)
		return
	}
	week, err := h.Store.GetWeek(r.Context(), weekID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if workDate.Before(week.WeekStart) || workDate.After(week.WeekStart.AddDays(6)) {
		writeError(w, http.StatusBadRequest, "work_date falls outside this week", nil)
		return
	}
	if _, err := h.Store.GetTaskCode(r.Context(), req.TaskCode); err != nil {
		writeStoreError(w, err)
		return
	}

	entry := engine.WorkEntry{
		ID:                    uuid.NewString(),
		WeekID:                weekID,
		WorkDate:              workDate,
		TaskCode:              req.TaskCode,
		StartTime:             start,
		EndTime:               end,
		Hours:                 engine.DerivedHours(start, end),
		IsSchoolDay:           req.IsSchoolDay,
		SupervisorPresentName: req.SupervisorPresentName,
		MealBreakConfirmed:    req.MealBreakConfirmed,
	}
	if err := h.Store.AddEntry(r.Context(), weekID, entry); err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entryDTO(entry))
}

// DeleteEntry removes an entry from an open week.
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.DeleteEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// CHECK HANDLERS
// =============================================================================

// ValidateWeek runs the preview check: no audit records, no transition.
func (h *Handler) ValidateWeek(w http.ResponseWriter, r *http.Request) {
	weekID := chi.URLParam(r, "id")
	validation, err := h.Checker.ValidateCompliance(r.Context(), weekID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.Metrics.ObserveValidation(validation)
	writeJSON(w, http.StatusOK, validation)
}

// SubmitWeek runs the full check and transitions the week to submitted
// only when it passes. Violations come back either way.
func (h *Handler) SubmitWeek(w http.ResponseWriter, r *http.Request) {
	weekID := chi.URLParam(r, "id")
	result, err := h.Checker.Submit(r.Context(), weekID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	h.Metrics.ObserveCheck(result)

	week, err := h.Store.GetWeek(r.Context(), weekID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, checkResultDTO(result, week.Status))
}

// ApproveWeek records the supervisor's approval of a submitted week.
func (h *Handler) ApproveWeek(w http.ResponseWriter, r *http.Request) {
	h.transitionWeek(w, r, engine.WeekSubmitted, engine.WeekApproved)
}

// RejectWeek sends a submitted week back; it reopens for correction.
func (h *Handler) RejectWeek(w http.ResponseWriter, r *http.Request) {
	h.transitionWeek(w, r, engine.WeekSubmitted, engine.WeekRejected)
}

// ReopenWeek returns a rejected week to open for correction.
func (h *Handler) ReopenWeek(w http.ResponseWriter, r *http.Request) {
	h.transitionWeek(w, r, engine.WeekRejected, engine.WeekOpen)
}

func (h *Handler) transitionWeek(w http.ResponseWriter, r *http.Request, from, to engine.WeekStatus) {
	weekID := chi.URLParam(r, "id")
	week, err := h.Store.GetWeek(r.Context(), weekID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	if week.Status != from {
		writeError(w, http.StatusConflict,
			fmt.Sprintf("Week is %s, expected %s", week.Status, from), nil)
		return
	}
	if err := h.Store.UpdateStatus(r.Context(), weekID, to); err != nil {
		writeStoreError(w, err)
		return
	}
	week.Status = to
	writeJSON(w, http.StatusOK, weekDTO(week))
}

// =============================================================================
// AUDIT HANDLERS
// =============================================================================

// GetWeekAudit returns the immutable compliance trail for one week.
func (h *Handler) GetWeekAudit(w http.ResponseWriter, r *http.Request) {
	weekID := chi.URLParam(r, "id")
	if _, err := h.Store.GetWeek(r.Context(), weekID); err != nil {
		writeStoreError(w, err)
		return
	}
	records, err := h.Store.Query(r.Context(), engine.AuditFilter{WeekID: weekID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to query audit trail", err)
		return
	}
	dtos := make([]AuditRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = AuditRecordDTO{
			ID:                   rec.ID,
			WeekID:               rec.WeekID,
			RuleID:               rec.RuleID,
			Result:               string(rec.Result),
			Details:              rec.Details,
			CheckedAt:            rec.CheckedAt.UTC().Format(time.RFC3339),
			WorkerAgeAtWeekStart: rec.WorkerAgeAtWeekStart,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}
