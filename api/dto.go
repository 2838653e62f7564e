/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for API communication, decoupling the domain model
  from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data
  carriers. Hours never appear in requests: they are derived from
  start/end times server-side.
*/
package api

import (
	"github.com/shiftguard/compliance-engine/engine"
	"github.com/shiftguard/compliance-engine/rules"
)

// =============================================================================
// WORKERS
// =============================================================================

// WorkerDTO represents a worker in API responses.
type WorkerDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
	IsMinor     bool   `json:"is_minor"`
}

// CreateWorkerRequest is the request to create a worker.
type CreateWorkerRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DateOfBirth string `json:"date_of_birth"`
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// DocumentDTO represents a compliance document.
type DocumentDTO struct {
	ID            string  `json:"id"`
	WorkerID      string  `json:"worker_id"`
	Type          string  `json:"type"`
	UploadedAt    string  `json:"uploaded_at"`
	ExpiresAt     *string `json:"expires_at,omitempty"`
	InvalidatedAt *string `json:"invalidated_at,omitempty"`
	Valid         bool    `json:"valid"`
}

// AddDocumentRequest records a document for a worker.
type AddDocumentRequest struct {
	Type       string  `json:"type"`
	UploadedAt string  `json:"uploaded_at"`
	ExpiresAt  *string `json:"expires_at,omitempty"`
}

// =============================================================================
// TASK CODES
// =============================================================================

// TaskCodeDTO represents a task code with its restriction attributes.
type TaskCodeDTO struct {
	Code               string `json:"code"`
	Name               string `json:"name"`
	MinAgeAllowed      int    `json:"min_age_allowed"`
	IsHazardous        bool   `json:"is_hazardous"`
	PowerMachinery     bool   `json:"power_machinery"`
	DrivingRequired    bool   `json:"driving_required"`
	SoloCashHandling   bool   `json:"solo_cash_handling"`
	SupervisorRequired string `json:"supervisor_required"`
}

// =============================================================================
// WEEKS AND ENTRIES
// =============================================================================

// CreateWeekRequest opens a new work week anchored on a Sunday.
type CreateWeekRequest struct {
	WeekStart string `json:"week_start"`
}

// WeekDTO represents a work week with its entries.
type WeekDTO struct {
	ID        string     `json:"id"`
	WorkerID  string     `json:"worker_id"`
	WeekStart string     `json:"week_start"`
	Status    string     `json:"status"`
	Entries   []EntryDTO `json:"entries"`
}

// EntryDTO represents one recorded shift.
type EntryDTO struct {
	ID                    string `json:"id"`
	WorkDate              string `json:"work_date"`
	TaskCode              string `json:"task_code"`
	StartTime             string `json:"start_time"`
	EndTime               string `json:"end_time"`
	Hours                 string `json:"hours"`
	IsSchoolDay           bool   `json:"is_school_day"`
	SupervisorPresentName string `json:"supervisor_present_name,omitempty"`
	MealBreakConfirmed    bool   `json:"meal_break_confirmed"`
}

// AddEntryRequest records a shift. Hours is absent: it is derived.
type AddEntryRequest struct {
	WorkDate              string `json:"work_date"`
	TaskCode              string `json:"task_code"`
	StartTime             string `json:"start_time"`
	EndTime               string `json:"end_time"`
	IsSchoolDay           bool   `json:"is_school_day"`
	SupervisorPresentName string `json:"supervisor_present_name,omitempty"`
	MealBreakConfirmed    bool   `json:"meal_break_confirmed"`
}

// =============================================================================
// CHECK RESULTS
// =============================================================================

// RuleResultDTO is one rule outcome in a check response.
type RuleResultDTO struct {
	RuleID      string         `json:"rule_id"`
	RuleName    string         `json:"rule_name"`
	Category    string         `json:"category"`
	Outcome     string         `json:"outcome"`
	Details     engine.Details `json:"details"`
	Message     string         `json:"message,omitempty"`
	Remediation string         `json:"remediation,omitempty"`
}

// CheckResultDTO is the full verdict for a week.
type CheckResultDTO struct {
	WeekID     string            `json:"week_id"`
	CheckDate  string            `json:"check_date"`
	Passed     bool              `json:"passed"`
	Status     string            `json:"status,omitempty"`
	Results    []RuleResultDTO   `json:"results"`
	Violations []rules.Violation `json:"violations"`
}

// AuditRecordDTO is one line of the compliance trail.
type AuditRecordDTO struct {
	ID                   string         `json:"id"`
	WeekID               string         `json:"week_id"`
	RuleID               string         `json:"rule_id"`
	Result               string         `json:"result"`
	Details              engine.Details `json:"details"`
	CheckedAt            string         `json:"checked_at"`
	WorkerAgeAtWeekStart int            `json:"worker_age_at_week_start"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func workerDTO(w engine.Worker) WorkerDTO {
	return WorkerDTO{
		ID:          string(w.ID),
		Name:        w.Name,
		DateOfBirth: w.DateOfBirth.String(),
		IsMinor:     w.IsMinorOn(engine.Today()),
	}
}

func documentDTO(d engine.Document) DocumentDTO {
	dto := DocumentDTO{
		ID:         d.ID,
		WorkerID:   string(d.WorkerID),
		Type:       string(d.Type),
		UploadedAt: d.UploadedAt.String(),
		Valid:      d.ValidOn(engine.Today()),
	}
	if d.ExpiresAt != nil {
		s := d.ExpiresAt.String()
		dto.ExpiresAt = &s
	}
	if d.InvalidatedAt != nil {
		s := d.InvalidatedAt.String()
		dto.InvalidatedAt = &s
	}
	return dto
}

func taskCodeDTO(tc engine.TaskCode) TaskCodeDTO {
	return TaskCodeDTO{
		Code:               tc.Code,
		Name:               tc.Name,
		MinAgeAllowed:      tc.MinAgeAllowed,
		IsHazardous:        tc.IsHazardous,
		PowerMachinery:     tc.PowerMachinery,
		DrivingRequired:    tc.DrivingRequired,
		SoloCashHandling:   tc.SoloCashHandling,
		SupervisorRequired: string(tc.SupervisorRequired),
	}
}

func entryDTO(e engine.WorkEntry) EntryDTO {
	return EntryDTO{
		ID:                    e.ID,
		WorkDate:              e.WorkDate.String(),
		TaskCode:              e.TaskCode,
		StartTime:             e.StartTime.String(),
		EndTime:               e.EndTime.String(),
		Hours:                 e.Hours.String(),
		IsSchoolDay:           e.IsSchoolDay,
		SupervisorPresentName: e.SupervisorPresentName,
		MealBreakConfirmed:    e.MealBreakConfirmed,
	}
}

func weekDTO(w engine.WorkWeek) WeekDTO {
	entries := make([]EntryDTO, len(w.Entries))
	for i, e := range w.Entries {
		entries[i] = entryDTO(e)
	}
	return WeekDTO{
		ID:        w.ID,
		WorkerID:  string(w.WorkerID),
		WeekStart: w.WeekStart.String(),
		Status:    string(w.Status),
		Entries:   entries,
	}
}

func checkResultDTO(result *engine.CheckResult, status engine.WeekStatus) CheckResultDTO {
	dto := CheckResultDTO{
		WeekID:     result.WeekID,
		CheckDate:  result.CheckDate.String(),
		Passed:     result.Passed,
		Status:     string(status),
		Violations: rules.Violations(*result),
	}
	for _, r := range result.Results {
		dto.Results = append(dto.Results, RuleResultDTO{
			RuleID:      r.RuleID,
			RuleName:    r.RuleName,
			Category:    string(r.Category),
			Outcome:     string(r.Outcome),
			Details:     r.Details,
			Message:     r.Message,
			Remediation: r.Remediation,
		})
	}
	return dto
}
