/*
Package engine provides the pure compliance evaluation core.

PURPOSE:
  This package contains the domain model and algorithms for deciding
  whether one week of recorded work for one worker is lawful under
  age-graduated labor regulations. Evaluation is a pure function: given
  a worker, a week of entries, the worker's documents, and the date the
  check is performed, it produces the same verdict every time.

KEY CONCEPTS IN THIS FILE (types.go):
  - Worker: Identity plus date of birth; the minor flag is derived
  - Document: Consent, permit, or safety-training record with validity dates
  - WorkWeek / WorkEntry: A Sunday-anchored week of recorded shifts
  - TaskCode: Per-task restriction attributes (hazard, machinery, driving...)
  - AgeBand: The regulatory bracket that selects which thresholds apply

DESIGN PRINCIPLES:
  1. Purity: No rule evaluation function performs I/O or blocks
  2. Immutability: EvaluationContext is never mutated after construction
  3. Precision: Worked hours use decimal.Decimal, never floats
  4. Auditability: Every rule outcome is recordable, including passes

SEE ALSO:
  - age.go: Age arithmetic and band classification
  - context.go: EvaluationContext construction
  - rule.go: Rule model and registry
  - evaluator.go: The check runner
*/
package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// AGE BANDS
// =============================================================================

// AgeBand is a regulatory age bracket. Thresholds (hour caps, windows,
// task prohibitions) are defined per band.
type AgeBand string

const (
	BandUnderMin AgeBand = "under-12" // below the legal working floor
	Band1213     AgeBand = "12-13"
	Band1415     AgeBand = "14-15"
	Band1617     AgeBand = "16-17"
	BandAdult    AgeBand = "18+"
)

// MinorBands lists the bands subject to minor-labor restrictions,
// in ascending age order.
var MinorBands = []AgeBand{Band1213, Band1415, Band1617}

// =============================================================================
// WORKER
// =============================================================================

// WorkerID identifies a worker. Type-safe to avoid mixing with week IDs.
type WorkerID string

// Worker is a person on the schedule. Immutable once loaded for a check.
type Worker struct {
	ID          WorkerID
	Name        string
	DateOfBirth Date
}

// IsMinorOn reports whether the worker is under 18 on the given date.
func (w Worker) IsMinorOn(date Date) bool {
	return AgeAsOf(w.DateOfBirth, date) < 18
}

// =============================================================================
// DOCUMENTS
// =============================================================================

// DocumentType classifies a compliance document.
type DocumentType string

const (
	DocConsent        DocumentType = "consent"
	DocPermit         DocumentType = "permit"
	DocSafetyTraining DocumentType = "safety_training"
)

// Document is a compliance record on file for a worker.
type Document struct {
	ID            string
	WorkerID      WorkerID
	Type          DocumentType
	UploadedAt    Date
	ExpiresAt     *Date
	InvalidatedAt *Date
}

/// ValidOn reports whether the document counts as valid on date d:
// not invalidated, and either non-expiring or expiring on/after d.
func (doc Document) ValidOn(d Date) bool {
	if doc.InvalidatedAt != nil {
		return false
	}
	if doc.ExpiresAt != nil && doc.ExpiresAt.Before(d) {
		return false
	}
	return true
}

// =============================================================================
// TASK CODES
// =============================================================================

// SupervisorRequirement states when a task needs an on-site supervisor
// attestation on the entry.
type SupervisorRequirement string

const (
	SupervisorNone      SupervisorRequirement = "none"
	SupervisorForMinors SupervisorRequirement = "for_minors"
	SupervisorAlways    SupervisorRequirement = "always"
)

// TaskCode carries the restriction attributes of one kind of work.
// Attributes are immutable per version; rate history lives elsewhere.
type TaskCode struct {
	Code               string
	Name               string
	MinAgeAllowed      int
	IsHazardous        bool
	PowerMachinery     bool
	DrivingRequired    bool
	SoloCashHandling   bool
	SupervisorRequired SupervisorRequirement
}

// =============================================================================
// WORK WEEK AND ENTRIES
// =============================================================================

// WeekStatus is the lifecycle state of a work week.
type WeekStatus string

const (
	WeekOpen      WeekStatus = "open"
	WeekSubmitted WeekStatus = "submitted"
	WeekApproved  WeekStatus = "approved"
	WeekRejected  WeekStatus = "rejected"
)

// WorkEntry is one recorded shift. Hours is always derived from the
// start/end times, never entered independently.
type WorkEntry struct {
	ID                    string
	WeekID                string
	WorkDate              Date
	TaskCode              string
	Task                  TaskCode // resolved attributes, joined at load time
	StartTime             TimeOfDay
	EndTime               TimeOfDay
	Hours                 decimal.Decimal
	IsSchoolDay           bool
	SupervisorPresentName string
	MealBreakConfirmed    bool
}

// DerivedHours computes the entry's hours from its start/end times.
func DerivedHours(start, end TimeOfDay) decimal.Decimal {
	minutes := int64(end - start)
	return decimal.NewFromInt(minutes).Div(decimal.NewFromInt(60))
}

// WorkWeek is a Sunday-anchored week of entries for one worker.
type WorkWeek struct {
	ID        string
	WorkerID  WorkerID
	WeekStart Date // always a Sunday
	Status    WeekStatus
	Entries   []WorkEntry
	CreatedAt time.Time
}

// Dates returns the 7 calendar days of the week, Sunday first.
func (w WorkWeek) Dates() [7]Date {
	var dates [7]Date
	for i := range dates {
		dates[i] = w.WeekStart.AddDays(i)
	}
	return dates
}

// =============================================================================
// RULE OUTCOMES
// =============================================================================

// Outcome is the verdict of a single rule for a week.
type Outcome string

const (
	OutcomePass          Outcome = "pass"
	OutcomeFail          Outcome = "fail"
	OutcomeNotApplicable Outcome = "not_applicable"
)

// DateValue pairs a date with the value observed on it (e.g. hours worked).
type DateValue struct {
	Date  Date            `json:"date"`
	Value decimal.Decimal `json:"value"`
}

// Details is the structured evidence attached to a rule outcome.
// Fields are optional; a rule fills in what its semantics produce.
// AffectedDates is always in ascending date order.
type Details struct {
	Threshold       *decimal.Decimal `json:"threshold,omitempty"`
	Actual          *decimal.Decimal `json:"actual,omitempty"`
	AffectedDates   []Date           `json:"affectedDates,omitempty"`
	AffectedEntries []string         `json:"affectedEntries,omitempty"`
	PerDate         []DateValue      `json:"perDate,omitempty"`
	Notes           map[string]string `json:"notes,omitempty"`
}

// RuleResult is the outcome of evaluating one rule against one context.
type RuleResult struct {
	RuleID      string
	RuleName    string
	Category    Category
	Outcome     Outcome
	Details     Details
	Message     string // optional worker-facing explanation
	Remediation string // optional worker-facing fix guidance
}

// CheckResult aggregates every rule outcome for one week.
type CheckResult struct {
	WeekID    string
	CheckDate Date
	Results   []RuleResult
	Passed    bool
}

// Failed returns the failing results, in evaluation order.
func (c CheckResult) Failed() []RuleResult {
	var failed []RuleResult
	for _, r := range c.Results {
		if r.Outcome == OutcomeFail {
			failed = append(failed, r)
		}
	}
	return failed
}

// NotApplicable returns the results of rules that did not apply.
func (c CheckResult) NotApplicable() []RuleResult {
	var na []RuleResult
	for _, r := range c.Results {
		if r.Outcome == OutcomeNotApplicable {
			na = append(na, r)
		}
	}
	return na
}

// =============================================================================
// AUDIT RECORDS
// =============================================================================

// AuditRecord is one immutable line of the compliance trail:
// one rule's outcome for one week. Append-only; no update or delete path.
type AuditRecord struct {
	ID                   string
	WeekID               string
	RuleID               string
	Result               Outcome
	Details              Details
	CheckedAt            time.Time
	WorkerAgeAtWeekStart int
}
