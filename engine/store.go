/*
store.go - Persistence interfaces consumed around the engine

PURPOSE:
  Defines the contracts the engine's collaborators must satisfy. The
  evaluation core never calls these; the compliance.Checker service uses
  them to assemble a context and to persist the audit trail.

APPEND-ONLY CONTRACT:
  AuditLog has no update or delete methods. The audit trail is a
  compliance record, not mutable state. Corrections happen by running
  a new check, never by editing history.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite
  - engine/store:  In-memory for tests and dev
*/
package engine

import "context"

// =============================================================================
// READ STORES - The Context Builder's inputs
// =============================================================================

// WorkerStore persists worker records.
type WorkerStore interface {
	// GetWorker returns ErrWorkerNotFound if absent.
	GetWorker(ctx context.Context, id WorkerID) (Worker, error)
	CreateWorker(ctx context.Context, w Worker) error
	ListWorkers(ctx context.Context) ([]Worker, error)
}

// WeekStore persists work weeks with their entries.
type WeekStore interface {
	// GetWeek returns the week with entries loaded, or ErrWeekNotFound.
	GetWeek(ctx context.Context, id string) (WorkWeek, error)
	CreateWeek(ctx context.Context, w WorkWeek) error
	ListWeeks(ctx context.Context, workerID WorkerID) ([]WorkWeek, error)

	// AddEntry appends an entry to an open week; ErrWeekNotOpen otherwise.
	AddEntry(ctx context.Context, weekID string, entry WorkEntry) error

	// DeleteEntry removes an entry from an open week.
	DeleteEntry(ctx context.Context, entryID string) error

	// UpdateStatus moves the week through its lifecycle.
	UpdateStatus(ctx context.Context, weekID string, status WeekStatus) error
}

// DocumentStore persists worker compliance documents.
type DocumentStore interface {
	ListDocuments(ctx context.Context, workerID WorkerID) ([]Document, error)
	AddDocument(ctx context.Context, doc Document) error

	// InvalidateDocument soft-invalidates as of a date. Documents are
	// never deleted.
	InvalidateDocument(ctx context.Context, documentID string, at Date) error
}

// TaskCodeStore persists the task catalog.
type TaskCodeStore interface {
	// GetTaskCode returns ErrTaskCodeNotFound if absent.
	GetTaskCode(ctx context.Context, code string) (TaskCode, error)
	ListTaskCodes(ctx context.Context) ([]TaskCode, error)
	PutTaskCode(ctx context.Context, tc TaskCode) error
}

// =============================================================================
// AUDIT LOG - The engine's only side effect, append-only
// =============================================================================

// AuditFilter narrows an audit query.
type AuditFilter struct {
	WeekID string
	RuleID string
	Result Outcome
}

// AuditLog stores rule outcomes durably. Append-only.
type AuditLog interface {
	// AppendBatch writes all records atomically.
	AppendBatch(ctx context.Context, records []AuditRecord) error
	Query(ctx context.Context, filter AuditFilter) ([]AuditRecord, error)
}

// =============================================================================
// CLOCK - Injectable current date for deterministic checks
// =============================================================================

// Clock supplies the date a check is performed on. Inject a fixed clock
// in tests; production uses Today.
type Clock func() Date
