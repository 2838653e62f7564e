/*
Package compliance wires the pure evaluation engine to its collaborators.

PURPOSE:
  The Checker is the boundary between I/O and evaluation. It loads the
  worker, the week with entries, and the document set, resolves task
  attributes onto entries, builds the immutable context, runs the
  registry, and persists the audit trail. Evaluation itself never
  touches a store.

TWO PATHS:
  RunCheck:           Full check. Persists one audit record per rule
                      outcome (pass, fail, and not-applicable alike).
                      Used at submission time.
  ValidateCompliance: Same pipeline, zero persistence. Used for live
                      feedback while a worker edits an open week.

AUDIT SEMANTICS:
  A failed audit write does not retract a computed verdict: the caller
  still gets the CheckResult and the write failure is logged. Records
  are written at-least-once; the trail is append-only.

SEE ALSO:
  - engine/evaluator.go: The pure check runner
  - store/sqlite: Durable audit log
*/
package compliance

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/shiftguard/compliance-engine/engine"
	"github.com/shiftguard/compliance-engine/rules"
)

// Checker runs compliance checks against stored weeks.
type Checker struct {
	Workers   engine.WorkerStore
	Weeks     engine.WeekStore
	Documents engine.DocumentStore
	Tasks     engine.TaskCodeStore
	Audit     engine.AuditLog
	Registry  *engine.Registry

	// Options applies to every check the Checker runs.
	Options engine.CheckOptions

	// Clock supplies the check date; defaults to engine.Today.
	Clock engine.Clock
}

// NewChecker builds a Checker over one backing store implementing every
// engine store interface (sqlite or memory).
func NewChecker(store interface {
	engine.WorkerStore
	engine.WeekStore
	engine.DocumentStore
	engine.TaskCodeStore
	engine.AuditLog
}, registry *engine.Registry) *Checker {
	return &Checker{
		Workers:   store,
		Weeks:     store,
		Documents: store,
		Tasks:     store,
		Audit:     store,
		Registry:  registry,
		Clock:     engine.Today,
	}
}

// Validation is the preview verdict: no audit records were written.
type Validation struct {
	Valid      bool              `json:"valid"`
	Violations []rules.Violation `json:"violations"`
}

// =============================================================================
// CHECK PATHS
// =============================================================================

// RunCheck performs a full compliance check for a week and persists the
// audit trail. Fatal only when the week or worker cannot be loaded.
func (c *Checker) RunCheck(ctx context.Context, weekID string, opts engine.CheckOptions) (*engine.CheckResult, error) {
	evalCtx, err := c.buildContext(ctx, weekID)
	if err != nil {
		return nil, err
	}

	result := engine.RunCheck(evalCtx, c.Registry, opts)

	// The verdict stands even if the durable write degrades.
	if err := c.Audit.AppendBatch(ctx, auditRecords(evalCtx, result)); err != nil {
		log.Printf("audit write failed for week %s: %v", weekID, err)
	}

	return &result, nil
}

// ValidateCompliance runs the same filter and evaluate pipeline but
// skips the audit log entirely. Safe to call repeatedly while editing.
func (c *Checker) ValidateCompliance(ctx context.Context, weekID string) (*Validation, error) {
	evalCtx, err := c.buildContext(ctx, weekID)
	if err != nil {
		return nil, err
	}

	result := engine.RunCheck(evalCtx, c.Registry, c.Options)
	return &Validation{
		Valid:      result.Passed,
		Violations: rules.Violations(result),
	}, nil
}

// Submit runs a full check and advances the week to submitted only when
// it passes. The result is returned either way so callers can surface
// violations.
func (c *Checker) Submit(ctx context.Context, weekID string) (*engine.CheckResult, error) {
	week, err := c.Weeks.GetWeek(ctx, weekID)
	if err != nil {
		return nil, err
	}
	if week.Status != engine.WeekOpen {
		return nil, engine.ErrWeekNotOpen
	}

	result, err := c.RunCheck(ctx, weekID, c.Options)
	if err != nil {
		return nil, err
	}
	if !result.Passed {
		return result, nil
	}

	if err := c.Weeks.UpdateStatus(ctx, weekID, engine.WeekSubmitted); err != nil {
		return nil, fmt.Errorf("week passed but could not be submitted: %w", err)
	}
	return result, nil
}

// =============================================================================
// CONTEXT ASSEMBLY
// =============================================================================

// buildContext is the Context Builder's I/O half: three reads plus the
// task-attribute join, then the pure fold in engine.BuildContext.
func (c *Checker) buildContext(ctx context.Context, weekID string) (*engine.EvaluationContext, error) {
	week, err := c.Weeks.GetWeek(ctx, weekID)
	if err != nil {
		return nil, err
	}
	worker, err := c.Workers.GetWorker(ctx, week.WorkerID)
	if err != nil {
		return nil, err
	}
	documents, err := c.Documents.ListDocuments(ctx, worker.ID)
	if err != nil {
		return nil, err
	}

	// Resolve task attributes onto entries so rules stay store-free.
	for i, entry := range week.Entries {
		task, err := c.Tasks.GetTaskCode(ctx, entry.TaskCode)
		if err != nil {
			return nil, fmt.Errorf("entry %s: %w", entry.ID, err)
		}
		week.Entries[i].Task = task
	}

	clock := c.Clock
	if clock == nil {
		clock = engine.Today
	}
	return engine.BuildContext(worker, week, documents, clock()), nil
}

// auditRecords maps every rule outcome of a check to one immutable record.
func auditRecords(evalCtx *engine.EvaluationContext, result engine.CheckResult) []engine.AuditRecord {
	now := time.Now().UTC()
	records := make([]engine.AuditRecord, 0, len(result.Results))
	for _, r := range result.Results {
		records = append(records, engine.AuditRecord{
			ID:                   uuid.NewString(),
			WeekID:               result.WeekID,
			RuleID:               r.RuleID,
			Result:               r.Outcome,
			Details:              r.Details,
			CheckedAt:            now,
			WorkerAgeAtWeekStart: evalCtx.AgeAtWeekStart(),
		})
	}
	return records
}
