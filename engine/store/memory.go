// Package store provides in-memory implementations of the engine's
// persistence interfaces, for tests and development.
package store

import (
	"context"
	"sync"

	"github.com/shiftguard/compliance-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements every engine store interface behind one RWMutex.
type Memory struct {
	mu        sync.RWMutex
	workers   map[engine.WorkerID]engine.Worker
	weeks     map[string]engine.WorkWeek
	documents map[string]engine.Document
	taskCodes map[string]engine.TaskCode
	audit     []engine.AuditRecord
}

func NewMemory() *Memory {
	return &Memory{
		workers:   make(map[engine.WorkerID]engine.Worker),
		weeks:     make(map[string]engine.WorkWeek),
		documents: make(map[string]engine.Document),
		taskCodes: make(map[string]engine.TaskCode),
	}
}

// Compile-time interface checks.
var (
	_ engine.WorkerStore   = (*Memory)(nil)
	_ engine.WeekStore     = (*Memory)(nil)
	_ engine.DocumentStore = (*Memory)(nil)
	_ engine.TaskCodeStore = (*Memory)(nil)
	_ engine.AuditLog      = (*Memory)(nil)
)

// =============================================================================
// WORKER STORE
// =============================================================================

func (m *Memory) GetWorker(_ context.Context, id engine.WorkerID) (engine.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.workers[id]
	if !ok {
		return engine.Worker{}, engine.ErrWorkerNotFound
	}
	return w, nil
}

func (m *Memory) CreateWorker(_ context.Context, w engine.Worker) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.workers[w.ID] = w
	return nil
}

func (m *Memory) ListWorkers(_ context.Context) ([]engine.Worker, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.Worker, 0, len(m.workers))
	for _, w := range m.workers {
		out = append(out, w)
	}
	return out, nil
}

// =============================================================================
// WEEK STORE
// =============================================================================

func (m *Memory) GetWeek(_ context.Context, id string) (engine.WorkWeek, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.weeks[id]
	if !ok {
		return engine.WorkWeek{}, engine.ErrWeekNotFound
	}
	// Copy entries so callers cannot mutate stored state.
	entries := make([]engine.WorkEntry, len(w.Entries))
	copy(entries, w.Entries)
	w.Entries = entries
	return w, nil
}

func (m *Memory) CreateWeek(_ context.Context, w engine.WorkWeek) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.weeks {
		if existing.WorkerID == w.WorkerID && existing.WeekStart == w.WeekStart {
			return engine.ErrDuplicateWeek
		}
	}
	m.weeks[w.ID] = w
	return nil
}

func (m *Memory) ListWeeks(_ context.Context, workerID engine.WorkerID) ([]engine.WorkWeek, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.WorkWeek
	for _, w := range m.weeks {
		if w.WorkerID == workerID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *Memory) AddEntry(_ context.Context, weekID string, entry engine.WorkEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.weeks[weekID]
	if !ok {
		return engine.ErrWeekNotFound
	}
	if w.Status != engine.WeekOpen {
		return engine.ErrWeekNotOpen
	}
	entry.WeekID = weekID
	w.Entries = append(w.Entries, entry)
	m.weeks[weekID] = w
	return nil
}

func (m *Memory) DeleteEntry(_ context.Context, entryID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, w := range m.weeks {
		for i, e := range w.Entries {
			if e.ID != entryID {
				continue
			}
			if w.Status != engine.WeekOpen {
				return engine.ErrWeekNotOpen
			}
			w.Entries = append(w.Entries[:i], w.Entries[i+1:]...)
			m.weeks[id] = w
			return nil
		}
	}
	return engine.ErrEntryNotFound
}

func (m *Memory) UpdateStatus(_ context.Context, weekID string, status engine.WeekStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.weeks[weekID]
	if !ok {
		return engine.ErrWeekNotFound
	}
	w.Status = status
	m.weeks[weekID] = w
	return nil
}

// =============================================================================
// DOCUMENT STORE
// =============================================================================

func (m *Memory) ListDocuments(_ context.Context, workerID engine.WorkerID) ([]engine.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.Document
	for _, d := range m.documents {
		if d.WorkerID == workerID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *Memory) AddDocument(_ context.Context, doc engine.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents[doc.ID] = doc
	return nil
}

func (m *Memory) InvalidateDocument(_ context.Context, documentID string, at engine.Date) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[documentID]
	if !ok {
		return engine.ErrDocumentNotFound
	}
	d.InvalidatedAt = &at
	m.documents[documentID] = d
	return nil
}

// =============================================================================
// TASK CODE STORE
// =============================================================================

func (m *Memory) GetTaskCode(_ context.Context, code string) (engine.TaskCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	tc, ok := m.taskCodes[code]
	if !ok {
		return engine.TaskCode{}, engine.ErrTaskCodeNotFound
	}
	return tc, nil
}

func (m *Memory) ListTaskCodes(_ context.Context) ([]engine.TaskCode, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]engine.TaskCode, 0, len(m.taskCodes))
	for _, tc := range m.taskCodes {
		out = append(out, tc)
	}
	return out, nil
}

func (m *Memory) PutTaskCode(_ context.Context, tc engine.TaskCode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.taskCodes[tc.Code] = tc
	return nil
}

// =============================================================================
// AUDIT LOG - Append-only
// =============================================================================

func (m *Memory) AppendBatch(_ context.Context, records []engine.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.audit = append(m.audit, records...)
	return nil
}

func (m *Memory) Query(_ context.Context, filter engine.AuditFilter) ([]engine.AuditRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []engine.AuditRecord
	for _, r := range m.audit {
		if filter.WeekID != "" && r.WeekID != filter.WeekID {
			continue
		}
		if filter.RuleID != "" && r.RuleID != filter.RuleID {
			continue
		}
		if filter.Result != "" && r.Result != filter.Result {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}
