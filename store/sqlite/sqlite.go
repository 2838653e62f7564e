/*
Package sqlite provides the SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements every persistence contract the engine's collaborators need
  (WorkerStore, WeekStore, DocumentStore, TaskCodeStore, AuditLog) on a
  single SQLite database. The same patterns apply to PostgreSQL with
  minor dialect changes.

APPEND-ONLY ENFORCEMENT:
  The audit_records table has no UPDATE and no DELETE statements
  anywhere in this package. The compliance trail is immutable.
  Documents are soft-invalidated (a dated flag), never deleted.

KEY TABLES:
  workers:       Worker identity and date of birth
  documents:     Consent/permit/training records with validity dates
  task_codes:    Task restriction attributes
  weeks:         Work weeks with lifecycle status
  entries:       Recorded shifts, hours derived from start/end
  audit_records: Immutable rule outcomes, one row per rule per check

WAL MODE:
  The database opens with WAL for better concurrency: readers don't
  block, single writer at a time, better crash recovery.

CONCURRENCY:
  A sync.RWMutex serializes writers; with PostgreSQL the database's own
  concurrency control would take over.

SEE ALSO:
  - engine/store.go: Interface definitions
  - engine/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/shiftguard/compliance-engine/engine"
)

// Store implements all storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Compile-time interface checks.
var (
	_ engine.WorkerStore   = (*Store)(nil)
	_ engine.WeekStore     = (*Store)(nil)
	_ engine.DocumentStore = (*Store)(nil)
	_ engine.TaskCodeStore = (*Store)(nil)
	_ engine.AuditLog      = (*Store)(nil)
)

// New creates a SQLite store at dbPath. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS workers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		date_of_birth TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id),
		doc_type TEXT NOT NULL,
		uploaded_at TEXT NOT NULL,
		expires_at TEXT,
		invalidated_at TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_worker
		ON documents(worker_id, doc_type);

	CREATE TABLE IF NOT EXISTS task_codes (
		code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		min_age_allowed INTEGER NOT NULL DEFAULT 0,
		is_hazardous BOOLEAN NOT NULL DEFAULT FALSE,
		power_machinery BOOLEAN NOT NULL DEFAULT FALSE,
		driving_required BOOLEAN NOT NULL DEFAULT FALSE,
		solo_cash_handling BOOLEAN NOT NULL DEFAULT FALSE,
		supervisor_required TEXT NOT NULL DEFAULT 'none'
	);

	CREATE TABLE IF NOT EXISTS weeks (
		id TEXT PRIMARY KEY,
		worker_id TEXT NOT NULL REFERENCES workers(id),
		week_start TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		created_at TEXT NOT NULL
	);

	-- One week per worker per anchor Sunday
	CREATE UNIQUE INDEX IF NOT EXISTS idx_weeks_worker_start
		ON weeks(worker_id, week_start);
	CREATE INDEX IF NOT EXISTS idx_weeks_status
		ON weeks(status);

	CREATE TABLE IF NOT EXISTS entries (
		id TEXT PRIMARY KEY,
		week_id TEXT NOT NULL REFERENCES weeks(id),
		work_date TEXT NOT NULL,
		task_code TEXT NOT NULL REFERENCES task_codes(code),
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		hours TEXT NOT NULL,
		is_school_day BOOLEAN NOT NULL DEFAULT FALSE,
		supervisor_present_name TEXT NOT NULL DEFAULT '',
		meal_break_confirmed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entries_week
		ON entries(week_id, work_date);

	-- Immutable compliance trail: INSERT and SELECT only
	CREATE TABLE IF NOT EXISTS audit_records (
		id TEXT PRIMARY KEY,
		week_id TEXT NOT NULL,
		rule_id TEXT NOT NULL,
		result TEXT NOT NULL,
		details_json TEXT NOT NULL,
		checked_at TEXT NOT NULL,
		worker_age_at_week_start INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_week
		ON audit_records(week_id, checked_at);
	CREATE INDEX IF NOT EXISTS idx_audit_rule
		ON audit_records(rule_id, result);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// WORKER STORE
// =============================================================================

func (s *Store) CreateWorker(ctx context.Context, w engine.Worker) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workers (id, name, date_of_birth, created_at) VALUES (?, ?, ?, ?)`,
		string(w.ID), w.Name, w.DateOfBirth.String(), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to create worker: %w", err)
	}
	return nil
}

func (s *Store) GetWorker(ctx context.Context, id engine.WorkerID) (engine.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var w engine.Worker
	var dob string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, date_of_birth FROM workers WHERE id = ?`, string(id),
	).Scan(&w.ID, &w.Name, &dob)
	if err == sql.ErrNoRows {
		return engine.Worker{}, engine.ErrWorkerNotFound
	}
	if err != nil {
		return engine.Worker{}, fmt.Errorf("failed to load worker: %w", err)
	}
	if w.DateOfBirth, err = engine.ParseDate(dob); err != nil {
		return engine.Worker{}, err
	}
	return w, nil
}

func (s *Store) ListWorkers(ctx context.Context) ([]engine.Worker, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, date_of_birth FROM workers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	defer rows.Close()

	var out []engine.Worker
	for rows.Next() {
		var w engine.Worker
		var dob string
		if err := rows.Scan(&w.ID, &w.Name, &dob); err != nil {
			return nil, err
		}
		if w.DateOfBirth, err = engine.ParseDate(dob); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

// =============================================================================
// DOCUMENT STORE
// =============================================================================

func (s *Store) AddDocument(ctx context.Context, doc engine.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO documents (id, worker_id, doc_type, uploaded_at, expires_at, invalidated_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		doc.ID, string(doc.WorkerID), string(doc.Type), doc.UploadedAt.String(),
		nullDate(doc.ExpiresAt), nullDate(doc.InvalidatedAt),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}
	return nil
}

func (s *Store) ListDocuments(ctx context.Context, workerID engine.WorkerID) ([]engine.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, worker_id, doc_type, uploaded_at, expires_at, invalidated_at
		 FROM documents WHERE worker_id = ? ORDER BY uploaded_at`, string(workerID))
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	defer rows.Close()

	var out []engine.Document
	for rows.Next() {
		var doc engine.Document
		var uploaded string
		var expires, invalidated sql.NullString
		if err := rows.Scan(&doc.ID, &doc.WorkerID, &doc.Type, &uploaded, &expires, &invalidated); err != nil {
			return nil, err
		}
		if doc.UploadedAt, err = engine.ParseDate(uploaded); err != nil {
			return nil, err
		}
		if doc.ExpiresAt, err = parseNullDate(expires); err != nil {
			return nil, err
		}
		if doc.InvalidatedAt, err = parseNullDate(invalidated); err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// InvalidateDocument marks a document invalid as of a date. Soft flag;
// the row is never deleted.
func (s *Store) InvalidateDocument(ctx context.Context, documentID string, at engine.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET invalidated_at = ? WHERE id = ? AND invalidated_at IS NULL`,
		at.String(), documentID)
	if err != nil {
		return fmt.Errorf("failed to invalidate document: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return engine.ErrDocumentNotFound
	}
	return nil
}

// =============================================================================
// TASK CODE STORE
// =============================================================================

func (s *Store) PutTaskCode(ctx context.Context, tc engine.TaskCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO task_codes
		 (code, name, min_age_allowed, is_hazardous, power_machinery, driving_required, solo_cash_handling, supervisor_required)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(code) DO UPDATE SET
		   name = excluded.name,
		   min_age_allowed = excluded.min_age_allowed,
		   is_hazardous = excluded.is_hazardous,
		   power_machinery = excluded.power_machinery,
		   driving_required = excluded.driving_required,
		   solo_cash_handling = excluded.solo_cash_handling,
		   supervisor_required = excluded.supervisor_required`,
		tc.Code, tc.Name, tc.MinAgeAllowed, tc.IsHazardous, tc.PowerMachinery,
		tc.DrivingRequired, tc.SoloCashHandling, string(tc.SupervisorRequired),
	)
	if err != nil {
		return fmt.Errorf("failed to put task code: %w", err)
	}
	return nil
}

func (s *Store) GetTaskCode(ctx context.Context, code string) (engine.TaskCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var tc engine.TaskCode
	err := s.db.QueryRowContext(ctx,
		`SELECT code, name, min_age_allowed, is_hazardous, power_machinery, driving_required, solo_cash_handling, supervisor_required
		 FROM task_codes WHERE code = ?`, code,
	).Scan(&tc.Code, &tc.Name, &tc.MinAgeAllowed, &tc.IsHazardous, &tc.PowerMachinery,
		&tc.DrivingRequired, &tc.SoloCashHandling, &tc.SupervisorRequired)
	if err == sql.ErrNoRows {
		return engine.TaskCode{}, engine.ErrTaskCodeNotFound
	}
	if err != nil {
		return engine.TaskCode{}, fmt.Errorf("failed to load task code: %w", err)
	}
	return tc, nil
}

func (s *Store) ListTaskCodes(ctx context.Context) ([]engine.TaskCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT code, name, min_age_allowed, is_hazardous, power_machinery, driving_required, solo_cash_handling, supervisor_required
		 FROM task_codes ORDER BY code`)
	if err != nil {
		return nil, fmt.Errorf("failed to list task codes: %w", err)
	}
	defer rows.Close()

	var out []engine.TaskCode
	for rows.Next() {
		var tc engine.TaskCode
		if err := rows.Scan(&tc.Code, &tc.Name, &tc.MinAgeAllowed, &tc.IsHazardous, &tc.PowerMachinery,
			&tc.DrivingRequired, &tc.SoloCashHandling, &tc.SupervisorRequired); err != nil {
			return nil, err
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// =============================================================================
// WEEK STORE
// =============================================================================

func (s *Store) CreateWeek(ctx context.Context, w engine.WorkWeek) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO weeks (id, worker_id, week_start, status, created_at) VALUES (?, ?, ?, ?, ?)`,
		w.ID, string(w.WorkerID), w.WeekStart.String(), string(w.Status),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return engine.ErrDuplicateWeek
		}
		return fmt.Errorf("failed to create week: %w", err)
	}
	return nil
}

func (s *Store) GetWeek(ctx context.Context, id string) (engine.WorkWeek, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var w engine.WorkWeek
	var weekStart, createdAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, worker_id, week_start, status, created_at FROM weeks WHERE id = ?`, id,
	).Scan(&w.ID, &w.WorkerID, &weekStart, &w.Status, &createdAt)
	if err == sql.ErrNoRows {
		return engine.WorkWeek{}, engine.ErrWeekNotFound
	}
	if err != nil {
		return engine.WorkWeek{}, fmt.Errorf("failed to load week: %w", err)
	}
	if w.WeekStart, err = engine.ParseDate(weekStart); err != nil {
		return engine.WorkWeek{}, err
	}
	w.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)

	if w.Entries, err = s.loadEntries(ctx, id); err != nil {
		return engine.WorkWeek{}, err
	}
	return w, nil
}

func (s *Store) loadEntries(ctx context.Context, weekID string) ([]engine.WorkEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, week_id, work_date, task_code, start_time, end_time, hours,
		        is_school_day, supervisor_present_name, meal_break_confirmed
		 FROM entries WHERE week_id = ? ORDER BY work_date, start_time`, weekID)
	if err != nil {
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}
	defer rows.Close()

	var out []engine.WorkEntry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

func (s *Store) ListWeeks(ctx context.Context, workerID engine.WorkerID) ([]engine.WorkWeek, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, worker_id, week_start, status, created_at
		 FROM weeks WHERE worker_id = ? ORDER BY week_start DESC`, string(workerID))
	if err != nil {
		return nil, fmt.Errorf("failed to list weeks: %w", err)
	}
	defer rows.Close()

	var out []engine.WorkWeek
	for rows.Next() {
		var w engine.WorkWeek
		var weekStart, createdAt string
		if err := rows.Scan(&w.ID, &w.WorkerID, &weekStart, &w.Status, &createdAt); err != nil {
			return nil, err
		}
		if w.WeekStart, err = engine.ParseDate(weekStart); err != nil {
			return nil, err
		}
		w.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *Store) AddEntry(ctx context.Context, weekID string, entry engine.WorkEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireOpenWeek(ctx, weekID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries
		 (id, week_id, work_date, task_code, start_time, end_time, hours,
		  is_school_day, supervisor_present_name, meal_break_confirmed, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, weekID, entry.WorkDate.String(), entry.TaskCode,
		entry.StartTime.String(), entry.EndTime.String(), entry.Hours.String(),
		entry.IsSchoolDay, entry.SupervisorPresentName, entry.MealBreakConfirmed,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to add entry: %w", err)
	}
	return nil
}

func (s *Store) DeleteEntry(ctx context.Context, entryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var weekID string
	err := s.db.QueryRowContext(ctx,
		`SELECT week_id FROM entries WHERE id = ?`, entryID).Scan(&weekID)
	if err == sql.ErrNoRows {
		return engine.ErrEntryNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find entry: %w", err)
	}
	if err := s.requireOpenWeek(ctx, weekID); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE id = ?`, entryID); err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	return nil
}

func (s *Store) UpdateStatus(ctx context.Context, weekID string, status engine.WeekStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`UPDATE weeks SET status = ? WHERE id = ?`, string(status), weekID)
	if err != nil {
		return fmt.Errorf("failed to update week status: %w", err)
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return engine.ErrWeekNotFound
	}
	return nil
}

func (s *Store) requireOpenWeek(ctx context.Context, weekID string) error {
	var status engine.WeekStatus
	err := s.db.QueryRowContext(ctx,
		`SELECT status FROM weeks WHERE id = ?`, weekID).Scan(&status)
	if err == sql.ErrNoRows {
		return engine.ErrWeekNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load week status: %w", err)
	}
	if status != engine.WeekOpen {
		return engine.ErrWeekNotOpen
	}
	return nil
}

// =============================================================================
// AUDIT LOG - append-only
// =============================================================================

// AppendBatch writes all records in one transaction. Either every rule
// outcome of a check lands in the trail or none do.
func (s *Store) AppendBatch(ctx context.Context, records []engine.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	for _, r := range records {
		detailsJSON, err := json.Marshal(r.Details)
		if err != nil {
			return fmt.Errorf("failed to encode details: %w", err)
		}
		_, err = sqlTx.ExecContext(ctx,
			`INSERT INTO audit_records
			 (id, week_id, rule_id, result, details_json, checked_at, worker_age_at_week_start)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.ID, r.WeekID, r.RuleID, string(r.Result), string(detailsJSON),
			r.CheckedAt.UTC().Format(time.RFC3339), r.WorkerAgeAtWeekStart,
		)
		if err != nil {
			return fmt.Errorf("failed to append audit record: %w", err)
		}
	}
	return sqlTx.Commit()
}

func (s *Store) Query(ctx context.Context, filter engine.AuditFilter) ([]engine.AuditRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, week_id, rule_id, result, details_json, checked_at, worker_age_at_week_start
	          FROM audit_records WHERE 1=1`
	var args []any
	if filter.WeekID != "" {
		query += ` AND week_id = ?`
		args = append(args, filter.WeekID)
	}
	if filter.RuleID != "" {
		query += ` AND rule_id = ?`
		args = append(args, filter.RuleID)
	}
	if filter.Result != "" {
		query += ` AND result = ?`
		args = append(args, string(filter.Result))
	}
	query += ` ORDER BY checked_at, rule_id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit records: %w", err)
	}
	defer rows.Close()

	var out []engine.AuditRecord
	for rows.Next() {
		var r engine.AuditRecord
		var detailsJSON, checkedAt string
		if err := rows.Scan(&r.ID, &r.WeekID, &r.RuleID, &r.Result, &detailsJSON, &checkedAt, &r.WorkerAgeAtWeekStart); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(detailsJSON), &r.Details); err != nil {
			return nil, fmt.Errorf("failed to decode details: %w", err)
		}
		r.CheckedAt, _ = time.Parse(time.RFC3339, checkedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (engine.WorkEntry, error) {
	var entry engine.WorkEntry
	var workDate, start, end, hours string
	err := row.Scan(&entry.ID, &entry.WeekID, &workDate, &entry.TaskCode,
		&start, &end, &hours, &entry.IsSchoolDay,
		&entry.SupervisorPresentName, &entry.MealBreakConfirmed)
	if err != nil {
		return engine.WorkEntry{}, err
	}
	if entry.WorkDate, err = engine.ParseDate(workDate); err != nil {
		return engine.WorkEntry{}, err
	}
	if entry.StartTime, err = engine.ParseTimeOfDay(start); err != nil {
		return engine.WorkEntry{}, err
	}
	if entry.EndTime, err = engine.ParseTimeOfDay(end); err != nil {
		return engine.WorkEntry{}, err
	}
	if entry.Hours, err = decimal.NewFromString(hours); err != nil {
		return engine.WorkEntry{}, fmt.Errorf("invalid hours %q: %w", hours, err)
	}
	return entry, nil
}

func nullDate(d *engine.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func parseNullDate(s sql.NullString) (*engine.Date, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	d, err := engine.ParseDate(s.String)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
