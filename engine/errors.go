/*
errors.go - Centralized error types for the compliance engine

PURPOSE:
  All error types in one place. Collaborating packages (api, compliance,
  stores) wrap these errors with additional context.

ERROR CATEGORIES:
  1. Not-found errors - Fatal to a check; no partial context can be built
  2. Age errors - Surfaced as rule failures, never thrown out of a check
  3. Store errors - Persistence-level failures

USAGE:
  if errors.Is(err, engine.ErrWeekNotFound) {
      // map to 404 for operators, generic message for workers
  }
*/
package engine

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrWeekNotFound is returned when a referenced work week doesn't exist.
	// Fatal to a check: no context can be built.
	ErrWeekNotFound = errors.New("work week not found")

	// ErrWorkerNotFound is returned when a referenced worker doesn't exist.
	// Fatal to a check: no context can be built.
	ErrWorkerNotFound = errors.New("worker not found")

	// ErrTaskCodeNotFound is returned when an entry references an unknown task.
	ErrTaskCodeNotFound = errors.New("task code not found")

	// ErrEntryNotFound is returned when a referenced work entry doesn't exist.
	ErrEntryNotFound = errors.New("work entry not found")

	// ErrDocumentNotFound is returned when a referenced document doesn't exist.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrWeekNotOpen is returned when mutating entries of a non-open week.
	ErrWeekNotOpen = errors.New("work week is not open")

	// ErrInvalidEntryTimes is returned when an entry's end time does not
	// follow its start time.
	ErrInvalidEntryTimes = errors.New("entry end time must be after start time")

	// ErrWeekStartNotSunday is returned when a week is anchored off-grid.
	ErrWeekStartNotSunday = errors.New("week start must be a Sunday")

	// ErrDuplicateWeek is returned when a worker already has a week
	// anchored on the same Sunday.
	ErrDuplicateWeek = errors.New("week already exists for this start date")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// AgeBelowMinimumError reports an age under the legal working floor.
// It flows through band classification but a check converts it into a
// normal rule failure rather than propagating it.
type AgeBelowMinimumError struct {
	Age     int
	Minimum int
}

func (e *AgeBelowMinimumError) Error() string {
	return fmt.Sprintf("age %d is below the minimum working age of %d", e.Age, e.Minimum)
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrWeekNotFound) ||
		errors.Is(err, ErrWorkerNotFound) ||
		errors.Is(err, ErrTaskCodeNotFound) ||
		errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrDocumentNotFound)
}

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrWeekNotOpen) ||
		errors.Is(err, ErrInvalidEntryTimes) ||
		errors.Is(err, ErrWeekStartNotSunday) ||
		errors.Is(err, ErrDuplicateWeek)
}
