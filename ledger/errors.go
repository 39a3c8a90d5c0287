/*
errors.go - Centralized error types for the metrics core

PURPOSE:
  All error types in one place for consistency and discoverability.

ERROR CATEGORIES:
  1. Data errors      - Malformed dates or numeric values. These are FATAL
                        to the computation call and must bubble up; a
                        swallowed parse error silently corrupts revenue.
  2. Baseline errors  - "No comparable previous period" conditions. These
                        are expected, frequent states and travel as sentinel
                        errors/values, never as failures of the whole call.
  3. Store errors     - Missing records and invalid input to the record store.

  Reconciliation ambiguities (orphan closes, multiple dangling opens) are
  NOT errors: the reconciler always produces a deterministic best-effort
  result via its documented fallback policy.

USAGE:
  if errors.Is(err, ledger.ErrNoPriorPeriod) {
      // render the "no prior data" comparison instead of failing
  }
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrBadData is returned when a stored record carries an unparseable
	// date or numeric value. Fatal to the computation call.
	ErrBadData = errors.New("malformed record data")

	// ErrNoPriorPeriod is returned when the one-calendar-month-earlier
	// analogue of a period does not exist (e.g. March 31 rolled back into
	// a 30-day month). An expected state, not a fault: the comparison is
	// reported as unavailable, never silently clamped to month-end.
	ErrNoPriorPeriod = errors.New("no comparable previous period")

	// ErrInvalidPeriod is returned when a custom range is malformed
	// (end before start, or missing bounds).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrNotFound is returned by record stores for missing records.
	ErrNotFound = errors.New("record not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DataError reports a malformed field on a stored record.
type DataError struct {
	Entity string // e.g. "transaction", "odometer_event"
	ID     string
	Field  string
	Value  string
	Reason string
}

func (e *DataError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("bad %s %s: field %q = %q (%s)", e.Entity, e.ID, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("bad %s: field %q = %q (%s)", e.Entity, e.Field, e.Value, e.Reason)
}

func (e *DataError) Unwrap() error { return ErrBadData }

// InvalidSessionError reports a closed session whose end does not follow
// its start.
type InvalidSessionError struct {
	SessionID string
	Start     string
	End       string
}

func (e *InvalidSessionError) Error() string {
	return fmt.Sprintf("work session %s: end %s not after start %s", e.SessionID, e.End, e.Start)
}

func (e *InvalidSessionError) Unwrap() error { return ErrBadData }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidPeriod) || errors.Is(err, ErrBadData)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }
