/*
store.go - Record store interface

PURPOSE:
  Defines the interface between the metrics core and wherever the records
  actually live. The dashboard is single-tenant: a store instance is
  already scoped to one driver, with credentials injected at construction
  (never read from ambient global state).

ACCESS PATTERN:
  Simple keyed collections with list/save/delete per entity. The core
  loads whole collections and computes in memory; there is no query
  pushdown because per-user volumes are hundreds to low thousands of
  records.

IMPLEMENTATIONS:
  - store/memory:   In-memory, for tests and dev
  - store/sqlite:   Local single-file database
  - store/supabase: The hosted backend (PostgREST)

MUTATION CONTRACT:
  After a successful write the caller re-reads the affected collection.
  Derived data (cycles, segments, metrics) is never stored, so no
  derived-state invalidation exists beyond re-fetching records.
*/
package ledger

import "context"

// RecordStore is the persistence boundary for one driver's records.
type RecordStore interface {
	ListTransactions(ctx context.Context) ([]Transaction, error)
	SaveTransaction(ctx context.Context, t Transaction) error
	DeleteTransaction(ctx context.Context, id string) error

	ListOdometerEvents(ctx context.Context) ([]OdometerEvent, error)
	SaveOdometerEvent(ctx context.Context, e OdometerEvent) error
	DeleteOdometerEvent(ctx context.Context, id string) error

	ListWorkSessions(ctx context.Context) ([]WorkSession, error)
	SaveWorkSession(ctx context.Context, s WorkSession) error
	DeleteWorkSession(ctx context.Context, id string) error

	GetProfile(ctx context.Context) (UserProfile, error)
	SaveProfile(ctx context.Context, p UserProfile) error
}

// LoadInputs fetches every collection a metrics computation needs.
// A missing profile is not an error: fuel metrics degrade to their
// explicit incomplete-profile status instead.
func LoadInputs(ctx context.Context, store RecordStore) (Inputs, error) {
	txs, err := store.ListTransactions(ctx)
	if err != nil {
		return Inputs{}, err
	}
	odo, err := store.ListOdometerEvents(ctx)
	if err != nil {
		return Inputs{}, err
	}
	sessions, err := store.ListWorkSessions(ctx)
	if err != nil {
		return Inputs{}, err
	}
	profile, err := store.GetProfile(ctx)
	if err != nil && !IsNotFound(err) {
		return Inputs{}, err
	}
	return Inputs{
		Transactions: txs,
		Odometer:     odo,
		Sessions:     sessions,
		Profile:      profile,
	}, nil
}
