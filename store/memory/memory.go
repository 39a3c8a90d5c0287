// Package memory provides an in-memory RecordStore for tests and dev.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/gigdrive/metrics-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Store struct {
	mu           sync.RWMutex
	transactions map[string]ledger.Transaction
	odometer     map[string]ledger.OdometerEvent
	sessions     map[string]ledger.WorkSession
	profile      *ledger.UserProfile
}

func New() *Store {
	return &Store{
		transactions: make(map[string]ledger.Transaction),
		odometer:     make(map[string]ledger.OdometerEvent),
		sessions:     make(map[string]ledger.WorkSession),
	}
}

// -----------------------------------------------------------------------------
// Transactions
// -----------------------------------------------------------------------------

func (s *Store) ListTransactions(_ context.Context) ([]ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) SaveTransaction(_ context.Context, t ledger.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions[t.ID] = t
	return nil
}

func (s *Store) DeleteTransaction(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transactions[id]; !ok {
		return ledger.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

// -----------------------------------------------------------------------------
// Odometer events
// -----------------------------------------------------------------------------

func (s *Store) ListOdometerEvents(_ context.Context) ([]ledger.OdometerEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.OdometerEvent, 0, len(s.odometer))
	for _, e := range s.odometer {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (s *Store) SaveOdometerEvent(_ context.Context, e ledger.OdometerEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.odometer[e.ID] = e
	return nil
}

func (s *Store) DeleteOdometerEvent(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.odometer[id]; !ok {
		return ledger.ErrNotFound
	}
	delete(s.odometer, id)
	return nil
}

// -----------------------------------------------------------------------------
// Work sessions
// -----------------------------------------------------------------------------

func (s *Store) ListWorkSessions(_ context.Context) ([]ledger.WorkSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.WorkSession, 0, len(s.sessions))
	for _, ws := range s.sessions {
		out = append(out, ws)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
	return out, nil
}

func (s *Store) SaveWorkSession(_ context.Context, ws ledger.WorkSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[ws.ID] = ws
	return nil
}

func (s *Store) DeleteWorkSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ledger.ErrNotFound
	}
	delete(s.sessions, id)
	return nil
}

// -----------------------------------------------------------------------------
// Profile
// -----------------------------------------------------------------------------

func (s *Store) GetProfile(_ context.Context) (ledger.UserProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return ledger.UserProfile{}, ledger.ErrNotFound
	}
	return *s.profile, nil
}

func (s *Store) SaveProfile(_ context.Context, p ledger.UserProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = &p
	return nil
}

var _ ledger.RecordStore = (*Store)(nil)
