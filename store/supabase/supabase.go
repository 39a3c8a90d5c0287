/*
Package supabase provides a PostgREST-backed RecordStore for hosted
deployments.

Every query is scoped to the user ID supplied at construction; the
client carries its credentials explicitly rather than reading them from
process-global state, so two stores for two users can coexist in one
process.

Rows travel as JSON through PostgREST. Timestamps are RFC 3339 and
monetary columns are numeric; shopspring decimal handles both JSON
numbers and strings on the way back.

SEE ALSO:
  - ledger/store.go: Interface definition
  - store/sqlite: Local single-file implementation
*/
package supabase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/supabase-community/supabase-go"

	"github.com/gigdrive/metrics-engine/ledger"
)

// Store implements ledger.RecordStore against a Supabase project.
type Store struct {
	client *supabase.Client
	userID string
}

// New builds a store bound to one Supabase project and one user. All
// reads and writes are filtered by that user's ID.
func New(url, key, userID string) (*Store, error) {
	client, err := supabase.NewClient(url, key, &supabase.ClientOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}
	return &Store{client: client, userID: userID}, nil
}

// =============================================================================
// ROW TYPES - PostgREST wire shapes
// =============================================================================

type transactionRow struct {
	ID            string              `json:"id"`
	UserID        string              `json:"user_id"`
	Type          string              `json:"type"`
	Date          time.Time           `json:"date"`
	Value         decimal.Decimal     `json:"value"`
	Category      string              `json:"category"`
	Subcategory   string              `json:"subcategory,omitempty"`
	FuelType      string              `json:"fuel_type,omitempty"`
	PricePerLiter decimal.NullDecimal `json:"price_per_liter"`
	Observation   string              `json:"observation,omitempty"`
}

type odometerRow struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	Type   string    `json:"type"`
	Date   time.Time `json:"date"`
	Value  int64     `json:"value"`
	PairID string    `json:"pair_id,omitempty"`
}

type sessionRow struct {
	ID     string     `json:"id"`
	UserID string     `json:"user_id"`
	Start  time.Time  `json:"start_datetime"`
	End    *time.Time `json:"end_datetime"`
}

type profileRow struct {
	UserID          string          `json:"user_id"`
	Name            string          `json:"name,omitempty"`
	VehicleModel    string          `json:"vehicle_model,omitempty"`
	FuelConsumption decimal.Decimal `json:"fuel_consumption_km_per_liter"`
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (s *Store) ListTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	data, _, err := s.client.From("transactions").
		Select("*", "", false).
		Eq("user_id", s.userID).
		Order("date.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	var rows []transactionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse transactions: %w", err)
	}

	out := make([]ledger.Transaction, 0, len(rows))
	for _, r := range rows {
		t := ledger.Transaction{
			ID:          r.ID,
			Type:        ledger.TransactionType(r.Type),
			Date:        r.Date,
			Value:       r.Value,
			Category:    r.Category,
			Subcategory: r.Subcategory,
			FuelType:    r.FuelType,
			Observation: r.Observation,
		}
		if r.PricePerLiter.Valid {
			t.PricePerLiter = r.PricePerLiter.Decimal
		}
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) SaveTransaction(ctx context.Context, t ledger.Transaction) error {
	row := transactionRow{
		ID:          t.ID,
		UserID:      s.userID,
		Type:        string(t.Type),
		Date:        t.Date.UTC(),
		Value:       t.Value,
		Category:    t.Category,
		Subcategory: t.Subcategory,
		FuelType:    t.FuelType,
		Observation: t.Observation,
	}
	if !t.PricePerLiter.IsZero() {
		row.PricePerLiter = decimal.NewNullDecimal(t.PricePerLiter)
	}
	_, _, err := s.client.From("transactions").Insert(row, true, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to save transaction: %w", err)
	}
	return nil
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return s.deleteByID("transactions", id)
}

// =============================================================================
// ODOMETER EVENTS
// =============================================================================

func (s *Store) ListOdometerEvents(ctx context.Context) ([]ledger.OdometerEvent, error) {
	data, _, err := s.client.From("odometer_events").
		Select("*", "", false).
		Eq("user_id", s.userID).
		Order("date.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list odometer events: %w", err)
	}

	var rows []odometerRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse odometer events: %w", err)
	}

	out := make([]ledger.OdometerEvent, 0, len(rows))
	for _, r := range rows {
		out = append(out, ledger.OdometerEvent{
			ID:     r.ID,
			Type:   ledger.OdometerEventType(r.Type),
			Date:   r.Date,
			Value:  r.Value,
			PairID: r.PairID,
		})
	}
	return out, nil
}

func (s *Store) SaveOdometerEvent(ctx context.Context, e ledger.OdometerEvent) error {
	row := odometerRow{
		ID:     e.ID,
		UserID: s.userID,
		Type:   string(e.Type),
		Date:   e.Date.UTC(),
		Value:  e.Value,
		PairID: e.PairID,
	}
	_, _, err := s.client.From("odometer_events").Insert(row, true, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to save odometer event: %w", err)
	}
	return nil
}

func (s *Store) DeleteOdometerEvent(ctx context.Context, id string) error {
	return s.deleteByID("odometer_events", id)
}

// =============================================================================
// WORK SESSIONS
// =============================================================================

func (s *Store) ListWorkSessions(ctx context.Context) ([]ledger.WorkSession, error) {
	data, _, err := s.client.From("work_sessions").
		Select("*", "", false).
		Eq("user_id", s.userID).
		Order("start_datetime.asc", nil).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list work sessions: %w", err)
	}

	var rows []sessionRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse work sessions: %w", err)
	}

	out := make([]ledger.WorkSession, 0, len(rows))
	for _, r := range rows {
		out = append(out, ledger.WorkSession{ID: r.ID, Start: r.Start, End: r.End})
	}
	return out, nil
}

func (s *Store) SaveWorkSession(ctx context.Context, ws ledger.WorkSession) error {
	row := sessionRow{ID: ws.ID, UserID: s.userID, Start: ws.Start.UTC()}
	if ws.End != nil {
		end := ws.End.UTC()
		row.End = &end
	}
	_, _, err := s.client.From("work_sessions").Insert(row, true, "", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to save work session: %w", err)
	}
	return nil
}

func (s *Store) DeleteWorkSession(ctx context.Context, id string) error {
	return s.deleteByID("work_sessions", id)
}

// =============================================================================
// PROFILE
// =============================================================================

func (s *Store) GetProfile(ctx context.Context) (ledger.UserProfile, error) {
	data, _, err := s.client.From("profiles").
		Select("*", "", false).
		Eq("user_id", s.userID).
		Limit(1, "").
		Execute()
	if err != nil {
		return ledger.UserProfile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	var rows []profileRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return ledger.UserProfile{}, fmt.Errorf("failed to parse profile: %w", err)
	}
	if len(rows) == 0 {
		return ledger.UserProfile{}, ledger.ErrNotFound
	}
	return ledger.UserProfile{
		Name:                      rows[0].Name,
		VehicleModel:              rows[0].VehicleModel,
		FuelConsumptionKmPerLiter: rows[0].FuelConsumption,
	}, nil
}

func (s *Store) SaveProfile(ctx context.Context, p ledger.UserProfile) error {
	row := profileRow{
		UserID:          s.userID,
		Name:            p.Name,
		VehicleModel:    p.VehicleModel,
		FuelConsumption: p.FuelConsumptionKmPerLiter,
	}
	_, _, err := s.client.From("profiles").Insert(row, true, "user_id", "", "").Execute()
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (s *Store) deleteByID(table, id string) error {
	_, count, err := s.client.From(table).
		Delete("", "exact").
		Eq("id", id).
		Eq("user_id", s.userID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}
	if count == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

var _ ledger.RecordStore = (*Store)(nil)
