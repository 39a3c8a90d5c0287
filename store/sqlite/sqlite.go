/*
Package sqlite provides a SQLite-backed implementation of the record store.

PURPOSE:
  Local single-file persistence for development and self-hosted setups.
  The hosted deployment uses the Supabase store instead; both implement
  the same ledger.RecordStore interface, so the engine never knows which
  backend it is talking to.

KEY TABLES:
  transactions:    Income/expense records with optional fuel detail
  odometer_events: Open/close odometer readings
  work_sessions:   Work intervals (end_datetime NULL while in progress)
  profile:         Single-row vehicle constants (consumption, model)

REPRESENTATION:
  - Instants are stored as RFC 3339 UTC text. All local-day reasoning
    lives in the ledger package; the store never touches calendars.
  - Monetary values are stored as decimal text, never floats.
  - Unreadable stored values surface as ledger.DataError on read: a
    malformed date must fail the computation, not silently shrink a
    financial sum.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/driver.db")  // ":memory:" for tests
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - ledger/store.go: Interface definition
  - store/memory: In-memory implementation for testing
  - store/supabase: Hosted PostgREST implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/gigdrive/metrics-engine/ledger"
)

// Store implements ledger.RecordStore using SQLite.
type Store struct {
	db *sql.DB
}

// New creates a SQLite store at the given path. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS transactions (
		id TEXT PRIMARY KEY,
		tx_type TEXT NOT NULL,
		date TEXT NOT NULL,
		value TEXT NOT NULL,
		category TEXT NOT NULL,
		subcategory TEXT,
		fuel_type TEXT,
		price_per_liter TEXT,
		observation TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);
	CREATE INDEX IF NOT EXISTS idx_transactions_type_date ON transactions(tx_type, date);

	CREATE TABLE IF NOT EXISTS odometer_events (
		id TEXT PRIMARY KEY,
		event_type TEXT NOT NULL,
		date TEXT NOT NULL,
		value INTEGER NOT NULL,
		pair_id TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_odometer_date ON odometer_events(date);
	CREATE INDEX IF NOT EXISTS idx_odometer_pair ON odometer_events(pair_id);

	CREATE TABLE IF NOT EXISTS work_sessions (
		id TEXT PRIMARY KEY,
		start_datetime TEXT NOT NULL,
		end_datetime TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_sessions_start ON work_sessions(start_datetime);

	CREATE TABLE IF NOT EXISTS profile (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		name TEXT,
		vehicle_model TEXT,
		fuel_consumption_km_per_liter TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

const instantLayout = time.RFC3339Nano

func encodeInstant(t time.Time) string { return t.UTC().Format(instantLayout) }

func decodeInstant(entity, id, field, raw string) (time.Time, error) {
	t, err := time.Parse(instantLayout, raw)
	if err != nil {
		return time.Time{}, &ledger.DataError{Entity: entity, ID: id, Field: field, Value: raw, Reason: "not an RFC 3339 instant"}
	}
	return t, nil
}

func decodeDecimal(entity, id, field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, &ledger.DataError{Entity: entity, ID: id, Field: field, Value: raw, Reason: "not a decimal"}
	}
	return d, nil
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func (s *Store) ListTransactions(ctx context.Context) ([]ledger.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tx_type, date, value, category,
		       COALESCE(subcategory, ''), COALESCE(fuel_type, ''),
		       COALESCE(price_per_liter, ''), COALESCE(observation, '')
		FROM transactions ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.Transaction
	for rows.Next() {
		var t ledger.Transaction
		var date, value, price string
		if err := rows.Scan(&t.ID, &t.Type, &date, &value, &t.Category,
			&t.Subcategory, &t.FuelType, &price, &t.Observation); err != nil {
			return nil, err
		}
		if t.Date, err = decodeInstant("transaction", t.ID, "date", date); err != nil {
			return nil, err
		}
		if t.Value, err = decodeDecimal("transaction", t.ID, "value", value); err != nil {
			return nil, err
		}
		if t.PricePerLiter, err = decodeDecimal("transaction", t.ID, "price_per_liter", price); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) SaveTransaction(ctx context.Context, t ledger.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, tx_type, date, value, category, subcategory, fuel_type, price_per_liter, observation)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			tx_type = excluded.tx_type,
			date = excluded.date,
			value = excluded.value,
			category = excluded.category,
			subcategory = excluded.subcategory,
			fuel_type = excluded.fuel_type,
			price_per_liter = excluded.price_per_liter,
			observation = excluded.observation`,
		t.ID, string(t.Type), encodeInstant(t.Date), t.Value.String(), t.Category,
		t.Subcategory, t.FuelType, t.PricePerLiter.String(), t.Observation)
	return err
}

func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "transactions", id)
}

// =============================================================================
// ODOMETER EVENTS
// =============================================================================

func (s *Store) ListOdometerEvents(ctx context.Context) ([]ledger.OdometerEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_type, date, value, COALESCE(pair_id, '')
		FROM odometer_events ORDER BY date`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.OdometerEvent
	for rows.Next() {
		var e ledger.OdometerEvent
		var date string
		if err := rows.Scan(&e.ID, &e.Type, &date, &e.Value, &e.PairID); err != nil {
			return nil, err
		}
		if e.Date, err = decodeInstant("odometer_event", e.ID, "date", date); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) SaveOdometerEvent(ctx context.Context, e ledger.OdometerEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO odometer_events (id, event_type, date, value, pair_id)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			event_type = excluded.event_type,
			date = excluded.date,
			value = excluded.value,
			pair_id = excluded.pair_id`,
		e.ID, string(e.Type), encodeInstant(e.Date), e.Value, e.PairID)
	return err
}

func (s *Store) DeleteOdometerEvent(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "odometer_events", id)
}

// =============================================================================
// WORK SESSIONS
// =============================================================================

func (s *Store) ListWorkSessions(ctx context.Context) ([]ledger.WorkSession, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, start_datetime, end_datetime
		FROM work_sessions ORDER BY start_datetime`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ledger.WorkSession
	for rows.Next() {
		var ws ledger.WorkSession
		var start string
		var end sql.NullString
		if err := rows.Scan(&ws.ID, &start, &end); err != nil {
			return nil, err
		}
		if ws.Start, err = decodeInstant("work_session", ws.ID, "start_datetime", start); err != nil {
			return nil, err
		}
		if end.Valid && end.String != "" {
			endAt, err := decodeInstant("work_session", ws.ID, "end_datetime", end.String)
			if err != nil {
				return nil, err
			}
			ws.End = &endAt
		}
		out = append(out, ws)
	}
	return out, rows.Err()
}

func (s *Store) SaveWorkSession(ctx context.Context, ws ledger.WorkSession) error {
	var end any
	if ws.End != nil {
		end = encodeInstant(*ws.End)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO work_sessions (id, start_datetime, end_datetime)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			start_datetime = excluded.start_datetime,
			end_datetime = excluded.end_datetime`,
		ws.ID, encodeInstant(ws.Start), end)
	return err
}

func (s *Store) DeleteWorkSession(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "work_sessions", id)
}

// =============================================================================
// PROFILE
// =============================================================================

func (s *Store) GetProfile(ctx context.Context) (ledger.UserProfile, error) {
	var p ledger.UserProfile
	var consumption string
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(name, ''), COALESCE(vehicle_model, ''), fuel_consumption_km_per_liter
		FROM profile WHERE id = 1`).Scan(&p.Name, &p.VehicleModel, &consumption)
	if err == sql.ErrNoRows {
		return ledger.UserProfile{}, ledger.ErrNotFound
	}
	if err != nil {
		return ledger.UserProfile{}, err
	}
	if p.FuelConsumptionKmPerLiter, err = decodeDecimal("profile", "1", "fuel_consumption_km_per_liter", consumption); err != nil {
		return ledger.UserProfile{}, err
	}
	return p, nil
}

func (s *Store) SaveProfile(ctx context.Context, p ledger.UserProfile) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO profile (id, name, vehicle_model, fuel_consumption_km_per_liter)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			vehicle_model = excluded.vehicle_model,
			fuel_consumption_km_per_liter = excluded.fuel_consumption_km_per_liter`,
		p.Name, p.VehicleModel, p.FuelConsumptionKmPerLiter.String())
	return err
}

func (s *Store) deleteByID(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

var _ ledger.RecordStore = (*Store)(nil)
