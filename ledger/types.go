/*
Package ledger provides the financial metrics core for the driver dashboard.

PURPOSE:
  This package contains the types and algorithms that turn raw driver
  records (income/expense transactions, odometer open/close events,
  work-hour sessions) into period-bounded metrics: revenue, expenses,
  distance driven, hours worked, revenue per km / per hour, fuel cost
  and profit, plus period-over-period comparisons.

KEY CONCEPTS IN THIS FILE (types.go):
  - Transaction:   An income or expense record
  - OdometerEvent: An open or close odometer reading; a matched pair is a Cycle
  - WorkSession:   A work-hours interval, possibly crossing midnight
  - Cycle:         A reconciled trip cycle (distance = close − open)
  - WorkSegment:   A day-attributed slice of a work session
  - Metrics:       The derived value object for one period

DESIGN PRINCIPLES:
  1. Purity: Cycles, segments and metrics are recomputed on every read.
     Nothing derived is ever persisted.
  2. Precision: Uses decimal.Decimal for money to avoid floating-point errors.
  3. Local time: Every day-boundary decision happens in the operating
     timezone (fixed UTC-3), never in raw UTC.

SEE ALSO:
  - period.go:     Period resolution and previous-period rules
  - cycles.go:     Odometer pairing and distance attribution
  - sessions.go:   Work-hour cutoff splitting
  - metrics.go:    The aggregator
  - comparison.go: Percentage deltas between periods
*/
package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TRANSACTIONS - Income and expense records
// =============================================================================

type TransactionType string

const (
	TxIncome  TransactionType = "income"
	TxExpense TransactionType = "expense"
)

// CategoryFuel marks expense transactions that feed the fuel-price average.
const CategoryFuel = "Fuel"

// Transaction is a single income or expense record.
// Value is always non-negative; Type carries the sign.
type Transaction struct {
	ID            string          `json:"id"`
	Type          TransactionType `json:"type"`
	Date          time.Time       `json:"date"`
	Value         decimal.Decimal `json:"value"`
	Category      string          `json:"category"`
	Subcategory   string          `json:"subcategory,omitempty"`
	FuelType      string          `json:"fuel_type,omitempty"`
	PricePerLiter decimal.Decimal `json:"price_per_liter,omitempty"`
	Observation   string          `json:"observation,omitempty"`
}

// IsFuel reports whether the transaction is a fuel expense.
func (t Transaction) IsFuel() bool {
	return t.Type == TxExpense && t.Category == CategoryFuel
}

// =============================================================================
// ODOMETER EVENTS AND CYCLES
// =============================================================================

type OdometerEventType string

const (
	OdoOpen  OdometerEventType = "open"
	OdoClose OdometerEventType = "close"
)

// OdometerEvent is one odometer reading. An open and a close sharing a
// PairID form a Cycle. PairID defaults to the event's own ID when empty.
type OdometerEvent struct {
	ID     string            `json:"id"`
	Type   OdometerEventType `json:"type"`
	Date   time.Time         `json:"date"`
	Value  int64             `json:"value"`
	PairID string            `json:"pair_id,omitempty"`
}

// Pair returns the correlation key used for primary pairing.
func (e OdometerEvent) Pair() string {
	if e.PairID != "" {
		return e.PairID
	}
	return e.ID
}

// Cycle is a reconciled trip cycle. Open is always set; Close is nil for a
// dangling (in-progress) cycle. Derived, never persisted.
type Cycle struct {
	Open  *OdometerEvent `json:"open"`
	Close *OdometerEvent `json:"close,omitempty"`
}

// Closed reports whether the cycle has both endpoints.
func (c Cycle) Closed() bool { return c.Open != nil && c.Close != nil }

// Distance returns the cycle distance in km. Dangling cycles and cycles
// whose close reading does not exceed the open reading contribute zero.
func (c Cycle) Distance() int64 {
	if !c.Closed() {
		return 0
	}
	d := c.Close.Value - c.Open.Value
	if d <= 0 {
		return 0
	}
	return d
}

// Day returns the local calendar day the cycle's distance is attributed to:
// the day of the open event, even when the close falls on a later day.
func (c Cycle) Day() DayKey { return Day(c.Open.Date) }

// =============================================================================
// WORK SESSIONS AND SEGMENTS
// =============================================================================

// WorkSession is a work-hours interval. End is nil while in progress.
// Invariant once closed: End after Start.
type WorkSession struct {
	ID    string     `json:"id"`
	Start time.Time  `json:"start_datetime"`
	End   *time.Time `json:"end_datetime,omitempty"`
}

// InProgress reports whether the session is still open.
func (s WorkSession) InProgress() bool { return s.End == nil }

// WorkSegment is a day-attributed slice of a work session produced by the
// cutoff splitter. WorkingDay is the calendar day the hours are booked to,
// which is not necessarily the day the segment starts on.
type WorkSegment struct {
	SessionID  string    `json:"session_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	WorkingDay DayKey    `json:"working_day"`
}

// Hours returns the wall-clock duration of the segment in hours.
func (s WorkSegment) Hours() float64 {
	return s.End.Sub(s.Start).Hours()
}

// =============================================================================
// USER PROFILE
// =============================================================================

// UserProfile carries the vehicle constants needed for fuel-cost derivation.
// A zero FuelConsumptionKmPerLiter means the profile is incomplete.
type UserProfile struct {
	Name                      string          `json:"name,omitempty"`
	VehicleModel              string          `json:"vehicle_model,omitempty"`
	FuelConsumptionKmPerLiter decimal.Decimal `json:"fuel_consumption_km_per_liter"`
}

// HasConsumption reports whether the fuel-consumption constant is configured.
func (p UserProfile) HasConsumption() bool {
	return p.FuelConsumptionKmPerLiter.IsPositive()
}

// =============================================================================
// METRICS - Derived value object, recomputed on every read
// =============================================================================

// FuelStatus distinguishes a real fuel cost from "we cannot know".
// A zero FuelExpense with a non-known status must be surfaced as
// "configure profile", never as a genuine zero cost.
type FuelStatus string

const (
	// FuelKnown means consumption and price were available and
	// FuelExpense/Profit are real numbers.
	FuelKnown FuelStatus = "known"

	// FuelMissingConsumption means the profile has no km-per-liter constant.
	FuelMissingConsumption FuelStatus = "missing_consumption"

	// FuelMissingPrice means no fuel price was found in-window or anywhere
	// in history.
	FuelMissingPrice FuelStatus = "missing_price"
)

// Metrics is the full metric set for one period. Monetary fields are
// rounded to 2 decimal places so downstream comparisons never report
// spurious sub-cent swings.
type Metrics struct {
	Period Period `json:"period"`

	Revenue decimal.Decimal `json:"revenue"`
	Expense decimal.Decimal `json:"expense"`
	Balance decimal.Decimal `json:"balance"`

	Distance     int64           `json:"distance_km"`
	RevenuePerKm decimal.Decimal `json:"revenue_per_km"`

	Hours          float64         `json:"hours"`
	RevenuePerHour decimal.Decimal `json:"revenue_per_hour"`

	FuelExpense decimal.Decimal `json:"fuel_expense"`
	Profit      decimal.Decimal `json:"profit"`
	FuelStatus  FuelStatus      `json:"fuel_status"`
}

// money rounds a monetary value to 2 decimal places.
func money(d decimal.Decimal) decimal.Decimal { return d.Round(2) }
