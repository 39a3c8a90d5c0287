/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

DATES ON THE WIRE:
  Record dates are accepted as RFC 3339 instants or bare YYYY-MM-DD
  dates (parsed in the dashboard's fixed zone). Responses always emit
  RFC 3339.

MONEY ON THE WIRE:
  Monetary fields are decimal (serialized as JSON numbers by shopspring),
  never float64.

SEE ALSO:
  - handlers.go: Uses these types
  - ledger/types.go: Domain model
*/
package api

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/gigdrive/metrics-engine/ledger"
)

// =============================================================================
// RECORD TYPES
// =============================================================================

// TransactionDTO represents an income or expense record.
type TransactionDTO struct {
	ID            string           `json:"id"`
	Type          string           `json:"type"`
	Date          string           `json:"date"`
	Value         decimal.Decimal  `json:"value"`
	Category      string           `json:"category"`
	Subcategory   string           `json:"subcategory,omitempty"`
	FuelType      string           `json:"fuel_type,omitempty"`
	PricePerLiter *decimal.Decimal `json:"price_per_liter,omitempty"`
	Observation   string           `json:"observation,omitempty"`
}

// SaveTransactionRequest creates or replaces a transaction.
// An empty ID means "create": the server assigns one.
type SaveTransactionRequest struct {
	ID            string           `json:"id,omitempty"`
	Type          string           `json:"type"`
	Date          string           `json:"date"`
	Value         decimal.Decimal  `json:"value"`
	Category      string           `json:"category"`
	Subcategory   string           `json:"subcategory,omitempty"`
	FuelType      string           `json:"fuel_type,omitempty"`
	PricePerLiter *decimal.Decimal `json:"price_per_liter,omitempty"`
	Observation   string           `json:"observation,omitempty"`
}

// OdometerEventDTO represents an odometer open or close reading.
type OdometerEventDTO struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Date   string `json:"date"`
	Value  int64  `json:"value"`
	PairID string `json:"pair_id,omitempty"`
}

// SaveOdometerEventRequest creates or replaces an odometer event.
type SaveOdometerEventRequest struct {
	ID     string `json:"id,omitempty"`
	Type   string `json:"type"`
	Date   string `json:"date"`
	Value  int64  `json:"value"`
	PairID string `json:"pair_id,omitempty"`
}

// WorkSessionDTO represents a work interval. End is absent while the
// session is in progress.
type WorkSessionDTO struct {
	ID    string  `json:"id"`
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// SaveWorkSessionRequest creates or replaces a work session. Omitting
// end records an in-progress session; saving again with end closes it.
type SaveWorkSessionRequest struct {
	ID    string  `json:"id,omitempty"`
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// ProfileDTO represents the driver's vehicle constants.
type ProfileDTO struct {
	Name                      string          `json:"name,omitempty"`
	VehicleModel              string          `json:"vehicle_model,omitempty"`
	FuelConsumptionKmPerLiter decimal.Decimal `json:"fuel_consumption_km_per_liter"`
}

// =============================================================================
// DERIVED TYPES
// =============================================================================

// PeriodDTO is a resolved period interval.
type PeriodDTO struct {
	Kind  string `json:"kind"`
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// MetricsDTO is the full metrics block for one period.
type MetricsDTO struct {
	Period         PeriodDTO       `json:"period"`
	Revenue        decimal.Decimal `json:"revenue"`
	Expense        decimal.Decimal `json:"expense"`
	Balance        decimal.Decimal `json:"balance"`
	Distance       int64           `json:"distance_km"`
	RevenuePerKm   decimal.Decimal `json:"revenue_per_km"`
	Hours          float64         `json:"hours"`
	RevenuePerHour decimal.Decimal `json:"revenue_per_hour"`
	FuelExpense    decimal.Decimal `json:"fuel_expense"`
	FuelStatus     string          `json:"fuel_status"`
	Profit         decimal.Decimal `json:"profit"`
}

// DeltaDTO is one metric's change against the previous period. Percent
// is absent when there is no meaningful baseline.
type DeltaDTO struct {
	Percent *decimal.Decimal `json:"percent,omitempty"`
	State   string           `json:"state"`
}

// ComparisonDTO is the current-vs-previous period report.
type ComparisonDTO struct {
	Available      bool        `json:"available"`
	Current        *MetricsDTO `json:"current,omitempty"`
	Previous       *MetricsDTO `json:"previous,omitempty"`
	Revenue        DeltaDTO    `json:"revenue"`
	Expense        DeltaDTO    `json:"expense"`
	Balance        DeltaDTO    `json:"balance"`
	Distance       DeltaDTO    `json:"distance_km"`
	RevenuePerKm   DeltaDTO    `json:"revenue_per_km"`
	Hours          DeltaDTO    `json:"hours"`
	RevenuePerHour DeltaDTO    `json:"revenue_per_hour"`
	FuelExpense    DeltaDTO    `json:"fuel_expense"`
	Profit         DeltaDTO    `json:"profit"`
}

// CycleDTO is one reconciled odometer cycle.
type CycleDTO struct {
	Day        string            `json:"day"`
	DistanceKm int64             `json:"distance_km"`
	Closed     bool              `json:"closed"`
	Open       OdometerEventDTO  `json:"open"`
	Close      *OdometerEventDTO `json:"close,omitempty"`
}

// SegmentDTO is one working-day slice of a work session.
type SegmentDTO struct {
	SessionID  string  `json:"session_id"`
	WorkingDay string  `json:"working_day"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	Hours      float64 `json:"hours"`
}

// BestDayDTO is the highest-revenue day of a period.
type BestDayDTO struct {
	Found   bool            `json:"found"`
	Day     string          `json:"day,omitempty"`
	Revenue decimal.Decimal `json:"revenue"`
	Trips   int             `json:"trips"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toTransactionDTO(t ledger.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:          t.ID,
		Type:        string(t.Type),
		Date:        t.Date.UTC().Format(time.RFC3339),
		Value:       t.Value,
		Category:    t.Category,
		Subcategory: t.Subcategory,
		FuelType:    t.FuelType,
		Observation: t.Observation,
	}
	if !t.PricePerLiter.IsZero() {
		p := t.PricePerLiter
		dto.PricePerLiter = &p
	}
	return dto
}

func toOdometerEventDTO(e ledger.OdometerEvent) OdometerEventDTO {
	return OdometerEventDTO{
		ID:     e.ID,
		Type:   string(e.Type),
		Date:   e.Date.UTC().Format(time.RFC3339),
		Value:  e.Value,
		PairID: e.PairID,
	}
}

func toWorkSessionDTO(s ledger.WorkSession) WorkSessionDTO {
	dto := WorkSessionDTO{
		ID:    s.ID,
		Start: s.Start.UTC().Format(time.RFC3339),
	}
	if s.End != nil {
		end := s.End.UTC().Format(time.RFC3339)
		dto.End = &end
	}
	return dto
}

func toPeriodDTO(p ledger.Period) PeriodDTO {
	return PeriodDTO{
		Kind:  string(p.Kind),
		Start: p.Start.UTC().Format(time.RFC3339),
		End:   p.End.UTC().Format(time.RFC3339),
		Days:  p.Days(),
	}
}

func toMetricsDTO(p ledger.Period, m ledger.Metrics) MetricsDTO {
	return MetricsDTO{
		Period:         toPeriodDTO(p),
		Revenue:        m.Revenue,
		Expense:        m.Expense,
		Balance:        m.Balance,
		Distance:       m.Distance,
		RevenuePerKm:   m.RevenuePerKm,
		Hours:          m.Hours,
		RevenuePerHour: m.RevenuePerHour,
		FuelExpense:    m.FuelExpense,
		FuelStatus:     string(m.FuelStatus),
		Profit:         m.Profit,
	}
}

func toDeltaDTO(d ledger.Delta) DeltaDTO {
	if d.State != ledger.DeltaComputed {
		return DeltaDTO{State: string(d.State)}
	}
	p := d.Percent
	return DeltaDTO{Percent: &p, State: string(d.State)}
}

func toComparisonDTO(c ledger.Comparison) ComparisonDTO {
	return ComparisonDTO{
		Available:      c.Available,
		Revenue:        toDeltaDTO(c.Revenue),
		Expense:        toDeltaDTO(c.Expense),
		Balance:        toDeltaDTO(c.Balance),
		Distance:       toDeltaDTO(c.Distance),
		RevenuePerKm:   toDeltaDTO(c.RevenuePerKm),
		Hours:          toDeltaDTO(c.Hours),
		RevenuePerHour: toDeltaDTO(c.RevenuePerHour),
		FuelExpense:    toDeltaDTO(c.FuelExpense),
		Profit:         toDeltaDTO(c.Profit),
	}
}

func toCycleDTO(c ledger.Cycle) CycleDTO {
	dto := CycleDTO{
		Day:        string(c.Day()),
		DistanceKm: c.Distance(),
		Closed:     c.Closed(),
		Open:       toOdometerEventDTO(*c.Open),
	}
	if c.Close != nil {
		closeDTO := toOdometerEventDTO(*c.Close)
		dto.Close = &closeDTO
	}
	return dto
}

func toSegmentDTO(s ledger.WorkSegment) SegmentDTO {
	return SegmentDTO{
		SessionID:  s.SessionID,
		WorkingDay: string(s.WorkingDay),
		Start:      s.Start.UTC().Format(time.RFC3339),
		End:        s.End.UTC().Format(time.RFC3339),
		Hours:      s.Hours(),
	}
}
