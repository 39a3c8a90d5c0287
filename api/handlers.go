/*
handlers.go - HTTP API handlers for the driver metrics engine

PURPOSE:
  Exposes the metrics engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to domain logic in the ledger package.

ENDPOINTS:
  Records:
    GET    /api/transactions          List all transactions
    POST   /api/transactions          Create/replace a transaction
    DELETE /api/transactions/{id}     Delete a transaction
    GET    /api/odometer              List all odometer events
    POST   /api/odometer              Create/replace an odometer event
    DELETE /api/odometer/{id}         Delete an odometer event
    GET    /api/sessions              List all work sessions
    POST   /api/sessions              Create/replace a work session
    DELETE /api/sessions/{id}         Delete a work session
    GET    /api/profile               Get the driver profile
    PUT    /api/profile               Save the driver profile

  Derived (computed on demand, never stored):
    GET    /api/periods/resolve       Resolve a period token to an interval
    GET    /api/metrics               Metrics for a period
    GET    /api/metrics/comparison    Current vs previous-month period
    GET    /api/metrics/best-day      Highest-revenue day of a period
    GET    /api/cycles                Reconciled odometer cycles
    GET    /api/sessions/segments     Working-day session segments

PERIOD SELECTION:
  Derived endpoints take ?period=<token>. Tokens: today, yesterday,
  this-week, last-week, this-month, last-month, custom (with
  &start=YYYY-MM-DD&end=YYYY-MM-DD). Unknown tokens resolve to today.

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (resolve period, load records, compute)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, malformed records, invalid custom ranges
  - 404: Record not found
  - 500: Store failures, internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - demo.go: Demo data seeding
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gigdrive/metrics-engine/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store ledger.RecordStore

	// Now is the clock used for period resolution. Overridable in tests.
	Now func() time.Time
}

// NewHandler creates a new handler backed by the given store.
func NewHandler(store ledger.RecordStore) *Handler {
	return &Handler{Store: store, Now: time.Now}
}

// =============================================================================
// TRANSACTION HANDLERS
// =============================================================================

// ListTransactions returns all transactions, oldest first.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.Store.ListTransactions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list transactions", err)
		return
	}

	dtos := make([]TransactionDTO, len(txs))
	for i, t := range txs {
		dtos[i] = toTransactionDTO(t)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveTransaction creates or replaces a transaction.
func (h *Handler) SaveTransaction(w http.ResponseWriter, r *http.Request) {
	var req SaveTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	switch ledger.TransactionType(req.Type) {
	case ledger.TxIncome, ledger.TxExpense:
	default:
		writeError(w, http.StatusBadRequest, "Invalid transaction type (use income or expense)", nil)
		return
	}

	date, err := ledger.ParseInstant(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	if req.Value.IsNegative() {
		writeError(w, http.StatusBadRequest, "Value must be non-negative", nil)
		return
	}

	t := ledger.Transaction{
		ID:          req.ID,
		Type:        ledger.TransactionType(req.Type),
		Date:        date,
		Value:       req.Value,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		FuelType:    req.FuelType,
		Observation: req.Observation,
	}
	if req.PricePerLiter != nil {
		t.PricePerLiter = *req.PricePerLiter
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	if err := h.Store.SaveTransaction(r.Context(), t); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save transaction", err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionDTO(t))
}

// DeleteTransaction removes a transaction by ID.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, h.Store.DeleteTransaction)
}

// =============================================================================
// ODOMETER HANDLERS
// =============================================================================

// ListOdometerEvents returns all odometer events, oldest first.
func (h *Handler) ListOdometerEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.Store.ListOdometerEvents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list odometer events", err)
		return
	}

	dtos := make([]OdometerEventDTO, len(events))
	for i, e := range events {
		dtos[i] = toOdometerEventDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveOdometerEvent creates or replaces an odometer reading.
func (h *Handler) SaveOdometerEvent(w http.ResponseWriter, r *http.Request) {
	var req SaveOdometerEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	switch ledger.OdometerEventType(req.Type) {
	case ledger.OdoOpen, ledger.OdoClose:
	default:
		writeError(w, http.StatusBadRequest, "Invalid event type (use open or close)", nil)
		return
	}

	date, err := ledger.ParseInstant(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	if req.Value < 0 {
		writeError(w, http.StatusBadRequest, "Odometer value must be non-negative", nil)
		return
	}

	e := ledger.OdometerEvent{
		ID:     req.ID,
		Type:   ledger.OdometerEventType(req.Type),
		Date:   date,
		Value:  req.Value,
		PairID: req.PairID,
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	if err := h.Store.SaveOdometerEvent(r.Context(), e); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save odometer event", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOdometerEventDTO(e))
}

// DeleteOdometerEvent removes an odometer event by ID.
func (h *Handler) DeleteOdometerEvent(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, h.Store.DeleteOdometerEvent)
}

// GetCycles returns the reconciled cycles for a period.
func (h *Handler) GetCycles(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolvePeriodParam(w, r)
	if !ok {
		return
	}

	events, err := h.Store.ListOdometerEvents(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list odometer events", err)
		return
	}

	dtos := []CycleDTO{}
	for _, c := range ledger.Reconcile(events) {
		if p.ContainsDay(c.Day()) {
			dtos = append(dtos, toCycleDTO(c))
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// WORK SESSION HANDLERS
// =============================================================================

// ListWorkSessions returns all work sessions, oldest first.
func (h *Handler) ListWorkSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.Store.ListWorkSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list work sessions", err)
		return
	}

	dtos := make([]WorkSessionDTO, len(sessions))
	for i, s := range sessions {
		dtos[i] = toWorkSessionDTO(s)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// SaveWorkSession creates or replaces a work session. Saving an existing
// session with an end instant closes it.
func (h *Handler) SaveWorkSession(w http.ResponseWriter, r *http.Request) {
	var req SaveWorkSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := ledger.ParseInstant(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start", err)
		return
	}

	s := ledger.WorkSession{ID: req.ID, Start: start}
	if req.End != nil {
		end, err := ledger.ParseInstant(*req.End)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end", err)
			return
		}
		if !end.After(start) {
			writeError(w, http.StatusBadRequest, "End must be after start", nil)
			return
		}
		s.End = &end
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}

	if err := h.Store.SaveWorkSession(r.Context(), s); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save work session", err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkSessionDTO(s))
}

// DeleteWorkSession removes a work session by ID.
func (h *Handler) DeleteWorkSession(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, h.Store.DeleteWorkSession)
}

// GetSegments returns the working-day segments for a period.
func (h *Handler) GetSegments(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolvePeriodParam(w, r)
	if !ok {
		return
	}

	sessions, err := h.Store.ListWorkSessions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list work sessions", err)
		return
	}

	segs, err := ledger.AttributeWorkingDays(sessions)
	if err != nil {
		writeLedgerError(w, "Failed to attribute working days", err)
		return
	}

	dtos := []SegmentDTO{}
	for _, seg := range segs {
		if p.ContainsDay(seg.WorkingDay) {
			dtos = append(dtos, toSegmentDTO(seg))
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// PROFILE HANDLERS
// =============================================================================

// GetProfile returns the driver profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.Store.GetProfile(r.Context())
	if err != nil {
		if ledger.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Profile not configured", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile", err)
		return
	}
	writeJSON(w, http.StatusOK, ProfileDTO{
		Name:                      p.Name,
		VehicleModel:              p.VehicleModel,
		FuelConsumptionKmPerLiter: p.FuelConsumptionKmPerLiter,
	})
}

// SaveProfile replaces the driver profile.
func (h *Handler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	var req ProfileDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.FuelConsumptionKmPerLiter.IsNegative() {
		writeError(w, http.StatusBadRequest, "Fuel consumption must be non-negative", nil)
		return
	}

	p := ledger.UserProfile{
		Name:                      req.Name,
		VehicleModel:              req.VehicleModel,
		FuelConsumptionKmPerLiter: req.FuelConsumptionKmPerLiter,
	}
	if err := h.Store.SaveProfile(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save profile", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// =============================================================================
// DERIVED ENDPOINTS
// =============================================================================

// ResolvePeriod resolves a period token to its concrete interval.
func (h *Handler) ResolvePeriod(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolvePeriodParam(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, toPeriodDTO(p))
}

// GetMetrics computes the metrics block for a period.
func (h *Handler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolvePeriodParam(w, r)
	if !ok {
		return
	}

	in, err := ledger.LoadInputs(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	m, err := ledger.Compute(in, p)
	if err != nil {
		writeLedgerError(w, "Failed to compute metrics", err)
		return
	}
	writeJSON(w, http.StatusOK, toMetricsDTO(p, m))
}

// GetComparison computes current metrics against the previous-month
// period. When no prior period exists (day-of-month missing in the
// prior month) the comparison is reported unavailable, not an error.
func (h *Handler) GetComparison(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolvePeriodParam(w, r)
	if !ok {
		return
	}

	in, err := ledger.LoadInputs(r.Context(), h.Store)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	cur, err := ledger.Compute(in, p)
	if err != nil {
		writeLedgerError(w, "Failed to compute metrics", err)
		return
	}
	curDTO := toMetricsDTO(p, cur)

	prevPeriod, err := ledger.Previous(p)
	if err != nil {
		dto := toComparisonDTO(ledger.UnavailableComparison())
		dto.Current = &curDTO
		writeJSON(w, http.StatusOK, dto)
		return
	}

	prev, err := ledger.Compute(in, prevPeriod)
	if err != nil {
		writeLedgerError(w, "Failed to compute previous metrics", err)
		return
	}
	prevDTO := toMetricsDTO(prevPeriod, prev)

	dto := toComparisonDTO(ledger.Compare(cur, prev))
	dto.Current = &curDTO
	dto.Previous = &prevDTO
	writeJSON(w, http.StatusOK, dto)
}

// GetBestDay returns the highest-revenue day of a period.
func (h *Handler) GetBestDay(w http.ResponseWriter, r *http.Request) {
	p, ok := h.resolvePeriodParam(w, r)
	if !ok {
		return
	}

	txs, err := h.Store.ListTransactions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list transactions", err)
		return
	}

	best := ledger.BestRevenueDay(txs, p)
	dto := BestDayDTO{Found: best.Found, Revenue: decimal.Zero}
	if best.Found {
		dto.Day = string(best.Day)
		dto.Revenue = best.Revenue
		dto.Trips = best.Trips
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// HELPERS
// =============================================================================

// resolvePeriodParam reads ?period= (&start=&end= for custom) and
// resolves it. Writes the error response itself and returns ok=false on
// failure.
func (h *Handler) resolvePeriodParam(w http.ResponseWriter, r *http.Request) (ledger.Period, bool) {
	kind := ledger.ParsePeriodKind(r.URL.Query().Get("period"))

	var customStart, customEnd time.Time
	if kind == ledger.PeriodCustom {
		var err error
		if customStart, err = ledger.ParseInstant(r.URL.Query().Get("start")); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid start", err)
			return ledger.Period{}, false
		}
		if customEnd, err = ledger.ParseInstant(r.URL.Query().Get("end")); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid end", err)
			return ledger.Period{}, false
		}
	}

	p, err := ledger.Resolve(kind, h.Now(), customStart, customEnd)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return ledger.Period{}, false
	}
	return p, true
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request, del func(ctx context.Context, id string) error) {
	id := chi.URLParam(r, "id")
	if err := del(r.Context(), id); err != nil {
		if ledger.IsNotFound(err) {
			writeError(w, http.StatusNotFound, "Record not found", nil)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete record", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeLedgerError maps domain errors to HTTP status: malformed records
// are the client's data problem (400), everything else is internal.
func writeLedgerError(w http.ResponseWriter, message string, err error) {
	if ledger.IsClientError(err) {
		writeError(w, http.StatusBadRequest, message, err)
		return
	}
	writeError(w, http.StatusInternalServerError, message, err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
