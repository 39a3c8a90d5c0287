/*
demo.go - Demo data seeding for testing and demonstrations

PURPOSE:

	Populates the store with two weeks of realistic driving data so every
	derived endpoint has something to show: daily trips, fuel stops with
	recorded pump prices, a maintenance expense, paired odometer readings,
	and work sessions including a night shift that crosses the 04:00
	working-day cutoff.

HOW SEEDING WORKS:
 1. Save the driver profile (consumption 11 km/l)
 2. For each of the last 14 days (skipping one rest day a week):
    - One odometer open/close pair sharing a pair_id
    - Two or three trip incomes
    - A work session covering the driving window
 3. A fuel stop every third day, priced per liter
 4. One maintenance expense mid-range

USAGE VIA API:

	POST /api/demo/load

NOTE:

	Seeding does not clear existing records; it layers demo records with
	fresh IDs. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Handler context and helpers
  - server.go: Route registration
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/gigdrive/metrics-engine/ledger"
)

// LoadDemoData seeds the store with two weeks of sample driving data.
func (h *Handler) LoadDemoData(w http.ResponseWriter, r *http.Request) {
	if err := seedDemoData(r.Context(), h.Store, h.Now()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed demo data", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "loaded"})
}

func seedDemoData(ctx context.Context, store ledger.RecordStore, now time.Time) error {
	profile := ledger.UserProfile{
		Name:                      "Demo Driver",
		VehicleModel:              "Onix 1.0",
		FuelConsumptionKmPerLiter: decimal.NewFromInt(11),
	}
	if err := store.SaveProfile(ctx, profile); err != nil {
		return err
	}

	odometer := int64(42000)
	for back := 14; back >= 1; back-- {
		day := ledger.StartOfDay(now.AddDate(0, 0, -back))

		// One rest day per week.
		if day.Weekday() == time.Sunday {
			continue
		}

		// Work window: 08:00 to 18:00, with a Friday night shift that
		// runs past the 04:00 cutoff into Saturday.
		start := day.Add(8 * time.Hour)
		end := day.Add(18 * time.Hour)
		if day.Weekday() == time.Friday {
			start = day.Add(19 * time.Hour)
			end = day.Add(29 * time.Hour) // 05:00 next day
		}
		if err := store.SaveWorkSession(ctx, ledger.WorkSession{
			ID:    uuid.NewString(),
			Start: start,
			End:   &end,
		}); err != nil {
			return err
		}

		// Odometer pair for the shift.
		distance := int64(120 + 15*int64(day.Weekday()))
		pairID := uuid.NewString()
		openEv := ledger.OdometerEvent{
			ID:     uuid.NewString(),
			Type:   ledger.OdoOpen,
			Date:   start,
			Value:  odometer,
			PairID: pairID,
		}
		closeEv := ledger.OdometerEvent{
			ID:     uuid.NewString(),
			Type:   ledger.OdoClose,
			Date:   end,
			Value:  odometer + distance,
			PairID: pairID,
		}
		odometer += distance
		if err := store.SaveOdometerEvent(ctx, openEv); err != nil {
			return err
		}
		if err := store.SaveOdometerEvent(ctx, closeEv); err != nil {
			return err
		}

		// Trip income through the day.
		for i, hour := range []int{10, 13, 16} {
			value := decimal.NewFromInt(60 + 10*int64(i) + 5*int64(day.Weekday()))
			if err := store.SaveTransaction(ctx, ledger.Transaction{
				ID:          uuid.NewString(),
				Type:        ledger.TxIncome,
				Date:        day.Add(time.Duration(hour) * time.Hour),
				Value:       value,
				Category:    "Trips",
				Observation: fmt.Sprintf("App payout #%d", i+1),
			}); err != nil {
				return err
			}
		}

		// Fuel stop every third day.
		if back%3 == 0 {
			if err := store.SaveTransaction(ctx, ledger.Transaction{
				ID:            uuid.NewString(),
				Type:          ledger.TxExpense,
				Date:          day.Add(12 * time.Hour),
				Value:         decimal.NewFromInt(90),
				Category:      ledger.CategoryFuel,
				FuelType:      "gasoline",
				PricePerLiter: decimal.RequireFromString("5.89"),
			}); err != nil {
				return err
			}
		}
	}

	// One maintenance expense mid-range.
	return store.SaveTransaction(ctx, ledger.Transaction{
		ID:          uuid.NewString(),
		Type:        ledger.TxExpense,
		Date:        ledger.StartOfDay(now.AddDate(0, 0, -7)).Add(9 * time.Hour),
		Value:       decimal.NewFromInt(180),
		Category:    "Maintenance",
		Subcategory: "Oil change",
	})
}
