/*
metrics.go - The metrics aggregator

PURPOSE:
  Combines in-window transactions, reconciled cycle distances and
  attributed work hours into the full metric set for one period. This is
  the ONE canonical computation: every UI card is a projection of the
  Metrics value produced here, never a parallel re-implementation.

FORMULAS:
  revenue        = sum of income values with date in [start, end]
  expense        = sum of expense values in-window
  balance        = revenue - expense
  distance       = sum of closed-cycle distances attributed in-window
  revenue/km     = revenue / distance   (0 when distance is 0)
  hours          = sum of segment durations booked in-window
  revenue/hour   = revenue / hours      (0 when hours is 0)
  fuelExpense    = distance / consumption * avg fuel price per liter
  profit         = revenue - fuelExpense

  The average fuel price is the mean price_per_liter over in-window fuel
  expenses, falling back to the most recent known price anywhere in
  history. Missing consumption or price degrades fuelExpense to zero
  WITH an explicit FuelStatus so callers render "configure profile"
  instead of a fake zero.

ROUNDING:
  Monetary outputs are rounded to 2 decimal places here, BEFORE any
  percentage-delta computation, so comparisons never report spurious
  sub-cent swings.

  No data in-window is a legitimate state: all-zero metrics, no error.
*/
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Inputs bundles the already-loaded record collections a metrics
// computation runs over. The core performs no I/O: callers load these from
// the record store first.
type Inputs struct {
	Transactions []Transaction
	Odometer     []OdometerEvent
	Sessions     []WorkSession
	Profile      UserProfile
}

// Compute derives the full metric set for one period. Pure and
// deterministic given identical inputs; cheap enough to recompute on every
// read for per-user volumes (hundreds to low thousands of records).
func Compute(in Inputs, p Period) (Metrics, error) {
	m := Metrics{
		Period:  p,
		Revenue: decimal.Zero,
		Expense: decimal.Zero,
	}

	for _, t := range in.Transactions {
		if !p.Contains(t.Date) {
			continue
		}
		switch t.Type {
		case TxIncome:
			m.Revenue = m.Revenue.Add(t.Value)
		case TxExpense:
			m.Expense = m.Expense.Add(t.Value)
		}
	}
	m.Revenue = money(m.Revenue)
	m.Expense = money(m.Expense)
	m.Balance = money(m.Revenue.Sub(m.Expense))

	m.Distance = DistanceInPeriod(Reconcile(in.Odometer), p)
	if m.Distance > 0 {
		m.RevenuePerKm = money(m.Revenue.Div(decimal.NewFromInt(m.Distance)))
	} else {
		m.RevenuePerKm = decimal.Zero
	}

	segs, err := AttributeWorkingDays(in.Sessions)
	if err != nil {
		return Metrics{}, err
	}
	m.Hours = HoursInPeriod(segs, p)
	if m.Hours > 0 {
		m.RevenuePerHour = money(m.Revenue.Div(decimal.NewFromFloat(m.Hours)))
	} else {
		m.RevenuePerHour = decimal.Zero
	}

	m.FuelExpense, m.FuelStatus = fuelExpense(in, p, m.Distance)
	m.Profit = money(m.Revenue.Sub(m.FuelExpense))

	return m, nil
}

// fuelExpense estimates the fuel cost of the in-window distance.
// Returns (0, status) when the profile or price data is missing: a zero
// with a non-known status means "cannot know", not "costs nothing".
func fuelExpense(in Inputs, p Period, distance int64) (decimal.Decimal, FuelStatus) {
	if !in.Profile.HasConsumption() {
		return decimal.Zero, FuelMissingConsumption
	}
	price, ok := averageFuelPrice(in.Transactions, p)
	if !ok {
		return decimal.Zero, FuelMissingPrice
	}
	liters := decimal.NewFromInt(distance).Div(in.Profile.FuelConsumptionKmPerLiter)
	return money(liters.Mul(price)), FuelKnown
}

// averageFuelPrice returns the mean price_per_liter over in-window fuel
// expenses, or the most recent known price anywhere in history when the
// window has none. ok is false when no price was ever recorded.
func averageFuelPrice(txs []Transaction, p Period) (decimal.Decimal, bool) {
	sum, count := decimal.Zero, int64(0)
	for _, t := range txs {
		if t.IsFuel() && t.PricePerLiter.IsPositive() && p.Contains(t.Date) {
			sum = sum.Add(t.PricePerLiter)
			count++
		}
	}
	if count > 0 {
		return sum.Div(decimal.NewFromInt(count)), true
	}

	// Fallback: latest priced fuel record in the whole history.
	priced := make([]Transaction, 0)
	for _, t := range txs {
		if t.IsFuel() && t.PricePerLiter.IsPositive() {
			priced = append(priced, t)
		}
	}
	if len(priced) == 0 {
		return decimal.Zero, false
	}
	sort.Slice(priced, func(i, j int) bool { return priced[i].Date.After(priced[j].Date) })
	return priced[0].PricePerLiter, true
}
