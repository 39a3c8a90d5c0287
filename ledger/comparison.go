/*
comparison.go - Period-over-period percentage deltas

PURPOSE:
  Computes signed percentage changes between the current period's metrics
  and the previous period's, one delta per metric.

DENOMINATOR POLICY:
  percent = (current - previous) / |previous| * 100

  The denominator is always the ABSOLUTE value of the previous metric.
  A balance swinging from -50 toward 0 must read as a positive
  improvement; dividing by the raw negative value would invert the sign.

NO-BASELINE POLICY:
  previous == 0 and current > 0  ->  +100%
  previous == 0 otherwise        ->  explicit no-baseline sentinel

  Division by zero never happens and "0%" is never reported when there is
  truly no baseline to compare against. Values below 0.01 in magnitude
  are treated as exactly zero before comparing (they are floating-point
  noise after the 2dp rounding upstream).

  When the previous period itself does not exist (ErrNoPriorPeriod), the
  whole comparison is marked unavailable.
*/
package ledger

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DELTA - One metric's change, or an explicit "no baseline"
// =============================================================================

type DeltaState string

const (
	// DeltaComputed means Percent is a real signed change.
	DeltaComputed DeltaState = "computed"

	// DeltaNoBaseline means the previous value was zero (or noise) and no
	// meaningful percentage exists.
	DeltaNoBaseline DeltaState = "no_baseline"
)

// Delta is the change of a single metric between two periods.
type Delta struct {
	Percent decimal.Decimal `json:"percent"`
	State   DeltaState      `json:"state"`
}

// Comparison holds one delta per metric. Available is false when the
// previous period could not be resolved at all (no corresponding day one
// month earlier); the per-metric deltas are then zero-valued no-baseline
// sentinels.
type Comparison struct {
	Available bool `json:"available"`

	Revenue        Delta `json:"revenue"`
	Expense        Delta `json:"expense"`
	Balance        Delta `json:"balance"`
	Distance       Delta `json:"distance"`
	RevenuePerKm   Delta `json:"revenue_per_km"`
	Hours          Delta `json:"hours"`
	RevenuePerHour Delta `json:"revenue_per_hour"`
	FuelExpense    Delta `json:"fuel_expense"`
	Profit         Delta `json:"profit"`
}

// Compare computes per-metric deltas between two computed metric sets.
func Compare(current, previous Metrics) Comparison {
	return Comparison{
		Available:      true,
		Revenue:        deltaOf(current.Revenue, previous.Revenue),
		Expense:        deltaOf(current.Expense, previous.Expense),
		Balance:        deltaOf(current.Balance, previous.Balance),
		Distance:       deltaOf(decimal.NewFromInt(current.Distance), decimal.NewFromInt(previous.Distance)),
		RevenuePerKm:   deltaOf(current.RevenuePerKm, previous.RevenuePerKm),
		Hours:          deltaOf(decimal.NewFromFloat(current.Hours), decimal.NewFromFloat(previous.Hours)),
		RevenuePerHour: deltaOf(current.RevenuePerHour, previous.RevenuePerHour),
		FuelExpense:    deltaOf(current.FuelExpense, previous.FuelExpense),
		Profit:         deltaOf(current.Profit, previous.Profit),
	}
}

// UnavailableComparison is the result when the previous period does not
// exist: every delta is a no-baseline sentinel.
func UnavailableComparison() Comparison {
	nb := Delta{State: DeltaNoBaseline}
	return Comparison{
		Available: false,
		Revenue:   nb, Expense: nb, Balance: nb,
		Distance: nb, RevenuePerKm: nb,
		Hours: nb, RevenuePerHour: nb,
		FuelExpense: nb, Profit: nb,
	}
}

// noiseFloor: magnitudes below one cent are rounding noise, not data.
var noiseFloor = decimal.NewFromFloat(0.01)

// deltaOf applies the denominator and no-baseline policies to one metric.
func deltaOf(current, previous decimal.Decimal) Delta {
	current = snapToZero(current)
	previous = snapToZero(previous)

	if previous.IsZero() {
		if current.IsPositive() {
			return Delta{Percent: decimal.NewFromInt(100), State: DeltaComputed}
		}
		return Delta{State: DeltaNoBaseline}
	}

	pct := current.Sub(previous).
		Div(previous.Abs()).
		Mul(decimal.NewFromInt(100)).
		Round(1)
	return Delta{Percent: pct, State: DeltaComputed}
}

func snapToZero(d decimal.Decimal) decimal.Decimal {
	if d.Abs().LessThan(noiseFloor) {
		return decimal.Zero
	}
	return d
}
