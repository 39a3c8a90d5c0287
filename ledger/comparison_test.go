package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigdrive/metrics-engine/ledger"
)

func metricsWith(revenue, balance float64) ledger.Metrics {
	return ledger.Metrics{
		Revenue: dec(revenue),
		Expense: decimal.Zero,
		Balance: dec(balance),
	}
}

// =============================================================================
// DENOMINATOR POLICY
// =============================================================================

func TestCompare_PercentAgainstAbsolutePrevious(t *testing.T) {
	cur := metricsWith(150, 150)
	prev := metricsWith(100, 100)

	c := ledger.Compare(cur, prev)

	require.Equal(t, ledger.DeltaComputed, c.Revenue.State)
	decEq(t, 50, c.Revenue.Percent)
}

func TestCompare_NegativePreviousBalance_SignStaysCorrect(t *testing.T) {
	// GIVEN: balance improved from -50 to -25
	cur := metricsWith(0, -25)
	prev := metricsWith(0, -50)

	c := ledger.Compare(cur, prev)

	// THEN: (-25 - -50) / |-50| * 100 = +50: an improvement reads positive,
	// not sign-inverted by the negative denominator
	require.Equal(t, ledger.DeltaComputed, c.Balance.State)
	decEq(t, 50, c.Balance.Percent)
}

func TestCompare_SignCorrectness_Property(t *testing.T) {
	// For any previous != 0: current > previous implies percent > 0.
	cases := []struct{ cur, prev float64 }{
		{150, 100},
		{-10, -50},
		{10, -50},
		{0.5, -3},
	}
	for _, tc := range cases {
		c := ledger.Compare(metricsWith(0, tc.cur), metricsWith(0, tc.prev))
		require.Equal(t, ledger.DeltaComputed, c.Balance.State)
		assert.True(t, c.Balance.Percent.IsPositive(),
			"cur=%v prev=%v gave %s%%", tc.cur, tc.prev, c.Balance.Percent)
	}
}

// =============================================================================
// NO-BASELINE POLICY
// =============================================================================

func TestCompare_PreviousZero_CurrentPositive_Plus100(t *testing.T) {
	c := ledger.Compare(metricsWith(80, 80), metricsWith(0, 0))

	require.Equal(t, ledger.DeltaComputed, c.Revenue.State)
	decEq(t, 100, c.Revenue.Percent)
}

func TestCompare_BothZero_NoBaselineSentinel(t *testing.T) {
	// Never "+Inf%", never a fake "0%" when there is truly no baseline.
	c := ledger.Compare(metricsWith(0, 0), metricsWith(0, 0))

	assert.Equal(t, ledger.DeltaNoBaseline, c.Revenue.State)
	assert.True(t, c.Revenue.Percent.IsZero())
}

func TestCompare_PreviousZero_CurrentNegative_NoBaseline(t *testing.T) {
	c := ledger.Compare(metricsWith(0, -30), metricsWith(0, 0))

	assert.Equal(t, ledger.DeltaNoBaseline, c.Balance.State)
}

func TestCompare_SubCentPrevious_TreatedAsZero(t *testing.T) {
	// GIVEN: a previous value that is floating-point noise (< 0.01)
	c := ledger.Compare(metricsWith(50, 50), metricsWith(0.004, 0.004))

	// THEN: treated as a zero baseline -> +100%, not a million-percent swing
	require.Equal(t, ledger.DeltaComputed, c.Revenue.State)
	decEq(t, 100, c.Revenue.Percent)
}

func TestUnavailableComparison_AllSentinels(t *testing.T) {
	c := ledger.UnavailableComparison()

	assert.False(t, c.Available)
	for _, d := range []ledger.Delta{
		c.Revenue, c.Expense, c.Balance, c.Distance, c.RevenuePerKm,
		c.Hours, c.RevenuePerHour, c.FuelExpense, c.Profit,
	} {
		assert.Equal(t, ledger.DeltaNoBaseline, d.State)
	}
}

// =============================================================================
// END TO END: CURRENT VS PREVIOUS PERIOD
// =============================================================================

func TestCompare_AcrossResolvedPeriods(t *testing.T) {
	// GIVEN: 100 revenue on Feb 15, 150 on Mar 15
	feb := local(2024, time.February, 15, 10, 0)
	mar := local(2024, time.March, 15, 10, 0)
	in := ledger.Inputs{
		Transactions: []ledger.Transaction{
			income("t1", feb, 100),
			income("t2", mar, 150),
		},
	}

	p := mustResolve(t, ledger.PeriodToday, mar)
	prevPeriod, err := ledger.Previous(p)
	require.NoError(t, err)

	cur, err := ledger.Compute(in, p)
	require.NoError(t, err)
	prev, err := ledger.Compute(in, prevPeriod)
	require.NoError(t, err)

	c := ledger.Compare(cur, prev)

	require.Equal(t, ledger.DeltaComputed, c.Revenue.State)
	decEq(t, 50, c.Revenue.Percent)
}
