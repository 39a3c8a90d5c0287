package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigdrive/metrics-engine/ledger"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestTransactions_RoundTripPreservesDecimalAndInstant(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// GIVEN: a fuel expense with a sub-cent price per liter
	at := time.Date(2024, time.March, 10, 14, 30, 0, 0, time.UTC)
	tx := ledger.Transaction{
		ID:            "t1",
		Type:          ledger.TxExpense,
		Date:          at,
		Value:         decimal.RequireFromString("89.90"),
		Category:      ledger.CategoryFuel,
		FuelType:      "gasoline",
		PricePerLiter: decimal.RequireFromString("5.899"),
		Observation:   "full tank",
	}
	require.NoError(t, s.SaveTransaction(ctx, tx))

	// WHEN: reading it back
	txs, err := s.ListTransactions(ctx)
	require.NoError(t, err)

	require.Len(t, txs, 1)
	got := txs[0]
	assert.Equal(t, tx.ID, got.ID)
	assert.True(t, got.Date.Equal(at))
	assert.True(t, got.Value.Equal(tx.Value), "value: got %s", got.Value)
	assert.True(t, got.PricePerLiter.Equal(tx.PricePerLiter), "price: got %s", got.PricePerLiter)
	assert.Equal(t, "full tank", got.Observation)
}

func TestTransactions_SaveIsUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tx := ledger.Transaction{
		ID:       "t1",
		Type:     ledger.TxIncome,
		Date:     time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC),
		Value:    decimal.NewFromInt(100),
		Category: "Trips",
	}
	require.NoError(t, s.SaveTransaction(ctx, tx))

	tx.Value = decimal.NewFromInt(120)
	require.NoError(t, s.SaveTransaction(ctx, tx))

	txs, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.True(t, txs[0].Value.Equal(decimal.NewFromInt(120)))
}

func TestTransactions_ListOrderedByDate(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, time.March, 10, 10, 0, 0, 0, time.UTC)
	for _, tx := range []ledger.Transaction{
		{ID: "late", Type: ledger.TxIncome, Date: base.Add(4 * time.Hour), Value: decimal.NewFromInt(1), Category: "Trips"},
		{ID: "early", Type: ledger.TxIncome, Date: base, Value: decimal.NewFromInt(1), Category: "Trips"},
	} {
		require.NoError(t, s.SaveTransaction(ctx, tx))
	}

	txs, err := s.ListTransactions(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, "early", txs[0].ID)
	assert.Equal(t, "late", txs[1].ID)
}

func TestDelete_MissingRecordIsNotFound(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, s.DeleteTransaction(ctx, "nope"), ledger.ErrNotFound)
	assert.ErrorIs(t, s.DeleteOdometerEvent(ctx, "nope"), ledger.ErrNotFound)
	assert.ErrorIs(t, s.DeleteWorkSession(ctx, "nope"), ledger.ErrNotFound)
}

func TestOdometerEvents_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	e := ledger.OdometerEvent{
		ID:     "o1",
		Type:   ledger.OdoOpen,
		Date:   time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC),
		Value:  42000,
		PairID: "c1",
	}
	require.NoError(t, s.SaveOdometerEvent(ctx, e))

	events, err := s.ListOdometerEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, e.ID, events[0].ID)
	assert.Equal(t, ledger.OdoOpen, events[0].Type)
	assert.Equal(t, int64(42000), events[0].Value)
	assert.Equal(t, "c1", events[0].PairID)

	require.NoError(t, s.DeleteOdometerEvent(ctx, "o1"))
	events, err = s.ListOdometerEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestWorkSessions_InProgressKeepsNilEnd(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	start := time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)
	require.NoError(t, s.SaveWorkSession(ctx, ledger.WorkSession{ID: "s1", Start: start}))

	sessions, err := s.ListWorkSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Nil(t, sessions[0].End, "in-progress session stays open")

	// Closing is an upsert with the end set.
	end := start.Add(10 * time.Hour)
	require.NoError(t, s.SaveWorkSession(ctx, ledger.WorkSession{ID: "s1", Start: start, End: &end}))

	sessions, err = s.ListWorkSessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].End)
	assert.True(t, sessions[0].End.Equal(end))
}

func TestProfile_SingleRowUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.GetProfile(ctx)
	assert.ErrorIs(t, err, ledger.ErrNotFound)

	p := ledger.UserProfile{
		Name:                      "Ana",
		VehicleModel:              "HB20",
		FuelConsumptionKmPerLiter: decimal.RequireFromString("11.5"),
	}
	require.NoError(t, s.SaveProfile(ctx, p))

	p.FuelConsumptionKmPerLiter = decimal.NewFromInt(12)
	require.NoError(t, s.SaveProfile(ctx, p))

	got, err := s.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.True(t, got.FuelConsumptionKmPerLiter.Equal(decimal.NewFromInt(12)))
}
