package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigdrive/metrics-engine/ledger"
)

func TestDay_UTCNearMidnight_LocalDayWins(t *testing.T) {
	// GIVEN: 01:00 UTC on March 11 = 22:00 local on March 10
	instant := time.Date(2024, time.March, 11, 1, 0, 0, 0, time.UTC)

	// THEN: the record belongs to March 10, the driver's actual evening
	assert.Equal(t, ledger.DayKey("2024-03-10"), ledger.Day(instant))
}

func TestStartEndOfDay_LocalBoundaries(t *testing.T) {
	instant := time.Date(2024, time.March, 11, 1, 0, 0, 0, time.UTC) // 22:00 local Mar 10

	start := ledger.StartOfDay(instant)
	end := ledger.EndOfDay(instant)

	assert.Equal(t, ledger.DayKey("2024-03-10"), ledger.Day(start))
	assert.Equal(t, ledger.DayKey("2024-03-10"), ledger.Day(end))
	assert.True(t, end.After(start))
	assert.Equal(t, 24*time.Hour-time.Nanosecond, end.Sub(start))
}

func TestDayKey_AddDays(t *testing.T) {
	assert.Equal(t, ledger.DayKey("2024-03-01"), ledger.DayKey("2024-02-29").AddDays(1))
	assert.Equal(t, ledger.DayKey("2024-02-29"), ledger.DayKey("2024-03-01").AddDays(-1))
}

func TestParseInstant_RFC3339AndBareDate(t *testing.T) {
	ts, err := ledger.ParseInstant("2024-03-10T14:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 14, ts.UTC().Hour())

	day, err := ledger.ParseInstant("2024-03-10")
	require.NoError(t, err)
	assert.Equal(t, ledger.DayKey("2024-03-10"), ledger.Day(day))
}

func TestParseInstant_Garbage_DataError(t *testing.T) {
	// A bad date is fatal to the computation call; it must never default
	// silently inside a financial sum.
	_, err := ledger.ParseInstant("10/03/2024")

	require.Error(t, err)
	assert.ErrorIs(t, err, ledger.ErrBadData)
	var dataErr *ledger.DataError
	assert.ErrorAs(t, err, &dataErr)
}
