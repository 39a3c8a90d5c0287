package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigdrive/metrics-engine/ledger"
)

func session(id string, start, end time.Time) ledger.WorkSession {
	return ledger.WorkSession{ID: id, Start: start, End: &end}
}

// =============================================================================
// WORKING-DAY ATTRIBUTION
// =============================================================================

func TestWorkingDay_BeforeCutoff_PreviousDay(t *testing.T) {
	assert.Equal(t, ledger.DayKey("2024-03-10"), ledger.WorkingDay(local(2024, time.March, 11, 2, 30)))
	assert.Equal(t, ledger.DayKey("2024-03-10"), ledger.WorkingDay(local(2024, time.March, 11, 3, 59)))
}

func TestWorkingDay_AtOrAfterCutoff_OwnDay(t *testing.T) {
	assert.Equal(t, ledger.DayKey("2024-03-11"), ledger.WorkingDay(local(2024, time.March, 11, 4, 0)))
	assert.Equal(t, ledger.DayKey("2024-03-11"), ledger.WorkingDay(local(2024, time.March, 11, 23, 0)))
}

// =============================================================================
// SPLITTING
// =============================================================================

func TestSplit_DaytimeSession_SingleSegment(t *testing.T) {
	s := session("s1", local(2024, time.March, 10, 8, 0), local(2024, time.March, 10, 18, 0))

	segs, err := ledger.Split(s)
	require.NoError(t, err)

	require.Len(t, segs, 1)
	assert.Equal(t, ledger.DayKey("2024-03-10"), segs[0].WorkingDay)
	assert.InDelta(t, 10.0, segs[0].Hours(), 1e-9)
}

func TestSplit_CrossMidnightPastCutoff_TwoSegments(t *testing.T) {
	// GIVEN: 23:30 on March 10 through 05:00 on March 11
	s := session("s1", local(2024, time.March, 10, 23, 30), local(2024, time.March, 11, 5, 0))

	segs, err := ledger.Split(s)
	require.NoError(t, err)

	require.Len(t, segs, 2)

	// Segment 1: [23:30, 03:59:59.999] booked to March 10
	assert.Equal(t, ledger.DayKey("2024-03-10"), segs[0].WorkingDay)
	assert.Equal(t, local(2024, time.March, 10, 23, 30), segs[0].Start)
	assert.Equal(t, local(2024, time.March, 11, 4, 0).Add(-time.Millisecond), segs[0].End)
	assert.InDelta(t, 4.5, segs[0].Hours(), 0.01)

	// Segment 2: [04:00:01, 05:00] booked to March 11
	assert.Equal(t, ledger.DayKey("2024-03-11"), segs[1].WorkingDay)
	assert.Equal(t, local(2024, time.March, 11, 4, 0).Add(time.Second), segs[1].Start)
	assert.InDelta(t, 1.0, segs[1].Hours(), 0.01)
}

func TestSplit_EarlyMorningCrossingCutoff_SameCalendarDay(t *testing.T) {
	// GIVEN: 01:00 to 06:00 on one calendar day, crossing 04:00
	s := session("s1", local(2024, time.March, 11, 1, 0), local(2024, time.March, 11, 6, 0))

	segs, err := ledger.Split(s)
	require.NoError(t, err)

	require.Len(t, segs, 2)
	assert.Equal(t, ledger.DayKey("2024-03-10"), segs[0].WorkingDay, "pre-cutoff hours belong to the previous day")
	assert.Equal(t, ledger.DayKey("2024-03-11"), segs[1].WorkingDay)
}

func TestSplit_ShortPreCutoffSession_NoSplit_PreviousDay(t *testing.T) {
	// GIVEN: 01:00 to 03:00, wholly before the cutoff
	s := session("s1", local(2024, time.March, 11, 1, 0), local(2024, time.March, 11, 3, 0))

	segs, err := ledger.Split(s)
	require.NoError(t, err)

	require.Len(t, segs, 1)
	assert.Equal(t, ledger.DayKey("2024-03-10"), segs[0].WorkingDay)
	assert.InDelta(t, 2.0, segs[0].Hours(), 1e-9)
}

func TestSplit_CrossMidnightEndingBeforeCutoff_NoSplit(t *testing.T) {
	// GIVEN: 20:00 to 02:30 next day - crosses midnight but not 04:00
	s := session("s1", local(2024, time.March, 10, 20, 0), local(2024, time.March, 11, 2, 30))

	segs, err := ledger.Split(s)
	require.NoError(t, err)

	require.Len(t, segs, 1)
	assert.Equal(t, ledger.DayKey("2024-03-10"), segs[0].WorkingDay)
	assert.InDelta(t, 6.5, segs[0].Hours(), 1e-9)
}

func TestSplit_DurationConservation(t *testing.T) {
	// Segment durations sum to the session duration, modulo the documented
	// ~1s gap introduced at the split boundary.
	s := session("s1", local(2024, time.March, 10, 23, 30), local(2024, time.March, 11, 5, 0))

	segs, err := ledger.Split(s)
	require.NoError(t, err)

	var sum float64
	for _, seg := range segs {
		sum += seg.Hours()
	}
	assert.InDelta(t, 5.5, sum, 0.001)
}

func TestSplit_InProgressSession_NoSegments(t *testing.T) {
	s := ledger.WorkSession{ID: "s1", Start: local(2024, time.March, 10, 8, 0)}

	segs, err := ledger.Split(s)

	require.NoError(t, err)
	assert.Empty(t, segs, "in-progress sessions contribute zero hours")
}

func TestSplit_EndBeforeStart_InvalidSessionError(t *testing.T) {
	s := session("s1", local(2024, time.March, 10, 18, 0), local(2024, time.March, 10, 8, 0))

	_, err := ledger.Split(s)

	require.Error(t, err)
	var invalid *ledger.InvalidSessionError
	assert.ErrorAs(t, err, &invalid)
	assert.ErrorIs(t, err, ledger.ErrBadData)
}

// =============================================================================
// AGGREGATION
// =============================================================================

func TestHoursByDay_SplitSessionBooksToBothDays(t *testing.T) {
	sessions := []ledger.WorkSession{
		session("s1", local(2024, time.March, 10, 23, 30), local(2024, time.March, 11, 5, 0)),
		session("s2", local(2024, time.March, 10, 9, 0), local(2024, time.March, 10, 12, 0)),
	}

	segs, err := ledger.AttributeWorkingDays(sessions)
	require.NoError(t, err)
	byDay := ledger.HoursByDay(segs)

	assert.InDelta(t, 7.5, byDay["2024-03-10"], 0.01)
	assert.InDelta(t, 1.0, byDay["2024-03-11"], 0.01)
}
