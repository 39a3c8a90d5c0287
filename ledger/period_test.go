package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gigdrive/metrics-engine/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// local builds an instant in the operating timezone.
func local(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, ledger.Zone)
}

func mustResolve(t *testing.T, kind ledger.PeriodKind, now time.Time) ledger.Period {
	t.Helper()
	p, err := ledger.Resolve(kind, now, time.Time{}, time.Time{})
	require.NoError(t, err)
	return p
}

// =============================================================================
// RESOLUTION
// =============================================================================

func TestResolve_Today_SingleLocalDay(t *testing.T) {
	now := local(2024, time.March, 15, 14, 30)

	p := mustResolve(t, ledger.PeriodToday, now)

	assert.Equal(t, local(2024, time.March, 15, 0, 0), p.Start)
	assert.Equal(t, ledger.DayKey("2024-03-15"), ledger.Day(p.End))
	assert.True(t, p.Contains(local(2024, time.March, 15, 23, 59)))
	assert.False(t, p.Contains(local(2024, time.March, 16, 0, 0)))
}

func TestResolve_Yesterday(t *testing.T) {
	now := local(2024, time.March, 1, 9, 0)

	p := mustResolve(t, ledger.PeriodYesterday, now)

	assert.Equal(t, ledger.DayKey("2024-02-29"), ledger.Day(p.Start), "leap day")
	assert.Equal(t, ledger.DayKey("2024-02-29"), ledger.Day(p.End))
}

func TestResolve_ThisWeek_StartsMonday(t *testing.T) {
	// GIVEN: a Thursday
	now := local(2024, time.March, 14, 12, 0)

	p := mustResolve(t, ledger.PeriodThisWeek, now)

	assert.Equal(t, ledger.DayKey("2024-03-11"), ledger.Day(p.Start), "Monday of that week")
	assert.Equal(t, ledger.DayKey("2024-03-14"), ledger.Day(p.End), "open week ends today, not Sunday")
}

func TestResolve_ThisWeek_OnAMonday(t *testing.T) {
	now := local(2024, time.March, 11, 8, 0)

	p := mustResolve(t, ledger.PeriodThisWeek, now)

	assert.Equal(t, ledger.DayKey("2024-03-11"), ledger.Day(p.Start))
	assert.Equal(t, ledger.DayKey("2024-03-11"), ledger.Day(p.End))
}

func TestResolve_LastWeek_FullMondayToSunday(t *testing.T) {
	now := local(2024, time.March, 14, 12, 0)

	p := mustResolve(t, ledger.PeriodLastWeek, now)

	assert.Equal(t, ledger.DayKey("2024-03-04"), ledger.Day(p.Start))
	assert.Equal(t, ledger.DayKey("2024-03-10"), ledger.Day(p.End))
	assert.Equal(t, 7, p.Days())
}

func TestResolve_ThisMonth_OpenThroughToday(t *testing.T) {
	// GIVEN: mid-month
	now := local(2024, time.March, 14, 12, 0)

	p := mustResolve(t, ledger.PeriodThisMonth, now)

	// THEN: the window ends at end of the CURRENT day, not end of month
	assert.Equal(t, ledger.DayKey("2024-03-01"), ledger.Day(p.Start))
	assert.Equal(t, ledger.DayKey("2024-03-14"), ledger.Day(p.End))
}

func TestResolve_LastMonth_FullClosedMonth(t *testing.T) {
	now := local(2024, time.March, 14, 12, 0)

	p := mustResolve(t, ledger.PeriodLastMonth, now)

	assert.Equal(t, ledger.DayKey("2024-02-01"), ledger.Day(p.Start))
	assert.Equal(t, ledger.DayKey("2024-02-29"), ledger.Day(p.End))
}

func TestResolve_Custom_ExpandsToDayBounds(t *testing.T) {
	now := local(2024, time.March, 14, 12, 0)

	p, err := ledger.Resolve(ledger.PeriodCustom, now,
		local(2024, time.March, 5, 11, 17), local(2024, time.March, 8, 2, 3))
	require.NoError(t, err)

	assert.Equal(t, local(2024, time.March, 5, 0, 0), p.Start)
	assert.Equal(t, ledger.DayKey("2024-03-08"), ledger.Day(p.End))
	assert.Equal(t, 4, p.Days())
}

func TestResolve_Custom_EndBeforeStart_Rejected(t *testing.T) {
	now := local(2024, time.March, 14, 12, 0)

	_, err := ledger.Resolve(ledger.PeriodCustom, now,
		local(2024, time.March, 8, 0, 0), local(2024, time.March, 5, 0, 0))

	assert.ErrorIs(t, err, ledger.ErrInvalidPeriod)
}

func TestResolve_Custom_MissingBounds_Rejected(t *testing.T) {
	now := local(2024, time.March, 14, 12, 0)

	_, err := ledger.Resolve(ledger.PeriodCustom, now, time.Time{}, time.Time{})

	assert.ErrorIs(t, err, ledger.ErrInvalidPeriod)
}

func TestParsePeriodKind_UnknownFallsBackToToday(t *testing.T) {
	// Deliberate product behavior: unknown tokens mean "today", not an error.
	assert.Equal(t, ledger.PeriodToday, ledger.ParsePeriodKind("quarter"))
	assert.Equal(t, ledger.PeriodToday, ledger.ParsePeriodKind(""))
	assert.Equal(t, ledger.PeriodThisMonth, ledger.ParsePeriodKind("this-month"))
}

func TestResolve_Idempotent(t *testing.T) {
	// Same instant in, identical window out.
	now := local(2024, time.March, 14, 12, 0)

	p1 := mustResolve(t, ledger.PeriodThisWeek, now)
	p2 := mustResolve(t, ledger.PeriodThisWeek, now)

	assert.Equal(t, p1, p2)
}

// =============================================================================
// PREVIOUS PERIOD
// =============================================================================

func TestPrevious_SingleDay_SameDayOfMonthOneMonthBack(t *testing.T) {
	// GIVEN: today = March 15
	p := mustResolve(t, ledger.PeriodToday, local(2024, time.March, 15, 10, 0))

	prev, err := ledger.Previous(p)
	require.NoError(t, err)

	// THEN: February 15, not "30 days earlier"
	assert.Equal(t, ledger.DayKey("2024-02-15"), ledger.Day(prev.Start))
	assert.Equal(t, ledger.DayKey("2024-02-15"), ledger.Day(prev.End))
}

func TestPrevious_Day31_NoCorrespondingDay_Unavailable(t *testing.T) {
	// GIVEN: today = March 31; February has no 31st (nor a 29th->31st clamp)
	p := mustResolve(t, ledger.PeriodToday, local(2024, time.March, 31, 10, 0))

	_, err := ledger.Previous(p)

	// THEN: explicit unavailability, never a clamp to Feb 28/29
	assert.ErrorIs(t, err, ledger.ErrNoPriorPeriod)
}

func TestPrevious_JanuaryRollsIntoPriorYear(t *testing.T) {
	p := mustResolve(t, ledger.PeriodToday, local(2024, time.January, 15, 10, 0))

	prev, err := ledger.Previous(p)
	require.NoError(t, err)

	assert.Equal(t, ledger.DayKey("2023-12-15"), ledger.Day(prev.Start))
}

func TestPrevious_Range_ShiftsBothEndpointsOneMonth(t *testing.T) {
	// GIVEN: this-month on March 14 -> [Mar 1, Mar 14]
	p := mustResolve(t, ledger.PeriodThisMonth, local(2024, time.March, 14, 12, 0))

	prev, err := ledger.Previous(p)
	require.NoError(t, err)

	// THEN: [Feb 1, Feb 14] - endpoints shifted, NOT day-count shifted
	assert.Equal(t, ledger.DayKey("2024-02-01"), ledger.Day(prev.Start))
	assert.Equal(t, ledger.DayKey("2024-02-14"), ledger.Day(prev.End))
}

func TestPrevious_Range_EndpointMissingInShorterMonth_Unavailable(t *testing.T) {
	// GIVEN: custom range Mar 30-31; February has neither day
	p, err := ledger.Resolve(ledger.PeriodCustom, local(2024, time.March, 31, 12, 0),
		local(2024, time.March, 30, 0, 0), local(2024, time.March, 31, 0, 0))
	require.NoError(t, err)

	_, err = ledger.Previous(p)

	assert.ErrorIs(t, err, ledger.ErrNoPriorPeriod)
}

func TestPrevious_Range_MayHaveDifferentLength(t *testing.T) {
	// GIVEN: full last-month window for March (31 days)
	p, err := ledger.Resolve(ledger.PeriodCustom, local(2024, time.April, 10, 12, 0),
		local(2024, time.March, 1, 0, 0), local(2024, time.March, 28, 0, 0))
	require.NoError(t, err)

	prev, err := ledger.Previous(p)
	require.NoError(t, err)

	// Documented behavior: shifting endpoints independently can change the
	// interval length near month-size boundaries.
	assert.Equal(t, ledger.DayKey("2024-02-01"), ledger.Day(prev.Start))
	assert.Equal(t, ledger.DayKey("2024-02-28"), ledger.Day(prev.End))
	assert.Equal(t, 28, prev.Days())
}
