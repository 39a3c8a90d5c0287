/*
period.go - Period resolution and previous-period rules

PURPOSE:
  Turns a named period kind (today, this-week, this-month, ...) or an
  explicit custom range into a concrete [start, end] instant interval,
  and derives the comparable previous period.

KEY RULES:
  - All boundaries derive from the LOCAL calendar (see time.go).
  - Weeks start on Monday.
  - "this-month" runs from the 1st through the end of the CURRENT local
    day, not the end of the month: the month is open and comparing a full
    previous month against a partial current one would skew every delta.
    "last-month" always spans the full closed calendar month.
  - The previous period is the same interval shifted back exactly ONE
    CALENDAR MONTH (each endpoint keeps its day-of-month), never "N days
    earlier". When an endpoint's day-of-month does not exist in the prior
    month (the 31st rolled into a 30-day month), the previous period is
    reported as unavailable via ErrNoPriorPeriod - never clamped.
    This can make the previous interval a different length than the
    current one near month-length boundaries; that is the documented
    behavior, not a bug.
  - An unknown period token resolves to "today". This is a deliberate
    product decision, not an error path.
*/
package ledger

import (
	"time"
)

// =============================================================================
// PERIOD KINDS - Closed set of period-definition policies
// =============================================================================

type PeriodKind string

const (
	PeriodToday     PeriodKind = "today"
	PeriodYesterday PeriodKind = "yesterday"
	PeriodThisWeek  PeriodKind = "this-week"
	PeriodLastWeek  PeriodKind = "last-week"
	PeriodThisMonth PeriodKind = "this-month"
	PeriodLastMonth PeriodKind = "last-month"
	PeriodCustom    PeriodKind = "custom"
)

// ParsePeriodKind maps a raw token to a period kind.
// Unknown tokens fall back to today by design.
func ParsePeriodKind(s string) PeriodKind {
	switch PeriodKind(s) {
	case PeriodYesterday, PeriodThisWeek, PeriodLastWeek,
		PeriodThisMonth, PeriodLastMonth, PeriodCustom:
		return PeriodKind(s)
	default:
		return PeriodToday
	}
}

// =============================================================================
// PERIOD - A resolved concrete interval
// =============================================================================

// Period is a resolved [Start, End] instant interval (inclusive) plus the
// kind that produced it. Derived, never persisted.
type Period struct {
	Kind  PeriodKind `json:"kind"`
	Start time.Time  `json:"start"`
	End   time.Time  `json:"end"`
}

// Contains reports whether the instant falls within [Start, End].
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// ContainsDay reports whether a local calendar day falls within the period.
func (p Period) ContainsDay(d DayKey) bool {
	return !d.Before(Day(p.Start)) && !Day(p.End).Before(d)
}

// Days returns the local day count of the period, inclusive.
func (p Period) Days() int {
	n := 0
	for d := Day(p.Start); !Day(p.End).Before(d); d = d.AddDays(1) {
		n++
	}
	return n
}

func (p Period) String() string {
	return string(p.Kind) + " [" + string(Day(p.Start)) + ", " + string(Day(p.End)) + "]"
}

// =============================================================================
// RESOLVER
// =============================================================================

// Resolve yields the concrete interval for a period kind as of now.
// For PeriodCustom, customStart/customEnd are required and are expanded to
// local start-of-day / end-of-day.
func Resolve(kind PeriodKind, now time.Time, customStart, customEnd time.Time) (Period, error) {
	switch kind {
	case PeriodToday:
		return Period{Kind: kind, Start: StartOfDay(now), End: EndOfDay(now)}, nil

	case PeriodYesterday:
		y := StartOfDay(now).AddDate(0, 0, -1)
		return Period{Kind: kind, Start: y, End: EndOfDay(y)}, nil

	case PeriodThisWeek:
		// Monday through end of the current local day (open week).
		return Period{Kind: kind, Start: startOfWeek(now), End: EndOfDay(now)}, nil

	case PeriodLastWeek:
		monday := startOfWeek(now).AddDate(0, 0, -7)
		return Period{Kind: kind, Start: monday, End: EndOfDay(monday.AddDate(0, 0, 6))}, nil

	case PeriodThisMonth:
		// First of the month through end of the current local day (open month).
		lt := ToLocal(now)
		first := time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, Zone)
		return Period{Kind: kind, Start: first, End: EndOfDay(now)}, nil

	case PeriodLastMonth:
		// Always the full closed calendar month.
		lt := ToLocal(now)
		first := time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, Zone).AddDate(0, -1, 0)
		last := time.Date(first.Year(), first.Month()+1, 1, 0, 0, 0, 0, Zone).Add(-time.Nanosecond)
		return Period{Kind: kind, Start: first, End: last}, nil

	case PeriodCustom:
		if customStart.IsZero() || customEnd.IsZero() {
			return Period{}, ErrInvalidPeriod
		}
		start, end := StartOfDay(customStart), EndOfDay(customEnd)
		if end.Before(start) {
			return Period{}, ErrInvalidPeriod
		}
		return Period{Kind: kind, Start: start, End: end}, nil

	default:
		// Unknown kinds resolve to today by design.
		return Resolve(PeriodToday, now, time.Time{}, time.Time{})
	}
}

// startOfWeek returns local midnight of the Monday of now's local week.
func startOfWeek(now time.Time) time.Time {
	day := StartOfDay(now)
	offset := (int(day.Weekday()) + 6) % 7 // days since Monday
	return day.AddDate(0, 0, -offset)
}

// =============================================================================
// PREVIOUS PERIOD
// =============================================================================

// Previous derives the comparable previous period: both endpoints shifted
// back one calendar month, keeping their day-of-month. Returns
// ErrNoPriorPeriod when either endpoint's day does not exist in the target
// month.
func Previous(p Period) (Period, error) {
	start, err := monthEarlier(ToLocal(p.Start))
	if err != nil {
		return Period{}, err
	}
	end, err := monthEarlier(ToLocal(p.End))
	if err != nil {
		return Period{}, err
	}
	return Period{Kind: p.Kind, Start: StartOfDay(start), End: EndOfDay(end)}, nil
}

// monthEarlier moves a local time to the same day-of-month one calendar
// month earlier, without the silent normalization time.AddDate would do.
func monthEarlier(lt time.Time) (time.Time, error) {
	year, month := lt.Year(), lt.Month()-1
	if month < time.January {
		year, month = year-1, time.December
	}
	// Day 0 of the following month is the last day of the target month.
	lastDay := time.Date(year, month+1, 0, 0, 0, 0, 0, Zone).Day()
	if lt.Day() > lastDay {
		return time.Time{}, ErrNoPriorPeriod
	}
	return time.Date(year, month, lt.Day(), lt.Hour(), lt.Minute(), lt.Second(), lt.Nanosecond(), Zone), nil
}
