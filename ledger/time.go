/*
time.go - Timezone normalization and day keys

PURPOSE:
  Every day-boundary decision in this package happens in the operating
  local timezone, a fixed UTC-3 offset with no DST. Comparing raw UTC
  instants against calendar days misattributes records created between
  21:00 and 00:00 local, so all "which day is this?" questions go
  through Day() and all day windows through StartOfDay()/EndOfDay().

FAILURE SEMANTICS:
  ParseInstant returns a DataError for unparseable input. Callers doing
  financial sums must propagate it; silently defaulting a bad date would
  silently zero out revenue.
*/
package ledger

import (
	"time"
)

// Zone is the operating civil-time zone: fixed UTC-3, no DST.
var Zone = time.FixedZone("UTC-3", -3*60*60)

// ToLocal converts an instant to the operating local time.
func ToLocal(t time.Time) time.Time { return t.In(Zone) }

// DayKey identifies one local calendar day as "YYYY-MM-DD".
type DayKey string

const dayKeyLayout = "2006-01-02"

// Day returns the local calendar day of an instant.
func Day(t time.Time) DayKey {
	return DayKey(ToLocal(t).Format(dayKeyLayout))
}

// Time returns local midnight at the start of the day.
func (d DayKey) Time() time.Time {
	t, err := time.ParseInLocation(dayKeyLayout, string(d), Zone)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the day key n days later (negative n for earlier).
func (d DayKey) AddDays(n int) DayKey {
	return DayKey(d.Time().AddDate(0, 0, n).Format(dayKeyLayout))
}

// Before reports whether d is an earlier day than other.
// Lexicographic order matches chronological order for this layout.
func (d DayKey) Before(other DayKey) bool { return d < other }

// StartOfDay returns the instant at local midnight of t's local day.
func StartOfDay(t time.Time) time.Time {
	lt := ToLocal(t)
	return time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, Zone)
}

// EndOfDay returns the last instant of t's local day (23:59:59.999999999).
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// ParseInstant parses an RFC 3339 instant or a bare "YYYY-MM-DD" local date.
// Invalid input yields a DataError; it must bubble up to the caller rather
// than default to a zero time inside a financial sum.
func ParseInstant(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation(dayKeyLayout, s, Zone); err == nil {
		return t, nil
	}
	return time.Time{}, &DataError{Field: "date", Value: s, Reason: "not RFC 3339 or YYYY-MM-DD"}
}
