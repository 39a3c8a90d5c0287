/*
sessions.go - Work-session cutoff splitting and day attribution

PURPOSE:
  Books work hours to the correct "working day". Drivers routinely work
  past midnight, so the working day does not flip at 00:00: it flips at
  a fixed 04:00 local cutoff. A session ending at 02:30 still belongs to
  the evening it started.

RULES:
  - Working date of any instant: its local calendar day when the local
    hour is at/after 04:00, otherwise the PREVIOUS calendar day. This one
    rule applies uniformly to split and non-split sessions.
  - A session whose interval crosses a 04:00 boundary is split into
    exactly two segments at that boundary. Segment 1 ends at
    03:59:59.999; segment 2 begins at 04:00:01. The resulting ~1-2 second
    gap at the boundary is long-standing observed behavior and is kept
    as-is rather than "fixed" to a zero-gap split.
  - Session duration is the wall-clock end minus start in hours; the
    split segments' durations sum to the original duration modulo that
    boundary gap.
  - In-progress sessions (nil end) produce no segments and contribute
    zero hours until closed.
*/
package ledger

import (
	"time"
)

// CutoffHour is the local hour at which the working day flips.
const CutoffHour = 4

// segment boundary quirk: segment 1 ends 1ms before the cutoff, segment 2
// starts 1s after it.
const (
	splitEndBackoff   = time.Millisecond
	splitStartForward = time.Second
)

// WorkingDay returns the local calendar day an instant's hours are booked
// to: the previous day for instants before the 04:00 cutoff.
func WorkingDay(t time.Time) DayKey {
	lt := ToLocal(t)
	d := Day(lt)
	if lt.Hour() < CutoffHour {
		return d.AddDays(-1)
	}
	return d
}

// Split slices one session into day-attributed segments. In-progress
// sessions yield nil. Closed sessions with end at/before start yield an
// InvalidSessionError.
func Split(s WorkSession) ([]WorkSegment, error) {
	if s.InProgress() {
		return nil, nil
	}
	start, end := ToLocal(s.Start), ToLocal(*s.End)
	if !end.After(start) {
		return nil, &InvalidSessionError{
			SessionID: s.ID,
			Start:     start.Format(time.RFC3339),
			End:       end.Format(time.RFC3339),
		}
	}

	boundary := nextCutoff(start)
	if end.Before(boundary) {
		// No boundary crossed: single segment, uniform working-date rule.
		return []WorkSegment{{
			SessionID:  s.ID,
			Start:      start,
			End:        end,
			WorkingDay: WorkingDay(start),
		}}, nil
	}

	seg2Start := boundary.Add(splitStartForward)
	seg2End := end
	if seg2End.Before(seg2Start) {
		// Session ends inside the boundary gap; keep the second segment
		// present but empty so both working days appear.
		seg2End = seg2Start
	}
	return []WorkSegment{
		{
			SessionID:  s.ID,
			Start:      start,
			End:        boundary.Add(-splitEndBackoff),
			WorkingDay: WorkingDay(start),
		},
		{
			SessionID:  s.ID,
			Start:      seg2Start,
			End:        seg2End,
			WorkingDay: WorkingDay(seg2Start),
		},
	}, nil
}

// AttributeWorkingDays splits every session and returns all segments.
// Invalid sessions propagate their error; one bad record fails the call
// rather than silently shrinking the hour totals.
func AttributeWorkingDays(sessions []WorkSession) ([]WorkSegment, error) {
	var segs []WorkSegment
	for _, s := range sessions {
		ss, err := Split(s)
		if err != nil {
			return nil, err
		}
		segs = append(segs, ss...)
	}
	return segs, nil
}

// HoursByDay sums segment durations per working day.
func HoursByDay(segs []WorkSegment) map[DayKey]float64 {
	byDay := make(map[DayKey]float64)
	for _, s := range segs {
		byDay[s.WorkingDay] += s.Hours()
	}
	return byDay
}

// HoursInPeriod sums segment durations whose working day falls in-window.
func HoursInPeriod(segs []WorkSegment, p Period) float64 {
	var total float64
	for day, h := range HoursByDay(segs) {
		if p.ContainsDay(day) {
			total += h
		}
	}
	return total
}

// nextCutoff returns the first 04:00 local instant strictly after t's
// position relative to the cutoff: same-day 04:00 when t is before it,
// next-day 04:00 otherwise.
func nextCutoff(lt time.Time) time.Time {
	cut := time.Date(lt.Year(), lt.Month(), lt.Day(), CutoffHour, 0, 0, 0, Zone)
	if lt.Hour() < CutoffHour {
		return cut
	}
	return cut.AddDate(0, 0, 1)
}
