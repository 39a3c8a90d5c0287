/*
cycles.go - Odometer cycle reconciliation

PURPOSE:
  Pairs open and close odometer events into trip cycles and attributes
  each cycle's distance to a local calendar day.

PAIRING POLICY:
  1. Primary: events sharing a pair_id (falling back to the event's own
     id) pair open-to-close.
  2. Fallback, for events whose pair_id group is incomplete or ambiguous:
     same-local-day events are sorted chronologically and paired greedily
     open -> close. An open with no following close before the next open
     is a dangling cycle. A close with no preceding unpaired open is an
     orphan and is dropped, charged to no cycle.

ATTRIBUTION:
  A cycle's distance belongs to the local day of its OPEN event, even
  when the close falls on a later day (the 23:50 -> 00:10 run counts for
  the day it started). Multiple cycles on one day sum.

GUARANTEES:
  - Distance is never negative: a close reading at or below the open
    reading contributes zero rather than producing a negative distance
    or an error.
  - The UI keeps at most one dangling cycle at a time, but that is not
    re-validated here: any number of dangling opens is tolerated, each
    contributing zero until closed.
  - Deterministic output for identical input; never throws for
    reconciliation ambiguity.
*/
package ledger

import (
	"sort"
)

// Reconcile pairs odometer events into cycles, ordered by open date.
func Reconcile(events []OdometerEvent) []Cycle {
	var cycles []Cycle
	var leftovers []OdometerEvent

	for _, group := range groupByPair(events) {
		openEv, closeEv := splitPair(group)
		if openEv != nil && closeEv != nil {
			cycles = append(cycles, Cycle{Open: openEv, Close: closeEv})
			continue
		}
		// Incomplete or ambiguous group: hand everything to the fallback.
		leftovers = append(leftovers, group...)
	}

	cycles = append(cycles, pairSameDay(leftovers)...)

	sort.SliceStable(cycles, func(i, j int) bool {
		return cycles[i].Open.Date.Before(cycles[j].Open.Date)
	})
	return cycles
}

// DistanceByDay sums closed-cycle distances per attributed local day.
// Dangling cycles contribute nothing.
func DistanceByDay(cycles []Cycle) map[DayKey]int64 {
	byDay := make(map[DayKey]int64)
	for _, c := range cycles {
		if c.Closed() {
			byDay[c.Day()] += c.Distance()
		}
	}
	return byDay
}

// DistanceInPeriod sums closed-cycle distances whose attributed day falls
// within the period.
func DistanceInPeriod(cycles []Cycle, p Period) int64 {
	var total int64
	for day, km := range DistanceByDay(cycles) {
		if p.ContainsDay(day) {
			total += km
		}
	}
	return total
}

// groupByPair buckets events by correlation key, in deterministic key order.
func groupByPair(events []OdometerEvent) [][]OdometerEvent {
	byPair := make(map[string][]OdometerEvent)
	var keys []string
	for _, e := range events {
		k := e.Pair()
		if _, seen := byPair[k]; !seen {
			keys = append(keys, k)
		}
		byPair[k] = append(byPair[k], e)
	}
	sort.Strings(keys)

	groups := make([][]OdometerEvent, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, byPair[k])
	}
	return groups
}

// splitPair extracts exactly one open and one close from a pair group.
// Returns nils when the group has no unambiguous open/close pair.
func splitPair(group []OdometerEvent) (*OdometerEvent, *OdometerEvent) {
	var opens, closes []OdometerEvent
	for _, e := range group {
		switch e.Type {
		case OdoOpen:
			opens = append(opens, e)
		case OdoClose:
			closes = append(closes, e)
		}
	}
	if len(opens) != 1 || len(closes) != 1 {
		return nil, nil
	}
	return &opens[0], &closes[0]
}

// pairSameDay applies the chronological fallback within each local day.
func pairSameDay(events []OdometerEvent) []Cycle {
	byDay := make(map[DayKey][]OdometerEvent)
	var days []DayKey
	for _, e := range events {
		d := Day(e.Date)
		if _, seen := byDay[d]; !seen {
			days = append(days, d)
		}
		byDay[d] = append(byDay[d], e)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	var cycles []Cycle
	for _, d := range days {
		day := byDay[d]
		sort.SliceStable(day, func(i, j int) bool { return day[i].Date.Before(day[j].Date) })

		var pending *OdometerEvent
		for i := range day {
			e := day[i]
			switch e.Type {
			case OdoOpen:
				if pending != nil {
					// Previous open never closed: dangling cycle.
					cycles = append(cycles, Cycle{Open: pending})
				}
				pending = &day[i]
			case OdoClose:
				if pending == nil {
					continue // orphan close, dropped
				}
				cycles = append(cycles, Cycle{Open: pending, Close: &day[i]})
				pending = nil
			}
		}
		if pending != nil {
			cycles = append(cycles, Cycle{Open: pending})
		}
	}
	return cycles
}
