/*
bestday.go - Best revenue day within a period

Finds the local day with the highest income total in-window, for the
"best day" highlight card. Ties resolve to the earliest day so the
result is deterministic.
*/
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
)

// BestDay is the highest-revenue day of a period. Found is false when the
// period holds no income at all.
type BestDay struct {
	Day     DayKey          `json:"day"`
	Revenue decimal.Decimal `json:"revenue"`
	Trips   int             `json:"trips"`
	Found   bool            `json:"found"`
}

// BestRevenueDay scans in-window income transactions grouped by local day.
func BestRevenueDay(txs []Transaction, p Period) BestDay {
	type dayTotal struct {
		revenue decimal.Decimal
		trips   int
	}
	byDay := make(map[DayKey]*dayTotal)
	for _, t := range txs {
		if t.Type != TxIncome || !p.Contains(t.Date) {
			continue
		}
		d := Day(t.Date)
		tot, ok := byDay[d]
		if !ok {
			tot = &dayTotal{revenue: decimal.Zero}
			byDay[d] = tot
		}
		tot.revenue = tot.revenue.Add(t.Value)
		tot.trips++
	}
	if len(byDay) == 0 {
		return BestDay{}
	}

	days := make([]DayKey, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	best := BestDay{Day: days[0], Revenue: money(byDay[days[0]].revenue), Trips: byDay[days[0]].trips, Found: true}
	for _, d := range days[1:] {
		if money(byDay[d].revenue).GreaterThan(best.Revenue) {
			best = BestDay{Day: d, Revenue: money(byDay[d].revenue), Trips: byDay[d].trips, Found: true}
		}
	}
	return best
}
