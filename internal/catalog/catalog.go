// Package catalog holds the fixed investment pack table. The daily gain per
// pack was computed once at 3.5% of the price and is applied as a flat
// amount at accrual time; the stored principal is never re-compounded.
package catalog

// DailyRatePercent is recorded on every investment row for reporting.
const DailyRatePercent = 3.5

type Pack struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	DailyGain int64  `json:"dailyGain"`
	Total30   int64  `json:"total30"`
}

var packs = []Pack{
	{ID: 1, Name: "Maize", Price: 5000, DailyGain: 175},
	{ID: 2, Name: "Cassava", Price: 10000, DailyGain: 350},
	{ID: 3, Name: "Cocoa", Price: 25000, DailyGain: 875},
	{ID: 4, Name: "Coffee", Price: 50000, DailyGain: 1750},
	{ID: 5, Name: "Oil Palm", Price: 100000, DailyGain: 3500},
	{ID: 6, Name: "Rubber", Price: 250000, DailyGain: 8750},
	{ID: 7, Name: "Cashew", Price: 500000, DailyGain: 17500},
	{ID: 8, Name: "Banana Plantation", Price: 1000000, DailyGain: 35000},
}

func All() []Pack {
	out := make([]Pack, len(packs))
	for i, p := range packs {
		p.Total30 = p.DailyGain * 30
		out[i] = p
	}
	return out
}

func ByID(id uint64) (Pack, bool) {
	for _, p := range packs {
		if p.ID == id {
			p.Total30 = p.DailyGain * 30
			return p, true
		}
	}
	return Pack{}, false
}
