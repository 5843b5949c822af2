package aggregate

import (
	"math"
	"slices"

	"github.com/sabarim/stockdash/internal/snapshot"
)

type tickerDay struct {
	ticker key[string]
	day    key[int32]
}

// DailyAverageClose returns the mean close price per (ticker, trade_date),
// ordered by ticker then date with nulls first. Null keys form their own
// groups; rows without a close price do not contribute to the mean, and a
// group with no close price at all has a null mean.
func DailyAverageClose(rows []snapshot.Cleaned) []snapshot.DailyClose {
	type group struct {
		closes []float64
	}

	groups := make(map[tickerDay]*group)
	var order []tickerDay
	for _, r := range rows {
		k := tickerDay{ticker: keyOf(r.Ticker), day: keyOf(r.TradeDate)}
		g, ok := groups[k]
		if !ok {
			g = &group{}
			groups[k] = g
			order = append(order, k)
		}
		if r.ClosePrice != nil {
			g.closes = append(g.closes, *r.ClosePrice)
		}
	}

	out := make([]snapshot.DailyClose, 0, len(order))
	for _, k := range order {
		g := groups[k]
		dc := snapshot.DailyClose{Ticker: k.ticker.ptr(), TradeDate: k.day.ptr()}
		if mean, ok := finiteMean(g.closes); ok {
			dc.DailyAvgClosePrice = snapshot.Ptr(mean)
		}
		out = append(out, dc)
	}

	slices.SortStableFunc(out, func(a, b snapshot.DailyClose) int {
		if c := compareNullable(a.Ticker, b.Ticker); c != 0 {
			return c
		}
		return compareNullable(a.TradeDate, b.TradeDate)
	})
	return out
}

// finiteMean averages values, scaling each term first when the plain sum
// overflows. It reports false for an empty or non-finite result.
func finiteMean(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}
	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n
	if math.IsInf(mean, 0) {
		mean = 0
		for _, v := range values {
			mean += v / n
		}
	}
	if math.IsInf(mean, 0) || math.IsNaN(mean) {
		return 0, false
	}
	return mean, true
}
