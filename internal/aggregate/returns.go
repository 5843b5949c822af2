package aggregate

import (
	"math"
	"slices"

	"github.com/sabarim/stockdash/internal/snapshot"
)

// SimpleDailyReturn sorts rows by (ticker, trade_date) and computes
// close/previous close - 1 against the previous row of the same ticker.
//
// The first observation of a ticker has no previous row and is excluded, as
// is any row whose return is undefined: a null ticker or date, a missing
// close on either side, a zero previous close, or a ratio that overflows.
func SimpleDailyReturn(rows []snapshot.Cleaned) []snapshot.DailyReturn {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b snapshot.Cleaned) int {
		if c := compareNullable(a.Ticker, b.Ticker); c != 0 {
			return c
		}
		return compareNullable(a.TradeDate, b.TradeDate)
	})

	var out []snapshot.DailyReturn
	var prev *snapshot.Cleaned
	for i := range sorted {
		cur := &sorted[i]
		if cur.Ticker == nil || cur.TradeDate == nil {
			continue
		}
		if prev == nil || *prev.Ticker != *cur.Ticker {
			prev = cur
			continue
		}

		before := prev
		prev = cur
		if before.ClosePrice == nil || cur.ClosePrice == nil || *before.ClosePrice == 0 {
			continue
		}
		ret := *cur.ClosePrice / *before.ClosePrice - 1
		if math.IsInf(ret, 0) || math.IsNaN(ret) {
			continue
		}

		out = append(out, snapshot.DailyReturn{
			Ticker:            snapshot.Clone(cur.Ticker),
			TradeDate:         snapshot.Clone(cur.TradeDate),
			OpenPrice:         snapshot.Clone(cur.OpenPrice),
			ClosePrice:        snapshot.Clone(cur.ClosePrice),
			Volume:            snapshot.Clone(cur.Volume),
			Sector:            snapshot.Clone(cur.Sector),
			Currency:          snapshot.Clone(cur.Currency),
			Exchange:          snapshot.Clone(cur.Exchange),
			Validated:         snapshot.Clone(cur.Validated),
			Notes:             snapshot.Clone(cur.Notes),
			SimpleDailyReturn: ret,
		})
	}
	return out
}
