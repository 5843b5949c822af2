package clean

import "github.com/sabarim/stockdash/internal/snapshot"

// opt is a comparable stand-in for a nullable value
type opt[T comparable] struct {
	v  T
	ok bool
}

func some[T comparable](p *T) opt[T] {
	if p == nil {
		return opt[T]{}
	}
	return opt[T]{v: *p, ok: true}
}

// rowKey identifies a cleaned row by every column
type rowKey struct {
	ticker     opt[string]
	tradeDate  opt[int32]
	openPrice  opt[float64]
	closePrice opt[float64]
	volume     opt[int64]
	sector     opt[string]
	currency   opt[string]
	exchange   opt[string]
	validated  opt[string]
	notes      opt[string]
}

func keyOf(r snapshot.Cleaned) rowKey {
	return rowKey{
		ticker:     some(r.Ticker),
		tradeDate:  some(r.TradeDate),
		openPrice:  some(r.OpenPrice),
		closePrice: some(r.ClosePrice),
		volume:     some(r.Volume),
		sector:     some(r.Sector),
		currency:   some(r.Currency),
		exchange:   some(r.Exchange),
		validated:  some(r.Validated),
		notes:      some(r.Notes),
	}
}

// Dedup removes rows identical across every column, keeping the first
// occurrence and the original order. Nulls compare equal to nulls.
func Dedup(rows []snapshot.Cleaned) []snapshot.Cleaned {
	seen := make(map[rowKey]struct{}, len(rows))
	out := make([]snapshot.Cleaned, 0, len(rows))
	for _, r := range rows {
		k := keyOf(r)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, r)
	}
	return out
}
