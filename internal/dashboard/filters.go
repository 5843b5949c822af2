package dashboard

import (
	"net/url"
	"slices"

	"github.com/sabarim/stockdash/internal/snapshot"
)

const (
	defaultSectorCount = 3
	defaultTickerCount = 5
)

// Selection is the resolved state of the sidebar filters
type Selection struct {
	SectorOptions []string
	Sectors       []string
	TickerOptions []string
	Tickers       []string
}

// SectorOptions returns the sorted distinct non-null sectors of the volume
// aggregate.
func SectorOptions(volume []snapshot.SectorVolume) []string {
	var sectors []string
	for _, v := range volume {
		if v.Sector != nil {
			sectors = append(sectors, *v.Sector)
		}
	}
	return sortedUnique(sectors)
}

// TickerOptions returns the sorted distinct tickers of cleaned rows whose
// sector is selected. With no sector selected every ticker of the daily close
// aggregate qualifies.
func TickerOptions(d *Data, sectors []string) []string {
	var tickers []string
	if len(sectors) == 0 {
		for _, r := range d.DailyClose {
			if r.Ticker != nil {
				tickers = append(tickers, *r.Ticker)
			}
		}
		return sortedUnique(tickers)
	}

	for _, r := range d.Cleaned {
		if r.Ticker != nil && r.Sector != nil && slices.Contains(sectors, *r.Sector) {
			tickers = append(tickers, *r.Ticker)
		}
	}
	return sortedUnique(tickers)
}

// Select resolves the filter state from query parameters. Without a submitted
// form the defaults apply: the first three sectors and the first five tickers
// within them. A submitted form is taken as is, restricted to valid options.
func Select(d *Data, q url.Values) Selection {
	submitted := q.Has("submitted")

	sel := Selection{SectorOptions: SectorOptions(d.Volume)}
	if submitted {
		sel.Sectors = restrict(q["sector"], sel.SectorOptions)
	} else {
		sel.Sectors = head(sel.SectorOptions, defaultSectorCount)
	}

	sel.TickerOptions = TickerOptions(d, sel.Sectors)
	if submitted {
		sel.Tickers = restrict(q["ticker"], sel.TickerOptions)
	} else {
		sel.Tickers = head(sel.TickerOptions, defaultTickerCount)
	}
	return sel
}

func sortedUnique(values []string) []string {
	slices.Sort(values)
	return slices.Compact(values)
}

func head(values []string, n int) []string {
	return slices.Clone(values[:min(n, len(values))])
}

// restrict keeps the requested values that are options, in option order
func restrict(requested, options []string) []string {
	var out []string
	for _, o := range options {
		if slices.Contains(requested, o) {
			out = append(out, o)
		}
	}
	return out
}
