package aggregate

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/sabarim/stockdash/internal/snapshot"
)

// AverageVolumeBySector returns the mean volume of every sector, truncated
// toward zero to an integer and ordered by descending volume. A null sector
// is its own group. Sectors without any volume get a null average and sort
// last; ties are broken by sector name.
func AverageVolumeBySector(rows []snapshot.Cleaned) []snapshot.SectorVolume {
	type group struct {
		sum decimal.Decimal
		n   int64
	}

	groups := make(map[key[string]]*group)
	var order []key[string]
	for _, r := range rows {
		k := keyOf(r.Sector)
		g, ok := groups[k]
		if !ok {
			g = &group{sum: decimal.Zero}
			groups[k] = g
			order = append(order, k)
		}
		if r.Volume != nil {
			g.sum = g.sum.Add(decimal.NewFromInt(*r.Volume))
			g.n++
		}
	}

	out := make([]snapshot.SectorVolume, 0, len(order))
	for _, k := range order {
		g := groups[k]
		sv := snapshot.SectorVolume{Sector: k.ptr()}
		if g.n > 0 {
			quotient, _ := g.sum.QuoRem(decimal.NewFromInt(g.n), 0)
			sv.AvgVolume = snapshot.Ptr(quotient.IntPart())
		}
		out = append(out, sv)
	}

	slices.SortStableFunc(out, func(a, b snapshot.SectorVolume) int {
		switch {
		case a.AvgVolume == nil && b.AvgVolume != nil:
			return 1
		case a.AvgVolume != nil && b.AvgVolume == nil:
			return -1
		case a.AvgVolume != nil && *a.AvgVolume != *b.AvgVolume:
			if *a.AvgVolume > *b.AvgVolume {
				return -1
			}
			return 1
		}
		return compareNullable(a.Sector, b.Sector)
	})
	return out
}
