package dashboard

import (
	"github.com/sabarim/stockdash/internal/config"
	"github.com/sabarim/stockdash/internal/snapshot"
)

// Data is the set of snapshots one dashboard request works from
type Data struct {
	Cleaned    []snapshot.Cleaned
	DailyClose []snapshot.DailyClose
	Volume     []snapshot.SectorVolume
	Returns    []snapshot.DailyReturn
}

// LoadData reads all four snapshots through the cache. Any missing or
// unreadable snapshot fails the whole load.
func LoadData(c *Cache, out config.OutputConfig) (*Data, error) {
	cleaned, err := Load[snapshot.Cleaned](c, out.CleanedPath())
	if err != nil {
		return nil, err
	}
	daily, err := Load[snapshot.DailyClose](c, out.DailyClosePath())
	if err != nil {
		return nil, err
	}
	volume, err := Load[snapshot.SectorVolume](c, out.VolumePath())
	if err != nil {
		return nil, err
	}
	returns, err := Load[snapshot.DailyReturn](c, out.ReturnPath())
	if err != nil {
		return nil, err
	}
	return &Data{Cleaned: cleaned, DailyClose: daily, Volume: volume, Returns: returns}, nil
}
