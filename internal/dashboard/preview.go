package dashboard

import "github.com/sabarim/stockdash/internal/snapshot"

// Preview is the head of one aggregate rendered as text cells
type Preview struct {
	Name    string     `json:"name"`
	Title   string     `json:"title"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// previewNames lists the togglable previews in page order.
var previewNames = []string{"daily-close", "volume", "returns"}

var previewTitles = map[string]string{
	"daily-close": "Daily Average Close Price Data",
	"volume":      "Average Volume by Sector Data",
	"returns":     "Daily Return Data",
}

// BuildPreview returns the first n rows of the named aggregate, or false when
// the name is unknown. The returns preview is limited to ticker, trade_date
// and simple_daily_return.
func BuildPreview(d *Data, name string, n int) (Preview, bool) {
	p := Preview{Name: name, Title: previewTitles[name], Rows: [][]string{}}
	switch name {
	case "daily-close":
		p.Columns = snapshot.DailyCloseColumns
		for _, r := range d.DailyClose[:min(n, len(d.DailyClose))] {
			p.Rows = append(p.Rows, r.Cells())
		}
	case "volume":
		p.Columns = snapshot.SectorVolumeColumns
		for _, r := range d.Volume[:min(n, len(d.Volume))] {
			p.Rows = append(p.Rows, r.Cells())
		}
	case "returns":
		p.Columns = []string{"ticker", "trade_date", "simple_daily_return"}
		for _, r := range d.Returns[:min(n, len(d.Returns))] {
			cells := r.Cells()
			p.Rows = append(p.Rows, []string{cells[0], cells[1], cells[len(cells)-1]})
		}
	default:
		return Preview{}, false
	}
	return p, true
}
