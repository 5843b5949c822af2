package dashboard

import (
	"slices"

	"github.com/sabarim/stockdash/internal/snapshot"
)

// DailyClosePoint is one point of the closing price trend
type DailyClosePoint struct {
	Ticker             string   `json:"ticker"`
	TradeDate          *string  `json:"trade_date"`
	DailyAvgClosePrice *float64 `json:"daily_avg_close_price"`
}

// SectorVolumePoint is one bar of the volume chart
type SectorVolumePoint struct {
	Sector    string `json:"sector"`
	AvgVolume *int64 `json:"avg_volume"`
}

// ReturnPoint is one observation of the return histogram
type ReturnPoint struct {
	Ticker            string  `json:"ticker"`
	TradeDate         *string `json:"trade_date"`
	SimpleDailyReturn float64 `json:"simple_daily_return"`
}

// Spec is a Vega-Lite chart specification
type Spec map[string]any

func day(p *int32) *string {
	if p == nil {
		return nil
	}
	s := snapshot.FormatDay(p)
	return &s
}

// DailyClosePoints returns the daily close rows of the selected tickers.
func DailyClosePoints(rows []snapshot.DailyClose, tickers []string) []DailyClosePoint {
	out := []DailyClosePoint{}
	for _, r := range rows {
		if r.Ticker == nil || !slices.Contains(tickers, *r.Ticker) {
			continue
		}
		out = append(out, DailyClosePoint{Ticker: *r.Ticker, TradeDate: day(r.TradeDate), DailyAvgClosePrice: r.DailyAvgClosePrice})
	}
	return out
}

// SectorVolumePoints returns the volume rows of the selected sectors.
func SectorVolumePoints(rows []snapshot.SectorVolume, sectors []string) []SectorVolumePoint {
	out := []SectorVolumePoint{}
	for _, r := range rows {
		if r.Sector == nil || !slices.Contains(sectors, *r.Sector) {
			continue
		}
		out = append(out, SectorVolumePoint{Sector: *r.Sector, AvgVolume: r.AvgVolume})
	}
	return out
}

// ReturnPoints returns the daily returns of the selected tickers.
func ReturnPoints(rows []snapshot.DailyReturn, tickers []string) []ReturnPoint {
	out := []ReturnPoint{}
	for _, r := range rows {
		if r.Ticker == nil || !slices.Contains(tickers, *r.Ticker) {
			continue
		}
		out = append(out, ReturnPoint{Ticker: *r.Ticker, TradeDate: day(r.TradeDate), SimpleDailyReturn: r.SimpleDailyReturn})
	}
	return out
}

const vegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

// TrendChart is a line chart of daily average close per ticker.
func TrendChart(points []DailyClosePoint) Spec {
	return Spec{
		"$schema":  vegaLiteSchema,
		"title":    "Daily Average Close Price Trend by Ticker",
		"width":    "container",
		"data":     map[string]any{"values": points},
		"mark":     "line",
		"params":   []any{map[string]any{"name": "zoom", "select": "interval", "bind": "scales"}},
		"encoding": map[string]any{
			"x":       map[string]any{"field": "trade_date", "type": "temporal", "title": "Trade Date"},
			"y":       map[string]any{"field": "daily_avg_close_price", "type": "quantitative", "title": "Daily Average Close Price"},
			"color":   map[string]any{"field": "ticker", "type": "nominal"},
			"tooltip": []any{field("trade_date", "temporal"), field("ticker", "nominal"), field("daily_avg_close_price", "quantitative")},
		},
	}
}

// VolumeChart is a horizontal bar chart of average volume per sector.
func VolumeChart(points []SectorVolumePoint) Spec {
	return Spec{
		"$schema": vegaLiteSchema,
		"title":   "Average Volume by Sector",
		"width":   "container",
		"data":    map[string]any{"values": points},
		"mark":    "bar",
		"encoding": map[string]any{
			"x": map[string]any{"field": "avg_volume", "type": "quantitative", "title": "Average Volume",
				"axis": map[string]any{"format": "~s"}},
			"y": map[string]any{"field": "sector", "type": "nominal", "title": "Sector", "sort": "x",
				"axis": map[string]any{"labelLimit": 100}},
			"tooltip": []any{field("sector", "nominal"), field("avg_volume", "quantitative")},
		},
	}
}

// ReturnHistogram is a binned histogram of daily returns per ticker.
func ReturnHistogram(points []ReturnPoint) Spec {
	return Spec{
		"$schema": vegaLiteSchema,
		"title":   "Daily Return Histogram",
		"width":   "container",
		"data":    map[string]any{"values": points},
		"mark":    "bar",
		"params":  []any{map[string]any{"name": "zoom", "select": "interval", "bind": "scales"}},
		"encoding": map[string]any{
			"x":       map[string]any{"field": "simple_daily_return", "type": "quantitative", "bin": true, "title": "Daily Return"},
			"y":       map[string]any{"aggregate": "count", "type": "quantitative", "title": "Frequency"},
			"color":   map[string]any{"field": "ticker", "type": "nominal", "title": "Ticker"},
			"tooltip": []any{field("ticker", "nominal"), map[string]any{"aggregate": "count", "type": "quantitative"}},
		},
	}
}

func field(name, typ string) map[string]any {
	return map[string]any{"field": name, "type": typ}
}
