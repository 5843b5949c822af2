package snapshot

import "strconv"

// Null is the display form of a null cell.
const Null = "null"

func formatString(p *string) string {
	if p == nil {
		return Null
	}
	return *p
}

func formatFloat(p *float64) string {
	if p == nil {
		return Null
	}
	return strconv.FormatFloat(*p, 'f', -1, 64)
}

func formatInt(p *int64) string {
	if p == nil {
		return Null
	}
	return strconv.FormatInt(*p, 10)
}

func formatDay(p *int32) string {
	if p == nil {
		return Null
	}
	return FormatDay(p)
}

// Cells renders the row in CleanedColumns order.
func (c Cleaned) Cells() []string {
	return []string{
		formatString(c.Ticker), formatDay(c.TradeDate),
		formatFloat(c.OpenPrice), formatFloat(c.ClosePrice), formatInt(c.Volume),
		formatString(c.Sector), formatString(c.Currency), formatString(c.Exchange),
		formatString(c.Validated), formatString(c.Notes),
	}
}

// DailyCloseColumns lists the daily average close snapshot columns.
var DailyCloseColumns = []string{"ticker", "trade_date", "daily_avg_close_price"}

// Cells renders the row in DailyCloseColumns order.
func (d DailyClose) Cells() []string {
	return []string{formatString(d.Ticker), formatDay(d.TradeDate), formatFloat(d.DailyAvgClosePrice)}
}

// SectorVolumeColumns lists the sector volume snapshot columns.
var SectorVolumeColumns = []string{"sector", "avg_volume"}

// Cells renders the row in SectorVolumeColumns order.
func (s SectorVolume) Cells() []string {
	return []string{formatString(s.Sector), formatInt(s.AvgVolume)}
}

// DailyReturnColumns lists the daily return snapshot columns.
var DailyReturnColumns = append(append([]string{}, CleanedColumns...), "simple_daily_return")

// Cells renders the row in DailyReturnColumns order.
func (r DailyReturn) Cells() []string {
	return []string{
		formatString(r.Ticker), formatDay(r.TradeDate),
		formatFloat(r.OpenPrice), formatFloat(r.ClosePrice), formatInt(r.Volume),
		formatString(r.Sector), formatString(r.Currency), formatString(r.Exchange),
		formatString(r.Validated), formatString(r.Notes),
		strconv.FormatFloat(r.SimpleDailyReturn, 'f', -1, 64),
	}
}
