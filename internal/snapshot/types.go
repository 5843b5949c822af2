package snapshot

import "time"

// Cleaned represents a single cleaned stock-market observation. Every column is
// nullable; a nil field is the canonical null.
type Cleaned struct {
	Ticker     *string  `parquet:"name=ticker, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	TradeDate  *int32   `parquet:"name=trade_date, type=INT32, convertedtype=DATE, repetitiontype=OPTIONAL"`
	OpenPrice  *float64 `parquet:"name=open_price, type=DOUBLE, repetitiontype=OPTIONAL"`
	ClosePrice *float64 `parquet:"name=close_price, type=DOUBLE, repetitiontype=OPTIONAL"`
	Volume     *int64   `parquet:"name=volume, type=INT64, repetitiontype=OPTIONAL"`
	Sector     *string  `parquet:"name=sector, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Currency   *string  `parquet:"name=currency, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Exchange   *string  `parquet:"name=exchange, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Validated  *string  `parquet:"name=validated, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Notes      *string  `parquet:"name=notes, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
}

// DailyClose is the mean close price of one ticker on one trade date
type DailyClose struct {
	Ticker             *string  `parquet:"name=ticker, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	TradeDate          *int32   `parquet:"name=trade_date, type=INT32, convertedtype=DATE, repetitiontype=OPTIONAL"`
	DailyAvgClosePrice *float64 `parquet:"name=daily_avg_close_price, type=DOUBLE, repetitiontype=OPTIONAL"`
}

// SectorVolume is the integer mean volume of one sector
type SectorVolume struct {
	Sector    *string `parquet:"name=sector, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	AvgVolume *int64  `parquet:"name=avg_volume, type=INT64, repetitiontype=OPTIONAL"`
}

// DailyReturn is a cleaned observation carrying its simple return against the
// previous observation of the same ticker.
type DailyReturn struct {
	Ticker            *string  `parquet:"name=ticker, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	TradeDate         *int32   `parquet:"name=trade_date, type=INT32, convertedtype=DATE, repetitiontype=OPTIONAL"`
	OpenPrice         *float64 `parquet:"name=open_price, type=DOUBLE, repetitiontype=OPTIONAL"`
	ClosePrice        *float64 `parquet:"name=close_price, type=DOUBLE, repetitiontype=OPTIONAL"`
	Volume            *int64   `parquet:"name=volume, type=INT64, repetitiontype=OPTIONAL"`
	Sector            *string  `parquet:"name=sector, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Currency          *string  `parquet:"name=currency, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Exchange          *string  `parquet:"name=exchange, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Validated         *string  `parquet:"name=validated, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	Notes             *string  `parquet:"name=notes, type=BYTE_ARRAY, convertedtype=UTF8, repetitiontype=OPTIONAL"`
	SimpleDailyReturn float64  `parquet:"name=simple_daily_return, type=DOUBLE"`
}

// CleanedColumns lists the cleaned snapshot columns in schema order.
var CleanedColumns = []string{
	"ticker", "trade_date", "open_price", "close_price", "volume",
	"sector", "currency", "exchange", "validated", "notes",
}

// CleanedTypes lists the logical type of each entry of CleanedColumns.
var CleanedTypes = []string{
	"string", "date", "float64", "float64", "int64",
	"string", "string", "string", "string", "string",
}

// DayNumber converts a calendar date to days since the Unix epoch, the Parquet
// DATE representation.
func DayNumber(t time.Time) int32 {
	y, m, d := t.Date()
	return int32(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400)
}

// DayTime converts days since the Unix epoch back to a UTC midnight time.
func DayTime(day int32) time.Time {
	return time.Unix(int64(day)*86400, 0).UTC()
}

// FormatDay renders a day number as YYYY-MM-DD, or "" when nil.
func FormatDay(day *int32) string {
	if day == nil {
		return ""
	}
	return DayTime(*day).Format("2006-01-02")
}

// Ptr returns a pointer to a copy of v.
func Ptr[T any](v T) *T {
	return &v
}

// Clone returns a pointer to a copy of *p, or nil.
func Clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
