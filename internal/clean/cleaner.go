// Package clean turns a raw CSV table into typed, normalized, deduplicated
// stock-market records.
package clean

import (
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/sabarim/stockdash/internal/ingest"
	"github.com/sabarim/stockdash/internal/snapshot"
)

// DateLayout is the only accepted trade_date format (month/day/4-digit year).
const DateLayout = "1/2/2006"

// MissingTokens are the string values standardized to null.
var MissingTokens = []string{"", "NA", "N/A", "NULL", "-", "na", "n/a", "null"}

// Cleaner converts raw tables to cleaned records
type Cleaner struct {
	logger *slog.Logger
}

// NewCleaner creates a cleaner
func NewCleaner(logger *slog.Logger) *Cleaner {
	return &Cleaner{logger: logger.With(slog.String("component", "cleaner"))}
}

// Clean applies string normalization, null standardization, date parsing,
// type casting and deduplication. It fails only when an expected column is
// missing; unparseable cells become null.
func (c *Cleaner) Clean(t *ingest.RawTable) ([]snapshot.Cleaned, error) {
	idx, err := t.Require(snapshot.CleanedColumns...)
	if err != nil {
		return nil, err
	}

	for _, col := range t.Header {
		if !slices.Contains(snapshot.CleanedColumns, col) {
			c.logger.Warn("Ignoring unexpected column", slog.String("column", col))
		}
	}

	rows := make([]snapshot.Cleaned, 0, len(t.Rows))
	var badDates, badNumbers int
	for _, record := range t.Rows {
		cell := func(name string) string {
			i := idx[name]
			if i >= len(record) {
				return ""
			}
			return record[i]
		}

		row := snapshot.Cleaned{
			Ticker:    String(cell("ticker")),
			Sector:    String(cell("sector")),
			Currency:  String(cell("currency")),
			Exchange:  String(cell("exchange")),
			Validated: String(cell("validated")),
			Notes:     String(cell("notes")),
		}

		if date := String(cell("trade_date")); date != nil {
			row.TradeDate = Date(*date)
			if row.TradeDate == nil {
				badDates++
			}
		}

		row.OpenPrice = Float(cell("open_price"))
		row.ClosePrice = Float(cell("close_price"))
		row.Volume = Int(cell("volume"))
		badNumbers += unparsed(cell("open_price"), row.OpenPrice != nil) +
			unparsed(cell("close_price"), row.ClosePrice != nil) +
			unparsed(cell("volume"), row.Volume != nil)

		rows = append(rows, row)
	}

	cleaned := Dedup(rows)
	c.logger.Info("Cleaning complete",
		slog.Int("input_rows", len(t.Rows)),
		slog.Int("output_rows", len(cleaned)),
		slog.Int("duplicates_removed", len(rows)-len(cleaned)),
		slog.Int("unparsed_dates", badDates),
		slog.Int("unparsed_numbers", badNumbers))
	return cleaned, nil
}

// unparsed reports 1 when a non-blank numeric cell failed to parse
func unparsed(raw string, parsed bool) int {
	if parsed || strings.TrimSpace(raw) == "" {
		return 0
	}
	return 1
}

// String trims and lowercases s, returning nil for missing-value tokens.
func String(s string) *string {
	s = strings.ToLower(strings.TrimSpace(s))
	if slices.Contains(MissingTokens, s) {
		return nil
	}
	return &s
}

// Date parses a normalized trade_date, returning nil on any mismatch.
func Date(s string) *int32 {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil
	}
	return snapshot.Ptr(snapshot.DayNumber(t))
}

// Float parses a price cell, returning nil when it is not a finite number.
func Float(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Int parses a volume cell. Decimal text is truncated toward zero the way a
// float to integer cast is; values outside the int64 range are nil.
func Int(s string) *int64 {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return &v
	}
	f := Float(s)
	if f == nil {
		return nil
	}
	t := math.Trunc(*f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return nil
	}
	v := int64(t)
	return &v
}
