package ingest

import (
	"fmt"
	"strings"

	"github.com/sabarim/stockdash/internal/errs"
)

// RawTable holds the fetched CSV before any cleaning
type RawTable struct {
	// RawHeader is the header row exactly as received.
	RawHeader []string
	// Header holds the normalized column names, index-aligned with RawHeader.
	Header []string
	Rows   [][]string
}

// NullCount is the number of empty cells of one raw column
type NullCount struct {
	Column string
	Nulls  int
}

// Shape returns the number of rows and columns.
func (t *RawTable) Shape() (int, int) {
	return len(t.Rows), len(t.Header)
}

// Columns maps every normalized column name to its index.
func (t *RawTable) Columns() map[string]int {
	columns := make(map[string]int, len(t.Header))
	for i, col := range t.Header {
		columns[col] = i
	}
	return columns
}

// Require returns the index of each named column, failing with errs.ErrSchema
// when any of them is absent.
func (t *RawTable) Require(names ...string) (map[string]int, error) {
	columns := t.Columns()
	indices := make(map[string]int, len(names))
	var missing []string
	for _, name := range names {
		idx, ok := columns[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		indices[name] = idx
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns %s (have %s)",
			errs.ErrSchema, strings.Join(missing, ", "), strings.Join(t.Header, ", "))
	}
	return indices, nil
}
