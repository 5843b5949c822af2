package ingest

// NullReport counts the empty cells of every raw column, keyed by the raw
// header as received.
func NullReport(t *RawTable) []NullCount {
	counts := make([]NullCount, len(t.RawHeader))
	for i, col := range t.RawHeader {
		counts[i].Column = col
	}
	for _, row := range t.Rows {
		for i := range counts {
			if i >= len(row) || row[i] == "" {
				counts[i].Nulls++
			}
		}
	}
	return counts
}

// Head returns at most n rows from the top of the table.
func (t *RawTable) Head(n int) [][]string {
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return t.Rows[:n]
}
