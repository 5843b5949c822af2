package ingest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sabarim/stockdash/internal/errs"
)

// NormalizeHeader converts a raw column name to a lowercase snake_case token:
// surrounding whitespace is stripped, inner whitespace, slashes and dots
// become underscores.
func NormalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '.' || unicode.IsSpace(r) {
			return '_'
		}
		return r
	}, name)
}

// RenameMapping derives the raw to normalized column mapping from a header row.
// Two raw headers normalizing to the same name is a schema error.
func RenameMapping(headers []string) (map[string]string, error) {
	mapping := make(map[string]string, len(headers))
	owner := make(map[string]string, len(headers))
	for _, raw := range headers {
		normalized := NormalizeHeader(raw)
		if prev, ok := owner[normalized]; ok {
			return nil, fmt.Errorf("%w: columns %q and %q both normalize to %q",
				errs.ErrSchema, prev, raw, normalized)
		}
		owner[normalized] = raw
		mapping[raw] = normalized
	}
	return mapping, nil
}
