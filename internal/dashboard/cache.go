package dashboard

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/sabarim/stockdash/internal/errs"
	"github.com/sabarim/stockdash/internal/snapshot"
)

// Cache is a read-through cache of decoded snapshots keyed by file path. An
// entry stays valid while the file's modification time and size are unchanged.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
	logger  *slog.Logger
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	rows    any
}

// NewCache creates an empty cache
func NewCache(logger *slog.Logger) *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		logger:  logger.With(slog.String("component", "cache")),
	}
}

// Load returns the rows of the snapshot at path, decoding it only when the
// file changed since the last load. The returned slice is shared and must not
// be modified.
func Load[T any](c *Cache, path string) ([]T, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrSnapshot, path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[path]; ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		if rows, ok := e.rows.([]T); ok {
			return rows, nil
		}
	}

	rows, err := snapshot.Read[T](path)
	if err != nil {
		delete(c.entries, path)
		return nil, err
	}

	c.entries[path] = cacheEntry{modTime: info.ModTime(), size: info.Size(), rows: rows}
	c.logger.Debug("Snapshot loaded", slog.String("path", path), slog.Int("rows", len(rows)))
	return rows, nil
}
