package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/sabarim/stockdash/internal/aggregate"
	"github.com/sabarim/stockdash/internal/clean"
	"github.com/sabarim/stockdash/internal/config"
	"github.com/sabarim/stockdash/internal/console"
	"github.com/sabarim/stockdash/internal/ingest"
	"github.com/sabarim/stockdash/internal/snapshot"
)

// Pipeline runs the batch stages against one configuration
type Pipeline struct {
	config  *config.Config
	fetcher *ingest.Fetcher
	cleaner *clean.Cleaner
	logger  *slog.Logger
	out     io.Writer
}

// New creates a pipeline. Human-readable reports are written to out.
func New(cfg *config.Config, logger *slog.Logger, out io.Writer) *Pipeline {
	return &Pipeline{
		config:  cfg,
		fetcher: ingest.NewFetcher(cfg.Source, logger),
		cleaner: clean.NewCleaner(logger),
		logger:  logger.With(slog.String("component", "pipeline")),
		out:     out,
	}
}

// Prep fetches the raw CSV, reports on it, cleans it and writes the cleaned
// snapshot.
func (p *Pipeline) Prep(ctx context.Context) error {
	// 1. Fetch once; the header of this response drives the rename mapping
	table, err := p.fetcher.Fetch(ctx)
	if err != nil {
		return err
	}

	// 2. Inspect the raw data
	p.reportRaw(table)

	// 3. Clean
	rows, err := p.cleaner.Clean(table)
	if err != nil {
		return err
	}

	// 4. Publish
	path := p.config.Output.CleanedPath()
	if err := snapshot.Write(path, rows); err != nil {
		return fmt.Errorf("failed to write cleaned snapshot: %w", err)
	}
	p.logger.Info("Cleaned data saved", slog.String("path", path), slog.Int("rows", len(rows)))

	p.reportCleaned(rows)
	return nil
}

// Aggregate reads the cleaned snapshot and writes the three aggregate snapshots.
func (p *Pipeline) Aggregate() error {
	rows, err := snapshot.Read[snapshot.Cleaned](p.config.Output.CleanedPath())
	if err != nil {
		return err
	}

	daily := aggregate.DailyAverageClose(rows)
	if err := publish(p, p.config.Output.DailyClosePath(), "daily average close price", daily, len(snapshot.DailyCloseColumns)); err != nil {
		return err
	}

	volume := aggregate.AverageVolumeBySector(rows)
	if err := publish(p, p.config.Output.VolumePath(), "average volume by sector", volume, len(snapshot.SectorVolumeColumns)); err != nil {
		return err
	}

	returns := aggregate.SimpleDailyReturn(rows)
	if err := publish(p, p.config.Output.ReturnPath(), "simple daily return", returns, len(snapshot.DailyReturnColumns)); err != nil {
		return err
	}

	p.logger.Info("Aggregation complete")
	return nil
}

// Run executes Prep followed by Aggregate.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := p.Prep(ctx); err != nil {
		return err
	}
	return p.Aggregate()
}

// publish writes one aggregate snapshot and logs its shape
func publish[T any](p *Pipeline, path, name string, rows []T, columns int) error {
	if err := snapshot.Write(path, rows); err != nil {
		return fmt.Errorf("failed to write %s snapshot: %w", name, err)
	}
	p.logger.Info("Aggregate saved",
		slog.String("aggregate", name),
		slog.String("path", path),
		slog.Int("rows", len(rows)),
		slog.Int("columns", columns))
	return nil
}

func (p *Pipeline) reportRaw(table *ingest.RawTable) {
	rows, cols := table.Shape()
	console.Line(p.out, "Raw Data Shape", fmt.Sprintf("(%d rows, %d columns)", rows, cols))
	console.Table(p.out, "Raw Preview (first 5 rows)", table.RawHeader, table.Head(5))

	counts := ingest.NullReport(table)
	cells := make([][]string, len(counts))
	for i, c := range counts {
		cells[i] = []string{c.Column, strconv.Itoa(c.Nulls)}
	}
	console.Table(p.out, "Null Value Counts", []string{"column", "null_count"}, cells)
}

func (p *Pipeline) reportCleaned(rows []snapshot.Cleaned) {
	schema := make([][]string, len(snapshot.CleanedColumns))
	for i, col := range snapshot.CleanedColumns {
		schema[i] = []string{col, snapshot.CleanedTypes[i]}
	}
	console.Table(p.out, "Cleaned Schema", []string{"column", "type"}, schema)

	n := min(3, len(rows))
	preview := make([][]string, n)
	for i := 0; i < n; i++ {
		preview[i] = rows[i].Cells()
	}
	console.Table(p.out, "Cleaned Preview (first 3 rows)", snapshot.CleanedColumns, preview)
}
