package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sabarim/stockdash/internal/config"
	"github.com/sabarim/stockdash/internal/errs"
)

// Fetcher downloads the raw stock-market CSV
type Fetcher struct {
	client *resty.Client
	url    string
	logger *slog.Logger
}

// NewFetcher creates a fetcher for the configured source
func NewFetcher(cfg config.SourceConfig, logger *slog.Logger) *Fetcher {
	client := resty.New()
	client.SetTimeout(time.Duration(cfg.Timeout) * time.Second)
	client.SetHeader("Accept", "text/csv, text/plain, */*")

	return &Fetcher{
		client: client,
		url:    cfg.URL,
		logger: logger.With(slog.String("component", "fetcher")),
	}
}

// Fetch performs a single GET of the source and parses the body. The rename
// mapping is taken from the header row of this same response.
func (f *Fetcher) Fetch(ctx context.Context) (*RawTable, error) {
	f.logger.Info("Downloading raw data", slog.String("url", f.url))

	resp, err := f.client.R().SetContext(ctx).Get(f.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrFetch, f.url, err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("%w: %s: status code %d", errs.ErrFetch, f.url, resp.StatusCode())
	}

	table, err := ParseCSV(bytes.NewReader(resp.Body()))
	if err != nil {
		return nil, err
	}

	rows, cols := table.Shape()
	f.logger.Info("Raw data loaded", slog.Int("rows", rows), slog.Int("columns", cols),
		slog.Int("bytes", len(resp.Body())))
	return table, nil
}

// ParseCSV reads a header row followed by data rows and normalizes the header.
func ParseCSV(r io.Reader) (*RawTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // short rows read as missing cells
	reader.LazyQuotes = true    // free text may carry a bare quote

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: source has no header row", errs.ErrSchema)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", errs.ErrSchema, err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	mapping, err := RenameMapping(header)
	if err != nil {
		return nil, err
	}

	table := &RawTable{
		RawHeader: header,
		Header:    make([]string, len(header)),
	}
	for i, raw := range header {
		table.Header[i] = mapping[raw]
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: failed to read CSV record: %v", errs.ErrSchema, err)
		}
		table.Rows = append(table.Rows, record)
	}

	return table, nil
}
