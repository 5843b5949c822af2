package snapshot

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/sabarim/stockdash/internal/errs"
)

const parallelism = 4

// Write stores rows as a Parquet snapshot at path. The data is written to a
// temporary file in the same directory and renamed into place, so readers
// never observe a partial file.
func Write[T any](path string, rows []T) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary snapshot: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to prepare temporary snapshot: %w", err)
	}

	if err := writeRows(tmpName, rows); err != nil {
		os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to publish snapshot %s: %w", path, err)
	}

	return nil
}

// writeRows encodes rows into filename
func writeRows[T any](filename string, rows []T) error {
	fw, err := local.NewLocalFileWriter(filename)
	if err != nil {
		return fmt.Errorf("failed to create parquet file: %w", err)
	}

	pw, err := writer.NewParquetWriter(fw, new(T), parallelism)
	if err != nil {
		fw.Close()
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	pw.RowGroupSize = 128 * 1024 * 1024 // 128MB row groups
	pw.PageSize = 8 * 1024              // 8KB pages

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			fw.Close()
			return fmt.Errorf("failed to write parquet data: %w", err)
		}
	}

	if err := pw.WriteStop(); err != nil {
		fw.Close()
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}

	if err := fw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet file: %w", err)
	}
	return nil
}

// Read loads every row of the Parquet snapshot at path. A missing or
// undecodable file is reported as errs.ErrSnapshot.
func Read[T any](path string) (rows []T, err error) {
	// the decoder panics on some malformed footers
	defer func() {
		if r := recover(); r != nil {
			rows, err = nil, fmt.Errorf("%w: %s: %v", errs.ErrSnapshot, path, r)
		}
	}()

	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrSnapshot, path, err)
	}

	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrSnapshot, path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(T), parallelism)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrSnapshot, path, err)
	}
	defer pr.ReadStop()

	rows = make([]T, int(pr.GetNumRows()))
	if len(rows) == 0 {
		return rows, nil
	}
	if err := pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", errs.ErrSnapshot, path, err)
	}
	return rows, nil
}
