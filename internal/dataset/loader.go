package dataset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat indicates the file extension maps to no known reader.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Options controls dataset loading.
type Options struct {
	// MaxRows caps the number of rows materialized; 0 means unlimited.
	MaxRows int
}

// Load reads a tabular file into a Dataset, dispatching on extension.
// Supported: .csv, .tsv, .json, .parquet (DuckDB readers), .xlsx, .xls.
// Unsupported extensions return ErrUnsupportedFormat; the caller keeps any
// previously loaded dataset on failure.
func Load(ctx context.Context, path string, opt Options) (*Dataset, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".tsv", ".json", ".parquet":
		ds, err := loadViaDuckDB(ctx, path, ext, opt.MaxRows)
		if err != nil {
			return nil, err
		}
		ds.Name = filepath.Base(path)
		return ds, nil
	case ".xlsx", ".xls":
		// Legacy binary .xls is not a ZIP container; ReadWorkbook reports a
		// parse error for it rather than an unsupported-format error.
		header, rows, err := ReadWorkbook(path)
		if err != nil {
			return nil, err
		}
		ds := InferColumns(header, rows, opt.MaxRows)
		ds.Name = filepath.Base(path)
		return ds, nil
	case "":
		return nil, fmt.Errorf("%w: %s has no extension", ErrUnsupportedFormat, filepath.Base(path))
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}
