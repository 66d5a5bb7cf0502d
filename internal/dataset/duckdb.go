package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/marcboeker/go-duckdb" // duckdb driver
)

// loadViaDuckDB materializes a file into a Dataset through an in-memory DuckDB
// connection. DuckDB owns the format details (schema sniffing, parsing); we
// only map its column types back onto our kinds.
func loadViaDuckDB(ctx context.Context, path, ext string, maxRows int) (*Dataset, error) {
	db, err := sql.Open("duckdb", "")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer func() { _ = db.Close() }()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}
	// Paths are spliced into SQL; single quotes must be doubled.
	quoted := strings.ReplaceAll(abs, "'", "''")

	var from string
	switch ext {
	case ".csv", ".tsv":
		from = fmt.Sprintf("read_csv_auto('%s', header=true)", quoted)
	case ".json":
		from = fmt.Sprintf("read_json_auto('%s')", quoted)
	case ".parquet":
		from = fmt.Sprintf("read_parquet('%s')", quoted)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}

	query := "SELECT * FROM " + from
	if maxRows > 0 {
		query = fmt.Sprintf("%s LIMIT %d", query, maxRows)
	}

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	defer func() { _ = rows.Close() }()

	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, fmt.Errorf("column types: %w", err)
	}

	ds := &Dataset{Columns: make([]Column, len(colTypes))}
	for i, ct := range colTypes {
		ds.Columns[i] = Column{Name: ct.Name(), Kind: kindFromDuckDB(ct.DatabaseTypeName())}
	}

	for rows.Next() {
		values := make([]any, len(colTypes))
		ptrs := make([]any, len(colTypes))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(ds.Rows)+1, err)
		}
		row := make([]any, len(values))
		for i, v := range values {
			row[i] = normalizeCell(v)
		}
		ds.Rows = append(ds.Rows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return ds, nil
}

// kindFromDuckDB maps DuckDB type names onto column kinds.
func kindFromDuckDB(t string) string {
	t = strings.ToUpper(t)
	switch {
	case strings.Contains(t, "INT") || t == "FLOAT" || t == "DOUBLE" || t == "REAL" ||
		strings.HasPrefix(t, "DECIMAL") || strings.HasPrefix(t, "NUMERIC"):
		return KindNumeric
	case strings.HasPrefix(t, "TIMESTAMP") || t == "DATE" || strings.HasPrefix(t, "TIME"):
		return KindDatetime
	case t == "BOOLEAN" || t == "BOOL":
		return KindBool
	default:
		return KindText
	}
}

// normalizeCell narrows driver-specific scan types to the Dataset cell set.
func normalizeCell(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case []byte:
		return string(x)
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case int64:
		return x
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint64:
		return int64(x)
	case float32:
		return float64(x)
	case float64:
		return x
	case bool:
		return x
	case string:
		return x
	case time.Time:
		return x
	default:
		return fmt.Sprintf("%v", x)
	}
}
