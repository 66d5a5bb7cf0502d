// Package dataset loads tabular files into an in-memory, column-typed table.
// CSV/TSV/JSON/Parquet go through DuckDB's native readers; Excel workbooks are
// parsed directly from the xlsx container.
package dataset

import (
	"strconv"
	"time"
)

// Column storage kinds.
const (
	KindNumeric  = "numeric"
	KindDatetime = "datetime"
	KindBool     = "boolean"
	KindText     = "text"
)

// Column describes one named, typed column.
type Column struct {
	Name string
	Kind string
}

// Dataset is an in-memory table: rows of cells under named, typed columns.
// Cells hold nil (null), float64, int64, bool, string, or time.Time.
// A Dataset is owned by exactly one session and replaced wholesale on load.
type Dataset struct {
	Name    string // base filename it was loaded from
	Columns []Column
	Rows    [][]any
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int { return len(d.Rows) }

// NumCols returns the column count.
func (d *Dataset) NumCols() int { return len(d.Columns) }

// ColumnIndex returns the index of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnValues returns all cells of column i in row order.
func (d *Dataset) ColumnValues(i int) []any {
	out := make([]any, len(d.Rows))
	for r, row := range d.Rows {
		if i < len(row) {
			out[r] = row[i]
		}
	}
	return out
}

// NumericValues returns the non-null cells of column i that carry a numeric
// value, in row order.
func (d *Dataset) NumericValues(i int) []float64 {
	var out []float64
	for _, row := range d.Rows {
		if i >= len(row) {
			continue
		}
		if f, ok := AsFloat(row[i]); ok {
			out = append(out, f)
		}
	}
	return out
}

// AsFloat converts a numeric cell to float64.
func AsFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int64:
		return float64(x), true
	}
	return 0, false
}

// FormatCell renders a cell for display and sample rows.
func FormatCell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		if x.Hour() == 0 && x.Minute() == 0 && x.Second() == 0 {
			return x.Format("2006-01-02")
		}
		return x.Format("2006-01-02 15:04:05")
	case float64:
		if x == float64(int64(x)) && x < 1e15 && x > -1e15 {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		if x {
			return "true"
		}
		return "false"
	default:
		return ""
	}
}
