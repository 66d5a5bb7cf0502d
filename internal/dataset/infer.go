package dataset

import (
	"strconv"
	"strings"
	"time"
)

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05",
}

// InferColumns turns string records (as read from a workbook) into a typed
// Dataset. Each column's kind is decided by the predominant parsed type among
// its non-empty cells; cells that do not parse as the column kind keep their
// raw string value.
func InferColumns(header []string, records [][]string, maxRows int) *Dataset {
	if maxRows > 0 && len(records) > maxRows {
		records = records[:maxRows]
	}
	ncol := len(header)
	ds := &Dataset{Columns: make([]Column, ncol)}

	kinds := make([]string, ncol)
	for j := 0; j < ncol; j++ {
		var numCnt, dtCnt, boolCnt, txtCnt int
		for _, rec := range records {
			if j >= len(rec) {
				continue
			}
			v := strings.TrimSpace(rec[j])
			if v == "" {
				continue
			}
			switch {
			case parseableFloat(v):
				numCnt++
			case parseableTime(v):
				dtCnt++
			case parseableBool(v):
				boolCnt++
			default:
				txtCnt++
			}
		}
		switch {
		case numCnt > 0 && numCnt >= dtCnt && numCnt >= txtCnt && numCnt >= boolCnt:
			kinds[j] = KindNumeric
		case dtCnt > 0 && dtCnt >= txtCnt && dtCnt >= boolCnt:
			kinds[j] = KindDatetime
		case boolCnt > 0 && boolCnt >= txtCnt:
			kinds[j] = KindBool
		default:
			kinds[j] = KindText
		}
		ds.Columns[j] = Column{Name: strings.TrimSpace(header[j]), Kind: kinds[j]}
	}

	ds.Rows = make([][]any, 0, len(records))
	for _, rec := range records {
		row := make([]any, ncol)
		for j := 0; j < ncol; j++ {
			var v string
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			row[j] = parseCell(v, kinds[j])
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

func parseCell(v, kind string) any {
	if v == "" {
		return nil
	}
	switch kind {
	case KindNumeric:
		if f, err := strconv.ParseFloat(stripSeparators(v), 64); err == nil {
			return f
		}
	case KindDatetime:
		for _, l := range timeLayouts {
			if t, err := time.Parse(l, v); err == nil {
				return t
			}
		}
	case KindBool:
		if b, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			return b
		}
	}
	return v
}

func parseableFloat(v string) bool {
	_, err := strconv.ParseFloat(stripSeparators(v), 64)
	return err == nil
}

func parseableTime(v string) bool {
	for _, l := range timeLayouts {
		if _, err := time.Parse(l, v); err == nil {
			return true
		}
	}
	return false
}

func parseableBool(v string) bool {
	switch strings.ToLower(v) {
	case "true", "false":
		return true
	}
	return false
}

// stripSeparators removes thousands separators so "1,200.50" parses.
func stripSeparators(v string) string {
	if strings.Count(v, ",") > 0 && strings.Contains(v, ".") {
		return strings.ReplaceAll(v, ",", "")
	}
	// a single trailing comma group like "1,200" is a thousands separator,
	// not a decimal comma, when followed by exactly three digits
	if i := strings.LastIndex(v, ","); i >= 0 && len(v)-i-1 == 3 && !strings.Contains(v, ".") {
		return strings.ReplaceAll(v, ",", "")
	}
	return v
}
