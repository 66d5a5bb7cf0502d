// Package analysis computes read-only metadata summaries of datasets: shape,
// column kinds, null counts, sample rows, and descriptive statistics. The
// summary feeds both the `info` command and the generation prompt.
package analysis

import (
	"math"
	"sort"

	"github.com/mkarlsen/chatplot/internal/dataset"
)

// Options controls summarization behavior.
type Options struct {
	// SampleRows determines how many leading rows appear in the summary.
	SampleRows int
	// TopValues caps the per-column categorical top-value list.
	TopValues int
}

// DefaultOptions returns reasonable defaults for dataset summaries.
func DefaultOptions() Options {
	return Options{SampleRows: 5, TopValues: 8}
}

// Summary is a derived, point-in-time description of a dataset. It has no
// lifecycle of its own: regenerated on demand, never mutated.
type Summary struct {
	Name    string
	Rows    int
	Cols    int
	Columns []ColumnSummary
	Samples [][]string // leading rows, rendered as strings, column order
}

// ColumnSummary captures one column's kind and statistics.
type ColumnSummary struct {
	Name      string
	Kind      string // numeric|datetime|categorical|text|boolean
	NullCount int
	Unique    int
	Stats     *NumStats    // numeric columns only
	TopValues []ValueCount // categorical/boolean columns only
}

// NumStats are descriptive statistics over a column's numeric cells.
type NumStats struct {
	Count         int
	Min, Max      float64
	Mean, Std     float64
	P25, P50, P75 float64
}

// ValueCount is one categorical value and its frequency.
type ValueCount struct {
	Value string
	Count int
}

// HasNumeric reports whether any column carries numeric statistics.
func (s *Summary) HasNumeric() bool {
	for _, c := range s.Columns {
		if c.Stats != nil {
			return true
		}
	}
	return false
}

// Summarize computes a Summary for ds. Pure: ds is not modified. An empty
// dataset yields zero counts; a dataset with no numeric columns yields no
// numeric statistics.
func Summarize(ds *dataset.Dataset, opt Options) *Summary {
	if opt.SampleRows <= 0 {
		opt.SampleRows = 5
	}
	if opt.TopValues <= 0 {
		opt.TopValues = 8
	}

	s := &Summary{
		Name: ds.Name,
		Rows: ds.NumRows(),
		Cols: ds.NumCols(),
	}

	for j, col := range ds.Columns {
		cs := ColumnSummary{Name: col.Name, Kind: col.Kind}

		var nums []float64
		cats := map[string]int{}
		seen := map[string]struct{}{}
		shortVals := 0

		for _, row := range ds.Rows {
			var v any
			if j < len(row) {
				v = row[j]
			}
			if v == nil {
				cs.NullCount++
				continue
			}
			cell := dataset.FormatCell(v)
			seen[cell] = struct{}{}
			if f, ok := dataset.AsFloat(v); ok {
				nums = append(nums, f)
			}
			// short values are category candidates, long ones free text
			if len(cell) <= 64 {
				shortVals++
				cats[cell]++
			}
		}
		cs.Unique = len(seen)

		switch col.Kind {
		case dataset.KindNumeric:
			if len(nums) > 0 {
				cs.Stats = numStats(nums)
			}
		case dataset.KindBool:
			cs.TopValues = topValues(cats, opt.TopValues)
		case dataset.KindText:
			if shortVals > 0 {
				cs.Kind = "categorical"
				cs.TopValues = topValues(cats, opt.TopValues)
			}
		}
		s.Columns = append(s.Columns, cs)
	}

	n := opt.SampleRows
	if n > len(ds.Rows) {
		n = len(ds.Rows)
	}
	for r := 0; r < n; r++ {
		rec := make([]string, ds.NumCols())
		for j := range rec {
			if j < len(ds.Rows[r]) {
				rec[j] = dataset.FormatCell(ds.Rows[r][j])
			}
		}
		s.Samples = append(s.Samples, rec)
	}
	return s
}

func numStats(vals []float64) *NumStats {
	st := &NumStats{Count: len(vals), Min: math.Inf(1), Max: math.Inf(-1)}
	// Welford
	var mean, m2 float64
	for i, x := range vals {
		if x < st.Min {
			st.Min = x
		}
		if x > st.Max {
			st.Max = x
		}
		delta := x - mean
		mean += delta / float64(i+1)
		m2 += delta * (x - mean)
	}
	st.Mean = mean
	if len(vals) > 1 {
		st.Std = math.Sqrt(m2 / float64(len(vals)-1))
	}

	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	st.P25 = quantile(sorted, 0.25)
	st.P50 = quantile(sorted, 0.50)
	st.P75 = quantile(sorted, 0.75)
	return st
}

// quantile returns the p-quantile of sorted values, linearly interpolated.
func quantile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func topValues(cats map[string]int, limit int) []ValueCount {
	tops := make([]ValueCount, 0, len(cats))
	for k, v := range cats {
		tops = append(tops, ValueCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > limit {
		tops = tops[:limit]
	}
	return tops
}
