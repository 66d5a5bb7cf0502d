package analysis

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"
)

// PromptContext renders the summary as the fixed textual template the
// generation prompt embeds. The wording stays stable across releases: the
// system instruction refers back to these section headers.
func (s *Summary) PromptContext() string {
	var b strings.Builder
	b.WriteString("Dataset Information:\n")
	fmt.Fprintf(&b, "- Shape: %d rows, %d columns\n", s.Rows, s.Cols)
	names := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		names[i] = c.Name
	}
	fmt.Fprintf(&b, "- Columns: %s\n", strings.Join(names, ", "))

	b.WriteString("\nColumn Types:\n")
	for _, c := range s.Columns {
		fmt.Fprintf(&b, "- %s: %s (nulls %d, unique %d)\n", c.Name, c.Kind, c.NullCount, c.Unique)
	}

	if len(s.Samples) > 0 {
		fmt.Fprintf(&b, "\nSample Data (first %d rows):\n", len(s.Samples))
		b.WriteString(strings.Join(names, " | "))
		b.WriteByte('\n')
		for _, rec := range s.Samples {
			b.WriteString(strings.Join(rec, " | "))
			b.WriteByte('\n')
		}
	}

	if s.HasNumeric() {
		b.WriteString("\nNumeric Statistics:\n")
		for _, c := range s.Columns {
			if c.Stats == nil {
				continue
			}
			st := c.Stats
			fmt.Fprintf(&b, "- %s: min=%.4g, p25=%.4g, median=%.4g, p75=%.4g, max=%.4g, mean=%.4g, std=%.4g\n",
				c.Name, st.Min, st.P25, st.P50, st.P75, st.Max, st.Mean, st.Std)
		}
	}

	var catLines []string
	for _, c := range s.Columns {
		if len(c.TopValues) == 0 {
			continue
		}
		parts := make([]string, len(c.TopValues))
		for i, tv := range c.TopValues {
			parts[i] = fmt.Sprintf("%s(%d)", tv.Value, tv.Count)
		}
		catLines = append(catLines, fmt.Sprintf("- %s: unique=%d, top: %s", c.Name, c.Unique, strings.Join(parts, ", ")))
	}
	if len(catLines) > 0 {
		b.WriteString("\nCategorical Columns:\n")
		b.WriteString(strings.Join(catLines, "\n"))
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderSummary writes a human-facing rendering of the summary in the given
// format: "table" (default), "json", or "yaml".
func RenderSummary(w io.Writer, s *Summary, format string) error {
	switch format {
	case "", "table":
		renderTables(w, s)
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(summaryDoc(s))
	case "yaml":
		b, err := yaml.Marshal(summaryDoc(s))
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	default:
		return fmt.Errorf("unsupported format: %s (use table|json|yaml)", format)
	}
}

func renderTables(w io.Writer, s *Summary) {
	fmt.Fprintf(w, "%s — %d rows × %d columns\n\n", s.Name, s.Rows, s.Cols)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"column", "kind", "nulls", "unique", "min", "max", "mean", "std"})
	for _, c := range s.Columns {
		row := table.Row{c.Name, c.Kind, c.NullCount, c.Unique, "", "", "", ""}
		if c.Stats != nil {
			row[4] = fmt.Sprintf("%.4g", c.Stats.Min)
			row[5] = fmt.Sprintf("%.4g", c.Stats.Max)
			row[6] = fmt.Sprintf("%.4g", c.Stats.Mean)
			row[7] = fmt.Sprintf("%.4g", c.Stats.Std)
		}
		t.AppendRow(row)
	}
	t.Render()

	if len(s.Samples) == 0 {
		return
	}
	fmt.Fprintf(w, "\nSample (first %d rows):\n", len(s.Samples))
	st := table.NewWriter()
	st.SetOutputMirror(w)
	st.SetStyle(table.StyleLight)
	header := make(table.Row, len(s.Columns))
	for i, c := range s.Columns {
		header[i] = c.Name
	}
	st.AppendHeader(header)
	for _, rec := range s.Samples {
		row := make(table.Row, len(rec))
		for i, v := range rec {
			row[i] = v
		}
		st.AppendRow(row)
	}
	st.Render()
}

// summaryDoc shapes the summary for structured output without exposing
// internal pointer fields as nulls.
func summaryDoc(s *Summary) map[string]any {
	cols := make([]map[string]any, 0, len(s.Columns))
	for _, c := range s.Columns {
		m := map[string]any{
			"name":   c.Name,
			"kind":   c.Kind,
			"nulls":  c.NullCount,
			"unique": c.Unique,
		}
		if c.Stats != nil {
			m["stats"] = map[string]any{
				"count":  c.Stats.Count,
				"min":    c.Stats.Min,
				"max":    c.Stats.Max,
				"mean":   c.Stats.Mean,
				"std":    c.Stats.Std,
				"p25":    c.Stats.P25,
				"median": c.Stats.P50,
				"p75":    c.Stats.P75,
			}
		}
		if len(c.TopValues) > 0 {
			tops := make([]map[string]any, len(c.TopValues))
			for i, tv := range c.TopValues {
				tops[i] = map[string]any{"value": tv.Value, "count": tv.Count}
			}
			m["top_values"] = tops
		}
		cols = append(cols, m)
	}
	return map[string]any{
		"name":    s.Name,
		"rows":    s.Rows,
		"columns": s.Cols,
		"schema":  cols,
		"samples": s.Samples,
	}
}
