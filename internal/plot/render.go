package plot

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Options controls chart rendering.
type Options struct {
	// Width is the drawable area in cells (bars and grids), excluding labels.
	Width int
	// Height is the grid height for vertical charts.
	Height int
	// Color enables lipgloss styling; off for non-TTY output and tests.
	Color bool
}

// DefaultOptions returns the default terminal chart geometry.
func DefaultOptions() Options {
	return Options{Width: 60, Height: 12}
}

var seriesGlyphs = []rune{'•', '◦', '▪', '×'}

var seriesColors = []lipgloss.Color{"6", "3", "5", "2"}

type styler struct{ on bool }

func (s styler) title(v string) string {
	if !s.on {
		return v
	}
	return lipgloss.NewStyle().Bold(true).Render(v)
}

func (s styler) series(i int, v string) string {
	if !s.on {
		return v
	}
	c := seriesColors[i%len(seriesColors)]
	return lipgloss.NewStyle().Foreground(c).Render(v)
}

func (s styler) axis(v string) string {
	if !s.on {
		return v
	}
	return lipgloss.NewStyle().Faint(true).Render(v)
}

// Render draws the chart as a Unicode block suitable for terminal output.
func Render(c *Chart, opt Options) string {
	if opt.Width <= 0 {
		opt.Width = 60
	}
	if opt.Height <= 0 {
		opt.Height = 12
	}
	st := styler{on: opt.Color}

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(st.title(c.Title))
		b.WriteByte('\n')
	}
	if c.YLabel != "" {
		fmt.Fprintf(&b, "%s\n", st.axis("y: "+c.YLabel))
	}

	switch c.Kind {
	case KindBar:
		renderBarV(&b, st, c.Labels, c.Values, opt)
	case KindBarH:
		renderBarH(&b, st, c.Labels, c.Values, opt)
	case KindHist:
		labels, counts := binValues(c.Values, c.Bins)
		renderBarH(&b, st, labels, counts, opt)
	case KindLine, KindScatter:
		renderXY(&b, st, c, opt)
	}

	if c.XLabel != "" {
		fmt.Fprintf(&b, "%s\n", st.axis("x: "+c.XLabel))
	}
	return b.String()
}

func fmtVal(v float64) string { return fmt.Sprintf("%.4g", v) }

func renderBarH(b *strings.Builder, st styler, labels []string, values []float64, opt Options) {
	labelW := 0
	for _, l := range labels {
		if len(l) > labelW {
			labelW = len(l)
		}
	}
	if labelW > 20 {
		labelW = 20
	}
	maxAbs := 0.0
	for _, v := range values {
		if a := math.Abs(v); a > maxAbs {
			maxAbs = a
		}
	}
	barW := opt.Width - labelW - 10
	if barW < 10 {
		barW = 10
	}
	for i, l := range labels {
		if len(l) > labelW {
			l = l[:labelW-1] + "…"
		}
		n := 0
		if maxAbs > 0 {
			n = int(math.Round(math.Abs(values[i]) / maxAbs * float64(barW)))
		}
		if n == 0 && values[i] != 0 {
			n = 1
		}
		bar := st.series(0, strings.Repeat("█", n))
		fmt.Fprintf(b, "%*s %s %s\n", labelW, l, bar, fmtVal(values[i]))
	}
}

// renderBarV draws columns with the category labels underneath; wide label
// sets fall back to horizontal bars.
func renderBarV(b *strings.Builder, st styler, labels []string, values []float64, opt Options) {
	colW := 3
	for _, l := range labels {
		if len(l)+1 > colW {
			colW = len(l) + 1
		}
	}
	if colW > 10 {
		colW = 10
	}
	if len(labels)*colW > opt.Width {
		renderBarH(b, st, labels, values, opt)
		return
	}
	maxV := 0.0
	for _, v := range values {
		if v > maxV {
			maxV = v
		}
	}
	h := opt.Height
	levels := make([]int, len(values))
	for i, v := range values {
		if maxV > 0 && v > 0 {
			levels[i] = int(math.Round(v / maxV * float64(h)))
			if levels[i] == 0 {
				levels[i] = 1
			}
		}
	}
	for row := h; row >= 1; row-- {
		var line strings.Builder
		if row == h {
			line.WriteString(fmt.Sprintf("%8s ", fmtVal(maxV)))
		} else {
			line.WriteString(strings.Repeat(" ", 9))
		}
		line.WriteString(st.axis("│"))
		for i := range values {
			cell := strings.Repeat(" ", colW)
			if levels[i] >= row {
				cell = st.series(0, strings.Repeat("█", colW-1)) + " "
			}
			line.WriteString(cell)
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	b.WriteString(fmt.Sprintf("%8s ", "0"))
	b.WriteString(st.axis("└" + strings.Repeat("─", len(labels)*colW)))
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", 10))
	for _, l := range labels {
		if len(l) > colW-1 {
			l = l[:colW-2] + "…"
		}
		fmt.Fprintf(b, "%-*s", colW, l)
	}
	b.WriteByte('\n')
}

func renderXY(b *strings.Builder, st styler, c *Chart, opt Options) {
	w, h := opt.Width, opt.Height
	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for _, s := range c.Series {
		for i := range s.X {
			xmin = math.Min(xmin, s.X[i])
			xmax = math.Max(xmax, s.X[i])
			ymin = math.Min(ymin, s.Y[i])
			ymax = math.Max(ymax, s.Y[i])
		}
	}
	if xmin == xmax {
		xmin, xmax = xmin-1, xmax+1
	}
	if ymin == ymax {
		ymin, ymax = ymin-1, ymax+1
	}

	grid := make([][]int, h) // -1 empty, else series index
	for r := range grid {
		grid[r] = make([]int, w)
		for col := range grid[r] {
			grid[r][col] = -1
		}
	}
	put := func(si int, x, y float64) {
		col := int(math.Round((x - xmin) / (xmax - xmin) * float64(w-1)))
		row := h - 1 - int(math.Round((y-ymin)/(ymax-ymin)*float64(h-1)))
		if col >= 0 && col < w && row >= 0 && row < h {
			grid[row][col] = si
		}
	}
	for si, s := range c.Series {
		for i := range s.X {
			put(si, s.X[i], s.Y[i])
		}
		if c.Kind == KindLine {
			// connect consecutive points by sampling each column between them
			for i := 1; i < len(s.X); i++ {
				x0, y0, x1, y1 := s.X[i-1], s.Y[i-1], s.X[i], s.Y[i]
				steps := int(math.Abs((x1-x0)/(xmax-xmin)) * float64(w))
				for k := 1; k < steps; k++ {
					t := float64(k) / float64(steps)
					put(si, x0+(x1-x0)*t, y0+(y1-y0)*t)
				}
			}
		}
	}

	for r := 0; r < h; r++ {
		var pref string
		switch r {
		case 0:
			pref = fmt.Sprintf("%8s ", fmtVal(ymax))
		case h - 1:
			pref = fmt.Sprintf("%8s ", fmtVal(ymin))
		default:
			pref = strings.Repeat(" ", 9)
		}
		var line strings.Builder
		line.WriteString(pref)
		line.WriteString(st.axis("│"))
		for col := 0; col < w; col++ {
			if si := grid[r][col]; si >= 0 {
				line.WriteString(st.series(si, string(seriesGlyphs[si%len(seriesGlyphs)])))
			} else {
				line.WriteByte(' ')
			}
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	b.WriteString(strings.Repeat(" ", 9))
	b.WriteString(st.axis("└" + strings.Repeat("─", w)))
	b.WriteByte('\n')
	fmt.Fprintf(b, "%9s%-*s%s\n", " ", w-len(fmtVal(xmax)), fmtVal(xmin), fmtVal(xmax))

	if len(c.Series) > 1 || (len(c.Series) == 1 && c.Series[0].Label != "") {
		parts := make([]string, len(c.Series))
		for i, s := range c.Series {
			label := s.Label
			if label == "" {
				label = fmt.Sprintf("series %d", i+1)
			}
			parts[i] = st.series(i, string(seriesGlyphs[i%len(seriesGlyphs)])) + " " + label
		}
		b.WriteString(strings.Join(parts, "   "))
		b.WriteByte('\n')
	}
}

// binValues buckets values into equal-width bins for histograms.
func binValues(values []float64, bins int) ([]string, []float64) {
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		minV = math.Min(minV, v)
		maxV = math.Max(maxV, v)
	}
	if minV == maxV {
		return []string{fmtVal(minV)}, []float64{float64(len(values))}
	}
	width := (maxV - minV) / float64(bins)
	counts := make([]float64, bins)
	for _, v := range values {
		i := int((v - minV) / width)
		if i >= bins {
			i = bins - 1
		}
		counts[i]++
	}
	labels := make([]string, bins)
	for i := range labels {
		labels[i] = fmt.Sprintf("%s–%s", fmtVal(minV+float64(i)*width), fmtVal(minV+float64(i+1)*width))
	}
	return labels, counts
}
