// Package plot records chart specifications built by generated code and
// renders them as Unicode charts in the terminal.
package plot

import (
	"errors"
	"fmt"
)

// Kind of chart.
type Kind string

const (
	KindBar     Kind = "bar"
	KindBarH    Kind = "barh"
	KindLine    Kind = "line"
	KindScatter Kind = "scatter"
	KindHist    Kind = "hist"
)

// Series is one x/y series of a line or scatter chart.
type Series struct {
	Label string
	X, Y  []float64
}

// Chart is the accumulated specification of one plot.
type Chart struct {
	Kind   Kind
	Title  string
	XLabel string
	YLabel string

	// bar/barh/hist
	Labels []string
	Values []float64
	Bins   int

	// line/scatter
	Series []Series

	// Shown is set by the display call; a chart that was never shown is
	// reported but not treated as a failure.
	Shown bool
}

// ErrNoPlot indicates show() was called before any plotting call.
var ErrNoPlot = errors.New("show() called before any plot call")

// Recorder accumulates plt.* calls from one execution into a Chart.
type Recorder struct {
	chart Chart
	plots int
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder { return &Recorder{} }

// Chart returns the accumulated chart, or nil if nothing was plotted.
func (r *Recorder) Chart() *Chart {
	if r.plots == 0 {
		return nil
	}
	return &r.chart
}

func (r *Recorder) setKind(k Kind) error {
	if r.plots > 0 && r.chart.Kind != k {
		return fmt.Errorf("cannot mix %s and %s in one chart", r.chart.Kind, k)
	}
	r.chart.Kind = k
	r.plots++
	return nil
}

// Bar records a vertical bar chart.
func (r *Recorder) Bar(labels []string, values []float64) error {
	return r.bars(KindBar, labels, values)
}

// BarH records a horizontal bar chart.
func (r *Recorder) BarH(labels []string, values []float64) error {
	return r.bars(KindBarH, labels, values)
}

func (r *Recorder) bars(kind Kind, labels []string, values []float64) error {
	if len(labels) != len(values) {
		return fmt.Errorf("bar: %d labels but %d values", len(labels), len(values))
	}
	if len(labels) == 0 {
		return errors.New("bar: empty data")
	}
	if err := r.setKind(kind); err != nil {
		return err
	}
	r.chart.Labels = labels
	r.chart.Values = values
	return nil
}

// Line records one series of a line chart; repeat for multiple series.
func (r *Recorder) Line(x, y []float64, label string) error {
	return r.xy(KindLine, x, y, label)
}

// Scatter records one series of a scatter plot.
func (r *Recorder) Scatter(x, y []float64, label string) error {
	return r.xy(KindScatter, x, y, label)
}

func (r *Recorder) xy(kind Kind, x, y []float64, label string) error {
	if len(x) != len(y) {
		return fmt.Errorf("%s: %d x values but %d y values", kind, len(x), len(y))
	}
	if len(x) == 0 {
		return fmt.Errorf("%s: empty data", kind)
	}
	if err := r.setKind(kind); err != nil {
		return err
	}
	r.chart.Series = append(r.chart.Series, Series{Label: label, X: x, Y: y})
	return nil
}

// Hist records a histogram over values.
func (r *Recorder) Hist(values []float64, bins int) error {
	if len(values) == 0 {
		return errors.New("hist: empty data")
	}
	if bins <= 0 {
		bins = 10
	}
	if err := r.setKind(KindHist); err != nil {
		return err
	}
	r.chart.Values = values
	r.chart.Bins = bins
	return nil
}

// Title sets the chart title.
func (r *Recorder) Title(s string) { r.chart.Title = s }

// XLabel sets the x axis label.
func (r *Recorder) XLabel(s string) { r.chart.XLabel = s }

// YLabel sets the y axis label.
func (r *Recorder) YLabel(s string) { r.chart.YLabel = s }

// Show marks the chart displayable.
func (r *Recorder) Show() error {
	if r.plots == 0 {
		return ErrNoPlot
	}
	r.chart.Shown = true
	return nil
}
