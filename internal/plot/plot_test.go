package plot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderBar(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.Bar([]string{"a", "b"}, []float64{1, 2}))
	r.Title("t")
	require.NoError(t, r.Show())

	c := r.Chart()
	require.NotNil(t, c)
	assert.Equal(t, KindBar, c.Kind)
	assert.True(t, c.Shown)
	assert.Equal(t, []string{"a", "b"}, c.Labels)
}

func TestRecorderEmptyChart(t *testing.T) {
	r := NewRecorder()
	assert.Nil(t, r.Chart())
	assert.ErrorIs(t, r.Show(), ErrNoPlot)
}

func TestRecorderLengthMismatch(t *testing.T) {
	r := NewRecorder()
	assert.Error(t, r.Bar([]string{"a"}, []float64{1, 2}))
	assert.Error(t, r.Line([]float64{1}, []float64{1, 2}, ""))
	assert.Error(t, r.Bar(nil, nil))
	assert.Error(t, r.Hist(nil, 10))
}

func TestRecorderKindMixing(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.Bar([]string{"a"}, []float64{1}))
	err := r.Line([]float64{1}, []float64{2}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cannot mix")
}

func TestRecorderMultipleSeries(t *testing.T) {
	r := NewRecorder()
	require.NoError(t, r.Line([]float64{1, 2}, []float64{3, 4}, "first"))
	require.NoError(t, r.Line([]float64{1, 2}, []float64{5, 6}, "second"))
	c := r.Chart()
	require.NotNil(t, c)
	assert.Len(t, c.Series, 2)
}

func TestRenderBarH(t *testing.T) {
	c := &Chart{
		Kind:   KindBarH,
		Title:  "Sales by Region",
		Labels: []string{"north", "south"},
		Values: []float64{130, 50},
	}
	out := Render(c, Options{Width: 20})
	assert.Contains(t, out, "Sales by Region")
	assert.Contains(t, out, "north")
	assert.Contains(t, out, "south")
	assert.Contains(t, out, "█")
	assert.Contains(t, out, "130")

	northBar := barLength(out, "north")
	southBar := barLength(out, "south")
	assert.Greater(t, northBar, southBar, "larger value draws the longer bar")
}

func barLength(out, label string) int {
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, label) {
			return strings.Count(line, "█")
		}
	}
	return -1
}

func TestRenderBarVerticalHasAxis(t *testing.T) {
	c := &Chart{
		Kind:   KindBar,
		Labels: []string{"a", "b", "c"},
		Values: []float64{1, 3, 2},
	}
	out := Render(c, Options{Width: 30, Height: 6})
	assert.Contains(t, out, "a")
	assert.Contains(t, out, "b")
	assert.Contains(t, out, "c")
	assert.NotEmpty(t, out)
}

func TestRenderLineAndLegend(t *testing.T) {
	c := &Chart{
		Kind:   KindLine,
		XLabel: "day",
		Series: []Series{
			{Label: "revenue", X: []float64{1, 2, 3}, Y: []float64{1, 4, 2}},
			{Label: "cost", X: []float64{1, 2, 3}, Y: []float64{2, 2, 2}},
		},
	}
	out := Render(c, Options{Width: 30, Height: 8})
	assert.Contains(t, out, "revenue")
	assert.Contains(t, out, "cost")
	assert.Contains(t, out, "day")
}

func TestRenderHist(t *testing.T) {
	c := &Chart{
		Kind:   KindHist,
		Values: []float64{1, 1, 2, 2, 2, 3, 9},
		Bins:   3,
	}
	out := Render(c, Options{Width: 20})
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "█")
}

func TestRenderNoColorHasNoEscapes(t *testing.T) {
	c := &Chart{Kind: KindBarH, Labels: []string{"a"}, Values: []float64{1}}
	out := Render(c, Options{Width: 10, Color: false})
	assert.NotContains(t, out, "\x1b[")
}
