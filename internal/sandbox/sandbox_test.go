package sandbox

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkarlsen/chatplot/internal/dataset"
)

func salesDataset() *dataset.Dataset {
	return &dataset.Dataset{
		Name: "sales",
		Columns: []dataset.Column{
			{Name: "region", Kind: dataset.KindText},
			{Name: "sales", Kind: dataset.KindNumeric},
			{Name: "active", Kind: dataset.KindBool},
		},
		Rows: [][]any{
			{"north", float64(100), true},
			{"south", float64(50), false},
			{"north", float64(30), true},
			{"east", nil, true},
		},
	}
}

func TestValidate(t *testing.T) {
	assert.Error(t, Validate(""))
	assert.Error(t, Validate("   \n"))
	assert.Error(t, Validate(`plt.title("hello")`))
	// "df" must be a whole word, not a substring.
	assert.Error(t, Validate("x = dframe"))
	assert.NoError(t, Validate(`plt.bar(df["region"], df["sales"])`))
}

func TestRunBarChart(t *testing.T) {
	code := `
labels, values = df.group("region", "sales", agg="sum")
plt.bar(labels, values)
plt.title("Sales by Region")
plt.show()
`
	res := Run(context.Background(), code, salesDataset(), Options{})
	require.NoError(t, res.Err)
	assert.True(t, res.Shown)
	assert.Contains(t, res.Chart, "Sales by Region")
	assert.Contains(t, res.Chart, "north")
}

func TestRunGroupAggregates(t *testing.T) {
	code := `
labels, sums = df.group("region", "sales")
_, means = df.group("region", "sales", agg="mean")
_, counts = df.group("region", agg="count")
print(labels)
print(sums)
print(means)
print(counts)
`
	res := Run(context.Background(), code, salesDataset(), Options{})
	require.NoError(t, res.Err)
	// Labels sort ascending; the null sales cell still counts its row.
	assert.Contains(t, res.Output, `["east", "north", "south"]`)
	assert.Contains(t, res.Output, "[0.0, 130.0, 50.0]")
	assert.Contains(t, res.Output, "[0.0, 65.0, 50.0]")
	assert.Contains(t, res.Output, "[1.0, 2.0, 1.0]")
}

func TestRunColumnAccess(t *testing.T) {
	code := `
print(df.columns)
print(len(df))
print(df["sales"])
print(df.column("region"))
print(df.unique("region"))
print(df.head(1))
`
	res := Run(context.Background(), code, salesDataset(), Options{})
	require.NoError(t, res.Err)
	assert.Contains(t, res.Output, `["region", "sales", "active"]`)
	assert.Contains(t, res.Output, "4\n")
	assert.Contains(t, res.Output, "[100.0, 50.0, 30.0, None]")
	assert.Contains(t, res.Output, `["east", "north", "south"]`)
	assert.Contains(t, res.Output, `"region": "north"`)
}

func TestRunRowIteration(t *testing.T) {
	code := `
total = 0
for row in df:
    if row["sales"] != None:
        total += row["sales"]
print(total)
`
	res := Run(context.Background(), code, salesDataset(), Options{})
	require.NoError(t, res.Err)
	assert.Contains(t, res.Output, "180.0")
}

func TestRunUnknownColumn(t *testing.T) {
	res := Run(context.Background(), `plt.bar(df["nope"], df["sales"])`, salesDataset(), Options{})
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), `no such column: "nope"`)
	assert.Empty(t, res.Chart)
}

func TestRunNoForbiddenBuiltins(t *testing.T) {
	for _, code := range []string{
		`open("/etc/passwd"); df`,
		`import os; df`,
	} {
		res := Run(context.Background(), code, salesDataset(), Options{})
		assert.Error(t, res.Err, "snippet %q should fail", code)
	}
}

func TestRunStepBudget(t *testing.T) {
	code := `
x = 0
for i in range(1000000):
    x += i
print(df.columns)
`
	res := Run(context.Background(), code, salesDataset(), Options{MaxSteps: 10000})
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "too many steps")
}

func TestRunTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := Run(ctx, `plt.bar(df.unique("region"), [1, 2, 3])`, salesDataset(), Options{Timeout: time.Minute})
	// Context was already cancelled; either the cancel lands before execution
	// or the tiny snippet finishes first. Both are acceptable, but when it
	// fails it must say why.
	if res.Err != nil {
		assert.Contains(t, res.Err.Error(), "cancelled")
	}
}

func TestRunNoneInValues(t *testing.T) {
	res := Run(context.Background(), `plt.bar(df.unique("region"), df["sales"])`, salesDataset(), Options{})
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "None")
}

func TestRunChartWithoutShow(t *testing.T) {
	code := `
labels, values = df.group("region", "sales")
plt.barh(labels, values)
`
	res := Run(context.Background(), code, salesDataset(), Options{})
	require.NoError(t, res.Err)
	assert.False(t, res.Shown)
	assert.NotEmpty(t, res.Chart)
}

func TestRunShowWithoutPlot(t *testing.T) {
	res := Run(context.Background(), "df\nplt.show()", salesDataset(), Options{})
	require.Error(t, res.Err)
	assert.Contains(t, res.Err.Error(), "show() called before any plot")
}

func TestRunKindMixing(t *testing.T) {
	code := `
plt.bar(["a"], [1])
plt.line([1, 2], [3, 4])
`
	res := Run(context.Background(), code, salesDataset(), Options{})
	require.Error(t, res.Err)
}
