package sandbox

import (
	"fmt"
	"sort"
	"time"

	"go.starlark.net/starlark"

	"github.com/mkarlsen/chatplot/internal/dataset"
)

// dataFrame exposes a Dataset to Starlark under the fixed name `df`. It is
// read-only: generated code can aggregate and index but never mutate.
type dataFrame struct {
	ds *dataset.Dataset
}

func newDataFrame(ds *dataset.Dataset) *dataFrame { return &dataFrame{ds: ds} }

var (
	_ starlark.Value    = (*dataFrame)(nil)
	_ starlark.HasAttrs = (*dataFrame)(nil)
	_ starlark.Mapping  = (*dataFrame)(nil)
	_ starlark.Sequence = (*dataFrame)(nil)
)

func (d *dataFrame) String() string {
	return fmt.Sprintf("<dataframe %s: %d rows × %d cols>", d.ds.Name, d.ds.NumRows(), d.ds.NumCols())
}

func (d *dataFrame) Type() string          { return "dataframe" }
func (d *dataFrame) Freeze()               {} // always immutable
func (d *dataFrame) Truth() starlark.Bool  { return d.ds.NumRows() > 0 }
func (d *dataFrame) Hash() (uint32, error) { return 0, fmt.Errorf("unhashable type: dataframe") }
func (d *dataFrame) Len() int              { return d.ds.NumRows() }

// Iterate yields each row as a dict keyed by column name.
func (d *dataFrame) Iterate() starlark.Iterator { return &rowIterator{df: d} }

type rowIterator struct {
	df *dataFrame
	i  int
}

func (it *rowIterator) Next(p *starlark.Value) bool {
	if it.i >= it.df.ds.NumRows() {
		return false
	}
	*p = it.df.rowDict(it.i)
	it.i++
	return true
}

func (it *rowIterator) Done() {}

func (d *dataFrame) rowDict(r int) starlark.Value {
	dict := starlark.NewDict(d.ds.NumCols())
	for j, c := range d.ds.Columns {
		var v any
		if j < len(d.ds.Rows[r]) {
			v = d.ds.Rows[r][j]
		}
		_ = dict.SetKey(starlark.String(c.Name), cellValue(v))
	}
	return dict
}

// Get implements df["column"].
func (d *dataFrame) Get(k starlark.Value) (starlark.Value, bool, error) {
	name, ok := starlark.AsString(k)
	if !ok {
		return nil, false, fmt.Errorf("dataframe index must be a column name string, got %s", k.Type())
	}
	j := d.ds.ColumnIndex(name)
	if j < 0 {
		return nil, false, fmt.Errorf("no such column: %q (have %v)", name, d.columnNames())
	}
	return d.columnList(j), true, nil
}

func (d *dataFrame) columnNames() []string {
	names := make([]string, len(d.ds.Columns))
	for i, c := range d.ds.Columns {
		names[i] = c.Name
	}
	return names
}

func (d *dataFrame) columnList(j int) starlark.Value {
	vals := make([]starlark.Value, d.ds.NumRows())
	for r, row := range d.ds.Rows {
		var v any
		if j < len(row) {
			v = row[j]
		}
		vals[r] = cellValue(v)
	}
	return starlark.NewList(vals)
}

func (d *dataFrame) Attr(name string) (starlark.Value, error) {
	switch name {
	case "columns":
		names := d.columnNames()
		vals := make([]starlark.Value, len(names))
		for i, n := range names {
			vals[i] = starlark.String(n)
		}
		return starlark.NewList(vals), nil
	case "column":
		return d.method(name, d.columnMethod), nil
	case "group":
		return d.method(name, d.groupMethod), nil
	case "unique":
		return d.method(name, d.uniqueMethod), nil
	case "head":
		return d.method(name, d.headMethod), nil
	}
	return nil, nil
}

func (d *dataFrame) AttrNames() []string {
	return []string{"column", "columns", "group", "head", "unique"}
}

type methodImpl func(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error)

func (d *dataFrame) method(name string, impl methodImpl) *starlark.Builtin {
	return starlark.NewBuiltin("df."+name, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		return impl(args, kwargs)
	})
}

func (d *dataFrame) columnMethod(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs("df.column", args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	j := d.ds.ColumnIndex(name)
	if j < 0 {
		return nil, fmt.Errorf("no such column: %q (have %v)", name, d.columnNames())
	}
	return d.columnList(j), nil
}

// groupMethod aggregates one column per category of another:
// df.group("region", "sales", agg="sum") -> (labels, values).
func (d *dataFrame) groupMethod(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var by, value, agg string
	agg = "sum"
	if err := starlark.UnpackArgs("df.group", args, kwargs, "by", &by, "value?", &value, "agg?", &agg); err != nil {
		return nil, err
	}
	bj := d.ds.ColumnIndex(by)
	if bj < 0 {
		return nil, fmt.Errorf("no such column: %q (have %v)", by, d.columnNames())
	}
	vj := -1
	if value != "" {
		vj = d.ds.ColumnIndex(value)
		if vj < 0 {
			return nil, fmt.Errorf("no such column: %q (have %v)", value, d.columnNames())
		}
	} else if agg != "count" {
		return nil, fmt.Errorf("df.group: value column required for agg=%q", agg)
	}

	type acc struct {
		sum      float64
		cnt      int
		min, max float64
	}
	accs := map[string]*acc{}
	var order []string
	for _, row := range d.ds.Rows {
		var bv any
		if bj < len(row) {
			bv = row[bj]
		}
		if bv == nil {
			continue
		}
		key := dataset.FormatCell(bv)
		a := accs[key]
		if a == nil {
			a = &acc{}
			accs[key] = a
			order = append(order, key)
		}
		if vj < 0 {
			a.cnt++
			continue
		}
		var vv any
		if vj < len(row) {
			vv = row[vj]
		}
		f, ok := dataset.AsFloat(vv)
		if !ok {
			continue
		}
		if a.cnt == 0 || f < a.min {
			a.min = f
		}
		if a.cnt == 0 || f > a.max {
			a.max = f
		}
		a.sum += f
		a.cnt++
	}
	sort.Strings(order)

	labels := make([]starlark.Value, 0, len(order))
	values := make([]starlark.Value, 0, len(order))
	for _, key := range order {
		a := accs[key]
		var out float64
		switch agg {
		case "sum":
			out = a.sum
		case "mean":
			if a.cnt > 0 {
				out = a.sum / float64(a.cnt)
			}
		case "count":
			out = float64(a.cnt)
		case "min":
			out = a.min
		case "max":
			out = a.max
		default:
			return nil, fmt.Errorf("df.group: unknown agg %q (use sum|mean|count|min|max)", agg)
		}
		labels = append(labels, starlark.String(key))
		values = append(values, starlark.Float(out))
	}
	return starlark.Tuple{starlark.NewList(labels), starlark.NewList(values)}, nil
}

func (d *dataFrame) uniqueMethod(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs("df.unique", args, kwargs, "name", &name); err != nil {
		return nil, err
	}
	j := d.ds.ColumnIndex(name)
	if j < 0 {
		return nil, fmt.Errorf("no such column: %q (have %v)", name, d.columnNames())
	}
	seen := map[string]any{}
	var keys []string
	for _, row := range d.ds.Rows {
		var v any
		if j < len(row) {
			v = row[j]
		}
		if v == nil {
			continue
		}
		key := dataset.FormatCell(v)
		if _, ok := seen[key]; !ok {
			seen[key] = v
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	out := make([]starlark.Value, len(keys))
	for i, k := range keys {
		out[i] = cellValue(seen[k])
	}
	return starlark.NewList(out), nil
}

func (d *dataFrame) headMethod(args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	n := 5
	if err := starlark.UnpackArgs("df.head", args, kwargs, "n?", &n); err != nil {
		return nil, err
	}
	if n > d.ds.NumRows() {
		n = d.ds.NumRows()
	}
	out := make([]starlark.Value, 0, n)
	for r := 0; r < n; r++ {
		out = append(out, d.rowDict(r))
	}
	return starlark.NewList(out), nil
}

// cellValue converts a dataset cell to its Starlark representation.
func cellValue(v any) starlark.Value {
	switch x := v.(type) {
	case nil:
		return starlark.None
	case float64:
		return starlark.Float(x)
	case int64:
		return starlark.MakeInt64(x)
	case bool:
		return starlark.Bool(x)
	case string:
		return starlark.String(x)
	case time.Time:
		return starlark.String(dataset.FormatCell(x))
	default:
		return starlark.String(fmt.Sprintf("%v", x))
	}
}
