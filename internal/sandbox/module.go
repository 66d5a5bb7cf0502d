package sandbox

import (
	"fmt"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"

	"github.com/mkarlsen/chatplot/internal/plot"
)

// plotModule exposes a plot.Recorder as a Starlark module under `plt`.
func plotModule(rec *plot.Recorder) *starlarkstruct.Module {
	b := func(name string, fn func(args starlark.Tuple, kwargs []starlark.Tuple) error) *starlark.Builtin {
		return starlark.NewBuiltin("plt."+name, func(_ *starlark.Thread, _ *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
			if err := fn(args, kwargs); err != nil {
				return nil, err
			}
			return starlark.None, nil
		})
	}

	return &starlarkstruct.Module{
		Name: "plt",
		Members: starlark.StringDict{
			"bar": b("bar", func(args starlark.Tuple, kwargs []starlark.Tuple) error {
				labels, values, err := labelsAndValues("plt.bar", args, kwargs)
				if err != nil {
					return err
				}
				return rec.Bar(labels, values)
			}),
			"barh": b("barh", func(args starlark.Tuple, kwargs []starlark.Tuple) error {
				labels, values, err := labelsAndValues("plt.barh", args, kwargs)
				if err != nil {
					return err
				}
				return rec.BarH(labels, values)
			}),
			"line": b("line", func(args starlark.Tuple, kwargs []starlark.Tuple) error {
				x, y, label, err := xyArgs("plt.line", args, kwargs)
				if err != nil {
					return err
				}
				return rec.Line(x, y, label)
			}),
			"scatter": b("scatter", func(args starlark.Tuple, kwargs []starlark.Tuple) error {
				x, y, label, err := xyArgs("plt.scatter", args, kwargs)
				if err != nil {
					return err
				}
				return rec.Scatter(x, y, label)
			}),
			"hist": b("hist", func(args starlark.Tuple, kwargs []starlark.Tuple) error {
				var values starlark.Value
				bins := 10
				if err := starlark.UnpackArgs("plt.hist", args, kwargs, "values", &values, "bins?", &bins); err != nil {
					return err
				}
				fs, err := floatSlice("plt.hist", "values", values)
				if err != nil {
					return err
				}
				return rec.Hist(fs, bins)
			}),
			"title":  textSetter(b, "title", rec.Title),
			"xlabel": textSetter(b, "xlabel", rec.XLabel),
			"ylabel": textSetter(b, "ylabel", rec.YLabel),
			"show": b("show", func(args starlark.Tuple, kwargs []starlark.Tuple) error {
				if err := starlark.UnpackArgs("plt.show", args, kwargs); err != nil {
					return err
				}
				return rec.Show()
			}),
		},
	}
}

func textSetter(b func(string, func(starlark.Tuple, []starlark.Tuple) error) *starlark.Builtin, name string, set func(string)) *starlark.Builtin {
	return b(name, func(args starlark.Tuple, kwargs []starlark.Tuple) error {
		var text string
		if err := starlark.UnpackArgs("plt."+name, args, kwargs, "text", &text); err != nil {
			return err
		}
		set(text)
		return nil
	})
}

func labelsAndValues(fn string, args starlark.Tuple, kwargs []starlark.Tuple) ([]string, []float64, error) {
	var labels, values starlark.Value
	if err := starlark.UnpackArgs(fn, args, kwargs, "labels", &labels, "values", &values); err != nil {
		return nil, nil, err
	}
	ls, err := stringSlice(fn, "labels", labels)
	if err != nil {
		return nil, nil, err
	}
	vs, err := floatSlice(fn, "values", values)
	if err != nil {
		return nil, nil, err
	}
	return ls, vs, nil
}

func xyArgs(fn string, args starlark.Tuple, kwargs []starlark.Tuple) (x, y []float64, label string, err error) {
	var xv, yv starlark.Value
	if err = starlark.UnpackArgs(fn, args, kwargs, "x", &xv, "y", &yv, "label?", &label); err != nil {
		return nil, nil, "", err
	}
	if x, err = floatSlice(fn, "x", xv); err != nil {
		return nil, nil, "", err
	}
	if y, err = floatSlice(fn, "y", yv); err != nil {
		return nil, nil, "", err
	}
	return x, y, label, nil
}

func floatSlice(fn, arg string, v starlark.Value) ([]float64, error) {
	it, ok := v.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("%s: %s must be a list of numbers, got %s", fn, arg, v.Type())
	}
	var out []float64
	iter := it.Iterate()
	defer iter.Done()
	var elem starlark.Value
	for i := 0; iter.Next(&elem); i++ {
		switch x := elem.(type) {
		case starlark.Float:
			out = append(out, float64(x))
		case starlark.Int:
			f, _ := starlark.AsFloat(x)
			out = append(out, f)
		case starlark.NoneType:
			return nil, fmt.Errorf("%s: %s[%d] is None; filter out null values before plotting", fn, arg, i)
		default:
			return nil, fmt.Errorf("%s: %s[%d] is %s, want a number", fn, arg, i, elem.Type())
		}
	}
	return out, nil
}

func stringSlice(fn, arg string, v starlark.Value) ([]string, error) {
	it, ok := v.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("%s: %s must be a list, got %s", fn, arg, v.Type())
	}
	var out []string
	iter := it.Iterate()
	defer iter.Done()
	var elem starlark.Value
	for iter.Next(&elem) {
		if s, ok := starlark.AsString(elem); ok {
			out = append(out, s)
		} else {
			out = append(out, elem.String())
		}
	}
	return out, nil
}
