// Package sandbox executes model-generated visualization code inside a
// bounded Starlark interpreter. The snippet sees exactly two names, df and
// plt; there is no filesystem, network, or process access to deny because
// none is ever exposed.
package sandbox

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/mkarlsen/chatplot/internal/dataset"
	"github.com/mkarlsen/chatplot/internal/plot"
)

// Options bounds a single execution.
type Options struct {
	MaxSteps uint64        // interpreter step budget, 0 = unlimited
	Timeout  time.Duration // wall-clock limit, 0 = none
	Render   plot.Options
}

// Result reports one execution. Code is always set so callers can show the
// snippet alongside whatever happened to it.
type Result struct {
	Code   string
	Chart  string // rendered chart, empty if nothing was plotted
	Output string // print() output from the snippet
	Shown  bool   // whether the snippet called plt.show()
	Err    error
}

var dfRef = regexp.MustCompile(`\bdf\b`)

// fileOpts pins the dialect: assignments, reassignment and top-level control
// flow on; while loops and recursion stay off so the step budget is the only
// loop bound that matters.
var fileOpts = &syntax.FileOptions{
	Set:             true,
	GlobalReassign:  true,
	TopLevelControl: true,
}

// Validate checks the binding contract before anything runs: the snippet
// must reference the dataset by its fixed name.
func Validate(code string) error {
	if strings.TrimSpace(code) == "" {
		return errors.New("empty code snippet")
	}
	if !dfRef.MatchString(code) {
		return errors.New("code does not reference the dataset variable df")
	}
	return nil
}

// Run validates and executes code against ds using the bounded interpreter.
func Run(ctx context.Context, code string, ds *dataset.Dataset, opt Options) *Result {
	res := &Result{Code: code}
	if err := Validate(code); err != nil {
		res.Err = err
		return res
	}

	rec := plot.NewRecorder()
	var printed strings.Builder
	thread := &starlark.Thread{
		Name: "viz",
		Print: func(_ *starlark.Thread, msg string) {
			printed.WriteString(msg)
			printed.WriteByte('\n')
		},
	}
	if opt.MaxSteps > 0 {
		thread.SetMaxExecutionSteps(opt.MaxSteps)
	}
	if opt.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opt.Timeout)
		defer cancel()
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			thread.Cancel("execution timed out")
		case <-done:
		}
	}()

	predeclared := starlark.StringDict{
		"df":  newDataFrame(ds),
		"plt": plotModule(rec),
	}
	_, err := starlark.ExecFileOptions(fileOpts, thread, "viz.star", code, predeclared)
	res.Output = printed.String()
	if err != nil {
		res.Err = execError(err)
		return res
	}

	if c := rec.Chart(); c != nil {
		res.Chart = plot.Render(c, opt.Render)
		res.Shown = c.Shown
	}
	return res
}

// execError flattens a Starlark evaluation error to its backtrace form,
// which points at the offending line of the generated snippet.
func execError(err error) error {
	var evalErr *starlark.EvalError
	if errors.As(err, &evalErr) {
		return fmt.Errorf("code execution failed:\n%s", evalErr.Backtrace())
	}
	return fmt.Errorf("code execution failed: %w", err)
}
