// Package assistant coordinates a conversation: it owns the loaded dataset,
// its summary, and the trail of visualizations produced so far, and turns
// natural-language requests into rendered charts.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkarlsen/chatplot/internal/analysis"
	"github.com/mkarlsen/chatplot/internal/dataset"
	"github.com/mkarlsen/chatplot/internal/sandbox"
)

// ErrNoDataset is returned by operations that need data before any was loaded.
var ErrNoDataset = errors.New("no dataset loaded: use 'load <path>' first")

// Generator produces visualization code (and transcripts) from requests.
// *ai.Generator satisfies it; tests substitute a stub.
type Generator interface {
	VisualizationCode(ctx context.Context, datasetContext, request string) (string, error)
	TranscribeAudio(ctx context.Context, audioPath string) (string, error)
}

// Options configures a session.
type Options struct {
	SampleRows int // rows of sample data shown to the model
	MaxRows    int // row cap when loading files
	Exec       sandbox.Options
}

// Artifact records one visualization attempt, successful or not.
type Artifact struct {
	ID      string
	Request string
	Code    string
	Chart   string
	Output  string
	Shown   bool
	Err     string
	Created time.Time
}

// Assistant holds all per-session state. It is not safe for concurrent use;
// a session is a single conversation.
type Assistant struct {
	gen     Generator
	opt     Options
	ds      *dataset.Dataset
	summary *analysis.Summary
	history []Artifact
}

func New(gen Generator, opt Options) *Assistant {
	return &Assistant{gen: gen, opt: opt}
}

// Load reads the file at path, replacing any previously loaded dataset. The
// summary is computed once here and reused for every later request.
func (a *Assistant) Load(ctx context.Context, path string) (*analysis.Summary, error) {
	ds, err := dataset.Load(ctx, path, dataset.Options{MaxRows: a.opt.MaxRows})
	if err != nil {
		return nil, err
	}
	aopt := analysis.DefaultOptions()
	if a.opt.SampleRows > 0 {
		aopt.SampleRows = a.opt.SampleRows
	}
	a.ds = ds
	a.summary = analysis.Summarize(ds, aopt)
	a.history = nil
	return a.summary, nil
}

// Dataset returns the loaded dataset, or nil.
func (a *Assistant) Dataset() *dataset.Dataset { return a.ds }

// Summary returns the current dataset summary.
func (a *Assistant) Summary() (*analysis.Summary, error) {
	if a.summary == nil {
		return nil, ErrNoDataset
	}
	return a.summary, nil
}

// History returns all visualization attempts this session, oldest first.
func (a *Assistant) History() []Artifact { return a.history }

// Visualize turns a natural-language request into a rendered chart. The
// returned artifact is non-nil whenever code was generated, even when
// execution failed, so callers can show the snippet next to the error.
func (a *Assistant) Visualize(ctx context.Context, request string) (*Artifact, error) {
	if a.ds == nil {
		return nil, ErrNoDataset
	}
	code, err := a.gen.VisualizationCode(ctx, a.summary.PromptContext(), request)
	if err != nil {
		return nil, err
	}

	res := sandbox.Run(ctx, code, a.ds, a.opt.Exec)
	art := Artifact{
		ID:      uuid.NewString(),
		Request: request,
		Code:    res.Code,
		Chart:   res.Chart,
		Output:  res.Output,
		Shown:   res.Shown,
		Created: time.Now(),
	}
	if res.Err != nil {
		art.Err = res.Err.Error()
	}
	a.history = append(a.history, art)
	if res.Err != nil {
		return &art, res.Err
	}
	return &art, nil
}

// VisualizeVoice transcribes a recorded request and feeds it to Visualize.
// The transcript is returned so the caller can echo what was understood.
func (a *Assistant) VisualizeVoice(ctx context.Context, audioPath string) (string, *Artifact, error) {
	if a.ds == nil {
		return "", nil, ErrNoDataset
	}
	request, err := a.gen.TranscribeAudio(ctx, audioPath)
	if err != nil {
		return "", nil, fmt.Errorf("transcribe %s: %w", audioPath, err)
	}
	art, err := a.Visualize(ctx, request)
	return request, art, err
}
