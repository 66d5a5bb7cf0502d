package assistant

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/mkarlsen/chatplot/internal/analysis"
)

const replHelp = `Commands:
  load <path>      load a dataset (csv, tsv, json, parquet, xlsx)
  info             show the dataset summary
  viz <request>    describe the chart you want in plain language
  voice <file>     transcribe an audio file and chart the request
  history          list this session's visualizations
  help             show this help
  quit             exit

Anything that is not a command is treated as a visualization request.`

// REPL drives an interactive session over a readline prompt.
type REPL struct {
	assistant   *Assistant
	out         io.Writer
	historyFile string
}

func NewREPL(a *Assistant, out io.Writer, historyFile string) *REPL {
	return &REPL{assistant: a, out: out, historyFile: historyFile}
}

// Run reads commands until quit, EOF, or a double interrupt.
func (r *REPL) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "chatplot> ",
		HistoryFile:     r.historyFile,
		InterruptPrompt: "^C",
		EOFPrompt:       "bye",
	})
	if err != nil {
		return fmt.Errorf("init prompt: %w", err)
	}
	defer rl.Close()

	fmt.Fprintln(r.out, "chatplot — describe the chart you want. Type 'help' for commands.")
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			if len(line) == 0 {
				return nil
			}
			continue
		}
		if err == io.EOF {
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if done := r.dispatch(ctx, line); done {
			return nil
		}
	}
}

// dispatch runs one command line, reporting true when the session should end.
func (r *REPL) dispatch(ctx context.Context, line string) bool {
	cmd, rest := line, ""
	if i := strings.IndexByte(line, ' '); i >= 0 {
		cmd, rest = line[:i], strings.TrimSpace(line[i+1:])
	}

	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprintln(r.out, replHelp)
	case "load":
		if rest == "" {
			r.failf("usage: load <path>")
			return false
		}
		summary, err := r.assistant.Load(ctx, rest)
		if err != nil {
			r.failf("load %s: %v", rest, err)
			return false
		}
		fmt.Fprintf(r.out, "Loaded %s: %d rows, %d columns\n", summary.Name, summary.Rows, summary.Cols)
	case "info":
		summary, err := r.assistant.Summary()
		if err != nil {
			r.failf("%v", err)
			return false
		}
		if err := analysis.RenderSummary(r.out, summary, "table"); err != nil {
			r.failf("%v", err)
		}
	case "voice":
		if rest == "" {
			r.failf("usage: voice <audio file>")
			return false
		}
		request, art, err := r.assistant.VisualizeVoice(ctx, rest)
		if request != "" {
			fmt.Fprintf(r.out, "Heard: %q\n", request)
		}
		r.report(art, err)
	case "viz":
		if rest == "" {
			r.failf("usage: viz <request>")
			return false
		}
		art, err := r.assistant.Visualize(ctx, rest)
		r.report(art, err)
	case "history":
		r.printHistory()
	default:
		// A lone word is a mistyped command, not a chart request; only
		// multi-word lines take the conversational path.
		if rest == "" {
			r.failf("unknown command: %q (type 'help' for commands)", cmd)
			return false
		}
		art, err := r.assistant.Visualize(ctx, line)
		r.report(art, err)
	}
	return false
}

func (r *REPL) report(art *Artifact, err error) {
	if err != nil {
		r.failf("%v", err)
		if art != nil && art.Code != "" {
			fmt.Fprintf(r.out, "Generated code:\n%s\n", art.Code)
		}
		return
	}
	if art.Output != "" {
		fmt.Fprint(r.out, art.Output)
	}
	if art.Chart != "" {
		fmt.Fprintln(r.out, art.Chart)
		if !art.Shown {
			fmt.Fprintln(r.out, "⚠ Warning: the generated code never called plt.show()")
		}
	} else {
		fmt.Fprintln(r.out, "⚠ Warning: the generated code produced no chart")
		fmt.Fprintf(r.out, "Generated code:\n%s\n", art.Code)
	}
}

func (r *REPL) printHistory() {
	hist := r.assistant.History()
	if len(hist) == 0 {
		fmt.Fprintln(r.out, "No visualizations yet this session.")
		return
	}
	for i, art := range hist {
		status := "ok"
		if art.Err != "" {
			status = "failed"
		}
		fmt.Fprintf(r.out, "%2d. [%s] %s (%s)\n", i+1, art.Created.Format("15:04:05"), art.Request, status)
	}
}

func (r *REPL) failf(format string, args ...any) {
	fmt.Fprintf(r.out, "✗ Error: "+format+"\n", args...)
}
