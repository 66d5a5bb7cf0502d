package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/chatplot/internal/analysis"
	"github.com/mkarlsen/chatplot/internal/dataset"
)

var (
	anaFormat     string
	anaSampleRows int
	anaMaxRows    int
	anaPrompt     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Summarize a dataset without calling the AI model",
	Long: `Load a dataset and print its summary: column types, null counts, numeric
statistics, and sample rows. This is the same summary the session sends to the
model as dataset context; --prompt prints it in exactly that form.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		maxRows := anaMaxRows
		if maxRows == 0 && cfg != nil {
			maxRows = cfg.MaxRows
		}
		ds, err := dataset.Load(cmd.Context(), path, dataset.Options{MaxRows: maxRows})
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}

		opt := analysis.DefaultOptions()
		if anaSampleRows > 0 {
			opt.SampleRows = anaSampleRows
		} else if cfg != nil && cfg.SampleRows > 0 {
			opt.SampleRows = cfg.SampleRows
		}
		summary := analysis.Summarize(ds, opt)

		if anaPrompt {
			fmt.Fprint(os.Stdout, summary.PromptContext())
			return nil
		}
		return analysis.RenderSummary(os.Stdout, summary, anaFormat)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "table", "output format: table|json|yaml")
	analyzeCmd.Flags().IntVar(&anaSampleRows, "sample-rows", 0, "sample rows to include (default from config)")
	analyzeCmd.Flags().IntVar(&anaMaxRows, "max-rows", 0, "row cap when loading (default from config)")
	analyzeCmd.Flags().BoolVar(&anaPrompt, "prompt", false, "print the summary as model-facing dataset context")
}
