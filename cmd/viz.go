package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/chatplot/internal/assistant"
)

var (
	vizShowCode bool
	vizMaxRows  int
	vizVoice    string
)

var vizCmd = &cobra.Command{
	Use:   "viz <file> [request...]",
	Short: "Generate and render one chart from a request",
	Long: `One-shot mode: load the dataset, send the request to the model, execute the
generated code, and print the chart. With --voice, the request is transcribed
from an audio file instead of given on the command line.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if vizMaxRows > 0 {
			c.MaxRows = vizMaxRows
		}
		a := newAssistant(c)

		path := args[0]
		summary, err := a.Load(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		if debug {
			fmt.Fprintf(os.Stderr, "loaded %s: %d rows, %d columns\n", summary.Name, summary.Rows, summary.Cols)
		}

		var request string
		switch {
		case vizVoice != "":
			if len(args) > 1 {
				return fmt.Errorf("give a request or --voice, not both")
			}
			heard, result, err := a.VisualizeVoice(cmd.Context(), vizVoice)
			if heard != "" {
				fmt.Fprintf(os.Stdout, "Heard: %q\n", heard)
			}
			return printArtifact(result, err)
		case len(args) > 1:
			request = strings.Join(args[1:], " ")
		default:
			return fmt.Errorf("no request given: chatplot viz <file> \"describe the chart\"")
		}

		result, err := a.Visualize(cmd.Context(), request)
		return printArtifact(result, err)
	},
}

// printArtifact writes the visualization outcome the way the interactive
// session does, including the generated code when it failed or was asked for.
func printArtifact(art *assistant.Artifact, err error) error {
	if art != nil && (vizShowCode || err != nil) && art.Code != "" {
		fmt.Fprintf(os.Stdout, "Generated code:\n%s\n", art.Code)
	}
	if err != nil {
		return err
	}
	if art.Output != "" {
		fmt.Fprint(os.Stdout, art.Output)
	}
	if art.Chart == "" {
		fmt.Fprintln(os.Stderr, "⚠ Warning: the generated code produced no chart")
		return nil
	}
	fmt.Fprintln(os.Stdout, art.Chart)
	if !art.Shown {
		fmt.Fprintln(os.Stderr, "⚠ Warning: the generated code never called plt.show()")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(vizCmd)
	vizCmd.Flags().BoolVar(&vizShowCode, "show-code", false, "print the generated code before the chart")
	vizCmd.Flags().IntVar(&vizMaxRows, "max-rows", 0, "row cap when loading (default from config)")
	vizCmd.Flags().StringVar(&vizVoice, "voice", "", "audio file holding the spoken request")
}
