package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/chatplot/internal/assistant"
)

var sessionDataFile string

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Start an interactive visualization session",
	Long: `Start the chatplot prompt. Load a dataset with 'load <path>', then describe
charts in plain language. Running chatplot with no subcommand does the same.`,
	RunE: runSession,
}

func runSession(cmd *cobra.Command, args []string) error {
	c, err := requireConfig()
	if err != nil {
		return err
	}
	a := newAssistant(c)

	if sessionDataFile != "" {
		summary, err := a.Load(cmd.Context(), sessionDataFile)
		if err != nil {
			return fmt.Errorf("load %s: %w", sessionDataFile, err)
		}
		fmt.Fprintf(os.Stdout, "Loaded %s: %d rows, %d columns\n", summary.Name, summary.Rows, summary.Cols)
	}

	repl := assistant.NewREPL(a, os.Stdout, historyFilePath())
	return repl.Run(cmd.Context())
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.Flags().StringVarP(&sessionDataFile, "data", "d", "", "dataset to load before the prompt starts")
	rootCmd.Flags().StringVarP(&sessionDataFile, "data", "d", "", "dataset to load before the prompt starts")
}
