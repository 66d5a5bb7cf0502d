package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/mkarlsen/chatplot/internal/ai"
	"github.com/mkarlsen/chatplot/internal/assistant"
	cfgpkg "github.com/mkarlsen/chatplot/internal/config"
	"github.com/mkarlsen/chatplot/internal/plot"
	"github.com/mkarlsen/chatplot/internal/sandbox"
)

var (
	// Global flags (wired later to config/viper)
	cfgFile string
	debug   bool
	noColor bool
	// Retry/HTTP flags (override config if set)
	flagHTTPTimeoutSec   int
	flagRetryMaxAttempts int
	flagRetryBaseDelayMs int
	flagRetryMaxDelayMs  int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "chatplot",
	Short: "chatplot: chart your data by describing what you want to see",
	Long: `chatplot is a conversational data-visualization assistant. Load a tabular
dataset (CSV, TSV, JSON, Parquet, or Excel), describe the chart you want in
plain language, and chatplot asks an AI model for plotting code, runs it in a
bounded interpreter, and renders the chart in your terminal.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Bare `chatplot` starts an interactive session.
		return runSession(cmd, args)
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.chatplot/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable chart colors")
	rootCmd.PersistentFlags().IntVar(&flagHTTPTimeoutSec, "http-timeout", 0, "HTTP client timeout in seconds (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxAttempts, "retry-max", 0, "max retry attempts on 429/5xx (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryBaseDelayMs, "retry-base-ms", 0, "base retry backoff in ms (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagRetryMaxDelayMs, "retry-max-ms", 0, "max retry backoff cap in ms (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c

	// Apply CLI overrides if provided
	f := rootCmd.PersistentFlags()
	if f.Changed("http-timeout") && flagHTTPTimeoutSec > 0 {
		cfg.HTTPTimeoutSec = flagHTTPTimeoutSec
	}
	if f.Changed("retry-max") && flagRetryMaxAttempts > 0 {
		cfg.RetryMaxAttempts = flagRetryMaxAttempts
	}
	if f.Changed("retry-base-ms") && flagRetryBaseDelayMs > 0 {
		cfg.RetryBaseDelayMs = flagRetryBaseDelayMs
	}
	if f.Changed("retry-max-ms") && flagRetryMaxDelayMs > 0 {
		cfg.RetryMaxDelayMs = flagRetryMaxDelayMs
	}
}

// requireConfig guards commands that cannot run without loaded configuration.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration not loaded; check --config or ~/.chatplot/config.yaml")
	}
	return cfg, nil
}

// newGenerator builds the AI client and code generator from configuration.
// A missing credential is not checked here: load and info must keep working
// offline, and Generate/Transcribe report ErrMissingAPIKey on first use.
func newGenerator(c *cfgpkg.Global) *ai.Generator {
	client := ai.NewClient(
		c.APIKey,
		c.BaseURL,
		time.Duration(c.HTTPTimeoutSec)*time.Second,
		c.RetryMaxAttempts,
		time.Duration(c.RetryBaseDelayMs)*time.Millisecond,
		time.Duration(c.RetryMaxDelayMs)*time.Millisecond,
	)
	client.SetTranscribeModel(c.TranscribeModel)
	return ai.NewGenerator(client, c.Model, c.MaxTokens, c.Temperature)
}

// execOptions translates configured execution limits to sandbox options.
func execOptions(c *cfgpkg.Global) sandbox.Options {
	return sandbox.Options{
		MaxSteps: uint64(c.ExecSteps),
		Timeout:  time.Duration(c.ExecTimeoutSec) * time.Second,
		Render:   plot.Options{Color: !noColor},
	}
}

// newAssistant wires a full session from configuration.
func newAssistant(c *cfgpkg.Global) *assistant.Assistant {
	return assistant.New(newGenerator(c), assistant.Options{
		SampleRows: c.SampleRows,
		MaxRows:    c.MaxRows,
		Exec:       execOptions(c),
	})
}

// historyFilePath returns the readline history location, empty on failure so
// the session still runs without persistent history.
func historyFilePath() string {
	dir, err := cfgpkg.Dir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}
