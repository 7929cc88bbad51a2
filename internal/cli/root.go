// Package cli provides the command-line interface for plagcheck.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/raphaelgruber/plagcheck/internal/client"
	"github.com/raphaelgruber/plagcheck/internal/config"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ErrClonesFound is returned by analyze --fail-on-clones when any pair is flagged.
// Use errors.Is() to map it to exit code 2.
var ErrClonesFound = errors.New("clone pairs found")

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose   bool
	serverURL string

	// Global config and logger
	cfg        config.Config
	logger     *slog.Logger
	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "plagcheck",
	Short: "Semantic plagiarism checker",
	Long: `Plagcheck compares two or more texts with embedding models served by a
scoring service and flags pairs whose similarity meets a threshold.

Run without a subcommand to start the interactive checker.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			if err := logCleanup(); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
			}
			logCleanup = nil
		}
	},
	RunE: runTUI,
}

// setup loads configuration and the logger for every command.
func setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	cfg = config.Load()
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}

	level := cfg.LogLevel
	if verbose {
		level = slog.LevelDebug
	}

	// The interactive UI owns the terminal; log only to the file there.
	if !cmd.HasParent() || cmd.Name() == "tui" {
		logger, logCleanup = config.SetupFileLogger(cfg.LogFile, level)
	} else {
		logger, logCleanup = config.SetupLogger(cfg.LogFile, level)
	}

	logger.Debug("configuration loaded",
		"server_url", cfg.ServerURL,
		"timeout", cfg.ClientTimeout,
		"default_model", cfg.DefaultModel,
		"threshold", cfg.Threshold)
	return nil
}

// newClient builds the scoring service client from the loaded config.
func newClient() *client.Client {
	return client.New(cfg.ServerURL, client.WithTimeout(cfg.ClientTimeout))
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "scoring service URL (default $PLAGCHECK_SERVER_URL or http://localhost:5001)")

	// Add subcommands
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(versionCmd)
}
