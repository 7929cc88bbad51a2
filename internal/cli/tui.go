package cli

import (
	"errors"
	"os"

	"github.com/raphaelgruber/plagcheck/internal/interpret"
	"github.com/raphaelgruber/plagcheck/internal/session"
	"github.com/raphaelgruber/plagcheck/internal/tui"
	"github.com/spf13/cobra"
)

var (
	tuiSession       string
	tuiLegacySummary bool
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive checker",
	Long: `Start the interactive checker. This is also what runs when plagcheck is
invoked without a subcommand.

Examples:
  plagcheck
  plagcheck tui --session essays.yaml
  plagcheck --server http://scoring:5001`,
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().StringVar(&tuiSession, "session", "", "YAML session file to preload texts, threshold and models; ctrl+o saves back to it")
	tuiCmd.Flags().BoolVar(&tuiLegacySummary, "legacy-summary", false, "use the legacy highest-similarity filter in summaries")
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stdout) {
		return errors.New("interactive mode needs a terminal; use 'plagcheck analyze' instead")
	}

	in, err := collectInputs(tuiSession, nil, nil, false, 0, nil)
	if err != nil {
		return err
	}

	ctrl := session.New(
		session.WithTexts(in.texts...),
		session.WithThreshold(in.threshold),
		session.WithModels(in.models...),
		session.WithLogger(logger),
	)

	opts := []tui.Option{tui.WithLogger(logger), tui.WithSessionPath(tuiSession)}
	if tuiLegacySummary {
		opts = append(opts, tui.WithSummary(interpret.LegacyHighestSimilarity))
	}

	logger.Info("starting interactive session", "server_url", cfg.ServerURL)
	return tui.Run(ctrl, newClient(), opts...)
}
