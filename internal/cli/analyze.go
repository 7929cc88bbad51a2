package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/raphaelgruber/plagcheck/internal/analysis"
	"github.com/raphaelgruber/plagcheck/internal/interpret"
	"github.com/raphaelgruber/plagcheck/internal/render"
	"github.com/raphaelgruber/plagcheck/internal/session"
	"github.com/spf13/cobra"
)

var (
	analyzeThreshold     float64
	analyzeModels        []string
	analyzeFiles         []string
	analyzeSession       string
	analyzeOutput        string
	analyzeLegacySummary bool
	analyzeFailOnClones  bool
	analyzeStats         bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text...]",
	Short: "Compare texts and report clone pairs",
	Long: `Compare two or more texts with the selected models and print the similarity
matrix, detected clone pairs or the closest near miss.

Texts come from --session, then --file (one text per file, "-" for stdin),
then positional arguments. Blank texts are ignored.

Examples:
  plagcheck analyze "first text" "second text"
  plagcheck analyze -f essay1.txt -f essay2.txt --threshold 0.7
  plagcheck analyze --session essays.yaml -m all-mpnet-base-v2 -o json
  plagcheck analyze -f a.txt -f b.txt --fail-on-clones`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Float64VarP(&analyzeThreshold, "threshold", "t", 0.8, "similarity threshold in [0.1, 1.0] (default $PLAGCHECK_THRESHOLD or 0.8)")
	analyzeCmd.Flags().StringArrayVarP(&analyzeModels, "model", "m", nil, "model to run (repeatable, default $PLAGCHECK_DEFAULT_MODEL)")
	analyzeCmd.Flags().StringArrayVarP(&analyzeFiles, "file", "f", nil, "read one text from a file, - for stdin (repeatable)")
	analyzeCmd.Flags().StringVar(&analyzeSession, "session", "", "YAML session file with texts, threshold and models")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", outputText, "output format: text, json or yaml")
	analyzeCmd.Flags().BoolVar(&analyzeLegacySummary, "legacy-summary", false, "use the legacy highest-similarity filter in summaries")
	analyzeCmd.Flags().BoolVar(&analyzeFailOnClones, "fail-on-clones", false, "exit with status 2 when any clone pair is found")
	analyzeCmd.Flags().BoolVar(&analyzeStats, "stats", false, "print timing statistics to stderr")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	switch analyzeOutput {
	case outputText, outputJSON, outputYAML:
	default:
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", analyzeOutput)
	}

	in, err := collectInputs(analyzeSession, analyzeFiles, args,
		cmd.Flags().Changed("threshold"), analyzeThreshold, analyzeModels)
	if err != nil {
		return err
	}

	ctrl := session.New(
		session.WithTexts(in.texts...),
		session.WithThreshold(in.threshold),
		session.WithModels(in.models...),
		session.WithLogger(logger),
	)

	ctx := context.Background()
	resp, err := ctrl.Analyze(ctx, newClient())
	if err != nil {
		if errors.Is(err, analysis.ErrInsufficientTexts) {
			return fmt.Errorf("%s: %w", session.ValidationMessage, err)
		}
		return fmt.Errorf("analyze: %s: %w", session.DisplayError(err), err)
	}

	summary := interpret.HighestOffDiagonal
	if analyzeLegacySummary {
		summary = interpret.LegacyHighestSimilarity
	}

	snap := ctrl.Snapshot()
	views := interpret.Interpret(resp, interpret.Options{
		Order:   snap.Submitted.Models,
		Summary: summary,
	})

	theme := render.PlainTheme
	if isTerminal(os.Stdout) {
		theme = render.DefaultTheme
	}

	report := newAnalysisReport(snap.LastInvocationID, resp.Texts, snap.Threshold, views)
	if err := writeReport(cmd.OutOrStdout(), analyzeOutput, report, views, theme); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if analyzeStats {
		writeStats(cmd.ErrOrStderr(), ctrl.Metrics().Snapshot())
	}

	if analyzeFailOnClones && report.Flagged {
		return ErrClonesFound
	}
	return nil
}
