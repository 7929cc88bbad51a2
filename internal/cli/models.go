package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/raphaelgruber/plagcheck/internal/metrics"
	"github.com/raphaelgruber/plagcheck/internal/models"
	"github.com/spf13/cobra"
)

var modelsJSON bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List the models offered by the scoring service",
	Long: `List the embedding models the scoring service can run.

Examples:
  plagcheck models
  plagcheck models --json`,
	RunE: runModels,
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsJSON, "json", false, "print the catalog as JSON")
}

func runModels(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	collector := metrics.NewCollector()

	start := time.Now()
	list, err := newClient().ListModels(ctx)
	if err != nil {
		collector.RecordFailure(metrics.OpCatalog, time.Since(start))
		return fmt.Errorf("list models: %w", err)
	}
	collector.RecordTiming(metrics.OpCatalog, time.Since(start))
	logger.Debug("catalog fetched", "count", len(list), "duration_ms", collector.Snapshot().Catalog.TotalTimeMs)

	out := cmd.OutOrStdout()
	if modelsJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(models.Catalog{Models: list})
	}

	if len(list) == 0 {
		fmt.Fprintln(out, "No models available.")
		return nil
	}

	fmt.Fprintf(out, "Available models (%d):\n", len(list))
	for _, m := range list {
		marker := " "
		if m.Name == cfg.DefaultModel {
			marker = "*"
		}
		fmt.Fprintf(out, " %s %-28s %s\n", marker, m.Name, m.Description)
	}
	fmt.Fprintf(out, "\n* default model\n")
	return nil
}
