package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/raphaelgruber/plagcheck/internal/metrics"
	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the scoring service",
	Long: `Query the scoring service health endpoint and report the loaded models.

Examples:
  plagcheck health
  plagcheck health --server http://scoring:5001`,
	RunE: runHealth,
}

func runHealth(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	collector := metrics.NewCollector()

	c := newClient()
	start := time.Now()
	report, err := c.Health(ctx)
	elapsed := time.Since(start)
	if err != nil {
		collector.RecordFailure(metrics.OpHealth, elapsed)
		logger.Warn("health check failed", "server_url", c.Endpoint(), "error", err)
		return fmt.Errorf("health check: %w", err)
	}
	collector.RecordTiming(metrics.OpHealth, elapsed)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Server:  %s\n", c.Endpoint())
	fmt.Fprintf(out, "Status:  %s\n", report.Status)
	fmt.Fprintf(out, "Latency: %dms\n", collector.Snapshot().Health.MaxTimeMs)
	fmt.Fprintf(out, "Models loaded: %d\n", report.ModelsLoaded)
	if len(report.AvailableModels) > 0 {
		fmt.Fprintf(out, "Available: %s\n", strings.Join(report.AvailableModels, ", "))
	}
	return nil
}
