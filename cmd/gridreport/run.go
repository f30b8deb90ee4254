package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/gridreport/internal/pipeline"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full report pipeline",
	Long: `Loads both consumption exports, restricts them to the configured window, renders the
consumption and cost charts and writes the PDF report (and XLSX workbook if configured).`,
	Args: cobra.NoArgs,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	fmt.Printf("=== Run started at %s ===\n", time.Now().Format("2006-01-02 15:04:05 MST"))

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	result, err := pipeline.Run(cmd.Context(), cfg, newLogger())
	if err != nil {
		return err
	}

	for _, stats := range result.Statistics {
		fmt.Printf("✓ %s: %s readings, %.2f kWh, %s%.2f\n",
			stats.Label, humanize.Comma(int64(stats.Readings)), stats.TotalKWh, cfg.GetCurrency(), stats.TotalCost)
	}
	for _, path := range result.Charts {
		fmt.Printf("✓ Chart written to %s\n", path)
	}
	fmt.Printf("✓ Report written to %s\n", result.Report)
	if result.Workbook != "" {
		fmt.Printf("✓ Workbook written to %s\n", result.Workbook)
	}

	return nil
}
