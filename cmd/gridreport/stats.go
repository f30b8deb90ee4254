package main

import (
	"fmt"

	"github.com/jgoulah/gridreport/internal/pipeline"
	"github.com/jgoulah/gridreport/internal/report"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the report statistics without rendering",
	Long:  `Computes the per-dataset statistics tables that the PDF report contains and prints them. No charts or documents are written.`,
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := newLogger()
	for _, kind := range pipeline.Kinds {
		ds, err := pipeline.PrepareDataset(cfg, kind, logger)
		if err != nil {
			return err
		}

		stats, err := pipeline.CostDataset(cfg, ds)
		if err != nil {
			return err
		}

		table := report.NewTable(stats, cfg.GetCurrency())
		fmt.Println("----------------------------------------")
		for _, row := range table.Rows {
			fmt.Printf("%-28s  %10s\n", row[0], row[1])
		}
	}
	fmt.Println("----------------------------------------")

	return nil
}
