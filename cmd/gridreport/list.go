package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/jgoulah/gridreport/internal/energy"
	"github.com/jgoulah/gridreport/internal/pipeline"
	"github.com/jgoulah/gridreport/pkg/models"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [elec|gas]",
	Short: "List normalized readings for one dataset",
	Long:  `Displays the readings of one dataset after renaming, parsing, conversion and the window filter, with derived kWh and cost columns.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	kind, err := models.ParseKind(args[0])
	if err != nil {
		return err
	}

	// Load config
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ds, err := pipeline.PrepareDataset(cfg, kind, newLogger())
	if err != nil {
		return err
	}

	if ds.Len() == 0 {
		fmt.Printf("No readings found for %s inside the window\n", ds.Label)
		return nil
	}

	costColumn := models.CostColumn(cfg.GetCurrency())
	if err := energy.ApplyCost(ds, cfg.GetRate(kind), costColumn); err != nil {
		return err
	}

	fmt.Printf("\n%s Readings:\n", ds.Label)
	fmt.Println("--------------------------------------------------------------------------------------")
	fmt.Printf("%-25s  %-25s  %10s  %10s  %10s\n", models.ColumnStart, models.ColumnEnd, kind.Unit(), "kWh", cfg.GetCurrency())
	fmt.Println("--------------------------------------------------------------------------------------")

	var totalKWh, totalCost float64
	for _, r := range ds.Readings {
		fmt.Printf("%-25s  %-25s  %10.3f  %10.3f  %10.2f\n",
			r.Start.Format("2006-01-02 15:04:05Z07:00"), r.End.Format("2006-01-02 15:04:05Z07:00"), r.Consumption, r.KWh, r.Cost)
		totalKWh += r.KWh
		totalCost += r.Cost
	}

	fmt.Println("--------------------------------------------------------------------------------------")
	fmt.Printf("Total: %.2f kWh, %s%.2f (%s records)\n", totalKWh, cfg.GetCurrency(), totalCost, humanize.Comma(int64(ds.Len())))

	return nil
}
