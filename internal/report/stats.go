package report

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jgoulah/gridreport/pkg/models"
)

var (
	// ErrEmptyDataset is returned when statistics are asked of a dataset with no readings
	ErrEmptyDataset = errors.New("dataset has no readings")
	// ErrIncomplete is returned when statistics are asked before conversion and costing
	ErrIncomplete = errors.New("dataset is missing derived columns")
)

// RowCount is the number of rows every statistics table has
const RowCount = 7

// Statistics is the per-dataset summary shown in the report
type Statistics struct {
	Label          string
	Readings       int
	TotalKWh       float64
	AverageKWh     float64
	MaxKWh         float64
	TotalCost      float64
	AverageCost    float64
	MaxCost        float64
	StandingCharge float64
}

// Compute aggregates a converted and costed dataset
func Compute(ds *models.Dataset, standingCharge float64) (Statistics, error) {
	if !ds.Converted || !ds.Costed {
		return Statistics{}, fmt.Errorf("computing statistics for %s: %w", ds.Label, ErrIncomplete)
	}
	if ds.Len() == 0 {
		return Statistics{}, fmt.Errorf("computing statistics for %s: %w", ds.Label, ErrEmptyDataset)
	}

	stats := Statistics{
		Label:          ds.Label,
		Readings:       ds.Len(),
		MaxKWh:         ds.Readings[0].KWh,
		MaxCost:        ds.Readings[0].Cost,
		StandingCharge: standingCharge,
	}
	for _, r := range ds.Readings {
		stats.TotalKWh += r.KWh
		stats.TotalCost += r.Cost
		stats.MaxKWh = max(stats.MaxKWh, r.KWh)
		stats.MaxCost = max(stats.MaxCost, r.Cost)
	}
	n := float64(ds.Len())
	stats.AverageKWh = stats.TotalKWh / n
	stats.AverageCost = stats.TotalCost / n

	return stats, nil
}

// Table is one block of label/value rows
type Table struct {
	Title string
	Rows  [][2]string
}

// NewTable lays out the statistics as the report's seven rows
func NewTable(s Statistics, currency string) Table {
	kwh := func(v float64) string { return fixed(v) + " kWh" }
	money := func(v float64) string { return currency + fixed(v) }

	return Table{
		Title: s.Label,
		Rows: [][2]string{
			{"Total Consumption " + s.Label, kwh(s.TotalKWh)},
			{"Average Consumption " + s.Label, kwh(s.AverageKWh)},
			{"Maximum Consumption " + s.Label, kwh(s.MaxKWh)},
			{"Total Consumption " + s.Label, money(s.TotalCost)},
			{"Average Consumption " + s.Label, money(s.AverageCost)},
			{"Maximum Consumption " + s.Label, money(s.MaxCost)},
			{"Standing Charge " + s.Label, money(s.StandingCharge)},
		},
	}
}

// fixed formats v with two decimals, rounding half away from zero
func fixed(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
