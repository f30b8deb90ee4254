// Package energy holds the unit and cost arithmetic applied to datasets.
package energy

import (
	"errors"
	"fmt"

	"github.com/jgoulah/gridreport/pkg/models"
)

var (
	// ErrNotGas is returned when a volume conversion is asked of a non-gas dataset
	ErrNotGas = errors.New("dataset is not gas")
	// ErrNotConverted is returned when costing a dataset without a kWh column
	ErrNotConverted = errors.New("dataset has no kWh column")
)

// Converter turns gas volume into energy.
type Converter struct {
	CalorificValue float64 // MJ per m³
	MJToKWh        float64
}

// KWh converts a volume in cubic meters to kilowatt-hours
func (c Converter) KWh(m3 float64) float64 {
	return m3 * c.CalorificValue * c.MJToKWh
}

// ConvertGas fills the kWh column of a gas dataset from its m³ readings.
// kWh is always derived from the raw volume, so a second call rewrites the
// same values.
func (c Converter) ConvertGas(ds *models.Dataset) error {
	if ds.Kind != models.Gas {
		return fmt.Errorf("converting %s: %w", ds.Label, ErrNotGas)
	}

	for i := range ds.Readings {
		ds.Readings[i].KWh = c.KWh(ds.Readings[i].Consumption)
	}
	ds.Converted = true

	return nil
}

// ApplyCost adds the cost column (kWh × rate) to ds in place
func ApplyCost(ds *models.Dataset, ratePerKWh float64, column string) error {
	if !ds.Converted {
		return fmt.Errorf("costing %s: %w", ds.Label, ErrNotConverted)
	}
	if ratePerKWh < 0 {
		return fmt.Errorf("costing %s: negative rate %v", ds.Label, ratePerKWh)
	}

	for i := range ds.Readings {
		ds.Readings[i].Cost = ds.Readings[i].KWh * ratePerKWh
	}
	ds.Costed = true
	ds.CostColumn = column

	return nil
}

// StandingCharge returns the fixed charge for a number of days
func StandingCharge(dailyRate float64, days int) float64 {
	return dailyRate * float64(days)
}
