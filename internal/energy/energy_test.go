package energy

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/gridreport/pkg/models"
)

var defaultConverter = Converter{CalorificValue: 38, MJToKWh: 0.2778}

func TestConverterKWh(t *testing.T) {
	assert.InDelta(t, 1055.64, defaultConverter.KWh(100), 1e-9)
	assert.InDelta(t, 10.5564, defaultConverter.KWh(1), 1e-12)
	assert.Zero(t, defaultConverter.KWh(0))

	// Linear
	assert.InDelta(t, defaultConverter.KWh(3)+defaultConverter.KWh(4), defaultConverter.KWh(7), 1e-9)
}

func TestConvertGas(t *testing.T) {
	ds := &models.Dataset{
		Kind:     models.Gas,
		Label:    "gas",
		Readings: []models.Reading{{Consumption: 100}, {Consumption: 0.5}},
	}

	require.NoError(t, defaultConverter.ConvertGas(ds))
	assert.True(t, ds.Converted)
	assert.InDelta(t, 1055.64, ds.Readings[0].KWh, 1e-9)
	assert.InDelta(t, 5.2782, ds.Readings[1].KWh, 1e-9)

	// Derived from m³ every time, never from the previous kWh
	require.NoError(t, defaultConverter.ConvertGas(ds))
	assert.InDelta(t, 1055.64, ds.Readings[0].KWh, 1e-9)
}

func TestConvertGasRejectsElectricity(t *testing.T) {
	ds := &models.Dataset{Kind: models.Electricity, Label: "elec"}
	err := defaultConverter.ConvertGas(ds)
	assert.True(t, errors.Is(err, ErrNotGas))
}

func TestApplyCost(t *testing.T) {
	ds := &models.Dataset{
		Kind:      models.Electricity,
		Label:     "elec",
		Converted: true,
		Readings:  []models.Reading{{KWh: 1000}, {KWh: 1}},
	}

	require.NoError(t, ApplyCost(ds, 0.2922, models.CostColumn("£")))
	assert.True(t, ds.Costed)
	assert.Equal(t, "Consumption (£)", ds.CostColumn)
	assert.InDelta(t, 292.20, ds.Readings[0].Cost, 1e-9)
	assert.InDelta(t, 0.2922, ds.Readings[1].Cost, 1e-12)
}

func TestApplyCostErrors(t *testing.T) {
	gas := &models.Dataset{Kind: models.Gas, Label: "gas", Readings: []models.Reading{{Consumption: 1}}}
	err := ApplyCost(gas, 0.0731, "Consumption (£)")
	assert.True(t, errors.Is(err, ErrNotConverted))
	assert.False(t, gas.Costed)

	elec := &models.Dataset{Kind: models.Electricity, Label: "elec", Converted: true}
	assert.Error(t, ApplyCost(elec, -1, "Consumption (£)"))
}

func TestStandingCharge(t *testing.T) {
	assert.InDelta(t, 153.30, StandingCharge(0.42, 365), 1e-9)
	assert.InDelta(t, 100.2655, StandingCharge(0.2747, 365), 1e-9)
	assert.Zero(t, StandingCharge(0.42, 0))
}
