package normalize

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/gridreport/pkg/models"
)

func table(header []string, records ...[]string) *models.Table {
	return &models.Table{Source: "test.csv", Header: header, Records: records}
}

func TestRenameColumns(t *testing.T) {
	tbl := table([]string{"Consumption (kWh)", " Start", " End"})
	RenameColumns(tbl)
	assert.Equal(t, []string{"Consumption (kWh)", "Start", "End"}, tbl.Header)

	// Second pass and already-canonical tables are unchanged
	RenameColumns(tbl)
	assert.Equal(t, []string{"Consumption (kWh)", "Start", "End"}, tbl.Header)

	canonical := table([]string{"Start", "End", "Consumption (m³)"})
	RenameColumns(canonical)
	assert.Equal(t, []string{"Start", "End", "Consumption (m³)"}, canonical.Header)
}

func TestDatasetElectricity(t *testing.T) {
	tbl := table([]string{"Consumption (kWh)", " Start", " End"},
		[]string{"0.25", "2023-01-01T00:00:00+00:00", "2023-01-01T00:30:00+00:00"},
		[]string{" 1.5 ", "2023-07-01T00:00:00+01:00", "2023-07-01T00:30:00+01:00"},
	)

	ds, err := Dataset(tbl, models.Electricity, "elec")
	require.NoError(t, err)

	assert.Equal(t, "elec", ds.Label)
	assert.True(t, ds.Converted, "electricity is metered in kWh")
	assert.False(t, ds.Costed)
	require.Equal(t, 2, ds.Len())

	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), ds.Readings[0].Start.UTC())
	assert.Equal(t, time.Date(2023, 1, 1, 0, 30, 0, 0, time.UTC), ds.Readings[0].End.UTC())
	assert.Equal(t, 0.25, ds.Readings[0].KWh)
	assert.Equal(t, time.Date(2023, 6, 30, 23, 0, 0, 0, time.UTC), ds.Readings[1].Start.UTC())
	assert.Equal(t, 1.5, ds.Readings[1].Consumption)
}

func TestDatasetGasIsNotConverted(t *testing.T) {
	tbl := table([]string{"Consumption (m³)", "Start", "End"},
		[]string{"1.2", "2023-01-01 00:00:00", "2023-01-01 01:00:00"},
	)

	ds, err := Dataset(tbl, models.Gas, "gas")
	require.NoError(t, err)

	assert.False(t, ds.Converted)
	assert.Equal(t, 1.2, ds.Readings[0].Consumption)
	assert.Zero(t, ds.Readings[0].KWh)
}

func TestDatasetFormatErrors(t *testing.T) {
	header := []string{"Consumption (kWh)", "Start", "End"}
	tests := []struct {
		name   string
		tbl    *models.Table
		kind   models.Kind
		column string
		row    int
	}{
		{"bad start", table(header, []string{"1", "yesterday", "2023-01-01T00:30:00Z"}), models.Electricity, "Start", 1},
		{"empty end", table(header, []string{"1", "2023-01-01T00:00:00Z", ""}), models.Electricity, "End", 1},
		{"bad value", table(header,
			[]string{"1", "2023-01-01T00:00:00Z", "2023-01-01T00:30:00Z"},
			[]string{"abc", "2023-01-01T00:30:00Z", "2023-01-01T01:00:00Z"}), models.Electricity, "Consumption (kWh)", 2},
		{"negative value", table(header, []string{"-0.1", "2023-01-01T00:00:00Z", "2023-01-01T00:30:00Z"}), models.Electricity, "Consumption (kWh)", 1},
		{"nan value", table(header, []string{"NaN", "2023-01-01T00:00:00Z", "2023-01-01T00:30:00Z"}), models.Electricity, "Consumption (kWh)", 1},
		{"missing gas column", table(header, []string{"1", "2023-01-01T00:00:00Z", "2023-01-01T00:30:00Z"}), models.Gas, "Consumption (m³)", 0},
		{"missing start", table([]string{"Consumption (kWh)", "End"}), models.Electricity, "Start", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Dataset(tt.tbl, tt.kind, "x")

			var fe *FormatError
			require.True(t, errors.As(err, &fe), "got %v", err)
			assert.Equal(t, tt.column, fe.Column)
			assert.Equal(t, tt.row, fe.Row)
			assert.Equal(t, "test.csv", fe.Source)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{
		"2023-01-01T00:00:00+00:00",
		"2023-01-01T00:00:00Z",
		"2023-01-01T01:00:00+01:00",
		"2023-01-01 00:00:00+00:00",
		"2023-01-01T00:00:00",
		"2023-01-01 00:00:00",
		"2023-01-01",
		" 2023-01-01T00:00:00.000Z ",
	} {
		got, err := ParseTimestamp(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), "%s parsed as %s", s, got)
	}

	_, err := ParseTimestamp("01/02/2023")
	assert.Error(t, err)
}

func TestFilterKeepsOnlyWindow(t *testing.T) {
	w := models.Window{
		Start: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	starts := []time.Time{
		w.Start.Add(-30 * time.Minute),
		w.Start,
		time.Date(2023, 5, 5, 5, 0, 0, 0, time.UTC),
		w.End,
		w.End.Add(30 * time.Minute),
	}

	ds := &models.Dataset{Kind: models.Electricity, Label: "elec", Converted: true}
	for i, s := range starts {
		// End past the window is fine; only Start is bounded
		ds.Readings = append(ds.Readings, models.Reading{Start: s, End: s.Add(time.Hour), KWh: float64(i)})
	}

	filtered := Filter(ds, w)

	require.Equal(t, 3, filtered.Len())
	for _, r := range filtered.Readings {
		assert.True(t, w.Contains(r.Start))
	}
	assert.Equal(t, []float64{1, 2, 3}, []float64{filtered.Readings[0].KWh, filtered.Readings[1].KWh, filtered.Readings[2].KWh})
	assert.True(t, filtered.Converted)
	assert.Equal(t, 5, ds.Len(), "input is not modified")
}
