package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/gridreport/internal/database"
	"github.com/jgoulah/gridreport/pkg/models"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSVKeepsRawHeader(t *testing.T) {
	path := writeFile(t, "elec.csv", "Consumption (kWh), Start, End\n"+
		"0.25,2023-01-01T00:00:00+00:00,2023-01-01T00:30:00+00:00\n"+
		"0.5,2023-01-01T00:30:00+00:00,2023-01-01T01:00:00+00:00\n")

	table, err := Load(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, path, table.Source)
	assert.Equal(t, []string{"Consumption (kWh)", " Start", " End"}, table.Header)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "0.5", table.Records[1][0])
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	table, err := LoadCSV(writeFile(t, "gas.csv", "Consumption (m³),Start,End\n"))
	require.NoError(t, err)
	assert.Empty(t, table.Records)
}

func TestLoadCSVNotFound(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Contains(t, nf.Error(), "missing.csv")
}

func TestReadCSVParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		line int
	}{
		{"empty", "", 0},
		{"ragged row", "a,b,c\n1,2,3\n4,5\n", 3},
		{"bare quote", "a,b\n1,\"2\n", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadCSV("input.csv", strings.NewReader(tt.data))

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, "input.csv", pe.Path)
			if tt.line > 0 {
				assert.Equal(t, tt.line, pe.Line)
			}
		})
	}
}

func TestLoadSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "usage.db")
	db, err := database.New(path)
	require.NoError(t, err)

	start := time.Date(2023, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, value := range []float64{1.5, 0.75} {
		s := start.Add(time.Duration(i) * time.Hour)
		require.NoError(t, db.InsertUsage(&models.UsageData{StartTime: s, EndTime: s.Add(time.Hour), Value: value, Service: "nyseg"}))
	}
	require.NoError(t, db.InsertUsage(&models.UsageData{StartTime: start, EndTime: start.Add(time.Hour), Value: 9, Service: "coned"}))
	require.NoError(t, db.Close())

	table, err := Load(path, Options{Service: "nyseg"})
	require.NoError(t, err)

	assert.Equal(t, []string{models.ColumnKWh, models.ColumnStart, models.ColumnEnd}, table.Header)
	require.Len(t, table.Records, 2)
	assert.Equal(t, []string{"1.5", "2023-03-01 10:00:00", "2023-03-01 11:00:00"}, table.Records[0])
	assert.Equal(t, "0.75", table.Records[1][0])

	table, err = LoadSQLite(path, "coned", models.ColumnCubicMeters)
	require.NoError(t, err)
	assert.Equal(t, models.ColumnCubicMeters, table.Header[0])
	assert.Len(t, table.Records, 1)
}

func TestLoadSQLiteNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.db"), Options{Service: "nyseg"})

	var nf *NotFoundError
	assert.True(t, errors.As(err, &nf))
}
