package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jgoulah/gridreport/internal/config"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(func() {
		cfgFile = ""
		verbose = false
		initForce = false
	})
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	require.NoError(t, execute(t, "init", "--config", path))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultReportPath, cfg.GetReportPath())

	// Refuses to clobber without --force
	assert.Error(t, execute(t, "init", "--config", path))
	assert.NoError(t, execute(t, "init", "--config", path, "--force"))
}

func TestListRejectsUnknownDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	assert.Error(t, execute(t, "list", "water", "--config", path))
}

func TestStatsAndRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "plots"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "elec.csv"), []byte(
		"Consumption (kWh), Start, End\n"+
			"4,2023-01-01T00:00:00Z,2023-01-01T12:00:00Z\n"+
			"6,2023-01-01T12:00:00Z,2023-01-02T00:00:00Z\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "gas.csv"), []byte(
		"Consumption (m³), Start, End\n"+
			"1,2023-01-01T00:00:00Z,2023-01-02T00:00:00Z\n"), 0644))

	configYAML := `window:
  start: 2023-01-01T00:00:00Z
  end: 2023-01-02T00:00:00Z
electricity:
  input: ` + filepath.Join(dir, "elec.csv") + `
gas_supply:
  input: ` + filepath.Join(dir, "gas.csv") + `
output:
  consumption_chart: ` + filepath.Join(dir, "plots", "consumption.png") + `
  cost_chart: ` + filepath.Join(dir, "plots", "cost.png") + `
  report: ` + filepath.Join(dir, "report.pdf") + `
`
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0644))

	require.NoError(t, execute(t, "stats", "--config", path))
	require.NoError(t, execute(t, "list", "elec", "--config", path))
	require.NoError(t, execute(t, "run", "--config", path))

	_, err := os.Stat(filepath.Join(dir, "report.pdf"))
	assert.NoError(t, err)
}
