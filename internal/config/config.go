package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jgoulah/gridreport/pkg/models"
)

// Defaults for the 2023 analysis
const (
	DefaultCalorificValue       = 38     // MJ per cubic meter
	DefaultMJToKWh              = 0.2778 // kWh per MJ
	DefaultElectricityRate      = 0.2922
	DefaultGasRate              = 0.0731
	DefaultElectricityStanding  = 0.42
	DefaultGasStanding          = 0.2747
	DefaultCurrency             = "£"
	DefaultElectricityInput     = "data/raw/consumption_elec_2023.csv"
	DefaultGasInput             = "data/raw/consumption_gas_2023.csv"
	DefaultConsumptionChartPath = "plots/plot_dataFrame_elec_gas.png"
	DefaultCostChartPath        = "plots/plot_dataFrame_elec_gas_cost.png"
	DefaultReportPath           = "report.pdf"
)

var (
	DefaultWindowStart = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	DefaultWindowEnd   = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

// Config holds the report configuration
type Config struct {
	Window      WindowConfig `yaml:"window,omitempty"`
	Gas         GasConfig    `yaml:"gas,omitempty"`
	Electricity SupplyConfig `yaml:"electricity,omitempty"`
	GasSupply   SupplyConfig `yaml:"gas_supply,omitempty"`
	Currency    string       `yaml:"currency,omitempty"` // Prefix for money values (fallback: £)
	Output      OutputConfig `yaml:"output,omitempty"`
}

// WindowConfig bounds the analysis period, both ends inclusive
type WindowConfig struct {
	Start time.Time `yaml:"start,omitempty"`
	End   time.Time `yaml:"end,omitempty"`
}

// GasConfig holds the volume to energy conversion constants
type GasConfig struct {
	CalorificValue float64 `yaml:"calorific_value,omitempty"` // MJ per m³
	MJToKWh        float64 `yaml:"mj_to_kwh,omitempty"`
}

// SupplyConfig describes one metered supply
type SupplyConfig struct {
	Input          string   `yaml:"input,omitempty"`           // CSV export or gridscraper sqlite database
	Service        string   `yaml:"service,omitempty"`         // Service name inside a sqlite database
	Label          string   `yaml:"label,omitempty"`           // Series and table label
	Rate           *float64 `yaml:"rate,omitempty"`            // Cost per kWh
	StandingCharge *float64 `yaml:"standing_charge,omitempty"` // Fixed cost per day
}

// OutputConfig holds artifact paths
type OutputConfig struct {
	ConsumptionChart string `yaml:"consumption_chart,omitempty"`
	CostChart        string `yaml:"cost_chart,omitempty"`
	Report           string `yaml:"report,omitempty"`
	Workbook         string `yaml:"workbook,omitempty"` // Optional XLSX export, disabled when empty
}

// Load reads the config file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config file: %w", err)
	}

	return &cfg, nil
}

// Save writes the config to file
func Save(configPath string, cfg *Config) error {
	// Ensure directory exists
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// DefaultConfigPath returns the default config file path (local directory)
func DefaultConfigPath() string {
	return "config.yaml"
}

// Validate checks the values that have no sensible fallback
func (c *Config) Validate() error {
	w := c.GetWindow()
	if w.End.Before(w.Start) {
		return fmt.Errorf("window end %s is before start %s", w.End.Format(time.RFC3339), w.Start.Format(time.RFC3339))
	}
	if c.Gas.CalorificValue < 0 {
		return fmt.Errorf("gas calorific_value must not be negative, got %v", c.Gas.CalorificValue)
	}
	if c.Gas.MJToKWh < 0 {
		return fmt.Errorf("gas mj_to_kwh must not be negative, got %v", c.Gas.MJToKWh)
	}
	for _, kind := range []models.Kind{models.Electricity, models.Gas} {
		if rate := c.GetRate(kind); rate < 0 {
			return fmt.Errorf("%s rate must not be negative, got %v", kind, rate)
		}
		if standing := c.GetStandingCharge(kind); standing < 0 {
			return fmt.Errorf("%s standing_charge must not be negative, got %v", kind, standing)
		}
	}
	return nil
}

// GetWindow returns the analysis window, falling back to calendar 2023
func (c *Config) GetWindow() models.Window {
	w := models.Window{Start: c.Window.Start, End: c.Window.End}
	if w.Start.IsZero() {
		w.Start = DefaultWindowStart
	}
	if w.End.IsZero() {
		w.End = DefaultWindowEnd
	}
	return w
}

// GetCalorificValue returns the gas calorific value in MJ/m³ (fallback: 38)
func (c *Config) GetCalorificValue() float64 {
	if c.Gas.CalorificValue <= 0 {
		return DefaultCalorificValue
	}
	return c.Gas.CalorificValue
}

// GetMJToKWh returns the MJ to kWh factor (fallback: 0.2778)
func (c *Config) GetMJToKWh() float64 {
	if c.Gas.MJToKWh <= 0 {
		return DefaultMJToKWh
	}
	return c.Gas.MJToKWh
}

// GetCurrency returns the currency prefix
func (c *Config) GetCurrency() string {
	if c.Currency == "" {
		return DefaultCurrency
	}
	return c.Currency
}

// Supply returns the supply section for a dataset kind
func (c *Config) Supply(kind models.Kind) SupplyConfig {
	if kind == models.Gas {
		return c.GasSupply
	}
	return c.Electricity
}

// GetInput returns the input path for a dataset kind
func (c *Config) GetInput(kind models.Kind) string {
	if in := c.Supply(kind).Input; in != "" {
		return in
	}
	if kind == models.Gas {
		return DefaultGasInput
	}
	return DefaultElectricityInput
}

// GetLabel returns the series label for a dataset kind ("elec" or "gas" by default)
func (c *Config) GetLabel(kind models.Kind) string {
	if label := c.Supply(kind).Label; label != "" {
		return label
	}
	return string(kind)
}

// GetService returns the service to select from a sqlite input, defaulting to the label
func (c *Config) GetService(kind models.Kind) string {
	if svc := c.Supply(kind).Service; svc != "" {
		return svc
	}
	return c.GetLabel(kind)
}

// GetRate returns the cost per kWh for a dataset kind.
// An explicit zero is honoured, so rates are pointers.
func (c *Config) GetRate(kind models.Kind) float64 {
	if r := c.Supply(kind).Rate; r != nil {
		return *r
	}
	if kind == models.Gas {
		return DefaultGasRate
	}
	return DefaultElectricityRate
}

// GetStandingCharge returns the daily standing charge for a dataset kind
func (c *Config) GetStandingCharge(kind models.Kind) float64 {
	if s := c.Supply(kind).StandingCharge; s != nil {
		return *s
	}
	if kind == models.Gas {
		return DefaultGasStanding
	}
	return DefaultElectricityStanding
}

// GetConsumptionChartPath returns where the consumption chart is written
func (c *Config) GetConsumptionChartPath() string {
	if c.Output.ConsumptionChart == "" {
		return DefaultConsumptionChartPath
	}
	return c.Output.ConsumptionChart
}

// GetCostChartPath returns where the cost chart is written
func (c *Config) GetCostChartPath() string {
	if c.Output.CostChart == "" {
		return DefaultCostChartPath
	}
	return c.Output.CostChart
}

// GetReportPath returns where the PDF report is written
func (c *Config) GetReportPath() string {
	if c.Output.Report == "" {
		return DefaultReportPath
	}
	return c.Output.Report
}

// GetWorkbookPath returns the XLSX export path, or "" when disabled
func (c *Config) GetWorkbookPath() string {
	return c.Output.Workbook
}

// Defaults returns a config with every parameter set explicitly to its default
func Defaults() *Config {
	elecRate, gasRate := DefaultElectricityRate, DefaultGasRate
	elecStanding, gasStanding := DefaultElectricityStanding, DefaultGasStanding

	return &Config{
		Window: WindowConfig{Start: DefaultWindowStart, End: DefaultWindowEnd},
		Gas:    GasConfig{CalorificValue: DefaultCalorificValue, MJToKWh: DefaultMJToKWh},
		Electricity: SupplyConfig{
			Input:          DefaultElectricityInput,
			Label:          string(models.Electricity),
			Rate:           &elecRate,
			StandingCharge: &elecStanding,
		},
		GasSupply: SupplyConfig{
			Input:          DefaultGasInput,
			Label:          string(models.Gas),
			Rate:           &gasRate,
			StandingCharge: &gasStanding,
		},
		Currency: DefaultCurrency,
		Output: OutputConfig{
			ConsumptionChart: DefaultConsumptionChartPath,
			CostChart:        DefaultCostChartPath,
			Report:           DefaultReportPath,
		},
	}
}
