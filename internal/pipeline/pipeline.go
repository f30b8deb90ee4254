// Package pipeline wires the loader, normalizer, energy maths, charts and
// report into one run. Nothing happens until Run is called.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jgoulah/gridreport/internal/chart"
	"github.com/jgoulah/gridreport/internal/config"
	"github.com/jgoulah/gridreport/internal/energy"
	"github.com/jgoulah/gridreport/internal/loader"
	"github.com/jgoulah/gridreport/internal/normalize"
	"github.com/jgoulah/gridreport/internal/report"
	"github.com/jgoulah/gridreport/pkg/models"
)

// Kinds is the order datasets are processed and reported in
var Kinds = []models.Kind{models.Electricity, models.Gas}

// Result describes the artifacts of a successful run
type Result struct {
	RunID      string
	Statistics []report.Statistics
	Charts     []string
	Report     string
	Workbook   string // empty when the XLSX export is disabled
}

// Run executes the whole pipeline. The first failure aborts the run; chart
// and report files are only ever replaced by complete ones.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	window := cfg.GetWindow()
	currency := cfg.GetCurrency()

	logger.Info("starting run",
		"window_start", window.Start,
		"window_end", window.End,
		"window_days", window.Days())

	// Load, normalize, convert and window both datasets
	datasets := make([]*models.Dataset, 0, len(Kinds))
	for _, kind := range Kinds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ds, err := PrepareDataset(cfg, kind, logger)
		if err != nil {
			return nil, err
		}
		if ds.Len() == 0 {
			return nil, fmt.Errorf("%s: no readings inside window: %w", ds.Label, report.ErrEmptyDataset)
		}
		datasets = append(datasets, ds)
	}

	renderer := chart.NewRenderer()
	consumptionChart := cfg.GetConsumptionChartPath()
	if err := renderer.Render(consumptionChart, seriesFor(datasets, models.ColumnKWh)...); err != nil {
		return nil, err
	}
	logger.Info("rendered chart", "path", consumptionChart)

	// Derive costs and standing charges
	costColumn := models.CostColumn(currency)
	standing := make([]float64, len(datasets))
	for i, ds := range datasets {
		if err := energy.ApplyCost(ds, cfg.GetRate(ds.Kind), costColumn); err != nil {
			return nil, err
		}
		standing[i] = energy.StandingCharge(cfg.GetStandingCharge(ds.Kind), window.Days())
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	costChart := cfg.GetCostChartPath()
	if err := renderer.Render(costChart, seriesFor(datasets, costColumn)...); err != nil {
		return nil, err
	}
	logger.Info("rendered chart", "path", costChart)

	// Statistics and tables
	result := &Result{RunID: runID, Charts: []string{consumptionChart, costChart}}
	tables := make([]report.Table, 0, len(datasets))
	for i, ds := range datasets {
		stats, err := report.Compute(ds, standing[i])
		if err != nil {
			return nil, err
		}
		result.Statistics = append(result.Statistics, stats)
		tables = append(tables, report.NewTable(stats, currency))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// The cost chart leads, as in the printed report
	reportPath := cfg.GetReportPath()
	builder := report.NewBuilder(runID)
	if err := builder.Build(reportPath, tables, []string{costChart, consumptionChart}); err != nil {
		return nil, err
	}
	result.Report = reportPath
	logger.Info("wrote report", "path", reportPath)

	if workbook := cfg.GetWorkbookPath(); workbook != "" {
		if err := report.ExportXLSX(workbook, tables, runID); err != nil {
			return nil, err
		}
		result.Workbook = workbook
		logger.Info("wrote workbook", "path", workbook)
	}

	return result, nil
}

// PrepareDataset loads one supply and returns it normalized, in kWh and
// restricted to the configured window. Costs are not applied.
func PrepareDataset(cfg *config.Config, kind models.Kind, logger *slog.Logger) (*models.Dataset, error) {
	input := cfg.GetInput(kind)
	label := cfg.GetLabel(kind)

	table, err := loader.Load(input, loader.Options{
		Service: cfg.GetService(kind),
		Column:  kind.SourceColumn(),
	})
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", label, err)
	}
	logger.Info("loaded input", "dataset", label, "path", input, "rows", len(table.Records))

	ds, err := normalize.Dataset(table, kind, label)
	if err != nil {
		return nil, fmt.Errorf("normalizing %s: %w", label, err)
	}

	if kind == models.Gas {
		conv := energy.Converter{
			CalorificValue: cfg.GetCalorificValue(),
			MJToKWh:        cfg.GetMJToKWh(),
		}
		if err := conv.ConvertGas(ds); err != nil {
			return nil, err
		}
	}

	filtered := normalize.Filter(ds, cfg.GetWindow())
	logger.Debug("applied window",
		"dataset", label,
		"kept", filtered.Len(),
		"dropped", ds.Len()-filtered.Len())

	return filtered, nil
}

// CostDataset applies the configured rate to ds and returns its statistics
func CostDataset(cfg *config.Config, ds *models.Dataset) (report.Statistics, error) {
	if err := energy.ApplyCost(ds, cfg.GetRate(ds.Kind), models.CostColumn(cfg.GetCurrency())); err != nil {
		return report.Statistics{}, err
	}
	standing := energy.StandingCharge(cfg.GetStandingCharge(ds.Kind), cfg.GetWindow().Days())
	return report.Compute(ds, standing)
}

func seriesFor(datasets []*models.Dataset, column string) []chart.Series {
	series := make([]chart.Series, len(datasets))
	for i, ds := range datasets {
		series[i] = chart.Series{Label: ds.Label, Dataset: ds, Column: column}
	}
	return series
}
