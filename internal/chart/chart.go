// Package chart draws consumption series as overlaid line charts.
package chart

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/jgoulah/gridreport/internal/atomicfile"
	"github.com/jgoulah/gridreport/pkg/models"
)

// DefaultTitle is the title shared by every chart in the report
const DefaultTitle = "Energy Consumption Over Time"

// IOError is returned when a chart image cannot be written
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("writing chart %s: %v", e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// Series is one line on a chart
type Series struct {
	Label   string
	Dataset *models.Dataset
	Column  string // models.ColumnKWh or the dataset's cost column
}

// Renderer draws PNG line charts. The zero value is usable.
type Renderer struct {
	Title      string
	Width      vg.Length
	Height     vg.Length
	TimeFormat string
}

// NewRenderer returns a renderer with the report's default look
func NewRenderer() *Renderer {
	return &Renderer{
		Title:      DefaultTitle,
		Width:      8 * vg.Inch,
		Height:     6 * vg.Inch,
		TimeFormat: "2006-01-02",
	}
}

// Render draws every series against its Start timestamps and writes the
// image to path. Each call starts from a fresh plot.
func (r *Renderer) Render(path string, series ...Series) error {
	if len(series) == 0 {
		return fmt.Errorf("rendering %s: no series", path)
	}

	p, err := r.compose(series)
	if err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}

	width, height := r.Width, r.Height
	if width <= 0 {
		width = 8 * vg.Inch
	}
	if height <= 0 {
		height = 6 * vg.Inch
	}

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("rendering %s: %w", path, err)
	}

	err = atomicfile.Write(path, func(w io.Writer) error {
		_, err := wt.WriteTo(w)
		return err
	})
	if err != nil {
		return &IOError{Path: path, Err: err}
	}

	return nil
}

func (r *Renderer) compose(series []Series) (*plot.Plot, error) {
	p := plot.New()

	p.Title.Text = r.Title
	if p.Title.Text == "" {
		p.Title.Text = DefaultTitle
	}
	p.X.Label.Text = "Time"
	// Every series on one chart plots the same column
	p.Y.Label.Text = series[0].Column

	timeFormat := r.TimeFormat
	if timeFormat == "" {
		timeFormat = "2006-01-02"
	}
	p.X.Tick.Marker = plot.TimeTicks{Format: timeFormat}
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	for i, s := range series {
		pts, err := points(s)
		if err != nil {
			return nil, err
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Label, err)
		}
		line.Color = plotutil.Color(i)
		line.Width = vg.Points(1.5)

		p.Add(line)
		p.Legend.Add(s.Label, line)
	}

	return p, nil
}

// points maps a series to (unix seconds, value) pairs
func points(s Series) (plotter.XYs, error) {
	if s.Dataset == nil || s.Dataset.Len() == 0 {
		return nil, fmt.Errorf("series %s: no readings", s.Label)
	}

	pts := make(plotter.XYs, s.Dataset.Len())
	for i, reading := range s.Dataset.Readings {
		v, err := s.Dataset.Value(i, s.Column)
		if err != nil {
			return nil, fmt.Errorf("series %s: %w", s.Label, err)
		}
		pts[i].X = float64(reading.Start.Unix())
		pts[i].Y = v
	}

	return pts, nil
}
