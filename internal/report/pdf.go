package report

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/jung-kurt/gofpdf"

	"github.com/jgoulah/gridreport/internal/atomicfile"
)

// RenderError is returned when the document cannot be composed
type RenderError struct {
	Path string // offending input, empty for composition failures
	Err  error
}

func (e *RenderError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("rendering report: %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("rendering report: %v", e.Err)
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// WriteError is returned when the finished document cannot be written
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing report %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// TableStyle describes how statistics tables are drawn. The first row is
// styled as the header.
type TableStyle struct {
	ColumnWidths  [2]float64
	RowHeight     float64
	HeaderPadding float64 // extra height below header text
	HeaderFill    [3]int
	BodyFill      [3]int
	GridWidth     float64
	FontSize      float64
}

// DefaultTableStyle is light grey bold header, white body, 1pt black grid.
var DefaultTableStyle = TableStyle{
	ColumnWidths:  [2]float64{200, 100},
	RowHeight:     18,
	HeaderPadding: 12,
	HeaderFill:    [3]int{211, 211, 211},
	BodyFill:      [3]int{255, 255, 255},
	GridWidth:     1,
	FontSize:      10,
}

// Builder assembles the PDF report. Units are points.
type Builder struct {
	PageSize    string
	Margin      float64
	ImageWidth  float64
	ImageHeight float64
	Spacing     float64
	Style       TableStyle
	Title       string
	RunID       string
}

// NewBuilder returns a builder for US Letter pages with 400x300 charts
func NewBuilder(runID string) *Builder {
	return &Builder{
		PageSize:    "Letter",
		Margin:      72,
		ImageWidth:  400,
		ImageHeight: 300,
		Spacing:     12,
		Style:       DefaultTableStyle,
		Title:       "Energy Consumption Report",
		RunID:       runID,
	}
}

// Build writes tables followed by images to path. Nothing is written
// unless the whole document composes.
func (b *Builder) Build(path string, tables []Table, images []string) error {
	for _, img := range images {
		if _, err := os.Stat(img); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return &RenderError{Path: img, Err: fmt.Errorf("image not found: %w", err)}
			}
			return &RenderError{Path: img, Err: err}
		}
	}

	pdf := gofpdf.New("P", "pt", b.PageSize, "")
	pdf.SetMargins(b.Margin, b.Margin, b.Margin)
	pdf.SetAutoPageBreak(true, b.Margin)
	pdf.SetTitle(b.Title, true)
	pdf.SetSubject(b.RunID, true)
	pdf.SetCreator("gridreport", true)
	pdf.AddPage()

	// Core fonts are cp1252; the translator maps "£" and friends
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, t := range tables {
		b.drawTable(pdf, tr, t)
		pdf.Ln(b.Spacing)
	}

	pageWidth, _ := pdf.GetPageSize()
	x := (pageWidth - b.ImageWidth) / 2
	for _, img := range images {
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.ImageOptions(img, x, -1, b.ImageWidth, b.ImageHeight, true, opts, 0, "")
		pdf.Ln(b.Spacing)
	}

	if err := pdf.Error(); err != nil {
		return &RenderError{Err: err}
	}

	err := atomicfile.Write(path, func(w io.Writer) error {
		return pdf.Output(w)
	})
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	return nil
}

// drawTable draws one centered, fully gridded table
func (b *Builder) drawTable(pdf *gofpdf.Fpdf, tr func(string) string, t Table) {
	style := b.Style
	pageWidth, _ := pdf.GetPageSize()
	x := (pageWidth - style.ColumnWidths[0] - style.ColumnWidths[1]) / 2

	pdf.SetLineWidth(style.GridWidth)
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetTextColor(0, 0, 0)

	for i, row := range t.Rows {
		height := style.RowHeight
		if i == 0 {
			height += style.HeaderPadding
			pdf.SetFont("Helvetica", "B", style.FontSize)
			pdf.SetFillColor(style.HeaderFill[0], style.HeaderFill[1], style.HeaderFill[2])
		} else {
			pdf.SetFont("Helvetica", "", style.FontSize)
			pdf.SetFillColor(style.BodyFill[0], style.BodyFill[1], style.BodyFill[2])
		}

		pdf.SetX(x)
		for col, text := range row {
			pdf.CellFormat(style.ColumnWidths[col], height, tr(text), "1", 0, "CM", true, 0, "")
		}
		pdf.Ln(height)
	}
}
