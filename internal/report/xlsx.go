package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/jgoulah/gridreport/internal/atomicfile"
)

// ExportXLSX writes each table to its own sheet, styled like the PDF tables
func ExportXLSX(path string, tables []Table, runID string) error {
	f := excelize.NewFile()
	defer f.Close()

	_ = f.SetDocProps(&excelize.DocProperties{
		Title:   "Energy Consumption Report",
		Subject: runID,
		Creator: "gridreport",
	})

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "000000"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D3D3D3"}},
		Border:    border,
		Alignment: center,
	})
	if err != nil {
		return &RenderError{Err: fmt.Errorf("creating header style: %w", err)}
	}
	bodyStyle, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFFFF"}},
		Border:    border,
		Alignment: center,
	})
	if err != nil {
		return &RenderError{Err: fmt.Errorf("creating body style: %w", err)}
	}

	for i, t := range tables {
		sheet := t.Title
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return &RenderError{Err: fmt.Errorf("naming sheet %s: %w", sheet, err)}
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return &RenderError{Err: fmt.Errorf("creating sheet %s: %w", sheet, err)}
		}

		for r, row := range t.Rows {
			_ = f.SetCellValue(sheet, fmt.Sprintf("A%d", r+1), row[0])
			_ = f.SetCellValue(sheet, fmt.Sprintf("B%d", r+1), row[1])
		}
		if len(t.Rows) == 0 {
			continue
		}

		_ = f.SetColWidth(sheet, "A", "A", 32)
		_ = f.SetColWidth(sheet, "B", "B", 16)
		_ = f.SetCellStyle(sheet, "A1", "B1", headerStyle)
		if len(t.Rows) > 1 {
			_ = f.SetCellStyle(sheet, "A2", fmt.Sprintf("B%d", len(t.Rows)), bodyStyle)
		}
	}

	err = atomicfile.Write(path, func(w io.Writer) error {
		return f.Write(w)
	})
	if err != nil {
		return &WriteError{Path: path, Err: err}
	}

	return nil
}
