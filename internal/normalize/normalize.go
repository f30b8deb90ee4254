// Package normalize turns raw export tables into typed, windowed datasets.
package normalize

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/jgoulah/gridreport/pkg/models"
)

// FormatError is returned when a column is missing or a cell cannot be parsed
type FormatError struct {
	Source string
	Column string
	Row    int // 1-based data row, 0 for header problems
	Value  string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Row == 0 {
		return fmt.Sprintf("%s: column %q: %v", e.Source, e.Column, e.Err)
	}
	return fmt.Sprintf("%s: row %d column %q: invalid value %q: %v", e.Source, e.Row, e.Column, e.Value, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

var (
	errMissingColumn = errors.New("column not found")
	errNegative      = errors.New("consumption must not be negative")
)

// renames maps the leading-space headers some exports use to canonical names
var renames = map[string]string{
	" " + models.ColumnStart: models.ColumnStart,
	" " + models.ColumnEnd:   models.ColumnEnd,
}

// RenameColumns rewrites " Start" and " End" headers in place.
// Headers that are already canonical are left alone.
func RenameColumns(t *models.Table) {
	for i, col := range t.Header {
		if name, ok := renames[col]; ok {
			t.Header[i] = name
		}
	}
}

// Dataset renames columns, then parses every record of t into a Reading.
// Electricity datasets come back with the kWh column populated; gas
// datasets need energy.Converter.ConvertGas first.
func Dataset(t *models.Table, kind models.Kind, label string) (*models.Dataset, error) {
	RenameColumns(t)

	startCol, err := requireColumn(t, models.ColumnStart)
	if err != nil {
		return nil, err
	}
	endCol, err := requireColumn(t, models.ColumnEnd)
	if err != nil {
		return nil, err
	}
	valueCol, err := requireColumn(t, kind.SourceColumn())
	if err != nil {
		return nil, err
	}

	ds := &models.Dataset{
		Kind:      kind,
		Label:     label,
		Readings:  make([]models.Reading, 0, len(t.Records)),
		Converted: kind == models.Electricity,
	}

	for i, record := range t.Records {
		row := i + 1

		start, err := ParseTimestamp(record[startCol])
		if err != nil {
			return nil, &FormatError{Source: t.Source, Column: models.ColumnStart, Row: row, Value: record[startCol], Err: err}
		}
		end, err := ParseTimestamp(record[endCol])
		if err != nil {
			return nil, &FormatError{Source: t.Source, Column: models.ColumnEnd, Row: row, Value: record[endCol], Err: err}
		}
		value, err := parseConsumption(record[valueCol])
		if err != nil {
			return nil, &FormatError{Source: t.Source, Column: t.Header[valueCol], Row: row, Value: record[valueCol], Err: err}
		}

		reading := models.Reading{Start: start, End: end, Consumption: value}
		if ds.Converted {
			reading.KWh = value
		}
		ds.Readings = append(ds.Readings, reading)
	}

	return ds, nil
}

// requireColumn finds a column by name, tolerating a single leading space
func requireColumn(t *models.Table, name string) (int, error) {
	if idx := t.ColumnIndex(name); idx != -1 {
		return idx, nil
	}
	if idx := t.ColumnIndex(" " + name); idx != -1 {
		return idx, nil
	}
	return -1, &FormatError{Source: t.Source, Column: name, Err: fmt.Errorf("%w (header: %v)", errMissingColumn, t.Header)}
}

// timestampLayouts are tried in order. Layouts without an offset are read as UTC.
var timestampLayouts = []string{
	time.RFC3339Nano,            // 2023-01-01T00:00:00+00:00
	"2006-01-02 15:04:05Z07:00", // 2023-01-01 00:00:00+00:00
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-8601 style timestamp as found in utility exports
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty timestamp")
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse timestamp: %s", s)
}

func parseConsumption(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty value")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, errors.New("not a finite number")
	}
	if v < 0 {
		return 0, errNegative
	}
	return v, nil
}

// Filter returns a copy of ds holding only the readings whose Start lies
// within w. End is not bounded.
func Filter(ds *models.Dataset, w models.Window) *models.Dataset {
	out := *ds
	out.Readings = make([]models.Reading, 0, len(ds.Readings))
	for _, r := range ds.Readings {
		if w.Contains(r.Start) {
			out.Readings = append(out.Readings, r)
		}
	}
	return &out
}
