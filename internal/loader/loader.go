// Package loader reads raw consumption exports into tables without
// interpreting any of their columns.
package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jgoulah/gridreport/internal/database"
	"github.com/jgoulah/gridreport/pkg/models"
)

// NotFoundError is returned when an input path does not resolve
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("input not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// ParseError is returned when an input exists but is not a usable table
type ParseError struct {
	Path string
	Line int // 0 when the failure is not tied to a line
	Err  error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parsing %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("parsing %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Options selects what to read from sources that hold more than one series
type Options struct {
	Service string // sqlite only
	Column  string // header given to the value column of a sqlite source
}

// Load reads path with the source matching its extension
func Load(path string, opts Options) (*models.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return LoadSQLite(path, opts.Service, opts.Column)
	default:
		return LoadCSV(path)
	}
}

// LoadCSV reads a comma delimited file with a header row
func LoadCSV(path string) (*models.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, fmt.Errorf("opening CSV: %w", err)
	}
	defer file.Close()

	return ReadCSV(path, file)
}

// ReadCSV reads a table from r. name is only used in errors.
func ReadCSV(name string, r io.Reader) (*models.Table, error) {
	reader := csv.NewReader(r)
	// Keep leading spaces: " Start" is renamed later, not silently trimmed here
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &ParseError{Path: name, Err: errors.New("empty file, expected a header row")}
	}
	if err != nil {
		return nil, csvParseError(name, err)
	}

	table := &models.Table{Source: name, Header: header}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, csvParseError(name, err)
		}
		table.Records = append(table.Records, record)
	}

	return table, nil
}

func csvParseError(name string, err error) error {
	var perr *csv.ParseError
	if errors.As(err, &perr) {
		return &ParseError{Path: name, Line: perr.Line, Err: perr.Err}
	}
	return &ParseError{Path: name, Err: err}
}

// LoadSQLite reads the interval rows of one service from a gridscraper
// database and lays them out like a CSV export: value, Start, End.
func LoadSQLite(path, service, column string) (*models.Table, error) {
	if column == "" {
		column = models.ColumnKWh
	}

	db, err := database.OpenReadOnly(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Path: path, Err: err}
		}
		return nil, &ParseError{Path: path, Err: err}
	}
	defer db.Close()

	data, err := db.ListUsage(service)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	table := &models.Table{
		Source:  path,
		Header:  []string{column, models.ColumnStart, models.ColumnEnd},
		Records: make([][]string, 0, len(data)),
	}
	for _, record := range data {
		var end string
		if !record.EndTime.IsZero() {
			end = record.EndTime.Format("2006-01-02 15:04:05")
		}
		table.Records = append(table.Records, []string{
			fmt.Sprintf("%g", record.Value),
			record.StartTime.Format("2006-01-02 15:04:05"),
			end,
		})
	}

	return table, nil
}
