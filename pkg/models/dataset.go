package models

import (
	"fmt"
	"time"
)

// Column names as they appear in utility exports and in the report.
const (
	ColumnStart       = "Start"
	ColumnEnd         = "End"
	ColumnKWh         = "Consumption (kWh)"
	ColumnCubicMeters = "Consumption (m³)"
)

// CostColumn returns the name of the derived cost column for a currency symbol
func CostColumn(currency string) string {
	return fmt.Sprintf("Consumption (%s)", currency)
}

// Kind identifies the utility a dataset was metered for
type Kind string

const (
	Electricity Kind = "elec"
	Gas         Kind = "gas"
)

// ParseKind maps a command-line argument to a Kind
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Electricity, Gas:
		return Kind(s), nil
	default:
		return "", fmt.Errorf("unknown dataset: %s (available: elec, gas)", s)
	}
}

// SourceColumn returns the consumption column a raw export carries for this kind
func (k Kind) SourceColumn() string {
	if k == Gas {
		return ColumnCubicMeters
	}
	return ColumnKWh
}

// Unit returns the unit of the raw consumption values
func (k Kind) Unit() string {
	if k == Gas {
		return "m³"
	}
	return "kWh"
}

// Table is a delimited file as read from disk: header plus string records.
type Table struct {
	Source  string
	Header  []string
	Records [][]string
}

// ColumnIndex returns the index of the named column, or -1
func (t *Table) ColumnIndex(name string) int {
	for i, col := range t.Header {
		if col == name {
			return i
		}
	}
	return -1
}

// Reading is one metering interval.
type Reading struct {
	Start       time.Time
	End         time.Time
	Consumption float64 // source unit, see Kind.Unit
	KWh         float64
	Cost        float64
}

// Dataset is an ordered series of readings for one utility.
//
// Converted is set once the kWh column is populated and Costed once the cost
// column is. Electricity readings are converted as soon as they are parsed.
type Dataset struct {
	Kind       Kind
	Label      string
	Readings   []Reading
	Converted  bool
	Costed     bool
	CostColumn string
}

// Len returns the number of readings
func (d *Dataset) Len() int {
	return len(d.Readings)
}

// Value returns the value of a derived column for reading i.
func (d *Dataset) Value(i int, column string) (float64, error) {
	r := d.Readings[i]
	switch column {
	case ColumnKWh:
		if !d.Converted {
			return 0, fmt.Errorf("column %q not derived for %s", column, d.Label)
		}
		return r.KWh, nil
	case ColumnCubicMeters:
		if d.Kind != Gas {
			return 0, fmt.Errorf("column %q not present for %s", column, d.Label)
		}
		return r.Consumption, nil
	case d.CostColumn:
		if !d.Costed {
			return 0, fmt.Errorf("column %q not derived for %s", column, d.Label)
		}
		return r.Cost, nil
	default:
		return 0, fmt.Errorf("unknown column %q", column)
	}
}

// Window is an inclusive time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies within the window, both bounds inclusive
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Days returns the number of whole days the window spans
func (w Window) Days() int {
	return int(w.End.Sub(w.Start) / (24 * time.Hour))
}
