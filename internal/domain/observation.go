package domain

import (
	"fmt"
	"time"
)

// Column identifies one of the four measurement columns of an observation.
type Column int

const (
	Precip Column = iota
	MaxTemp
	MinTemp
	WindSpeed
)

// NumColumns is the fixed width of an observation row, excluding the date.
const NumColumns = 4

var columnNames = [NumColumns]string{"Precip", "Max Temp", "Min Temp", "Wind Speed"}

// String returns the column header used in output files, e.g. "Max Temp".
func (c Column) String() string {
	if c < 0 || int(c) >= NumColumns {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnNames[c]
}

// Columns returns all measurement columns in file order.
func Columns() []Column {
	return []Column{Precip, MaxTemp, MinTemp, WindSpeed}
}

// ParseColumn maps a header name back to its Column.
func ParseColumn(name string) (Column, error) {
	for i, n := range columnNames {
		if n == name {
			return Column(i), nil
		}
	}
	return 0, fmt.Errorf("unknown column %q", name)
}

// Value is a measurement that may be missing.
type Value struct {
	Float float64
	Valid bool
}

// Present wraps a recorded measurement.
func Present(v float64) Value {
	return Value{Float: v, Valid: true}
}

// Missing is the zero Value.
var Missing = Value{}

// Observation is one day of measurements.
type Observation struct {
	Date   time.Time
	Values [NumColumns]Value
}

// Get returns the value of a column.
func (o *Observation) Get(c Column) Value {
	return o.Values[c]
}

// Set replaces the value of a column.
func (o *Observation) Set(c Column, v Value) {
	o.Values[c] = v
}

// Table is an ordered sequence of observations. Input order is preserved and
// dates are not deduplicated.
type Table []Observation

// Clone returns an independent copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	copy(out, t)
	return out
}

// MissingCount returns the number of missing values in a column.
func (t Table) MissingCount(c Column) int {
	n := 0
	for i := range t {
		if !t[i].Values[c].Valid {
			n++
		}
	}
	return n
}

// MissingCounts returns MissingCount for every column.
func (t Table) MissingCounts() Counts {
	var counts Counts
	for _, c := range Columns() {
		counts[c] = t.MissingCount(c)
	}
	return counts
}

// Present returns the present values of a column in table order.
func (t Table) Present(c Column) []float64 {
	out := make([]float64, 0, len(t))
	for i := range t {
		if v := t[i].Values[c]; v.Valid {
			out = append(out, v.Float)
		}
	}
	return out
}
