package domain

// NoDataValue is the raw-file sentinel for a missing observation.
const NoDataValue = -999.00

// Range is an inclusive interval of physically plausible values.
type Range struct {
	Min float64
	Max float64
}

// Contains reports whether v lies within the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// GrossErrorLimits are the plausible ranges per column.
var GrossErrorLimits = [NumColumns]Range{
	Precip:    {Min: 0, Max: 25},
	MaxTemp:   {Min: -25, Max: 35},
	MinTemp:   {Min: -25, Max: 35},
	WindSpeed: {Min: 0, Max: 10},
}

// MaxDiurnalRange is the largest believable Max Temp - Min Temp for one day, in °C.
const MaxDiurnalRange = 25.0

// CheckFunc is one quality-check stage. It mutates the table in place,
// appends its row to the ledger, and returns both.
type CheckFunc func(Table, Ledger) (Table, Ledger)

// Check names a stage.
type Check struct {
	Name  string
	Apply CheckFunc
}

// Checks returns the four quality checks in the order they must run.
func Checks() []Check {
	return []Check{
		{Name: CheckNoData, Apply: RemoveNoDataValues},
		{Name: CheckGrossError, Apply: RemoveGrossErrors},
		{Name: CheckSwapped, Apply: SwapInvertedTemperatures},
		{Name: CheckRangeFail, Apply: RemoveRangeFailures},
	}
}

// RemoveNoDataValues replaces every field equal to NoDataValue with Missing
// and records the per-column missing counts under "1. No Data".
//
// The count is taken over the whole table after replacement, so a field that
// arrived already missing is counted here as well.
func RemoveNoDataValues(t Table, l Ledger) (Table, Ledger) {
	for i := range t {
		for c := range t[i].Values {
			if v := t[i].Values[c]; v.Valid && v.Float == NoDataValue {
				t[i].Values[c] = Missing
			}
		}
	}
	return t, l.Record(CheckNoData, t.MissingCounts())
}

// RemoveGrossErrors nulls present values outside GrossErrorLimits and records
// the newly nulled counts under "2. Gross Error".
//
// The count is (missing now) - (ledger total so far) per column, so values
// already missing before this stage are never counted twice.
func RemoveGrossErrors(t Table, l Ledger) (Table, Ledger) {
	for _, c := range Columns() {
		limits := GrossErrorLimits[c]
		var failed []int
		for i := range t {
			if v := t[i].Values[c]; v.Valid && !limits.Contains(v.Float) {
				failed = append(failed, i)
			}
		}
		for _, i := range failed {
			t[i].Values[c] = Missing
		}
	}

	missing := t.MissingCounts()
	prior := l.Totals()
	var counts Counts
	for c := range counts {
		counts[c] = missing[c] - prior[c]
	}
	return t, l.Record(CheckGrossError, counts)
}

// SwapInvertedTemperatures exchanges Max Temp and Min Temp on rows where both
// are present and Min Temp > Max Temp, recording the number of rows swapped
// under "3. Swapped" for both temperature columns.
func SwapInvertedTemperatures(t Table, l Ledger) (Table, Ledger) {
	swapped := 0
	for i := range t {
		maxT, minT := t[i].Values[MaxTemp], t[i].Values[MinTemp]
		if !maxT.Valid || !minT.Valid || minT.Float <= maxT.Float {
			continue
		}
		t[i].Values[MaxTemp], t[i].Values[MinTemp] = minT, maxT
		swapped++
	}
	return t, l.Record(CheckSwapped, temperatureCounts(swapped))
}

// RemoveRangeFailures nulls both temperatures on rows where Max Temp - Min Temp
// exceeds MaxDiurnalRange, recording the row count under "4. Range Fail".
func RemoveRangeFailures(t Table, l Ledger) (Table, Ledger) {
	failed := 0
	for i := range t {
		maxT, minT := t[i].Values[MaxTemp], t[i].Values[MinTemp]
		if !maxT.Valid || !minT.Valid || maxT.Float-minT.Float <= MaxDiurnalRange {
			continue
		}
		t[i].Values[MaxTemp] = Missing
		t[i].Values[MinTemp] = Missing
		failed++
	}
	return t, l.Record(CheckRangeFail, temperatureCounts(failed))
}
