package domain

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ColumnSummary describes the present values of one column. Statistics are NaN
// when Count is zero; Std is NaN when Count is below two.
type ColumnSummary struct {
	Column Column
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	P25    float64
	P50    float64
	P75    float64
	Max    float64
}

// Describe summarizes every column of the table, ignoring missing values.
// Std is the sample standard deviation; quartiles use linear interpolation
// between closest ranks.
func Describe(t Table) []ColumnSummary {
	out := make([]ColumnSummary, 0, NumColumns)
	for _, c := range Columns() {
		out = append(out, describeColumn(c, t.Present(c)))
	}
	return out
}

func describeColumn(c Column, values []float64) ColumnSummary {
	s := ColumnSummary{Column: c, Count: len(values)}
	nan := math.NaN()
	if len(values) == 0 {
		s.Mean, s.Std, s.Min, s.P25, s.P50, s.P75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	// Unbiased variance; a single value yields 0/0, so Std is NaN.
	s.Mean, s.Std = stat.MeanStdDev(sorted, nil)

	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.P25 = quantile(sorted, 0.25)
	s.P50 = quantile(sorted, 0.50)
	s.P75 = quantile(sorted, 0.75)
	return s
}

// quantile expects sorted input. It places q at rank q*(n-1) and interpolates
// between neighbours (Hyndman-Fan type 7, the numpy and pandas default).
// stat.Quantile's LinInterp is type 4 and gives 2, not 2.5, for the median
// of 1,2,3,4.
func quantile(sorted []float64, q float64) float64 {
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
