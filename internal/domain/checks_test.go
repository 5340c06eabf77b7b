package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testDay = time.Date(1915, time.January, 1, 0, 0, 0, 0, time.UTC)

// row builds an observation; NaN-free shorthand where nil means missing.
func row(day int, vals ...*float64) Observation {
	o := Observation{Date: testDay.AddDate(0, 0, day)}
	for i, v := range vals {
		if v != nil {
			o.Values[i] = Present(*v)
		}
	}
	return o
}

func f(v float64) *float64 { return &v }

func runAll(t Table) (Table, Ledger) {
	l := NewLedger()
	for _, c := range Checks() {
		t, l = c.Apply(t, l)
	}
	return t, l
}

func TestChecks_Order(t *testing.T) {
	names := make([]string, 0, 4)
	for _, c := range Checks() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{CheckNoData, CheckGrossError, CheckSwapped, CheckRangeFail}, names)
}

func TestRemoveNoDataValues(t *testing.T) {
	t.Run("sentinel in precip", func(t *testing.T) {
		tbl := Table{row(0, f(NoDataValue), f(10), f(2), f(3))}
		tbl, l := RemoveNoDataValues(tbl, NewLedger())

		assert.False(t, tbl[0].Get(Precip).Valid)
		assert.Equal(t, 1, l.Get(CheckNoData, Precip))
		assert.Equal(t, 0, l.Get(CheckNoData, MaxTemp))
		assert.Equal(t, 1, l.Len())
	})

	t.Run("no sentinel survives", func(t *testing.T) {
		tbl := Table{
			row(0, f(NoDataValue), f(NoDataValue), f(1), f(2)),
			row(1, f(0), f(NoDataValue), f(NoDataValue), f(NoDataValue)),
			row(2, f(-999.01), f(5), f(1), f(2)),
		}
		tbl, l := RemoveNoDataValues(tbl, NewLedger())

		for i := range tbl {
			for _, c := range Columns() {
				v := tbl[i].Get(c)
				assert.False(t, v.Valid && v.Float == NoDataValue, "row %d column %s", i, c)
			}
		}
		counts, ok := l.Row(CheckNoData)
		require.True(t, ok)
		assert.Equal(t, Counts{1, 2, 1, 1}, counts)
		assert.True(t, tbl[2].Get(Precip).Valid, "near-sentinel values are not replaced")
	})

	t.Run("already missing counted", func(t *testing.T) {
		tbl := Table{row(0, nil, f(1), f(0), f(0))}
		_, l := RemoveNoDataValues(tbl, NewLedger())
		assert.Equal(t, 1, l.Get(CheckNoData, Precip))
	})
}

func TestRemoveGrossErrors(t *testing.T) {
	tests := []struct {
		name  string
		col   Column
		value float64
		kept  bool
	}{
		{"precip negative", Precip, -0.1, false},
		{"precip zero", Precip, 0, true},
		{"precip upper bound", Precip, 25, true},
		{"precip too high", Precip, 25.1, false},
		{"max temp lower bound", MaxTemp, -25, true},
		{"max temp too low", MaxTemp, -25.5, false},
		{"max temp upper bound", MaxTemp, 35, true},
		{"max temp too high", MaxTemp, 40, false},
		{"min temp too low", MinTemp, -30, false},
		{"min temp too high", MinTemp, 35.2, false},
		{"wind zero", WindSpeed, 0, true},
		{"wind upper bound", WindSpeed, 10, true},
		{"wind negative", WindSpeed, -1, false},
		{"wind too high", WindSpeed, 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := row(0, f(1), f(10), f(5), f(2))
			o.Set(tt.col, Present(tt.value))
			tbl, l := RemoveGrossErrors(Table{o}, NewLedger())

			assert.Equal(t, tt.kept, tbl[0].Get(tt.col).Valid)
			want := 1
			if tt.kept {
				want = 0
			}
			assert.Equal(t, want, l.Get(CheckGrossError, tt.col))
		})
	}
}

func TestRemoveGrossErrors_NoDoubleCount(t *testing.T) {
	tbl := Table{
		row(0, f(1), f(NoDataValue), f(10), f(2)),
		row(1, f(30), f(50), f(10), f(2)),
		row(2, f(1), f(12), f(10), f(2)),
	}
	tbl, l := RemoveNoDataValues(tbl, NewLedger())
	tbl, l = RemoveGrossErrors(tbl, l)

	assert.False(t, tbl[0].Get(MaxTemp).Valid)
	assert.Equal(t, 1, l.Get(CheckNoData, MaxTemp))
	assert.Equal(t, 1, l.Get(CheckGrossError, MaxTemp))
	assert.Equal(t, 1, l.Get(CheckGrossError, Precip))
	assert.Equal(t, 0, l.Get(CheckGrossError, MinTemp))
	assert.Equal(t, 2, tbl.MissingCount(MaxTemp))
}

func TestSwapInvertedTemperatures(t *testing.T) {
	tbl := Table{
		row(0, f(0), f(15), f(20), f(1)),
		row(1, f(0), f(20), f(15), f(1)),
		row(2, f(0), nil, f(10), f(1)),
		row(3, f(0), f(5), nil, f(1)),
		row(4, f(0), f(7), f(7), f(1)),
	}
	tbl, l := SwapInvertedTemperatures(tbl, NewLedger())

	assert.Equal(t, Present(20), tbl[0].Get(MaxTemp))
	assert.Equal(t, Present(15), tbl[0].Get(MinTemp))
	assert.Equal(t, Present(20), tbl[1].Get(MaxTemp))
	assert.False(t, tbl[2].Get(MaxTemp).Valid)
	assert.Equal(t, Present(10), tbl[2].Get(MinTemp))
	assert.Equal(t, Present(5), tbl[3].Get(MaxTemp))

	counts, ok := l.Row(CheckSwapped)
	require.True(t, ok)
	assert.Equal(t, Counts{0, 1, 1, 0}, counts)

	t.Run("fixed point", func(t *testing.T) {
		_, again := SwapInvertedTemperatures(tbl, l)
		assert.Equal(t, Counts{}, mustRow(t, again, CheckSwapped))
	})
}

func TestRemoveRangeFailures(t *testing.T) {
	tbl := Table{
		row(0, f(0), f(20), f(-10), f(1)),
		row(1, f(0), f(20), f(-5), f(1)),
		row(2, f(0), f(20), nil, f(1)),
	}
	tbl, l := RemoveRangeFailures(tbl, NewLedger())

	assert.False(t, tbl[0].Get(MaxTemp).Valid)
	assert.False(t, tbl[0].Get(MinTemp).Valid)
	assert.True(t, tbl[0].Get(Precip).Valid)
	assert.Equal(t, Present(20), tbl[1].Get(MaxTemp), "a range of exactly 25 passes")
	assert.Equal(t, Present(-5), tbl[1].Get(MinTemp))
	assert.Equal(t, Counts{0, 1, 1, 0}, mustRow(t, l, CheckRangeFail))
}

func TestChecks_EndToEnd(t *testing.T) {
	tbl := Table{
		row(0, f(NoDataValue), f(10), f(2), f(3)),
		row(1, f(2), f(NoDataValue), f(10), f(3)),
		row(2, f(0), f(15), f(20), f(3)),
		row(3, f(0), f(20), f(-10), f(3)),
		row(4, f(40), f(5), f(-2), f(11)),
		row(5, f(1), f(-20), f(30), f(2)),
	}
	tbl, l := runAll(tbl)

	assert.Equal(t, Counts{1, 1, 0, 0}, mustRow(t, l, CheckNoData))
	assert.Equal(t, Counts{1, 0, 0, 1}, mustRow(t, l, CheckGrossError))
	// Row 5 is swapped to (30, -20) and then fails the range check.
	assert.Equal(t, Counts{0, 2, 2, 0}, mustRow(t, l, CheckSwapped))
	assert.Equal(t, Counts{0, 2, 2, 0}, mustRow(t, l, CheckRangeFail))
	assert.Equal(t, 4, l.Len())

	assert.Equal(t, Present(20), tbl[2].Get(MaxTemp))
	assert.Equal(t, Present(15), tbl[2].Get(MinTemp))
	assert.False(t, tbl[3].Get(MaxTemp).Valid)
	assert.False(t, tbl[5].Get(MinTemp).Valid)

	for i := range tbl {
		for _, c := range Columns() {
			if v := tbl[i].Get(c); v.Valid {
				assert.True(t, GrossErrorLimits[c].Contains(v.Float), "row %d column %s = %g", i, c, v.Float)
			}
		}
		maxT, minT := tbl[i].Get(MaxTemp), tbl[i].Get(MinTemp)
		if maxT.Valid && minT.Valid {
			assert.LessOrEqual(t, minT.Float, maxT.Float)
			assert.LessOrEqual(t, maxT.Float-minT.Float, MaxDiurnalRange)
		}
	}
}

func TestChecks_Deterministic(t *testing.T) {
	build := func() Table {
		return Table{
			row(0, f(NoDataValue), f(10), f(2), f(3)),
			row(1, f(0), f(15), f(20), f(30)),
			row(2, f(0), f(20), f(-10), f(3)),
		}
	}
	t1, l1 := runAll(build())
	t2, l2 := runAll(build())
	assert.Equal(t, t1, t2)
	assert.Equal(t, l1.Rows(), l2.Rows())
}

func TestChecks_NullingRowsNeverExceedRowCount(t *testing.T) {
	tbl := Table{
		row(0, f(NoDataValue), f(NoDataValue), f(NoDataValue), f(NoDataValue)),
		row(1, f(-1), f(36), f(-26), f(11)),
		row(2, f(1), f(30), f(0), f(1)),
		row(3, f(1), f(10), f(5), f(1)),
	}
	tbl, l := runAll(tbl)

	for _, c := range Columns() {
		nulled := l.Get(CheckNoData, c) + l.Get(CheckGrossError, c) + l.Get(CheckRangeFail, c)
		assert.LessOrEqual(t, nulled, len(tbl), "column %s", c)
		assert.Equal(t, tbl.MissingCount(c), nulled, "column %s", c)
	}
}

func mustRow(t *testing.T, l Ledger, check string) Counts {
	t.Helper()
	counts, ok := l.Row(check)
	require.True(t, ok, "ledger has no %q row", check)
	return counts
}
