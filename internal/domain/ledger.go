package domain

// Check names, in pipeline order. These are also the row labels of the
// ledger output file.
const (
	CheckNoData     = "1. No Data"
	CheckGrossError = "2. Gross Error"
	CheckSwapped    = "3. Swapped"
	CheckRangeFail  = "4. Range Fail"
)

// Counts holds one tally per measurement column.
type Counts [NumColumns]int

// NewCounts builds Counts from a list in column order. It returns a
// *ShapeError if the list is not exactly NumColumns long.
func NewCounts(values ...int) (Counts, error) {
	var c Counts
	if len(values) != NumColumns {
		return c, &ShapeError{What: "ledger row", Want: NumColumns, Got: len(values)}
	}
	copy(c[:], values)
	return c, nil
}

// temperatureCounts is the row shape shared by the swap and range checks:
// only the two temperature columns are affected.
func temperatureCounts(n int) Counts {
	var c Counts
	c[MaxTemp] = n
	c[MinTemp] = n
	return c
}

// LedgerRow is one check's tally of affected values per column.
type LedgerRow struct {
	Check  string
	Counts Counts
}

// Ledger accumulates per-check, per-column counts across a pipeline run.
// It is a value: Record returns a new Ledger and never mutates the receiver's
// rows.
type Ledger struct {
	rows []LedgerRow
}

// NewLedger returns the ledger created at load time: a single zeroed
// "1. No Data" row.
func NewLedger() Ledger {
	return Ledger{rows: []LedgerRow{{Check: CheckNoData}}}
}

// Record sets the row for check, appending it if it does not exist yet.
func (l Ledger) Record(check string, counts Counts) Ledger {
	rows := make([]LedgerRow, len(l.rows), len(l.rows)+1)
	copy(rows, l.rows)
	for i := range rows {
		if rows[i].Check == check {
			rows[i].Counts = counts
			return Ledger{rows: rows}
		}
	}
	return Ledger{rows: append(rows, LedgerRow{Check: check, Counts: counts})}
}

// Row returns the counts recorded for check.
func (l Ledger) Row(check string) (Counts, bool) {
	for _, r := range l.rows {
		if r.Check == check {
			return r.Counts, true
		}
	}
	return Counts{}, false
}

// Get returns a single cell, zero if the row does not exist.
func (l Ledger) Get(check string, c Column) int {
	counts, _ := l.Row(check)
	return counts[c]
}

// Rows returns a copy of the rows in recording order.
func (l Ledger) Rows() []LedgerRow {
	out := make([]LedgerRow, len(l.rows))
	copy(out, l.rows)
	return out
}

// Len returns the number of rows.
func (l Ledger) Len() int {
	return len(l.rows)
}

// Totals sums every row per column.
func (l Ledger) Totals() Counts {
	var total Counts
	for _, r := range l.rows {
		for c := range total {
			total[c] += r.Counts[c]
		}
	}
	return total
}
