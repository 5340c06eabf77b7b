package textfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/couchcryptid/weather-qc/internal/domain"
	"github.com/couchcryptid/weather-qc/internal/pipeline"
	"github.com/jszwec/csvutil"
)

const (
	dateLayout   = "2006-01-02"
	missingToken = "NaN"
	noDataToken  = "-999.00"
)

// ledgerHeader names the csv columns of a ledger row. The check-name column
// has a blank header cell in the file, so it is supplied separately.
var ledgerHeader = []string{"check", "Precip", "Max Temp", "Min Temp", "Wind Speed"}

// ledgerRecord is one row of the ledger file.
type ledgerRecord struct {
	Check     string `csv:"check"`
	Precip    int    `csv:"Precip"`
	MaxTemp   int    `csv:"Max Temp"`
	MinTemp   int    `csv:"Min Temp"`
	WindSpeed int    `csv:"Wind Speed"`
}

func newLedgerRecord(r domain.LedgerRow) ledgerRecord {
	return ledgerRecord{
		Check:     r.Check,
		Precip:    r.Counts[domain.Precip],
		MaxTemp:   r.Counts[domain.MaxTemp],
		MinTemp:   r.Counts[domain.MinTemp],
		WindSpeed: r.Counts[domain.WindSpeed],
	}
}

func (r ledgerRecord) counts() domain.Counts {
	var c domain.Counts
	c[domain.Precip] = r.Precip
	c[domain.MaxTemp] = r.MaxTemp
	c[domain.MinTemp] = r.MinTemp
	c[domain.WindSpeed] = r.WindSpeed
	return c
}

// Writer persists a run's cleaned table and ledger to disk.
// It implements pipeline.Loader.
type Writer struct {
	dataPath   string
	ledgerPath string
}

// NewWriter creates a Writer for the cleaned-data and ledger paths.
func NewWriter(dataPath, ledgerPath string) *Writer {
	return &Writer{dataPath: dataPath, ledgerPath: ledgerPath}
}

func (w *Writer) Name() string { return "textfile" }

// Load writes both output files.
func (w *Writer) Load(_ context.Context, result pipeline.Result) error {
	if err := writeFile(w.dataPath, func(out io.Writer) error {
		return WriteObservations(out, result.Cleaned)
	}); err != nil {
		return fmt.Errorf("write cleaned data: %w", err)
	}
	if err := writeFile(w.ledgerPath, func(out io.Writer) error {
		return WriteLedger(out, result.Ledger)
	}); err != nil {
		return fmt.Errorf("write ledger: %w", err)
	}
	return nil
}

func writeFile(path string, fn func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteObservations writes the table in the input convention: one row per day,
// space-delimited, no header. Missing values are written as NaN.
func WriteObservations(w io.Writer, table domain.Table) error {
	bw := bufio.NewWriter(w)
	for i := range table {
		obs := &table[i]
		if _, err := bw.WriteString(obs.Date.Format(dateLayout)); err != nil {
			return err
		}
		for _, c := range domain.Columns() {
			if err := bw.WriteByte(' '); err != nil {
				return err
			}
			if _, err := bw.WriteString(FormatValue(obs.Get(c))); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// FormatValue renders a measurement in the shortest form that parses back to
// the same float, NaN when missing. The no-data sentinel keeps the station's
// -999.00 spelling so generated raw files look like station output.
func FormatValue(v domain.Value) string {
	if !v.Valid {
		return missingToken
	}
	if v.Float == domain.NoDataValue {
		return noDataToken
	}
	return strconv.FormatFloat(v.Float, 'f', -1, 64)
}

// WriteLedger writes the ledger as a tab-delimited table: a header row of
// column names after an empty corner cell, then one row per check.
func WriteLedger(w io.Writer, ledger domain.Ledger) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'

	header := append([]string{""}, ledgerHeader[1:]...)
	if err := cw.Write(header); err != nil {
		return err
	}

	enc := csvutil.NewEncoder(cw)
	enc.AutoHeader = false
	for _, r := range ledger.Rows() {
		if err := enc.Encode(newLedgerRecord(r)); err != nil {
			return fmt.Errorf("encode ledger row %q: %w", r.Check, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
