package textfile

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/couchcryptid/weather-qc/internal/domain"
	"github.com/jszwec/csvutil"
)

// ReadLedger parses a file written by WriteLedger. A header or row of the
// wrong width yields a *domain.ShapeError.
func ReadLedger(r io.Reader) (domain.Ledger, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return domain.Ledger{}, errors.New("read ledger: empty file")
	}
	if err != nil {
		return domain.Ledger{}, fmt.Errorf("read ledger: %w", err)
	}
	if err := checkLedgerHeader(header); err != nil {
		return domain.Ledger{}, err
	}

	rows := &ledgerRows{r: cr, line: 1}
	dec, err := csvutil.NewDecoder(rows, ledgerHeader...)
	if err != nil {
		return domain.Ledger{}, fmt.Errorf("read ledger: %w", err)
	}

	ledger := domain.Ledger{}
	for {
		var rec ledgerRecord
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var shapeErr *domain.ShapeError
			if errors.As(err, &shapeErr) {
				return domain.Ledger{}, fmt.Errorf("ledger line %d: %w", rows.line, err)
			}
			return domain.Ledger{}, &domain.ParseError{Line: rows.line, Err: fmt.Errorf("row %q: %w", rows.check, err)}
		}
		ledger = ledger.Record(rec.Check, rec.counts())
	}
	return ledger, nil
}

func checkLedgerHeader(header []string) error {
	if len(header) != 1+domain.NumColumns {
		return &domain.ShapeError{What: "ledger header", Want: domain.NumColumns, Got: len(header) - 1}
	}
	for i, name := range header[1:] {
		want := domain.Column(i)
		c, err := domain.ParseColumn(name)
		if err != nil || c != want {
			return fmt.Errorf("ledger header column %d: expected %q, got %q", i+1, want.String(), name)
		}
	}
	return nil
}

// ledgerRows feeds csv records to the decoder, rejecting rows of the wrong
// width and remembering where it is for error messages.
type ledgerRows struct {
	r     *csv.Reader
	line  int
	check string
}

func (l *ledgerRows) Read() ([]string, error) {
	rec, err := l.r.Read()
	if err != nil {
		return nil, err
	}
	l.line++
	l.check = rec[0]
	if len(rec) != 1+domain.NumColumns {
		return nil, &domain.ShapeError{What: "ledger row " + rec[0], Want: domain.NumColumns, Got: len(rec) - 1}
	}
	return rec, nil
}
