package textfile

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/weather-qc/internal/domain"
)

// dateLayouts are tried in order when parsing the date column.
var dateLayouts = []string{"2006-01-02", "2006/01/02", "20060102"}

// fieldNames labels the columns of a data row for error reporting.
var fieldNames = [1 + domain.NumColumns]string{"date", "precip", "max_temp", "min_temp", "wind_speed"}

// Reader loads an observation file.
// It implements pipeline.Extractor.
type Reader struct {
	path string
}

// NewReader creates a Reader for the file at path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Extract opens the file and parses it into a table and a fresh ledger.
func (r *Reader) Extract(_ context.Context) (domain.Table, domain.Ledger, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return nil, domain.Ledger{}, fmt.Errorf("open %s: %w", r.path, err)
	}
	defer f.Close()

	table, err := ReadObservations(f)
	if err != nil {
		return nil, domain.Ledger{}, fmt.Errorf("read %s: %w", r.path, err)
	}
	return table, domain.NewLedger(), nil
}

// ReadObservations parses whitespace-delimited rows of
// "date precip max_temp min_temp wind_speed" with no header. Blank lines are
// skipped. The first malformed row aborts the read with a *domain.ParseError.
func ReadObservations(r io.Reader) (domain.Table, error) {
	var table domain.Table
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		obs, err := parseRow(line, fields)
		if err != nil {
			return nil, err
		}
		table = append(table, obs)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan: %w", err)
	}
	return table, nil
}

func parseRow(line int, fields []string) (domain.Observation, error) {
	if len(fields) != len(fieldNames) {
		return domain.Observation{}, &domain.ParseError{
			Line: line,
			Err:  fmt.Errorf("expected %d columns, got %d", len(fieldNames), len(fields)),
		}
	}

	date, err := parseDate(fields[0])
	if err != nil {
		return domain.Observation{}, &domain.ParseError{Line: line, Field: fieldNames[0], Value: fields[0], Err: err}
	}

	obs := domain.Observation{Date: date}
	for i, raw := range fields[1:] {
		v, err := parseValue(raw)
		if err != nil {
			return domain.Observation{}, &domain.ParseError{Line: line, Field: fieldNames[i+1], Value: raw, Err: err}
		}
		obs.Values[i] = v
	}
	return obs, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New("unrecognized date")
}

// parseValue reads a measurement. "NaN" is accepted as missing so cleaned
// output can be loaded again. Infinities load as present values; the gross
// error check removes them.
func parseValue(s string) (domain.Value, error) {
	if strings.EqualFold(s, "nan") {
		return domain.Missing, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return domain.Missing, errors.New("not a number")
	}
	if math.IsNaN(v) {
		return domain.Missing, nil
	}
	return domain.Present(v), nil
}
