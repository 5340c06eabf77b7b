// Package console renders a run's stage summaries and ledger as text tables.
package console

import (
	"context"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/couchcryptid/weather-qc/internal/domain"
	"github.com/couchcryptid/weather-qc/internal/pipeline"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// stageTitles mirror the progress messages printed after each check.
var stageTitles = map[string]string{
	domain.CheckNoData:     "Missing values removed",
	domain.CheckGrossError: "Check for gross errors complete",
	domain.CheckSwapped:    "Check for swapped temperatures complete",
	domain.CheckRangeFail:  "All processing finished",
}

// Report writes summary tables to an io.Writer.
// It implements pipeline.Loader.
type Report struct {
	out io.Writer
}

// NewReport creates a Report writing to out.
func NewReport(out io.Writer) *Report {
	return &Report{out: out}
}

func (r *Report) Name() string { return "console" }

// Load prints the raw-data summary, one summary per check, and the final ledger.
func (r *Report) Load(_ context.Context, result pipeline.Result) error {
	if err := r.renderSummary("Raw data", result.Raw); err != nil {
		return err
	}
	for _, s := range result.Stages {
		title, ok := stageTitles[s.Check]
		if !ok {
			title = s.Check
		}
		if err := r.renderSummary(title, s.Summary); err != nil {
			return err
		}
	}
	return r.renderLedger(result.Ledger)
}

func (r *Report) renderSummary(title string, summary []domain.ColumnSummary) error {
	t := newTable(title)

	header := table.Row{""}
	for _, s := range summary {
		header = append(header, s.Column.String())
	}
	t.AppendHeader(header)

	stats := []struct {
		label string
		get   func(domain.ColumnSummary) float64
	}{
		{"count", func(s domain.ColumnSummary) float64 { return float64(s.Count) }},
		{"mean", func(s domain.ColumnSummary) float64 { return s.Mean }},
		{"std", func(s domain.ColumnSummary) float64 { return s.Std }},
		{"min", func(s domain.ColumnSummary) float64 { return s.Min }},
		{"25%", func(s domain.ColumnSummary) float64 { return s.P25 }},
		{"50%", func(s domain.ColumnSummary) float64 { return s.P50 }},
		{"75%", func(s domain.ColumnSummary) float64 { return s.P75 }},
		{"max", func(s domain.ColumnSummary) float64 { return s.Max }},
	}
	for _, st := range stats {
		row := table.Row{st.label}
		for _, s := range summary {
			row = append(row, formatStat(st.get(s)))
		}
		t.AppendRow(row)
	}

	_, err := fmt.Fprintln(r.out, t.Render())
	return err
}

func (r *Report) renderLedger(ledger domain.Ledger) error {
	t := newTable("Final changed values counts")

	header := table.Row{""}
	for _, c := range domain.Columns() {
		header = append(header, c.String())
	}
	t.AppendHeader(header)

	for _, row := range ledger.Rows() {
		tr := table.Row{row.Check}
		for _, n := range row.Counts {
			tr = append(tr, n)
		}
		t.AppendRow(tr)
	}
	totals := ledger.Totals()
	t.AppendFooter(table.Row{"Total", totals[domain.Precip], totals[domain.MaxTemp], totals[domain.MinTemp], totals[domain.WindSpeed]})

	_, err := fmt.Fprintln(r.out, t.Render())
	return err
}

func newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	// Column names are data labels; keep their case.
	t.Style().Format.Header = text.FormatDefault
	t.Style().Format.Footer = text.FormatDefault
	t.SetTitle(title)
	return t
}

func formatStat(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return strconv.FormatFloat(v, 'f', 6, 64)
}
