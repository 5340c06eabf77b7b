package pipeline

import (
	"context"
	"log/slog"
	"math"

	"github.com/couchcryptid/weather-qc/internal/domain"
)

// Check runs every quality check over table in order, threading the ledger
// through each stage. The table is modified in place; Result.Original holds a
// copy taken before the first check.
func (p *Pipeline) Check(table domain.Table, ledger domain.Ledger) Result {
	result := Result{
		Original: table.Clone(),
		Raw:      domain.Describe(table),
		Stages:   make([]StageReport, 0, len(p.checks)),
	}
	p.logSummary("raw data", result.Raw)

	for _, c := range p.checks {
		stageStart := clock.Now()
		table, ledger = c.Apply(table, ledger)
		elapsed := clock.Since(stageStart)

		counts, _ := ledger.Row(c.Name)
		report := StageReport{
			Check:    c.Name,
			Counts:   counts,
			Summary:  domain.Describe(table),
			Duration: elapsed,
		}
		result.Stages = append(result.Stages, report)

		p.metrics.CheckDuration.WithLabelValues(c.Name).Observe(elapsed.Seconds())
		for _, col := range domain.Columns() {
			p.metrics.ValuesFlagged.WithLabelValues(c.Name, col.String()).Add(float64(counts[col]))
		}
		p.logger.Info("check complete",
			"check", c.Name,
			"precip", counts[domain.Precip],
			"max_temp", counts[domain.MaxTemp],
			"min_temp", counts[domain.MinTemp],
			"wind_speed", counts[domain.WindSpeed],
			"duration", elapsed,
		)
		p.logSummary(c.Name, report.Summary)
	}

	result.Cleaned = table
	result.Ledger = ledger
	return result
}

func (p *Pipeline) logSummary(stage string, summary []domain.ColumnSummary) {
	if !p.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	for _, s := range summary {
		// NaN and Inf statistics cannot be encoded by the JSON handler.
		if !finite(s.Mean, s.Min, s.Max) {
			p.logger.Debug("column summary", "stage", stage, "column", s.Column.String(), "count", 0)
			continue
		}
		p.logger.Debug("column summary",
			"stage", stage,
			"column", s.Column.String(),
			"count", s.Count,
			"mean", s.Mean,
			"min", s.Min,
			"max", s.Max,
		)
	}
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
