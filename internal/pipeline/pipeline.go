package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/weather-qc/internal/domain"
	"github.com/couchcryptid/weather-qc/internal/observability"
)

// Extractor loads the observation table and the ledger it starts with.
type Extractor interface {
	Extract(ctx context.Context) (domain.Table, domain.Ledger, error)
}

// Loader consumes the result of a run: files, a topic, a console report.
type Loader interface {
	Name() string
	Load(ctx context.Context, result Result) error
}

// StageReport records what one check did.
type StageReport struct {
	Check    string
	Counts   domain.Counts
	Summary  []domain.ColumnSummary
	Duration time.Duration
}

// Result is everything a run produced. Original is a snapshot of the table as
// loaded, before any check touched it.
type Result struct {
	Original   domain.Table
	Cleaned    domain.Table
	Ledger     domain.Ledger
	Raw        []domain.ColumnSummary
	Stages     []StageReport
	StartedAt  time.Time
	FinishedAt time.Time
}

// Pipeline orchestrates load, the ordered quality checks, and emit.
type Pipeline struct {
	extractor Extractor
	checks    []domain.Check
	loaders   []Loader
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Pipeline running domain.Checks in order. Loaders run in the
// order given once every check has finished.
func New(e Extractor, loaders []Loader, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor: e,
		checks:    domain.Checks(),
		loaders:   loaders,
		logger:    logger,
		metrics:   metrics,
	}
}

// Run executes one batch: extract, check, load. A load failure aborts the run
// before any check executes; a loader failure stops the remaining loaders.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := clock.Now()
	p.logger.Info("pipeline started", "checks", len(p.checks))

	table, ledger, err := p.extractor.Extract(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("extract: %w", err)
	}
	p.metrics.RowsLoaded.Add(float64(len(table)))
	p.logger.Info("observations loaded", "rows", len(table))

	result := p.Check(table, ledger)
	result.StartedAt = start

	for _, l := range p.loaders {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := l.Load(ctx, result); err != nil {
			p.metrics.LoadErrors.WithLabelValues(l.Name()).Inc()
			return result, fmt.Errorf("load %s: %w", l.Name(), err)
		}
		p.logger.Debug("loader finished", "loader", l.Name())
	}

	result.FinishedAt = clock.Now()
	elapsed := result.FinishedAt.Sub(start)
	p.metrics.RunDuration.Set(elapsed.Seconds())
	p.metrics.LastSuccess.Set(float64(result.FinishedAt.Unix()))
	p.logger.Info("pipeline finished", "rows", len(result.Cleaned), "duration", elapsed)
	return result, nil
}
