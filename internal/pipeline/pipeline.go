package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
	"github.com/couchcryptid/cetacean-eda/internal/observability"
	"github.com/couchcryptid/cetacean-eda/internal/report"
)

// Extractor reads the whole raw table from the source.
type Extractor interface {
	Extract(ctx context.Context) (domain.RawTable, error)
}

// Transformer turns the raw table into the cleaned table. Rows that fail
// validation are counted in the stats, never returned as errors.
type Transformer interface {
	Transform(ctx context.Context, raw domain.RawTable) (domain.Table, domain.CleanStats, error)
}

// TableLoader persists the cleaned table.
type TableLoader interface {
	Load(ctx context.Context, table domain.Table) error
}

// Reporter renders aggregates, charts and maps from the cleaned table.
type Reporter interface {
	Report(ctx context.Context, observations []domain.Observation, stats domain.CleanStats) ([]report.Artifact, error)
}

// Pipeline runs load, clean, write and report once, in that order.
type Pipeline struct {
	extractor   Extractor
	transformer Transformer
	loader      TableLoader
	reporter    Reporter
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// New creates a Pipeline with the given stages and observability.
func New(e Extractor, t Transformer, l TableLoader, r Reporter, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		extractor:   e,
		transformer: t,
		loader:      l,
		reporter:    r,
		logger:      logger,
		metrics:     metrics,
	}
}

// Stage names used in logs and the stage_duration_seconds metric.
const (
	StageLoad   = "load"
	StageClean  = "clean"
	StageWrite  = "write"
	StageReport = "report"
)

// Run executes every stage once. The first stage error aborts the run; the
// context is checked between stages.
func (p *Pipeline) Run(ctx context.Context) (err error) {
	start := time.Now()
	p.logger.Info("pipeline started")
	p.metrics.LastRunSuccess.Set(0)

	defer func() {
		p.metrics.LastRunUnixTime.Set(float64(domain.Now().Unix()))
		if err != nil {
			p.logger.Error("pipeline aborted", "error", err, "elapsed", time.Since(start))
			return
		}
		p.metrics.LastRunSuccess.Set(1)
		p.logger.Info("pipeline finished", "elapsed", time.Since(start))
	}()

	var raw domain.RawTable
	if err := p.stage(ctx, StageLoad, func() (err error) {
		raw, err = p.extractor.Extract(ctx)
		return err
	}); err != nil {
		return err
	}
	p.metrics.RowsLoaded.Add(float64(len(raw.Records)))

	var (
		cleaned domain.Table
		stats   domain.CleanStats
	)
	if err := p.stage(ctx, StageClean, func() (err error) {
		cleaned, stats, err = p.transformer.Transform(ctx, raw)
		return err
	}); err != nil {
		return err
	}
	p.recordStats(stats)

	if err := p.stage(ctx, StageWrite, func() error {
		return p.loader.Load(ctx, cleaned)
	}); err != nil {
		return err
	}

	var artifacts []report.Artifact
	if err := p.stage(ctx, StageReport, func() (err error) {
		artifacts, err = p.reporter.Report(ctx, cleaned.Observations, stats)
		return err
	}); err != nil {
		return err
	}
	for _, a := range artifacts {
		p.metrics.ArtifactsWritten.WithLabelValues(string(a.Kind)).Inc()
	}

	return nil
}

// stage runs fn after checking ctx and records its wall time.
func (p *Pipeline) stage(ctx context.Context, name string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	p.metrics.StageDuration.WithLabelValues(name).Set(elapsed.Seconds())

	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	p.logger.Debug("stage finished", "stage", name, "elapsed", elapsed)
	return nil
}

func (p *Pipeline) recordStats(stats domain.CleanStats) {
	p.metrics.RowsKept.Add(float64(stats.Kept))
	for _, reason := range domain.DropReasons {
		p.metrics.RowsDropped.WithLabelValues(string(reason)).Add(float64(stats.Dropped[reason]))
	}
}
