// Package pipeline orchestrates the silver-to-gold run: extract the two
// inputs, transform them into the gold tables, load the four outputs, and
// optionally publish feature rows.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agroclim/yield-etl/internal/domain"
	"github.com/agroclim/yield-etl/internal/observability"
)

// ClimateExtractor reads the silver daily-climate table.
type ClimateExtractor interface {
	ExtractClimate(ctx context.Context) ([]domain.DailyClimate, error)
}

// YieldExtractor reads the raw yield table.
type YieldExtractor interface {
	ExtractYields(ctx context.Context) ([]domain.YieldRecord, error)
}

// Transformer turns the two input tables into the gold tables.
type Transformer interface {
	Transform(ctx context.Context, daily []domain.DailyClimate, yields []domain.YieldRecord) (Gold, error)
}

// Loader writes the four gold tables. Implementations must be atomic at run
// granularity: either all four land or the previous outputs survive.
type Loader interface {
	LoadGold(ctx context.Context, features []domain.FeatureRow, ds domain.Datasets) error
}

// Publisher pushes computed feature rows to an external consumer. Optional.
type Publisher interface {
	PublishFeatures(ctx context.Context, rows []domain.FeatureRow) error
}

// Gold bundles the outputs of one transform pass.
type Gold struct {
	Features []domain.FeatureRow
	Datasets domain.Datasets
}

// RunSummary describes the last completed run for the status endpoint.
type RunSummary struct {
	CompletedAt     time.Time `json:"completed_at"`
	ClimateRows     int       `json:"climate_rows"`
	YieldRows       int       `json:"yield_rows"`
	FeatureRows     int       `json:"feature_rows"`
	TrainingRows    int       `json:"training_rows"`
	ValidationRows  int       `json:"validation_rows"`
	ScenarioRows    int       `json:"scenario_rows"`
	DurationSeconds float64   `json:"duration_seconds"`
}

// Pipeline wires the stages together with logging and metrics.
type Pipeline struct {
	climate     ClimateExtractor
	yields      YieldExtractor
	transformer Transformer
	loader      Loader
	publisher   Publisher // nil when publishing is disabled
	logger      *slog.Logger
	metrics     *observability.Metrics

	ready   atomic.Bool
	mu      sync.Mutex
	lastRun RunSummary
}

// New creates a Pipeline. Pass a nil publisher to disable feature publishing.
func New(c ClimateExtractor, y YieldExtractor, t Transformer, l Loader, pub Publisher,
	logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		climate:     c,
		yields:      y,
		transformer: t,
		loader:      l,
		publisher:   pub,
		logger:      logger,
		metrics:     metrics,
	}
}

// CheckReadiness returns nil once a run has completed successfully.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("no completed run yet")
	}
	return nil
}

// LastRun returns a copy of the most recent run summary.
func (p *Pipeline) LastRun() RunSummary {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastRun
}

// Run executes one extract-transform-load pass. The stage is deterministic
// and has no retry: on failure nothing is written and the caller re-runs
// after fixing the input data.
func (p *Pipeline) Run(ctx context.Context) error {
	start := time.Now()
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	gold, counts, err := p.extractAndTransform(ctx)
	if err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return err
	}

	loadStart := time.Now()
	if err := p.loader.LoadGold(ctx, gold.Features, gold.Datasets); err != nil {
		p.metrics.RunsTotal.WithLabelValues("error").Inc()
		return err
	}
	p.metrics.StageDuration.WithLabelValues("load").Observe(time.Since(loadStart).Seconds())
	p.metrics.RowsWritten.WithLabelValues("climate_features").Add(float64(len(gold.Features)))
	p.metrics.RowsWritten.WithLabelValues("training").Add(float64(len(gold.Datasets.Training)))
	p.metrics.RowsWritten.WithLabelValues("validation").Add(float64(len(gold.Datasets.Validation)))
	p.metrics.RowsWritten.WithLabelValues("scenarios").Add(float64(len(gold.Datasets.Scenarios)))

	if p.publisher != nil {
		if err := p.publisher.PublishFeatures(ctx, gold.Features); err != nil {
			// The files are already in place; a publish failure degrades the
			// dashboard feed but does not invalidate the run.
			p.logger.Warn("feature publish failed", "error", err)
		} else {
			p.metrics.FeaturesPublished.Add(float64(len(gold.Features)))
		}
	}

	elapsed := time.Since(start)
	summary := RunSummary{
		CompletedAt:     domain.Now().UTC(),
		ClimateRows:     counts.climate,
		YieldRows:       counts.yields,
		FeatureRows:     len(gold.Features),
		TrainingRows:    len(gold.Datasets.Training),
		ValidationRows:  len(gold.Datasets.Validation),
		ScenarioRows:    len(gold.Datasets.Scenarios),
		DurationSeconds: elapsed.Seconds(),
	}
	p.mu.Lock()
	p.lastRun = summary
	p.mu.Unlock()
	p.ready.Store(true)

	p.metrics.RunsTotal.WithLabelValues("success").Inc()
	p.logger.Info("run complete",
		"duration", elapsed,
		"feature_rows", summary.FeatureRows,
		"training_rows", summary.TrainingRows,
		"validation_rows", summary.ValidationRows,
		"scenario_rows", summary.ScenarioRows,
	)
	return nil
}

type inputCounts struct {
	climate int
	yields  int
}

func (p *Pipeline) extractAndTransform(ctx context.Context) (Gold, inputCounts, error) {
	extractStart := time.Now()

	daily, err := p.climate.ExtractClimate(ctx)
	if err != nil {
		return Gold{}, inputCounts{}, err
	}
	p.metrics.ClimateRowsRead.Add(float64(len(daily)))

	rawYields, err := p.yields.ExtractYields(ctx)
	if err != nil {
		return Gold{}, inputCounts{}, err
	}
	p.metrics.YieldRowsRead.Add(float64(len(rawYields)))
	p.metrics.StageDuration.WithLabelValues("extract").Observe(time.Since(extractStart).Seconds())

	transformStart := time.Now()
	gold, err := p.transformer.Transform(ctx, daily, rawYields)
	if err != nil {
		return Gold{}, inputCounts{}, err
	}
	p.metrics.StageDuration.WithLabelValues("transform").Observe(time.Since(transformStart).Seconds())
	p.metrics.FeatureRowsProduced.Add(float64(len(gold.Features)))

	return gold, inputCounts{climate: len(daily), yields: len(rawYields)}, nil
}
