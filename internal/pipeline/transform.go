package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hashicorp/go-multierror"

	"github.com/agroclim/yield-etl/internal/domain"
	"github.com/agroclim/yield-etl/internal/observability"
)

// FeatureTransformer computes the gold tables from validated input rows.
type FeatureTransformer struct {
	params  domain.Params
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewFeatureTransformer builds a transformer with the given thresholds.
func NewFeatureTransformer(params domain.Params, logger *slog.Logger, metrics *observability.Metrics) *FeatureTransformer {
	return &FeatureTransformer{params: params, logger: logger, metrics: metrics}
}

// Transform validates the climate rows, cleans the yields, computes the
// feature table and splits it into the labeled and scenario datasets.
func (t *FeatureTransformer) Transform(_ context.Context, daily []domain.DailyClimate, yields []domain.YieldRecord) (Gold, error) {
	if err := t.validateClimate(daily); err != nil {
		return Gold{}, err
	}

	cov := domain.HistoricalCoverage(daily)
	cleaned, imputed := t.cleanYields(yields, cov)
	t.logger.Info("yields cleaned",
		"raw", len(yields),
		"kept", len(cleaned),
		"imputed", imputed,
	)

	features := domain.ComputeFeatures(daily, t.params)
	datasets := domain.SplitDatasets(features, cleaned, t.params)

	return Gold{Features: features, Datasets: datasets}, nil
}

func (t *FeatureTransformer) validateClimate(daily []domain.DailyClimate) error {
	var result *multierror.Error
	for i, row := range daily {
		if row.Department == "" {
			result = multierror.Append(result, fmt.Errorf("climate row %d: empty department", i))
		}
		if row.Date.IsZero() {
			result = multierror.Append(result, fmt.Errorf("climate row %d: zero observation date", i))
		}
		if !row.Scenario.Valid() {
			result = multierror.Append(result, fmt.Errorf("climate row %d: unknown scenario %q", i, row.Scenario))
		}
	}
	if result != nil {
		t.metrics.SchemaViolations.Add(float64(len(result.Errors)))
		return fmt.Errorf("climate input failed validation: %w", result.ErrorOrNil())
	}
	return nil
}

func (t *FeatureTransformer) cleanYields(yields []domain.YieldRecord, cov domain.Coverage) ([]domain.YieldRecord, int) {
	cleaned, imputed := domain.CleanYields(yields, cov)
	if imputed > 0 {
		t.metrics.YieldsImputed.Add(float64(imputed))
	}
	return cleaned, imputed
}
