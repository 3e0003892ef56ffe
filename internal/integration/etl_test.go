package integration_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroclim/yield-etl/internal/adapter/csvio"
	"github.com/agroclim/yield-etl/internal/adapter/parquetio"
	"github.com/agroclim/yield-etl/internal/domain"
	"github.com/agroclim/yield-etl/internal/observability"
	"github.com/agroclim/yield-etl/internal/pipeline"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestEndToEnd runs the full stage against real files: a generated climate
// parquet and a yield CSV in, the four gold parquet tables out.
func TestEndToEnd(t *testing.T) {
	dir := t.TempDir()
	climatePath := filepath.Join(dir, "climate_daily.parquet")
	yieldPath := filepath.Join(dir, "yields.csv")
	goldDir := filepath.Join(dir, "gold")

	writeClimateFixture(t, climatePath)
	writeYieldFixture(t, yieldPath)

	logger := discardLogger()
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(
		parquetio.NewClimateReader(climatePath, logger),
		csvio.NewYieldReader(yieldPath, logger),
		pipeline.NewFeatureTransformer(domain.DefaultParams(), logger, metrics),
		parquetio.NewGoldWriter(goldDir, logger),
		nil,
		logger,
		metrics,
	)

	require.NoError(t, p.Run(context.Background()))
	require.NoError(t, p.CheckReadiness(context.Background()))

	features, err := parquetio.ReadFeatures(filepath.Join(goldDir, parquetio.ClimateFeaturesFile))
	require.NoError(t, err)
	// Two departments over 2012-2014 historical, plus one ssp2_4_5 year.
	assert.Len(t, features, 7)

	training, err := parquetio.ReadLabeled(filepath.Join(goldDir, parquetio.TrainingFile))
	require.NoError(t, err)
	validation, err := parquetio.ReadLabeled(filepath.Join(goldDir, parquetio.ValidationFile))
	require.NoError(t, err)
	scenarios, err := parquetio.ReadFeatures(filepath.Join(goldDir, parquetio.ScenariosFile))
	require.NoError(t, err)

	for _, r := range training {
		assert.LessOrEqual(t, r.Year, 2013)
		assert.True(t, r.Scenario.IsHistorical())
	}
	for _, r := range validation {
		assert.Greater(t, r.Year, 2013)
		assert.True(t, r.Scenario.IsHistorical())
	}
	require.Len(t, scenarios, 1)
	assert.Equal(t, domain.ScenarioSSP245, scenarios[0].Scenario)

	// The Somme 2012 yield is null in the CSV but recoverable from
	// production and area.
	var somme2012 *domain.LabeledRow
	for i := range training {
		if training[i].Department == "Somme" && training[i].Year == 2012 {
			somme2012 = &training[i]
		}
	}
	require.NotNil(t, somme2012)
	require.NotNil(t, somme2012.YieldTHa)
	assert.InDelta(t, 6.5, *somme2012.YieldTHa, 1e-9)

	summary := p.LastRun()
	assert.Equal(t, len(features), summary.FeatureRows)
	assert.Equal(t, len(training), summary.TrainingRows)
	assert.Equal(t, len(validation), summary.ValidationRows)
}

func writeClimateFixture(t *testing.T, path string) {
	t.Helper()

	var rows []domain.DailyClimate
	for _, dept := range []string{"Somme", "Marne"} {
		for year := 2012; year <= 2014; year++ {
			rows = append(rows, climateYear(dept, year, domain.ScenarioHistorical)...)
		}
	}
	rows = append(rows, climateYear("Somme", 2050, domain.ScenarioSSP245)...)

	require.NoError(t, parquetio.WriteClimate(path, rows))
}

func climateYear(dept string, year int, sc domain.Scenario) []domain.DailyClimate {
	var out []domain.DailyClimate
	day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day.Year() == year {
		precip := 2.0
		// A dry stretch each July long enough to register as one dry period.
		if day.Month() == time.July && day.Day() <= 10 {
			precip = 0.0
		}
		out = append(out, domain.DailyClimate{
			Department: dept,
			Date:       day,
			Scenario:   sc,
			TempMeanK:  284.0,
			TempMaxK:   295.0,
			PrecipMM:   precip,
		})
		day = day.AddDate(0, 0, 1)
	}
	return out
}

func writeYieldFixture(t *testing.T, path string) {
	t.Helper()

	var b strings.Builder
	b.WriteString("department;year;yield;area;production\n")
	// Null yield, recoverable: 7800 / 1200 = 6.5.
	b.WriteString("Somme;2012;;1200;7800\n")
	b.WriteString("Somme;2013;6.1;1100;6710\n")
	b.WriteString("Somme;2014;5.9;1150;6785\n")
	b.WriteString("Marne;2012;7.2;900;6480\n")
	b.WriteString("Marne;2013;7.0;950;6650\n")
	b.WriteString("Marne;2014;6.8;920;6256\n")
	// Outside climate coverage, dropped during cleaning.
	b.WriteString("Finistère;2012;4.2;800;3360\n")

	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))
}
