package parquetio

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agroclim/yield-etl/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestClimateRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "climate.parquet")
	rows := []domain.DailyClimate{
		{
			Department: "Somme",
			Date:       time.Date(2005, time.April, 1, 0, 0, 0, 0, time.UTC),
			Scenario:   domain.ScenarioHistorical,
			TempMeanK:  285.4,
			TempMaxK:   291.2,
			PrecipMM:   3.5,
		},
		{
			Department: "Aisne",
			Date:       time.Date(2050, time.July, 15, 0, 0, 0, 0, time.UTC),
			Scenario:   domain.ScenarioSSP585,
			TempMeanK:  299.0,
			TempMaxK:   308.6,
			PrecipMM:   0,
		},
	}

	require.NoError(t, WriteClimate(path, rows))

	got, err := NewClimateReader(path, discardLogger()).ExtractClimate(context.Background())
	require.NoError(t, err)
	require.Len(t, got, len(rows))
	for i := range rows {
		assert.Equal(t, rows[i].Department, got[i].Department)
		assert.True(t, rows[i].Date.Equal(got[i].Date), "date %d", i)
		assert.Equal(t, rows[i].Scenario, got[i].Scenario)
		assert.Equal(t, rows[i].TempMeanK, got[i].TempMeanK)
		assert.Equal(t, rows[i].TempMaxK, got[i].TempMaxK)
		assert.Equal(t, rows[i].PrecipMM, got[i].PrecipMM)
	}
}

func TestExtractClimate_MissingFile(t *testing.T) {
	r := NewClimateReader(filepath.Join(t.TempDir(), "absent.parquet"), discardLogger())
	_, err := r.ExtractClimate(context.Background())
	assert.Error(t, err)
}

func TestLoadGold_WritesAllFourTables(t *testing.T) {
	dir := t.TempDir()
	w := NewGoldWriter(dir, discardLogger())

	features := []domain.FeatureRow{
		{
			Department:         "Somme",
			Year:               2005,
			Scenario:           domain.ScenarioHistorical,
			TempMeanGrowing:    domain.Float64Ptr(287.3),
			TotalPrecipGrowing: domain.Float64Ptr(142.0),
			DryPeriodsCount:    2,
			MaxDrySpellDays:    11,
		},
		{
			Department: "Somme",
			Year:       2050,
			Scenario:   domain.ScenarioSSP245,
		},
	}
	ds := domain.Datasets{
		Training: []domain.LabeledRow{
			{FeatureRow: features[0], YieldTHa: domain.Float64Ptr(6.4)},
		},
		Scenarios: []domain.FeatureRow{features[1]},
	}

	require.NoError(t, w.LoadGold(context.Background(), features, ds))

	all, err := ReadFeatures(filepath.Join(dir, ClimateFeaturesFile))
	require.NoError(t, err)
	require.Len(t, all, 2)
	// Nulls survive the round trip as nulls, set values as values.
	require.NotNil(t, all[0].TempMeanGrowing)
	assert.Equal(t, 287.3, *all[0].TempMeanGrowing)
	assert.Nil(t, all[0].TempMeanNonGrowing)
	assert.Nil(t, all[0].WinterPrecipTotal)
	assert.Equal(t, 2, all[0].DryPeriodsCount)

	training, err := ReadLabeled(filepath.Join(dir, TrainingFile))
	require.NoError(t, err)
	require.Len(t, training, 1)
	require.NotNil(t, training[0].YieldTHa)
	assert.Equal(t, 6.4, *training[0].YieldTHa)

	validation, err := ReadLabeled(filepath.Join(dir, ValidationFile))
	require.NoError(t, err)
	assert.Empty(t, validation)

	scenarios, err := ReadFeatures(filepath.Join(dir, ScenariosFile))
	require.NoError(t, err)
	require.Len(t, scenarios, 1)
	assert.Equal(t, domain.ScenarioSSP245, scenarios[0].Scenario)

	// No staging residue left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}

func TestLoadGold_KeepsPreviousOutputsOnFailure(t *testing.T) {
	dir := t.TempDir()
	w := NewGoldWriter(dir, discardLogger())

	// Seed a previous successful run.
	require.NoError(t, w.LoadGold(context.Background(), nil, domain.Datasets{}))

	before, err := os.ReadDir(dir)
	require.NoError(t, err)

	// A cancelled context aborts before any staging happens.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, w.LoadGold(ctx, nil, domain.Datasets{}))

	after, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}
