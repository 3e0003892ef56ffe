package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImputeYield(t *testing.T) {
	t.Run("recovers yield from production and area", func(t *testing.T) {
		r := ImputeYield(YieldRecord{
			Department:  testDept,
			Year:        2000,
			AreaHa:      Float64Ptr(1200),
			ProductionT: Float64Ptr(7800),
		})

		require.NotNil(t, r.YieldTHa)
		assert.InDelta(t, 6.5, *r.YieldTHa, 1e-9)
	})

	t.Run("round trip reproduces production", func(t *testing.T) {
		area, production := 321.5, 2087.4
		r := ImputeYield(YieldRecord{
			Department:  testDept,
			Year:        2000,
			AreaHa:      Float64Ptr(area),
			ProductionT: Float64Ptr(production),
		})

		require.NotNil(t, r.YieldTHa)
		assert.InDelta(t, production, *r.YieldTHa*area, 1e-6)
	})

	t.Run("existing yield is untouched", func(t *testing.T) {
		r := ImputeYield(YieldRecord{
			Department:  testDept,
			Year:        2000,
			YieldTHa:    Float64Ptr(4.2),
			AreaHa:      Float64Ptr(100),
			ProductionT: Float64Ptr(900),
		})

		assert.Equal(t, 4.2, *r.YieldTHa)
	})

	t.Run("unrecoverable stays null", func(t *testing.T) {
		assert.Nil(t, ImputeYield(YieldRecord{Department: testDept, Year: 2000}).YieldTHa)
		assert.Nil(t, ImputeYield(YieldRecord{
			Department:  testDept,
			Year:        2000,
			AreaHa:      Float64Ptr(0),
			ProductionT: Float64Ptr(500),
		}).YieldTHa)
	})
}

func TestCleanYields(t *testing.T) {
	hist := []DailyClimate{
		{
			Department: testDept,
			Date:       time.Date(2000, time.June, 1, 0, 0, 0, 0, time.UTC),
			Scenario:   ScenarioHistorical,
		},
		{
			Department: testDept,
			Date:       time.Date(2050, time.June, 1, 0, 0, 0, 0, time.UTC),
			Scenario:   ScenarioSSP585, // projections do not extend coverage
		},
	}
	cov := HistoricalCoverage(hist)

	rows := []YieldRecord{
		{Department: testDept, Year: 2000, AreaHa: Float64Ptr(100), ProductionT: Float64Ptr(650)},
		{Department: testDept, Year: 1960, YieldTHa: Float64Ptr(3.0)},  // year outside coverage
		{Department: "Gers", Year: 2000, YieldTHa: Float64Ptr(5.0)},    // department outside coverage
		{Department: testDept, Year: 2050, YieldTHa: Float64Ptr(9.9)},  // scenario year, not historical
	}

	clean, imputed := CleanYields(rows, cov)
	require.Len(t, clean, 1)
	assert.Equal(t, 1, imputed)
	assert.Equal(t, 2000, clean[0].Year)
	require.NotNil(t, clean[0].YieldTHa)
	assert.InDelta(t, 6.5, *clean[0].YieldTHa, 1e-9)
}

func TestCleanYields_ImputedCount(t *testing.T) {
	hist := []DailyClimate{
		{
			Department: testDept,
			Date:       time.Date(2000, time.June, 1, 0, 0, 0, 0, time.UTC),
			Scenario:   ScenarioHistorical,
		},
		{
			Department: testDept,
			Date:       time.Date(2001, time.June, 1, 0, 0, 0, 0, time.UTC),
			Scenario:   ScenarioHistorical,
		},
	}
	cov := HistoricalCoverage(hist)

	rows := []YieldRecord{
		{Department: testDept, Year: 2000, YieldTHa: Float64Ptr(5.0)},                          // already set
		{Department: testDept, Year: 2001, AreaHa: Float64Ptr(200), ProductionT: Float64Ptr(1300)}, // recovered
		{Department: testDept, Year: 2001},                                                     // stays null
		{Department: "Gers", Year: 2001, AreaHa: Float64Ptr(50), ProductionT: Float64Ptr(300)}, // dropped, not counted
	}

	clean, imputed := CleanYields(rows, cov)
	assert.Len(t, clean, 3)
	assert.Equal(t, 1, imputed)
}
