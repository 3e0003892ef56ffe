// Command genmock generates deterministic synthetic input fixtures: a silver
// daily-climate parquet file and a raw semicolon-delimited yield CSV. The
// fixtures exercise the full feature-engineering path, including dry spells,
// extreme days, missing yields recoverable from production and area, and all
// four climate scenarios.
//
// Usage:
//
//	go run ./cmd/genmock \
//	  -climate-out data/mock/climate_daily.parquet \
//	  -yield-out data/mock/yields.csv
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agroclim/yield-etl/internal/adapter/parquetio"
	"github.com/agroclim/yield-etl/internal/domain"
)

var departments = []string{"Somme", "Marne", "Eure-et-Loir", "Gers"}

const (
	historicalStart = 2000
	historicalEnd   = 2015
	scenarioStart   = 2040
	scenarioEnd     = 2045
	seed            = 20260301
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	climateOut := flag.String("climate-out", "", "output path for the daily climate parquet fixture")
	yieldOut := flag.String("yield-out", "", "output path for the yield CSV fixture")
	flag.Parse()

	if *climateOut == "" || *yieldOut == "" {
		flag.Usage()
		return fmt.Errorf("missing required flags: -climate-out, -yield-out")
	}

	rng := rand.New(rand.NewSource(seed))

	var rows []domain.DailyClimate
	for _, dept := range departments {
		for year := historicalStart; year <= historicalEnd; year++ {
			rows = append(rows, climateYear(rng, dept, year, domain.ScenarioHistorical)...)
		}
		for _, sc := range []domain.Scenario{domain.ScenarioSSP126, domain.ScenarioSSP245, domain.ScenarioSSP585} {
			for year := scenarioStart; year <= scenarioEnd; year++ {
				rows = append(rows, climateYear(rng, dept, year, sc)...)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(*climateOut), 0o755); err != nil {
		return err
	}
	if err := parquetio.WriteClimate(*climateOut, rows); err != nil {
		return fmt.Errorf("writing climate fixture: %w", err)
	}
	log.Printf("wrote climate fixture: %s (%d rows)", *climateOut, len(rows))

	if err := writeYieldCSV(*yieldOut, rng); err != nil {
		return fmt.Errorf("writing yield fixture: %w", err)
	}
	log.Printf("wrote yield fixture: %s", *yieldOut)

	printStats(rows)
	return nil
}

// climateYear produces one synthetic year of daily observations. Temperature
// follows a sinusoid over the year with noise; precipitation is drawn so that
// multi-day dry runs occur naturally. Scenario years run warmer and drier.
func climateYear(rng *rand.Rand, dept string, year int, sc domain.Scenario) []domain.DailyClimate {
	warming := 0.0
	dryBias := 0.0
	switch sc {
	case domain.ScenarioSSP126:
		warming, dryBias = 1.0, 0.05
	case domain.ScenarioSSP245:
		warming, dryBias = 2.0, 0.10
	case domain.ScenarioSSP585:
		warming, dryBias = 4.0, 0.20
	}

	var out []domain.DailyClimate
	day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for day.Year() == year {
		doy := float64(day.YearDay())
		mean := 283.15 + warming + 10*math.Sin(2*math.Pi*(doy-105)/365) + rng.NormFloat64()*2
		maxT := mean + 4 + rng.Float64()*4

		precip := 0.0
		if rng.Float64() > 0.35+dryBias {
			precip = rng.ExpFloat64() * 4
		}

		out = append(out, domain.DailyClimate{
			Department: dept,
			Date:       day,
			Scenario:   sc,
			TempMeanK:  mean,
			TempMaxK:   maxT,
			PrecipMM:   precip,
		})
		day = day.AddDate(0, 0, 1)
	}
	return out
}

// writeYieldCSV covers the corner cases the cleaner has to handle: a yield
// recoverable from production/area, an unrecoverable null, comma decimal
// separators, and a department-year outside climate coverage.
func writeYieldCSV(path string, rng *rand.Rand) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("department;year;yield;area;production\n")
	for _, dept := range departments {
		for year := historicalStart; year <= historicalEnd; year++ {
			yield := 5.5 + rng.NormFloat64()*0.8
			area := 1000 + rng.Float64()*500
			switch {
			case dept == "Somme" && year == historicalStart+2:
				// Null yield, recoverable from production/area.
				fmt.Fprintf(&b, "%s;%d;;%.1f;%.1f\n", dept, year, area, yield*area)
			case dept == "Gers" && year == historicalStart+3:
				// Null yield with no production either; stays unlabeled.
				fmt.Fprintf(&b, "%s;%d;;%.1f;\n", dept, year, area)
			case dept == "Marne" && year == historicalStart+4:
				// Comma decimal separator, as the raw export uses.
				fmt.Fprintf(&b, "%s;%d;%s;%.1f;%.1f\n", dept, year,
					strings.ReplaceAll(fmt.Sprintf("%.2f", yield), ".", ","), area, yield*area)
			default:
				fmt.Fprintf(&b, "%s;%d;%.2f;%.1f;%.1f\n", dept, year, yield, area, yield*area)
			}
		}
	}
	// Outside historical climate coverage; the cleaner must drop it.
	fmt.Fprintf(&b, "Finistère;%d;4.20;900.0;3780.0\n", historicalStart)

	return os.WriteFile(path, []byte(b.String()), 0o600)
}

func printStats(rows []domain.DailyClimate) {
	features := domain.ComputeFeatures(rows, domain.DefaultParams())

	byScenario := map[domain.Scenario]int{}
	var dryTotal, freezeTotal, heatTotal int
	for _, f := range features {
		byScenario[f.Scenario]++
		dryTotal += f.DryPeriodsCount
		freezeTotal += f.FreezeDaysCount
		heatTotal += f.HeatDaysCount
	}

	fmt.Println("\n=== Stats for updating test assertions ===")
	fmt.Printf("Daily rows: %d\n", len(rows))
	fmt.Printf("Feature rows: %d (historical=%d, ssp1_2_6=%d, ssp2_4_5=%d, ssp5_8_5=%d)\n",
		len(features),
		byScenario[domain.ScenarioHistorical],
		byScenario[domain.ScenarioSSP126],
		byScenario[domain.ScenarioSSP245],
		byScenario[domain.ScenarioSSP585])
	fmt.Printf("Dry periods across groups: %d\n", dryTotal)
	fmt.Printf("Freeze days across groups: %d\n", freezeTotal)
	fmt.Printf("Heat days across groups: %d\n", heatTotal)
}
