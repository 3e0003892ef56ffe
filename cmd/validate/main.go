// Command validate performs integrity checks over a gold output directory:
// key uniqueness, split disjointness, year-cutoff placement, scenario
// membership, and null-propagation consistency. It exits non-zero when any
// phase fails, making it usable as a post-run gate.
//
// Usage:
//
//	go run ./cmd/validate -gold-dir data/gold
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agroclim/yield-etl/internal/adapter/parquetio"
	"github.com/agroclim/yield-etl/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	goldDir := flag.String("gold-dir", "", "directory containing the four gold tables")
	cutoff := flag.Int("cutoff-year", domain.DefaultParams().ValidationCutoffYear,
		"last year that belongs to the training dataset")
	minDrySpell := flag.Int("min-dry-spell-days", domain.DefaultParams().MinDrySpellDays,
		"minimum run length that counted as a dry period when the tables were built")
	flag.Parse()

	if *goldDir == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*goldDir, *cutoff, *minDrySpell); code != 0 {
		os.Exit(code)
	}
}

func run(goldDir string, cutoff, minDrySpell int) int {
	fmt.Println("=== Gold Output Integrity Validation ===")
	fmt.Println()

	features, err := parquetio.ReadFeatures(filepath.Join(goldDir, parquetio.ClimateFeaturesFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load feature table: %v\n", err)
		return 1
	}
	training, err := parquetio.ReadLabeled(filepath.Join(goldDir, parquetio.TrainingFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load training table: %v\n", err)
		return 1
	}
	validation, err := parquetio.ReadLabeled(filepath.Join(goldDir, parquetio.ValidationFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load validation table: %v\n", err)
		return 1
	}
	scenarios, err := parquetio.ReadFeatures(filepath.Join(goldDir, parquetio.ScenariosFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load scenarios table: %v\n", err)
		return 1
	}

	phases := []*phase{
		validateFeatures(features, minDrySpell),
		validateSplits(features, training, validation, scenarios, cutoff),
		validateNulls(features),
	}

	failed := 0
	for _, p := range phases {
		if p.passed() {
			fmt.Printf("PASS %s\n", p.name)
			continue
		}
		failed++
		fmt.Printf("FAIL %s\n", p.name)
		for _, e := range p.errors {
			fmt.Printf("  - %s\n", e)
		}
	}

	fmt.Println()
	fmt.Printf("features=%d training=%d validation=%d scenarios=%d\n",
		len(features), len(training), len(validation), len(scenarios))
	if failed > 0 {
		fmt.Printf("%d phase(s) failed\n", failed)
		return 1
	}
	fmt.Println("all phases passed")
	return 0
}

func validateFeatures(features []domain.FeatureRow, minDrySpell int) *phase {
	p := &phase{name: "feature table"}

	seen := map[domain.GroupKey]bool{}
	for _, f := range features {
		k := f.Key()
		if seen[k] {
			p.errorf("duplicate key %s/%d/%s", k.Department, k.Year, k.Scenario)
		}
		seen[k] = true

		if !f.Scenario.Valid() {
			p.errorf("unknown scenario %q at %s/%d", f.Scenario, f.Department, f.Year)
		}
		if f.DryPeriodsCount < 0 || f.MaxDrySpellDays < 0 ||
			f.FreezeDaysCount < 0 || f.HeatDaysCount < 0 || f.HeavyRainDaysCount < 0 {
			p.errorf("negative counter at %s/%d/%s", f.Department, f.Year, f.Scenario)
		}
		// Max below the qualifying length with a zero count is fine; short
		// dry runs raise the max without counting as a period. A counted
		// period with no run at all, or with a max shorter than the
		// qualifying length, is not.
		if f.DryPeriodsCount > 0 && f.MaxDrySpellDays < minDrySpell {
			p.errorf("dry period counted but max spell is %d days (minimum %d) at %s/%d/%s",
				f.MaxDrySpellDays, minDrySpell, f.Department, f.Year, f.Scenario)
		}
	}
	return p
}

func validateSplits(features []domain.FeatureRow, training, validation []domain.LabeledRow, scenarios []domain.FeatureRow, cutoff int) *phase {
	p := &phase{name: "dataset splits"}

	featureKeys := map[domain.GroupKey]bool{}
	for _, f := range features {
		featureKeys[f.Key()] = true
	}

	trainKeys := map[domain.GroupKey]bool{}
	for _, r := range training {
		k := r.Key()
		trainKeys[k] = true
		if !r.Scenario.IsHistorical() {
			p.errorf("non-historical row in training: %s/%d/%s", r.Department, r.Year, r.Scenario)
		}
		if r.Year > cutoff {
			p.errorf("training row past cutoff %d: %s/%d", cutoff, r.Department, r.Year)
		}
		if !featureKeys[k] {
			p.errorf("training row missing from feature table: %s/%d/%s", r.Department, r.Year, r.Scenario)
		}
	}

	for _, r := range validation {
		k := r.Key()
		if trainKeys[k] {
			p.errorf("row in both training and validation: %s/%d", r.Department, r.Year)
		}
		if !r.Scenario.IsHistorical() {
			p.errorf("non-historical row in validation: %s/%d/%s", r.Department, r.Year, r.Scenario)
		}
		if r.Year <= cutoff {
			p.errorf("validation row at or before cutoff %d: %s/%d", cutoff, r.Department, r.Year)
		}
		if !featureKeys[k] {
			p.errorf("validation row missing from feature table: %s/%d/%s", r.Department, r.Year, r.Scenario)
		}
	}

	for _, f := range scenarios {
		if f.Scenario.IsHistorical() {
			p.errorf("historical row in scenarios table: %s/%d", f.Department, f.Year)
		}
		if !featureKeys[f.Key()] {
			p.errorf("scenario row missing from feature table: %s/%d/%s", f.Department, f.Year, f.Scenario)
		}
	}
	return p
}

// validateNulls checks that each season's statistics are null together: a
// group either has observations for a season or it does not.
func validateNulls(features []domain.FeatureRow) *phase {
	p := &phase{name: "null propagation"}

	for _, f := range features {
		growing := []*float64{f.TempMeanGrowing, f.TempMinGrowing, f.TempMaxGrowing, f.TotalPrecipGrowing}
		nonGrowing := []*float64{f.TempMeanNonGrowing, f.TempMinNonGrowing, f.TempMaxNonGrowing, f.TotalPrecipNonGrowing}

		if mixedNulls(growing) {
			p.errorf("partially null growing stats at %s/%d/%s", f.Department, f.Year, f.Scenario)
		}
		if mixedNulls(nonGrowing) {
			p.errorf("partially null non-growing stats at %s/%d/%s", f.Department, f.Year, f.Scenario)
		}
		// The std is null for single-observation seasons even when the rest
		// is set, so it only participates one way.
		if f.TempStdGrowing != nil && f.TempMeanGrowing == nil {
			p.errorf("growing std without mean at %s/%d/%s", f.Department, f.Year, f.Scenario)
		}
		if f.TempStdNonGrowing != nil && f.TempMeanNonGrowing == nil {
			p.errorf("non-growing std without mean at %s/%d/%s", f.Department, f.Year, f.Scenario)
		}
	}
	return p
}

func mixedNulls(vals []*float64) bool {
	nils := 0
	for _, v := range vals {
		if v == nil {
			nils++
		}
	}
	return nils != 0 && nils != len(vals)
}
