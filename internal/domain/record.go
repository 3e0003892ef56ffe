package domain

import "time"

// Scenario identifies the climate-projection pathway a daily record belongs to.
type Scenario string

const (
	ScenarioHistorical Scenario = "historical"
	ScenarioSSP126     Scenario = "ssp1_2_6"
	ScenarioSSP245     Scenario = "ssp2_4_5"
	ScenarioSSP585     Scenario = "ssp5_8_5"
)

// Scenarios lists every recognized scenario value.
var Scenarios = []Scenario{ScenarioHistorical, ScenarioSSP126, ScenarioSSP245, ScenarioSSP585}

// Valid reports whether s is one of the recognized scenario values.
func (s Scenario) Valid() bool {
	switch s {
	case ScenarioHistorical, ScenarioSSP126, ScenarioSSP245, ScenarioSSP585:
		return true
	default:
		return false
	}
}

// IsHistorical reports whether s is the observed (non-projected) pathway.
func (s Scenario) IsHistorical() bool { return s == ScenarioHistorical }

// DailyClimate is one cleaned daily observation for a department under a
// scenario. Temperatures are in Kelvin, precipitation in millimeters.
type DailyClimate struct {
	Department string
	Date       time.Time
	Scenario   Scenario
	TempMeanK  float64
	TempMaxK   float64
	PrecipMM   float64
}

// Year returns the calendar year of the observation.
func (d DailyClimate) Year() int { return d.Date.Year() }

// GroupKey identifies one feature-engineering group: all daily records of a
// department in a calendar year under a single scenario.
type GroupKey struct {
	Department string
	Year       int
	Scenario   Scenario
}

// YieldRecord is one department-year crop yield observation from the raw
// semicolon-delimited file. Yield, area, and production are nullable in the
// source; a nil Yield may be recoverable from production and area.
type YieldRecord struct {
	Department  string
	Year        int
	YieldTHa    *float64 // tonnes per hectare
	AreaHa      *float64
	ProductionT *float64
}

// FeatureRow is the gold unit: one wide row of engineered climate features per
// (department, year, scenario). Seasonal statistics and the winter lag are
// nullable so that "no data" stays distinguishable from a measured zero.
type FeatureRow struct {
	Department string   `json:"nom_dep"`
	Year       int      `json:"year"`
	Scenario   Scenario `json:"scenario"`

	TempMeanGrowing    *float64 `json:"temp_mean_growing"`
	TempMinGrowing     *float64 `json:"temp_min_growing"`
	TempMaxGrowing     *float64 `json:"temp_max_growing"`
	TempStdGrowing     *float64 `json:"temp_std_growing"`
	TempMeanNonGrowing *float64 `json:"temp_mean_non_growing"`
	TempMinNonGrowing  *float64 `json:"temp_min_non_growing"`
	TempMaxNonGrowing  *float64 `json:"temp_max_non_growing"`
	TempStdNonGrowing  *float64 `json:"temp_std_non_growing"`

	TotalPrecipGrowing    *float64 `json:"total_precip_growing"`
	TotalPrecipNonGrowing *float64 `json:"total_precip_non_growing"`
	WinterPrecipTotal     *float64 `json:"winter_precip_total"`

	DryPeriodsCount int `json:"dry_periods_count"`
	MaxDrySpellDays int `json:"max_dry_spell_days"`

	FreezeDaysCount    int `json:"freeze_days_count"`
	HeatDaysCount      int `json:"heat_days_count"`
	HeavyRainDaysCount int `json:"heavy_rain_days_count"`
}

// Key returns the primary key of the row.
func (r FeatureRow) Key() GroupKey {
	return GroupKey{Department: r.Department, Year: r.Year, Scenario: r.Scenario}
}

// LabeledRow is a feature row joined with its yield label for model training.
type LabeledRow struct {
	FeatureRow
	YieldTHa *float64 `json:"yield"`
}

// Float64Ptr returns a pointer to v. Convenience for building nullable fields.
func Float64Ptr(v float64) *float64 { return &v }
