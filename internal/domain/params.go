package domain

import "time"

// Params holds every threshold and boundary the feature-engineering stage
// depends on. Callers pass it explicitly so thresholds stay overridable per
// run and independently testable; nothing in this package reads globals.
type Params struct {
	// GrowingSeasonStart and GrowingSeasonEnd bound the growing season,
	// inclusive on both ends. Defaults: March through July.
	GrowingSeasonStart time.Month
	GrowingSeasonEnd   time.Month

	// WinterStart is the first month of the winter precipitation window.
	// The window runs from WinterStart through December and continues
	// through the month before GrowingSeasonStart of the next year.
	WinterStart time.Month

	// DryDayPrecipMM is the precipitation below which a day counts as dry.
	DryDayPrecipMM float64
	// MinDrySpellDays is the shortest consecutive-dry run that counts as a
	// dry period. A run of exactly this length qualifies.
	MinDrySpellDays int

	// FreezeThresholdK and HeatThresholdK classify extreme-temperature days
	// from the daily maximum temperature. Both comparisons are strict.
	FreezeThresholdK float64
	HeatThresholdK   float64
	// HeavyRainThresholdMM classifies heavy-rain days. Strict comparison.
	HeavyRainThresholdMM float64

	// ValidationCutoffYear splits historical rows: years at or below the
	// cutoff train the model, years above it validate.
	ValidationCutoffYear int
}

// DefaultParams returns the thresholds the pipeline ships with.
func DefaultParams() Params {
	return Params{
		GrowingSeasonStart:   time.March,
		GrowingSeasonEnd:     time.July,
		WinterStart:          time.September,
		DryDayPrecipMM:       0.1,
		MinDrySpellDays:      7,
		FreezeThresholdK:     273.15, // 0 degrees C
		HeatThresholdK:       303.15, // 30 degrees C
		HeavyRainThresholdMM: 20.0,
		ValidationCutoffYear: 2013,
	}
}
