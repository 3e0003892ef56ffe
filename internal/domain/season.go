package domain

import "time"

// Season labels the two halves of the crop year.
type Season string

const (
	SeasonGrowing    Season = "growing"
	SeasonNonGrowing Season = "non_growing"
)

// SeasonFor classifies a calendar month. Every month maps to exactly one
// season: growing between GrowingSeasonStart and GrowingSeasonEnd inclusive,
// non-growing otherwise.
func (p Params) SeasonFor(m time.Month) Season {
	if m >= p.GrowingSeasonStart && m <= p.GrowingSeasonEnd {
		return SeasonGrowing
	}
	return SeasonNonGrowing
}

// InWinterWindow reports whether a month falls in the winter precipitation
// window: WinterStart through December, plus January up to the month before
// the growing season starts.
func (p Params) InWinterWindow(m time.Month) bool {
	return m >= p.WinterStart || m < p.GrowingSeasonStart
}

// WinterLabelYear returns the growing-season year a winter day's
// precipitation feeds into. Days from WinterStart onward label the following
// year; days in the new-year tail of the window (before the growing season)
// label their own year. ok is false for dates outside the window.
//
// A December 2005 day and a January 2006 day therefore both label 2006: they
// belong to the same winter, the one preceding the 2006 growing season.
func (p Params) WinterLabelYear(d time.Time) (year int, ok bool) {
	m := d.Month()
	switch {
	case m >= p.WinterStart:
		return d.Year() + 1, true
	case m < p.GrowingSeasonStart:
		return d.Year(), true
	default:
		return 0, false
	}
}
