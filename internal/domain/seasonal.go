package domain

import "math"

// SeasonalStats holds the reductions of one season's daily rows within a
// group. All fields are nil when the season has no rows; TempStd is also nil
// for a single-row season, where the sample standard deviation is undefined.
type SeasonalStats struct {
	TempMean    *float64
	TempMin     *float64
	TempMax     *float64
	TempStd     *float64
	TotalPrecip *float64
}

// SeasonalFeatures pairs the per-season statistics of one group.
type SeasonalFeatures struct {
	Growing    SeasonalStats
	NonGrowing SeasonalStats
}

// seasonAccum accumulates one season's daily values within a group.
type seasonAccum struct {
	temps  []float64
	precip float64
}

// SeasonalAggregates reduces daily rows to per-season temperature statistics
// (mean, min, max, sample std of the daily mean temperature) and
// precipitation totals, grouped by (department, year, scenario).
//
// A season with zero rows yields nil statistics, not zeros: a year with no
// recorded non-growing days must stay distinguishable from a rainless one.
func SeasonalAggregates(rows []DailyClimate, p Params) map[GroupKey]SeasonalFeatures {
	accums := make(map[GroupKey]map[Season]*seasonAccum)
	for _, row := range rows {
		key := GroupKey{Department: row.Department, Year: row.Year(), Scenario: row.Scenario}
		bySeason, ok := accums[key]
		if !ok {
			bySeason = make(map[Season]*seasonAccum, 2)
			accums[key] = bySeason
		}
		season := p.SeasonFor(row.Date.Month())
		acc, ok := bySeason[season]
		if !ok {
			acc = &seasonAccum{}
			bySeason[season] = acc
		}
		acc.temps = append(acc.temps, row.TempMeanK)
		acc.precip += row.PrecipMM
	}

	out := make(map[GroupKey]SeasonalFeatures, len(accums))
	for key, bySeason := range accums {
		out[key] = SeasonalFeatures{
			Growing:    reduceSeason(bySeason[SeasonGrowing]),
			NonGrowing: reduceSeason(bySeason[SeasonNonGrowing]),
		}
	}
	return out
}

func reduceSeason(acc *seasonAccum) SeasonalStats {
	if acc == nil || len(acc.temps) == 0 {
		return SeasonalStats{}
	}

	minT, maxT := acc.temps[0], acc.temps[0]
	sum := 0.0
	for _, t := range acc.temps {
		sum += t
		if t < minT {
			minT = t
		}
		if t > maxT {
			maxT = t
		}
	}
	mean := sum / float64(len(acc.temps))

	return SeasonalStats{
		TempMean:    Float64Ptr(mean),
		TempMin:     Float64Ptr(minT),
		TempMax:     Float64Ptr(maxT),
		TempStd:     sampleStd(acc.temps, mean),
		TotalPrecip: Float64Ptr(acc.precip),
	}
}

// sampleStd returns the sample standard deviation (n-1 denominator), or nil
// when fewer than two values exist.
func sampleStd(values []float64, mean float64) *float64 {
	if len(values) < 2 {
		return nil
	}
	var ss float64
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return Float64Ptr(math.Sqrt(ss / float64(len(values)-1)))
}
