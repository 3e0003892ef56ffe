package domain

import "sort"

// ComputeFeatures runs the full feature-engineering pass over the daily table
// and assembles one wide row per (department, year, scenario).
//
// The canonical group set is every combination present in the daily data; the
// component outputs are left-joined onto it. Seasonal statistics and the
// winter lag stay null where no underlying days exist, while dry-spell and
// extreme counts default to zero for groups that have daily rows (a year with
// no dry run genuinely had zero dry periods). Groups never interact, so the
// result is independent of input row order.
func ComputeFeatures(rows []DailyClimate, p Params) []FeatureRow {
	seasonal := SeasonalAggregates(rows, p)
	dry := DrySpells(rows, p)
	extremes := ExtremeDays(rows, p)
	winter := WinterPrecipTotals(rows, p)

	keys := make([]GroupKey, 0, len(seasonal))
	for key := range seasonal {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Scenario != b.Scenario {
			return a.Scenario < b.Scenario
		}
		if a.Department != b.Department {
			return a.Department < b.Department
		}
		return a.Year < b.Year
	})

	out := make([]FeatureRow, 0, len(keys))
	for _, key := range keys {
		row := FeatureRow{
			Department: key.Department,
			Year:       key.Year,
			Scenario:   key.Scenario,
		}

		s := seasonal[key]
		row.TempMeanGrowing = s.Growing.TempMean
		row.TempMinGrowing = s.Growing.TempMin
		row.TempMaxGrowing = s.Growing.TempMax
		row.TempStdGrowing = s.Growing.TempStd
		row.TotalPrecipGrowing = s.Growing.TotalPrecip
		row.TempMeanNonGrowing = s.NonGrowing.TempMean
		row.TempMinNonGrowing = s.NonGrowing.TempMin
		row.TempMaxNonGrowing = s.NonGrowing.TempMax
		row.TempStdNonGrowing = s.NonGrowing.TempStd
		row.TotalPrecipNonGrowing = s.NonGrowing.TotalPrecip

		if d, ok := dry[key]; ok {
			row.DryPeriodsCount = d.PeriodsCount
			row.MaxDrySpellDays = d.MaxSpellDays
		}
		if e, ok := extremes[key]; ok {
			row.FreezeDaysCount = e.FreezeDays
			row.HeatDaysCount = e.HeatDays
			row.HeavyRainDaysCount = e.HeavyRainDays
		}
		if w, ok := winter[key]; ok {
			row.WinterPrecipTotal = Float64Ptr(w)
		}

		out = append(out, row)
	}
	return out
}
