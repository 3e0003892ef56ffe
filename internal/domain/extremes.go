package domain

// ExtremeCounts holds the per-group extreme-event day counts.
type ExtremeCounts struct {
	FreezeDays    int
	HeatDays      int
	HeavyRainDays int
}

// ExtremeDays counts threshold exceedances per (department, year, scenario):
// freeze days (daily maximum temperature below FreezeThresholdK), heat days
// (above HeatThresholdK), and heavy-rain days (precipitation above
// HeavyRainThresholdMM). All three comparisons are strict, so a day sitting
// exactly on a threshold does not count.
func ExtremeDays(rows []DailyClimate, p Params) map[GroupKey]ExtremeCounts {
	out := make(map[GroupKey]ExtremeCounts)
	for _, row := range rows {
		key := GroupKey{Department: row.Department, Year: row.Year(), Scenario: row.Scenario}
		counts := out[key]
		if row.TempMaxK < p.FreezeThresholdK {
			counts.FreezeDays++
		}
		if row.TempMaxK > p.HeatThresholdK {
			counts.HeatDays++
		}
		if row.PrecipMM > p.HeavyRainThresholdMM {
			counts.HeavyRainDays++
		}
		out[key] = counts
	}
	return out
}
