package domain

import "sort"

// DrySpellStats summarizes consecutive-dry-day runs within one group.
type DrySpellStats struct {
	// PeriodsCount is the number of closed runs at least MinDrySpellDays long.
	PeriodsCount int
	// MaxSpellDays is the longest run observed, 0 if the group has no dry day.
	MaxSpellDays int
}

// DrySpells scans each (department, year, scenario) group chronologically and
// detects runs of consecutive days with precipitation below the dry-day
// threshold. A run still open on the group's last day is closed and counted
// there; a run of exactly MinDrySpellDays qualifies as a dry period.
//
// Row order is load-bearing: the scan sorts each group by date before
// running, so callers may pass rows in any order. The scan sees recorded
// days, not calendar days; a gap in the series neither breaks nor extends a
// run, it is simply invisible (an accepted limitation of the input data).
func DrySpells(rows []DailyClimate, p Params) map[GroupKey]DrySpellStats {
	groups := make(map[GroupKey][]DailyClimate)
	for _, row := range rows {
		key := GroupKey{Department: row.Department, Year: row.Year(), Scenario: row.Scenario}
		groups[key] = append(groups[key], row)
	}

	out := make(map[GroupKey]DrySpellStats, len(groups))
	for key, group := range groups {
		sort.Slice(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})
		out[key] = scanDryRuns(group, p)
	}
	return out
}

// scanDryRuns walks one date-ordered group with a running streak length,
// closing the streak on each wet day and at end of input.
func scanDryRuns(group []DailyClimate, p Params) DrySpellStats {
	var stats DrySpellStats
	streak := 0

	closeStreak := func() {
		if streak >= p.MinDrySpellDays {
			stats.PeriodsCount++
		}
		if streak > stats.MaxSpellDays {
			stats.MaxSpellDays = streak
		}
		streak = 0
	}

	for _, day := range group {
		if day.PrecipMM < p.DryDayPrecipMM {
			streak++
			continue
		}
		closeStreak()
	}
	closeStreak()

	return stats
}
