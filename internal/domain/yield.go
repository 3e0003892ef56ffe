package domain

// Coverage records which departments and years the historical climate series
// actually observes. Yield rows outside that coverage cannot be paired with
// features and are dropped during cleaning.
type Coverage struct {
	Departments map[string]bool
	Years       map[int]bool
}

// HistoricalCoverage collects the department and year sets of the historical
// scenario from the daily climate table.
func HistoricalCoverage(rows []DailyClimate) Coverage {
	cov := Coverage{
		Departments: make(map[string]bool),
		Years:       make(map[int]bool),
	}
	for _, row := range rows {
		if !row.Scenario.IsHistorical() {
			continue
		}
		cov.Departments[row.Department] = true
		cov.Years[row.Year()] = true
	}
	return cov
}

// ImputeYield fills a nil yield from production/area when both are present
// and the area is positive. Rows that stay nil are not an error here; they
// flow downstream as unlabeled. Returns the record unchanged when the yield
// is already set or unrecoverable.
func ImputeYield(r YieldRecord) YieldRecord {
	if r.YieldTHa != nil {
		return r
	}
	if r.ProductionT == nil || r.AreaHa == nil || *r.AreaHa <= 0 {
		return r
	}
	r.YieldTHa = Float64Ptr(*r.ProductionT / *r.AreaHa)
	return r
}

// CleanYields imputes recoverable yields and restricts the table to
// department-years covered by the historical climate series. One record per
// (department, year) is assumed from the source. The second return value is
// the number of yields recovered by imputation.
func CleanYields(rows []YieldRecord, cov Coverage) ([]YieldRecord, int) {
	imputed := 0
	out := make([]YieldRecord, 0, len(rows))
	for _, r := range rows {
		if !cov.Departments[r.Department] || !cov.Years[r.Year] {
			continue
		}
		kept := ImputeYield(r)
		if r.YieldTHa == nil && kept.YieldTHa != nil {
			imputed++
		}
		out = append(out, kept)
	}
	return out, imputed
}
