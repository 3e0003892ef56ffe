package domain

// WinterPrecipTotals sums precipitation over the winter window, keyed by the
// growing-season year the winter precedes (see Params.WinterLabelYear). The
// value approximates soil moisture reserves available when the growing season
// opens in spring.
//
// Groups with no winter rows are simply absent from the result; the assembler
// leaves their winter lag null. The first year of a series has no preceding
// September-December block and typically only a partial total or none at all.
func WinterPrecipTotals(rows []DailyClimate, p Params) map[GroupKey]float64 {
	totals := make(map[GroupKey]float64)
	for _, row := range rows {
		labelYear, ok := p.WinterLabelYear(row.Date)
		if !ok {
			continue
		}
		key := GroupKey{Department: row.Department, Year: labelYear, Scenario: row.Scenario}
		totals[key] += row.PrecipMM
	}
	return totals
}
