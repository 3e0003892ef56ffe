package domain

// Datasets holds the three derived views of the assembled feature table.
// Each partition is disposable: always recomputable from the feature table
// plus the yield table, never a source of truth.
type Datasets struct {
	Training   []LabeledRow
	Validation []LabeledRow
	Scenarios  []FeatureRow
}

// yieldKey joins yield records to historical feature rows.
type yieldKey struct {
	Department string
	Year       int
}

// SplitDatasets partitions feature rows by scenario and year.
//
// Historical rows join with the yield table on (department, year): years at
// or below ValidationCutoffYear go to training, later years to validation.
// Rows without a matching yield record are dropped from both (the label is
// what those partitions exist for). Non-historical rows form the scenarios
// partition with no yield join, regardless of year.
func SplitDatasets(features []FeatureRow, yields []YieldRecord, p Params) Datasets {
	labels := make(map[yieldKey]*float64, len(yields))
	for _, y := range yields {
		labels[yieldKey{Department: y.Department, Year: y.Year}] = y.YieldTHa
	}

	var ds Datasets
	for _, row := range features {
		if !row.Scenario.IsHistorical() {
			ds.Scenarios = append(ds.Scenarios, row)
			continue
		}

		label, ok := labels[yieldKey{Department: row.Department, Year: row.Year}]
		if !ok {
			continue
		}
		labeled := LabeledRow{FeatureRow: row, YieldTHa: label}
		if row.Year <= p.ValidationCutoffYear {
			ds.Training = append(ds.Training, labeled)
		} else {
			ds.Validation = append(ds.Validation, labeled)
		}
	}
	return ds
}
