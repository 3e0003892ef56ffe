// Package parquetio reads the silver daily-climate table and writes the four
// gold tables in parquet. Column names follow the silver/gold naming of the
// upstream lakehouse (nom_dep, temp_mean, dry_periods_count, ...).
package parquetio

import (
	"time"

	"github.com/agroclim/yield-etl/internal/domain"
)

// climateRow is the parquet shape of one silver daily-climate record.
type climateRow struct {
	Department string  `parquet:"name=nom_dep, type=BYTE_ARRAY, convertedtype=UTF8"`
	Time       int64   `parquet:"name=time, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Scenario   string  `parquet:"name=scenario, type=BYTE_ARRAY, convertedtype=UTF8"`
	TempMean   float64 `parquet:"name=temp_mean, type=DOUBLE"`
	TempMax    float64 `parquet:"name=temp_max, type=DOUBLE"`
	Precip     float64 `parquet:"name=precip, type=DOUBLE"`
}

func (r climateRow) toDomain() domain.DailyClimate {
	return domain.DailyClimate{
		Department: r.Department,
		Date:       time.UnixMilli(r.Time).UTC(),
		Scenario:   domain.Scenario(r.Scenario),
		TempMeanK:  r.TempMean,
		TempMaxK:   r.TempMax,
		PrecipMM:   r.Precip,
	}
}

func climateRowFrom(d domain.DailyClimate) climateRow {
	return climateRow{
		Department: d.Department,
		Time:       d.Date.UnixMilli(),
		Scenario:   string(d.Scenario),
		TempMean:   d.TempMeanK,
		TempMax:    d.TempMaxK,
		Precip:     d.PrecipMM,
	}
}

// featureRow is the parquet shape of one gold feature row. Nullable feature
// columns are OPTIONAL so readers see true nulls, not sentinel zeros.
type featureRow struct {
	Department string `parquet:"name=nom_dep, type=BYTE_ARRAY, convertedtype=UTF8"`
	Year       int32  `parquet:"name=year, type=INT32"`
	Scenario   string `parquet:"name=scenario, type=BYTE_ARRAY, convertedtype=UTF8"`

	TempMeanGrowing    *float64 `parquet:"name=temp_mean_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempMinGrowing     *float64 `parquet:"name=temp_min_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempMaxGrowing     *float64 `parquet:"name=temp_max_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempStdGrowing     *float64 `parquet:"name=temp_std_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempMeanNonGrowing *float64 `parquet:"name=temp_mean_non_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempMinNonGrowing  *float64 `parquet:"name=temp_min_non_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempMaxNonGrowing  *float64 `parquet:"name=temp_max_non_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempStdNonGrowing  *float64 `parquet:"name=temp_std_non_growing, type=DOUBLE, repetitiontype=OPTIONAL"`

	TotalPrecipGrowing    *float64 `parquet:"name=total_precip_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TotalPrecipNonGrowing *float64 `parquet:"name=total_precip_non_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	WinterPrecipTotal     *float64 `parquet:"name=winter_precip_total, type=DOUBLE, repetitiontype=OPTIONAL"`

	DryPeriodsCount int32 `parquet:"name=dry_periods_count, type=INT32"`
	MaxDrySpellDays int32 `parquet:"name=max_dry_spell_days, type=INT32"`

	FreezeDaysCount    int32 `parquet:"name=freeze_days_count, type=INT32"`
	HeatDaysCount      int32 `parquet:"name=heat_days_count, type=INT32"`
	HeavyRainDaysCount int32 `parquet:"name=heavy_rain_days_count, type=INT32"`
}

func featureRowFrom(f domain.FeatureRow) featureRow {
	return featureRow{
		Department: f.Department,
		Year:       int32(f.Year),
		Scenario:   string(f.Scenario),

		TempMeanGrowing:    f.TempMeanGrowing,
		TempMinGrowing:     f.TempMinGrowing,
		TempMaxGrowing:     f.TempMaxGrowing,
		TempStdGrowing:     f.TempStdGrowing,
		TempMeanNonGrowing: f.TempMeanNonGrowing,
		TempMinNonGrowing:  f.TempMinNonGrowing,
		TempMaxNonGrowing:  f.TempMaxNonGrowing,
		TempStdNonGrowing:  f.TempStdNonGrowing,

		TotalPrecipGrowing:    f.TotalPrecipGrowing,
		TotalPrecipNonGrowing: f.TotalPrecipNonGrowing,
		WinterPrecipTotal:     f.WinterPrecipTotal,

		DryPeriodsCount: int32(f.DryPeriodsCount),
		MaxDrySpellDays: int32(f.MaxDrySpellDays),

		FreezeDaysCount:    int32(f.FreezeDaysCount),
		HeatDaysCount:      int32(f.HeatDaysCount),
		HeavyRainDaysCount: int32(f.HeavyRainDaysCount),
	}
}

func (r featureRow) toDomain() domain.FeatureRow {
	return domain.FeatureRow{
		Department: r.Department,
		Year:       int(r.Year),
		Scenario:   domain.Scenario(r.Scenario),

		TempMeanGrowing:    r.TempMeanGrowing,
		TempMinGrowing:     r.TempMinGrowing,
		TempMaxGrowing:     r.TempMaxGrowing,
		TempStdGrowing:     r.TempStdGrowing,
		TempMeanNonGrowing: r.TempMeanNonGrowing,
		TempMinNonGrowing:  r.TempMinNonGrowing,
		TempMaxNonGrowing:  r.TempMaxNonGrowing,
		TempStdNonGrowing:  r.TempStdNonGrowing,

		TotalPrecipGrowing:    r.TotalPrecipGrowing,
		TotalPrecipNonGrowing: r.TotalPrecipNonGrowing,
		WinterPrecipTotal:     r.WinterPrecipTotal,

		DryPeriodsCount: int(r.DryPeriodsCount),
		MaxDrySpellDays: int(r.MaxDrySpellDays),

		FreezeDaysCount:    int(r.FreezeDaysCount),
		HeatDaysCount:      int(r.HeatDaysCount),
		HeavyRainDaysCount: int(r.HeavyRainDaysCount),
	}
}

// labeledRow extends featureRow with the yield label for the training and
// validation tables. Fields are spelled out rather than embedded because the
// parquet writer does not flatten embedded structs. Yield stays OPTIONAL:
// unlabeled rows can flow through.
type labeledRow struct {
	Department string `parquet:"name=nom_dep, type=BYTE_ARRAY, convertedtype=UTF8"`
	Year       int32  `parquet:"name=year, type=INT32"`
	Scenario   string `parquet:"name=scenario, type=BYTE_ARRAY, convertedtype=UTF8"`

	TempMeanGrowing    *float64 `parquet:"name=temp_mean_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempMinGrowing     *float64 `parquet:"name=temp_min_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempMaxGrowing     *float64 `parquet:"name=temp_max_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempStdGrowing     *float64 `parquet:"name=temp_std_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempMeanNonGrowing *float64 `parquet:"name=temp_mean_non_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempMinNonGrowing  *float64 `parquet:"name=temp_min_non_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempMaxNonGrowing  *float64 `parquet:"name=temp_max_non_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TempStdNonGrowing  *float64 `parquet:"name=temp_std_non_growing, type=DOUBLE, repetitiontype=OPTIONAL"`

	TotalPrecipGrowing    *float64 `parquet:"name=total_precip_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	TotalPrecipNonGrowing *float64 `parquet:"name=total_precip_non_growing, type=DOUBLE, repetitiontype=OPTIONAL"`
	WinterPrecipTotal     *float64 `parquet:"name=winter_precip_total, type=DOUBLE, repetitiontype=OPTIONAL"`

	DryPeriodsCount int32 `parquet:"name=dry_periods_count, type=INT32"`
	MaxDrySpellDays int32 `parquet:"name=max_dry_spell_days, type=INT32"`

	FreezeDaysCount    int32 `parquet:"name=freeze_days_count, type=INT32"`
	HeatDaysCount      int32 `parquet:"name=heat_days_count, type=INT32"`
	HeavyRainDaysCount int32 `parquet:"name=heavy_rain_days_count, type=INT32"`

	Yield *float64 `parquet:"name=yield, type=DOUBLE, repetitiontype=OPTIONAL"`
}

func labeledRowFrom(l domain.LabeledRow) labeledRow {
	f := featureRowFrom(l.FeatureRow)
	return labeledRow{
		Department: f.Department,
		Year:       f.Year,
		Scenario:   f.Scenario,

		TempMeanGrowing:    f.TempMeanGrowing,
		TempMinGrowing:     f.TempMinGrowing,
		TempMaxGrowing:     f.TempMaxGrowing,
		TempStdGrowing:     f.TempStdGrowing,
		TempMeanNonGrowing: f.TempMeanNonGrowing,
		TempMinNonGrowing:  f.TempMinNonGrowing,
		TempMaxNonGrowing:  f.TempMaxNonGrowing,
		TempStdNonGrowing:  f.TempStdNonGrowing,

		TotalPrecipGrowing:    f.TotalPrecipGrowing,
		TotalPrecipNonGrowing: f.TotalPrecipNonGrowing,
		WinterPrecipTotal:     f.WinterPrecipTotal,

		DryPeriodsCount: f.DryPeriodsCount,
		MaxDrySpellDays: f.MaxDrySpellDays,

		FreezeDaysCount:    f.FreezeDaysCount,
		HeatDaysCount:      f.HeatDaysCount,
		HeavyRainDaysCount: f.HeavyRainDaysCount,

		Yield: l.YieldTHa,
	}
}

func (r labeledRow) toDomain() domain.LabeledRow {
	f := featureRow{
		Department: r.Department,
		Year:       r.Year,
		Scenario:   r.Scenario,

		TempMeanGrowing:    r.TempMeanGrowing,
		TempMinGrowing:     r.TempMinGrowing,
		TempMaxGrowing:     r.TempMaxGrowing,
		TempStdGrowing:     r.TempStdGrowing,
		TempMeanNonGrowing: r.TempMeanNonGrowing,
		TempMinNonGrowing:  r.TempMinNonGrowing,
		TempMaxNonGrowing:  r.TempMaxNonGrowing,
		TempStdNonGrowing:  r.TempStdNonGrowing,

		TotalPrecipGrowing:    r.TotalPrecipGrowing,
		TotalPrecipNonGrowing: r.TotalPrecipNonGrowing,
		WinterPrecipTotal:     r.WinterPrecipTotal,

		DryPeriodsCount: r.DryPeriodsCount,
		MaxDrySpellDays: r.MaxDrySpellDays,

		FreezeDaysCount:    r.FreezeDaysCount,
		HeatDaysCount:      r.HeatDaysCount,
		HeavyRainDaysCount: r.HeavyRainDaysCount,
	}
	return domain.LabeledRow{FeatureRow: f.toDomain(), YieldTHa: r.Yield}
}
