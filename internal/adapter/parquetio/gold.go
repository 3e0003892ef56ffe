package parquetio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/agroclim/yield-etl/internal/domain"
)

// Gold output file names inside the gold directory.
const (
	ClimateFeaturesFile = "climate_features.parquet"
	TrainingFile        = "training.parquet"
	ValidationFile      = "validation.parquet"
	ScenariosFile       = "scenarios.parquet"
)

// GoldWriter writes the four gold tables. It implements pipeline.Loader.
//
// Writes are atomic at run granularity: all tables are staged into a
// temporary directory and renamed into place only after every one of them
// was written, so a failed run never clobbers the previous outputs.
type GoldWriter struct {
	dir    string
	logger *slog.Logger
}

// NewGoldWriter creates a writer rooted at the gold output directory.
func NewGoldWriter(dir string, logger *slog.Logger) *GoldWriter {
	return &GoldWriter{dir: dir, logger: logger}
}

// LoadGold stages and publishes the four output tables.
func (w *GoldWriter) LoadGold(ctx context.Context, features []domain.FeatureRow, ds domain.Datasets) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create gold dir %s: %w", w.dir, err)
	}

	staging, err := os.MkdirTemp(w.dir, ".staging-*")
	if err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	featureRows := make([]featureRow, len(features))
	for i, f := range features {
		featureRows[i] = featureRowFrom(f)
	}
	scenarioRows := make([]featureRow, len(ds.Scenarios))
	for i, f := range ds.Scenarios {
		scenarioRows[i] = featureRowFrom(f)
	}
	trainingRows := make([]labeledRow, len(ds.Training))
	for i, l := range ds.Training {
		trainingRows[i] = labeledRowFrom(l)
	}
	validationRows := make([]labeledRow, len(ds.Validation))
	for i, l := range ds.Validation {
		validationRows[i] = labeledRowFrom(l)
	}

	if err := writeTable(filepath.Join(staging, ClimateFeaturesFile), featureRows); err != nil {
		return err
	}
	if err := writeTable(filepath.Join(staging, TrainingFile), trainingRows); err != nil {
		return err
	}
	if err := writeTable(filepath.Join(staging, ValidationFile), validationRows); err != nil {
		return err
	}
	if err := writeTable(filepath.Join(staging, ScenariosFile), scenarioRows); err != nil {
		return err
	}

	for _, name := range []string{ClimateFeaturesFile, TrainingFile, ValidationFile, ScenariosFile} {
		if err := os.Rename(filepath.Join(staging, name), filepath.Join(w.dir, name)); err != nil {
			return fmt.Errorf("publish %s: %w", name, err)
		}
	}

	w.logger.Info("gold tables written",
		"dir", w.dir,
		"climate_features", len(featureRows),
		"training", len(trainingRows),
		"validation", len(validationRows),
		"scenarios", len(scenarioRows),
	)
	return nil
}

// writeTable writes one parquet table of row type T.
func writeTable[T any](path string, rows []T) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create table %s: %w", path, err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(T), readParallelism)
	if err != nil {
		return fmt.Errorf("create writer %s: %w", path, err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range rows {
		if err := pw.Write(row); err != nil {
			return fmt.Errorf("write row to %s: %w", path, err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finalize table %s: %w", path, err)
	}
	return nil
}

// readTable reads a whole parquet table of row type T, used by cmd/validate
// and tests.
func readTable[T any](path string) ([]T, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("open table %s: %w", path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(T), readParallelism)
	if err != nil {
		return nil, fmt.Errorf("read schema %s: %w", path, err)
	}
	defer pr.ReadStop()

	rows := make([]T, int(pr.GetNumRows()))
	if err := pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("read rows %s: %w", path, err)
	}
	return rows, nil
}

// ReadFeatures reads a climate_features or scenarios table back into domain rows.
func ReadFeatures(path string) ([]domain.FeatureRow, error) {
	rows, err := readTable[featureRow](path)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FeatureRow, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}

// ReadLabeled reads a training or validation table back into domain rows.
func ReadLabeled(path string) ([]domain.LabeledRow, error) {
	rows, err := readTable[labeledRow](path)
	if err != nil {
		return nil, err
	}
	out := make([]domain.LabeledRow, len(rows))
	for i, r := range rows {
		out[i] = r.toDomain()
	}
	return out, nil
}
