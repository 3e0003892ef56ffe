package parquetio

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/reader"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/agroclim/yield-etl/internal/domain"
)

// readParallelism bounds the parquet reader/writer goroutine pools. The
// tables are a few thousand rows; more buys nothing.
const readParallelism = 4

// ClimateReader reads the silver daily-climate parquet table.
// It implements pipeline.ClimateExtractor.
type ClimateReader struct {
	path   string
	logger *slog.Logger
}

// NewClimateReader creates a reader for the silver climate table at path.
func NewClimateReader(path string, logger *slog.Logger) *ClimateReader {
	return &ClimateReader{path: path, logger: logger}
}

// ExtractClimate loads the whole table into memory. A missing or misshapen
// file is a schema violation for the run: there is no partial result.
func (r *ClimateReader) ExtractClimate(ctx context.Context) ([]domain.DailyClimate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fr, err := local.NewLocalFileReader(r.path)
	if err != nil {
		return nil, fmt.Errorf("open climate table %s: %w", r.path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(climateRow), readParallelism)
	if err != nil {
		return nil, fmt.Errorf("read climate schema %s: %w", r.path, err)
	}
	defer pr.ReadStop()

	num := int(pr.GetNumRows())
	rows := make([]climateRow, num)
	if err := pr.Read(&rows); err != nil {
		return nil, fmt.Errorf("read climate rows %s: %w", r.path, err)
	}

	out := make([]domain.DailyClimate, len(rows))
	for i, row := range rows {
		out[i] = row.toDomain()
	}

	r.logger.Info("climate table loaded", "path", r.path, "rows", len(out))
	return out, nil
}

// WriteClimate writes a daily-climate table, used by the mock-data generator
// and round-trip tests.
func WriteClimate(path string, rows []domain.DailyClimate) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return fmt.Errorf("create climate table %s: %w", path, err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(climateRow), readParallelism)
	if err != nil {
		return fmt.Errorf("create climate writer %s: %w", path, err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, row := range rows {
		if err := pw.Write(climateRowFrom(row)); err != nil {
			return fmt.Errorf("write climate row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("finalize climate table %s: %w", path, err)
	}
	return nil
}
