// Package csvio ingests the raw semicolon-delimited barley yield file.
package csvio

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/agroclim/yield-etl/internal/domain"
)

// Required columns in the raw yield file. The source carries extras (an
// unnamed index column among them) which are ignored.
var requiredColumns = []string{"department", "year", "yield", "area", "production"}

// YieldReader reads the raw yield CSV. It implements pipeline.YieldExtractor.
type YieldReader struct {
	path   string
	logger *slog.Logger
}

// NewYieldReader creates a reader for the raw yield file at path.
func NewYieldReader(path string, logger *slog.Logger) *YieldReader {
	return &YieldReader{path: path, logger: logger}
}

// ExtractYields parses the whole file. Header problems are collected into a
// single error naming every missing column, so one failed run reports the
// full schema violation rather than the first column found.
func (r *YieldReader) ExtractYields(ctx context.Context) ([]domain.YieldRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("open yield file %s: %w", r.path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = ';'
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // trailing columns vary between exports

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read yield header %s: %w", r.path, err)
	}

	cols, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var rows []domain.YieldRecord
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read yield file %s: %w", r.path, err)
		}
		line++

		row, err := parseYieldRow(record, cols)
		if err != nil {
			return nil, fmt.Errorf("yield file %s line %d: %w", r.path, line, err)
		}
		rows = append(rows, row)
	}

	r.logger.Info("yield file loaded", "path", r.path, "rows", len(rows))
	return rows, nil
}

// indexColumns maps required column names to their positions, normalizing
// headers to lowercase with underscores the way the upstream cleaning does.
func indexColumns(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		name = strings.ReplaceAll(name, " ", "_")
		cols[name] = i
	}

	var errs *multierror.Error
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			errs = multierror.Append(errs, fmt.Errorf("missing column %q", name))
		}
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("yield header: %w", err)
	}
	return cols, nil
}

func parseYieldRow(record []string, cols map[string]int) (domain.YieldRecord, error) {
	department := strings.TrimSpace(field(record, cols["department"]))
	if department == "" {
		return domain.YieldRecord{}, fmt.Errorf("empty department")
	}

	year, err := strconv.Atoi(strings.TrimSpace(field(record, cols["year"])))
	if err != nil {
		return domain.YieldRecord{}, fmt.Errorf("bad year %q", field(record, cols["year"]))
	}

	yieldVal, err := optionalFloat(field(record, cols["yield"]))
	if err != nil {
		return domain.YieldRecord{}, fmt.Errorf("bad yield: %w", err)
	}
	area, err := optionalFloat(field(record, cols["area"]))
	if err != nil {
		return domain.YieldRecord{}, fmt.Errorf("bad area: %w", err)
	}
	production, err := optionalFloat(field(record, cols["production"]))
	if err != nil {
		return domain.YieldRecord{}, fmt.Errorf("bad production: %w", err)
	}

	return domain.YieldRecord{
		Department:  department,
		Year:        year,
		YieldTHa:    yieldVal,
		AreaHa:      area,
		ProductionT: production,
	}, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}

// optionalFloat parses a numeric field where empty means null. The source
// uses comma decimal separators in some exports; both are accepted.
func optionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	return &v, nil
}
