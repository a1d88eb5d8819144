// Package source reads the WHO daily country table from disk.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/covid-dashboard/internal/domain"
	"github.com/xuri/excelize/v2"
)

// Column headers of the WHO file.
const (
	colDate             = "date_reported"
	colCountryCode      = "country_code"
	colCountry          = "country"
	colRegion           = "who_region"
	colNewCases         = "new_cases"
	colCumulativeCases  = "cumulative_cases"
	colNewDeaths        = "new_deaths"
	colCumulativeDeaths = "cumulative_deaths"
)

var requiredColumns = []string{
	colDate, colCountryCode, colCountry, colRegion,
	colNewCases, colCumulativeCases, colNewDeaths, colCumulativeDeaths,
}

// File loads records from a .csv or .xlsx file. It implements
// pipeline.Source.
type File struct {
	path   string
	logger *slog.Logger
}

// NewFile creates a source for the file at path. The format is chosen by
// extension; anything other than .xlsx is read as CSV.
func NewFile(path string, logger *slog.Logger) *File {
	return &File{path: path, logger: logger}
}

// Load opens and parses the file.
func (f *File) Load(ctx context.Context) ([]domain.DailyRegionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	file, err := os.Open(f.path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", f.path, err)
	}
	defer file.Close()

	var records []domain.DailyRegionRecord
	if strings.EqualFold(filepath.Ext(f.path), ".xlsx") {
		records, err = ParseXLSX(file)
	} else {
		records, err = ParseCSV(file)
	}
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", f.path, err)
	}

	f.logger.Info("dataset file read", "path", f.path, "records", len(records))
	return records, nil
}

// ParseCSV parses a comma-separated WHO table with a header row.
func ParseCSV(r io.Reader) ([]domain.DailyRegionRecord, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("read header: file is empty")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var records []domain.DailyRegionRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read line %d: %w", line, err)
		}
		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseXLSX parses the first sheet of a workbook laid out like the CSV.
func ParseXLSX(r io.Reader) ([]domain.DailyRegionRecord, error) {
	wb, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	sheet := wb.GetSheetName(0)
	rows, err := wb.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("read header: sheet %q is empty", sheet)
	}

	idx, err := indexColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.DailyRegionRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// columnIndex maps lower-cased header names to positions.
type columnIndex map[string]int

func indexColumns(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		name := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		idx[name] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing columns: %s", strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRow(row []string, idx columnIndex) (domain.DailyRegionRecord, error) {
	// excelize drops trailing empty cells, so short rows read as blanks.
	field := func(col string) string {
		i := idx[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	date, err := time.Parse(domain.DateLayout, field(colDate))
	if err != nil {
		return domain.DailyRegionRecord{}, fmt.Errorf("parse %s: %w", colDate, err)
	}

	var counts [4]int64
	for i, col := range []string{colNewCases, colCumulativeCases, colNewDeaths, colCumulativeDeaths} {
		n, err := parseCount(field(col))
		if err != nil {
			return domain.DailyRegionRecord{}, fmt.Errorf("parse %s: %w", col, err)
		}
		counts[i] = n
	}

	return domain.DailyRegionRecord{
		Country:          field(colCountry),
		CountryCode:      field(colCountryCode),
		DateReported:     date,
		NewCases:         counts[0],
		CumulativeCases:  counts[1],
		NewDeaths:        counts[2],
		CumulativeDeaths: counts[3],
		Region:           domain.Region(field(colRegion)),
	}, nil
}

// parseCount reads an integer count. Empty cells are zero; spreadsheet
// exports sometimes write whole numbers as "12.0".
func parseCount(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int64(f)) {
		return 0, fmt.Errorf("count %q is not a whole number", s)
	}
	return int64(f), nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
