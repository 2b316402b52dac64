package servicepoints

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/dhivyapriya/sos-guardian/internal/domain/sos"
	"github.com/dhivyapriya/sos-guardian/internal/logger"
)

// WarningKind classifies dataset loading problems. All of them are
// non-fatal: an affected category simply has no table.
type WarningKind string

const (
	// WarningMissingFile means the dataset file does not exist.
	WarningMissingFile WarningKind = "missing_file"
	// WarningEmptyFile means the file parsed but held no data rows.
	WarningEmptyFile WarningKind = "empty_file"
	// WarningMissingColumns means a required column is absent from the header.
	WarningMissingColumns WarningKind = "missing_columns"
	// WarningNoValidRows means every data row failed coercion or had no name.
	WarningNoValidRows WarningKind = "no_valid_rows"
	// WarningReadError covers parse and I/O failures mid-file.
	WarningReadError WarningKind = "read_error"
)

// LoadWarning records one non-fatal problem encountered while loading.
type LoadWarning struct {
	// Category is the dataset the warning applies to.
	Category sos.ServiceCategory
	// Kind classifies the problem.
	Kind WarningKind
	// Message is the human-readable description.
	Message string
}

// DatasetSpec describes how to read one category's tabular file.
type DatasetSpec struct {
	// Category the loaded points belong to.
	Category sos.ServiceCategory
	// Path to the CSV or XLSX file.
	Path string
	// LatColumn, LonColumn and NameColumn are the required header names.
	LatColumn  string
	LonColumn  string
	NameColumn string
	// AddressColumns are optional header names probed in order for a
	// display address.
	AddressColumns []string
}

// HospitalSpec returns the dataset spec for the hospital file, whose
// header uses `Latitude`, `Longitude` and an `id` name column.
func HospitalSpec(path string) DatasetSpec {
	return DatasetSpec{
		Category:       sos.CategoryHospital,
		Path:           path,
		LatColumn:      "Latitude",
		LonColumn:      "Longitude",
		NameColumn:     "id",
		AddressColumns: []string{"Address", "address", "Location"},
	}
}

// PoliceSpec returns the dataset spec for the police-station file, whose
// header uses `lat`, `lng` and `name`.
func PoliceSpec(path string) DatasetSpec {
	return DatasetSpec{
		Category:       sos.CategoryPolice,
		Path:           path,
		LatColumn:      "lat",
		LonColumn:      "lng",
		NameColumn:     "name",
		AddressColumns: []string{"address", "Address"},
	}
}

// Store holds the loaded tables for the process lifetime. Tables are
// immutable after Load and safe for concurrent read-only use.
type Store struct {
	// tables maps category to its loaded table; absent categories are nil.
	tables map[sos.ServiceCategory]*sos.ServiceTable
	// warnings accumulated while loading.
	warnings []LoadWarning
}

// Load reads both datasets once and returns the shared store. It never
// fails: any combination of missing or broken files yields a store with
// absent tables and the corresponding warnings.
func Load(ctx context.Context, specs ...DatasetSpec) *Store {
	s := &Store{
		tables: make(map[sos.ServiceCategory]*sos.ServiceTable, len(specs)),
	}

	for _, spec := range specs {
		table, warnings := loadTable(spec)
		s.tables[spec.Category] = table
		s.warnings = append(s.warnings, warnings...)

		for _, w := range warnings {
			logger.WarnKV(ctx, "Dataset loading problem",
				"category", w.Category, "kind", w.Kind, "message", w.Message)
		}

		if table != nil {
			logger.InfoKV(ctx, "Dataset loaded",
				"category", spec.Category, "points", len(table.Points), "path", spec.Path)
		}
	}

	return s
}

// Table returns the loaded table for the category, or nil when absent.
func (s *Store) Table(category sos.ServiceCategory) *sos.ServiceTable {
	return s.tables[category]
}

// Warnings returns the problems recorded while loading.
func (s *Store) Warnings() []LoadWarning {
	return s.warnings
}

// loadTable reads one dataset file into a table.
func loadTable(spec DatasetSpec) (*sos.ServiceTable, []LoadWarning) {
	warn := func(kind WarningKind, format string, args ...any) []LoadWarning {
		return []LoadWarning{{
			Category: spec.Category,
			Kind:     kind,
			Message:  fmt.Sprintf(format, args...),
		}}
	}

	if _, err := os.Stat(spec.Path); errors.Is(err, os.ErrNotExist) {
		return nil, warn(WarningMissingFile,
			"%s dataset file not found: %s", spec.Category.DisplayName(), filepath.Base(spec.Path))
	}

	rows, err := readRows(spec.Path)
	if err != nil {
		return nil, warn(WarningReadError,
			"error reading %s dataset (%s): %v", spec.Category.DisplayName(), filepath.Base(spec.Path), err)
	}

	if len(rows) < 2 {
		return nil, warn(WarningEmptyFile,
			"%s dataset file is empty: %s", spec.Category.DisplayName(), filepath.Base(spec.Path))
	}

	columns := headerIndex(rows[0])

	var missing []string

	for _, required := range []string{spec.LatColumn, spec.LonColumn, spec.NameColumn} {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}

	if len(missing) > 0 {
		return nil, warn(WarningMissingColumns,
			"%s dataset (%s) missing essential columns: %s",
			spec.Category.DisplayName(), filepath.Base(spec.Path), strings.Join(missing, ", "))
	}

	addressColumn := -1

	for _, candidate := range spec.AddressColumns {
		if idx, ok := columns[candidate]; ok {
			addressColumn = idx
			break
		}
	}

	points := make([]sos.ServicePoint, 0, len(rows)-1)

	for _, row := range rows[1:] {
		lat, okLat := parseCoordinate(cell(row, columns[spec.LatColumn]))
		lon, okLon := parseCoordinate(cell(row, columns[spec.LonColumn]))
		name := strings.TrimSpace(cell(row, columns[spec.NameColumn]))

		// Rows failing numeric coercion or lacking a name are dropped,
		// mirroring the cleaning step the datasets were designed around.
		if !okLat || !okLon || name == "" {
			continue
		}

		point := sos.ServicePoint{
			Category:  spec.Category,
			Name:      name,
			Latitude:  lat,
			Longitude: lon,
		}
		if addressColumn >= 0 {
			point.Address = strings.TrimSpace(cell(row, addressColumn))
		}

		points = append(points, point)
	}

	if len(points) == 0 {
		return nil, warn(WarningNoValidRows,
			"%s dataset became empty after dropping rows with invalid coordinates or missing names",
			spec.Category.DisplayName())
	}

	return &sos.ServiceTable{Category: spec.Category, Points: points}, nil
}

// readRows loads the raw cell grid, dispatching on the file extension:
// .xlsx/.xlsm via excelize, everything else as CSV.
func readRows(path string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return readExcelRows(path)
	default:
		return readCSVRows(path)
	}
}

func readExcelRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	//nolint:errcheck // Nothing useful to do with a close error on a reader.
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("read sheet: %w", err)
	}

	return rows, nil
}

func readCSVRows(path string) ([][]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	//nolint:errcheck // Nothing useful to do with a close error on a reader.
	defer f.Close()

	reader := csv.NewReader(f)
	// Ragged rows are tolerated; short rows read as empty cells.
	reader.FieldsPerRecord = -1

	var rows [][]string

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, fmt.Errorf("parse CSV: %w", err)
		}

		rows = append(rows, record)
	}

	return rows, nil
}

// headerIndex maps trimmed header names to their column positions.
func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}

	return index
}

// cell safely reads a column from a possibly-short row.
func cell(row []string, column int) string {
	if column < 0 || column >= len(row) {
		return ""
	}

	return row[column]
}

// parseCoordinate coerces a cell to a float, tolerating surrounding
// whitespace and decimal commas.
func parseCoordinate(raw string) (float64, bool) {
	raw = strings.TrimSpace(strings.ReplaceAll(raw, ",", "."))
	if raw == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}

	return v, true
}
