// Package importer reads the CSV tables of a data directory: the reference
// tables loaded on every start and the seed tables imported once into the
// store.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Table file names inside a data directory.
const (
	AssetTypesFile   = "asset-types.csv"
	CostDatabaseFile = "cost-database.csv"
	AssetsFile       = "assets.csv"
	TeamsFile        = "teams.csv"
	RegionsFile      = "regions.csv"
	ProjectsFile     = "projects.csv"
	ActionsFile      = "actions.csv"
	AuditTrailFile   = "audit-trail.csv"
)

// Asset money columns as exported by the asset register.
const (
	ColDirectReplacementCost = "Direct Replacement Cost"
	ColServiceValue          = "Service Value"
)

// ErrMissingTable is returned when a required table file does not exist.
var ErrMissingTable = errors.New("missing table")

// record is one data row keyed by header name. Line is the 1-based line of
// the row in the file.
type record struct {
	Line   int
	fields map[string]string
}

// Get returns the trimmed value of column, or "" when the column is absent.
func (r record) Get(column string) string {
	return strings.TrimSpace(r.fields[column])
}

// First returns the first non-blank value among columns.
func (r record) First(columns ...string) string {
	for _, c := range columns {
		if v := r.Get(c); v != "" {
			return v
		}
	}
	return ""
}

// readTable reads a header-first CSV file. Rows shorter than the header are
// padded with empty values; extra trailing values are ignored.
func readTable(dir, name string) ([]record, error) {
	path := filepath.Join(dir, name)
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, ErrMissingTable)
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()
	return parseTable(f, name)
}

func parseTable(r io.Reader, name string) ([]record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s header: %w", name, err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	var rows []record
	for {
		values, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		line, _ := cr.FieldPos(0)
		rec := record{Line: line, fields: make(map[string]string, len(header))}
		for i, col := range header {
			if i < len(values) {
				rec.fields[col] = values[i]
			} else {
				rec.fields[col] = ""
			}
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// parseFloat parses a numeric cell. Blank or unparsable text yields 0.
func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}

// parseOptionalFloat parses a numeric cell. Blank or unparsable text yields nil.
func parseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// parseInt parses the leading integer of a cell ("12.7" -> 12). Blank or
// unparsable text yields 0.
func parseInt(s string) int {
	n := parseOptionalInt(s)
	if n == nil {
		return 0
	}
	return *n
}

func parseOptionalInt(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return &n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f)
	return &n
}

func parseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// parseTimestamp accepts RFC 3339 timestamps (with or without fractional
// seconds) and bare dates. Blank text yields fallback.
func parseTimestamp(s string, fallback time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t, nil
}
