package importer

import (
	"fmt"
	"log/slog"
)

// SkippedRow is a data row that was not loaded.
type SkippedRow struct {
	Table  string
	Line   int
	Reason string
}

func (s SkippedRow) String() string {
	return fmt.Sprintf("%s:%d: %s", s.Table, s.Line, s.Reason)
}

// LoadReport lists what a load dropped or had to repair.
type LoadReport struct {
	Skipped []SkippedRow
	// Diagnostics are repairs that kept the row, such as a legacy action
	// carrying both an asset and a planned asset name.
	Diagnostics []string
}

// HasProblems reports whether any row was skipped or repaired.
func (r *LoadReport) HasProblems() bool {
	return len(r.Skipped) > 0 || len(r.Diagnostics) > 0
}

type reporter struct {
	logger *slog.Logger
	report *LoadReport
}

func newReporter(logger *slog.Logger) *reporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &reporter{logger: logger, report: &LoadReport{}}
}

func (r *reporter) skip(table string, line int, format string, args ...any) {
	row := SkippedRow{Table: table, Line: line, Reason: fmt.Sprintf(format, args...)}
	r.report.Skipped = append(r.report.Skipped, row)
	r.logger.Warn("skipping row", "table", row.Table, "line", row.Line, "reason", row.Reason)
}

func (r *reporter) diagnose(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.report.Diagnostics = append(r.report.Diagnostics, msg)
	r.logger.Warn("data diagnostic", "detail", msg)
}
