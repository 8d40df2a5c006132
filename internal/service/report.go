package service

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/capplan/internal/export"
	"github.com/alexanderramin/capplan/internal/planning"
)

// CapitalPlan is the year-by-year spend report over the planning horizon.
type CapitalPlan struct {
	Rows         []planning.ReportRow
	Totals       planning.ReportRow
	MaxSpend     int
	StartYear    int
	HorizonYears int
}

// CapitalPlan builds the spend report starting at the current year.
func (s *PlanService) CapitalPlan() CapitalPlan {
	start := s.now().Year()
	horizon := s.planner.HorizonYears()
	rows := planning.BuildReport(s.state.Projects, start, horizon)
	return CapitalPlan{
		Rows:         rows,
		Totals:       planning.ReportTotals(rows),
		MaxSpend:     planning.MaxSpend(rows),
		StartYear:    start,
		HorizonYears: horizon,
	}
}

// ExportActions writes every action of every project as CSV and returns the
// number of rows written.
func (s *PlanService) ExportActions(ctx context.Context, w io.Writer) (n int, err error) {
	fields := map[string]any{}
	done := s.track(ctx, "export-actions", fields)
	defer func() { done(err) }()

	rows := export.BuildRows(s.state.Projects, s.ref)
	if err := export.WriteActionsCSV(w, rows); err != nil {
		return 0, fmt.Errorf("exporting actions: %w", err)
	}
	fields["rows"] = len(rows)
	return len(rows), nil
}
