package planning

import "github.com/alexanderramin/capplan/internal/domain"

// ReportRow is one year of the capital plan.
type ReportRow struct {
	Year         int
	ActualSpend  int
	PlannedSpend int
	TotalSpend   int
}

// BuildReport aggregates every action of every project into one row per
// calendar year from currentYear to currentYear+horizonYears-1.
//
// An action lands in the year of its override date, else its next due date,
// else its completion date. Completed actions with a completion date count as
// actual spend, everything else as planned spend. Actions outside the window
// are ignored. A non-positive horizon uses DefaultHorizonYears.
func BuildReport(projects []*domain.Project, currentYear, horizonYears int) []ReportRow {
	if horizonYears <= 0 {
		horizonYears = DefaultHorizonYears
	}
	rows := make([]ReportRow, horizonYears)
	for i := range rows {
		rows[i].Year = currentYear + i
	}

	for _, p := range projects {
		for i := range p.Actions {
			a := &p.Actions[i]
			d := a.ReportDate()
			if d == nil {
				continue
			}
			idx := d.Year() - currentYear
			if idx < 0 || idx >= horizonYears {
				continue
			}
			if a.Status == domain.ActionCompleted && a.CompletedDate != nil {
				rows[idx].ActualSpend += a.Cost
			} else {
				rows[idx].PlannedSpend += a.Cost
			}
		}
	}

	for i := range rows {
		rows[i].TotalSpend = rows[i].ActualSpend + rows[i].PlannedSpend
	}
	return rows
}

// ReportTotals sums the rows of a report.
func ReportTotals(rows []ReportRow) ReportRow {
	var t ReportRow
	for _, r := range rows {
		t.ActualSpend += r.ActualSpend
		t.PlannedSpend += r.PlannedSpend
		t.TotalSpend += r.TotalSpend
	}
	return t
}

// MaxSpend returns the largest yearly total, used to scale charts.
func MaxSpend(rows []ReportRow) int {
	maxSpend := 0
	for _, r := range rows {
		if r.TotalSpend > maxSpend {
			maxSpend = r.TotalSpend
		}
	}
	return maxSpend
}
