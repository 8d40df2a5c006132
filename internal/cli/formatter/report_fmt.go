package formatter

import (
	"fmt"
	"strconv"

	"github.com/alexanderramin/capplan/internal/planning"
)

const spendBarWidth = 30

// FormatCapitalPlan renders the yearly spend table with a bar per year.
func FormatCapitalPlan(rows []planning.ReportRow, totals planning.ReportRow, maxSpend int) string {
	headers := []string{"YEAR", "ACTUAL", "PLANNED", "TOTAL", ""}
	out := make([][]string, 0, len(rows)+1)
	for _, r := range rows {
		out = append(out, []string{
			strconv.Itoa(r.Year),
			Money(r.ActualSpend),
			Money(r.PlannedSpend),
			Bold(Money(r.TotalSpend)),
			RenderSpendBar(r.ActualSpend, r.PlannedSpend, maxSpend, spendBarWidth),
		})
	}
	out = append(out, []string{
		StyleHeader.Render("TOTAL"),
		Money(totals.ActualSpend),
		Money(totals.PlannedSpend),
		Bold(Money(totals.TotalSpend)),
		"",
	})

	title := "Capital plan"
	if len(rows) > 0 {
		title = fmt.Sprintf("Capital plan %d-%d", rows[0].Year, rows[len(rows)-1].Year)
	}
	legend := StyleGreen.Render(filledBlock) + Dim(" actual  ") + StyleBlue.Render(filledBlock) + Dim(" planned")
	return RenderBox(title, RenderTable(headers, out, 1, 2, 3)+"\n"+legend)
}
