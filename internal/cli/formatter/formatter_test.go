package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planning"
	"github.com/alexanderramin/capplan/internal/refdata"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestMoney(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "$0"},
		{999, "$999"},
		{1000, "$1,000"},
		{1234567, "$1,234,567"},
		{-45000, "-$45,000"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Money(tt.in))
	}
	assert.Equal(t, "$12,501", MoneyDecimal(decimal.RequireFromString("12500.5")))
}

func TestUnitCost(t *testing.T) {
	assert.Equal(t, "$120 / Each", UnitCost(120, "Each"))
	assert.Equal(t, "$2.50 / m2", UnitCost(2.5, "m2"))
	assert.Equal(t, "$1,500", UnitCost(1500, ""))
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := RenderTable(
		[]string{"NAME", "COST"},
		[][]string{
			{StyleGreen.Render("Prune"), "$120"},
			{"Remove", "$9,000"},
		},
		1,
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Equal(t, lipgloss.Width(lines[2]), lipgloss.Width(lines[3]), "rows share one visible width")
	assert.True(t, strings.HasSuffix(lines[2], "  $120"), "amounts are right-aligned: %q", lines[2])
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderProgress(t *testing.T) {
	assert.Contains(t, RenderProgress(50, 10), " 50%")
	assert.Contains(t, RenderProgress(250, 10), "100%")
	assert.Contains(t, RenderProgress(-5, 10), "  0%")
	assert.Equal(t, 10, strings.Count(RenderProgress(50, 10), filledBlock)+strings.Count(RenderProgress(50, 10), emptyBlock))
}

func TestRenderSpendBar(t *testing.T) {
	assert.Empty(t, RenderSpendBar(10, 10, 0, 20))
	bar := RenderSpendBar(50, 50, 100, 20)
	assert.Equal(t, 20, strings.Count(bar, filledBlock))
	assert.Equal(t, 5, strings.Count(RenderSpendBar(0, 25, 100, 20), filledBlock))
}

func TestRenderTree(t *testing.T) {
	out := RenderTree([]TreeItem{
		{Title: "Trees", Branch: true, Expanded: true},
		{Title: "Oak Tree", Level: 1, Branch: true, IsLast: true},
		{Title: "Prune", Level: 2, IsLast: true, Detail: "$120 / Each"},
	})
	assert.Contains(t, out, "▾ Trees")
	assert.Contains(t, out, "└─ ▸ Oak Tree")
	assert.Contains(t, out, "│  └─ Prune")
	assert.Contains(t, out, "[ $120 / Each ]")
	assert.Empty(t, RenderTree(nil))
}

func TestFormatCatalog(t *testing.T) {
	catalog := refdata.NewCatalog([]domain.CatalogEntry{
		{Path: domain.ActionPath{Class: "Trees", Type: "Oak Tree", Name: "Prune"}, Cost: 120, Unit: "Each"},
		{Path: domain.ActionPath{Class: "Wetlands", Type: "Marsh", Name: "Weed Control"}, Cost: 2.5, Unit: "m2"},
	})
	out := FormatCatalog(catalog)
	assert.Contains(t, out, "COST CATALOG")
	assert.Contains(t, out, "Oak Tree")
	assert.Contains(t, out, "$2.50 / m2")

	assert.Contains(t, FormatCatalog(refdata.NewCatalog(nil)), "empty")
}

func TestFormatProjectList(t *testing.T) {
	projects := []*domain.Project{
		{ID: domain.RenewalsProjectID, Code: "RENEWALS-2026", Name: "Asset Renewals", Status: domain.ProjectPlanning},
		{ID: "p-1", Code: "PROJ-2026-001", Name: "Street Trees", Team: "Parks", Status: domain.ProjectInProgress, Completion: 40},
	}
	out := FormatProjectList(projects)
	assert.Contains(t, out, "RENEWALS-2026")
	assert.Contains(t, out, "PROJ-2026-001")
	assert.Contains(t, out, "In Progress")
	assert.Contains(t, out, " 40%")
}

func TestFormatProjectDetail_SplitsActiveAndClosed(t *testing.T) {
	due := time.Date(2027, time.May, 1, 0, 0, 0, 0, time.UTC)
	override := 80
	p := &domain.Project{
		ID: "p-1", Code: "PROJ-2026-001", Name: "Street Trees", Status: domain.ProjectPlanning,
		TotalDirectReplacementCost: decimal.NewFromInt(1000),
		Actions: []domain.Action{
			{ID: "a-1", Name: "North - Prune - TREE-001", Target: domain.AssetTarget{AssetID: "TREE-001"},
				Status: domain.ActionOpen, NextDue: &due, Cost: 80, OverrideCost: &override},
			{ID: "a-2", Name: "Survey - New Pond", Target: domain.PlannedTarget{Name: "New Pond"},
				Status: domain.ActionCompleted, NextDue: &due, Cost: 500},
		},
	}
	out := FormatProjectDetail(p)
	assert.Contains(t, out, "ACTIVE ACTIONS (1)")
	assert.Contains(t, out, "COMPLETED ACTIONS (1)")
	assert.Contains(t, out, "New Pond (planned)")
	assert.Contains(t, out, "2027-05-01")
	assert.Contains(t, out, "$1,000")
}

func TestFormatCapitalPlan(t *testing.T) {
	rows := []planning.ReportRow{
		{Year: 2026, ActualSpend: 120, TotalSpend: 120},
		{Year: 2027, PlannedSpend: 625, TotalSpend: 625},
	}
	out := FormatCapitalPlan(rows, planning.ReportTotals(rows), planning.MaxSpend(rows))
	assert.Contains(t, out, "CAPITAL PLAN 2026-2027")
	assert.Contains(t, out, "$745")
	assert.Contains(t, out, "TOTAL")
}

func TestFormatAuditTrail(t *testing.T) {
	assert.Contains(t, FormatAuditTrail(nil), "No changes")
	out := FormatAuditTrail([]domain.AuditEntry{{
		EntityType: domain.EntityAction, EntityID: "a-1", Field: "status",
		OldValue: "Open", NewValue: "Completed", ChangedBy: "planner",
		ChangedAt: time.Date(2026, time.March, 1, 9, 30, 0, 0, time.UTC),
	}})
	assert.Contains(t, out, "2026-03-01 09:30")
	assert.Contains(t, out, "Completed")
	assert.Contains(t, out, "planner")
}
