package formatter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// FormatProjectList renders the project list inside a bordered box.
func FormatProjectList(projects []*domain.Project) string {
	headers := []string{"CODE", "NAME", "TEAM", "REGION", "STATUS", "ACTIONS", "COMPLETION"}
	rows := make([][]string, 0, len(projects))

	for _, p := range projects {
		name := Bold(p.Name)
		if p.IsSystem() {
			name = StylePurple.Render(p.Name)
		}
		rows = append(rows, []string{
			p.Code,
			name,
			TextOrDash(p.Team),
			TextOrDash(p.Region),
			ProjectStatusPill(p.Status),
			strconv.Itoa(len(p.Actions)),
			RenderProgress(p.Completion, 10),
		})
	}

	return RenderBox("Projects", RenderTable(headers, rows, 5))
}

// FormatProjectDetail renders a project card: metadata and rollups on the
// left, then the active and closed action tables.
func FormatProjectDetail(p *domain.Project) string {
	left := buildMetadataPanel(p)
	right := buildRollupPanel(p)
	top := lipgloss.JoinHorizontal(lipgloss.Top, left, "    ", right)

	var b strings.Builder
	b.WriteString(top)
	b.WriteString("\n\n")

	active := p.ActiveActions()
	b.WriteString(Header(fmt.Sprintf("Active actions (%d)", len(active))) + "\n")
	if len(active) == 0 {
		b.WriteString(Dim("No active actions") + "\n")
	} else {
		b.WriteString(FormatActionTable(active))
	}

	closed := p.ClosedActions()
	if len(closed) > 0 {
		b.WriteString("\n" + Header(fmt.Sprintf("Completed actions (%d)", len(closed))) + "\n")
		b.WriteString(FormatActionTable(closed))
	}

	return RenderBox("", strings.TrimRight(b.String(), "\n"))
}

func buildMetadataPanel(p *domain.Project) string {
	var b strings.Builder
	b.WriteString(StyleBold.Render(p.Name) + "\n")
	b.WriteString(Dim(p.Code) + "\n\n")
	if p.Description != "" {
		b.WriteString(StyleFg.Render(p.Description) + "\n\n")
	}

	b.WriteString(Field("STATUS ", ProjectStatusPill(p.Status)) + "\n")
	b.WriteString(Field("TEAM   ", TextOrDash(p.Team)) + "\n")
	b.WriteString(Field("REGION ", TextOrDash(p.Region)) + "\n")
	b.WriteString(Field("START  ", DateOrDash(p.StartDate)) + "\n")
	b.WriteString(Field("END    ", DateOrDash(p.EndDate)) + "\n")
	b.WriteString(Field("FUNDING", p.FundingStatus) + "\n")
	b.WriteString(Field("TYPE   ", p.ProjectType) + "\n")
	b.WriteString(Field("BUDGET ", p.BudgetType) + "\n")
	if p.Justification != "" {
		b.WriteString(Field("WHY    ", p.Justification) + "\n")
	}
	b.WriteString(Field("BY     ", p.CreatedBy+" "+Dim(p.CreatedAt.Format("2006-01-02 15:04"))))

	return lipgloss.NewStyle().Width(48).Render(b.String())
}

func buildRollupPanel(p *domain.Project) string {
	total := 0
	for _, a := range p.Actions {
		total += a.Cost
	}

	var b strings.Builder
	b.WriteString(StyleHeader.Render("ROLLUP") + "\n")
	b.WriteString(StyleDim.Render(strings.Repeat("─", 6)) + "\n")
	b.WriteString(Field("COMPLETION     ", RenderProgress(p.Completion, 12)) + "\n")
	b.WriteString(Field("ACTION COST    ", Money(total)) + "\n")
	b.WriteString(Field("REPLACEMENT    ", MoneyDecimal(p.TotalDirectReplacementCost)) + "\n")
	b.WriteString(Field("SERVICE VALUE  ", MoneyDecimal(p.TotalServiceValue)))
	return b.String()
}

// FormatActionTable renders actions with their target, schedule and cost.
func FormatActionTable(actions []domain.Action) string {
	headers := []string{"ID", "NAME", "TARGET", "DUE", "STATUS", "COST"}
	rows := make([][]string, 0, len(actions))
	for i := range actions {
		a := &actions[i]
		target := a.AssetID()
		if target == "" {
			target = StylePurple.Render(a.PlannedAssetName() + " (planned)")
		}
		due := DateOrDash(a.EffectiveDate())
		if a.OverrideDate != nil {
			due += Dim(" (override)")
		}
		cost := Money(a.Cost)
		if a.OverrideCost != nil {
			cost = StyleYellow.Render(cost)
		}
		rows = append(rows, []string{
			TruncID(a.ID),
			a.Name,
			target,
			due,
			ActionStatusPill(a.Status),
			cost,
		})
	}
	return RenderTable(headers, rows, 5)
}
