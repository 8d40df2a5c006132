package formatter

import (
	"github.com/alexanderramin/capplan/internal/domain"
)

const timestampLayout = "2006-01-02 15:04"

// FormatAuditTrail renders field-level changes, oldest first.
func FormatAuditTrail(entries []domain.AuditEntry) string {
	if len(entries) == 0 {
		return Dim("No changes recorded.")
	}
	headers := []string{"WHEN", "ENTITY", "ID", "FIELD", "OLD", "NEW", "BY"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{
			Dim(e.ChangedAt.Format(timestampLayout)),
			string(e.EntityType),
			TruncID(e.EntityID),
			Bold(e.Field),
			StyleRed.Render(TextOrDash(e.OldValue)),
			StyleGreen.Render(TextOrDash(e.NewValue)),
			e.ChangedBy,
		})
	}
	return RenderBox("Audit trail", RenderTable(headers, rows))
}

// FormatArchives renders archived action snapshots.
func FormatArchives(entries []domain.ArchiveEntry) string {
	if len(entries) == 0 {
		return Dim("The archive is empty.")
	}
	headers := []string{"WHEN", "REASON", "ACTION", "COST", "BY"}
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		reason := StyleDim.Render(string(e.Reason))
		if e.Reason == domain.ArchiveDeleted {
			reason = StyleRed.Render(string(e.Reason))
		}
		rows = append(rows, []string{
			Dim(e.At.Format(timestampLayout)),
			reason,
			e.Action.Name,
			Money(e.Action.Cost),
			e.By,
		})
	}
	return RenderBox("Archive", RenderTable(headers, rows, 3))
}

// FormatAssets renders asset search results.
func FormatAssets(assets []domain.Asset, typeName func(code string) string) string {
	if len(assets) == 0 {
		return Dim("No assets found.")
	}
	headers := []string{"ID", "NAME", "TYPE", "REGION", "SIZE", "REPLACEMENT"}
	rows := make([][]string, 0, len(assets))
	for _, a := range assets {
		rows = append(rows, []string{
			Bold(a.ID),
			a.Name,
			typeName(a.TypeCode),
			a.Region,
			formatSize(a.Size),
			MoneyDecimal(a.ReplacementCostValue()),
		})
	}
	return RenderBox("Assets", RenderTable(headers, rows, 4, 5))
}
