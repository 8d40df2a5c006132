package service

import (
	"strconv"

	"github.com/alexanderramin/capplan/internal/domain"
)

// fieldValue is one audited field rendered as text.
type fieldValue struct {
	name  string
	value string
}

func projectFields(p *domain.Project) []fieldValue {
	return []fieldValue{
		{"name", p.Name},
		{"description", p.Description},
		{"status", string(p.Status)},
		{"startDate", domain.FormatDate(p.StartDate)},
		{"endDate", domain.FormatDate(p.EndDate)},
		{"team", p.Team},
		{"region", p.Region},
		{"fundingStatus", p.FundingStatus},
		{"projectType", p.ProjectType},
		{"budgetType", p.BudgetType},
		{"justification", p.Justification},
	}
}

func actionFields(a *domain.Action) []fieldValue {
	return []fieldValue{
		{"name", a.Name},
		{"assetId", a.AssetID()},
		{"plannedAssetName", a.PlannedAssetName()},
		{"actionPath", a.PathString()},
		{"customActionName", customName(a)},
		{"nextDue", domain.FormatDate(a.NextDue)},
		{"overrideDate", domain.FormatDate(a.OverrideDate)},
		{"recurrence", strconv.FormatBool(a.Recurrence.Enabled)},
		{"recurrenceValue", intText(a.Recurrence.Value, a.Recurrence.Enabled)},
		{"recurrenceUnit", unitText(a.Recurrence)},
		{"assetPercentage", strconv.Itoa(a.AssetPercentage)},
		{"assetSize", floatText(a.AssetSize)},
		{"adjustmentFactor", floatText(a.AdjustmentFactor)},
		{"overrideCost", optionalIntText(a.OverrideCost)},
		{"modeledCost", strconv.Itoa(a.ModeledCost)},
		{"cost", strconv.Itoa(a.Cost)},
	}
}

func customName(a *domain.Action) string {
	if c, ok := a.Descriptor.(domain.CustomActionRef); ok {
		return c.Name
	}
	return ""
}

func intText(v int, set bool) string {
	if !set {
		return ""
	}
	return strconv.Itoa(v)
}

func unitText(r domain.Recurrence) string {
	if !r.Enabled {
		return ""
	}
	return string(r.Unit)
}

func optionalIntText(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func floatText(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// auditEntry builds one audit record authored by the service actor.
func (s *PlanService) auditEntry(entityType domain.EntityType, entityID, field, oldValue, newValue string) domain.AuditEntry {
	return domain.AuditEntry{
		ID:         s.planner.NewID(),
		EntityType: entityType,
		EntityID:   entityID,
		Field:      field,
		OldValue:   oldValue,
		NewValue:   newValue,
		ChangedBy:  s.actor,
		ChangedAt:  s.now(),
	}
}

// diff records one entry per field whose value changed. before and after
// must list the same fields in the same order.
func (s *PlanService) diff(entityType domain.EntityType, entityID string, before, after []fieldValue) []domain.AuditEntry {
	var entries []domain.AuditEntry
	for i := range before {
		if before[i].value == after[i].value {
			continue
		}
		entries = append(entries, s.auditEntry(entityType, entityID, before[i].name, before[i].value, after[i].value))
	}
	return entries
}

// AuditFilter narrows AuditTrail. Zero fields match everything.
type AuditFilter struct {
	EntityType domain.EntityType
	EntityID   string
}

// AuditTrail returns the recorded changes in the order they were made.
func (s *PlanService) AuditTrail(f AuditFilter) []domain.AuditEntry {
	var out []domain.AuditEntry
	for _, e := range s.state.Audit {
		if f.EntityType != "" && e.EntityType != f.EntityType {
			continue
		}
		if f.EntityID != "" && e.EntityID != f.EntityID {
			continue
		}
		out = append(out, e)
	}
	return out
}

// Archives returns the archived action snapshots, oldest first.
func (s *PlanService) Archives() []domain.ArchiveEntry {
	return s.state.Archives
}

func (s *PlanService) archiveEntry(reason domain.ArchiveReason, a domain.Action) domain.ArchiveEntry {
	return domain.ArchiveEntry{
		ID:     s.planner.NewID(),
		Reason: reason,
		Action: a.Clone(),
		At:     s.now(),
		By:     s.actor,
	}
}
