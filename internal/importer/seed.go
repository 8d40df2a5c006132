package importer

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/google/uuid"
)

// Seed is the content of the seed tables: projects with their actions and
// the historical audit trail.
type Seed struct {
	Projects []*domain.Project
	Audit    []domain.AuditEntry
}

// ActionCount returns the number of actions across all seeded projects.
func (s *Seed) ActionCount() int {
	n := 0
	for _, p := range s.Projects {
		n += len(p.Actions)
	}
	return n
}

// LoadSeed reads projects.csv, actions.csv and audit-trail.csv from dir. A
// missing seed table loads as empty. Malformed rows are skipped and reported.
// now stamps rows that carry no creation or modification time.
func LoadSeed(dir string, now time.Time, logger *slog.Logger) (*Seed, *LoadReport, error) {
	rep := newReporter(logger)
	seed := &Seed{}

	projectRows, err := readOptionalTable(dir, ProjectsFile, rep)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[string]*domain.Project, len(projectRows))
	codes := make(map[string]bool, len(projectRows))
	for _, r := range projectRows {
		p, err := projectFromRecord(r, now)
		if err != nil {
			rep.skip(ProjectsFile, r.Line, "%v", err)
			continue
		}
		if byID[p.ID] != nil {
			rep.skip(ProjectsFile, r.Line, "duplicate project id %q", p.ID)
			continue
		}
		if codes[p.Code] {
			rep.skip(ProjectsFile, r.Line, "duplicate project code %q", p.Code)
			continue
		}
		byID[p.ID] = p
		codes[p.Code] = true
		seed.Projects = append(seed.Projects, p)
	}

	actionRows, err := readOptionalTable(dir, ActionsFile, rep)
	if err != nil {
		return nil, nil, err
	}
	seen := make(map[string]bool, len(actionRows))
	for _, r := range actionRows {
		a, err := actionFromRecord(r, now, rep)
		if err != nil {
			rep.skip(ActionsFile, r.Line, "%v", err)
			continue
		}
		p := byID[a.ProjectID]
		if p == nil {
			rep.skip(ActionsFile, r.Line, "unknown project %q", a.ProjectID)
			continue
		}
		if seen[a.ID] {
			rep.skip(ActionsFile, r.Line, "duplicate action id %q", a.ID)
			continue
		}
		seen[a.ID] = true
		p.Actions = append(p.Actions, a)
	}

	auditRows, err := readOptionalTable(dir, AuditTrailFile, rep)
	if err != nil {
		return nil, nil, err
	}
	for _, r := range auditRows {
		e, err := auditFromRecord(r, now)
		if err != nil {
			rep.skip(AuditTrailFile, r.Line, "%v", err)
			continue
		}
		seed.Audit = append(seed.Audit, e)
	}

	rep.logger.Info("seed data loaded",
		"dir", dir,
		"projects", len(seed.Projects),
		"actions", seed.ActionCount(),
		"audit_entries", len(seed.Audit),
		"skipped", len(rep.report.Skipped),
	)
	return seed, rep.report, nil
}

func readOptionalTable(dir, name string, rep *reporter) ([]record, error) {
	rows, err := readTable(dir, name)
	if errors.Is(err, ErrMissingTable) {
		rep.logger.Info("seed table not present", "table", name)
		return nil, nil
	}
	return rows, err
}

func projectFromRecord(r record, now time.Time) (*domain.Project, error) {
	p := &domain.Project{
		ID:            r.Get("id"),
		Code:          r.Get("projectId"),
		Name:          r.Get("name"),
		Description:   r.Get("description"),
		Status:        domain.ProjectStatus(domain.CoalesceStr(r.Get("status"), string(domain.ProjectPlanning))),
		Team:          r.Get("team"),
		Region:        r.Get("region"),
		FundingStatus: domain.CoalesceStr(r.Get("fundingStatus"), domain.DefaultFundingStatus),
		ProjectType:   domain.CoalesceStr(r.Get("projectType"), domain.DefaultProjectType),
		BudgetType:    domain.CoalesceStr(r.Get("budgetType"), domain.DefaultBudgetType),
		Justification: r.Get("justification"),
		CreatedBy:     r.Get("createdBy"),
	}
	if p.ID == "" {
		return nil, fmt.Errorf("missing id")
	}
	if p.Code == "" {
		return nil, fmt.Errorf("project %s: missing projectId", p.ID)
	}

	var err error
	if p.StartDate, err = domain.ParseDate(r.Get("startDate")); err != nil {
		return nil, fmt.Errorf("project %s startDate: %w", p.ID, err)
	}
	if p.EndDate, err = domain.ParseDate(r.Get("endDate")); err != nil {
		return nil, fmt.Errorf("project %s endDate: %w", p.ID, err)
	}
	if p.CreatedAt, err = parseTimestamp(r.Get("createdDate"), now); err != nil {
		return nil, fmt.Errorf("project %s createdDate: %w", p.ID, err)
	}
	if p.LastModified, err = parseTimestamp(r.Get("lastModified"), p.CreatedAt); err != nil {
		return nil, fmt.Errorf("project %s lastModified: %w", p.ID, err)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("project %s: %w", p.ID, err)
	}
	return p, nil
}

func actionFromRecord(r record, now time.Time, rep *reporter) (domain.Action, error) {
	a := domain.Action{
		ID:               r.Get("id"),
		ProjectID:        r.Get("projectId"),
		Name:             r.Get("name"),
		Status:           domain.ActionStatus(domain.CoalesceStr(r.Get("status"), string(domain.ActionOpen))),
		AssetPercentage:  parseInt(r.Get("assetPercentage")),
		AssetSize:        parseOptionalFloat(r.Get("assetSize")),
		UnitOfMeasure:    r.Get("unitOfMeasure"),
		AdjustmentFactor: parseOptionalFloat(r.Get("adjustmentFactor")),
		ModeledCost:      parseInt(r.Get("modeledCost")),
		OverrideCost:     parseOptionalInt(r.Get("overrideCost")),
		Cost:             parseInt(r.Get("cost")),
		CreatedBy:        r.Get("createdBy"),
	}
	if a.ID == "" {
		return domain.Action{}, fmt.Errorf("missing id")
	}
	a.SeriesID = a.ID
	if a.AssetPercentage == 0 {
		a.AssetPercentage = 100
	}

	if parseBool(r.Get("recurrence")) {
		a.Recurrence = domain.Recurrence{
			Enabled: true,
			Value:   parseInt(r.Get("recurrenceValue")),
			Unit:    domain.RecurrenceUnit(strings.ToLower(domain.CoalesceStr(r.Get("recurrenceUnit"), string(domain.RecurYears)))),
		}
	}

	assetID, planned := r.Get("assetId"), r.Get("plannedAssetName")
	switch {
	case assetID != "" && planned != "":
		rep.diagnose("action %s references asset %q and planned asset %q; keeping the asset", a.ID, assetID, planned)
		a.Target = domain.AssetTarget{AssetID: assetID}
	case assetID != "":
		a.Target = domain.AssetTarget{AssetID: assetID}
	case planned != "":
		a.Target = domain.PlannedTarget{Name: planned}
	}

	if parseBool(r.Get("isCustomAction")) || r.Get("customActionName") != "" {
		ref := domain.CustomActionRef{Name: r.Get("customActionName")}
		if cost := parseOptionalFloat(r.Get("customActionCost")); cost != nil {
			ref.Cost = *cost
		}
		a.Descriptor = ref
	} else {
		path, err := domain.ParseActionPath(r.Get("actionPath"))
		if err != nil {
			return domain.Action{}, fmt.Errorf("action %s: %w", a.ID, err)
		}
		a.Descriptor = domain.CatalogAction{Path: path}
	}

	var err error
	if a.NextDue, err = domain.ParseDate(r.Get("nextDue")); err != nil {
		return domain.Action{}, fmt.Errorf("action %s nextDue: %w", a.ID, err)
	}
	if a.OverrideDate, err = domain.ParseDate(r.Get("overrideDate")); err != nil {
		return domain.Action{}, fmt.Errorf("action %s overrideDate: %w", a.ID, err)
	}
	if a.CompletedDate, err = domain.ParseDate(r.Get("completedDate")); err != nil {
		return domain.Action{}, fmt.Errorf("action %s completedDate: %w", a.ID, err)
	}
	if a.CreatedAt, err = parseTimestamp(r.Get("createdDate"), now); err != nil {
		return domain.Action{}, fmt.Errorf("action %s createdDate: %w", a.ID, err)
	}
	if a.LastModified, err = parseTimestamp(r.Get("lastModified"), a.CreatedAt); err != nil {
		return domain.Action{}, fmt.Errorf("action %s lastModified: %w", a.ID, err)
	}

	if a.Cost == 0 {
		a.ApplyCost()
	}
	if err := a.Validate(); err != nil {
		return domain.Action{}, fmt.Errorf("action %s: %w", a.ID, err)
	}
	return a, nil
}

func auditFromRecord(r record, now time.Time) (domain.AuditEntry, error) {
	e := domain.AuditEntry{
		ID:        domain.CoalesceStr(r.Get("id"), uuid.New().String()),
		EntityID:  r.Get("entityId"),
		Field:     r.Get("field"),
		OldValue:  r.Get("oldValue"),
		NewValue:  r.Get("newValue"),
		ChangedBy: domain.CoalesceStr(r.Get("changedBy"), domain.DefaultActor),
	}
	switch {
	case strings.EqualFold(r.Get("entityType"), string(domain.EntityProject)):
		e.EntityType = domain.EntityProject
	case strings.EqualFold(r.Get("entityType"), string(domain.EntityAction)):
		e.EntityType = domain.EntityAction
	default:
		return domain.AuditEntry{}, fmt.Errorf("unknown entity type %q", r.Get("entityType"))
	}
	if e.EntityID == "" || e.Field == "" {
		return domain.AuditEntry{}, fmt.Errorf("audit entry %s: entityId and field are required", e.ID)
	}
	var err error
	if e.ChangedAt, err = parseTimestamp(r.Get("changedDate"), now); err != nil {
		return domain.AuditEntry{}, fmt.Errorf("audit entry %s changedDate: %w", e.ID, err)
	}
	return e, nil
}
