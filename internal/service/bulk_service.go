package service

import (
	"context"
	"fmt"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planning"
)

// BulkInput is the bulk-generation form: one action for every asset of the
// region whose class matches the named asset type.
type BulkInput struct {
	ProjectID     string
	Region        string
	AssetTypeName string

	ActionPath     domain.ActionPath
	CustomActionID string

	NextDue          *time.Time
	OverrideDate     *time.Time
	Recurrence       domain.Recurrence
	AssetPercentage  int
	AdjustmentFactor *float64
	OverrideCost     *int
}

// BulkPreview is what the bulk form shows before submission.
type BulkPreview struct {
	// AssetTypes are the asset type names available in the selected region.
	AssetTypes []string
	MatchCount int
	// Name is the generated name with a placeholder asset.
	Name string
}

// BulkSummary reports a completed bulk generation.
type BulkSummary struct {
	AssetCount  int
	ActionCount int
	Message     string
}

func (s *PlanService) bulkRequest(in BulkInput) (planning.BulkRequest, error) {
	priced, err := s.resolveDescriptor(s.state, in.ActionPath, in.CustomActionID)
	if err != nil {
		return planning.BulkRequest{}, err
	}
	recurrence := domain.Recurrence{}
	if in.Recurrence.Enabled {
		recurrence = in.Recurrence
		if recurrence.Unit == "" {
			recurrence.Unit = domain.RecurYears
		}
	}
	percentage := in.AssetPercentage
	if percentage == 0 {
		percentage = 100
	}
	return planning.BulkRequest{
		ProjectID:        in.ProjectID,
		Region:           in.Region,
		AssetTypeName:    in.AssetTypeName,
		Descriptor:       priced.desc,
		UnitCost:         priced.unitCost,
		NextDue:          in.NextDue,
		OverrideDate:     in.OverrideDate,
		Recurrence:       recurrence,
		AssetPercentage:  percentage,
		AdjustmentFactor: in.AdjustmentFactor,
		OverrideCost:     in.OverrideCost,
		Actor:            s.actor,
	}, nil
}

// PreviewBulk lists the asset types of the region and counts the assets the
// form currently matches. It never fails; unresolved actions leave the name
// without an action label.
func (s *PlanService) PreviewBulk(in BulkInput) BulkPreview {
	preview := BulkPreview{
		AssetTypes: s.ref.AssetTypesInRegion(in.Region),
	}
	if in.Region != "" && in.AssetTypeName != "" {
		preview.MatchCount = len(planning.MatchBulkAssets(s.ref, in.Region, in.AssetTypeName))
	}
	req, err := s.bulkRequest(in)
	if err != nil {
		req = planning.BulkRequest{Region: in.Region, NextDue: in.NextDue, OverrideDate: in.OverrideDate, Recurrence: in.Recurrence}
	}
	preview.Name = s.planner.BulkPreviewName(req)
	return preview
}

// BulkGenerate adds one action series per matching asset to the project and
// records a "created" audit entry for every instance.
func (s *PlanService) BulkGenerate(ctx context.Context, in BulkInput) (summary BulkSummary, err error) {
	fields := map[string]any{"project_id": in.ProjectID, "region": in.Region, "asset_type": in.AssetTypeName}
	done := s.track(ctx, "bulk-generate", fields)
	defer func() { done(err) }()

	if _, err := s.Project(in.ProjectID); err != nil {
		return BulkSummary{}, err
	}
	req, err := s.bulkRequest(in)
	if err != nil {
		return BulkSummary{}, err
	}
	result, err := s.planner.Bulk(req, s.ref)
	if err != nil {
		return BulkSummary{}, err
	}

	next := s.state.clone()
	p, _ := next.mutableProject(in.ProjectID)
	p.Actions = append(p.Actions, result.Actions...)
	p.LastModified = s.now()
	planning.Recompute(p, s.ref)

	entries := make([]domain.AuditEntry, 0, len(result.Actions))
	for _, a := range result.Actions {
		entries = append(entries, s.auditEntry(domain.EntityAction, a.ID, "created", "", a.Name))
	}
	next.Audit = append(next.Audit, entries...)

	err = s.commit(ctx, next, func(ctx context.Context, r txRepos) error {
		if err := persistProject(ctx, r, p); err != nil {
			return err
		}
		return r.audit.Append(ctx, entries...)
	})
	if err != nil {
		return BulkSummary{}, fmt.Errorf("bulk generating actions: %w", err)
	}

	summary = BulkSummary{
		AssetCount:  result.AssetCount,
		ActionCount: len(result.Actions),
		Message:     fmt.Sprintf("Successfully added %d actions to %d assets", len(result.Actions), result.AssetCount),
	}
	fields["assets"] = summary.AssetCount
	fields["actions"] = summary.ActionCount
	return summary, nil
}
