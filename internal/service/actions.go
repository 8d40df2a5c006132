package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/alexanderramin/capplan/internal/planning"
)

// ActionInput is the action form. Exactly one of AssetID and
// PlannedAssetName must be set, and either ActionPath (a cost catalog entry)
// or CustomActionID.
type ActionInput struct {
	ProjectID string
	// ActionID selects the action to edit; empty creates a new one.
	ActionID string

	AssetID          string
	PlannedAssetName string

	ActionPath     domain.ActionPath
	CustomActionID string

	NextDue      *time.Time
	OverrideDate *time.Time
	Recurrence   domain.Recurrence

	// AssetPercentage defaults to 100.
	AssetPercentage int
	// AssetSize defaults to the asset's own size.
	AssetSize        *float64
	AdjustmentFactor *float64
	OverrideCost     *int
}

// ActionInputFrom returns an edit input carrying the current values of a,
// for callers that change only some of them.
func ActionInputFrom(projectID string, a domain.Action) ActionInput {
	in := ActionInput{
		ProjectID:        projectID,
		ActionID:         a.ID,
		NextDue:          a.NextDue,
		OverrideDate:     a.OverrideDate,
		Recurrence:       a.Recurrence,
		AssetPercentage:  a.AssetPercentage,
		AssetSize:        a.AssetSize,
		AdjustmentFactor: a.AdjustmentFactor,
		OverrideCost:     a.OverrideCost,
	}
	switch t := a.Target.(type) {
	case domain.AssetTarget:
		in.AssetID = t.AssetID
	case domain.PlannedTarget:
		in.PlannedAssetName = t.Name
	}
	switch d := a.Descriptor.(type) {
	case domain.CatalogAction:
		in.ActionPath = d.Path
	case domain.CustomActionRef:
		in.CustomActionID = d.ID
	}
	return in
}

// pricedDescriptor is a resolved descriptor with the cost model inputs it
// contributes.
type pricedDescriptor struct {
	desc         domain.Descriptor
	unitCost     *float64
	explicitCost *float64
	unit         string
}

// resolveDescriptor looks up the catalog entry or custom action an input
// names. Neither given yields a nil descriptor.
func (s *PlanService) resolveDescriptor(st *State, path domain.ActionPath, customID string) (pricedDescriptor, error) {
	if customID != "" {
		c, i := st.customAction(customID)
		if i < 0 {
			return pricedDescriptor{}, fmt.Errorf("%w: %s", ErrCustomActionNotFound, customID)
		}
		cost := c.Cost
		return pricedDescriptor{
			desc:         domain.CustomActionRef{ID: c.ID, Name: c.Name, Cost: c.Cost},
			explicitCost: &cost,
			unit:         c.Unit,
		}, nil
	}
	if path.IsZero() {
		return pricedDescriptor{}, nil
	}
	entry, ok := s.ref.Catalog().Lookup(path)
	if !ok {
		return pricedDescriptor{}, planning.Invalidf("Action %q is not in the cost catalog", path.String())
	}
	cost := entry.Cost
	return pricedDescriptor{
		desc:     domain.CatalogAction{Path: entry.Path},
		unitCost: &cost,
		unit:     entry.Unit,
	}, nil
}

// buildAction validates the form and derives the action it describes. When
// existing is non-nil the result keeps its identity, status and history.
func (s *PlanService) buildAction(st *State, in ActionInput, existing *domain.Action) (domain.Action, error) {
	assetID := strings.TrimSpace(in.AssetID)
	planned := strings.TrimSpace(in.PlannedAssetName)
	switch {
	case assetID == "" && planned == "":
		return domain.Action{}, planning.Invalidf("Select an asset or enter a planned asset name")
	case assetID != "" && planned != "":
		return domain.Action{}, planning.Invalidf("Choose either an existing asset or a planned asset name, not both")
	}

	var target domain.Target = domain.PlannedTarget{Name: planned}
	var asset domain.Asset
	if assetID != "" {
		var ok bool
		if asset, ok = s.ref.Asset(assetID); !ok {
			return domain.Action{}, planning.Invalidf("Asset %q does not exist", assetID)
		}
		target = domain.AssetTarget{AssetID: assetID}
	}

	priced, err := s.resolveDescriptor(st, in.ActionPath, in.CustomActionID)
	if err != nil {
		return domain.Action{}, err
	}
	if priced.desc == nil {
		return domain.Action{}, planning.Invalidf("Select an action from the cost catalog or a custom action")
	}
	if in.NextDue == nil {
		return domain.Action{}, planning.Invalidf("Next due date is required")
	}

	size := in.AssetSize
	if size == nil && assetID != "" {
		v := asset.Size
		size = &v
	}
	unit := priced.unit
	if assetID != "" {
		if t, ok := s.ref.AssetType(asset.TypeCode); ok && t.Unit != "" {
			unit = t.Unit
		}
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

	now := s.now()
	a := domain.Action{
		ID:               s.planner.NewID(),
		ProjectID:        in.ProjectID,
		Target:           target,
		Descriptor:       priced.desc,
		Status:           domain.ActionOpen,
		NextDue:          in.NextDue,
		OverrideDate:     in.OverrideDate,
		Recurrence:       recurrence,
		AssetPercentage:  percentage,
		AssetSize:        size,
		UnitOfMeasure:    domain.CoalesceStr(unit, "Each"),
		AdjustmentFactor: in.AdjustmentFactor,
		OverrideCost:     in.OverrideCost,
		CreatedBy:        s.actor,
		CreatedAt:        now,
		LastModified:     now,
	}
	a.SeriesID = a.ID
	if existing != nil {
		a.ID = existing.ID
		a.SeriesID = domain.CoalesceStr(existing.SeriesID, existing.ID)
		a.Status = existing.Status
		a.CreatedBy = existing.CreatedBy
		a.CreatedAt = existing.CreatedAt
		a.CompletedDate = existing.CompletedDate
	}
	a = a.Clone()

	a.ModeledCost = s.planner.ModeledCost(planning.CostInput{
		AssetID:          assetID,
		Size:             size,
		UnitCost:         priced.unitCost,
		Percentage:       percentage,
		AdjustmentFactor: in.AdjustmentFactor,
		ExplicitCost:     priced.explicitCost,
	})
	a.ApplyCost()
	a.Name = s.planner.NameFor(&a)

	if err := a.Validate(); err != nil {
		return domain.Action{}, invalid(err)
	}
	return a, nil
}

// SaveAction creates or edits an action and expands its recurrence. On edit,
// the edited action and the later members of its series that are not yet
// completed are replaced by the new expansion, and every changed field is
// audited. It returns the instances written.
func (s *PlanService) SaveAction(ctx context.Context, in ActionInput) (saved []domain.Action, err error) {
	fields := map[string]any{"project_id": in.ProjectID, "edit": in.ActionID != ""}
	done := s.track(ctx, "save-action", fields)
	defer func() { done(err) }()

	current, err := s.Project(in.ProjectID)
	if err != nil {
		return nil, err
	}
	var existing *domain.Action
	if in.ActionID != "" {
		i := current.FindAction(in.ActionID)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrActionNotFound, in.ActionID)
		}
		existing = &current.Actions[i]
	}

	base, err := s.buildAction(s.state, in, existing)
	if err != nil {
		return nil, err
	}
	saved = s.planner.Expand(base)

	next := s.state.clone()
	p, _ := next.mutableProject(in.ProjectID)
	var entries []domain.AuditEntry
	if existing == nil {
		p.Actions = append(p.Actions, saved...)
	} else {
		p.Actions = replaceSeriesTail(p.Actions, *existing, saved)
		entries = s.diff(domain.EntityAction, existing.ID, actionFields(existing), actionFields(&base))
	}
	p.LastModified = s.now()
	planning.Recompute(p, s.ref)
	next.Audit = append(next.Audit, entries...)

	err = s.commit(ctx, next, func(ctx context.Context, r txRepos) error {
		if err := persistProject(ctx, r, p); err != nil {
			return err
		}
		return r.audit.Append(ctx, entries...)
	})
	if err != nil {
		return nil, fmt.Errorf("saving action: %w", err)
	}
	fields["instances"] = len(saved)
	return saved, nil
}

// replaceSeriesTail puts instances where edited was and drops the later
// members of edited's series that are still active.
func replaceSeriesTail(actions []domain.Action, edited domain.Action, instances []domain.Action) []domain.Action {
	out := make([]domain.Action, 0, len(actions)+len(instances))
	for _, a := range actions {
		if a.ID == edited.ID {
			out = append(out, instances...)
			continue
		}
		if inSeriesTail(a, edited) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func inSeriesTail(a, edited domain.Action) bool {
	series := domain.CoalesceStr(edited.SeriesID, edited.ID)
	if a.SeriesID != series || a.Status.IsClosed() {
		return false
	}
	if a.NextDue == nil || edited.NextDue == nil {
		return false
	}
	return a.NextDue.After(*edited.NextDue)
}

// UpdateActionStatus changes an action's status. Completing an action stamps
// today's date as its completion date; completed and archived actions are
// also snapshotted into the archive.
func (s *PlanService) UpdateActionStatus(ctx context.Context, projectID, actionID string, status domain.ActionStatus) (a domain.Action, err error) {
	fields := map[string]any{"project_id": projectID, "action_id": actionID, "status": string(status)}
	done := s.track(ctx, "update-action-status", fields)
	defer func() { done(err) }()

	if !domain.ValidActionStatuses[status] {
		return domain.Action{}, planning.Invalidf("Invalid action status %q", status)
	}
	current, err := s.Project(projectID)
	if err != nil {
		return domain.Action{}, err
	}
	i := current.FindAction(actionID)
	if i < 0 {
		return domain.Action{}, fmt.Errorf("%w: %s", ErrActionNotFound, actionID)
	}

	next := s.state.clone()
	p, _ := next.mutableProject(projectID)
	now := s.now()
	updated := p.Actions[i].Clone()
	oldStatus := updated.Status
	updated.Status = status
	updated.LastModified = now
	if status == domain.ActionCompleted {
		updated.CompletedDate = domain.DatePtr(now)
	}
	p.Actions[i] = updated
	p.LastModified = now
	planning.Recompute(p, s.ref)

	entries := []domain.AuditEntry{s.auditEntry(domain.EntityAction, actionID, "status", string(oldStatus), string(status))}
	var archived []domain.ArchiveEntry
	switch status {
	case domain.ActionCompleted:
		archived = append(archived, s.archiveEntry(domain.ArchiveCompleted, updated))
	case domain.ActionArchived:
		archived = append(archived, s.archiveEntry(domain.ArchiveArchived, updated))
	}
	next.Audit = append(next.Audit, entries...)
	next.Archives = append(next.Archives, archived...)

	err = s.commit(ctx, next, func(ctx context.Context, r txRepos) error {
		if err := persistProject(ctx, r, p); err != nil {
			return err
		}
		if err := r.archives.Append(ctx, archived...); err != nil {
			return err
		}
		return r.audit.Append(ctx, entries...)
	})
	if err != nil {
		return domain.Action{}, fmt.Errorf("updating action status: %w", err)
	}
	return updated, nil
}

// DeletedStatus is the audit value recorded when an action is deleted.
const DeletedStatus = "Deleted"

// DeleteAction removes an action after archiving a snapshot of it. It does
// nothing and returns ErrConfirmationRequired unless confirmed is true.
func (s *PlanService) DeleteAction(ctx context.Context, projectID, actionID string, confirmed bool) (err error) {
	fields := map[string]any{"project_id": projectID, "action_id": actionID}
	done := s.track(ctx, "delete-action", fields)
	defer func() { done(err) }()

	if !confirmed {
		return ErrConfirmationRequired
	}
	current, err := s.Project(projectID)
	if err != nil {
		return err
	}
	i := current.FindAction(actionID)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrActionNotFound, actionID)
	}

	next := s.state.clone()
	p, _ := next.mutableProject(projectID)
	removed := p.Actions[i]
	p.Actions = append(p.Actions[:i:i], p.Actions[i+1:]...)
	p.LastModified = s.now()
	planning.Recompute(p, s.ref)

	archived := s.archiveEntry(domain.ArchiveDeleted, removed)
	entry := s.auditEntry(domain.EntityAction, actionID, "status", string(removed.Status), DeletedStatus)
	next.Archives = append(next.Archives, archived)
	next.Audit = append(next.Audit, entry)

	err = s.commit(ctx, next, func(ctx context.Context, r txRepos) error {
		if err := persistProject(ctx, r, p); err != nil {
			return err
		}
		if err := r.archives.Append(ctx, archived); err != nil {
			return err
		}
		return r.audit.Append(ctx, entry)
	})
	if err != nil {
		return fmt.Errorf("deleting action: %w", err)
	}
	return nil
}
