package repository

import (
	"fmt"
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
)

// actionRecord is the flat storage form of an action. It backs the actions
// table and the JSON snapshots kept in archive entries.
type actionRecord struct {
	ID               string   `json:"id"`
	ProjectID        string   `json:"projectId"`
	SeriesID         string   `json:"seriesId,omitempty"`
	Name             string   `json:"name"`
	AssetID          string   `json:"assetId,omitempty"`
	PlannedAssetName string   `json:"plannedAssetName,omitempty"`
	ActionPath       string   `json:"actionPath"`
	CustomActionID   string   `json:"customActionId,omitempty"`
	CustomActionName string   `json:"customActionName,omitempty"`
	CustomActionCost *float64 `json:"customActionCost,omitempty"`
	Status           string   `json:"status"`
	NextDue          string   `json:"nextDue,omitempty"`
	OverrideDate     string   `json:"overrideDate,omitempty"`
	Recurrence       bool     `json:"recurrence"`
	RecurrenceValue  int      `json:"recurrenceValue,omitempty"`
	RecurrenceUnit   string   `json:"recurrenceUnit,omitempty"`
	AssetPercentage  int      `json:"assetPercentage"`
	AssetSize        *float64 `json:"assetSize,omitempty"`
	UnitOfMeasure    string   `json:"unitOfMeasure,omitempty"`
	AdjustmentFactor *float64 `json:"adjustmentFactor,omitempty"`
	ModeledCost      int      `json:"modeledCost"`
	OverrideCost     *int     `json:"overrideCost,omitempty"`
	Cost             int      `json:"cost"`
	CreatedBy        string   `json:"createdBy,omitempty"`
	CreatedAt        string   `json:"createdDate"`
	LastModified     string   `json:"lastModified"`
	CompletedDate    string   `json:"completedDate,omitempty"`
}

func toActionRecord(a *domain.Action) actionRecord {
	rec := actionRecord{
		ID:               a.ID,
		ProjectID:        a.ProjectID,
		SeriesID:         a.SeriesID,
		Name:             a.Name,
		AssetID:          a.AssetID(),
		PlannedAssetName: a.PlannedAssetName(),
		ActionPath:       a.PathString(),
		Status:           string(a.Status),
		NextDue:          domain.FormatDate(a.NextDue),
		OverrideDate:     domain.FormatDate(a.OverrideDate),
		Recurrence:       a.Recurrence.Enabled,
		RecurrenceValue:  a.Recurrence.Value,
		RecurrenceUnit:   string(a.Recurrence.Unit),
		AssetPercentage:  a.AssetPercentage,
		AssetSize:        a.AssetSize,
		UnitOfMeasure:    a.UnitOfMeasure,
		AdjustmentFactor: a.AdjustmentFactor,
		ModeledCost:      a.ModeledCost,
		OverrideCost:     a.OverrideCost,
		Cost:             a.Cost,
		CreatedBy:        a.CreatedBy,
		CreatedAt:        a.CreatedAt.UTC().Format(time.RFC3339),
		LastModified:     a.LastModified.UTC().Format(time.RFC3339),
		CompletedDate:    domain.FormatDate(a.CompletedDate),
	}
	if c, ok := a.Descriptor.(domain.CustomActionRef); ok {
		cost := c.Cost
		rec.CustomActionID = c.ID
		rec.CustomActionName = c.Name
		rec.CustomActionCost = &cost
	}
	return rec
}

func (rec actionRecord) toAction() (domain.Action, error) {
	a := domain.Action{
		ID:               rec.ID,
		ProjectID:        rec.ProjectID,
		SeriesID:         rec.SeriesID,
		Name:             rec.Name,
		Status:           domain.ActionStatus(rec.Status),
		Recurrence:       domain.Recurrence{Enabled: rec.Recurrence, Value: rec.RecurrenceValue, Unit: domain.RecurrenceUnit(rec.RecurrenceUnit)},
		AssetPercentage:  rec.AssetPercentage,
		AssetSize:        rec.AssetSize,
		UnitOfMeasure:    rec.UnitOfMeasure,
		AdjustmentFactor: rec.AdjustmentFactor,
		ModeledCost:      rec.ModeledCost,
		OverrideCost:     rec.OverrideCost,
		Cost:             rec.Cost,
		CreatedBy:        rec.CreatedBy,
	}

	if rec.AssetID != "" {
		a.Target = domain.AssetTarget{AssetID: rec.AssetID}
	} else {
		a.Target = domain.PlannedTarget{Name: rec.PlannedAssetName}
	}

	if rec.CustomActionName != "" {
		ref := domain.CustomActionRef{ID: rec.CustomActionID, Name: rec.CustomActionName}
		if rec.CustomActionCost != nil {
			ref.Cost = *rec.CustomActionCost
		}
		a.Descriptor = ref
	} else {
		path, err := domain.ParseActionPath(rec.ActionPath)
		if err != nil {
			return domain.Action{}, fmt.Errorf("action %s: %w", rec.ID, err)
		}
		a.Descriptor = domain.CatalogAction{Path: path}
	}

	var err error
	if a.NextDue, err = domain.ParseDate(rec.NextDue); err != nil {
		return domain.Action{}, fmt.Errorf("action %s next_due: %w", rec.ID, err)
	}
	if a.OverrideDate, err = domain.ParseDate(rec.OverrideDate); err != nil {
		return domain.Action{}, fmt.Errorf("action %s override_date: %w", rec.ID, err)
	}
	if a.CompletedDate, err = domain.ParseDate(rec.CompletedDate); err != nil {
		return domain.Action{}, fmt.Errorf("action %s completed_date: %w", rec.ID, err)
	}
	if a.CreatedAt, err = parseStamp(rec.CreatedAt); err != nil {
		return domain.Action{}, fmt.Errorf("action %s created_at: %w", rec.ID, err)
	}
	if a.LastModified, err = parseStamp(rec.LastModified); err != nil {
		return domain.Action{}, fmt.Errorf("action %s updated_at: %w", rec.ID, err)
	}
	return a, nil
}
