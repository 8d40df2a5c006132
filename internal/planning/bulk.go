package planning

import (
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
)

// BulkSource is the slice of the reference data bulk generation reads.
type BulkSource interface {
	AssetClassForTypeName(name string) (string, bool)
	AssetsInRegionAndClass(region, assetClass string) []domain.Asset
	AssetType(code string) (domain.AssetType, bool)
}

// BulkRequest describes one bulk-generation form submission.
type BulkRequest struct {
	ProjectID     string
	Region        string
	AssetTypeName string
	Descriptor    domain.Descriptor
	// UnitCost is the catalog unit cost; ignored for custom actions, which
	// carry their own flat cost.
	UnitCost         *float64
	NextDue          *time.Time
	OverrideDate     *time.Time
	Recurrence       domain.Recurrence
	AssetPercentage  int
	AdjustmentFactor *float64
	OverrideCost     *int
	Actor            string
}

// BulkResult is the batch produced by Bulk.
type BulkResult struct {
	Actions    []domain.Action
	AssetCount int
}

func (r *BulkRequest) validate() error {
	missingDescriptor := r.Descriptor == nil || r.Descriptor.Label() == ""
	if r.Region == "" || r.AssetTypeName == "" || r.NextDue == nil || missingDescriptor {
		return Invalidf("Please fill in all required fields")
	}
	if r.AssetPercentage < 1 || r.AssetPercentage > 100 {
		return Invalidf("asset percentage must be between 1 and 100, got %d", r.AssetPercentage)
	}
	if r.Recurrence.Enabled && r.Recurrence.Value < 1 {
		return Invalidf("recurrence interval must be at least 1, got %d", r.Recurrence.Value)
	}
	return nil
}

// MatchBulkAssets returns the assets a bulk request would touch: every asset
// in the region whose asset class equals the class of the named asset type.
func MatchBulkAssets(src BulkSource, region, assetTypeName string) []domain.Asset {
	class, ok := src.AssetClassForTypeName(assetTypeName)
	if !ok {
		return nil
	}
	return src.AssetsInRegionAndClass(region, class)
}

// Bulk creates one action per matching asset, costed with that asset's own
// size, then expands each through the recurrence rule when requested. An
// empty match set is a validation error and yields no actions.
func (p *Planner) Bulk(req BulkRequest, src BulkSource) (BulkResult, error) {
	if err := req.validate(); err != nil {
		return BulkResult{}, err
	}

	assets := MatchBulkAssets(src, req.Region, req.AssetTypeName)
	if len(assets) == 0 {
		return BulkResult{}, Invalidf("No assets found for region %q and asset type %q", req.Region, req.AssetTypeName)
	}

	now := p.now()
	var out []domain.Action
	for _, asset := range assets {
		base := p.bulkBase(req, src, asset, now)
		if base.Recurrence.Enabled {
			out = append(out, p.Expand(base)...)
		} else {
			out = append(out, base)
		}
	}
	return BulkResult{Actions: out, AssetCount: len(assets)}, nil
}

func (p *Planner) bulkBase(req BulkRequest, src BulkSource, asset domain.Asset, now time.Time) domain.Action {
	size := asset.Size
	in := CostInput{
		AssetID:          asset.ID,
		Size:             &size,
		UnitCost:         req.UnitCost,
		Percentage:       req.AssetPercentage,
		AdjustmentFactor: req.AdjustmentFactor,
	}
	if c, ok := req.Descriptor.(domain.CustomActionRef); ok {
		cost := c.Cost
		in.ExplicitCost = &cost
	}

	unit := "Each"
	if t, ok := src.AssetType(asset.TypeCode); ok && t.Unit != "" {
		unit = t.Unit
	}

	id := p.newID()
	a := domain.Action{
		ID:               id,
		ProjectID:        req.ProjectID,
		SeriesID:         id,
		Target:           domain.AssetTarget{AssetID: asset.ID},
		Descriptor:       req.Descriptor,
		Status:           domain.ActionOpen,
		NextDue:          clone(req.NextDue),
		OverrideDate:     clone(req.OverrideDate),
		Recurrence:       req.Recurrence,
		AssetPercentage:  req.AssetPercentage,
		AssetSize:        &size,
		UnitOfMeasure:    unit,
		AdjustmentFactor: clone(req.AdjustmentFactor),
		ModeledCost:      p.ModeledCost(in),
		OverrideCost:     clone(req.OverrideCost),
		CreatedBy:        req.Actor,
		CreatedAt:        now,
		LastModified:     now,
	}
	a.ApplyCost()
	a.Name = p.NameFor(&a)
	return a
}

// BulkPreviewName is the name shown on the bulk form before submission. It
// uses the placeholder asset and the form's region.
func (p *Planner) BulkPreviewName(req BulkRequest) string {
	label := ""
	if req.Descriptor != nil {
		label = req.Descriptor.Label()
	}
	_, custom := req.Descriptor.(domain.CustomActionRef)
	return p.ActionName(NameInput{
		Label:          label,
		AssetID:        BulkPlaceholderAssetID,
		NextDue:        req.NextDue,
		OverrideDate:   req.OverrideDate,
		Recurs:         req.Recurrence.Enabled,
		RegionOverride: req.Region,
		Custom:         custom,
	})
}

func clone[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
