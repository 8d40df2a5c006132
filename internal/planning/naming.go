package planning

import (
	"time"

	"github.com/alexanderramin/capplan/internal/domain"
)

// BulkPlaceholderAssetID stands in for the asset in bulk-form previews. It
// never resolves to a region.
const BulkPlaceholderAssetID = "BULK"

// NameInput carries everything that determines an action's display name.
type NameInput struct {
	Label            string
	AssetID          string
	PlannedAssetName string
	NextDue          *time.Time
	OverrideDate     *time.Time
	Recurs           bool
	// RegionOverride replaces the asset's own region when non-empty.
	RegionOverride string
	Custom         bool
}

// ActionName derives the display name of an action instance:
//
//	custom action:      "<label>[ - <planned>][ - <Mon YYYY>]"
//	planned asset:      "<label> - <planned>[ - <Mon YYYY>]"
//	asset-bound action: "[<region> - ]<label> - <asset>[ - <Mon YYYY>]"
//
// The date suffix is only added to recurring actions. An asset-bound action
// without label or asset yields "".
func (p *Planner) ActionName(in NameInput) string {
	suffix := ""
	if in.Recurs {
		if d := domain.FirstDate(in.OverrideDate, in.NextDue); d != nil {
			suffix = " - " + d.Format("Jan 2006")
		}
	}

	if in.Custom && in.Label != "" {
		name := in.Label
		if in.PlannedAssetName != "" {
			name += " - " + in.PlannedAssetName
		}
		return name + suffix
	}

	if in.AssetID == "" && in.PlannedAssetName != "" {
		if in.Label == "" {
			return in.PlannedAssetName + suffix
		}
		return in.Label + " - " + in.PlannedAssetName + suffix
	}

	if in.Label == "" || in.AssetID == "" {
		return ""
	}

	region := in.RegionOverride
	if region == "" && in.AssetID != BulkPlaceholderAssetID {
		if a, ok := p.lookupAsset(in.AssetID); ok {
			region = a.Region
		}
	}
	if region != "" {
		return region + " - " + in.Label + " - " + in.AssetID + suffix
	}
	return in.Label + " - " + in.AssetID + suffix
}

// NameFor names an action from its own fields.
func (p *Planner) NameFor(a *domain.Action) string {
	return p.ActionName(nameInputOf(a))
}

func nameInputOf(a *domain.Action) NameInput {
	return NameInput{
		Label:            a.Label(),
		AssetID:          a.AssetID(),
		PlannedAssetName: a.PlannedAssetName(),
		NextDue:          a.NextDue,
		OverrideDate:     a.OverrideDate,
		Recurs:           a.Recurrence.Enabled,
		Custom:           a.IsCustom(),
	}
}
