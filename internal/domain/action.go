package domain

import (
	"fmt"
	"time"
)

// Target identifies what an action works on: an existing asset or an asset
// that is only planned so far. The set of implementations is closed.
type Target interface {
	isTarget()
}

// AssetTarget binds an action to an asset of the reference data.
type AssetTarget struct {
	AssetID string
}

// PlannedTarget names an asset that does not exist yet.
type PlannedTarget struct {
	Name string
}

func (AssetTarget) isTarget()   {}
func (PlannedTarget) isTarget() {}

// Descriptor identifies which priced action is performed. The set of
// implementations is closed.
type Descriptor interface {
	isDescriptor()
	// Label is the human-readable action name used in generated names.
	Label() string
}

// CatalogAction refers to an entry of the standard cost catalog.
type CatalogAction struct {
	Path ActionPath
}

// CustomActionRef refers to a user-defined action. Cost is the flat cost
// captured when the action was created.
type CustomActionRef struct {
	ID   string
	Name string
	Cost float64
}

func (CatalogAction) isDescriptor()   {}
func (CustomActionRef) isDescriptor() {}

func (c CatalogAction) Label() string   { return c.Path.Name }
func (c CustomActionRef) Label() string { return c.Name }

// CustomActionPathLabel is stored in place of a catalog path for custom actions.
const CustomActionPathLabel = "Custom Action"

// Recurrence describes how often an action repeats.
type Recurrence struct {
	Enabled bool
	Value   int
	Unit    RecurrenceUnit
}

type Action struct {
	ID        string
	ProjectID string
	// SeriesID is the ID of the first instance of a recurrence series.
	// Non-recurring actions carry their own ID.
	SeriesID string
	Name     string

	Target     Target
	Descriptor Descriptor
	Status     ActionStatus

	// Scheduling
	NextDue      *time.Time
	OverrideDate *time.Time
	Recurrence   Recurrence

	// Sizing
	AssetPercentage  int
	AssetSize        *float64
	UnitOfMeasure    string
	AdjustmentFactor *float64

	// Cost
	ModeledCost  int
	OverrideCost *int
	Cost         int

	CreatedBy     string
	CreatedAt     time.Time
	LastModified  time.Time
	CompletedDate *time.Time
}

// AssetID returns the referenced asset ID, or "" for planned assets.
func (a *Action) AssetID() string {
	if t, ok := a.Target.(AssetTarget); ok {
		return t.AssetID
	}
	return ""
}

// PlannedAssetName returns the planned asset name, or "" for asset-bound actions.
func (a *Action) PlannedAssetName() string {
	if t, ok := a.Target.(PlannedTarget); ok {
		return t.Name
	}
	return ""
}

// IsCustom reports whether the action uses a custom action descriptor.
func (a *Action) IsCustom() bool {
	_, ok := a.Descriptor.(CustomActionRef)
	return ok
}

// Label returns the descriptor label, or "" when no descriptor is set.
func (a *Action) Label() string {
	if a.Descriptor == nil {
		return ""
	}
	return a.Descriptor.Label()
}

// PathString renders the descriptor the way it is shown and stored.
func (a *Action) PathString() string {
	switch d := a.Descriptor.(type) {
	case CatalogAction:
		return d.Path.String()
	case CustomActionRef:
		return CustomActionPathLabel
	default:
		return ""
	}
}

// EffectiveDate is the override date when set, otherwise the next due date.
func (a *Action) EffectiveDate() *time.Time {
	return FirstDate(a.OverrideDate, a.NextDue)
}

// ReportDate is the date used to place the action in a calendar year:
// override date, then next due date, then completion date.
func (a *Action) ReportDate() *time.Time {
	return FirstDate(a.OverrideDate, a.NextDue, a.CompletedDate)
}

// Clone returns a copy that shares no pointers with a.
func (a Action) Clone() Action {
	c := a
	c.NextDue = clonePtr(a.NextDue)
	c.OverrideDate = clonePtr(a.OverrideDate)
	c.CompletedDate = clonePtr(a.CompletedDate)
	c.AssetSize = clonePtr(a.AssetSize)
	c.AdjustmentFactor = clonePtr(a.AdjustmentFactor)
	c.OverrideCost = clonePtr(a.OverrideCost)
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// ApplyCost sets Cost from OverrideCost when present, otherwise ModeledCost.
func (a *Action) ApplyCost() {
	if a.OverrideCost != nil && *a.OverrideCost >= 0 {
		a.Cost = *a.OverrideCost
		return
	}
	a.Cost = a.ModeledCost
}

// Validate checks the structural rules every stored action must satisfy.
func (a *Action) Validate() error {
	switch t := a.Target.(type) {
	case AssetTarget:
		if t.AssetID == "" {
			return fmt.Errorf("asset id is required")
		}
	case PlannedTarget:
		if t.Name == "" {
			return fmt.Errorf("planned asset name is required")
		}
	default:
		return fmt.Errorf("an asset or a planned asset name is required")
	}
	switch d := a.Descriptor.(type) {
	case CatalogAction:
		if d.Path.Name == "" {
			return fmt.Errorf("catalog action is required")
		}
	case CustomActionRef:
		if d.Name == "" {
			return fmt.Errorf("custom action name is required")
		}
	default:
		return fmt.Errorf("an action from the catalog or a custom action is required")
	}
	if !ValidActionStatuses[a.Status] {
		return fmt.Errorf("invalid action status %q", a.Status)
	}
	if a.NextDue == nil {
		return fmt.Errorf("next due date is required")
	}
	if a.AssetPercentage < 1 || a.AssetPercentage > 100 {
		return fmt.Errorf("asset percentage must be between 1 and 100, got %d", a.AssetPercentage)
	}
	if a.Recurrence.Enabled {
		if a.Recurrence.Value < 1 {
			return fmt.Errorf("recurrence interval must be at least 1, got %d", a.Recurrence.Value)
		}
		if a.Recurrence.Unit != RecurMonths && a.Recurrence.Unit != RecurYears {
			return fmt.Errorf("recurrence unit must be %q or %q", RecurMonths, RecurYears)
		}
	}
	if a.OverrideCost != nil && *a.OverrideCost < 0 {
		return fmt.Errorf("override cost must not be negative")
	}
	if a.AdjustmentFactor != nil && *a.AdjustmentFactor < 0 {
		return fmt.Errorf("adjustment factor must not be negative")
	}
	return nil
}
