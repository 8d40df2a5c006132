package planning

import (
	"math"

	"github.com/alexanderramin/capplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Rollup holds the project-level figures derived from its actions.
type Rollup struct {
	Completion                 int
	TotalDirectReplacementCost decimal.Decimal
	TotalServiceValue          decimal.Decimal
}

// Aggregate derives a project's rollup from its actions.
//
// Completion is the completed share of total action cost, as a whole
// percentage (0 when the total is 0). Replacement cost and service value are
// summed once per distinct referenced asset; unparsable values count as 0.
func Aggregate(actions []domain.Action, assets AssetResolver) Rollup {
	var total, completed int
	for _, a := range actions {
		total += a.Cost
		if a.Status == domain.ActionCompleted {
			completed += a.Cost
		}
	}

	r := Rollup{
		TotalDirectReplacementCost: decimal.Zero,
		TotalServiceValue:          decimal.Zero,
	}
	if total > 0 {
		r.Completion = int(math.Round(float64(completed) / float64(total) * 100))
	}

	if assets == nil {
		return r
	}
	seen := make(map[string]bool)
	for _, a := range actions {
		id := a.AssetID()
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		asset, ok := assets.Asset(id)
		if !ok {
			continue
		}
		r.TotalDirectReplacementCost = r.TotalDirectReplacementCost.Add(asset.ReplacementCostValue())
		r.TotalServiceValue = r.TotalServiceValue.Add(asset.ServiceValueAmount())
	}
	return r
}

// ApplyTo copies the rollup onto the project's derived fields.
func (r Rollup) ApplyTo(p *domain.Project) {
	p.Completion = r.Completion
	p.TotalDirectReplacementCost = r.TotalDirectReplacementCost
	p.TotalServiceValue = r.TotalServiceValue
}

// Recompute refreshes the derived fields of p from its current actions.
func Recompute(p *domain.Project, assets AssetResolver) {
	Aggregate(p.Actions, assets).ApplyTo(p)
}
