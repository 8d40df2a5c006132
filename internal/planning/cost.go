package planning

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CostInput holds the inputs of the cost model. Nil pointers mean "not given".
type CostInput struct {
	// AssetID is used to look up the size when Size is absent or zero.
	AssetID string
	Size    *float64
	// UnitCost is the catalog cost per unit of the asset's measure.
	UnitCost   *float64
	Percentage int
	// AdjustmentFactor multiplies the result when present.
	AdjustmentFactor *float64
	// ExplicitCost is a flat cost (a custom action's cost) that bypasses the
	// size-based model.
	ExplicitCost *float64
}

// ModeledCost computes the modeled cost of an action, rounded half-up to a
// whole currency unit:
//
//	explicit cost given: explicit × factor
//	otherwise:           size × percentage/100 × unit cost × factor
//
// Missing size, unit cost or percentage yields 0. The result is never negative.
func (p *Planner) ModeledCost(in CostInput) int {
	factor := decimal.NewFromInt(1)
	if in.AdjustmentFactor != nil {
		factor = decimal.NewFromFloat(*in.AdjustmentFactor)
	}

	if in.ExplicitCost != nil {
		return roundCost(decimal.NewFromFloat(*in.ExplicitCost).Mul(factor))
	}

	var size float64
	if in.Size != nil {
		size = *in.Size
	}
	if size == 0 && in.AssetID != "" {
		if a, ok := p.lookupAsset(in.AssetID); ok {
			size = a.Size
		}
	}
	if size == 0 || in.UnitCost == nil || in.Percentage == 0 {
		return 0
	}

	cost := decimal.NewFromFloat(size).
		Mul(decimal.NewFromInt(int64(in.Percentage))).
		Div(hundred).
		Mul(decimal.NewFromFloat(*in.UnitCost)).
		Mul(factor)
	return roundCost(cost)
}

func roundCost(d decimal.Decimal) int {
	if d.IsNegative() {
		return 0
	}
	return int(d.Round(0).IntPart())
}

// ParseOptionalFloat parses form text into an optional number. Blank or
// unparsable text yields nil. Currency symbols and separators are accepted.
func ParseOptionalFloat(s string) *float64 {
	s = strings.TrimSpace(strings.NewReplacer("$", "", ",", "").Replace(s))
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// ParseOptionalInt parses form text into an optional whole number. Blank or
// unparsable text yields nil.
func ParseOptionalInt(s string) *int {
	f := ParseOptionalFloat(s)
	if f == nil {
		return nil
	}
	n := int(decimal.NewFromFloat(*f).Round(0).IntPart())
	return &n
}
