package domain

import "github.com/shopspring/decimal"

// Asset is a managed item from the reference tables. Monetary attributes keep
// their source text; use the value accessors for arithmetic.
type Asset struct {
	ID                    string
	Name                  string
	TypeCode              string
	Region                string
	Size                  float64
	DirectReplacementCost string
	ServiceValue          string
	ExpectedLifespan      int
	ConditionScore        int
}

// ReplacementCostValue returns the normalized direct replacement cost.
// Unparsable text yields zero.
func (a Asset) ReplacementCostValue() decimal.Decimal {
	return CurrencyOrZero(a.DirectReplacementCost)
}

// ServiceValueAmount returns the normalized service value.
// Unparsable text yields zero.
func (a Asset) ServiceValueAmount() decimal.Decimal {
	return CurrencyOrZero(a.ServiceValue)
}

type AssetType struct {
	Code       string
	Name       string
	Unit       string
	Prefix     string
	AssetClass string
}
