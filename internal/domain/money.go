package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

var currencyStripper = strings.NewReplacer("$", "", ",", "", " ", "", "\t", "", "\u00a0", "")

// ParseCurrency normalizes currency-formatted text such as "$1,234.50" into a
// decimal. The second return is false when the text is empty or unparsable.
func ParseCurrency(s string) (decimal.Decimal, bool) {
	clean := currencyStripper.Replace(strings.TrimSpace(s))
	if clean == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// CurrencyOrZero is ParseCurrency with unparsable values treated as zero.
func CurrencyOrZero(s string) decimal.Decimal {
	d, _ := ParseCurrency(s)
	return d
}
