package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a spreadsheet money cell. Thousands separators and the
// "S/" currency prefix are stripped. Returns false for empty or non-numeric
// cells (blank and subtotal rows).
func ParseAmount(cell string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(cell)
	s = strings.TrimPrefix(s, "S/")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Decimal{}, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}
