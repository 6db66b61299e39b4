package tradeledger

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Rounding applied to combined trades.
const (
	PricePlaces = 4
	TotalPlaces = 2
)

// D converts a number literal into a decimal. Parsed input goes through
// ParseDecimal.
func D[T int | int64 | float64](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case int64:
		return decimal.NewFromInt(v)
	default:
		return decimal.NewFromInt(int64(value))
	}
}

// ParseDecimal parses a decimal cell as found in exports and in the ledger.
// Surrounding blanks are ignored, an empty cell is an error.
func ParseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(s))
}
