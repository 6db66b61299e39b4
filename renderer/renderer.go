// Package renderer renders ledgers and ingestion reports as markdown.
package renderer

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// formatMoney formats an amount in the currency's own style, rounded to the
// currency's fraction digits.
func formatMoney(amount decimal.Decimal, currency string) string {
	// to get a never nil currency I need to call the Money constructor
	cur := money.New(0, currency).Currency()
	fraction := int32(cur.Fraction)
	return cur.Formatter().Format(amount.Round(fraction).Shift(fraction).IntPart())
}
