package renderer

import (
	"fmt"

	"github.com/etnz/tradeledger"
)

// Trade renders a trade to a sentence.
func Trade(t tradeledger.Trade, currency string) string {
	total := formatMoney(t.Total, currency)
	switch t.Action.Kind() {
	case tradeledger.KindBuy:
		return fmt.Sprintf("Bought %s %s at %s for %s", t.Quantity, t.Ticker, t.Price, total)
	case tradeledger.KindSell:
		return fmt.Sprintf("Sold %s %s at %s for %s", t.Quantity, t.Ticker, t.Price, total)
	default:
		return fmt.Sprintf("%s %s for %s", t.Action, t.Ticker, total)
	}
}
