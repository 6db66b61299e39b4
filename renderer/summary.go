package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/tradeledger"
	md "github.com/nao1215/markdown"
	"github.com/shopspring/decimal"
)

// SummaryMarkdown renders, per ticker, the number of trades and the amounts
// bought and sold.
func SummaryMarkdown(l *tradeledger.Ledger, currency string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Ledger Summary")
	doc.PlainText(fmt.Sprintf("%d trades on %d tickers.", l.Len(), len(l.Tickers())))
	if l.Len() == 0 {
		return doc.String()
	}

	groups := l.ByTicker()
	var rows [][]string
	for _, ticker := range l.Tickers() {
		bought, sold := decimal.Zero, decimal.Zero
		for _, r := range groups[ticker] {
			switch r.Action.Kind() {
			case tradeledger.KindBuy:
				bought = bought.Add(r.Total)
			case tradeledger.KindSell:
				sold = sold.Add(r.Total)
			}
		}
		last := groups[ticker][len(groups[ticker])-1]
		rows = append(rows, []string{
			ticker,
			strconv.Itoa(len(groups[ticker])),
			formatMoney(bought, currency),
			formatMoney(sold, currency),
			last.Time.Format(tradeledger.TimeFormat),
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Ticker", "Trades", "Bought", "Sold", "Last trade"},
		Rows:   rows,
	})
	return doc.String()
}
