package renderer

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/etnz/tradeledger"
	md "github.com/nao1215/markdown"
)

// LedgerOptions selects what LedgerMarkdown renders.
type LedgerOptions struct {
	Ticker   string // only this ticker, all if empty
	Tail     int    // only the last n records, all if zero
	Currency string
}

// LedgerMarkdown renders ledger records as a table. The first column is the
// record index, as expected by the annotate command.
func LedgerMarkdown(l *tradeledger.Ledger, opts LedgerOptions) string {
	var filters []func(tradeledger.Record) bool
	if opts.Ticker != "" {
		filters = append(filters, tradeledger.WithTicker(opts.Ticker))
	}

	var rows [][]string
	for i, r := range l.Records(filters...) {
		rows = append(rows, []string{
			strconv.Itoa(i),
			r.Time.Format(tradeledger.TimeFormat),
			r.Ticker,
			string(r.Action),
			r.Quantity.String(),
			r.Price.String(),
			formatMoney(r.Total, opts.Currency),
			r.Remark,
			strconv.Itoa(r.Rating),
		})
	}
	if opts.Tail > 0 && len(rows) > opts.Tail {
		rows = rows[len(rows)-opts.Tail:]
	}

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	title := "Trades"
	if opts.Ticker != "" {
		title = fmt.Sprintf("Trades of %s", opts.Ticker)
	}
	doc.H1(title)
	if len(rows) == 0 {
		doc.PlainText("No trade recorded.")
		return doc.String()
	}
	doc.Table(md.TableSet{
		Header: []string{"#", "Time", "Ticker", "Action", "Qty", "Price", "Total", "Remark", "Rating"},
		Rows:   rows,
	})
	return doc.String()
}
