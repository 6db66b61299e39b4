package tradeledger

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

// Defaults of the combining stage.
const (
	DefaultGap      = 5 * time.Minute
	DefaultMinTotal = 300
)

// CombineOptions tunes how rows are grouped into trades.
// The zero value means DefaultGap and AnchorPrevious.
type CombineOptions struct {
	Gap    time.Duration
	Anchor Anchor
}

func (o CombineOptions) gap() time.Duration {
	if o.Gap <= 0 {
		return DefaultGap
	}
	return o.Gap
}

// PrepareRows sorts rows by time and removes exact duplicates.
//
// Ties on time are broken on every other field, so the result does not depend
// on the order files were read in. The input slice is reordered in place.
func PrepareRows(rows []Row) []Row {
	slices.SortFunc(rows, compareRows)
	return slices.CompactFunc(rows, func(a, b Row) bool { return compareRows(a, b) == 0 })
}

// Combine partitions time sorted rows into maximal runs of the same ticker and
// action whose consecutive members are at most opts.Gap apart, and returns one
// Trade per run.
func Combine(rows []Row, opts CombineOptions) []Trade {
	gap := opts.gap()
	var trades []Trade

	// open is the group being accumulated, nil between groups.
	var open []Row
	for _, row := range rows {
		if open != nil && !extends(open, row, gap, opts.Anchor) {
			trades = append(trades, combineGroup(open))
			open = nil
		}
		open = append(open, row)
	}
	if open != nil {
		trades = append(trades, combineGroup(open))
	}
	return trades
}

// extends reports whether row belongs to the open group.
func extends(open []Row, row Row, gap time.Duration, anchor Anchor) bool {
	last := open[len(open)-1]
	if row.Ticker != last.Ticker || row.Action != last.Action {
		return false
	}
	ref := last
	if anchor == AnchorFirst {
		ref = open[0]
	}
	return row.Time.Sub(ref.Time) <= gap
}

// combineGroup aggregates the fills of one group.
func combineGroup(group []Row) Trade {
	first := group[0]
	t := Trade{
		Time:     first.Time,
		Ticker:   first.Ticker,
		Action:   first.Action,
		Quantity: decimal.Zero,
		Total:    decimal.Zero,
	}
	weighted := decimal.Zero
	for _, r := range group {
		if r.Time.Before(t.Time) {
			t.Time = r.Time
		}
		t.Quantity = t.Quantity.Add(r.Quantity)
		t.Total = t.Total.Add(r.Total)
		weighted = weighted.Add(r.Quantity.Mul(r.Price))
	}
	t.Price = decimal.Zero
	if !t.Quantity.IsZero() {
		t.Price = weighted.Div(t.Quantity).Round(PricePlaces)
	}
	t.Total = t.Total.Round(TotalPlaces)
	return t
}

// Material keeps the trades whose total is at least minTotal.
func Material(trades []Trade, minTotal decimal.Decimal) []Trade {
	kept := make([]Trade, 0, len(trades))
	for _, t := range trades {
		if t.Total.GreaterThanOrEqual(minTotal) {
			kept = append(kept, t)
		}
	}
	return kept
}
