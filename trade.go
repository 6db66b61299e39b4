package tradeledger

import (
	"cmp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TimeFormat is the layout of times in the ledger, at second resolution.
const TimeFormat = "2006-01-02 15:04:05"

// Row is one broker export row in the canonical shape.
//
// Time is always valid and truncated to the second. ID is the broker's opaque
// order identifier, possibly empty.
type Row struct {
	Time     time.Time
	Ticker   string
	Action   Action
	ID       string
	Quantity decimal.Decimal
	Price    decimal.Decimal // per unit
	Total    decimal.Decimal
}

// compareRows orders rows by every field, time first. Two rows comparing
// equal are duplicates.
func compareRows(a, b Row) int {
	if c := a.Time.Compare(b.Time); c != 0 {
		return c
	}
	if c := strings.Compare(a.Ticker, b.Ticker); c != 0 {
		return c
	}
	if c := strings.Compare(string(a.Action), string(b.Action)); c != 0 {
		return c
	}
	if c := strings.Compare(a.ID, b.ID); c != 0 {
		return c
	}
	return cmp.Or(
		a.Quantity.Cmp(b.Quantity),
		a.Price.Cmp(b.Price),
		a.Total.Cmp(b.Total),
	)
}

// Trade is a logical trade: one or more partial fills of the same ticker and
// action collapsed into a single aggregate.
type Trade struct {
	Time     time.Time // earliest fill
	Ticker   string
	Action   Action
	Quantity decimal.Decimal // sum of fills
	Price    decimal.Decimal // quantity weighted, rounded to PricePlaces
	Total    decimal.Decimal // sum of fills, rounded to TotalPlaces
}

// Key returns the dedup key of the trade.
func (t Trade) Key() Key {
	return Key{
		Time:     t.Time.Format(TimeFormat),
		Ticker:   t.Ticker,
		Action:   t.Action,
		Quantity: t.Quantity.String(),
		Price:    t.Price.String(),
		Total:    t.Total.String(),
	}
}

// Equal reports whether both trades have the same core fields.
func (t Trade) Equal(u Trade) bool { return t.Key() == u.Key() }

// Key identifies a logical trade in the ledger.
//
// Decimals are held in their canonical string form, so "32.0" and "32" are
// the same key.
type Key struct {
	Time     string
	Ticker   string
	Action   Action
	Quantity string
	Price    string
	Total    string
}

// Record is a ledger line: a trade plus the annotations owned by the user.
type Record struct {
	Trade
	Remark string
	Rating int
}

// NewRecord returns a record for a freshly ingested trade, with empty
// annotations.
func NewRecord(t Trade) Record { return Record{Trade: t} }
