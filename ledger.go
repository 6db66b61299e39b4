package tradeledger

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"sort"
)

// Ledger represents the list of recorded trades.
//
// In a Ledger records are always in chronological order. Records sharing the
// same time keep their insertion order.
type Ledger struct {
	records []Record
	keys    map[Key]struct{} // index of core fields of every record
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{
		records: make([]Record, 0),
		keys:    make(map[Key]struct{}),
	}
}

// Len returns the number of records.
func (l *Ledger) Len() int { return len(l.records) }

// Record returns the i-th record in chronological order.
func (l *Ledger) Record(i int) (Record, error) {
	if i < 0 || i >= len(l.records) {
		return Record{}, fmt.Errorf("no record at index %d, ledger has %d records", i, len(l.records))
	}
	return l.records[i], nil
}

// Records returns an iterator over records in chronological order, with their
// index. Filters are and-ed.
func (l *Ledger) Records(filters ...func(Record) bool) iter.Seq2[int, Record] {
	return func(yield func(int, Record) bool) {
	next:
		for i, r := range l.records {
			for _, filter := range filters {
				if !filter(r) {
					continue next
				}
			}
			if !yield(i, r) {
				return
			}
		}
	}
}

// WithTicker is a Records filter on the ticker.
func WithTicker(ticker string) func(Record) bool {
	return func(r Record) bool { return r.Ticker == ticker }
}

// Has reports whether a record with the same core fields exists.
func (l *Ledger) Has(t Trade) bool {
	_, ok := l.keys[t.Key()]
	return ok
}

// Append appends records to this ledger as they are and maintains the
// chronological order. It does not deduplicate: it is meant for decoding a
// ledger that may have been edited by hand.
func (l *Ledger) Append(recs ...Record) {
	for _, r := range recs {
		l.records = append(l.records, r)
		l.keys[r.Key()] = struct{}{}
	}
	l.stableSort()
}

// AppendNew appends the trades that are not yet in the ledger, with empty
// annotations. Existing records, including their annotations, are left
// untouched. It returns the number of trades appended and skipped.
func (l *Ledger) AppendNew(trades ...Trade) (appended, skipped int) {
	for _, t := range trades {
		key := t.Key()
		if _, exists := l.keys[key]; exists {
			skipped++
			continue
		}
		l.keys[key] = struct{}{}
		l.records = append(l.records, NewRecord(t))
		appended++
	}
	if appended > 0 {
		l.stableSort()
	}
	return appended, skipped
}

// SetRemark replaces the remark of the i-th record.
func (l *Ledger) SetRemark(i int, remark string) error {
	if _, err := l.Record(i); err != nil {
		return err
	}
	l.records[i].Remark = remark
	return nil
}

// SetRating replaces the rating of the i-th record.
func (l *Ledger) SetRating(i int, rating int) error {
	if _, err := l.Record(i); err != nil {
		return err
	}
	l.records[i].Rating = rating
	return nil
}

// ByTicker groups records per ticker, each group in chronological order.
func (l *Ledger) ByTicker() map[string][]Record {
	groups := make(map[string][]Record)
	for _, r := range l.records {
		groups[r.Ticker] = append(groups[r.Ticker], r)
	}
	return groups
}

// Tickers returns the sorted list of tickers in the ledger.
func (l *Ledger) Tickers() []string {
	return slices.Sorted(maps.Keys(l.ByTicker()))
}

// stableSort sorts the ledger by time. The sort is stable, meaning
// records at the same second maintain their original relative order.
func (l *Ledger) stableSort() {
	sort.SliceStable(l.records, func(i, j int) bool {
		return l.records[i].Time.Before(l.records[j].Time)
	})
}
