package tradeledger

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Header is the ledger header as written. Downstream tools read these names.
var Header = []string{"Time", "Ticker", "Action", "Qty", "Price", "Total", "Remark", "Rating"}

// ledger columns, in Header order.
const (
	colTime = iota
	colTicker
	colAction
	colQuantity
	colPrice
	colTotal
	colRemark
	colRating
	numColumns
)

// columnNames are the canonical names of the columns, used in error messages.
var columnNames = [numColumns]string{"time", "ticker", "action", "quantity", "price", "total", "remark", "rating"}

// columnAliases lists the accepted header names per column, lower case.
var columnAliases = [numColumns][]string{
	colTime:     {"time"},
	colTicker:   {"ticker"},
	colAction:   {"action"},
	colQuantity: {"qty", "quantity"},
	colPrice:    {"price"},
	colTotal:    {"total"},
	colRemark:   {"remark"},
	colRating:   {"rating"},
}

// DecodeLedger decodes a ledger from CSV.
//
// Every column in Header must be present (case is ignored, "quantity" is
// accepted for "Qty"); otherwise a *SchemaMismatchError is returned. Extra
// columns are ignored. An empty input has no header at all: it is a
// *SchemaMismatchError too.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &SchemaMismatchError{Missing: columnNames[:]}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read ledger header: %w", err)
	}

	index, missing := bindColumns(header)
	if len(missing) > 0 {
		return nil, &SchemaMismatchError{Missing: missing}
	}

	var recs []Record
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading ledger: %w", err)
		}
		line, _ := reader.FieldPos(0)
		rec, err := decodeRecord(record, index)
		if err != nil {
			return nil, fmt.Errorf("ledger line %d: %w", line, err)
		}
		recs = append(recs, rec)
	}
	ledger.Append(recs...)
	return ledger, nil
}

// bindColumns locates every ledger column in header. It returns the position
// of each column and the canonical names of the missing ones.
func bindColumns(header []string) (index [numColumns]int, missing []string) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}
	for col := range numColumns {
		index[col] = -1
		for _, alias := range columnAliases[col] {
			if i, ok := positions[alias]; ok {
				index[col] = i
				break
			}
		}
		if index[col] < 0 {
			missing = append(missing, columnNames[col])
		}
	}
	return index, missing
}

func decodeRecord(record []string, index [numColumns]int) (Record, error) {
	cell := func(col int) string {
		if i := index[col]; i < len(record) {
			return record[i]
		}
		return ""
	}

	var rec Record
	var err error
	if rec.Time, err = time.Parse(TimeFormat, strings.TrimSpace(cell(colTime))); err != nil {
		return rec, fmt.Errorf("invalid time: %w", err)
	}
	rec.Ticker = cell(colTicker)
	rec.Action = Action(cell(colAction))

	decimals := []struct {
		col int
		dst *decimal.Decimal
	}{
		{colQuantity, &rec.Quantity},
		{colPrice, &rec.Price},
		{colTotal, &rec.Total},
	}
	for _, d := range decimals {
		if *d.dst, err = ParseDecimal(cell(d.col)); err != nil {
			return rec, fmt.Errorf("invalid %s %q: %w", columnNames[d.col], cell(d.col), err)
		}
	}

	rec.Remark = cell(colRemark)
	if rating := strings.TrimSpace(cell(colRating)); rating != "" {
		// Ratings edited by other tools may carry a fraction ("4.0").
		r, err := ParseDecimal(rating)
		if err != nil {
			return rec, fmt.Errorf("invalid rating %q: %w", rating, err)
		}
		rec.Rating = int(r.IntPart())
	}
	return rec, nil
}

// EncodeLedger writes the ledger as CSV, header first, in chronological order.
// Decimals are written in their shortest exact form.
func EncodeLedger(w io.Writer, ledger *Ledger) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write ledger header: %w", err)
	}
	for _, r := range ledger.Records() {
		if err := writer.Write(encodeRecord(r)); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func encodeRecord(r Record) []string {
	record := make([]string, numColumns)
	record[colTime] = r.Time.Format(TimeFormat)
	record[colTicker] = r.Ticker
	record[colAction] = string(r.Action)
	record[colQuantity] = r.Quantity.String()
	record[colPrice] = r.Price.String()
	record[colTotal] = r.Total.String()
	record[colRemark] = r.Remark
	record[colRating] = strconv.Itoa(r.Rating)
	return record
}
