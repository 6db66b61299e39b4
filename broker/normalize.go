package broker

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/etnz/tradeledger"
)

// ParseTime parses a time cell and truncates it to the second.
//
// The layout is inferred from the cell: ISO 8601 with or without "T" and
// fractional seconds, RFC 3339 with a zone, slash separated dates (month
// first when ambiguous), date only. The wall clock of the cell is kept as is,
// in UTC, whatever zone offset it carries: exports of the same account are
// compared with each other, not with other clocks.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("empty time")
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

// NormalizeRow maps one raw export row, keyed by column name, to a canonical
// row.
//
// It returns tradeledger.ErrSkipped for rows whose action is one of the
// schema's drop actions, a *tradeledger.RowParseError for rows with a
// malformed field, and an error wrapping ErrMissingColumns if raw lacks a
// required column.
func (s Schema) NormalizeRow(raw map[string]string) (tradeledger.Row, error) {
	header := make([]string, 0, len(raw))
	record := make([]string, 0, len(raw))
	for name, value := range raw {
		header = append(header, name)
		record = append(record, value)
	}
	b, err := s.bind(header)
	if err != nil {
		return tradeledger.Row{}, fmt.Errorf("cannot normalize row: %w", err)
	}
	return s.normalize(b, record, 0)
}

// normalize builds a row from a record bound to the schema. line is only used
// in errors.
func (s Schema) normalize(b binding, record []string, line int) (tradeledger.Row, error) {
	cell := func(f Field) string {
		if i := b[f]; i >= 0 && i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	fail := func(f Field, err error) error {
		return &tradeledger.RowParseError{Line: line, Field: f.String(), Value: cell(f), Err: err}
	}

	row := tradeledger.Row{
		Ticker: cell(FieldTicker),
		Action: tradeledger.NormalizeAction(cell(FieldAction)),
		ID:     cell(FieldID),
	}
	if slices.Contains(s.DropActions, string(row.Action)) {
		return row, tradeledger.ErrSkipped
	}

	var err error
	if row.Time, err = ParseTime(cell(FieldTime)); err != nil {
		return row, fail(FieldTime, err)
	}
	if row.Quantity, err = tradeledger.ParseDecimal(cell(FieldQuantity)); err != nil {
		return row, fail(FieldQuantity, err)
	}
	if row.Price, err = tradeledger.ParseDecimal(cell(FieldPrice)); err != nil {
		return row, fail(FieldPrice, err)
	}
	if row.Total, err = tradeledger.ParseDecimal(cell(FieldTotal)); err != nil {
		return row, fail(FieldTotal, err)
	}
	return row, nil
}

// isSkipped reports whether err marks a row deliberately left out.
func isSkipped(err error) bool { return errors.Is(err, tradeledger.ErrSkipped) }
