// Package broker reads broker trade exports into canonical rows.
//
// Every broker names its columns its own way. A Schema lists, for each
// canonical field, the column names it is known under. Reading a file binds
// the header once against the schema and normalizes each row: action verbs
// are normalized, times are parsed and truncated to the second, decimals are
// parsed exactly. Rows that cannot be normalized are dropped, files that
// cannot be read contribute nothing.
package broker

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Field is a canonical field of a trade row.
type Field int

const (
	FieldTime Field = iota
	FieldTicker
	FieldAction
	FieldID
	FieldQuantity
	FieldPrice
	FieldTotal
	numFields
)

var fieldNames = [numFields]string{"time", "ticker", "action", "id", "quantity", "price", "total"}

func (f Field) String() string {
	if f < 0 || f >= numFields {
		return "unknown"
	}
	return fieldNames[f]
}

// Required reports whether a source file must provide the field.
func (f Field) Required() bool { return f != FieldID }

// ErrMissingColumns is returned (wrapped) when a file lacks a required column.
var ErrMissingColumns = errors.New("missing required columns")

// Schema describes the columns of a broker export.
type Schema struct {
	Name string

	// Columns lists the accepted column names for each field, in order of
	// preference. Names are matched case-insensitively, ignoring surrounding
	// blanks.
	Columns map[Field][]string

	// DropActions are the (normalized) actions of rows that are not trades,
	// compared exactly.
	DropActions []string
}

// DefaultDropActions are the actions dropped by the built-in schemas.
var DefaultDropActions = []string{"Deposit"}

var schemas = map[string]Schema{
	"trading212": {
		Name: "trading212",
		Columns: map[Field][]string{
			FieldTime:     {"Time"},
			FieldTicker:   {"Ticker"},
			FieldAction:   {"Action"},
			FieldID:       {"ID"},
			FieldQuantity: {"No. of shares"},
			FieldPrice:    {"Price / share"},
			FieldTotal:    {"Total"},
		},
		DropActions: DefaultDropActions,
	},
	"generic": {
		Name: "generic",
		Columns: map[Field][]string{
			FieldTime:     {"time"},
			FieldTicker:   {"ticker"},
			FieldAction:   {"action"},
			FieldID:       {"id"},
			FieldQuantity: {"quantity"},
			FieldPrice:    {"price"},
			FieldTotal:    {"total"},
		},
		DropActions: DefaultDropActions,
	},
	"auto": {
		Name: "auto",
		Columns: map[Field][]string{
			FieldTime:     {"Time", "Date", "Datetime", "Date/Time", "Timestamp", "Trade date"},
			FieldTicker:   {"Ticker", "Symbol", "Instrument"},
			FieldAction:   {"Action", "Side", "Buy/Sell", "Type"},
			FieldID:       {"ID", "Order ID", "Trade ID", "Transaction ID"},
			FieldQuantity: {"No. of shares", "Shares", "Quantity", "Qty", "Units"},
			FieldPrice:    {"Price / share", "Price per share", "Price", "Unit price"},
			FieldTotal:    {"Total", "Net amount", "Amount", "Value"},
		},
		DropActions: DefaultDropActions,
	},
}

// DefaultSchema is the name of the schema used when none is configured.
const DefaultSchema = "auto"

// Lookup returns the built-in schema registered under name.
func Lookup(name string) (Schema, error) {
	if name == "" {
		name = DefaultSchema
	}
	s, ok := schemas[strings.ToLower(name)]
	if !ok {
		return Schema{}, fmt.Errorf("no schema available for broker %q, known brokers are %s", name, strings.Join(Names(), ", "))
	}
	return s, nil
}

// Names returns the names of the built-in schemas, sorted.
func Names() []string {
	names := make([]string, 0, len(schemas))
	for name := range schemas {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// WithDropActions returns a copy of the schema dropping the given actions
// instead of its own.
func (s Schema) WithDropActions(actions []string) Schema {
	s.DropActions = slices.Clone(actions)
	return s
}

// binding is a schema resolved against a header: the position of each field,
// -1 when absent.
type binding [numFields]int

// bind locates the schema fields in header. It fails if a required field has
// no column.
func (s Schema) bind(header []string) (binding, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		name = columnKey(name)
		if _, dup := positions[name]; !dup {
			positions[name] = i
		}
	}

	var b binding
	var missing []string
	for f := range numFields {
		b[f] = -1
		for _, alias := range s.Columns[f] {
			if i, ok := positions[columnKey(alias)]; ok {
				b[f] = i
				break
			}
		}
		if b[f] < 0 && f.Required() {
			missing = append(missing, f.String())
		}
	}
	if len(missing) > 0 {
		return b, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return b, nil
}

// columnKey is the comparable form of a column name.
func columnKey(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
}
