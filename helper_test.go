package tradeledger

import (
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

// decimalEqual compares decimals by value, 32.0 equals 32.
var decimalEqual = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

// T parses a ledger time, for test literals.
func T(s string) time.Time {
	t, err := time.Parse(TimeFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

// S parses a decimal, for test literals.
func S(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func row(ts, ticker string, action Action, qty, price, total string) Row {
	return Row{Time: T(ts), Ticker: ticker, Action: action, Quantity: S(qty), Price: S(price), Total: S(total)}
}

func trade(ts, ticker string, action Action, qty, price, total string) Trade {
	return Trade{Time: T(ts), Ticker: ticker, Action: action, Quantity: S(qty), Price: S(price), Total: S(total)}
}
