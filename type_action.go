package tradeledger

import (
	"fmt"
	"strings"
)

// Action is the side of a trade as recorded in the ledger.
//
// Buy and Sell are the normalized verbs. Any other broker vocabulary
// (dividends, withdrawals, interest...) is kept verbatim and classifies as
// KindOther.
type Action string

const (
	Buy  Action = "BUY"
	Sell Action = "SELL"
)

// ActionKind is the closed classification of an Action.
type ActionKind int

const (
	KindOther ActionKind = iota
	KindBuy
	KindSell
)

func (k ActionKind) String() string {
	switch k {
	case KindBuy:
		return "buy"
	case KindSell:
		return "sell"
	default:
		return "other"
	}
}

// NormalizeAction maps broker vocabulary onto the canonical verbs.
//
// "Market buy", "Limit Buy" and the like become Buy, anything containing
// "sell" becomes Sell. Other text is returned unchanged.
func NormalizeAction(text string) Action {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "buy"):
		return Buy
	case strings.Contains(lower, "sell"):
		return Sell
	default:
		return Action(text)
	}
}

// Kind classifies the action.
func (a Action) Kind() ActionKind {
	switch a {
	case Buy:
		return KindBuy
	case Sell:
		return KindSell
	default:
		return KindOther
	}
}

func (a Action) String() string { return string(a) }

// Anchor selects the member of an open group the combiner measures the time
// gap against.
type Anchor int

const (
	// AnchorPrevious measures the gap from the most recent member, so groups
	// may chain beyond the nominal gap.
	AnchorPrevious Anchor = iota
	// AnchorFirst measures the gap from the first member of the group.
	AnchorFirst
)

func (a Anchor) String() string {
	switch a {
	case AnchorPrevious:
		return "previous"
	case AnchorFirst:
		return "first"
	default:
		return "unknown"
	}
}

// ParseAnchor parses a string into an Anchor.
func ParseAnchor(s string) (Anchor, error) {
	switch s {
	case "previous", "":
		return AnchorPrevious, nil
	case "first":
		return AnchorFirst, nil
	default:
		return 0, fmt.Errorf("unknown anchor: %q", s)
	}
}
