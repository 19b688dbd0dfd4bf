package model

import "fmt"

// Kind is the type of an exchange event.
type Kind uint8

const (
	KindUnknown Kind = iota
	AddBuy
	AddSell
	ExecutePartial
	CancelPartial
	ExecuteFull
	DeleteFull
	Cross
	ExecuteHidden
)

// ITCH message type codes.
var kindCodes = map[byte]Kind{
	'B': AddBuy,
	'S': AddSell,
	'E': ExecutePartial,
	'C': CancelPartial,
	'F': ExecuteFull,
	'D': DeleteFull,
	'X': Cross,
	'T': ExecuteHidden,
}

// KindFromCode maps an ITCH type code to a Kind.
func KindFromCode(code byte) (Kind, error) {
	k, ok := kindCodes[code]
	if !ok {
		return KindUnknown, fmt.Errorf("unknown event code %q", code)
	}
	return k, nil
}

// Code returns the ITCH type code, or '?' for KindUnknown.
func (k Kind) Code() byte {
	for c, kind := range kindCodes {
		if kind == k {
			return c
		}
	}
	return '?'
}

func (k Kind) String() string {
	switch k {
	case AddBuy:
		return "add_buy"
	case AddSell:
		return "add_sell"
	case ExecutePartial:
		return "execute_partial"
	case CancelPartial:
		return "cancel_partial"
	case ExecuteFull:
		return "execute_full"
	case DeleteFull:
		return "delete_full"
	case Cross:
		return "cross"
	case ExecuteHidden:
		return "execute_hidden"
	default:
		return "unknown"
	}
}

// IsAdd reports whether the event places a new resting order.
func (k Kind) IsAdd() bool {
	return k == AddBuy || k == AddSell
}

// NeedsReference reports whether the event only carries an order id and
// must be resolved against a prior add.
func (k Kind) NeedsReference() bool {
	switch k {
	case ExecutePartial, CancelPartial, ExecuteFull, DeleteFull:
		return true
	}
	return false
}

// RemovesOrder reports whether the event takes the whole order off the book.
func (k Kind) RemovesOrder() bool {
	return k == ExecuteFull || k == DeleteFull
}

// IsExecution reports whether the event is a trade.
func (k Kind) IsExecution() bool {
	return k == ExecutePartial || k == ExecuteFull || k == ExecuteHidden
}

// Side is the side of a resting order.
type Side int8

const (
	Buy  Side = 1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Buy {
		return "buy"
	}
	return "sell"
}

// Event is one exchange message, immutable once parsed.
type Event struct {
	Timestamp int64  // Since midnight, feed unit
	OrderID   uint64 // Resting order reference (ITCH only)
	Kind      Kind
	Price     int64 // Ten-thousandths of a dollar; zero when the feed omits it
	Volume    int64 // Shares
}

// Trade is one execution used for trade-sign inference.
type Trade struct {
	Time   int64
	Price  int64 // Ten-thousandths of a dollar
	Volume int64
}
