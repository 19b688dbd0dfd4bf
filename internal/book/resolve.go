package book

import (
	"fmt"

	"github.com/rickgao/impact-response/internal/model"
)

// Resolved is an event together with the price and side of the order it refers to.
type Resolved struct {
	Event  model.Event
	Price  int64      // Fixed-point price of the referenced order (or the event's own price)
	Side   model.Side // Zero for hidden executions
	Origin int        // Input position of the add that created the order, -1 if none
	Pos    int        // Input position of the event itself
}

type restingOrder struct {
	price int64
	side  model.Side
	pos   int
}

// Resolve looks up every reference-needing event in an order index built from
// the preceding adds. Cross events are dropped. An execution, cancel or delete
// whose order id has no live add is an IntegrityError.
func Resolve(events []model.Event) ([]Resolved, error) {
	index := make(map[uint64]restingOrder)
	out := make([]Resolved, 0, len(events))

	var last int64
	for i, ev := range events {
		if i > 0 && ev.Timestamp < last {
			return nil, &model.IntegrityError{Index: i, Reason: "events out of time order"}
		}
		last = ev.Timestamp

		switch {
		case ev.Kind.IsAdd():
			if _, live := index[ev.OrderID]; live {
				return nil, &model.IntegrityError{OrderID: ev.OrderID, Index: i, Reason: "duplicate add"}
			}
			side := model.Buy
			if ev.Kind == model.AddSell {
				side = model.Sell
			}
			index[ev.OrderID] = restingOrder{price: ev.Price, side: side, pos: i}
			out = append(out, Resolved{Event: ev, Price: ev.Price, Side: side, Origin: i, Pos: i})

		case ev.Kind.NeedsReference():
			o, ok := index[ev.OrderID]
			if !ok {
				return nil, &model.IntegrityError{
					OrderID: ev.OrderID,
					Index:   i,
					Reason:  fmt.Sprintf("%s without prior add", ev.Kind),
				}
			}
			if ev.Kind.RemovesOrder() {
				delete(index, ev.OrderID)
			}
			out = append(out, Resolved{Event: ev, Price: o.price, Side: o.side, Origin: o.pos, Pos: i})

		case ev.Kind == model.ExecuteHidden:
			out = append(out, Resolved{Event: ev, Price: ev.Price, Origin: -1, Pos: i})

		case ev.Kind == model.Cross:
			// Crosses are filtered upstream; tolerate strays.

		default:
			return nil, &model.IntegrityError{Index: i, Reason: fmt.Sprintf("unknown event kind %d", ev.Kind)}
		}
	}

	return out, nil
}

// Executions returns the trades of a resolved day along with the sign implied by
// the resting side: +1 when a sell order was hit, -1 when a buy order was hit,
// 0 for hidden executions. These signs are the ground truth the tick rule is
// validated against.
func Executions(resolved []Resolved) ([]model.Trade, []int8) {
	trades := make([]model.Trade, 0, len(resolved)/4)
	truth := make([]int8, 0, len(resolved)/4)
	for _, r := range resolved {
		if !r.Event.Kind.IsExecution() {
			continue
		}
		trades = append(trades, model.Trade{
			Time:   r.Event.Timestamp,
			Price:  r.Price,
			Volume: r.Event.Volume,
		})
		truth = append(truth, -int8(r.Side))
	}
	return trades, truth
}
