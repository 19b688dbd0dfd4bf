package pipeline

import (
	"errors"
	"fmt"

	"github.com/rickgao/impact-response/internal/book"
	"github.com/rickgao/impact-response/internal/grid"
	"github.com/rickgao/impact-response/internal/model"
	"github.com/rickgao/impact-response/internal/response"
	"github.com/rickgao/impact-response/internal/sign"
)

// SignSource selects where per-trade signs come from.
type SignSource uint8

const (
	// TickRule infers signs from trade prices.
	TickRule SignSource = iota
	// Matched takes the side of the resting order each execution hit (ITCH only).
	Matched
)

func (s SignSource) String() string {
	if s == Matched {
		return "matched"
	}
	return "tick_rule"
}

// ParseSignSource accepts "tick_rule" or "matched".
func ParseSignSource(s string) (SignSource, error) {
	switch s {
	case "tick_rule", "tick":
		return TickRule, nil
	case "matched":
		return Matched, nil
	}
	return 0, fmt.Errorf("unknown sign source %q", s)
}

// Builder turns raw records of one stock-day into aligned grids.
type Builder struct {
	Session   model.Session
	Grid      grid.Policy
	Field     grid.Field
	Weighting sign.Weighting
	Signs     SignSource
	Seed      int8
}

// Day is one stock-day on the session grid.
type Day struct {
	Price  []float64
	Signs  sign.Buckets
	Quotes int // Quote samples before resampling
	Trades int // Trades classified
}

// ITCHDay replays order-by-order events into a price grid and classifies the
// executions into a sign grid.
func (b Builder) ITCHDay(events []model.Event) (Day, error) {
	if len(events) == 0 {
		return Day{}, fmt.Errorf("itch day: no events: %w", model.ErrNoData)
	}

	resolved, err := book.Resolve(events)
	if err != nil {
		return Day{}, fmt.Errorf("resolve events: %w", err)
	}
	quotes, err := book.NewReplayer(b.Session).ReplayResolved(resolved)
	if err != nil {
		return Day{}, fmt.Errorf("replay book: %w", err)
	}

	trades, truth := book.Executions(resolved)
	signs := truth
	if b.Signs == TickRule {
		signs = sign.Classify(trades, b.Seed)
	}

	return b.assemble(quotes, trades, signs)
}

// TAQDay resamples consolidated quotes and classifies trades with the tick rule.
// Quotes with a non-positive or crossed side are dropped.
func (b Builder) TAQDay(quotes []model.QuoteSample, trades []model.Trade) (Day, error) {
	if b.Signs == Matched {
		return Day{}, errors.New("taq day: matched signs need order-level data")
	}

	clean := make([]model.QuoteSample, 0, len(quotes))
	for _, q := range quotes {
		if q.BestBid <= 0 || q.BestAsk <= 0 || q.BestAsk < q.BestBid {
			continue
		}
		clean = append(clean, q)
	}

	return b.assemble(clean, trades, sign.Classify(trades, b.Seed))
}

func (b Builder) assemble(quotes []model.QuoteSample, trades []model.Trade, signs []int8) (Day, error) {
	if len(quotes) == 0 {
		return Day{}, fmt.Errorf("no two-sided quotes: %w", model.ErrNoData)
	}
	if len(trades) == 0 {
		return Day{}, fmt.Errorf("no trades: %w", model.ErrNoData)
	}

	price, err := grid.Quotes(quotes, b.Session, b.Grid, b.Field)
	if err != nil {
		return Day{}, fmt.Errorf("resample quotes: %w", err)
	}
	buckets, err := sign.Aggregate(trades, signs, b.Session, b.Weighting)
	if err != nil {
		return Day{}, fmt.Errorf("aggregate signs: %w", err)
	}

	return Day{
		Price:  price,
		Signs:  buckets,
		Quotes: len(quotes),
		Trades: len(trades),
	}, nil
}

// SignAccuracy compares tick-rule signs with the matched signs of one ITCH day.
func (b Builder) SignAccuracy(events []model.Event) (float64, int, error) {
	resolved, err := book.Resolve(events)
	if err != nil {
		return 0, 0, fmt.Errorf("resolve events: %w", err)
	}
	trades, truth := book.Executions(resolved)
	if len(trades) == 0 {
		return 0, 0, fmt.Errorf("no executions: %w", model.ErrNoData)
	}
	acc, n := sign.Accuracy(sign.Classify(trades, b.Seed), truth)
	return acc, n, nil
}

// Respond estimates how src's price responds to drv's trade signs. A self
// pair uses src's own signs and ignores drv.
func Respond(pair response.Pair, src, drv Day, opts response.Options) (response.Curve, error) {
	signs := drv.Signs.Signs
	if pair.Kind() == response.Self {
		signs = src.Signs.Signs
	}
	return response.Estimate(src.Price, signs, opts)
}

// RespondShift is Respond at a fixed lag over a range of shifts.
func RespondShift(pair response.Pair, src, drv Day, tau int, shifts []int, opts response.Options) (response.ShiftCurve, error) {
	signs := drv.Signs.Signs
	if pair.Kind() == response.Self {
		signs = src.Signs.Signs
	}
	return response.EstimateShift(src.Price, signs, tau, shifts, opts)
}
