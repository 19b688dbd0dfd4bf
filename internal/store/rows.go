package store

import (
	"fmt"

	"github.com/rickgao/impact-response/internal/model"
)

// itchRow is one itch_events row.
type itchRow struct {
	Timestamp int64
	OrderID   int64
	Kind      string
	Price     int64
	Volume    int64
}

// quoteRow is one taq_quotes row. Either side may be NULL.
type quoteRow struct {
	Timestamp int64
	Bid       *string
	Ask       *string
}

// tradeRow is one taq_trades row.
type tradeRow struct {
	Timestamp int64
	Price     string
	Volume    int64
}

func (r itchRow) event(i int) (model.Event, error) {
	if len(r.Kind) != 1 {
		return model.Event{}, &model.IntegrityError{Index: i, Reason: fmt.Sprintf("event code %q", r.Kind)}
	}
	kind, err := model.KindFromCode(r.Kind[0])
	if err != nil {
		return model.Event{}, &model.IntegrityError{Index: i, Reason: err.Error()}
	}
	if r.OrderID < 0 {
		return model.Event{}, &model.IntegrityError{Index: i, Reason: "negative order id"}
	}
	return model.Event{
		Timestamp: r.Timestamp,
		OrderID:   uint64(r.OrderID),
		Kind:      kind,
		Price:     r.Price,
		Volume:    r.Volume,
	}, nil
}

// quote returns ok == false for a row missing a side.
func (r quoteRow) quote() (q model.QuoteSample, ok bool, err error) {
	if r.Bid == nil || r.Ask == nil {
		return model.QuoteSample{}, false, nil
	}
	bid, err := model.PriceFromString(*r.Bid)
	if err != nil {
		return model.QuoteSample{}, false, err
	}
	ask, err := model.PriceFromString(*r.Ask)
	if err != nil {
		return model.QuoteSample{}, false, err
	}
	return model.PriceQuote(r.Timestamp, bid, ask), true, nil
}

func (r tradeRow) trade() (model.Trade, error) {
	price, err := model.PriceFromString(r.Price)
	if err != nil {
		return model.Trade{}, err
	}
	return model.Trade{Time: r.Timestamp, Price: price, Volume: r.Volume}, nil
}

func toEvents(rows []itchRow) ([]model.Event, error) {
	events := make([]model.Event, len(rows))
	for i, r := range rows {
		e, err := r.event(i)
		if err != nil {
			return nil, err
		}
		events[i] = e
	}
	return events, nil
}

func toQuotes(rows []quoteRow) ([]model.QuoteSample, error) {
	quotes := make([]model.QuoteSample, 0, len(rows))
	for i, r := range rows {
		q, ok, err := r.quote()
		if err != nil {
			return nil, fmt.Errorf("quote %d: %w", i, err)
		}
		if ok {
			quotes = append(quotes, q)
		}
	}
	return quotes, nil
}

func toTrades(rows []tradeRow) ([]model.Trade, error) {
	trades := make([]model.Trade, len(rows))
	for i, r := range rows {
		t, err := r.trade()
		if err != nil {
			return nil, fmt.Errorf("trade %d: %w", i, err)
		}
		trades[i] = t
	}
	return trades, nil
}
