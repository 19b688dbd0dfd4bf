package model

import "github.com/shopspring/decimal"

// QuoteSample is one top-of-book observation.
type QuoteSample struct {
	Time     int64
	BestBid  float64 // Dollars
	BestAsk  float64 // Dollars
	Spread   float64 // BestAsk - BestBid
	Midpoint float64 // (BestBid + BestAsk) / 2
}

// NewQuoteSample derives spread and midpoint from the best prices.
func NewQuoteSample(t int64, bid, ask float64) QuoteSample {
	return QuoteSample{
		Time:     t,
		BestBid:  bid,
		BestAsk:  ask,
		Spread:   ask - bid,
		Midpoint: (bid + ask) / 2,
	}
}

// CentQuote builds a sample from best prices in cents. Spread and midpoint
// are computed on the integers, so they carry no float noise.
func CentQuote(t, bid, ask int64) QuoteSample {
	return exactQuote(t, bid, ask, -2)
}

// PriceQuote builds a sample from fixed-point best prices.
func PriceQuote(t, bid, ask int64) QuoteSample {
	return exactQuote(t, bid, ask, priceExp)
}

func exactQuote(t, bid, ask int64, exp int32) QuoteSample {
	return QuoteSample{
		Time:    t,
		BestBid: decimal.New(bid, exp).InexactFloat64(),
		BestAsk: decimal.New(ask, exp).InexactFloat64(),
		Spread:  decimal.New(ask-bid, exp).InexactFloat64(),
		// (bid + ask) / 2 == (bid + ask) * 5 one decimal place down
		Midpoint: decimal.New((bid+ask)*5, exp-1).InexactFloat64(),
	}
}
