package sign

import "github.com/rickgao/impact-response/internal/model"

// DefaultSeed is the sign given to the first trade of a day.
const DefaultSeed int8 = 1

// TickRule classifies trades one at a time. The zero value seeds the first
// trade with DefaultSeed.
type TickRule struct {
	Seed int8

	prevPrice int64
	prevSign  int8
	started   bool
}

// Next returns the sign of a trade at price: the sign of the price change
// against the previous trade, or the previous sign when the price is flat.
func (r *TickRule) Next(price int64) int8 {
	if !r.started {
		r.started = true
		r.prevPrice = price
		r.prevSign = r.Seed
		if r.prevSign == 0 {
			r.prevSign = DefaultSeed
		}
		return r.prevSign
	}

	switch {
	case price > r.prevPrice:
		r.prevSign = 1
	case price < r.prevPrice:
		r.prevSign = -1
	}
	r.prevPrice = price
	return r.prevSign
}

// Reset forgets the previous trade.
func (r *TickRule) Reset() {
	r.prevPrice, r.prevSign, r.started = 0, 0, false
}

// Classify signs every trade in order. The result never contains zero.
func Classify(trades []model.Trade, seed int8) []int8 {
	rule := TickRule{Seed: seed}
	signs := make([]int8, len(trades))
	for i, t := range trades {
		signs[i] = rule.Next(t.Price)
	}
	return signs
}

// ClassifyPrices is Classify over bare prices.
func ClassifyPrices(prices []int64, seed int8) []int8 {
	rule := TickRule{Seed: seed}
	signs := make([]int8, len(prices))
	for i, p := range prices {
		signs[i] = rule.Next(p)
	}
	return signs
}

// Accuracy returns the share of trades whose inferred sign matches a nonzero
// truth sign, together with the number of trades compared.
func Accuracy(inferred, truth []int8) (float64, int) {
	n := min(len(inferred), len(truth))
	var hits, total int
	for i := 0; i < n; i++ {
		if truth[i] == 0 {
			continue
		}
		total++
		if inferred[i] == truth[i] {
			hits++
		}
	}
	if total == 0 {
		return 0, 0
	}
	return float64(hits) / float64(total), total
}
