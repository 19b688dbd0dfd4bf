package book

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tidwall/btree"

	"github.com/rickgao/impact-response/internal/model"
)

var (
	lowerBound = decimal.RequireFromString("0.9")
	upperBound = decimal.RequireFromString("1.1")
)

// Ladder counts resting orders per cent price level on each side.
// Only levels with a nonzero count are stored.
type Ladder struct {
	Min int64 // Lowest level, cents
	Max int64 // Highest level, cents

	bids *btree.Map[int64, int]
	asks *btree.Map[int64, int]
}

// NewLadder derives the price bounds from the day's full executions.
// A day without any returns model.ErrNoData.
func NewLadder(resolved []Resolved) (*Ladder, error) {
	var lo, hi int64
	found := false
	for _, r := range resolved {
		if r.Event.Kind != model.ExecuteFull {
			continue
		}
		if !found || r.Price < lo {
			lo = r.Price
		}
		if !found || r.Price > hi {
			hi = r.Price
		}
		found = true
	}
	if !found {
		return nil, fmt.Errorf("no full executions: %w", model.ErrNoData)
	}

	return &Ladder{
		Min:  model.ScaledCentTick(lo, lowerBound),
		Max:  model.ScaledCentTick(hi, upperBound),
		bids: btree.NewMap[int64, int](32),
		asks: btree.NewMap[int64, int](32),
	}, nil
}

// InRange reports whether a cent level lies on the ladder.
func (l *Ladder) InRange(cents int64) bool {
	return cents >= l.Min && cents <= l.Max
}

func (l *Ladder) side(s model.Side) *btree.Map[int64, int] {
	if s == model.Buy {
		return l.bids
	}
	return l.asks
}

// Count returns the resting orders at a level.
func (l *Ladder) Count(s model.Side, cents int64) int {
	n, _ := l.side(s).Get(cents)
	return n
}

// Add registers one resting order.
func (l *Ladder) Add(s model.Side, cents int64) {
	m := l.side(s)
	n, _ := m.Get(cents)
	m.Set(cents, n+1)
}

// Remove takes one order off a level and reports whether the level emptied.
func (l *Ladder) Remove(s model.Side, cents int64) (bool, error) {
	m := l.side(s)
	n, ok := m.Get(cents)
	if !ok || n <= 0 {
		return false, &model.IntegrityError{Index: -1, Reason: fmt.Sprintf("%s level %d would go negative", s, cents)}
	}
	if n == 1 {
		m.Delete(cents)
		return true, nil
	}
	m.Set(cents, n-1)
	return false, nil
}

// Best returns the highest bid or lowest ask level with resting orders.
func (l *Ladder) Best(s model.Side) (int64, bool) {
	if s == model.Buy {
		k, _, ok := l.bids.Max()
		return k, ok
	}
	k, _, ok := l.asks.Min()
	return k, ok
}
