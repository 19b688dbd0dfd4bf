package sign

import (
	"fmt"

	"github.com/rickgao/impact-response/internal/model"
)

// Weighting selects how trades in one bucket are summed.
type Weighting uint8

const (
	// Unweighted sums the trade signs.
	Unweighted Weighting = iota
	// VolumeWeighted sums sign × traded volume.
	VolumeWeighted
)

func (w Weighting) String() string {
	if w == VolumeWeighted {
		return "volume"
	}
	return "unweighted"
}

// ParseWeighting accepts "unweighted" or "volume".
func ParseWeighting(s string) (Weighting, error) {
	switch s {
	case "unweighted", "":
		return Unweighted, nil
	case "volume", "volume_weighted":
		return VolumeWeighted, nil
	}
	return 0, fmt.Errorf("unknown weighting %q", s)
}

// Buckets holds one aggregated sign per session cell.
//
// Signs is 0 both for cells without trades and for cells whose trades cancel
// out; response estimation treats both as "no signed trade". Trades keeps the
// count per cell so callers can tell the two apart.
type Buckets struct {
	Signs  []int8
	Trades []int32
}

// Balanced reports whether cell i had trades that summed to zero.
func (b Buckets) Balanced(i int) bool {
	return b.Signs[i] == 0 && b.Trades[i] > 0
}

// Nonzero counts cells with a nonzero sign.
func (b Buckets) Nonzero() int {
	n := 0
	for _, s := range b.Signs {
		if s != 0 {
			n++
		}
	}
	return n
}

// Aggregate sums the signs of trades landing in each session cell and keeps
// the sign of the sum. Trades outside the session are ignored.
func Aggregate(trades []model.Trade, signs []int8, session model.Session, w Weighting) (Buckets, error) {
	if len(trades) != len(signs) {
		return Buckets{}, fmt.Errorf("aggregate: %d trades but %d signs", len(trades), len(signs))
	}
	if err := session.Validate(); err != nil {
		return Buckets{}, err
	}

	n := session.Len()
	sums := make([]int64, n)
	b := Buckets{
		Signs:  make([]int8, n),
		Trades: make([]int32, n),
	}

	for i, t := range trades {
		if !session.Contains(t.Time) {
			continue
		}
		cell := session.Index(t.Time)
		v := int64(signs[i])
		if w == VolumeWeighted {
			v *= t.Volume
		}
		sums[cell] += v
		b.Trades[cell]++
	}

	for i, s := range sums {
		switch {
		case s > 0:
			b.Signs[i] = 1
		case s < 0:
			b.Signs[i] = -1
		}
	}
	return b, nil
}
