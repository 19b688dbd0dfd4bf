package grid

import (
	"fmt"
	"math"

	"github.com/rickgao/impact-response/internal/model"
)

// Field selects which quote value a price grid carries.
type Field uint8

const (
	Midpoint Field = iota
	Bid
	Ask
	Spread
)

func (f Field) String() string {
	switch f {
	case Bid:
		return "bid"
	case Ask:
		return "ask"
	case Spread:
		return "spread"
	default:
		return "midpoint"
	}
}

// ParseField accepts "midpoint", "bid", "ask" or "spread".
func ParseField(s string) (Field, error) {
	switch s {
	case "midpoint", "mid":
		return Midpoint, nil
	case "bid":
		return Bid, nil
	case "ask":
		return Ask, nil
	case "spread":
		return Spread, nil
	}
	return 0, fmt.Errorf("unknown quote field %q", s)
}

func (f Field) value(q model.QuoteSample) float64 {
	switch f {
	case Bid:
		return q.BestBid
	case Ask:
		return q.BestAsk
	case Spread:
		return q.Spread
	default:
		return q.Midpoint
	}
}

// Quotes resamples one field of a quote stream. Price fields must stay
// strictly positive on the whole grid.
func Quotes(quotes []model.QuoteSample, session model.Session, p Policy, field Field) ([]float64, error) {
	samples := make([]Sample[float64], len(quotes))
	for i, q := range quotes {
		samples[i] = Sample[float64]{Time: q.Time, Value: field.value(q)}
	}

	out, err := Resample(samples, session, p)
	if err != nil {
		return nil, err
	}

	if field != Spread {
		for i, v := range out {
			if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &model.IntegrityError{Index: i, Reason: fmt.Sprintf("%s grid holds %v", field, v)}
			}
		}
	}
	return out, nil
}
