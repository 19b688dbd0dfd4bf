package book

import (
	"fmt"
	"math"

	"github.com/rickgao/impact-response/internal/model"
)

const (
	noBid int64 = 0
	noAsk int64 = math.MaxInt64
)

// Replayer turns one stock-day of events into a de-duplicated quote stream.
type Replayer struct {
	Session model.Session
}

// NewReplayer creates a Replayer emitting samples within session.
func NewReplayer(session model.Session) Replayer {
	return Replayer{Session: session}
}

// Replay resolves and replays events. Samples are emitted when the best bid or
// best ask changes while both sides have resting orders, restricted to the
// session. The book in force at the open is emitted once at Session.Start.
// A crossed book inside the session is an IntegrityError; crosses that clear
// before the open are tolerated.
func (r Replayer) Replay(events []model.Event) ([]model.QuoteSample, error) {
	resolved, err := Resolve(events)
	if err != nil {
		return nil, fmt.Errorf("resolve events: %w", err)
	}
	return r.ReplayResolved(resolved)
}

// ReplayResolved replays events already passed through Resolve.
func (r Replayer) ReplayResolved(resolved []Resolved) ([]model.QuoteSample, error) {
	ladder, err := NewLadder(resolved)
	if err != nil {
		return nil, err
	}

	st := state{bid: noBid, ask: noAsk}
	samples := make([]model.QuoteSample, 0, len(resolved)/8)
	opened := false

	for _, ev := range resolved {
		t := ev.Event.Timestamp
		if t >= r.Session.End {
			break
		}

		prev := st
		if err := st.apply(ladder, ev); err != nil {
			return nil, err
		}
		changed := st != prev

		if t < r.Session.Start {
			continue
		}
		if !opened {
			opened = true
			if prev.twoSided() && (t > r.Session.Start || !changed) {
				if prev.crossed() {
					return nil, crossedError(ev.Pos, prev)
				}
				samples = append(samples, prev.sample(r.Session.Start))
			}
		}
		if changed && st.twoSided() {
			if st.crossed() {
				return nil, crossedError(ev.Pos, st)
			}
			samples = append(samples, st.sample(t))
		}
	}

	if !opened && st.twoSided() {
		if st.crossed() {
			return nil, crossedError(len(resolved)-1, st)
		}
		samples = append(samples, st.sample(r.Session.Start))
	}

	return samples, nil
}

// state is the top of book in cents.
type state struct {
	bid int64
	ask int64
}

func (s state) twoSided() bool {
	return s.bid != noBid && s.ask != noAsk
}

// crossed reports a bid above the ask. A locked book (bid == ask) is allowed.
func (s state) crossed() bool {
	return s.twoSided() && s.bid > s.ask
}

func (s state) sample(t int64) model.QuoteSample {
	return model.CentQuote(t, s.bid, s.ask)
}

func crossedError(pos int, s state) error {
	return &model.IntegrityError{
		Index:  pos,
		Reason: fmt.Sprintf("crossed book: bid %d > ask %d cents", s.bid, s.ask),
	}
}

func (s *state) apply(l *Ladder, ev Resolved) error {
	kind := ev.Event.Kind
	if !kind.IsAdd() && !kind.RemovesOrder() {
		return nil
	}

	cents := model.CentTick(ev.Price)
	if !l.InRange(cents) {
		return nil
	}

	if kind.IsAdd() {
		l.Add(ev.Side, cents)
		if ev.Side == model.Sell {
			s.ask = min(s.ask, cents)
		} else {
			s.bid = max(s.bid, cents)
		}
		return nil
	}

	emptied, err := l.Remove(ev.Side, cents)
	if err != nil {
		return err
	}
	if !emptied {
		return nil
	}

	if ev.Side == model.Sell && cents == s.ask {
		s.ask = noAsk
		if best, ok := l.Best(model.Sell); ok {
			s.ask = best
		}
	}
	if ev.Side == model.Buy && cents == s.bid {
		s.bid = noBid
		if best, ok := l.Best(model.Buy); ok {
			s.bid = best
		}
	}
	return nil
}
