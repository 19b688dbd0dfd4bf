package book

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/impact-response/internal/model"
)

func px(dollars float64) int64 {
	return int64(dollars*model.PriceScale + 0.5)
}

func ev(t int64, id uint64, kind model.Kind, price float64, vol int64) model.Event {
	return model.Event{Timestamp: t, OrderID: id, Kind: kind, Price: px(price), Volume: vol}
}

func baseDay() []model.Event {
	return []model.Event{
		ev(1, 1, model.AddBuy, 10.00, 100),
		ev(2, 2, model.AddSell, 10.05, 100),
		ev(3, 3, model.AddSell, 10.03, 100),
		ev(4, 4, model.AddBuy, 10.01, 100),
		ev(5, 3, model.ExecuteFull, 0, 100),
		ev(6, 4, model.DeleteFull, 0, 100),
		ev(7, 2, model.ExecutePartial, 0, 40),
	}
}

func TestResolve_UnknownOrder(t *testing.T) {
	events := []model.Event{
		ev(1, 1, model.AddBuy, 10.00, 100),
		ev(2, 99, model.ExecuteFull, 0, 100),
	}

	_, err := Resolve(events)
	require.Error(t, err)

	var ie *model.IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, uint64(99), ie.OrderID)
	assert.Equal(t, 1, ie.Index)
}

func TestResolve_RemovedOrderCannotBeReused(t *testing.T) {
	events := []model.Event{
		ev(1, 1, model.AddSell, 10.00, 100),
		ev(2, 1, model.DeleteFull, 0, 100),
		ev(3, 1, model.CancelPartial, 0, 10),
	}

	_, err := Resolve(events)
	assert.True(t, model.IsIntegrity(err))
}

func TestResolve_OutOfOrder(t *testing.T) {
	events := []model.Event{
		ev(5, 1, model.AddSell, 10.00, 100),
		ev(4, 2, model.AddSell, 10.00, 100),
	}

	_, err := Resolve(events)
	assert.True(t, model.IsIntegrity(err))
}

func TestResolve_PricesAndSides(t *testing.T) {
	resolved, err := Resolve(append(baseDay(), ev(8, 0, model.Cross, 10.02, 500)))
	require.NoError(t, err)
	require.Len(t, resolved, 7, "cross events are dropped")

	exec := resolved[4]
	assert.Equal(t, model.ExecuteFull, exec.Event.Kind)
	assert.Equal(t, px(10.03), exec.Price)
	assert.Equal(t, model.Sell, exec.Side)
	assert.Equal(t, 2, exec.Origin)
}

func TestReplay(t *testing.T) {
	r := NewReplayer(model.Session{Start: 0, End: 100, Step: 1})

	samples, err := r.Replay(baseDay())
	require.NoError(t, err)

	want := []struct {
		time     int64
		bid, ask float64
	}{
		{2, 10.00, 10.05},
		{3, 10.00, 10.03},
		{4, 10.01, 10.03},
		{5, 10.01, 10.05},
		{6, 10.00, 10.05},
	}
	require.Len(t, samples, len(want))
	for i, w := range want {
		assert.Equal(t, w.time, samples[i].Time, "sample %d time", i)
		assert.InDelta(t, w.bid, samples[i].BestBid, 1e-9, "sample %d bid", i)
		assert.InDelta(t, w.ask, samples[i].BestAsk, 1e-9, "sample %d ask", i)
		assert.InDelta(t, (w.bid+w.ask)/2, samples[i].Midpoint, 1e-9, "sample %d midpoint", i)
		assert.InDelta(t, w.ask-w.bid, samples[i].Spread, 1e-9, "sample %d spread", i)
	}
}

func TestReplay_NoFullExecutions(t *testing.T) {
	events := []model.Event{
		ev(1, 1, model.AddBuy, 10.00, 100),
		ev(2, 2, model.AddSell, 10.05, 100),
		ev(3, 2, model.ExecutePartial, 0, 10),
	}

	_, err := NewReplayer(model.Session{Start: 0, End: 10, Step: 1}).Replay(events)
	assert.ErrorIs(t, err, model.ErrNoData)
}

func TestReplay_IgnoresOutOfLadderPrices(t *testing.T) {
	events := append(baseDay(),
		ev(8, 10, model.AddSell, 50.00, 100), // far above 1.1 × 10.03
		ev(9, 11, model.AddBuy, 1.00, 100),   // far below 0.9 × 10.03
		ev(10, 10, model.DeleteFull, 0, 100),
	)

	samples, err := NewReplayer(model.Session{Start: 0, End: 100, Step: 1}).Replay(events)
	require.NoError(t, err)
	assert.Len(t, samples, 5)
}

func TestReplay_CarryInAtOpen(t *testing.T) {
	events := []model.Event{
		ev(1, 1, model.AddBuy, 10.00, 100),
		ev(2, 2, model.AddSell, 10.02, 100),
		ev(20, 2, model.ExecutePartial, 0, 10),
		ev(30, 1, model.ExecuteFull, 0, 100),
	}

	samples, err := NewReplayer(model.Session{Start: 10, End: 100, Step: 1}).Replay(events)
	require.NoError(t, err)

	require.Len(t, samples, 1, "the book empties on the bid side at t=30")
	assert.Equal(t, int64(10), samples[0].Time)
	assert.InDelta(t, 10.01, samples[0].Midpoint, 1e-9)
}

func TestReplay_StopsAtSessionEnd(t *testing.T) {
	samples, err := NewReplayer(model.Session{Start: 0, End: 4, Step: 1}).Replay(baseDay())
	require.NoError(t, err)
	require.Len(t, samples, 2)
	assert.Equal(t, int64(3), samples[1].Time)
}

func TestReplay_CrossedBookInSession(t *testing.T) {
	events := []model.Event{
		ev(1, 1, model.AddSell, 10.00, 100),
		ev(2, 2, model.AddBuy, 10.05, 100),
		ev(3, 1, model.ExecuteFull, 0, 100),
	}

	samples, err := NewReplayer(model.Session{Start: 0, End: 10, Step: 1}).Replay(events)
	require.Error(t, err)
	assert.Nil(t, samples)

	var ie *model.IntegrityError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, 1, ie.Index)
	assert.Contains(t, ie.Reason, "crossed book")
}

func TestReplay_CrossClearedBeforeOpen(t *testing.T) {
	events := []model.Event{
		ev(1, 1, model.AddSell, 10.00, 100),
		ev(2, 2, model.AddBuy, 10.05, 100),
		ev(3, 1, model.ExecuteFull, 0, 100),
		ev(4, 3, model.AddSell, 10.07, 100),
		ev(20, 4, model.AddBuy, 10.01, 100),
	}

	samples, err := NewReplayer(model.Session{Start: 10, End: 100, Step: 1}).Replay(events)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, int64(10), samples[0].Time)
	assert.Equal(t, 0.02, samples[0].Spread)
	assert.Equal(t, 10.06, samples[0].Midpoint)
}

func TestReplay_CrossedAtOpen(t *testing.T) {
	events := []model.Event{
		ev(1, 1, model.AddSell, 10.00, 100),
		ev(2, 2, model.AddBuy, 10.05, 100),
		ev(20, 1, model.ExecuteFull, 0, 100),
	}

	_, err := NewReplayer(model.Session{Start: 10, End: 100, Step: 1}).Replay(events)
	assert.True(t, model.IsIntegrity(err))
}

func TestReplay_LockedBookAllowed(t *testing.T) {
	events := []model.Event{
		ev(1, 1, model.AddBuy, 10.00, 100),
		ev(2, 2, model.AddSell, 10.00, 100),
		ev(3, 1, model.ExecuteFull, 0, 100),
	}

	samples, err := NewReplayer(model.Session{Start: 0, End: 10, Step: 1}).Replay(events)
	require.NoError(t, err)
	require.Len(t, samples, 1)
	assert.Equal(t, int64(2), samples[0].Time)
	assert.Zero(t, samples[0].Spread)
	assert.Equal(t, 10.00, samples[0].Midpoint)
}

func TestLadder_SingleLevelNeverNegative(t *testing.T) {
	events := []model.Event{
		ev(1, 1, model.AddSell, 10.00, 100),
		ev(2, 2, model.AddSell, 10.00, 100),
		ev(3, 1, model.ExecuteFull, 0, 100),
		ev(4, 3, model.AddSell, 10.00, 100),
		ev(5, 2, model.DeleteFull, 0, 100),
		ev(6, 3, model.ExecuteFull, 0, 100),
	}
	resolved, err := Resolve(events)
	require.NoError(t, err)
	ladder, err := NewLadder(resolved)
	require.NoError(t, err)

	level := model.CentTick(px(10.00))
	st := state{bid: noBid, ask: noAsk}
	wantCounts := []int{1, 2, 1, 2, 1, 0}
	for i, r := range resolved {
		require.NoError(t, st.apply(ladder, r))
		count := ladder.Count(model.Sell, level)
		assert.GreaterOrEqual(t, count, 0)
		assert.Equal(t, wantCounts[i], count, "after event %d", i)
	}

	_, err = ladder.Remove(model.Sell, level)
	assert.True(t, model.IsIntegrity(err))
}

func TestNewLadder_Bounds(t *testing.T) {
	resolved, err := Resolve(baseDay())
	require.NoError(t, err)

	ladder, err := NewLadder(resolved)
	require.NoError(t, err)
	assert.Equal(t, int64(903), ladder.Min)  // 0.9 × 10.03 = 9.027
	assert.Equal(t, int64(1103), ladder.Max) // 1.1 × 10.03 = 11.033
}

func TestExecutions(t *testing.T) {
	events := append(baseDay(), ev(8, 0, model.ExecuteHidden, 10.04, 30))
	resolved, err := Resolve(events)
	require.NoError(t, err)

	trades, truth := Executions(resolved)
	require.Len(t, trades, 3)
	assert.Equal(t, []int8{1, 1, 0}, truth)
	assert.Equal(t, px(10.03), trades[0].Price)
	assert.Equal(t, int64(40), trades[1].Volume)
	assert.Equal(t, px(10.04), trades[2].Price)
}
