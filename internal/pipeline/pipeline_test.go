package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/impact-response/internal/grid"
	"github.com/rickgao/impact-response/internal/model"
	"github.com/rickgao/impact-response/internal/response"
	"github.com/rickgao/impact-response/internal/sign"
)

func px(dollars float64) int64 {
	return int64(dollars*model.PriceScale + 0.5)
}

func itchDay() []model.Event {
	return []model.Event{
		{Timestamp: 0, OrderID: 1, Kind: model.AddBuy, Price: px(10.00), Volume: 100},
		{Timestamp: 1, OrderID: 2, Kind: model.AddSell, Price: px(10.02), Volume: 100},
		{Timestamp: 2, OrderID: 3, Kind: model.AddSell, Price: px(10.04), Volume: 100},
		{Timestamp: 3, OrderID: 2, Kind: model.ExecutePartial, Volume: 10},
		{Timestamp: 5, OrderID: 2, Kind: model.ExecuteFull, Volume: 90},
		{Timestamp: 6, OrderID: 4, Kind: model.AddBuy, Price: px(10.01), Volume: 100},
		{Timestamp: 8, OrderID: 4, Kind: model.ExecuteFull, Volume: 100},
	}
}

func builder() Builder {
	return Builder{
		Session: model.Session{Start: 0, End: 12, Step: 1},
		Grid:    grid.Policy{Hold: grid.Last},
		Field:   grid.Midpoint,
		Seed:    sign.DefaultSeed,
	}
}

func TestITCHDay(t *testing.T) {
	day, err := builder().ITCHDay(itchDay())
	require.NoError(t, err)

	assert.Equal(t, 4, day.Quotes)
	assert.Equal(t, 3, day.Trades)

	want := []float64{10.01, 10.01, 10.01, 10.01, 10.01, 10.02, 10.025, 10.025, 10.02, 10.02, 10.02, 10.02}
	assert.InDeltaSlice(t, want, day.Price, 1e-9)
	assert.Equal(t, []int8{0, 0, 0, 1, 0, 1, 0, 0, -1, 0, 0, 0}, day.Signs.Signs)
}

func TestITCHDay_MatchedSigns(t *testing.T) {
	b := builder()
	b.Signs = Matched

	day, err := b.ITCHDay(itchDay())
	require.NoError(t, err)
	assert.Equal(t, []int8{0, 0, 0, 1, 0, 1, 0, 0, -1, 0, 0, 0}, day.Signs.Signs)
}

func TestITCHDay_NoData(t *testing.T) {
	_, err := builder().ITCHDay(nil)
	assert.ErrorIs(t, err, model.ErrNoData)

	events := itchDay()[:4] // no full execution
	_, err = builder().ITCHDay(events)
	assert.ErrorIs(t, err, model.ErrNoData)
}

func TestITCHDay_Integrity(t *testing.T) {
	events := append(itchDay(), model.Event{Timestamp: 9, OrderID: 77, Kind: model.DeleteFull})
	_, err := builder().ITCHDay(events)
	assert.True(t, model.IsIntegrity(err))
}

func TestSignAccuracy(t *testing.T) {
	acc, n, err := builder().SignAccuracy(itchDay())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 1.0, acc)
}

func TestTAQDay(t *testing.T) {
	quotes := []model.QuoteSample{
		model.NewQuoteSample(1, 10.00, 10.02),
		model.NewQuoteSample(3, 0, 10.03),     // dropped
		model.NewQuoteSample(4, 10.05, 10.03), // crossed, dropped
		model.NewQuoteSample(6, 10.01, 10.03),
	}
	trades := []model.Trade{
		{Time: 2, Price: px(10.02), Volume: 100},
		{Time: 7, Price: px(10.01), Volume: 100},
	}

	day, err := builder().TAQDay(quotes, trades)
	require.NoError(t, err)
	assert.Equal(t, 2, day.Quotes)
	assert.Len(t, day.Price, 12)
	assert.InDelta(t, 10.02, day.Price[11], 1e-9)
	assert.Equal(t, int8(1), day.Signs.Signs[2])
	assert.Equal(t, int8(-1), day.Signs.Signs[7])

	b := builder()
	b.Signs = Matched
	_, err = b.TAQDay(quotes, trades)
	assert.Error(t, err)
}

func TestRespond_SelfIgnoresDriving(t *testing.T) {
	src, err := builder().ITCHDay(itchDay())
	require.NoError(t, err)

	empty := Day{Signs: sign.Buckets{Signs: make([]int8, 12)}}
	opts := response.Options{TauMax: 2}

	self, err := Respond(response.SelfPair("AAPL"), src, empty, opts)
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 3}, self.Support)
	assert.Greater(t, self.Num[0], 0.0)

	cross, err := Respond(response.Pair{Source: "AAPL", Driving: "MSFT"}, src, empty, opts)
	require.NoError(t, err)
	assert.Equal(t, []int64{0, 0}, cross.Support)
	assert.Equal(t, []float64{0, 0}, cross.Values())
}

func TestRespondShift(t *testing.T) {
	src, err := builder().ITCHDay(itchDay())
	require.NoError(t, err)

	sc, err := RespondShift(response.SelfPair("AAPL"), src, src, 1, response.ShiftRange(1), response.Options{TauMax: 1})
	require.NoError(t, err)
	assert.Equal(t, 20, sc.Len())
	assert.Equal(t, -10, sc.Shifts[0])
}

func TestParseSignSource(t *testing.T) {
	s, err := ParseSignSource("matched")
	require.NoError(t, err)
	assert.Equal(t, Matched, s)

	_, err = ParseSignSource("lee_ready")
	assert.Error(t, err)
}
