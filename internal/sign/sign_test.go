package sign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/impact-response/internal/model"
)

func TestClassifyPrices(t *testing.T) {
	tests := []struct {
		name   string
		prices []int64
		seed   int8
		want   []int8
	}{
		{
			name:   "flat prices carry the prior sign",
			prices: []int64{100, 100, 101, 101, 99},
			seed:   1,
			want:   []int8{1, 1, 1, 1, -1},
		},
		{
			name:   "negative seed",
			prices: []int64{100, 100, 99, 99, 100},
			seed:   -1,
			want:   []int8{-1, -1, -1, -1, 1},
		},
		{
			name:   "zero seed falls back to default",
			prices: []int64{50, 50},
			seed:   0,
			want:   []int8{1, 1},
		},
		{
			name:   "empty",
			prices: nil,
			seed:   1,
			want:   []int8{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyPrices(tt.prices, tt.seed)
			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, int8(0))
		})
	}
}

func TestTickRule_Reset(t *testing.T) {
	var r TickRule
	assert.Equal(t, int8(1), r.Next(100))
	assert.Equal(t, int8(-1), r.Next(90))
	r.Reset()
	assert.Equal(t, int8(1), r.Next(80), "first trade after reset takes the seed")
}

func TestClassify_Trades(t *testing.T) {
	trades := []model.Trade{{Time: 1, Price: 100}, {Time: 2, Price: 102}, {Time: 3, Price: 101}}
	assert.Equal(t, []int8{1, 1, -1}, Classify(trades, DefaultSeed))
}

func TestAggregate(t *testing.T) {
	trades := []model.Trade{
		{Time: 0, Price: 100, Volume: 10},
		{Time: 0, Price: 101, Volume: 10},
		{Time: 1, Price: 100, Volume: 50},
		{Time: 1, Price: 101, Volume: 10},
		{Time: 3, Price: 102, Volume: 5},
		{Time: 3, Price: 101, Volume: 5},
		{Time: 9, Price: 101, Volume: 5}, // outside the session
	}
	signs := []int8{1, 1, -1, 1, 1, -1, 1}
	session := model.Session{Start: 0, End: 5, Step: 1}

	t.Run("unweighted", func(t *testing.T) {
		b, err := Aggregate(trades, signs, session, Unweighted)
		require.NoError(t, err)
		assert.Equal(t, []int8{1, 0, 0, 0, 0}, b.Signs)
		assert.Equal(t, []int32{2, 2, 0, 2, 0}, b.Trades)
		assert.True(t, b.Balanced(1))
		assert.False(t, b.Balanced(2), "empty bucket is not balanced")
		assert.Equal(t, 1, b.Nonzero())
	})

	t.Run("volume weighted", func(t *testing.T) {
		b, err := Aggregate(trades, signs, session, VolumeWeighted)
		require.NoError(t, err)
		assert.Equal(t, []int8{1, -1, 0, 0, 0}, b.Signs)
		assert.True(t, b.Balanced(3))
	})

	t.Run("length mismatch", func(t *testing.T) {
		_, err := Aggregate(trades, signs[:2], session, Unweighted)
		assert.Error(t, err)
	})
}

func TestAccuracy(t *testing.T) {
	acc, n := Accuracy([]int8{1, -1, 1, 1}, []int8{1, 1, 0, 1})
	assert.Equal(t, 3, n)
	assert.InDelta(t, 2.0/3.0, acc, 1e-12)

	acc, n = Accuracy([]int8{1}, []int8{0})
	assert.Equal(t, 0, n)
	assert.Zero(t, acc)
}

func TestParseWeighting(t *testing.T) {
	w, err := ParseWeighting("volume")
	require.NoError(t, err)
	assert.Equal(t, VolumeWeighted, w)

	_, err = ParseWeighting("notional")
	assert.Error(t, err)
}
