package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rickgao/impact-response/internal/metrics"
	"github.com/rickgao/impact-response/internal/model"
	"github.com/rickgao/impact-response/internal/pipeline"
	"github.com/rickgao/impact-response/internal/response"
	"github.com/rickgao/impact-response/internal/sign"
)

// fakeSource serves fixed days per ticker.
type fakeSource struct {
	mu    sync.Mutex
	days  map[string]map[time.Time]pipeline.Day
	fail  map[string]error
	loads int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		days: make(map[string]map[time.Time]pipeline.Day),
		fail: make(map[string]error),
	}
}

func (f *fakeSource) put(ticker string, day time.Time, d pipeline.Day) {
	if f.days[ticker] == nil {
		f.days[ticker] = make(map[time.Time]pipeline.Day)
	}
	f.days[ticker][day] = d
}

func (f *fakeSource) Days(_ context.Context, ticker string, from, to time.Time) ([]time.Time, error) {
	var out []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if _, ok := f.days[ticker][d]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeSource) Load(_ context.Context, ticker string, day time.Time) (pipeline.Day, error) {
	f.mu.Lock()
	f.loads++
	f.mu.Unlock()
	if err, ok := f.fail[ticker]; ok {
		return pipeline.Day{}, err
	}
	d, ok := f.days[ticker][day]
	if !ok {
		return pipeline.Day{}, fmt.Errorf("%s %s: %w", ticker, day.Format(time.DateOnly), model.ErrNoData)
	}
	return d, nil
}

func day(n int) time.Time {
	return time.Date(2024, 3, n, 0, 0, 0, 0, time.UTC)
}

func doubling(signs ...int8) pipeline.Day {
	return pipeline.Day{
		Price:  []float64{1, 2, 4, 8},
		Signs:  sign.Buckets{Signs: signs, Trades: make([]int32, len(signs))},
		Quotes: 4,
		Trades: 1,
	}
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Options = response.Options{TauMax: 2}
	return cfg
}

func TestDriver_SelfSumsBeforeDividing(t *testing.T) {
	src := newFakeSource()
	src.put("AAPL", day(4), doubling(1, 0, 0, 0))
	src.put("AAPL", day(5), doubling(1, 0, 0, 0))

	var mu sync.Mutex
	var results []DayResult
	sink := SinkFunc(func(r DayResult) error {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
		return nil
	})

	d := New(testConfig(), src, sink, nil, nil)
	days, err := d.Days(context.Background(), "AAPL", day(1), day(10))
	require.NoError(t, err)
	require.Len(t, days, 2)

	report, err := d.Self(context.Background(), "AAPL", days)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Days)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, response.Self, report.Kind)
	assert.Equal(t, []float64{2, 6}, report.Curve.Num)
	assert.Equal(t, []int64{2, 2}, report.Curve.Support)
	assert.Equal(t, []float64{1, 3}, report.Curve.Values())

	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, "AAPL", r.Pair.Source)
		assert.Equal(t, []int64{1, 1}, r.Curve.Support)
	}
}

func TestDriver_SkipsAndFails(t *testing.T) {
	src := newFakeSource()
	src.put("AAPL", day(4), doubling(1, 0, 0, 0))
	bad := doubling(1, 0, 0, 0)
	bad.Price = []float64{1, 0, 4, 8}
	src.put("AAPL", day(6), bad)

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	d := New(testConfig(), src, nil, m, nil)
	report, err := d.Self(context.Background(), "AAPL", []time.Time{day(4), day(5), day(6)})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Days)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, []float64{1, 3}, report.Curve.Values())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Days.WithLabelValues("self", metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Days.WithLabelValues("self", metrics.OutcomeNoData)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Days.WithLabelValues("self", metrics.OutcomeFailed)))
}

func TestDriver_Cross(t *testing.T) {
	src := newFakeSource()
	src.put("AAPL", day(4), doubling(0, 0, 0, 0))
	src.put("MSFT", day(4), pipeline.Day{
		Price: []float64{5, 5, 5, 5},
		Signs: sign.Buckets{Signs: []int8{1, 0, 0, 0}, Trades: []int32{1, 0, 0, 0}},
	})

	d := New(testConfig(), src, nil, nil, nil)
	report, err := d.Cross(context.Background(), response.Pair{Source: "AAPL", Driving: "MSFT"}, []time.Time{day(4)})
	require.NoError(t, err)

	assert.Equal(t, response.Cross, report.Kind)
	assert.Equal(t, 1, report.Days)
	assert.Equal(t, []float64{1, 3}, report.Curve.Values())
}

func TestDriver_CrossRefusesSelfPair(t *testing.T) {
	src := newFakeSource()
	d := New(testConfig(), src, nil, nil, nil)

	_, err := d.Cross(context.Background(), response.SelfPair("AAPL"), []time.Time{day(4)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrNotComputed))
	assert.Zero(t, src.loads)
}

func TestDriver_Shift(t *testing.T) {
	src := newFakeSource()
	src.put("AAPL", day(4), doubling(1, 0, 0, 0))

	d := New(testConfig(), src, nil, nil, nil)
	report, err := d.Shift(context.Background(), response.SelfPair("AAPL"), []time.Time{day(4)})
	require.NoError(t, err)

	require.Len(t, report.Shifts, 20)
	assert.Equal(t, 1, report.Tau)
	assert.Equal(t, -10, report.Shifts[0])
	assert.Equal(t, 9, report.Shifts[19])
	require.Equal(t, 20, report.Curve.Len())

	// Shift 0 is the plain lag-1 response.
	assert.Equal(t, 0, report.Shifts[10])
	assert.Equal(t, 1.0, report.Curve.Values()[10])
}

func TestDriver_ContextCanceled(t *testing.T) {
	src := newFakeSource()
	src.fail["AAPL"] = context.Canceled

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := New(testConfig(), src, nil, nil, nil)
	_, err := d.Self(ctx, "AAPL", []time.Time{day(4), day(5)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestDriver_SinkErrorsDoNotAbort(t *testing.T) {
	src := newFakeSource()
	src.put("AAPL", day(4), doubling(1, 0, 0, 0))

	sink := SinkFunc(func(DayResult) error { return errors.New("disk full") })
	d := New(testConfig(), src, sink, nil, nil)

	report, err := d.Self(context.Background(), "AAPL", []time.Time{day(4)})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Days)
}

func TestNew_ClampsConfig(t *testing.T) {
	d := New(Config{}, newFakeSource(), nil, nil, nil)
	assert.Equal(t, 1, d.cfg.Concurrency)
	assert.Equal(t, 1, d.cfg.ShiftTau)
	assert.NotNil(t, d.logger)
}
