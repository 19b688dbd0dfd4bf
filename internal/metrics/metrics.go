package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Day outcomes.
const (
	OutcomeOK     = "ok"
	OutcomeNoData = "no_data"
	OutcomeFailed = "failed"
)

// Metrics groups the collectors of one process. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Days        *prometheus.CounterVec
	Quotes      prometheus.Counter
	Trades      prometheus.Counter
	DayDuration *prometheus.HistogramVec
	RowsWritten *prometheus.CounterVec
}

// New creates the collectors and registers them with reg when reg is non-nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Days: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "impact_days_total", Help: "Stock-days processed by outcome"},
			[]string{"kind", "outcome"},
		),
		Quotes: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "impact_quotes_total", Help: "Quote samples resampled onto grids"},
		),
		Trades: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "impact_trades_total", Help: "Trades classified"},
		),
		DayDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "impact_day_duration_seconds",
				Help:    "Time to load and estimate one stock-day",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
			},
			[]string{"kind"},
		),
		RowsWritten: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "impact_rows_written_total", Help: "Result rows written by outcome"},
			[]string{"outcome"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.Days, m.Quotes, m.Trades, m.DayDuration, m.RowsWritten)
	}
	return m
}

// ObserveDay records one stock-day.
func (m *Metrics) ObserveDay(kind, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Days.WithLabelValues(kind, outcome).Inc()
	m.DayDuration.WithLabelValues(kind).Observe(d.Seconds())
}

// ObserveInputs records the size of one day's inputs.
func (m *Metrics) ObserveInputs(quotes, trades int) {
	if m == nil {
		return
	}
	m.Quotes.Add(float64(quotes))
	m.Trades.Add(float64(trades))
}

// ObserveRows records rows handed to the database.
func (m *Metrics) ObserveRows(outcome string, n int) {
	if m == nil {
		return
	}
	m.RowsWritten.WithLabelValues(outcome).Add(float64(n))
}

// Handler exposes g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Serve starts a metrics server in the background.
func Serve(addr, path string, g prometheus.Gatherer, logger *slog.Logger) *http.Server {
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()
	mux.Handle(path, Handler(g))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()
	return srv
}

// Shutdown stops a server started by Serve.
func Shutdown(ctx context.Context, srv *http.Server) error {
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
