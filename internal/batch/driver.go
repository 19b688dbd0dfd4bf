package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/impact-response/internal/metrics"
	"github.com/rickgao/impact-response/internal/model"
	"github.com/rickgao/impact-response/internal/pipeline"
	"github.com/rickgao/impact-response/internal/response"
)

// Source loads one stock-day onto the session grid.
type Source interface {
	Days(ctx context.Context, ticker string, from, to time.Time) ([]time.Time, error)
	Load(ctx context.Context, ticker string, day time.Time) (pipeline.Day, error)
}

// DayResult is the curve of one stock-day.
type DayResult struct {
	Pair   response.Pair
	Kind   response.Kind
	Day    time.Time
	Tau    int   // Fixed lag of a shift scan, 0 otherwise
	Shifts []int // Shift per curve index, nil for lag curves
	Curve  response.Curve
}

// Sink receives daily results.
type Sink interface {
	HandleDay(r DayResult) error
}

// SinkFunc is a function adapter for Sink.
type SinkFunc func(DayResult) error

func (f SinkFunc) HandleDay(r DayResult) error {
	return f(r)
}

// Config holds driver configuration.
type Config struct {
	Concurrency int              // Max stock-days in flight (default: 4)
	Options     response.Options // Lag range, returns, support policy
	ShiftTau    int              // Fixed lag of shift scans (default: 1)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Concurrency: 4,
		Options:     response.Options{TauMax: 1000},
		ShiftTau:    1,
	}
}

// Report is the aggregate over a period.
type Report struct {
	Pair    response.Pair
	Kind    response.Kind
	Tau     int
	Shifts  []int
	Curve   response.Curve // Summed numerators and supports
	Days    int            // Days that contributed
	Skipped int            // Days without data
	Failed  int            // Days with corrupt or unreadable input
}

// Driver fans stock-days out to workers and reduces their curves.
type Driver struct {
	cfg     Config
	source  Source
	sink    Sink
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Driver. sink and m may be nil.
func New(cfg Config, source Source, sink Sink, m *metrics.Metrics, logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.ShiftTau < 1 {
		cfg.ShiftTau = 1
	}
	return &Driver{
		cfg:     cfg,
		source:  source,
		sink:    sink,
		metrics: m,
		logger:  logger,
	}
}

// Days lists the days with data for ticker in [from, to].
func (d *Driver) Days(ctx context.Context, ticker string, from, to time.Time) ([]time.Time, error) {
	return d.source.Days(ctx, ticker, from, to)
}

// Self estimates the self response of ticker over days.
func (d *Driver) Self(ctx context.Context, ticker string, days []time.Time) (Report, error) {
	pair := response.SelfPair(ticker)
	return d.run(ctx, pair, days, Report{Pair: pair, Kind: response.Self},
		func(src, drv pipeline.Day) (response.Curve, error) {
			return pipeline.Respond(pair, src, drv, d.cfg.Options)
		})
}

// Cross estimates how pair.Source responds to pair.Driving's trades. A pair
// naming the same stock twice is refused with model.ErrNotComputed.
func (d *Driver) Cross(ctx context.Context, pair response.Pair, days []time.Time) (Report, error) {
	if pair.Kind() != response.Cross {
		return Report{}, fmt.Errorf("cross %s: %w", pair, model.ErrNotComputed)
	}
	return d.run(ctx, pair, days, Report{Pair: pair, Kind: response.Cross},
		func(src, drv pipeline.Day) (response.Curve, error) {
			return pipeline.Respond(pair, src, drv, d.cfg.Options)
		})
}

// Shift scans shifts in [-10τ, 10τ) at the configured lag. Self pairs are allowed.
func (d *Driver) Shift(ctx context.Context, pair response.Pair, days []time.Time) (Report, error) {
	tau := d.cfg.ShiftTau
	shifts := response.ShiftRange(tau)
	base := Report{Pair: pair, Kind: pair.Kind(), Tau: tau, Shifts: shifts}
	return d.run(ctx, pair, days, base,
		func(src, drv pipeline.Day) (response.Curve, error) {
			sc, err := pipeline.RespondShift(pair, src, drv, tau, shifts, d.cfg.Options)
			return sc.Curve, err
		})
}

type computeFunc func(src, drv pipeline.Day) (response.Curve, error)

// run processes days concurrently. Per-day failures never abort the run; only
// context cancellation does.
func (d *Driver) run(ctx context.Context, pair response.Pair, days []time.Time, report Report, compute computeFunc) (Report, error) {
	start := time.Now()
	kind := report.Kind.String()

	var acc response.Accumulator
	var skipped, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.cfg.Concurrency)

	for _, day := range days {
		g.Go(func() error {
			dayStart := time.Now()

			curve, err := d.processDay(gctx, pair, day, compute)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				if errors.Is(err, model.ErrNoData) {
					d.logger.Debug("skipping day without data",
						"pair", pair.String(),
						"day", day.Format(time.DateOnly),
						"error", err,
					)
					skipped.Add(1)
					d.metrics.ObserveDay(kind, metrics.OutcomeNoData, time.Since(dayStart))
					return nil
				}
				d.logger.Warn("failed to process day",
					"pair", pair.String(),
					"day", day.Format(time.DateOnly),
					"integrity", model.IsIntegrity(err),
					"error", err,
				)
				failed.Add(1)
				d.metrics.ObserveDay(kind, metrics.OutcomeFailed, time.Since(dayStart))
				return nil
			}

			if err := acc.Add(curve); err != nil {
				return fmt.Errorf("sum %s: %w", day.Format(time.DateOnly), err)
			}
			d.metrics.ObserveDay(kind, metrics.OutcomeOK, time.Since(dayStart))

			if d.sink != nil {
				result := DayResult{
					Pair:   pair,
					Kind:   report.Kind,
					Day:    day,
					Tau:    report.Tau,
					Shifts: report.Shifts,
					Curve:  curve,
				}
				if err := d.sink.HandleDay(result); err != nil {
					d.logger.Warn("sink rejected day",
						"pair", pair.String(),
						"day", day.Format(time.DateOnly),
						"error", err,
					)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	report.Curve = acc.Curve()
	report.Days = acc.Days()
	report.Skipped = int(skipped.Load())
	report.Failed = int(failed.Load())

	d.logger.Info("response run complete",
		"pair", pair.String(),
		"kind", kind,
		"days", report.Days,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"duration", time.Since(start),
	)
	return report, nil
}

// processDay loads the grids of one day and computes its curve.
func (d *Driver) processDay(ctx context.Context, pair response.Pair, day time.Time, compute computeFunc) (response.Curve, error) {
	src, err := d.source.Load(ctx, pair.Source, day)
	if err != nil {
		return response.Curve{}, fmt.Errorf("load %s: %w", pair.Source, err)
	}
	d.metrics.ObserveInputs(src.Quotes, src.Trades)

	drv := src
	if pair.Kind() == response.Cross {
		drv, err = d.source.Load(ctx, pair.Driving, day)
		if err != nil {
			return response.Curve{}, fmt.Errorf("load %s: %w", pair.Driving, err)
		}
		d.metrics.ObserveInputs(drv.Quotes, drv.Trades)
	}

	return compute(src, drv)
}
