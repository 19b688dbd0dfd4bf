package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rickgao/impact-response/internal/batch"
	"github.com/rickgao/impact-response/internal/config"
	"github.com/rickgao/impact-response/internal/database"
	"github.com/rickgao/impact-response/internal/metrics"
	"github.com/rickgao/impact-response/internal/store"
	"github.com/rickgao/impact-response/internal/version"
	"github.com/rickgao/impact-response/internal/writer"
)

// env is everything one command needs: config, pools, source, sink and driver.
type env struct {
	cfg     *config.Config
	logger  *slog.Logger
	runID   uuid.UUID
	pools   *database.Pools
	store   *store.Store
	metrics *metrics.Metrics
	server  *http.Server
	writer  *writer.ResultWriter
	driver  *batch.Driver
}

// setup loads config and starts the process-level components. The returned
// context is cancelled on SIGINT or SIGTERM.
func setup(parent context.Context, runIDFlag string) (context.Context, *env, func(), error) {
	logger := slog.Default()

	logger.Info("starting impact",
		"version", version.Version,
		"commit", version.Commit,
		"config", configPath,
	)

	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}

	runID := uuid.New()
	if runIDFlag != "" {
		runID, err = uuid.Parse(runIDFlag)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("invalid --run-id: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)

	e := &env{cfg: cfg, logger: logger.With("run_id", runID.String()), runID: runID}
	cleanup := func() {
		e.close()
		stop()
	}

	e.logger.Info("connecting to database",
		"host", cfg.Database.Events.Host,
		"port", cfg.Database.Events.Port,
		"database", cfg.Database.Events.Name,
		"separate_results", cfg.Database.Results.Configured(),
	)
	e.pools, err = database.NewPools(ctx, cfg.Database)
	if err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("connect database: %w", err)
	}

	builder, err := cfg.Builder()
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	e.store, err = store.New(e.pools.Events, cfg.Run.Feed, builder, e.logger)
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	e.metrics = metrics.New(reg)
	if cfg.Metrics.Enabled {
		addr := fmt.Sprintf(":%d", cfg.Metrics.Port)
		e.server = metrics.Serve(addr, cfg.Metrics.Path, reg, e.logger)
	}

	var sink batch.Sink
	if cfg.Writer.Enabled {
		if err := writer.EnsureSchema(ctx, e.pools.Results, cfg.Writer.Table); err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		e.writer = writer.NewResultWriter(writer.WriterConfig{
			Table:         cfg.Writer.Table,
			BatchSize:     cfg.Writer.BatchSize,
			FlushInterval: cfg.Writer.FlushInterval,
		}, runID, e.pools.Results, e.metrics, e.logger)
		if err := e.writer.Start(ctx); err != nil {
			cleanup()
			return nil, nil, nil, err
		}
		sink = e.writer
	}

	batchCfg, err := cfg.Batch()
	if err != nil {
		cleanup()
		return nil, nil, nil, err
	}
	e.driver = batch.New(batchCfg, e.store, sink, e.metrics, e.logger)

	return ctx, e, cleanup, nil
}

// close stops the writer first so its final flush still has a pool.
func (e *env) close() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if e.writer != nil {
		if err := e.writer.Stop(shutdownCtx); err != nil {
			e.logger.Error("final flush failed", "error", err)
		}
	}
	if e.server != nil {
		if err := metrics.Shutdown(shutdownCtx, e.server); err != nil {
			e.logger.Warn("metrics server shutdown", "error", err)
		}
	}
	if e.pools != nil {
		e.pools.Close()
	}
}

// days resolves the trading days of ticker in the --from/--to range.
func (e *env) days(ctx context.Context, ticker string, r dateRange) ([]time.Time, error) {
	days, err := e.driver.Days(ctx, ticker, r.From, r.To)
	if err != nil {
		return nil, fmt.Errorf("list days of %s: %w", ticker, err)
	}
	if len(days) == 0 {
		fmt.Fprintf(os.Stderr, "no trading days for %s between %s and %s\n",
			ticker, r.From.Format(time.DateOnly), r.To.Format(time.DateOnly))
	}
	return days, nil
}
