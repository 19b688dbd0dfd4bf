package writer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rickgao/impact-response/internal/batch"
	"github.com/rickgao/impact-response/internal/metrics"
	"github.com/rickgao/impact-response/internal/queue"
)

// ErrClosed is returned by HandleDay after Stop.
var ErrClosed = errors.New("result writer closed")

// Row outcomes reported to metrics.
const (
	rowsInserted = "inserted"
	rowsConflict = "conflict"
	rowsFailed   = "failed"
)

// ResultWriter consumes daily results and writes them to the results table.
type ResultWriter struct {
	cfg     WriterConfig
	runID   uuid.UUID
	logger  *slog.Logger
	metrics *metrics.Metrics

	// Input from the batch driver
	input *queue.Queue[batch.DayResult]

	// Database
	db Batcher

	// Batching
	batch       []resultRow
	batchMu     sync.Mutex
	flushTicker *time.Ticker

	// Lifecycle
	ctx    context.Context
	cancel context.CancelFunc
	stopCh chan struct{}
	wg     sync.WaitGroup

	stats WriterMetrics
}

var _ batch.Sink = (*ResultWriter)(nil)

// NewResultWriter creates a ResultWriter tagging every row with runID.
func NewResultWriter(
	cfg WriterConfig,
	runID uuid.UUID,
	db Batcher,
	m *metrics.Metrics,
	logger *slog.Logger,
) *ResultWriter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 1
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = DefaultWriterConfig().FlushInterval
	}
	if cfg.Table == "" {
		cfg.Table = DefaultWriterConfig().Table
	}
	return &ResultWriter{
		cfg:     cfg,
		runID:   runID,
		db:      db,
		metrics: m,
		logger:  logger,
		input:   queue.New[batch.DayResult](64),
		batch:   make([]resultRow, 0, cfg.BatchSize),
	}
}

// RunID returns the id stamped on every row.
func (w *ResultWriter) RunID() uuid.UUID {
	return w.runID
}

// HandleDay queues one daily result. It never blocks on the database.
func (w *ResultWriter) HandleDay(r batch.DayResult) error {
	if !w.input.Push(r) {
		return ErrClosed
	}
	return nil
}

// Start begins consuming results and writing to the database.
func (w *ResultWriter) Start(ctx context.Context) error {
	w.ctx, w.cancel = context.WithCancel(ctx)
	w.stopCh = make(chan struct{})
	w.flushTicker = time.NewTicker(w.cfg.FlushInterval)

	w.wg.Add(1)
	go w.consumeLoop()

	w.wg.Add(1)
	go w.flushLoop()

	w.logger.Info("result writer started",
		"table", w.cfg.Table,
		"batch_size", w.cfg.BatchSize,
		"flush_interval", w.cfg.FlushInterval,
	)
	return nil
}

// Stop closes the input and waits for the consumer to write everything
// still queued. ctx bounds the wait; on expiry in-flight inserts are
// cancelled. The final flush retries rows left by failed inserts and its
// error is returned, so a non-nil error means rows were not written.
func (w *ResultWriter) Stop(ctx context.Context) error {
	w.logger.Info("stopping result writer")

	w.input.Close()
	if w.stopCh != nil {
		close(w.stopCh)
	}
	if w.flushTicker != nil {
		w.flushTicker.Stop()
	}

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		w.logger.Warn("result writer stop timed out")
		if w.cancel != nil {
			w.cancel()
		}
		<-done
	}
	if w.cancel != nil {
		w.cancel()
	}

	for _, r := range w.input.Drain(0) {
		w.addResult(r)
	}
	err := w.flush(ctx)

	stats := w.Stats()
	w.logger.Info("result writer stopped",
		"days", stats.Days,
		"inserts", stats.Inserts,
		"errors", stats.Errors,
	)
	return err
}

// Stats returns current metrics.
func (w *ResultWriter) Stats() WriterMetrics {
	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	return w.stats
}

// consumeLoop reads from the input queue and accumulates batches. Once the
// context is done it stops flushing and leaves the rest to Stop.
func (w *ResultWriter) consumeLoop() {
	defer w.wg.Done()

	for {
		r, ok := w.input.Pop(w.ctx)
		if !ok {
			return
		}
		if w.ctx.Err() != nil {
			w.addResult(r)
			return
		}
		w.handleResult(w.ctx, r)
	}
}

// flushLoop periodically flushes the batch.
func (w *ResultWriter) flushLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-w.flushTicker.C:
			_ = w.flush(w.ctx)
		}
	}
}

// handleResult adds a result to the batch and flushes once it is full.
func (w *ResultWriter) handleResult(ctx context.Context, r batch.DayResult) {
	if w.addResult(r) {
		_ = w.flush(ctx)
	}
}

// addResult transforms a result into the batch and reports whether it is full.
func (w *ResultWriter) addResult(r batch.DayResult) bool {
	rows := w.transform(r)

	w.batchMu.Lock()
	defer w.batchMu.Unlock()
	w.batch = append(w.batch, rows...)
	w.stats.Days++
	return len(w.batch) >= w.cfg.BatchSize
}

// transform flattens a daily curve into rows. Lag curves put τ = i+1 in
// tau; shift scans keep the fixed τ and put the shift in shift.
func (w *ResultWriter) transform(r batch.DayResult) []resultRow {
	scan := ScanLag
	if r.Shifts != nil {
		scan = ScanShift
	}

	rows := make([]resultRow, r.Curve.Len())
	for i := range rows {
		row := resultRow{
			Kind:    r.Kind.String(),
			Scan:    scan,
			Source:  r.Pair.Source,
			Driving: r.Pair.Driving,
			Day:     r.Day,
			Tau:     i + 1,
			Num:     r.Curve.Num[i],
			Support: r.Curve.Support[i],
		}
		if scan == ScanShift {
			row.Tau = r.Tau
			row.Shift = r.Shifts[i]
		}
		rows[i] = row
	}
	return rows
}

// flush writes the current batch to the database. Rows of a failed insert
// go back to the front of the batch for the next flush.
func (w *ResultWriter) flush(ctx context.Context) error {
	w.batchMu.Lock()
	if len(w.batch) == 0 {
		w.batchMu.Unlock()
		return nil
	}

	// Take ownership of current batch
	rows := w.batch
	w.batch = make([]resultRow, 0, w.cfg.BatchSize)
	w.batchMu.Unlock()

	start := time.Now()

	conflicts, err := w.batchInsert(ctx, rows)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(rows))
		w.batchMu.Lock()
		w.batch = append(rows, w.batch...)
		w.stats.Errors++
		w.batchMu.Unlock()
		w.metrics.ObserveRows(rowsFailed, len(rows))
		return fmt.Errorf("insert %d rows: %w", len(rows), err)
	}

	w.batchMu.Lock()
	w.stats.Inserts += int64(len(rows) - conflicts)
	w.stats.Conflicts += int64(conflicts)
	w.stats.Flushes++
	w.batchMu.Unlock()

	w.metrics.ObserveRows(rowsInserted, len(rows)-conflicts)
	w.metrics.ObserveRows(rowsConflict, conflicts)

	w.logger.Debug("flushed response rows",
		"count", len(rows),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return nil
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *ResultWriter) batchInsert(ctx context.Context, rows []resultRow) (conflicts int, err error) {
	if w.db == nil {
		return 0, errors.New("no database")
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (run_id, kind, scan, source, driving, day, tau, shift, num, support)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT DO NOTHING
	`, pgx.Identifier{w.cfg.Table}.Sanitize())

	b := &pgx.Batch{}
	for _, r := range rows {
		b.Queue(query, w.runID, r.Kind, r.Scan, r.Source, r.Driving, r.Day, r.Tau, r.Shift, r.Num, r.Support)
	}

	results := w.db.SendBatch(ctx, b)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
