package writer

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

// WriterConfig contains configuration for the result writer.
type WriterConfig struct {
	// Table receives the rows.
	Table string

	// BatchSize is the number of rows to accumulate before flushing.
	BatchSize int

	// FlushInterval is the maximum time between flushes.
	FlushInterval time.Duration
}

// DefaultWriterConfig returns sensible defaults.
func DefaultWriterConfig() WriterConfig {
	return WriterConfig{
		Table:         "response_curves",
		BatchSize:     1000,
		FlushInterval: 5 * time.Second,
	}
}

// WriterMetrics contains writer statistics.
type WriterMetrics struct {
	Days      int64 // Daily results received
	Inserts   int64 // Rows inserted
	Conflicts int64 // Rows already present
	Errors    int64 // Failed flushes
	Flushes   int64
}

// Batcher sends a pgx batch. *pgxpool.Pool satisfies it.
type Batcher interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Scan modes of a row.
const (
	ScanLag   = "lag"
	ScanShift = "shift"
)

// resultRow is one point of a daily curve.
type resultRow struct {
	Kind    string    // self | cross
	Scan    string    // lag | shift
	Source  string
	Driving string
	Day     time.Time // Trading date
	Tau     int
	Shift   int
	Num     float64
	Support int64
}
