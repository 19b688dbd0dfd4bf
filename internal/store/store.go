package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/rickgao/impact-response/internal/batch"
	"github.com/rickgao/impact-response/internal/model"
	"github.com/rickgao/impact-response/internal/pipeline"
)

// Feeds.
const (
	FeedITCH = "itch"
	FeedTAQ  = "taq"
)

// Querier runs a query. *pgxpool.Pool satisfies it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const (
	itchDaysSQL = `SELECT DISTINCT day FROM itch_events WHERE ticker = $1 AND day BETWEEN $2 AND $3 ORDER BY day`
	taqDaysSQL  = `SELECT DISTINCT day FROM taq_trades WHERE ticker = $1 AND day BETWEEN $2 AND $3 ORDER BY day`

	itchEventsSQL = `
		SELECT ts, order_id, kind, price, volume
		FROM itch_events
		WHERE ticker = $1 AND day = $2
		ORDER BY seq`
	taqQuotesSQL = `
		SELECT ts, bid::text, ask::text
		FROM taq_quotes
		WHERE ticker = $1 AND day = $2
		ORDER BY seq`
	taqTradesSQL = `
		SELECT ts, price::text, volume
		FROM taq_trades
		WHERE ticker = $1 AND day = $2
		ORDER BY seq`
)

// Store loads stock-days of one feed and builds their grids.
type Store struct {
	db      Querier
	feed    string
	builder pipeline.Builder
	logger  *slog.Logger
}

var _ batch.Source = (*Store)(nil)

// New creates a Store for feed ("itch" or "taq").
func New(db Querier, feed string, builder pipeline.Builder, logger *slog.Logger) (*Store, error) {
	if feed != FeedITCH && feed != FeedTAQ {
		return nil, fmt.Errorf("unknown feed %q", feed)
	}
	if feed == FeedTAQ && builder.Signs == pipeline.Matched {
		return nil, errors.New("matched signs need the itch feed")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		db:      db,
		feed:    feed,
		builder: builder,
		logger:  logger,
	}, nil
}

// Days lists the trading days with data for ticker in [from, to].
func (s *Store) Days(ctx context.Context, ticker string, from, to time.Time) ([]time.Time, error) {
	query := itchDaysSQL
	if s.feed == FeedTAQ {
		query = taqDaysSQL
	}

	rows, err := s.db.Query(ctx, query, ticker, from, to)
	if err != nil {
		return nil, fmt.Errorf("query days: %w", err)
	}
	days, err := pgx.CollectRows(rows, pgx.RowTo[time.Time])
	if err != nil {
		return nil, fmt.Errorf("scan days: %w", err)
	}
	return days, nil
}

// Load reads one stock-day and builds its price and sign grids.
func (s *Store) Load(ctx context.Context, ticker string, day time.Time) (pipeline.Day, error) {
	start := time.Now()

	var (
		d   pipeline.Day
		err error
	)
	if s.feed == FeedITCH {
		d, err = s.loadITCH(ctx, ticker, day)
	} else {
		d, err = s.loadTAQ(ctx, ticker, day)
	}
	if err != nil {
		return pipeline.Day{}, err
	}

	s.logger.Debug("loaded day",
		"ticker", ticker,
		"day", day.Format(time.DateOnly),
		"quotes", d.Quotes,
		"trades", d.Trades,
		"duration", time.Since(start),
	)
	return d, nil
}

// Events reads the ITCH events of one stock-day in feed order.
func (s *Store) Events(ctx context.Context, ticker string, day time.Time) ([]model.Event, error) {
	rows, err := s.db.Query(ctx, itchEventsSQL, ticker, day)
	if err != nil {
		return nil, fmt.Errorf("query itch events: %w", err)
	}
	raw, err := pgx.CollectRows(rows, pgx.RowToStructByPos[itchRow])
	if err != nil {
		return nil, fmt.Errorf("scan itch events: %w", err)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%s %s: %w", ticker, day.Format(time.DateOnly), model.ErrNoData)
	}
	return toEvents(raw)
}

// Quotes reads the TAQ quotes of one stock-day in feed order.
func (s *Store) Quotes(ctx context.Context, ticker string, day time.Time) ([]model.QuoteSample, error) {
	rows, err := s.db.Query(ctx, taqQuotesSQL, ticker, day)
	if err != nil {
		return nil, fmt.Errorf("query taq quotes: %w", err)
	}
	raw, err := pgx.CollectRows(rows, pgx.RowToStructByPos[quoteRow])
	if err != nil {
		return nil, fmt.Errorf("scan taq quotes: %w", err)
	}
	return toQuotes(raw)
}

// Trades reads the TAQ trades of one stock-day in feed order.
func (s *Store) Trades(ctx context.Context, ticker string, day time.Time) ([]model.Trade, error) {
	rows, err := s.db.Query(ctx, taqTradesSQL, ticker, day)
	if err != nil {
		return nil, fmt.Errorf("query taq trades: %w", err)
	}
	raw, err := pgx.CollectRows(rows, pgx.RowToStructByPos[tradeRow])
	if err != nil {
		return nil, fmt.Errorf("scan taq trades: %w", err)
	}
	return toTrades(raw)
}

// SignAccuracy scores the tick rule against matched signs for one ITCH day.
func (s *Store) SignAccuracy(ctx context.Context, ticker string, day time.Time) (float64, int, error) {
	if s.feed != FeedITCH {
		return 0, 0, errors.New("sign accuracy needs the itch feed")
	}
	events, err := s.Events(ctx, ticker, day)
	if err != nil {
		return 0, 0, err
	}
	return s.builder.SignAccuracy(events)
}

func (s *Store) loadITCH(ctx context.Context, ticker string, day time.Time) (pipeline.Day, error) {
	events, err := s.Events(ctx, ticker, day)
	if err != nil {
		return pipeline.Day{}, err
	}
	return s.builder.ITCHDay(events)
}

func (s *Store) loadTAQ(ctx context.Context, ticker string, day time.Time) (pipeline.Day, error) {
	quotes, err := s.Quotes(ctx, ticker, day)
	if err != nil {
		return pipeline.Day{}, err
	}
	trades, err := s.Trades(ctx, ticker, day)
	if err != nil {
		return pipeline.Day{}, err
	}
	if len(quotes) == 0 && len(trades) == 0 {
		return pipeline.Day{}, fmt.Errorf("%s %s: %w", ticker, day.Format(time.DateOnly), model.ErrNoData)
	}
	return s.builder.TAQDay(quotes, trades)
}
