package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/impact-response/internal/config"
)

// Pools holds database connections for a run.
type Pools struct {
	// Events holds the order-book and TAQ records.
	Events *pgxpool.Pool

	// Results receives response curves. Same as Events when shared.
	Results *pgxpool.Pool

	shared bool
}

// NewPools creates the events pool and, when configured, a separate results pool.
func NewPools(ctx context.Context, cfg config.DatabaseConfig) (*Pools, error) {
	events, err := Connect(ctx, cfg.Events)
	if err != nil {
		return nil, fmt.Errorf("connect events: %w", err)
	}

	if !cfg.Results.Configured() {
		return &Pools{Events: events, Results: events, shared: true}, nil
	}

	results, err := Connect(ctx, cfg.Results)
	if err != nil {
		events.Close()
		return nil, fmt.Errorf("connect results: %w", err)
	}

	return &Pools{
		Events:  events,
		Results: results,
	}, nil
}

// Connect creates a single connection pool.
func Connect(ctx context.Context, cfg config.DBConfig) (*pgxpool.Pool, error) {
	connStr := BuildConnString(cfg)

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Close closes the connection pools.
func (p *Pools) Close() {
	if p.Events != nil {
		p.Events.Close()
	}
	if p.Results != nil && !p.shared {
		p.Results.Close()
	}
}

// Ping verifies the connections are healthy.
func (p *Pools) Ping(ctx context.Context) error {
	if err := p.Events.Ping(ctx); err != nil {
		return fmt.Errorf("ping events: %w", err)
	}
	if p.shared {
		return nil
	}
	if err := p.Results.Ping(ctx); err != nil {
		return fmt.Errorf("ping results: %w", err)
	}
	return nil
}
