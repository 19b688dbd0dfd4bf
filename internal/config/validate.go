package config

import (
	"errors"
	"fmt"

	"github.com/rickgao/impact-response/internal/grid"
	"github.com/rickgao/impact-response/internal/pipeline"
	"github.com/rickgao/impact-response/internal/response"
	"github.com/rickgao/impact-response/internal/sign"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if c.Run.Feed != FeedITCH && c.Run.Feed != FeedTAQ {
		return fmt.Errorf("run.feed must be %q or %q, got %q", FeedITCH, FeedTAQ, c.Run.Feed)
	}
	if c.Run.Concurrency < 1 {
		return errors.New("run.concurrency must be >= 1")
	}

	s, err := c.SessionGrid()
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("session: %w", err)
	}

	if err := c.Response.validate(c.Run.Feed); err != nil {
		return err
	}

	if err := c.Database.Events.validate("database.events"); err != nil {
		return err
	}
	if c.Database.Results.Configured() {
		if err := c.Database.Results.validate("database.results"); err != nil {
			return err
		}
	}

	if c.Writer.Enabled {
		if c.Writer.Table == "" {
			return errors.New("writer.table is required")
		}
		if c.Writer.BatchSize < 1 {
			return errors.New("writer.batch_size must be >= 1")
		}
		if c.Writer.FlushInterval <= 0 {
			return errors.New("writer.flush_interval must be positive")
		}
	}

	if c.Metrics.Enabled && (c.Metrics.Port < 1 || c.Metrics.Port > 65535) {
		return fmt.Errorf("metrics.port must be between 1 and 65535, got %d", c.Metrics.Port)
	}

	return nil
}

func (r *ResponseConfig) validate(feed string) error {
	if r.TauMax < 1 {
		return errors.New("response.tau_max must be >= 1")
	}
	if r.ShiftTau < 1 {
		return errors.New("response.shift_tau must be >= 1")
	}
	if r.Seed != 1 && r.Seed != -1 {
		return fmt.Errorf("response.seed must be 1 or -1, got %d", r.Seed)
	}
	if _, err := response.ParseReturnKind(r.ReturnKind); err != nil {
		return fmt.Errorf("response.return_kind: %w", err)
	}
	if _, err := response.ParseSupportPolicy(r.Support); err != nil {
		return fmt.Errorf("response.support: %w", err)
	}
	if _, err := grid.ParseHold(r.Hold); err != nil {
		return fmt.Errorf("response.hold: %w", err)
	}
	if _, err := grid.ParseFill(r.Fill); err != nil {
		return fmt.Errorf("response.fill: %w", err)
	}
	if _, err := grid.ParseField(r.Field); err != nil {
		return fmt.Errorf("response.field: %w", err)
	}
	if _, err := sign.ParseWeighting(r.Weighting); err != nil {
		return fmt.Errorf("response.weighting: %w", err)
	}
	src, err := pipeline.ParseSignSource(r.SignSource)
	if err != nil {
		return fmt.Errorf("response.sign_source: %w", err)
	}
	if src == pipeline.Matched && feed != FeedITCH {
		return fmt.Errorf("response.sign_source %q requires feed %q", r.SignSource, FeedITCH)
	}
	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
