package config

import (
	"time"

	"github.com/rickgao/impact-response/internal/model"
	"github.com/rickgao/impact-response/internal/sign"
)

// Default values for optional configuration fields.
const (
	DefaultFeed            = FeedITCH
	DefaultConcurrency     = 4
	DefaultTauMax          = 1000
	DefaultReturnKind      = "arithmetic"
	DefaultHold            = "last"
	DefaultFill            = "forward"
	DefaultWeighting       = "unweighted"
	DefaultSupport         = "in_range"
	DefaultField           = "midpoint"
	DefaultSignSource      = "tick_rule"
	DefaultShiftTau        = 1
	DefaultDBPort          = 5432
	DefaultDBSSLMode       = "prefer"
	DefaultApplicationName = "impact"
	DefaultMaxConns        = 10
	DefaultMinConns        = 2
	DefaultWriterTable     = "response_curves"
	DefaultBatchSize       = 1000
	DefaultFlushInterval   = 1 * time.Second
	DefaultMetricsPort     = 9090
	DefaultMetricsPath     = "/metrics"
)

// ApplyDefaults fills unset fields. Session bounds follow the feed.
func (c *Config) ApplyDefaults() {
	if c.Run.Feed == "" {
		c.Run.Feed = DefaultFeed
	}
	if c.Run.Concurrency == 0 {
		c.Run.Concurrency = DefaultConcurrency
	}

	applySessionDefaults(&c.Session, c.Run.Feed)

	r := &c.Response
	if r.TauMax == 0 {
		r.TauMax = DefaultTauMax
	}
	if r.ReturnKind == "" {
		r.ReturnKind = DefaultReturnKind
	}
	if r.Hold == "" {
		r.Hold = DefaultHold
	}
	if r.Fill == "" {
		r.Fill = DefaultFill
	}
	if r.Weighting == "" {
		r.Weighting = DefaultWeighting
	}
	if r.Support == "" {
		r.Support = DefaultSupport
	}
	if r.Field == "" {
		r.Field = DefaultField
	}
	if r.SignSource == "" {
		r.SignSource = DefaultSignSource
	}
	if r.Seed == 0 {
		r.Seed = int(sign.DefaultSeed)
	}
	if r.ShiftTau == 0 {
		r.ShiftTau = DefaultShiftTau
	}

	applyDBDefaults(&c.Database.Events)
	if c.Database.Results.Configured() {
		applyDBDefaults(&c.Database.Results)
	}

	if c.Writer.Table == "" {
		c.Writer.Table = DefaultWriterTable
	}
	if c.Writer.BatchSize == 0 {
		c.Writer.BatchSize = DefaultBatchSize
	}
	if c.Writer.FlushInterval == 0 {
		c.Writer.FlushInterval = DefaultFlushInterval
	}

	if c.Metrics.Port == 0 {
		c.Metrics.Port = DefaultMetricsPort
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = DefaultMetricsPath
	}
}

func applySessionDefaults(s *SessionConfig, feed string) {
	def := model.ITCHSession()
	if feed == FeedTAQ {
		def = model.TAQSession()
	}
	if s.Start == 0 && s.End == 0 {
		s.Start, s.End = def.Start, def.End
	}
	if s.Step == 0 {
		s.Step = def.Step
	}
	if s.Unit == "" {
		s.Unit = def.Unit.String()
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.ApplicationName == "" {
		db.ApplicationName = DefaultApplicationName
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
