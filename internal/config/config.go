package config

import "time"

// Feeds.
const (
	FeedITCH = "itch"
	FeedTAQ  = "taq"
)

// Config is the root configuration of a response run.
type Config struct {
	Run      RunConfig      `yaml:"run"`
	Session  SessionConfig  `yaml:"session"`
	Response ResponseConfig `yaml:"response"`
	Database DatabaseConfig `yaml:"database"`
	Writer   WriterConfig   `yaml:"writer"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// RunConfig selects the feed and the worker count.
type RunConfig struct {
	Feed        string `yaml:"feed"`        // "itch" or "taq"
	Concurrency int    `yaml:"concurrency"` // Stock-days in flight
}

// SessionConfig is the uniform grid, in the feed's time unit since midnight.
type SessionConfig struct {
	Start int64  `yaml:"start"`
	End   int64  `yaml:"end"`
	Step  int64  `yaml:"step"`
	Unit  string `yaml:"unit"` // "ms" or "s"
}

// ResponseConfig parameterizes grids, signs and the estimator.
type ResponseConfig struct {
	TauMax     int    `yaml:"tau_max"`
	ReturnKind string `yaml:"return_kind"` // arithmetic | log
	Hold       string `yaml:"hold"`        // last | first
	Fill       string `yaml:"fill"`        // forward | backward
	Weighting  string `yaml:"weighting"`   // unweighted | volume
	Support    string `yaml:"support"`     // in_range | all_signs
	Field      string `yaml:"field"`       // midpoint | bid | ask | spread
	SignSource string `yaml:"sign_source"` // tick_rule | matched
	Seed       int    `yaml:"seed"`        // Tick rule sign before the first price change
	ShiftTau   int    `yaml:"shift_tau"`   // Fixed lag of shift scans
}

// DatabaseConfig holds the event source and the result sink. Results share
// the events pool when results.host is empty.
type DatabaseConfig struct {
	Events  DBConfig `yaml:"events"`
	Results DBConfig `yaml:"results"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	Name            string `yaml:"name"`
	User            string `yaml:"user"`
	Password        string `yaml:"password"`
	SSLMode         string `yaml:"ssl_mode"`
	ApplicationName string `yaml:"application_name"`
	MaxConns        int    `yaml:"max_conns"`
	MinConns        int    `yaml:"min_conns"`
}

// Configured reports whether a host was given.
func (db DBConfig) Configured() bool {
	return db.Host != ""
}

// WriterConfig holds result writer settings.
type WriterConfig struct {
	Enabled       bool          `yaml:"enabled"`
	Table         string        `yaml:"table"`
	BatchSize     int           `yaml:"batch_size"`
	FlushInterval time.Duration `yaml:"flush_interval"`
}

// MetricsConfig holds Prometheus metrics settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Port    int    `yaml:"port"`
	Path    string `yaml:"path"`
}
