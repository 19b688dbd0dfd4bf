// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Session bounds default per feed: ITCH runs 09:30-16:00 in milliseconds, TAQ
// runs 09:40-15:50 in seconds.
package config
