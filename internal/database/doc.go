// Package database provides connection pool management for PostgreSQL.
//
// A run reads events from one database and may write results to another:
//   - Events: itch_events, taq_quotes, taq_trades (read-only)
//   - Results: response_curves
//
// When no results database is configured both roles share the events pool.
package database
