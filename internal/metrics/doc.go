// Package metrics provides Prometheus instrumentation for batch runs.
//
// Metrics:
//   - impact_days_total{kind,outcome}: stock-days processed (ok, no_data, failed)
//   - impact_quotes_total / impact_trades_total: inputs that reached the grids
//   - impact_day_duration_seconds{kind}: per stock-day latency
//   - impact_rows_written_total{outcome}: result rows handed to the database
package metrics
