// Package batch runs response estimates over many stock-days.
//
// The Driver:
//   - Loads each day's grids from a Source with bounded concurrency
//   - Skips days without data and days with corrupt feeds, logging and counting them
//   - Sums daily numerators and supports, dividing only once for the period
//   - Hands every daily curve to an optional Sink for persistence
//   - Refuses cross responses of a stock against itself
package batch
