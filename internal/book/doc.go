// Package book reconstructs top-of-book quotes from ITCH order-by-order events.
//
// A replay is a pure function of one stock-day's events:
//   - Resolve registers every add in an order index and resolves the price and side of
//     executions, cancels and deletes that only carry an order id
//   - Ladder bounds the book to [0.9 × min, 1.1 × max] of the day's full-execution prices on a cent grid
//   - Replayer walks the resolved events and emits a QuoteSample whenever the best bid or best ask moves
//
// The order index and the ladder live only for the duration of one call.
package book
