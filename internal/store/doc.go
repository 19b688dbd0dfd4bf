// Package store reads historical feeds from PostgreSQL.
//
// Tables (one row per record, ordered by seq within a stock-day):
//   - itch_events(ticker, day, seq, ts, order_id, kind, price, volume)
//   - taq_quotes(ticker, day, seq, ts, bid, ask)
//   - taq_trades(ticker, day, seq, ts, price, volume)
//
// ITCH prices are ten-thousandths of a dollar and kind is the one-letter
// message code. TAQ prices are NUMERIC dollars and are read as text so no
// precision is lost before conversion.
package store
