// Package model defines shared data types used across the response engine.
//
// Conventions:
//   - Prices: integer ten-thousandths of a dollar (PriceScale = 10,000), the ITCH fixed-point format.
//     TAQ decimal prices are converted on the way in.
//   - Timestamps: int64 since midnight, in the Unit of the feed (milliseconds for ITCH, seconds for TAQ)
//   - Signs: int8, +1 buyer-initiated, -1 seller-initiated, 0 no signed trade
package model
