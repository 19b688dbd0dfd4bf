// Package sign infers trade signs with the tick rule and collapses trades
// sharing a time bucket into one sign per bucket.
//
// Bucket aggregation accepts any per-trade signs, so the same code serves
// inferred signs and ground-truth signs matched to the originating order.
package sign
