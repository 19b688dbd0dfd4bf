// Package pipeline composes replay, resampling and sign classification into
// the aligned price and sign grids of one stock-day, and feeds them to the
// response estimators.
//
// Everything here is pure: inputs are in-memory events, outputs are plain
// slices. Loading and persistence belong to the callers.
package pipeline
