// Package response estimates price-impact response functions.
//
// For a price series p of a source stock and a sign series ε of a driving stock
// on the same grid, the response at lag τ is
//
//	R(τ) = Σ_t r(t, τ) ε(t) / N(τ)
//
// summed over cells with ε(t) ≠ 0, where r is the arithmetic or log return
// from t to t+τ and N(τ) is the support. A Curve keeps the numerator and the
// support apart so days can be summed before dividing.
package response
