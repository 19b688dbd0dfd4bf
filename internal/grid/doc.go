// Package grid expands sparse, irregularly timed observations onto a dense
// session grid with one cell per time step.
//
// Empty cells carry the previous cell forward. Cells before the first
// observation are seeded, never left at the zero value, because prices are
// later divided by and logged.
package grid
