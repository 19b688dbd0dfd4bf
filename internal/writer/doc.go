// Package writer persists response curves.
//
// The ResultWriter receives daily curves from the batch driver, flattens
// them into one row per lag or shift, and batch-inserts them into the
// response_curves table. Rows are keyed by run id, so re-running a
// flush after a partial failure never duplicates a row.
//
// Numerators and supports are stored separately; the response over any
// set of days is sum(num) / sum(support) over its rows.
package writer
