// Package store keeps reconstruction runs in a SQLite database so results
// can be listed and reloaded without processing the pages again.
//
// A run records the input it came from and every table found, down to the
// cells with their spans and bounds. Loaded tables are rebuilt through
// model.Table.AddCell and validated, so a stored grid that no longer
// satisfies the span invariants is reported instead of returned.
package store
