// Package page holds the read-only view of a single page that the table
// builders work from.
//
// A [Snapshot] indexes text chunks and ruling segments in R-trees so that
// region queries stay cheap on dense pages:
//
//	snap := page.New(page.Content{Chunks: chunks, Rulings: rulings})
//	inside := snap.ChunksIn(model.NewRect(50, 100, 400, 200))
//
// Snapshots are immutable once built and may be shared between goroutines.
// Pages can also be loaded from YAML, one page per document:
//
//	pages, err := page.LoadFile("report.yaml")
package page
