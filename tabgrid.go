// Package tabgrid reconstructs the row and column grid of tables on a
// page from positioned text chunks and ruling lines.
//
// Basic usage:
//
//	results, warnings, err := tabgrid.Open("pages.yaml").Tables(ctx)
//	if err != nil {
//	    // handle error
//	}
//	if len(warnings) > 0 {
//	    log.Println("Warnings:", tabgrid.FormatWarnings(warnings))
//	}
//	for _, r := range results {
//	    for _, t := range r.Tables {
//	        fmt.Println(t.ToMarkdown())
//	    }
//	}
//
// With options:
//
//	results, _, err := tabgrid.Open("pages.yaml").
//	    Pages(1, 2).
//	    Workers(4).
//	    WithDetector(detector, renderer).
//	    Tables(ctx)
//
// Each page runs through the same pipeline: ruling frames become line
// tables, region proposals from the configured sources are reconciled
// with them, incomplete regions get their edges corrected, and a grid is
// built for every surviving region. The stages live in their own packages
// (tables, correction, reconcile, detect) and can be used directly.
package tabgrid

import (
	"github.com/tsawler/tabgrid/page"
)

// Open returns a Processor for the page snapshots stored in a YAML file.
// The file is read when a terminal operation such as Tables runs.
//
// Example:
//
//	results, warnings, err := tabgrid.Open("pages.yaml").Tables(ctx)
func Open(filename string) *Processor {
	p := newProcessor()
	p.filename = filename
	return p
}

// FromSnapshots returns a Processor for pages that are already loaded
//
// Example:
//
//	snap := page.New(page.Content{Chunks: chunks, Rulings: rulings})
//	results, warnings, err := tabgrid.FromSnapshots(snap).Tables(ctx)
func FromSnapshots(snapshots ...*page.Snapshot) *Processor {
	p := newProcessor()
	p.snapshots = append([]*page.Snapshot(nil), snapshots...)
	p.loaded = true
	return p
}

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// MustTables is a helper that wraps a call to Tables and panics if the
// error is non-nil. It discards warnings and returns just the results.
//
// Example:
//
//	results := tabgrid.MustTables(tabgrid.Open("pages.yaml").Tables(ctx))
func MustTables[T any](val T, _ []Warning, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
