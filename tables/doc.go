// Package tables reconstructs the row and column grid of a table region.
//
// Two builders are provided and [Builder.BuildTable] picks one per region:
//
//   - [Builder.BuildLattice] - the grid comes from ruling lines. Ruling
//     positions are clustered into splits, every border segment is tested
//     for a drawn ruling, and cells are merged across missing borders.
//   - [Builder.BuildFlow] - the grid is inferred from text layout. Rows are
//     assembled from chunk geometry (or adopted from tagged structure rows),
//     columns are found by recursive projection and every chunk is placed
//     with row and column span detection.
//
// [FindFrames] discovers connected ruling frames on a page so that line
// tables exist before other detectors are consulted.
//
//	b := tables.NewBuilder().WithLogger(logger)
//	t, err := b.BuildTable(tables.Input{Bounds: region, Chunks: chunks})
//
// # Configuration
//
// Every threshold is a field of [Config]; [DefaultConfig] holds calibrated
// defaults:
//
//   - SplitTolerance - ruling positions merged into one split (5 units)
//   - BorderCoverage - share of a border a ruling must cover (50%)
//   - SnapOverlap - snap inferred columns to the max-count estimate (80%)
//   - MaxDepth - recursion limit of column splitting
//
// # Confidence Scoring
//
// Line tables are scored on cell count, spacing regularity, outer border
// and drawn border share. Text-flow tables are scored on:
//
//   - Grid regularity (30%)
//   - Alignment quality (30%)
//   - Line presence (20%)
//   - Cell occupancy (20%)
package tables
