// Package model defines the geometric and tabular types shared by every
// stage of table reconstruction.
//
// # Geometry
//
// All coordinates are top-down page units: Y grows towards the bottom of
// the page, so a [Rect] is described by its Left/Top corner and its size.
//
//   - [Rect] - rectangle with overlap, containment and union helpers
//   - [Ruling] - an oriented line segment that may act as a cell border
//   - [TextChunk] - a run of text with bounds and character metrics
//   - [TextBlock] - a visual row of chunks ordered left to right
//
// # Tables
//
// A [Table] is a rows x cols grid backed by an index grid. Every slot holds
// the id of the [Cell] owning it; slots covered by a row or column span hold
// the id of the span's anchor (its top-left cell), never a second owner.
//
//	t := model.NewTable(2, 2)
//	t.AddCell(model.Cell{Row: 0, Col: 0, ColSpan: 2, Text: "Header"})
//	t.Fill() // remaining slots get empty cells
//	err := t.Validate()
//
// Tables export to Markdown, CSV and HTML; HTML keeps rowspan/colspan.
//
// # Regions
//
// A [TableRegion] is a bounding box proposed by a detector before its
// internal grid is known. [CandidateCell] is the transient cell used while
// a grid is being assembled.
package model
