// Package correction moves the top and bottom edges of an approximate
// table region onto the table's real first and last rows.
//
// Each edge is handled on its own. Rows at the edge that read as prose
// (sentences, "Source:" and unit lines, footnotes, numbered headings) or
// that start a new text block are shrunk away, then rows beyond the edge
// are absorbed while their column profile and spacing match the table.
// Growth never enters another region's fence.
//
//	c := correction.NewCorrector()
//	fixed := c.Correct(box, snapshot, others)
//	if fixed == nil {
//		// nothing table-like is left in the box
//	}
package correction
