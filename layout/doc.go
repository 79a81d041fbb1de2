// Package layout groups text chunks into visual rows and measures them.
//
// The [RowDetector] assembles rows from chunk geometry. Chunks much taller
// than their characters (wrapped cell text) join the topmost row they cover
// without stretching that row's line extent:
//
//	rows := layout.NewRowDetector().Detect(chunks)
//	rows = detector.Preprocess(rows) // row and in-row chunk merges
//
// [ProjectBands] projects chunks onto the X axis, the starting point for
// column inference. The statistics helpers ([ModalCount], [MedianGap], ...)
// describe a row profile for boundary correction.
package layout
