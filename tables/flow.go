package tables

import (
	"sort"

	"github.com/tsawler/tabgrid/layout"
	"github.com/tsawler/tabgrid/model"
)

// Input describes one region to build a table for
type Input struct {
	Bounds model.Rect

	// Chunks are the page chunks inside Bounds
	Chunks []model.TextChunk

	// Horizontal and Vertical are the rulings inside Bounds
	Horizontal []model.Ruling
	Vertical   []model.Ruling

	// StructureRows are optional tagged rows covering the region
	StructureRows []model.TextBlock

	// Lattices are the bounds of line tables already known on the page
	Lattices []model.Rect
}

// BuildFlow infers a table from text layout alone, optionally helped by a
// partial ruling lattice or tagged structure rows. It returns nil when the
// region holds no text or reads as running prose.
func (b *Builder) BuildFlow(in Input) (*model.Table, error) {
	rows := b.flowRows(in)
	if len(rows) == 0 {
		return nil, nil
	}

	if b.mostlyParagraphs(rows, in) {
		b.logger.Debug("region rejected as prose", "rows", len(rows))
		return nil, nil
	}

	cols := b.inferColumns(rows)
	if len(cols) == 0 {
		return nil, nil
	}

	g := grid{
		spans:      b.rowSpans(rows, in.Horizontal),
		cols:       cols,
		horizontal: in.Horizontal,
	}
	if len(in.Horizontal) > 0 && len(in.Vertical) > 0 {
		g.lattice = NewLattice(in.Bounds, in.Horizontal, in.Vertical, b.config)
	}

	var placements []placement
	aligned := 0
	for _, row := range rows {
		for _, ch := range validChunks(row.Chunks) {
			p := b.place(g, ch)
			if p.aligned {
				aligned++
			}
			placements = append(placements, p)
		}
	}

	t, err := emit(g, placements)
	if err != nil {
		return nil, err
	}
	t.Kind = model.NoLineTable
	t.Source = model.SourceTextFlow
	t.Bounds = in.Bounds
	if t.Bounds.IsEmpty() {
		t.Bounds = model.ChunksBounds(in.Chunks)
	}
	t.Fill()

	rowSplits := make([]float64, 0, len(g.spans)+1)
	for _, s := range g.spans {
		rowSplits = append(rowSplits, s.top)
	}
	rowSplits = append(rowSplits, g.spans[len(g.spans)-1].bottom)
	colSplits := make([]float64, 0, len(cols)+1)
	for _, c := range cols {
		colSplits = append(colSplits, c.Left)
	}
	colSplits = append(colSplits, cols[len(cols)-1].Right)
	t.Confidence = flowConfidence(t, rowSplits, colSplits, aligned, len(placements), len(in.Horizontal))

	b.logger.Debug("text-flow table built",
		"rows", t.RowCount(), "cols", t.ColCount(), "chunks", len(placements))
	return t, nil
}

// flowRows assembles the rows of a region. Structure rows are adopted when
// none of their cells is contradicted by the rulings; otherwise rows come
// from chunk geometry.
func (b *Builder) flowRows(in Input) []model.TextBlock {
	detector := layout.NewRowDetectorWithConfig(b.config.Row)

	if len(in.StructureRows) > 0 {
		if _, ok := ClassifyStructureRows(in.StructureRows, in.Chunks, in.Horizontal, in.Vertical); ok {
			rows := make([]model.TextBlock, len(in.StructureRows))
			copy(rows, in.StructureRows)
			sort.SliceStable(rows, func(i, j int) bool { return rows[i].Bounds.Top < rows[j].Bounds.Top })
			return detector.Preprocess(rows)
		}
		b.logger.Debug("structure rows contradict rulings, using chunk geometry",
			"rows", len(in.StructureRows))
	}

	return detector.Preprocess(detector.Detect(in.Chunks))
}

// mostlyParagraphs reports whether most rows are single multi-line
// paragraphs and the region touches no known line table.
func (b *Builder) mostlyParagraphs(rows []model.TextBlock, in Input) bool {
	for _, l := range in.Lattices {
		if l.Intersects(in.Bounds) {
			return false
		}
	}

	width := in.Bounds.Width
	if width <= 0 {
		width = model.ChunksBounds(in.Chunks).Width
	}

	paragraphs := 0
	for _, row := range rows {
		if row.ValidCount() != 1 {
			continue
		}
		c := validChunks(row.Chunks)[0]
		if c.Bounds.Height >= b.config.ParagraphHeight*c.CharHeight() &&
			c.Bounds.Width >= b.config.ParagraphWidth*width {
			paragraphs++
		}
	}
	return float64(paragraphs) > b.config.ParagraphShare*float64(len(rows))
}
