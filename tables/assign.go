package tables

import (
	"fmt"
	"math"
	"sort"

	"github.com/tsawler/tabgrid/layout"
	"github.com/tsawler/tabgrid/model"
)

// placement locates one chunk in the text-flow grid
type placement struct {
	chunk   model.TextChunk
	row     int
	col     int
	rowSpan int
	colSpan int

	// aligned is set when the chunk sits cleanly inside a single column
	aligned bool
}

// grid is the row and column frame a text-flow table is assigned against
type grid struct {
	spans      []span
	cols       []layout.Band
	horizontal []model.Ruling
	lattice    *Lattice
}

// place assigns a chunk to a slot. A chunk inside a closed partial-lattice
// cell takes that cell's rows and columns; otherwise rows come from the
// sub-bands it covers and columns from its overlap ratios.
func (b *Builder) place(g grid, ch model.TextChunk) placement {
	p := placement{chunk: ch, rowSpan: 1, colSpan: 1}

	if g.lattice != nil {
		box := ch.Box().Shrink(b.config.ChunkShrink, b.config.ChunkShrink)
		if cand, ok := g.lattice.ClosedCellAt(box); ok {
			rows := spansInside(g.spans, cand.Rect)
			cols := colsInside(g.cols, cand.Rect)
			if len(rows) > 0 && len(cols) > 0 {
				p.row, p.rowSpan = rows[0], rows[len(rows)-1]-rows[0]+1
				p.col, p.colSpan = cols[0], cols[len(cols)-1]-cols[0]+1
				p.aligned = p.colSpan == 1
				return p
			}
		}
	}

	p.row, p.rowSpan = b.rowsOf(g, ch)
	p.col, p.colSpan, p.aligned = b.colsOf(g.cols, ch)
	return p
}

// rowsOf returns the first sub-band and the number of sub-bands a chunk
// occupies. A chunk spans several sub-bands when it covers at least
// RowSpanOverlap of each, or when a ruling cuts through it with sub-bands
// on both sides.
func (b *Builder) rowsOf(g grid, ch model.TextChunk) (row, n int) {
	top, bottom := ch.Bounds.Top, ch.Bounds.Bottom()

	var covered, touched []int
	best, bestOv := -1, 0.0
	for i, s := range g.spans {
		ov := model.Overlap(s.top, s.bottom, top, bottom)
		if ov <= 0 {
			continue
		}
		touched = append(touched, i)
		if s.height() > 0 && ov >= b.config.RowSpanOverlap*s.height() {
			covered = append(covered, i)
		}
		if ov > bestOv {
			best, bestOv = i, ov
		}
	}

	if len(covered) >= 2 {
		return covered[0], covered[len(covered)-1] - covered[0] + 1
	}
	if len(touched) >= 2 && straddlesRuling(ch, g.horizontal, g.spans, touched) {
		return touched[0], touched[len(touched)-1] - touched[0] + 1
	}
	if best >= 0 {
		return best, 1
	}

	// no overlap: nearest sub-band by center
	cy := ch.Bounds.CenterY()
	best, dist := 0, math.Inf(1)
	for i, s := range g.spans {
		if d := math.Abs(s.center() - cy); d < dist {
			best, dist = i, d
		}
	}
	return best, 1
}

// straddlesRuling reports whether a ruling crosses the chunk with touched
// sub-bands lying above and below it.
func straddlesRuling(ch model.TextChunk, horizontal []model.Ruling, spans []span, touched []int) bool {
	for _, r := range horizontal {
		if !r.Crosses(ch.Bounds, structureMargin) {
			continue
		}
		above, below := false, false
		for _, i := range touched {
			if spans[i].center() < r.Position {
				above = true
			} else {
				below = true
			}
		}
		if above && below {
			return true
		}
	}
	return false
}

// colsOf returns the first column and the number of columns a chunk
// occupies. Two hits where one ratio is below SplitLow or above SplitHigh
// count as a single hit. A chunk hitting no column goes to the nearest one.
func (b *Builder) colsOf(cols []layout.Band, ch model.TextChunk) (col, n int, aligned bool) {
	cb := layout.ChunkBand(ch)
	width := cb.Width()

	type hit struct {
		col   int
		ratio float64
	}
	var hits []hit
	for i, c := range cols {
		ov := cb.Overlap(c)
		if ov <= 0 {
			continue
		}
		ratio := 1.0
		if width > 0 {
			ratio = ov / width
		}
		hits = append(hits, hit{i, ratio})
	}

	switch len(hits) {
	case 0:
		return nearestColumn(cols, cb.Center()), 1, false
	case 1:
		return hits[0].col, 1, hits[0].ratio > b.config.SplitHigh
	case 2:
		lo, hi := hits[0], hits[1]
		if lo.ratio > hi.ratio {
			lo, hi = hi, lo
		}
		if lo.ratio < b.config.SplitLow || hi.ratio > b.config.SplitHigh {
			return hi.col, 1, true
		}
		return hits[0].col, 2, false
	}

	// three or more: ignore edge grazes below SplitLow
	first, last := -1, -1
	for _, h := range hits {
		if h.ratio < b.config.SplitLow {
			continue
		}
		if first < 0 {
			first = h.col
		}
		last = h.col
	}
	if first < 0 {
		return hits[0].col, 1, false
	}
	return first, last - first + 1, false
}

func spansInside(spans []span, r model.Rect) []int {
	var out []int
	for i, s := range spans {
		if c := s.center(); c >= r.Top && c <= r.Bottom() {
			out = append(out, i)
		}
	}
	return out
}

func colsInside(cols []layout.Band, r model.Rect) []int {
	var out []int
	for i, c := range cols {
		if x := c.Center(); x >= r.Left && x <= r.Right() {
			out = append(out, i)
		}
	}
	return out
}

// emit builds the table from placements. A placement whose slot is taken
// merges into the owning cell; a span that no longer fits is reduced until
// it does.
func emit(g grid, placements []placement) (*model.Table, error) {
	t := model.NewTable(len(g.spans), len(g.cols))

	sort.SliceStable(placements, func(i, j int) bool {
		a, b := placements[i], placements[j]
		if a.row != b.row {
			return a.row < b.row
		}
		if a.col != b.col {
			return a.col < b.col
		}
		return a.chunk.Bounds.Left < b.chunk.Bounds.Left
	})

	for _, p := range placements {
		if id, ok := t.Anchor(p.row, p.col); ok {
			cell := t.CellByID(id)
			cell.Chunks = append(cell.Chunks, p.chunk)
			continue
		}

		rs, cs := p.rowSpan, p.colSpan
		for rs > 1 || cs > 1 {
			if t.CanPlace(p.row, p.col, rs, cs) {
				break
			}
			if cs > 1 {
				cs--
			} else {
				rs--
			}
		}

		_, err := t.AddCell(model.Cell{
			Bounds:  g.slotRect(p.row, p.col, rs, cs),
			Row:     p.row,
			Col:     p.col,
			RowSpan: rs,
			ColSpan: cs,
			Chunks:  []model.TextChunk{p.chunk},
		})
		if err != nil {
			return nil, fmt.Errorf("placing %q: %w", p.chunk.Text, err)
		}
	}

	for id := range t.Cells() {
		c := t.CellByID(id)
		c.Text = model.JoinText(c.Chunks)
	}
	return t, nil
}

func (g grid) slotRect(row, col, rowSpan, colSpan int) model.Rect {
	return model.RectFromEdges(
		g.cols[col].Left,
		g.spans[row].top,
		g.cols[col+colSpan-1].Right,
		g.spans[row+rowSpan-1].bottom,
	)
}
