package tables

import (
	"fmt"
	"math"
	"sort"

	"github.com/tsawler/tabgrid/model"
)

// Lattice is the candidate-cell grid derived from the rulings of a region
type Lattice struct {
	// Rows holds the horizontal split positions, top to bottom
	Rows []float64

	// Cols holds the vertical split positions, left to right
	Cols []float64

	// Cells holds, for every slot, the merged candidate covering it
	Cells [][]model.CandidateCell

	// hReal[i][c] reports whether row split i is drawn over column c;
	// vReal[r][j] whether column split j is drawn over row r.
	hReal [][]bool
	vReal [][]bool

	candidates []model.CandidateCell
}

// clusterSplits groups ruling positions into split coordinates. A position
// within tol of the previous split merges into it, moving the split to the
// midpoint of the two.
func clusterSplits(positions []float64, tol float64) []float64 {
	if len(positions) == 0 {
		return nil
	}
	sorted := make([]float64, len(positions))
	copy(sorted, positions)
	sort.Float64s(sorted)

	splits := []float64{sorted[0]}
	for _, p := range sorted[1:] {
		last := &splits[len(splits)-1]
		if p-*last <= tol {
			*last = (*last + p) / 2
			continue
		}
		splits = append(splits, p)
	}
	return splits
}

func positions(rulings []model.Ruling) []float64 {
	out := make([]float64, len(rulings))
	for i, r := range rulings {
		out[i] = r.Position
	}
	return out
}

// NewLattice builds the candidate grid for region from its rulings. An axis
// with fewer than two splits falls back to the region edges. It returns nil
// when the region is degenerate.
func NewLattice(region model.Rect, horizontal, vertical []model.Ruling, cfg Config) *Lattice {
	tol := cfg.SplitTolerance
	rows := clusterSplits(positions(horizontal), tol)
	if len(rows) < 2 {
		rows = clusterSplits(append(rows, region.Top, region.Bottom()), tol)
	}
	cols := clusterSplits(positions(vertical), tol)
	if len(cols) < 2 {
		cols = clusterSplits(append(cols, region.Left, region.Right()), tol)
	}
	if len(rows) < 2 || len(cols) < 2 {
		return nil
	}

	l := &Lattice{Rows: rows, Cols: cols}
	l.findBorders(horizontal, vertical, cfg)
	l.merge()
	return l
}

// RowCount returns the number of grid rows before merging
func (l *Lattice) RowCount() int { return len(l.Rows) - 1 }

// ColCount returns the number of grid columns before merging
func (l *Lattice) ColCount() int { return len(l.Cols) - 1 }

// Bounds returns the area enclosed by the outer splits
func (l *Lattice) Bounds() model.Rect {
	return model.RectFromEdges(l.Cols[0], l.Rows[0], l.Cols[len(l.Cols)-1], l.Rows[len(l.Rows)-1])
}

// Candidates returns the distinct merged candidates in row-major order of
// their anchors
func (l *Lattice) Candidates() []model.CandidateCell { return l.candidates }

// findBorders tests every border segment against the rulings at its
// position. The best-covering ruling decides; it must cover more than
// BorderCoverage of the segment.
func (l *Lattice) findBorders(horizontal, vertical []model.Ruling, cfg Config) {
	nr, nc := l.RowCount(), l.ColCount()

	l.hReal = make([][]bool, nr+1)
	for i := 0; i <= nr; i++ {
		l.hReal[i] = make([]bool, nc)
		for c := 0; c < nc; c++ {
			l.hReal[i][c] = drawn(horizontal, l.Rows[i], l.Cols[c], l.Cols[c+1], cfg)
		}
	}

	l.vReal = make([][]bool, nr)
	for r := 0; r < nr; r++ {
		l.vReal[r] = make([]bool, nc+1)
		for j := 0; j <= nc; j++ {
			l.vReal[r][j] = drawn(vertical, l.Cols[j], l.Rows[r], l.Rows[r+1], cfg)
		}
	}
}

func drawn(rulings []model.Ruling, pos, from, to float64, cfg Config) bool {
	best := 0.0
	for _, ru := range rulings {
		if math.Abs(ru.Position-pos) > cfg.SplitTolerance {
			continue
		}
		if cov := ru.Covered(from, to); cov > best {
			best = cov
		}
	}
	return best > cfg.BorderCoverage*(to-from)
}

// merge grows every unowned slot rightwards across missing vertical borders,
// then downwards while the whole horizontal run can follow, and records the
// merged candidate in every slot it covers.
func (l *Lattice) merge() {
	nr, nc := l.RowCount(), l.ColCount()
	owner := make([][]int, nr)
	for r := range owner {
		owner[r] = make([]int, nc)
		for c := range owner[r] {
			owner[r][c] = -1
		}
	}

	l.candidates = nil
	for r := 0; r < nr; r++ {
		for c := 0; c < nc; c++ {
			if owner[r][c] >= 0 {
				continue
			}
			c2 := c
			for c2+1 < nc && !l.vReal[r][c2+1] && owner[r][c2+1] < 0 {
				c2++
			}
			r2 := r
			for r2+1 < nr && l.canExtendDown(r2, c, c2, owner) {
				r2++
			}

			id := len(l.candidates)
			l.candidates = append(l.candidates, l.candidate(r, c, r2, c2))
			for rr := r; rr <= r2; rr++ {
				for cc := c; cc <= c2; cc++ {
					owner[rr][cc] = id
				}
			}
		}
	}

	l.Cells = make([][]model.CandidateCell, nr)
	for r := 0; r < nr; r++ {
		l.Cells[r] = make([]model.CandidateCell, nc)
		for c := 0; c < nc; c++ {
			l.Cells[r][c] = l.candidates[owner[r][c]]
		}
	}
}

// canExtendDown reports whether the run c..c2 ending at row r2 can absorb
// row r2+1: no drawn border below it, no drawn border inside the new row
// and no slot already taken.
func (l *Lattice) canExtendDown(r2, c, c2 int, owner [][]int) bool {
	next := r2 + 1
	for cc := c; cc <= c2; cc++ {
		if l.hReal[next][cc] || owner[next][cc] >= 0 {
			return false
		}
	}
	for j := c + 1; j <= c2; j++ {
		if l.vReal[next][j] {
			return false
		}
	}
	return true
}

func (l *Lattice) candidate(r, c, r2, c2 int) model.CandidateCell {
	cand := model.CandidateCell{
		Rect:    model.RectFromEdges(l.Cols[c], l.Rows[r], l.Cols[c2+1], l.Rows[r2+1]),
		Row:     r,
		Col:     c,
		RowSpan: r2 - r + 1,
		ColSpan: c2 - c + 1,
	}
	for cc := c; cc <= c2; cc++ {
		cand.MergeTop = cand.MergeTop || !l.hReal[r][cc]
		cand.MergeBottom = cand.MergeBottom || !l.hReal[r2+1][cc]
	}
	for rr := r; rr <= r2; rr++ {
		cand.MergeLeft = cand.MergeLeft || !l.vReal[rr][c]
		cand.MergeRight = cand.MergeRight || !l.vReal[rr][c2+1]
	}
	return cand
}

// ClosedCellAt returns the candidate whose four borders are all drawn and
// which contains box, if any.
func (l *Lattice) ClosedCellAt(box model.Rect) (model.CandidateCell, bool) {
	for _, cand := range l.candidates {
		if cand.IsClosed() && cand.Rect.ContainsRect(box, 0) {
			return cand, true
		}
	}
	return model.CandidateCell{}, false
}

// Table emits one cell per merged candidate and attaches chunks. A chunk
// goes to the candidate containing its slightly shrunk box, or failing
// that to the one containing its center; other chunks are ignored.
func (l *Lattice) Table(chunks []model.TextChunk, cfg Config) (*model.Table, error) {
	t := model.NewTable(l.RowCount(), l.ColCount())
	t.Kind = model.LineTable
	t.Source = model.SourceLattice
	t.Bounds = l.Bounds()

	ids := make([]int, len(l.candidates))
	for i, cand := range l.candidates {
		id, err := t.AddCell(model.Cell{
			Bounds:  cand.Rect,
			Row:     cand.Row,
			Col:     cand.Col,
			RowSpan: cand.RowSpan,
			ColSpan: cand.ColSpan,
		})
		if err != nil {
			return nil, fmt.Errorf("lattice cell %d: %w", i, err)
		}
		ids[i] = id
	}

	for _, ch := range chunks {
		if ch.IsBlank() {
			continue
		}
		i := l.locate(ch, cfg)
		if i < 0 {
			continue
		}
		cell := t.CellByID(ids[i])
		cell.Chunks = append(cell.Chunks, ch)
	}
	for _, id := range ids {
		if cell := t.CellByID(id); len(cell.Chunks) > 0 {
			cell.Text = model.JoinText(cell.Chunks)
		}
	}

	t.Fill()
	t.Confidence = l.confidence()
	return t, nil
}

func (l *Lattice) locate(ch model.TextChunk, cfg Config) int {
	box := ch.Box().Shrink(cfg.ChunkShrink, cfg.ChunkShrink)
	for i, cand := range l.candidates {
		if cand.Rect.ContainsRect(box, 0) {
			return i
		}
	}
	center := ch.Box().Center()
	for i, cand := range l.candidates {
		if cand.Rect.Contains(center) {
			return i
		}
	}
	return -1
}

// HasLattice reports whether the rulings form a grid sufficient to build
// region as a lattice table: at least two splits on each axis, a ruling
// frame spanning most of the region and enclosing most of its chunks.
func HasLattice(region model.Rect, horizontal, vertical []model.Ruling, chunks []model.TextChunk, cfg Config) bool {
	if len(clusterSplits(positions(horizontal), cfg.SplitTolerance)) < 2 ||
		len(clusterSplits(positions(vertical), cfg.SplitTolerance)) < 2 {
		return false
	}

	var frame model.Rect
	for _, r := range horizontal {
		frame = frame.Union(r.Bounds())
	}
	for _, r := range vertical {
		frame = frame.Union(r.Bounds())
	}
	if frame.Width < cfg.LatticeCoverage*region.Width || frame.Height < cfg.LatticeCoverage*region.Height {
		return false
	}

	total, inside := 0, 0
	area := frame.Expand(cfg.SplitTolerance)
	for _, ch := range chunks {
		if ch.IsBlank() {
			continue
		}
		total++
		if area.Contains(ch.Box().Center()) {
			inside++
		}
	}
	return float64(inside) >= cfg.LatticeCoverage*float64(total)
}

// BuildLattice builds a line table for region from its rulings and chunks.
// It returns nil when no grid can be formed.
func (b *Builder) BuildLattice(region model.Rect, horizontal, vertical []model.Ruling, chunks []model.TextChunk) (*model.Table, error) {
	l := NewLattice(region, horizontal, vertical, b.config)
	if l == nil {
		return nil, nil
	}
	b.logger.Debug("lattice built",
		"rows", l.RowCount(), "cols", l.ColCount(), "cells", len(l.candidates))
	return l.Table(chunks, b.config)
}
