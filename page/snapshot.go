package page

import (
	"sort"

	"github.com/tidwall/rtree"

	"github.com/tsawler/tabgrid/model"
)

// Source is the read-only view of a page that the table builders consume.
type Source interface {
	// ChunksIn returns the chunks lying mostly inside r, top to bottom then
	// left to right.
	ChunksIn(r model.Rect) []model.TextChunk

	HorizontalRulings() []model.Ruling
	VerticalRulings() []model.Ruling

	// SingleRulings returns horizontal rulings that are neither doubled nor
	// part of a ruling grid.
	SingleRulings() []model.Ruling

	// RulingsIn returns rulings inside r expanded by tol, clipped to r.
	RulingsIn(r model.Rect, tol float64) (horizontal, vertical []model.Ruling)

	// StructureRows returns tagged structural rows intersecting r.
	StructureRows(r model.Rect) []model.TextBlock

	// TaggedRegions returns table boxes declared by document structure tags.
	TaggedRegions() []model.Rect

	// TextArea returns the union of all chunk bounds.
	TextArea() model.Rect
}

const (
	// DoubleLineGap is the largest distance between two parallel rulings
	// drawn as one double line.
	DoubleLineGap = 3.0

	// RulingTouch is the slack used when testing whether rulings meet.
	RulingTouch = 1.0

	// minContainment is the share of a chunk's area that must fall inside
	// a query rectangle for ChunksIn to return it.
	minContainment = 0.5
)

// Content is the raw material for a Snapshot.
type Content struct {
	Number        int
	Width         float64
	Height        float64
	Chunks        []model.TextChunk
	Rulings       []model.Ruling
	StructureRows []model.TextBlock
	TaggedRegions []model.Rect

	// Hints are table boxes supplied by hand
	Hints []model.Rect
}

// Snapshot is an immutable, indexed page. It is safe for concurrent reads.
type Snapshot struct {
	Number int
	Width  float64
	Height float64

	chunks      []model.TextChunk
	horizontals []model.Ruling
	verticals   []model.Ruling
	singles     []model.Ruling
	structure   []model.TextBlock
	tagged      []model.Rect
	hints       []model.Rect
	textArea    model.Rect

	chunkIndex  rtree.RTreeG[int]
	hRulingTree rtree.RTreeG[int]
	vRulingTree rtree.RTreeG[int]
}

// New indexes the content and returns a snapshot. The content slices are
// copied; later changes by the caller are not observed.
func New(c Content) *Snapshot {
	s := &Snapshot{
		Number:    c.Number,
		Width:     c.Width,
		Height:    c.Height,
		chunks:    append([]model.TextChunk(nil), c.Chunks...),
		structure: append([]model.TextBlock(nil), c.StructureRows...),
		tagged:    append([]model.Rect(nil), c.TaggedRegions...),
		hints:     append([]model.Rect(nil), c.Hints...),
	}

	for i, ch := range s.chunks {
		min, max := bounds(ch.Bounds)
		s.chunkIndex.Insert(min, max, i)
		s.textArea = s.textArea.Union(ch.Bounds)
	}

	for _, r := range c.Rulings {
		if r.Length() <= 0 {
			continue
		}
		if r.IsHorizontal() {
			min, max := bounds(r.Bounds())
			s.hRulingTree.Insert(min, max, len(s.horizontals))
			s.horizontals = append(s.horizontals, r)
		} else {
			min, max := bounds(r.Bounds())
			s.vRulingTree.Insert(min, max, len(s.verticals))
			s.verticals = append(s.verticals, r)
		}
	}

	s.singles = s.findSingles()
	return s
}

func bounds(r model.Rect) (min, max [2]float64) {
	return [2]float64{r.Left, r.Top}, [2]float64{r.Right(), r.Bottom()}
}

// Chunks returns every chunk on the page
func (s *Snapshot) Chunks() []model.TextChunk {
	return s.chunks
}

// ChunksIn returns the chunks lying mostly inside r
func (s *Snapshot) ChunksIn(r model.Rect) []model.TextChunk {
	min, max := bounds(r)
	var ids []int
	s.chunkIndex.Search(min, max, func(_, _ [2]float64, id int) bool {
		b := s.chunks[id].Bounds
		if b.IsEmpty() {
			if r.Contains(b.Center()) {
				ids = append(ids, id)
			}
		} else if r.Containment(b) >= minContainment {
			ids = append(ids, id)
		}
		return true
	})

	sort.Ints(ids)
	out := make([]model.TextChunk, len(ids))
	for i, id := range ids {
		out[i] = s.chunks[id]
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Bounds.Top != out[j].Bounds.Top {
			return out[i].Bounds.Top < out[j].Bounds.Top
		}
		return out[i].Bounds.Left < out[j].Bounds.Left
	})
	return out
}

// HorizontalRulings returns all horizontal rulings
func (s *Snapshot) HorizontalRulings() []model.Ruling { return s.horizontals }

// VerticalRulings returns all vertical rulings
func (s *Snapshot) VerticalRulings() []model.Ruling { return s.verticals }

// SingleRulings returns the lone horizontal rulings
func (s *Snapshot) SingleRulings() []model.Ruling { return s.singles }

// RulingsIn returns rulings inside r expanded by tol, clipped to r
func (s *Snapshot) RulingsIn(r model.Rect, tol float64) (horizontal, vertical []model.Ruling) {
	area := r.Expand(tol)
	min, max := bounds(area)

	collect := func(tree *rtree.RTreeG[int], all []model.Ruling) []model.Ruling {
		var ids []int
		tree.Search(min, max, func(_, _ [2]float64, id int) bool {
			ids = append(ids, id)
			return true
		})
		sort.Ints(ids)
		var out []model.Ruling
		for _, id := range ids {
			ru := all[id]
			if !crossesArea(ru, area) {
				continue
			}
			if clipped, ok := ru.Clip(r); ok {
				out = append(out, clipped)
			}
		}
		return out
	}

	return collect(&s.hRulingTree, s.horizontals), collect(&s.vRulingTree, s.verticals)
}

// crossesArea reports whether a ruling's position lies inside area on the
// perpendicular axis; rulings running past the area's ends still count.
func crossesArea(r model.Ruling, area model.Rect) bool {
	if r.IsHorizontal() {
		return r.Position >= area.Top && r.Position <= area.Bottom()
	}
	return r.Position >= area.Left && r.Position <= area.Right()
}

// StructureRows returns structural rows intersecting r
func (s *Snapshot) StructureRows(r model.Rect) []model.TextBlock {
	var out []model.TextBlock
	for _, row := range s.structure {
		if r.Containment(row.Bounds) >= minContainment {
			out = append(out, row)
		}
	}
	return out
}

// TaggedRegions returns table boxes declared by structure tags
func (s *Snapshot) TaggedRegions() []model.Rect { return s.tagged }

// Hints returns the hand-supplied table boxes
func (s *Snapshot) Hints() []model.Rect { return s.hints }

// TextArea returns the union of all chunk bounds
func (s *Snapshot) TextArea() model.Rect { return s.textArea }

// findSingles keeps horizontal rulings without a parallel twin closer than
// DoubleLineGap and without a vertical ruling touching them.
func (s *Snapshot) findSingles() []model.Ruling {
	var singles []model.Ruling
	for i, h := range s.horizontals {
		if s.hasTwin(i, h) || s.touchesVertical(h) {
			continue
		}
		singles = append(singles, h)
	}
	return singles
}

func (s *Snapshot) hasTwin(i int, h model.Ruling) bool {
	area := model.RectFromEdges(h.Start, h.Position-DoubleLineGap, h.End, h.Position+DoubleLineGap)
	min, max := bounds(area)
	twin := false
	s.hRulingTree.Search(min, max, func(_, _ [2]float64, id int) bool {
		if id == i {
			return true
		}
		o := s.horizontals[id]
		if o.Position == h.Position && o.Start == h.Start && o.End == h.End {
			// an identical segment drawn twice is still one line
			return true
		}
		shorter := o.Length()
		if h.Length() < shorter {
			shorter = h.Length()
		}
		if h.Covered(o.Start, o.End) >= 0.5*shorter {
			twin = true
			return false
		}
		return true
	})
	return twin
}

func (s *Snapshot) touchesVertical(h model.Ruling) bool {
	area := model.RectFromEdges(h.Start-RulingTouch, h.Position-RulingTouch, h.End+RulingTouch, h.Position+RulingTouch)
	min, max := bounds(area)
	touches := false
	s.vRulingTree.Search(min, max, func(_, _ [2]float64, _ int) bool {
		touches = true
		return false
	})
	return touches
}
