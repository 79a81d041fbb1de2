package reconcile

import (
	"github.com/tsawler/tabgrid/model"
	"github.com/tsawler/tabgrid/page"
)

// extent is a closed interval on one axis
type extent struct {
	lo, hi float64
}

func (e extent) contains(v, tol float64) bool {
	return v >= e.lo-tol && v <= e.hi+tol
}

func (e extent) overlaps(lo, hi float64) bool {
	return model.Overlap(e.lo, e.hi, lo, hi) > 0
}

// frame returns the row and column extents of a table, taken from its
// single-span cells with known bounds
func frame(t *model.Table) (rows, cols []extent) {
	rows = make([]extent, t.RowCount())
	cols = make([]extent, t.ColCount())
	seenRow := make([]bool, t.RowCount())
	seenCol := make([]bool, t.ColCount())

	for _, c := range t.Cells() {
		b := c.Bounds
		if b.IsEmpty() {
			continue
		}
		if c.RowSpan == 1 {
			rows[c.Row] = grow(rows[c.Row], seenRow[c.Row], b.Top, b.Bottom())
			seenRow[c.Row] = true
		}
		if c.ColSpan == 1 {
			cols[c.Col] = grow(cols[c.Col], seenCol[c.Col], b.Left, b.Right())
			seenCol[c.Col] = true
		}
	}
	return keep(rows, seenRow), keep(cols, seenCol)
}

func grow(e extent, seen bool, lo, hi float64) extent {
	if !seen {
		return extent{lo, hi}
	}
	if lo < e.lo {
		e.lo = lo
	}
	if hi > e.hi {
		e.hi = hi
	}
	return e
}

func keep(es []extent, seen []bool) []extent {
	out := es[:0]
	for i, e := range es {
		if seen[i] {
			out = append(out, e)
		}
	}
	return out
}

// marginsConsistent probes the parts of proposal lying above, below, left
// and right of the table. Text above or below must fall into the table's
// columns; text beside it must sit on the table's rows. Empty margins are
// consistent.
func (r *Reconciler) marginsConsistent(t *model.Table, proposal model.Rect, src page.Source) bool {
	rows, cols := frame(t)
	tb := t.Bounds
	tol := r.config.Tolerance

	top := maxF(proposal.Top, tb.Top)
	bottom := minF(proposal.Bottom(), tb.Bottom())

	type margin struct {
		rect     model.Rect
		vertical bool
	}
	var margins []margin
	if proposal.Top < tb.Top {
		margins = append(margins, margin{model.RectFromEdges(proposal.Left, proposal.Top, proposal.Right(), tb.Top), true})
	}
	if proposal.Bottom() > tb.Bottom() {
		margins = append(margins, margin{model.RectFromEdges(proposal.Left, tb.Bottom(), proposal.Right(), proposal.Bottom()), true})
	}
	if proposal.Left < tb.Left && bottom > top {
		margins = append(margins, margin{model.RectFromEdges(proposal.Left, top, tb.Left, bottom), false})
	}
	if proposal.Right() > tb.Right() && bottom > top {
		margins = append(margins, margin{model.RectFromEdges(tb.Right(), top, proposal.Right(), bottom), false})
	}

	for _, m := range margins {
		chunks := src.ChunksIn(m.rect)
		n, fit := 0, 0
		for _, c := range chunks {
			if c.IsBlank() {
				continue
			}
			n++
			if m.vertical && hitsAny(cols, c.Bounds.Left, c.Bounds.Right()) {
				fit++
			}
			if !m.vertical && containsAny(rows, c.Bounds.CenterY(), tol) {
				fit++
			}
		}
		if n > 0 && float64(fit) < r.config.AlignShare*float64(n) {
			r.logger.Debug("margin inconsistent with table", "margin", m.rect, "chunks", n, "aligned", fit)
			return false
		}
	}
	return true
}

func hitsAny(es []extent, lo, hi float64) bool {
	for _, e := range es {
		if e.overlaps(lo, hi) {
			return true
		}
	}
	return false
}

func containsAny(es []extent, v, tol float64) bool {
	for _, e := range es {
		if e.contains(v, tol) {
			return true
		}
	}
	return false
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func maxF(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
