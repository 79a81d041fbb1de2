package correction

import (
	"math"
	"sort"

	"github.com/tsawler/tabgrid/model"
	"github.com/tsawler/tabgrid/page"
	"github.com/tsawler/tabgrid/text"
)

type edge int

const (
	topEdge edge = iota
	bottomEdge
)

func (e edge) String() string {
	if e == topEdge {
		return "top"
	}
	return "bottom"
}

// Correct returns rect with its top and bottom moved onto the table's real
// first and last rows. fences are the other regions of the page; growth
// stops before entering one. It returns nil when no table rows remain.
//
// Rows holding the table's modal number of chunks are never removed, so
// complete table rows inside rect stay inside the result.
func (c *Corrector) Correct(rect model.Rect, src page.Source, fences []model.Rect) *model.Rect {
	rows := c.rowsIn(src, rect)
	if len(rows) == 0 {
		return nil
	}

	prof := newProfile(rows)
	out := rect

	var dropped int
	if rows, dropped = c.shrink(rows, prof, rect, topEdge); dropped > 0 && len(rows) > 0 {
		out.SetTop(rows[0].Bounds.Top)
	}
	if rows, dropped = c.shrink(rows, prof, rect, bottomEdge); dropped > 0 && len(rows) > 0 {
		out.SetBottom(rows[len(rows)-1].Bounds.Bottom())
	}
	if len(rows) == 0 {
		c.logger.Debug("region holds no table rows", "rect", rect)
		return nil
	}

	above := c.grow(rows, out, src, fences, topEdge)
	for _, r := range above {
		out = out.Union(r.Bounds)
		rows = append([]model.TextBlock{r}, rows...)
	}
	for _, r := range c.grow(rows, out, src, fences, bottomEdge) {
		out = out.Union(r.Bounds)
	}

	c.logger.Debug("region corrected", "from", rect, "to", out)
	return &out
}

func (c *Corrector) rowsIn(src page.Source, r model.Rect) []model.TextBlock {
	return c.rows.Preprocess(c.rows.Detect(src.ChunksIn(r)))
}

// shrink walks rows inward from an edge and removes prose and block-break
// rows until the first kept row. Reaching MaxDrops consecutive drops
// abandons the shrink. It returns the remaining rows and the number
// removed.
func (c *Corrector) shrink(rows []model.TextBlock, prof profile, rect model.Rect, e edge) ([]model.TextBlock, int) {
	n := len(rows)
	at := func(k int) int {
		if e == topEdge {
			return k
		}
		return n - 1 - k
	}

	drops := 0
	for drops < n {
		row := rows[at(drops)]
		var inner *model.TextBlock
		if drops+1 < n {
			inner = &rows[at(drops+1)]
		}
		if !c.droppable(row, inner, prof, rect.Width) {
			break
		}
		drops++
		if drops >= c.config.MaxDrops {
			c.logger.Debug("shrink abandoned", "edge", e, "drops", drops)
			return rows, 0
		}
	}

	if e == topEdge {
		return rows[drops:], drops
	}
	return rows[:n-drops], drops
}

func (c *Corrector) droppable(row model.TextBlock, inner *model.TextBlock, prof profile, width float64) bool {
	if prof.full(row) {
		return false
	}
	if c.isProse(row, prof, width) {
		return true
	}
	return inner != nil && c.blockBreak(row, *inner, width)
}

// isProse reports whether a row that is not a full table row reads as
// running text.
func (c *Corrector) isProse(row model.TextBlock, prof profile, width float64) bool {
	if prof.full(row) {
		return false
	}
	s := row.Text()
	if text.IsProse(s, c.config.MinWords) || text.IsSerialHeading(s, c.config.HeadingRunes) {
		return true
	}
	return row.ValidCount() == 1 && prof.modal >= 2 && row.Bounds.Width >= c.config.FullWidth*width
}

// blockBreak reports whether a short row set apart from its neighbour with
// a different chunk count starts another text block.
func (c *Corrector) blockBreak(row, inner model.TextBlock, width float64) bool {
	gap := math.Max(inner.Bounds.Top-row.Bounds.Bottom(), row.Bounds.Top-inner.Bounds.Bottom())
	return row.Bounds.Width < c.config.BlockWidth*width &&
		gap > c.config.BlockGap*row.Bounds.Height &&
		row.ValidCount() != inner.ValidCount()
}

// grow absorbs rows beyond an edge while they look like table rows and
// returns them nearest first. A fresh window is opened after each window
// that was fully absorbed, unless a lone ruling closed the last one.
func (c *Corrector) grow(rows []model.TextBlock, bounds model.Rect, src page.Source, fences []model.Rect, e edge) []model.TextBlock {
	table := append([]model.TextBlock(nil), rows...)
	start := edgeRow(table, e)

	var absorbed []model.TextBlock
	for {
		prof := newProfile(table)
		window, ruled := c.window(src, table, prof, bounds, e)
		if len(window) == 0 {
			break
		}

		last := edgeRow(table, e)
		stopped := false
		for _, row := range window {
			if reason := c.stopReason(row, prof, bounds, fences); reason != "" {
				c.logger.Debug("growth stopped", "edge", e, "reason", reason, "row", row.Text())
				stopped = true
				break
			}
			if !c.fits(row, last, prof, e) {
				stopped = true
				break
			}
			absorbed = append(absorbed, row)
			if e == topEdge {
				table = append([]model.TextBlock{row}, table...)
			} else {
				table = append(table, row)
			}
			last = row
		}
		if stopped {
			break
		}
		if ruled {
			c.logger.Debug("growth stopped", "edge", e, "reason", "ruling")
			break
		}
	}

	return c.invalidate(absorbed, start)
}

func edgeRow(rows []model.TextBlock, e edge) model.TextBlock {
	if e == topEdge {
		return rows[0]
	}
	return rows[len(rows)-1]
}

// window returns the rows beyond an edge, nearest first. The window reaches
// the smaller of ProbeShare of the table height and ProbeRows edge-row
// heights. A lone ruling between RulingMin and RulingMax row heights away
// replaces that depth; ruled is then true and only rows wholly on the
// table's side of the ruling are returned.
func (c *Corrector) window(src page.Source, table []model.TextBlock, prof profile, bounds model.Rect, e edge) (rows []model.TextBlock, ruled bool) {
	er := edgeRow(table, e)
	depth := math.Min(c.config.ProbeShare*prof.bounds.Height, c.config.ProbeRows*er.Bounds.Height)
	if d, ok := c.loneRuling(src, bounds, prof, e); ok {
		depth, ruled = d, true
	}
	if depth <= 0 {
		return nil, false
	}

	area := src.TextArea().Union(bounds)
	reach := er.Bounds.Height
	if ruled {
		reach = 0
	}

	var query model.Rect
	var near, far float64
	if e == topEdge {
		near = prof.bounds.Top
		far = near - depth
		query = model.RectFromEdges(area.Left, far-reach, area.Right(), near)
	} else {
		near = prof.bounds.Bottom()
		far = near + depth
		query = model.RectFromEdges(area.Left, near, area.Right(), far+reach)
	}

	var out []model.TextBlock
	for _, r := range c.rowsIn(src, query) {
		b := r.Bounds
		if ruled && (e == topEdge && b.Top < far || e == bottomEdge && b.Bottom() > far) {
			continue
		}
		if e == topEdge && b.Bottom() <= near && b.Top < near && b.Bottom() >= far {
			out = append(out, r)
		}
		if e == bottomEdge && b.Top >= near && b.Bottom() > near && b.Top <= far {
			out = append(out, r)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if e == topEdge {
			return out[i].Bounds.Bottom() > out[j].Bounds.Bottom()
		}
		return out[i].Bounds.Top < out[j].Bounds.Top
	})
	return out, ruled
}

// loneRuling returns the distance to the nearest single ruling beyond the
// edge that lies within the accepted range
func (c *Corrector) loneRuling(src page.Source, bounds model.Rect, prof profile, e edge) (float64, bool) {
	lo, hi := c.config.RulingMin*prof.rowHeight, c.config.RulingMax*prof.rowHeight
	best, found := math.Inf(1), false
	for _, r := range src.SingleRulings() {
		if r.Covered(bounds.Left, bounds.Right()) <= 0 {
			continue
		}
		d := r.Position - prof.bounds.Bottom()
		if e == topEdge {
			d = prof.bounds.Top - r.Position
		}
		if d >= lo && d <= hi && d < best {
			best, found = d, true
		}
	}
	return best, found
}

// stopReason names the condition that ends growth at row, or "" when none
// applies
func (c *Corrector) stopReason(row model.TextBlock, prof profile, bounds model.Rect, fences []model.Rect) string {
	for _, f := range fences {
		if f.Intersects(row.Bounds) {
			return "fence"
		}
	}
	if c.isProse(row, prof, bounds.Width) {
		return "prose"
	}
	if row.Bounds.Height > c.config.DoubleHeight*prof.rowHeight {
		return "double height"
	}
	slack := c.config.EscapeChars * prof.charWidth
	if row.Bounds.Left < bounds.Left-slack || row.Bounds.Right() > bounds.Right()+slack {
		return "escapes table"
	}
	return ""
}

// fits reports whether a window row resembles the table and follows its
// row rhythm
func (c *Corrector) fits(row, last model.TextBlock, prof profile, e edge) bool {
	n := row.ValidCount()
	align := prof.alignment(row)
	aligned := n >= 2 && align >= c.config.AlignShare

	similar := abs(n-prof.modal) <= 1 || aligned || prof.offsetStart(row)
	if !similar {
		return false
	}

	gap := row.Bounds.Top - last.Bounds.Bottom()
	if e == topEdge {
		gap = last.Bounds.Top - row.Bounds.Bottom()
	}

	if prof.tight(c.config) {
		if gap >= c.config.TightGap*prof.rowHeight {
			return false
		}
		if gap > c.config.StrictGap*prof.rowHeight && !(n >= 2 && align == 1) {
			return false
		}
		return true
	}
	return gap < c.config.LooseGap*prof.gap
}

// invalidate drops a lone single-chunk absorbed row, and everything beyond
// it, when its inner neighbour is a wide non-numeric row
func (c *Corrector) invalidate(absorbed []model.TextBlock, inner model.TextBlock) []model.TextBlock {
	for i, row := range absorbed {
		if row.ValidCount() == 1 && inner.ValidCount() > c.config.WideRow && !mostlyNumeric(inner) {
			c.logger.Debug("absorbed row invalidated", "row", row.Text())
			return absorbed[:i]
		}
		inner = row
	}
	return absorbed
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
