package model

import "math"

// Orientation is the axis a ruling runs along
type Orientation int

const (
	Horizontal Orientation = iota
	Vertical
)

// String returns "horizontal" or "vertical"
func (o Orientation) String() string {
	if o == Vertical {
		return "vertical"
	}
	return "horizontal"
}

// Ruling is a straight line segment drawn on the page. Position is the
// shared coordinate (Y for horizontal rulings, X for vertical ones) and
// Start/End is the extent along the other axis, Start <= End.
type Ruling struct {
	Orientation Orientation
	Position    float64
	Start       float64
	End         float64
}

// NewHorizontal creates a horizontal ruling at y spanning x1..x2
func NewHorizontal(y, x1, x2 float64) Ruling {
	return Ruling{Orientation: Horizontal, Position: y, Start: math.Min(x1, x2), End: math.Max(x1, x2)}
}

// NewVertical creates a vertical ruling at x spanning y1..y2
func NewVertical(x, y1, y2 float64) Ruling {
	return Ruling{Orientation: Vertical, Position: x, Start: math.Min(y1, y2), End: math.Max(y1, y2)}
}

// Length returns the extent of the ruling
func (r Ruling) Length() float64 {
	return r.End - r.Start
}

// IsHorizontal reports whether the ruling runs along the X axis
func (r Ruling) IsHorizontal() bool { return r.Orientation == Horizontal }

// IsVertical reports whether the ruling runs along the Y axis
func (r Ruling) IsVertical() bool { return r.Orientation == Vertical }

// Covered returns how much of the interval [from,to] the ruling covers.
func (r Ruling) Covered(from, to float64) float64 {
	return Overlap(r.Start, r.End, from, to)
}

// Bounds returns the ruling as a zero-thickness rectangle
func (r Ruling) Bounds() Rect {
	if r.IsHorizontal() {
		return Rect{Left: r.Start, Top: r.Position, Width: r.Length()}
	}
	return Rect{Left: r.Position, Top: r.Start, Height: r.Length()}
}

// Crosses reports whether the ruling passes through the interior of rect,
// at least margin units away from the parallel edges, and overlaps the
// perpendicular extent.
func (r Ruling) Crosses(rect Rect, margin float64) bool {
	if r.IsHorizontal() {
		return r.Position > rect.Top+margin && r.Position < rect.Bottom()-margin &&
			r.Covered(rect.Left, rect.Right()) > 0
	}
	return r.Position > rect.Left+margin && r.Position < rect.Right()-margin &&
		r.Covered(rect.Top, rect.Bottom()) > 0
}

// Within reports whether the ruling lies inside rect with tol units of slack.
func (r Ruling) Within(rect Rect, tol float64) bool {
	b := r.Bounds()
	return rect.ContainsRect(b, tol)
}

// Clip returns the ruling restricted to rect's extent along its own axis.
// ok is false when nothing remains.
func (r Ruling) Clip(rect Rect) (Ruling, bool) {
	lo, hi := rect.Left, rect.Right()
	if r.IsVertical() {
		lo, hi = rect.Top, rect.Bottom()
	}
	start := math.Max(r.Start, lo)
	end := math.Min(r.End, hi)
	if end <= start {
		return r, false
	}
	r.Start, r.End = start, end
	return r, true
}
