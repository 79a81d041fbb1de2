package model

import "math"

// Point represents a 2D point
type Point struct {
	X, Y float64
}

// Distance calculates the Euclidean distance to another point
func (p Point) Distance(other Point) float64 {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Rect is an axis-aligned rectangle in top-down page coordinates:
// Top grows downwards, so Bottom() >= Top for any valid rectangle.
type Rect struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// NewRect creates a rectangle from its top-left corner and size
func NewRect(left, top, width, height float64) Rect {
	return Rect{Left: left, Top: top, Width: width, Height: height}
}

// RectFromEdges creates a rectangle from its four edges
func RectFromEdges(left, top, right, bottom float64) Rect {
	return Rect{
		Left:   math.Min(left, right),
		Top:    math.Min(top, bottom),
		Width:  math.Abs(right - left),
		Height: math.Abs(bottom - top),
	}
}

// Right returns the right edge X coordinate
func (r Rect) Right() float64 {
	return r.Left + r.Width
}

// Bottom returns the bottom edge Y coordinate
func (r Rect) Bottom() float64 {
	return r.Top + r.Height
}

// Center returns the center point
func (r Rect) Center() Point {
	return Point{
		X: r.Left + r.Width/2,
		Y: r.Top + r.Height/2,
	}
}

// CenterX returns the horizontal center
func (r Rect) CenterX() float64 { return r.Left + r.Width/2 }

// CenterY returns the vertical center
func (r Rect) CenterY() float64 { return r.Top + r.Height/2 }

// Contains checks if a point is inside the rectangle (edges included)
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X <= r.Right() &&
		p.Y >= r.Top && p.Y <= r.Bottom()
}

// ContainsRect reports whether other lies inside r, allowing tol units of slack.
func (r Rect) ContainsRect(other Rect, tol float64) bool {
	return other.Left >= r.Left-tol && other.Right() <= r.Right()+tol &&
		other.Top >= r.Top-tol && other.Bottom() <= r.Bottom()+tol
}

// Intersects checks if two rectangles overlap with a positive area
func (r Rect) Intersects(other Rect) bool {
	return r.HorizontalOverlap(other) > 0 && r.VerticalOverlap(other) > 0
}

// Intersection returns the intersection of two rectangles
func (r Rect) Intersection(other Rect) Rect {
	if !r.Intersects(other) {
		return Rect{}
	}
	return RectFromEdges(
		math.Max(r.Left, other.Left),
		math.Max(r.Top, other.Top),
		math.Min(r.Right(), other.Right()),
		math.Min(r.Bottom(), other.Bottom()),
	)
}

// Union returns the smallest rectangle covering both. The zero Rect acts
// as the identity so unions can be accumulated from an empty value.
func (r Rect) Union(other Rect) Rect {
	if r == (Rect{}) {
		return other
	}
	if other == (Rect{}) {
		return r
	}
	return RectFromEdges(
		math.Min(r.Left, other.Left),
		math.Min(r.Top, other.Top),
		math.Max(r.Right(), other.Right()),
		math.Max(r.Bottom(), other.Bottom()),
	)
}

// Area returns the area of the rectangle
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Expand expands the rectangle by a margin on all sides
func (r Rect) Expand(margin float64) Rect {
	return Rect{
		Left:   r.Left - margin,
		Top:    r.Top - margin,
		Width:  r.Width + 2*margin,
		Height: r.Height + 2*margin,
	}
}

// Shrink moves every edge inwards by dx horizontally and dy vertically.
// The result never has a negative size.
func (r Rect) Shrink(dx, dy float64) Rect {
	dx = math.Min(dx, r.Width/2)
	dy = math.Min(dy, r.Height/2)
	return Rect{
		Left:   r.Left + dx,
		Top:    r.Top + dy,
		Width:  r.Width - 2*dx,
		Height: r.Height - 2*dy,
	}
}

// HorizontalOverlap returns the length of the shared X range (0 if disjoint)
func (r Rect) HorizontalOverlap(other Rect) float64 {
	return Overlap(r.Left, r.Right(), other.Left, other.Right())
}

// VerticalOverlap returns the length of the shared Y range (0 if disjoint)
func (r Rect) VerticalOverlap(other Rect) float64 {
	return Overlap(r.Top, r.Bottom(), other.Top, other.Bottom())
}

// OverlapRatio calculates the intersection area relative to the smaller
// of the two rectangles. Returns value between 0 and 1
func (r Rect) OverlapRatio(other Rect) float64 {
	if !r.Intersects(other) {
		return 0
	}

	minArea := math.Min(r.Area(), other.Area())
	if minArea == 0 {
		return 0
	}

	return r.Intersection(other).Area() / minArea
}

// Containment returns the fraction of other's area that lies inside r.
func (r Rect) Containment(other Rect) float64 {
	if other.Area() == 0 {
		return 0
	}
	return r.Intersection(other).Area() / other.Area()
}

// IsEmpty returns true if the rectangle has zero area
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// SetTop moves the top edge while keeping the bottom edge fixed
func (r *Rect) SetTop(top float64) {
	bottom := r.Bottom()
	r.Top = top
	r.Height = math.Max(0, bottom-top)
}

// SetBottom moves the bottom edge while keeping the top edge fixed
func (r *Rect) SetBottom(bottom float64) {
	r.Height = math.Max(0, bottom-r.Top)
}

// SetLeft moves the left edge while keeping the right edge fixed
func (r *Rect) SetLeft(left float64) {
	right := r.Right()
	r.Left = left
	r.Width = math.Max(0, right-left)
}

// SetRight moves the right edge while keeping the left edge fixed
func (r *Rect) SetRight(right float64) {
	r.Width = math.Max(0, right-r.Left)
}

// Overlap returns the length shared by the intervals [a0,a1] and [b0,b1].
func Overlap(a0, a1, b0, b1 float64) float64 {
	return math.Max(0, math.Min(a1, b1)-math.Max(a0, b0))
}
