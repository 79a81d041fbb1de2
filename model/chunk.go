package model

import (
	"sort"
	"strings"
)

// TextDirection is the writing direction of a chunk on the page
type TextDirection int

const (
	DirectionHorizontal TextDirection = iota
	DirectionVertical
	DirectionRotated
)

func (d TextDirection) String() string {
	switch d {
	case DirectionVertical:
		return "vertical"
	case DirectionRotated:
		return "rotated"
	default:
		return "horizontal"
	}
}

// TextChunk is a contiguous run of glyphs treated as one unit
type TextChunk struct {
	Text string

	// Bounds is the layout box; VisibleBounds is the inked area and may be
	// zero when the producer does not compute it.
	Bounds        Rect
	VisibleBounds Rect

	AvgCharWidth  float64
	AvgCharHeight float64

	// Tag is the structural tag identifier, empty for untagged content
	Tag string

	Direction TextDirection
}

// Box returns the visible bounds when known, the layout bounds otherwise.
func (c TextChunk) Box() Rect {
	if !c.VisibleBounds.IsEmpty() {
		return c.VisibleBounds
	}
	return c.Bounds
}

// CharHeight returns the average glyph height, falling back to the bounds
func (c TextChunk) CharHeight() float64 {
	if c.AvgCharHeight > 0 {
		return c.AvgCharHeight
	}
	return c.Bounds.Height
}

// CharWidth returns the average glyph advance, falling back to the bounds
// divided by the rune count.
func (c TextChunk) CharWidth() float64 {
	if c.AvgCharWidth > 0 {
		return c.AvgCharWidth
	}
	n := len([]rune(c.Text))
	if n == 0 {
		return c.Bounds.Width
	}
	return c.Bounds.Width / float64(n)
}

// IsBlank reports whether the chunk carries no visible text
func (c TextChunk) IsBlank() bool {
	return strings.TrimSpace(c.Text) == ""
}

// Merge returns a chunk covering c and other. Text is joined in reading
// order with a single space.
func (c TextChunk) Merge(other TextChunk) TextChunk {
	first, second := c, other
	if other.Bounds.Left < c.Bounds.Left {
		first, second = other, c
	}
	merged := first
	merged.Text = strings.TrimSpace(first.Text + " " + second.Text)
	merged.Bounds = c.Bounds.Union(other.Bounds)
	if !c.VisibleBounds.IsEmpty() || !other.VisibleBounds.IsEmpty() {
		merged.VisibleBounds = c.Box().Union(other.Box())
	}
	merged.AvgCharWidth = (c.CharWidth() + other.CharWidth()) / 2
	merged.AvgCharHeight = (c.CharHeight() + other.CharHeight()) / 2
	return merged
}

// TextBlock is a visual row: chunks judged co-linear, ordered left to right
type TextBlock struct {
	Chunks []TextChunk
	Bounds Rect
}

// NewTextBlock builds a block from chunks, sorting them left to right
func NewTextBlock(chunks ...TextChunk) TextBlock {
	var b TextBlock
	for _, c := range chunks {
		b.Add(c)
	}
	return b
}

// Add inserts a chunk keeping left-to-right order and grows the bounds
func (b *TextBlock) Add(c TextChunk) {
	i := sort.Search(len(b.Chunks), func(i int) bool {
		return b.Chunks[i].Bounds.Left > c.Bounds.Left
	})
	b.Chunks = append(b.Chunks, TextChunk{})
	copy(b.Chunks[i+1:], b.Chunks[i:])
	b.Chunks[i] = c
	b.Bounds = b.Bounds.Union(c.Bounds)
}

// Len returns the number of chunks
func (b TextBlock) Len() int { return len(b.Chunks) }

// ValidCount returns the number of non-blank chunks
func (b TextBlock) ValidCount() int {
	n := 0
	for _, c := range b.Chunks {
		if !c.IsBlank() {
			n++
		}
	}
	return n
}

// Text joins the chunk texts with single spaces
func (b TextBlock) Text() string {
	parts := make([]string, 0, len(b.Chunks))
	for _, c := range b.Chunks {
		if t := strings.TrimSpace(c.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// MinCharHeight returns the smallest glyph height among the chunks
func (b TextBlock) MinCharHeight() float64 {
	h := 0.0
	for i, c := range b.Chunks {
		if ch := c.CharHeight(); i == 0 || ch < h {
			h = ch
		}
	}
	return h
}

// AvgCharHeight returns the mean glyph height among the chunks
func (b TextBlock) AvgCharHeight() float64 {
	if len(b.Chunks) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range b.Chunks {
		sum += c.CharHeight()
	}
	return sum / float64(len(b.Chunks))
}

// AvgCharWidth returns the mean glyph advance among the chunks
func (b TextBlock) AvgCharWidth() float64 {
	if len(b.Chunks) == 0 {
		return 0
	}
	sum := 0.0
	for _, c := range b.Chunks {
		sum += c.CharWidth()
	}
	return sum / float64(len(b.Chunks))
}

// ChunksBounds returns the union of the chunks' bounds
func ChunksBounds(chunks []TextChunk) Rect {
	var r Rect
	for _, c := range chunks {
		r = r.Union(c.Bounds)
	}
	return r
}

// JoinText renders chunks in reading order: chunks sharing a line are
// separated by a space, successive lines by a newline.
func JoinText(chunks []TextChunk) string {
	if len(chunks) == 0 {
		return ""
	}
	sorted := make([]TextChunk, len(chunks))
	copy(sorted, chunks)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Bounds, sorted[j].Bounds
		if a.VerticalOverlap(b) > 0.5*minFloat(a.Height, b.Height) {
			return a.Left < b.Left
		}
		return a.Top < b.Top
	})

	var sb strings.Builder
	prev := sorted[0].Bounds
	sb.WriteString(strings.TrimSpace(sorted[0].Text))
	for _, c := range sorted[1:] {
		t := strings.TrimSpace(c.Text)
		if t == "" {
			continue
		}
		if c.Bounds.VerticalOverlap(prev) > 0.5*minFloat(c.Bounds.Height, prev.Height) {
			sb.WriteString(" ")
		} else {
			sb.WriteString("\n")
		}
		sb.WriteString(t)
		prev = c.Bounds
	}
	return strings.TrimSpace(sb.String())
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
