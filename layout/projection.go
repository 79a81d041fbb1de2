package layout

import (
	"sort"

	"github.com/tsawler/tabgrid/model"
)

// Band is a horizontal range covered by text when chunks are projected onto
// the X axis.
type Band struct {
	Left  float64
	Right float64
}

// Width returns the width of the band
func (b Band) Width() float64 {
	return b.Right - b.Left
}

// Center returns the X center of the band
func (b Band) Center() float64 {
	return (b.Left + b.Right) / 2
}

// Overlap returns the shared length of two bands
func (b Band) Overlap(o Band) float64 {
	return model.Overlap(b.Left, b.Right, o.Left, o.Right)
}

// Contains reports whether x lies inside the band
func (b Band) Contains(x float64) bool {
	return x >= b.Left && x <= b.Right
}

// ChunkBand returns the X extent of a chunk
func ChunkBand(c model.TextChunk) Band {
	return Band{Left: c.Bounds.Left, Right: c.Bounds.Right()}
}

// ProjectBands projects chunks onto the X axis and merges ranges closer than
// gap. The result is sorted left to right with no overlaps.
func ProjectBands(chunks []model.TextChunk, gap float64) []Band {
	if len(chunks) == 0 {
		return nil
	}

	slabs := make([]Band, 0, len(chunks))
	for _, c := range chunks {
		slabs = append(slabs, ChunkBand(c))
	}
	sort.Slice(slabs, func(i, j int) bool {
		return slabs[i].Left < slabs[j].Left
	})
	return mergeBands(slabs, gap)
}

// mergeBands merges overlapping or nearly adjacent bands; input must be
// sorted by left edge.
func mergeBands(bands []Band, gap float64) []Band {
	merged := []Band{bands[0]}
	for _, cur := range bands[1:] {
		last := &merged[len(merged)-1]
		if cur.Left <= last.Right+gap {
			if cur.Right > last.Right {
				last.Right = cur.Right
			}
			continue
		}
		merged = append(merged, cur)
	}
	return merged
}

// ChunksInBand returns the chunks of row whose centers fall inside b
func ChunksInBand(row model.TextBlock, b Band) []model.TextChunk {
	var out []model.TextChunk
	for _, c := range row.Chunks {
		if b.Contains(c.Bounds.CenterX()) {
			out = append(out, c)
		}
	}
	return out
}
