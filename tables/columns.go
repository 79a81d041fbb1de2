package tables

import (
	"math"
	"sort"

	"github.com/tsawler/tabgrid/layout"
	"github.com/tsawler/tabgrid/model"
)

// colSplit is the result of one level of recursive column splitting.
// Discarded bands kept splitting until the depth limit and are filled from
// the max-count estimate instead.
type colSplit struct {
	cols      []layout.Band
	discarded []layout.Band
}

// inferColumns returns the column bands of rows, sorted left to right and
// pairwise non-overlapping.
func (b *Builder) inferColumns(rows []model.TextBlock) []layout.Band {
	var chunks []model.TextChunk
	for _, r := range rows {
		chunks = append(chunks, r.Chunks...)
	}
	if len(chunks) == 0 {
		return nil
	}

	whole := layout.ProjectBands(chunks, math.Inf(1))[0]
	gap := b.config.BandGap * avgCharWidth(chunks)

	rec := splitColumns(whole, rows, gap, 0, b.config.MaxDepth)
	if len(rec.discarded) > 0 {
		b.logger.Debug("column split discarded", "bands", len(rec.discarded))
	}
	estimate := resolveOverlaps(maxCountColumns(rows))

	cols := mergeEstimates(rec, estimate, b.config.SnapOverlap)
	cols = b.tighten(cols, chunks)
	return resolveOverlaps(cols)
}

// splitColumns recursively projects the chunks of band, using only rows
// that still hold at least two chunks inside it. It stops when no such row
// exists or the projection yields a single band. A band still splitting at
// maxDepth is reported as discarded.
func splitColumns(band layout.Band, rows []model.TextBlock, gap float64, depth, maxDepth int) colSplit {
	var sub []model.TextChunk
	for _, row := range rows {
		in := validChunks(layout.ChunksInBand(row, band))
		if len(in) >= 2 {
			sub = append(sub, in...)
		}
	}
	if len(sub) == 0 {
		return colSplit{cols: []layout.Band{band}}
	}

	bands := layout.ProjectBands(sub, gap)
	if len(bands) <= 1 {
		return colSplit{cols: []layout.Band{band}}
	}
	if depth >= maxDepth {
		return colSplit{discarded: []layout.Band{band}}
	}

	var out colSplit
	for _, bb := range bands {
		r := splitColumns(bb, rows, gap, depth+1, maxDepth)
		out.cols = append(out.cols, r.cols...)
		out.discarded = append(out.discarded, r.discarded...)
	}
	return out
}

// maxCountColumns estimates columns from the rows holding the maximum
// number of chunks: the i-th column is the union of every such row's i-th
// chunk.
func maxCountColumns(rows []model.TextBlock) []layout.Band {
	maxN := layout.MaxCount(rows)
	if maxN == 0 {
		return nil
	}
	cols := make([]layout.Band, maxN)
	seen := make([]bool, maxN)
	for _, row := range rows {
		if row.ValidCount() != maxN {
			continue
		}
		for i, c := range validChunks(row.Chunks) {
			cb := layout.ChunkBand(c)
			if !seen[i] {
				cols[i], seen[i] = cb, true
				continue
			}
			cols[i].Left = math.Min(cols[i].Left, cb.Left)
			cols[i].Right = math.Max(cols[i].Right, cb.Right)
		}
	}
	return cols
}

// mergeEstimates prefers the recursive columns, snapping each to a
// max-count column overlapping it by more than snap of the narrower one.
// Discarded bands take the max-count columns centered inside them.
func mergeEstimates(rec colSplit, estimate []layout.Band, snap float64) []layout.Band {
	var out []layout.Band
	for _, c := range rec.cols {
		best, bestOv := -1, 0.0
		for i, m := range estimate {
			ov := c.Overlap(m)
			if ov > snap*math.Min(c.Width(), m.Width()) && ov > bestOv {
				best, bestOv = i, ov
			}
		}
		if best >= 0 {
			out = append(out, estimate[best])
		} else {
			out = append(out, c)
		}
	}
	for _, d := range rec.discarded {
		for _, m := range estimate {
			if d.Contains(m.Center()) {
				out = append(out, m)
			}
		}
	}
	if len(out) == 0 {
		out = append(out, estimate...)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Left != out[j].Left {
			return out[i].Left < out[j].Left
		}
		return out[i].Right < out[j].Right
	})
	dedup := out[:0]
	for i, c := range out {
		if i > 0 && c == dedup[len(dedup)-1] {
			continue
		}
		dedup = append(dedup, c)
	}
	return dedup
}

// tighten fits every column to the chunks that fall in it alone, trimming
// one outlier that would widen it on its own. Columns left without chunks
// are dropped.
func (b *Builder) tighten(cols []layout.Band, chunks []model.TextChunk) []layout.Band {
	assigned := make([][]layout.Band, len(cols))
	for _, c := range validChunks(chunks) {
		cb := layout.ChunkBand(c)
		hit, hits := -1, 0
		for i, col := range cols {
			if cb.Overlap(col) > 0 {
				hit = i
				hits++
			}
		}
		switch {
		case hits == 1:
			assigned[hit] = append(assigned[hit], cb)
		case hits == 0:
			if i := nearestColumn(cols, cb.Center()); i >= 0 {
				assigned[i] = append(assigned[i], cb)
			}
		}
	}

	var out []layout.Band
	for _, members := range assigned {
		if len(members) == 0 {
			continue
		}
		out = append(out, b.fit(members))
	}
	return out
}

// fit returns the union of members, minus a single outlier when at least
// three members exist and one alone widens the union by more than
// OutlierWiden of the width of the rest.
func (b *Builder) fit(members []layout.Band) layout.Band {
	full := union(members)
	if len(members) < 3 {
		return full
	}

	best := full
	bestWiden := 0.0
	for k := range members {
		rest := make([]layout.Band, 0, len(members)-1)
		rest = append(rest, members[:k]...)
		rest = append(rest, members[k+1:]...)
		without := union(rest)
		if widen := full.Width() - without.Width(); widen > bestWiden {
			best, bestWiden = without, widen
		}
	}
	if bestWiden > b.config.OutlierWiden*best.Width() {
		return best
	}
	return full
}

func union(bands []layout.Band) layout.Band {
	u := bands[0]
	for _, x := range bands[1:] {
		u.Left = math.Min(u.Left, x.Left)
		u.Right = math.Max(u.Right, x.Right)
	}
	return u
}

// resolveOverlaps sorts columns and splits any overlap between neighbours
// at its midpoint. A column nested inside its predecessor is absorbed.
func resolveOverlaps(cols []layout.Band) []layout.Band {
	sorted := make([]layout.Band, len(cols))
	copy(sorted, cols)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Left < sorted[j].Left })

	var out []layout.Band
	for _, c := range sorted {
		if n := len(out); n > 0 {
			last := &out[n-1]
			if c.Right <= last.Right {
				continue
			}
			if c.Left < last.Right {
				mid := (c.Left + last.Right) / 2
				last.Right = mid
				c.Left = mid
			}
		}
		out = append(out, c)
	}
	return out
}

func nearestColumn(cols []layout.Band, x float64) int {
	best, bestDist := -1, math.Inf(1)
	for i, c := range cols {
		d := 0.0
		switch {
		case x < c.Left:
			d = c.Left - x
		case x > c.Right:
			d = x - c.Right
		}
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func validChunks(chunks []model.TextChunk) []model.TextChunk {
	out := make([]model.TextChunk, 0, len(chunks))
	for _, c := range chunks {
		if !c.IsBlank() {
			out = append(out, c)
		}
	}
	return out
}

func avgCharWidth(chunks []model.TextChunk) float64 {
	if len(chunks) == 0 {
		return 0
	}
	total := 0.0
	for _, c := range chunks {
		total += c.CharWidth()
	}
	return total / float64(len(chunks))
}
