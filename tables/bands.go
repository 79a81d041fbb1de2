package tables

import (
	"sort"

	"github.com/tsawler/tabgrid/layout"
	"github.com/tsawler/tabgrid/model"
)

// span is a vertical interval of a row band
type span struct {
	top, bottom float64
}

func (s span) height() float64 { return s.bottom - s.top }

func (s span) center() float64 { return (s.top + s.bottom) / 2 }

// rowSpans splits every row into the sub-bands it visually holds and
// returns them top to bottom.
func (b *Builder) rowSpans(rows []model.TextBlock, horizontal []model.Ruling) []span {
	var out []span
	for _, row := range rows {
		out = append(out, b.splitBand(row.Bounds, row.Chunks, horizontal)...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].top < out[j].top })
	return out
}

// splitBand splits a row band at each ruling crossing it, then bisects the
// pieces by vertical gaps between single-line chunks. Pieces holding no
// single-line chunk are dropped unless nothing else remains.
func (b *Builder) splitBand(band model.Rect, chunks []model.TextChunk, horizontal []model.Ruling) []span {
	var cuts []float64
	for _, r := range horizontal {
		if r.Crosses(band, structureMargin) {
			cuts = append(cuts, r.Position)
		}
	}
	sort.Float64s(cuts)

	var pieces []span
	top := band.Top
	for _, cut := range append(cuts, band.Bottom()) {
		piece := span{top: top, bottom: cut}
		top = cut
		pieces = append(pieces, b.bisect(piece, chunksWithin(chunks, piece))...)
	}

	var kept []span
	for _, p := range pieces {
		if p.height() > 0 {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return []span{{top: band.Top, bottom: band.Bottom()}}
	}
	return kept
}

// chunksWithin returns the chunks whose vertical center lies in s
func chunksWithin(chunks []model.TextChunk, s span) []model.TextChunk {
	var out []model.TextChunk
	for _, c := range chunks {
		if cy := c.Bounds.CenterY(); cy >= s.top && cy <= s.bottom {
			out = append(out, c)
		}
	}
	return out
}

// bisect recursively halves s at the first vertical gap between its
// single-line chunks. Each returned piece is tightened to its single-line
// chunks; a piece without any is dropped.
func (b *Builder) bisect(s span, chunks []model.TextChunk) []span {
	var lines []model.TextChunk
	for _, c := range chunks {
		if !b.isTall(c) && !c.IsBlank() {
			lines = append(lines, c)
		}
	}
	if len(lines) == 0 {
		return nil
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Bounds.Top < lines[j].Bounds.Top })

	extent := span{top: lines[0].Bounds.Top, bottom: lines[0].Bounds.Bottom()}
	for _, c := range lines[1:] {
		if c.Bounds.Top >= extent.bottom {
			cut := (extent.bottom + c.Bounds.Top) / 2
			upper := span{top: s.top, bottom: cut}
			lower := span{top: cut, bottom: s.bottom}
			return append(b.bisect(upper, chunksWithin(lines, upper)), b.bisect(lower, chunksWithin(lines, lower))...)
		}
		if c.Bounds.Bottom() > extent.bottom {
			extent.bottom = c.Bounds.Bottom()
		}
	}
	return []span{extent}
}

func (b *Builder) isTall(c model.TextChunk) bool {
	return layout.NewRowDetectorWithConfig(b.config.Row).IsTall(c)
}
