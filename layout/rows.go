package layout

import (
	"sort"

	"github.com/tsawler/tabgrid/model"
)

// RowConfig holds configuration for row assembly
type RowConfig struct {
	// SameRowRatio is the vertical overlap, as a fraction of the smaller
	// line height, above which a chunk joins a row (default: 0.5)
	SameRowRatio float64 `yaml:"same_row_ratio"`

	// TallChunkRatio marks chunks taller than this many char heights as
	// multi-line; they join rows but do not widen the row's line extent
	// (default: 1.6)
	TallChunkRatio float64 `yaml:"tall_chunk_ratio"`

	// RowMergeRatio merges rows overlapping vertically by more than this
	// fraction of their minimum char height (default: 0.8)
	RowMergeRatio float64 `yaml:"row_merge_ratio"`

	// ChunkMergeRatio merges chunks in a row overlapping on both axes by
	// more than this fraction of a character (default: 0.5)
	ChunkMergeRatio float64 `yaml:"chunk_merge_ratio"`
}

// DefaultRowConfig returns sensible default configuration
func DefaultRowConfig() RowConfig {
	return RowConfig{
		SameRowRatio:    0.5,
		TallChunkRatio:  1.6,
		RowMergeRatio:   0.8,
		ChunkMergeRatio: 0.5,
	}
}

// RowDetector groups text chunks into visual rows
type RowDetector struct {
	config RowConfig
}

// NewRowDetector creates a new row detector with default configuration
func NewRowDetector() *RowDetector {
	return &RowDetector{config: DefaultRowConfig()}
}

// NewRowDetectorWithConfig creates a row detector with custom configuration
func NewRowDetectorWithConfig(config RowConfig) *RowDetector {
	return &RowDetector{config: config}
}

// Config returns the detector configuration
func (d *RowDetector) Config() RowConfig { return d.config }

// rowBuilder tracks the line extent of a row separately from its bounds so
// that one tall chunk cannot glue two rows together.
type rowBuilder struct {
	block               model.TextBlock
	lineTop, lineBottom float64
	hasLine             bool
}

// Detect groups chunks into rows ordered top to bottom, each ordered left
// to right. Blank chunks are dropped.
func (d *RowDetector) Detect(chunks []model.TextChunk) []model.TextBlock {
	sorted := make([]model.TextChunk, 0, len(chunks))
	for _, c := range chunks {
		if !c.IsBlank() {
			sorted = append(sorted, c)
		}
	}
	if len(sorted) == 0 {
		return nil
	}

	// Single-line chunks first so that rows exist before tall chunks are
	// attached to them.
	sort.SliceStable(sorted, func(i, j int) bool {
		ti, tj := d.IsTall(sorted[i]), d.IsTall(sorted[j])
		if ti != tj {
			return !ti
		}
		return sorted[i].Bounds.Top < sorted[j].Bounds.Top
	})

	var rows []*rowBuilder
	for _, c := range sorted {
		if row := d.bestRow(rows, c); row != nil {
			row.add(c, d.IsTall(c))
			continue
		}
		rb := &rowBuilder{}
		rb.add(c, d.IsTall(c))
		rows = append(rows, rb)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].top() < rows[j].top()
	})

	out := make([]model.TextBlock, len(rows))
	for i, r := range rows {
		out[i] = r.block
	}
	return out
}

// IsTall reports whether a chunk is taller than TallChunkRatio char heights
func (d *RowDetector) IsTall(c model.TextChunk) bool {
	ch := c.CharHeight()
	return ch > 0 && c.Bounds.Height > d.config.TallChunkRatio*ch
}

// bestRow returns the row sharing the most vertical extent with c
func (d *RowDetector) bestRow(rows []*rowBuilder, c model.TextChunk) *rowBuilder {
	var best *rowBuilder
	bestOverlap := 0.0
	for _, r := range rows {
		if !r.hasLine {
			continue
		}
		lineHeight := r.lineBottom - r.lineTop
		overlap := model.Overlap(r.lineTop, r.lineBottom, c.Bounds.Top, c.Bounds.Bottom())
		need := d.config.SameRowRatio * minF(lineHeight, c.Bounds.Height)
		if d.IsTall(c) {
			// tall chunks attach to the topmost row they cover
			need = d.config.SameRowRatio * lineHeight
			if overlap >= need && overlap > 0 && (best == nil || r.lineTop < best.lineTop) {
				best = r
			}
			continue
		}
		if overlap > 0 && overlap >= need && overlap > bestOverlap {
			best, bestOverlap = r, overlap
		}
	}
	return best
}

func (r *rowBuilder) add(c model.TextChunk, tall bool) {
	r.block.Add(c)
	if tall && r.hasLine {
		return
	}
	if !r.hasLine {
		r.lineTop, r.lineBottom, r.hasLine = c.Bounds.Top, c.Bounds.Bottom(), true
		return
	}
	r.lineTop = minF(r.lineTop, c.Bounds.Top)
	r.lineBottom = maxF(r.lineBottom, c.Bounds.Bottom())
}

func (r *rowBuilder) top() float64 {
	if r.hasLine {
		return r.lineTop
	}
	return r.block.Bounds.Top
}

// LineExtent returns the vertical extent of a row's single-line chunks,
// falling back to the row bounds when every chunk is tall.
func (d *RowDetector) LineExtent(row model.TextBlock) (top, bottom float64) {
	found := false
	for _, c := range row.Chunks {
		if d.IsTall(c) {
			continue
		}
		if !found {
			top, bottom, found = c.Bounds.Top, c.Bounds.Bottom(), true
			continue
		}
		top = minF(top, c.Bounds.Top)
		bottom = maxF(bottom, c.Bounds.Bottom())
	}
	if !found {
		return row.Bounds.Top, row.Bounds.Bottom()
	}
	return top, bottom
}

// MergeOverlappingRows merges consecutive rows whose line extents overlap
// vertically by more than RowMergeRatio times their minimum char height.
// The input must be ordered top to bottom.
func (d *RowDetector) MergeOverlappingRows(rows []model.TextBlock) []model.TextBlock {
	if len(rows) < 2 {
		return rows
	}
	out := []model.TextBlock{rows[0]}
	for _, row := range rows[1:] {
		last := &out[len(out)-1]
		lt, lb := d.LineExtent(*last)
		rt, rb := d.LineExtent(row)
		minHeight := minF(last.MinCharHeight(), row.MinCharHeight())
		if model.Overlap(lt, lb, rt, rb) > d.config.RowMergeRatio*minHeight {
			for _, c := range row.Chunks {
				last.Add(c)
			}
			continue
		}
		out = append(out, row)
	}
	return out
}

// MergeChunksInRow merges horizontally adjacent chunks of a row that
// overlap on both axes by more than ratio of a character.
func MergeChunksInRow(row model.TextBlock, ratio float64) model.TextBlock {
	if row.Len() < 2 {
		return row
	}
	merged := []model.TextChunk{row.Chunks[0]}
	for _, c := range row.Chunks[1:] {
		last := &merged[len(merged)-1]
		hx := last.Bounds.HorizontalOverlap(c.Bounds)
		vy := last.Bounds.VerticalOverlap(c.Bounds)
		if hx > ratio*minF(last.CharWidth(), c.CharWidth()) &&
			vy > ratio*minF(last.CharHeight(), c.CharHeight()) {
			*last = last.Merge(c)
			continue
		}
		merged = append(merged, c)
	}
	return model.NewTextBlock(merged...)
}

// Preprocess applies the row merges configured for the detector
func (d *RowDetector) Preprocess(rows []model.TextBlock) []model.TextBlock {
	rows = d.MergeOverlappingRows(rows)
	out := make([]model.TextBlock, len(rows))
	for i, r := range rows {
		out[i] = MergeChunksInRow(r, d.config.ChunkMergeRatio)
	}
	return out
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
