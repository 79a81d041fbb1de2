package correction

import (
	"github.com/tsawler/tabgrid/layout"
	"github.com/tsawler/tabgrid/model"
	"github.com/tsawler/tabgrid/text"
)

// profile summarises the rows of the table being corrected
type profile struct {
	bounds    model.Rect
	modal     int
	cols      []layout.Band
	rowHeight float64
	gap       float64
	charWidth float64
}

func newProfile(rows []model.TextBlock) profile {
	p := profile{
		modal:     layout.ModalCount(rows),
		rowHeight: layout.AvgRowHeight(rows),
		gap:       layout.MedianGap(rows),
	}

	var multi, all []model.TextChunk
	widthSum := 0.0
	for _, r := range rows {
		p.bounds = p.bounds.Union(r.Bounds)
		widthSum += r.AvgCharWidth()
		all = append(all, r.Chunks...)
		if r.ValidCount() >= 2 {
			multi = append(multi, r.Chunks...)
		}
	}
	if len(rows) > 0 {
		p.charWidth = widthSum / float64(len(rows))
	}
	if len(multi) == 0 {
		multi = all
	}
	p.cols = layout.ProjectBands(multi, 0.5*p.charWidth)
	return p
}

// full reports whether a row holds the table's usual number of chunks
func (p profile) full(row model.TextBlock) bool {
	return p.modal >= 2 && row.ValidCount() >= p.modal
}

// tight reports whether rows follow each other closely
func (p profile) tight(cfg Config) bool {
	return p.gap <= cfg.TightRhythm*p.rowHeight
}

// columnsOf returns the columns a chunk overlaps
func (p profile) columnsOf(c model.TextChunk) []int {
	cb := layout.ChunkBand(c)
	var out []int
	for i, col := range p.cols {
		if cb.Overlap(col) > 0 {
			out = append(out, i)
		}
	}
	return out
}

// alignment returns the share of a row's chunks that fall into exactly
// one column
func (p profile) alignment(row model.TextBlock) float64 {
	n, one := 0, 0
	for _, c := range row.Chunks {
		if c.IsBlank() {
			continue
		}
		n++
		if len(p.columnsOf(c)) == 1 {
			one++
		}
	}
	if n == 0 {
		return 0
	}
	return float64(one) / float64(n)
}

// offsetStart reports whether a row starts right of the first column and
// its chunks still fit in the remaining columns, as a continuation row
// with an empty label cell does.
func (p profile) offsetStart(row model.TextBlock) bool {
	for _, c := range row.Chunks {
		if c.IsBlank() {
			continue
		}
		cols := p.columnsOf(c)
		if len(cols) == 0 {
			return false
		}
		return cols[0] > 0 && cols[0]+row.ValidCount() <= len(p.cols)
	}
	return false
}

func mostlyNumeric(row model.TextBlock) bool {
	n, num := 0, 0
	for _, c := range row.Chunks {
		if c.IsBlank() {
			continue
		}
		n++
		if text.IsNumeric(c.Text) {
			num++
		}
	}
	return n > 0 && 2*num >= n
}
