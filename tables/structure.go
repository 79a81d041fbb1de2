package tables

import (
	"github.com/tsawler/tabgrid/model"
)

// structureMargin keeps rulings that merely touch a cell edge from counting
// as crossing it.
const structureMargin = 1.0

// ClassifyStructureRows checks structurally tagged rows against the page
// geometry. Each tagged cell is crossed with the rulings: a ruling with raw
// chunks on both sides marks the cell Abnormal (two cells merged by the
// tagging), a ruling with content on one side only marks it Confused. ok is
// false when any cell is Abnormal.
func ClassifyStructureRows(rows []model.TextBlock, chunks []model.TextChunk, horizontal, vertical []model.Ruling) (cells [][]model.CandidateCell, ok bool) {
	ok = true
	cells = make([][]model.CandidateCell, len(rows))
	for r, row := range rows {
		cells[r] = make([]model.CandidateCell, len(row.Chunks))
		for c, sc := range row.Chunks {
			status := cellStatus(sc.Bounds, chunks, horizontal, vertical)
			if status == model.StatusAbnormal {
				ok = false
			}
			cells[r][c] = model.CandidateCell{
				Rect:    sc.Bounds,
				Row:     r,
				Col:     c,
				RowSpan: 1,
				ColSpan: 1,
				Status:  status,
			}
		}
	}
	return cells, ok
}

func cellStatus(cell model.Rect, chunks []model.TextChunk, horizontal, vertical []model.Ruling) model.CellStatus {
	var inside []model.Point
	for _, ch := range chunks {
		if ch.IsBlank() {
			continue
		}
		if p := ch.Bounds.Center(); cell.Contains(p) {
			inside = append(inside, p)
		}
	}

	status := model.StatusNormal
	check := func(r model.Ruling) {
		if !r.Crosses(cell, structureMargin) {
			return
		}
		before, after := false, false
		for _, p := range inside {
			v := p.X
			if r.IsHorizontal() {
				v = p.Y
			}
			if v < r.Position {
				before = true
			} else {
				after = true
			}
		}
		switch {
		case before && after:
			status = model.StatusAbnormal
		case (before || after) && status == model.StatusNormal:
			status = model.StatusConfused
		}
	}
	for _, r := range vertical {
		check(r)
	}
	for _, r := range horizontal {
		check(r)
	}
	return status
}
