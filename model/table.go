package model

import (
	"errors"
	"fmt"
)

var (
	// ErrCellOutOfRange is returned when a cell's span leaves the grid
	ErrCellOutOfRange = errors.New("cell span out of range")

	// ErrCellOverlap is returned when a cell's span covers an occupied slot
	ErrCellOverlap = errors.New("cell span overlaps an existing cell")

	// ErrGridIncomplete is returned by Validate when a slot has no owner
	ErrGridIncomplete = errors.New("grid position not covered by any cell")
)

// TableKind classifies how the grid was obtained
type TableKind int

const (
	// LineTable grids come from ruling lines
	LineTable TableKind = iota
	// NoLineTable grids are inferred from text layout
	NoLineTable
)

func (k TableKind) String() string {
	if k == NoLineTable {
		return "NoLineTable"
	}
	return "LineTable"
}

// Source tags where a region or table came from
type Source string

const (
	SourceImage     Source = "image"
	SourceStructure Source = "structure"
	SourceHint      Source = "hint"
	SourceLattice   Source = "lattice"
	SourceTextFlow  Source = "textflow"
	SourceMerged    Source = "merged"
)

// Cell is a final grid cell. Row/Col locate its top-left (anchor) slot.
type Cell struct {
	Bounds  Rect
	Row     int
	Col     int
	RowSpan int
	ColSpan int
	Text    string
	Chunks  []TextChunk
}

// IsEmpty reports whether the cell carries no text
func (c *Cell) IsEmpty() bool { return c.Text == "" }

// CellStatus describes how trustworthy a structurally tagged cell is
type CellStatus int

const (
	StatusNormal CellStatus = iota
	// StatusConfused cells are crossed by a ruling with content on one side only
	StatusConfused
	// StatusAbnormal cells are crossed by a ruling with content on both sides
	StatusAbnormal
)

func (s CellStatus) String() string {
	switch s {
	case StatusConfused:
		return "confused"
	case StatusAbnormal:
		return "abnormal"
	default:
		return "normal"
	}
}

// CandidateCell is a provisional cell used while a grid is being built.
// The Merge flags are true when the corresponding border has no ruling and
// the cell may therefore be fused with its neighbour on that side.
type CandidateCell struct {
	Rect        Rect
	MergeLeft   bool
	MergeTop    bool
	MergeRight  bool
	MergeBottom bool
	Row         int
	Col         int
	RowSpan     int
	ColSpan     int
	Status      CellStatus
}

// IsClosed reports whether all four borders are backed by rulings
func (c CandidateCell) IsClosed() bool {
	return !c.MergeLeft && !c.MergeTop && !c.MergeRight && !c.MergeBottom
}

// TableRegion is a proposed table bounding box before its grid is known
type TableRegion struct {
	Bounds     Rect
	Confidence float64
	// Complete marks a box known to bound the whole table; correction is skipped.
	Complete bool
	Source   Source
}

// Table is a rows x cols grid of cells. Each slot of the index grid holds
// the id of the cell that owns it; the slots covered by a span all hold the
// anchor's id.
type Table struct {
	Bounds     Rect
	Kind       TableKind
	Confidence float64
	Source     Source

	cells []Cell
	grid  [][]int
}

// NewTable creates a table with given dimensions and no cells
func NewTable(rows, cols int) *Table {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	t := &Table{
		Confidence: 1.0,
		grid:       make([][]int, rows),
	}
	for i := 0; i < rows; i++ {
		t.grid[i] = make([]int, cols)
		for j := 0; j < cols; j++ {
			t.grid[i][j] = -1
		}
	}
	return t
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.grid)
}

// ColCount returns the number of columns
func (t *Table) ColCount() int {
	if len(t.grid) == 0 {
		return 0
	}
	return len(t.grid[0])
}

// Cells returns the owning cells in insertion order
func (t *Table) Cells() []Cell {
	return t.cells
}

// CanPlace reports whether a span at (row,col) fits inside the grid and
// covers only free slots.
func (t *Table) CanPlace(row, col, rowSpan, colSpan int) bool {
	if !t.inRange(row, col, rowSpan, colSpan) {
		return false
	}
	for r := row; r < row+rowSpan; r++ {
		for c := col; c < col+colSpan; c++ {
			if t.grid[r][c] >= 0 {
				return false
			}
		}
	}
	return true
}

func (t *Table) inRange(row, col, rowSpan, colSpan int) bool {
	return rowSpan >= 1 && colSpan >= 1 && row >= 0 && col >= 0 &&
		row+rowSpan <= t.RowCount() && col+colSpan <= t.ColCount()
}

// AddCell places a cell and writes its id into every slot of its span
func (t *Table) AddCell(cell Cell) (int, error) {
	if cell.RowSpan < 1 {
		cell.RowSpan = 1
	}
	if cell.ColSpan < 1 {
		cell.ColSpan = 1
	}
	if !t.inRange(cell.Row, cell.Col, cell.RowSpan, cell.ColSpan) {
		return -1, fmt.Errorf("cell (%d,%d) span %dx%d in %dx%d grid: %w",
			cell.Row, cell.Col, cell.RowSpan, cell.ColSpan, t.RowCount(), t.ColCount(), ErrCellOutOfRange)
	}
	if !t.CanPlace(cell.Row, cell.Col, cell.RowSpan, cell.ColSpan) {
		return -1, fmt.Errorf("cell (%d,%d) span %dx%d: %w",
			cell.Row, cell.Col, cell.RowSpan, cell.ColSpan, ErrCellOverlap)
	}

	id := len(t.cells)
	t.cells = append(t.cells, cell)
	for r := cell.Row; r < cell.Row+cell.RowSpan; r++ {
		for c := cell.Col; c < cell.Col+cell.ColSpan; c++ {
			t.grid[r][c] = id
		}
	}
	return id, nil
}

// Anchor returns the id of the cell owning (row,col)
func (t *Table) Anchor(row, col int) (int, bool) {
	if row < 0 || row >= t.RowCount() || col < 0 || col >= t.ColCount() {
		return -1, false
	}
	id := t.grid[row][col]
	return id, id >= 0
}

// CellAt returns the cell owning the given slot, nil when out of range or free.
// For span members this is the anchor cell.
func (t *Table) CellAt(row, col int) *Cell {
	id, ok := t.Anchor(row, col)
	if !ok {
		return nil
	}
	return &t.cells[id]
}

// CellByID returns the cell with the given id
func (t *Table) CellByID(id int) *Cell {
	if id < 0 || id >= len(t.cells) {
		return nil
	}
	return &t.cells[id]
}

// IsAnchor reports whether (row,col) is the top-left slot of its cell
func (t *Table) IsAnchor(row, col int) bool {
	c := t.CellAt(row, col)
	return c != nil && c.Row == row && c.Col == col
}

// Fill completes the grid: every free slot receives an empty 1x1 cell whose
// bounds are derived from the row and column extents seen so far.
func (t *Table) Fill() {
	rowTop, rowBottom := t.rowExtents()
	colLeft, colRight := t.colExtents()

	for r := 0; r < t.RowCount(); r++ {
		for c := 0; c < t.ColCount(); c++ {
			if t.grid[r][c] >= 0 {
				continue
			}
			var bounds Rect
			if rowBottom[r] > rowTop[r] && colRight[c] > colLeft[c] {
				bounds = RectFromEdges(colLeft[c], rowTop[r], colRight[c], rowBottom[r])
			}
			// The slot is free, AddCell cannot fail here.
			_, _ = t.AddCell(Cell{Bounds: bounds, Row: r, Col: c, RowSpan: 1, ColSpan: 1})
		}
	}
}

func (t *Table) rowExtents() (top, bottom []float64) {
	top = make([]float64, t.RowCount())
	bottom = make([]float64, t.RowCount())
	for _, cell := range t.cells {
		if cell.Bounds.IsEmpty() || cell.RowSpan != 1 {
			continue
		}
		r := cell.Row
		if bottom[r] <= top[r] {
			top[r], bottom[r] = cell.Bounds.Top, cell.Bounds.Bottom()
			continue
		}
		top[r] = minFloat(top[r], cell.Bounds.Top)
		if b := cell.Bounds.Bottom(); b > bottom[r] {
			bottom[r] = b
		}
	}
	return top, bottom
}

func (t *Table) colExtents() (left, right []float64) {
	left = make([]float64, t.ColCount())
	right = make([]float64, t.ColCount())
	for _, cell := range t.cells {
		if cell.Bounds.IsEmpty() || cell.ColSpan != 1 {
			continue
		}
		c := cell.Col
		if right[c] <= left[c] {
			left[c], right[c] = cell.Bounds.Left, cell.Bounds.Right()
			continue
		}
		left[c] = minFloat(left[c], cell.Bounds.Left)
		if r := cell.Bounds.Right(); r > right[c] {
			right[c] = r
		}
	}
	return left, right
}

// Validate checks that every slot is owned and that every span resolves to
// its anchor from each covered slot.
func (t *Table) Validate() error {
	for r := 0; r < t.RowCount(); r++ {
		for c := 0; c < t.ColCount(); c++ {
			if t.grid[r][c] < 0 {
				return fmt.Errorf("slot (%d,%d): %w", r, c, ErrGridIncomplete)
			}
		}
	}
	for id, cell := range t.cells {
		for r := cell.Row; r < cell.Row+cell.RowSpan; r++ {
			for c := cell.Col; c < cell.Col+cell.ColSpan; c++ {
				if t.grid[r][c] != id {
					return fmt.Errorf("slot (%d,%d) does not resolve to anchor (%d,%d): %w",
						r, c, cell.Row, cell.Col, ErrCellOverlap)
				}
			}
		}
	}
	return nil
}

// Text returns the text of the cell owning (row,col). Span members report
// the anchor's text only at the anchor position.
func (t *Table) Text(row, col int) string {
	if !t.IsAnchor(row, col) {
		return ""
	}
	return t.CellAt(row, col).Text
}

// GetText renders the table as tab-separated rows
func (t *Table) GetText() string {
	var out []byte
	for r := 0; r < t.RowCount(); r++ {
		for c := 0; c < t.ColCount(); c++ {
			out = append(out, t.Text(r, c)...)
			if c < t.ColCount()-1 {
				out = append(out, '\t')
			}
		}
		out = append(out, '\n')
	}
	return string(out)
}
