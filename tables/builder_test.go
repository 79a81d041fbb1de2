package tables

import (
	"testing"

	"github.com/tsawler/tabgrid/model"
)

// assertComplete checks that every slot resolves to exactly one owning
// cell and that every span resolves to its anchor.
func assertComplete(t *testing.T, table *model.Table) {
	t.Helper()
	if err := table.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	owners := make(map[int]int)
	for r := 0; r < table.RowCount(); r++ {
		for c := 0; c < table.ColCount(); c++ {
			id, ok := table.Anchor(r, c)
			if !ok {
				t.Fatalf("slot (%d,%d) has no owner", r, c)
			}
			owners[id]++
		}
	}
	for id, n := range owners {
		cell := table.CellByID(id)
		if n != cell.RowSpan*cell.ColSpan {
			t.Errorf("cell %d owns %d slots, span is %dx%d", id, n, cell.RowSpan, cell.ColSpan)
		}
	}
}

func TestBuildTable_Dispatch(t *testing.T) {
	h, v, chunks := grid3x3()
	b := NewBuilder()

	tests := []struct {
		name     string
		in       Input
		wantKind model.TableKind
		wantNil  bool
	}{
		{
			name:     "ruling grid",
			in:       Input{Bounds: model.NewRect(0, 0, 300, 60), Chunks: chunks, Horizontal: h, Vertical: v},
			wantKind: model.LineTable,
		},
		{
			name:     "text only",
			in:       Input{Bounds: model.NewRect(0, 0, 300, 110), Chunks: twoColumnChunks()},
			wantKind: model.NoLineTable,
		},
		{
			name:     "horizontal rules only",
			in:       Input{Bounds: model.NewRect(0, 0, 300, 110), Chunks: twoColumnChunks(), Horizontal: h[:2]},
			wantKind: model.NoLineTable,
		},
		{
			name:    "empty region",
			in:      Input{Bounds: model.NewRect(0, 0, 300, 110)},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := b.BuildTable(tt.in)
			if err != nil {
				t.Fatalf("BuildTable failed: %v", err)
			}
			if tt.wantNil {
				if table != nil {
					t.Errorf("Expected nil table, got %dx%d", table.RowCount(), table.ColCount())
				}
				return
			}
			if table == nil {
				t.Fatal("Expected a table")
			}
			if table.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", table.Kind, tt.wantKind)
			}
			assertComplete(t, table)
		})
	}
}

func TestBuildTable_PartialLatticeShortcut(t *testing.T) {
	// a closed box around the first two rows of the left column
	in := Input{
		Bounds:     model.NewRect(0, 0, 300, 110),
		Chunks:     twoColumnChunks(),
		Horizontal: []model.Ruling{makeHLine(5, 5, 55), makeHLine(45, 5, 55)},
		Vertical:   []model.Ruling{makeVLine(5, 5, 45), makeVLine(55, 5, 45)},
	}
	table, err := NewBuilder().BuildTable(in)
	if err != nil || table == nil {
		t.Fatalf("BuildTable failed: %v", err)
	}
	if table.Kind != model.NoLineTable {
		t.Fatalf("Expected a text-flow table, got %v", table.Kind)
	}
	cell := table.CellAt(0, 0)
	if cell.RowSpan != 2 || cell.Text != "item 0\nitem 1" {
		t.Errorf("Expected closed cell spanning 2 rows, got span %d text %q", cell.RowSpan, cell.Text)
	}
	assertComplete(t, table)
}
