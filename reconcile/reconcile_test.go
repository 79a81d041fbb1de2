package reconcile

import (
	"testing"

	"github.com/tsawler/tabgrid/model"
	"github.com/tsawler/tabgrid/page"
)

// makeChunk creates a test chunk with 10 unit characters
func makeChunk(txt string, x, y, width, height float64) model.TextChunk {
	return model.TextChunk{
		Text:          txt,
		Bounds:        model.NewRect(x, y, width, height),
		AvgCharHeight: 10,
		AvgCharWidth:  5,
	}
}

func snapshot(chunks ...model.TextChunk) *page.Snapshot {
	return page.New(page.Content{Width: 300, Height: 300, Chunks: chunks})
}

func region(left, top, width, height float64, src model.Source) model.TableRegion {
	return model.TableRegion{Bounds: model.NewRect(left, top, width, height), Confidence: 0.5, Source: src}
}

func emptyTable(kind model.TableKind, bounds model.Rect) *model.Table {
	t := model.NewTable(1, 1)
	t.Kind = kind
	t.Bounds = bounds
	t.Fill()
	return t
}

// twoByTwo is a no-ruling table with columns at x 10..60 and 200..280 and
// rows at y 15..25 and 35..45
func twoByTwo(t *testing.T) (*model.Table, []model.TextChunk) {
	t.Helper()
	chunks := []model.TextChunk{
		makeChunk("a", 10, 15, 50, 10),
		makeChunk("100", 200, 15, 80, 10),
		makeChunk("b", 10, 35, 50, 10),
		makeChunk("200", 200, 35, 80, 10),
	}
	table := model.NewTable(2, 2)
	table.Kind = model.NoLineTable
	table.Bounds = model.NewRect(10, 10, 270, 40)
	for i, c := range chunks {
		if _, err := table.AddCell(model.Cell{
			Bounds: c.Bounds, Row: i / 2, Col: i % 2, RowSpan: 1, ColSpan: 1,
			Text: c.Text, Chunks: []model.TextChunk{c},
		}); err != nil {
			t.Fatalf("AddCell failed: %v", err)
		}
	}
	return table, chunks
}

func TestRegions_ContainedProposalAbsorbed(t *testing.T) {
	b := region(0, 0, 100, 100, model.SourceImage)
	a := region(0, 0, 95, 100, model.SourceStructure)

	tables, accepted := NewReconciler().Regions(nil, []model.TableRegion{a, b}, snapshot())
	if len(tables) != 0 {
		t.Errorf("Expected no tables, got %d", len(tables))
	}
	if len(accepted) != 1 {
		t.Fatalf("Expected 1 region, got %d", len(accepted))
	}
	if accepted[0].Bounds != b.Bounds || accepted[0].Source != model.SourceImage {
		t.Errorf("Expected B to survive, got %+v", accepted[0])
	}
}

func TestRegions_IntersectingProposalsSplit(t *testing.T) {
	a := region(0, 0, 200, 100, model.SourceImage)
	b := region(0, 60, 200, 100, model.SourceImage)

	_, accepted := NewReconciler().Regions(nil, []model.TableRegion{a, b}, snapshot())
	if len(accepted) != 2 {
		t.Fatalf("Expected both regions, got %d", len(accepted))
	}
	if accepted[0].Bounds.Intersects(accepted[1].Bounds) {
		t.Errorf("Regions still overlap: %+v, %+v", accepted[0].Bounds, accepted[1].Bounds)
	}
	if accepted[0].Bounds.Bottom() != 80 || accepted[1].Bounds.Top != 80 {
		t.Errorf("Expected split at 80, got %v / %v", accepted[0].Bounds.Bottom(), accepted[1].Bounds.Top)
	}
}

func TestRegions_SplitAtSparsestRow(t *testing.T) {
	a := region(0, 0, 200, 100, model.SourceImage)
	b := region(0, 60, 200, 100, model.SourceImage)
	src := snapshot(
		makeChunk("x", 10, 62, 20, 10),
		makeChunk("y", 100, 62, 20, 10),
		makeChunk("Table 2", 10, 85, 60, 10),
	)

	_, accepted := NewReconciler().Regions(nil, []model.TableRegion{a, b}, src)
	if len(accepted) != 2 {
		t.Fatalf("Expected both regions, got %d", len(accepted))
	}
	if accepted[0].Bounds.Bottom() != 85 || accepted[1].Bounds.Top != 85 {
		t.Errorf("Expected split at 85, got %v / %v", accepted[0].Bounds.Bottom(), accepted[1].Bounds.Top)
	}
}

func TestRegions_SideBySideProposalsSplit(t *testing.T) {
	tests := []struct {
		name    string
		chunks  []model.TextChunk
		wantCut float64
	}{
		{name: "no text", wantCut: 80},
		{
			name: "cut before the second column",
			chunks: []model.TextChunk{
				makeChunk("a", 62, 40, 10, 10),
				makeChunk("1", 85, 40, 10, 10),
			},
			wantCut: 85,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := region(0, 0, 100, 100, model.SourceImage)
			b := region(60, 0, 100, 100, model.SourceImage)

			_, accepted := NewReconciler().Regions(nil, []model.TableRegion{a, b}, snapshot(tt.chunks...))
			if len(accepted) != 2 {
				t.Fatalf("Expected both regions, got %d", len(accepted))
			}
			left, right := accepted[0].Bounds, accepted[1].Bounds
			if right.Left < left.Left {
				left, right = right, left
			}
			if left.Right() != tt.wantCut || right.Left != tt.wantCut {
				t.Errorf("Expected split at x %v, got %v / %v", tt.wantCut, left.Right(), right.Left)
			}
			if left.Height != 100 || right.Height != 100 {
				t.Errorf("Heights changed: %v / %v", left.Height, right.Height)
			}
		})
	}
}

func TestRegions_MergeRechecksEarlierProposals(t *testing.T) {
	// c is absorbed into b, which then grows into a
	a := region(0, 0, 100, 101, model.SourceImage)
	b := region(120, 50, 100, 100, model.SourceImage)
	c := region(95, 101, 60, 40, model.SourceStructure)

	_, accepted := NewReconciler().Regions(nil, []model.TableRegion{a, b, c}, snapshot())
	if len(accepted) != 2 {
		t.Fatalf("Expected 2 regions, got %d", len(accepted))
	}
	for i := range accepted {
		for j := i + 1; j < len(accepted); j++ {
			if accepted[i].Bounds.Intersects(accepted[j].Bounds) {
				t.Errorf("Regions overlap: %+v, %+v", accepted[i].Bounds, accepted[j].Bounds)
			}
		}
	}
}

func TestRegions_Redundancy(t *testing.T) {
	tests := []struct {
		name         string
		table        *model.Table
		proposal     model.TableRegion
		wantTables   int
		wantAccepted int
	}{
		{
			name:         "small overlap keeps both",
			table:        emptyTable(model.LineTable, model.NewRect(0, 0, 100, 100)),
			proposal:     region(90, 0, 100, 100, model.SourceImage),
			wantTables:   1,
			wantAccepted: 1,
		},
		{
			name:         "fragment replaced by larger proposal",
			table:        emptyTable(model.LineTable, model.NewRect(0, 0, 50, 50)),
			proposal:     region(0, 0, 100, 100, model.SourceImage),
			wantTables:   0,
			wantAccepted: 1,
		},
		{
			name:         "small table inside a large proposal",
			table:        emptyTable(model.LineTable, model.NewRect(10, 10, 50, 20)),
			proposal:     region(0, 0, 300, 300, model.SourceImage),
			wantTables:   0,
			wantAccepted: 1,
		},
		{
			name:         "small proposal inside a large table keeps both",
			table:        emptyTable(model.LineTable, model.NewRect(0, 0, 300, 300)),
			proposal:     region(10, 10, 50, 20, model.SourceImage),
			wantTables:   1,
			wantAccepted: 1,
		},
		{
			name:         "near duplicate of a line table",
			table:        emptyTable(model.LineTable, model.NewRect(0, 0, 100, 100)),
			proposal:     region(0, 0, 100, 98, model.SourceImage),
			wantTables:   1,
			wantAccepted: 0,
		},
		{
			name:         "medium overlap is redundant",
			table:        emptyTable(model.LineTable, model.NewRect(0, 0, 100, 100)),
			proposal:     region(50, 0, 100, 100, model.SourceImage),
			wantTables:   1,
			wantAccepted: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tables, accepted := NewReconciler().Regions([]*model.Table{tt.table}, []model.TableRegion{tt.proposal}, snapshot())
			if len(tables) != tt.wantTables {
				t.Errorf("Expected %d tables, got %d", tt.wantTables, len(tables))
			}
			if len(accepted) != tt.wantAccepted {
				t.Errorf("Expected %d accepted, got %d", tt.wantAccepted, len(accepted))
			}
			assertNoDoubleCounting(t, tables, accepted)
		})
	}
}

func assertNoDoubleCounting(t *testing.T, tables []*model.Table, accepted []model.TableRegion) {
	t.Helper()
	for _, tb := range tables {
		for _, p := range accepted {
			inter := tb.Bounds.Intersection(p.Bounds).Area()
			if inter > 0.9*tb.Bounds.Area() && inter > 0.9*p.Bounds.Area() {
				t.Errorf("Table %+v and region %+v both returned", tb.Bounds, p.Bounds)
			}
		}
	}
}

func TestRegions_HeavyOverlapChecksMargins(t *testing.T) {
	tests := []struct {
		name        string
		below       []model.TextChunk
		wantReplace bool
	}{
		{
			name: "aligned rows below",
			below: []model.TextChunk{
				makeChunk("c", 10, 55, 50, 10),
				makeChunk("300", 200, 55, 40, 10),
			},
			wantReplace: true,
		},
		{
			name:        "text between columns",
			below:       []model.TextChunk{makeChunk("stray", 100, 55, 50, 10)},
			wantReplace: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, chunks := twoByTwo(t)
			src := snapshot(append(chunks, tt.below...)...)
			proposal := region(5, 5, 280, 70, model.SourceImage)

			tables, accepted := NewReconciler().Regions([]*model.Table{table}, []model.TableRegion{proposal}, src)
			if tt.wantReplace {
				if len(tables) != 0 || len(accepted) != 1 {
					t.Errorf("Expected replacement, got %d tables and %d regions", len(tables), len(accepted))
				}
				return
			}
			if len(tables) != 1 || len(accepted) != 0 {
				t.Errorf("Expected table kept, got %d tables and %d regions", len(tables), len(accepted))
			}
		})
	}
}

func TestRegions_DegenerateTable(t *testing.T) {
	bounds := model.NewRect(0, 0, 300, 300)
	src := snapshot(makeChunk("top", 0, 0, 10, 10), makeChunk("end", 290, 290, 10, 10))

	tests := []struct {
		name       string
		kind       model.TableKind
		proposals  []model.TableRegion
		wantTables int
	}{
		{
			name: "three separate proposals",
			kind: model.NoLineTable,
			proposals: []model.TableRegion{
				region(10, 10, 100, 50, model.SourceImage),
				region(150, 150, 120, 60, model.SourceImage),
				region(20, 220, 80, 40, model.SourceImage),
			},
			wantTables: 0,
		},
		{
			name: "two small proposals",
			kind: model.NoLineTable,
			proposals: []model.TableRegion{
				region(10, 10, 100, 50, model.SourceImage),
				region(150, 150, 120, 60, model.SourceImage),
			},
			wantTables: 0,
		},
		{
			name: "aligned proposals",
			kind: model.NoLineTable,
			proposals: []model.TableRegion{
				region(10, 10, 100, 50, model.SourceImage),
				region(10, 150, 100, 60, model.SourceImage),
			},
			wantTables: 1,
		},
		{
			name: "single proposal",
			kind: model.NoLineTable,
			proposals: []model.TableRegion{
				region(10, 10, 100, 50, model.SourceImage),
			},
			wantTables: 1,
		},
		{
			name: "line table is kept",
			kind: model.LineTable,
			proposals: []model.TableRegion{
				region(10, 10, 100, 50, model.SourceImage),
				region(150, 150, 120, 60, model.SourceImage),
				region(20, 220, 80, 40, model.SourceImage),
			},
			wantTables: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := emptyTable(tt.kind, bounds)
			tables, accepted := NewReconciler().Regions([]*model.Table{table}, tt.proposals, src)
			if len(tables) != tt.wantTables {
				t.Errorf("Expected %d tables, got %d", tt.wantTables, len(tables))
			}
			if len(accepted) != len(tt.proposals) {
				t.Errorf("Expected %d regions, got %d", len(tt.proposals), len(accepted))
			}
		})
	}
}
