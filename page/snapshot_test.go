package page

import (
	"strings"
	"testing"

	"github.com/tsawler/tabgrid/model"
)

func makeChunk(txt string, x, y, w, h float64) model.TextChunk {
	return model.TextChunk{Text: txt, Bounds: model.NewRect(x, y, w, h), AvgCharHeight: h}
}

func TestChunksIn(t *testing.T) {
	snap := New(Content{Chunks: []model.TextChunk{
		makeChunk("b", 60, 10, 20, 10),
		makeChunk("a", 10, 10, 20, 10),
		makeChunk("c", 10, 30, 20, 10),
		makeChunk("edge", 90, 50, 40, 10), // 25% inside
		makeChunk("far", 300, 300, 20, 10),
	}})

	got := snap.ChunksIn(model.NewRect(0, 0, 100, 100))
	var names []string
	for _, c := range got {
		names = append(names, c.Text)
	}
	if strings.Join(names, ",") != "a,b,c" {
		t.Errorf("ChunksIn = %v, want [a b c]", names)
	}

	if n := len(snap.ChunksIn(model.NewRect(500, 500, 10, 10))); n != 0 {
		t.Errorf("expected no chunks in empty area, got %d", n)
	}
}

func TestTextArea(t *testing.T) {
	snap := New(Content{Chunks: []model.TextChunk{
		makeChunk("a", 10, 10, 20, 10),
		makeChunk("b", 100, 200, 20, 10),
	}})
	want := model.RectFromEdges(10, 10, 120, 210)
	if snap.TextArea() != want {
		t.Errorf("TextArea = %+v, want %+v", snap.TextArea(), want)
	}
}

func TestRulingsIn(t *testing.T) {
	snap := New(Content{Rulings: []model.Ruling{
		model.NewHorizontal(50, 0, 200),
		model.NewHorizontal(500, 0, 200),
		model.NewVertical(100, 0, 300),
		model.NewVertical(400, 0, 300),
	}})

	h, v := snap.RulingsIn(model.NewRect(20, 20, 150, 100), 1)
	if len(h) != 1 || len(v) != 1 {
		t.Fatalf("got %d horizontal, %d vertical; want 1, 1", len(h), len(v))
	}
	if h[0].Start != 20 || h[0].End != 170 {
		t.Errorf("horizontal not clipped: %+v", h[0])
	}
	if v[0].Start != 20 || v[0].End != 120 {
		t.Errorf("vertical not clipped: %+v", v[0])
	}
}

func TestSingleRulings(t *testing.T) {
	tests := []struct {
		name    string
		rulings []model.Ruling
		want    int
	}{
		{
			name:    "lone line",
			rulings: []model.Ruling{model.NewHorizontal(100, 10, 300)},
			want:    1,
		},
		{
			name: "double line",
			rulings: []model.Ruling{
				model.NewHorizontal(100, 10, 300),
				model.NewHorizontal(102, 10, 300),
			},
			want: 0,
		},
		{
			name: "same segment drawn twice",
			rulings: []model.Ruling{
				model.NewHorizontal(100, 10, 300),
				model.NewHorizontal(100, 10, 300),
			},
			want: 2,
		},
		{
			name: "attached to grid",
			rulings: []model.Ruling{
				model.NewHorizontal(100, 10, 300),
				model.NewVertical(10, 100, 200),
			},
			want: 0,
		},
		{
			name: "far apart",
			rulings: []model.Ruling{
				model.NewHorizontal(100, 10, 300),
				model.NewHorizontal(150, 10, 300),
			},
			want: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := New(Content{Rulings: tt.rulings})
			if got := len(snap.SingleRulings()); got != tt.want {
				t.Errorf("SingleRulings() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestStructureRows(t *testing.T) {
	row := model.NewTextBlock(makeChunk("x", 10, 10, 20, 10), makeChunk("y", 50, 10, 20, 10))
	snap := New(Content{StructureRows: []model.TextBlock{row}})

	if n := len(snap.StructureRows(model.NewRect(0, 0, 100, 50))); n != 1 {
		t.Errorf("expected 1 row inside, got %d", n)
	}
	if n := len(snap.StructureRows(model.NewRect(0, 100, 100, 50))); n != 0 {
		t.Errorf("expected 0 rows outside, got %d", n)
	}
}
