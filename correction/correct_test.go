package correction

import (
	"fmt"
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

// tableRows lays out n three-column rows starting at y, 20 units apart
func tableRows(n int, y float64) []model.TextChunk {
	var chunks []model.TextChunk
	for r := 0; r < n; r++ {
		top := y + float64(r)*20
		chunks = append(chunks,
			makeChunk(fmt.Sprintf("Segment %c", 'A'+r), 10, top, 60, 10),
			makeChunk(fmt.Sprintf("%d", 120+r), 150, top, 30, 10),
			makeChunk(fmt.Sprintf("%d", 135+r), 250, top, 30, 10),
		)
	}
	return chunks
}

func snapshot(chunks ...model.TextChunk) *page.Snapshot {
	return page.New(page.Content{Width: 300, Height: 200, Chunks: chunks})
}

func assertContains(t *testing.T, r *model.Rect, chunks []model.TextChunk) {
	t.Helper()
	for _, c := range chunks {
		if !r.ContainsRect(c.Bounds, 0) {
			t.Errorf("Result %+v does not contain %q at %+v", *r, c.Text, c.Bounds)
		}
	}
}

func TestCorrect_DropsSourceLine(t *testing.T) {
	table := tableRows(4, 10)
	source := makeChunk("Source: Company filings", 10, 90, 120, 10)
	src := snapshot(append(table, source)...)

	got := NewCorrector().Correct(model.NewRect(0, 0, 300, 105), src, nil)
	if got == nil {
		t.Fatal("Expected a corrected rect")
	}
	if got.Bottom() != 80 {
		t.Errorf("Expected bottom 80, got %v", got.Bottom())
	}
	if got.Top != 0 {
		t.Errorf("Expected top to stay at 0, got %v", got.Top)
	}
	assertContains(t, got, table)
}

func TestCorrect_DropsHeading(t *testing.T) {
	table := tableRows(3, 20)
	heading := makeChunk("1. Segment results", 10, 0, 100, 10)
	src := snapshot(append(table, heading)...)

	got := NewCorrector().Correct(model.NewRect(0, 0, 300, 75), src, nil)
	if got == nil {
		t.Fatal("Expected a corrected rect")
	}
	if got.Top != 20 {
		t.Errorf("Expected top 20, got %v", got.Top)
	}
	assertContains(t, got, table)
}

func TestCorrect_ShrinkAbortsAfterMaxDrops(t *testing.T) {
	tests := []struct {
		name    string
		notes   []model.TextChunk
		wantTop float64
	}{
		{
			name: "two notes are dropped",
			notes: []model.TextChunk{
				makeChunk("Note: second", 10, 15, 80, 10),
				makeChunk("Note: third", 10, 30, 80, 10),
			},
			wantTop: 50,
		},
		{
			name: "three notes abort the shrink",
			notes: []model.TextChunk{
				makeChunk("Note: first", 10, 0, 80, 10),
				makeChunk("Note: second", 10, 15, 80, 10),
				makeChunk("Note: third", 10, 30, 80, 10),
			},
			wantTop: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := snapshot(append(tableRows(3, 50), tt.notes...)...)
			got := NewCorrector().Correct(model.NewRect(0, 0, 300, 105), src, nil)
			if got == nil {
				t.Fatal("Expected a corrected rect")
			}
			if got.Top != tt.wantTop {
				t.Errorf("Expected top %v, got %v", tt.wantTop, got.Top)
			}
		})
	}
}

func TestCorrect_GrowsToTableEnd(t *testing.T) {
	table := tableRows(5, 10)
	para := makeChunk("This is a long explanatory sentence about the table.", 10, 120, 270, 10)
	src := snapshot(append(table, para)...)

	got := NewCorrector().Correct(model.NewRect(0, 0, 300, 45), src, nil)
	if got == nil {
		t.Fatal("Expected a corrected rect")
	}
	if got.Bottom() != 100 {
		t.Errorf("Expected growth to stop at 100, got %v", got.Bottom())
	}
	assertContains(t, got, table)
}

func TestCorrect_GrowthStopsAtFence(t *testing.T) {
	src := snapshot(tableRows(5, 10)...)
	fences := []model.Rect{model.NewRect(0, 65, 300, 40)}

	got := NewCorrector().Correct(model.NewRect(0, 0, 300, 45), src, fences)
	if got == nil {
		t.Fatal("Expected a corrected rect")
	}
	if got.Bottom() != 60 {
		t.Errorf("Expected bottom 60, got %v", got.Bottom())
	}
	if got.Intersects(fences[0]) {
		t.Errorf("Result %+v enters the fence", *got)
	}
}

func TestCorrect_InvalidatesLoneRowUnderWideRow(t *testing.T) {
	wide := func(numeric bool) []model.TextChunk {
		var chunks []model.TextChunk
		for _, y := range []float64{10, 30} {
			for c := 0; c < 9; c++ {
				txt := string(rune('a' + c))
				if numeric {
					txt = fmt.Sprintf("%d", c+1)
				}
				chunks = append(chunks, makeChunk(txt, 10+float64(c)*30, y, 20, 10))
			}
		}
		return chunks
	}

	tests := []struct {
		name       string
		numeric    bool
		wantBottom float64
	}{
		{"text row rejects lone row", false, 45},
		{"numeric row keeps lone row", true, 60},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lone := makeChunk("x", 100, 50, 20, 10)
			src := snapshot(append(wide(tt.numeric), lone)...)

			got := NewCorrector().Correct(model.NewRect(0, 0, 300, 45), src, nil)
			if got == nil {
				t.Fatal("Expected a corrected rect")
			}
			if got.Bottom() != tt.wantBottom {
				t.Errorf("Expected bottom %v, got %v", tt.wantBottom, got.Bottom())
			}
		})
	}
}

func TestCorrect_Monotonic(t *testing.T) {
	table := tableRows(5, 10)
	para := makeChunk("This is a long explanatory sentence about the table.", 10, 120, 270, 10)
	src := snapshot(append(table, para)...)

	rects := []model.Rect{
		model.NewRect(0, 0, 300, 105),
		model.NewRect(0, 5, 300, 60),
		model.NewRect(0, 40, 300, 70),
	}
	for _, r := range rects {
		var inside []model.TextChunk
		for _, c := range table {
			if r.ContainsRect(c.Bounds, 0) {
				inside = append(inside, c)
			}
		}
		got := NewCorrector().Correct(r, src, nil)
		if got == nil {
			t.Fatalf("Correct(%+v) returned nil", r)
		}
		assertContains(t, got, inside)
	}
}

func TestCorrect_NoRows(t *testing.T) {
	tests := []struct {
		name   string
		chunks []model.TextChunk
	}{
		{"empty page", nil},
		{"only prose", []model.TextChunk{
			makeChunk("Source: Company filings", 10, 10, 120, 10),
			makeChunk("Note: figures are unaudited", 10, 30, 150, 10),
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCorrector().Correct(model.NewRect(0, 0, 300, 50), snapshot(tt.chunks...), nil)
			if got != nil {
				t.Errorf("Expected nil, got %+v", *got)
			}
		})
	}
}

// tableRow lays out one three-column row at y like tableRows does
func tableRow(label string, y float64) []model.TextChunk {
	return []model.TextChunk{
		makeChunk(label, 10, y, 60, 10),
		makeChunk("120", 150, y, 30, 10),
		makeChunk("135", 250, y, 30, 10),
	}
}

func TestCorrect_LoneRulingBoundsGrowth(t *testing.T) {
	tests := []struct {
		name       string
		ruling     float64
		config     func(*Config)
		wantBottom float64
	}{
		{name: "no ruling", wantBottom: 120},
		{name: "ruling stops growth", ruling: 85, wantBottom: 80},
		{name: "row crossing the ruling is left out", ruling: 75, wantBottom: 65},
		{name: "ruling too close is ignored", ruling: 62, wantBottom: 120},
		{
			name:       "ruling too far is ignored",
			ruling:     85,
			config:     func(c *Config) { c.RulingMax = 2 },
			wantBottom: 120,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := page.Content{
				Width:  300,
				Height: 200,
				Chunks: append(tableRows(3, 10), tableRows(3, 70)...),
			}
			if tt.ruling > 0 {
				content.Rulings = []model.Ruling{model.NewHorizontal(tt.ruling, 0, 300)}
			}
			cfg := DefaultConfig()
			if tt.config != nil {
				tt.config(&cfg)
			}

			got := NewCorrectorWithConfig(cfg).Correct(model.NewRect(0, 0, 300, 65), page.New(content), nil)
			if got == nil {
				t.Fatal("Expected a corrected rect")
			}
			if got.Bottom() != tt.wantBottom {
				t.Errorf("Expected bottom %v, got %v", tt.wantBottom, got.Bottom())
			}
		})
	}
}

func TestCorrect_GrowthRhythm(t *testing.T) {
	// loose rows are 30 apart, leaving gaps of 20 against a row height of 10
	loose := func(next float64) []model.TextChunk {
		var chunks []model.TextChunk
		for _, y := range []float64{10, 40, 70, next} {
			chunks = append(chunks, tableRow("Segment", y)...)
		}
		return chunks
	}
	straddling := []model.TextChunk{
		makeChunk("D", 10, 80, 30, 10),
		makeChunk("spans two columns", 60, 80, 100, 10),
		makeChunk("138", 250, 80, 30, 10),
	}

	tests := []struct {
		name       string
		chunks     []model.TextChunk
		rect       model.Rect
		wantBottom float64
	}{
		{
			name:       "loose row within the median gap",
			chunks:     loose(105),
			rect:       model.NewRect(0, 0, 300, 85),
			wantBottom: 115,
		},
		{
			name:       "loose row past the median gap",
			chunks:     loose(110),
			rect:       model.NewRect(0, 0, 300, 85),
			wantBottom: 85,
		},
		{
			name:       "wide gap accepted for an aligned row",
			chunks:     append(tableRows(3, 10), tableRow("Segment D", 80)...),
			rect:       model.NewRect(0, 0, 300, 65),
			wantBottom: 90,
		},
		{
			name:       "wide gap rejected for a misaligned row",
			chunks:     append(tableRows(3, 10), straddling...),
			rect:       model.NewRect(0, 0, 300, 65),
			wantBottom: 65,
		},
		{
			name:       "continuation row starting in a later column",
			chunks:     append(tableRows(3, 10), makeChunk("77", 150, 70, 30, 10)),
			rect:       model.NewRect(0, 0, 300, 65),
			wantBottom: 80,
		},
		{
			name:       "single chunk in the first column",
			chunks:     append(tableRows(3, 10), makeChunk("77", 10, 70, 30, 10)),
			rect:       model.NewRect(0, 0, 300, 65),
			wantBottom: 65,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewCorrector().Correct(tt.rect, snapshot(tt.chunks...), nil)
			if got == nil {
				t.Fatal("Expected a corrected rect")
			}
			if got.Bottom() != tt.wantBottom {
				t.Errorf("Expected bottom %v, got %v", tt.wantBottom, got.Bottom())
			}
		})
	}
}
