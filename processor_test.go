package tabgrid

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/tabgrid/config"
	"github.com/tsawler/tabgrid/detect"
	"github.com/tsawler/tabgrid/model"
	"github.com/tsawler/tabgrid/page"
)

func makeChunk(txt string, x, y, w, h float64) model.TextChunk {
	return model.TextChunk{
		Text:          txt,
		Bounds:        model.NewRect(x, y, w, h),
		AvgCharHeight: 10,
		AvgCharWidth:  5,
	}
}

// ruledGrid returns a 3x3 ruled table at (50,100) with one chunk per cell
func ruledGrid() ([]model.Ruling, []model.TextChunk) {
	var rulings []model.Ruling
	for _, y := range []float64{100, 120, 140, 160} {
		rulings = append(rulings, model.NewHorizontal(y, 50, 350))
	}
	for _, x := range []float64{50, 150, 250, 350} {
		rulings = append(rulings, model.NewVertical(x, 100, 160))
	}
	var chunks []model.TextChunk
	for i, n := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i"} {
		r, c := i/3, i%3
		chunks = append(chunks, makeChunk(n, 50+float64(c)*100+30, 100+float64(r)*20+5, 20, 10))
	}
	return rulings, chunks
}

// textColumns lays out five rows of two aligned columns starting at y
func textColumns(y float64) []model.TextChunk {
	var chunks []model.TextChunk
	for r := 0; r < 5; r++ {
		top := y + float64(r)*20
		chunks = append(chunks,
			makeChunk(fmt.Sprintf("item %d", r), 10, top, 40, 10),
			makeChunk(fmt.Sprintf("%d00", r), 200, top, 40, 10),
		)
	}
	return chunks
}

func testPage(number int) *page.Snapshot {
	rulings, chunks := ruledGrid()
	chunks = append(chunks, textColumns(300)...)
	return page.New(page.Content{
		Number:  number,
		Width:   400,
		Height:  600,
		Chunks:  chunks,
		Rulings: rulings,
		Hints:   []model.Rect{model.NewRect(0, 290, 300, 110)},
	})
}

type failingDetector struct{}

func (failingDetector) DetectTableRegions(context.Context, image.Image) ([]detect.Region, error) {
	return nil, errors.New("model unavailable")
}

type fixedClassifier struct{ label string }

func (c fixedClassifier) ClassifyTableImage(context.Context, image.Image) (detect.Classification, error) {
	return detect.Classification{Type: c.label, Score: 1}, nil
}

func blankPage(context.Context, int) (image.Image, error) {
	return image.NewRGBA(image.Rect(0, 0, 400, 600)), nil
}

func TestProcessPage(t *testing.T) {
	p := FromSnapshots()
	result, warnings := p.ProcessPage(context.Background(), testPage(1))

	if len(warnings) != 0 {
		t.Errorf("Unexpected warnings:\n%s", FormatWarnings(warnings))
	}
	if len(result.Tables) != 2 {
		t.Fatalf("Expected 2 tables, got %d", len(result.Tables))
	}

	lattice, flow := result.Tables[0], result.Tables[1]
	if lattice.Kind != model.LineTable || lattice.Source != model.SourceLattice {
		t.Errorf("first table: kind %v source %v", lattice.Kind, lattice.Source)
	}
	if lattice.RowCount() != 3 || lattice.ColCount() != 3 {
		t.Errorf("lattice is %dx%d, want 3x3", lattice.RowCount(), lattice.ColCount())
	}
	if got := lattice.Text(1, 2); got != "f" {
		t.Errorf("lattice (1,2) = %q, want f", got)
	}

	if flow.Kind != model.NoLineTable || flow.Source != model.SourceHint {
		t.Errorf("second table: kind %v source %v", flow.Kind, flow.Source)
	}
	if flow.RowCount() != 5 || flow.ColCount() != 2 {
		t.Errorf("flow table is %dx%d, want 5x2", flow.RowCount(), flow.ColCount())
	}
	for _, table := range result.Tables {
		if err := table.Validate(); err != nil {
			t.Errorf("table at %v: %v", table.Bounds, err)
		}
	}
	if result.Classes != nil {
		t.Errorf("Expected no classes without a classifier")
	}
}

func TestProcessPage_DetectorFailureIsAWarning(t *testing.T) {
	tests := []struct {
		name      string
		render    ImageSource
		wantStage Stage
	}{
		{name: "detector fails", render: blankPage, wantStage: StageDetect},
		{
			name: "render fails",
			render: func(context.Context, int) (image.Image, error) {
				return nil, errors.New("no raster")
			},
			wantStage: StageRender,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromSnapshots().WithDetector(failingDetector{}, tt.render)
			result, warnings := p.ProcessPage(context.Background(), testPage(4))

			if len(warnings) != 1 {
				t.Fatalf("Expected 1 warning, got %d", len(warnings))
			}
			if warnings[0].Stage != tt.wantStage || warnings[0].Page != 4 {
				t.Errorf("Unexpected warning %s", warnings[0])
			}
			if len(result.Tables) != 2 {
				t.Errorf("Other sources should still yield 2 tables, got %d", len(result.Tables))
			}
		})
	}
}

type fixedDetector struct{ box image.Rectangle }

func (d fixedDetector) DetectTableRegions(context.Context, image.Image) ([]detect.Region, error) {
	return []detect.Region{{Box: d.box, Type: detect.TypeTable, Score: 0.9}}, nil
}

func TestProcessPage_RegionWithoutRowsIsAWarning(t *testing.T) {
	rulings, chunks := ruledGrid()
	chunks = append(chunks, textColumns(300)...)
	chunks = append(chunks,
		makeChunk("Source: Company filings", 10, 460, 120, 10),
		makeChunk("Note: figures are unaudited", 10, 480, 150, 10),
	)
	snap := page.New(page.Content{
		Number:  2,
		Width:   400,
		Height:  600,
		Chunks:  chunks,
		Rulings: rulings,
		Hints:   []model.Rect{model.NewRect(0, 290, 300, 110)},
	})

	p := FromSnapshots().WithDetector(fixedDetector{box: image.Rect(0, 450, 300, 500)}, blankPage)
	result, warnings := p.ProcessPage(context.Background(), snap)

	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %d", len(warnings))
	}
	w := warnings[0]
	if w.Stage != StageCorrect || w.Page != 2 || w.Message != ErrNoTableRows.Error() {
		t.Errorf("Unexpected warning %s", w)
	}
	if w.Region.Top != 450 {
		t.Errorf("Warning region %+v, want the detected box", w.Region)
	}
	if len(result.Tables) != 2 {
		t.Errorf("Expected 2 tables, got %d", len(result.Tables))
	}
}

func TestProcessPage_Classifier(t *testing.T) {
	p := FromSnapshots().
		WithDetector(nil, blankPage).
		WithClassifier(fixedClassifier{label: "bordered"})

	result, warnings := p.ProcessPage(context.Background(), testPage(1))
	if len(warnings) != 0 {
		t.Fatalf("Unexpected warnings:\n%s", FormatWarnings(warnings))
	}
	if len(result.Classes) != len(result.Tables) {
		t.Fatalf("Expected %d classes, got %d", len(result.Tables), len(result.Classes))
	}
	for i, c := range result.Classes {
		if c.Type != "bordered" {
			t.Errorf("class %d = %q", i, c.Type)
		}
	}
}

func TestTables_PageSelectionAndOrder(t *testing.T) {
	snaps := []*page.Snapshot{testPage(1), testPage(2), testPage(3)}

	results, _, err := FromSnapshots(snaps...).Pages(3, 1).Workers(2).Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 pages, got %d", len(results))
	}
	if results[0].Page != 1 || results[1].Page != 3 {
		t.Errorf("Pages out of order: %d, %d", results[0].Page, results[1].Page)
	}
}

func TestTables_Errors(t *testing.T) {
	bad := config.Default()
	bad.Tables.SplitTolerance = 0

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		p    *Processor
		ctx  context.Context
		want error
	}{
		{name: "no input", p: Open(""), ctx: context.Background(), want: ErrNoInput},
		{name: "negative workers", p: FromSnapshots(testPage(1)).Workers(-1), ctx: context.Background(), want: config.ErrInvalidWorkers},
		{name: "invalid config", p: FromSnapshots(testPage(1)).WithConfig(bad), ctx: context.Background(), want: config.ErrInvalidTolerance},
		{name: "cancelled", p: FromSnapshots(testPage(1)), ctx: cancelled, want: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.p.Tables(tt.ctx)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pages.yaml")
	doc := `
number: 7
width: 400
height: 600
rulings:
  - {orientation: horizontal, position: 100, start: 50, end: 350}
  - {orientation: horizontal, position: 130, start: 50, end: 350}
  - {orientation: horizontal, position: 160, start: 50, end: 350}
  - {orientation: vertical, position: 50, start: 100, end: 160}
  - {orientation: vertical, position: 200, start: 100, end: 160}
  - {orientation: vertical, position: 350, start: 100, end: 160}
chunks:
  - {text: Year, bounds: [80, 110, 30, 10]}
  - {text: Total, bounds: [250, 110, 30, 10]}
  - {text: "2024", bounds: [80, 140, 30, 10]}
  - {text: "1,200", bounds: [250, 140, 30, 10]}
`
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	results := MustTables(Open(path).Tables(context.Background()))
	if len(results) != 1 || results[0].Page != 7 {
		t.Fatalf("Unexpected results %+v", results)
	}
	if len(results[0].Tables) != 1 {
		t.Fatalf("Expected 1 table, got %d", len(results[0].Tables))
	}
	table := results[0].Tables[0]
	if table.Text(1, 1) != "1,200" {
		t.Errorf("(1,1) = %q, want 1,200", table.Text(1, 1))
	}

	if _, _, err := Open(filepath.Join(t.TempDir(), "missing.yaml")).Tables(context.Background()); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestMust(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Must should panic on error")
		}
	}()
	Must(0, errors.New("boom"))
}
