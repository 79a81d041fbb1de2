package report

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/tsawler/tabgrid"
	"github.com/tsawler/tabgrid/detect"
	"github.com/tsawler/tabgrid/model"
)

func sampleTable(t *testing.T) *model.Table {
	t.Helper()
	table := model.NewTable(2, 2)
	table.Kind = model.NoLineTable
	table.Source = model.SourceHint
	table.Bounds = model.NewRect(10, 20, 200, 40)
	cells := []model.Cell{
		{Row: 0, Col: 0, Text: "Segment"},
		{Row: 0, Col: 1, Text: "Revenue"},
		{Row: 1, Col: 0, Text: "Retail"},
		{Row: 1, Col: 1, Text: "1,200"},
	}
	for _, c := range cells {
		if _, err := table.AddCell(c); err != nil {
			t.Fatalf("AddCell failed: %v", err)
		}
	}
	return table
}

func TestWriter(t *testing.T) {
	results := []tabgrid.PageResult{{
		Page:    2,
		Tables:  []*model.Table{sampleTable(t)},
		Classes: []detect.Classification{{Type: "borderless", Score: 0.9}},
	}}
	warnings := []tabgrid.Warning{{Page: 2, Stage: tabgrid.StageDetect, Message: errors.New("timeout").Error()}}

	var buf bytes.Buffer
	if err := NewWriter(&buf).Write("pages.yaml", results, warnings); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# Table Report",
		"## Summary",
		"## Page 2, table 1",
		"NoLineTable",
		"borderless",
		"Segment",
		"Retail",
		"1,200",
		"page 2: detect: timeout",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q", want)
		}
	}
}

func TestWriter_NoWarnings(t *testing.T) {
	var buf bytes.Buffer
	if err := NewWriter(&buf).Write("", nil, nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "Source:") {
		t.Error("expected no source line")
	}
	if !strings.Contains(out, "No warnings.") {
		t.Error("expected a no-warnings tip")
	}
}
