package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/tsawler/tabgrid"
	"github.com/tsawler/tabgrid/model"
)

// Writer renders results to an io.Writer
type Writer struct {
	output io.Writer
}

// NewWriter creates a Writer that outputs to the given writer
func NewWriter(output io.Writer) *Writer {
	return &Writer{output: output}
}

// Write renders the results and warnings of one run
func (w *Writer) Write(source string, results []tabgrid.PageResult, warnings []tabgrid.Warning) error {
	md := markdown.NewMarkdown(w.output)

	md.H1("Table Report")
	md.PlainText("")
	if source != "" {
		md.PlainText("Source: `" + source + "`")
		md.PlainText("")
	}

	writeSummary(md, results, warnings)
	for _, r := range results {
		writePage(md, r)
	}
	writeWarnings(md, warnings)

	return md.Build()
}

// writeSummary writes one row per page
func writeSummary(md *markdown.Markdown, results []tabgrid.PageResult, warnings []tabgrid.Warning) {
	md.H2("Summary")
	md.PlainText("")

	perPage := make(map[int]int)
	for _, w := range warnings {
		perPage[w.Page]++
	}

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		lines, flows := 0, 0
		for _, t := range r.Tables {
			if t.Kind == model.LineTable {
				lines++
			} else {
				flows++
			}
		}
		rows = append(rows, []string{
			strconv.Itoa(r.Page),
			strconv.Itoa(len(r.Tables)),
			strconv.Itoa(lines),
			strconv.Itoa(flows),
			strconv.Itoa(perPage[r.Page]),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Page", "Tables", "Ruled", "Text flow", "Warnings"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writePage(md *markdown.Markdown, r tabgrid.PageResult) {
	for i, t := range r.Tables {
		md.H2(fmt.Sprintf("Page %d, table %d", r.Page, i+1))
		md.PlainText("")

		props := [][]string{
			{"Kind", t.Kind.String()},
			{"Source", string(t.Source)},
			{"Bounds", formatRect(t.Bounds)},
			{"Size", fmt.Sprintf("%d x %d", t.RowCount(), t.ColCount())},
			{"Confidence", strconv.FormatFloat(t.Confidence, 'f', 2, 64)},
		}
		if i < len(r.Classes) && r.Classes[i].Type != "" {
			props = append(props, []string{"Class", r.Classes[i].Type})
		}
		md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: props})
		md.PlainText("")

		if t.RowCount() == 0 || t.ColCount() == 0 {
			continue
		}
		md.Table(contents(t))
		md.PlainText("")
	}
}

// contents turns the first row into the header. Span members stay empty.
func contents(t *model.Table) markdown.TableSet {
	row := func(r int) []string {
		out := make([]string, t.ColCount())
		for c := range out {
			out[c] = cellText(t.Text(r, c))
		}
		return out
	}

	set := markdown.TableSet{Header: row(0)}
	for r := 1; r < t.RowCount(); r++ {
		set.Rows = append(set.Rows, row(r))
	}
	return set
}

func cellText(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}

func writeWarnings(md *markdown.Markdown, warnings []tabgrid.Warning) {
	md.H2("Warnings")
	md.PlainText("")
	if len(warnings) == 0 {
		md.Tip("No warnings.")
		md.PlainText("")
		return
	}

	md.Warningf("%d region(s) or source(s) failed and contributed nothing.", len(warnings))
	md.PlainText("")
	items := make([]string, len(warnings))
	for i, w := range warnings {
		items[i] = w.String()
	}
	md.BulletList(items...)
	md.PlainText("")
}

func formatRect(r model.Rect) string {
	return fmt.Sprintf("%.1f, %.1f, %.1f x %.1f", r.Left, r.Top, r.Width, r.Height)
}
