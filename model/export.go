package model

import (
	"bytes"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ToMarkdown converts the table to markdown format. Markdown has no spans,
// so span members render as empty cells.
func (t *Table) ToMarkdown() string {
	if t.RowCount() == 0 || t.ColCount() == 0 {
		return ""
	}

	var sb strings.Builder
	writeRow := func(r int) {
		for c := 0; c < t.ColCount(); c++ {
			sb.WriteString("| ")
			sb.WriteString(strings.ReplaceAll(t.Text(r, c), "\n", " "))
			sb.WriteString(" ")
		}
		sb.WriteString("|\n")
	}

	// Header row
	writeRow(0)

	// Separator
	for c := 0; c < t.ColCount(); c++ {
		sb.WriteString("|---")
	}
	sb.WriteString("|\n")

	// Data rows
	for r := 1; r < t.RowCount(); r++ {
		writeRow(r)
	}

	return sb.String()
}

// ToCSV converts the table to CSV format
func (t *Table) ToCSV() string {
	var sb strings.Builder
	for r := 0; r < t.RowCount(); r++ {
		for c := 0; c < t.ColCount(); c++ {
			// Escape quotes and wrap in quotes if necessary
			text := t.Text(r, c)
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if c < t.ColCount()-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ToHTML renders the table as an HTML <table> element. Spanning cells are
// emitted once, at their anchor, with rowspan/colspan attributes.
func (t *Table) ToHTML() (string, error) {
	table := &html.Node{Type: html.ElementNode, Data: "table", DataAtom: atom.Table}
	tbody := &html.Node{Type: html.ElementNode, Data: "tbody", DataAtom: atom.Tbody}
	table.AppendChild(tbody)

	for r := 0; r < t.RowCount(); r++ {
		tr := &html.Node{Type: html.ElementNode, Data: "tr", DataAtom: atom.Tr}
		for c := 0; c < t.ColCount(); c++ {
			if !t.IsAnchor(r, c) {
				continue
			}
			cell := t.CellAt(r, c)
			td := &html.Node{Type: html.ElementNode, Data: "td", DataAtom: atom.Td}
			if cell.RowSpan > 1 {
				td.Attr = append(td.Attr, html.Attribute{Key: "rowspan", Val: strconv.Itoa(cell.RowSpan)})
			}
			if cell.ColSpan > 1 {
				td.Attr = append(td.Attr, html.Attribute{Key: "colspan", Val: strconv.Itoa(cell.ColSpan)})
			}
			for i, line := range strings.Split(cell.Text, "\n") {
				if i > 0 {
					td.AppendChild(&html.Node{Type: html.ElementNode, Data: "br", DataAtom: atom.Br})
				}
				if line != "" {
					td.AppendChild(&html.Node{Type: html.TextNode, Data: line})
				}
			}
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, table); err != nil {
		return "", err
	}
	return buf.String(), nil
}
