package main

import (
	"fmt"
	"io"

	"github.com/tsawler/tabgrid"
	"github.com/tsawler/tabgrid/internal/report"
)

const (
	formatMarkdown = "markdown"
	formatCSV      = "csv"
	formatHTML     = "html"
	formatReport   = "report"
)

func validFormat(f string) bool {
	switch f {
	case formatMarkdown, formatCSV, formatHTML, formatReport:
		return true
	}
	return false
}

// writeResults prints every table in the chosen format. The report format
// also carries the warnings.
func writeResults(w io.Writer, format, source string, results []tabgrid.PageResult, warnings []tabgrid.Warning) error {
	if format == formatReport {
		return report.NewWriter(w).Write(source, results, warnings)
	}

	for _, r := range results {
		for i, t := range r.Tables {
			var (
				body string
				err  error
			)
			switch format {
			case formatCSV:
				_, err = fmt.Fprintf(w, "# page %d, table %d\n", r.Page, i+1)
				body = t.ToCSV()
			case formatHTML:
				_, err = fmt.Fprintf(w, "<!-- page %d, table %d -->\n", r.Page, i+1)
				if err == nil {
					body, err = t.ToHTML()
					body += "\n"
				}
			default:
				_, err = fmt.Fprintf(w, "## Page %d, table %d\n\n", r.Page, i+1)
				body = t.ToMarkdown()
			}
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintln(w, body); err != nil {
				return err
			}
		}
	}
	return nil
}
