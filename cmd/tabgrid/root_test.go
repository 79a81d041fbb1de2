package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tsawler/tabgrid/config"
)

const ruledPage = `
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

// writePages stores the ruled page in a temporary file
func writePages(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pages.yaml")
	if err := os.WriteFile(path, []byte(ruledPage), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

// run executes the root command with args and returns stdout and stderr
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestNewRootCmd(t *testing.T) {
	cmd := NewRootCmd()
	if cmd.Use != "tabgrid" {
		t.Errorf("expected use 'tabgrid', got %q", cmd.Use)
	}
	if cmd.Version == "" {
		t.Error("expected non-empty version")
	}
	for _, name := range []string{"build", "runs", "init", "version"} {
		if c, _, err := cmd.Find([]string{name}); err != nil || c.Name() != name {
			t.Errorf("missing subcommand %q", name)
		}
	}
	if cmd.PersistentFlags().Lookup("verbose") == nil {
		t.Error("expected verbose flag")
	}
}

func TestBuildFormats(t *testing.T) {
	pages := writePages(t)

	tests := []struct {
		format string
		want   []string
	}{
		{format: "markdown", want: []string{"## Page 7, table 1", "| Year | Total |", "| 2024 | 1,200 |"}},
		{format: "csv", want: []string{"# page 7, table 1", "Year,Total", `2024,"1,200"`}},
		{format: "html", want: []string{"<!-- page 7, table 1 -->", "<table>", "<td>1,200</td>"}},
		{format: "report", want: []string{"# Table Report", "LineTable", "1,200"}},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, _, err := run(t, "build", pages, "--format", tt.format, "--db", t.TempDir())
			if err != nil {
				t.Fatalf("build failed: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, out)
				}
			}
		})
	}
}

func TestBuildErrors(t *testing.T) {
	pages := writePages(t)

	if _, _, err := run(t, "build", pages, "--format", "pdf"); err == nil {
		t.Error("expected an error for an unknown format")
	}

	missing := filepath.Join(t.TempDir(), "missing.yaml")
	_, _, err := run(t, "build", pages, "--config", missing)
	if !errors.Is(err, config.ErrConfigNotFound) {
		t.Errorf("err = %v, want ErrConfigNotFound", err)
	}

	if _, _, err := run(t, "build", missing); err == nil {
		t.Error("expected an error for a missing input file")
	}
}

func TestSaveAndRuns(t *testing.T) {
	pages := writePages(t)
	db := t.TempDir()

	if _, stderr, err := run(t, "build", pages, "--save", "--db", db); err != nil {
		t.Fatalf("build failed: %v", err)
	} else if !strings.Contains(stderr, "saved run 1") {
		t.Errorf("expected save notice, got %q", stderr)
	}

	out, _, err := run(t, "runs", "list", "--db", db)
	if err != nil {
		t.Fatalf("runs list failed: %v", err)
	}
	if !strings.Contains(out, pages) {
		t.Errorf("expected run source in listing:\n%s", out)
	}

	out, _, err = run(t, "runs", "show", "1", "--db", db)
	if err != nil {
		t.Fatalf("runs show failed: %v", err)
	}
	if !strings.Contains(out, "1,200") {
		t.Errorf("expected stored table in report:\n%s", out)
	}

	if _, _, err := run(t, "runs", "show", "x", "--db", db); err == nil {
		t.Error("expected an error for a bad run id")
	}
}

func TestInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "tabgrid.yaml")

	if _, _, err := run(t, "init", "-o", path); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("written configuration is invalid: %v", err)
	}

	if _, _, err := run(t, "init", "-o", path); err == nil {
		t.Error("expected an error when the file exists")
	}
	if _, _, err := run(t, "init", "-o", path, "-f"); err != nil {
		t.Errorf("init -f failed: %v", err)
	}
}
