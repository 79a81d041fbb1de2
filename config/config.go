package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/tsawler/tabgrid/correction"
	"github.com/tsawler/tabgrid/detect"
	"github.com/tsawler/tabgrid/reconcile"
	"github.com/tsawler/tabgrid/tables"
)

// AppName is used for the configuration and data directories
const AppName = "tabgrid"

// File is the calibration file. Every section mirrors the Config of the
// package it tunes; fields left out keep their defaults.
type File struct {
	Tables     tables.Config      `yaml:"tables"`
	Correction correction.Config  `yaml:"correction"`
	Reconcile  reconcile.Config   `yaml:"reconcile"`
	Image      detect.ImageConfig `yaml:"image"`

	// Workers bounds the pages processed at once; 0 means one per CPU
	Workers int `yaml:"workers"`

	// LogLevel is one of debug, info, warn or error
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in calibration
func Default() File {
	return File{
		Tables:     tables.DefaultConfig(),
		Correction: correction.DefaultConfig(),
		Reconcile:  reconcile.DefaultConfig(),
		Image:      detect.DefaultImageConfig(),
		LogLevel:   "warn",
	}
}

// ConfigDir returns the directory holding the user's configuration
func ConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// DataDir returns the directory holding result databases
func DataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultPath returns the default configuration file path
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Level returns the slog level named by LogLevel
func (f File) Level() (slog.Level, error) {
	switch strings.ToLower(f.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%q: %w", f.LogLevel, ErrInvalidLogLevel)
}

// Validate checks the calibration for values the algorithms cannot work
// with
func (f File) Validate() error {
	if f.Tables.SplitTolerance <= 0 {
		return ErrInvalidTolerance
	}
	if f.Tables.MaxDepth < 0 {
		return ErrInvalidDepth
	}
	if f.Correction.MaxDrops <= 0 {
		return ErrInvalidDrops
	}
	if f.Correction.RulingMin >= f.Correction.RulingMax {
		return ErrInvalidRulingRange
	}
	if f.Workers < 0 {
		return ErrInvalidWorkers
	}

	ratios := []struct {
		name  string
		value float64
	}{
		{"tables.border_coverage", f.Tables.BorderCoverage},
		{"tables.lattice_coverage", f.Tables.LatticeCoverage},
		{"tables.paragraph_share", f.Tables.ParagraphShare},
		{"tables.paragraph_width", f.Tables.ParagraphWidth},
		{"tables.snap_overlap", f.Tables.SnapOverlap},
		{"tables.split_high", f.Tables.SplitHigh},
		{"tables.row_span_overlap", f.Tables.RowSpanOverlap},
		{"tables.row.same_row_ratio", f.Tables.Row.SameRowRatio},
		{"correction.full_width", f.Correction.FullWidth},
		{"correction.block_width", f.Correction.BlockWidth},
		{"correction.probe_share", f.Correction.ProbeShare},
		{"correction.align_share", f.Correction.AlignShare},
		{"reconcile.keep_proposal", f.Reconcile.KeepProposal},
		{"reconcile.keep_table", f.Reconcile.KeepTable},
		{"reconcile.replace", f.Reconcile.Replace},
		{"reconcile.replace_size", f.Reconcile.ReplaceSize},
		{"reconcile.heavy", f.Reconcile.Heavy},
		{"reconcile.align_share", f.Reconcile.AlignShare},
		{"reconcile.page_share", f.Reconcile.PageShare},
		{"reconcile.union_share", f.Reconcile.UnionShare},
		{"reconcile.absorb", f.Reconcile.Absorb},
	}
	for _, r := range ratios {
		if r.value <= 0 || r.value > 1 {
			return fmt.Errorf("%s = %v: %w", r.name, r.value, ErrInvalidRatio)
		}
	}

	if _, err := f.Level(); err != nil {
		return err
	}
	return nil
}
