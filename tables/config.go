package tables

import (
	"io"
	"log/slog"

	"github.com/tsawler/tabgrid/layout"
)

// Config holds the calibration constants of the table builders. Several of
// the defaults were tuned on financial reports and have no deeper
// derivation; change them with care.
type Config struct {
	// SplitTolerance merges ruling positions closer than this into one
	// row or column split (points)
	SplitTolerance float64 `yaml:"split_tolerance"`

	// BorderCoverage is the share of a cell border a ruling must exceed
	// for the border to count as drawn
	BorderCoverage float64 `yaml:"border_coverage"`

	// ChunkShrink is the inset applied to chunk bounds before they are
	// matched against lattice cells (points)
	ChunkShrink float64 `yaml:"chunk_shrink"`

	// LatticeCoverage is the share of a region the rulings must span, and
	// the share of its chunks they must enclose, for a lattice build
	LatticeCoverage float64 `yaml:"lattice_coverage"`

	// MinRulingLength drops shorter rulings during frame discovery (points)
	MinRulingLength float64 `yaml:"min_ruling_length"`

	// RulingTouch is the slack used when deciding whether two rulings
	// meet (points)
	RulingTouch float64 `yaml:"ruling_touch"`

	// Row configures row assembly for text-flow tables
	Row layout.RowConfig `yaml:"row"`

	// ParagraphShare rejects a text-flow region when more than this share
	// of its rows are paragraphs
	ParagraphShare float64 `yaml:"paragraph_share"`

	// ParagraphHeight and ParagraphWidth define a paragraph row: a single
	// chunk at least ParagraphHeight char heights tall and ParagraphWidth
	// of the region wide
	ParagraphHeight float64 `yaml:"paragraph_height"`
	ParagraphWidth  float64 `yaml:"paragraph_width"`

	// BandGap merges projected column bands closer than this many
	// average char widths
	BandGap float64 `yaml:"band_gap"`

	// MaxDepth bounds recursive column splitting
	MaxDepth int `yaml:"max_depth"`

	// SnapOverlap snaps an inferred column to the max-count estimate when
	// their overlap exceeds this share of the narrower one
	SnapOverlap float64 `yaml:"snap_overlap"`

	// OutlierWiden trims a single chunk that alone widens its column by
	// more than this share of the width of the others
	OutlierWiden float64 `yaml:"outlier_widen"`

	// SplitLow and SplitHigh make a two-column overlap with one ratio
	// below SplitLow or above SplitHigh count as a single hit
	SplitLow  float64 `yaml:"split_low"`
	SplitHigh float64 `yaml:"split_high"`

	// RowSpanOverlap is the share of each sub-band a chunk must cover to
	// span it
	RowSpanOverlap float64 `yaml:"row_span_overlap"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		SplitTolerance:  5.0,
		BorderCoverage:  0.5,
		ChunkShrink:     1.0,
		LatticeCoverage: 0.9,
		MinRulingLength: 10.0,
		RulingTouch:     2.0,
		Row:             layout.DefaultRowConfig(),
		ParagraphShare:  0.5,
		ParagraphHeight: 2.0,
		ParagraphWidth:  0.6,
		BandGap:         0.5,
		MaxDepth:        4,
		SnapOverlap:     0.8,
		OutlierWiden:    0.5,
		SplitLow:        0.1,
		SplitHigh:       0.9,
		RowSpanOverlap:  0.5,
	}
}

// Builder builds tables for regions of a page
type Builder struct {
	config Config
	logger *slog.Logger
}

// NewBuilder creates a builder with default configuration. Logs are
// discarded unless a logger is supplied with WithLogger.
func NewBuilder() *Builder {
	return &Builder{
		config: DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// NewBuilderWithConfig creates a builder with custom configuration
func NewBuilderWithConfig(config Config) *Builder {
	b := NewBuilder()
	b.config = config
	return b
}

// WithLogger sets the logger used for diagnostics
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// Config returns the builder configuration
func (b *Builder) Config() Config { return b.config }
