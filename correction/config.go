package correction

import (
	"io"
	"log/slog"

	"github.com/tsawler/tabgrid/layout"
)

// Config holds the thresholds of boundary correction. Distances are given
// in row heights unless noted otherwise.
type Config struct {
	// Row configures row assembly inside and around the region
	Row layout.RowConfig `yaml:"row"`

	// MaxDrops aborts shrinking an edge after this many consecutive
	// dropped rows; the rows are then kept
	MaxDrops int `yaml:"max_drops"`

	// MinWords is the word count a line needs to read as a sentence
	MinWords int `yaml:"min_words"`

	// HeadingRunes bounds the length of a numbered heading
	HeadingRunes int `yaml:"heading_runes"`

	// FullWidth marks a single-chunk row at least this share of the table
	// width as a running line
	FullWidth float64 `yaml:"full_width"`

	// BlockWidth and BlockGap detect the start of a new text block: a row
	// narrower than BlockWidth of the table, separated from its neighbour
	// by more than BlockGap row heights
	BlockWidth float64 `yaml:"block_width"`
	BlockGap   float64 `yaml:"block_gap"`

	// ProbeShare and ProbeRows size the probe window: the smaller of
	// ProbeShare of the table height and ProbeRows edge-row heights
	ProbeShare float64 `yaml:"probe_share"`
	ProbeRows  float64 `yaml:"probe_rows"`

	// RulingMin and RulingMax bound the distance of a lone ruling that
	// replaces the probe window's far side
	RulingMin float64 `yaml:"ruling_min"`
	RulingMax float64 `yaml:"ruling_max"`

	// DoubleHeight stops growth at a row this many times the table's row
	// height
	DoubleHeight float64 `yaml:"double_height"`

	// EscapeChars stops growth at a row reaching this many char widths
	// beyond the table's sides
	EscapeChars float64 `yaml:"escape_chars"`

	// TightRhythm classifies a table as tight when its median row gap is
	// at most this many row heights
	TightRhythm float64 `yaml:"tight_rhythm"`

	// TightGap is the largest gap a tight table accepts; above StrictGap
	// the row must also align with the columns
	TightGap  float64 `yaml:"tight_gap"`
	StrictGap float64 `yaml:"strict_gap"`

	// LooseGap is the largest gap of a loose table, in established gaps
	LooseGap float64 `yaml:"loose_gap"`

	// AlignShare is the share of a row's chunks that must fall into a
	// single column each for the row to count as aligned
	AlignShare float64 `yaml:"align_share"`

	// WideRow is the column count above which an inner row makes a lone
	// absorbed neighbour suspicious
	WideRow int `yaml:"wide_row"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Row:          layout.DefaultRowConfig(),
		MaxDrops:     3,
		MinWords:     4,
		HeadingRunes: 40,
		FullWidth:    0.9,
		BlockWidth:   0.5,
		BlockGap:     1.5,
		ProbeShare:   0.5,
		ProbeRows:    3.0,
		RulingMin:    1.5,
		RulingMax:    15.0,
		DoubleHeight: 2.0,
		EscapeChars:  2.0,
		TightRhythm:  1.0,
		TightGap:     2.5,
		StrictGap:    1.5,
		LooseGap:     1.5,
		AlignShare:   0.8,
		WideRow:      8,
	}
}

// Corrector adjusts the vertical extent of approximate table regions
type Corrector struct {
	config Config
	rows   *layout.RowDetector
	logger *slog.Logger
}

// NewCorrector creates a corrector with default configuration
func NewCorrector() *Corrector {
	return NewCorrectorWithConfig(DefaultConfig())
}

// NewCorrectorWithConfig creates a corrector with custom configuration
func NewCorrectorWithConfig(config Config) *Corrector {
	return &Corrector{
		config: config,
		rows:   layout.NewRowDetectorWithConfig(config.Row),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger used for diagnostics
func (c *Corrector) WithLogger(logger *slog.Logger) *Corrector {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Config returns the corrector configuration
func (c *Corrector) Config() Config { return c.config }
