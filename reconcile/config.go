package reconcile

import (
	"io"
	"log/slog"

	"github.com/tsawler/tabgrid/layout"
)

// Config holds the thresholds used when reconciling regions. Shares are
// fractions of an area unless noted otherwise.
type Config struct {
	// KeepProposal and KeepTable keep a proposal next to a table when
	// their intersection is below KeepProposal of the proposal or below
	// KeepTable of the table
	KeepProposal float64 `yaml:"keep_proposal"`
	KeepTable    float64 `yaml:"keep_table"`

	// Replace lets a proposal containing more than this share of a table
	// at most ReplaceSize of its own area take the table's place
	Replace     float64 `yaml:"replace"`
	ReplaceSize float64 `yaml:"replace_size"`

	// Heavy is the containment of a no-ruling table above which its
	// margins are probed
	Heavy float64 `yaml:"heavy"`

	// AlignShare is the share of margin chunks that must line up with
	// the table's columns or rows
	AlignShare float64 `yaml:"align_share"`

	// PageShare, UnionShare and ManyProposals drive the degenerate
	// table check: a no-ruling table over PageShare of the text area
	// holding several separate proposals is dropped when they cover less
	// than UnionShare of it or number at least ManyProposals
	PageShare     float64 `yaml:"page_share"`
	UnionShare    float64 `yaml:"union_share"`
	ManyProposals int     `yaml:"many_proposals"`

	// Absorb merges two proposals when the smaller lies at least this
	// share inside the larger
	Absorb float64 `yaml:"absorb"`

	// Tolerance is the slack for containment and edge alignment (points)
	Tolerance float64 `yaml:"tolerance"`

	// Row configures row assembly when splitting proposals
	Row layout.RowConfig `yaml:"row"`
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		KeepProposal:  0.2,
		KeepTable:     0.1,
		Replace:       0.9,
		ReplaceSize:   0.5,
		Heavy:         0.8,
		AlignShare:    0.8,
		PageShare:     0.8,
		UnionShare:    0.7,
		ManyProposals: 3,
		Absorb:        0.5,
		Tolerance:     2.0,
		Row:           layout.DefaultRowConfig(),
	}
}

// Reconciler merges region proposals from several sources with the tables
// already known on a page
type Reconciler struct {
	config Config
	rows   *layout.RowDetector
	logger *slog.Logger
}

// NewReconciler creates a reconciler with default configuration
func NewReconciler() *Reconciler {
	return NewReconcilerWithConfig(DefaultConfig())
}

// NewReconcilerWithConfig creates a reconciler with custom configuration
func NewReconcilerWithConfig(config Config) *Reconciler {
	return &Reconciler{
		config: config,
		rows:   layout.NewRowDetectorWithConfig(config.Row),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithLogger sets the logger used for diagnostics
func (r *Reconciler) WithLogger(logger *slog.Logger) *Reconciler {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Config returns the reconciler configuration
func (r *Reconciler) Config() Config { return r.config }
