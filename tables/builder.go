package tables

import (
	"fmt"

	"github.com/tsawler/tabgrid/model"
)

// BuildTable builds the table for a region. A sufficient ruling grid yields
// a line table; anything else is inferred from text flow. It returns nil
// when the region holds neither text nor rulings, or reads as prose.
func (b *Builder) BuildTable(in Input) (*model.Table, error) {
	if len(validChunks(in.Chunks)) == 0 && len(in.StructureRows) == 0 &&
		(len(in.Horizontal) == 0 || len(in.Vertical) == 0) {
		return nil, nil
	}

	var (
		t   *model.Table
		err error
	)
	if HasLattice(in.Bounds, in.Horizontal, in.Vertical, in.Chunks, b.config) {
		t, err = b.BuildLattice(in.Bounds, in.Horizontal, in.Vertical, in.Chunks)
	} else {
		t, err = b.BuildFlow(in)
	}
	if err != nil || t == nil {
		return nil, err
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("%s table: %w", t.Kind, err)
	}
	return t, nil
}
