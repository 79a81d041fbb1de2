package reconcile

import (
	"github.com/tsawler/tabgrid/model"
	"github.com/tsawler/tabgrid/page"
)

// verdict is the outcome of testing a proposal against a table
type verdict int

const (
	keepBoth verdict = iota
	replaceTable
	redundant
)

func (v verdict) String() string {
	switch v {
	case replaceTable:
		return "replace"
	case redundant:
		return "redundant"
	default:
		return "keep"
	}
}

// Regions reconciles proposals with the existing tables of a page. It
// returns the tables that survive and the proposals accepted as new
// regions. The inputs are not modified.
func (r *Reconciler) Regions(existing []*model.Table, proposals []model.TableRegion, src page.Source) ([]*model.Table, []model.TableRegion) {
	merged := r.mergeProposals(proposals, src)

	tables := make([]*model.Table, 0, len(existing))
	for _, t := range existing {
		if t == nil {
			continue
		}
		if r.degenerate(t, existing, merged, src) {
			r.logger.Debug("dropping table spanning several proposals", "bounds", t.Bounds)
			continue
		}
		tables = append(tables, t)
	}

	var accepted []model.TableRegion
	for _, p := range merged {
		i := largestIntersection(tables, p.Bounds)
		if i < 0 {
			accepted = append(accepted, p)
			continue
		}

		v := r.judge(tables[i], p, src)
		r.logger.Debug("proposal judged", "proposal", p.Bounds, "table", tables[i].Bounds, "verdict", v)
		switch v {
		case keepBoth:
			accepted = append(accepted, p)
		case replaceTable:
			tables = append(tables[:i], tables[i+1:]...)
			accepted = append(accepted, p)
		}
	}
	return tables, accepted
}

// largestIntersection returns the index of the table overlapping b the
// most, -1 when none does
func largestIntersection(tables []*model.Table, b model.Rect) int {
	best, bestArea := -1, 0.0
	for i, t := range tables {
		if a := t.Bounds.Intersection(b).Area(); a > bestArea {
			best, bestArea = i, a
		}
	}
	return best
}

// judge decides between a proposal and the table it overlaps most
func (r *Reconciler) judge(t *model.Table, p model.TableRegion, src page.Source) verdict {
	inter := t.Bounds.Intersection(p.Bounds).Area()
	pArea, tArea := p.Bounds.Area(), t.Bounds.Area()
	if pArea <= 0 || tArea <= 0 {
		return keepBoth
	}

	// A table lying inside a much larger proposal is replaced before the
	// small-overlap rule can keep both.
	ofProposal, ofTable := inter/pArea, inter/tArea
	if ofTable > r.config.Replace && tArea <= r.config.ReplaceSize*pArea {
		return replaceTable
	}
	if ofProposal < r.config.KeepProposal || ofTable < r.config.KeepTable {
		return keepBoth
	}
	if ofTable >= r.config.Heavy && t.Kind == model.NoLineTable && r.marginsConsistent(t, p.Bounds, src) {
		return replaceTable
	}
	return redundant
}
