package reconcile

import (
	"math"

	"github.com/tsawler/tabgrid/model"
	"github.com/tsawler/tabgrid/page"
)

// degenerate reports whether t is the only no-ruling table spanning most
// of the page text and several separate, non-aligned proposals lie inside
// it. Such a table is usually several tables merged in error.
func (r *Reconciler) degenerate(t *model.Table, all []*model.Table, proposals []model.TableRegion, src page.Source) bool {
	if t.Kind != model.NoLineTable || !r.spansPage(t, src) {
		return false
	}
	for _, o := range all {
		if o != nil && o != t && o.Kind == model.NoLineTable && r.spansPage(o, src) {
			return false
		}
	}

	var inside []model.Rect
	for _, p := range proposals {
		if t.Bounds.ContainsRect(p.Bounds, r.config.Tolerance) {
			inside = append(inside, p.Bounds)
		}
	}
	if len(inside) < 2 {
		return false
	}

	for i := range inside {
		for j := i + 1; j < len(inside); j++ {
			if inside[i].Intersects(inside[j]) || r.aligned(inside[i], inside[j]) {
				return false
			}
		}
	}

	if len(inside) >= r.config.ManyProposals {
		return true
	}
	covered := 0.0
	for _, b := range inside {
		covered += b.Area()
	}
	return covered < r.config.UnionShare*t.Bounds.Area()
}

func (r *Reconciler) spansPage(t *model.Table, src page.Source) bool {
	area := src.TextArea()
	if area.IsEmpty() {
		return false
	}
	return t.Bounds.Intersection(area).Area() > r.config.PageShare*area.Area()
}

// aligned reports whether two boxes share both side edges, as pieces of
// one column stack do
func (r *Reconciler) aligned(a, b model.Rect) bool {
	tol := r.config.Tolerance
	return math.Abs(a.Left-b.Left) <= tol && math.Abs(a.Right()-b.Right()) <= tol
}
