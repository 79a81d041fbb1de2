package reconcile

import (
	"math"
	"sort"

	"github.com/tsawler/tabgrid/layout"
	"github.com/tsawler/tabgrid/model"
	"github.com/tsawler/tabgrid/page"
)

// mergeProposals merges proposals pairwise, largest first. A proposal at
// least Absorb inside a kept one is absorbed into it. Proposals that only
// intersect are split apart. Passes repeat until no two proposals
// intersect, since an absorbed proposal can grow into one kept earlier.
func (r *Reconciler) mergeProposals(proposals []model.TableRegion, src page.Source) []model.TableRegion {
	out := make([]model.TableRegion, 0, len(proposals))
	for _, p := range proposals {
		if !p.Bounds.IsEmpty() {
			out = append(out, p)
		}
	}

	for pass := 0; pass <= len(proposals); pass++ {
		var changed bool
		if out, changed = r.mergePass(out, src); !changed {
			break
		}
	}
	return out
}

// mergePass runs one largest-first merge over proposals and reports
// whether any pair intersected
func (r *Reconciler) mergePass(proposals []model.TableRegion, src page.Source) ([]model.TableRegion, bool) {
	sorted := append([]model.TableRegion(nil), proposals...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Bounds.Area() > sorted[j].Bounds.Area()
	})

	var out []model.TableRegion
	changed := false
next:
	for _, p := range sorted {
		for i := range out {
			q := &out[i]
			inter := q.Bounds.Intersection(p.Bounds)
			if inter.IsEmpty() {
				continue
			}
			changed = true

			smaller := math.Min(q.Bounds.Area(), p.Bounds.Area())
			if inter.Area() >= r.config.Absorb*smaller {
				absorb(q, p)
				continue next
			}

			if !r.split(q, &p, inter, src) {
				absorb(q, p)
				continue next
			}
		}
		if !p.Bounds.IsEmpty() {
			out = append(out, p)
		}
	}
	return out, changed
}

// absorb grows q over p
func absorb(q *model.TableRegion, p model.TableRegion) {
	if q.Bounds.ContainsRect(p.Bounds, 0) {
		q.Confidence = math.Max(q.Confidence, p.Confidence)
		return
	}
	q.Bounds = q.Bounds.Union(p.Bounds)
	q.Confidence = math.Max(q.Confidence, p.Confidence)
	q.Complete = false
	q.Source = model.SourceMerged
}

// split cuts two intersecting proposals apart across the axis along which
// they are offset. Stacked proposals are cut at the row with the fewest
// chunks inside their intersection, side-by-side ones at the start of the
// column after the widest gap. Without text the cut falls in the middle
// of the intersection. It reports false when a side would become empty.
func (r *Reconciler) split(a, b *model.TableRegion, inter model.Rect, src page.Source) bool {
	dx := math.Abs(a.Bounds.CenterX() - b.Bounds.CenterX())
	dy := math.Abs(a.Bounds.CenterY() - b.Bounds.CenterY())
	if dx > dy {
		return r.splitColumns(a, b, inter, src)
	}

	upper, lower := a, b
	if b.Bounds.Top < a.Bounds.Top {
		upper, lower = b, a
	}

	cut := inter.CenterY()
	rows := r.rows.Detect(src.ChunksIn(inter))
	best := -1
	for _, row := range rows {
		if n := row.ValidCount(); best < 0 || n < best {
			best, cut = n, row.Bounds.Top
		}
	}

	if cut <= upper.Bounds.Top || cut >= lower.Bounds.Bottom() {
		return false
	}
	upper.Bounds.SetBottom(cut)
	lower.Bounds.SetTop(cut)
	upper.Complete, lower.Complete = false, false
	r.logger.Debug("proposals split", "y", cut)
	return true
}

func (r *Reconciler) splitColumns(a, b *model.TableRegion, inter model.Rect, src page.Source) bool {
	left, right := a, b
	if b.Bounds.Left < a.Bounds.Left {
		left, right = b, a
	}

	cut := inter.CenterX()
	bands := layout.ProjectBands(src.ChunksIn(inter), 0)
	widest := 0.0
	for i := 1; i < len(bands); i++ {
		if g := bands[i].Left - bands[i-1].Right; g > widest {
			widest, cut = g, bands[i].Left
		}
	}

	if cut <= left.Bounds.Left || cut >= right.Bounds.Right() {
		return false
	}
	left.Bounds.SetRight(cut)
	right.Bounds.SetLeft(cut)
	left.Complete, right.Complete = false, false
	r.logger.Debug("proposals split", "x", cut)
	return true
}
