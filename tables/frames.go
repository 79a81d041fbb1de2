package tables

import (
	"sort"

	"github.com/tsawler/tabgrid/model"
)

// FindFrames discovers ruling frames on a page: connected groups of
// crossing horizontal and vertical rulings with at least two splits on each
// axis. Every frame is returned as a complete lattice region.
func FindFrames(horizontal, vertical []model.Ruling, cfg Config) []model.TableRegion {
	var hs, vs []model.Ruling
	for _, r := range horizontal {
		if r.Length() >= cfg.MinRulingLength {
			hs = append(hs, r)
		}
	}
	for _, r := range vertical {
		if r.Length() >= cfg.MinRulingLength {
			vs = append(vs, r)
		}
	}
	if len(hs) < 2 || len(vs) < 2 {
		return nil
	}

	uf := newUnionFind(len(hs) + len(vs))
	for i, h := range hs {
		for j, v := range vs {
			if meets(h, v, cfg.RulingTouch) {
				uf.union(i, len(hs)+j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := 0; i < len(hs)+len(vs); i++ {
		root := uf.find(i)
		groups[root] = append(groups[root], i)
	}

	var regions []model.TableRegion
	for _, members := range groups {
		var gh, gv []model.Ruling
		var bounds model.Rect
		for _, i := range members {
			if i < len(hs) {
				gh = append(gh, hs[i])
				bounds = bounds.Union(hs[i].Bounds())
			} else {
				gv = append(gv, vs[i-len(hs)])
				bounds = bounds.Union(vs[i-len(hs)].Bounds())
			}
		}
		if len(clusterSplits(positions(gh), cfg.SplitTolerance)) < 2 ||
			len(clusterSplits(positions(gv), cfg.SplitTolerance)) < 2 {
			continue
		}
		regions = append(regions, model.TableRegion{
			Bounds:     bounds,
			Confidence: 1.0,
			Complete:   true,
			Source:     model.SourceLattice,
		})
	}

	sort.Slice(regions, func(i, j int) bool {
		a, b := regions[i].Bounds, regions[j].Bounds
		if a.Top != b.Top {
			return a.Top < b.Top
		}
		return a.Left < b.Left
	})
	return regions
}

// meets reports whether a horizontal and a vertical ruling cross or touch
func meets(h, v model.Ruling, touch float64) bool {
	return v.Position >= h.Start-touch && v.Position <= h.End+touch &&
		h.Position >= v.Start-touch && h.Position <= v.End+touch
}

type unionFind struct {
	parent []int
}

func newUnionFind(n int) *unionFind {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return &unionFind{parent: p}
}

func (u *unionFind) find(i int) int {
	for u.parent[i] != i {
		u.parent[i] = u.parent[u.parent[i]]
		i = u.parent[i]
	}
	return i
}

func (u *unionFind) union(a, b int) {
	ra, rb := u.find(a), u.find(b)
	if ra != rb {
		u.parent[rb] = ra
	}
}
