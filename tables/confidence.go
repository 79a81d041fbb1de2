package tables

import (
	"math"

	"github.com/tsawler/tabgrid/model"
)

// confidence scores a lattice from its size, the regularity of its
// spacing, its outer border and the share of drawn border segments.
func (l *Lattice) confidence() float64 {
	score := 0.0

	// Factor 1: Number of cells (more cells = higher confidence, up to a point)
	cellCount := l.RowCount() * l.ColCount()
	if cellCount >= 4 {
		score += 0.2
	}
	if cellCount >= 9 {
		score += 0.1
	}

	// Factor 2: Grid regularity (similar row heights and column widths)
	score += regularity(l.Rows, l.Cols) * 0.3

	// Factor 3: Border completeness
	nr, nc := l.RowCount(), l.ColCount()
	border := 0.0
	border += 0.25 * share(l.hReal[0])
	border += 0.25 * share(l.hReal[nr])
	left := make([]bool, nr)
	right := make([]bool, nr)
	for r := 0; r < nr; r++ {
		left[r], right[r] = l.vReal[r][0], l.vReal[r][nc]
	}
	border += 0.25*share(left) + 0.25*share(right)
	score += border * 0.2

	// Factor 4: Line coverage (how many border segments are drawn)
	drawn, total := 0, 0
	for _, row := range l.hReal {
		for _, b := range row {
			total++
			if b {
				drawn++
			}
		}
	}
	for _, row := range l.vReal {
		for _, b := range row {
			total++
			if b {
				drawn++
			}
		}
	}
	if total > 0 {
		score += float64(drawn) / float64(total) * 0.2
	}

	return math.Min(1.0, score)
}

// flowConfidence scores a text-flow table. The weights mirror the
// geometric scoring: regularity 30%, alignment 30%, lines 20%, occupancy 20%.
func flowConfidence(t *model.Table, rows, cols []float64, aligned, placed int, rulings int) float64 {
	score := regularity(rows, cols) * 0.3

	if placed > 0 {
		score += float64(aligned) / float64(placed) * 0.3
	}

	if rulings > 0 && len(rows) > 0 {
		score += math.Min(1.0, float64(rulings)/float64(len(rows))) * 0.2
	}

	slots := t.RowCount() * t.ColCount()
	if slots > 0 {
		filled := 0
		for r := 0; r < t.RowCount(); r++ {
			for c := 0; c < t.ColCount(); c++ {
				if cell := t.CellAt(r, c); cell != nil && !cell.IsEmpty() {
					filled++
				}
			}
		}
		score += float64(filled) / float64(slots) * 0.2
	}
	return math.Min(1.0, score)
}

// regularity measures how even the spacing between consecutive splits is
func regularity(rows, cols []float64) float64 {
	return (evenness(rows) + evenness(cols)) / 2
}

func evenness(splits []float64) float64 {
	if len(splits) < 3 {
		return 1.0
	}
	sizes := make([]float64, len(splits)-1)
	for i := range sizes {
		sizes[i] = splits[i+1] - splits[i]
	}
	return math.Max(0, 1-coefficientOfVariation(sizes))
}

func share(flags []bool) float64 {
	if len(flags) == 0 {
		return 0
	}
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return float64(n) / float64(len(flags))
}

// coefficientOfVariation calculates CV (std dev / mean)
func coefficientOfVariation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	m := 0.0
	for _, v := range values {
		m += v
	}
	m /= float64(len(values))

	if m == 0 {
		return 0
	}

	v := 0.0
	for _, val := range values {
		diff := val - m
		v += diff * diff
	}
	v /= float64(len(values))

	return math.Sqrt(v) / m
}
