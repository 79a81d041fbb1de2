package layout

import (
	"sort"

	"github.com/tsawler/tabgrid/model"
)

// ModalCount returns the most frequent number of non-blank chunks per row.
// Ties go to the larger count.
func ModalCount(rows []model.TextBlock) int {
	freq := make(map[int]int)
	for _, r := range rows {
		freq[r.ValidCount()]++
	}
	best, bestFreq := 0, 0
	for count, f := range freq {
		if f > bestFreq || (f == bestFreq && count > best) {
			best, bestFreq = count, f
		}
	}
	return best
}

// MaxCount returns the largest number of non-blank chunks in any row
func MaxCount(rows []model.TextBlock) int {
	m := 0
	for _, r := range rows {
		if n := r.ValidCount(); n > m {
			m = n
		}
	}
	return m
}

// Gap returns the vertical distance between an upper and a lower row.
// Overlapping rows have a negative gap.
func Gap(upper, lower model.TextBlock) float64 {
	return lower.Bounds.Top - upper.Bounds.Bottom()
}

// MedianGap returns the median distance between consecutive rows, 0 with
// fewer than two rows.
func MedianGap(rows []model.TextBlock) float64 {
	if len(rows) < 2 {
		return 0
	}
	gaps := make([]float64, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		gaps = append(gaps, Gap(rows[i-1], rows[i]))
	}
	sort.Float64s(gaps)
	return gaps[len(gaps)/2]
}

// AvgRowHeight returns the mean row height
func AvgRowHeight(rows []model.TextBlock) float64 {
	if len(rows) == 0 {
		return 0
	}
	total := 0.0
	for _, r := range rows {
		total += r.Bounds.Height
	}
	return total / float64(len(rows))
}

// AvgCharHeight returns the mean char height across every chunk of rows
func AvgCharHeight(rows []model.TextBlock) float64 {
	total, n := 0.0, 0
	for _, r := range rows {
		for _, c := range r.Chunks {
			total += c.CharHeight()
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}
