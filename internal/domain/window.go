package domain

import (
	"math"
	"sort"
)

// WindowReport holds aggregate statistics for the (2r+1)x(2r+1) square
// neighborhood around a cell, clamped to the array bounds. Mean, Median
// and StdDev are meaningful only when Count > 0; a zero Count is the
// "no valid cells" result, not an error.
type WindowReport struct {
	Radius int     `json:"radius"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
}

// WindowStats computes count, mean, median and population standard
// deviation of the valid cells in the clamped window centered at
// (row, col). Windows near an edge shrink; they are never wrapped or
// padded.
func WindowStats(f *CalibratedField, row, col, radius int) WindowReport {
	rowStart, rowEnd := clampAxis(row, radius, f.Rows())
	colStart, colEnd := clampAxis(col, radius, f.Cols())

	cells := make([]float64, 0, (rowEnd-rowStart)*(colEnd-colStart))
	for i := rowStart; i < rowEnd; i++ {
		for j := colStart; j < colEnd; j++ {
			if v, ok := f.At(i, j); ok {
				cells = append(cells, v)
			}
		}
	}

	report := WindowReport{Radius: radius, Count: len(cells)}
	if len(cells) == 0 {
		return report
	}

	sum := 0.0
	for _, v := range cells {
		sum += v
	}
	report.Mean = sum / float64(len(cells))

	variance := 0.0
	for _, v := range cells {
		d := v - report.Mean
		variance += d * d
	}
	report.StdDev = math.Sqrt(variance / float64(len(cells)))

	sorted := make([]float64, len(cells))
	copy(sorted, cells)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		report.Median = sorted[mid]
	} else {
		report.Median = (sorted[mid-1] + sorted[mid]) / 2
	}

	return report
}

// clampAxis returns the half-open [start, end) extent of a window along
// one axis, clamped to [0, size).
func clampAxis(center, radius, size int) (int, int) {
	start := center - radius
	if start < 0 {
		start = 0
	}
	end := center + radius + 1
	if end > size {
		end = size
	}
	return start, end
}
