package domain

import (
	"fmt"
	"math"
)

// GeolocationGrid wraps the parallel 2-D Latitude/Longitude arrays of a
// swath. Rows are along-track, columns cross-track; the grid is irregular
// (no axis is monotonic), so lookups go through index positions only.
type GeolocationGrid struct {
	Lat [][]float64
	Lon [][]float64

	rows int
	cols int
}

// Bounds holds the observed coordinate extent of a grid.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLon float64 `json:"max_lon"`
}

// Contains reports whether the point lies inside the bounds, inclusive.
func (b Bounds) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// NewGeolocationGrid validates that the two arrays are rectangular and
// identical in shape and wraps them. Shape disagreement yields
// ErrShapeMismatch.
func NewGeolocationGrid(lat, lon [][]float64) (*GeolocationGrid, error) {
	rows := len(lat)
	if len(lon) != rows {
		return nil, fmt.Errorf("%w: latitude has %d rows, longitude has %d", ErrShapeMismatch, rows, len(lon))
	}
	cols := 0
	if rows > 0 {
		cols = len(lat[0])
	}
	for i := 0; i < rows; i++ {
		if len(lat[i]) != cols {
			return nil, fmt.Errorf("%w: latitude row %d has %d values, expected %d", ErrShapeMismatch, i, len(lat[i]), cols)
		}
		if len(lon[i]) != cols {
			return nil, fmt.Errorf("%w: longitude row %d has %d values, expected %d", ErrShapeMismatch, i, len(lon[i]), cols)
		}
	}
	return &GeolocationGrid{Lat: lat, Lon: lon, rows: rows, cols: cols}, nil
}

// Rows returns the along-track extent.
func (g *GeolocationGrid) Rows() int { return g.rows }

// Cols returns the cross-track extent.
func (g *GeolocationGrid) Cols() int { return g.cols }

// MatchesShape verifies that the grid and a calibrated field agree in
// shape. Disagreement yields ErrShapeMismatch.
func (g *GeolocationGrid) MatchesShape(f *CalibratedField) error {
	if g.rows != f.Rows() || g.cols != f.Cols() {
		return fmt.Errorf("%w: geolocation is %dx%d, data field is %dx%d",
			ErrShapeMismatch, g.rows, g.cols, f.Rows(), f.Cols())
	}
	return nil
}

// Bounds computes the observed coordinate extent, ignoring non-finite
// entries. A grid with no finite coordinate at all is unusable.
func (g *GeolocationGrid) Bounds() (Bounds, error) {
	b := Bounds{
		MinLat: math.Inf(1), MaxLat: math.Inf(-1),
		MinLon: math.Inf(1), MaxLon: math.Inf(-1),
	}
	found := false
	for i := 0; i < g.rows; i++ {
		for j := 0; j < g.cols; j++ {
			lat, lon := g.Lat[i][j], g.Lon[i][j]
			if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
				continue
			}
			found = true
			b.MinLat = math.Min(b.MinLat, lat)
			b.MaxLat = math.Max(b.MaxLat, lat)
			b.MinLon = math.Min(b.MinLon, lon)
			b.MaxLon = math.Max(b.MaxLon, lon)
		}
	}
	if !found {
		return Bounds{}, fmt.Errorf("geolocation grid has no finite coordinates")
	}
	return b, nil
}
