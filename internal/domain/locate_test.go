package domain

import (
	"math"
	"testing"
)

// grid3x3 is the reference swath used across locator tests: constant
// latitude per row, constant longitude per column.
func grid3x3(t *testing.T) *GeolocationGrid {
	t.Helper()
	g, err := NewGeolocationGrid(
		[][]float64{{10, 10, 10}, {0, 0, 0}, {-10, -10, -10}},
		[][]float64{{-10, 0, 10}, {-10, 0, 10}, {-10, 0, 10}},
	)
	if err != nil {
		t.Fatalf("NewGeolocationGrid: %v", err)
	}
	return g
}

func TestLocate_CenterQuery(t *testing.T) {
	g := grid3x3(t)

	m := Locate(g, 0, 0)
	if m.Row != 1 || m.Col != 1 {
		t.Fatalf("expected (1,1), got (%d,%d)", m.Row, m.Col)
	}
	if m.Lat != 0 || m.Lon != 0 {
		t.Errorf("matched coordinates: got (%v, %v)", m.Lat, m.Lon)
	}
	if m.DistanceM != 0 {
		t.Errorf("distance at coincident point: expected 0, got %v", m.DistanceM)
	}
}

func TestLocate_NearestOffCenter(t *testing.T) {
	g := grid3x3(t)

	// (7, 9) is closest to the (10, 10) corner cell at (0, 2).
	m := Locate(g, 7, 9)
	if m.Row != 0 || m.Col != 2 {
		t.Fatalf("expected (0,2), got (%d,%d)", m.Row, m.Col)
	}
	if m.DistanceM <= 0 {
		t.Errorf("expected positive distance, got %v", m.DistanceM)
	}
}

func TestLocate_TieBreakRowMajor(t *testing.T) {
	// Two cells carry identical coordinates; the first in row-major
	// order must win, on every call.
	g, err := NewGeolocationGrid(
		[][]float64{{5, 5}, {5, 0}},
		[][]float64{{5, 5}, {5, 0}},
	)
	if err != nil {
		t.Fatalf("NewGeolocationGrid: %v", err)
	}

	for i := 0; i < 10; i++ {
		m := Locate(g, 5, 5)
		if m.Row != 0 || m.Col != 0 {
			t.Fatalf("call %d: expected first equidistant cell (0,0), got (%d,%d)", i, m.Row, m.Col)
		}
	}
}

func TestLocate_SkipsNonFiniteCoordinates(t *testing.T) {
	nan := math.NaN()
	g, err := NewGeolocationGrid(
		[][]float64{{nan, 1}},
		[][]float64{{nan, 1}},
	)
	if err != nil {
		t.Fatalf("NewGeolocationGrid: %v", err)
	}
	m := Locate(g, 1, 1)
	if m.Row != 0 || m.Col != 1 {
		t.Fatalf("expected the finite cell (0,1), got (%d,%d)", m.Row, m.Col)
	}
}

func TestHaversineM_Symmetric(t *testing.T) {
	d1 := HaversineM(10, 20, -30, 40)
	d2 := HaversineM(-30, 40, 10, 20)
	if math.Abs(d1-d2) > 1e-6 {
		t.Errorf("distance not symmetric: %v vs %v", d1, d2)
	}
}

func TestHaversineM_KnownDistance(t *testing.T) {
	// One degree of latitude along a meridian is R * pi/180.
	want := EarthRadiusM * math.Pi / 180
	got := HaversineM(0, 0, 1, 0)
	if math.Abs(got-want) > 1 {
		t.Errorf("one degree of latitude: expected %.1f m, got %.1f m", want, got)
	}
}
