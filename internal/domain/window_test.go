package domain

import (
	"math"
	"testing"
)

// field3x3 calibrates the reference 3x3 field with values 1..9 and an
// optional fill sentinel planted at the center.
func field3x3(t *testing.T, maskCenter bool) *CalibratedField {
	t.Helper()
	raw := [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}}
	meta := DefaultMetadata()
	if maskCenter {
		fill := -9999.0
		raw[1][1] = fill
		meta.FillValue = &fill
	}
	f, err := Calibrate(raw, meta)
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}
	return f
}

func TestWindowStats_FullGrid(t *testing.T) {
	f := field3x3(t, false)

	r := WindowStats(f, 1, 1, 1)
	if r.Count != 9 {
		t.Fatalf("count: expected 9, got %d", r.Count)
	}
	if math.Abs(r.Mean-5) > 1e-12 {
		t.Errorf("mean: expected 5, got %v", r.Mean)
	}
	if math.Abs(r.Median-5) > 1e-12 {
		t.Errorf("median: expected 5, got %v", r.Median)
	}
	// Population stddev of 1..9 is sqrt(60/9).
	want := math.Sqrt(60.0 / 9.0)
	if math.Abs(r.StdDev-want) > 1e-12 {
		t.Errorf("stddev: expected %v, got %v", want, r.StdDev)
	}
}

func TestWindowStats_MaskedCenter(t *testing.T) {
	f := field3x3(t, true)

	r := WindowStats(f, 1, 1, 1)
	if r.Count != 8 {
		t.Fatalf("count: expected 8, got %d", r.Count)
	}
	// Mean of 1..9 without 5 is 40/8.
	if math.Abs(r.Mean-5) > 1e-12 {
		t.Errorf("mean: expected 5, got %v", r.Mean)
	}
	// Median of {1,2,3,4,6,7,8,9} is (4+6)/2.
	if math.Abs(r.Median-5) > 1e-12 {
		t.Errorf("median: expected 5, got %v", r.Median)
	}
}

func TestWindowStats_RadiusZero(t *testing.T) {
	f := field3x3(t, false)

	r := WindowStats(f, 0, 2, 0)
	if r.Count != 1 {
		t.Fatalf("count: expected 1, got %d", r.Count)
	}
	if r.Mean != 3 || r.Median != 3 {
		t.Errorf("single cell: mean %v, median %v, expected 3", r.Mean, r.Median)
	}
	if r.StdDev != 0 {
		t.Errorf("single cell stddev: expected 0, got %v", r.StdDev)
	}
}

func TestWindowStats_RadiusZeroOnMaskedCell(t *testing.T) {
	f := field3x3(t, true)

	r := WindowStats(f, 1, 1, 0)
	if r.Count != 0 {
		t.Fatalf("count: expected 0, got %d", r.Count)
	}
}

func TestWindowStats_EdgeClamping(t *testing.T) {
	f := field3x3(t, false)

	// Window at the corner shrinks to 2x2: {1,2,4,5}.
	r := WindowStats(f, 0, 0, 1)
	if r.Count != 4 {
		t.Fatalf("count: expected 4, got %d", r.Count)
	}
	if math.Abs(r.Mean-3) > 1e-12 {
		t.Errorf("mean: expected 3, got %v", r.Mean)
	}
	if math.Abs(r.Median-3) > 1e-12 {
		t.Errorf("even-count median: expected 3, got %v", r.Median)
	}
}

func TestWindowStats_LargeRadiusCoversAll(t *testing.T) {
	f := field3x3(t, false)

	r := WindowStats(f, 2, 2, 10)
	if r.Count != 9 {
		t.Fatalf("count: expected 9, got %d", r.Count)
	}
}

func TestWindowStats_EmptyWindow(t *testing.T) {
	fill := -1.0
	raw := [][]float64{{fill, fill}, {fill, fill}}
	f, err := Calibrate(raw, FieldMetadata{FillValue: &fill, ScaleFactor: 1})
	if err != nil {
		t.Fatalf("Calibrate: %v", err)
	}

	r := WindowStats(f, 0, 0, 1)
	if r.Count != 0 {
		t.Fatalf("count: expected 0, got %d", r.Count)
	}
	if r.Mean != 0 || r.Median != 0 || r.StdDev != 0 {
		t.Errorf("empty window must leave statistics zeroed: %+v", r)
	}
}
