package domain

import (
	"fmt"
	"math"
)

// FieldMetadata carries the per-field calibration attributes read from the
// source container. Fill and missing values are raw encodings; comparison
// against them happens before any scaling. Nil pointers mean the attribute
// was absent.
type FieldMetadata struct {
	FillValue    *float64
	MissingValue *float64
	ScaleFactor  float64 // Defaults to 1.0 when the attribute is absent.
	Offset       float64 // Defaults to 0.0 when the attribute is absent.
	ValidRange   *[2]float64
	Units        string
}

// DefaultMetadata returns metadata with identity calibration coefficients.
// Adapters start from this and overwrite what the container provides.
func DefaultMetadata() FieldMetadata {
	return FieldMetadata{ScaleFactor: 1.0, Offset: 0.0}
}

// CalibratedField is a 2-D array of physical values with an explicit
// validity mask. A cell whose raw encoding equaled the fill or missing
// value is invalid; all other cells hold scale_factor * (raw - offset).
// Validity is carried in the type rather than through NaN arithmetic;
// AsNaN produces the NaN wire encoding when a collaborator wants it.
type CalibratedField struct {
	values [][]float64
	valid  [][]bool
	rows   int
	cols   int
}

// Calibrate converts a raw field into physical values. The raw array must
// be rectangular; a ragged input yields ErrShapeMismatch. The output has
// the same shape as the input, and calibrating the same raw input twice
// yields identical results.
func Calibrate(raw [][]float64, meta FieldMetadata) (*CalibratedField, error) {
	rows := len(raw)
	cols := 0
	if rows > 0 {
		cols = len(raw[0])
	}

	f := &CalibratedField{
		values: make([][]float64, rows),
		valid:  make([][]bool, rows),
		rows:   rows,
		cols:   cols,
	}

	for i, row := range raw {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrShapeMismatch, i, len(row), cols)
		}
		f.values[i] = make([]float64, cols)
		f.valid[i] = make([]bool, cols)
		for j, r := range row {
			// Sentinel comparison happens in the raw domain,
			// before scale/offset.
			if meta.FillValue != nil && r == *meta.FillValue {
				f.values[i][j] = math.NaN()
				continue
			}
			if meta.MissingValue != nil && r == *meta.MissingValue {
				f.values[i][j] = math.NaN()
				continue
			}
			f.values[i][j] = meta.ScaleFactor * (r - meta.Offset)
			f.valid[i][j] = true
		}
	}

	return f, nil
}

// Rows returns the along-track extent.
func (f *CalibratedField) Rows() int { return f.rows }

// Cols returns the cross-track extent.
func (f *CalibratedField) Cols() int { return f.cols }

// At returns the calibrated value at (row, col) and whether the cell holds
// an observation. The value is meaningless when the second return is false.
func (f *CalibratedField) At(row, col int) (float64, bool) {
	if !f.valid[row][col] {
		return 0, false
	}
	return f.values[row][col], true
}

// AsNaN returns a copy of the field with invalid cells encoded as NaN.
func (f *CalibratedField) AsNaN() [][]float64 {
	out := make([][]float64, f.rows)
	for i := range f.values {
		out[i] = make([]float64, f.cols)
		copy(out[i], f.values[i])
	}
	return out
}
