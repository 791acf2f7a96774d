// Package nc reads OMI swath products from flat NetCDF renditions, where
// the product field and the Latitude/Longitude arrays live in the root
// group and carry the same attribute contract as the hierarchical layout.
package nc

import (
	"fmt"
	"strings"

	"github.com/fhs/go-netcdf/netcdf"

	"go.osat.io/swath-api/internal/adapter/store"
	"go.osat.io/swath-api/internal/domain"
)

const (
	latitudeVar  = "Latitude"
	longitudeVar = "Longitude"
)

// Reader loads swaths from flat NetCDF files. Stateless; every call opens,
// reads and closes the file.
type Reader struct{}

// NewReader creates a flat NetCDF reader.
func NewReader() *Reader {
	return &Reader{}
}

// LoadSwath reads the schema's primary field, its calibration attributes
// and the geolocation arrays from the root group.
func (r *Reader) LoadSwath(path string, schema domain.ProductSchema) (*store.RawSwath, error) {
	ds, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrContainerUnreadable, err)
	}
	defer func() { _ = ds.Close() }()

	v, err := ds.Var(schema.PrimaryField)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrFieldNotFound, schema.PrimaryField)
	}
	data, err := read2DVar(v)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", schema.PrimaryField, err)
	}

	meta, err := readMetadata(v, schema)
	if err != nil {
		return nil, err
	}

	lat, err := readGeoVar(ds, latitudeVar)
	if err != nil {
		return nil, err
	}
	lon, err := readGeoVar(ds, longitudeVar)
	if err != nil {
		return nil, err
	}

	return &store.RawSwath{Data: data, Meta: meta, Lat: lat, Lon: lon}, nil
}

// ListFields reports shape and units for the schema's fields present in
// the file.
func (r *Reader) ListFields(path string, schema domain.ProductSchema) ([]store.FieldInfo, error) {
	ds, err := netcdf.OpenFile(path, netcdf.NOWRITE)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrContainerUnreadable, err)
	}
	defer func() { _ = ds.Close() }()

	infos := make([]store.FieldInfo, 0, len(schema.Fields()))
	for _, name := range schema.Fields() {
		v, err := ds.Var(name)
		if err != nil {
			continue
		}
		rows, cols, err := varShape(v)
		if err != nil {
			continue
		}
		info := store.FieldInfo{Name: name, Rows: rows, Cols: cols}
		if units, ok := attrString(v, "Units"); ok {
			info.Units = units
		}
		infos = append(infos, info)
	}
	return infos, nil
}

func readGeoVar(ds netcdf.Dataset, name string) ([][]float64, error) {
	v, err := ds.Var(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrFieldNotFound, name)
	}
	m, err := read2DVar(v)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return m, nil
}

// readMetadata builds FieldMetadata from the variable's attributes.
func readMetadata(v netcdf.Var, schema domain.ProductSchema) (domain.FieldMetadata, error) {
	meta := domain.DefaultMetadata()

	if fv, ok := attrFloat(v, "_FillValue"); ok {
		meta.FillValue = &fv
	}
	if mv, ok := attrFloat(v, "MissingValue"); ok {
		meta.MissingValue = &mv
	}
	if scale, ok := attrFloat(v, "ScaleFactor"); ok {
		meta.ScaleFactor = scale
	}
	if offset, ok := attrFloat(v, "Offset"); ok {
		meta.Offset = offset
	}
	if units, ok := attrString(v, "Units"); ok {
		meta.Units = units
	}
	if lo, hi, ok := attrFloatPair(v, "ValidRange"); ok {
		meta.ValidRange = &[2]float64{lo, hi}
	} else if schema.RequiresValidRange {
		return meta, fmt.Errorf("%w: ValidRange attribute on %s", domain.ErrFieldNotFound, schema.PrimaryField)
	}

	return meta, nil
}

// attrString reads a text attribute, trimming trailing NUL padding.
func attrString(v netcdf.Var, name string) (string, bool) {
	a := v.Attr(name)
	if a == (netcdf.Attr{}) {
		return "", false
	}
	n, err := a.Len()
	if err != nil || n == 0 {
		return "", false
	}
	buf := make([]byte, n)
	if err := a.ReadBytes(buf); err != nil {
		return "", false
	}
	return strings.TrimRight(string(buf), "\x00"), true
}

// attrFloat reads a numeric attribute as float64, trying the storage
// types OMI producers use.
func attrFloat(v netcdf.Var, name string) (float64, bool) {
	a := v.Attr(name)
	if a == (netcdf.Attr{}) {
		return 0, false
	}
	n, err := a.Len()
	if err != nil || n == 0 {
		return 0, false
	}
	if buf := make([]float64, n); a.ReadFloat64s(buf) == nil {
		return buf[0], true
	}
	if buf := make([]float32, n); a.ReadFloat32s(buf) == nil {
		return float64(buf[0]), true
	}
	if buf := make([]int32, n); a.ReadInt32s(buf) == nil {
		return float64(buf[0]), true
	}
	if buf := make([]int16, n); a.ReadInt16s(buf) == nil {
		return float64(buf[0]), true
	}
	return 0, false
}

// attrFloatPair reads a two-element numeric attribute such as ValidRange.
func attrFloatPair(v netcdf.Var, name string) (float64, float64, bool) {
	a := v.Attr(name)
	if a == (netcdf.Attr{}) {
		return 0, 0, false
	}
	n, err := a.Len()
	if err != nil || n < 2 {
		return 0, 0, false
	}
	if buf := make([]float64, n); a.ReadFloat64s(buf) == nil {
		return buf[0], buf[1], true
	}
	if buf := make([]float32, n); a.ReadFloat32s(buf) == nil {
		return float64(buf[0]), float64(buf[1]), true
	}
	if buf := make([]int32, n); a.ReadInt32s(buf) == nil {
		return float64(buf[0]), float64(buf[1]), true
	}
	return 0, 0, false
}

func varShape(v netcdf.Var) (int, int, error) {
	dims, err := v.Dims()
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get dimensions: %w", err)
	}
	if len(dims) != 2 {
		return 0, 0, fmt.Errorf("expected 2-D variable, got %dD", len(dims))
	}
	rows, err := dims[0].Len()
	if err != nil {
		return 0, 0, err
	}
	cols, err := dims[1].Len()
	if err != nil {
		return 0, 0, err
	}
	return int(rows), int(cols), nil
}

// read2DVar reads a 2-D variable into [][]float64, casting from the
// stored type. Raw encodings are preserved; no masking happens here.
func read2DVar(v netcdf.Var) ([][]float64, error) {
	rows, cols, err := varShape(v)
	if err != nil {
		return nil, err
	}
	total := rows * cols

	t, err := v.Type()
	if err != nil {
		return nil, fmt.Errorf("failed to get var type: %w", err)
	}

	var flat []float64
	switch t {
	case netcdf.DOUBLE:
		flat = make([]float64, total)
		if err := v.ReadFloat64s(flat); err != nil {
			return nil, err
		}
	case netcdf.FLOAT:
		tmp := make([]float32, total)
		if err := v.ReadFloat32s(tmp); err != nil {
			return nil, err
		}
		flat = make([]float64, total)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	case netcdf.INT:
		tmp := make([]int32, total)
		if err := v.ReadInt32s(tmp); err != nil {
			return nil, err
		}
		flat = make([]float64, total)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	case netcdf.SHORT:
		tmp := make([]int16, total)
		if err := v.ReadInt16s(tmp); err != nil {
			return nil, err
		}
		flat = make([]float64, total)
		for i, val := range tmp {
			flat[i] = float64(val)
		}
	default:
		return nil, fmt.Errorf("unsupported var type: %v", t)
	}

	values := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		values[i] = flat[i*cols : (i+1)*cols]
	}
	return values, nil
}
