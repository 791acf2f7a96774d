// Package he5 reads OMI swath products out of hierarchical HDF-EOS5
// containers (group -> subgroup -> named array) using the pure-Go NetCDF4
// reader, which handles the HDF5-based layout without cgo.
package he5

import (
	"fmt"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"go.osat.io/swath-api/internal/adapter/store"
	"go.osat.io/swath-api/internal/domain"
)

const (
	latitudeVar  = "Latitude"
	longitudeVar = "Longitude"
)

// Reader loads swaths from HDF-EOS5 containers. It is stateless; every
// call opens, reads and closes the file.
type Reader struct{}

// NewReader creates a hierarchical container reader.
func NewReader() *Reader {
	return &Reader{}
}

// LoadSwath reads the schema's primary field, its calibration attributes
// and the geolocation arrays.
func (r *Reader) LoadSwath(path string, schema domain.ProductSchema) (*store.RawSwath, error) {
	root, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrContainerUnreadable, err)
	}
	defer root.Close()

	dataGroup, err := openGroup(root, schema.DataGroup)
	if err != nil {
		return nil, err
	}

	v, err := dataGroup.GetVariable(schema.PrimaryField)
	if err != nil {
		return nil, fmt.Errorf("%w: %s in %s", domain.ErrFieldNotFound, schema.PrimaryField, schema.DataGroup)
	}

	data, err := toMatrix(v.Values)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", schema.PrimaryField, err)
	}

	meta, err := readMetadata(v.Attributes, schema)
	if err != nil {
		return nil, err
	}

	geoGroup, err := openGroup(root, schema.GeoGroup)
	if err != nil {
		return nil, err
	}

	lat, err := readGeoField(geoGroup, latitudeVar, schema)
	if err != nil {
		return nil, err
	}
	lon, err := readGeoField(geoGroup, longitudeVar, schema)
	if err != nil {
		return nil, err
	}

	return &store.RawSwath{Data: data, Meta: meta, Lat: lat, Lon: lon}, nil
}

// ListFields reports shape and units for the schema's fields present in
// the file. Absent fields are skipped, not errors.
func (r *Reader) ListFields(path string, schema domain.ProductSchema) ([]store.FieldInfo, error) {
	root, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrContainerUnreadable, err)
	}
	defer root.Close()

	dataGroup, err := openGroup(root, schema.DataGroup)
	if err != nil {
		return nil, err
	}

	infos := make([]store.FieldInfo, 0, len(schema.Fields()))
	for _, name := range schema.Fields() {
		v, err := dataGroup.GetVariable(name)
		if err != nil {
			continue
		}
		info := store.FieldInfo{Name: name}
		if m, err := toMatrix(v.Values); err == nil {
			info.Rows = len(m)
			if info.Rows > 0 {
				info.Cols = len(m[0])
			}
		}
		if units, ok := attrString(v.Attributes, "Units"); ok {
			info.Units = units
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// openGroup resolves a slash-separated group path. A direct lookup is
// tried first; some container layouts only resolve one level at a time,
// so the segment walk is the fallback.
func openGroup(root api.Group, path string) (api.Group, error) {
	if g, err := root.GetGroup(path); err == nil {
		return g, nil
	}
	g := root
	for _, segment := range strings.Split(path, "/") {
		if segment == "" {
			continue
		}
		next, err := g.GetGroup(segment)
		if err != nil {
			return nil, fmt.Errorf("%w: group %q (resolving %s)", domain.ErrFieldNotFound, segment, path)
		}
		g = next
	}
	return g, nil
}

func readGeoField(geo api.Group, name string, schema domain.ProductSchema) ([][]float64, error) {
	v, err := geo.GetVariable(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s in %s", domain.ErrFieldNotFound, name, schema.GeoGroup)
	}
	m, err := toMatrix(v.Values)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return m, nil
}

// readMetadata builds FieldMetadata from the field's attributes. Absent
// scale/offset fall back to the identity coefficients; a ranged-offset
// schema without its ValidRange attribute is treated as a malformed field.
func readMetadata(attrs api.AttributeMap, schema domain.ProductSchema) (domain.FieldMetadata, error) {
	meta := domain.DefaultMetadata()

	if fv, ok := attrFloat(attrs, "_FillValue"); ok {
		meta.FillValue = &fv
	}
	if mv, ok := attrFloat(attrs, "MissingValue"); ok {
		meta.MissingValue = &mv
	}
	if scale, ok := attrFloat(attrs, "ScaleFactor"); ok {
		meta.ScaleFactor = scale
	}
	if offset, ok := attrFloat(attrs, "Offset"); ok {
		meta.Offset = offset
	}
	if units, ok := attrString(attrs, "Units"); ok {
		meta.Units = units
	}
	if lo, hi, ok := attrFloatPair(attrs, "ValidRange"); ok {
		meta.ValidRange = &[2]float64{lo, hi}
	} else if schema.RequiresValidRange {
		return meta, fmt.Errorf("%w: ValidRange attribute on %s", domain.ErrFieldNotFound, schema.PrimaryField)
	}

	return meta, nil
}

// attrFloat reads a numeric attribute as float64. HDF5 attributes come
// back as scalars or one-element slices depending on how the producer
// wrote them; both shapes are accepted.
func attrFloat(attrs api.AttributeMap, name string) (float64, bool) {
	raw, has := attrs.Get(name)
	if !has {
		return 0, false
	}
	vals := numericSlice(raw)
	if len(vals) == 0 {
		return 0, false
	}
	return vals[0], true
}

// attrFloatPair reads a two-element numeric attribute such as ValidRange.
func attrFloatPair(attrs api.AttributeMap, name string) (float64, float64, bool) {
	raw, has := attrs.Get(name)
	if !has {
		return 0, 0, false
	}
	vals := numericSlice(raw)
	if len(vals) < 2 {
		return 0, 0, false
	}
	return vals[0], vals[1], true
}

func attrString(attrs api.AttributeMap, name string) (string, bool) {
	raw, has := attrs.Get(name)
	if !has {
		return "", false
	}
	switch s := raw.(type) {
	case string:
		return strings.TrimRight(s, "\x00"), true
	case []string:
		if len(s) > 0 {
			return strings.TrimRight(s[0], "\x00"), true
		}
	case []byte:
		return strings.TrimRight(string(s), "\x00"), true
	}
	return "", false
}

// numericSlice flattens a scalar or 1-D numeric attribute value to
// []float64.
func numericSlice(raw interface{}) []float64 {
	switch v := raw.(type) {
	case float64:
		return []float64{v}
	case float32:
		return []float64{float64(v)}
	case int64:
		return []float64{float64(v)}
	case int32:
		return []float64{float64(v)}
	case int16:
		return []float64{float64(v)}
	case int8:
		return []float64{float64(v)}
	case uint8:
		return []float64{float64(v)}
	case uint16:
		return []float64{float64(v)}
	case uint32:
		return []float64{float64(v)}
	case int:
		return []float64{float64(v)}
	case []float64:
		return v
	case []float32:
		return widen(v, func(x float32) float64 { return float64(x) })
	case []int64:
		return widen(v, func(x int64) float64 { return float64(x) })
	case []int32:
		return widen(v, func(x int32) float64 { return float64(x) })
	case []int16:
		return widen(v, func(x int16) float64 { return float64(x) })
	case []int8:
		return widen(v, func(x int8) float64 { return float64(x) })
	case []uint8:
		return widen(v, func(x uint8) float64 { return float64(x) })
	case []uint16:
		return widen(v, func(x uint16) float64 { return float64(x) })
	case []uint32:
		return widen(v, func(x uint32) float64 { return float64(x) })
	default:
		return nil
	}
}

func widen[T any](in []T, conv func(T) float64) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = conv(v)
	}
	return out
}

// toMatrix converts a decoded 2-D variable value into [][]float64,
// casting from the container's storage type.
func toMatrix(values interface{}) ([][]float64, error) {
	switch v := values.(type) {
	case [][]float64:
		return v, nil
	case [][]float32:
		return widenRows(v, func(x float32) float64 { return float64(x) }), nil
	case [][]int64:
		return widenRows(v, func(x int64) float64 { return float64(x) }), nil
	case [][]int32:
		return widenRows(v, func(x int32) float64 { return float64(x) }), nil
	case [][]int16:
		return widenRows(v, func(x int16) float64 { return float64(x) }), nil
	case [][]int8:
		return widenRows(v, func(x int8) float64 { return float64(x) }), nil
	case [][]uint8:
		return widenRows(v, func(x uint8) float64 { return float64(x) }), nil
	case [][]uint16:
		return widenRows(v, func(x uint16) float64 { return float64(x) }), nil
	case [][]uint32:
		return widenRows(v, func(x uint32) float64 { return float64(x) }), nil
	default:
		return nil, fmt.Errorf("unsupported variable type %T (expected a 2-D numeric array)", values)
	}
}

func widenRows[T any](in [][]T, conv func(T) float64) [][]float64 {
	out := make([][]float64, len(in))
	for i, row := range in {
		out[i] = make([]float64, len(row))
		for j, v := range row {
			out[i][j] = conv(v)
		}
	}
	return out
}
