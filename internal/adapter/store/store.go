// Package store defines the loading contract over swath data containers.
package store

import (
	"fmt"
	"path/filepath"
	"strings"

	"go.osat.io/swath-api/internal/domain"
)

// RawSwath is one product field read out of a container, together with its
// calibration attributes and geolocation. Data holds the raw encodings cast
// to float64; calibration has not been applied.
type RawSwath struct {
	Data [][]float64
	Meta domain.FieldMetadata
	Lat  [][]float64
	Lon  [][]float64
}

// FieldInfo describes a named field of a product schema as found in a file.
type FieldInfo struct {
	Name  string
	Rows  int
	Cols  int
	Units string
}

// SwathLoader reads product fields out of a single container file. A file
// is read fully into memory; implementations hold no state across calls.
type SwathLoader interface {
	// LoadSwath reads the schema's primary field, its calibration
	// attributes and the Latitude/Longitude arrays.
	LoadSwath(path string, schema domain.ProductSchema) (*RawSwath, error)

	// ListFields reports shape and units for the schema's fields that
	// are present in the file.
	ListFields(path string, schema domain.ProductSchema) ([]FieldInfo, error)
}

// ExtLoader dispatches to a hierarchical or flat loader by file extension.
// HDF-EOS5 containers (.he5/.h5/.hdf5) go to Hierarchical; flat NetCDF
// renditions (.nc/.nc4) go to Flat.
type ExtLoader struct {
	Hierarchical SwathLoader
	Flat         SwathLoader
}

func (l ExtLoader) pick(path string) (SwathLoader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".he5", ".h5", ".hdf5":
		if l.Hierarchical == nil {
			return nil, fmt.Errorf("no hierarchical loader configured for %s", path)
		}
		return l.Hierarchical, nil
	case ".nc", ".nc4":
		if l.Flat == nil {
			return nil, fmt.Errorf("no flat loader configured for %s", path)
		}
		return l.Flat, nil
	default:
		return nil, fmt.Errorf("%w: unrecognized container extension %q", domain.ErrContainerUnreadable, filepath.Ext(path))
	}
}

// LoadSwath dispatches by extension.
func (l ExtLoader) LoadSwath(path string, schema domain.ProductSchema) (*RawSwath, error) {
	loader, err := l.pick(path)
	if err != nil {
		return nil, err
	}
	return loader.LoadSwath(path, schema)
}

// ListFields dispatches by extension.
func (l ExtLoader) ListFields(path string, schema domain.ProductSchema) ([]FieldInfo, error) {
	loader, err := l.pick(path)
	if err != nil {
		return nil, err
	}
	return loader.ListFields(path, schema)
}
