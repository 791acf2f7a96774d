// Package usecase orchestrates per-file extraction: schema resolution,
// loading, calibration, geolocation indexing and point queries.
package usecase

import (
	"fmt"
	"path/filepath"

	"go.osat.io/swath-api/internal/adapter/store"
	"go.osat.io/swath-api/internal/domain"
)

// DefaultRadii are the window radii reported when the caller does not ask
// for specific ones (3x3 and 5x5 neighborhoods).
var DefaultRadii = []int{1, 2}

// Extraction holds everything derived from one opened file. It is local
// to that file; nothing is shared or cached across files.
type Extraction struct {
	Path   string
	Schema domain.ProductSchema
	Field  *domain.CalibratedField
	Grid   *domain.GeolocationGrid
	Bounds domain.Bounds
	Meta   domain.FieldMetadata
}

// MatchResult is the nearest grid cell to a query point. Value is nil
// when the matched cell holds no observation.
type MatchResult struct {
	Row       int      `json:"row"`
	Col       int      `json:"col"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
	DistanceM float64  `json:"distance_m"`
	Value     *float64 `json:"value"`
}

// QueryResult is the full answer to one point query against one file.
type QueryResult struct {
	Product    string                `json:"product"`
	Field      string                `json:"field"`
	Units      string                `json:"units,omitempty"`
	ValidRange *[2]float64           `json:"valid_range,omitempty"`
	Bounds     domain.Bounds         `json:"bounds"`
	Match      MatchResult           `json:"match"`
	Windows    []domain.WindowReport `json:"windows"`
}

// FileOutcome is one file's result in a batch run. Err is set when the
// file was skipped; the batch itself never fails.
type FileOutcome struct {
	Path   string
	Result *QueryResult
	Err    error
}

// Extractor runs extractions through a configured container loader.
type Extractor struct {
	loader store.SwathLoader
}

// NewExtractor creates an extractor.
func NewExtractor(loader store.SwathLoader) *Extractor {
	return &Extractor{loader: loader}
}

// Load resolves the product schema from the file's base name, reads the
// primary field and geolocation, calibrates, and verifies shapes. All
// failure conditions are local to this file.
func (e *Extractor) Load(path string) (*Extraction, error) {
	schema, err := domain.Resolve(filepath.Base(path))
	if err != nil {
		return nil, err
	}

	raw, err := e.loader.LoadSwath(path, schema)
	if err != nil {
		return nil, err
	}

	field, err := domain.Calibrate(raw.Data, raw.Meta)
	if err != nil {
		return nil, err
	}

	grid, err := domain.NewGeolocationGrid(raw.Lat, raw.Lon)
	if err != nil {
		return nil, err
	}
	if err := grid.MatchesShape(field); err != nil {
		return nil, err
	}

	bounds, err := grid.Bounds()
	if err != nil {
		return nil, fmt.Errorf("computing bounds for %s: %w", path, err)
	}

	return &Extraction{
		Path:   path,
		Schema: schema,
		Field:  field,
		Grid:   grid,
		Bounds: bounds,
		Meta:   raw.Meta,
	}, nil
}

// Query answers a point query. The query point must lie within the
// file's observed bounds; an out-of-range point yields ErrOutOfRange
// before any distance is computed, so the caller can re-prompt.
func (x *Extraction) Query(lat, lon float64, radii []int) (*QueryResult, error) {
	if len(radii) == 0 {
		radii = DefaultRadii
	}
	for _, r := range radii {
		if r < 0 {
			return nil, fmt.Errorf("invalid window radius %d", r)
		}
	}

	if !x.Bounds.Contains(lat, lon) {
		return nil, fmt.Errorf("%w: (%.4f, %.4f) not in lat [%.4f, %.4f], lon [%.4f, %.4f]",
			domain.ErrOutOfRange, lat, lon,
			x.Bounds.MinLat, x.Bounds.MaxLat, x.Bounds.MinLon, x.Bounds.MaxLon)
	}

	m := domain.Locate(x.Grid, lat, lon)

	match := MatchResult{
		Row: m.Row, Col: m.Col,
		Lat: m.Lat, Lon: m.Lon,
		DistanceM: m.DistanceM,
	}
	if v, ok := x.Field.At(m.Row, m.Col); ok {
		match.Value = &v
	}

	windows := make([]domain.WindowReport, 0, len(radii))
	for _, r := range radii {
		windows = append(windows, domain.WindowStats(x.Field, m.Row, m.Col, r))
	}

	return &QueryResult{
		Product:    x.Schema.Name,
		Field:      x.Schema.PrimaryField,
		Units:      x.Meta.Units,
		ValidRange: x.Meta.ValidRange,
		Bounds:     x.Bounds,
		Match:      match,
		Windows:    windows,
	}, nil
}

// Extract loads a file and answers one query against it.
func (e *Extractor) Extract(path string, lat, lon float64, radii []int) (*QueryResult, error) {
	x, err := e.Load(path)
	if err != nil {
		return nil, err
	}
	return x.Query(lat, lon, radii)
}

// RunBatch processes files one at a time with the same query point. A
// failing file produces an outcome with Err set and the batch continues.
func (e *Extractor) RunBatch(paths []string, lat, lon float64, radii []int) []FileOutcome {
	outcomes := make([]FileOutcome, 0, len(paths))
	for _, path := range paths {
		result, err := e.Extract(path, lat, lon, radii)
		outcomes = append(outcomes, FileOutcome{Path: path, Result: result, Err: err})
	}
	return outcomes
}

// ListFields reports the schema fields present in a file.
func (e *Extractor) ListFields(path string) ([]store.FieldInfo, error) {
	schema, err := domain.Resolve(filepath.Base(path))
	if err != nil {
		return nil, err
	}
	return e.loader.ListFields(path, schema)
}
