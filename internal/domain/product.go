// Package domain implements product schema resolution, radiometric
// calibration, geolocation indexing, nearest-point search and window
// statistics for OMI trace-gas swath products.
package domain

import (
	"fmt"
	"strings"
)

// SchemaVariant identifies one of the two known calibration shapes.
type SchemaVariant int

const (
	// SimpleOffset is a plain scale/offset column (OMI NO2).
	SimpleOffset SchemaVariant = iota
	// RangedOffset is a scale/offset column that additionally carries a
	// mandatory ValidRange attribute (OMI SO2 PBL).
	RangedOffset
)

// String returns a short name for the variant.
func (v SchemaVariant) String() string {
	switch v {
	case SimpleOffset:
		return "simple-offset"
	case RangedOffset:
		return "ranged-offset"
	default:
		return fmt.Sprintf("SchemaVariant(%d)", int(v))
	}
}

// ProductSchema describes where a product's data lives inside the
// hierarchical container and which field carries the column amount.
// Schemas are immutable; Resolve returns copies of the entries below.
type ProductSchema struct {
	Variant SchemaVariant
	Name    string // Human-readable product name.
	Token   string // File-name token that selects this schema.

	DataGroup string // Group path holding the data fields.
	GeoGroup  string // Group path holding Latitude/Longitude.

	PrimaryField string   // Field read by the extraction core.
	AuxFields    []string // Additional fields for listing/dump tools.

	// RequiresValidRange is set for variants whose primary field must
	// carry a ValidRange attribute.
	RequiresValidRange bool
}

// knownSchemas is the product lookup table. Selection is data-driven here
// rather than branched at every call site.
var knownSchemas = []ProductSchema{
	{
		Variant:      SimpleOffset,
		Name:         "OMI NO2",
		Token:        "NO2",
		DataGroup:    "HDFEOS/SWATHS/ColumnAmountNO2/Data Fields",
		GeoGroup:     "HDFEOS/SWATHS/ColumnAmountNO2/Geolocation Fields",
		PrimaryField: "ColumnAmountNO2",
		AuxFields:    []string{"ColumnAmountNO2Std", "VcdQualityFlags"},
	},
	{
		Variant:            RangedOffset,
		Name:               "OMI SO2",
		Token:              "SO2",
		DataGroup:          "HDFEOS/SWATHS/OMI Total Column Amount SO2/Data Fields",
		GeoGroup:           "HDFEOS/SWATHS/OMI Total Column Amount SO2/Geolocation Fields",
		PrimaryField:       "ColumnAmountSO2_PBL",
		AuxFields:          []string{"ColumnAmountO3", "QualityFlags_PBL"},
		RequiresValidRange: true,
	},
}

// KnownSchemas returns the product lookup table.
func KnownSchemas() []ProductSchema {
	out := make([]ProductSchema, len(knownSchemas))
	copy(out, knownSchemas)
	return out
}

// Resolve selects the product schema for a file identifier by token match
// on its name. A name matching no token, or more than one, is not a
// product and yields ErrSchemaMismatch.
func Resolve(name string) (ProductSchema, error) {
	var matched []ProductSchema
	for _, s := range knownSchemas {
		if strings.Contains(name, s.Token) {
			matched = append(matched, s)
		}
	}
	switch len(matched) {
	case 1:
		return matched[0], nil
	case 0:
		return ProductSchema{}, fmt.Errorf("%w: %q matches no known product token", ErrSchemaMismatch, name)
	default:
		return ProductSchema{}, fmt.Errorf("%w: %q matches more than one product token", ErrSchemaMismatch, name)
	}
}

// Fields returns the primary field followed by the auxiliary fields.
func (s ProductSchema) Fields() []string {
	fields := make([]string, 0, 1+len(s.AuxFields))
	fields = append(fields, s.PrimaryField)
	fields = append(fields, s.AuxFields...)
	return fields
}
