package usecase_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.osat.io/swath-api/internal/adapter/store"
	"go.osat.io/swath-api/internal/domain"
	"go.osat.io/swath-api/internal/usecase"
)

// --- mocks ---

// mockLoader serves canned swaths keyed by path.
type mockLoader struct {
	swaths map[string]*store.RawSwath
	fields map[string][]store.FieldInfo
}

func (m *mockLoader) LoadSwath(path string, _ domain.ProductSchema) (*store.RawSwath, error) {
	if raw, ok := m.swaths[path]; ok {
		return raw, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrContainerUnreadable, path)
}

func (m *mockLoader) ListFields(path string, _ domain.ProductSchema) ([]store.FieldInfo, error) {
	if infos, ok := m.fields[path]; ok {
		return infos, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrContainerUnreadable, path)
}

// referenceSwath is the 3x3 reference scenario: lat rows 10/0/-10, lon
// columns -10/0/10, values 1..9.
func referenceSwath() *store.RawSwath {
	return &store.RawSwath{
		Data: [][]float64{{1, 2, 3}, {4, 5, 6}, {7, 8, 9}},
		Meta: domain.DefaultMetadata(),
		Lat:  [][]float64{{10, 10, 10}, {0, 0, 0}, {-10, -10, -10}},
		Lon:  [][]float64{{-10, 0, 10}, {-10, 0, 10}, {-10, 0, 10}},
	}
}

// --- tests ---

func TestExtract_CenterQuery(t *testing.T) {
	loader := &mockLoader{swaths: map[string]*store.RawSwath{
		"data/a_NO2.he5": referenceSwath(),
	}}
	e := usecase.NewExtractor(loader)

	res, err := e.Extract("data/a_NO2.he5", 0, 0, []int{1})
	require.NoError(t, err)

	assert.Equal(t, "OMI NO2", res.Product)
	assert.Equal(t, "ColumnAmountNO2", res.Field)
	assert.Equal(t, 1, res.Match.Row)
	assert.Equal(t, 1, res.Match.Col)
	require.NotNil(t, res.Match.Value)
	assert.Equal(t, 5.0, *res.Match.Value)
	assert.Equal(t, 0.0, res.Match.DistanceM)

	require.Len(t, res.Windows, 1)
	w := res.Windows[0]
	assert.Equal(t, 9, w.Count)
	assert.InDelta(t, 5.0, w.Mean, 1e-12)
	assert.InDelta(t, 5.0, w.Median, 1e-12)
}

func TestExtract_MaskedCenterCell(t *testing.T) {
	fill := -9999.0
	raw := referenceSwath()
	raw.Data[1][1] = fill
	raw.Meta.FillValue = &fill

	loader := &mockLoader{swaths: map[string]*store.RawSwath{"a_NO2.he5": raw}}
	e := usecase.NewExtractor(loader)

	res, err := e.Extract("a_NO2.he5", 0, 0, []int{1})
	require.NoError(t, err)

	// Nearest cell still matches, but carries no value.
	assert.Equal(t, 1, res.Match.Row)
	assert.Equal(t, 1, res.Match.Col)
	assert.Nil(t, res.Match.Value)

	w := res.Windows[0]
	assert.Equal(t, 8, w.Count)
	assert.InDelta(t, 5.0, w.Mean, 1e-12) // (45-5)/8
}

func TestExtract_ScaleOffsetApplied(t *testing.T) {
	raw := referenceSwath()
	raw.Data = [][]float64{{20, 20, 20}, {20, 20, 20}, {20, 20, 20}}
	raw.Meta.ScaleFactor = 0.5
	raw.Meta.Offset = 10

	loader := &mockLoader{swaths: map[string]*store.RawSwath{"a_NO2.he5": raw}}
	e := usecase.NewExtractor(loader)

	res, err := e.Extract("a_NO2.he5", 0, 0, nil)
	require.NoError(t, err)
	require.NotNil(t, res.Match.Value)
	assert.InDelta(t, 5.0, *res.Match.Value, 1e-12) // 0.5 * (20 - 10)
}

func TestExtract_OutOfRange(t *testing.T) {
	loader := &mockLoader{swaths: map[string]*store.RawSwath{"a_NO2.he5": referenceSwath()}}
	e := usecase.NewExtractor(loader)

	// Latitude 50 against a grid whose maximum is 10.
	_, err := e.Extract("a_NO2.he5", 50, 0, nil)
	require.ErrorIs(t, err, domain.ErrOutOfRange)
}

func TestExtract_SchemaMismatch(t *testing.T) {
	e := usecase.NewExtractor(&mockLoader{})

	_, err := e.Extract("MOD04_L2.hdf", 0, 0, nil)
	require.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func TestExtract_ShapeMismatch(t *testing.T) {
	raw := referenceSwath()
	raw.Lat = [][]float64{{10, 10}, {0, 0}} // 2x2 against a 3x3 field

	loader := &mockLoader{swaths: map[string]*store.RawSwath{"a_NO2.he5": raw}}
	e := usecase.NewExtractor(loader)

	_, err := e.Extract("a_NO2.he5", 0, 0, nil)
	require.ErrorIs(t, err, domain.ErrShapeMismatch)
}

func TestExtract_DefaultRadii(t *testing.T) {
	loader := &mockLoader{swaths: map[string]*store.RawSwath{"a_NO2.he5": referenceSwath()}}
	e := usecase.NewExtractor(loader)

	res, err := e.Extract("a_NO2.he5", 0, 0, nil)
	require.NoError(t, err)
	require.Len(t, res.Windows, 2)
	assert.Equal(t, 1, res.Windows[0].Radius)
	assert.Equal(t, 2, res.Windows[1].Radius)
	// Radius 2 clamps to the whole 3x3 grid.
	assert.Equal(t, 9, res.Windows[1].Count)
}

func TestExtract_NegativeRadius(t *testing.T) {
	loader := &mockLoader{swaths: map[string]*store.RawSwath{"a_NO2.he5": referenceSwath()}}
	e := usecase.NewExtractor(loader)

	_, err := e.Extract("a_NO2.he5", 0, 0, []int{-1})
	require.Error(t, err)
}

func TestRunBatch_FailureIsolation(t *testing.T) {
	loader := &mockLoader{swaths: map[string]*store.RawSwath{
		"good_NO2.he5":  referenceSwath(),
		"good2_SO2.he5": so2Swath(),
	}}
	e := usecase.NewExtractor(loader)

	outcomes := e.RunBatch([]string{"good_NO2.he5", "unreadable_NO2.he5", "notaproduct.hdf", "good2_SO2.he5"}, 0, 0, nil)
	require.Len(t, outcomes, 4)

	assert.NoError(t, outcomes[0].Err)
	require.NotNil(t, outcomes[0].Result)

	assert.ErrorIs(t, outcomes[1].Err, domain.ErrContainerUnreadable)
	assert.ErrorIs(t, outcomes[2].Err, domain.ErrSchemaMismatch)

	assert.NoError(t, outcomes[3].Err)
	assert.Equal(t, "OMI SO2", outcomes[3].Result.Product)
}

func so2Swath() *store.RawSwath {
	raw := referenceSwath()
	raw.Meta.ValidRange = &[2]float64{-10, 2000}
	raw.Meta.Units = "DU"
	return raw
}

func TestExtract_SO2CarriesValidRange(t *testing.T) {
	loader := &mockLoader{swaths: map[string]*store.RawSwath{"a_SO2.he5": so2Swath()}}
	e := usecase.NewExtractor(loader)

	res, err := e.Extract("a_SO2.he5", 0, 0, nil)
	require.NoError(t, err)
	require.NotNil(t, res.ValidRange)
	assert.Equal(t, [2]float64{-10, 2000}, *res.ValidRange)
	assert.Equal(t, "DU", res.Units)
}

func TestListFields(t *testing.T) {
	loader := &mockLoader{fields: map[string][]store.FieldInfo{
		"a_NO2.he5": {{Name: "ColumnAmountNO2", Rows: 3, Cols: 3, Units: "molec/cm2"}},
	}}
	e := usecase.NewExtractor(loader)

	infos, err := e.ListFields("a_NO2.he5")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "ColumnAmountNO2", infos[0].Name)

	_, err = e.ListFields("notaproduct.hdf")
	require.ErrorIs(t, err, domain.ErrSchemaMismatch)
}
