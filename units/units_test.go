package units

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/floorplan/model"
)

func code(c int) *int { return &c }

func TestNormalize_Declared(t *testing.T) {
	tests := []struct {
		code   int
		unit   string
		factor float64
	}{
		{1, "in", 0.0254},
		{2, "ft", 0.3048},
		{3, "mi", 1609.344},
		{4, "mm", 0.001},
		{5, "cm", 0.01},
		{6, "m", 1},
		{7, "km", 1000},
	}
	for _, tt := range tests {
		t.Run(tt.unit, func(t *testing.T) {
			s := Normalize(code(tt.code), 5, DefaultThresholds)
			assert.Equal(t, model.CanonicalUnit, s.Unit)
			assert.Equal(t, tt.unit, s.Source)
			assert.InDelta(t, tt.factor, s.Factor, 1e-12)
			assert.False(t, s.Inferred)
		})
	}
}

func TestNormalize_Heuristic(t *testing.T) {
	tests := []struct {
		name    string
		declare *int
		extent  float64
		unit    string
		factor  float64
	}{
		{"未声明大图纸为毫米", nil, 12000, "mm", 0.001},
		{"未声明中等图纸为厘米", nil, 5000, "cm", 0.01},
		{"未声明小图纸为米", nil, 10, "m", 1},
		{"无单位同样推断", code(0), 20000, "mm", 0.001},
		{"边界值不算超过", nil, 10000, "cm", 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Normalize(tt.declare, tt.extent, DefaultThresholds)
			assert.True(t, s.Inferred)
			assert.Equal(t, tt.unit, s.Source)
			assert.InDelta(t, tt.factor, s.Factor, 1e-12)
		})
	}
}

func TestNormalize_UnknownCode(t *testing.T) {
	s := Normalize(code(14), 12000, DefaultThresholds)
	assert.Equal(t, 1.0, s.Factor)
	assert.Equal(t, "14", s.Source)
	assert.False(t, s.Inferred)
}

func TestNormalize_FactorPositive(t *testing.T) {
	for c := -3; c < 30; c++ {
		s := Normalize(code(c), float64(c)*1000, DefaultThresholds)
		assert.Greater(t, s.Factor, 0.0, "code %d", c)
	}
}

func TestRescale(t *testing.T) {
	src := []model.Entity{
		{Kind: model.KindCircle, Layer: "0", Coordinates: []model.Point{{X: 1000, Y: 2000}}, Properties: model.Properties{model.PropRadius: 500.0}},
		{Kind: model.KindPolyline, Layer: "ROOM_1", Coordinates: []model.Point{{X: 0, Y: 0}, {X: 1000, Y: 0}}, Properties: model.Properties{model.PropArea: 2e6}},
	}

	out := Rescale(src, 0.001)
	require.Len(t, out, 2)
	assert.Equal(t, model.Point{X: 1, Y: 2}, out[0].Coordinates[0])
	r, _ := out[0].Properties.Float(model.PropRadius)
	assert.InDelta(t, 0.5, r, 1e-12)
	a, _ := out[1].Properties.Float(model.PropArea)
	assert.InDelta(t, 2.0, a, 1e-9)

	// 原实体不变
	assert.Equal(t, 1000.0, src[0].Coordinates[0].X)
	r, _ = src[0].Properties.Float(model.PropRadius)
	assert.Equal(t, 500.0, r)
}
