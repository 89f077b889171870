package raster

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/floorplan/model"
)

func canvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	return img
}

func fill(img *image.RGBA, r image.Rectangle) {
	draw.Draw(img, r, image.NewUniform(color.Black), image.Point{}, draw.Src)
}

func TestExtract_Blank(t *testing.T) {
	x := Extract(canvas(120, 80), DefaultOptions())
	assert.Empty(t, x.Entities)
	assert.Empty(t, x.Diagnostics)
}

func TestExtract_Rectangle(t *testing.T) {
	img := canvas(200, 200)
	fill(img, image.Rect(50, 50, 100, 90))

	x := Extract(img, DefaultOptions())

	var rooms []model.Entity
	for _, e := range x.Entities {
		assert.NoError(t, e.Valid())
		switch e.Kind {
		case model.KindPolyline:
			rooms = append(rooms, e)
		case model.KindLine:
			assert.Equal(t, LayerLines, e.Layer)
			l, ok := e.Properties.Float(model.PropLength)
			assert.True(t, ok)
			assert.Greater(t, l, 0.0)
		}
		for _, p := range e.Coordinates {
			assert.True(t, p.X >= 0 && p.X <= Span && p.Y >= 0 && p.Y <= Span, "坐标应在归一化范围内: %v", p)
		}
	}

	require.Len(t, rooms, 1)
	room := rooms[0]
	assert.Equal(t, "ROOM_1", room.Layer)
	assert.Len(t, room.Coordinates, 4)
	assert.True(t, room.Properties.Bool(model.PropClosed))
	area, ok := room.Properties.Float(model.PropArea)
	require.True(t, ok)
	assert.InEpsilon(t, 2000, area, 0.1)

	// Y 轴翻转：矩形上边 y=50 映射到 75
	var maxY float64
	for _, p := range room.Coordinates {
		maxY = max(maxY, p.Y)
	}
	assert.InDelta(t, 75, maxY, 1e-9)
}

func TestExtract_SmallContour(t *testing.T) {
	img := canvas(100, 100)
	fill(img, image.Rect(10, 10, 14, 14))

	x := Extract(img, DefaultOptions())
	assert.Empty(t, x.Entities)
	require.Len(t, x.Diagnostics, 1)
	assert.Equal(t, model.DiagSmallContour, x.Diagnostics[0].Kind)
}

func TestExtract_Deterministic(t *testing.T) {
	img := canvas(160, 160)
	fill(img, image.Rect(20, 20, 140, 24))
	fill(img, image.Rect(20, 20, 24, 140))
	fill(img, image.Rect(60, 60, 120, 110))

	first := Extract(img, DefaultOptions())
	second := Extract(img, DefaultOptions())
	assert.Equal(t, first, second)
	assert.NotEmpty(t, first.Entities)
}

func TestExtract_Downscale(t *testing.T) {
	img := canvas(400, 400)
	fill(img, image.Rect(100, 100, 200, 180))

	opts := DefaultOptions()
	opts.MaxDimension = 200
	x := Extract(img, opts)
	assert.Equal(t, 200, x.Width)
	assert.Equal(t, 2.0, x.Scale)

	var rooms int
	for _, e := range x.Entities {
		if e.Kind != model.KindPolyline {
			continue
		}
		rooms++
		area, _ := e.Properties.Float(model.PropArea)
		// 按源像素计算面积
		assert.InEpsilon(t, 8000, area, 0.15)
	}
	assert.Equal(t, 1, rooms)
}

func TestExtract_LineLength(t *testing.T) {
	img := canvas(200, 100)
	fill(img, image.Rect(20, 49, 120, 51))

	opts := DefaultOptions()
	opts.MinContourArea = 1e6
	x := Extract(img, opts)

	var lines int
	for _, e := range x.Entities {
		if e.Kind != model.KindLine {
			continue
		}
		lines++
		l, ok := e.Properties.Float(model.PropLength)
		require.True(t, ok)
		p0, p1 := e.Coordinates[0], e.Coordinates[1]
		assert.InDelta(t, math.Hypot(p1.X-p0.X, p1.Y-p0.Y), l, 1e-9, "长度应等于坐标距离")
		// 100 像素宽的笔画在 200 像素宽的图上约占 50 个单位
		assert.Less(t, l, 55.0)
	}
	assert.NotZero(t, lines)
}

func TestMap(t *testing.T) {
	x := Extraction{Width: 200, Height: 100}
	assert.Equal(t, model.Point{X: 0, Y: 100}, x.Map(0, 0))
	assert.Equal(t, model.Point{X: 50, Y: 50}, x.Map(100, 50))
	assert.Equal(t, model.Point{X: 100, Y: 0}, x.Map(200, 100))
}
