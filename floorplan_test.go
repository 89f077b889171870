package floorplan

import (
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/floorplan/dxf"
	"github.com/zooyer/floorplan/model"
	"github.com/zooyer/floorplan/pdfsrc"
)

// dxfOf 把每行一对 "组码 值" 的文本展开成 DXF 组码流
func dxfOf(src string) string {
	var b strings.Builder
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		code, value, _ := strings.Cut(line, " ")
		b.WriteString(code + "\n" + value + "\n")
	}
	return b.String()
}

func header(units string) string {
	return `
0 SECTION
2 HEADER
9 $INSUNITS
70 ` + units + `
0 ENDSEC
`
}

const lineAndCircle = `
0 SECTION
2 ENTITIES
0 LINE
8 WALLS
10 0
20 0
11 10
21 0
0 CIRCLE
8 FURNITURE
10 5
20 5
40 2
0 ENDSEC
0 EOF
`

const withBlock = `
0 SECTION
2 BLOCKS
0 BLOCK
2 DOOR
10 0
20 0
0 LINE
8 DOORS
10 0
20 0
11 1
21 0
0 ENDBLK
0 ENDSEC
0 SECTION
2 ENTITIES
0 LINE
8 WALLS
10 0
20 0
11 4000
21 0
0 INSERT
8 PLAN
2 DOOR
10 100
20 0
0 ENDSEC
0 EOF
`

func write(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func document(t *testing.T, src string) *dxf.Document {
	t.Helper()
	doc, err := dxf.Load(strings.NewReader(dxfOf(src)))
	require.NoError(t, err)
	return doc
}

func TestExtract_LineAndCircle(t *testing.T) {
	path := write(t, "plan.dxf", dxfOf(header("4")+lineAndCircle))

	result, err := Extract(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, model.SourceVector, result.Source)
	require.Len(t, result.Entities, 2)
	assert.Equal(t, model.KindLine, result.Entities[0].Kind)
	assert.Len(t, result.Entities[0].Coordinates, 2, "直线恰好两个坐标")
	assert.Equal(t, model.KindCircle, result.Entities[1].Kind)

	b := result.Bounds
	assert.InDelta(t, -0.8, b.MinX, 0.1)
	assert.InDelta(t, -0.8, b.MinY, 0.1)
	assert.InDelta(t, 10.8, b.MaxX, 0.1)
	assert.InDelta(t, 7.8, b.MaxY, 0.1)
	assert.True(t, result.Padded)

	// 圆完整落在包围盒内
	assert.LessOrEqual(t, b.MinX, 5-2.0)
	assert.GreaterOrEqual(t, b.MaxY, 5+2.0)

	assert.Equal(t, 0.001, result.Units.Factor)
	assert.Equal(t, "mm", result.Units.Source)
	assert.False(t, result.Units.Inferred)

	assert.Equal(t, []string{"FURNITURE", "WALLS"}, result.Layers)
	assert.Equal(t, 2, result.EntityCount)
	assert.Equal(t, 2, result.LayerCount)
	assert.Empty(t, result.Diagnostics)
}

func TestExtract_UnknownUnitCode(t *testing.T) {
	result := ExtractDocument(document(t, header("99")+lineAndCircle), DefaultOptions())
	assert.Equal(t, 1.0, result.Units.Factor)
	assert.Equal(t, "99", result.Units.Source, "保留原始单位代码")
	assert.False(t, result.Units.Inferred)
}

func TestExtract_InferredUnits(t *testing.T) {
	result := ExtractDocument(document(t, withBlock), DefaultOptions())
	assert.Equal(t, 0.01, result.Units.Factor, "范围 4000 推断为厘米")
	assert.True(t, result.Units.Inferred)
	assert.Equal(t, 1, result.Diagnostics.Count(model.DiagUnitsUnspecified))
}

func TestExtract_Modes(t *testing.T) {
	doc := document(t, withBlock)

	opts := DefaultOptions()
	full := ExtractDocument(doc, opts)
	require.Len(t, full.Entities, 3)
	assert.True(t, full.Entities[0].Top())
	assert.True(t, full.Entities[1].Top())
	assert.Equal(t, "DOOR", full.Entities[2].OriginBlock, "块成员排在模型空间实体之后")
	assert.Contains(t, full.Blocks, "DOOR")
	assert.Equal(t, []string{"DOORS", "PLAN", "WALLS"}, full.Layers)

	opts.Mode = model.ModeBase
	base := ExtractDocument(doc, opts)
	assert.Len(t, base.Entities, 2)
	assert.Nil(t, base.Blocks)
	assert.Equal(t, []string{"PLAN", "WALLS"}, base.Layers)

	// 块成员不影响包围盒
	assert.Equal(t, full.Bounds, base.Bounds)
}

func TestExtract_BlockReference(t *testing.T) {
	// 块定义和块参照的大小写不一致
	src := strings.Replace(withBlock, "2 DOOR", "2 Door", 1)
	src = strings.Replace(src, "2 DOOR", "2 door", 1)
	result := ExtractDocument(document(t, src), DefaultOptions())

	var inserts int
	for _, e := range result.Entities {
		if e.Kind != model.KindInsert {
			continue
		}
		inserts++
		name := e.Properties.String(model.PropBlockName)
		def, ok := result.Blocks[name]
		require.True(t, ok, "块参照 %q 找不到块模板: %v", name, result.Blocks)
		assert.Equal(t, name, def.Name)
	}
	assert.Equal(t, 1, inserts)

	for _, e := range result.Entities[2:] {
		_, ok := result.Blocks[e.OriginBlock]
		assert.True(t, ok, "成员所属块 %q 不在块模板中", e.OriginBlock)
	}
}

func TestExtract_LayerSet(t *testing.T) {
	for _, mode := range []model.Mode{model.ModeFull, model.ModeBase} {
		opts := DefaultOptions()
		opts.Mode = mode
		opts.MaterializeInserts = true
		result := ExtractDocument(document(t, withBlock), opts)

		seen := make(map[string]bool)
		for _, e := range result.Entities {
			seen[e.Layer] = true
		}
		assert.Len(t, result.Layers, len(seen), mode)
		for _, layer := range result.Layers {
			assert.True(t, seen[layer], "%s: 图层 %s 没有实体", mode, layer)
		}
		assert.Equal(t, len(result.Entities), result.EntityCount)
	}
}

func TestExtract_ApplyScale(t *testing.T) {
	opts := DefaultOptions()
	opts.ApplyScale = true
	result := ExtractDocument(document(t, header("4")+lineAndCircle), opts)

	assert.True(t, result.Units.Applied)
	assert.InDelta(t, 0.01, result.Entities[0].Coordinates[1].X, 1e-12)
	r, _ := result.Entities[1].Properties.Float(model.PropRadius)
	assert.InDelta(t, 0.002, r, 1e-12)
	assert.InDelta(t, 0.0108, result.Bounds.MaxX, 1e-4)
}

func TestExtract_Deterministic(t *testing.T) {
	path := write(t, "plan.dxf", dxfOf(header("4")+withBlock))

	opts := DefaultOptions()
	opts.MaterializeInserts = true
	var outputs []string
	for i := 0; i < 2; i++ {
		result, err := Extract(path, opts)
		require.NoError(t, err)
		data, err := json.Marshal(result)
		require.NoError(t, err)
		outputs = append(outputs, string(data))
	}
	assert.Equal(t, outputs[0], outputs[1])
}

func TestExtract_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		typ  SourceType
		want error
	}{
		{"不存在的文件", filepath.Join(dir, "missing.dxf"), TypeAuto, model.ErrOpenFailed},
		{"损坏的 DXF", write(t, "bad.dxf", "hello\nworld\n"), TypeAuto, model.ErrCorruptSource},
		{"DWG", write(t, "plan.dwg", "AC1032"), TypeAuto, model.ErrUnsupportedSource},
		{"未知扩展名", write(t, "plan.txt", "x"), TypeAuto, model.ErrUnsupportedSource},
		{"未知类型", write(t, "plan.dxf", "x"), SourceType("svg"), model.ErrUnsupportedSource},
		{"无法解码的图片", write(t, "plan.png", "not a png"), TypeAuto, model.ErrDecodeFailed},
		{"按类型打开", write(t, "plan.dat", "not a png"), TypeImage, model.ErrDecodeFailed},
		{"损坏的 PDF", write(t, "plan.pdf", "garbage"), TypeAuto, model.ErrCorruptSource},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Type = tt.typ
			result, err := Extract(tt.path, opts)
			assert.Nil(t, result, "失败时不返回部分结果")
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)

			var extractErr *model.ExtractionError
			assert.True(t, errors.As(err, &extractErr))
		})
	}
}

func rectangle(w, h int, r image.Rectangle) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.Draw(img, r, image.NewUniform(color.Black), image.Point{}, draw.Src)
	return img
}

func TestExtract_Image(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.png")
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, rectangle(200, 200, image.Rect(50, 50, 100, 90))))
	require.NoError(t, file.Close())

	result, err := Extract(path, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, model.SourceRaster, result.Source)
	assert.False(t, result.Padded, "栅格包围盒不留白")
	assert.Equal(t, "normalized", result.Units.Source)

	var rooms []model.Entity
	for _, e := range result.Entities {
		if e.Kind == model.KindPolyline {
			rooms = append(rooms, e)
		}
	}
	require.Len(t, rooms, 1)
	assert.Equal(t, "ROOM_1", rooms[0].Layer)
	assert.Len(t, rooms[0].Coordinates, 4)
	area, _ := rooms[0].Properties.Float(model.PropArea)
	assert.InEpsilon(t, 2000, area, 0.1)
}

func TestExtractImage_Blank(t *testing.T) {
	result := ExtractImage(rectangle(64, 64, image.Rectangle{}), DefaultOptions())
	assert.Empty(t, result.Entities)
	assert.Equal(t, model.DefaultBounds(), result.Bounds)
	assert.Empty(t, result.Layers)
	assert.NotNil(t, result.Diagnostics)
}

func TestExtractPage(t *testing.T) {
	page := &pdfsrc.Page{
		Image:  rectangle(64, 64, image.Rectangle{}),
		Pages:  3,
		Width:  200,
		Height: 100,
		Runs: []pdfsrc.TextRun{
			{Text: "Kitchen", X: 50, Y: 25, W: 30, Size: 10},
			{Text: "margin", X: 250, Y: 25, W: 30, Size: 10},
		},
	}

	result := ExtractPage(page, DefaultOptions())
	assert.Equal(t, model.SourcePDF, result.Source)
	assert.Equal(t, 1, result.Diagnostics.Count(model.DiagMultiPage))

	require.Len(t, result.Entities, 1)
	text := result.Entities[0]
	assert.Equal(t, LayerPDFText, text.Layer)
	assert.Equal(t, "Kitchen", text.Properties.String(model.PropText))
	assert.Equal(t, []model.Point{{X: 25, Y: 25}}, text.Coordinates)
	assert.Equal(t, []string{LayerPDFText}, result.Layers)

	// MediaBox 左下角不在原点时按页面边框换算
	page.MinX, page.MinY = 100, 50
	page.Runs = []pdfsrc.TextRun{
		{Text: "Hall", X: 150, Y: 75, W: 20, Size: 10},
		{Text: "outside", X: 50, Y: 75, W: 20, Size: 10},
	}
	result = ExtractPage(page, DefaultOptions())
	require.Len(t, result.Entities, 1)
	assert.Equal(t, "Hall", result.Entities[0].Properties.String(model.PropText))
	assert.Equal(t, []model.Point{{X: 25, Y: 25}}, result.Entities[0].Coordinates)
}

func TestDetect(t *testing.T) {
	tests := map[string]SourceType{
		"a.DXF":  TypeDXF,
		"b.pdf":  TypePDF,
		"c.JPG":  TypeImage,
		"d.tiff": TypeImage,
		"e.webp": TypeImage,
	}
	for path, want := range tests {
		got, err := Detect(path, TypeAuto)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	got, err := Detect("scan.bin", TypePDF)
	require.NoError(t, err)
	assert.Equal(t, TypePDF, got, "显式类型优先")
}

func TestAssemble(t *testing.T) {
	parts := Parts{
		Source:   model.SourceVector,
		Entities: []model.Entity{{Kind: model.KindLine, Layer: "B"}},
		Members:  []model.Entity{{Kind: model.KindLine, Layer: "A", OriginBlock: "X"}},
		Blocks:   map[string]model.BlockDefinition{"X": {Name: "X"}},
	}

	full := Assemble(parts, model.ModeFull)
	assert.Equal(t, []string{"A", "B"}, full.Layers)
	assert.Equal(t, 2, full.EntityCount)
	assert.Len(t, full.Blocks, 1)
	assert.NotNil(t, full.Diagnostics)

	base := Assemble(parts, model.ModeBase)
	assert.Equal(t, []string{"B"}, base.Layers)
	assert.Equal(t, 1, base.EntityCount)
	assert.Nil(t, base.Blocks)
}
