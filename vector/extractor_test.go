package vector

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/floorplan/dxf"
	"github.com/zooyer/floorplan/model"
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

func load(t *testing.T, src string) *dxf.Document {
	t.Helper()
	doc, err := dxf.Load(strings.NewReader(dxfOf(src)))
	require.NoError(t, err)
	return doc
}

const tables = `
0 SECTION
2 TABLES
0 TABLE
2 DIMSTYLE
0 DIMSTYLE
2 STANDARD
271 1
0 ENDTAB
0 ENDSEC
`

func byKind(list []model.Entity, kind model.Kind) []model.Entity {
	var out []model.Entity
	for _, e := range list {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func TestExtract_Kinds(t *testing.T) {
	doc := load(t, tables+`
0 SECTION
2 ENTITIES
0 LINE
5 10
8 WALLS
62 1
370 35
10 0
20 0
11 10
21 0
0 LWPOLYLINE
8 ROOMS
70 1
10 0
20 0
10 4
20 0
10 4
20 3
0 CIRCLE
10 5
20 5
40 2
0 ARC
8 DOORS
10 1
20 1
40 0.9
50 0
51 90
0 TEXT
8 NOTES
10 2
20 2
40 2.5
50 30
1 90%%d
0 MTEXT
8 NOTES
10 3
20 3
11 1
21 1
1 {\fArial|b1;Room\P101}
0 3DFACE
8 0
10 0
20 0
0 ENDSEC
0 EOF
`)

	x := Extract(doc)
	require.Len(t, x.Entities, 6)
	assert.Empty(t, x.Diagnostics)

	line := x.Entities[0]
	assert.Equal(t, model.KindLine, line.Kind)
	assert.Equal(t, "WALLS", line.Layer)
	assert.Equal(t, []model.Point{{X: 0, Y: 0}, {X: 10, Y: 0}}, line.Coordinates)
	assert.Equal(t, 1, line.Properties[model.PropColor])
	assert.Equal(t, 35, line.Properties[model.PropLineWeight])

	poly := x.Entities[1]
	assert.Equal(t, model.KindPolyline, poly.Kind)
	assert.Len(t, poly.Coordinates, 3)
	assert.True(t, poly.Properties.Bool(model.PropClosed))

	circle := x.Entities[2]
	assert.Equal(t, model.KindCircle, circle.Kind)
	assert.Equal(t, "0", circle.Layer, "未声明图层时使用 0 层")
	r, _ := circle.Properties.Float(model.PropRadius)
	assert.Equal(t, 2.0, r)

	arc := x.Entities[3]
	assert.Equal(t, model.KindArc, arc.Kind)
	assert.Equal(t, 0.0, arc.Properties[model.PropStartAngle])
	assert.Equal(t, 90.0, arc.Properties[model.PropEndAngle])

	text := x.Entities[4]
	assert.Equal(t, model.KindText, text.Kind)
	assert.Equal(t, "90°", text.Properties.String(model.PropText))
	assert.Equal(t, 2.5, text.Properties[model.PropHeight])
	assert.Equal(t, 30.0, text.Properties[model.PropRotation])

	mtext := x.Entities[5]
	assert.Equal(t, model.KindText, mtext.Kind)
	assert.Equal(t, "Room\n101", mtext.Properties.String(model.PropText))
	rot, _ := mtext.Properties.Float(model.PropRotation)
	assert.InDelta(t, 45, rot, 1e-9)

	for _, e := range x.Entities {
		assert.NoError(t, e.Valid())
	}
	assert.Equal(t, []string{"0", "DOORS", "NOTES", "ROOMS", "WALLS"}, model.LayerSet(x.Entities, x.BlockEntities()))
}

func TestExtract_Malformed(t *testing.T) {
	doc := load(t, `
0 SECTION
2 ENTITIES
0 LINE
5 1A
8 WALLS
10 0
20 0
11 10
0 CIRCLE
5 1B
10 0
20 0
40 -1
0 LWPOLYLINE
5 1C
10 0
20 0
0 LINE
10 0
20 0
11 1
21 1
0 ENDSEC
0 EOF
`)

	x := Extract(doc)
	require.Len(t, x.Entities, 1)
	require.Len(t, x.Diagnostics, 3)
	for _, d := range x.Diagnostics {
		assert.Equal(t, model.DiagMalformed, d.Kind)
	}
	assert.Equal(t, "LINE", x.Diagnostics[0].Source)
	assert.Equal(t, "1A", x.Diagnostics[0].Handle)
	assert.Contains(t, x.Diagnostics[0].Message, "21")
	assert.Equal(t, "1B", x.Diagnostics[1].Handle)
	assert.Equal(t, "1C", x.Diagnostics[2].Handle)
}

func TestExtract_ArcDefaults(t *testing.T) {
	doc := load(t, `
0 SECTION
2 ENTITIES
0 ARC
5 2B
8 DOORS
10 1
20 1
40 0.5
0 ARC
5 2C
10 0
20 0
40 1
50 45
0 ENDSEC
0 EOF
`)

	x := Extract(doc)
	require.Len(t, x.Entities, 2, "缺少角度的圆弧不应丢弃")

	first := x.Entities[0]
	assert.Equal(t, model.KindArc, first.Kind)
	assert.Equal(t, 0.0, first.Properties[model.PropStartAngle])
	assert.Equal(t, 360.0, first.Properties[model.PropEndAngle])
	assert.Equal(t, 45.0, x.Entities[1].Properties[model.PropStartAngle])
	assert.Equal(t, 360.0, x.Entities[1].Properties[model.PropEndAngle])

	require.Len(t, x.Diagnostics, 2)
	assert.Equal(t, model.DiagDefaulted, x.Diagnostics[0].Kind)
	assert.Equal(t, "2B", x.Diagnostics[0].Handle)
	assert.Contains(t, x.Diagnostics[0].Message, "50")
	assert.Equal(t, "2C", x.Diagnostics[1].Handle)
	assert.NotContains(t, x.Diagnostics[1].Message, "50")
}

func TestExtract_InsertAndDimension(t *testing.T) {
	doc := load(t, tables+`
0 SECTION
2 ENTITIES
0 INSERT
8 DOORS
66 1
2 DOOR
10 10
20 20
41 2
42 3
50 90
0 ATTRIB
8 DOORS
10 10
20 20
2 TAG
1 D-01
0 SEQEND
0 DIMENSION
8 DIM
3 STANDARD
1 <>
10 100
20 50
42 1234.567
70 0
0 DIMENSION
8 DIM
1 2400 mm
10 0
20 0
0 ENDSEC
0 EOF
`)

	x := Extract(doc)
	require.Len(t, x.Entities, 3)

	ins := x.Entities[0]
	assert.Equal(t, model.KindInsert, ins.Kind)
	assert.Equal(t, "DOOR", ins.Properties.String(model.PropBlockName))
	assert.Equal(t, 2.0, ins.Properties[model.PropXScale])
	assert.Equal(t, 3.0, ins.Properties[model.PropYScale])
	assert.Equal(t, 90.0, ins.Properties[model.PropRotation])
	assert.Equal(t, map[string]string{"TAG": "D-01"}, ins.Properties[model.PropAttributes])

	dim := x.Entities[1]
	assert.Equal(t, model.KindDimension, dim.Kind)
	assert.Equal(t, []model.Point{{X: 100, Y: 50}}, dim.Coordinates)
	m, ok := dim.Properties.Float(model.PropMeasurement)
	require.True(t, ok)
	assert.InDelta(t, 1234.6, m, 1e-9, "按标注样式精度取整")
	assert.NotContains(t, dim.Properties, model.PropTextOverride, "<> 不算覆盖文字")

	override := x.Entities[2]
	m, ok = override.Properties.Float(model.PropMeasurement)
	require.True(t, ok)
	assert.Equal(t, 2400.0, m)
	assert.Equal(t, "2400 mm", override.Properties.String(model.PropTextOverride))
}

func TestExtract_Hatch(t *testing.T) {
	doc := load(t, `
0 SECTION
2 ENTITIES
0 HATCH
8 FILL
10 0
20 0
30 0
2 SOLID
70 1
91 1
92 2
72 0
73 1
93 4
10 0
20 0
10 4
20 0
10 4
20 3
10 0
20 3
97 0
75 0
76 1
98 1
10 1
20 1
0 HATCH
8 FILL
10 0
20 0
30 0
2 SOLID
70 1
91 1
92 1
93 2
72 1
10 0
20 0
11 5
21 0
72 2
10 5
20 2
40 2
50 270
51 90
73 1
97 0
75 0
0 HATCH
8 FILL
10 7
20 8
30 0
2 ANSI31
70 0
91 0
75 0
0 ENDSEC
0 EOF
`)

	x := Extract(doc)
	require.Len(t, x.Entities, 3)

	poly := x.Entities[0]
	assert.Equal(t, model.KindHatch, poly.Kind)
	assert.Equal(t, []model.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}}, poly.Coordinates)

	edges := x.Entities[1]
	require.Len(t, edges.Coordinates, 4)
	assert.Equal(t, model.Point{X: 0, Y: 0}, edges.Coordinates[0])
	assert.Equal(t, model.Point{X: 5, Y: 0}, edges.Coordinates[1])
	assert.InDelta(t, 5, edges.Coordinates[2].X, 1e-9)
	assert.InDelta(t, 0, edges.Coordinates[2].Y, 1e-9)
	assert.InDelta(t, 5, edges.Coordinates[3].X, 1e-9)
	assert.InDelta(t, 4, edges.Coordinates[3].Y, 1e-9)

	placeholder := x.Entities[2]
	assert.True(t, placeholder.Properties.Bool(model.PropPlaceholder))
	assert.Equal(t, []model.Point{{X: 7, Y: 8}}, placeholder.Coordinates)
	require.Len(t, x.Diagnostics, 1)
	assert.Equal(t, model.DiagUnresolvedHatch, x.Diagnostics[0].Kind)
}

func TestExtract_Deterministic(t *testing.T) {
	src := tables + `
0 SECTION
2 ENTITIES
0 LINE
8 A
10 0
20 0
11 1
21 1
0 CIRCLE
8 B
10 0
20 0
40 1
0 ENDSEC
0 EOF
`
	first := Extract(load(t, src))
	second := Extract(load(t, src))
	assert.Equal(t, first, second)
}
