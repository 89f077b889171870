package vector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/floorplan/model"
)

const blocks = `
0 SECTION
2 BLOCKS
0 BLOCK
2 DOOR
70 0
10 0
20 0
0 LINE
8 0
10 0
20 0
11 1
21 0
0 ENDBLK
0 BLOCK
2 *D1
70 1
10 0
20 0
0 LINE
8 DIM
10 0
20 0
11 1
21 1
0 ENDBLK
0 BLOCK
2 OUTER
70 0
10 0
20 0
0 INSERT
2 DOOR
10 5
20 0
0 CIRCLE
8 FURNITURE
10 0
20 0
40 1
0 ENDBLK
0 BLOCK
2 LOOP
70 0
10 0
20 0
0 INSERT
2 LOOP
10 1
20 0
0 ENDBLK
0 ENDSEC
`

func TestExpandBlocks(t *testing.T) {
	doc := load(t, blocks+`
0 SECTION
2 ENTITIES
0 LINE
8 WALLS
10 0
20 0
11 1
21 1
0 ENDSEC
0 EOF
`)

	x := ExpandBlocks(doc, Extract(doc))
	assert.Equal(t, []string{"DOOR", "LOOP", "OUTER"}, x.BlockNames(), "匿名块不输出")

	door := x.Blocks["DOOR"]
	require.Len(t, door.Entities, 1)
	assert.Equal(t, "DOOR", door.Entities[0].OriginBlock)
	assert.Equal(t, []model.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}, door.Entities[0].Coordinates, "块成员保持局部坐标")

	require.NotNil(t, door.Extent)
	assert.Equal(t, model.Bounds{MinX: 0, MinY: 0, MaxX: 1, MaxY: 0}, *door.Extent)

	outer := x.Blocks["OUTER"]
	require.Len(t, outer.Entities, 2)
	assert.Equal(t, model.KindInsert, outer.Entities[0].Kind)
	// 嵌套参照只计插入点，圆按半径扩展
	require.NotNil(t, outer.Extent)
	assert.Equal(t, model.Bounds{MinX: -1, MinY: -1, MaxX: 5, MaxY: 1}, *outer.Extent)

	// 顶层实体之后依次是 DOOR、LOOP、OUTER 的成员
	members := x.BlockEntities()
	require.Len(t, members, 4)
	assert.Equal(t, "DOOR", members[0].OriginBlock)
	assert.Equal(t, "OUTER", members[3].OriginBlock)

	assert.Equal(t, []string{"0", "FURNITURE", "WALLS"}, model.LayerSet(x.Entities, x.BlockEntities()))
}

func TestMaterialize(t *testing.T) {
	doc := load(t, blocks+`
0 SECTION
2 ENTITIES
0 INSERT
8 DOORS
2 DOOR
10 10
20 20
41 2
42 2
50 90
0 INSERT
8 PLAN
2 OUTER
10 100
20 0
0 INSERT
5 2F
2 GHOST
10 0
20 0
0 ENDSEC
0 EOF
`)

	x := Materialize(doc, Extract(doc), 0)
	require.Len(t, x.Entities, 3+3)

	door := x.Entities[3]
	assert.Equal(t, model.KindLine, door.Kind)
	assert.True(t, door.Top())
	assert.Equal(t, "DOOR", door.Properties.String(model.PropInstanceOf))
	assert.Equal(t, "DOORS", door.Layer, "0 层成员继承参照图层")
	assert.InDelta(t, 10, door.Coordinates[0].X, 1e-9)
	assert.InDelta(t, 20, door.Coordinates[0].Y, 1e-9)
	assert.InDelta(t, 10, door.Coordinates[1].X, 1e-9)
	assert.InDelta(t, 22, door.Coordinates[1].Y, 1e-9)

	nested := x.Entities[4]
	assert.Equal(t, "DOOR", nested.Properties.String(model.PropInstanceOf))
	assert.InDelta(t, 105, nested.Coordinates[0].X, 1e-9)
	assert.InDelta(t, 106, nested.Coordinates[1].X, 1e-9)

	circle := x.Entities[5]
	assert.Equal(t, model.KindCircle, circle.Kind)
	assert.Equal(t, "FURNITURE", circle.Layer)
	assert.Equal(t, []model.Point{{X: 100, Y: 0}}, circle.Coordinates)

	require.Len(t, x.Diagnostics, 1)
	assert.Equal(t, model.DiagMissingBlock, x.Diagnostics[0].Kind)
	assert.Equal(t, "2F", x.Diagnostics[0].Handle)
}

func TestMaterialize_DepthLimit(t *testing.T) {
	doc := load(t, blocks+`
0 SECTION
2 ENTITIES
0 INSERT
2 LOOP
10 0
20 0
0 ENDSEC
0 EOF
`)

	x := Materialize(doc, Extract(doc), 3)
	assert.Len(t, x.Entities, 1)
	require.Len(t, x.Diagnostics, 1)
	assert.Equal(t, model.DiagInstanceTooDeep, x.Diagnostics[0].Kind)
}
