package utils

import (
	"math"

	"github.com/zooyer/floorplan/core"
	"github.com/zooyer/floorplan/entities"
	"github.com/zooyer/floorplan/model"
)

// CombineInserts 合并嵌套块的变换矩阵逻辑
func CombineInserts(parent, child *entities.Insert) *entities.Insert {
	// 1. 旋转叠加
	combinedRotation := parent.Rotation + child.Rotation

	// 2. 缩放叠加
	combinedScale := core.Point{
		X: parent.Scale.X * child.Scale.X,
		Y: parent.Scale.Y * child.Scale.Y,
		Z: parent.Scale.Z * child.Scale.Z,
	}

	// 3. 插入点叠加：子块的插入点需要经过父块的 缩放 -> 旋转 -> 平移 变换
	combinedInsertionPoint := TransformPoint(child.InsertionPoint, parent)

	return &entities.Insert{
		BaseEntity:     child.BaseEntity,
		BlockName:      child.BlockName,
		Rotation:       combinedRotation,
		Scale:          combinedScale,
		InsertionPoint: combinedInsertionPoint,
		Attributes:     child.Attributes,
	}
}

// TransformEntity 把块内实体（局部坐标，相对块基点 base）放到插入位置，返回新实体
//
// 非均匀缩放下圆和圆弧按 X 方向缩放近似处理。
func TransformEntity(e model.Entity, base core.Point, ins *entities.Insert) model.Entity {
	points := make([]model.Point, len(e.Coordinates))
	for i, p := range e.Coordinates {
		local := core.Point{X: p.X - base.X, Y: p.Y - base.Y}
		points[i] = ToModel(TransformPoint(local, ins))
	}

	sx, sy := math.Abs(ins.Scale.X), math.Abs(ins.Scale.Y)
	props := e.Properties.Clone()
	for key, factor := range map[string]float64{
		model.PropRadius:      sx,
		model.PropLength:      sx,
		model.PropMeasurement: sx,
		model.PropHeight:      sy,
		model.PropArea:        sx * sy,
	} {
		if v, ok := props.Float(key); ok {
			props[key] = v * factor
		}
	}
	for _, key := range []string{model.PropRotation, model.PropStartAngle, model.PropEndAngle} {
		if v, ok := props.Float(key); ok {
			props[key] = v + ins.Rotation
		}
	}
	if v, ok := props.Float(model.PropXScale); ok {
		props[model.PropXScale] = v * ins.Scale.X
	}
	if v, ok := props.Float(model.PropYScale); ok {
		props[model.PropYScale] = v * ins.Scale.Y
	}

	e.Coordinates, e.Properties = points, props
	return e
}
