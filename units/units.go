// Package units 推断源坐标单位并给出换算到米的比例
package units

import (
	"math"
	"strconv"

	"github.com/zooyer/floorplan/model"
)

// Unit 一个 $INSUNITS 单位
type Unit struct {
	Name   string
	Factor float64 // 1 个单位等于多少米
}

// Table $INSUNITS 代码到单位的映射
var Table = map[int]Unit{
	0: {Name: "unitless", Factor: 1},
	1: {Name: "in", Factor: 0.0254},
	2: {Name: "ft", Factor: 0.3048},
	3: {Name: "mi", Factor: 1609.344},
	4: {Name: "mm", Factor: 0.001},
	5: {Name: "cm", Factor: 0.01},
	6: {Name: "m", Factor: 1},
	7: {Name: "km", Factor: 1000},
}

// Thresholds 未声明单位时按图纸范围推断的阈值
type Thresholds struct {
	Millimeter float64 // 范围大于它认为是毫米
	Centimeter float64 // 范围大于它认为是厘米
}

// DefaultThresholds 默认阈值
var DefaultThresholds = Thresholds{Millimeter: 10000, Centimeter: 1000}

// Normalize 根据声明的单位代码（可以为空）和图纸范围给出换算比例
//
// 声明为 0（无单位）或未声明时按范围推断；不认识的代码比例为 1，单位名保留原始代码。
func Normalize(declared *int, extent float64, th Thresholds) model.UnitScale {
	if declared != nil && *declared != 0 {
		u, ok := Table[*declared]
		if !ok {
			return model.UnitScale{Unit: model.CanonicalUnit, Factor: 1, Source: strconv.Itoa(*declared)}
		}
		return model.UnitScale{Unit: model.CanonicalUnit, Factor: u.Factor, Source: u.Name}
	}

	u := Infer(extent, th)
	return model.UnitScale{Unit: model.CanonicalUnit, Factor: u.Factor, Source: u.Name, Inferred: true}
}

// Infer 按图纸最大边长猜测单位
func Infer(extent float64, th Thresholds) Unit {
	switch {
	case math.IsNaN(extent):
		return Table[6]
	case extent > th.Millimeter:
		return Table[4]
	case extent > th.Centimeter:
		return Table[5]
	default:
		return Table[6]
	}
}

// 按长度换算的属性，面积按比例的平方换算
var lengthProps = []string{
	model.PropRadius,
	model.PropHeight,
	model.PropLength,
	model.PropMeasurement,
}

// Rescale 返回换算到米之后的实体副本，原实体不变
func Rescale(list []model.Entity, factor float64) []model.Entity {
	out := make([]model.Entity, 0, len(list))
	for _, e := range list {
		out = append(out, RescaleEntity(e, factor))
	}
	return out
}

// RescaleEntity 换算单个实体
func RescaleEntity(e model.Entity, factor float64) model.Entity {
	points := make([]model.Point, len(e.Coordinates))
	for i, p := range e.Coordinates {
		points[i] = model.Point{X: p.X * factor, Y: p.Y * factor}
	}
	props := e.Properties.Clone()
	for _, key := range lengthProps {
		if v, ok := props.Float(key); ok {
			props[key] = v * factor
		}
	}
	if v, ok := props.Float(model.PropArea); ok {
		props[model.PropArea] = v * factor * factor
	}
	e.Coordinates, e.Properties = points, props
	return e
}

// RescaleBounds 换算包围盒
func RescaleBounds(b model.Bounds, factor float64) model.Bounds {
	return model.Bounds{MinX: b.MinX * factor, MinY: b.MinY * factor, MaxX: b.MaxX * factor, MaxY: b.MaxY * factor}
}
