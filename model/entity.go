// Package model 定义统一的几何实体模型，矢量和栅格两条管线都输出这些类型。
package model

import (
	"encoding/json"
	"fmt"
)

// Kind 实体类型
type Kind string

const (
	KindLine      Kind = "line"
	KindPolyline  Kind = "polyline"
	KindCircle    Kind = "circle"
	KindArc       Kind = "arc"
	KindText      Kind = "text"
	KindInsert    Kind = "insert"
	KindHatch     Kind = "hatch"
	KindDimension Kind = "dimension"
)

// Kinds 全部实体类型
var Kinds = []Kind{KindLine, KindPolyline, KindCircle, KindArc, KindText, KindInsert, KindHatch, KindDimension}

// 常用属性键
const (
	PropRadius       = "radius"
	PropStartAngle   = "start_angle"
	PropEndAngle     = "end_angle"
	PropClosed       = "closed"
	PropText         = "text"
	PropHeight       = "height"
	PropRotation     = "rotation"
	PropXScale       = "x_scale"
	PropYScale       = "y_scale"
	PropBlockName    = "block_name"
	PropAttributes   = "attributes"
	PropLineWeight   = "line_weight"
	PropColor        = "color"
	PropArea         = "area"
	PropLength       = "length"
	PropMeasurement  = "measurement"
	PropTextOverride = "text_override"
	PropPlaceholder  = "placeholder"
	PropInstanceOf   = "instance_of"
	PropConfidence   = "confidence"
)

// Point 二维坐标，JSON 编码为 [x, y]
type Point struct {
	X, Y float64
}

func (p Point) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.X, p.Y})
}

func (p *Point) UnmarshalJSON(data []byte) error {
	var xy [2]float64
	if err := json.Unmarshal(data, &xy); err != nil {
		return err
	}
	p.X, p.Y = xy[0], xy[1]
	return nil
}

// Properties 类型相关的属性
type Properties map[string]any

// Float 读取数值属性
func (p Properties) Float(key string) (float64, bool) {
	switch v := p[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Bool 读取布尔属性
func (p Properties) Bool(key string) bool {
	v, _ := p[key].(bool)
	return v
}

// String 读取字符串属性
func (p Properties) String(key string) string {
	v, _ := p[key].(string)
	return v
}

// Clone 浅拷贝属性表
func (p Properties) Clone() Properties {
	c := make(Properties, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

// Entity 统一的几何记录，创建后不再修改
type Entity struct {
	Kind        Kind       `json:"type"`
	Layer       string     `json:"layer"`
	Coordinates []Point    `json:"coordinates"`
	Properties  Properties `json:"properties"`
	OriginBlock string     `json:"origin_block,omitempty"`
}

// Top 是否为模型空间（非块成员）实体
func (e Entity) Top() bool {
	return e.OriginBlock == ""
}

// Valid 检查坐标数量是否符合类型约定
func (e Entity) Valid() error {
	n := len(e.Coordinates)
	switch e.Kind {
	case KindLine:
		if n != 2 {
			return fmt.Errorf("%s: want 2 points, got %d", e.Kind, n)
		}
	case KindPolyline:
		if n < 2 {
			return fmt.Errorf("%s: want at least 2 points, got %d", e.Kind, n)
		}
	case KindCircle, KindArc, KindText, KindInsert, KindDimension:
		if n != 1 {
			return fmt.Errorf("%s: want 1 point, got %d", e.Kind, n)
		}
	case KindHatch:
	default:
		return fmt.Errorf("unknown entity kind %q", e.Kind)
	}
	if r, ok := e.Properties.Float(PropRadius); ok && r < 0 {
		return fmt.Errorf("%s: negative radius %v", e.Kind, r)
	}
	return nil
}

// BlockDefinition 块模板，成员实体保持块内局部坐标
type BlockDefinition struct {
	Name string `json:"name"`
	Base Point  `json:"base"`
	// Extent 成员在块内坐标系下的范围，空块为 nil
	Extent   *Bounds  `json:"extent,omitempty"`
	Entities []Entity `json:"entities"`
}
