package core

import (
	"math"
	"strconv"
	"strings"
)

// Tag 代表 DXF 中的一组标签对
type Tag struct {
	Code  int
	Value string
}

// AsFloat 将值转换为 float64，非法值返回 0
func (t Tag) AsFloat() float64 {
	f, _ := t.Float()
	return f
}

// Float 将值转换为 float64，并报告值是否是合法的有限数
func (t Tag) Float() (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(t.Value), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// AsInt 将值转换为 int
func (t Tag) AsInt() int {
	i, _ := strconv.Atoi(strings.TrimSpace(t.Value))
	return i
}

// AsString 清洗字符串（去除多余空格）
func (t Tag) AsString() string {
	return strings.TrimSpace(t.Value)
}

// IsMarker 判断是否为 0 组码的指定标记（如 SECTION、ENDSEC）
func (t Tag) IsMarker(name string) bool {
	return t.Code == 0 && strings.EqualFold(strings.TrimSpace(t.Value), name)
}

// Point 代表三维空间中的一个点
type Point struct {
	X, Y, Z float64
}

// BBox 代表包围盒
type BBox struct {
	Min, Max Point
}

// Extend 扩展包围盒使其包含点 p
func (b BBox) Extend(p Point) BBox {
	b.Min.X, b.Min.Y = math.Min(b.Min.X, p.X), math.Min(b.Min.Y, p.Y)
	b.Max.X, b.Max.Y = math.Max(b.Max.X, p.X), math.Max(b.Max.Y, p.Y)
	return b
}

// EmptyBBox 返回一个反向的空包围盒，任何 Extend 都会覆盖它
func EmptyBBox() BBox {
	return BBox{
		Min: Point{X: math.MaxFloat64, Y: math.MaxFloat64},
		Max: Point{X: -math.MaxFloat64, Y: -math.MaxFloat64},
	}
}

// IsEmpty 判断包围盒是否尚未包含任何点
func (b BBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

// Union 合并两个包围盒，空包围盒不参与
func (b BBox) Union(o BBox) BBox {
	if o.IsEmpty() {
		return b
	}
	return b.Extend(o.Min).Extend(o.Max)
}
