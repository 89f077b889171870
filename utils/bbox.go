package utils

import (
	"math"

	"github.com/zooyer/floorplan/model"
)

// DefaultPadding 矢量图纸包围盒的留白比例
const DefaultPadding = 0.1

// Extent 计算模型空间实体的原始范围，块成员不参与；没有任何坐标时 ok 为 false
func Extent(list []model.Entity) (box model.Bounds, ok bool) {
	miX, miY := math.MaxFloat64, math.MaxFloat64
	maX, maY := -math.MaxFloat64, -math.MaxFloat64

	for _, e := range list {
		if !e.Top() {
			continue
		}
		// 圆和圆弧按半径向外扩展
		r, _ := e.Properties.Float(model.PropRadius)
		r = math.Abs(r)
		for _, p := range e.Coordinates {
			miX = math.Min(miX, p.X-r)
			miY = math.Min(miY, p.Y-r)
			maX = math.Max(maX, p.X+r)
			maY = math.Max(maY, p.Y+r)
			ok = true
		}
	}

	if !ok {
		return model.DefaultBounds(), false
	}
	return model.Bounds{MinX: miX, MinY: miY, MaxX: maX, MaxY: maY}, true
}

// Bounds 计算包围盒，并按宽高均值的 ratio 倍向四周留白；没有实体时返回默认范围
func Bounds(list []model.Entity, ratio float64) model.Bounds {
	box, ok := Extent(list)
	if !ok || ratio <= 0 {
		return box
	}
	return box.Pad(ratio * (box.Width() + box.Height()) / 2)
}

// InBox 判断点是否落在包围盒内（含边界）
func InBox(box model.Bounds, point model.Point) bool {
	if point.X >= box.MinX && point.X <= box.MaxX && point.Y >= box.MinY && point.Y <= box.MaxY {
		return true
	}

	return false
}
