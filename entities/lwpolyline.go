package entities

import (
	"math"

	"github.com/zooyer/floorplan/core"
)

// 多段线标志位（组码 70）
const (
	PolylineClosed = 1
)

type LWPolyline struct {
	BaseEntity
	Vertices []core.Point
	Flags    int
}

func init() {
	Register("LWPOLYLINE", func() Entity { return &LWPolyline{BaseEntity: BaseEntity{TypeName: "LWPOLYLINE"}} })
}

func (l *LWPolyline) Parse(s *core.Scanner) error {
	var (
		x   float64
		xok bool
		bad bool
	)
	for {
		t := s.LastTag
		if !l.parseCommon(t) {
			switch t.Code {
			case 70:
				l.Flags = t.AsInt()
			case 10:
				x, xok = t.Float()
			case 20:
				y, ok := t.Float()
				if !ok || !xok {
					bad = true
					break
				}
				l.Vertices = append(l.Vertices, core.Point{X: x, Y: y})
				xok = false
			}
		}
		if !s.Next() || s.LastTag.Code == 0 {
			break
		}
	}
	if !bad && len(l.Vertices) >= 2 {
		l.mark(10)
		l.mark(20)
	}
	return nil
}

// Closed 是否闭合
func (l *LWPolyline) Closed() bool {
	return l.Flags&PolylineClosed != 0
}

// Validate 至少需要两个完整的顶点
func (l *LWPolyline) Validate() error {
	return l.require(10, 20)
}

func (l *LWPolyline) BBox() core.BBox {
	return pointsBBox(l.Vertices)
}

func pointsBBox(points []core.Point) core.BBox {
	if len(points) == 0 {
		return core.BBox{}
	}
	miX, miY, maX, maY := points[0].X, points[0].Y, points[0].X, points[0].Y
	for _, v := range points {
		miX = math.Min(miX, v.X)
		miY = math.Min(miY, v.Y)
		maX = math.Max(maX, v.X)
		maY = math.Max(maY, v.Y)
	}
	return core.BBox{Min: core.Point{X: miX, Y: miY}, Max: core.Point{X: maX, Y: maY}}
}
