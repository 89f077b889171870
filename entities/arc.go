package entities

import (
	"math"

	"github.com/zooyer/floorplan/core"
)

// Arc 圆弧，角度为度数，按 DXF 约定从起始角逆时针到终止角
type Arc struct {
	BaseEntity
	Center     core.Point
	Radius     float64
	StartAngle float64
	EndAngle   float64
}

func init() {
	Register("ARC", func() Entity { return &Arc{BaseEntity: BaseEntity{TypeName: "ARC"}} })
}

func (a *Arc) Parse(s *core.Scanner) error {
	for {
		t := s.LastTag
		if !a.parseCommon(t) {
			switch t.Code {
			case 10:
				a.float(t, &a.Center.X)
			case 20:
				a.float(t, &a.Center.Y)
			case 30:
				a.float(t, &a.Center.Z)
			case 40:
				a.float(t, &a.Radius)
			case 50:
				a.float(t, &a.StartAngle)
			case 51:
				a.float(t, &a.EndAngle)
			}
		}
		if !s.Next() || s.LastTag.Code == 0 {
			break
		}
	}
	// 缺省的角度按整圆
	if !a.seen[51] {
		a.EndAngle = 360
	}
	return nil
}

// Defaulted 返回缺失而按默认值处理的角度组码
func (a *Arc) Defaulted() []int {
	var codes []int
	for _, code := range []int{50, 51} {
		if !a.seen[code] {
			codes = append(codes, code)
		}
	}
	return codes
}

func (a *Arc) Validate() error {
	if err := a.require(10, 20, 40); err != nil {
		return err
	}
	if a.Radius < 0 {
		return &InvalidFieldError{Type: a.TypeName, Handle: a.Handle, Field: "radius", Value: a.Radius}
	}
	return nil
}

// Endpoints 返回圆弧的起点和终点
func (a *Arc) Endpoints() (start, end core.Point) {
	return polar(a.Center, a.Radius, a.StartAngle), polar(a.Center, a.Radius, a.EndAngle)
}

// BBox 由两个端点和扫过的象限点构成
func (a *Arc) BBox() core.BBox {
	start, end := a.Endpoints()
	box := core.EmptyBBox().Extend(start).Extend(end)
	sweep := normalizeAngle(a.EndAngle - a.StartAngle)
	if sweep == 0 {
		return radiusBBox(a.Center, a.Radius)
	}
	for deg := 0.0; deg < 360; deg += 90 {
		if normalizeAngle(deg-a.StartAngle) < sweep {
			box = box.Extend(polar(a.Center, a.Radius, deg))
		}
	}
	return box
}

// normalizeAngle 把角度归到 [0, 360)
func normalizeAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func polar(center core.Point, r, deg float64) core.Point {
	rad := deg * math.Pi / 180.0
	return core.Point{X: center.X + r*math.Cos(rad), Y: center.Y + r*math.Sin(rad)}
}
