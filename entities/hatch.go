package entities

import (
	"math"

	"github.com/zooyer/floorplan/core"
)

// 边界路径类型标志（组码 92）
const hatchPathPolyline = 2

// 边界边类型（组码 72）
const (
	edgeLine    = 1
	edgeArc     = 2
	edgeEllipse = 3
	edgeSpline  = 4
)

type hatchState int

const (
	hatchHeader hatchState = iota // 91 之前
	hatchPath                     // 边界路径中
	hatchTail                     // 图案定义和种子点
)

// Hatch 填充，只保留边界路径的端点序列
type Hatch struct {
	BaseEntity
	PatternName string
	Solid       bool
	Elevation   core.Point     // 组码 10/20（91 之前）
	Paths       [][]core.Point // 每条边界路径按顺序拼接的端点
	Seeds       []core.Point   // 组码 98 之后的种子点
}

// hatchEdge 正在解析的边界边
type hatchEdge struct {
	kind          int
	p0, p1        core.Point // 直线起终点，或圆弧/椭圆中心与长轴端点
	radius, ratio float64
	start, end    float64
	ccw           bool
	controls      []core.Point
	x             float64
}

func init() {
	Register("HATCH", func() Entity { return &Hatch{BaseEntity: BaseEntity{TypeName: "HATCH"}} })
}

func (h *Hatch) Parse(s *core.Scanner) error {
	var (
		state    = hatchHeader
		polyPath bool
		path     []core.Point
		edge     *hatchEdge
		x        float64
		inPath   bool
	)

	closeEdge := func() {
		if edge != nil {
			path = append(path, edge.endpoints()...)
			edge = nil
		}
	}
	closePath := func() {
		closeEdge()
		if inPath {
			h.Paths = append(h.Paths, path)
		}
		path, inPath = nil, false
	}

	for {
		t := s.LastTag
		switch {
		case h.parseCommon(t):
		case state == hatchHeader:
			switch t.Code {
			case 2:
				h.PatternName = t.AsString()
			case 70:
				h.Solid = t.AsInt() == 1
			case 10:
				h.Elevation.X = t.AsFloat()
			case 20:
				h.Elevation.Y = t.AsFloat()
			case 91:
				state = hatchPath
			}
		case state == hatchPath:
			switch t.Code {
			case 92:
				closePath()
				inPath = true
				polyPath = t.AsInt()&hatchPathPolyline != 0
			case 75, 76, 98, 52, 41, 47:
				closePath()
				state = hatchTail
			default:
				if !inPath {
					break
				}
				if polyPath {
					switch t.Code {
					case 10:
						x = t.AsFloat()
					case 20:
						path = append(path, core.Point{X: x, Y: t.AsFloat()})
					}
					break
				}
				if t.Code == 72 {
					closeEdge()
					edge = &hatchEdge{kind: t.AsInt(), ccw: true}
					break
				}
				if edge != nil {
					edge.apply(t)
				}
			}
		case state == hatchTail:
			switch t.Code {
			case 10:
				x = t.AsFloat()
			case 20:
				h.Seeds = append(h.Seeds, core.Point{X: x, Y: t.AsFloat()})
			}
		}
		if !s.Next() || s.LastTag.Code == 0 {
			break
		}
	}
	closePath()
	return nil
}

func (e *hatchEdge) apply(t core.Tag) {
	switch t.Code {
	case 10:
		e.x = t.AsFloat()
		if e.kind != edgeSpline {
			e.p0.X = e.x
		}
	case 20:
		if e.kind == edgeSpline {
			e.controls = append(e.controls, core.Point{X: e.x, Y: t.AsFloat()})
		} else {
			e.p0.Y = t.AsFloat()
		}
	case 11:
		if e.kind != edgeSpline {
			e.p1.X = t.AsFloat()
		}
	case 21:
		if e.kind != edgeSpline {
			e.p1.Y = t.AsFloat()
		}
	case 40:
		switch e.kind {
		case edgeArc:
			e.radius = t.AsFloat()
		case edgeEllipse:
			e.ratio = t.AsFloat()
		}
	case 50:
		e.start = t.AsFloat()
	case 51:
		e.end = t.AsFloat()
	case 73:
		if e.kind == edgeArc || e.kind == edgeEllipse {
			e.ccw = t.AsInt() != 0
		}
	}
}

// endpoints 返回边的起点和终点
func (e *hatchEdge) endpoints() []core.Point {
	start, end := e.start, e.end
	if !e.ccw {
		// 顺时针边存的是反向角度
		start, end = -start, -end
	}
	switch e.kind {
	case edgeLine:
		return []core.Point{e.p0, e.p1}
	case edgeArc:
		return []core.Point{polar(e.p0, e.radius, start), polar(e.p0, e.radius, end)}
	case edgeEllipse:
		return []core.Point{ellipsePoint(e.p0, e.p1, e.ratio, start), ellipsePoint(e.p0, e.p1, e.ratio, end)}
	case edgeSpline:
		if len(e.controls) == 0 {
			return nil
		}
		return []core.Point{e.controls[0], e.controls[len(e.controls)-1]}
	}
	return nil
}

func ellipsePoint(center, major core.Point, ratio, deg float64) core.Point {
	rad := deg * math.Pi / 180.0
	minor := core.Point{X: -major.Y * ratio, Y: major.X * ratio}
	return core.Point{
		X: center.X + major.X*math.Cos(rad) + minor.X*math.Sin(rad),
		Y: center.Y + major.Y*math.Cos(rad) + minor.Y*math.Sin(rad),
	}
}

// BoundaryPoints 按路径顺序拼接所有边界端点
func (h *Hatch) BoundaryPoints() []core.Point {
	var points []core.Point
	for _, path := range h.Paths {
		points = append(points, path...)
	}
	return points
}

// Anchor 没有可用边界时的占位点：优先第一个种子点，否则是高程点
func (h *Hatch) Anchor() core.Point {
	if len(h.Seeds) > 0 {
		return h.Seeds[0]
	}
	return h.Elevation
}

// Validate 填充总能产出实体（边界缺失时使用占位点）
func (h *Hatch) Validate() error { return nil }

func (h *Hatch) BBox() core.BBox {
	points := h.BoundaryPoints()
	if len(points) == 0 {
		a := h.Anchor()
		return core.BBox{Min: a, Max: a}
	}
	return pointsBBox(points)
}
