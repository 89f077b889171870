package entities

import "github.com/zooyer/floorplan/core"

// 顶点标志位（组码 70）
const (
	vertexSplineFrame = 16  // 样条控制点，不属于实际路径
	vertexFaceRecord  = 128 // 多面网格的面记录，没有坐标
)

// Polyline 旧式多段线：POLYLINE 头 + 若干 VERTEX + SEQEND
type Polyline struct {
	BaseEntity
	Vertices []core.Point
	Flags    int
}

type Vertex struct {
	BaseEntity
	Location core.Point
	Flags    int
}

func init() {
	Register("POLYLINE", func() Entity { return &Polyline{BaseEntity: BaseEntity{TypeName: "POLYLINE"}} })
	Register("VERTEX", func() Entity { return &Vertex{BaseEntity: BaseEntity{TypeName: "VERTEX"}} })
}

func (p *Polyline) Parse(scanner *core.Scanner) error {
	for {
		tag := scanner.LastTag
		if !p.parseCommon(tag) && tag.Code == 70 {
			p.Flags = tag.AsInt()
		}
		// 头部的 10/20/30 只是高程占位点，不是顶点
		if !scanner.Next() || scanner.LastTag.Code == 0 {
			break
		}
	}

	bad := false
	for !scanner.Done() && scanner.LastTag.Code == 0 {
		switch {
		case scanner.LastTag.IsMarker("VERTEX"):
			v := &Vertex{BaseEntity: BaseEntity{TypeName: "VERTEX"}}
			_ = v.Parse(scanner)
			if v.Flags&(vertexSplineFrame|vertexFaceRecord) != 0 {
				continue
			}
			if v.Validate() != nil {
				bad = true
				continue
			}
			p.Vertices = append(p.Vertices, v.Location)
		case scanner.LastTag.IsMarker("SEQEND"):
			skipTags(scanner)
			p.finish(bad)
			return nil
		default:
			// 缺少 SEQEND，交给上层处理下一个实体
			p.finish(bad)
			return nil
		}
	}
	p.finish(bad)
	return nil
}

func (p *Polyline) finish(bad bool) {
	if !bad && len(p.Vertices) >= 2 {
		p.mark(10)
		p.mark(20)
	}
}

// Closed 是否闭合
func (p *Polyline) Closed() bool {
	return p.Flags&PolylineClosed != 0
}

func (p *Polyline) Validate() error {
	return p.require(10, 20)
}

func (p *Polyline) BBox() core.BBox {
	return pointsBBox(p.Vertices)
}

func (v *Vertex) Parse(scanner *core.Scanner) error {
	for {
		tag := scanner.LastTag
		if !v.parseCommon(tag) {
			switch tag.Code {
			case 10:
				v.float(tag, &v.Location.X)
			case 20:
				v.float(tag, &v.Location.Y)
			case 30:
				v.float(tag, &v.Location.Z)
			case 70:
				v.Flags = tag.AsInt()
			}
		}
		if !scanner.Next() || scanner.LastTag.Code == 0 {
			break
		}
	}
	return nil
}

func (v *Vertex) Validate() error {
	return v.require(10, 20)
}

func (v *Vertex) BBox() core.BBox {
	return core.BBox{Min: v.Location, Max: v.Location}
}
