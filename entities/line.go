package entities

import (
	"math"

	"github.com/zooyer/floorplan/core"
)

type Line struct {
	BaseEntity
	Start, End core.Point
}

func init() {
	Register("LINE", func() Entity { return &Line{BaseEntity: BaseEntity{TypeName: "LINE"}} })
}

func (l *Line) Parse(s *core.Scanner) error {
	for {
		t := s.LastTag
		if !l.parseCommon(t) {
			switch t.Code {
			case 10:
				l.float(t, &l.Start.X)
			case 20:
				l.float(t, &l.Start.Y)
			case 30:
				l.float(t, &l.Start.Z)
			case 11:
				l.float(t, &l.End.X)
			case 21:
				l.float(t, &l.End.Y)
			case 31:
				l.float(t, &l.End.Z)
			}
		}
		if !s.Next() || s.LastTag.Code == 0 {
			break
		}
	}
	return nil
}

func (l *Line) Validate() error {
	return l.require(10, 20, 11, 21)
}

func (l *Line) BBox() core.BBox {
	return core.BBox{
		Min: core.Point{X: math.Min(l.Start.X, l.End.X), Y: math.Min(l.Start.Y, l.End.Y)},
		Max: core.Point{X: math.Max(l.Start.X, l.End.X), Y: math.Max(l.Start.Y, l.End.Y)},
	}
}
