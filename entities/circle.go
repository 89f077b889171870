package entities

import "github.com/zooyer/floorplan/core"

type Circle struct {
	BaseEntity
	Center core.Point
	Radius float64
}

func init() {
	Register("CIRCLE", func() Entity { return &Circle{BaseEntity: BaseEntity{TypeName: "CIRCLE"}} })
}

func (c *Circle) Parse(s *core.Scanner) error {
	for {
		t := s.LastTag
		if !c.parseCommon(t) {
			switch t.Code {
			case 10:
				c.float(t, &c.Center.X)
			case 20:
				c.float(t, &c.Center.Y)
			case 30:
				c.float(t, &c.Center.Z)
			case 40:
				c.float(t, &c.Radius)
			}
		}
		if !s.Next() || s.LastTag.Code == 0 {
			break
		}
	}
	return nil
}

func (c *Circle) Validate() error {
	if err := c.require(10, 20, 40); err != nil {
		return err
	}
	if c.Radius < 0 {
		return &InvalidFieldError{Type: c.TypeName, Handle: c.Handle, Field: "radius", Value: c.Radius}
	}
	return nil
}

func (c *Circle) BBox() core.BBox {
	return radiusBBox(c.Center, c.Radius)
}

func radiusBBox(center core.Point, r float64) core.BBox {
	return core.BBox{
		Min: core.Point{X: center.X - r, Y: center.Y - r},
		Max: core.Point{X: center.X + r, Y: center.Y + r},
	}
}
