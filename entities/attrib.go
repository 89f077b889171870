package entities

import "github.com/zooyer/floorplan/core"

type Attrib struct {
	BaseEntity
	Location core.Point
	Tag      string // 属性标签，如 "ROOM_NO"
	Text     string // 属性值
	Height   float64
}

func init() {
	Register("ATTRIB", func() Entity {
		return &Attrib{BaseEntity: BaseEntity{TypeName: "ATTRIB"}}
	})
}

func (a *Attrib) Parse(scanner *core.Scanner) error {
	for {
		tag := scanner.LastTag
		if !a.parseCommon(tag) {
			switch tag.Code {
			case 10:
				a.float(tag, &a.Location.X)
			case 20:
				a.float(tag, &a.Location.Y)
			case 30:
				a.float(tag, &a.Location.Z)
			case 40:
				a.float(tag, &a.Height)
			case 1:
				a.Text = decodeSpecials(tag.AsString())
			case 2:
				a.Tag = tag.AsString()
			}
		}
		if !scanner.Next() || scanner.LastTag.Code == 0 {
			break
		}
	}
	return nil
}

func (a *Attrib) Validate() error {
	return a.require(10, 20)
}

func (a *Attrib) BBox() core.BBox {
	// 简化处理：属性文字暂时以位置点作为包围盒
	return core.BBox{Min: a.Location, Max: a.Location}
}
