package entities

import "github.com/zooyer/floorplan/core"

type Insert struct {
	BaseEntity
	BlockName      string
	InsertionPoint core.Point
	Scale          core.Point
	Rotation       float64
	Attributes     []*Attrib
}

func init() {
	Register("INSERT", func() Entity {
		return &Insert{
			BaseEntity: BaseEntity{TypeName: "INSERT"},
			Scale:      core.Point{X: 1, Y: 1, Z: 1}, // 默认缩放为 1
			Attributes: []*Attrib{},
		}
	})
}

func (i *Insert) Parse(scanner *core.Scanner) error {
	hasAttributes := false

	for {
		tag := scanner.LastTag
		if !i.parseCommon(tag) {
			switch tag.Code {
			case 2:
				i.BlockName = tag.AsString()
				i.mark(2)
			case 10:
				i.float(tag, &i.InsertionPoint.X)
			case 20:
				i.float(tag, &i.InsertionPoint.Y)
			case 30:
				i.float(tag, &i.InsertionPoint.Z)
			case 41:
				i.float(tag, &i.Scale.X)
			case 42:
				i.float(tag, &i.Scale.Y)
			case 43:
				i.float(tag, &i.Scale.Z)
			case 50:
				i.float(tag, &i.Rotation)
			case 66:
				if tag.AsInt() == 1 {
					hasAttributes = true
				}
			}
		}

		if !scanner.Next() || scanner.LastTag.Code == 0 {
			break
		}
	}

	// 核心逻辑：如果标记了有属性，则继续在当前流中抓取 ATTRIB 直到 SEQEND
	for hasAttributes && !scanner.Done() && scanner.LastTag.Code == 0 {
		switch {
		case scanner.LastTag.IsMarker("ATTRIB"):
			attr := &Attrib{BaseEntity: BaseEntity{TypeName: "ATTRIB"}}
			_ = attr.Parse(scanner) // Parse 内部已经 Next 了，直接进入下一次判断
			i.Attributes = append(i.Attributes, attr)
		case scanner.LastTag.IsMarker("SEQEND"):
			skipTags(scanner) // 消耗掉 SEQEND
			return nil
		default:
			return nil
		}
	}
	return nil
}

func (i *Insert) Validate() error {
	return i.require(2, 10, 20)
}

func (i *Insert) BBox() core.BBox {
	// Insert 的包围盒比较特殊，通常需要结合 Block 定义计算
	// 这里先返回插入点
	return core.BBox{Min: i.InsertionPoint, Max: i.InsertionPoint}
}
