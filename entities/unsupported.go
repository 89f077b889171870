package entities

import "github.com/zooyer/floorplan/core"

// Unsupported 未支持的实体类型，只消费组码，提取时总是跳过
type Unsupported struct {
	BaseEntity
}

func (u *Unsupported) Parse(scanner *core.Scanner) error {
	for {
		u.parseCommon(scanner.LastTag)
		if !scanner.Next() || scanner.LastTag.Code == 0 {
			break
		}
	}
	return nil
}

func (u *Unsupported) BBox() core.BBox { return core.EmptyBBox() }

func (u *Unsupported) Validate() error { return nil }
