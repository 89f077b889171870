package model

// Bounds 轴对齐包围盒
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// DefaultBounds 没有实体时的默认范围
func DefaultBounds() Bounds {
	return Bounds{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}
}

func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Extent 较长边的长度
func (b Bounds) Extent() float64 {
	if b.Width() > b.Height() {
		return b.Width()
	}
	return b.Height()
}

// Pad 四周各向外扩展 d
func (b Bounds) Pad(d float64) Bounds {
	return Bounds{MinX: b.MinX - d, MinY: b.MinY - d, MaxX: b.MaxX + d, MaxY: b.MaxY + d}
}
