package entities

import (
	"strings"

	"github.com/zooyer/floorplan/core"
)

// Text 单行文字
type Text struct {
	BaseEntity
	Insertion core.Point
	Height    float64
	Rotation  float64
	Content   string
}

func init() {
	Register("TEXT", func() Entity {
		return &Text{BaseEntity: BaseEntity{TypeName: "TEXT"}, Height: 1}
	})
}

func (t *Text) Parse(s *core.Scanner) error {
	for {
		tag := s.LastTag
		if !t.parseCommon(tag) {
			switch tag.Code {
			case 10:
				t.float(tag, &t.Insertion.X)
			case 20:
				t.float(tag, &t.Insertion.Y)
			case 30:
				t.float(tag, &t.Insertion.Z)
			case 40:
				t.float(tag, &t.Height)
			case 50:
				t.float(tag, &t.Rotation)
			case 1:
				t.Content = tag.Value
			}
		}
		if !s.Next() || s.LastTag.Code == 0 {
			break
		}
	}
	return nil
}

func (t *Text) Validate() error {
	return t.require(10, 20)
}

// PlainText 返回去掉 %% 控制码后的文字
func (t *Text) PlainText() string {
	return decodeSpecials(t.Content)
}

func (t *Text) BBox() core.BBox {
	return core.BBox{Min: t.Insertion, Max: t.Insertion}
}

// decodeSpecials 处理 %%d %%p %%c 等特殊字符，去掉 %%u %%o 开关
func decodeSpecials(s string) string {
	if !strings.Contains(s, "%%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) && s[i+1] == '%' {
			switch s[i+2] {
			case 'd', 'D':
				b.WriteString("°")
			case 'p', 'P':
				b.WriteString("±")
			case 'c', 'C':
				b.WriteString("⌀")
			case '%':
				b.WriteByte('%')
			case 'u', 'U', 'o', 'O', 'k', 'K':
			default:
				b.WriteString(s[i : i+3])
			}
			i += 2
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
