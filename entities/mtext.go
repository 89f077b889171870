package entities

import (
	"math"
	"strings"

	"github.com/zooyer/floorplan/core"
)

// MText 多行文字，内容中带有格式控制码
type MText struct {
	BaseEntity
	Insertion core.Point
	Height    float64
	Rotation  float64
	Direction core.Point // 组码 11/21，X 轴方向向量
	Raw       string     // 组码 3 分块 + 组码 1

	hasRotation  bool
	hasDirection bool
	chunks       []string
}

func init() {
	Register("MTEXT", func() Entity {
		return &MText{BaseEntity: BaseEntity{TypeName: "MTEXT"}, Height: 1}
	})
}

func (m *MText) Parse(s *core.Scanner) error {
	var last string
	for {
		tag := s.LastTag
		if !m.parseCommon(tag) {
			switch tag.Code {
			case 10:
				m.float(tag, &m.Insertion.X)
			case 20:
				m.float(tag, &m.Insertion.Y)
			case 30:
				m.float(tag, &m.Insertion.Z)
			case 40:
				m.float(tag, &m.Height)
			case 50:
				m.float(tag, &m.Rotation)
				m.hasRotation = true
			case 11:
				m.float(tag, &m.Direction.X)
				m.hasDirection = true
			case 21:
				m.float(tag, &m.Direction.Y)
			case 3:
				m.chunks = append(m.chunks, tag.Value)
			case 1:
				last = tag.Value
			}
		}
		if !s.Next() || s.LastTag.Code == 0 {
			break
		}
	}
	m.Raw = strings.Join(append(m.chunks, last), "")
	return nil
}

func (m *MText) Validate() error {
	return m.require(10, 20)
}

// Angle 返回旋转角（度），优先使用组码 50，否则由方向向量推算
func (m *MText) Angle() float64 {
	if m.hasRotation {
		return m.Rotation
	}
	if m.hasDirection && (m.Direction.X != 0 || m.Direction.Y != 0) {
		return math.Atan2(m.Direction.Y, m.Direction.X) * 180.0 / math.Pi
	}
	return 0
}

// PlainText 返回去掉格式控制码后的纯文本
func (m *MText) PlainText() string {
	return StripMText(m.Raw)
}

func (m *MText) BBox() core.BBox {
	return core.BBox{Min: m.Insertion, Max: m.Insertion}
}

// StripMText 去掉 MTEXT 格式码：\P 换行，\~ 空格，\S 堆叠分数，
// 带参数的 \A \C \c \F \f \H \Q \T \W \p 等直到分号，以及分组大括号
func StripMText(raw string) string {
	var (
		b     strings.Builder
		runes = []rune(raw)
	)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '{', '}':
			continue
		case '\\':
			if i+1 >= len(runes) {
				continue
			}
			i++
			switch runes[i] {
			case 'P', 'n':
				b.WriteByte('\n')
			case '~':
				b.WriteByte(' ')
			case '\\', '{', '}':
				b.WriteRune(runes[i])
			case 'L', 'l', 'O', 'o', 'K', 'k', 'N':
			case 'S':
				// \S分子^分母; 或 \S分子/分母; 或 \S分子#分母;
				end := indexRune(runes, i+1, ';')
				if end < 0 {
					end = len(runes)
				}
				frac := strings.NewReplacer("^", "/", "#", "/").Replace(string(runes[i+1 : end]))
				b.WriteString(strings.TrimSpace(frac))
				i = end
			case 'A', 'C', 'c', 'F', 'f', 'H', 'Q', 'T', 'W', 'p':
				if end := indexRune(runes, i+1, ';'); end >= 0 {
					i = end
				} else {
					i = len(runes)
				}
			case 'U':
				// \U+XXXX 原样保留
				b.WriteString(`\U`)
			default:
				b.WriteRune(runes[i])
			}
		default:
			b.WriteRune(r)
		}
	}
	return decodeSpecials(b.String())
}

func indexRune(runes []rune, from int, target rune) int {
	for j := from; j < len(runes); j++ {
		if runes[j] == target {
			return j
		}
	}
	return -1
}
