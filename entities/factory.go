package entities

import (
	"fmt"
	"strings"

	"github.com/zooyer/floorplan/core"
)

// Entity 是一切几何实体的接口
type Entity interface {
	Parse(scanner *core.Scanner) error
	Type() string
	Layer() string
	BBox() core.BBox
	// Validate 检查解析后是否缺少必需的几何组码
	Validate() error
	Base() *BaseEntity
}

// DefaultLayer 未声明图层时的默认图层
const DefaultLayer = "0"

// BaseEntity 存放所有实体通用的属性（如 Layer, Color, Handle）
type BaseEntity struct {
	TypeName   string
	LayerName  string
	Handle     string
	Color      int // 组码 62，0 表示 BYBLOCK，256 表示 BYLAYER
	LineWeight int // 组码 370
	HasColor   bool
	HasWeight  bool

	seen map[int]bool
}

func (b *BaseEntity) Type() string { return b.TypeName }

// Base 返回通用属性
func (b *BaseEntity) Base() *BaseEntity { return b }

func (b *BaseEntity) Layer() string {
	if b.LayerName == "" {
		return DefaultLayer
	}
	return b.LayerName
}

// parseCommon 处理所有实体共有的组码，返回是否已消费
func (b *BaseEntity) parseCommon(t core.Tag) bool {
	switch t.Code {
	case 5:
		b.Handle = t.AsString()
	case 8:
		b.LayerName = t.AsString()
	case 62:
		b.Color, b.HasColor = t.AsInt(), true
	case 370:
		b.LineWeight, b.HasWeight = t.AsInt(), true
	default:
		return false
	}
	return true
}

// float 读取浮点组码，只有合法数值才记为已出现
func (b *BaseEntity) float(t core.Tag, dst *float64) {
	if v, ok := t.Float(); ok {
		*dst = v
		b.mark(t.Code)
	}
}

func (b *BaseEntity) mark(code int) {
	if b.seen == nil {
		b.seen = make(map[int]bool)
	}
	b.seen[code] = true
}

// require 检查必需组码是否全部出现
func (b *BaseEntity) require(codes ...int) error {
	var missing []int
	for _, code := range codes {
		if !b.seen[code] {
			missing = append(missing, code)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingFieldError{Type: b.TypeName, Handle: b.Handle, Codes: missing}
}

// MissingFieldError 实体缺少必需的几何组码
type MissingFieldError struct {
	Type   string
	Handle string
	Codes  []int
}

func (e *MissingFieldError) Error() string {
	codes := make([]string, 0, len(e.Codes))
	for _, c := range e.Codes {
		codes = append(codes, fmt.Sprint(c))
	}
	return fmt.Sprintf("%s %s: missing group code(s) %s", e.Type, e.Handle, strings.Join(codes, ","))
}

// InvalidFieldError 组码存在但取值非法（如负半径）
type InvalidFieldError struct {
	Type   string
	Handle string
	Field  string
	Value  float64
}

func (e *InvalidFieldError) Error() string {
	return fmt.Sprintf("%s %s: invalid %s %v", e.Type, e.Handle, e.Field, e.Value)
}

// skipTags 跳过当前实体剩余的组码，停在下一个 0 组码上
func skipTags(s *core.Scanner) {
	for s.Next() {
		if s.LastTag.Code == 0 {
			return
		}
	}
}

// EntityFactory 定义了如何从标签流中创建一个实体
type EntityFactory func() Entity

var registry = map[string]EntityFactory{}

// Register 允许以后动态扩展新的实体类型
func Register(typeName string, factory EntityFactory) {
	registry[strings.ToUpper(typeName)] = factory
}

// CreateEntity 根据实体名称生产对应的结构体，未注册的类型返回 Unsupported
func CreateEntity(typeName string) Entity {
	name := strings.ToUpper(strings.TrimSpace(typeName))
	if factory, ok := registry[name]; ok {
		return factory()
	}
	return &Unsupported{BaseEntity: BaseEntity{TypeName: name}}
}
