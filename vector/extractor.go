// Package vector 把 DXF 文档中的实体转换成统一模型
package vector

import (
	"sort"

	"github.com/zooyer/floorplan/dxf"
	"github.com/zooyer/floorplan/entities"
	"github.com/zooyer/floorplan/model"
	"github.com/zooyer/floorplan/utils"
)

// Extraction 各阶段之间传递的累积结果
type Extraction struct {
	Entities    []model.Entity
	Blocks      map[string]model.BlockDefinition
	Diagnostics model.Diagnostics
}

// BlockNames 块名排序
func (x Extraction) BlockNames() []string {
	names := make([]string, 0, len(x.Blocks))
	for name := range x.Blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Extract 按文档顺序转换模型空间实体
func Extract(doc *dxf.Document) Extraction {
	var x Extraction
	if doc.Recovered > 0 {
		x.Diagnostics.Add(model.DiagRecovered, "", "", "skipped %d malformed line(s) while reading the document", doc.Recovered)
	}
	for _, ent := range doc.Entities {
		if e, ok := Convert(doc, ent, &x.Diagnostics); ok {
			x.Entities = append(x.Entities, e)
		}
	}
	return x
}

// Convert 转换单个源实体；不支持的类型静默跳过，缺少必需组码的实体记一条诊断后跳过
func Convert(doc *dxf.Document, ent entities.Entity, diags *model.Diagnostics) (model.Entity, bool) {
	if _, ok := ent.(*entities.Unsupported); ok {
		return model.Entity{}, false
	}

	if err := ent.Validate(); err != nil {
		malformed(diags, ent, err)
		return model.Entity{}, false
	}

	var e model.Entity
	switch src := ent.(type) {
	case *entities.Line:
		e = newEntity(model.KindLine, src.BaseEntity, utils.ToModel(src.Start), utils.ToModel(src.End))
	case *entities.LWPolyline:
		e = newEntity(model.KindPolyline, src.BaseEntity, utils.ToModels(src.Vertices)...)
		e.Properties[model.PropClosed] = src.Closed()
	case *entities.Polyline:
		e = newEntity(model.KindPolyline, src.BaseEntity, utils.ToModels(src.Vertices)...)
		e.Properties[model.PropClosed] = src.Closed()
	case *entities.Circle:
		e = newEntity(model.KindCircle, src.BaseEntity, utils.ToModel(src.Center))
		e.Properties[model.PropRadius] = src.Radius
	case *entities.Arc:
		e = newEntity(model.KindArc, src.BaseEntity, utils.ToModel(src.Center))
		e.Properties[model.PropRadius] = src.Radius
		e.Properties[model.PropStartAngle] = src.StartAngle
		e.Properties[model.PropEndAngle] = src.EndAngle
		if codes := src.Defaulted(); len(codes) > 0 {
			diags.Add(model.DiagDefaulted, src.Type(), src.Handle, "missing group code(s) %v, angles default to 0/360", codes)
		}
	case *entities.Text:
		e = newEntity(model.KindText, src.BaseEntity, utils.ToModel(src.Insertion))
		e.Properties[model.PropText] = src.PlainText()
		e.Properties[model.PropHeight] = src.Height
		e.Properties[model.PropRotation] = src.Rotation
	case *entities.MText:
		e = newEntity(model.KindText, src.BaseEntity, utils.ToModel(src.Insertion))
		e.Properties[model.PropText] = src.PlainText()
		e.Properties[model.PropHeight] = src.Height
		e.Properties[model.PropRotation] = src.Angle()
	case *entities.Insert:
		e = newEntity(model.KindInsert, src.BaseEntity, utils.ToModel(src.InsertionPoint))
		e.Properties[model.PropBlockName] = dxf.BlockKey(src.BlockName)
		e.Properties[model.PropXScale] = src.Scale.X
		e.Properties[model.PropYScale] = src.Scale.Y
		e.Properties[model.PropRotation] = src.Rotation
		if attrs := utils.GetAttrs(src); len(attrs) > 0 {
			e.Properties[model.PropAttributes] = attrs
		}
	case *entities.Hatch:
		e = convertHatch(src, diags)
	case *entities.Dimension:
		e = newEntity(model.KindDimension, src.BaseEntity, utils.ToModel(src.DefPoint))
		if v, ok := utils.GetDimValue(doc, src); ok {
			e.Properties[model.PropMeasurement] = v
		}
		if text := src.Override(); text != "" {
			e.Properties[model.PropTextOverride] = text
		}
	default:
		// VERTEX、ATTRIB 等只在父实体内部有意义
		return model.Entity{}, false
	}

	if err := e.Valid(); err != nil {
		malformed(diags, ent, err)
		return model.Entity{}, false
	}
	return e, true
}

func newEntity(kind model.Kind, base entities.BaseEntity, points ...model.Point) model.Entity {
	props := model.Properties{}
	if base.HasColor {
		props[model.PropColor] = base.Color
	}
	if base.HasWeight {
		props[model.PropLineWeight] = base.LineWeight
	}
	return model.Entity{
		Kind:        kind,
		Layer:       base.Layer(),
		Coordinates: points,
		Properties:  props,
	}
}

// convertHatch 边界端点按路径顺序拼接；一个端点都解析不出时退化为单点占位
func convertHatch(h *entities.Hatch, diags *model.Diagnostics) model.Entity {
	points := h.BoundaryPoints()
	if len(points) > 0 {
		e := newEntity(model.KindHatch, h.BaseEntity, utils.ToModels(points)...)
		e.Properties[model.PropClosed] = true
		return e
	}

	e := newEntity(model.KindHatch, h.BaseEntity, utils.ToModel(h.Anchor()))
	e.Properties[model.PropPlaceholder] = true
	diags.Add(model.DiagUnresolvedHatch, h.Type(), h.Handle, "no resolvable boundary edge, emitted placeholder at (%g, %g)", h.Anchor().X, h.Anchor().Y)
	return e
}

func malformed(diags *model.Diagnostics, ent entities.Entity, err error) {
	diags.Add(model.DiagMalformed, ent.Type(), ent.Base().Handle, "%v", err)
}
