package vector

import (
	"github.com/zooyer/floorplan/core"
	"github.com/zooyer/floorplan/dxf"
	"github.com/zooyer/floorplan/entities"
	"github.com/zooyer/floorplan/model"
	"github.com/zooyer/floorplan/utils"
)

// DefaultMaxDepth 展开嵌套块参照的最大层数
const DefaultMaxDepth = 8

// ExpandBlocks 把每个具名块转换成块模板，成员保持局部坐标并标记所属块名。
// 匿名块（*D1、*U2 等）不输出
func ExpandBlocks(doc *dxf.Document, x Extraction) Extraction {
	blocks := make(map[string]model.BlockDefinition, len(doc.Blocks))
	for _, name := range doc.BlockNames() {
		block := doc.Blocks[name]
		if block.Anonymous() {
			continue
		}
		def := model.BlockDefinition{Name: name, Base: utils.ToModel(block.Base), Entities: []model.Entity{}}
		extent := core.EmptyBBox()
		for _, ent := range block.Entities {
			e, ok := Convert(doc, ent, &x.Diagnostics)
			if !ok {
				continue
			}
			e.OriginBlock = name
			def.Entities = append(def.Entities, e)
			extent = extent.Union(ent.BBox())
		}
		if !extent.IsEmpty() {
			def.Extent = &model.Bounds{MinX: extent.Min.X, MinY: extent.Min.Y, MaxX: extent.Max.X, MaxY: extent.Max.Y}
		}
		blocks[name] = def
	}
	x.Blocks = blocks
	return x
}

// BlockEntities 按块名顺序展平所有块成员
func (x Extraction) BlockEntities() []model.Entity {
	var list []model.Entity
	for _, name := range x.BlockNames() {
		list = append(list, x.Blocks[name].Entities...)
	}
	return list
}

// Materialize 把模型空间的每个块参照展开成世界坐标下的实体，追加在模型空间实体之后。
// 展开出的实体属于模型空间，带 instance_of 属性；嵌套参照逐层合并变换，超过 maxDepth 层不再展开
func Materialize(doc *dxf.Document, x Extraction, maxDepth int) Extraction {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	var instances []model.Entity
	for _, ent := range doc.Entities {
		ins, ok := ent.(*entities.Insert)
		if !ok || ins.Validate() != nil {
			continue
		}
		instances = instantiate(doc, ins, 1, maxDepth, instances, &x.Diagnostics)
	}
	x.Entities = append(x.Entities, instances...)
	return x
}

func instantiate(doc *dxf.Document, ins *entities.Insert, depth, maxDepth int, out []model.Entity, diags *model.Diagnostics) []model.Entity {
	block, ok := doc.Block(ins.BlockName)
	if !ok {
		diags.Add(model.DiagMissingBlock, ins.Type(), ins.Handle, "block %q is not defined", ins.BlockName)
		return out
	}
	if depth > maxDepth {
		diags.Add(model.DiagInstanceTooDeep, ins.Type(), ins.Handle, "block %q nested deeper than %d levels", block.Name, maxDepth)
		return out
	}

	// 实例化时丢弃诊断：块成员的问题已在块模板中报告过
	var discard model.Diagnostics
	for _, sub := range block.Entities {
		if child, ok := sub.(*entities.Insert); ok {
			if child.Validate() != nil {
				continue
			}
			// 子块插入点相对父块基点
			shifted := *child
			shifted.InsertionPoint = core.Point{
				X: child.InsertionPoint.X - block.Base.X,
				Y: child.InsertionPoint.Y - block.Base.Y,
				Z: child.InsertionPoint.Z - block.Base.Z,
			}
			out = instantiate(doc, utils.CombineInserts(ins, &shifted), depth+1, maxDepth, out, diags)
			continue
		}

		e, ok := Convert(doc, sub, &discard)
		if !ok {
			continue
		}
		e = utils.TransformEntity(e, block.Base, ins)
		e.Properties[model.PropInstanceOf] = block.Name
		if e.Layer == entities.DefaultLayer {
			// 0 层上的块成员继承参照所在图层
			e.Layer = ins.Layer()
		}
		out = append(out, e)
	}
	return out
}
