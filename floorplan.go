// Package floorplan 把 DXF 图纸、扫描图片和扫描版 PDF 统一提取成实体、图层、包围盒和单位比例
package floorplan

import (
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"strings"

	"github.com/zooyer/floorplan/dxf"
	"github.com/zooyer/floorplan/model"
	"github.com/zooyer/floorplan/ocr"
	"github.com/zooyer/floorplan/pdfsrc"
	"github.com/zooyer/floorplan/raster"
	"github.com/zooyer/floorplan/units"
	"github.com/zooyer/floorplan/utils"
	"github.com/zooyer/floorplan/vector"
)

// SourceType 源文件类型
type SourceType string

const (
	TypeAuto  SourceType = "auto"
	TypeDXF   SourceType = "dxf"
	TypePDF   SourceType = "pdf"
	TypeImage SourceType = "image"
)

// 文字实体使用的图层
const (
	LayerOCR     = "OCR_TEXT"
	LayerPDFText = "PDF_TEXT"
)

var imageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// Options 提取参数
type Options struct {
	Mode    model.Mode
	Type    SourceType
	Padding float64 // 矢量包围盒的留白比例，0 表示不留白

	ApplyScale         bool // 输出坐标直接换算成米
	MaterializeInserts bool // 把块引用展开成实例实体
	MaxInsertDepth     int
	Units              units.Thresholds

	Raster           raster.Options
	OCR              bool
	OCRLanguage      string
	OCRMinConfidence float64
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		Mode:             model.ModeFull,
		Type:             TypeAuto,
		Padding:          utils.DefaultPadding,
		MaxInsertDepth:   vector.DefaultMaxDepth,
		Units:            units.DefaultThresholds,
		Raster:           raster.DefaultOptions(),
		OCRLanguage:      ocr.DefaultLanguage,
		OCRMinConfidence: 50,
	}
}

// Detect 根据扩展名（或显式指定的类型）判断源文件类型
func Detect(path string, t SourceType) (SourceType, error) {
	switch t {
	case TypeDXF, TypePDF, TypeImage:
		return t, nil
	case TypeAuto, "":
	default:
		return "", model.NewError(model.KindUnsupportedSource, path, "detect", fmt.Errorf("unknown source type %q", t))
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch {
	case ext == ".dxf":
		return TypeDXF, nil
	case ext == ".pdf":
		return TypePDF, nil
	case imageExts[ext]:
		return TypeImage, nil
	case ext == ".dwg":
		return "", model.NewError(model.KindUnsupportedSource, path, "detect", errors.New("DWG must be converted to DXF first"))
	}
	return "", model.NewError(model.KindUnsupportedSource, path, "detect", fmt.Errorf("unrecognized extension %q", ext))
}

// Extract 打开文件并提取，失败时只返回 *model.ExtractionError
func Extract(path string, opts Options) (*model.Result, error) {
	t, err := Detect(path, opts.Type)
	if err != nil {
		return nil, err
	}

	switch t {
	case TypeDXF:
		doc, err := dxf.Open(path)
		if err != nil {
			if errors.Is(err, dxf.ErrCorrupt) {
				return nil, model.NewError(model.KindCorruptSource, path, "dxf.Open", err)
			}
			return nil, openError(path, "dxf.Open", err)
		}
		return ExtractDocument(doc, opts), nil

	case TypeImage:
		img, _, err := raster.Open(path)
		if err != nil {
			if errors.Is(err, raster.ErrDecode) {
				return nil, model.NewError(model.KindDecodeFailed, path, "raster.Open", err)
			}
			return nil, openError(path, "raster.Open", err)
		}
		return ExtractImage(img, opts), nil

	default:
		page, err := pdfsrc.Open(path)
		if err != nil {
			switch {
			case errors.Is(err, pdfsrc.ErrCorrupt):
				return nil, model.NewError(model.KindCorruptSource, path, "pdfsrc.Open", err)
			case errors.Is(err, pdfsrc.ErrNoImage), errors.Is(err, raster.ErrDecode):
				return nil, model.NewError(model.KindDecodeFailed, path, "pdfsrc.Open", err)
			}
			return nil, openError(path, "pdfsrc.Open", err)
		}
		return ExtractPage(page, opts), nil
	}
}

func openError(path, op string, err error) error {
	return model.NewError(model.KindOpenFailed, path, op, err)
}

// ExtractDocument 提取已解析的 DXF 文档
func ExtractDocument(doc *dxf.Document, opts Options) *model.Result {
	x := vector.Extract(doc)
	if opts.MaterializeInserts {
		x = vector.Materialize(doc, x, opts.MaxInsertDepth)
	}
	x = vector.ExpandBlocks(doc, x)

	extent, ok := utils.Extent(x.Entities)
	var declared *int
	if code, has := doc.Units(); has {
		declared = &code
	}
	scale := units.Normalize(declared, extent.Extent(), thresholds(opts.Units))
	if scale.Inferred && ok {
		x.Diagnostics.Add(model.DiagUnitsUnspecified, "$INSUNITS", "", "units not declared, inferred %s from extent %g", scale.Source, extent.Extent())
	}

	parts := Parts{
		Source:      model.SourceVector,
		Entities:    model.TopLevel(x.Entities),
		Members:     x.BlockEntities(),
		Blocks:      x.Blocks,
		Diagnostics: x.Diagnostics,
		Bounds:      utils.Bounds(x.Entities, opts.Padding),
		Padded:      ok && opts.Padding > 0,
		Units:       scale,
	}
	if opts.ApplyScale {
		parts = parts.rescale()
	}
	return Assemble(parts, opts.Mode)
}

func thresholds(th units.Thresholds) units.Thresholds {
	if th.Millimeter <= 0 && th.Centimeter <= 0 {
		return units.DefaultThresholds
	}
	return th
}

// ExtractImage 提取位图，坐标归一化到 [0, 100]
func ExtractImage(img image.Image, opts Options) *model.Result {
	parts := rasterParts(img, opts)
	parts.Source = model.SourceRaster
	return Assemble(parts, opts.Mode)
}

// ExtractPage 提取 PDF 第一页的图像和文字层
func ExtractPage(page *pdfsrc.Page, opts Options) *model.Result {
	parts := rasterParts(page.Image, opts)
	parts.Source = model.SourcePDF

	if page.Pages > 1 {
		parts.Diagnostics.Add(model.DiagMultiPage, "pdf", "", "only page 1 of %d processed", page.Pages)
	}
	if page.Width > 0 && page.Height > 0 {
		area := model.Bounds{MaxX: raster.Span, MaxY: raster.Span}
		for _, run := range page.Runs {
			// 页面之外的文字丢弃
			fx, fy := page.Relative(run.X, run.Y)
			p := model.Point{X: fx * raster.Span, Y: fy * raster.Span}
			if !utils.InBox(area, p) {
				continue
			}
			e := model.Entity{
				Kind:        model.KindText,
				Layer:       LayerPDFText,
				Coordinates: []model.Point{p},
				Properties: model.Properties{
					model.PropText:   run.Text,
					model.PropHeight: run.Size / page.Height * raster.Span,
				},
			}
			parts.Entities = append(parts.Entities, e)
		}
	}
	parts.Bounds = utils.Bounds(parts.Entities, 0)
	return Assemble(parts, opts.Mode)
}

func rasterParts(img image.Image, opts Options) Parts {
	x := raster.Extract(img, opts.Raster)
	parts := Parts{
		Entities:    x.Entities,
		Diagnostics: x.Diagnostics,
		Units:       model.UnitScale{Unit: model.CanonicalUnit, Factor: 1, Source: "normalized"},
	}
	if opts.OCR {
		parts.Entities = append(parts.Entities, recognize(img, x, opts, &parts.Diagnostics)...)
	}
	parts.Bounds = utils.Bounds(parts.Entities, 0)
	return parts
}

// recognize 识别文字，坐标与几何实体使用同一映射
func recognize(img image.Image, x raster.Extraction, opts Options, diags *model.Diagnostics) []model.Entity {
	client, err := ocr.New(opts.OCRLanguage)
	if err != nil {
		diags.Add(model.DiagOCR, "ocr", "", "%v", err)
		return nil
	}
	defer func() { _ = client.Close() }()

	words, err := client.Words(img)
	if err != nil {
		diags.Add(model.DiagOCR, "ocr", "", "%v", err)
		return nil
	}

	scale := x.Scale
	if scale <= 0 {
		scale = 1
	}
	bounds := img.Bounds()
	var list []model.Entity
	for _, w := range ocr.Filter(words, opts.OCRMinConfidence) {
		cx, cy := w.Center()
		cx, cy = (cx-float64(bounds.Min.X))/scale, (cy-float64(bounds.Min.Y))/scale
		height := 0.0
		if x.Height > 0 {
			height = float64(w.Box.Dy()) / scale / float64(x.Height) * raster.Span
		}
		list = append(list, model.Entity{
			Kind:        model.KindText,
			Layer:       LayerOCR,
			Coordinates: []model.Point{x.Map(cx, cy)},
			Properties: model.Properties{
				model.PropText:       w.Text,
				model.PropHeight:     height,
				model.PropConfidence: w.Confidence,
			},
		})
	}
	return list
}

// Parts 组装结果所需的各部分
type Parts struct {
	Source      model.SourceKind
	Entities    []model.Entity // 模型空间实体
	Members     []model.Entity // 块成员，只在 full 模式输出
	Blocks      map[string]model.BlockDefinition
	Diagnostics model.Diagnostics
	Bounds      model.Bounds
	Padded      bool
	Units       model.UnitScale
}

func (p Parts) rescale() Parts {
	f := p.Units.Factor
	p.Entities = units.Rescale(p.Entities, f)
	p.Members = units.Rescale(p.Members, f)
	if p.Blocks != nil {
		blocks := make(map[string]model.BlockDefinition, len(p.Blocks))
		for name, b := range p.Blocks {
			b.Base = model.Point{X: b.Base.X * f, Y: b.Base.Y * f}
			if b.Extent != nil {
				extent := units.RescaleBounds(*b.Extent, f)
				b.Extent = &extent
			}
			b.Entities = units.Rescale(b.Entities, f)
			blocks[name] = b
		}
		p.Blocks = blocks
	}
	p.Bounds = units.RescaleBounds(p.Bounds, f)
	p.Units.Applied = true
	return p
}

// Assemble 按模式组装最终结果：模型空间实体在前，块成员在后
func Assemble(p Parts, mode model.Mode) *model.Result {
	list := make([]model.Entity, 0, len(p.Entities)+len(p.Members))
	list = append(list, p.Entities...)

	result := &model.Result{
		Source:      p.Source,
		Bounds:      p.Bounds,
		Padded:      p.Padded,
		Units:       p.Units,
		Diagnostics: p.Diagnostics,
	}
	if mode != model.ModeBase {
		list = append(list, p.Members...)
		if len(p.Blocks) > 0 {
			result.Blocks = p.Blocks
		}
	}
	if result.Diagnostics == nil {
		result.Diagnostics = model.Diagnostics{}
	}

	result.Entities = list
	result.Layers = model.LayerSet(list)
	result.EntityCount = len(list)
	result.LayerCount = len(result.Layers)
	return result
}
