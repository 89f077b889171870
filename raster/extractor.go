package raster

import (
	"fmt"
	"image"
	"math"

	"github.com/zooyer/floorplan/model"
)

// 栅格实体使用的图层
const (
	LayerLines = "RASTER_LINES"
	LayerRoom  = "ROOM_%d"
)

// Span 归一化后的坐标范围 [0, Span]
const Span = 100.0

const vertexEpsilon = 1e-9

// Options 栅格提取参数
type Options struct {
	BlockSize      int     // 自适应阈值窗口
	C              float64 // 自适应阈值常数
	HoughThreshold int
	MinLineLength  int
	MaxLineGap     int
	MinContourArea float64 // 像素面积
	MaxDimension   int     // 长边超过它时先缩小，0 表示不缩放
	Seed           int64
}

// DefaultOptions 默认参数
func DefaultOptions() Options {
	return Options{
		BlockSize:      15,
		C:              10,
		HoughThreshold: 50,
		MinLineLength:  30,
		MaxLineGap:     5,
		MinContourArea: 100,
		MaxDimension:   4000,
		Seed:           1,
	}
}

// Extraction 栅格提取结果
type Extraction struct {
	Entities    []model.Entity
	Diagnostics model.Diagnostics
	Width       int     // 处理时的图像宽度
	Height      int     // 处理时的图像高度
	Scale       float64 // 处理像素到源像素的比例（缩小过时大于 1）
}

// Map 把处理像素坐标映射到 [0, Span]，Y 轴翻转为向上
func (x Extraction) Map(px, py float64) model.Point {
	if x.Width == 0 || x.Height == 0 {
		return model.Point{}
	}
	return model.Point{
		X: px / float64(x.Width) * Span,
		Y: Span - py/float64(x.Height)*Span,
	}
}

// Extract 提取直线和闭合区域，坐标映射到 [0, Span]
func Extract(img image.Image, opts Options) Extraction {
	img, scale := Downscale(img, opts.MaxDimension)

	gray := Grayscale(img)
	x := Extraction{Width: gray.Rect.Dx(), Height: gray.Rect.Dy(), Scale: scale}

	mask := Close(AdaptiveThreshold(gray, opts.BlockSize, opts.C))
	if mask.Count() == 0 {
		return x
	}

	segments := HoughLines(mask, HoughParams{
		Rho:       1,
		Theta:     math.Pi / 180,
		Threshold: opts.HoughThreshold,
		MinLength: opts.MinLineLength,
		MaxGap:    opts.MaxLineGap,
		Seed:      opts.Seed,
	})
	for _, s := range segments {
		p0, p1 := x.Map(float64(s.P0.X), float64(s.P0.Y)), x.Map(float64(s.P1.X), float64(s.P1.Y))
		x.Entities = append(x.Entities, model.Entity{
			Kind:        model.KindLine,
			Layer:       LayerLines,
			Coordinates: []model.Point{p0, p1},
			// 长度与坐标同为归一化单位
			Properties: model.Properties{model.PropLength: math.Hypot(p1.X-p0.X, p1.Y-p0.Y)},
		})
	}

	var (
		rooms int
		small int
	)
	for _, contour := range ExternalContours(mask) {
		area := Area(contour)
		if area < opts.MinContourArea {
			small++
			continue
		}
		simplified := Simplify(contour, 0.01*Perimeter(contour))
		points := make([]model.Point, 0, len(simplified))
		for _, p := range simplified {
			points = append(points, x.Map(float64(p.X), float64(p.Y)))
		}
		points = dedupe(points, vertexEpsilon)
		if len(points) < 3 {
			continue
		}
		rooms++
		x.Entities = append(x.Entities, model.Entity{
			Kind:        model.KindPolyline,
			Layer:       fmt.Sprintf(LayerRoom, rooms),
			Coordinates: points,
			Properties: model.Properties{
				model.PropClosed: true,
				model.PropArea:   area * scale * scale,
			},
		})
	}
	if small > 0 {
		x.Diagnostics.Add(model.DiagSmallContour, "", "", "discarded %d contour(s) smaller than %g px²", small, opts.MinContourArea)
	}
	return x
}
