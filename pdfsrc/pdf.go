// Package pdfsrc 读取扫描版 PDF 的第一页：页面图像、页数和文字层
package pdfsrc

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/zooyer/floorplan/raster"
)

var (
	// ErrCorrupt PDF 结构无法解析
	ErrCorrupt = errors.New("pdf: corrupt document")
	// ErrNoImage 第一页没有位图
	ErrNoImage = errors.New("pdf: page 1 has no raster image")
)

// Letter 页面缺少 MediaBox 时的默认尺寸（点）
var Letter = [2]float64{612, 792}

// TextRun 同一行上连续的文字，坐标为 PDF 用户空间（原点在左下角）
type TextRun struct {
	Text string
	X, Y float64
	W    float64
	Size float64
}

// Page 第一页的内容
type Page struct {
	Image  image.Image
	Format string
	Pages  int     // 文档总页数
	Width  float64 // MediaBox 宽（点）
	Height float64 // MediaBox 高（点）
	// MinX MinY MediaBox 左下角，多数页面为 0
	MinX, MinY float64
	Runs       []TextRun
}

// Relative 把用户空间坐标换算成页面内的比例，左下角为 (0, 0)。
// 位图按铺满整页处理，与页面边框对齐
func (p *Page) Relative(x, y float64) (fx, fy float64) {
	return (x - p.MinX) / p.Width, (y - p.MinY) / p.Height
}

// Open 读取 PDF 第一页
func Open(filename string) (*Page, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	page := &Page{}
	if err = readText(filename, page); err != nil {
		return nil, err
	}

	if page.Image, page.Format, err = largestImage(bytes.NewReader(data)); err != nil {
		return nil, err
	}
	return page, nil
}

// largestImage 用 pdfcpu 取出第一页面积最大的图像
func largestImage(rs io.ReadSeeker) (image.Image, string, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var (
		best   []byte
		format string
		area   int
	)
	err := api.ExtractImages(rs, []string{"1"}, func(img model.Image, singleImgPerPage bool, maxPageDigits int) error {
		if img.Width*img.Height <= area && best != nil {
			return nil
		}
		data, err := io.ReadAll(img)
		if err != nil {
			return err
		}
		best, format, area = data, img.FileType, img.Width*img.Height
		return nil
	}, conf)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if best == nil {
		return nil, "", ErrNoImage
	}

	decoded, _, err := raster.Decode(bytes.NewReader(best))
	if err != nil {
		return nil, "", err
	}
	return decoded, format, nil
}

// readText 用 ledongthuc/pdf 读取页数、页面尺寸和第一页文字
func readText(filename string, page *Page) (err error) {
	// 损坏的文件可能让解析器 panic
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrCorrupt, r)
		}
	}()

	f, reader, err := pdf.Open(filename)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	defer func() { _ = f.Close() }()

	page.Pages = reader.NumPage()
	if page.Pages < 1 {
		return fmt.Errorf("%w: no pages", ErrCorrupt)
	}

	p := reader.Page(1)
	page.MinX, page.MinY, page.Width, page.Height = mediaBox(p)
	page.Runs = mergeRuns(p.Content().Text)
	return nil
}

// mediaBox 页面左下角和尺寸，MediaBox 可以从父节点继承
func mediaBox(p pdf.Page) (x, y, w, h float64) {
	box, node := p.V.Key("MediaBox"), p.V
	for i := 0; box.Len() != 4 && i < 8; i++ {
		if node = node.Key("Parent"); node.IsNull() {
			break
		}
		box = node.Key("MediaBox")
	}
	if box.Len() != 4 {
		return 0, 0, Letter[0], Letter[1]
	}
	x, y = box.Index(0).Float64(), box.Index(1).Float64()
	w, h = box.Index(2).Float64()-x, box.Index(3).Float64()-y
	if w <= 0 || h <= 0 {
		return 0, 0, Letter[0], Letter[1]
	}
	return x, y, w, h
}

// mergeRuns 把逐字形的文字合并成行内连续的文字段
func mergeRuns(glyphs []pdf.Text) []TextRun {
	var (
		runs []TextRun
		cur  *TextRun
		b    strings.Builder
	)
	flush := func() {
		if cur == nil {
			return
		}
		if cur.Text = strings.TrimSpace(b.String()); cur.Text != "" {
			runs = append(runs, *cur)
		}
		cur = nil
		b.Reset()
	}

	for _, g := range glyphs {
		if strings.TrimSpace(g.S) == "" {
			if cur != nil {
				b.WriteString(" ")
			}
			continue
		}
		size := math.Max(g.FontSize, 1)
		if cur != nil {
			end := cur.X + cur.W
			sameLine := math.Abs(g.Y-cur.Y) < size*0.5
			near := g.X-end < size && g.X-end > -size*0.5
			if !sameLine || !near {
				flush()
			} else if g.X-end > size*0.2 {
				b.WriteString(" ")
			}
		}
		if cur == nil {
			cur = &TextRun{X: g.X, Y: g.Y, Size: size}
		}
		b.WriteString(g.S)
		cur.W = math.Max(cur.W, g.X+g.W-cur.X)
	}
	flush()

	// 从上到下、从左到右
	sort.SliceStable(runs, func(i, j int) bool {
		if math.Abs(runs[i].Y-runs[j].Y) > 0.5 {
			return runs[i].Y > runs[j].Y
		}
		return runs[i].X < runs[j].X
	})
	return runs
}
