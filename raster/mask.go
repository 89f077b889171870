// Package raster 从扫描图纸、照片等位图中提取直线和闭合区域
package raster

import (
	"image"
	"image/color"
)

// Mask 二值图，1 表示墨迹
type Mask struct {
	W, H int
	Pix  []uint8
}

func NewMask(w, h int) *Mask {
	return &Mask{W: w, H: h, Pix: make([]uint8, w*h)}
}

func (m *Mask) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.W && y < m.H
}

// At 越界返回 false
func (m *Mask) At(x, y int) bool {
	return m.In(x, y) && m.Pix[y*m.W+x] != 0
}

func (m *Mask) Set(x, y int, v bool) {
	if v {
		m.Pix[y*m.W+x] = 1
	} else {
		m.Pix[y*m.W+x] = 0
	}
}

// Count 墨迹像素数
func (m *Mask) Count() int {
	n := 0
	for _, v := range m.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

func (m *Mask) Clone() *Mask {
	c := NewMask(m.W, m.H)
	copy(c.Pix, m.Pix)
	return c
}

// Grayscale 按亮度转换为灰度图
func Grayscale(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Rect.Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			gray.SetGray(x, y, color.GrayModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray))
		}
	}
	return gray
}
