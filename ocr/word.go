// Package ocr 识别图纸上的文字（房间名、尺寸标注等）。
//
// 依赖 Tesseract，需要用 ocr 构建标签编译：
//
//	go build -tags ocr
//
// 未启用时所有函数返回 ErrOCRNotEnabled。
package ocr

import (
	"errors"
	"image"
)

// ErrOCRNotEnabled 编译时没有启用 OCR
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// DefaultLanguage 默认识别语言
const DefaultLanguage = "eng"

// Word 识别出的一个单词，Box 为像素坐标
type Word struct {
	Text       string
	Box        image.Rectangle
	Confidence float64 // 0-100
}

// Center 单词框中心
func (w Word) Center() (x, y float64) {
	return float64(w.Box.Min.X+w.Box.Max.X) / 2, float64(w.Box.Min.Y+w.Box.Max.Y) / 2
}

// Filter 去掉空白和置信度低于 minConfidence 的单词
func Filter(words []Word, minConfidence float64) []Word {
	out := make([]Word, 0, len(words))
	for _, w := range words {
		if w.Text == "" || w.Confidence < minConfidence {
			continue
		}
		out = append(out, w)
	}
	return out
}
