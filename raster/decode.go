package raster

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrDecode 图像无法解码
var ErrDecode = errors.New("raster: cannot decode image")

// Decode 解码 PNG/JPEG/GIF/TIFF/BMP/WEBP，多帧格式只取第一帧
func Decode(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return img, format, nil
}

// Open 打开并解码图像文件
func Open(filename string) (img image.Image, format string, err error) {
	file, err := os.Open(filename)
	if err != nil {
		return
	}

	defer func() {
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}()

	return Decode(file)
}

// Downscale 长边超过 maxDim 时等比缩小，返回缩小后的图像和源像素/处理像素的比例
func Downscale(img image.Image, maxDim int) (image.Image, float64) {
	b := img.Bounds()
	long := max(b.Dx(), b.Dy())
	if maxDim <= 0 || long <= maxDim {
		return img, 1
	}

	ratio := float64(long) / float64(maxDim)
	w := max(1, int(float64(b.Dx())/ratio+0.5))
	h := max(1, int(float64(b.Dy())/ratio+0.5))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst, ratio
}
