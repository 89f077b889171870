package raster

import "image"

// AdaptiveThreshold 局部均值自适应二值化（反相）：
// 像素灰度不大于邻域均值减 c 时记为墨迹。邻域为 block×block 窗口，图像边缘处只取图内部分
func AdaptiveThreshold(g *image.Gray, block int, c float64) *Mask {
	w, h := g.Rect.Dx(), g.Rect.Dy()
	mask := NewMask(w, h)
	if w == 0 || h == 0 {
		return mask
	}
	if block < 3 {
		block = 3
	}
	if block%2 == 0 {
		block++
	}
	half := block / 2

	// 积分图，多一行一列方便计算
	stride := w + 1
	sum := make([]int64, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		var row int64
		for x := 0; x < w; x++ {
			row += int64(g.Pix[y*g.Stride+x])
			sum[(y+1)*stride+x+1] = sum[y*stride+x+1] + row
		}
	}

	for y := 0; y < h; y++ {
		y0, y1 := max(y-half, 0), min(y+half+1, h)
		for x := 0; x < w; x++ {
			x0, x1 := max(x-half, 0), min(x+half+1, w)
			total := sum[y1*stride+x1] - sum[y0*stride+x1] - sum[y1*stride+x0] + sum[y0*stride+x0]
			mean := float64(total) / float64((x1-x0)*(y1-y0))
			if float64(g.Pix[y*g.Stride+x]) <= mean-c {
				mask.Pix[y*w+x] = 1
			}
		}
	}
	return mask
}
