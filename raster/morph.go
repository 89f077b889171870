package raster

// Close 2×2 结构元素的形态学闭运算（先膨胀后腐蚀），用于连接笔画中的细小断裂。
// 膨胀在向右下各扩一像素的画布上进行，腐蚀后裁回原尺寸，边缘不会多出墨迹
func Close(m *Mask) *Mask {
	dilated := NewMask(m.W+1, m.H+1)
	for y := 0; y < dilated.H; y++ {
		for x := 0; x < dilated.W; x++ {
			dilated.Set(x, y, m.At(x-1, y-1) || m.At(x, y-1) || m.At(x-1, y) || m.At(x, y))
		}
	}

	out := NewMask(m.W, m.H)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			out.Set(x, y, dilated.At(x, y) && dilated.At(x+1, y) && dilated.At(x, y+1) && dilated.At(x+1, y+1))
		}
	}
	return out
}
