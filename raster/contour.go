package raster

import "image"

// 顺时针的 8 邻域（y 轴向下）：W NW N NE E SE S SW
var neighbors = [8]image.Point{
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
}

// 4 邻域
var cross = [4]image.Point{{X: -1, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: -1}, {X: 0, Y: 1}}

// ExternalContours 返回最外层连通域（8 连通）的外边界，只保留方向变化处的拐点。
// 被其他墨迹包围在内部的连通域不输出。按起点的行扫描顺序排列
func ExternalContours(m *Mask) [][]image.Point {
	labels, count := label(m)
	if count == 0 {
		return nil
	}
	outside := exterior(m)

	var (
		external = make([]bool, count+1)
		starts   = make([]image.Point, count+1)
		seen     = make([]bool, count+1)
		order    []int
	)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			id := labels[y*m.W+x]
			if id == 0 {
				continue
			}
			if !seen[id] {
				seen[id] = true
				starts[id] = image.Point{X: x, Y: y}
				order = append(order, id)
			}
			if external[id] {
				continue
			}
			if x == 0 || y == 0 || x == m.W-1 || y == m.H-1 {
				external[id] = true
				continue
			}
			for _, d := range cross {
				if outside[(y+d.Y)*m.W+x+d.X] {
					external[id] = true
					break
				}
			}
		}
	}

	var contours [][]image.Point
	for _, id := range order {
		if !external[id] {
			continue
		}
		contours = append(contours, compress(trace(labels, m.W, m.H, id, starts[id])))
	}
	return contours
}

// label 8 连通域标记，0 为背景
func label(m *Mask) ([]int, int) {
	var (
		labels = make([]int, m.W*m.H)
		count  int
		stack  []image.Point
	)
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if !m.At(x, y) || labels[y*m.W+x] != 0 {
				continue
			}
			count++
			labels[y*m.W+x] = count
			stack = append(stack[:0], image.Point{X: x, Y: y})
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				for _, d := range neighbors {
					q := p.Add(d)
					if m.At(q.X, q.Y) && labels[q.Y*m.W+q.X] == 0 {
						labels[q.Y*m.W+q.X] = count
						stack = append(stack, q)
					}
				}
			}
		}
	}
	return labels, count
}

// exterior 标记与图像边框 4 连通的背景像素
func exterior(m *Mask) []bool {
	var (
		outside = make([]bool, m.W*m.H)
		stack   []image.Point
	)
	push := func(x, y int) {
		if m.In(x, y) && !m.At(x, y) && !outside[y*m.W+x] {
			outside[y*m.W+x] = true
			stack = append(stack, image.Point{X: x, Y: y})
		}
	}
	for x := 0; x < m.W; x++ {
		push(x, 0)
		push(x, m.H-1)
	}
	for y := 0; y < m.H; y++ {
		push(0, y)
		push(m.W-1, y)
	}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		push(p.X-1, p.Y)
		push(p.X+1, p.Y)
		push(p.X, p.Y-1)
		push(p.X, p.Y+1)
	}
	return outside
}

// trace Moore 邻域边界跟踪：从回溯点开始顺时针寻找下一个同域像素。
// 当再次从起点迈出与第一步相同的一步时结束
func trace(labels []int, w, h, id int, start image.Point) []image.Point {
	inside := func(p image.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h && labels[p.Y*w+p.X] == id
	}
	step := func(cur, back image.Point) (next, nextBack image.Point, ok bool) {
		d := direction(back.Sub(cur))
		for k := 1; k <= 8; k++ {
			if p := cur.Add(neighbors[(d+k)%8]); inside(p) {
				return p, cur.Add(neighbors[(d+k-1)%8]), true
			}
		}
		return
	}

	var (
		// 起点是行扫描遇到的第一个像素，左边一定不是同一连通域
		cur     = start
		back    = image.Point{X: start.X - 1, Y: start.Y}
		second  image.Point
		contour []image.Point
		limit   = 4*w*h + 8
	)
	for i := 0; i < limit; i++ {
		next, nextBack, ok := step(cur, back)
		if !ok {
			// 孤立像素
			return []image.Point{start}
		}
		if i == 0 {
			second = next
		} else if cur == start && next == second {
			break
		}
		contour = append(contour, cur)
		cur, back = next, nextBack
	}
	return contour
}

func direction(d image.Point) int {
	for i, n := range neighbors {
		if n == d {
			return i
		}
	}
	return 0
}

// compress 链码压缩：去掉前后方向相同的中间点
func compress(points []image.Point) []image.Point {
	n := len(points)
	if n < 3 {
		return points
	}
	var out []image.Point
	for i, p := range points {
		prev := points[(i+n-1)%n]
		next := points[(i+1)%n]
		if p.Sub(prev) != next.Sub(p) {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return points[:1]
	}
	return out
}
