package raster

import (
	"image"
	"math"

	"github.com/zooyer/golib/xmath"

	"github.com/zooyer/floorplan/model"
)

// Area 闭合多边形面积（鞋带公式，取绝对值）
func Area(points []image.Point) float64 {
	n := len(points)
	if n < 3 {
		return 0
	}
	var sum int
	for i, p := range points {
		q := points[(i+1)%n]
		sum += p.X*q.Y - q.X*p.Y
	}
	return math.Abs(float64(sum)) / 2
}

// Perimeter 闭合多边形周长
func Perimeter(points []image.Point) float64 {
	n := len(points)
	if n < 2 {
		return 0
	}
	var total float64
	for i, p := range points {
		q := points[(i+1)%n]
		total += math.Hypot(float64(q.X-p.X), float64(q.Y-p.Y))
	}
	return total
}

// Simplify 闭合轮廓的 Douglas-Peucker 简化：
// 先找离起点最远的点把环切成两段，再分别简化
func Simplify(points []image.Point, epsilon float64) []image.Point {
	n := len(points)
	if n < 3 {
		return points
	}

	far, best := 0, -1.0
	for i, p := range points {
		if d := dist(p, points[0]); d > best {
			far, best = i, d
		}
	}
	if far == 0 {
		return points[:1]
	}

	ring := append(append([]image.Point{}, points...), points[0])
	first := douglasPeucker(ring[:far+1], epsilon)
	second := douglasPeucker(ring[far:], epsilon)

	// 去掉两段重复的衔接点和回到起点的终点
	out := append(first, second[1:len(second)-1]...)
	return out
}

func douglasPeucker(points []image.Point, epsilon float64) []image.Point {
	if len(points) < 3 {
		return append([]image.Point{}, points...)
	}
	var (
		a, b     = points[0], points[len(points)-1]
		idx      = 0
		farthest = 0.0
	)
	for i := 1; i < len(points)-1; i++ {
		if d := segmentDist(points[i], a, b); d > farthest {
			idx, farthest = i, d
		}
	}
	if farthest <= epsilon {
		return []image.Point{a, b}
	}
	left := douglasPeucker(points[:idx+1], epsilon)
	right := douglasPeucker(points[idx:], epsilon)
	return append(left[:len(left)-1], right...)
}

func dist(p, q image.Point) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}

// segmentDist 点到线段的距离
func segmentDist(p, a, b image.Point) float64 {
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	if dx == 0 && dy == 0 {
		return dist(p, a)
	}
	t := (float64(p.X-a.X)*dx + float64(p.Y-a.Y)*dy) / (dx*dx + dy*dy)
	t = math.Max(0, math.Min(1, t))
	return math.Hypot(float64(p.X)-float64(a.X)-t*dx, float64(p.Y)-float64(a.Y)-t*dy)
}

// dedupe 去掉相邻重合的顶点（含首尾）
func dedupe(points []model.Point, eps float64) []model.Point {
	var out []model.Point
	for _, p := range points {
		if len(out) > 0 && same(out[len(out)-1], p, eps) {
			continue
		}
		out = append(out, p)
	}
	for len(out) > 1 && same(out[0], out[len(out)-1], eps) {
		out = out[:len(out)-1]
	}
	return out
}

func same(a, b model.Point, eps float64) bool {
	return xmath.Equal(a.X, b.X, eps) && xmath.Equal(a.Y, b.Y, eps)
}
