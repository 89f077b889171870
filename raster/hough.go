package raster

import (
	"image"
	"math"
	"math/rand"
)

// Segment 检测到的线段（像素坐标）
type Segment struct {
	P0, P1 image.Point
}

// Length 线段长度
func (s Segment) Length() float64 {
	return math.Hypot(float64(s.P1.X-s.P0.X), float64(s.P1.Y-s.P0.Y))
}

// HoughParams 概率霍夫变换参数
type HoughParams struct {
	Rho       float64 // 距离分辨率（像素）
	Theta     float64 // 角度分辨率（弧度）
	Threshold int     // 累加器最小票数
	MinLength int     // 最短线段
	MaxGap    int     // 同一直线上允许的最大断裂
	Seed      int64   // 随机顺序的种子，固定种子保证结果可复现
}

const houghShift = 16

// HoughLines 渐进概率霍夫变换：随机取点投票，票数达到阈值后沿直线方向延伸出线段，
// 并把线段上的点从图中和累加器中移除。不修改传入的 mask
func HoughLines(m *Mask, p HoughParams) []Segment {
	if m.W == 0 || m.H == 0 || p.Rho <= 0 || p.Theta <= 0 {
		return nil
	}
	mask := m.Clone()

	var (
		irho     = 1 / p.Rho
		numAngle = int(math.Round(math.Pi / p.Theta))
		numRho   = int(math.Round(float64((m.W+m.H)*2+1) / p.Rho))
		acc      = make([]int, numAngle*numRho)
		cosTab   = make([]float64, numAngle)
		sinTab   = make([]float64, numAngle)
		points   []image.Point
		segments []Segment
	)
	for n := 0; n < numAngle; n++ {
		angle := float64(n) * p.Theta
		cosTab[n] = math.Cos(angle) * irho
		sinTab[n] = math.Sin(angle) * irho
	}
	for y := 0; y < m.H; y++ {
		for x := 0; x < m.W; x++ {
			if mask.At(x, y) {
				points = append(points, image.Point{X: x, Y: y})
			}
		}
	}

	rng := rand.New(rand.NewSource(p.Seed))
	rng.Shuffle(len(points), func(i, j int) { points[i], points[j] = points[j], points[i] })

	vote := func(pt image.Point, delta int) (best, bestN int) {
		best, bestN = p.Threshold-1, -1
		for n := 0; n < numAngle; n++ {
			r := int(math.Round(float64(pt.X)*cosTab[n]+float64(pt.Y)*sinTab[n])) + (numRho-1)/2
			acc[n*numRho+r] += delta
			if v := acc[n*numRho+r]; v > best {
				best, bestN = v, n
			}
		}
		return
	}

	for _, pt := range points {
		// 已被之前的线段移除
		if !mask.At(pt.X, pt.Y) {
			continue
		}
		_, n := vote(pt, 1)
		if n < 0 {
			continue
		}

		// 沿直线方向用定点数步进
		var (
			a, b     = -sinTab[n], cosTab[n]
			x0, y0   = pt.X, pt.Y
			dx0, dy0 int
			xflag    = math.Abs(a) > math.Abs(b)
			ends     [2]image.Point
			half     = 1 << (houghShift - 1)
		)
		if xflag {
			dx0 = 1
			if a < 0 {
				dx0 = -1
			}
			dy0 = int(math.Round(b * (1 << houghShift) / math.Abs(a)))
			y0 = y0<<houghShift + half
		} else {
			dy0 = 1
			if b < 0 {
				dy0 = -1
			}
			dx0 = int(math.Round(a * (1 << houghShift) / math.Abs(b)))
			x0 = x0<<houghShift + half
		}

		walk := func(k int, fn func(x, y int) bool) {
			x, y, dx, dy := x0, y0, dx0, dy0
			if k > 0 {
				dx, dy = -dx, -dy
			}
			for ; ; x, y = x+dx, y+dy {
				px, py := x, y>>houghShift
				if !xflag {
					px, py = x>>houghShift, y
				}
				if !mask.In(px, py) || !fn(px, py) {
					return
				}
			}
		}

		for k := 0; k < 2; k++ {
			gap := 0
			ends[k] = pt
			walk(k, func(x, y int) bool {
				if mask.At(x, y) {
					gap = 0
					ends[k] = image.Point{X: x, Y: y}
				} else if gap++; gap > p.MaxGap {
					return false
				}
				return true
			})
		}
		good := abs(ends[1].X-ends[0].X) >= p.MinLength || abs(ends[1].Y-ends[0].Y) >= p.MinLength

		// 第二遍：移除线段上的点，合格线段同时撤销它们的投票
		for k := 0; k < 2; k++ {
			walk(k, func(x, y int) bool {
				if mask.At(x, y) {
					if good {
						vote(image.Point{X: x, Y: y}, -1)
					}
					mask.Set(x, y, false)
				}
				return x != ends[k].X || y != ends[k].Y
			})
		}

		if good {
			segments = append(segments, Segment{P0: ends[0], P1: ends[1]})
		}
	}
	return segments
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
