package utils

import (
	"math"
	"strings"

	"github.com/zooyer/floorplan/dxf"
	"github.com/zooyer/floorplan/entities"
)

// GetDimValue 返回标注的测量值：优先使用组码 42，否则从标注文字中提取数字，
// 再按标注样式的精度四舍五入。两者都没有时 ok 为 false
func GetDimValue(doc *dxf.Document, dim *entities.Dimension) (value float64, ok bool) {
	// 1. 实测值优先，没有时按文字提取数字
	if dim.HasMeasurement() {
		value, ok = dim.ActualMeasurement, true
	} else {
		value, ok = dim.GetCleanVal()
	}
	if !ok {
		return 0, false
	}

	// 2. 查找标注样式定义的精度，未定义样式时不做取整
	style, exists := doc.DimStyles[strings.ToUpper(dim.StyleName)]
	if !exists {
		return value, true
	}

	// 3. 根据精度进行四舍五入
	p := math.Pow(10, float64(style.Precision))

	return math.Round(value*p) / p, true
}
