package entities

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/zooyer/floorplan/core"
)

var (
	reFormat = regexp.MustCompile(`\\[A-Za-z][^;]*;`)
	reNum    = regexp.MustCompile(`-?[0-9]+(\.[0-9]+)?`)
)

type Dimension struct {
	BaseEntity
	DimType           int        // 组码 70 (关键：区分标注类型)
	StyleName         string     // 组码 3 (标注样式名称，用于关联 TABLES)
	ActualMeasurement float64    // 组码 42
	Text              string     // 组码 1
	Angle             float64    // 组码 50
	TextMidPoint      core.Point // 组码 11 (中间的点)
	DefPoint          core.Point // 组码 10 (标注线起点)
	MeasureStart      core.Point // 组码 13 (被测量的起点)
	MeasureEnd        core.Point // 组码 14 (被测量的终点)
}

func init() {
	Register("DIMENSION", func() Entity {
		return &Dimension{BaseEntity: BaseEntity{TypeName: "DIMENSION"}}
	})
}

func (d *Dimension) Parse(scanner *core.Scanner) error {
	for {
		tag := scanner.LastTag
		if !d.parseCommon(tag) {
			switch tag.Code {
			case 3:
				// 核心：读取标注样式名称
				d.StyleName = strings.ToUpper(tag.AsString())
			case 1:
				d.Text = tag.Value
			case 42:
				d.float(tag, &d.ActualMeasurement)
			case 50:
				d.float(tag, &d.Angle)
			// 解析核心点坐标
			case 10:
				d.float(tag, &d.DefPoint.X)
			case 20:
				d.float(tag, &d.DefPoint.Y)
			case 11:
				d.float(tag, &d.TextMidPoint.X)
			case 21:
				d.float(tag, &d.TextMidPoint.Y)
			case 13:
				d.float(tag, &d.MeasureStart.X)
			case 23:
				d.float(tag, &d.MeasureStart.Y)
			case 14:
				d.float(tag, &d.MeasureEnd.X)
			case 24:
				d.float(tag, &d.MeasureEnd.Y)
			case 70:
				// 组码 70 包含了很多信息，我们只需要低 3 位来判定类型
				d.DimType = tag.AsInt() & 0x07
			}
		}
		if !scanner.Next() || scanner.LastTag.Code == 0 {
			break
		}
	}
	return nil
}

func (d *Dimension) Validate() error {
	return d.require(10, 20)
}

// HasMeasurement 是否带有组码 42 的实测值
func (d *Dimension) HasMeasurement() bool {
	return d.seen[42]
}

// Override 返回手动覆盖的标注文字，"<>" 表示使用测量值，不算覆盖
func (d *Dimension) Override() string {
	if d.Text == "" || d.Text == "<>" {
		return ""
	}
	return d.Text
}

// BBox 包含所有已知的定义点
func (d *Dimension) BBox() core.BBox {
	box := core.EmptyBBox().Extend(d.DefPoint)
	if d.seen[11] {
		box = box.Extend(d.TextMidPoint)
	}
	if d.seen[13] {
		box = box.Extend(d.MeasureStart)
	}
	if d.seen[14] {
		box = box.Extend(d.MeasureEnd)
	}
	return box
}

// GetCleanVal 去掉格式码后用正则提取标注文字中的第一个数值
func (d *Dimension) GetCleanVal() (float64, bool) {
	if d.Text == "" {
		return 0, false
	}
	cleanText := reFormat.ReplaceAllString(d.Text, "")
	match := reNum.FindString(cleanText)
	if match == "" {
		return 0, false
	}
	val, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return val, true
}
