package utils

import (
	"github.com/zooyer/floorplan/entities"
)

// GetAttrs 返回块参照上的属性，标签名为空的属性忽略
func GetAttrs(ins *entities.Insert) map[string]string {
	var attrs = make(map[string]string)
	for _, a := range ins.Attributes {
		if a.Tag == "" {
			continue
		}
		attrs[a.Tag] = a.Text
	}

	return attrs
}

// GetAttr 按标签取属性值
func GetAttr(ins *entities.Insert, key string) string {
	return GetAttrs(ins)[key]
}
