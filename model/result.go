package model

import "sort"

// Mode 输出模式
type Mode string

const (
	// ModeFull 输出块模板
	ModeFull Mode = "full"
	// ModeBase 不输出块模板
	ModeBase Mode = "base"
)

// SourceKind 源文件类别
type SourceKind string

const (
	SourceVector SourceKind = "vector"
	SourceRaster SourceKind = "raster"
	SourcePDF    SourceKind = "pdf"
)

// Result 一次提取的完整输出
type Result struct {
	Source      SourceKind                 `json:"source"`
	Entities    []Entity                   `json:"entities"`
	Bounds      Bounds                     `json:"bounds"`
	Padded      bool                       `json:"bounds_padded"`
	Units       UnitScale                  `json:"unit_scale"`
	Layers      []string                   `json:"layers"`
	Blocks      map[string]BlockDefinition `json:"blocks,omitempty"`
	Diagnostics Diagnostics                `json:"diagnostics"`
	EntityCount int                        `json:"entity_count"`
	LayerCount  int                        `json:"layer_count"`
}

// LayerSet 返回实体图层去重排序后的列表
func LayerSet(groups ...[]Entity) []string {
	seen := make(map[string]bool)
	for _, list := range groups {
		for _, e := range list {
			seen[e.Layer] = true
		}
	}
	layers := make([]string, 0, len(seen))
	for layer := range seen {
		layers = append(layers, layer)
	}
	sort.Strings(layers)
	return layers
}

// TopLevel 过滤出模型空间实体
func TopLevel(list []Entity) []Entity {
	out := make([]Entity, 0, len(list))
	for _, e := range list {
		if e.Top() {
			out = append(out, e)
		}
	}
	return out
}
