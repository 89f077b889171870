package model

// CanonicalUnit 统一输出单位
const CanonicalUnit = "m"

// UnitScale 源坐标到米的换算：canonical = source * Factor
type UnitScale struct {
	Unit     string  `json:"units"`
	Factor   float64 `json:"scale"`
	Source   string  `json:"source_unit"`
	Inferred bool    `json:"inferred"`
	// Applied 坐标已经换算成米
	Applied bool `json:"applied,omitempty"`
}
