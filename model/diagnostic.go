package model

import "fmt"

// DiagnosticKind 可恢复问题的类别
type DiagnosticKind string

const (
	DiagMalformed        DiagnosticKind = "malformed"
	DiagUnresolvedHatch  DiagnosticKind = "unresolved_hatch"
	DiagSmallContour     DiagnosticKind = "small_contour"
	DiagRecovered        DiagnosticKind = "recovered"
	DiagMultiPage        DiagnosticKind = "multi_page"
	DiagOCR              DiagnosticKind = "ocr"
	DiagMissingBlock     DiagnosticKind = "missing_block"
	DiagInstanceTooDeep  DiagnosticKind = "instance_depth"
	DiagUnitsUnspecified DiagnosticKind = "units_inferred"
	DiagDefaulted        DiagnosticKind = "defaulted"
)

// Diagnostic 被跳过或降级处理的对象
type Diagnostic struct {
	Kind    DiagnosticKind `json:"kind"`
	Source  string         `json:"source,omitempty"` // 源对象类型，如 LINE
	Handle  string         `json:"handle,omitempty"`
	Message string         `json:"message"`
}

func (d Diagnostic) String() string {
	if d.Source == "" {
		return fmt.Sprintf("[%s] %s", d.Kind, d.Message)
	}
	return fmt.Sprintf("[%s] %s %s: %s", d.Kind, d.Source, d.Handle, d.Message)
}

// Diagnostics 诊断列表
type Diagnostics []Diagnostic

// Add 追加一条诊断
func (d *Diagnostics) Add(kind DiagnosticKind, source, handle, format string, args ...any) {
	*d = append(*d, Diagnostic{Kind: kind, Source: source, Handle: handle, Message: fmt.Sprintf(format, args...)})
}

// Count 统计某类诊断数量
func (d Diagnostics) Count(kind DiagnosticKind) int {
	n := 0
	for _, diag := range d {
		if diag.Kind == kind {
			n++
		}
	}
	return n
}
