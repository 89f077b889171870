package model

import (
	"errors"
	"fmt"
)

// ErrorKind 致命错误类别
type ErrorKind string

const (
	KindOpenFailed        ErrorKind = "OpenFailed"
	KindCorruptSource     ErrorKind = "CorruptSource"
	KindDecodeFailed      ErrorKind = "DecodeFailed"
	KindUnsupportedSource ErrorKind = "UnsupportedSource"
)

// 哨兵错误，可以用 errors.Is 判断 ExtractionError 的类别
var (
	ErrOpenFailed        = errors.New("source cannot be opened")
	ErrCorruptSource     = errors.New("source is corrupt")
	ErrDecodeFailed      = errors.New("image cannot be decoded")
	ErrUnsupportedSource = errors.New("unsupported source kind")
)

// ExtractionError 整次提取失败，不会返回任何部分结果
type ExtractionError struct {
	Kind ErrorKind `json:"kind"`
	Path string    `json:"path,omitempty"`
	Op   string    `json:"operation"`
	Err  error     `json:"error"`
}

func (e *ExtractionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s in %s: %v", e.Kind, e.Op, e.Err)
	}
	return fmt.Sprintf("%s in %s (%s): %v", e.Kind, e.Op, e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Is 让 errors.Is(err, ErrCorruptSource) 等判断生效
func (e *ExtractionError) Is(target error) bool {
	switch target {
	case ErrOpenFailed:
		return e.Kind == KindOpenFailed
	case ErrCorruptSource:
		return e.Kind == KindCorruptSource
	case ErrDecodeFailed:
		return e.Kind == KindDecodeFailed
	case ErrUnsupportedSource:
		return e.Kind == KindUnsupportedSource
	}
	return false
}

// NewError 构造提取错误
func NewError(kind ErrorKind, path, op string, err error) *ExtractionError {
	return &ExtractionError{Kind: kind, Path: path, Op: op, Err: err}
}
