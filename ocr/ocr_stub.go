//go:build !ocr

package ocr

import "image"

// Client 未启用 OCR 时的占位实现
type Client struct{}

// New 总是返回 ErrOCRNotEnabled
func New(lang string) (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close 可以在 nil 上调用
func (c *Client) Close() error {
	return nil
}

// Words 总是返回 ErrOCRNotEnabled
func (c *Client) Words(img image.Image) ([]Word, error) {
	return nil, ErrOCRNotEnabled
}
