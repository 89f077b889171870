//go:build ocr

package ocr

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Client 封装 Tesseract
type Client struct {
	client *gosseract.Client
}

// New 创建识别客户端，lang 为空时使用英文，多语言用 + 连接（如 eng+chi_sim）
func New(lang string) (*Client, error) {
	client := gosseract.NewClient()
	if lang == "" {
		lang = DefaultLanguage
	}
	if err := client.SetLanguage(strings.Split(lang, "+")...); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	return &Client{client: client}, nil
}

// Close 释放资源
func (c *Client) Close() error {
	if c != nil && c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Words 识别图像中的单词及其位置
func (c *Client) Words(img image.Image) ([]Word, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	if err := c.client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		words = append(words, Word{
			Text:       strings.TrimSpace(b.Word),
			Box:        b.Box,
			Confidence: b.Confidence,
		})
	}
	return words, nil
}
