package qrcode

import (
	"encoding/base64"
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"
)

var (
	// ErrEmptyContent is returned when content string is empty or only whitespace
	ErrEmptyContent = errors.New("content cannot be empty")
	// ErrFailedToGenerateQRCode is returned when the QR code generation fails.
	ErrFailedToGenerateQRCode = errors.New("failed to generate QR code")
)

// DefaultSize is the image size in pixels used when no size is specified.
const DefaultSize = 256

const dataURIPrefix = "data:image/png;base64,"

// Renderer produces PNG QR codes of a fixed size.
type Renderer struct {
	size  int
	level skipqrcode.RecoveryLevel
}

// NewRenderer creates a renderer. Non-positive sizes fall back to DefaultSize.
func NewRenderer(size int) *Renderer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Renderer{size: size, level: skipqrcode.Medium}
}

// Size returns the width and height of rendered images in pixels.
func (r *Renderer) Size() int { return r.size }

// Render returns content encoded as a square PNG image.
func (r *Renderer) Render(content string) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	png, err := skipqrcode.Encode(content, r.level, r.size)
	if err != nil {
		return nil, errors.Join(ErrFailedToGenerateQRCode, err)
	}
	return png, nil
}

// DataURI returns the rendered PNG as a data URI suitable for an <img> tag.
func (r *Renderer) DataURI(content string) (string, error) {
	png, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return dataURIPrefix + base64.StdEncoding.EncodeToString(png), nil
}
