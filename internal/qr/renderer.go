package qr

import (
	"fmt"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length in pixels.
const DefaultSize = 200

// Renderer turns content into a scannable visual code.
type Renderer interface {
	Render(content string) (string, error)
}

// TerminalRenderer draws codes with Unicode half blocks.
type TerminalRenderer struct {
	level   qrcode.RecoveryLevel
	inverse bool
}

// NewTerminalRenderer creates a renderer for terminals. inverse suits light-on-dark themes.
func NewTerminalRenderer(inverse bool) *TerminalRenderer {
	return &TerminalRenderer{level: qrcode.Medium, inverse: inverse}
}

func (r *TerminalRenderer) Render(content string) (string, error) {
	code, err := qrcode.New(content, r.level)
	if err != nil {
		return "", fmt.Errorf("encode qr: %w", err)
	}

	return code.ToSmallString(r.inverse), nil
}

// PNGRenderer writes codes to a PNG file and returns its path.
type PNGRenderer struct {
	path string
	size int
}

// NewPNGRenderer creates a renderer writing size×size images to path.
func NewPNGRenderer(path string, size int) *PNGRenderer {
	if size <= 0 {
		size = DefaultSize
	}

	return &PNGRenderer{path: path, size: size}
}

func (r *PNGRenderer) Render(content string) (string, error) {
	if err := qrcode.WriteFile(content, qrcode.Medium, r.size, r.path); err != nil {
		return "", fmt.Errorf("write qr png: %w", err)
	}

	return r.path, nil
}

var (
	_ Renderer = (*TerminalRenderer)(nil)
	_ Renderer = (*PNGRenderer)(nil)
)
