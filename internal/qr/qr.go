// Package qr turns ticket codes into scannable PNG images.
package qr

import (
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

// Renderer encodes ticket codes as QR PNGs with a fixed error-correction
// level and image size.
type Renderer struct {
	level qrcode.RecoveryLevel
	size  int
}

// NewRenderer builds a renderer. level is one of L, M, Q, H.
func NewRenderer(level string, size int) (*Renderer, error) {
	rl, err := parseLevel(level)
	if err != nil {
		return nil, err
	}
	if size <= 0 {
		size = 256
	}
	return &Renderer{level: rl, size: size}, nil
}

// Render returns the PNG bytes for a ticket code.
func (r *Renderer) Render(code string) ([]byte, error) {
	png, err := qrcode.Encode(code, r.level, r.size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr: %w", err)
	}
	return png, nil
}

func parseLevel(level string) (qrcode.RecoveryLevel, error) {
	switch strings.ToUpper(level) {
	case "L":
		return qrcode.Low, nil
	case "M":
		return qrcode.Medium, nil
	case "Q":
		return qrcode.High, nil
	case "H":
		return qrcode.Highest, nil
	default:
		return 0, fmt.Errorf("unknown qr error-correction level %q", level)
	}
}
