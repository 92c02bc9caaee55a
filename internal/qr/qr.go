package qr

import (
	"fmt"
	"path/filepath"
	"strings"

	qrcode "github.com/skip2/go-qrcode"

	"booth-go/internal/booth"
)

const (
	// Filename is the QR artifact written into each session directory.
	Filename = "qr.png"

	DefaultSize = 256
)

// Generator renders the gallery link for a session as a PNG QR code.
type Generator struct {
	baseURL string
	size    int
}

// NewGenerator creates a Generator whose links are baseURL + "/" + code.
func NewGenerator(baseURL string, size int) *Generator {
	if size <= 0 {
		size = DefaultSize
	}
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		size:    size,
	}
}

// GalleryURL returns the public gallery link for a short code.
func (g *Generator) GalleryURL(shortCode string) string {
	return g.baseURL + "/" + shortCode
}

// Generate writes <dir>/qr.png encoding the gallery URL, replacing any
// previous file, and returns its path.
func (g *Generator) Generate(shortCode, dir string) (string, error) {
	path := filepath.Join(dir, Filename)
	if err := qrcode.WriteFile(g.GalleryURL(shortCode), qrcode.Medium, g.size, path); err != nil {
		return "", fmt.Errorf("failed to write qr code: %w", err)
	}
	return path, nil
}

// Compile-time check that Generator implements booth.QRGenerator interface
var _ booth.QRGenerator = (*Generator)(nil)
