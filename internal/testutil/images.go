package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"testing"
)

// SampleJPEG encodes a w x h gradient as JPEG.
func SampleJPEG(w, h int) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		panic(err)
	}
	return buf.Bytes()
}

// WriteTestJPEG writes a small valid JPEG to path.
func WriteTestJPEG(t *testing.T, path string) {
	t.Helper()
	if err := os.WriteFile(path, SampleJPEG(16, 12), 0644); err != nil {
		t.Fatalf("failed to write test jpeg: %v", err)
	}
}
