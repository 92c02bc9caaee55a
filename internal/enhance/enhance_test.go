package enhance

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"booth-go/internal/config"
)

func uniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: uint8((x + y) % 256), A: 255})
		}
	}
	return img
}

func writeJPEG(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
		t.Fatalf("failed to write test jpeg: %v", err)
	}
}

func TestBrightness(t *testing.T) {
	img := uniform(4, 4, color.NRGBA{R: 100, G: 200, B: 240, A: 255})

	got := Brightness(img, 1.1).NRGBAAt(1, 1)
	want := color.NRGBA{R: 110, G: 220, B: 255, A: 255}
	if got != want {
		t.Errorf("Brightness() pixel = %v, want %v", got, want)
	}
}

func TestContrast(t *testing.T) {
	t.Run("uniform image unchanged", func(t *testing.T) {
		c := color.NRGBA{R: 120, G: 120, B: 120, A: 255}
		got := Contrast(uniform(4, 4, c), 1.2).NRGBAAt(2, 2)
		if got != c {
			t.Errorf("Contrast() pixel = %v, want %v", got, c)
		}
	})

	t.Run("spreads around mean", func(t *testing.T) {
		img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
		img.SetNRGBA(0, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
		img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 200, B: 200, A: 255})

		out := Contrast(img, 1.2)
		// mean luma is 150
		if got := out.NRGBAAt(0, 0).R; got != 90 {
			t.Errorf("dark pixel = %d, want 90", got)
		}
		if got := out.NRGBAAt(1, 0).R; got != 210 {
			t.Errorf("light pixel = %d, want 210", got)
		}
	})
}

func TestSharpness(t *testing.T) {
	t.Run("uniform image unchanged", func(t *testing.T) {
		c := color.NRGBA{R: 80, G: 90, B: 100, A: 255}
		got := Sharpness(uniform(5, 5, c), 1.5).NRGBAAt(2, 2)
		if got != c {
			t.Errorf("Sharpness() pixel = %v, want %v", got, c)
		}
	})

	t.Run("factor one is identity", func(t *testing.T) {
		img := gradient(8, 8)
		out := Sharpness(img, 1.0)
		if !bytes.Equal(out.Pix, img.Pix) {
			t.Error("Sharpness(1.0) changed the image")
		}
	})
}

func TestNewImagingEnhancer_Defaults(t *testing.T) {
	e := NewImagingEnhancer(config.EnhanceConfig{})
	if e.contrast != DefaultContrast || e.brightness != DefaultBrightness || e.sharpness != DefaultSharpness || e.quality != DefaultQuality {
		t.Errorf("defaults not applied: %+v", e)
	}
}

func TestImagingEnhancer_Enhance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo_1.jpg")
	writeJPEG(t, path, gradient(32, 24))
	e := NewImagingEnhancer(config.EnhanceConfig{})

	if err := e.Enhance(path); err != nil {
		t.Fatalf("Enhance() error = %v", err)
	}
	once, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	decoded, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("enhanced file does not decode: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("bounds = %v, want 32x24", b)
	}

	// Enhancement is not idempotent; a second pass changes the file again.
	if err := e.Enhance(path); err != nil {
		t.Fatalf("second Enhance() error = %v", err)
	}
	twice, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if bytes.Equal(once, twice) {
		t.Error("second enhancement produced identical output")
	}
}

func TestImagingEnhancer_EnhanceInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jpg")
	if err := os.WriteFile(path, []byte("not a jpeg"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := NewImagingEnhancer(config.EnhanceConfig{}).Enhance(path); err == nil {
		t.Error("Enhance() expected error for undecodable file")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "not a jpeg" {
		t.Error("undecodable file was modified")
	}
}

func TestThumbnail(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name  string
		w, h  int
		wantW int
		wantH int
	}{
		{name: "landscape", w: 600, h: 400, wantW: 300, wantH: 200},
		{name: "portrait", w: 400, h: 800, wantW: 150, wantH: 300},
		{name: "small image kept", w: 100, h: 50, wantW: 100, wantH: 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".jpg")
			writeJPEG(t, path, gradient(tt.w, tt.h))

			var buf bytes.Buffer
			if err := Thumbnail(&buf, path, ThumbnailSize); err != nil {
				t.Fatalf("Thumbnail() error = %v", err)
			}
			img, err := imaging.Decode(&buf)
			if err != nil {
				t.Fatalf("thumbnail does not decode: %v", err)
			}
			if b := img.Bounds(); b.Dx() != tt.wantW || b.Dy() != tt.wantH {
				t.Errorf("thumbnail = %dx%d, want %dx%d", b.Dx(), b.Dy(), tt.wantW, tt.wantH)
			}
		})
	}
}

func TestSharpness_BorderUnchanged(t *testing.T) {
	img := uniform(5, 5, color.NRGBA{R: 50, G: 50, B: 50, A: 255})
	img.SetNRGBA(2, 2, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{R: 200, G: 200, B: 200, A: 255})
	out := Sharpness(img, 2.0)

	for _, p := range []image.Point{{0, 0}, {0, 1}, {4, 0}, {0, 4}, {4, 4}, {2, 0}, {4, 2}, {2, 4}} {
		if got, want := out.NRGBAAt(p.X, p.Y), img.NRGBAAt(p.X, p.Y); got != want {
			t.Errorf("border pixel %v = %v, want %v", p, got, want)
		}
	}
	if got := out.NRGBAAt(2, 2).R; got != 255 {
		t.Errorf("interior peak = %d, want 255", got)
	}
}

func TestMeanLuminance_Rounds(t *testing.T) {
	// Pure green 1 has luma 0.587, which rounds to 1.
	img := uniform(2, 2, color.NRGBA{R: 0, G: 1, B: 0, A: 255})
	if got := meanLuminance(img); got != 1 {
		t.Errorf("meanLuminance() = %d, want 1", got)
	}
}
