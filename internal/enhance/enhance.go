package enhance

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"booth-go/internal/booth"
	"booth-go/internal/config"
)

const (
	DefaultContrast   = 1.2
	DefaultBrightness = 1.1
	DefaultSharpness  = 1.5
	DefaultQuality    = 90
)

// smoothKernel matches the classic 3x3 smoothing filter used as the
// degenerate image for sharpening. Normalized by its sum (13).
var smoothKernel = [9]float64{
	1, 1, 1,
	1, 5, 1,
	1, 1, 1,
}

// ImagingEnhancer rewrites a JPEG in place with contrast, brightness and
// sharpness applied in that order.
type ImagingEnhancer struct {
	contrast   float64
	brightness float64
	sharpness  float64
	quality    int
}

// NewImagingEnhancer creates an enhancer from configuration. Zero factors
// fall back to the defaults.
func NewImagingEnhancer(cfg config.EnhanceConfig) *ImagingEnhancer {
	e := &ImagingEnhancer{
		contrast:   cfg.Contrast,
		brightness: cfg.Brightness,
		sharpness:  cfg.Sharpness,
		quality:    cfg.Quality,
	}
	if e.contrast == 0 {
		e.contrast = DefaultContrast
	}
	if e.brightness == 0 {
		e.brightness = DefaultBrightness
	}
	if e.sharpness == 0 {
		e.sharpness = DefaultSharpness
	}
	if e.quality <= 0 || e.quality > 100 {
		e.quality = DefaultQuality
	}
	return e
}

// Enhance decodes path, applies the enhancement chain and overwrites the file.
func (e *ImagingEnhancer) Enhance(path string) error {
	src, err := imaging.Open(path)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	img := imaging.Clone(src)
	img = Contrast(img, e.contrast)
	img = Brightness(img, e.brightness)
	img = Sharpness(img, e.sharpness)

	if err := imaging.Save(img, path, imaging.JPEGQuality(e.quality)); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// Contrast blends img away from a flat grey image at its mean luminance.
func Contrast(img *image.NRGBA, factor float64) *image.NRGBA {
	mean := meanLuminance(img)
	return blendConst(img, mean, factor)
}

// Brightness blends img away from black, which scales every channel by factor.
func Brightness(img *image.NRGBA, factor float64) *image.NRGBA {
	return blendConst(img, 0, factor)
}

// Sharpness blends img away from a smoothed copy of itself.
func Sharpness(img *image.NRGBA, factor float64) *image.NRGBA {
	smooth := imaging.Convolve3x3(img, smoothKernel, &imaging.ConvolveOptions{Normalize: true})
	copyBorder(smooth, img)
	return blend(img, smooth, factor)
}

// copyBorder copies the 1-pixel frame of src into dst, so the outermost
// pixels are never sharpened.
func copyBorder(dst, src *image.NRGBA) {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if w == 0 || h == 0 {
		return
	}
	px := func(x, y int) {
		i := y*src.Stride + x*4
		j := y*dst.Stride + x*4
		copy(dst.Pix[j:j+4], src.Pix[i:i+4])
	}
	for x := 0; x < w; x++ {
		px(x, 0)
		px(x, h-1)
	}
	for y := 0; y < h; y++ {
		px(0, y)
		px(w-1, y)
	}
}

// meanLuminance returns the rounded mean of the ITU-R 601-2 luma of img.
func meanLuminance(img *image.NRGBA) uint8 {
	b := img.Bounds()
	n := b.Dx() * b.Dy()
	if n == 0 {
		return 0
	}

	var sum uint64
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+b.Dx()*4]
		for i := 0; i < len(row); i += 4 {
			sum += luma(row[i], row[i+1], row[i+2])
		}
	}
	return uint8(float64(sum)/float64(n) + 0.5)
}

// luma is the 16-bit fixed-point ITU-R 601-2 luma of one pixel, rounded.
func luma(r, g, b uint8) uint64 {
	return (uint64(r)*19595 + uint64(g)*38470 + uint64(b)*7471 + 0x8000) >> 16
}

// blendConst computes degenerate + (img - degenerate) * factor against a
// uniform degenerate value. Alpha is preserved.
func blendConst(img *image.NRGBA, degenerate uint8, factor float64) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	d := float64(degenerate)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		out.Pix[i] = clamp(d + (float64(img.Pix[i])-d)*factor)
		out.Pix[i+1] = clamp(d + (float64(img.Pix[i+1])-d)*factor)
		out.Pix[i+2] = clamp(d + (float64(img.Pix[i+2])-d)*factor)
		out.Pix[i+3] = img.Pix[i+3]
	}
	return out
}

// blend computes degenerate + (img - degenerate) * factor per pixel.
// Both images must share bounds and stride.
func blend(img, degenerate *image.NRGBA, factor float64) *image.NRGBA {
	out := image.NewNRGBA(img.Bounds())
	for i := 0; i+3 < len(img.Pix); i += 4 {
		for c := 0; c < 3; c++ {
			d := float64(degenerate.Pix[i+c])
			out.Pix[i+c] = clamp(d + (float64(img.Pix[i+c])-d)*factor)
		}
		out.Pix[i+3] = img.Pix[i+3]
	}
	return out
}

func clamp(v float64) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v + 0.5)
	}
}

// Compile-time check that ImagingEnhancer implements booth.Enhancer interface
var _ booth.Enhancer = (*ImagingEnhancer)(nil)
