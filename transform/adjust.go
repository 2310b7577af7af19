// Package transform reduces a source image to a small, few-colored image:
// optional brightness/contrast/saturation adjustment, pixelation to the
// stitch grid, then palette quantization.
package transform

import (
	"errors"
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/gift"
	"github.com/lucasb-eyer/go-colorful"
)

// Adjustment factor bounds. 1.0 leaves the image unchanged.
const (
	MinFactor     = 0.2
	MaxFactor     = 2.0
	NeutralFactor = 1.0
)

// ErrNoImage is returned when a stage is handed a nil image.
var ErrNoImage = errors.New("no image")

// Adjustments are applied in field order: brightness, contrast, saturation.
type Adjustments struct {
	Brightness float64
	Contrast   float64
	Saturation float64
}

// NeutralAdjustments leaves every pixel unchanged.
func NeutralAdjustments() Adjustments {
	return Adjustments{Brightness: NeutralFactor, Contrast: NeutralFactor, Saturation: NeutralFactor}
}

func (a Adjustments) validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"brightness", a.Brightness},
		{"contrast", a.Contrast},
		{"saturation", a.Saturation},
	} {
		if f.v < MinFactor || f.v > MaxFactor {
			return fmt.Errorf("%s %.2f out of range [%.1f, %.1f]", f.name, f.v, MinFactor, MaxFactor)
		}
	}
	return nil
}

// Adjust applies a to a full-resolution copy of img.
func Adjust(img image.Image, a Adjustments) (*image.NRGBA, error) {
	if img == nil {
		return nil, ErrNoImage
	}
	if err := a.validate(); err != nil {
		return nil, err
	}

	g := gift.New()
	if a.Brightness != NeutralFactor {
		g.Add(brightness(a.Brightness))
	}
	if a.Contrast != NeutralFactor {
		g.Add(contrast(a.Contrast))
	}
	if a.Saturation != NeutralFactor {
		g.Add(saturation(a.Saturation))
	}

	if len(g.Filters) == 0 {
		return toNRGBA(img), nil
	}
	dst := image.NewNRGBA(g.Bounds(img.Bounds()))
	g.Draw(dst, toNRGBA(img))
	return dst, nil
}

// brightness scales each channel by factor.
func brightness(factor float64) gift.Filter {
	f := float32(factor)
	return gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
		return clamp01(r0 * f), clamp01(g0 * f), clamp01(b0 * f), a0
	})
}

// ContrastStrength maps a contrast factor in [MinFactor, MaxFactor] onto the
// [-128, 128] strength scale, with 1.0 mapping to 0.
func ContrastStrength(factor float64) float64 {
	return (factor/2 - 0.5) * 256
}

// contrast remaps channels linearly around mid gray.
func contrast(factor float64) gift.Filter {
	c := ContrastStrength(factor)
	k := float32(259 * (c + 255) / (255 * (259 - c)))
	remap := func(v float32) float32 {
		return clamp01((k*(v*255-128) + 128) / 255)
	}
	return gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
		return remap(r0), remap(g0), remap(b0), a0
	})
}

// saturation scales the HSV saturation by factor.
func saturation(factor float64) gift.Filter {
	return gift.ColorFunc(func(r0, g0, b0, a0 float32) (r, g, b, a float32) {
		h, s, v := colorful.Color{R: float64(r0), G: float64(g0), B: float64(b0)}.Hsv()
		c := colorful.Hsv(h, min(s*factor, 1), v).Clamped()
		return float32(c.R), float32(c.G), float32(c.B), a0
	})
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// toNRGBA copies img onto an opaque NRGBA canvas anchored at the origin.
func toNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.Opaque, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
