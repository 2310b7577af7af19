package transform

import (
	"fmt"
	"image"
	"image/color"
	"slices"
	"strings"

	"github.com/aerissecure/crochet/grid"
	"github.com/cenkalti/dominantcolor"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"
	"github.com/soniakeys/quant/median"
)

// Palette size bounds, inclusive.
const (
	MinColors = 1
	MaxColors = 32
)

// maxSamples caps the kmeans dataset.
const maxSamples = 12000

// Method selects how the palette is chosen.
type Method int

const (
	MethodMedianCut Method = iota
	MethodKMeans
	MethodDominant
)

func (m Method) String() string {
	switch m {
	case MethodKMeans:
		return "kmeans"
	case MethodDominant:
		return "dominant"
	default:
		return "median"
	}
}

// ParseMethod is the inverse of Method.String.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "median", "mediancut":
		return MethodMedianCut, nil
	case "kmeans":
		return MethodKMeans, nil
	case "dominant", "dominantcolor":
		return MethodDominant, nil
	}
	return 0, fmt.Errorf("unknown palette method %q", s)
}

// Quantize maps every pixel of img to its nearest entry in a palette of at
// most k colors. There is no dithering.
func Quantize(img image.Image, k int, m Method) (*image.NRGBA, error) {
	palette, err := Palette(img, k, m)
	if err != nil {
		return nil, err
	}
	src := toNRGBA(img)
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	nearest := make(map[grid.RGB]color.NRGBA)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := grid.FromColor(src.NRGBAAt(x, y))
			out, ok := nearest[c]
			if !ok {
				out = color.NRGBAModel.Convert(palette[palette.Index(c)]).(color.NRGBA)
				out.A = 0xff
				nearest[c] = out
			}
			dst.SetNRGBA(x, y, out)
		}
	}
	return dst, nil
}

// Palette selects at most k colors representing img.
func Palette(img image.Image, k int, m Method) (color.Palette, error) {
	if img == nil {
		return nil, ErrNoImage
	}
	if k < MinColors || k > MaxColors {
		return nil, fmt.Errorf("color count %d out of range [%d, %d]", k, MinColors, MaxColors)
	}
	pixels := collectPixels(img)
	if len(pixels) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	if distinct := distinctColors(pixels); len(distinct) <= k {
		return toPalette(distinct), nil
	}

	var p []grid.RGB
	switch m {
	case MethodKMeans:
		p = kmeansPalette(pixels, k)
	case MethodDominant:
		p = dominantPalette(img, k)
	}
	if len(p) == 0 || len(p) > k {
		p = medianPalette(img, k)
	}
	if len(p) == 0 || len(p) > k {
		return nil, fmt.Errorf("no palette of %d colors found", k)
	}
	return toPalette(p), nil
}

func collectPixels(img image.Image) []grid.RGB {
	b := img.Bounds()
	pixels := make([]grid.RGB, 0, b.Dx()*b.Dy())
	for x := b.Min.X; x < b.Max.X; x++ {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			pixels = append(pixels, grid.FromColor(img.At(x, y)))
		}
	}
	return pixels
}

func distinctColors(pixels []grid.RGB) []grid.RGB {
	seen := make(map[grid.RGB]bool)
	var out []grid.RGB
	for _, c := range pixels {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out
}

func toPalette(colors []grid.RGB) color.Palette {
	p := make(color.Palette, len(colors))
	for i, c := range colors {
		p[i] = color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}
	}
	return p
}

// medianPalette selects k colors by median cut: the box with the widest
// channel range is split at its median until there are k boxes.
func medianPalette(img image.Image, k int) []grid.RGB {
	p := median.Quantizer(k).Quantize(make(color.Palette, 0, k), img)
	out := make([]grid.RGB, 0, len(p))
	for _, c := range p {
		out = append(out, grid.FromColor(c))
	}
	return out
}

func kmeansPalette(pixels []grid.RGB, k int) []grid.RGB {
	step := 1
	if len(pixels) > maxSamples {
		step = len(pixels)/maxSamples + 1
	}
	dataset := make(clusters.Observations, 0, min(len(pixels), maxSamples))
	for i := 0; i < len(pixels); i += step {
		c := pixels[i]
		dataset = append(dataset, clusters.Coordinates{
			float64(c.R) / 255.0,
			float64(c.G) / 255.0,
			float64(c.B) / 255.0,
		})
	}
	if len(dataset) < k {
		return nil
	}

	cc, err := kmeans.New().Partition(dataset, k)
	if err != nil {
		return nil
	}
	// most populated clusters first
	slices.SortStableFunc(cc, func(a, b clusters.Cluster) int {
		return len(b.Observations) - len(a.Observations)
	})

	out := make([]grid.RGB, 0, len(cc))
	for _, c := range cc {
		if len(c.Observations) == 0 || len(c.Center) < 3 {
			continue
		}
		col := colorful.Color{R: c.Center[0], G: c.Center[1], B: c.Center[2]}.Clamped()
		r, g, b := col.RGB255()
		out = append(out, grid.RGB{R: r, G: g, B: b})
	}
	return out
}

func dominantPalette(img image.Image, k int) []grid.RGB {
	found := dominantcolor.FindWeight(img, k)
	out := make([]grid.RGB, 0, len(found))
	for _, c := range found {
		out = append(out, grid.RGB{R: c.RGBA.R, G: c.RGBA.G, B: c.RGBA.B})
	}
	return out
}
