// Package grid turns an image into the column-major color grids a pattern
// sheet is laid out from.
package grid

import (
	"fmt"
	"image"
	"image/color"
)

// RGB is an opaque 8-bit color.
type RGB struct {
	R, G, B uint8
}

// FromColor drops alpha from c. Premultiplied channels are taken as-is, so
// callers should pass opaque images.
func FromColor(c color.Color) RGB {
	r, g, b, _ := c.RGBA()
	return RGB{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff}.RGBA()
}

// Hex returns the color as "RRGGBB".
func (c RGB) Hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

// Luma is the perceptual brightness in [0, 1].
func (c RGB) Luma() float64 {
	return (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255.0
}

func (c RGB) String() string {
	return fmt.Sprintf("(%d,%d,%d)", c.R, c.G, c.B)
}

// PaletteEntry is one used color and the ID the color map assigns it.
type PaletteEntry struct {
	ID    int
	Color RGB
}

// Grid holds the pixel colors and color IDs of an image. Both are indexed
// [x][y]: the outer index runs left to right, the inner top to bottom.
type Grid struct {
	Colors [][]RGB
	Map    [][]int
}

// Extract scans img column by column (x outer, y inner) and assigns each new
// color the next ID, starting at 0.
func Extract(img image.Image) *Grid {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	g := &Grid{
		Colors: make([][]RGB, w),
		Map:    make([][]int, w),
	}
	ids := make(map[RGB]int)
	for x := 0; x < w; x++ {
		g.Colors[x] = make([]RGB, h)
		g.Map[x] = make([]int, h)
		for y := 0; y < h; y++ {
			c := FromColor(img.At(b.Min.X+x, b.Min.Y+y))
			id, ok := ids[c]
			if !ok {
				id = len(ids)
				ids[c] = id
			}
			g.Colors[x][y] = c
			g.Map[x][y] = id
		}
	}
	return g
}

// FromPixels builds a Grid from [x][y] pixels, assigning IDs the same way
// Extract does.
func FromPixels(pixels [][]RGB) (*Grid, error) {
	for x := range pixels {
		if len(pixels[x]) != len(pixels[0]) {
			return nil, fmt.Errorf("ragged pixel grid: column %d has %d rows, want %d", x, len(pixels[x]), len(pixels[0]))
		}
	}
	g := &Grid{
		Colors: make([][]RGB, len(pixels)),
		Map:    make([][]int, len(pixels)),
	}
	ids := make(map[RGB]int)
	for x, col := range pixels {
		g.Colors[x] = append([]RGB(nil), col...)
		g.Map[x] = make([]int, len(col))
		for y, c := range col {
			id, ok := ids[c]
			if !ok {
				id = len(ids)
				ids[c] = id
			}
			g.Map[x][y] = id
		}
	}
	return g, nil
}

// Width is the number of columns.
func (g *Grid) Width() int { return len(g.Colors) }

// Height is the number of rows.
func (g *Grid) Height() int {
	if len(g.Colors) == 0 {
		return 0
	}
	return len(g.Colors[0])
}

// UsedPalette lists each distinct color once, in the order the scan first
// met it, with the ID the color map holds for it.
func (g *Grid) UsedPalette() []PaletteEntry {
	var palette []PaletteEntry
	seen := make(map[RGB]bool)
	for x := range g.Colors {
		for y, c := range g.Colors[x] {
			if seen[c] {
				continue
			}
			seen[c] = true
			palette = append(palette, PaletteEntry{ID: g.Map[x][y], Color: c})
		}
	}
	return palette
}

// Image renders the grid back to an opaque image.
func (g *Grid) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, g.Width(), g.Height()))
	for x := range g.Colors {
		for y, c := range g.Colors[x] {
			img.SetNRGBA(x, y, color.NRGBA{R: c.R, G: c.G, B: c.B, A: 0xff})
		}
	}
	return img
}
