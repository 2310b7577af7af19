package transform

import (
	"fmt"
	"image"

	"github.com/nfnt/resize"
)

// Stitch grid bounds, inclusive.
const (
	MinDimension = 1
	MaxDimension = 500
)

// Pixelate resamples img to exactly width x height with nearest-neighbour
// sampling. The aspect ratio is not preserved.
func Pixelate(img image.Image, width, height int) (*image.NRGBA, error) {
	if img == nil {
		return nil, ErrNoImage
	}
	if width < MinDimension || width > MaxDimension {
		return nil, fmt.Errorf("width %d out of range [%d, %d]", width, MinDimension, MaxDimension)
	}
	if height < MinDimension || height > MaxDimension {
		return nil, fmt.Errorf("height %d out of range [%d, %d]", height, MinDimension, MaxDimension)
	}

	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return toNRGBA(img), nil
	}
	resized := resize.Resize(uint(width), uint(height), toNRGBA(img), resize.NearestNeighbor)
	return toNRGBA(resized), nil
}
