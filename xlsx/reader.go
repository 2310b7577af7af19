package xlsx

import (
	"fmt"
	"image"
	"io"
	"os"

	"github.com/aerissecure/crochet/address"
	"github.com/aerissecure/crochet/grid"
	"github.com/unidoc/unioffice/spreadsheet"
)

// MaxRegionSize bounds each side of a region read back as pixels. It matches
// the largest pattern that can be exported.
const MaxRegionSize = 500

// DefaultFill is used for cells without a readable fill.
var DefaultFill = grid.RGB{R: 0xff, G: 0xff, B: 0xff}

// DataError records a cell whose fill could not be parsed. The cell is read
// as DefaultFill.
type DataError struct {
	Ref   string
	Value string
}

func (e DataError) Error() string {
	return fmt.Sprintf("cell %s: unparseable fill color %q", e.Ref, e.Value)
}

// Region is a rectangle of cell fills read back as pixels.
type Region struct {
	Rect      address.Rect
	Pixels    [][]grid.RGB // [x][y], like grid.Grid
	Defaulted []DataError
}

// Width is the region width in cells.
func (r *Region) Width() int { return r.Rect.Width() }

// Height is the region height in cells.
func (r *Region) Height() int { return r.Rect.Height() }

// Grid assigns color IDs to the pixels.
func (r *Region) Grid() (*grid.Grid, error) {
	return grid.FromPixels(r.Pixels)
}

// Image renders the region as an opaque image.
func (r *Region) Image() *image.NRGBA {
	g, err := r.Grid()
	if err != nil {
		// Pixels is always rectangular when built by ReadRegion
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	return g.Image()
}

// ReadRegionFile reads the region between corners a and b of the first
// worksheet in the workbook at path.
func ReadRegionFile(path, a, b string) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return ReadRegion(f, info.Size(), a, b)
}

// ReadRegion reads the fills of the rectangle between corners a and b, given
// in either order, from the first worksheet.
func ReadRegion(r io.ReaderAt, size int64, a, b string) (*Region, error) {
	rect, err := address.Region(a, b)
	if err != nil {
		return nil, err
	}
	if rect.Width() > MaxRegionSize || rect.Height() > MaxRegionSize {
		return nil, fmt.Errorf("region %s is %dx%d, at most %dx%d cells can be read", rect, rect.Width(), rect.Height(), MaxRegionSize, MaxRegionSize)
	}

	wb, err := spreadsheet.Read(r, size)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	sheets := wb.Sheets()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	sheet := sheets[0]

	region := &Region{
		Rect:   rect,
		Pixels: make([][]grid.RGB, rect.Width()),
	}
	for x := range region.Pixels {
		region.Pixels[x] = make([]grid.RGB, rect.Height())
		for y := range region.Pixels[x] {
			region.Pixels[x][y] = DefaultFill
		}
	}

	for _, row := range sheet.Rows() {
		rowIdx := int(row.RowNumber()) - 1
		if rowIdx < rect.MinY || rowIdx > rect.MaxY {
			continue
		}
		for _, cell := range row.Cells() {
			colName, err := cell.Column()
			if err != nil {
				continue
			}
			col, err := address.ColumnNumber(colName)
			if err != nil {
				continue
			}
			colIdx := col - 1
			if colIdx < rect.MinX || colIdx > rect.MaxX {
				continue
			}

			raw, ok := fillColor(wb, cell)
			if !ok {
				continue
			}
			c, err := ParseHex(raw)
			if err != nil {
				region.Defaulted = append(region.Defaulted, DataError{
					Ref:   address.Cell(colIdx, rowIdx),
					Value: raw,
				})
				continue
			}
			region.Pixels[colIdx-rect.MinX][rowIdx-rect.MinY] = c
		}
	}
	return region, nil
}
