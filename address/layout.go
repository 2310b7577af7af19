package address

// DefaultLegendBuffer is the number of blank columns between the last used
// pattern column and the legend.
const DefaultLegendBuffer = 2

// Layout places a Width x Height pattern on a sheet.
//
// With RowNumbers the gutter owns column A and image column x sits at sheet
// column x+1; MirrorRowNumbers adds a second gutter right after the last
// image column. Without RowNumbers image column x sits at sheet column x.
// Sheet columns here are 0-indexed, as taken by Cell.
type Layout struct {
	Width, Height    int
	RowNumbers       bool
	MirrorRowNumbers bool
	LegendBuffer     int
}

func (l Layout) offset() int {
	if l.RowNumbers {
		return 1
	}
	return 0
}

// ImageColumn is the sheet column holding image column x.
func (l Layout) ImageColumn(x int) int {
	return x + l.offset()
}

// Image is the reference of pixel (x, y).
func (l Layout) Image(x, y int) string {
	return Cell(l.ImageColumn(x), y)
}

// ImageRect covers every pixel cell of the pattern.
func (l Layout) ImageRect() Rect {
	return Rect{
		MinX: l.ImageColumn(0),
		MinY: 0,
		MaxX: l.ImageColumn(l.Width - 1),
		MaxY: l.Height - 1,
	}
}

// LeftGutter is the reference of the row-number label for row y.
func (l Layout) LeftGutter(y int) string {
	return Cell(Gutter, y)
}

// RightGutterColumn is the sheet column of the mirrored row numbers.
func (l Layout) RightGutterColumn() int {
	return l.ImageColumn(l.Width)
}

// RightGutter is the reference of the mirrored row-number label for row y.
func (l Layout) RightGutter(y int) string {
	return Cell(l.RightGutterColumn(), y)
}

// HasRightGutter reports whether the mirrored gutter is laid out.
func (l Layout) HasRightGutter() bool {
	return l.RowNumbers && l.MirrorRowNumbers
}

// LastColumn is the right-most sheet column used by the pattern and gutters.
func (l Layout) LastColumn() int {
	if l.HasRightGutter() {
		return l.RightGutterColumn()
	}
	return l.ImageColumn(l.Width - 1)
}

// LegendColumn is the sheet column of legend field i (0 is the swatch).
func (l Layout) LegendColumn(i int) int {
	buffer := l.LegendBuffer
	if buffer < 0 {
		buffer = 0
	}
	return l.LastColumn() + 1 + buffer + i
}

// Legend is the reference of legend field i on legend row (0 is the header).
func (l Layout) Legend(i, row int) string {
	return Cell(l.LegendColumn(i), row)
}

// RowLabel is the descending row number shown in the gutters: the top row is
// labelled Height, the bottom row 1.
func (l Layout) RowLabel(y int) int {
	return l.Height - y
}
