package xlsx

import (
	"fmt"
	"io"
	"log"

	"github.com/aerissecure/crochet/address"
	"github.com/aerissecure/crochet/grid"
)

const (
	DefaultSheetName   = "output"
	DefaultFontFamily  = "Calibri"
	DefaultColumnWidth = 2.8 // about 20px, close to the default row height

	black = "000000"
	white = "FFFFFF"
)

// LegendHeader is the first legend row.
var LegendHeader = []string{"Color", "HEX", "Red Value", "Green Value", "Blue Value"}

// Options controls the pattern layout.
type Options struct {
	PixelNumbers     bool // write the color ID into every pixel and swatch cell
	RowNumbers       bool // row-number gutter left of the pattern
	MirrorRowNumbers bool // second gutter right of the pattern, needs RowNumbers
	LegendBuffer     int  // blank columns between pattern and legend
	ColumnWidth      float64
	SheetName        string
	Logger           *log.Logger // progress output, nil for none
}

// DefaultOptions matches the layout of a pattern exported with default
// settings.
func DefaultOptions() Options {
	return Options{
		RowNumbers:       true,
		MirrorRowNumbers: true,
		LegendBuffer:     address.DefaultLegendBuffer,
		ColumnWidth:      DefaultColumnWidth,
		SheetName:        DefaultSheetName,
	}
}

// FontColor picks black text on cells brighter than 0.7 luma, white
// otherwise.
func FontColor(c grid.RGB) string {
	if c.Luma() > 0.7 {
		return black
	}
	return white
}

// Build lays out the pattern for g.
func Build(g *grid.Grid, opts Options) (*PatternSheet, error) {
	if g == nil || g.Width() == 0 || g.Height() == 0 {
		return nil, fmt.Errorf("empty grid")
	}
	if opts.ColumnWidth <= 0 {
		opts.ColumnWidth = DefaultColumnWidth
	}
	if opts.SheetName == "" {
		opts.SheetName = DefaultSheetName
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	l := address.Layout{
		Width:            g.Width(),
		Height:           g.Height(),
		RowNumbers:       opts.RowNumbers,
		MirrorRowNumbers: opts.MirrorRowNumbers,
		LegendBuffer:     opts.LegendBuffer,
	}
	s := &PatternSheet{
		Name:      opts.SheetName,
		Layout:    l,
		ColWidths: make(map[int]float64),
	}
	add := func(col, row int, value any, style CellStyle) {
		s.Cells = append(s.Cells, PatternCell{
			Ref:   address.Cell(col, row),
			Col:   max(col, 0),
			Row:   row,
			Value: value,
			Style: style,
		})
	}

	logger.Printf("exporting pattern %dx%d", l.Width, l.Height)

	if l.RowNumbers {
		for y := 0; y < l.Height; y++ {
			add(address.Gutter, y, l.RowLabel(y), CellStyle{HorizontalAlign: "right"})
		}
	}

	for x := 0; x < l.Width; x++ {
		logger.Printf("processing column %d/%d", x+1, l.Width)
		col := l.ImageColumn(x)
		for y := 0; y < l.Height; y++ {
			c := g.Colors[x][y]
			var value any
			if opts.PixelNumbers {
				value = g.Map[x][y]
			}
			add(col, y, value, CellStyle{
				FontFamily:      DefaultFontFamily,
				FontColor:       FontColor(c),
				BackgroundColor: c.Hex(),
				Border:          true,
				HorizontalAlign: "center",
			})
		}
		s.ColWidths[col] = opts.ColumnWidth
	}

	if l.HasRightGutter() {
		col := l.RightGutterColumn()
		for y := 0; y < l.Height; y++ {
			add(col, y, l.RowLabel(y), CellStyle{HorizontalAlign: "left"})
		}
	}

	for i, title := range LegendHeader {
		add(l.LegendColumn(i), 0, title, CellStyle{})
	}
	for i, e := range g.UsedPalette() {
		row := i + 1
		var label any
		if opts.PixelNumbers {
			label = e.ID
		}
		add(l.LegendColumn(0), row, label, CellStyle{
			FontColor:       FontColor(e.Color),
			BackgroundColor: e.Color.Hex(),
		})
		add(l.LegendColumn(1), row, e.Color.Hex(), CellStyle{})
		add(l.LegendColumn(2), row, int(e.Color.R), CellStyle{})
		add(l.LegendColumn(3), row, int(e.Color.G), CellStyle{})
		add(l.LegendColumn(4), row, int(e.Color.B), CellStyle{})
	}
	return s, nil
}
