package xlsx

import (
	"fmt"

	"github.com/aerissecure/crochet/address"
)

// Intermediate representation of a pattern sheet. Renderers turn it into a
// workbook or an HTML preview; it is never modified once built.

// All colours are 6-character RGB hex strings without the leading "#".

// CellStyle captures the styles a pattern cell can carry.
type CellStyle struct {
	FontFamily      string // e.g. "Calibri"
	FontColor       string // "RRGGBB"
	BackgroundColor string // "RRGGBB", empty for no fill
	Border          bool   // thin black rule on all four sides
	HorizontalAlign string // left|center|right
}

func (s CellStyle) String() string {
	return fmt.Sprintf("FontFamily: %s, FontColor: %s, BackgroundColor: %s, Border: %t, HorizontalAlign: %s", s.FontFamily, s.FontColor, s.BackgroundColor, s.Border, s.HorizontalAlign)
}

// PatternCell is a single populated cell.
type PatternCell struct {
	Ref   string // e.g. "B1"
	Col   int    // 0-based sheet column
	Row   int    // 0-based sheet row
	Value any    // nil, int or string
	Style CellStyle
}

func (c PatternCell) String() string {
	return fmt.Sprintf("Ref: %s, Value: %v, Style: %s", c.Ref, c.Value, c.Style.String())
}

// PatternSheet is a fully laid-out pattern worksheet.
type PatternSheet struct {
	Name      string
	Layout    address.Layout
	ColWidths map[int]float64 // 0-based sheet column -> width in characters
	Cells     []PatternCell   // in the order they were laid out
}

func (s PatternSheet) String() string {
	return fmt.Sprintf("Name: %s, Size: %dx%d, ColWidths: %d, Cells: %d", s.Name, s.Layout.Width, s.Layout.Height, len(s.ColWidths), len(s.Cells))
}

// Extent returns the number of sheet columns and rows touched by the cells.
func (s PatternSheet) Extent() (cols, rows int) {
	for _, c := range s.Cells {
		cols = max(cols, c.Col+1)
		rows = max(rows, c.Row+1)
	}
	return cols, rows
}

// Lookup returns the cell at ref.
func (s PatternSheet) Lookup(ref string) (PatternCell, bool) {
	for _, c := range s.Cells {
		if c.Ref == ref {
			return c, true
		}
	}
	return PatternCell{}, false
}
