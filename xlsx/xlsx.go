// Package xlsx lays out crochet patterns as styled worksheets, renders them
// to workbooks or HTML, and reads cell fills back into pixels.
package xlsx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aerissecure/crochet/grid"
	"github.com/unidoc/unioffice/schema/soo/dml"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
)

// Helper to extract the underlying font XML struct from a style ID
func GetFontProps(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Font {
	if ss.X().CellXfs == nil || int(styleID) >= len(ss.X().CellXfs.Xf) {
		return nil
	}
	xf := ss.X().CellXfs.Xf[styleID]
	if xf.FontIdAttr == nil || ss.X().Fonts == nil {
		return nil
	}
	fontIdx := int(*xf.FontIdAttr)
	if fontIdx < 0 || fontIdx >= len(ss.X().Fonts.Font) {
		return nil
	}
	return ss.X().Fonts.Font[fontIdx]
}

// Helper to extract the underlying fill XML struct from a style ID
func GetFillProps(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Fill {
	if ss.X().CellXfs == nil || int(styleID) >= len(ss.X().CellXfs.Xf) {
		return nil
	}
	xf := ss.X().CellXfs.Xf[styleID]
	if xf.FillIdAttr == nil || ss.X().Fills == nil {
		return nil
	}
	fillIdx := int(*xf.FillIdAttr)
	if fillIdx < 0 || fillIdx >= len(ss.X().Fills.Fill) {
		return nil
	}
	return ss.X().Fills.Fill[fillIdx]
}

// Helper to extract the underlying border XML struct from a style ID
func GetBorderProps(ss spreadsheet.StyleSheet, styleID uint32) *sml.CT_Border {
	if ss.X().CellXfs == nil || int(styleID) >= len(ss.X().CellXfs.Xf) {
		return nil
	}
	xf := ss.X().CellXfs.Xf[styleID]
	if xf.BorderIdAttr == nil || ss.X().Borders == nil {
		return nil
	}
	borderIdx := int(*xf.BorderIdAttr)
	if borderIdx < 0 || borderIdx >= len(ss.X().Borders.Border) {
		return nil
	}
	return ss.X().Borders.Border[borderIdx]
}

// ThemeColorToRGB resolves a theme color index (0-based) to an RGB hex string (e.g., "FFFFFF").
// It does not apply tint. Returns false if the index is invalid or the color cannot be resolved.
func ThemeColorToRGB(wb *spreadsheet.Workbook, themeIdx int) (string, bool) {
	themes := wb.Themes()
	if len(themes) == 0 || themes[0] == nil {
		return "", false
	}
	clrScheme := themes[0].ThemeElements.ClrScheme

	var clr *dml.CT_Color
	switch themeIdx {
	case 0:
		clr = clrScheme.Dk1
	case 1:
		clr = clrScheme.Lt1
	case 2:
		clr = clrScheme.Dk2
	case 3:
		clr = clrScheme.Lt2
	case 4:
		clr = clrScheme.Accent1
	case 5:
		clr = clrScheme.Accent2
	case 6:
		clr = clrScheme.Accent3
	case 7:
		clr = clrScheme.Accent4
	case 8:
		clr = clrScheme.Accent5
	case 9:
		clr = clrScheme.Accent6
	case 10:
		clr = clrScheme.Hlink
	case 11:
		clr = clrScheme.FolHlink
	default:
		return "", false
	}

	if clr == nil {
		return "", false
	}

	if clr.SrgbClr != nil && clr.SrgbClr.ValAttr != "" {
		return clr.SrgbClr.ValAttr, true
	} else if clr.SysClr != nil && clr.SysClr.LastClrAttr != nil {
		return *clr.SysClr.LastClrAttr, true
	}
	return "", false
}

// fillColor returns the raw foreground color of a cell's pattern fill. ok is
// false when the cell has no fill at all.
func fillColor(wb *spreadsheet.Workbook, cell spreadsheet.Cell) (hex string, ok bool) {
	if cell.X().SAttr == nil {
		return "", false
	}
	fill := GetFillProps(wb.StyleSheet, *cell.X().SAttr)
	if fill == nil || fill.PatternFill == nil || fill.PatternFill.FgColor == nil {
		return "", false
	}
	if fill.PatternFill.PatternTypeAttr == sml.ST_PatternTypeNone {
		return "", false
	}
	fg := fill.PatternFill.FgColor
	if fg.RgbAttr != nil {
		return *fg.RgbAttr, true
	}
	if fg.ThemeAttr != nil {
		return ThemeColorToRGB(wb, int(*fg.ThemeAttr))
	}
	return "", false
}

// normalizeColor converts an 8-digit ARGB hex (as used in XLSX) to a 6-digit
// upper-case RGB string. Other lengths are only upper-cased.
func normalizeColor(hex string) string {
	hex = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	if len(hex) == 8 {
		return hex[2:]
	}
	return hex
}

// ParseHex parses "RRGGBB", "#RRGGBB" or ARGB "AARRGGBB"; alpha is dropped.
func ParseHex(hex string) (grid.RGB, error) {
	s := normalizeColor(hex)
	if len(s) != 6 {
		return grid.RGB{}, fmt.Errorf("invalid color %q", hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return grid.RGB{}, fmt.Errorf("invalid color %q", hex)
	}
	return grid.RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
}
