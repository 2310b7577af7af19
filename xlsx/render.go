package xlsx

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/aerissecure/crochet/address"
	"github.com/unidoc/unioffice/color"
	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/xuri/excelize/v2"
)

// Renderer writes a complete workbook for a pattern sheet.
type Renderer interface {
	Render(w io.Writer, s *PatternSheet) error
}

// Backend names a Renderer.
type Backend string

const (
	BackendUnioffice Backend = "unioffice"
	BackendExcelize  Backend = "excelize"
)

// NewRenderer returns the renderer for b. An empty backend is unioffice.
func NewRenderer(b Backend) (Renderer, error) {
	switch Backend(strings.ToLower(string(b))) {
	case "", BackendUnioffice:
		return Unioffice{}, nil
	case BackendExcelize:
		return Excelize{}, nil
	}
	return nil, fmt.Errorf("unknown sheet backend %q", b)
}

// Unioffice renders with github.com/unidoc/unioffice.
type Unioffice struct{}

func (Unioffice) Render(w io.Writer, s *PatternSheet) error {
	wb := spreadsheet.New()
	defer wb.Close()

	sheet := wb.AddSheet()
	sheet.SetName(s.Name)

	// <col> elements must be in ascending order
	for _, col := range slices.Sorted(maps.Keys(s.ColWidths)) {
		width := s.ColWidths[col]
		custom := true
		c := sheet.Column(uint32(col + 1)) // 1-based
		c.X().WidthAttr = &width
		c.X().CustomWidthAttr = &custom
	}

	styles := make(map[CellStyle]spreadsheet.CellStyle)
	for _, pc := range s.Cells {
		cell := sheet.Cell(pc.Ref)
		switch v := pc.Value.(type) {
		case int:
			cell.SetNumber(float64(v))
		case string:
			cell.SetString(v)
		}
		if pc.Style == (CellStyle{}) {
			continue
		}
		cs, ok := styles[pc.Style]
		if !ok {
			var err error
			if cs, err = uniofficeStyle(wb, pc.Style); err != nil {
				return fmt.Errorf("cell %s: %w", pc.Ref, err)
			}
			styles[pc.Style] = cs
		}
		cell.SetStyle(cs)
	}

	return wb.Save(w)
}

func uniofficeColor(hex string) (color.Color, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return color.Color{}, err
	}
	return color.RGB(c.R, c.G, c.B), nil
}

func uniofficeStyle(wb *spreadsheet.Workbook, st CellStyle) (spreadsheet.CellStyle, error) {
	cs := wb.StyleSheet.AddCellStyle()

	if st.BackgroundColor != "" {
		bg, err := uniofficeColor(st.BackgroundColor)
		if err != nil {
			return cs, err
		}
		fill := wb.StyleSheet.Fills().AddFill()
		pf := fill.SetPatternFill()
		pf.SetPattern(sml.ST_PatternTypeSolid)
		pf.SetFgColor(bg)
		cs.SetFill(fill)
	}

	if st.Border {
		b := wb.StyleSheet.AddBorder()
		b.SetLeft(sml.ST_BorderStyleThin, color.Black)
		b.SetRight(sml.ST_BorderStyleThin, color.Black)
		b.SetTop(sml.ST_BorderStyleThin, color.Black)
		b.SetBottom(sml.ST_BorderStyleThin, color.Black)
		cs.SetBorder(b)
	}

	if st.FontFamily != "" || st.FontColor != "" {
		f := wb.StyleSheet.AddFont()
		if st.FontFamily != "" {
			f.SetName(st.FontFamily)
		}
		if st.FontColor != "" {
			fc, err := uniofficeColor(st.FontColor)
			if err != nil {
				return cs, err
			}
			f.SetColor(fc)
		}
		cs.SetFont(f)
	}

	switch st.HorizontalAlign {
	case "left":
		cs.SetHorizontalAlignment(sml.ST_HorizontalAlignmentLeft)
	case "center":
		cs.SetHorizontalAlignment(sml.ST_HorizontalAlignmentCenter)
	case "right":
		cs.SetHorizontalAlignment(sml.ST_HorizontalAlignmentRight)
	}
	return cs, nil
}

// Excelize renders with github.com/xuri/excelize/v2.
type Excelize struct{}

func (Excelize) Render(w io.Writer, s *PatternSheet) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", s.Name); err != nil {
		return err
	}

	for _, col := range slices.Sorted(maps.Keys(s.ColWidths)) {
		name := address.Column(col + 1)
		if err := f.SetColWidth(s.Name, name, name, s.ColWidths[col]); err != nil {
			return err
		}
	}

	styles := make(map[CellStyle]int)
	for _, pc := range s.Cells {
		if pc.Value != nil {
			if err := f.SetCellValue(s.Name, pc.Ref, pc.Value); err != nil {
				return err
			}
		}
		if pc.Style == (CellStyle{}) {
			continue
		}
		id, ok := styles[pc.Style]
		if !ok {
			var err error
			if id, err = f.NewStyle(excelizeStyle(pc.Style)); err != nil {
				return fmt.Errorf("cell %s: %w", pc.Ref, err)
			}
			styles[pc.Style] = id
		}
		if err := f.SetCellStyle(s.Name, pc.Ref, pc.Ref, id); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func excelizeStyle(st CellStyle) *excelize.Style {
	style := &excelize.Style{}
	if st.BackgroundColor != "" {
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{"#" + st.BackgroundColor}, Pattern: 1}
	}
	if st.Border {
		for _, side := range []string{"left", "right", "top", "bottom"} {
			style.Border = append(style.Border, excelize.Border{Type: side, Color: "#" + black, Style: 1})
		}
	}
	if st.FontFamily != "" || st.FontColor != "" {
		style.Font = &excelize.Font{Family: st.FontFamily}
		if st.FontColor != "" {
			style.Font.Color = "#" + st.FontColor
		}
	}
	if st.HorizontalAlign != "" {
		style.Alignment = &excelize.Alignment{Horizontal: st.HorizontalAlign}
	}
	return style
}
