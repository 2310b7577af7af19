package xlsx

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/unidoc/unioffice/schema/soo/sml"
	"github.com/unidoc/unioffice/spreadsheet"
	"github.com/unidoc/unioffice/spreadsheet/reference"
)

// ReadSheetFile parses the first worksheet of the workbook at path.
func ReadSheetFile(path string) (*PatternSheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	return ReadSheet(f, info.Size())
}

// ReadSheet parses the first worksheet of an existing pattern workbook back
// into a PatternSheet, so it can be previewed with RenderHTML. Only the
// styles a pattern uses are recovered; the layout is left zero.
func ReadSheet(r io.ReaderAt, size int64) (*PatternSheet, error) {
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

	s := &PatternSheet{
		Name:      sheet.Name(),
		ColWidths: make(map[int]float64),
	}

	maxCol := -1
	for _, row := range sheet.Rows() {
		rowIdx := int(row.RowNumber()) - 1
		for _, cell := range row.Cells() {
			colName, err := cell.Column()
			if err != nil {
				continue
			}
			colIdx := int(reference.ColumnToIndex(colName))
			maxCol = max(maxCol, colIdx)

			pc := PatternCell{
				Ref: fmt.Sprintf("%s%d", colName, rowIdx+1),
				Col: colIdx,
				Row: rowIdx,
			}
			if v := cell.GetFormattedValue(); v != "" {
				if n, err := strconv.Atoi(v); err == nil && cell.IsNumber() {
					pc.Value = n
				} else {
					pc.Value = v
				}
			}
			if cell.X().SAttr != nil {
				pc.Style = readStyle(wb, *cell.X().SAttr)
			}
			s.Cells = append(s.Cells, pc)
		}
	}

	// Column metadata
	for c := 0; c <= maxCol; c++ {
		col := sheet.Column(uint32(c + 1))
		if col.X().CustomWidthAttr != nil && *col.X().CustomWidthAttr && col.X().WidthAttr != nil {
			s.ColWidths[c] = *col.X().WidthAttr
		}
	}
	return s, nil
}

func readStyle(wb *spreadsheet.Workbook, styleID uint32) CellStyle {
	var st CellStyle
	ss := wb.StyleSheet

	font := GetFontProps(ss, styleID)
	if font != nil && len(font.Name) > 0 {
		st.FontFamily = font.Name[0].ValAttr
	}
	if font != nil && len(font.Color) > 0 && font.Color[0].RgbAttr != nil {
		st.FontColor = normalizeColor(*font.Color[0].RgbAttr)
	}

	fill := GetFillProps(ss, styleID)
	if fill != nil && fill.PatternFill != nil && fill.PatternFill.FgColor != nil &&
		fill.PatternFill.PatternTypeAttr != sml.ST_PatternTypeNone {
		fg := fill.PatternFill.FgColor
		if fg.RgbAttr != nil {
			st.BackgroundColor = normalizeColor(*fg.RgbAttr)
		} else if fg.ThemeAttr != nil {
			if hex, ok := ThemeColorToRGB(wb, int(*fg.ThemeAttr)); ok {
				st.BackgroundColor = normalizeColor(hex)
			}
		}
	}

	border := GetBorderProps(ss, styleID)
	if border != nil && border.Left != nil && border.Left.StyleAttr != sml.ST_BorderStyleUnset && border.Left.StyleAttr != sml.ST_BorderStyleNone {
		st.Border = true
	}

	xfs := ss.X().CellXfs
	if xfs != nil && int(styleID) < len(xfs.Xf) && xfs.Xf[styleID].Alignment != nil {
		switch h := xfs.Xf[styleID].Alignment.HorizontalAttr.String(); h {
		case "left", "center", "right":
			st.HorizontalAlign = h
		}
	}
	return st
}
