package xlsx

import (
	"fmt"
	"html"
	"strings"
)

// pxPerChar approximates the pixel width of one character of column width.
const pxPerChar = 7.0

// RenderHTML renders the pattern sheet as a standalone HTML table, for
// previewing a pattern without a spreadsheet program.
func RenderHTML(s *PatternSheet) string {
	var builder strings.Builder

	// 1. Collect unique cell styles and count property values
	type propCount map[string]int
	fontFamilyCount := make(propCount)
	hAlignCount := make(propCount)
	fontColorCount := make(propCount)
	borderCount := 0

	styleMap := make(map[CellStyle]string) // CellStyle -> class name
	styleList := make([]CellStyle, 0)      // To preserve order
	byRef := make(map[string]PatternCell, len(s.Cells))

	for _, cell := range s.Cells {
		byRef[cell.Ref] = cell
		st := cell.Style
		if st.FontFamily != "" {
			fontFamilyCount[st.FontFamily]++
		}
		if st.HorizontalAlign != "" {
			hAlignCount[st.HorizontalAlign]++
		}
		if st.FontColor != "" {
			fontColorCount[st.FontColor]++
		}
		if st.Border {
			borderCount++
		}
		if _, exists := styleMap[st]; !exists {
			styleMap[st] = fmt.Sprintf("cellstyle%d", len(styleList)+1)
			styleList = append(styleList, st)
		}
	}

	mostCommon := func(m propCount) string {
		max := 0
		val := ""
		for k, v := range m {
			if v > max || (v == max && k < val) {
				max = v
				val = k
			}
		}
		if max <= len(s.Cells)/2 {
			return ""
		}
		return val
	}

	// 2. Compute defaults
	def := CellStyle{
		FontFamily:      mostCommon(fontFamilyCount),
		FontColor:       mostCommon(fontColorCount),
		HorizontalAlign: mostCommon(hAlignCount),
		Border:          borderCount > len(s.Cells)/2,
	}

	// 3. Basic CSS
	builder.WriteString("<style>\n")
	builder.WriteString(".table { border-collapse: collapse; table-layout: fixed; }\n")
	builder.WriteString(".table td { padding: 0; height: 20px; white-space:nowrap; overflow:hidden;")
	if def.FontFamily != "" {
		builder.WriteString(fmt.Sprintf(" font-family:'%s';", def.FontFamily))
	}
	if def.FontColor != "" {
		builder.WriteString(fmt.Sprintf(" color:#%s;", def.FontColor))
	}
	if def.Border {
		builder.WriteString(" border:1px solid #000;")
	}
	if def.HorizontalAlign != "" {
		builder.WriteString(fmt.Sprintf(" text-align:%s;", def.HorizontalAlign))
	}
	builder.WriteString(" }\n")

	// 4. Render cell style classes (only properties that differ from default)
	for i, style := range styleList {
		if css := styleToCSSDiff(style, def); css != "" {
			builder.WriteString(fmt.Sprintf(".cellstyle%d { %s }\n", i+1, css))
		}
	}
	builder.WriteString("</style>\n")

	cols, rows := s.Extent()
	builder.WriteString(fmt.Sprintf("<div class=\"sheet\" data-name=\"%s\">\n", html.EscapeString(s.Name)))
	builder.WriteString("<table class=\"table\">\n")
	builder.WriteString("  <colgroup>\n")
	for c := 0; c < cols; c++ {
		w, ok := s.ColWidths[c]
		if !ok {
			w = DefaultColumnWidth * 3
		}
		builder.WriteString(fmt.Sprintf("    <col style=\"width:%.0fpx;\">\n", w*pxPerChar))
	}
	builder.WriteString("  </colgroup>\n")

	table := make([][]*PatternCell, rows)
	for r := range table {
		table[r] = make([]*PatternCell, cols)
	}
	for _, cell := range byRef {
		cell := cell
		table[cell.Row][cell.Col] = &cell
	}

	for _, row := range table {
		builder.WriteString("  <tr>\n")
		for _, cell := range row {
			if cell == nil {
				builder.WriteString("    <td></td>\n")
				continue
			}
			value := ""
			if cell.Value != nil {
				value = html.EscapeString(fmt.Sprint(cell.Value))
			}
			builder.WriteString(fmt.Sprintf("    <td data-cell=\"%s\" class=\"%s\">%s</td>\n",
				cell.Ref, styleMap[cell.Style], value))
		}
		builder.WriteString("  </tr>\n")
	}
	builder.WriteString("</table>\n</div>\n")
	return builder.String()
}

// styleToCSSDiff returns only the CSS properties from s that differ from def.
func styleToCSSDiff(s, def CellStyle) string {
	var b strings.Builder
	if s.FontFamily != "" && s.FontFamily != def.FontFamily {
		b.WriteString(fmt.Sprintf("font-family:'%s';", s.FontFamily))
	}
	if s.FontColor != "" && s.FontColor != def.FontColor {
		b.WriteString(fmt.Sprintf("color:#%s;", s.FontColor))
	}
	if s.BackgroundColor != "" {
		b.WriteString(fmt.Sprintf("background-color:#%s;", s.BackgroundColor))
	}
	if s.Border != def.Border {
		if s.Border {
			b.WriteString("border:1px solid #000;")
		} else {
			b.WriteString("border:none;")
		}
	}
	if s.HorizontalAlign != "" && s.HorizontalAlign != def.HorizontalAlign {
		b.WriteString(fmt.Sprintf("text-align:%s;", s.HorizontalAlign))
	}
	return b.String()
}
