package xlsx

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/aerissecure/crochet/grid"
	"github.com/unidoc/unioffice/spreadsheet"
)

var (
	red   = grid.RGB{R: 255}
	green = grid.RGB{G: 255}
	blue  = grid.RGB{B: 255}
	wht   = grid.RGB{R: 255, G: 255, B: 255}
)

// testGrid is 2x2: red, green on top; blue, white below.
func testGrid(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.FromPixels([][]grid.RGB{
		{red, blue},
		{green, wht},
	})
	if err != nil {
		t.Fatalf("FromPixels: %v", err)
	}
	return g
}

func TestFontColor(t *testing.T) {
	tests := []struct {
		c    grid.RGB
		want string
	}{
		{grid.RGB{R: 255, G: 255, B: 255}, "000000"},
		{grid.RGB{}, "FFFFFF"},
		{grid.RGB{R: 176, G: 176, B: 176}, "FFFFFF"},
		{grid.RGB{R: 178, G: 178, B: 178}, "FFFFFF"},
		{grid.RGB{R: 179, G: 179, B: 179}, "000000"},
		{grid.RGB{R: 182, G: 182, B: 182}, "000000"},
	}
	for _, tt := range tests {
		if got := FontColor(tt.c); got != tt.want {
			t.Errorf("FontColor(%v) = %s, want %s", tt.c, got, tt.want)
		}
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want grid.RGB
	}{
		{"FF0000", red},
		{"#00ff00", green},
		{"FF0000FF", blue},
		{" ffffff ", wht},
	}
	for _, tt := range tests {
		got, err := ParseHex(tt.in)
		if err != nil {
			t.Errorf("ParseHex(%q): %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
	for _, bad := range []string{"", "FFF", "GG0000", "FF00000"} {
		if _, err := ParseHex(bad); err == nil {
			t.Errorf("ParseHex(%q) succeeded", bad)
		}
	}
}

func TestBuildLayout(t *testing.T) {
	opts := DefaultOptions()
	opts.PixelNumbers = true
	s, err := Build(testGrid(t), opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := map[string]any{
		"A1": 2, "A2": 1, // gutter counts down
		"B1": 0, "B2": 1, "C1": 2, "C2": 3, // column-major IDs
		"D1": 2, "D2": 1, // mirrored gutter
		"G1": "Color", "H1": "HEX", "K1": "Blue Value",
		"G2": 0, "H2": "FF0000", "I2": 255, "J2": 0, "K2": 0,
		"H5": "FFFFFF",
	}
	for ref, v := range want {
		c, ok := s.Lookup(ref)
		if !ok {
			t.Errorf("%s missing", ref)
			continue
		}
		if c.Value != v {
			t.Errorf("%s = %v, want %v", ref, c.Value, v)
		}
	}

	px, _ := s.Lookup("B1")
	if px.Style.BackgroundColor != "FF0000" || !px.Style.Border || px.Style.FontFamily != DefaultFontFamily {
		t.Errorf("B1 style = %s", px.Style)
	}
	if px.Style.FontColor != "FFFFFF" {
		t.Errorf("B1 font color = %s, want FFFFFF", px.Style.FontColor)
	}
	if g, _ := s.Lookup("A1"); g.Style.HorizontalAlign != "right" {
		t.Errorf("left gutter align = %q", g.Style.HorizontalAlign)
	}
	if g, _ := s.Lookup("D1"); g.Style.HorizontalAlign != "left" {
		t.Errorf("right gutter align = %q", g.Style.HorizontalAlign)
	}
	if _, ok := s.Lookup("G6"); ok {
		t.Error("legend has more rows than colors")
	}
	if len(s.ColWidths) != 2 || s.ColWidths[1] != DefaultColumnWidth {
		t.Errorf("ColWidths = %v", s.ColWidths)
	}
	if cols, rows := s.Extent(); cols != 11 || rows != 5 {
		t.Errorf("Extent() = %d, %d; want 11, 5", cols, rows)
	}
}

func TestBuildWithoutNumbers(t *testing.T) {
	opts := DefaultOptions()
	opts.RowNumbers = false
	s, err := Build(testGrid(t), opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	c, ok := s.Lookup("A1")
	if !ok || c.Style.BackgroundColor != "FF0000" {
		t.Fatalf("A1 = %v, want red pixel", c)
	}
	if c.Value != nil {
		t.Errorf("A1 value = %v, want none", c.Value)
	}
	// B is the last image column, C and D are blank
	if h, _ := s.Lookup("E1"); h.Value != "Color" {
		t.Errorf("E1 = %v, want legend header", h.Value)
	}
	if sw, _ := s.Lookup("E2"); sw.Value != nil || sw.Style.BackgroundColor != "FF0000" {
		t.Errorf("E2 = %v", sw)
	}
}

func TestBuildEmpty(t *testing.T) {
	if _, err := Build(nil, DefaultOptions()); err == nil {
		t.Error("Build(nil) succeeded")
	}
}

func TestRoundTrip(t *testing.T) {
	for _, b := range []Backend{BackendUnioffice, BackendExcelize} {
		t.Run(string(b), func(t *testing.T) {
			r, err := NewRenderer(b)
			if err != nil {
				t.Fatalf("NewRenderer: %v", err)
			}
			s, err := Build(testGrid(t), DefaultOptions())
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			var buf bytes.Buffer
			if err := r.Render(&buf, s); err != nil {
				t.Fatalf("Render: %v", err)
			}

			region, err := ReadRegion(bytes.NewReader(buf.Bytes()), int64(buf.Len()), "C2", "B1")
			if err != nil {
				t.Fatalf("ReadRegion: %v", err)
			}
			if region.Width() != 2 || region.Height() != 2 {
				t.Fatalf("region is %dx%d", region.Width(), region.Height())
			}
			want := [][]grid.RGB{{red, blue}, {green, wht}}
			for x := range want {
				for y := range want[x] {
					if got := region.Pixels[x][y]; got != want[x][y] {
						t.Errorf("pixel (%d, %d) = %v, want %v", x, y, got, want[x][y])
					}
				}
			}
			if len(region.Defaulted) != 0 {
				t.Errorf("Defaulted = %v", region.Defaulted)
			}
		})
	}
}

func TestReadRegionUnfilled(t *testing.T) {
	s, err := Build(testGrid(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var buf bytes.Buffer
	if err := (Unioffice{}).Render(&buf, s); err != nil {
		t.Fatalf("Render: %v", err)
	}
	// gutter and blank columns have no fill and read as white
	region, err := ReadRegion(bytes.NewReader(buf.Bytes()), int64(buf.Len()), "A1", "A2")
	if err != nil {
		t.Fatalf("ReadRegion: %v", err)
	}
	for y := 0; y < 2; y++ {
		if region.Pixels[0][y] != DefaultFill {
			t.Errorf("pixel (0, %d) = %v, want %v", y, region.Pixels[0][y], DefaultFill)
		}
	}
	img := region.Image()
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 2 {
		t.Errorf("Image bounds = %v", img.Bounds())
	}
}

func TestReadRegionBadReference(t *testing.T) {
	if _, err := ReadRegion(bytes.NewReader(nil), 0, "1A", "B2"); err == nil {
		t.Error("ReadRegion accepted a bad reference")
	}
}

func TestNewRendererUnknown(t *testing.T) {
	if _, err := NewRenderer("ods"); err == nil {
		t.Error("NewRenderer accepted an unknown backend")
	}
	if r, err := NewRenderer(""); err != nil || r == nil {
		t.Errorf("NewRenderer(\"\") = %v, %v", r, err)
	}
}

func TestSave(t *testing.T) {
	s, err := Build(testGrid(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dir := filepath.Join(t.TempDir(), "out")
	path, err := Save(s, nil, dir, "output.xlsx")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if path != filepath.Join(dir, "output.xlsx") {
		t.Errorf("path = %s", path)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("dir has %d entries, want only the workbook", len(entries))
	}

	region, err := ReadRegionFile(path, "B1", "B1")
	if err != nil {
		t.Fatalf("ReadRegionFile: %v", err)
	}
	if region.Pixels[0][0] != red {
		t.Errorf("B1 = %v, want red", region.Pixels[0][0])
	}
}

type failingRenderer struct{}

var errRender = errors.New("render failed")

func (failingRenderer) Render(w io.Writer, s *PatternSheet) error {
	w.Write([]byte("partial"))
	return errRender
}

func TestSaveFailure(t *testing.T) {
	s, err := Build(testGrid(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	dir := t.TempDir()
	_, err = Save(s, failingRenderer{}, dir, "output.xlsx")
	var se *SaveError
	if !errors.As(err, &se) {
		t.Fatalf("Save error = %v, want *SaveError", err)
	}
	if !errors.Is(err, errRender) {
		t.Errorf("Save error does not wrap the render error")
	}
	if !strings.Contains(err.Error(), "another program") {
		t.Errorf("Save error = %q", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("temporary file left behind: %v", entries)
	}
}

func TestRenderHTML(t *testing.T) {
	opts := DefaultOptions()
	opts.PixelNumbers = true
	s, err := Build(testGrid(t), opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	out := RenderHTML(s)
	for _, want := range []string{
		"background-color:#FF0000;",
		"background-color:#0000FF;",
		`data-cell="B1"`,
		`data-cell="K5"`,
		">Blue Value</td>",
		`data-name="output"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML missing %q", want)
		}
	}
	if n := strings.Count(out, "<tr>"); n != 5 {
		t.Errorf("HTML has %d rows, want 5", n)
	}
}

func TestReadSheet(t *testing.T) {
	opts := DefaultOptions()
	opts.PixelNumbers = true
	s, err := Build(testGrid(t), opts)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var buf bytes.Buffer
	if err := (Unioffice{}).Render(&buf, s); err != nil {
		t.Fatalf("Render: %v", err)
	}

	got, err := ReadSheet(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("ReadSheet: %v", err)
	}
	if got.Name != DefaultSheetName {
		t.Errorf("Name = %q", got.Name)
	}
	for _, ref := range []string{"A1", "B1", "C2", "D1", "G2", "H2", "I2"} {
		want, _ := s.Lookup(ref)
		c, ok := got.Lookup(ref)
		if !ok {
			t.Errorf("%s missing", ref)
			continue
		}
		if c.Value != want.Value {
			t.Errorf("%s value = %v, want %v", ref, c.Value, want.Value)
		}
		if c.Style != want.Style {
			t.Errorf("%s style = %s, want %s", ref, c.Style, want.Style)
		}
	}
	if got.ColWidths[1] != DefaultColumnWidth || got.ColWidths[2] != DefaultColumnWidth {
		t.Errorf("ColWidths = %v", got.ColWidths)
	}
	if !strings.Contains(RenderHTML(got), "background-color:#00FF00;") {
		t.Error("preview of parsed sheet missing green fill")
	}
}

// zipEntry returns the contents of name inside the xlsx in data.
func zipEntry(t *testing.T, data []byte, name string) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", name, err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		return b
	}
	t.Fatalf("%s not found in xlsx", name)
	return nil
}

// rewriteEntry returns a copy of the xlsx in data with name passed through fn.
func rewriteEntry(t *testing.T, data []byte, name string, fn func([]byte) []byte) []byte {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	var out bytes.Buffer
	zw := zip.NewWriter(&out)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open %s: %v", f.Name, err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read %s: %v", f.Name, err)
		}
		if f.Name == name {
			b = fn(b)
		}
		w, err := zw.Create(f.Name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(b); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return out.Bytes()
}

func TestColumnsAscending(t *testing.T) {
	pixels := make([][]grid.RGB, 20)
	for x := range pixels {
		pixels[x] = []grid.RGB{{R: uint8(x * 10)}, {G: uint8(x * 10)}}
	}
	g, err := grid.FromPixels(pixels)
	if err != nil {
		t.Fatal(err)
	}
	s, err := Build(g, DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	colMin := regexp.MustCompile(`<(?:\w+:)?col\b[^>]*\bmin="(\d+)"`)
	for _, b := range []Backend{BackendUnioffice, BackendExcelize} {
		r, _ := NewRenderer(b)
		for run := 0; run < 3; run++ {
			var buf bytes.Buffer
			if err := r.Render(&buf, s); err != nil {
				t.Fatalf("%s Render: %v", b, err)
			}
			xml := zipEntry(t, buf.Bytes(), "xl/worksheets/sheet1.xml")
			matches := colMin.FindAllSubmatch(xml, -1)
			if len(matches) == 0 {
				t.Fatalf("%s: no <col> elements written", b)
			}
			last := 0
			for _, m := range matches {
				n, _ := strconv.Atoi(string(m[1]))
				if n <= last {
					t.Errorf("%s: <col min=%d> after min=%d", b, n, last)
				}
				last = n
			}
		}
	}
}

func TestReadRegionTooLarge(t *testing.T) {
	s, err := Build(testGrid(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var buf bytes.Buffer
	if err := (Unioffice{}).Render(&buf, s); err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, corners := range [][2]string{{"A1", "A1048576"}, {"A1", "XFD1"}, {"A1", "SG501"}} {
		if _, err := ReadRegion(bytes.NewReader(buf.Bytes()), int64(buf.Len()), corners[0], corners[1]); err == nil {
			t.Errorf("ReadRegion(%s, %s) accepted an oversized region", corners[0], corners[1])
		}
	}
	if _, err := ReadRegion(bytes.NewReader(buf.Bytes()), int64(buf.Len()), "A1", "SF500"); err != nil {
		t.Errorf("ReadRegion(A1, SF500): %v", err)
	}
}

func TestReadRemovesTempDirs(t *testing.T) {
	s, err := Build(testGrid(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var buf bytes.Buffer
	if err := (Unioffice{}).Render(&buf, s); err != nil {
		t.Fatalf("Render: %v", err)
	}

	tmp := t.TempDir()
	t.Setenv("TMPDIR", tmp)
	for i := 0; i < 3; i++ {
		if _, err := ReadRegion(bytes.NewReader(buf.Bytes()), int64(buf.Len()), "B1", "C2"); err != nil {
			t.Fatalf("ReadRegion: %v", err)
		}
		if _, err := ReadSheet(bytes.NewReader(buf.Bytes()), int64(buf.Len())); err != nil {
			t.Fatalf("ReadSheet: %v", err)
		}
		if err := (Unioffice{}).Render(io.Discard, s); err != nil {
			t.Fatalf("Render: %v", err)
		}
	}
	entries, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("workbook temp files left behind: %d entries", len(entries))
	}
}

func TestNormalizeColorUpperCase(t *testing.T) {
	for in, want := range map[string]string{
		"ffff0000": "FF0000",
		"ff00ff00": "00FF00",
		"#abcdef":  "ABCDEF",
		" 0a0b0c ": "0A0B0C",
	} {
		if got := normalizeColor(in); got != want {
			t.Errorf("normalizeColor(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReadRegionThemeFill(t *testing.T) {
	s, err := Build(testGrid(t), DefaultOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var buf bytes.Buffer
	if err := (Excelize{}).Render(&buf, s); err != nil {
		t.Fatalf("Render: %v", err)
	}

	// point the red fill at accent1 of the workbook theme
	redFill := regexp.MustCompile(`(?i)rgb="FFFF0000"`)
	replaced := false
	data := rewriteEntry(t, buf.Bytes(), "xl/styles.xml", func(b []byte) []byte {
		replaced = redFill.Match(b)
		return redFill.ReplaceAll(b, []byte(`theme="4"`))
	})
	if !replaced {
		t.Fatal("red fill not found in styles.xml")
	}

	wb, err := spreadsheet.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	accent, ok := ThemeColorToRGB(wb, 4)
	wb.Close()
	if !ok {
		t.Fatal("workbook theme has no accent1")
	}
	want, err := ParseHex(accent)
	if err != nil {
		t.Fatalf("accent1 %q: %v", accent, err)
	}

	region, err := ReadRegion(bytes.NewReader(data), int64(len(data)), "B1", "C2")
	if err != nil {
		t.Fatalf("ReadRegion: %v", err)
	}
	if got := region.Pixels[0][0]; got != want {
		t.Errorf("B1 = %v, want theme accent1 %v", got, want)
	}
	if got := region.Pixels[1][0]; got != green {
		t.Errorf("C1 = %v, want green", got)
	}
	if len(region.Defaulted) != 0 {
		t.Errorf("Defaulted = %v", region.Defaulted)
	}
}
