// Package crochet turns images into crochet and cross-stitch patterns: the
// image is adjusted, pixelated to the pattern size, reduced to a few colors
// and laid out as a colored worksheet with a legend. Patterns can be read
// back from a worksheet region.
package crochet

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/aerissecure/crochet/address"
	"github.com/aerissecure/crochet/grid"
	"github.com/aerissecure/crochet/transform"
	"github.com/aerissecure/crochet/xlsx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

const (
	DefaultOutputDir = "input_output"
	OutputFileName   = "output.xlsx"
)

// exportMu keeps at most one export writing at a time.
var exportMu sync.Mutex

// Pattern holds every stage of one pipeline run. Each stage is a new image;
// none of them is modified after Build returns.
type Pattern struct {
	Config    Config
	Source    image.Image
	Adjusted  *image.NRGBA
	Pixelated *image.NRGBA
	Reduced   *image.NRGBA
	Grid      *grid.Grid
	Sheet     *xlsx.PatternSheet
}

func logger(l *log.Logger) *log.Logger {
	if l == nil {
		return log.New(io.Discard, "", 0)
	}
	return l
}

// LoadImage decodes the image at path. JPEG, PNG, GIF, BMP, TIFF and WebP
// are supported.
func LoadImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ResourceError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, &ResourceError{Op: "decode", Path: path, Err: err}
	}
	return img, nil
}

// Build runs the pipeline on src and lays out the pattern sheet.
func Build(src image.Image, cfg Config) (*Pattern, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, transform.ErrNoImage
	}
	l := logger(cfg.Logger)

	p := &Pattern{Config: cfg, Source: src}
	var err error
	if p.Adjusted, err = transform.Adjust(src, cfg.adjustments()); err != nil {
		return nil, fmt.Errorf("adjust: %w", err)
	}
	l.Printf("pixelating to %dx%d", cfg.Width, cfg.Height)
	if p.Pixelated, err = transform.Pixelate(p.Adjusted, cfg.Width, cfg.Height); err != nil {
		return nil, fmt.Errorf("pixelate: %w", err)
	}
	l.Printf("reducing to %d colors (%s)", cfg.Colors, cfg.Method)
	if p.Reduced, err = transform.Quantize(p.Pixelated, cfg.Colors, cfg.Method); err != nil {
		return nil, fmt.Errorf("quantize: %w", err)
	}
	p.Grid = grid.Extract(p.Reduced)
	if p.Sheet, err = xlsx.Build(p.Grid, cfg.sheetOptions()); err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	return p, nil
}

// Export writes the pattern to dir/output.xlsx, creating dir if needed, and
// returns the file path.
func (p *Pattern) Export(dir string) (string, error) {
	exportMu.Lock()
	defer exportMu.Unlock()

	if dir == "" {
		dir = DefaultOutputDir
	}
	r, err := xlsx.NewRenderer(p.Config.Backend)
	if err != nil {
		return "", err
	}
	path, err := xlsx.Save(p.Sheet, r, dir, OutputFileName)
	if err != nil {
		return "", &ResourceError{Op: "save", Path: filepath.Join(dir, OutputFileName), Err: err}
	}
	l := logger(p.Config.Logger)
	l.Printf("export complete")
	l.Printf("file %s created at %s", OutputFileName, path)
	return path, nil
}

// HTML renders an HTML preview of the pattern sheet.
func (p *Pattern) HTML() string {
	return xlsx.RenderHTML(p.Sheet)
}

// ExportResult is delivered by ExportAsync.
type ExportResult struct {
	Path string
	Err  error
}

// ExportAsync runs Export on a background goroutine. The returned channel
// receives exactly one result and is then closed.
func (p *Pattern) ExportAsync(dir string) <-chan ExportResult {
	ch := make(chan ExportResult, 1)
	go func() {
		defer close(ch)
		path, err := p.Export(dir)
		ch <- ExportResult{Path: path, Err: err}
	}()
	return ch
}

// ExportFile validates cfg, then loads, builds and exports the image at
// path. Configuration errors are returned before the image is opened.
func ExportFile(path, dir string, cfg Config) (*Pattern, string, error) {
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	img, err := LoadImage(path)
	if err != nil {
		return nil, "", err
	}
	p, err := Build(img, cfg)
	if err != nil {
		return nil, "", err
	}
	out, err := p.Export(dir)
	if err != nil {
		return p, "", err
	}
	return p, out, nil
}

// Import reads the cell fills between corners from and to, in either order,
// from the first worksheet of the workbook at path.
func Import(path, from, to string, l *log.Logger) (*xlsx.Region, error) {
	rect, err := address.Region(from, to)
	if err != nil {
		return nil, &ValidationError{Field: "range", Value: from + ":" + to, Reason: err.Error()}
	}
	if rect.Width() > xlsx.MaxRegionSize || rect.Height() > xlsx.MaxRegionSize {
		return nil, &ValidationError{
			Field:  "range",
			Value:  from + ":" + to,
			Reason: fmt.Sprintf("is %dx%d cells, at most %dx%d can be imported", rect.Width(), rect.Height(), xlsx.MaxRegionSize, xlsx.MaxRegionSize),
		}
	}
	region, err := xlsx.ReadRegionFile(path, from, to)
	if err != nil {
		return nil, &ResourceError{Op: "import", Path: path, Err: err}
	}
	l = logger(l)
	for _, d := range region.Defaulted {
		l.Printf("warning: %v, using white", d)
	}
	l.Printf("pattern imported from %s (%s, %dx%d)", path, region.Rect, region.Width(), region.Height())
	return region, nil
}

// Preview renders an HTML preview of the first worksheet of the workbook at
// path.
func Preview(path string) (string, error) {
	s, err := xlsx.ReadSheetFile(path)
	if err != nil {
		return "", &ResourceError{Op: "import", Path: path, Err: err}
	}
	return xlsx.RenderHTML(s), nil
}

// SavePNG writes img to path as PNG.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return &ResourceError{Op: "save", Path: path, Err: err}
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return &ResourceError{Op: "save", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return &ResourceError{Op: "save", Path: path, Err: err}
	}
	return nil
}
