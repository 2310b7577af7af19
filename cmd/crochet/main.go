package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/aerissecure/crochet"
	"github.com/aerissecure/crochet/transform"
	"github.com/aerissecure/crochet/xlsx"
)

const usage = `usage:
  crochet export -in image.png [-width 75 -height 75 -colors 3] [options]
  crochet import -in output.xlsx -from B1 -to BX75 [-png out.png] [-html sheet.html]`

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("%s", usage)
	}
	switch args[0] {
	case "export":
		return runExport(args[1:])
	case "import":
		return runImport(args[1:])
	}
	return fmt.Errorf("unknown command %q\n%s", args[0], usage)
}

func runExport(args []string) error {
	def := crochet.DefaultConfig()
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	in := fs.String("in", "", "input image (jpeg, png, gif, bmp, tiff, webp)")
	width := fs.String("width", fmt.Sprint(def.Width), "pattern width in cells")
	height := fs.String("height", fmt.Sprint(def.Height), "pattern height in cells")
	colors := fs.String("colors", fmt.Sprint(def.Colors), "number of colors")
	pixelNumbers := fs.Bool("pixel-numbers", def.PixelNumbers, "write the color ID into every cell")
	rowNumbers := fs.Bool("row-numbers", def.RowNumbers, "add a row-number gutter")
	mirror := fs.Bool("mirror", def.MirrorRowNumbers, "repeat row numbers right of the pattern")
	brightness := fs.Float64("brightness", def.Brightness, "brightness factor (0.2-2.0)")
	contrast := fs.Float64("contrast", def.Contrast, "contrast factor (0.2-2.0)")
	saturation := fs.Float64("saturation", def.Saturation, "saturation factor (0.2-2.0)")
	method := fs.String("method", def.Method.String(), "palette method: median, kmeans or dominant")
	backend := fs.String("backend", string(def.Backend), "sheet writer: unioffice or excelize")
	out := fs.String("out", crochet.DefaultOutputDir, "output directory")
	htmlPath := fs.String("html", "", "also write an HTML preview to this file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" {
		return fmt.Errorf("-in is required")
	}

	cfg, err := crochet.ParseConfig(*width, *height, *colors)
	if err != nil {
		return err
	}
	m, err := transform.ParseMethod(*method)
	if err != nil {
		return &crochet.ValidationError{Field: "method", Value: *method, Reason: "is not a known palette method"}
	}
	cfg.PixelNumbers = *pixelNumbers
	cfg.RowNumbers = *rowNumbers
	cfg.MirrorRowNumbers = *mirror
	cfg.Brightness = *brightness
	cfg.Contrast = *contrast
	cfg.Saturation = *saturation
	cfg.Method = m
	cfg.Backend = xlsx.Backend(*backend)
	cfg.Logger = log.Default()

	log.Printf("image file: %s", *in)
	p, path, err := crochet.ExportFile(*in, *out, cfg)
	if err != nil {
		return err
	}
	fmt.Printf("File '%s' created at location: '%s'\n", crochet.OutputFileName, path)

	if *htmlPath != "" {
		if err := os.WriteFile(*htmlPath, []byte(p.HTML()), 0644); err != nil {
			return err
		}
		log.Printf("preview written to %s", *htmlPath)
	}
	return nil
}

func runImport(args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	in := fs.String("in", "", "workbook to read")
	from := fs.String("from", "", "first corner, e.g. B1")
	to := fs.String("to", "", "opposite corner, e.g. BX75")
	pngPath := fs.String("png", "", "write the imported region as PNG")
	htmlPath := fs.String("html", "", "write an HTML preview of the whole sheet")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *in == "" || *from == "" || *to == "" {
		return fmt.Errorf("-in, -from and -to are required")
	}

	region, err := crochet.Import(*in, *from, *to, log.Default())
	if err != nil {
		return err
	}
	g, err := region.Grid()
	if err != nil {
		return err
	}
	fmt.Printf("Imported %dx%d cells using %d colors\n", region.Width(), region.Height(), len(g.UsedPalette()))
	for _, e := range g.UsedPalette() {
		fmt.Printf("  %3d  #%s\n", e.ID, e.Color.Hex())
	}

	if *pngPath != "" {
		if err := crochet.SavePNG(g.Image(), *pngPath); err != nil {
			return err
		}
		log.Printf("image written to %s", *pngPath)
	}
	if *htmlPath != "" {
		page, err := crochet.Preview(*in)
		if err != nil {
			return err
		}
		if err := os.WriteFile(*htmlPath, []byte(page), 0644); err != nil {
			return err
		}
		log.Printf("preview written to %s", *htmlPath)
	}
	return nil
}
