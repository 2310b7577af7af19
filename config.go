package crochet

import (
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/aerissecure/crochet/transform"
	"github.com/aerissecure/crochet/xlsx"
)

// Config holds the settings for one export.
type Config struct {
	Width  int
	Height int
	Colors int

	PixelNumbers     bool
	RowNumbers       bool
	MirrorRowNumbers bool

	Brightness float64
	Contrast   float64
	Saturation float64

	Method  transform.Method
	Backend xlsx.Backend

	Logger *log.Logger // progress output, nil for none
}

// DefaultConfig returns the settings a fresh session starts with.
func DefaultConfig() Config {
	return Config{
		Width:            75,
		Height:           75,
		Colors:           3,
		RowNumbers:       true,
		MirrorRowNumbers: true,
		Brightness:       transform.NeutralFactor,
		Contrast:         transform.NeutralFactor,
		Saturation:       transform.NeutralFactor,
		Method:           transform.MethodMedianCut,
		Backend:          xlsx.BackendUnioffice,
	}
}

// ValidationError reports a configuration value that is not numeric or
// outside its range.
type ValidationError struct {
	Field  string
	Value  string
	Min    float64
	Max    float64
	Reason string // set instead of the range message, e.g. "contains non-numeric characters"
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Field + " " + e.Reason
	}
	return fmt.Sprintf("%s '%s' not valid, must be between %g and %g", e.Field, e.Value, e.Min, e.Max)
}

const nonNumeric = "contains non-numeric characters"

// ParseConfig reads width, height and color count as typed by a user and
// validates them on top of DefaultConfig. Dimensions are checked before the
// color count, non-numeric input before ranges.
func ParseConfig(width, height, colors string) (Config, error) {
	cfg := DefaultConfig()

	w, werr := parseInt("width", width, transform.MinDimension, transform.MaxDimension)
	h, herr := parseInt("height", height, transform.MinDimension, transform.MaxDimension)
	for _, err := range []*ValidationError{werr, herr} {
		if err != nil && err.Reason != "" {
			return cfg, err
		}
	}
	for _, err := range []*ValidationError{werr, herr} {
		if err != nil {
			return cfg, err
		}
	}
	k, kerr := parseInt("colors", colors, transform.MinColors, transform.MaxColors)
	if kerr != nil {
		return cfg, kerr
	}

	cfg.Width, cfg.Height, cfg.Colors = w, h, k
	return cfg, nil
}

func parseInt(field, s string, lo, hi int) (int, *ValidationError) {
	s = strings.TrimSpace(s)
	if s == "" || strings.TrimLeft(s, "0123456789") != "" {
		return 0, &ValidationError{Field: field, Value: s, Reason: nonNumeric}
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, &ValidationError{Field: field, Value: s, Min: float64(lo), Max: float64(hi)}
	}
	return n, nil
}

// Validate checks every field against its range.
func (c Config) Validate() error {
	ints := []struct {
		field    string
		v        int
		min, max int
	}{
		{"width", c.Width, transform.MinDimension, transform.MaxDimension},
		{"height", c.Height, transform.MinDimension, transform.MaxDimension},
		{"colors", c.Colors, transform.MinColors, transform.MaxColors},
	}
	for _, f := range ints {
		if f.v < f.min || f.v > f.max {
			return &ValidationError{Field: f.field, Value: strconv.Itoa(f.v), Min: float64(f.min), Max: float64(f.max)}
		}
	}

	factors := []struct {
		field string
		v     float64
	}{
		{"brightness", c.Brightness},
		{"contrast", c.Contrast},
		{"saturation", c.Saturation},
	}
	for _, f := range factors {
		if f.v < transform.MinFactor || f.v > transform.MaxFactor {
			return &ValidationError{
				Field: f.field,
				Value: strconv.FormatFloat(f.v, 'g', -1, 64),
				Min:   transform.MinFactor,
				Max:   transform.MaxFactor,
			}
		}
	}

	if c.Method < transform.MethodMedianCut || c.Method > transform.MethodDominant {
		return &ValidationError{Field: "method", Value: strconv.Itoa(int(c.Method)), Reason: "is not a known palette method"}
	}
	if _, err := xlsx.NewRenderer(c.Backend); err != nil {
		return &ValidationError{Field: "backend", Value: string(c.Backend), Reason: "is not a known sheet backend"}
	}
	return nil
}

func (c Config) sheetOptions() xlsx.Options {
	opts := xlsx.DefaultOptions()
	opts.PixelNumbers = c.PixelNumbers
	opts.RowNumbers = c.RowNumbers
	opts.MirrorRowNumbers = c.RowNumbers && c.MirrorRowNumbers
	opts.Logger = c.Logger
	return opts
}

func (c Config) adjustments() transform.Adjustments {
	return transform.Adjustments{
		Brightness: c.Brightness,
		Contrast:   c.Contrast,
		Saturation: c.Saturation,
	}
}
