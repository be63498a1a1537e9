// Package pipeline runs the paint → render pipeline shared by the CLI and
// any service embedding mondrian.
//
// # Stages
//
//  1. Paint: subdivide a fresh Width×Height canvas with the chosen style
//  2. Render: encode the canvas (png, jpeg, bmp, tiff) or the partition
//     tree (dot, svg) for every requested format
//
// Rendered artifacts are cached under a key derived from every option that
// affects their bytes. Only runs with an explicit seed are cached, since a
// random seed never repeats.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Style:   pipeline.StyleComplex,
//	    Seed:    42,
//	    Formats: []string{"png", "svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"image"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mondrian/pkg/cache"
	"github.com/matzehuels/mondrian/pkg/errors"
	"github.com/matzehuels/mondrian/pkg/mondrian"
	"github.com/matzehuels/mondrian/pkg/render/sink"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Config
// =============================================================================

const (
	// DefaultWidth is the default canvas width in pixels.
	DefaultWidth = 800

	// DefaultHeight is the default canvas height in pixels.
	DefaultHeight = 600

	// DefaultStyle is the default coloring style.
	DefaultStyle = StyleBasic

	// DefaultScale is the default raster upscaling factor.
	DefaultScale = 1
)

// Style names.
const (
	StyleBasic   = "basic"
	StyleComplex = "complex"
)

// Format constants for output formats.
const (
	FormatPNG  = sink.FormatPNG
	FormatJPEG = sink.FormatJPEG
	FormatBMP  = sink.FormatBMP
	FormatTIFF = sink.FormatTIFF
	FormatDOT  = "dot"
	FormatSVG  = "svg"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatJPEG: true,
	FormatBMP:  true,
	FormatTIFF: true,
	FormatDOT:  true,
	FormatSVG:  true,
}

// ValidStyles is the set of supported coloring styles.
var ValidStyles = map[string]bool{
	StyleBasic:   true,
	StyleComplex: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Palettes overrides the built-in colors, as hex strings.
type Palettes struct {
	Basic        []string `json:"basic,omitempty" toml:"basic"`
	ComplexLeft  []string `json:"complex_left,omitempty" toml:"complex_left"`
	ComplexRight []string `json:"complex_right,omitempty" toml:"complex_right"`
}

// Options configures a pipeline run. Zero values take the defaults above.
type Options struct {
	// Paint options
	Width         int      `json:"width,omitempty"`
	Height        int      `json:"height,omitempty"`
	Style         string   `json:"style,omitempty"`
	Seed          uint64   `json:"seed,omitempty"` // 0 picks a random seed
	Padding       int      `json:"padding,omitempty"`
	MinCanvasSize int      `json:"min_size,omitempty"`
	Axis          string   `json:"axis,omitempty"`
	Palettes      Palettes `json:"palettes,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Scale    int      `json:"scale,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`  // detailed partition diagram labels
	MaxDepth int      `json:"max_depth,omitempty"` // partition diagram depth limit, 0 for all

	// Cache options
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Seed is the seed actually used, random when Options.Seed was 0.
	Seed uint64

	// Canvas and Tree are nil when every artifact came from the cache.
	Canvas *image.RGBA
	Tree   *mondrian.Node

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Tiles      int
	Depth      int
	PaintTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache usage.
type CacheInfo struct {
	RenderHit bool // every artifact came from the cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: png, jpeg, bmp, tiff, dot, svg)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidStyle, "invalid style: %q (must be one of: basic, complex)", style)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills zero-valued fields.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Padding == 0 {
		o.Padding = mondrian.DefaultPadding
	}
	if o.MinCanvasSize == 0 {
		o.MinCanvasSize = mondrian.DefaultMinCanvasSize
	}
	if o.Axis == "" {
		o.Axis = mondrian.AxisHeight.String()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks every field. Call SetDefaults first.
func (o *Options) Validate() error {
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale < 1 || o.Scale > sink.MaxScale {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be between 1 and %d, got %d", sink.MaxScale, o.Scale)
	}
	if o.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max depth cannot be negative, got %d", o.MaxDepth)
	}
	if _, err := mondrian.ParseAxis(o.Axis); err != nil {
		return err
	}
	_, err := o.Strategy()
	return err
}

// ValidateAndSetDefaults applies defaults and validates.
func (o *Options) ValidateAndSetDefaults() error {
	o.SetDefaults()
	return o.Validate()
}

// Strategy builds the coloring strategy for Style, applying any palette
// overrides.
func (o *Options) Strategy() (mondrian.Strategy, error) {
	switch o.Style {
	case StyleBasic:
		s := mondrian.Basic()
		if len(o.Palettes.Basic) > 0 {
			p, err := mondrian.ParsePalette(o.Palettes.Basic)
			if err != nil {
				return nil, err
			}
			s.Palette = p
		}
		return s, nil
	case StyleComplex:
		s := mondrian.Complex()
		axis, err := mondrian.ParseAxis(o.Axis)
		if err != nil {
			return nil, err
		}
		s.Axis = axis
		if len(o.Palettes.ComplexLeft) > 0 {
			if s.Left, err = mondrian.ParsePalette(o.Palettes.ComplexLeft); err != nil {
				return nil, err
			}
		}
		if len(o.Palettes.ComplexRight) > 0 {
			if s.Right, err = mondrian.ParsePalette(o.Palettes.ComplexRight); err != nil {
				return nil, err
			}
		}
		return s, nil
	default:
		return nil, ValidateStyle(o.Style)
	}
}

// ArtifactKeyOpts returns cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format string, seed uint64) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Width:         o.Width,
		Height:        o.Height,
		Style:         o.Style,
		Seed:          seed,
		Padding:       o.Padding,
		MinCanvasSize: o.MinCanvasSize,
		Format:        format,
		Scale:         o.Scale,
	}
	if o.Style == StyleComplex {
		k.Axis = o.Axis
		k.Palettes = append(k.Palettes, o.Palettes.ComplexLeft...)
		k.Palettes = append(k.Palettes, "|")
		k.Palettes = append(k.Palettes, o.Palettes.ComplexRight...)
	} else {
		k.Palettes = append(k.Palettes, o.Palettes.Basic...)
	}
	if format == FormatDOT || format == FormatSVG {
		k.Scale = 0
		k.MaxDepth = o.MaxDepth
		if o.Detailed {
			k.Format += "+detailed"
		}
	}
	return k
}

// Ext returns the file extension for a format, including the dot.
func Ext(format string) string {
	if sink.IsRaster(format) {
		return sink.Ext(format)
	}
	return "." + strings.ToLower(format)
}
