package sink

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"

	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/tiff"

	"github.com/matzehuels/mondrian/pkg/errors"
)

// Raster format names.
const (
	FormatPNG  = "png"
	FormatJPEG = "jpeg"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

const (
	// MaxScale caps the upscaling factor accepted by [WithScale].
	MaxScale = 8

	defaultJPEGQuality = 90
)

var extensions = map[string]string{
	FormatPNG:  ".png",
	FormatJPEG: ".jpg",
	FormatBMP:  ".bmp",
	FormatTIFF: ".tiff",
}

// IsRaster reports whether format is one of the raster formats handled here.
func IsRaster(format string) bool {
	_, ok := extensions[format]
	return ok
}

// Ext returns the file extension for a raster format, including the dot.
func Ext(format string) string {
	return extensions[format]
}

// Option configures raster encoding.
type Option func(*encoder)

type encoder struct {
	scale   int
	quality int
}

// WithScale enlarges the image by an integer factor (default 1).
func WithScale(n int) Option {
	return func(e *encoder) { e.scale = n }
}

// WithJPEGQuality sets the JPEG quality, 1 to 100 (default 90).
func WithJPEGQuality(q int) Option {
	return func(e *encoder) { e.quality = q }
}

// Encode renders img in the given raster format.
func Encode(img image.Image, format string, opts ...Option) ([]byte, error) {
	e := encoder{scale: 1, quality: defaultJPEGQuality}
	for _, opt := range opts {
		opt(&e)
	}
	if !IsRaster(format) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported raster format: %q", format)
	}
	if e.scale < 1 || e.scale > MaxScale {
		return nil, errors.New(errors.ErrCodeInvalidInput, "scale must be between 1 and %d, got %d", MaxScale, e.scale)
	}
	if e.quality < 1 || e.quality > 100 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "jpeg quality must be between 1 and 100, got %d", e.quality)
	}

	src := img
	if e.scale > 1 {
		src = Scale(img, e.scale)
	}

	var buf bytes.Buffer
	var err error
	switch format {
	case FormatPNG:
		err = png.Encode(&buf, src)
	case FormatJPEG:
		err = jpeg.Encode(&buf, src, &jpeg.Options{Quality: e.quality})
	case FormatBMP:
		err = bmp.Encode(&buf, src)
	case FormatTIFF:
		err = tiff.Encode(&buf, src, &tiff.Options{Compression: tiff.Deflate})
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode %s", format)
	}
	return buf.Bytes(), nil
}

// Scale returns a copy of img enlarged by factor using nearest-neighbour
// sampling. The result's bounds start at the origin.
func Scale(img image.Image, factor int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}
