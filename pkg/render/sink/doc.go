// Package sink encodes painted canvases into raster file formats.
//
// # Overview
//
// A "sink" turns an in-memory canvas into bytes ready to be written to disk
// or served from a cache. Supported formats:
//
//   - PNG: lossless, the default
//   - JPEG: lossy, see [WithJPEGQuality]
//   - BMP: uncompressed, via golang.org/x/image/bmp
//   - TIFF: deflate-compressed, via golang.org/x/image/tiff
//
// Basic usage:
//
//	data, err := sink.Encode(img, sink.FormatPNG, sink.WithScale(2))
//
// # Scaling
//
// [WithScale] enlarges the canvas by an integer factor before encoding.
// Nearest-neighbour sampling is used so the one-pixel tile borders stay
// crisp instead of being blurred into the neighbouring fills.
package sink
