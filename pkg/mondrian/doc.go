// Package mondrian paints Mondrian-style compositions onto a pixel canvas by
// recursive subdivision.
//
// # Overview
//
// A [Painter] splits the full canvas into smaller and smaller rectangles until
// each one is too small to split again. Every such terminal tile is filled
// with a color chosen by a [Strategy] and outlined with a one-pixel black
// border. The canvas is any [draw.Image] supplied by the caller; it is mutated
// in place and never reallocated.
//
//	img := image.NewRGBA(image.Rect(0, 0, 800, 600))
//	if err := mondrian.PaintBasic(img); err != nil {
//	    return err
//	}
//
// # Subdivision
//
// A region is split along an axis while its span on that axis is at least a
// quarter of the full canvas span. The threshold is always taken from the
// whole canvas, not the region being split, so tile density stays
// proportional to the canvas size. Split points are drawn uniformly from the
// region's interior, inset by half the padding from each edge:
//
//   - both axes splittable: four quadrants
//   - one axis splittable: two halves along that axis
//   - neither: terminal tile, filled
//
// A region that reaches a threshold on an axis whose span does not exceed
// the padding has no room for a split point and is filled as a tile.
//
// # Strategies
//
// [Basic] picks uniformly from red, cyan, white and yellow. [Complex] picks
// from red and pink in the left part of the canvas and from teal and blue in
// the right part. The left/right test compares a tile's left edge against half
// the canvas height by default ([AxisHeight]); [AxisWidth] compares against
// half the width instead.
//
// # Randomness
//
// All draws go through a single [Rand] owned by the painter. Use [WithSeed]
// for reproducible output:
//
//	p := mondrian.NewPainter(mondrian.WithSeed(42))
//	err := p.PaintComplex(img)
//
// # Errors
//
// The only failure of a paint call on a valid painter is an undersized or nil
// canvas, reported as an [errors.ErrCodeInvalidCanvas] error before any pixel
// is written. See [IsInvalidCanvas].
//
// # Concurrency
//
// A Painter is not safe for concurrent use because its random source is
// shared across calls. Create one painter per goroutine.
package mondrian
