package mondrian

import (
	"fmt"
	"image"
)

// Region is a rectangular area of the canvas with half-open bounds:
// columns [Left, Right) and rows [Top, Bottom). Coordinates are relative to
// the canvas origin.
type Region struct {
	Left, Right int
	Top, Bottom int
}

// Width returns the horizontal span of the region.
func (r Region) Width() int { return r.Right - r.Left }

// Height returns the vertical span of the region.
func (r Region) Height() int { return r.Bottom - r.Top }

// Empty reports whether the region contains no pixels.
func (r Region) Empty() bool { return r.Width() <= 0 || r.Height() <= 0 }

// Rect converts the region to an image.Rectangle translated by origin.
func (r Region) Rect(origin image.Point) image.Rectangle {
	return image.Rect(r.Left, r.Top, r.Right, r.Bottom).Add(origin)
}

// String formats the region as "x[l,r) y[t,b)".
func (r Region) String() string {
	return fmt.Sprintf("x[%d,%d) y[%d,%d)", r.Left, r.Right, r.Top, r.Bottom)
}

// splitX cuts the region at column x into left and right parts.
func (r Region) splitX(x int) (Region, Region) {
	left, right := r, r
	left.Right = x
	right.Left = x
	return left, right
}

// splitY cuts the region at row y into top and bottom parts.
func (r Region) splitY(y int) (Region, Region) {
	top, bottom := r, r
	top.Bottom = y
	bottom.Top = y
	return top, bottom
}
