package mondrian

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/mondrian/pkg/errors"
)

// Fixed colors. Black is reserved for tile borders.
var (
	Black  = color.RGBA{R: 0, G: 0, B: 0, A: 0xff}
	Red    = color.RGBA{R: 255, G: 0, B: 0, A: 0xff}
	Cyan   = color.RGBA{R: 0, G: 255, B: 255, A: 0xff}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 0xff}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 0xff}
	Pink   = color.RGBA{R: 199, G: 52, B: 182, A: 0xff}
	Teal   = color.RGBA{R: 50, G: 168, B: 162, A: 0xff}
	Blue   = color.RGBA{R: 52, G: 79, B: 199, A: 0xff}
)

// Palette is an ordered set of fill colors. Order matters: strategies index
// into it with the random source, so reordering changes seeded output.
type Palette []color.RGBA

// Built-in palettes.
var (
	BasicPalette        = Palette{Red, Cyan, White, Yellow}
	ComplexLeftPalette  = Palette{Red, Pink}
	ComplexRightPalette = Palette{Teal, Blue}
)

// Contains reports whether c is one of the palette's colors.
func (p Palette) Contains(c color.RGBA) bool {
	for _, pc := range p {
		if pc == c {
			return true
		}
	}
	return false
}

// pick draws one color uniformly from the palette.
func (p Palette) pick(rng Rand) color.RGBA {
	return p[rng.IntN(len(p))]
}

// Hex formats c as "#rrggbb".
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// ParseHexColor parses "#rrggbb" (the leading '#' is optional) into an opaque
// color.
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, errors.New(errors.ErrCodeInvalidColor, "invalid color %q: expected 6-char hex", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, errors.Wrap(errors.ErrCodeInvalidColor, err, "invalid color %q", s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}

// ParsePalette parses a list of hex colors. Black is rejected because it is
// reserved for tile borders.
func ParsePalette(hexes []string) (Palette, error) {
	if len(hexes) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidColor, "palette cannot be empty")
	}
	p := make(Palette, 0, len(hexes))
	for _, h := range hexes {
		c, err := ParseHexColor(h)
		if err != nil {
			return nil, err
		}
		if c == Black {
			return nil, errors.New(errors.ErrCodeInvalidColor, "black is reserved for borders")
		}
		p = append(p, c)
	}
	return p, nil
}
