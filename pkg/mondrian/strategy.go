package mondrian

import (
	"fmt"
	"image/color"
	"reflect"

	"github.com/matzehuels/mondrian/pkg/errors"
)

// Strategy chooses the fill color of a terminal tile.
type Strategy interface {
	ChooseColor(rng Rand, r Region, canvasWidth, canvasHeight int) color.RGBA
}

// Uniform picks a color uniformly from Palette regardless of position.
type Uniform struct {
	Palette Palette
}

// Basic returns the uniform strategy over red, cyan, white and yellow.
func Basic() Uniform { return Uniform{Palette: BasicPalette} }

// ChooseColor implements Strategy.
func (u Uniform) ChooseColor(rng Rand, _ Region, _, _ int) color.RGBA {
	return u.Palette.pick(rng)
}

// Axis selects which canvas dimension the positional strategy halves to
// decide whether a tile is on the left.
type Axis int

const (
	// AxisHeight compares a tile's left edge with half the canvas height.
	// This is the historical behavior and the default.
	AxisHeight Axis = iota
	// AxisWidth compares a tile's left edge with half the canvas width.
	AxisWidth
)

// String returns "height" or "width".
func (a Axis) String() string {
	switch a {
	case AxisHeight:
		return "height"
	case AxisWidth:
		return "width"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// ParseAxis parses "height" or "width". The empty string means AxisHeight.
func ParseAxis(s string) (Axis, error) {
	switch s {
	case "", "height":
		return AxisHeight, nil
	case "width":
		return AxisWidth, nil
	default:
		return 0, errors.New(errors.ErrCodeInvalidInput, "invalid axis: %q (must be one of: height, width)", s)
	}
}

// Positional picks from Left for tiles whose left edge lies before the
// canvas midpoint on Axis, and from Right otherwise.
type Positional struct {
	Left  Palette
	Right Palette
	Axis  Axis
}

// Complex returns the positional strategy with red/pink on the left and
// teal/blue on the right, using the height-based midpoint.
func Complex() Positional {
	return Positional{Left: ComplexLeftPalette, Right: ComplexRightPalette, Axis: AxisHeight}
}

// ChooseColor implements Strategy.
func (p Positional) ChooseColor(rng Rand, r Region, canvasWidth, canvasHeight int) color.RGBA {
	if p.IsLeft(r, canvasWidth, canvasHeight) {
		return p.Left.pick(rng)
	}
	return p.Right.pick(rng)
}

// IsLeft reports whether r falls in the left palette's half.
func (p Positional) IsLeft(r Region, canvasWidth, canvasHeight int) bool {
	mid := canvasHeight / 2
	if p.Axis == AxisWidth {
		mid = canvasWidth / 2
	}
	return r.Left < mid
}

// Palettes returns every color the strategy can produce.
func Palettes(s Strategy) Palette {
	switch v := s.(type) {
	case Uniform:
		return v.Palette
	case *Uniform:
		return v.Palette
	case Positional:
		return append(append(Palette{}, v.Left...), v.Right...)
	case *Positional:
		return append(append(Palette{}, v.Left...), v.Right...)
	default:
		return nil
	}
}

func validateStrategy(s Strategy) error {
	switch v := s.(type) {
	case nil:
		return errors.New(errors.ErrCodeInvalidInput, "strategy cannot be nil")
	case Uniform:
		return validateUniform(v)
	case *Uniform:
		if v == nil {
			return errors.New(errors.ErrCodeInvalidInput, "strategy cannot be nil")
		}
		return validateUniform(*v)
	case Positional:
		return validatePositional(v)
	case *Positional:
		if v == nil {
			return errors.New(errors.ErrCodeInvalidInput, "strategy cannot be nil")
		}
		return validatePositional(*v)
	}
	if isNilStrategy(s) {
		return errors.New(errors.ErrCodeInvalidInput, "strategy cannot be nil")
	}
	return nil
}

func validateUniform(u Uniform) error {
	if len(u.Palette) == 0 {
		return errors.New(errors.ErrCodeInvalidColor, "uniform strategy has an empty palette")
	}
	return nil
}

func validatePositional(p Positional) error {
	if len(p.Left) == 0 || len(p.Right) == 0 {
		return errors.New(errors.ErrCodeInvalidColor, "positional strategy needs non-empty left and right palettes")
	}
	return nil
}

// isNilStrategy catches typed nil pointers of caller-defined strategies.
func isNilStrategy(s Strategy) bool {
	v := reflect.ValueOf(s)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
