package mondrian

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"reflect"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/mondrian/pkg/errors"
)

const (
	// DefaultMinCanvasSize is the smallest accepted width and height.
	DefaultMinCanvasSize = 300

	// DefaultPadding is the inset band, split evenly between both edges of a
	// region, inside which no split point may fall.
	DefaultPadding = 20

	// minPadding keeps both children of a split non-empty, which is what
	// guarantees the recursion terminates.
	minPadding = 2
)

// Painter subdivides canvases into bordered, colored tiles.
type Painter struct {
	minCanvasSize int
	padding       int
	rng           Rand
	logger        *log.Logger
}

// Option configures a Painter.
type Option func(*Painter)

// WithPadding sets the split inset (default 20). Must be at least 2.
func WithPadding(n int) Option {
	return func(p *Painter) { p.padding = n }
}

// WithMinCanvasSize sets the minimum accepted width and height (default 300).
func WithMinCanvasSize(n int) Option {
	return func(p *Painter) { p.minCanvasSize = n }
}

// WithRand sets the random source used for split points and colors.
func WithRand(r Rand) Option {
	return func(p *Painter) { p.rng = r }
}

// WithSeed uses a PCG source seeded from seed, giving reproducible output.
func WithSeed(seed uint64) Option {
	return WithRand(NewRand(seed))
}

// WithLogger sets the logger for paint summaries (logged at debug level).
func WithLogger(l *log.Logger) Option {
	return func(p *Painter) { p.logger = l }
}

// NewPainter creates a painter. Without WithRand or WithSeed the painter
// draws from a randomly seeded source.
func NewPainter(opts ...Option) *Painter {
	p := &Painter{
		minCanvasSize: DefaultMinCanvasSize,
		padding:       DefaultPadding,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = NewRand(RandomSeed())
	}
	if p.logger == nil {
		p.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return p
}

// PaintBasic paints canvas with a fresh painter and the Basic strategy.
func PaintBasic(canvas draw.Image) error {
	return NewPainter().PaintBasic(canvas)
}

// PaintComplex paints canvas with a fresh painter and the Complex strategy.
func PaintComplex(canvas draw.Image) error {
	return NewPainter().PaintComplex(canvas)
}

// IsInvalidCanvas reports whether err rejected a nil or undersized canvas.
func IsInvalidCanvas(err error) bool {
	return errors.Is(err, errors.ErrCodeInvalidCanvas)
}

// PaintBasic paints canvas using the Basic strategy.
func (p *Painter) PaintBasic(canvas draw.Image) error {
	return p.Paint(canvas, Basic())
}

// PaintComplex paints canvas using the Complex strategy.
func (p *Painter) PaintComplex(canvas draw.Image) error {
	return p.Paint(canvas, Complex())
}

// Paint validates canvas and subdivides it with s. On error the canvas is
// left untouched.
func (p *Painter) Paint(canvas draw.Image, s Strategy) error {
	_, err := p.paint(canvas, s, false)
	return err
}

// Trace paints like Paint and also returns the partition tree.
func (p *Painter) Trace(canvas draw.Image, s Strategy) (*Node, error) {
	return p.paint(canvas, s, true)
}

// run holds the per-call state shared by every level of the recursion.
type run struct {
	canvas   draw.Image
	rgba     *image.RGBA
	origin   image.Point
	width    int
	height   int
	wQuarter int
	hQuarter int
	strategy Strategy
	trace    bool
	tiles    int
	depth    int
}

func (p *Painter) paint(canvas draw.Image, s Strategy, trace bool) (*Node, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if err := validateStrategy(s); err != nil {
		return nil, err
	}
	if err := p.checkCanvas(canvas); err != nil {
		return nil, err
	}

	b := canvas.Bounds()
	r := &run{
		canvas:   canvas,
		origin:   b.Min,
		width:    b.Dx(),
		height:   b.Dy(),
		wQuarter: b.Dx() / 4,
		hQuarter: b.Dy() / 4,
		strategy: s,
		trace:    trace,
	}
	r.rgba, _ = canvas.(*image.RGBA)

	start := time.Now()
	root := p.subdivide(r, Region{Left: 0, Right: r.width, Top: 0, Bottom: r.height}, 0)
	p.logger.Debug("painted canvas",
		"width", r.width,
		"height", r.height,
		"tiles", r.tiles,
		"depth", r.depth,
		"duration", time.Since(start))

	return root, nil
}

func (p *Painter) validate() error {
	if p.padding < minPadding {
		return errors.New(errors.ErrCodeInvalidInput, "padding must be at least %d, got %d", minPadding, p.padding)
	}
	if p.minCanvasSize < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "minimum canvas size must be positive, got %d", p.minCanvasSize)
	}
	return nil
}

func (p *Painter) checkCanvas(canvas draw.Image) error {
	if isNil(canvas) {
		return errors.New(errors.ErrCodeInvalidCanvas, "canvas cannot be nil")
	}
	b := canvas.Bounds()
	if b.Dx() < p.minCanvasSize || b.Dy() < p.minCanvasSize {
		return errors.New(errors.ErrCodeInvalidCanvas, "canvas %dx%d is smaller than the %dx%d minimum",
			b.Dx(), b.Dy(), p.minCanvasSize, p.minCanvasSize)
	}
	return nil
}

// isNil also catches typed nil pointers such as (*image.RGBA)(nil), whose
// Bounds method would panic.
func isNil(canvas draw.Image) bool {
	if canvas == nil {
		return true
	}
	v := reflect.ValueOf(canvas)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func:
		return v.IsNil()
	}
	return false
}

// subdivide splits reg until it is a terminal tile, then fills it. The
// returned node is nil unless the run is traced.
func (p *Painter) subdivide(r *run, reg Region, depth int) *Node {
	r.depth = max(r.depth, depth)
	var node *Node
	if r.trace {
		node = &Node{Region: reg, Depth: depth}
	}

	nx, splitX := p.splitRange(reg.Left, reg.Right, r.wQuarter)
	ny, splitY := p.splitRange(reg.Top, reg.Bottom, r.hQuarter)
	if (splitX && nx <= 0) || (splitY && ny <= 0) {
		// No room for a split point inside the padding band.
		splitX, splitY = false, false
	}

	// X is drawn before Y so seeded output is stable.
	var x, y int
	if splitX {
		x = reg.Left + p.padding/2 + p.rng.IntN(nx)
	}
	if splitY {
		y = reg.Top + p.padding/2 + p.rng.IntN(ny)
	}

	var children []Region
	switch {
	case splitX && splitY:
		left, right := reg.splitX(x)
		topLeft, bottomLeft := left.splitY(y)
		topRight, bottomRight := right.splitY(y)
		children = []Region{topLeft, bottomLeft, topRight, bottomRight}
	case splitX:
		left, right := reg.splitX(x)
		children = []Region{left, right}
	case splitY:
		top, bottom := reg.splitY(y)
		children = []Region{top, bottom}
	default:
		c := r.strategy.ChooseColor(p.rng, reg, r.width, r.height)
		r.fill(reg, c)
		r.tiles++
		if node != nil {
			node.Color = c
		}
		return node
	}

	for _, child := range children {
		n := p.subdivide(r, child, depth+1)
		if node != nil {
			node.Children = append(node.Children, n)
		}
	}
	return node
}

// splitRange reports whether the span [lo, hi) reaches threshold and, if so,
// how many split coordinates lie inside the padding band. A non-positive
// count makes the whole region terminal.
func (p *Painter) splitRange(lo, hi, threshold int) (int, bool) {
	span := hi - lo
	if span < threshold {
		return 0, false
	}
	return span - p.padding, true
}

// fill paints reg with c and draws a one-pixel black ring on its edges.
func (r *run) fill(reg Region, c color.RGBA) {
	for y := reg.Top; y < reg.Bottom; y++ {
		for x := reg.Left; x < reg.Right; x++ {
			px := c
			if y == reg.Top || y == reg.Bottom-1 || x == reg.Left || x == reg.Right-1 {
				px = Black
			}
			r.set(x, y, px)
		}
	}
}

func (r *run) set(x, y int, c color.RGBA) {
	x += r.origin.X
	y += r.origin.Y
	if r.rgba != nil {
		r.rgba.SetRGBA(x, y, c)
		return
	}
	r.canvas.Set(x, y, c)
}
