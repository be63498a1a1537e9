package mondrian

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/matzehuels/mondrian/pkg/errors"
)

// lowerBound always returns the bottom of the requested range.
type lowerBound struct{}

func (lowerBound) IntN(int) int { return 0 }

// solid fills every tile with one color.
type solid struct{ c color.RGBA }

func (s *solid) ChooseColor(Rand, Region, int, int) color.RGBA { return s.c }

// countingCanvas records writes without storing pixels.
type countingCanvas struct {
	bounds image.Rectangle
	sets   int64
}

func (c *countingCanvas) ColorModel() color.Model     { return color.RGBAModel }
func (c *countingCanvas) Bounds() image.Rectangle     { return c.bounds }
func (c *countingCanvas) At(x, y int) color.Color     { return color.Transparent }
func (c *countingCanvas) Set(x, y int, _ color.Color) { c.sets++ }

var sentinel = color.RGBA{R: 0, G: 128, B: 0, A: 0xff}

func filledCanvas(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: sentinel}, image.Point{}, draw.Src)
	return img
}

func pixHash(img *image.RGBA) string {
	sum := sha256.Sum256(img.Pix)
	return hex.EncodeToString(sum[:])
}

func TestPaintRejectsSmallCanvas(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
	}{
		{"narrow", 299, 300},
		{"short", 300, 299},
		{"tiny", 10, 10},
		{"empty", 0, 0},
	}

	for _, tt := range tests {
		for _, s := range []Strategy{Basic(), Complex()} {
			t.Run(tt.name, func(t *testing.T) {
				img := filledCanvas(tt.width, tt.height)
				before := bytes.Clone(img.Pix)

				err := NewPainter(WithSeed(1)).Paint(img, s)
				if !IsInvalidCanvas(err) {
					t.Fatalf("Paint() error = %v, want INVALID_CANVAS", err)
				}
				if !bytes.Equal(before, img.Pix) {
					t.Error("Paint() mutated a rejected canvas")
				}
			})
		}
	}
}

func TestPaintRejectsNilCanvas(t *testing.T) {
	p := NewPainter(WithSeed(1))

	if err := p.PaintBasic(nil); !IsInvalidCanvas(err) {
		t.Errorf("PaintBasic(nil) error = %v, want INVALID_CANVAS", err)
	}

	var img *image.RGBA
	if err := p.PaintComplex(img); !IsInvalidCanvas(err) {
		t.Errorf("PaintComplex(typed nil) error = %v, want INVALID_CANVAS", err)
	}
}

func TestPaintCustomMinimum(t *testing.T) {
	img := filledCanvas(120, 120)

	if err := NewPainter(WithSeed(1)).PaintBasic(img); !IsInvalidCanvas(err) {
		t.Fatalf("default minimum should reject 120x120, got %v", err)
	}
	if err := NewPainter(WithSeed(1), WithMinCanvasSize(100)).PaintBasic(img); err != nil {
		t.Fatalf("PaintBasic() with minimum 100 error = %v", err)
	}
	assertPalette(t, img, BasicPalette)
}

func TestPainterOptionValidation(t *testing.T) {
	img := filledCanvas(300, 300)

	tests := []struct {
		name     string
		opts     []Option
		strategy Strategy
		code     errors.Code
	}{
		{"padding too small", []Option{WithPadding(1)}, Basic(), errors.ErrCodeInvalidInput},
		{"negative padding", []Option{WithPadding(-4)}, Basic(), errors.ErrCodeInvalidInput},
		{"zero minimum", []Option{WithMinCanvasSize(0)}, Basic(), errors.ErrCodeInvalidInput},
		{"nil strategy", nil, nil, errors.ErrCodeInvalidInput},
		{"empty uniform palette", nil, Uniform{}, errors.ErrCodeInvalidColor},
		{"empty positional palette", nil, Positional{Left: BasicPalette}, errors.ErrCodeInvalidColor},
		{"empty uniform palette pointer", nil, &Uniform{}, errors.ErrCodeInvalidColor},
		{"empty positional palette pointer", nil, &Positional{Right: BasicPalette}, errors.ErrCodeInvalidColor},
		{"nil uniform pointer", nil, (*Uniform)(nil), errors.ErrCodeInvalidInput},
		{"nil positional pointer", nil, (*Positional)(nil), errors.ErrCodeInvalidInput},
		{"nil custom strategy pointer", nil, (*solid)(nil), errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := bytes.Clone(img.Pix)
			err := NewPainter(append(tt.opts, WithSeed(1))...).Paint(img, tt.strategy)
			if !errors.Is(err, tt.code) {
				t.Fatalf("Paint() error = %v, want code %s", err, tt.code)
			}
			if !bytes.Equal(before, img.Pix) {
				t.Error("Paint() mutated the canvas on invalid options")
			}
		})
	}
}

func TestPaintPointerStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		palette  Palette
	}{
		{"uniform", &Uniform{Palette: BasicPalette}, BasicPalette},
		{"positional", &Positional{Left: ComplexLeftPalette, Right: ComplexRightPalette}, Palettes(Complex())},
		{"custom", &solid{c: Yellow}, Palette{Yellow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := filledCanvas(300, 300)
			if err := NewPainter(WithSeed(3)).Paint(img, tt.strategy); err != nil {
				t.Fatalf("Paint() error = %v", err)
			}
			assertPalette(t, img, tt.palette)
		})
	}
}

func TestPaintPaletteMembership(t *testing.T) {
	sizes := []image.Point{{300, 300}, {640, 480}, {1024, 300}, {300, 900}}

	for _, size := range sizes {
		for seed := uint64(1); seed <= 3; seed++ {
			img := filledCanvas(size.X, size.Y)
			if err := NewPainter(WithSeed(seed)).PaintBasic(img); err != nil {
				t.Fatalf("PaintBasic(%v) error = %v", size, err)
			}
			assertPalette(t, img, BasicPalette)

			img = filledCanvas(size.X, size.Y)
			if err := NewPainter(WithSeed(seed)).PaintComplex(img); err != nil {
				t.Fatalf("PaintComplex(%v) error = %v", size, err)
			}
			assertPalette(t, img, Palettes(Complex()))
		}
	}
}

func TestPackageLevelPaint(t *testing.T) {
	img := filledCanvas(300, 300)
	if err := PaintBasic(img); err != nil {
		t.Fatalf("PaintBasic() error = %v", err)
	}
	assertPalette(t, img, BasicPalette)

	img = filledCanvas(400, 300)
	if err := PaintComplex(img); err != nil {
		t.Fatalf("PaintComplex() error = %v", err)
	}
	assertPalette(t, img, Palettes(Complex()))
}

func TestPaintDeterministic(t *testing.T) {
	paint := func(seed uint64, s Strategy) *image.RGBA {
		img := filledCanvas(500, 400)
		if err := NewPainter(WithSeed(seed)).Paint(img, s); err != nil {
			t.Fatalf("Paint() error = %v", err)
		}
		return img
	}

	for _, s := range []Strategy{Basic(), Complex()} {
		a, b := paint(7, s), paint(7, s)
		if !bytes.Equal(a.Pix, b.Pix) {
			t.Errorf("%T: same seed produced different canvases", s)
		}
		if c := paint(8, s); bytes.Equal(a.Pix, c.Pix) {
			t.Errorf("%T: different seeds produced identical canvases", s)
		}
	}
}

func TestTraceBorderInvariant(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		img := filledCanvas(600, 450)
		root, err := NewPainter(WithSeed(seed)).Trace(img, Complex())
		if err != nil {
			t.Fatalf("Trace() error = %v", err)
		}

		coverage := make([]int, 600*450)
		for _, tile := range root.Tiles() {
			r := tile.Region
			for y := r.Top; y < r.Bottom; y++ {
				for x := r.Left; x < r.Right; x++ {
					coverage[y*600+x]++
					got := img.RGBAAt(x, y)
					border := y == r.Top || y == r.Bottom-1 || x == r.Left || x == r.Right-1
					if border && got != Black {
						t.Fatalf("seed %d tile %v: border pixel (%d,%d) = %v, want black", seed, r, x, y, got)
					}
					if !border && got != tile.Color {
						t.Fatalf("seed %d tile %v: interior pixel (%d,%d) = %v, want %v", seed, r, x, y, got, tile.Color)
					}
				}
			}
			if tile.Color == Black {
				t.Fatalf("seed %d tile %v filled with black", seed, r)
			}
		}
		for i, n := range coverage {
			if n != 1 {
				t.Fatalf("seed %d pixel (%d,%d) covered %d times, want 1", seed, i%600, i/600, n)
			}
		}
	}
}

func TestTraceChildrenShrink(t *testing.T) {
	root, err := NewPainter(WithSeed(3)).Trace(filledCanvas(800, 800), Basic())
	if err != nil {
		t.Fatalf("Trace() error = %v", err)
	}
	root.Walk(func(n *Node) bool {
		for _, c := range n.Children {
			if c.Depth != n.Depth+1 {
				t.Errorf("child depth = %d, parent depth = %d", c.Depth, n.Depth)
			}
			if c.Region.Width() >= n.Region.Width() && c.Region.Height() >= n.Region.Height() {
				t.Errorf("child %v not smaller than parent %v", c.Region, n.Region)
			}
			if c.Region.Empty() {
				t.Errorf("empty child region %v", c.Region)
			}
		}
		if !n.Leaf() && len(n.Children) != 2 && len(n.Children) != 4 {
			t.Errorf("node %v has %d children", n.Region, len(n.Children))
		}
		return true
	})
}

func TestPaintTerminatesOnLargeCanvas(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping 10000x10000 paint in short mode")
	}
	canvas := &countingCanvas{bounds: image.Rect(0, 0, 10000, 10000)}
	root, err := NewPainter(WithSeed(99)).Trace(canvas, Basic())
	if err != nil {
		t.Fatalf("Trace() error = %v", err)
	}
	if canvas.sets != 10000*10000 {
		t.Errorf("pixel writes = %d, want %d", canvas.sets, 10000*10000)
	}
	// Each level shrinks some axis by at least padding/2, so depth is bounded
	// by the two spans that must be shed before both drop below a quarter.
	if limit := 2 * (10000 - 10000/4) / (DefaultPadding / 2); root.MaxDepth() > limit {
		t.Errorf("depth = %d, exceeds bound %d", root.MaxDepth(), limit)
	}
}

func TestPaintLowerBoundScenario(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		hash     string
		colors   map[color.RGBA]int
	}{
		{
			name:     "basic",
			strategy: Basic(),
			hash:     "98a93203b64683c9506ea06e3ba380f9c62c9052f2044181ce65652ffa54e9df",
			colors:   map[color.RGBA]int{Red: 576},
		},
		{
			name:     "complex",
			strategy: Complex(),
			hash:     "1ae193ef35f8847f8513d45fae4ce9f23f8977eacf2581d54a6ffbdceda4e188",
			colors:   map[color.RGBA]int{Red: 360, Teal: 216},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := filledCanvas(300, 300)
			root, err := NewPainter(WithRand(lowerBound{})).Trace(img, tt.strategy)
			if err != nil {
				t.Fatalf("Trace() error = %v", err)
			}

			tiles := root.Tiles()
			if len(tiles) != 576 {
				t.Fatalf("tiles = %d, want 576", len(tiles))
			}
			if d := root.MaxDepth(); d != 23 {
				t.Errorf("MaxDepth() = %d, want 23", d)
			}

			wantFirst := []Region{
				{Left: 0, Right: 10, Top: 0, Bottom: 10},
				{Left: 0, Right: 10, Top: 10, Bottom: 20},
				{Left: 0, Right: 10, Top: 20, Bottom: 30},
			}
			for i, want := range wantFirst {
				if tiles[i].Region != want {
					t.Errorf("tile %d = %v, want %v", i, tiles[i].Region, want)
				}
			}
			wantLast := Region{Left: 230, Right: 300, Top: 230, Bottom: 300}
			if last := tiles[len(tiles)-1].Region; last != wantLast {
				t.Errorf("last tile = %v, want %v", last, wantLast)
			}

			got := map[color.RGBA]int{}
			for _, tile := range tiles {
				got[tile.Color]++
			}
			for c, n := range tt.colors {
				if got[c] != n {
					t.Errorf("tiles colored %s = %d, want %d", Hex(c), got[c], n)
				}
			}

			if h := pixHash(img); h != tt.hash {
				t.Errorf("pixel hash = %s, want %s", h, tt.hash)
			}
		})
	}
}

func TestPaintWidePaddingStopsEarly(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		padding int
		want    []Region
	}{
		{
			name:    "both axes exhausted",
			w:       300,
			h:       300,
			padding: 200,
			want: []Region{
				{Left: 0, Right: 100, Top: 0, Bottom: 100},
				{Left: 0, Right: 100, Top: 100, Bottom: 300},
				{Left: 100, Right: 300, Top: 0, Bottom: 100},
				{Left: 100, Right: 300, Top: 100, Bottom: 300},
			},
		},
		{
			// The bottom-left quadrant is tall enough to split on Y, but its
			// width leaves no room on X, so it stays whole.
			name:    "one axis exhausted",
			w:       300,
			h:       600,
			padding: 250,
			want: []Region{
				{Left: 0, Right: 125, Top: 0, Bottom: 125},
				{Left: 0, Right: 125, Top: 125, Bottom: 600},
				{Left: 125, Right: 300, Top: 0, Bottom: 125},
				{Left: 125, Right: 300, Top: 125, Bottom: 600},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img := filledCanvas(tt.w, tt.h)
			root, err := NewPainter(WithRand(lowerBound{}), WithPadding(tt.padding)).Trace(img, Basic())
			if err != nil {
				t.Fatalf("Trace() error = %v", err)
			}

			tiles := root.Tiles()
			if len(tiles) != len(tt.want) {
				t.Fatalf("tiles = %d, want %d", len(tiles), len(tt.want))
			}
			for i := range tt.want {
				if tiles[i].Region != tt.want[i] {
					t.Errorf("tile %d = %v, want %v", i, tiles[i].Region, tt.want[i])
				}
			}
		})
	}
}

func TestPaintOffsetBounds(t *testing.T) {
	parent := filledCanvas(500, 500)
	sub := parent.SubImage(image.Rect(100, 50, 450, 400)).(*image.RGBA)

	if err := NewPainter(WithSeed(5)).PaintBasic(sub); err != nil {
		t.Fatalf("PaintBasic() error = %v", err)
	}

	for y := 0; y < 500; y++ {
		for x := 0; x < 500; x++ {
			got := parent.RGBAAt(x, y)
			inside := image.Pt(x, y).In(sub.Bounds())
			if !inside && got != sentinel {
				t.Fatalf("pixel (%d,%d) outside sub-canvas changed to %v", x, y, got)
			}
			if inside && got != Black && !BasicPalette.Contains(got) {
				t.Fatalf("pixel (%d,%d) = %v not in palette", x, y, got)
			}
		}
	}
	// The sub-canvas's own corner is a border pixel.
	if got := parent.RGBAAt(100, 50); got != Black {
		t.Errorf("sub-canvas corner = %v, want black", got)
	}
}

func TestPaintGenericCanvas(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 320, 320))
	if err := NewPainter(WithSeed(11)).PaintComplex(img); err != nil {
		t.Fatalf("PaintComplex() error = %v", err)
	}

	palette := Palettes(Complex())
	for y := 0; y < 320; y++ {
		for x := 0; x < 320; x++ {
			c := color.RGBAModel.Convert(img.At(x, y)).(color.RGBA)
			if c != Black && !palette.Contains(c) {
				t.Fatalf("pixel (%d,%d) = %v not in palette", x, y, c)
			}
		}
	}
}

func assertPalette(t *testing.T, img *image.RGBA, p Palette) {
	t.Helper()
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.RGBAAt(x, y)
			if c != Black && !p.Contains(c) {
				t.Fatalf("pixel (%d,%d) = %v is neither black nor in palette", x, y, c)
			}
		}
	}
}
