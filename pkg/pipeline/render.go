package pipeline

import (
	"context"
	"image"

	"github.com/matzehuels/mondrian/pkg/errors"
	"github.com/matzehuels/mondrian/pkg/mondrian"
	"github.com/matzehuels/mondrian/pkg/render/partition"
	"github.com/matzehuels/mondrian/pkg/render/sink"
)

// Paint subdivides a fresh canvas according to opts using seed.
func Paint(opts Options, seed uint64) (*image.RGBA, *mondrian.Node, error) {
	s, err := opts.Strategy()
	if err != nil {
		return nil, nil, err
	}
	p := mondrian.NewPainter(
		mondrian.WithSeed(seed),
		mondrian.WithPadding(opts.Padding),
		mondrian.WithMinCanvasSize(opts.MinCanvasSize),
		mondrian.WithLogger(opts.Logger),
	)
	canvas := image.NewRGBA(image.Rect(0, 0, opts.Width, opts.Height))
	root, err := p.Trace(canvas, s)
	if err != nil {
		return nil, nil, err
	}
	return canvas, root, nil
}

// RenderFormat encodes one artifact. Raster formats encode the canvas; dot
// and svg describe the partition tree.
func RenderFormat(ctx context.Context, canvas image.Image, root *mondrian.Node, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatPNG, FormatJPEG, FormatBMP, FormatTIFF:
		return sink.Encode(canvas, format, sink.WithScale(opts.Scale))
	case FormatDOT:
		return []byte(partition.ToDOT(root, opts.diagramOptions())), nil
	case FormatSVG:
		return partition.RenderSVG(ctx, partition.ToDOT(root, opts.diagramOptions()))
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported format: %s", format)
	}
}

func (o Options) diagramOptions() partition.Options {
	return partition.Options{Detailed: o.Detailed, MaxDepth: o.MaxDepth}
}
