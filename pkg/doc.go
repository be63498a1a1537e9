// Package pkg provides the libraries behind mondrian, a generator of
// Mondrian-style compositions.
//
// # Overview
//
// The canvas is split recursively at random points into a grid of
// rectangles. Each terminal rectangle gets a one-pixel black outline and a
// fill color picked by a coloring strategy. The pkg directory is organized
// into:
//
//  1. [mondrian] - Domain logic (subdivision, strategies, palettes)
//  2. [render] - Output (raster encoders, partition diagrams)
//  3. [pipeline] - Orchestration (paint → render, with caching)
//  4. [cache] - Artifact storage (file, Redis, null)
//  5. [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Architecture
//
//	pipeline.Options
//	       ↓
//	  [mondrian] Painter (subdivide + fill, optional partition tree)
//	       ↓
//	  [render/sink] PNG/JPEG/BMP/TIFF    [render/partition] DOT/SVG
//	       ↓
//	  [cache] keyed by every option that changes the bytes
//
// # Quick Start
//
//	canvas := image.NewRGBA(image.Rect(0, 0, 800, 600))
//	p := mondrian.NewPainter(mondrian.WithSeed(42))
//	if err := p.PaintComplex(canvas); err != nil {
//	    log.Fatal(err)
//	}
//	data, _ := sink.Encode(canvas, sink.FormatPNG)
//
// Or, for the full pipeline with caching:
//
//	runner := pipeline.NewRunner(cache.NewNullCache(), nil, nil)
//	res, err := runner.Execute(ctx, pipeline.Options{Seed: 42, Formats: []string{"png", "svg"}})
package pkg
