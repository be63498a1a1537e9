// Package partition renders the subdivision tree of a painting as a
// Graphviz diagram.
//
// Every region visited by the painter becomes a node; inner nodes point to
// their two or four children in visiting order and leaves are filled with
// the tile's color. This makes it easy to see how deep a painting recursed
// and where the split points fell:
//
//	root, _ := painter.Trace(canvas, mondrian.Basic())
//	dot := partition.ToDOT(root, partition.Options{})
//	svg, err := partition.RenderSVG(ctx, dot)
//
// The DOT text is useful on its own (the "dot" output format); SVG rendering
// goes through the embedded WASM Graphviz build, so no system binary is
// required.
package partition
