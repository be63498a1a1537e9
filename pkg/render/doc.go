// Package render groups the output stages of mondrian.
//
// Subpackages:
//   - [sink]: encode a painted canvas as PNG, JPEG, BMP or TIFF, with
//     nearest-neighbour upscaling
//   - [partition]: describe the subdivision tree as Graphviz DOT and render
//     it to SVG
//
// Painting itself lives in package mondrian; this package only turns its
// results into bytes.
package render
