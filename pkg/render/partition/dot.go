package partition

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/mondrian/pkg/errors"
	"github.com/matzehuels/mondrian/pkg/mondrian"
)

// Options configures partition diagram rendering.
type Options struct {
	// Detailed adds tile size and depth to each label.
	// When false, only the region bounds are shown.
	Detailed bool

	// MaxDepth prunes nodes deeper than this level. Zero keeps everything.
	MaxDepth int
}

// ToDOT converts a partition tree to Graphviz DOT. Node IDs follow
// visiting order ("n0" is the whole canvas). A nil root yields an empty graph.
func ToDOT(root *mondrian.Node, opts Options) string {
	var nodes, edges bytes.Buffer
	ids := make(map[*mondrian.Node]string)

	root.Walk(func(n *mondrian.Node) bool {
		id := "n" + strconv.Itoa(len(ids))
		ids[n] = id
		fmt.Fprintf(&nodes, "  %s [%s];\n", id, strings.Join(fmtAttrs(n, opts), ", "))
		if opts.MaxDepth > 0 && n.Depth >= opts.MaxDepth {
			return false
		}
		return true
	})

	root.Walk(func(n *mondrian.Node) bool {
		if _, ok := ids[n]; !ok {
			return false
		}
		for _, c := range n.Children {
			if cid, ok := ids[c]; ok {
				fmt.Fprintf(&edges, "  %s -> %s;\n", ids[n], cid)
			}
		}
		return true
	})

	var buf bytes.Buffer
	buf.WriteString("digraph partition {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=filled, fillcolor=white, fontname=\"monospace\", fontsize=10];\n")
	buf.WriteString("  edge [arrowsize=0.5];\n")
	buf.WriteString("\n")
	buf.Write(nodes.Bytes())
	buf.WriteString("\n")
	buf.Write(edges.Bytes())
	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n *mondrian.Node, detailed bool) string {
	label := n.Region.String()
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\n%dx%d depth %d", label, n.Region.Width(), n.Region.Height(), n.Depth)
}

func fmtAttrs(n *mondrian.Node, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
	if n.Leaf() {
		attrs = append(attrs, fmt.Sprintf("fillcolor=%q", mondrian.Hex(n.Color)), "penwidth=2")
	} else {
		attrs = append(attrs, "style=\"filled,dashed\"", "fillcolor=lightgrey")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a
// zero-origin viewBox so the diagram scales cleanly in browsers.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
