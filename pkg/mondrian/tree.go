package mondrian

import "image/color"

// Node is one region visited during subdivision. Inner nodes have two or four
// children in visiting order; leaves are the filled tiles.
type Node struct {
	Region   Region
	Depth    int
	Children []*Node
	Color    color.RGBA // fill color, set on leaves only
}

// Leaf reports whether the node is a terminal tile.
func (n *Node) Leaf() bool { return len(n.Children) == 0 }

// Walk visits n and its descendants depth-first, parents before children.
// Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Tiles returns the leaves in fill order.
func (n *Node) Tiles() []*Node {
	var tiles []*Node
	n.Walk(func(c *Node) bool {
		if c.Leaf() {
			tiles = append(tiles, c)
		}
		return true
	})
	return tiles
}

// MaxDepth returns the depth of the deepest leaf below n.
func (n *Node) MaxDepth() int {
	depth := 0
	n.Walk(func(c *Node) bool {
		depth = max(depth, c.Depth)
		return true
	})
	return depth
}
