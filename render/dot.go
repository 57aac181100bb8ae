// Package render draws a confidence tree snapshot for debugging: DOT
// export for graphviz, and a PNG rasterization of each node's shape
// and color display hints. Neither is consulted by the builder or the
// public API - both exist purely so the "display hint only" fields
// spec.md §3 assigns to shape/color have somewhere in the repo that
// actually draws them.
package render

import (
	"strconv"

	"github.com/awalterschulze/gographviz"
	"github.com/pkg/errors"

	"github.com/chessconf/core/tree"
)

// dotColor maps a tree.Color to a graphviz-recognized color name. The
// start node's permanent grey is rendered as "lightgrey" to stay
// visually distinct from a red/green leaf at a glance.
func dotColor(c tree.Color) string {
	switch c {
	case tree.ColorGreen:
		return "green"
	case tree.ColorRed:
		return "red"
	default:
		return "lightgrey"
	}
}

// dotShape maps a tree.Shape to a graphviz node shape.
func dotShape(s tree.Shape) string {
	switch s {
	case tree.ShapeSquare:
		return "square"
	case tree.ShapeTriangle:
		return "triangle"
	default:
		return "circle"
	}
}

// DOT renders nodes as a directed graphviz graph: one node per payload,
// one edge per parent_id link, labeled with id and confidence,
// colored/shaped from the node's display hints.
func DOT(nodes []tree.NodePayload) (string, error) {
	graph := gographviz.NewGraph()
	if err := graph.SetName("confidence"); err != nil {
		return "", errors.Wrap(err, "set graph name")
	}
	if err := graph.SetDir(true); err != nil {
		return "", errors.Wrap(err, "set graph directed")
	}

	for _, n := range nodes {
		attrs := map[string]string{
			"label":     quote(n.ID + "\\nconf=" + strconv.Itoa(n.ConfidencePercent)),
			"shape":     dotShape(n.Shape),
			"style":     quote("filled"),
			"fillcolor": dotColor(n.Color),
		}
		if err := graph.AddNode("confidence", quote(n.ID), attrs); err != nil {
			return "", errors.Wrapf(err, "add node %s", n.ID)
		}
	}
	for _, n := range nodes {
		if n.ParentID == nil {
			continue
		}
		if err := graph.AddEdge(quote(*n.ParentID), quote(n.ID), true, nil); err != nil {
			return "", errors.Wrapf(err, "add edge %s -> %s", *n.ParentID, n.ID)
		}
	}

	return graph.String(), nil
}

func quote(s string) string {
	return `"` + s + `"`
}
