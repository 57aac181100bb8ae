package builder

import (
	"sort"

	"github.com/chessconf/core/tree"
)

// Propagate visits nodes in order of decreasing ply_index and sets
// transferred_confidence on every node with at least one child to the
// min over its children's effective confidence (spec.md §4.3
// "Propagation"). The root is always eventually visited since it has
// the smallest ply_index (0) and is processed last.
func Propagate(store *tree.Store, baseline int) {
	nodes := store.All()
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].PlyIndex() > nodes[j].PlyIndex()
	})

	for _, n := range nodes {
		children := store.ChildrenOf(n.ID())
		if len(children) == 0 {
			continue
		}
		min := children[0].Confidence()
		for _, c := range children[1:] {
			if v := c.Confidence(); v < min {
				min = v
			}
		}
		store.SetTransferredConfidence(n, min, baseline)
	}
}
