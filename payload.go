package confidence

import (
	"github.com/chessconf/core/tree"
)

// Caps reports the node budget spent on this computation (spec.md §6.3
// "caps").
type Caps struct {
	GlobalNodesUsed int `json:"global_nodes_used"`
	MaxNodesGlobal  int `json:"max_nodes_global"`
}

// Stats reproduces the "stats" payload block the spec.md §6.3 table
// names but leaves uncontented - supplemented from
// backend/confidence_engine.py per SPEC_FULL.md §12.
type Stats struct {
	// PVLength is the number of extension nodes in the tree.
	PVLength int `json:"pv_length"`
	// Triangles counts square-shaped nodes (best/played-best).
	Triangles int `json:"triangles"`
	// RedPVNodes counts red-colored nodes along the direct
	// start -> played-move chain.
	RedPVNodes int `json:"red_pv_nodes"`
	// TotalNodes is the number of nodes in the tree.
	TotalNodes int `json:"total_nodes"`
}

// TreeSnapshot is a shallow dump of a tree's nodes at one point in a
// multi-phase computation (initial build, depth extension, width
// extension), kept for debugging per SPEC_FULL.md §12 "Snapshots".
// ComputeMoveConfidence does not record any: Payload.Snapshots is
// always empty.
type TreeSnapshot struct {
	Phase string              `json:"phase"`
	Nodes []tree.NodePayload  `json:"nodes"`
}

// Payload is the full serialized result of a compute_*_confidence call
// (spec.md §6.3).
type Payload struct {
	OverallConfidence int                `json:"overall_confidence"`
	LineConfidence    int                `json:"line_confidence"`
	EndConfidence     int                `json:"end_confidence"`
	LowestConfidence  int                `json:"lowest_confidence"`
	Nodes             []tree.NodePayload `json:"nodes"`
	Caps              Caps               `json:"caps"`
	Snapshots         []TreeSnapshot     `json:"snapshots"`
	Stats             Stats              `json:"stats"`
}

// neutralPayload is returned on an unrecoverable analyzer error while
// building the initial tree (spec.md §6.3 "A neutral payload").
func neutralPayload(maxNodesGlobal int) Payload {
	if maxNodesGlobal == 0 {
		maxNodesGlobal = 120
	}
	return Payload{
		OverallConfidence: 100,
		LineConfidence:    100,
		EndConfidence:     100,
		LowestConfidence:  100,
		Nodes:             nil,
		Caps:              Caps{GlobalNodesUsed: 0, MaxNodesGlobal: maxNodesGlobal},
		Snapshots:         nil,
		Stats:             Stats{},
	}
}

// buildPayload serializes store into the public Payload shape: nodes in
// insertion order, aggregate confidences derived over all nodes, caps
// and stats computed from the finished tree.
func buildPayload(store *tree.Store, cfg caps, snapshots []TreeSnapshot) Payload {
	nodes := store.All()
	payloadNodes := make([]tree.NodePayload, 0, len(nodes))
	for _, n := range nodes {
		payloadNodes = append(payloadNodes, store.ToPayload(n))
	}

	root, hasRoot := store.Get(tree.StartID)
	overall := 0
	if hasRoot {
		overall = root.Confidence()
	}

	line, end, lowest := 0, 0, 0
	if len(payloadNodes) > 0 {
		line = payloadNodes[0].ConfidencePercent
		end = payloadNodes[0].ConfidencePercent
		lowest = payloadNodes[0].ConfidencePercent
		for _, p := range payloadNodes[1:] {
			if p.ConfidencePercent < line {
				line = p.ConfidencePercent
			}
			if p.ConfidencePercent > end {
				end = p.ConfidencePercent
			}
			if p.ConfidencePercent < lowest {
				lowest = p.ConfidencePercent
			}
		}
	}

	return Payload{
		OverallConfidence: overall,
		LineConfidence:    line,
		EndConfidence:     end,
		LowestConfidence:  lowest,
		Nodes:             payloadNodes,
		Caps:              Caps{GlobalNodesUsed: store.Len(), MaxNodesGlobal: cfg.maxNodesGlobal},
		Snapshots:         snapshots,
		Stats:             computeStats(store, payloadNodes),
	}
}

type caps struct {
	maxNodesGlobal int
}

// computeStats derives SPEC_FULL.md §12's stats block from the finished
// tree: pv_length from the number of extension-role nodes, triangles
// from square-shaped nodes, red_pv_nodes from the direct
// start -> played-move chain, total_nodes from the node count.
func computeStats(store *tree.Store, payloadNodes []tree.NodePayload) Stats {
	triangles := 0
	for _, n := range store.All() {
		if n.Shape() == tree.ShapeSquare {
			triangles++
		}
	}

	redPV := 0
	cursor, ok := store.Get(tree.PlayedMoveID)
	for ok {
		if cursor.Color() == tree.ColorRed {
			redPV++
		}
		if cursor.ID() == tree.StartID {
			break
		}
		cursor, ok = store.Get(cursor.ParentID())
	}

	pvLength := 0
	for _, n := range store.All() {
		if n.Role() == tree.RoleExtension {
			pvLength++
		}
	}

	return Stats{
		PVLength:   pvLength,
		Triangles:  triangles,
		RedPVNodes: redPV,
		TotalNodes: len(payloadNodes),
	}
}
