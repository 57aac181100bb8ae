package builder

import (
	"context"
	"fmt"

	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"github.com/chessconf/core/analyzer"
	"github.com/chessconf/core/position"
	"github.com/chessconf/core/tree"
)

// LeafSelection picks which extendable leaves a single extension round
// considers.
type LeafSelection int

const (
	// BelowBaselineOnly selects leaves whose effective confidence is
	// under the baseline.
	BelowBaselineOnly LeafSelection = iota
	// AllLeaves selects every extendable leaf, used when the caller
	// explicitly requested a confidence raise that may widen even
	// already-green leaves (spec.md §4.3 "Leaf selection").
	AllLeaves
)

// extendableLeaves returns every node with no children, a set
// initial_confidence, and ply_index < P_max, filtered by sel.
func extendableLeaves(store *tree.Store, cfg Config, sel LeafSelection) []*tree.Node {
	var out []*tree.Node
	for _, n := range store.All() {
		if len(store.ChildrenOf(n.ID())) > 0 {
			continue
		}
		if _, ok := n.InitialConfidence(); !ok {
			continue
		}
		if n.PlyIndex() >= cfg.MaxPlyFromS0 {
			continue
		}
		if sel == BelowBaselineOnly && n.Confidence() >= cfg.Baseline {
			continue
		}
		out = append(out, n)
	}
	return out
}

// leafBoard reconstructs the position a node represents by parsing the
// node's stored FEN. Extension and the board the leaf was evaluated at
// are always in sync because the builder is the only writer of a Store
// within one computation (spec.md §5).
func leafBoard(store *tree.Store, n *tree.Node) (position.Position, error) {
	fen := n.FEN()
	pos, err := position.FromFEN(fen)
	if err != nil {
		return position.Position{}, errors.Wrapf(err, "rebuild board for leaf %s", n.ID())
	}
	return pos, nil
}

// extendLeaf grows a chain of up to cfg.ExtensionChainLength descendants
// below leaf by repeatedly taking the depth-D best move, per spec.md
// §4.3 "Extending one leaf". It stops early on a terminal board, an
// empty PV, hitting P_max, or exhausting the node budget.
func extendLeaf(ctx context.Context, az analyzer.EngineAnalyzer, store *tree.Store, leaf *tree.Node, s0Side chess.Color, cfg Config) (bool, error) {
	cursor := leaf
	board, err := leafBoard(store, leaf)
	if err != nil {
		return false, err
	}

	grew := false
	for step := 1; step <= cfg.ExtensionChainLength; step++ {
		if cursor.PlyIndex() >= cfg.MaxPlyFromS0 || board.IsTerminal() {
			break
		}
		if store.Len() >= cfg.MaxNodesGlobal {
			cfg.logger().Warn("max_nodes_global reached during extension", "leaf", leaf.ID())
			break
		}

		pv, err := az.AnalysePV(ctx, board, cfg.Depth, 1)
		if err != nil {
			return grew, errors.Wrapf(err, "analyse_pv for extension of leaf %s", leaf.ID())
		}
		if len(pv.Moves) == 0 {
			break
		}
		m := pv.Moves[0]

		nextBoard, err := board.Push(m)
		if err != nil {
			break
		}
		if nextBoard.IsTerminal() {
			break
		}

		ext, err := evaluateExtensionStep(ctx, az, board, nextBoard, pv.ScoreCP, s0Side, cfg)
		if err != nil {
			return grew, errors.Wrapf(err, "evaluate extension step for leaf %s", leaf.ID())
		}

		newID := fmt.Sprintf("%s-d%d-%d", cursor.ID(), cfg.Depth, cursor.PlyIndex()+1)
		node := tree.NewNode(newID, cursor.ID(), nextBoard.FEN(), position.UCI(m), cursor.PlyIndex()+1, tree.RoleExtension, tree.ShapeCircle)
		store.Insert(node)
		store.SetInitialConfidence(node, ext.confidence, cfg.Baseline)

		cursor.AddTag("extended")
		cursor.SetMetadata("extended_via", newID)

		grew = true
		cursor = node
		board = nextBoard
	}
	return grew, nil
}

// Extend runs spec.md §4.3's extension loop: select leaves, extend each,
// run Propagate over the whole store, then reselect and repeat until no
// leaf qualifies, no leaf grew in a round, or the iteration cap is
// reached. It is
// only called when cfg.Branch is set.
func Extend(ctx context.Context, az analyzer.EngineAnalyzer, store *tree.Store, s0Side chess.Color, cfg Config, sel LeafSelection) error {
	for iter := 0; iter < cfg.ExtensionIterationCap; iter++ {
		leaves := extendableLeaves(store, cfg, sel)
		if len(leaves) == 0 {
			return nil
		}

		grewAny := false
		for _, leaf := range leaves {
			grew, err := extendLeaf(ctx, az, store, leaf, s0Side, cfg)
			if err != nil {
				cfg.logger().Warn("extension failed for leaf, continuing with others", "leaf", leaf.ID(), "error", err)
				continue
			}
			if grew {
				grewAny = true
			}
		}

		Propagate(store, cfg.Baseline)

		if !grewAny {
			return nil
		}
	}
	cfg.logger().Warn("extension iteration cap reached", "cap", cfg.ExtensionIterationCap)
	return nil
}
