package builder

import (
	"context"
	"strconv"

	"github.com/notnil/chess"

	"github.com/chessconf/core/analyzer"
	"github.com/chessconf/core/position"
	"github.com/chessconf/core/tree"
)

// Widen implements spec.md §4.3 "Widening (width expansion)": it adds
// additional alternative children to "start" for ranked moves that are
// not already children of "start" and whose depth-2 S0-normalized score
// is not worse than playedDepth2 - Δ2.
//
// It takes the preference ranking as an argument (ranked) rather than
// computing it itself. The cap on how many it adds is
// max(cfg.WidthAddLimit, len(missing)) - which in practice removes any
// real cap once there are missing moves to add. This reproduces the
// source faithfully per spec.md §9's Open Question ("this may be
// intentional or a bug"); it is flagged, not corrected (see DESIGN.md).
//
// ComputeMoveConfidence calls Widen at most once per computation, before
// the final propagation pass: ahead of depth extension when
// ChooseStrategy picks StrategyWidth, after it otherwise.
func Widen(ctx context.Context, az analyzer.EngineAnalyzer, store *tree.Store, startPos position.Position, s0Side chess.Color, playedDepth2 int, ranked []position.RankedMove, cfg Config) error {
	existingMoves := make(map[string]bool)
	for _, child := range store.ChildrenOf(tree.StartID) {
		existingMoves[child.Move()] = true
	}

	threshold := playedDepth2 - cfg.Delta2

	type missing struct {
		r position.RankedMove
	}
	var candidates []missing
	for _, r := range ranked {
		uci := position.UCI(r.Move)
		if existingMoves[uci] {
			continue
		}
		if r.ScoreCP < threshold {
			continue
		}
		candidates = append(candidates, missing{r})
	}

	limit := cfg.WidthAddLimit
	if len(candidates) > limit {
		limit = len(candidates)
	}

	added := 0
	for _, c := range candidates {
		if added >= limit {
			break
		}
		if store.Len() >= cfg.MaxNodesGlobal {
			cfg.logger().Warn("max_nodes_global reached during widening", "max", cfg.MaxNodesGlobal)
			break
		}

		altPos, err := startPos.Push(c.r.Move)
		if err != nil {
			continue
		}
		eval, err := evaluateNode(ctx, az, altPos, s0Side, cfg)
		if err != nil {
			cfg.logger().Warn("widening evaluation failed, skipping", "move", position.UCI(c.r.Move), "error", err)
			continue
		}

		nextIndex := len(store.ChildrenOf(tree.StartID))
		alt := tree.NewNode("alt-"+strconv.Itoa(nextIndex), tree.StartID, altPos.FEN(), position.UCI(c.r.Move), 1, tree.RoleAlternative, tree.ShapeCircle)
		store.Insert(alt)
		store.SetInitialConfidence(alt, eval.confidence, cfg.Baseline)
		store.SetPreferenceNumber(alt, c.r.Preference)
		added++
	}

	return nil
}
