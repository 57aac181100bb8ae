package builder

import (
	"context"
	"strconv"

	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"github.com/chessconf/core/analyzer"
	"github.com/chessconf/core/position"
	"github.com/chessconf/core/tree"
)

// MoveError wraps an invalid or illegal move_san supplied to Build. It is
// the one caller-facing validation error spec.md §7 names.
type MoveError struct {
	cause error
	san   string
}

func (e *MoveError) Error() string {
	return errors.Wrapf(e.cause, "invalid move %q", e.san).Error()
}

func (e *MoveError) Unwrap() error { return e.cause }

// Result is what Build hands back to the root confidence package: the
// resolved S0/played positions it needed anyway to answer
// compute_position_confidence-style queries, plus the depth-2 preference
// map used by widening later.
type Result struct {
	StartPos       position.Position
	PlayedPos      position.Position
	PlayedMove     *chess.Move
	PreferenceMap  map[string]int // uci -> rank
	PlayedDepth2   int
	BestDepth2     int
}

// Build runs spec.md §4.3's build phase: root, played-move, best-move
// (fused into played-move when they coincide), preference ranking,
// alternatives, then a final propagation pass. It is only invoked when
// no valid existing_nodes were supplied (builder.LoadExisting returned
// false) - see builder/incremental.go.
func Build(ctx context.Context, az analyzer.EngineAnalyzer, store *tree.Store, startFEN, moveSAN string, cfg Config) (*Result, error) {
	startPos, err := position.FromFEN(startFEN)
	if err != nil {
		return nil, errors.Wrap(err, "parse start_fen")
	}
	s0Side := startPos.Turn()

	playedMove, playedPos, err := startPos.ResolveSAN(moveSAN)
	if err != nil {
		return nil, &MoveError{cause: err, san: moveSAN}
	}

	// Step 1: root node.
	rootEval, err := evaluateNode(ctx, az, startPos, s0Side, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate root")
	}
	root := tree.NewNode(tree.StartID, "", startPos.FEN(), "", 0, tree.RoleStart, tree.ShapeSquare)
	store.Insert(root)
	store.SetInitialConfidence(root, rootEval.confidence, cfg.Baseline)

	// Step 2 (evaluation only - node creation deferred until we know
	// whether step 3 fuses played-move with best-move, mirroring the
	// source's "played_move_node.initial_confidence is None" gate).
	playedEval, err := evaluateNode(ctx, az, playedPos, s0Side, cfg)
	if err != nil {
		return nil, errors.Wrap(err, "evaluate played move")
	}

	// Step 3: depth-D best move is the first move of the root's own
	// depth-D PV (the PV that was walked to compute rootEval).
	var bestMove *chess.Move
	var bestPos position.Position
	var bestEval evaluation
	hasBest := len(rootEval.pv) > 0
	if hasBest {
		bestMove = rootEval.pv[0]
		bestPos, err = startPos.Push(bestMove)
		if err != nil {
			hasBest = false
		} else {
			bestEval, err = evaluateNode(ctx, az, bestPos, s0Side, cfg)
			if err != nil {
				return nil, errors.Wrap(err, "evaluate best move")
			}
		}
	}

	fused := hasBest && bestPos.FEN() == playedPos.FEN()

	played := tree.NewNode(tree.PlayedMoveID, tree.StartID, playedPos.FEN(), position.UCI(playedMove), 1, tree.RolePlayed, tree.ShapeTriangle)
	store.Insert(played)

	if fused {
		played.SetRole(tree.RolePlayedBest)
		played.SetShape(tree.ShapeSquare)
		fusedConf := playedEval.confidence
		if bestEval.confidence > fusedConf {
			fusedConf = bestEval.confidence
		}
		store.SetInitialConfidence(played, fusedConf, cfg.Baseline)
	} else {
		store.SetInitialConfidence(played, playedEval.confidence, cfg.Baseline)
		if hasBest {
			best := tree.NewNode(tree.BestMoveID, tree.StartID, bestPos.FEN(), position.UCI(bestMove), 1, tree.RoleBest, tree.ShapeSquare)
			store.Insert(best)
			store.SetInitialConfidence(best, bestEval.confidence, cfg.Baseline)
		}
	}

	// Step 4: preference ranking.
	ranked, rankErr := rankLegalMoves(ctx, az, startPos, cfg)
	if rankErr != nil {
		cfg.logger().Warn("preference ranking had partial failures", "error", rankErr)
	}
	prefMap := make(map[string]int, len(ranked))
	var playedDepth2, bestDepth2 int
	playedUCI := position.UCI(playedMove)
	var bestUCI string
	if hasBest {
		bestUCI = position.UCI(bestMove)
	}
	for _, r := range ranked {
		uci := position.UCI(r.Move)
		prefMap[uci] = r.Preference
		if uci == playedUCI {
			playedDepth2 = r.ScoreCP
		}
		if hasBest && uci == bestUCI {
			bestDepth2 = r.ScoreCP
		}
	}
	if pn, ok := prefMap[playedUCI]; ok {
		store.SetPreferenceNumber(played, pn)
	}

	// Step 5: alternatives.
	threshold := playedDepth2
	if bestDepth2 > threshold {
		threshold = bestDepth2
	}
	threshold += cfg.Delta2

	added := 0
	for _, r := range ranked {
		if added >= cfg.AltMax {
			break
		}
		if store.Len() >= cfg.MaxNodesGlobal {
			cfg.logger().Warn("max_nodes_global reached during alternatives", "max", cfg.MaxNodesGlobal)
			break
		}
		uci := position.UCI(r.Move)
		if uci == playedUCI || (hasBest && uci == bestUCI) {
			continue
		}
		if r.ScoreCP <= threshold {
			continue
		}
		altPos, err := startPos.Push(r.Move)
		if err != nil {
			continue
		}
		altEval, err := evaluateNode(ctx, az, altPos, s0Side, cfg)
		if err != nil {
			cfg.logger().Warn("alternative evaluation failed, skipping", "move", uci, "error", err)
			continue
		}
		alt := tree.NewNode(altID(added), tree.StartID, altPos.FEN(), uci, 1, tree.RoleAlternative, tree.ShapeCircle)
		store.Insert(alt)
		store.SetInitialConfidence(alt, altEval.confidence, cfg.Baseline)
		store.SetPreferenceNumber(alt, r.Preference)
		added++
	}

	// Step 6: root confidence update via propagation.
	Propagate(store, cfg.Baseline)

	return &Result{
		StartPos:      startPos,
		PlayedPos:     playedPos,
		PlayedMove:    playedMove,
		PreferenceMap: prefMap,
		PlayedDepth2:  playedDepth2,
		BestDepth2:    bestDepth2,
	}, nil
}

func altID(i int) string {
	return "alt-" + strconv.Itoa(i)
}
