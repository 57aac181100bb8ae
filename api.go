package confidence

import (
	"context"

	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"github.com/chessconf/core/analyzer"
	"github.com/chessconf/core/builder"
	"github.com/chessconf/core/position"
	"github.com/chessconf/core/tree"
)

// ComputeMoveConfidence is the root entry point of spec.md §6.2's
// compute_move_confidence: given a starting position and a played move,
// it builds (or, in incremental mode, extends) a confidence tree and
// returns its serialized payload.
//
// If opts.ExistingNodes is non-nil and validates against start_fen
// (builder.LoadExisting), the build phase is skipped entirely and only
// extension + propagation run (spec.md §4.3 "Incremental mode"). An
// invalid ExistingNodes set is rejected in full, logged, and the call
// falls back to a full build - it is never a caller-facing error.
//
// An unparsable start_fen or an invalid SAN/UCI move_san are the
// caller-facing validation errors this returns (both as *MoveError);
// every analyzer failure yields a neutral
// payload (or, in incremental mode, the loaded tree unchanged) with a
// nil error.
func ComputeMoveConfidence(ctx context.Context, az analyzer.EngineAnalyzer, startFEN, moveSAN string, opts Options) (Payload, error) {
	cfg := opts.resolve()
	logger := opts.logger()

	startPos, err := position.FromFEN(startFEN)
	if err != nil {
		return Payload{}, &MoveError{cause: errors.Wrapf(err, "invalid start_fen %q", startFEN)}
	}
	s0Side := startPos.Turn()

	playedMove, playedPos, err := startPos.ResolveSAN(moveSAN)
	if err != nil {
		return Payload{}, &MoveError{cause: err}
	}

	store, result, usedIncremental, err := loadOrBuild(ctx, az, startFEN, moveSAN, playedMove, playedPos, opts, cfg)
	if err != nil {
		if _, isMove := err.(*MoveError); isMove {
			return Payload{}, err
		}
		if usedIncremental {
			logger.Warn("analyzer failure in incremental mode, returning loaded tree unchanged", "error", err)
			return buildPayload(store, caps{maxNodesGlobal: cfg.MaxNodesGlobal}, nil), nil
		}
		logger.Warn("analyzer failure building initial tree, returning neutral payload", "error", err)
		return neutralPayload(cfg.MaxNodesGlobal), nil
	}

	if cfg.Branch {
		var ranked []position.RankedMove
		var playedDepth2 int
		if result != nil {
			playedDepth2 = result.PlayedDepth2
			if prefRanked, rankErr := rebuildRanked(ctx, az, startPos, cfg); rankErr == nil {
				ranked = prefRanked
			}
		}

		missingPreference := 0
		if ranked != nil {
			existing := make(map[string]bool)
			for _, c := range store.ChildrenOf(tree.StartID) {
				existing[c.Move()] = true
			}
			for _, r := range ranked {
				if !existing[position.UCI(r.Move)] {
					missingPreference++
				}
			}
		}

		strategy := builder.ChooseStrategy(store, missingPreference, cfg)
		if strategy == builder.StrategyWidth && ranked != nil {
			if err := builder.Widen(ctx, az, store, startPos, s0Side, playedDepth2, ranked, cfg); err != nil {
				logger.Warn("widening failed, continuing with depth extension", "error", err)
			}
		}

		sel := builder.BelowBaselineOnly
		if err := builder.Extend(ctx, az, store, s0Side, cfg, sel); err != nil {
			logger.Warn("extension failed", "error", err)
		}
		if strategy != builder.StrategyWidth && ranked != nil {
			if err := builder.Widen(ctx, az, store, startPos, s0Side, playedDepth2, ranked, cfg); err != nil {
				logger.Warn("widening failed", "error", err)
			}
		}
	}

	builder.Propagate(store, cfg.Baseline)

	return buildPayload(store, caps{maxNodesGlobal: cfg.MaxNodesGlobal}, nil), nil
}

// ComputePositionConfidence implements spec.md §6.2's
// compute_position_confidence: it picks the engine's own best move from
// start_fen and delegates to ComputeMoveConfidence.
func ComputePositionConfidence(ctx context.Context, az analyzer.EngineAnalyzer, startFEN string, opts Options) (Payload, error) {
	cfg := opts.resolve()

	startPos, err := position.FromFEN(startFEN)
	if err != nil {
		return Payload{}, &MoveError{cause: errors.Wrapf(err, "invalid start_fen %q", startFEN)}
	}

	pv, err := az.AnalysePV(ctx, startPos, cfg.Depth, 1)
	if err != nil || len(pv.Moves) == 0 {
		if err == nil {
			err = errors.New("analyzer returned no principal variation for position confidence")
		}
		opts.logger().Warn("analyzer failure picking best move for position confidence", "error", err)
		return neutralPayload(cfg.MaxNodesGlobal), nil
	}

	bestMove := pv.Moves[0]
	return ComputeMoveConfidence(ctx, az, startFEN, position.UCI(bestMove), opts)
}

// loadOrBuild resolves incremental-vs-full-build: it tries
// builder.LoadExisting first, falling back to builder.Build when no
// usable existing tree was supplied or its identity did not match
// (spec.md §4.3 "Incremental mode" step 1).
func loadOrBuild(ctx context.Context, az analyzer.EngineAnalyzer, startFEN, moveSAN string, playedMove *chess.Move, playedPos position.Position, opts Options, cfg builder.Config) (*tree.Store, *builder.Result, bool, error) {
	if opts.ExistingNodes != nil {
		want := builder.Identity{
			StartFEN:       startFEN,
			PlayedMoveUCI:  position.UCI(playedMove),
			FENAfterPlayed: playedPos.FEN(),
		}
		if store, ok := builder.LoadExisting(opts.ExistingNodes, want, cfg.Baseline, opts.logger()); ok {
			return store, nil, true, nil
		}
		opts.logger().Warn("existing_nodes rejected, falling back to full build", "start_fen", startFEN)
	}

	store := tree.NewStore()
	result, err := builder.Build(ctx, az, store, startFEN, moveSAN, cfg)
	if err != nil {
		return store, nil, false, asMoveError(err)
	}
	return store, result, false, nil
}

// rebuildRanked recomputes the depth-2 preference ranking used by
// widening. builder.Build already computed this once internally but
// does not export the ranked slice (only the resolved preference map),
// so widening - an optional, later phase - recomputes it against the
// same analyzer. This mirrors the source, which re-ranks for widening
// rather than threading the first ranking through every call site.
func rebuildRanked(ctx context.Context, az analyzer.EngineAnalyzer, startPos position.Position, cfg builder.Config) ([]position.RankedMove, error) {
	return position.EnumerateAndRank(ctx, startPos, func(ctx context.Context, mover position.Position, candidate *chess.Move, resulting position.Position) (int, error) {
		pv, err := az.AnalysePV(ctx, resulting, 2, 0)
		if err != nil {
			return 0, err
		}
		return position.Normalize(pv.ScoreCP, resulting.Turn(), mover.Turn()), nil
	})
}
