package builder

import (
	"context"

	"github.com/notnil/chess"
	"github.com/pkg/errors"

	"github.com/chessconf/core/analyzer"
	"github.com/chessconf/core/position"
	"github.com/chessconf/core/scalar"
)

// evaluation is the four normalized centipawn scores a confidence
// computation needs, plus the PV used to reach the endpoint - the PV
// is reused by callers that need the depth-D best move (the build
// phase's step 3) without a second analyzer round trip.
type evaluation struct {
	sDeep, sShallow   int
	pvDeep, pvShallow int
	pv                []*chess.Move
	endpoint          position.Position
	confidence        int
}

// evaluateNode runs the four-analysis computation spec.md §4.3 steps 1-3
// describe for the root, played-move, best-move, alternative, and
// extension nodes alike: analyze pos at depth D and depth 2, walk the
// depth-D PV to its endpoint, analyze the endpoint at D and 2, normalize
// everything to s0Side, and fold into scalar.Confidence.
func evaluateNode(ctx context.Context, az analyzer.EngineAnalyzer, pos position.Position, s0Side chess.Color, cfg Config) (evaluation, error) {
	deep, err := az.AnalysePV(ctx, pos, cfg.Depth, 0)
	if err != nil {
		return evaluation{}, errors.Wrap(err, "analyse_pv at depth D")
	}
	shallowResult, err := az.AnalysePV(ctx, pos, 2, 0)
	if err != nil {
		return evaluation{}, errors.Wrap(err, "analyse_pv at depth 2")
	}

	sDeep := position.Normalize(deep.ScoreCP, pos.Turn(), s0Side)
	sShallow := position.Normalize(shallowResult.ScoreCP, pos.Turn(), s0Side)

	endpoint := position.WalkPV(pos, deep.Moves, 0)

	endpointDeep, err := az.AnalysePV(ctx, endpoint, cfg.Depth, 0)
	if err != nil {
		return evaluation{}, errors.Wrap(err, "analyse_pv endpoint at depth D")
	}
	endpointShallow, err := az.AnalysePV(ctx, endpoint, 2, 0)
	if err != nil {
		return evaluation{}, errors.Wrap(err, "analyse_pv endpoint at depth 2")
	}

	pvDeep := position.Normalize(endpointDeep.ScoreCP, endpoint.Turn(), s0Side)
	pvShallow := position.Normalize(endpointShallow.ScoreCP, endpoint.Turn(), s0Side)

	conf := scalar.Confidence(sDeep, sShallow, pvDeep, pvShallow)

	return evaluation{
		sDeep:      sDeep,
		sShallow:   sShallow,
		pvDeep:     pvDeep,
		pvShallow:  pvShallow,
		pv:         deep.Moves,
		endpoint:   endpoint,
		confidence: conf,
	}, nil
}

// extensionStep is spec.md §4.3 "Extending one leaf"'s one-step
// computation: unlike evaluateNode, the position scored (s_D/s_2) is
// `board` itself (before the move), while the PV endpoint is walked
// starting from `nextBoard` (after the move) rather than from board's
// own PV.
type extensionStep struct {
	confidence int
}

func evaluateExtensionStep(ctx context.Context, az analyzer.EngineAnalyzer, board, nextBoard position.Position, depthDScore int, s0Side chess.Color, cfg Config) (extensionStep, error) {
	shallow, err := az.AnalysePV(ctx, board, 2, 0)
	if err != nil {
		return extensionStep{}, errors.Wrap(err, "analyse_pv board at depth 2")
	}
	sDeep := position.Normalize(depthDScore, board.Turn(), s0Side)
	sShallow := position.Normalize(shallow.ScoreCP, board.Turn(), s0Side)

	nextPV, err := az.AnalysePV(ctx, nextBoard, cfg.Depth, 0)
	if err != nil {
		return extensionStep{}, errors.Wrap(err, "analyse_pv next_board at depth D")
	}
	endpoint := position.WalkPV(nextBoard, nextPV.Moves, 0)
	endpointDeep, err := az.AnalysePV(ctx, endpoint, cfg.Depth, 0)
	if err != nil {
		return extensionStep{}, errors.Wrap(err, "analyse_pv endpoint at depth D")
	}
	endpointShallow, err := az.AnalysePV(ctx, endpoint, 2, 0)
	if err != nil {
		return extensionStep{}, errors.Wrap(err, "analyse_pv endpoint at depth 2")
	}
	pvDeep := position.Normalize(endpointDeep.ScoreCP, endpoint.Turn(), s0Side)
	pvShallow := position.Normalize(endpointShallow.ScoreCP, endpoint.Turn(), s0Side)

	return extensionStep{
		confidence: scalar.Confidence(sDeep, sShallow, pvDeep, pvShallow),
	}, nil
}
