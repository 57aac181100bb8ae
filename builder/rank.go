package builder

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"github.com/notnil/chess"

	"github.com/chessconf/core/analyzer"
	"github.com/chessconf/core/position"
)

// rankLegalMoves scores every legal move from pos at depth 2, normalized
// to pos's side to move, and assigns preference numbers (spec.md §4.3
// step 4). A move whose depth-2 analysis fails is skipped rather than
// aborting the whole ranking - this is the "genuinely partial, best
// effort fan-out" multierror is for, not a required single analysis
// (spec.md §7, Design Notes §10).
func rankLegalMoves(ctx context.Context, az analyzer.EngineAnalyzer, pos position.Position, cfg Config) ([]position.RankedMove, error) {
	var errs *multierror.Error
	ranked, _ := position.EnumerateAndRank(ctx, pos, func(ctx context.Context, mover position.Position, candidate *chess.Move, resulting position.Position) (int, error) {
		result, err := az.AnalysePV(ctx, resulting, 2, 0)
		if err != nil {
			errs = multierror.Append(errs, err)
			return 0, err
		}
		return position.Normalize(result.ScoreCP, resulting.Turn(), mover.Turn()), nil
	})
	if errs != nil {
		cfg.logger().Warn("partial failures ranking legal moves", "errors", errs.Len())
		return ranked, errs.ErrorOrNil()
	}
	return ranked, nil
}
