package position

import (
	"context"

	"golang.org/x/exp/slices"

	"github.com/notnil/chess"
)

// RankedMove is one legal move scored at a shallow depth and given a
// preference rank among its siblings (spec.md §4.3 step 4).
type RankedMove struct {
	Move       *chess.Move
	ScoreCP    int
	Resulting  Position
	Preference int
}

// RankByDepth2 sorts already-scored moves (see EnumerateAndRank) by
// ScoreCP descending and assigns preference numbers: the best move is 1, ties share a rank, and
// the next distinct score continues from len(ties)+1 (spec.md §8
// invariant 9 - "ties share a preference number; the next distinct rank
// continues from the tied group's size").
func RankByDepth2(results []RankedMove) []RankedMove {
	ranked := make([]RankedMove, len(results))
	copy(ranked, results)
	slices.SortFunc(ranked, func(a, b RankedMove) bool {
		return a.ScoreCP > b.ScoreCP
	})

	pref := 1
	for i := range ranked {
		if i > 0 && ranked[i].ScoreCP != ranked[i-1].ScoreCP {
			pref = i + 1
		}
		ranked[i].Preference = pref
	}
	return ranked
}

// ScoreFunc analyzes the position resulting from playing candidate out
// of mover, returning a centipawn score normalized back to mover's side
// to move (position.Normalize is the expected tool for that step).
type ScoreFunc func(ctx context.Context, mover Position, candidate *chess.Move, resulting Position) (int, error)

// EnumerateAndRank walks every legal move of pos, scores it with score,
// and returns the moves ranked by RankByDepth2. A move whose score
// function errors is skipped rather than aborting the whole ranking,
// mirroring the teacher's expandAndSimulate tolerance for individual
// move failures during expansion.
func EnumerateAndRank(ctx context.Context, pos Position, score ScoreFunc) ([]RankedMove, error) {
	legal := pos.ValidMoves()
	candidates := make([]RankedMove, 0, len(legal))
	for _, m := range legal {
		next, err := pos.Push(m)
		if err != nil {
			continue
		}
		cp, err := score(ctx, pos, m, next)
		if err != nil {
			continue
		}
		candidates = append(candidates, RankedMove{
			Move:      m,
			ScoreCP:   cp,
			Resulting: next,
		})
	}
	return RankByDepth2(candidates), nil
}
