package analyzer

import (
	"context"
	"sort"
	"strconv"

	"github.com/notnil/chess"

	"github.com/chessconf/core/position"
)

// Fake is a deterministic, in-memory EngineAnalyzer used by tests. It has
// no notion of actual chess strength: scores are looked up from a table
// keyed by FEN and depth, with a configurable default for anything not
// present in the table. This lets the builder/extender be exercised
// without a real engine process, matching the teacher's habit of
// programming the search against a narrow interface and swapping in a
// test double.
type Fake struct {
	// Scores maps "fen@depth" to a score in centipawns, from the
	// analyzed position's side-to-move perspective.
	Scores map[string]int

	// Default is returned for any (fen, depth) pair not present in
	// Scores.
	Default int

	// PVMoves maps "fen@depth" to the principal variation's move list
	// (in application order) returned by AnalysePV.
	PVMoves map[string][]*chess.Move

	// MultiPV maps "fen@depth" to the ranked root moves returned by
	// AnalyseMultiPV. If absent, AnalyseMultiPV derives a ranking from
	// Scores by playing each legal move and looking up its resulting
	// position's score.
	MultiPV map[string][]MultiPVResult
}

// NewFake returns an empty Fake with the given default score.
func NewFake(defaultScore int) *Fake {
	return &Fake{
		Scores:  make(map[string]int),
		Default: defaultScore,
		PVMoves: make(map[string][]*chess.Move),
		MultiPV: make(map[string][]MultiPVResult),
	}
}

func key(fen string, depth int) string {
	return fen + "@" + strconv.Itoa(depth)
}

// SetScore records the score for a position at a depth.
func (f *Fake) SetScore(pos position.Position, depth, scoreCP int) {
	f.Scores[key(pos.FEN(), depth)] = scoreCP
}

// SetPV records the principal variation AnalysePV returns for a
// position at a depth.
func (f *Fake) SetPV(pos position.Position, depth int, moves []*chess.Move) {
	f.PVMoves[key(pos.FEN(), depth)] = moves
}

func (f *Fake) scoreFor(fen string, depth int) int {
	if v, ok := f.Scores[key(fen, depth)]; ok {
		return v
	}
	return f.Default
}

// AnalysePV implements EngineAnalyzer.
func (f *Fake) AnalysePV(_ context.Context, pos position.Position, depth, maxLength int) (PVResult, error) {
	score := f.scoreFor(pos.FEN(), depth)
	moves := f.PVMoves[key(pos.FEN(), depth)]
	if maxLength > 0 && len(moves) > maxLength {
		moves = moves[:maxLength]
	}
	return PVResult{ScoreCP: score, Moves: moves}, nil
}

// AnalyseMultiPV implements EngineAnalyzer.
func (f *Fake) AnalyseMultiPV(ctx context.Context, pos position.Position, depth, multiPV int) ([]MultiPVResult, error) {
	if v, ok := f.MultiPV[key(pos.FEN(), depth)]; ok {
		return truncate(v, multiPV), nil
	}

	legal := pos.ValidMoves()
	results := make([]MultiPVResult, 0, len(legal))
	for _, m := range legal {
		next, err := pos.Push(m)
		if err != nil {
			continue
		}
		raw := f.scoreFor(next.FEN(), depth)
		results = append(results, MultiPVResult{
			ScoreCP: position.Normalize(raw, next.Turn(), pos.Turn()),
			Move:    m,
		})
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].ScoreCP > results[j].ScoreCP })
	return truncate(results, multiPV), nil
}

func truncate(v []MultiPVResult, n int) []MultiPVResult {
	if n <= 0 || n >= len(v) {
		return v
	}
	return v[:n]
}
