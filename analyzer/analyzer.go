// Package analyzer defines the boundary to the chess engine driver. The
// driver itself (a UCI engine, its worker queue, its timeouts) is an
// external collaborator out of scope for this module; only the interface
// the confidence engine consumes lives here.
package analyzer

import (
	"context"

	"github.com/notnil/chess"

	"github.com/chessconf/core/position"
)

// PVResult is the outcome of analysing a position's principal variation
// at a given depth. ScoreCP is always reported from the analyzed
// position's side-to-move perspective - callers normalize it via
// position.Normalize before using it. An empty Moves slice is treated as
// terminal for PV-walking purposes.
type PVResult struct {
	ScoreCP int
	Moves   []*chess.Move
	MateIn  *int
}

// MultiPVResult is one ranked root move from a multi-PV analysis.
type MultiPVResult struct {
	ScoreCP int
	Move    *chess.Move
}

// EngineAnalyzer is the interface the confidence engine consumes. An
// implementation is expected to serialize its own requests against the
// underlying engine process (e.g. a FIFO queue feeding a single UCI
// worker); the core does not assume concurrent analyzer calls complete
// out of order relative to each other beyond what the caller can
// tolerate.
type EngineAnalyzer interface {
	// AnalysePV returns the best line from pos at depth, up to maxLength
	// plies (0 means no cap).
	AnalysePV(ctx context.Context, pos position.Position, depth, maxLength int) (PVResult, error)

	// AnalyseMultiPV returns the top multiPV root moves from pos at
	// depth, sorted by score descending.
	AnalyseMultiPV(ctx context.Context, pos position.Position, depth, multiPV int) ([]MultiPVResult, error)
}
