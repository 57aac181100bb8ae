// Package position wraps github.com/notnil/chess with the board
// operations the confidence engine needs: cloning/pushing without
// mutating shared state, perspective normalization, PV walking, and
// SAN/UCI move resolution. It is the single place perspective handling
// lives, so that every score the builder sees has already been
// normalized to the S0 side-to-move.
package position

import (
	"github.com/notnil/chess"
	"github.com/pkg/errors"
)

// Position is an immutable-by-convention snapshot of a chess game: every
// method that advances the position returns a new Position rather than
// mutating the receiver.
type Position struct {
	game *chess.Game
}

// FromFEN builds a Position from a FEN string.
func FromFEN(fen string) (Position, error) {
	fn, err := chess.FEN(fen)
	if err != nil {
		return Position{}, errors.Wrapf(err, "invalid FEN %q", fen)
	}
	return Position{game: chess.NewGame(fn)}, nil
}

// FromGame wraps an existing *chess.Game. The game is cloned so the
// caller's reference is never mutated through the returned Position.
func FromGame(g *chess.Game) Position {
	return Position{game: g.Clone()}
}

// FEN returns the FEN string of the current position.
func (p Position) FEN() string {
	return p.game.Position().String()
}

// Turn returns the side to move.
func (p Position) Turn() chess.Color {
	return p.game.Position().Turn()
}

// Game exposes the underlying *chess.Game for callers (notably the
// analyzer boundary) that need direct notnil/chess access. The returned
// game must not be mutated by the caller.
func (p Position) Game() *chess.Game {
	return p.game
}

// ValidMoves returns the legal moves from this position.
func (p Position) ValidMoves() []*chess.Move {
	return p.game.ValidMoves()
}

// IsTerminal reports whether the game has ended at this position
// (checkmate, stalemate, or any other drawing condition the chess
// library recognizes).
func (p Position) IsTerminal() bool {
	return p.game.Outcome() != chess.NoOutcome
}

// Clone returns an independent copy of the position.
func (p Position) Clone() Position {
	return Position{game: p.game.Clone()}
}

// Push applies a legal move and returns the resulting position. The
// receiver is left unmodified.
func (p Position) Push(m *chess.Move) (Position, error) {
	next := p.game.Clone()
	if err := next.Move(m); err != nil {
		return Position{}, errors.Wrapf(err, "illegal move %s", m)
	}
	return Position{game: next}, nil
}

// ResolveSAN parses a move in algebraic notation (the format the public
// API accepts) against this position's legal moves and returns the move
// object together with the resulting position. It never mutates the
// receiver.
func (p Position) ResolveSAN(san string) (*chess.Move, Position, error) {
	next := p.game.Clone()
	if err := next.MoveStr(san); err != nil {
		return nil, Position{}, errors.Wrapf(err, "invalid or illegal move %q", san)
	}
	moves := next.Moves()
	if len(moves) == 0 {
		return nil, Position{}, errors.Errorf("move %q did not advance the game", san)
	}
	return moves[len(moves)-1], Position{game: next}, nil
}

// UCI returns the UCI (square-to-square, plus promotion piece if any)
// notation for a move, independent of whichever notation the
// originating game was configured with.
func UCI(m *chess.Move) string {
	if m == nil {
		return ""
	}
	return m.String()
}

// Normalize converts a centipawn score reported from sideToMove's
// perspective into the S0 side-to-move's perspective. This is the single
// negation point every analyzer result must pass through before it is
// compared against any other score.
func Normalize(scoreCP int, sideToMove, s0Side chess.Color) int {
	if sideToMove == s0Side {
		return scoreCP
	}
	return -scoreCP
}

// WalkPV pushes moves one at a time from the given position, stopping at
// the first illegal push or the first position that is terminal, or
// after maxLength plies if maxLength > 0. It returns the endpoint -
// the position after the last successfully-played move, or the starting
// position itself if no move could be played.
func WalkPV(start Position, moves []*chess.Move, maxLength int) Position {
	cur := start
	for i, m := range moves {
		if maxLength > 0 && i >= maxLength {
			break
		}
		next, err := cur.Push(m)
		if err != nil {
			break
		}
		cur = next
		if cur.IsTerminal() {
			break
		}
	}
	return cur
}
