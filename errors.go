package confidence

import (
	"github.com/pkg/errors"

	"github.com/chessconf/core/builder"
)

// MoveError wraps an invalid or illegal move_san passed to
// ComputeMoveConfidence, or an unparsable start_fen passed to either
// public entry point. It is the caller-facing validation error: no tree
// is constructed when this is returned.
type MoveError struct {
	cause error
}

func (e *MoveError) Error() string {
	return errors.WithMessage(e.cause, "compute move confidence").Error()
}

func (e *MoveError) Unwrap() error { return e.cause }

// asMoveError converts a *builder.MoveError into the root package's own
// error type, so callers never need to import builder just to recognize
// the one validation error they can get back.
func asMoveError(err error) error {
	var be *builder.MoveError
	if errors.As(err, &be) {
		return &MoveError{cause: err}
	}
	return err
}
