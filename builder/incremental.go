package builder

import (
	"log/slog"

	"github.com/chessconf/core/tree"
)

// Identity is the triple (start_fen, played_move_uci, fen_after_played)
// spec.md §3 "Tree" uses to accept or reject a previously computed tree
// for incremental continuation.
type Identity struct {
	StartFEN       string
	PlayedMoveUCI  string
	FENAfterPlayed string
}

// LoadExisting validates existing payload nodes against want and, if
// they match, reconstructs them into a fresh Store. Only want.StartFEN
// is checked, against the FEN of the payload's "start" node (spec.md §4.3
// "Incremental mode"). It returns ok == false when the set should be
// rejected in full and the caller should fall back to a full Build -
// spec.md §7 "Tree identity mismatch on load: Log; discard
// existing_nodes entirely; fall back to full build."
func LoadExisting(payloads []tree.NodePayload, want Identity, baseline int, logger *slog.Logger) (*tree.Store, bool) {
	if logger == nil {
		logger = slog.Default()
	}

	var start *tree.NodePayload
	for i := range payloads {
		if payloads[i].ID == tree.StartID {
			start = &payloads[i]
			break
		}
	}
	if start == nil || start.FEN != want.StartFEN {
		logger.Warn("tree identity mismatch on load, discarding existing_nodes", "want_start_fen", want.StartFEN)
		return nil, false
	}

	store := tree.NewStore()
	for _, p := range payloads {
		n := tree.FromPayload(p)
		store.Insert(n)
		store.RefreshColor(n, baseline)
	}
	return store, true
}
