package confidence

import (
	"context"
	"strings"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chessconf/core/analyzer"
	"github.com/chessconf/core/position"
	"github.com/chessconf/core/tree"
)

const apiTestStartingFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// TestPlayedEqualsBest covers S-1: played move is also the engine's
// depth-D best move.
func TestPlayedEqualsBest(t *testing.T) {
	fake := analyzer.NewFake(10)
	opts := DefaultOptions()

	start, err := position.FromFEN(apiTestStartingFEN)
	require.NoError(t, err)
	e4Move, afterE4, err := start.ResolveSAN("e4")
	require.NoError(t, err)

	fake.SetPV(start, 18, []*chess.Move{e4Move})
	fake.SetScore(start, 18, 40)
	fake.SetScore(start, 2, 35)
	fake.SetScore(afterE4, 18, 30)
	fake.SetScore(afterE4, 2, 25)

	payload, err := ComputeMoveConfidence(context.Background(), fake, apiTestStartingFEN, "e4", opts)
	require.NoError(t, err)

	var playedBest, bestMove bool
	for _, n := range payload.Nodes {
		if n.ID == tree.PlayedMoveID {
			playedBest = n.Shape == tree.ShapeSquare
		}
		if n.ID == tree.BestMoveID {
			bestMove = true
		}
	}
	assert.True(t, playedBest, "played-move must be promoted to square shape when it equals best")
	assert.False(t, bestMove, "played==best must not also produce a best-move node")
	assert.GreaterOrEqual(t, payload.OverallConfidence, 60)
	assert.LessOrEqual(t, payload.OverallConfidence, 100)
}

// TestObviousBlunder covers S-2: played and best diverge sharply.
func TestObviousBlunder(t *testing.T) {
	fake := analyzer.NewFake(10)
	opts := DefaultOptions()

	start, err := position.FromFEN(apiTestStartingFEN)
	require.NoError(t, err)
	e4Move, afterE4, err := start.ResolveSAN("e4")
	require.NoError(t, err)
	_, afterNh3, err := start.ResolveSAN("Nh3")
	require.NoError(t, err)

	fake.SetPV(start, 18, []*chess.Move{e4Move})
	fake.SetScore(start, 18, 60)
	fake.SetScore(start, 2, 55)
	fake.SetScore(afterE4, 18, 50)
	fake.SetScore(afterE4, 2, 45)
	fake.SetScore(afterNh3, 18, -80)
	fake.SetScore(afterNh3, 2, -10)

	payload, err := ComputeMoveConfidence(context.Background(), fake, apiTestStartingFEN, "Nh3", opts)
	require.NoError(t, err)

	var playedConf, bestConf int
	var hasPlayed, hasBest bool
	for _, n := range payload.Nodes {
		if n.ID == tree.PlayedMoveID {
			playedConf = n.ConfidencePercent
			hasPlayed = true
		}
		if n.ID == tree.BestMoveID {
			bestConf = n.ConfidencePercent
			hasBest = true
		}
	}
	require.True(t, hasPlayed)
	require.True(t, hasBest)
	assert.Less(t, playedConf, bestConf)
	assert.Equal(t, payload.OverallConfidence, minOverChildren(payload))
}

func minOverChildren(p Payload) int {
	min := -1
	for _, n := range p.Nodes {
		if n.ParentID != nil && *n.ParentID == tree.StartID {
			if min == -1 || n.ConfidencePercent < min {
				min = n.ConfidencePercent
			}
		}
	}
	return min
}

// TestIncrementalNoOp covers S-3: a reload with the same baseline
// reproduces the same ids, fens, moves, initial_confidence, and
// preference_number values.
func TestIncrementalNoOp(t *testing.T) {
	fake := analyzer.NewFake(50)
	opts := DefaultOptions()

	start, err := position.FromFEN(apiTestStartingFEN)
	require.NoError(t, err)
	e4Move, afterE4, err := start.ResolveSAN("e4")
	require.NoError(t, err)
	fake.SetPV(start, 18, []*chess.Move{e4Move})

	first, err := ComputeMoveConfidence(context.Background(), fake, apiTestStartingFEN, "e4", opts)
	require.NoError(t, err)

	opts2 := opts
	opts2.ExistingNodes = first.Nodes
	second, err := ComputeMoveConfidence(context.Background(), fake, apiTestStartingFEN, "e4", opts2)
	require.NoError(t, err)

	require.Equal(t, len(first.Nodes), len(second.Nodes))
	byID := make(map[string]tree.NodePayload, len(first.Nodes))
	for _, n := range first.Nodes {
		byID[n.ID] = n
	}
	for _, n := range second.Nodes {
		want, ok := byID[n.ID]
		require.True(t, ok, "node %s must survive reload", n.ID)
		assert.Equal(t, want.FEN, n.FEN)
		assert.Equal(t, want.MoveFromParent, n.MoveFromParent)
		assert.Equal(t, want.InitialConfidence, n.InitialConfidence)
		assert.Equal(t, want.PreferenceNumber, n.PreferenceNumber)
	}
}

// TestExtensionRaisesConfidence covers S-4: branching is enabled and the
// played-move leaf starts below target_conf, so at least one extension
// node must appear beneath it with an id of the form "{leaf}-dD-{ply}".
func TestExtensionRaisesConfidence(t *testing.T) {
	fake := analyzer.NewFake(20)
	opts := DefaultOptions()
	opts.Branch = true

	start, err := position.FromFEN(apiTestStartingFEN)
	require.NoError(t, err)
	e4Move, afterE4, err := start.ResolveSAN("e4")
	require.NoError(t, err)
	_, afterE4E5, err := afterE4.ResolveSAN("e5")
	require.NoError(t, err)

	fake.SetPV(start, 18, []*chess.Move{e4Move})
	fake.SetScore(start, 18, 20)
	fake.SetScore(start, 2, 20)

	fake.SetPV(afterE4, 18, afterE4.ValidMoves()[:1])
	fake.SetScore(afterE4, 18, 10)
	fake.SetScore(afterE4, 2, 10)
	fake.SetScore(afterE4E5, 18, 10)
	fake.SetScore(afterE4E5, 2, 10)

	payload, err := ComputeMoveConfidence(context.Background(), fake, apiTestStartingFEN, "e4", opts)
	require.NoError(t, err)

	var playedInitial *int
	var foundExtension bool
	for _, n := range payload.Nodes {
		if n.ID == tree.PlayedMoveID {
			playedInitial = n.InitialConfidence
		}
		if n.ParentID != nil && (*n.ParentID == tree.PlayedMoveID || *n.ParentID == tree.BestMoveID) {
			foundExtension = true
			assert.True(t, strings.HasPrefix(n.ID, *n.ParentID+"-d18-"), "extension id %q must have the form {leaf}-dD-{ply}", n.ID)
		}
	}
	require.NotNil(t, playedInitial)
	assert.True(t, foundExtension, "a below-baseline leaf with branching enabled must grow at least one descendant")
}

// TestTreeIdentityRejection covers S-6: loading existing_nodes from a
// different starting position must be discarded wholesale, producing a
// freshly built tree.
func TestTreeIdentityRejection(t *testing.T) {
	fakeA := analyzer.NewFake(70)
	opts := DefaultOptions()

	startA := apiTestStartingFEN
	payloadA, err := ComputeMoveConfidence(context.Background(), fakeA, startA, "e4", opts)
	require.NoError(t, err)

	startB := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	opts2 := opts
	opts2.ExistingNodes = payloadA.Nodes
	payloadB, err := ComputeMoveConfidence(context.Background(), fakeA, startB, "Nf6", opts2)
	require.NoError(t, err)

	var rootB tree.NodePayload
	for _, n := range payloadB.Nodes {
		if n.ID == tree.StartID {
			rootB = n
		}
	}
	posB, err := position.FromFEN(startB)
	require.NoError(t, err)
	assert.Equal(t, posB.FEN(), rootB.FEN, "a mismatched existing_nodes set must be discarded in favor of a fresh build from B")
}
