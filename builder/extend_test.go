package builder

import (
	"context"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chessconf/core/analyzer"
	"github.com/chessconf/core/position"
	"github.com/chessconf/core/tree"
)

func TestExtendHaltsAtTerminalWithoutCreatingNode(t *testing.T) {
	start, err := position.FromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	_, afterF3, err := start.ResolveSAN("f3")
	require.NoError(t, err)
	_, afterE5, err := afterF3.ResolveSAN("e5")
	require.NoError(t, err)
	_, beforeMate, err := afterE5.ResolveSAN("g4")
	require.NoError(t, err)

	mateMoveObj, _, err := beforeMate.ResolveSAN("Qh4#")
	require.NoError(t, err)

	fake := analyzer.NewFake(50)
	cfg := DefaultConfig()
	fake.SetPV(beforeMate, cfg.Depth, []*chess.Move{mateMoveObj})
	fake.SetScore(beforeMate, cfg.Depth, 10)
	fake.SetScore(beforeMate, 2, 10)

	store := tree.NewStore()
	leaf := tree.NewNode("leaf", tree.StartID, beforeMate.FEN(), "g4", 1, tree.RolePlayed, tree.ShapeTriangle)
	store.Insert(leaf)
	store.SetInitialConfidence(leaf, 40, cfg.Baseline)

	grew, err := extendLeaf(context.Background(), fake, store, leaf, beforeMate.Turn(), cfg)
	require.NoError(t, err)
	assert.False(t, grew, "extension must not create a node past the mating move")
	assert.Empty(t, store.ChildrenOf(leaf.ID()))

	conf, ok := leaf.InitialConfidence()
	require.True(t, ok)
	assert.Equal(t, 40, conf)
	_, hasTransferred := leaf.TransferredConfidence()
	assert.False(t, hasTransferred, "a still-childless leaf never gets a transferred_confidence")
}

func TestExtendStopsAtMaxPly(t *testing.T) {
	start, err := position.FromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	fake := analyzer.NewFake(60)
	cfg := DefaultConfig()
	cfg.MaxPlyFromS0 = 1

	store := tree.NewStore()
	leaf := tree.NewNode("leaf", tree.StartID, start.FEN(), "", 1, tree.RolePlayed, tree.ShapeTriangle)
	store.Insert(leaf)
	store.SetInitialConfidence(leaf, 40, cfg.Baseline)

	grew, err := extendLeaf(context.Background(), fake, store, leaf, start.Turn(), cfg)
	require.NoError(t, err)
	assert.False(t, grew, "a leaf already at max_ply must never extend")
	assert.Empty(t, store.ChildrenOf(leaf.ID()))
}
