package builder

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chessconf/core/analyzer"
	"github.com/chessconf/core/position"
	"github.com/chessconf/core/tree"
)

func TestWidenAddsMissingPreferenceMoves(t *testing.T) {
	start, err := position.FromFEN(startingFEN)
	require.NoError(t, err)

	fake := analyzer.NewFake(40)
	cfg := DefaultConfig()

	store := tree.NewStore()
	root := tree.NewNode(tree.StartID, "", start.FEN(), "", 0, tree.RoleStart, tree.ShapeSquare)
	store.Insert(root)
	store.SetInitialConfidence(root, 90, cfg.Baseline)

	_, afterE4, err := start.ResolveSAN("e4")
	require.NoError(t, err)
	played := tree.NewNode(tree.PlayedMoveID, tree.StartID, afterE4.FEN(), "e2e4", 1, tree.RolePlayed, tree.ShapeTriangle)
	store.Insert(played)
	store.SetInitialConfidence(played, 70, cfg.Baseline)

	legalRanked, rankErr := rankLegalMoves(context.Background(), fake, start, cfg)
	require.NoError(t, rankErr)
	require.NotEmpty(t, legalRanked)

	before := len(store.ChildrenOf(tree.StartID))

	err = Widen(context.Background(), fake, store, start, start.Turn(), -40, legalRanked, cfg)
	require.NoError(t, err)

	after := len(store.ChildrenOf(tree.StartID))
	assert.Greater(t, after, before, "widening must add at least one alternative when candidates clear the threshold")

	for _, child := range store.ChildrenOf(tree.StartID) {
		if child.ID() == tree.PlayedMoveID {
			continue
		}
		if child.Role() == tree.RoleAlternative {
			_, ok := child.InitialConfidence()
			assert.True(t, ok, "every widened alternative gets its own locked initial_confidence")
		}
	}
}

func TestWidenSkipsMovesAlreadyChildrenOfStart(t *testing.T) {
	start, err := position.FromFEN(startingFEN)
	require.NoError(t, err)

	fake := analyzer.NewFake(100)
	cfg := DefaultConfig()

	store := tree.NewStore()
	root := tree.NewNode(tree.StartID, "", start.FEN(), "", 0, tree.RoleStart, tree.ShapeSquare)
	store.Insert(root)
	store.SetInitialConfidence(root, 90, cfg.Baseline)

	legalRanked, rankErr := rankLegalMoves(context.Background(), fake, start, cfg)
	require.NoError(t, rankErr)
	require.NotEmpty(t, legalRanked)

	top := legalRanked[0]
	altPos, err := start.Push(top.Move)
	require.NoError(t, err)
	existing := tree.NewNode("alt-0", tree.StartID, altPos.FEN(), position.UCI(top.Move), 1, tree.RoleAlternative, tree.ShapeCircle)
	store.Insert(existing)
	store.SetInitialConfidence(existing, 95, cfg.Baseline)

	before := len(store.ChildrenOf(tree.StartID))
	err = Widen(context.Background(), fake, store, start, start.Turn(), -100, legalRanked, cfg)
	require.NoError(t, err)

	for _, child := range store.ChildrenOf(tree.StartID) {
		if child.ID() == "alt-0" {
			conf, _ := child.InitialConfidence()
			assert.Equal(t, 95, conf, "widening must never touch an already-locked sibling")
		}
	}
	assert.GreaterOrEqual(t, len(store.ChildrenOf(tree.StartID)), before)
}
