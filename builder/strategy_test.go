package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chessconf/core/tree"
)

func TestChooseStrategyPrefersWidthWhenManyMovesMissing(t *testing.T) {
	store := tree.NewStore()
	cfg := DefaultConfig()

	root := tree.NewNode(tree.StartID, "", "fen0", "", 0, tree.RoleStart, tree.ShapeSquare)
	store.Insert(root)
	store.SetInitialConfidence(root, 90, cfg.Baseline)

	strategy := ChooseStrategy(store, 10, cfg)
	assert.Equal(t, StrategyWidth, strategy)
}

func TestChooseStrategyPrefersDepthWhenLeavesAreRed(t *testing.T) {
	store := tree.NewStore()
	cfg := DefaultConfig()

	root := tree.NewNode(tree.StartID, "", "fen0", "", 0, tree.RoleStart, tree.ShapeSquare)
	store.Insert(root)
	store.SetInitialConfidence(root, 90, cfg.Baseline)

	for i := 0; i < 3; i++ {
		leaf := tree.NewNode(string(rune('a'+i)), tree.StartID, "fenLeaf"+string(rune('a'+i)), "e4", 1, tree.RolePlayed, tree.ShapeTriangle)
		store.Insert(leaf)
		store.SetInitialConfidence(leaf, 10, cfg.Baseline)
	}

	strategy := ChooseStrategy(store, 0, cfg)
	assert.Equal(t, StrategyDepth, strategy)
}
