package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chessconf/core/tree"
)

func TestPropagateMinOverChildren(t *testing.T) {
	store := tree.NewStore()
	baseline := 80

	root := tree.NewNode(tree.StartID, "", "fen0", "", 0, tree.RoleStart, tree.ShapeSquare)
	store.Insert(root)
	store.SetInitialConfidence(root, 100, baseline)

	childA := tree.NewNode("a", tree.StartID, "fenA", "e4", 1, tree.RolePlayed, tree.ShapeTriangle)
	store.Insert(childA)
	store.SetInitialConfidence(childA, 70, baseline)

	childB := tree.NewNode("b", tree.StartID, "fenB", "d4", 1, tree.RoleBest, tree.ShapeSquare)
	store.Insert(childB)
	store.SetInitialConfidence(childB, 90, baseline)

	grandchild := tree.NewNode("a-1", "a", "fenA1", "e5", 2, tree.RoleExtension, tree.ShapeCircle)
	store.Insert(grandchild)
	store.SetInitialConfidence(grandchild, 40, baseline)

	Propagate(store, baseline)

	assert.Equal(t, 40, childA.Confidence(), "childA's transferred confidence must be its only child's confidence")
	assert.Equal(t, 40, root.Confidence(), "root's transferred confidence must be min(childA=40, childB=90)")

	transferred, ok := root.TransferredConfidence()
	assert.True(t, ok)
	assert.Equal(t, 40, transferred)

	_, leafHasTransferred := grandchild.TransferredConfidence()
	assert.False(t, leafHasTransferred, "a leaf never gets a transferred_confidence")
}

func TestPropagateLeavesColorConsistent(t *testing.T) {
	store := tree.NewStore()
	baseline := 50

	root := tree.NewNode(tree.StartID, "", "fen0", "", 0, tree.RoleStart, tree.ShapeSquare)
	store.Insert(root)
	store.SetInitialConfidence(root, 100, baseline)

	low := tree.NewNode("low", tree.StartID, "fenLow", "e4", 1, tree.RolePlayed, tree.ShapeTriangle)
	store.Insert(low)
	store.SetInitialConfidence(low, 10, baseline)

	Propagate(store, baseline)

	assert.Equal(t, tree.ColorGrey, root.Color(), "start stays grey even though its transferred confidence is below baseline")
	assert.Equal(t, tree.ColorRed, low.Color())
}
