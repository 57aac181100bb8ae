package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chessconf/core/tree"
)

func samplePayloadNodes() []tree.NodePayload {
	startConf := 90
	playedConf := 70
	startID := "start"
	return []tree.NodePayload{
		{
			ID:                "start",
			ParentID:          nil,
			FEN:               "startfen",
			ConfidencePercent: startConf,
			InitialConfidence: &startConf,
			Shape:             tree.ShapeSquare,
			Color:             tree.ColorGrey,
		},
		{
			ID:                "played-move",
			ParentID:          &startID,
			FEN:               "playedfen",
			ConfidencePercent: playedConf,
			InitialConfidence: &playedConf,
			Shape:             tree.ShapeTriangle,
			Color:             tree.ColorRed,
			PlyFromS0:         1,
		},
	}
}

func TestDOTIncludesEveryNodeAndEdge(t *testing.T) {
	nodes := samplePayloadNodes()
	dot, err := DOT(nodes)
	require.NoError(t, err)
	assert.Contains(t, dot, "start")
	assert.Contains(t, dot, "played-move")
	assert.True(t, strings.Contains(dot, "->"), "an edge must connect start to played-move")
}

func TestPNGRendersWithoutExternalFont(t *testing.T) {
	nodes := samplePayloadNodes()
	img, err := PNG(nodes, "")
	require.NoError(t, err)
	require.NotNil(t, img)
	bounds := img.Bounds()
	assert.Greater(t, bounds.Dx(), 0)
	assert.Greater(t, bounds.Dy(), 0)
}
