package position

import (
	"context"
	"testing"

	"github.com/notnil/chess"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankByDepth2TiesShareRank(t *testing.T) {
	input := []RankedMove{
		{ScoreCP: 50},
		{ScoreCP: 80},
		{ScoreCP: 80},
		{ScoreCP: 10},
	}
	ranked := RankByDepth2(input)

	require.Len(t, ranked, 4)
	assert.Equal(t, 80, ranked[0].ScoreCP)
	assert.Equal(t, 1, ranked[0].Preference)
	assert.Equal(t, 80, ranked[1].ScoreCP)
	assert.Equal(t, 1, ranked[1].Preference)
	assert.Equal(t, 50, ranked[2].ScoreCP)
	assert.Equal(t, 3, ranked[2].Preference, "next distinct rank continues from the tied group's size")
	assert.Equal(t, 10, ranked[3].ScoreCP)
	assert.Equal(t, 4, ranked[3].Preference)
}

func TestRankByDepth2AllTied(t *testing.T) {
	input := []RankedMove{{ScoreCP: 5}, {ScoreCP: 5}, {ScoreCP: 5}}
	ranked := RankByDepth2(input)
	for _, r := range ranked {
		assert.Equal(t, 1, r.Preference)
	}
}

func TestEnumerateAndRankOpeningPosition(t *testing.T) {
	start, err := FromFEN("rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1")
	require.NoError(t, err)

	scored := func(_ context.Context, mover Position, candidate *chess.Move, resulting Position) (int, error) {
		if UCI(candidate) == "e2e4" {
			return 100, nil
		}
		return 0, nil
	}

	ranked, err := EnumerateAndRank(context.Background(), start, scored)
	require.NoError(t, err)
	require.Len(t, ranked, len(start.ValidMoves()))
	assert.Equal(t, 1, ranked[0].Preference)
}
