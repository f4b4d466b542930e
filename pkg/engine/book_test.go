package engine_test

import (
	"context"
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook(t *testing.T) {
	ctx := context.Background()

	book, err := engine.NewBook([]engine.Line{
		{"e2e4", "d7d5", "d2d4"},
		{"e2e4", "d7d6"},
		{"d2d4", "d7d6"},
	})
	require.NoError(t, err)

	initial, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	moves, err := book.Find(ctx, initial)
	require.NoError(t, err)
	assert.Equal(t, "d2d4 e2e4", board.PrintMoves(moves))

	afterE4, err := fen.Decode("rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1")
	require.NoError(t, err)
	moves, err = book.Find(ctx, afterE4)
	require.NoError(t, err)
	assert.Equal(t, "d7d5 d7d6", board.PrintMoves(moves))
}

func TestNoBook(t *testing.T) {
	ctx := context.Background()

	initial, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	moves, err := engine.NoBook.Find(ctx, initial)
	require.NoError(t, err)
	assert.Empty(t, moves)
}
