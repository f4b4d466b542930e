package search_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTranspositionTableSize(t *testing.T) {
	ctx := context.Background()

	// Size is rounded down to the nearest power-of-two bucket count.

	tt := search.NewTranspositionTable(ctx, 0x100000)
	assert.LessOrEqual(t, tt.Size(), uint64(0x100000))

	tt2 := search.NewTranspositionTable(ctx, 0x1f0000)
	assert.Equal(t, tt.Size(), tt2.Size())
}

func TestTranspositionTableStoreProbe(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 1<<20)

	a := board.ZobristHash(rand.Uint64())

	_, ok := tt.Probe(a, 0)
	assert.False(t, ok)

	m := board.NewMove(board.G4, board.G8, board.Normal)
	tt.Store(a, 0, 5, search.ExactBound, eval.Score(200), m)

	entry, ok := tt.Probe(a, 0)
	assert.True(t, ok)
	assert.Equal(t, search.ExactBound, entry.Bound)
	assert.Equal(t, 5, entry.Depth)
	assert.Equal(t, eval.Score(200), entry.Score)
	assert.Equal(t, m, entry.Move)

	_, ok = tt.Probe(a^0xff0000, 0)
	assert.False(t, ok)
}

func TestTranspositionTableMateScoreDistance(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 1<<20)

	a := board.ZobristHash(rand.Uint64())
	m := board.NewMove(board.E2, board.E4, board.Normal)

	// A mate score stored at ply 2 is kept in distance-from-node form: probing at ply 2
	// returns it unchanged, while probing from a different ply re-bases it.
	mateAtNode := eval.MateIn(1)
	tt.Store(a, 2, 4, search.ExactBound, mateAtNode, m)

	entry, ok := tt.Probe(a, 2)
	assert.True(t, ok)
	assert.Equal(t, mateAtNode, entry.Score)

	entry2, ok := tt.Probe(a, 0)
	assert.True(t, ok)
	assert.NotEqual(t, entry2.Score, entry.Score)
}

func TestTranspositionTableClear(t *testing.T) {
	tt := search.NewTranspositionTable(context.Background(), 1<<20)

	a := board.ZobristHash(1234)
	m := board.NewMove(board.A2, board.A4, board.Normal)
	tt.Store(a, 0, 3, search.ExactBound, eval.Score(10), m)

	assert.Greater(t, tt.Used(), float64(0))

	tt.Clear()
	assert.Equal(t, float64(0), tt.Used())

	_, ok := tt.Probe(a, 0)
	assert.False(t, ok)
}

func TestNoTranspositionTable(t *testing.T) {
	var tt search.NoTranspositionTable

	tt.Store(board.ZobristHash(1), 0, 5, search.ExactBound, eval.Score(100), board.NoMove)
	_, ok := tt.Probe(board.ZobristHash(1), 0)
	assert.False(t, ok)
	assert.Equal(t, uint64(0), tt.Size())
}
