package search

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityFnRanksTTMoveFirst(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	tt := board.NewMove(board.D2, board.D4, board.Normal)
	other := board.NewMove(board.E2, board.E4, board.Normal)

	ctx := OrderingContext{
		Node:    PVNode,
		TTMove:  tt,
		Killers: NewKillerTable(),
		History: NewHistoryTable(),
	}
	fn := priorityFn(pos, ctx)

	assert.Greater(t, fn(tt), fn(other))
}

func TestPriorityFnRanksGoodCaptureAboveQuiet(t *testing.T) {
	// White pawn on e4 can capture an undefended black pawn on d5, or make a quiet king move.
	pos, err := fen.Decode("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	capture := board.NewMove(board.E4, board.D5, board.Normal)
	quiet := board.NewMove(board.E1, board.D2, board.Normal)

	ctx := OrderingContext{
		Node:    PVNode,
		Killers: NewKillerTable(),
		History: NewHistoryTable(),
	}
	fn := priorityFn(pos, ctx)

	assert.Greater(t, fn(capture), fn(quiet))
}

func TestPriorityFnRanksKillerAboveOrdinaryQuiet(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	killer := board.NewMove(board.G1, board.F3, board.Normal)
	ordinary := board.NewMove(board.B1, board.A3, board.Normal)

	killers := NewKillerTable()
	killers.Add(2, killer)

	ctx := OrderingContext{
		Node:    PVNode,
		Ply:     2,
		Killers: killers,
		History: NewHistoryTable(),
	}
	fn := priorityFn(pos, ctx)

	assert.Greater(t, fn(killer), fn(ordinary))
}

func TestIsCaptureOrPromotion(t *testing.T) {
	pos, err := fen.Decode("4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	assert.True(t, isCaptureOrPromotion(pos, board.NewMove(board.E4, board.D5, board.Normal)))
	assert.False(t, isCaptureOrPromotion(pos, board.NewMove(board.E1, board.D2, board.Normal)))
}

func TestClampScoreSaturates(t *testing.T) {
	assert.Equal(t, int16(9000), clampScore(50000))
	assert.Equal(t, int16(-9000), clampScore(-50000))
	assert.Equal(t, int16(100), clampScore(100))
}
