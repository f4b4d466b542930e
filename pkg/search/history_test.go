package search_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestHistoryTableGoodIncreasesWithDepth(t *testing.T) {
	h := search.NewHistoryTable()

	h.Good(board.White, board.Knight, board.F3, 2)
	shallow := h.Get(board.White, board.Knight, board.F3)

	h.Good(board.White, board.Knight, board.F3, 6)
	deep := h.Get(board.White, board.Knight, board.F3)

	assert.Greater(t, deep, shallow)
}

func TestHistoryTableBadPenalizes(t *testing.T) {
	h := search.NewHistoryTable()

	h.Good(board.Black, board.Bishop, board.C4, 4)
	before := h.Get(board.Black, board.Bishop, board.C4)

	h.Bad(board.Black, board.Bishop, board.C4, 4)
	after := h.Get(board.Black, board.Bishop, board.C4)

	assert.Less(t, after, before)
}

func TestHistoryTableClear(t *testing.T) {
	h := search.NewHistoryTable()
	h.Good(board.White, board.Rook, board.D1, 3)
	require := h.Get(board.White, board.Rook, board.D1)
	assert.NotZero(t, require)

	h.Clear()
	assert.Zero(t, h.Get(board.White, board.Rook, board.D1))
}

func TestKillerTableAddPushesOutPrevious(t *testing.T) {
	k := search.NewKillerTable()

	m1 := board.NewMove(board.E2, board.E4, board.Normal)
	m2 := board.NewMove(board.D2, board.D4, board.Normal)

	k.Add(3, m1)
	k.Add(3, m2)

	got := k.Get(3)
	assert.Equal(t, m2, got[0])
	assert.Equal(t, m1, got[1])
}

func TestKillerTableAddIgnoresRepeatOfPrimary(t *testing.T) {
	k := search.NewKillerTable()

	m1 := board.NewMove(board.E2, board.E4, board.Normal)
	k.Add(1, m1)
	k.Add(1, m1)

	got := k.Get(1)
	assert.Equal(t, m1, got[0])
	assert.Equal(t, board.NoMove, got[1])
}

func TestKillerTableOutOfRangePlyIsSafe(t *testing.T) {
	k := search.NewKillerTable()
	m := board.NewMove(board.E2, board.E4, board.Normal)

	k.Add(-1, m)
	k.Add(1<<20, m)

	assert.Equal(t, [2]board.Move{}, k.Get(-1))
}

func TestCounterMoveTableSetGet(t *testing.T) {
	ct := search.NewCounterMoveTable()

	reply := board.NewMove(board.G8, board.F6, board.Normal)
	ct.Set(board.White, board.E2, board.E4, reply)

	assert.Equal(t, reply, ct.Get(board.White, board.E2, board.E4))
	assert.Equal(t, board.NoMove, ct.Get(board.White, board.D2, board.D4))

	ct.Clear()
	assert.Equal(t, board.NoMove, ct.Get(board.White, board.E2, board.E4))
}
