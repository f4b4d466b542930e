package search

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/stretchr/testify/assert"
)

// TestMoveOrderDrainsHighestPriorityFirst checks that moveOrder always yields the
// remaining move with the greatest priority next, the invariant priorityFn's callers
// (search, quiescence) depend on to try the most promising move first at every node.
func TestMoveOrderDrainsHighestPriorityFirst(t *testing.T) {
	a := board.NewMove(board.A2, board.A3, board.Normal)
	b := board.NewMove(board.B2, board.B3, board.Normal)
	c := board.NewMove(board.C2, board.C3, board.Normal)
	d := board.NewMove(board.D2, board.D3, board.Normal)

	pri := map[board.Move]movePriority{a: 10, b: 35, c: 20, d: 30}
	order := newMoveOrder([]board.Move{a, b, c, d}, func(m board.Move) movePriority {
		return pri[m]
	})

	var got []movePriority
	for {
		m, ok := order.next()
		if !ok {
			break
		}
		got = append(got, pri[m])
	}

	assert.Equal(t, []movePriority{35, 30, 20, 10}, got)
}

// TestMoveOrderEmpty checks that draining an empty list reports exhaustion immediately.
func TestMoveOrderEmpty(t *testing.T) {
	order := newMoveOrder(nil, func(board.Move) movePriority { return 0 })
	_, ok := order.next()
	assert.False(t, ok)
}
