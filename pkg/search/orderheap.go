package search

import (
	"container/heap"

	"github.com/corvidchess/corvid/pkg/board"
)

// movePriority ranks a move for ordering at a single node; higher sorts first.
type movePriority int16

// moveOrder is a priority queue over a node's pseudo-legal moves, built once per node and
// drained move-by-move as the search visits them. It stays a heap rather than a full sort
// because alpha-beta often cuts off after the first move or two: the remaining moves'
// priorities are never needed, so popping lazily saves ranking work a full sort would do
// unconditionally.
type moveOrder struct {
	h orderHeap
}

// newMoveOrder ranks moves by fn and returns a queue that yields them highest-priority
// first.
func newMoveOrder(moves []board.Move, fn func(board.Move) movePriority) *moveOrder {
	h := make(orderHeap, len(moves))
	for i, m := range moves {
		h[i] = orderElm{m: m, pri: fn(m)}
	}
	heap.Init(&h)
	return &moveOrder{h: h}
}

// next returns the remaining move with the highest priority, or false once exhausted.
func (o *moveOrder) next() (board.Move, bool) {
	if len(o.h) == 0 {
		return board.NoMove, false
	}
	return heap.Pop(&o.h).(orderElm).m, true
}

type orderElm struct {
	m   board.Move
	pri movePriority
}

type orderHeap []orderElm

func (h orderHeap) Len() int { return len(h) }

func (h orderHeap) Less(i, j int) bool { return h[i].pri > h[j].pri }

func (h orderHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *orderHeap) Push(x interface{}) {
	panic("fixed size heap")
}

func (h *orderHeap) Pop() interface{} {
	n := len(*h)
	e := (*h)[n-1]
	*h = (*h)[:n-1]
	return e
}
