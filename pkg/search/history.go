package search

import (
	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
)

// historyMax caps the magnitude of a history score; once any bucket would cross it every
// bucket is halved, so relative ordering survives but the numbers never overflow
// MovePriority's int16 range.
const historyMax = 2000

// HistoryTable scores quiet moves by how often they have caused a beta cutoff in this
// search, indexed by the moving side, the piece moved and its destination square (the
// classic "history heuristic" key, cheap to index and stable across transpositions).
type HistoryTable struct {
	score [board.NumColors][board.NumPieces][board.NumSquares]int32
}

// NewHistoryTable returns an empty history table.
func NewHistoryTable() *HistoryTable {
	return &HistoryTable{}
}

// Get returns the current score for a quiet move by the given side.
func (h *HistoryTable) Get(c board.Color, p board.Piece, to board.Square) int32 {
	return h.score[c][p][to]
}

// Good rewards a quiet move that caused a beta cutoff, more so at higher depth.
func (h *HistoryTable) Good(c board.Color, p board.Piece, to board.Square, depth int) {
	h.bump(c, p, to, depth*depth)
}

// Bad penalizes a quiet move that was tried and failed to cause a cutoff, so that moves
// which are merely searched often don't outrank moves that actually produce cutoffs.
func (h *HistoryTable) Bad(c board.Color, p board.Piece, to board.Square, depth int) {
	h.bump(c, p, to, -depth*depth)
}

func (h *HistoryTable) bump(c board.Color, p board.Piece, to board.Square, delta int) {
	v := h.score[c][p][to] + int32(delta)
	if v > historyMax || v < -historyMax {
		h.halve()
		v = h.score[c][p][to] + int32(delta)
	}
	h.score[c][p][to] = v
}

func (h *HistoryTable) halve() {
	for c := range h.score {
		for p := range h.score[c] {
			for sq := range h.score[c][p] {
				h.score[c][p][sq] /= 2
			}
		}
	}
}

// Clear resets every history score, e.g. between searches.
func (h *HistoryTable) Clear() {
	*h = HistoryTable{}
}

// killerSlots is the number of killer moves tracked per ply; two is the standard choice,
// enough to catch the two most recent non-capture cutoffs without crowding out captures.
const killerSlots = 2

// maxSearchPly bounds how deep killers/counter-moves are tracked; deeper plies fall back
// to history/capture ordering only.
const maxSearchPly = eval.MaxPly

// KillerTable tracks, per ply, the most recent quiet moves that caused a beta cutoff.
// Killers are ply-indexed rather than position-indexed: two unrelated positions reached
// at the same ply in a search tend to share good replies far more than chance would
// suggest, since they are usually siblings or near-siblings in the tree.
type KillerTable struct {
	moves [maxSearchPly][killerSlots]board.Move
}

// NewKillerTable returns an empty killer table.
func NewKillerTable() *KillerTable {
	return &KillerTable{}
}

// Add records m as a killer at ply, pushing out the previous primary killer unless m is
// already tracked.
func (k *KillerTable) Add(ply int, m board.Move) {
	if ply < 0 || ply >= maxSearchPly {
		return
	}
	if k.moves[ply][0] == m {
		return
	}
	k.moves[ply][1] = k.moves[ply][0]
	k.moves[ply][0] = m
}

// Get returns the killer moves tracked for ply.
func (k *KillerTable) Get(ply int) [killerSlots]board.Move {
	if ply < 0 || ply >= maxSearchPly {
		return [killerSlots]board.Move{}
	}
	return k.moves[ply]
}

// Clear resets every killer slot.
func (k *KillerTable) Clear() {
	*k = KillerTable{}
}

// CounterMoveTable tracks, for each (side, from, to) of the opponent's last move, the
// quiet reply that has most recently caused a cutoff -- a cheap proxy for "what refutes
// this move" that generalizes better across the tree than ply-indexed killers alone.
type CounterMoveTable struct {
	moves [board.NumColors][board.NumSquares][board.NumSquares]board.Move
}

// NewCounterMoveTable returns an empty counter-move table.
func NewCounterMoveTable() *CounterMoveTable {
	return &CounterMoveTable{}
}

// Set records reply as the counter to the opponent move (c, from, to).
func (t *CounterMoveTable) Set(c board.Color, from, to board.Square, reply board.Move) {
	t.moves[c][from][to] = reply
}

// Get returns the recorded counter to the opponent move (c, from, to), if any.
func (t *CounterMoveTable) Get(c board.Color, from, to board.Square) board.Move {
	return t.moves[c][from][to]
}

// Clear resets every counter-move slot.
func (t *CounterMoveTable) Clear() {
	*t = CounterMoveTable{}
}
