// Package board contains chess board representation, bitboard tables, Zobrist hashing
// and the incremental position and move generation used by the search.
package board

import "fmt"

const (
	repetition3Limit  = 3
	repetition5Limit  = 5
	noProgressPlyLimit = 100 // 50 full moves, counted in plies
)

// Board wraps a mutable Position with the game-level history needed to adjudicate
// draws: repetition counting and the no-progress (50-move) clock. Position itself only
// knows its own state, not how it got there. Not thread-safe; callers needing
// concurrent search lines should Fork a board per line.
type Board struct {
	pos    *Position
	result Result

	// history holds one entry per ply played, oldest first, used for repetition
	// counting and PopMove/LastMove/HasCastled.
	history []histEntry
}

type histEntry struct {
	move Move
	hash ZobristHash
	// irreversible marks a move that resets the repetition search: a capture, pawn
	// move or castling right loss makes earlier positions unreachable again.
	irreversible bool
}

// NewBoard wraps an existing position for game play.
func NewBoard(pos *Position) *Board {
	return &Board{pos: pos}
}

// Fork returns an independent board sharing nothing mutable with b -- the underlying
// Position is deep-copied so the two can diverge (e.g. to explore a line in one
// goroutine while the main line continues in another).
func (b *Board) Fork() *Board {
	cp := *b.pos
	cp.stack = append([]undo(nil), b.pos.stack...)

	hist := append([]histEntry(nil), b.history...)
	return &Board{pos: &cp, result: b.result, history: hist}
}

func (b *Board) Position() *Position { return b.pos }
func (b *Board) Turn() Color         { return b.pos.Turn() }
func (b *Board) NoProgress() int     { return b.pos.HalfmoveClock() }
func (b *Board) FullMoves() int      { return b.pos.FullmoveNumber() }
func (b *Board) Result() Result      { return b.result }

// Ply returns the number of moves played since the board was created.
func (b *Board) Ply() int { return len(b.history) }

// PushMove makes a pseudo-legal move and updates game-level bookkeeping. Returns false
// (without mutating anything) if the move would leave the mover's own king in check.
func (b *Board) PushMove(m Move) bool {
	if b.result.Reason == Checkmate || b.result.Reason == Stalemate {
		return false // no legal moves exist from a mated/stalemated position
	}

	mover := b.pos.Turn()
	rights := b.pos.Castling()
	b.pos.MakeMove(m)
	if b.pos.IsChecked(mover) {
		b.pos.UnmakeMove()
		return false
	}

	irreversible := m.Flag() != Normal || b.pos.HalfmoveClock() == 0 || b.pos.Castling() != rights
	b.history = append(b.history, histEntry{move: m, hash: b.pos.Hash(), irreversible: irreversible})

	b.result = Result{}
	if n := b.repetitionCount(); n >= repetition5Limit {
		b.result = Result{Outcome: DrawOutcome, Reason: Repetition5}
	} else if n >= repetition3Limit {
		b.result = Result{Outcome: DrawOutcome, Reason: Repetition3}
	}
	if !b.result.IsDecided() && b.pos.HalfmoveClock() >= noProgressPlyLimit {
		b.result = Result{Outcome: DrawOutcome, Reason: NoProgressRule}
	}
	if !b.result.IsDecided() && b.pos.HasInsufficientMaterial() {
		b.result = Result{Outcome: DrawOutcome, Reason: InsufficientMaterial}
	}
	return true
}

// PopMove undoes the last move pushed. Returns false if there is no move to undo.
func (b *Board) PopMove() (Move, bool) {
	if len(b.history) == 0 {
		return NoMove, false
	}
	n := len(b.history) - 1
	m := b.history[n].move
	b.history = b.history[:n]
	b.pos.UnmakeMove()
	b.result = Result{}
	return m, true
}

// repetitionCount returns how many times the current hash has occurred since the last
// irreversible move (inclusive of the current occurrence).
func (b *Board) repetitionCount() int {
	cur := b.pos.Hash()
	count := 1
	for i := len(b.history) - 2; i >= 0; i-- {
		if b.history[i].irreversible {
			break
		}
		if b.history[i].hash == cur {
			count++
		}
	}
	return count
}

// AdjudicateNoLegalMoves adjudicates the position assuming the side to move has no
// legal moves: checkmate if in check, stalemate otherwise.
func (b *Board) AdjudicateNoLegalMoves() Result {
	result := Result{Outcome: DrawOutcome, Reason: Stalemate}
	if b.pos.IsChecked(b.Turn()) {
		result = Result{Outcome: Loss(b.Turn()), Reason: Checkmate}
	}
	b.Adjudicate(result)
	return result
}

// Adjudicate forces the game result, e.g. on resignation or external tablebase probe.
func (b *Board) Adjudicate(result Result) {
	b.result = result
}

// LastMove returns the most recently played move, if any.
func (b *Board) LastMove() (Move, bool) {
	if len(b.history) == 0 {
		return NoMove, false
	}
	return b.history[len(b.history)-1].move, true
}

// HasCastled returns true iff the color has castled at any point in this game.
func (b *Board) HasCastled(c Color) bool {
	turn := b.pos.Turn()
	for i := len(b.history) - 1; i >= 0; i-- {
		turn = turn.Opponent()
		if turn == c && b.history[i].move.IsCastling() {
			return true
		}
	}
	return false
}

func (b *Board) String() string {
	return fmt.Sprintf("board{pos=%v, hash=%x, noprogress=%v, fullmoves=%v, result=%v}",
		b.pos, b.pos.Hash(), b.pos.HalfmoveClock(), b.pos.FullmoveNumber(), b.result)
}
