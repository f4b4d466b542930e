package eval

import "github.com/corvidchess/corvid/pkg/board"

// CheckType classifies whether a legal move gives check, and how.
type CheckType int

const (
	// NoCheck means the move does not give check.
	NoCheck CheckType = iota
	// DirectCheck means the moved (or promoted/castled rook) piece itself attacks the
	// enemy king from its destination square.
	DirectCheck
	// DiscoveredCheck means a piece other than the one that moved attacks the enemy king,
	// unmasked by the move leaving its blocking square.
	DiscoveredCheck
)

// IsCheck classifies m by making and immediately unmaking it against pos, which must be
// m's legal owner (pos.Turn() is the side about to move m). Castling is attributed to the
// rook that lands on the checking square, not the king, since the rook is what gives
// check in the (rare) case a castling move does.
func IsCheck(pos *board.Position, m board.Move) CheckType {
	them := pos.Turn().Opponent()

	pos.MakeMove(m)
	checkers := pos.Checkers(them)
	pos.UnmakeMove()

	if checkers == 0 {
		return NoCheck
	}

	direct := board.BitMask(m.To())
	if m.IsCastling() {
		_, rookTo := board.CastlingRookDestination(m.To())
		direct |= board.BitMask(rookTo)
	}
	if checkers&direct != 0 {
		return DirectCheck
	}
	return DiscoveredCheck
}
