package eval

import (
	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/kpk"
)

// mirrorFileToQueenside mirrors sq horizontally into files A-D, matching the bitbase's
// encoding (which only stores the pawn on files A-D and relies on the board's left-right
// symmetry for the other half).
func mirrorFileToQueenside(sq board.Square) board.Square {
	if sq.File() < 4 {
		return sq
	}
	return board.NewSquare(board.FileH-sq.File(), sq.Rank())
}

// isKPKDraw reports whether pos is an exact king-and-pawn-vs-king ending that the
// retrograde bitbase classifies as a draw for the side with the pawn.
func isKPKDraw(pos *board.Position) (isDraw, applies bool) {
	for _, us := range [2]board.Color{board.White, board.Black} {
		them := us.Opponent()
		if pos.Pieces(us, board.Pawn).PopCount() != 1 {
			continue
		}
		if pos.Occupancy(us)&^(pos.Pieces(us, board.Pawn)|pos.Pieces(us, board.King)) != 0 {
			continue
		}
		if pos.Occupancy(them)&^pos.Pieces(them, board.King) != 0 {
			continue
		}

		wksq, bksq := pos.King(us), pos.King(them)
		psq := pos.Pieces(us, board.Pawn).LSB()
		side := pos.Turn()
		if us == board.Black {
			// The bitbase always models the pawn's side as white; mirror ranks too.
			wksq, bksq = mirrorColor(wksq), mirrorColor(bksq)
			psq = mirrorColor(psq)
			side = side.Opponent()
		}
		wksq, bksq, psq = mirrorFileToQueenside(wksq), mirrorFileToQueenside(bksq), mirrorFileToQueenside(psq)

		return !kpk.Probe(wksq, psq, bksq, side), true
	}
	return false, false
}

func mirrorColor(sq board.Square) board.Square {
	return board.NewSquare(sq.File(), board.Rank8-sq.Rank())
}

// isWrongBishopDraw reports the classic "wrong rook pawn" fortress: one side has a lone
// bishop plus rook pawn(s) on a single edge file, the bishop doesn't control that file's
// promotion corner, and the defending bare king can already reach the corner -- a dead
// draw no amount of material can break.
func isWrongBishopDraw(pos *board.Position) bool {
	for _, us := range [2]board.Color{board.White, board.Black} {
		them := us.Opponent()
		if pos.Pieces(us, board.Bishop).PopCount() != 1 {
			continue
		}
		if pos.Occupancy(us)&^(pos.Pieces(us, board.Bishop)|pos.Pieces(us, board.Pawn)|pos.Pieces(us, board.King)) != 0 {
			continue
		}
		if pos.Occupancy(them)&^pos.Pieces(them, board.King) != 0 {
			continue
		}

		pawns := pos.Pieces(us, board.Pawn)
		if pawns == 0 {
			continue
		}
		onA := pawns&^board.BitFile(board.FileA) == 0
		onH := pawns&^board.BitFile(board.FileH) == 0
		if !onA && !onH {
			continue
		}

		var corner board.Square
		if onA {
			corner = board.NewSquare(board.FileA, promotionRank(us))
		} else {
			corner = board.NewSquare(board.FileH, promotionRank(us))
		}

		bishopSq := pos.Pieces(us, board.Bishop).LSB()
		if isLightCorner := isLight(corner); isLight(bishopSq) == isLightCorner {
			continue // bishop is the *right* color, no fortress
		}

		if pos.King(them).Distance(corner) <= 1 {
			return true
		}
	}
	return false
}

func promotionRank(us board.Color) board.Rank {
	if us == board.White {
		return board.Rank8
	}
	return board.Rank1
}

func isLight(sq board.Square) bool {
	return (int(sq.File())+int(sq.Rank()))%2 != 0
}
