package eval

import (
	"sort"

	"github.com/corvidchess/corvid/pkg/board"
)

// FindCapture returns every placement of the given color that directly attacks sq, i.e.
// the candidate recapturing pieces SEE walks through one at a time.
func FindCapture(pos *board.Position, side board.Color, sq board.Square) []board.Placement {
	var ret []board.Placement
	occ := pos.AllOccupancy()
	for _, p := range [6]board.Piece{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King} {
		var bb board.Bitboard
		switch p {
		case board.Pawn:
			bb = board.PawnAttackboard(side.Opponent(), board.BitMask(sq)) & pos.Pieces(side, p)
		case board.Knight:
			bb = board.KnightAttackboard(sq) & pos.Pieces(side, p)
		case board.King:
			bb = board.KingAttackboard(sq) & pos.Pieces(side, p)
		case board.Bishop:
			bb = board.BishopAttackboard(sq, occ) & pos.Pieces(side, p)
		case board.Rook:
			bb = board.RookAttackboard(sq, occ) & pos.Pieces(side, p)
		case board.Queen:
			bb = (board.BishopAttackboard(sq, occ) | board.RookAttackboard(sq, occ)) & pos.Pieces(side, p)
		}
		for _, from := range bb.ToSquares() {
			ret = append(ret, board.Placement{Square: from, Color: side, Piece: p})
		}
	}
	return ret
}

// SortByNominalValue orders the placement list by nominal material value, low to high --
// the MVV-LVA "least valuable attacker first" convention used by SEE and capture ordering.
func SortByNominalValue(pieces []board.Placement) []board.Placement {
	sort.SliceStable(pieces, func(i, j int) bool {
		return NominalValue(pieces[i].Piece) < NominalValue(pieces[j].Piece)
	})
	return pieces
}

// CaptureGain estimates the nominal material swing of a move for MVV-LVA move ordering:
// the value of whatever it captures (plus promotion gain), ignoring recapture. Search
// move ordering refines this further with SEE; this is the cheap first-pass score.
func CaptureGain(pos *board.Position, m board.Move) Score {
	var gain Score
	if m.IsEnPassant() {
		gain += ValuePawn
	} else if _, captured, ok := pos.PieceOn(m.To()); ok {
		gain += NominalValue(captured)
	}
	if m.IsPromotion() {
		gain += NominalValue(m.Promotion()) - ValuePawn
	}
	return gain
}
