package eval

import "github.com/corvidchess/corvid/pkg/board"

// SEE runs a static exchange evaluation of the capture sequence on m.To(), returning the
// net material gain in centipawns for the side making m if both sides trade off optimally
// (each side always recaptures with its least valuable attacker, and a side stops only
// when it runs out of attackers). Ported from the classic "swap list" algorithm (see
// _examples/original_source/see.cc): gain[0] is the value of whatever m captures, plus a
// promotion bonus if m itself promotes; each subsequent gain[ply] is the nominal value of
// the piece now sitting on the square (the previous recapture's occupant, promoted to a
// queen if it was a pawn reaching the back rank) minus the previous ply's gain; and the
// final score is computed by negamaxing back down the gain array.
func SEE(pos *board.Position, m board.Move) Score {
	from, to := m.From(), m.To()
	mover := pos.Turn()

	occ := pos.AllOccupancy()

	var captured board.Piece
	if m.IsEnPassant() {
		capSq := board.NewSquare(to.File(), from.Rank())
		occ &^= board.BitMask(capSq)
		captured = board.Pawn
	} else if _, c, ok := pos.PieceOn(to); ok {
		captured = c
	}

	var gain [32]Score
	idx := 0
	gain[0] = NominalValue(captured)
	occ &^= board.BitMask(from)

	// occupant tracks the nominal value of whatever piece now sits on `to`, for the next
	// recapture to give up -- the mover's own piece, or a queen if m itself promotes.
	var occupant board.Piece
	if m.IsPromotion() {
		gain[0] += NominalValue(m.Promotion()) - ValuePawn
		occupant = board.Queen
	} else {
		_, occupant, _ = pos.PieceOn(from)
	}

	attackers := attacksTo(pos, to, occ)
	side := mover.Opponent()
	stmAttackers := attackers & pos.Occupancy(side)
	if stmAttackers == 0 {
		return gain[0]
	}

	for {
		sq, piece, ok := leastValuableAttacker(pos, stmAttackers, side)
		if !ok {
			break
		}

		occ &^= board.BitMask(sq)
		attackers |= revealedAttackers(pos, to, occ)
		attackers &= occ

		idx++
		gain[idx] = -gain[idx-1] + NominalValue(occupant)
		if piece == board.Pawn && board.BitMask(to)&board.PawnPromotionRank(side) != 0 {
			gain[idx] += ValueQueen - ValuePawn
			occupant = board.Queen
		} else {
			occupant = piece
		}

		side = side.Opponent()
		stmAttackers = attackers & pos.Occupancy(side)

		if piece == board.King && stmAttackers != 0 {
			// A king capture that is itself recapturable is illegal, but the exchange
			// walk can't tell that from material alone: stop here rather than let a
			// "captured" king ever appear in the gain array.
			break
		}
		if stmAttackers == 0 {
			break
		}
	}

	for ; idx > 0; idx-- {
		if g := -gain[idx]; g < gain[idx-1] {
			gain[idx-1] = g
		}
	}
	return gain[0]
}

// attacksTo returns every piece of either color attacking sq under the given occupancy
// (which may differ from the live position's, to model a partially resolved exchange).
func attacksTo(pos *board.Position, sq board.Square, occ board.Bitboard) board.Bitboard {
	var att board.Bitboard
	for _, c := range [2]board.Color{board.White, board.Black} {
		att |= board.KnightAttackboard(sq) & pos.Pieces(c, board.Knight)
		att |= board.KingAttackboard(sq) & pos.Pieces(c, board.King)
		att |= board.BishopAttackboard(sq, occ) & (pos.Pieces(c, board.Bishop) | pos.Pieces(c, board.Queen))
		att |= board.RookAttackboard(sq, occ) & (pos.Pieces(c, board.Rook) | pos.Pieces(c, board.Queen))
		att |= board.PawnAttackboard(c.Opponent(), board.BitMask(sq)) & pos.Pieces(c, board.Pawn)
	}
	return att
}

// revealedAttackers returns sliding attackers newly exposed by removing a piece from the
// exchange square's line of sight -- only sliders can be "x-rayed" this way.
func revealedAttackers(pos *board.Position, sq board.Square, occ board.Bitboard) board.Bitboard {
	var att board.Bitboard
	for _, c := range [2]board.Color{board.White, board.Black} {
		att |= board.BishopAttackboard(sq, occ) & (pos.Pieces(c, board.Bishop) | pos.Pieces(c, board.Queen)) & occ
		att |= board.RookAttackboard(sq, occ) & (pos.Pieces(c, board.Rook) | pos.Pieces(c, board.Queen)) & occ
	}
	return att
}

func leastValuableAttacker(pos *board.Position, attackers board.Bitboard, side board.Color) (board.Square, board.Piece, bool) {
	for _, p := range [6]board.Piece{board.Pawn, board.Knight, board.Bishop, board.Rook, board.Queen, board.King} {
		if bb := attackers & pos.Pieces(side, p); bb != 0 {
			return bb.LSB(), p, true
		}
	}
	return board.NoSquare, board.NoPiece, false
}

// SEECapture reports whether a capture on m.To() is a non-losing exchange for the side to
// move, the SEE >= 0 test used to prune bad captures in quiescence and move ordering.
func SEECapture(pos *board.Position, m board.Move) bool {
	return SEE(pos, m) >= 0
}
