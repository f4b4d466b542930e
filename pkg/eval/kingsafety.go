package eval

import "github.com/corvidchess/corvid/pkg/board"

// attackWeight scores how dangerous each attacking piece type is near the king, grounded
// on DiscoCheck's AttackWeight table.
var attackWeight = [board.NumPieces]int{
	board.Pawn:   1,
	board.Knight: 2,
	board.Bishop: 3,
	board.Rook:   3,
	board.Queen:  4,
	board.King:   0,
}

const shieldWeight = 3

// kingSafety penalizes an open king: every enemy knight, bishop, rook or queen bearing on
// the king's square or a square next to it contributes attackWeight[piece] to a running
// danger total, enemy pawns attacking that zone add attackWeight[Pawn] once in all, and a
// missing pawn shield on the three squares just in front of the king adds further danger.
// The total is applied only to the opening-phase score (kings get safer to expose as
// material comes off), matching the original's op-only penalty.
func kingSafety(pos *board.Position, us board.Color) Score {
	them := us.Opponent()
	ksq := pos.King(us)
	kingZone := board.KingAttackboard(ksq) | board.BitMask(ksq)
	occ := pos.AllOccupancy()

	danger := 0
	for _, p := range [4]board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
		attackers := pos.Pieces(them, p)
		for bb := attackers; bb != 0; {
			var sq board.Square
			sq, bb = bb.PopLSB()
			if board.Attackboard(p, sq, occ)&kingZone != 0 {
				danger += attackWeight[p]
			}
		}
	}
	pawnAttacks := board.PawnAttackboard(them, pos.Pieces(them, board.Pawn))
	if pawnAttacks&kingZone != 0 {
		danger += attackWeight[board.Pawn]
	}

	shield := shieldZone(us, ksq) & pos.Pieces(us, board.Pawn)
	danger += (3 - min3(shield.PopCount(), 3)) * shieldWeight

	return Score(-danger * danger / 4)
}

// shieldZone is the three squares directly in front of the king (its own square's file
// and the two adjacent files, one rank forward), the classic pawn-shield check.
func shieldZone(us board.Color, ksq board.Square) board.Bitboard {
	var rank board.Rank
	if us == board.White {
		rank = ksq.Rank() + 1
	} else {
		rank = ksq.Rank() - 1
	}
	if rank > board.Rank8 {
		return 0
	}
	var b board.Bitboard
	for f := maxFile(ksq.File()-1, board.FileA); f <= minFile(ksq.File()+1, board.FileH); f++ {
		b |= board.BitMask(board.NewSquare(f, rank))
	}
	return b
}

func maxFile(a, b board.File) board.File {
	if a > board.NumFiles {
		return b // a underflowed past FileA
	}
	if a > b {
		return a
	}
	return b
}

func minFile(a, b board.File) board.File {
	if a < b {
		return a
	}
	return b
}

func min3(a, b int) int {
	if a < b {
		return a
	}
	return b
}
