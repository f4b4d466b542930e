package eval

import "github.com/corvidchess/corvid/pkg/board"

// mobZero and mobUnit are the "free" move count before mobility starts scoring, and the
// per-phase centipawn weight per extra reachable square, grounded on DiscoCheck's
// eval_mobility (knights/bishops/rooks/queens only -- pawns and kings aren't scored for
// mobility there either).
var mobZero = [board.NumPieces]int{board.Knight: 3, board.Bishop: 4, board.Rook: 5}

var mobUnitOp = [board.NumPieces]int{board.Knight: 4, board.Bishop: 5, board.Rook: 2, board.Queen: 1}
var mobUnitEg = [board.NumPieces]int{board.Knight: 4, board.Bishop: 5, board.Rook: 4, board.Queen: 2}

// mobility scores how many safe squares each minor/major piece can reach: squares not
// occupied by our own pawns or king, and not defended by an enemy pawn.
func mobility(pos *board.Position, us board.Color) (op, eg Score) {
	them := us.Opponent()
	theirPawnDefended := board.PawnAttackboard(them, pos.Pieces(them, board.Pawn))
	targets := ^(pos.Pieces(us, board.Pawn) | pos.Pieces(us, board.King) | theirPawnDefended)
	occ := pos.AllOccupancy()

	for _, p := range [4]board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
		for bb := pos.Pieces(us, p); bb != 0; {
			var sq board.Square
			sq, bb = bb.PopLSB()
			count := (board.Attackboard(p, sq, occ) & targets).PopCount() - mobZero[p]
			op += Score(count * mobUnitOp[p])
			eg += Score(count * mobUnitEg[p])
		}
	}
	return op, eg
}
