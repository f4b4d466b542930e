package eval

import "github.com/corvidchess/corvid/pkg/board"

// Piece values in centipawns, from spec's nominal material table. The king's value is
// used by SEE (a king can't really be captured, but SEE's exchange simulation needs
// *some* upper bound so a king "recapture" always looks winning) and is also added to
// each side's PSQ accumulator by tableValues.Value, where the two kings cancel out in
// Evaluate.
const (
	ValuePawn   Score = 80
	ValueKnight Score = 330
	ValueBishop Score = 330
	ValueRook   Score = 545
	ValueQueen  Score = 1000
	ValueKing   Score = 20000
)

var pieceValue = [board.NumPieces]Score{
	board.Pawn:   ValuePawn,
	board.Knight: ValueKnight,
	board.Bishop: ValueBishop,
	board.Rook:   ValueRook,
	board.Queen:  ValueQueen,
	board.King:   ValueKing,
}

// NominalValue is the absolute material value of a piece in centipawns.
func NominalValue(p board.Piece) Score {
	return pieceValue[p]
}

// phaseWeight is how much of the opening->endgame phase counter each piece contributes
// when on the board; the sum over a full starting material set is phaseMax.
var phaseWeight = [board.NumPieces]int{
	board.Pawn:   0,
	board.Knight: 1,
	board.Bishop: 1,
	board.Rook:   2,
	board.Queen:  4,
	board.King:   0,
}

var phaseMax = 4*phaseWeight[board.Knight] + 4*phaseWeight[board.Bishop] + 4*phaseWeight[board.Rook] + 2*phaseWeight[board.Queen]

// psqBonus holds tapered (midgame, endgame) piece-square adjustments, indexed by
// [piece][square from White's point of view, A1=0..H8=63]. Black's bonus for a square is
// looked up on the vertically mirrored square (flip the rank). The shape -- one table per
// piece, a {mg, eg} pair per square, summed into the tapered score alongside material --
// follows the classic PeSTO tapered-PSQT layout; values are hand-tuned small nudges
// (centre control for knights/bishops, rook on open files via 7th rank bonus, king
// safety in the middlegame vs. centralisation in the endgame) rather than a tuned table.
type psqBonus struct{ mg, eg Score }

var psqTable = [board.NumPieces][64]psqBonus{
	board.Pawn: {
		{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0},
		{5, 10}, {10, 10}, {10, 10}, {-20, 10}, {-20, 10}, {10, 10}, {10, 10}, {5, 10},
		{5, 5}, {-5, 5}, {-10, 5}, {0, 5}, {0, 5}, {-10, 5}, {-5, 5}, {5, 5},
		{0, 10}, {0, 10}, {0, 10}, {20, 15}, {20, 15}, {0, 10}, {0, 10}, {0, 10},
		{5, 20}, {5, 20}, {10, 20}, {25, 30}, {25, 30}, {10, 20}, {5, 20}, {5, 20},
		{10, 40}, {10, 40}, {20, 40}, {30, 45}, {30, 45}, {20, 40}, {10, 40}, {10, 40},
		{50, 60}, {50, 60}, {50, 60}, {50, 60}, {50, 60}, {50, 60}, {50, 60}, {50, 60},
		{0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0},
	},
	board.Knight: {
		{-50, -40}, {-40, -20}, {-30, -10}, {-30, -10}, {-30, -10}, {-30, -10}, {-40, -20}, {-50, -40},
		{-40, -20}, {-20, -5}, {0, 0}, {5, 0}, {5, 0}, {0, 0}, {-20, -5}, {-40, -20},
		{-30, -10}, {5, 0}, {10, 10}, {15, 15}, {15, 15}, {10, 10}, {5, 0}, {-30, -10},
		{-30, -5}, {0, 5}, {15, 15}, {20, 20}, {20, 20}, {15, 15}, {0, 5}, {-30, -5},
		{-30, -5}, {5, 5}, {15, 15}, {20, 20}, {20, 20}, {15, 15}, {5, 5}, {-30, -5},
		{-30, -10}, {0, 0}, {10, 10}, {15, 15}, {15, 15}, {10, 10}, {0, 0}, {-30, -10},
		{-40, -20}, {-20, -5}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-20, -5}, {-40, -20},
		{-50, -40}, {-40, -20}, {-30, -10}, {-30, -10}, {-30, -10}, {-30, -10}, {-40, -20}, {-50, -40},
	},
	board.Bishop: {
		{-20, -15}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-20, -15},
		{-10, -10}, {5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {5, 0}, {-10, -10},
		{-10, -10}, {10, 0}, {10, 5}, {10, 5}, {10, 5}, {10, 5}, {10, 0}, {-10, -10},
		{-10, -10}, {0, 0}, {10, 5}, {15, 10}, {15, 10}, {10, 5}, {0, 0}, {-10, -10},
		{-10, -10}, {5, 0}, {5, 5}, {15, 10}, {15, 10}, {5, 5}, {5, 0}, {-10, -10},
		{-10, -10}, {0, 0}, {5, 5}, {10, 5}, {10, 5}, {5, 5}, {0, 0}, {-10, -10},
		{-10, -10}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-10, -10},
		{-20, -15}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-10, -10}, {-20, -15},
	},
	board.Rook: {
		{0, 0}, {0, 0}, {5, 0}, {10, 0}, {10, 0}, {5, 0}, {0, 0}, {0, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-5, 0},
		{5, 5}, {10, 5}, {10, 5}, {10, 5}, {10, 5}, {10, 5}, {10, 5}, {5, 5},
		{0, 5}, {0, 5}, {0, 5}, {5, 5}, {5, 5}, {0, 5}, {0, 5}, {0, 5},
	},
	board.Queen: {
		{-20, -20}, {-10, -10}, {-10, -10}, {-5, -5}, {-5, -5}, {-10, -10}, {-10, -10}, {-20, -20},
		{-10, -10}, {0, 0}, {5, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-10, -10},
		{-10, -10}, {5, 0}, {5, 5}, {5, 5}, {5, 5}, {5, 5}, {0, 0}, {-10, -10},
		{0, 0}, {0, 0}, {5, 5}, {5, 10}, {5, 10}, {5, 5}, {0, 0}, {-5, 0},
		{-5, 0}, {0, 0}, {5, 5}, {5, 10}, {5, 10}, {5, 5}, {0, 0}, {-5, 0},
		{-10, -10}, {0, 0}, {5, 5}, {5, 5}, {5, 5}, {5, 5}, {0, 0}, {-10, -10},
		{-10, -10}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {-10, -10},
		{-20, -20}, {-10, -10}, {-10, -10}, {-5, -5}, {-5, -5}, {-10, -10}, {-10, -10}, {-20, -20},
	},
	board.King: {
		{20, -50}, {30, -30}, {10, -30}, {0, -30}, {0, -30}, {10, -30}, {30, -30}, {20, -50},
		{20, -30}, {20, -10}, {0, 0}, {0, 0}, {0, 0}, {0, 0}, {20, -10}, {20, -30},
		{-10, -30}, {-20, 0}, {-20, 10}, {-20, 15}, {-20, 15}, {-20, 10}, {-20, 0}, {-10, -30},
		{-20, -30}, {-30, 0}, {-30, 15}, {-40, 20}, {-40, 20}, {-30, 15}, {-30, 0}, {-20, -30},
		{-30, -30}, {-40, 0}, {-40, 15}, {-50, 20}, {-50, 20}, {-40, 15}, {-40, 0}, {-30, -30},
		{-30, -30}, {-40, 0}, {-40, 10}, {-50, 15}, {-50, 15}, {-40, 10}, {-40, 0}, {-30, -30},
		{-30, -30}, {-40, -10}, {-40, 0}, {-50, 0}, {-50, 0}, {-40, 0}, {-40, -10}, {-30, -30},
		{-30, -50}, {-40, -30}, {-40, -30}, {-50, -30}, {-50, -30}, {-40, -30}, {-40, -30}, {-30, -50},
	},
}

// mirror flips a square vertically (A1<->A8), used to share White's psqTable with Black.
func mirror(sq board.Square) board.Square {
	return board.NewSquare(sq.File(), board.Rank8-sq.Rank())
}

func psqLookup(c board.Color, p board.Piece, sq board.Square) psqBonus {
	if c == board.Black {
		sq = mirror(sq)
	}
	return psqTable[p][sq]
}

// tableValues is the board.PSQValues implementation installed on Position, so material
// and piece-square bonuses are folded into Position's own running accumulators on every
// make/unmake (see board.RegisterPSQValues) rather than re-walked from the bitboards on
// every Evaluate call.
type tableValues struct{}

func (tableValues) Value(c board.Color, p board.Piece, sq board.Square) (mg, eg int32) {
	material := int32(NominalValue(p))
	bonus := psqLookup(c, p, sq)
	return material + int32(bonus.mg), material + int32(bonus.eg)
}

func init() {
	board.RegisterPSQValues(tableValues{})
}
