package board

import "fmt"

// MoveFlag distinguishes the four move shapes that need special handling on make/unmake.
// Ordinary moves, including captures, are Normal: a capture is detected by destination
// occupancy, not by a distinct flag.
type MoveFlag uint8

const (
	Normal MoveFlag = iota
	EnPassantFlag
	PromotionFlag
	CastlingFlag
)

// promoCode/promoPiece map the packed 2-bit promotion code to/from a Piece. Meaningful
// only when Flag() == PromotionFlag.
var promoPieces = [4]Piece{Knight, Bishop, Rook, Queen}

func promoCode(p Piece) uint16 {
	switch p {
	case Bishop:
		return 1
	case Rook:
		return 2
	case Queen:
		return 3
	default:
		return 0 // Knight
	}
}

// Move is a 16-bit packed move: from(6) | to(6) | promotion-code(2) | flag(2). The zero
// value is the sentinel "no move" -- A1A1 is not a legal move in any position, so it is
// safe as a sentinel. A null search move (see Position.MakeNull) is represented by
// search state, not by a distinguished Move encoding.
type Move uint16

const NoMove Move = 0

func NewMove(from, to Square, flag MoveFlag) Move {
	return Move(uint16(from) | uint16(to)<<6 | uint16(flag)<<14)
}

func NewPromotion(from, to Square, promo Piece) Move {
	return Move(uint16(from) | uint16(to)<<6 | promoCode(promo)<<12 | uint16(PromotionFlag)<<14)
}

func (m Move) From() Square {
	return Square(m & 0x3f)
}

func (m Move) To() Square {
	return Square((m >> 6) & 0x3f)
}

func (m Move) Flag() MoveFlag {
	return MoveFlag((m >> 14) & 0x3)
}

// Promotion returns the promotion piece; only meaningful when Flag() == PromotionFlag.
func (m Move) Promotion() Piece {
	return promoPieces[(m>>12)&0x3]
}

func (m Move) IsNull() bool {
	return m == NoMove
}

func (m Move) IsPromotion() bool {
	return m.Flag() == PromotionFlag
}

func (m Move) IsCastling() bool {
	return m.Flag() == CastlingFlag
}

func (m Move) IsEnPassant() bool {
	return m.Flag() == EnPassantFlag
}

// ParseMove parses a move in pure algebraic coordinate notation, such as "a2a4" or
// "a7a8q". The flag (en-passant/castling) is not known from text alone; callers
// resolve it against the legal move list (board.MatchUCI does this).
func ParseMove(str string) (Move, error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return NoMove, fmt.Errorf("invalid move: %q", str)
	}

	from, err := ParseSquare(runes[0], runes[1])
	if err != nil {
		return NoMove, fmt.Errorf("invalid from square in %q: %w", str, err)
	}
	to, err := ParseSquare(runes[2], runes[3])
	if err != nil {
		return NoMove, fmt.Errorf("invalid to square in %q: %w", str, err)
	}

	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return NoMove, fmt.Errorf("invalid promotion in %q", str)
		}
		return NewPromotion(from, to, promo), nil
	}
	return NewMove(from, to, Normal), nil
}

// MatchUCI finds the move among moves (normally a legal move list) whose UCI coordinate
// text equals str, resolving the en-passant/castling/promotion flag that text alone
// cannot carry.
func MatchUCI(moves []Move, str string) (Move, bool) {
	for _, m := range moves {
		if m.String() == str {
			return m, true
		}
	}
	return NoMove, false
}

func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	if m.IsPromotion() {
		return fmt.Sprintf("%v%v%v", m.From(), m.To(), m.Promotion())
	}
	return fmt.Sprintf("%v%v", m.From(), m.To())
}

// PrintMoves renders a move sequence as space-separated UCI coordinate notation.
func PrintMoves(moves []Move) string {
	var buf []byte
	for i, m := range moves {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = append(buf, []byte(m.String())...)
	}
	return string(buf)
}
