// Package fen contains utilities for reading and writing positions in FEN notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/corvidchess/corvid/pkg/board"
)

const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode returns a new position from a FEN description.
//
// Example:
//
//	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"
func Decode(fen string) (*board.Position, error) {
	// A FEN record contains six space-separated fields.

	parts := strings.Split(strings.TrimSpace(fen), " ")
	if len(parts) != 6 {
		return nil, fmt.Errorf("invalid number of sections in FEN: %q", fen)
	}

	// (1) Piece placement (from white's perspective). Each rank is described,
	// starting with rank 8 and ending with rank 1; within each rank, the
	// contents of each square are described from file a through file h.

	var pieces []board.Placement

	rank, file := board.Rank8, board.ZeroFile
	for _, r := range parts[0] {
		switch {
		case r == '/':
			if file != board.NumFiles {
				return nil, fmt.Errorf("incomplete rank in FEN: %q", fen)
			}
			if rank == board.ZeroRank {
				return nil, fmt.Errorf("too many ranks in FEN: %q", fen)
			}
			rank--
			file = board.ZeroFile

		case unicode.IsDigit(r):
			// Blank squares are noted using digits 1 through 8 (the number of blank squares).
			file += board.File(r - '0')

		case unicode.IsLetter(r):
			// Each piece is identified by a single letter taken from the standard
			// English names (pawn="P", knight="N", bishop="B", rook="R", queen="Q",
			// king="K"). White uses upper-case, black lower-case.

			if file >= board.NumFiles {
				return nil, fmt.Errorf("rank overflow in FEN: %q", fen)
			}
			color, piece, ok := parsePiece(r)
			if !ok {
				return nil, fmt.Errorf("invalid piece %q in FEN: %q", r, fen)
			}
			pieces = append(pieces, board.Placement{Square: board.NewSquare(file, rank), Color: color, Piece: piece})
			file++

		default:
			return nil, fmt.Errorf("invalid character %q in FEN: %q", r, fen)
		}
	}
	if rank != board.ZeroRank || file != board.NumFiles {
		return nil, fmt.Errorf("invalid number of squares in FEN: %q", fen)
	}

	// (2) Active color. "w" means white moves next, "b" means black.

	active, ok := parseColor(parts[1])
	if !ok {
		return nil, fmt.Errorf("invalid active color in FEN: %q", fen)
	}

	// (3) Castling availability. "-" if neither side can castle, else one or more of
	// "K" (white kingside), "Q" (white queenside), "k" (black kingside), "q" (black
	// queenside).

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, fmt.Errorf("invalid castling in FEN: %q", fen)
	}

	// (4) En passant target square. "-" if none, else the square "behind" a pawn that
	// just made a 2-square move.

	ep := board.NoSquare
	if parts[3] != "-" {
		sq, err := board.ParseSquareStr(parts[3])
		if err != nil {
			return nil, fmt.Errorf("invalid en passant in FEN: %q", fen)
		}
		ep = sq
	}

	// (5) Halfmove clock: halfmoves since the last pawn advance or capture, used for
	// the fifty-move rule.

	np, err := strconv.Atoi(parts[4])
	if err != nil || np < 0 {
		return nil, fmt.Errorf("invalid halfmove clock in FEN: %q", fen)
	}

	// (6) Fullmove number: starts at 1, incremented after black's move.

	fm, err := strconv.Atoi(parts[5])
	if err != nil || fm < 1 {
		return nil, fmt.Errorf("invalid fullmove number in FEN: %q", fen)
	}

	pos, err := board.NewPosition(pieces, active, castling, ep, np, fm)
	if err != nil {
		return nil, fmt.Errorf("invalid position in FEN: %q: %w", fen, err)
	}
	return pos, nil
}

// Encode encodes the position in FEN notation.
func Encode(pos *board.Position) string {
	var sb strings.Builder
	for r := int(board.Rank8); r >= int(board.Rank1); r-- {
		blanks := 0
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			color, piece, ok := pos.PieceOn(board.NewSquare(f, board.Rank(r)))
			if !ok {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(color, piece))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if r > int(board.Rank1) {
			sb.WriteString("/")
		}
	}

	turn := printColor(pos.Turn())
	castling := printCastling(pos.Castling())

	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), turn, castling, ep, pos.HalfmoveClock(), pos.FullmoveNumber())
}

func parseCastling(str string) (board.Castling, bool) {
	var ret board.Castling

	if str == "-" {
		return ret, true
	}
	for _, r := range str {
		switch r {
		case 'K':
			ret |= board.WhiteKingSideCastle
		case 'Q':
			ret |= board.WhiteQueenSideCastle
		case 'k':
			ret |= board.BlackKingSideCastle
		case 'q':
			ret |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func printCastling(c board.Castling) string {
	return c.String()
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w", "W":
		return board.White, true
	case "b", "B":
		return board.Black, true
	default:
		return 0, false
	}
}

func printColor(c board.Color) string {
	if c == board.White {
		return "w"
	}
	return "b"
}

func parsePiece(r rune) (board.Color, board.Piece, bool) {
	piece, ok := board.ParsePiece(unicode.ToLower(r))
	if !ok {
		return board.NoColor, board.NoPiece, false
	}
	if unicode.IsUpper(r) {
		return board.White, piece, true
	}
	return board.Black, piece, true
}

func printPiece(c board.Color, p board.Piece) rune {
	s := p.String()
	if c == board.White {
		s = strings.ToUpper(s)
	}
	return []rune(s)[0]
}
