package engine

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
)

// Book represents an opening book.
type Book interface {
	// Find returns a list -- potentially empty -- of moves known from the given position.
	// Once an empty list is returned for a game, the book should not be consulted again.
	Find(ctx context.Context, pos *board.Position) ([]board.Move, error)
}

// Line represents an opening line, e.g. []string{"e2e4", "d7d5"}.
type Line []string

func (l Line) String() string {
	return strings.Join(l, " ")
}

// NoBook is an empty opening book.
var NoBook Book = &book{moves: map[string][]board.Move{}}

// NewBook builds an opening book by replaying each line from the initial position,
// keying every reached position on its book key (§ bookKey) to the set of moves seen
// played from it across all lines.
func NewBook(lines []Line) (Book, error) {
	m := map[string]map[board.Move]bool{}

	for _, line := range lines {
		pos, err := fen.Decode(fen.Initial)
		if err != nil {
			panic(err) // fen.Initial is a compile-time constant, never invalid
		}

		for _, str := range line {
			var buf [board.MoveBufferCapacity]board.Move
			legal := board.GenMoves(pos, buf[:])

			next, ok := board.MatchUCI(legal, str)
			if !ok {
				return nil, fmt.Errorf("invalid line %v: move %q not legal", line, str)
			}

			key := bookKey(pos)
			if m[key] == nil {
				m[key] = map[board.Move]bool{}
			}
			m[key][next] = true

			pos.MakeMove(next)
		}
	}

	dedup := map[string][]board.Move{}
	for k, v := range m {
		var list []board.Move
		for move := range v {
			list = append(list, move)
		}
		sort.Slice(list, func(i, j int) bool { return list[i].String() < list[j].String() })
		dedup[k] = list
	}
	return &book{moves: dedup}, nil
}

type book struct {
	moves map[string][]board.Move // bookKey(position) -> candidate moves
}

func (b *book) Find(ctx context.Context, pos *board.Position) ([]board.Move, error) {
	return b.moves[bookKey(pos)], nil
}

// bookKey keys a position on the FEN fields that affect legal replies (placement, turn,
// castling rights, ep-square), dropping the halfmove/fullmove counters so the same book
// line reached via a different game history still hits.
func bookKey(pos *board.Position) string {
	parts := strings.SplitN(fen.Encode(pos), " ", 5)
	return strings.Join(parts[:4], " ")
}
