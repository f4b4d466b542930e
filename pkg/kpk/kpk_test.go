package kpk_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/kpk"
	"github.com/stretchr/testify/assert"
)

// TestProbeWinWithKeySquare checks the textbook "key square" win: the attacking king
// already stands in front of its pawn, which is decisive regardless of the side to move.
func TestProbeWinWithKeySquare(t *testing.T) {
	win := kpk.Probe(board.D6, board.D5, board.D8, board.White)
	assert.True(t, win)
}

// TestProbeDrawWhenKingTooFar checks the textbook blockade draw: the defending king
// already stands in the pawn's path two squares ahead and the attacking king is far too far away to
// ever help, regardless of the side to move.
func TestProbeDrawWhenKingTooFar(t *testing.T) {
	win := kpk.Probe(board.A1, board.D4, board.D6, board.White)
	assert.False(t, win)
}

// TestProbeKeySquareWinIgnoresSideToMove checks that occupying the key square wins
// regardless of whose move it is -- the whole point of key-square theory.
func TestProbeKeySquareWinIgnoresSideToMove(t *testing.T) {
	win := kpk.Probe(board.D6, board.D5, board.D8, board.Black)
	assert.True(t, win)
}
