package board_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenMovesPawns(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		expected []string
	}{
		{
			name:     "push and jump",
			fen:      "4k3/8/6p1/8/8/8/4P3/4K3 w - - 0 1",
			expected: []string{"e2e3", "e2e4"},
		},
		{
			name:     "push into promotion",
			fen:      "k7/3P4/8/8/8/8/8/4K3 w - - 0 1",
			expected: []string{"d7d8q", "d7d8r", "d7d8b", "d7d8n"},
		},
		{
			name:     "en passant both sides",
			fen:      "4k3/8/8/2pPp3/8/8/8/4K3 w - c6 0 1",
			expected: []string{"d5c6", "d5d6"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := fen.Decode(tt.fen)
			require.NoError(t, err)

			var buf [board.MoveBufferCapacity]board.Move
			moves := board.GenMoves(pos, buf[:])

			var pawnMoves []string
			for _, m := range moves {
				_, piece, _ := pos.PieceOn(m.From())
				if piece == board.Pawn {
					pawnMoves = append(pawnMoves, m.String())
				}
			}
			assert.ElementsMatch(t, tt.expected, pawnMoves)
		})
	}
}

func TestGenMovesCastling(t *testing.T) {
	t.Run("full rights", func(t *testing.T) {
		pos, err := fen.Decode("r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1")
		require.NoError(t, err)

		var buf [board.MoveBufferCapacity]board.Move
		moves := board.GenMoves(pos, buf[:])

		assert.Contains(t, moveStrings(moves), "e1g1")
		assert.Contains(t, moveStrings(moves), "e1c1")
	})

	t.Run("blocked by attacked crossing square", func(t *testing.T) {
		pos, err := fen.Decode("r3k2r/8/8/8/8/7b/8/R3K2R w KQkq - 0 1")
		require.NoError(t, err)

		var buf [board.MoveBufferCapacity]board.Move
		moves := board.GenMoves(pos, buf[:])

		// The bishop on h3 attacks g2/f1, so kingside castling (through f1) is illegal;
		// queenside is untouched.
		assert.NotContains(t, moveStrings(moves), "e1g1")
		assert.Contains(t, moveStrings(moves), "e1c1")
	})

	t.Run("no rights means no castling moves", func(t *testing.T) {
		pos, err := fen.Decode("r3k2r/8/8/8/8/8/8/R3K2R w - - 0 1")
		require.NoError(t, err)

		var buf [board.MoveBufferCapacity]board.Move
		moves := board.GenMoves(pos, buf[:])

		assert.NotContains(t, moveStrings(moves), "e1g1")
		assert.NotContains(t, moveStrings(moves), "e1c1")
	})
}

func TestGenEvasionSingleCheck(t *testing.T) {
	pos, err := fen.Decode("4k3/8/8/8/8/8/4r3/4K3 w - - 0 1")
	require.NoError(t, err)

	require.True(t, pos.IsChecked(board.White))

	var buf [board.MoveBufferCapacity]board.Move
	moves := board.GenEvasion(pos, buf[:])
	require.NotEmpty(t, moves)

	for _, m := range moves {
		mover := pos.Turn()
		pos.MakeMove(m)
		assert.False(t, pos.IsChecked(mover))
		pos.UnmakeMove()
	}
}

func TestMakeUnmakeRestoresState(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	before := fen.Encode(pos)
	beforeHash := pos.Hash()

	var buf [board.MoveBufferCapacity]board.Move
	moves := board.GenMoves(pos, buf[:])
	require.NotEmpty(t, moves)

	for _, m := range moves {
		pos.MakeMove(m)
		pos.UnmakeMove()
		assert.Equal(t, before, fen.Encode(pos))
		assert.Equal(t, beforeHash, pos.Hash())
	}
}

func TestLegalMovesNeverLeaveMoverInCheck(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	assert.False(t, pos.IsChecked(board.White))

	var buf [board.MoveBufferCapacity]board.Move
	for _, m := range board.GenMoves(pos, buf[:]) {
		mover := pos.Turn()
		pos.MakeMove(m)
		assert.False(t, pos.IsChecked(mover))
		pos.UnmakeMove()
	}
}

func TestPerftStartPosition(t *testing.T) {
	tests := []struct {
		depth    int
		expected uint64
	}{
		{1, 20},
		{2, 400},
		{3, 8902},
		{4, 197281},
	}

	for _, tt := range tests {
		pos, err := fen.Decode(fen.Initial)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, board.Perft(pos, tt.depth), "depth %d", tt.depth)
	}
}

func TestPerftKiwipete(t *testing.T) {
	pos, err := fen.Decode("r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	require.NoError(t, err)
	assert.Equal(t, uint64(48), board.Perft(pos, 1))
	assert.Equal(t, uint64(2039), board.Perft(pos, 2))
}

func moveStrings(moves []board.Move) []string {
	var ret []string
	for _, m := range moves {
		ret = append(ret, m.String())
	}
	return ret
}
