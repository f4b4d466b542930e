package eval_test

import (
	"testing"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEvaluateInitialPositionIsBalanced checks that the starting position, with
// identical material, piece placement and mobility on both sides, evaluates to exactly
// zero: there is no tempo bonus in this evaluator.
func TestEvaluateInitialPositionIsBalanced(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)

	e := eval.NewEngine()
	assert.Equal(t, eval.Score(0), e.Evaluate(pos))
}

// TestEvaluateFavorsMaterialAdvantage checks that being up a whole rook, all else equal,
// swings the evaluation decisively in the favored side's direction.
func TestEvaluateFavorsMaterialAdvantage(t *testing.T) {
	pos, err := fen.Decode("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)

	e := eval.NewEngine()
	assert.Greater(t, e.Evaluate(pos), eval.Score(300))
}

// TestEvaluateRecognizesInsufficientMaterialDraw checks that bare kings evaluate to an
// exact draw.
func TestEvaluateRecognizesInsufficientMaterialDraw(t *testing.T) {
	pos, err := fen.Decode("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	require.NoError(t, err)

	e := eval.NewEngine()
	assert.Equal(t, eval.Score(0), e.Evaluate(pos))
}

// TestPSQAccumulatorTracksMakeUnmake checks that Position's incremental material+PSQ
// accumulator (read by Evaluate via materialAndPSQ) reflects a promotion
// as it is made, and is restored exactly on unmake -- the incremental-PSQ invariant
// spec.md §3 requires of Position.
func TestPSQAccumulatorTracksMakeUnmake(t *testing.T) {
	pos, err := fen.Decode("4k3/3P4/8/8/8/8/8/4K2r w - - 0 1")
	require.NoError(t, err)

	e := eval.NewEngine()
	before := e.Evaluate(pos)

	mgBefore, _ := pos.PSQ(board.White)
	m := board.NewPromotion(board.D7, board.D8, board.Queen)
	pos.MakeMove(m)

	mg, _ := pos.PSQ(board.White)
	assert.Greater(t, mg-mgBefore, int32(eval.ValuePawn), "promotion must add the queen's material, not keep the pawn's")

	pos.UnmakeMove()
	assert.Equal(t, before, e.Evaluate(pos), "unmake must restore the exact pre-move accumulator")
}

func TestNominalValueOrdering(t *testing.T) {
	assert.Less(t, eval.NominalValue(board.Pawn), eval.NominalValue(board.Knight))
	assert.LessOrEqual(t, eval.NominalValue(board.Knight), eval.NominalValue(board.Bishop))
	assert.Less(t, eval.NominalValue(board.Bishop), eval.NominalValue(board.Rook))
	assert.Less(t, eval.NominalValue(board.Rook), eval.NominalValue(board.Queen))
}
