package search

import (
	"context"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// qsearchDepthFloor bounds how many plies a quiescence line may recurse before it is cut
// off unconditionally: tactical sequences occasionally run long (a string of checks or
// recaptures), and without a floor they can blow through the node budget chasing a line
// that static eval would have settled cheaply.
const qsearchDepthFloor = -8

// runQuiescence enters quiescence search at b's current position.
func runQuiescence(ctx context.Context, sctx *Context, b *board.Board, alpha, beta eval.Score) eval.Score {
	q := &quiescence{sctx: sctx, b: b}
	return q.search(ctx, alpha, beta, 0)
}

// quiescence resolves captures, promotions and (at its very first ply only) quiet checks
// before handing a quiet position's static evaluation back to the main search, so the
// horizon effect doesn't mistake a position mid-exchange for a settled one.
type quiescence struct {
	sctx *Context
	b    *board.Board
}

// search returns the score for the side to move at b's current position, with alpha/beta
// in that same perspective (negamax convention).
func (q *quiescence) search(ctx context.Context, alpha, beta eval.Score, qdepth int) eval.Score {
	if contextx.IsCancelled(ctx) {
		return 0
	}
	q.sctx.Nodes++

	pos := q.b.Position()
	inCheck := pos.IsChecked(pos.Turn())

	var standPat eval.Score
	if !inCheck {
		standPat = q.sctx.Eval.Evaluate(pos)
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	if qdepth <= qsearchDepthFloor {
		return alpha
	}

	var buf [board.MoveBufferCapacity]board.Move
	var moves []board.Move
	switch {
	case inCheck:
		moves = board.GenEvasion(pos, buf[:])
	case qdepth == 0:
		moves = board.GenMoves(pos, buf[:])
		moves = filterCapturesChecksAndPromotions(pos, moves)
	default:
		moves = board.GenMoves(pos, buf[:])
		moves = filterCapturesAndPromotions(pos, moves)
	}

	order := newMoveOrder(moves, captureOrderFn(pos))
	hasLegal := false
	for {
		m, ok := order.next()
		if !ok {
			break
		}

		if !inCheck && isCaptureOrPromotion(pos, m) && !eval.SEECapture(pos, m) {
			continue // losing exchange: never helps a side already standing pat
		}

		if !q.b.PushMove(m) {
			continue
		}
		hasLegal = true

		score := -q.search(ctx, -beta, -alpha, qdepth-1)
		q.b.PopMove()

		if score > alpha {
			alpha = score
			if alpha >= beta {
				return alpha
			}
		}
	}

	if inCheck && !hasLegal {
		return -eval.MateIn(0)
	}
	return alpha
}

func filterCapturesAndPromotions(pos *board.Position, moves []board.Move) []board.Move {
	out := moves[:0]
	for _, m := range moves {
		if isCaptureOrPromotion(pos, m) {
			out = append(out, m)
		}
	}
	return out
}

func filterCapturesChecksAndPromotions(pos *board.Position, moves []board.Move) []board.Move {
	var checks [board.MoveBufferCapacity]board.Move
	quietChecks := board.GenQuietChecks(pos, checks[:])

	out := moves[:0]
	for _, m := range moves {
		if isCaptureOrPromotion(pos, m) {
			out = append(out, m)
		}
	}
	out = append(out, quietChecks...)
	return out
}

func captureOrderFn(pos *board.Position) func(board.Move) movePriority {
	return func(m board.Move) movePriority {
		return movePriority(clampScore(eval.CaptureGain(pos, m)))
	}
}
