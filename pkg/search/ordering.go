package search

import (
	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
)

// Priority bands used to build a move ordering function. Captures/quiets are further
// scored within their band so the heap still orders them finely; the bands themselves
// only need to keep TT move > good captures > killers > counters > quiet history > bad
// captures apart from each other.
const (
	priorityTT      movePriority = 30000
	priorityGoodCap movePriority = 20000
	priorityKiller0 movePriority = 15000
	priorityKiller1 movePriority = 14000
	priorityCounter movePriority = 13000
	priorityQuiet   movePriority = 0
	priorityBadCap  movePriority = -20000
)

// isCaptureOrPromotion reports whether m captures a piece (including en passant) or
// promotes, the "is_cop" predicate move ordering and quiescence both key off of.
func isCaptureOrPromotion(pos *board.Position, m board.Move) bool {
	if m.IsEnPassant() || m.IsPromotion() {
		return true
	}
	_, _, ok := pos.PieceOn(m.To())
	return ok
}

// OrderingContext bundles the per-node state move ordering needs beyond the position
// itself: the node type (governing whether captures are ranked by SEE or plain MVV-LVA),
// the transposition table's suggested move and the quiet-move heuristics.
type OrderingContext struct {
	Node    NodeType
	TTMove  board.Move
	Ply     int
	Counter board.Move

	Killers *KillerTable
	History *HistoryTable
}

// priorityFn builds the move ordering function for a position given ctx. The TT move
// always sorts first, ahead of every band below. At PV and Cut nodes, captures are ranked
// by SEE so a losing exchange sorts below quiet moves instead of ahead of them; at All
// nodes every move is expected to be searched anyway, so the cheaper MVV-LVA estimate is
// used instead to save the SEE walk.
func priorityFn(pos *board.Position, ctx OrderingContext) func(board.Move) movePriority {
	killers := ctx.Killers.Get(ctx.Ply)

	return func(m board.Move) movePriority {
		switch {
		case m == ctx.TTMove:
			return priorityTT
		case isCaptureOrPromotion(pos, m):
			gain := eval.CaptureGain(pos, m)
			good := gain >= 0
			if ctx.Node != AllNode {
				good = eval.SEECapture(pos, m)
			}
			if good {
				return priorityGoodCap + movePriority(clampScore(gain))
			}
			return priorityBadCap + movePriority(clampScore(gain))
		case m == killers[0]:
			return priorityKiller0
		case m == killers[1]:
			return priorityKiller1
		case m == ctx.Counter:
			return priorityCounter
		default:
			_, p, _ := pos.PieceOn(m.From())
			return priorityQuiet + movePriority(clampHistory(ctx.History.Get(pos.Turn(), p, m.To())))
		}
	}
}

func clampScore(s eval.Score) int16 {
	switch {
	case s > 9000:
		return 9000
	case s < -9000:
		return -9000
	default:
		return int16(s)
	}
}

func clampHistory(v int32) int16 {
	switch {
	case v > 9000:
		return 9000
	case v < -9000:
		return -9000
	default:
		return int16(v)
	}
}
