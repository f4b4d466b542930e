package search

import (
	"context"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/seekerror/stdlib/pkg/util/contextx"
)

// PVS implements principal variation search: the first move at every node is searched
// with the full alpha-beta window, every subsequent move with a cheap null window first,
// re-searched with the full window only if it unexpectedly fails high. Reductions
// (null-move, late-move) and pruning (razoring, futility, SEE) trade a small amount of
// tactical precision for a much smaller tree, on the assumption that move ordering has
// already put the best move first most of the time.
//
// See: https://en.wikipedia.org/wiki/Principal_variation_search.
type PVS struct{}

func (PVS) Search(ctx context.Context, sctx *Context, b *board.Board, depth int, alpha, beta eval.Score) (uint64, eval.Score, []board.Move, error) {
	sctx.Nodes = 0
	run := &runPVS{sctx: sctx, b: b}

	score, pv := run.search(ctx, depth, 0, alpha, beta, PVNode)
	if contextx.IsCancelled(ctx) || sctx.NodeLimitExceeded() {
		return sctx.Nodes, 0, nil, ErrHalted
	}
	return sctx.Nodes, score, pv, nil
}

type runPVS struct {
	sctx *Context
	b    *board.Board
}

// search returns the score for the side to move and, for PV nodes, the best line found.
func (r *runPVS) search(ctx context.Context, depth, ply int, alpha, beta eval.Score, node NodeType) (eval.Score, []board.Move) {
	if contextx.IsCancelled(ctx) || r.sctx.NodeLimitExceeded() {
		return 0, nil
	}

	isPV := node == PVNode
	pos := r.b.Position()

	if ply > 0 {
		if r.b.Result().Outcome == board.DrawOutcome {
			return 0, nil
		}
		// Mate distance pruning: a shorter mate than one already guaranteed elsewhere in
		// the tree can never improve the result, and a position can never be worse than
		// being mated on the very next move.
		alpha = eval.Max(alpha, -eval.MateIn(ply))
		beta = eval.Min(beta, eval.MateIn(ply+1))
		if alpha >= beta {
			return alpha, nil
		}
	}

	if depth <= 0 {
		score := runQuiescence(ctx, r.sctx, r.b, alpha, beta)
		return score, nil
	}

	r.sctx.Nodes++

	hash := pos.Hash()
	var ttMove board.Move
	if entry, ok := r.sctx.TT.Probe(hash, ply); ok {
		ttMove = entry.Move
		if !isPV && entry.Depth >= depth {
			switch entry.Bound {
			case ExactBound:
				return entry.Score, nil
			case LowerBound:
				if entry.Score >= beta {
					return entry.Score, nil
				}
			case UpperBound:
				if entry.Score <= alpha {
					return entry.Score, nil
				}
			}
		}
	}

	inCheck := pos.IsChecked(pos.Turn())
	staticEval := r.sctx.Eval.Evaluate(pos)

	notMateBeta := !eval.IsMateScore(beta)

	// Razoring: so far behind alpha at shallow depth that only a tactical shot could
	// recover, so drop straight to quiescence instead of a full-width search.
	if !isPV && !inCheck && notMateBeta && depth <= 3 {
		threshold := beta - razorMargin(depth)
		if staticEval < threshold {
			score := runQuiescence(ctx, r.sctx, r.b, threshold-1, threshold)
			if score < threshold {
				return score, nil
			}
		}
	}

	// Eval (futility) pruning at the frontier: if the static eval already clears beta by
	// a depth-scaled margin, and the side to move isn't facing more than one threat at
	// once (several_bits(threats): a lone threat can be calculated around, several can't),
	// assume a quiet subtree won't swing the result back down.
	if !isPV && !inCheck && notMateBeta && depth <= 3 && hasNonPawnMaterial(pos, pos.Turn()) && !severalThreats(pos) {
		margin := evalMargin(depth)
		if staticEval-margin >= beta {
			return staticEval - margin, nil
		}
	}

	// Null-move pruning: let the opponent move twice in a row. If we're still winning
	// after giving up a tempo, the real position is probably also winning, so a shallow
	// null-move search that fails high lets us skip a full search here. Skipped in check
	// (there is no legal null move) and when the side to move has only pawns left, where
	// zugzwang makes the assumption unsound.
	if !isPV && !inCheck && notMateBeta && staticEval >= beta && hasNonPawnMaterial(pos, pos.Turn()) {
		reduction := nullReduction(depth)
		if staticEval-eval.ValuePawn >= beta {
			reduction++
		}
		prevEP := pos.MakeNull()
		score, _ := r.search(ctx, depth-reduction, ply+1, -beta, -beta+1, flip(node))
		pos.UnmakeNull(prevEP)
		if -score >= beta {
			if eval.IsMateScore(-score) {
				return beta, nil
			}
			return -score, nil
		}
	}

	// Internal iterative deepening: without a TT move to try first, a shallower search
	// finds one cheaply, improving move ordering for the expensive full-depth search. PV
	// nodes get a deeper, unconditional pass; non-PV nodes only bother when the static
	// eval is already close enough to beta that the node is likely to matter.
	if ttMove.IsNull() {
		if isPV && depth >= 7 {
			_, pv := r.search(ctx, depth-2, ply, alpha, beta, node)
			if len(pv) > 0 {
				ttMove = pv[0]
			}
		} else if !isPV && depth >= 4 && !inCheck && staticEval+eval.ValuePawn >= beta {
			_, pv := r.search(ctx, depth/2, ply, alpha, beta, node)
			if len(pv) > 0 {
				ttMove = pv[0]
			}
		}
	}

	killers := r.sctx.Killers
	var counter board.Move
	if last, ok := r.b.LastMove(); ok {
		counter = r.sctx.Counters.Get(pos.Turn().Opponent(), last.From(), last.To())
	}

	var buf [board.MoveBufferCapacity]board.Move
	var moves []board.Move
	if inCheck {
		moves = board.GenEvasion(pos, buf[:])
	} else {
		moves = board.GenMoves(pos, buf[:])
	}

	oc := OrderingContext{Node: node, TTMove: ttMove, Ply: ply, Counter: counter, Killers: killers, History: r.sctx.History}
	order := newMoveOrder(moves, priorityFn(pos, oc))

	var pv []board.Move
	best := eval.NegInf
	bestMove := board.NoMove
	bound := UpperBound
	moveCount := 0

	for {
		m, ok := order.next()
		if !ok {
			break
		}
		moveCount++

		isQuiet := !isCaptureOrPromotion(pos, m)
		giving := eval.IsCheck(pos, m)

		// Late move reduction: search quiet moves that sort late in a position already
		// expected to fail low at a shallower depth first; if the reduced search
		// surprises us by failing high, re-search at full depth.
		reduction := 0
		if depth >= 3 && moveCount > 3 && isQuiet && giving == eval.NoCheck && !inCheck {
			reduction = 1
			if moveCount > 6 {
				reduction = 2
			}
		}

		extension := 0
		if giving == eval.DiscoveredCheck || (giving == eval.DirectCheck && eval.SEECapture(pos, m)) {
			extension = 1
		}

		if !r.b.PushMove(m) {
			continue
		}

		var score eval.Score
		var rem []board.Move
		childDepth := depth - 1 + extension

		if moveCount == 1 {
			score, rem = r.search(ctx, childDepth, ply+1, -beta, -alpha, flip(node))
			score = -score
		} else {
			searchDepth := childDepth - reduction
			score, rem = r.search(ctx, searchDepth, ply+1, -alpha-1, -alpha, CutNode)
			score = -score
			if score > alpha && (reduction > 0 || score < beta) {
				score, rem = r.search(ctx, childDepth, ply+1, -beta, -alpha, flip(node))
				score = -score
			}
		}

		r.b.PopMove()

		if score > best {
			best = score
			bestMove = m
			pv = append([]board.Move{m}, rem...)
		}
		if best > alpha {
			alpha = best
			bound = ExactBound
		}
		if alpha >= beta {
			bound = LowerBound
			if isQuiet {
				killers.Add(ply, m)
				r.sctx.History.Good(pos.Turn(), pieceOf(pos, m), m.To(), depth)
				if last, ok := r.b.LastMove(); ok {
					r.sctx.Counters.Set(pos.Turn().Opponent(), last.From(), last.To(), m)
				}
			}
			break
		}
		if isQuiet {
			r.sctx.History.Bad(pos.Turn(), pieceOf(pos, m), m.To(), depth)
		}
	}

	if moveCount == 0 {
		if inCheck {
			return -eval.MateIn(ply), nil
		}
		return 0, nil
	}

	r.sctx.TT.Store(hash, ply, depth, bound, best, bestMove)
	return best, pv
}

func flip(node NodeType) NodeType {
	switch node {
	case PVNode:
		return PVNode
	case CutNode:
		return AllNode
	default:
		return CutNode
	}
}

// vEP is the per-depth margin unit for razoring and eval (futility) pruning at the
// frontier; distinct from eval.ValuePawn (vOP), which gates the extra null-move reduction
// and the internal-iterative-deepening margin below. Grounded on DiscoCheck's psq.h
// (vOP = 80, vEP = 100).
const vEP = eval.Score(100)

// razorMargin is how far behind beta the static eval may sit, at depth in [1,3], before
// razoring drops straight to quiescence.
func razorMargin(depth int) eval.Score {
	return 2*vEP + eval.Score(depth-1)*(vEP/4)
}

// evalMargin is the eval (futility) pruning margin at depth in [1,3]: a larger margin at
// greater depth, since there's more room left for a quiet subtree to turn the position
// back around.
func evalMargin(depth int) eval.Score {
	return eval.Score(depth) * vEP
}

// nullReduction is the base depth reduction for a null-move search: 3 plies, plus one
// more for every 4 plies of remaining depth.
func nullReduction(depth int) int {
	return 3 + depth/4
}

// severalThreats reports whether the side to move has more than one non-pawn piece
// currently hanging to an enemy pawn or a knight fork on a rook/queen: eval pruning
// assumes the side to move could calculate its way out of a single such threat, but not
// more than one at once. Grounded on DiscoCheck's threats()/several_bits gate on eval
// pruning.
func severalThreats(pos *board.Position) bool {
	us := pos.Turn()
	them := us.Opponent()

	nonPawns := pos.Occupancy(us) &^ pos.Pieces(us, board.Pawn)
	hanging := board.PawnAttackboard(them, pos.Pieces(them, board.Pawn)) & nonPawns

	rq := pos.Pieces(us, board.Rook) | pos.Pieces(us, board.Queen)
	for bb := pos.Pieces(them, board.Knight); bb != 0; {
		var sq board.Square
		sq, bb = bb.PopLSB()
		hanging |= board.KnightAttackboard(sq) & rq
	}
	return hanging.PopCount() > 1
}

func hasNonPawnMaterial(pos *board.Position, c board.Color) bool {
	for p := board.Bishop; p <= board.Queen; p++ {
		if pos.Pieces(c, p) != 0 {
			return true
		}
	}
	return false
}

func pieceOf(pos *board.Position, m board.Move) board.Piece {
	_, p, _ := pos.PieceOn(m.From())
	return p
}
