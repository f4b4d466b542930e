package search

import (
	"context"
	"sync"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/contextx"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

// Iterative is a Launcher implementing iterative deepening with aspiration windows: each
// depth after the first is first searched inside a narrow window around the previous
// depth's score, widening (and eventually falling back to a full window) only if that
// guess turns out wrong. A good guess prunes far more of the tree than a full window
// would, at the cost of an occasional re-search when the position's evaluation swings.
type Iterative struct {
	Eval *eval.Engine
	Root Search
}

// NewIterative constructs a Launcher running PVS under iterative deepening.
func NewIterative(e *eval.Engine) *Iterative {
	return &Iterative{Eval: e, Root: PVS{}}
}

// aspirationWindow is the initial half-width of the window around the previous depth's
// score; widened by doubling on each failed guess.
const aspirationWindow = eval.Score(16)

// aspirationMinDepth is the shallowest depth at which an aspiration window is attempted;
// below it the score is too volatile between depths for a narrow guess to pay off.
const aspirationMinDepth = 5

func (it *Iterative) Launch(ctx context.Context, b *board.Board, tt TranspositionTable, opt Options) (Handle, <-chan PV) {
	out := make(chan PV, 1)
	h := &handle{init: iox.NewAsyncCloser(), quit: iox.NewAsyncCloser()}
	go h.process(ctx, it, b, tt, opt, out)
	return h, out
}

type handle struct {
	init, quit iox.AsyncCloser

	pv PV
	mu sync.Mutex
}

func (h *handle) process(ctx context.Context, it *Iterative, b *board.Board, tt TranspositionTable, opt Options, out chan PV) {
	defer h.init.Close()
	defer close(out)

	sctx := &Context{
		Eval:     it.Eval,
		TT:       tt,
		History:  NewHistoryTable(),
		Killers:  NewKillerTable(),
		Counters: NewCounterMoveTable(),
	}
	tt.NewGeneration()

	wctx, cancel := contextx.WithQuitCancel(ctx, h.quit.Closed())
	defer cancel()

	var prev eval.Score
	var totalNodes uint64
	depth := 1
	for !h.quit.IsClosed() {
		if opt.NodeLimit > 0 {
			if totalNodes >= opt.NodeLimit {
				return
			}
			sctx.NodeLimit = opt.NodeLimit - totalNodes
		}

		start := time.Now()

		alpha, beta := eval.NegInf, eval.Inf
		if depth >= aspirationMinDepth {
			alpha, beta = prev-aspirationWindow, prev+aspirationWindow
		}

		var nodes uint64
		var score eval.Score
		var moves []board.Move
		var err error

		window := aspirationWindow
		for {
			nodes, score, moves, err = it.searchWindow(wctx, sctx, b, depth, alpha, beta)
			if err != nil {
				break
			}
			if score <= alpha && alpha > eval.NegInf {
				window *= 2
				alpha = eval.Max(eval.NegInf, prev-window)
				continue
			}
			if score >= beta && beta < eval.Inf {
				window *= 2
				beta = eval.Min(eval.Inf, prev+window)
				continue
			}
			break
		}
		if err != nil {
			if err == ErrHalted {
				return
			}
			logw.Errorf(ctx, "Search failed on %v at depth=%v: %v", b, depth, err)
			return
		}

		prev = score
		totalNodes += nodes
		pv := PV{Depth: depth, Nodes: nodes, Score: score, Moves: moves, Hash: tt.Used(), Time: time.Since(start)}

		logw.Debugf(ctx, "Searched %v: %v", b.Position(), pv)

		h.mu.Lock()
		h.pv = pv
		h.mu.Unlock()

		select {
		case <-out:
		default:
		}
		out <- pv

		h.init.Close()
		if depth == opt.DepthLimit {
			return
		}
		if _, ok := score.MateIn(); ok {
			return // forced mate found at full width -- exact result, no deeper depth needed
		}
		depth++
	}
}

// searchWindow runs one fixed-depth search inside [alpha, beta] with a single call to the
// root search; re-searching after a fail-low or fail-high is done by the caller's loop.
func (it *Iterative) searchWindow(ctx context.Context, sctx *Context, b *board.Board, depth int, alpha, beta eval.Score) (uint64, eval.Score, []board.Move, error) {
	return it.Root.Search(ctx, sctx, b, depth, alpha, beta)
}

func (h *handle) Halt() PV {
	<-h.init.Closed()
	h.quit.Close()

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pv
}
