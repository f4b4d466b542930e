// Package search implements alpha-beta game tree search over pkg/board and pkg/eval:
// principal variation search with null-move pruning, late move reductions and
// quiescence, iterative deepening with aspiration windows, and a transposition table.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
)

// ErrHalted indicates a search was stopped before completing its current depth.
var ErrHalted = errors.New("search halted")

// PV is the principal variation found for some iterative deepening depth.
type PV struct {
	Depth int
	Moves []board.Move
	Score eval.Score
	Nodes uint64
	Hash  float64 // transposition table utilization, [0;1]
	Time  time.Duration
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", p.Depth, p.Score, p.Nodes, p.Time, board.PrintMoves(p.Moves))
}

// Options hold dynamic search options the caller may change per search.
type Options struct {
	DepthLimit int    // 0 == no limit
	NodeLimit  uint64 // 0 == no limit
}

// Launcher is a search generator. The evaluator (including any Noise/Contempt the engine
// layer has configured) and transposition table are supplied once, up front, rather than
// per search, since both are long-lived engine state shared across searches.
type Launcher interface {
	// Launch a new search from the given position. It expects an exclusive (forked) board
	// and returns a PV channel for iteratively deeper searches. If the search is
	// exhausted, the channel is closed. The search can be stopped at any time.
	Launch(ctx context.Context, b *board.Board, tt TranspositionTable, opt Options) (Handle, <-chan PV)
}

// Handle lets the engine manage a running search. The engine is expected to spin off
// searches with forked boards and close/abandon them when no longer needed.
type Handle interface {
	// Halt halts the search, if running, and returns the last completed PV. Idempotent.
	Halt() PV
}

// NodeType classifies a search node for move-ordering purposes: PV nodes (alpha < score <
// beta expected), Cut nodes (a beta cutoff is expected, the "fail high" side of a
// null-window search) and All nodes (every move is expected to be searched).
type NodeType int

const (
	PVNode NodeType = iota
	CutNode
	AllNode
)

// Context carries the per-search state threaded through every node: the shared
// transposition table, evaluator, move ordering tables and node accounting.
// Not safe for concurrent use by more than one search line.
type Context struct {
	Eval     *eval.Engine
	TT       TranspositionTable
	History  *HistoryTable
	Killers  *KillerTable
	Counters *CounterMoveTable

	// NodeLimit aborts the search once Nodes exceeds it, polled the same way as ctx
	// cancellation. Zero means unlimited.
	NodeLimit uint64
	Nodes     uint64
}

// NodeLimitExceeded reports whether the node budget, if any, has been spent.
func (c *Context) NodeLimitExceeded() bool {
	return c.NodeLimit > 0 && c.Nodes > c.NodeLimit
}

// Search runs a fixed-depth, fixed-window search from b's current position, returning the
// best line found and its score from the side to move's perspective. The window lets the
// caller drive aspiration search: a score returned at or outside [alpha, beta] is a fail
// low/high, not an exact value.
type Search interface {
	Search(ctx context.Context, sctx *Context, b *board.Board, depth int, alpha, beta eval.Score) (uint64, eval.Score, []board.Move, error)
}
