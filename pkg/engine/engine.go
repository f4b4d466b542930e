// Package engine assembles the board, eval and search packages into a stateful engine
// that plays one game at a time: it owns the current position, the transposition table
// and an in-flight search handle, and exposes the operations a UCI or console frontend
// needs (Move, TakeBack, Analyze, Halt) without either frontend having to know about
// search internals.
package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/corvidchess/corvid/pkg/search/searchctl"
	"github.com/seekerror/build"
	"github.com/seekerror/stdlib/pkg/lang"
)

var version = build.NewVersion(0, 1, 0)

// Options hold the user-configurable engine options, settable via UCI "setoption".
type Options struct {
	// Depth limits every search to the given ply depth. Zero means no limit.
	Depth uint
	// Hash is the transposition table size, in MB.
	Hash uint
	// Noise is the evaluation randomization range, in centipawns. Zero disables it.
	Noise uint
	// Contempt is stored and exposed as the UCI "Contempt" option but does not currently
	// feed into search or evaluation: a drawn position always scores exactly 0. Kept for
	// UCI option-surface parity (see eval.Contempt).
	Contempt int
}

func (o Options) String() string {
	return fmt.Sprintf("[depth=%v, hash=%vMB, noise=%v, contempt=%v]", o.Depth, o.Hash, o.Noise, o.Contempt)
}

// Engine is a stateful chess engine: one game, one position, one transposition table and
// at most one active search at a time.
type Engine struct {
	name, author string

	launcher searchctl.Launcher
	factory  search.TranspositionTableFactory
	eval     *eval.Engine
	book     Book

	mu     sync.Mutex
	opts   Options
	b      *board.Board
	tt     search.TranspositionTable
	active searchctl.Handle
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithTable overrides the default transposition table factory.
func WithTable(factory search.TranspositionTableFactory) Option {
	return func(e *Engine) {
		e.factory = factory
	}
}

// WithOptions sets the initial engine options.
func WithOptions(opts Options) Option {
	return func(e *Engine) {
		e.opts = opts
	}
}

// WithBook installs an opening book. Defaults to NoBook.
func WithBook(book Book) Option {
	return func(e *Engine) {
		e.book = book
	}
}

// New creates an engine around root, the search implementation to use for every launched
// line (typically a *search.PVS).
func New(ctx context.Context, name, author string, root search.Search, opts ...Option) *Engine {
	e := &Engine{
		name:    name,
		author:  author,
		factory: search.NewTranspositionTable,
		eval:    eval.NewEngine(),
		book:    NoBook,
		opts:    Options{Depth: 0, Hash: 64},
	}
	for _, opt := range opts {
		opt(e)
	}

	e.launcher = &searchctl.Iterative{Launcher: &search.Iterative{Eval: e.eval, Root: root}}
	e.tt = e.factory(ctx, uint64(e.opts.Hash)<<20)
	e.applyEvalOptions()
	e.Reset(ctx)
	return e
}

// Name returns the engine name and version.
func (e *Engine) Name() string { return fmt.Sprintf("%v %v", e.name, version) }
func (e *Engine) Author() string   { return e.author }
func (e *Engine) Options() Options { return e.opts }
func (e *Engine) Book() Book       { return e.book }
func (e *Engine) Eval() *eval.Engine { return e.eval }

// SetDepth updates the ply depth limit used by future searches.
func (e *Engine) SetDepth(depth uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Depth = depth
}

// SetHash resizes the transposition table, in MB. Takes effect immediately; the
// previous table's contents are discarded.
func (e *Engine) SetHash(ctx context.Context, mb uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Hash = mb
	e.tt = e.factory(ctx, uint64(mb)<<20)
}

// SetNoise updates the evaluation noise range, in centipawns.
func (e *Engine) SetNoise(seed int64, limit uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Noise = limit
	e.eval.Noise = eval.NewRandom(int(limit), seed)
}

// SetContempt records the UCI "Contempt" option. It has no effect on search or
// evaluation (see eval.Contempt).
func (e *Engine) SetContempt(contempt int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opts.Contempt = contempt
	e.eval.Contempt = eval.Contempt(contempt)
}

func (e *Engine) applyEvalOptions() {
	e.eval.Noise = eval.NewRandom(int(e.opts.Noise), 0)
	e.eval.Contempt = eval.Contempt(e.opts.Contempt)
}

// Board returns the current board. Callers must not mutate it directly; use Move or
// TakeBack, which keep search state consistent.
func (e *Engine) Board() *board.Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.b
}

func (e *Engine) Position() *board.Position {
	return e.Board().Position()
}

// Reset starts a new game from the initial position and clears the transposition table.
func (e *Engine) Reset(ctx context.Context) {
	pos, err := fen.Decode(fen.Initial)
	if err != nil {
		panic(err) // fen.Initial is a compile-time constant, never invalid
	}
	e.ResetTo(ctx, pos)
}

// ResetTo starts a new game from the given position.
func (e *Engine) ResetTo(ctx context.Context, pos *board.Position) {
	e.haltSearchIfActive()

	e.mu.Lock()
	defer e.mu.Unlock()

	e.b = board.NewBoard(pos)
	e.tt.Clear()
}

// Move plays m against the current position. Returns an error if m is not legal from
// the current position.
func (e *Engine) Move(m board.Move) error {
	e.haltSearchIfActive()

	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.b.PushMove(m) {
		return fmt.Errorf("illegal move: %v", m)
	}
	return nil
}

// ParseAndMove parses str as a long algebraic move legal from the current position and
// plays it.
func (e *Engine) ParseAndMove(str string) error {
	var buf [board.MoveBufferCapacity]board.Move
	legal := board.GenMoves(e.Position(), buf[:])

	m, ok := board.MatchUCI(legal, str)
	if !ok {
		return fmt.Errorf("invalid or illegal move: %v", str)
	}
	return e.Move(m)
}

// TakeBack undoes the last move played, if any.
func (e *Engine) TakeBack() (board.Move, bool) {
	e.haltSearchIfActive()

	e.mu.Lock()
	defer e.mu.Unlock()

	return e.b.PopMove()
}

// Analyze launches a new search from the current position, honoring opt's time and
// depth limits layered under the engine-wide depth limit (whichever is tighter wins).
// Halts any search already in flight first.
func (e *Engine) Analyze(ctx context.Context, opt searchctl.Options) (searchctl.Handle, <-chan search.PV) {
	e.haltSearchIfActive()

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.opts.Depth > 0 {
		if v, ok := opt.DepthLimit.V(); !ok || v == 0 || v > e.opts.Depth {
			opt.DepthLimit = lang.Some(e.opts.Depth)
		}
	}

	h, pv := e.launcher.Launch(ctx, e.b.Fork(), e.tt, opt)
	e.active = h
	return h, pv
}

// Halt stops any search currently in flight. Idempotent.
func (e *Engine) Halt() {
	e.haltSearchIfActive()
}

func (e *Engine) haltSearchIfActive() {
	e.mu.Lock()
	active := e.active
	e.active = nil
	e.mu.Unlock()

	if active != nil {
		active.Halt()
	}
}
