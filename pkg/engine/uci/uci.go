// Package uci contains a driver for using the engine under the UCI protocol.
//
// See: http://wbec-ridderkerk.nl/html/UCIProtocol.html
// See: https://en.wikipedia.org/wiki/Universal_Chess_Interface
package uci

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/corvidchess/corvid/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"go.uber.org/atomic"
)

const ProtocolName = "uci"

// Option is a UCI driver option.
type Option func(*options)

type options struct {
	useBook bool
	book    engine.Book
	rand    *rand.Rand

	limitStrength bool
	elo           int
}

// UseBook instructs the driver to use the given opening book.
func UseBook(book engine.Book, seed int64) Option {
	return func(opt *options) {
		opt.useBook = true
		opt.book = book
		opt.rand = rand.New(rand.NewSource(seed))
	}
}

// Driver implements a UCI driver for an engine. It is activated if sent "uci".
type Driver struct {
	e   *engine.Engine
	opt options

	out chan<- string

	active       atomic.Bool    // user is waiting for engine to move
	ponder       chan search.PV // chan for intermediate search information
	lastPosition string         // last position line (empty if no last position)

	pondering bool // true between "go ponder" and "ponderhit"/"stop"

	quit   chan struct{}
	closed atomic.Bool
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string, opts ...Option) (*Driver, <-chan string) {
	var opt options
	for _, fn := range opts {
		fn(&opt)
	}

	out := make(chan string, 100)
	d := &Driver{
		e:      e,
		opt:    opt,
		out:    out,
		ponder: make(chan search.PV, 400),
		quit:   make(chan struct{}),
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) Close() {
	if d.closed.CompareAndSwap(false, true) {
		close(d.quit)
	}
}

func (d *Driver) Closed() <-chan struct{} {
	return d.quit
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "UCI protocol initialized")

	d.out <- fmt.Sprintf("id name %v", d.e.Name())
	d.out <- fmt.Sprintf("id author %v", d.e.Author())

	d.out <- "option name Hash type spin default 16 min 1 max 8192"
	d.out <- "option name Clear Hash type button"
	d.out <- "option name Contempt type spin default 25 min 0 max 100"
	d.out <- "option name UCI_LimitStrength type check default false"
	d.out <- "option name UCI_Elo type spin default 2600 min 1400 max 2600"
	if d.opt.book != nil {
		d.out <- fmt.Sprintf("option name OwnBook type check default %v", d.opt.useBook)
	}

	d.out <- "uciok"

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Split(strings.TrimSpace(line), " ")
			if len(parts) == 0 {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "isready":
				d.out <- "readyok"

			case "debug":
				// switch debug logging on/off: handled by the logw verbosity flag, not here.

			case "setoption":
				d.setOption(ctx, args)

			case "register":
				// no registration scheme; engine is always usable.

			case "ucinewgame":
				d.ensureInactive(ctx)
				d.e.Reset(ctx)
				d.lastPosition = ""

			case "position":
				d.position(ctx, line, args)

			case "go":
				d.goCommand(ctx, line, args)

			case "stop":
				d.ensureInactive(ctx)

			case "ponderhit":
				d.pondering = false

			case "quit":
				return

			default:
				logw.Warningf(ctx, "Unknown command %q: %v", cmd, args)
			}

		case pv := <-d.ponder:
			if d.active.Load() {
				d.out <- printPV(pv)
			}

		case <-d.quit:
			d.ensureInactive(ctx)

			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) setOption(ctx context.Context, args []string) {
	// "setoption name <id> [value <x>]". <id>/<x> may contain spaces, so reconstruct
	// around the literal "name"/"value" tokens rather than assuming fixed positions.
	name, value, hasValue := parseNameValue(args)

	switch name {
	case "Hash":
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			d.e.SetHash(ctx, uint(n))
		}
	case "Clear Hash":
		d.e.SetHash(ctx, d.e.Options().Hash)
	case "Contempt":
		if n, err := strconv.Atoi(value); err == nil {
			d.e.SetContempt(n)
		}
	case "UCI_LimitStrength":
		if b, err := strconv.ParseBool(value); err == nil {
			d.opt.limitStrength = b
			d.applyStrength()
		}
	case "UCI_Elo":
		if n, err := strconv.Atoi(value); err == nil {
			d.opt.elo = n
			d.applyStrength()
		}
	case "OwnBook":
		if hasValue {
			d.opt.useBook, _ = strconv.ParseBool(value)
		}
	}
}

// applyStrength maps UCI_LimitStrength/UCI_Elo onto the evaluator's noise range: the
// weaker the requested Elo, the more centipawns of randomization is injected. Only
// meaningful while UCI_LimitStrength is true, per the UCI contract.
func (d *Driver) applyStrength() {
	if !d.opt.limitStrength {
		d.e.SetNoise(time.Now().UnixNano(), 0)
		return
	}

	elo := d.opt.elo
	if elo <= 0 {
		elo = 2600
	}
	noise := (2600 - elo) / 2
	if noise < 0 {
		noise = 0
	}
	d.e.SetNoise(time.Now().UnixNano(), uint(noise))
}

func parseNameValue(args []string) (name, value string, hasValue bool) {
	var nameParts, valueParts []string
	in := 0 // 0 before any section, 1 in name, 2 in value
	for _, a := range args {
		switch a {
		case "name":
			in = 1
		case "value":
			in = 2
			hasValue = true
		default:
			switch in {
			case 1:
				nameParts = append(nameParts, a)
			case 2:
				valueParts = append(valueParts, a)
			}
		}
	}
	return strings.Join(nameParts, " "), strings.Join(valueParts, " "), hasValue
}

func (d *Driver) position(ctx context.Context, line string, args []string) {
	d.ensureInactive(ctx)

	if d.lastPosition != "" && strings.HasPrefix(line, d.lastPosition) {
		// Continuation of game: apply only the new trailing moves.

		moves := strings.TrimSpace(strings.TrimPrefix(line, d.lastPosition))
		for _, arg := range strings.Split(moves, " ") {
			if arg == "" || arg == "moves" {
				continue
			}
			if err := d.e.ParseAndMove(arg); err != nil {
				logw.Errorf(ctx, "Invalid position move %q: %v: %v", arg, line, err)
				return
			}
		}
		d.lastPosition = line
		return
	}

	// New position.

	fenStr := fen.Initial
	rest := args
	if len(args) >= 1 && args[0] == "fen" {
		if len(args) < 7 {
			logw.Errorf(ctx, "Invalid position: %v", line)
			return
		}
		fenStr = strings.Join(args[1:7], " ")
		rest = args[7:]
	} else if len(args) >= 1 && args[0] != "startpos" {
		logw.Errorf(ctx, "Invalid position: %v", line)
		return
	} else if len(args) >= 1 {
		rest = args[1:]
	}

	pos, err := fen.Decode(fenStr)
	if err != nil {
		logw.Errorf(ctx, "Invalid fen %q: %v", fenStr, err)
		return
	}
	d.e.ResetTo(ctx, pos)

	move := false
	for _, arg := range rest {
		if arg == "moves" {
			move = true
			continue
		}
		if !move || arg == "" {
			continue
		}
		if err := d.e.ParseAndMove(arg); err != nil {
			logw.Errorf(ctx, "Invalid position move %q: %v: %v", arg, line, err)
			return
		}
	}
	d.lastPosition = line
}

func (d *Driver) goCommand(ctx context.Context, line string, args []string) {
	d.ensureInactive(ctx)

	var opt searchctl.Options
	var tc searchctl.TimeControl
	haveTC := false
	infinite := false
	d.pondering = false
	movetime := time.Duration(0)

	for i := 0; i < len(args); i++ {
		cmd := args[i]
		switch cmd {
		case "wtime", "btime", "winc", "binc", "movestogo", "depth", "movetime", "nodes":
			i++
			if i == len(args) {
				logw.Errorf(ctx, "No argument for %v: %v", cmd, line)
				return
			}
			n, err := strconv.Atoi(args[i])
			if err != nil {
				logw.Errorf(ctx, "Invalid argument for %v: %v", line, err)
				return
			}

			switch cmd {
			case "depth":
				opt.DepthLimit = lang.Some(uint(n))
			case "nodes":
				opt.NodeLimit = lang.Some(uint64(n))
			case "wtime":
				tc.White, haveTC = time.Millisecond*time.Duration(n), true
			case "btime":
				tc.Black, haveTC = time.Millisecond*time.Duration(n), true
			case "winc":
				tc.WhiteInc, haveTC = time.Millisecond*time.Duration(n), true
			case "binc":
				tc.BlackInc, haveTC = time.Millisecond*time.Duration(n), true
			case "movestogo":
				tc.Moves, haveTC = n, true
			case "movetime":
				movetime = time.Millisecond * time.Duration(n)
			}

		case "ponder":
			d.pondering = true
		case "infinite":
			infinite = true
		default:
			// searchmoves and other unsupported tokens are silently ignored.
		}
	}
	if haveTC {
		opt.TimeControl = lang.Some(tc)
	}

	if d.opt.useBook && d.opt.book != nil {
		if moves, err := d.opt.book.Find(ctx, d.e.Position()); err != nil {
			logw.Errorf(ctx, "Failed to find book move for %v: %v", d.e.Position(), err)
			return
		} else if len(moves) > 0 {
			winner := moves[d.opt.rand.Intn(len(moves))]

			d.active.Store(true)
			d.searchCompleted(ctx, search.PV{Moves: []board.Move{winner}})
			return
		} // else: no book move
	}

	h, out := d.e.Analyze(ctx, opt)
	d.active.Store(true)

	// Forward search progress. Complete once the search line ends, unless told to keep
	// running (infinite or pondering) until "stop"/"ponderhit".

	go func() {
		var last search.PV
		for pv := range out {
			last = pv
			d.ponder <- pv
		}
		if !infinite && !d.pondering {
			d.searchCompleted(ctx, last)
		}
	}()

	if movetime > 0 {
		time.AfterFunc(movetime, func() {
			h.Halt()
		})
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	d.pondering = false
	d.e.Halt()
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if d.active.CompareAndSwap(true, false) {
		if len(pv.Moves) > 0 {
			d.out <- printPV(pv)
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		} else {
			// No PV: position is checkmate or stalemate.
			d.out <- "bestmove 0000"
		}
	} // else: stale or duplicate result
}

func printPV(pv search.PV) string {
	// "info depth 2 score cp 214 nodes 2124 time 1242 nps 1710 pv e2e4 e7e5 g1f3"

	parts := []string{"info"}
	parts = append(parts, fmt.Sprintf("depth %v", pv.Depth))
	if m, ok := pv.Score.MateIn(); ok {
		parts = append(parts, fmt.Sprintf("score mate %v", m))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %v", int(pv.Score)))
	}
	if pv.Nodes > 0 {
		parts = append(parts, fmt.Sprintf("nodes %v", pv.Nodes))
	}
	if pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("time %v", pv.Time.Milliseconds()))
	}
	if pv.Nodes > 0 && pv.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %v", uint64(time.Second)*pv.Nodes/uint64(pv.Time)))
	}
	if len(pv.Moves) > 0 {
		parts = append(parts, "pv")
		parts = append(parts, board.PrintMoves(pv.Moves))
	}

	return strings.Join(parts, " ")
}
