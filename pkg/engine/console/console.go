// Package console contains a human-readable console driver for debugging.
package console

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/corvidchess/corvid/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/seekerror/stdlib/pkg/util/iox"
	"go.uber.org/atomic"
)

const ProtocolName = "console"

// Driver implements a console driver for debugging.
type Driver struct {
	iox.AsyncCloser

	e *engine.Engine

	out chan<- string

	root   search.Search
	active atomic.Bool // user is waiting for engine to move
}

func NewDriver(ctx context.Context, e *engine.Engine, root search.Search, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		root:        root,
		out:         out,
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.e.Name(), d.e.Author())
	d.printBoard(ctx)

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
			case "reset", "r":
				// reset [<fenstring>] moves ...

				d.ensureInactive(ctx)

				fenStr := fen.Initial
				rest := args
				if len(args) > 0 && args[0] != "moves" {
					if len(args) < 6 {
						logw.Errorf(ctx, "Invalid position: %v", line)
						return
					}
					fenStr = strings.Join(args[0:6], " ")
					rest = args[6:]
				}
				pos, err := fen.Decode(fenStr)
				if err != nil {
					logw.Errorf(ctx, "Invalid position: %v: %v", line, err)
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
				d.printBoard(ctx)

			case "undo", "u":
				d.ensureInactive(ctx)

				_, _ = d.e.TakeBack()
				d.printBoard(ctx)

			case "print", "p":
				d.printBoard(ctx)

			case "analyze", "a":
				d.ensureInactive(ctx)

				var opt searchctl.Options
				if len(args) > 0 {
					depth, _ := strconv.Atoi(args[0])
					opt.DepthLimit = lang.Some(uint(depth))
				}

				_, out := d.e.Analyze(ctx, opt)
				d.active.Store(true)

				go func() {
					var last search.PV
					for pv := range out {
						last = pv
						d.out <- pv.String()
					}
					d.searchCompleted(ctx, last)
				}()

			case "depth", "d":
				if len(args) > 0 {
					depth, _ := strconv.Atoi(args[0])
					d.e.SetDepth(uint(depth))
				}

			case "hash": // size in MB
				if len(args) > 0 {
					hash, _ := strconv.Atoi(args[0])
					d.e.SetHash(ctx, uint(hash))
				}

			case "nohash":
				d.e.SetHash(ctx, 0)

			case "noise": // evaluation randomness in centipawns
				if len(args) > 0 {
					noise, _ := strconv.Atoi(args[0])
					d.e.SetNoise(0, uint(noise))
				}

			case "nonoise":
				d.e.SetNoise(0, 0)

			case "halt", "stop":
				d.ensureInactive(ctx)

			case "quit", "exit", "q":
				d.ensureInactive(ctx)
				return

			case "":
				// ignore empty command

			default:
				// Assume move if not a recognized command.

				d.ensureInactive(ctx)
				if err := d.e.ParseAndMove(cmd); err != nil {
					d.out <- fmt.Sprintf("invalid move: %q", cmd)
				} else {
					d.printBoard(ctx)
				}
			}

		case <-d.Closed():
			d.ensureInactive(ctx)

			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func (d *Driver) ensureInactive(ctx context.Context) {
	d.active.Store(false)
	d.e.Halt()
}

func (d *Driver) searchCompleted(ctx context.Context, pv search.PV) {
	if d.active.CompareAndSwap(true, false) {
		// Search complete

		if len(pv.Moves) > 0 {
			d.out <- fmt.Sprintf("bestmove %v", pv.Moves[0])
		}

		// Evaluate each legal reply at pv.Depth-1 for a per-move score breakdown. No TT,
		// so this never disturbs the shared transposition table's generation counting.

		b := d.e.Board()
		depth := pv.Depth - 1

		var buf [board.MoveBufferCapacity]board.Move
		legal := board.GenMoves(b.Position(), buf[:])

		var sub []result
		for _, m := range legal {
			line := b.Fork()
			if !line.PushMove(m) {
				continue
			}

			sctx := &search.Context{
				Eval:     d.e.Eval(),
				TT:       search.NoTranspositionTable{},
				History:  search.NewHistoryTable(),
				Killers:  search.NewKillerTable(),
				Counters: search.NewCounterMoveTable(),
			}
			nodes, score, moves, _ := d.root.Search(ctx, sctx, line, depth, eval.NegInf, eval.Inf)
			sub = append(sub, result{m: m, s: -score, n: nodes, pv: moves})
		}
		sort.Sort(byScore(sub))

		d.out <- fmt.Sprintf("Search, depth=%v", pv.Depth)
		for i := 0; i < len(sub); i++ {
			d.out <- fmt.Sprintf(" %2d. %v\t%v\t\t(%v nodes\tpv %v)", i+1, sub[i].m, sub[i].s, sub[i].n, board.PrintMoves(sub[i].pv))
		}
	} // else: stale or duplicate result
}

const (
	files      = "    a   b   c   d   e   f   g   h"
	horizontal = "  ---------------------------------"
	vertical   = " | "
)

func (d *Driver) printBoard(ctx context.Context) {
	b := d.e.Board()
	p := b.Position()

	d.out <- ""
	d.out <- files
	d.out <- horizontal
	for r := int(board.Rank8); r >= int(board.Rank1); r-- {
		var sb strings.Builder
		sb.WriteString(strconv.Itoa(r + 1))
		sb.WriteString(vertical)
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			sq := board.NewSquare(f, board.Rank(r))
			if color, piece, ok := p.PieceOn(sq); ok {
				sb.WriteString(printPiece(color, piece))
			} else {
				sb.WriteString(" ")
			}
			sb.WriteString(vertical)
		}
		d.out <- sb.String()
		d.out <- horizontal
	}
	d.out <- files
	d.out <- ""
	d.out <- fmt.Sprintf("fen:    %v", fen.Encode(p))
	d.out <- fmt.Sprintf("result: %v, ply: %v, hash: 0x%x", b.Result(), b.Ply(), p.Hash())
	d.out <- ""
}

func printPiece(c board.Color, p board.Piece) string {
	if c == board.White {
		return strings.ToUpper(p.String())
	}
	return strings.ToLower(p.String())
}

type result struct {
	m  board.Move
	s  eval.Score
	n  uint64
	pv []board.Move
}

// byScore is a sort order by score, descending.
type byScore []result

func (b byScore) Len() int           { return len(b) }
func (b byScore) Less(i, j int) bool { return b[j].s < b[i].s }
func (b byScore) Swap(i, j int)      { b[i], b[j] = b[j], b[i] }
