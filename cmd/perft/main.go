// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = fen.Initial
	}

	pos, err := fen.Decode(*position)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen %q: %v", *position, err)
	}

	for i := 1; i <= *depth; i++ {
		start := time.Now()

		var nodes uint64
		if *divide && i == *depth {
			nodes = dividedPerft(pos, i)
		} else {
			nodes = board.Perft(pos, i)
		}

		duration := time.Since(start)
		fmt.Printf("perft,%v,%v,%v,%v\n", *position, i, nodes, duration.Microseconds())
	}
}

// dividedPerft prints, for each legal move from pos, the leaf count of the subtree it
// roots at depth-1, then returns the total across all moves.
func dividedPerft(pos *board.Position, depth int) uint64 {
	var buf [board.MoveBufferCapacity]board.Move
	moves := board.GenMoves(pos, buf[:])

	var total uint64
	for _, m := range moves {
		pos.MakeMove(m)
		count := board.Perft(pos, depth-1)
		pos.UnmakeMove()

		fmt.Printf("%v: %v\n", m, count)
		total += count
	}
	return total
}
