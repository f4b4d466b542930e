package searchctl

import (
	"context"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/search"
)

// Iterative layers time-control enforcement over a pkg/search.Launcher's own iterative
// deepening: the inner launcher already knows how to deepen, aspirate and report a PV per
// depth, so this type only needs to decide when to stop asking for another depth (the
// soft limit) and to force a stop if that decision comes too late (the hard limit, via
// EnforceTimeControl's timer).
type Iterative struct {
	Launcher search.Launcher
}

func (i *Iterative) Launch(ctx context.Context, b *board.Board, tt search.TranspositionTable, opt Options) (Handle, <-chan search.PV) {
	var depthLimit int
	if v, ok := opt.DepthLimit.V(); ok {
		depthLimit = int(v)
	}
	var nodeLimit uint64
	if v, ok := opt.NodeLimit.V(); ok {
		nodeLimit = v
	}

	h, in := i.Launcher.Launch(ctx, b, tt, search.Options{DepthLimit: depthLimit, NodeLimit: nodeLimit})
	soft, useSoft := EnforceTimeControl(ctx, h, opt.TimeControl, b.Turn())

	out := make(chan search.PV, 1)
	go relay(h, in, out, soft, useSoft)

	return h, out
}

// relay forwards every PV from the inner launcher to out, halting the search once the
// soft time limit has elapsed so no further depth is started (the hard limit set up by
// EnforceTimeControl handles the case where a single depth itself runs long).
func relay(h Handle, in <-chan search.PV, out chan<- search.PV, soft time.Duration, useSoft bool) {
	defer close(out)

	start := time.Now()
	for pv := range in {
		select {
		case <-out:
		default:
		}
		out <- pv

		if useSoft && soft < time.Since(start) {
			h.Halt()
		}
	}
}
