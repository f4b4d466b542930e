package searchctl_test

import (
	"context"
	"testing"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/corvidchess/corvid/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIterativeLaunchStopsAtDepthLimit(t *testing.T) {
	pos, err := fen.Decode(fen.Initial)
	require.NoError(t, err)
	b := board.NewBoard(pos)

	it := &searchctl.Iterative{Launcher: search.NewIterative(eval.NewEngine())}
	opt := searchctl.Options{DepthLimit: lang.Some(uint(2))}

	h, out := it.Launch(context.Background(), b, search.NoTranspositionTable{}, opt)

	var last search.PV
	deadline := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case pv, ok := <-out:
			if !ok {
				done = true
				break
			}
			last = pv
		case <-deadline:
			t.Fatal("search did not complete within the depth limit")
		}
	}

	assert.Equal(t, 2, last.Depth)
	assert.NotEmpty(t, last.Moves)
	_ = h
}

func TestIterativeOptionsString(t *testing.T) {
	opt := searchctl.Options{
		DepthLimit: lang.Some(uint(4)),
		NodeLimit:  lang.Some(uint64(1000)),
	}
	s := opt.String()
	assert.Contains(t, s, "depth=4")
	assert.Contains(t, s, "nodes=1000")
}
