package engine_test

import (
	"context"
	"testing"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/board/fen"
	"github.com/corvidchess/corvid/pkg/engine"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/corvidchess/corvid/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(context.Background(), "testcorvid", "test", search.PVS{}, engine.WithOptions(engine.Options{Hash: 1}))
}

func TestEngineNameIncludesVersion(t *testing.T) {
	e := newTestEngine(t)
	assert.Contains(t, e.Name(), "testcorvid")
	assert.Greater(t, len(e.Name()), len("testcorvid "))
}

func TestEngineParseAndMovePlaysLegalMove(t *testing.T) {
	e := newTestEngine(t)

	err := e.ParseAndMove("e2e4")
	require.NoError(t, err)

	assert.Equal(t, board.Black, e.Position().Turn())
}

func TestEngineParseAndMoveRejectsIllegalMove(t *testing.T) {
	e := newTestEngine(t)

	err := e.ParseAndMove("e2e5")
	assert.Error(t, err)
}

func TestEngineTakeBackUndoesLastMove(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.ParseAndMove("e2e4"))

	m, ok := e.TakeBack()
	assert.True(t, ok)
	assert.Equal(t, board.NewMove(board.E2, board.E4, board.Normal), m)
	assert.Equal(t, board.White, e.Position().Turn())
}

func TestEngineResetToStartsFromGivenPosition(t *testing.T) {
	e := newTestEngine(t)

	pos, err := fen.Decode("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	require.NoError(t, err)
	e.ResetTo(context.Background(), pos)

	assert.Equal(t, pos.Hash(), e.Position().Hash())
}

func TestEngineAnalyzeRunsToDepthLimitAndProducesBestMove(t *testing.T) {
	e := newTestEngine(t)

	opt := searchctl.Options{DepthLimit: lang.Some(uint(2))}
	_, out := e.Analyze(context.Background(), opt)

	var last search.PV
	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case pv, ok := <-out:
			if !ok {
				done = true
				break
			}
			last = pv
		case <-timeout:
			t.Fatal("analyze did not complete in time")
		}
	}

	assert.Equal(t, 2, last.Depth)
	assert.NotEmpty(t, last.Moves)
}

func TestEngineDepthOptionCapsAnalyzeDepth(t *testing.T) {
	e := engine.New(context.Background(), "testcorvid", "test", search.PVS{}, engine.WithOptions(engine.Options{Depth: 2, Hash: 1}))

	_, out := e.Analyze(context.Background(), searchctl.Options{})

	var last search.PV
	timeout := time.After(5 * time.Second)
	for done := false; !done; {
		select {
		case pv, ok := <-out:
			if !ok {
				done = true
				break
			}
			last = pv
		case <-timeout:
			t.Fatal("analyze did not complete in time")
		}
	}

	assert.LessOrEqual(t, last.Depth, 2)
}
