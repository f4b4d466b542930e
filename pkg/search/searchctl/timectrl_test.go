package searchctl_test

import (
	"context"
	"testing"
	"time"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/search"
	"github.com/corvidchess/corvid/pkg/search/searchctl"
	"github.com/seekerror/stdlib/pkg/lang"
	"github.com/stretchr/testify/assert"
)

func TestTimeControlLimitsHardIsTripleSoft(t *testing.T) {
	tc := searchctl.TimeControl{White: 60 * time.Second, Black: 60 * time.Second}

	soft, hard := tc.Limits(board.White)
	assert.Equal(t, 3*soft, hard)
	assert.Greater(t, soft, time.Duration(0))
}

func TestTimeControlLimitsRespectIncrement(t *testing.T) {
	noInc := searchctl.TimeControl{White: 10 * time.Second}
	withInc := searchctl.TimeControl{White: 10 * time.Second, WhiteInc: 5 * time.Second}

	softNoInc, _ := noInc.Limits(board.White)
	softWithInc, _ := withInc.Limits(board.White)
	assert.Greater(t, softWithInc, softNoInc)
}

func TestTimeControlLimitsNeverClaimEntireClock(t *testing.T) {
	tc := searchctl.TimeControl{White: 50 * time.Millisecond}

	_, hard := tc.Limits(board.White)
	assert.Less(t, hard, 50*time.Millisecond)
}

func TestTimeControlLimitsUsesCorrectSideOfClock(t *testing.T) {
	tc := searchctl.TimeControl{White: 60 * time.Second, Black: 6 * time.Second}

	whiteSoft, _ := tc.Limits(board.White)
	blackSoft, _ := tc.Limits(board.Black)
	assert.Greater(t, whiteSoft, blackSoft)
}

type stubHandle struct{ halted chan struct{} }

func (s *stubHandle) Halt() search.PV {
	close(s.halted)
	return search.PV{}
}

func TestEnforceTimeControlNoOpWithoutTimeControl(t *testing.T) {
	h := &stubHandle{halted: make(chan struct{})}
	soft, ok := searchctl.EnforceTimeControl(context.Background(), h, lang.Optional[searchctl.TimeControl]{}, board.White)
	assert.False(t, ok)
	assert.Zero(t, soft)
}

func TestEnforceTimeControlHaltsAfterHardLimit(t *testing.T) {
	tc := searchctl.TimeControl{White: 20 * time.Millisecond, Black: 20 * time.Millisecond}
	h := &stubHandle{halted: make(chan struct{})}

	soft, ok := searchctl.EnforceTimeControl(context.Background(), h, lang.Some(tc), board.White)
	assert.True(t, ok)
	assert.Greater(t, soft, time.Duration(0))

	select {
	case <-h.halted:
	case <-time.After(2 * time.Second):
		t.Fatal("expected Halt to be called once the hard limit timer fired")
	}
}
