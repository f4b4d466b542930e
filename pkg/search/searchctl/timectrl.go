package searchctl

import (
	"context"
	"fmt"
	"github.com/corvidchess/corvid/pkg/board"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
	"time"
)

// TimeControl represents time control information: the clock remaining for each side,
// the per-move increment awarded after each move (UCI winc/binc), and the number of
// moves left to the next time control (0 == rest of game, sudden death).
type TimeControl struct {
	White, Black       time.Duration
	WhiteInc, BlackInc time.Duration
	Moves              int
}

// minRemainder is the floor left untouched on the clock, so a search never claims the
// entire remaining time even under a pathological increment or movestogo value.
const minRemainder = 100 * time.Millisecond

// Limits returns a soft and hard limit for making a move with the given color. The
// interpretation is that after the soft limit, no new search depth should be started;
// the hard limit force-halts a depth already in flight.
func (t TimeControl) Limits(c board.Color) (time.Duration, time.Duration) {
	remainder, inc := t.White, t.WhiteInc
	if c == board.Black {
		remainder, inc = t.Black, t.BlackInc
	}

	// We assume 40 moves to end the game, if nothing else is known.
	// Let B = T/80 + inc be the soft timeout and the hard timeout be 3B.

	moves := time.Duration(40)
	if t.Moves > 0 {
		moves = time.Duration(t.Moves) + 1
	}

	soft := remainder/(2*moves) + inc
	hard := 3 * soft

	if ceiling := remainder - minRemainder; ceiling > 0 && hard > ceiling {
		hard = ceiling
	} else if ceiling <= 0 {
		hard = time.Millisecond
	}
	if soft > hard {
		soft = hard
	}
	return soft, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f(+%.1f)<>%.1f(+%.1f)", t.White.Seconds(), t.WhiteInc.Seconds(), t.Black.Seconds(), t.BlackInc.Seconds())
	}
	return fmt.Sprintf("%.1f(+%.1f)<>%.1f(+%.1f)[moves=%v]", t.White.Seconds(), t.WhiteInc.Seconds(), t.Black.Seconds(), t.BlackInc.Seconds(), t.Moves)
}

// EnforceTimeControl enforces the time control limits, if any. Returns soft limit.
func EnforceTimeControl(ctx context.Context, h Handle, tc lang.Optional[TimeControl], turn board.Color) (time.Duration, bool) {
	c, ok := tc.V()
	if !ok {
		return 0, false
	}

	soft, hard := c.Limits(turn)
	time.AfterFunc(hard, func() {
		h.Halt()
	})

	logw.Debugf(ctx, "Time control limits for %v: [%v; %v]", c, soft, hard)
	return soft, true
}
