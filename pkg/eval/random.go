package eval

import (
	"math/rand"

	"github.com/corvidchess/corvid/pkg/board"
)

// Random adds a small amount of noise to evaluations, in centipawns, in the half-open
// range [-limit/2, limit-limit/2). A limit of 0 always returns zero.
type Random struct {
	rand  *rand.Rand
	limit int
}

func NewRandom(limit int, seed int64) Random {
	return Random{
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Random) Evaluate(pos *board.Position) Score {
	if n.limit <= 0 {
		return 0
	}
	return Score(n.rand.Intn(n.limit) - n.limit/2)
}

// Contempt is stored on Engine and exposed as the UCI "Contempt" option (see pkg/engine),
// matching DiscoCheck's own uci.cc: that engine parses and stores Contempt as a global too
// but never reads it back in search or eval. A drawn position (by repetition, the 50-move
// rule, or insufficient material) always scores exactly 0 regardless of this value.
type Contempt int
