// Package eval implements static position evaluation: material, piece-square tables,
// mobility, king safety and pawn structure, tapered between opening and endgame weights
// and bounded to recognise drawn endgames (KPK via the internal bitbase, wrong-bishop
// KBPK fortresses). Grounded on DiscoCheck's do_eval family, the closest the example
// pack comes to a from-scratch classical evaluation function.
package eval

import "github.com/corvidchess/corvid/pkg/board"

// Evaluator returns a centipawn score from the side to move's perspective.
type Evaluator interface {
	Evaluate(pos *board.Position) Score
}

// Engine is the default evaluator: material + PSQ + mobility + king safety + pawn
// structure (cached), phase-interpolated, with drawn-endgame recognition and optional
// evaluation noise.
type Engine struct {
	Pawns *PawnCache
	Noise Random
	// Contempt is stored for UCI option-surface parity only; see Contempt's doc comment.
	Contempt Contempt
}

// NewEngine constructs an Engine with a fresh pawn cache.
func NewEngine() *Engine {
	return &Engine{Pawns: NewPawnCache()}
}

// Evaluate returns a centipawn score for pos from the side to move's perspective. It is
// symmetric (mirroring colors does not change the result, up to the named endgame
// corrections below), deterministic, and bounded to [-Inf+MaxPly, Inf-MaxPly].
func (e *Engine) Evaluate(pos *board.Position) Score {
	if draw, applies := isKPKDraw(pos); applies && draw {
		return 0
	}
	if isWrongBishopDraw(pos) {
		return 0
	}
	if pos.HasInsufficientMaterial() {
		return 0
	}

	us := pos.Turn()
	them := us.Opponent()

	opUs, egUs := materialAndPSQ(pos, us)
	opThem, egThem := materialAndPSQ(pos, them)
	op := opUs - opThem
	eg := egUs - egThem

	mobOpUs, mobEgUs := mobility(pos, us)
	mobOpThem, mobEgThem := mobility(pos, them)
	op += mobOpUs - mobOpThem
	eg += mobEgUs - mobEgThem

	op += kingSafety(pos, us) - kingSafety(pos, them)

	pawns := e.pawnCache().get(pos)
	op += pawns.op[us] - pawns.op[them]
	eg += pawns.eg[us] - pawns.eg[them]

	phase := gamePhase(pos)
	score := taper(op, eg, phase)

	if n := e.Noise.Evaluate(pos); n != 0 {
		score += n
	}
	return Max(Min(score, Inf-MaxPly), -Inf+MaxPly)
}

func (e *Engine) pawnCache() *PawnCache {
	if e.Pawns == nil {
		e.Pawns = NewPawnCache()
	}
	return e.Pawns
}

// materialAndPSQ returns the nominal material plus opening/endgame PSQ bonus for color c,
// maintained incrementally by Position through make/unmake (see board.RegisterPSQValues)
// rather than recomputed by walking the piece bitboards here.
func materialAndPSQ(pos *board.Position, c board.Color) (op, eg Score) {
	mg, egv := pos.PSQ(c)
	return Score(mg), Score(egv)
}

// gamePhase returns a 0..phaseMax weight of how much non-pawn material remains, phaseMax
// being a full starting set; 0 means bare kings and pawns (pure endgame).
func gamePhase(pos *board.Position) int {
	phase := 0
	for _, c := range [2]board.Color{board.White, board.Black} {
		for p := board.Bishop; p <= board.Queen; p++ {
			phase += pos.Pieces(c, p).PopCount() * phaseWeight[p]
		}
	}
	if phase > phaseMax {
		phase = phaseMax
	}
	return phase
}

// taper blends the opening and endgame scores by the remaining non-pawn material, the
// classic tapered-eval interpolation.
func taper(op, eg Score, phase int) Score {
	return (op*Score(phase) + eg*Score(phaseMax-phase)) / Score(phaseMax)
}
