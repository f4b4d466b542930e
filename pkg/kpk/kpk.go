// Package kpk precomputes a win/draw classification for king-and-pawn versus king
// endgames via retrograde analysis, ported from Stockfish's bitbase generator (by way
// of DiscoCheck's kpk.cc, the original_source this engine's evaluation is grounded on).
package kpk

import "github.com/corvidchess/corvid/pkg/board"

type result uint8

const (
	invalid result = 0
	unknown result = 1
	draw    result = 2
	win     result = 4
)

// The pawn's reachable squares in this encoding are the 24 squares on files A-D, ranks
// 2-7 (callers mirror any other file/rank into this range before probing).
const indexMax = 2 * 24 * 64 * 64

var bitbase [indexMax / 32]uint32

func init() {
	generate()
}

// index packs (side to move, black king, white king, white pawn) into a dense integer,
// matching the bit layout of the original: wksq(6) | bksq(6) | us(1) | pawn-file(2) |
// (6-pawn-rank)(3).
func index(us board.Color, bksq, wksq, psq board.Square) int {
	return int(wksq) + int(bksq)<<6 + int(us)<<12 + int(psq.File())<<13 + int(6-int(psq.Rank()))<<15
}

// Probe reports whether the pawn's side wins this king-pawn-vs-king ending with us to
// move. The position always models the pawn's side as "white" regardless of its actual
// color; wpsq's file must already be mirrored into A-D by the caller (eval/draws.go does
// this). Assumes the triple of squares is not itself invalid (no two pieces coincide,
// kings not adjacent) -- callers only reach here from real positions, where that always
// holds.
func Probe(wksq, wpsq, bksq board.Square, us board.Color) bool {
	idx := index(us, bksq, wksq, wpsq)
	return bitbase[idx/32]&(1<<uint(idx&0x1f)) != 0
}

type kpkPosition struct {
	us           board.Color
	bksq, wksq   board.Square
	psq          board.Square
	res          result
}

func generate() {
	db := make([]kpkPosition, indexMax)
	for idx := range db {
		db[idx].classifyLeaf(idx)
	}

	for repeat := true; repeat; {
		repeat = false
		for idx := range db {
			if db[idx].res == unknown && db[idx].classify(db) != unknown {
				repeat = true
			}
		}
	}

	for idx, p := range db {
		if p.res == win {
			bitbase[idx/32] |= 1 << uint(idx&0x1f)
		}
	}
}

func (p *kpkPosition) classifyLeaf(idx int) result {
	p.wksq = board.Square(idx & 0x3f)
	p.bksq = board.Square((idx >> 6) & 0x3f)
	if (idx>>12)&1 != 0 {
		p.us = board.Black
	} else {
		p.us = board.White
	}
	file := board.File((idx >> 13) & 3)
	rank := board.Rank(6 - ((idx >> 15) & 7))
	p.psq = board.NewSquare(file, rank)

	// Two pieces on the same square, or either king capturable, is not a reachable
	// position.
	if p.wksq == p.psq || p.wksq == p.bksq || p.bksq == p.psq ||
		board.KingAttackboard(p.wksq).IsSet(p.bksq) ||
		(p.us == board.White && board.PawnAttackFrom(board.White, p.psq).IsSet(p.bksq)) {
		p.res = invalid
		return p.res
	}

	if p.us == board.White {
		// Immediate win if the pawn can queen without being captured en route.
		if p.psq.Rank() == board.Rank7 {
			promo := p.psq + 8
			if p.wksq != promo && (p.bksq.Distance(promo) > 1 || board.KingAttackboard(p.wksq).IsSet(promo)) {
				p.res = win
				return p.res
			}
		}
	} else {
		// Immediate draw: black is stalemated, or captures an undefended pawn.
		bkAtt := board.KingAttackboard(p.bksq)
		wkAtt := board.KingAttackboard(p.wksq)
		pAttacks := board.PawnAttackFrom(board.White, p.psq)
		if bkAtt & ^(wkAtt|pAttacks) == 0 || (bkAtt & ^wkAtt).IsSet(p.psq) {
			p.res = draw
			return p.res
		}
	}

	p.res = unknown
	return p.res
}

func (p *kpkPosition) classify(db []kpkPosition) result {
	var r result

	var mover board.Square
	if p.us == board.White {
		mover = p.wksq
	} else {
		mover = p.bksq
	}

	for b := board.KingAttackboard(mover); b != 0; {
		var sq board.Square
		sq, b = b.PopLSB()
		if p.us == board.White {
			r |= db[index(board.Black, p.bksq, sq, p.psq)].res
		} else {
			r |= db[index(board.White, sq, p.wksq, p.psq)].res
		}
	}

	if p.us == board.White && p.psq.Rank() < board.Rank7 {
		single := p.psq + 8
		r |= db[index(board.Black, p.bksq, p.wksq, single)].res

		if single.Rank() == board.Rank3 && single != p.wksq && single != p.bksq {
			double := single + 8
			r |= db[index(board.Black, p.bksq, p.wksq, double)].res
		}
	}

	// White to move: a single winning reply wins; otherwise draw unless some reply is
	// still unknown. Black to move: a single drawing reply draws; otherwise white wins
	// unless some reply is still unknown.
	if p.us == board.White {
		switch {
		case r&win != 0:
			p.res = win
		case r&unknown != 0:
			p.res = unknown
		default:
			p.res = draw
		}
	} else {
		switch {
		case r&draw != 0:
			p.res = draw
		case r&unknown != 0:
			p.res = unknown
		default:
			p.res = win
		}
	}
	return p.res
}
