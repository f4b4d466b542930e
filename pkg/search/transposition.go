package search

import (
	"context"
	"fmt"
	"math/bits"

	"github.com/corvidchess/corvid/pkg/board"
	"github.com/corvidchess/corvid/pkg/eval"
	"github.com/seekerror/logw"
)

// Bound represents the bound of a -- possibly inexact -- search score relative to the
// window it was searched in.
type Bound uint8

const (
	ExactBound Bound = iota
	LowerBound        // score is a fail-high: the true score is >= the stored score
	UpperBound        // score is a fail-low: the true score is <= the stored score
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "Exact"
	case LowerBound:
		return "Lower"
	case UpperBound:
		return "Upper"
	default:
		return "?"
	}
}

// Entry is a transposition table lookup result.
type Entry struct {
	Bound Bound
	Depth int
	Score eval.Score
	Move  board.Move
}

// TranspositionTable caches search results keyed by position hash to avoid re-searching
// transpositions. Single-threaded: the engine keeps one table across successive searches
// (aged by NewGeneration), never shared across concurrently running lines.
type TranspositionTable interface {
	// Probe returns the cached entry for hash, with the score already adjusted from a
	// mate-distance-from-this-node encoding to mate-distance-from-root, if present.
	Probe(hash board.ZobristHash, ply int) (Entry, bool)
	// Store records an entry for hash, storing the score in mate-distance-from-this-node
	// form so it remains valid regardless of where in the tree it is later read from.
	Store(hash board.ZobristHash, ply, depth int, bound Bound, score eval.Score, move board.Move)
	// NewGeneration marks the start of a new search: aging existing entries so fresher
	// searches can displace stale ones without growing the table.
	NewGeneration()
	// Clear empties the table, e.g. on "ucinewgame".
	Clear()

	// Size returns the size of the table in bytes.
	Size() uint64
	// Used returns the utilization as a fraction [0;1].
	Used() float64
}

// clusterSize mirrors the classic 4-way set-associative transposition table: each hash
// bucket holds a small cluster of entries, searched linearly, so that two positions that
// collide on the bucket index don't immediately evict one another.
const clusterSize = 4

type slot struct {
	hash  board.ZobristHash
	score eval.Score
	move  board.Move
	depth int16
	bound Bound
	gen   uint8
}

// table is the default TranspositionTable: a flat array of clusterSize-wide buckets with
// generation-aware replacement (prefer an empty slot, then the shallowest entry from an
// older generation, then the shallowest entry overall).
type table struct {
	buckets [][clusterSize]slot
	mask    uint64
	gen     uint8
	used    uint64
}

// TranspositionTableFactory constructs a TranspositionTable of approximately size bytes.
type TranspositionTableFactory func(ctx context.Context, size uint64) TranspositionTable

// NewTranspositionTable allocates a table of approximately size bytes.
func NewTranspositionTable(ctx context.Context, size uint64) TranspositionTable {
	entrySize := uint64(32)
	buckets := size / (entrySize * clusterSize)
	if buckets == 0 {
		buckets = 1
	}
	n := uint64(1) << (63 - bits.LeadingZeros64(buckets))

	logw.Infof(ctx, "Allocating %vMB TT with %v entries (%v clusters)", size>>20, n*clusterSize, n)

	return &table{
		buckets: make([][clusterSize]slot, n),
		mask:    n - 1,
	}
}

func (t *table) Probe(hash board.ZobristHash, ply int) (Entry, bool) {
	bucket := &t.buckets[uint64(hash)&t.mask]
	for i := range bucket {
		s := &bucket[i]
		if s.hash == hash && s.depth > 0 {
			return Entry{
				Bound: s.bound,
				Depth: int(s.depth),
				Score: fromTT(s.score, ply),
				Move:  s.move,
			}, true
		}
	}
	return Entry{}, false
}

func (t *table) Store(hash board.ZobristHash, ply, depth int, bound Bound, score eval.Score, move board.Move) {
	bucket := &t.buckets[uint64(hash)&t.mask]

	var victim *slot
	for i := range bucket {
		s := &bucket[i]
		if s.depth == 0 {
			victim = s
			t.used++
			break
		}
		if s.hash == hash {
			victim = s
			break
		}
		if victim == nil || replacementValue(s, t.gen) < replacementValue(victim, t.gen) {
			victim = s
		}
	}

	samePosition := victim.hash == hash
	victim.hash = hash
	victim.score = toTT(score, ply)
	switch {
	case !move.IsNull():
		victim.move = move
	case !samePosition:
		victim.move = board.NoMove
		// else: fail-low store with no refutation move -- keep the previous best move
		// for this position rather than clobbering it.
	}
	victim.depth = int16(depth)
	victim.bound = bound
	victim.gen = t.gen
}

// replacementValue ranks slot as a replacement target: current-generation, deep entries
// are kept; stale, shallow entries are evicted first.
func replacementValue(s *slot, gen uint8) int {
	v := int(s.depth)
	if s.gen != gen {
		v -= 64 // heavily favor evicting stale generations
	}
	return v
}

func (t *table) NewGeneration() {
	t.gen++
}

func (t *table) Clear() {
	for i := range t.buckets {
		t.buckets[i] = [clusterSize]slot{}
	}
	t.used = 0
	t.gen = 0
}

func (t *table) Size() uint64 {
	return uint64(len(t.buckets)) * clusterSize * 32
}

func (t *table) Used() float64 {
	return float64(t.used) / float64(len(t.buckets)*clusterSize)
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%vMB @ %v%%]", t.Size()>>20, int(100*t.Used()))
}

// toTT re-encodes a mate score found at ply plies from root into a ply-independent form
// (distance from the position being stored, not from the search root), so a later probe
// of the same position at a different ply can still interpret it correctly.
func toTT(score eval.Score, ply int) eval.Score {
	if !eval.IsMateScore(score) {
		return score
	}
	if score > 0 {
		return score + eval.Score(ply)
	}
	return score - eval.Score(ply)
}

// fromTT reverses toTT: re-expresses a stored mate score relative to the root, given the
// ply it is now being read at.
func fromTT(score eval.Score, ply int) eval.Score {
	if !eval.IsMateScore(score) {
		return score
	}
	if score > 0 {
		return score - eval.Score(ply)
	}
	return score + eval.Score(ply)
}

// NoTranspositionTable is a no-op TranspositionTable, useful for perft or when Hash is
// configured to 0.
type NoTranspositionTable struct{}

func (NoTranspositionTable) Probe(board.ZobristHash, int) (Entry, bool)                      { return Entry{}, false }
func (NoTranspositionTable) Store(board.ZobristHash, int, int, Bound, eval.Score, board.Move) {}
func (NoTranspositionTable) NewGeneration()                                                   {}
func (NoTranspositionTable) Clear()                                                           {}
func (NoTranspositionTable) Size() uint64                                                     { return 0 }
func (NoTranspositionTable) Used() float64                                                    { return 0 }
