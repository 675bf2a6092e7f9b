package engine

import "github.com/hailam/rotorchess/internal/board"

// Bound tells how a stored score relates to the true value of the node.
type Bound uint8

const (
	// BoundJunk carries only a move hint. Probe also returns it on a miss.
	BoundJunk Bound = iota
	BoundLower
	BoundExact
	BoundUpper
)

func (b Bound) String() string {
	return [...]string{"junk", "lower", "exact", "upper"}[b]
}

// TTEntry is one transposition table slot.
type TTEntry struct {
	Key   uint64
	Move  board.Move
	Score int32 // ply independent
	Depth int16
	Bound Bound
	Stale bool
}

// ttEntrySize is the padded size of TTEntry.
const ttEntrySize = 24

// TranspositionTable keeps two slots per index. The depth-preferred slot
// holds the most valuable result for its index in the current search and
// the always-replace slot takes everything else, including entries pushed
// out of the depth-preferred slot.
type TranspositionTable struct {
	deep   []TTEntry
	recent []TTEntry

	hits   uint64
	probes uint64
}

// NewTranspositionTable splits sizeMB megabytes evenly between both slot arrays.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	count := max(2, sizeMB*1024*1024/ttEntrySize)
	tt := &TranspositionTable{
		deep:   make([]TTEntry, count/2),
		recent: make([]TTEntry, count/2),
	}
	tt.Clear()
	return tt
}

func (tt *TranspositionTable) index(key uint64) (deep, recent *TTEntry) {
	return &tt.deep[key%uint64(len(tt.deep))], &tt.recent[key%uint64(len(tt.recent))]
}

// Store records a search result for the position with the given key. The
// score is taken relative to the root and ply is the node's distance from it.
func (tt *TranspositionTable) Store(key uint64, move board.Move, score, depth int, bound Bound, ply int) {
	deep, recent := tt.index(key)
	entry := TTEntry{
		Key:   key,
		Move:  move,
		Score: int32(AdjustScoreToTT(score, ply)),
		Depth: int16(depth),
		Bound: bound,
	}

	if deep.Stale {
		*deep = entry
		return
	}

	moreValuable := entry.Depth > deep.Depth || (entry.Depth == deep.Depth && bound == BoundExact)
	if deep.Key == key {
		if entry.Move == board.NoMove {
			entry.Move = deep.Move
		}
		if moreValuable || tightens(deep, &entry) {
			*deep = entry
		} else {
			*recent = entry
		}
		return
	}

	if moreValuable {
		*recent = *deep
		*deep = entry
		return
	}
	*recent = entry
}

// tightens reports whether next narrows a same-depth bound of old in the
// same direction.
func tightens(old, next *TTEntry) bool {
	if old.Depth != next.Depth || old.Bound != next.Bound {
		return false
	}
	switch next.Bound {
	case BoundLower:
		return next.Score > old.Score
	case BoundUpper:
		return next.Score < old.Score
	}
	return false
}

// Probe looks for a usable result at least depth plies deep. It returns
// BoundExact, BoundLower when the stored score is at least beta, BoundUpper
// when it is at most alpha, or BoundJunk. The returned score is relative to
// the root again.
func (tt *TranspositionTable) Probe(key uint64, depth, alpha, beta, ply int) (Bound, int, board.Move) {
	tt.probes++
	deep, recent := tt.index(key)
	for _, e := range [2]*TTEntry{deep, recent} {
		if e.Key != key || e.Stale || int(e.Depth) < depth {
			continue
		}
		score := AdjustScoreFromTT(int(e.Score), ply)
		switch {
		case e.Bound == BoundExact,
			e.Bound == BoundLower && score >= beta,
			e.Bound == BoundUpper && score <= alpha:
			tt.hits++
			return e.Bound, score, e.Move
		}
	}
	return BoundJunk, 0, board.NoMove
}

// BestMove returns the move hint recorded for key, whatever its bound or
// depth. The always-replace slot wins when it is deeper.
func (tt *TranspositionTable) BestMove(key uint64) board.Move {
	deep, recent := tt.index(key)
	move := board.NoMove
	depth := int16(-1)
	if deep.Key == key {
		move, depth = deep.Move, deep.Depth
	}
	if recent.Key == key && recent.Move != board.NoMove && (move == board.NoMove || recent.Depth > depth) {
		move = recent.Move
	}
	return move
}

// entry returns the live entry held for key, preferring a searched result
// in the depth-preferred slot.
func (tt *TranspositionTable) entry(key uint64) (TTEntry, bool) {
	deep, recent := tt.index(key)
	if deep.Key == key && !deep.Stale && deep.Bound != BoundJunk {
		return *deep, true
	}
	if recent.Key == key {
		return *recent, true
	}
	return TTEntry{}, false
}

// NewSearch marks every depth-preferred entry stale. Stale entries are
// overwritten by the next store and ignored by Probe.
func (tt *TranspositionTable) NewSearch() {
	for i := range tt.deep {
		tt.deep[i].Stale = true
	}
}

// Clear empties the table.
func (tt *TranspositionTable) Clear() {
	for i := range tt.deep {
		tt.deep[i] = TTEntry{Stale: true}
	}
	clear(tt.recent)
	tt.hits, tt.probes = 0, 0
}

// HashFull returns the permille of depth-preferred slots written during
// the current search, sampled over the first thousand.
func (tt *TranspositionTable) HashFull() int {
	n := min(1000, len(tt.deep))
	used := 0
	for i := range n {
		if !tt.deep[i].Stale {
			used++
		}
	}
	return used * 1000 / n
}

// HitRate returns the percentage of probes that produced a usable result.
func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}
