package board

import "iter"

// MaxMoves bounds the number of moves in any reachable position.
const MaxMoves = 256

// MoveList is a fixed-capacity move buffer that avoids allocation.
type MoveList struct {
	moves [MaxMoves]Move
	count int
}

// Add appends m.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// push adapts Add to the generator's sink signature.
func (ml *MoveList) push(m Move) bool {
	ml.Add(m)
	return true
}

func (ml *MoveList) Len() int          { return ml.count }
func (ml *MoveList) Get(i int) Move    { return ml.moves[i] }
func (ml *MoveList) Set(i int, m Move) { ml.moves[i] = m }
func (ml *MoveList) Clear()            { ml.count = 0 }

func (ml *MoveList) Swap(i, j int) {
	ml.moves[i], ml.moves[j] = ml.moves[j], ml.moves[i]
}

// Contains reports whether m is in the list.
func (ml *MoveList) Contains(m Move) bool {
	return ml.IndexOf(m) >= 0
}

// IndexOf returns the position of m, or -1.
func (ml *MoveList) IndexOf(m Move) int {
	for i := range ml.count {
		if ml.moves[i] == m {
			return i
		}
	}
	return -1
}

// MoveToFront moves the entry at i to index at, shifting the entries in
// between down by one so their relative order survives.
func (ml *MoveList) MoveToFront(i, at int) {
	if i <= at {
		return
	}
	m := ml.moves[i]
	copy(ml.moves[at+1:i+1], ml.moves[at:i])
	ml.moves[at] = m
}

// Slice aliases the stored moves.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// All ranges over the stored moves.
func (ml *MoveList) All() iter.Seq[Move] {
	return func(yield func(Move) bool) {
		for i := range ml.count {
			if !yield(ml.moves[i]) {
				return
			}
		}
	}
}
