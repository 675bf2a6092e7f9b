package engine

// pawnSlot caches the pawn structure terms of one pawn configuration.
type pawnSlot struct {
	key uint64
	mg  int16
	eg  int16
}

// PawnTable caches pawn structure evaluation keyed by Position.PawnKey.
// Pawn configurations repeat across most of the tree, so the table saves
// nearly all of the structure work.
type PawnTable struct {
	slots []pawnSlot
	mask  uint64
}

// NewPawnTable sizes the table to the largest power of two that fits in
// sizeMB megabytes.
func NewPawnTable(sizeMB int) *PawnTable {
	const slotSize = 16
	n := max(1, sizeMB*1024*1024/slotSize)
	size := 1
	for size*2 <= n {
		size *= 2
	}
	return &PawnTable{
		slots: make([]pawnSlot, size),
		mask:  uint64(size - 1),
	}
}

// Probe returns the cached middlegame and endgame terms for key.
func (pt *PawnTable) Probe(key uint64) (mg, eg int, found bool) {
	s := &pt.slots[key&pt.mask]
	if s.key != key {
		return 0, 0, false
	}
	return int(s.mg), int(s.eg), true
}

// Store overwrites the slot for key.
func (pt *PawnTable) Store(key uint64, mg, eg int) {
	pt.slots[key&pt.mask] = pawnSlot{key: key, mg: int16(mg), eg: int16(eg)}
}

// Clear drops every cached entry.
func (pt *PawnTable) Clear() {
	clear(pt.slots)
}
