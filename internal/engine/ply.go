package engine

import "github.com/hailam/rotorchess/internal/board"

const killerSlots = 4

// plyContext is the scratch state of one search ply. pv holds the line
// from this ply onward at its absolute ply indices.
type plyContext struct {
	snapshot board.Position
	moves    board.MoveList
	pv       [MaxPly]board.Move
	pvLen    int
	killers  [killerSlots]board.Move
	skipNull bool
}

// addKiller puts m first, dropping the oldest killer or the earlier copy of m.
func (p *plyContext) addKiller(m board.Move) {
	hole := killerSlots - 1
	for i, k := range p.killers {
		if k == m {
			hole = i
			break
		}
	}
	copy(p.killers[1:hole+1], p.killers[:hole])
	p.killers[0] = m
}

func (p *plyContext) clearKillers() {
	p.killers = [killerSlots]board.Move{}
}
