package engine

import (
	"fmt"
	"time"

	"github.com/hailam/rotorchess/internal/xmath"
)

// TimeControlKind selects how thinking time is budgeted.
type TimeControlKind uint8

const (
	// SecondsPerMove gives every move the same fixed time.
	SecondsPerMove TimeControlKind = iota
	// BaseAndIncrement draws from a clock that gains an increment per move.
	BaseAndIncrement
)

// movesToGo is the number of moves the remaining clock is spread over.
const movesToGo = 40

// TimeManager hands out the thinking time of successive moves of one side.
type TimeManager struct {
	kind      TimeControlKind
	perMove   time.Duration
	remaining time.Duration
	increment time.Duration
	lastUsed  time.Duration
}

// NewFixedTimeManager gives every move perMove.
func NewFixedTimeManager(perMove time.Duration) *TimeManager {
	return &TimeManager{kind: SecondsPerMove, perMove: perMove}
}

// NewClockTimeManager starts a clock at base that gains increment per move.
func NewClockTimeManager(base, increment time.Duration) *TimeManager {
	return &TimeManager{kind: BaseAndIncrement, remaining: base, increment: increment}
}

// NextMove charges the time used on the previous move, credits the
// increment and returns the budget for the move about to be searched.
func (tm *TimeManager) NextMove() time.Duration {
	if tm.kind == SecondsPerMove {
		return tm.perMove
	}
	tm.remaining -= tm.lastUsed
	tm.remaining += tm.increment
	tm.lastUsed = 0
	return xmath.Clamp(tm.remaining/movesToGo, time.Millisecond, max(tm.remaining, time.Millisecond))
}

// Moved records how long the last move took.
func (tm *TimeManager) Moved(used time.Duration) {
	tm.lastUsed = used
}

// Remaining returns the clock before the pending charge.
func (tm *TimeManager) Remaining() time.Duration {
	return tm.remaining
}

func (tm *TimeManager) String() string {
	if tm.kind == SecondsPerMove {
		return fmt.Sprintf("%v per move", tm.perMove)
	}
	return fmt.Sprintf("%v + %v", tm.remaining, tm.increment)
}
