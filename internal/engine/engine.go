package engine

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/hailam/rotorchess/internal/board"
)

// SearchInfo contains information about a completed iteration.
type SearchInfo struct {
	Depth    int
	Score    int
	Nodes    uint64
	Time     time.Duration
	PV       []board.Move
	HashFull int // permille of hash table used
}

// SearchLimits specifies constraints on the search. Zero values mean no limit.
type SearchLimits struct {
	Depth    int
	Nodes    uint64
	MoveTime time.Duration
}

// Result is the outcome of the deepest completed iteration.
type Result struct {
	Move  board.Move
	Score int
	Depth int
	PV    []board.Move
	Nodes uint64
	Time  time.Duration
}

// Options are the search features an Engine uses.
type Options struct {
	Strategy Strategy
	NullMove bool
	Killers  bool
}

// DefaultOptions returns full-window alpha-beta with null move and killers.
func DefaultOptions() Options {
	return Options{Strategy: AlphaBeta, NullMove: true, Killers: true}
}

// Option changes one field of Options.
type Option func(*Options)

func WithStrategy(s Strategy) Option { return func(o *Options) { o.Strategy = s } }
func WithNullMove(on bool) Option    { return func(o *Options) { o.NullMove = on } }
func WithKillers(on bool) Option     { return func(o *Options) { o.Killers = on } }

// Engine searches positions for the best move. One search runs at a time;
// Stop may be called from any goroutine.
type Engine struct {
	worker *Worker
	tt     *TranspositionTable
	eval   Evaluator
	opts   Options
	stop   atomic.Bool

	// OnInfo is called after every completed iteration.
	OnInfo func(SearchInfo)
}

// NewEngine creates an engine with a transposition table of hashMB megabytes.
func NewEngine(eval Evaluator, hashMB int, opts ...Option) *Engine {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{
		tt:   NewTranspositionTable(hashMB),
		eval: eval,
		opts: o,
	}
	e.worker = NewWorker(e.tt, eval, o, &e.stop)
	return e
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// Search runs iterative deepening on pos until a limit is reached, a mate is
// found, Stop is called or ctx is done. pos is not modified. The result is
// that of the last iteration that ran to completion; when not even the
// first did, the first legal move is returned.
func (e *Engine) Search(ctx context.Context, pos *board.Position, limits SearchLimits) Result {
	start := time.Now()
	e.stop.Store(ctx.Err() != nil)
	defer context.AfterFunc(ctx, e.Stop)()
	if limits.MoveTime > 0 {
		timer := time.AfterFunc(limits.MoveTime, e.Stop)
		defer timer.Stop()
	}

	var res Result
	var legal board.MoveList
	pos.GenerateLegalMoves(&legal)
	if legal.Len() == 0 {
		if pos.InCheck(pos.SideToMove) {
			res.Score = MatedIn(0)
		}
		return res
	}

	e.tt.NewSearch()
	w := e.worker
	w.Reset(pos, limits.Nodes)

	maxDepth := MaxPly - 1
	if limits.Depth > 0 {
		maxDepth = min(limits.Depth, maxDepth)
	}

	guess := 0
	for depth := min(2, maxDepth); depth <= maxDepth; depth++ {
		score := w.SearchRoot(e.opts.Strategy, depth, guess)
		if w.stopped() {
			break
		}
		guess = score

		pv := w.PV()
		if len(pv) > 0 && legal.Contains(pv[0]) {
			res.Move = pv[0]
			res.PV = pv
		}
		res.Score = score
		res.Depth = depth

		if e.OnInfo != nil {
			e.OnInfo(SearchInfo{
				Depth:    depth,
				Score:    score,
				Nodes:    w.Nodes(),
				Time:     time.Since(start),
				PV:       res.PV,
				HashFull: e.tt.HashFull(),
			})
		}

		if IsMate(score) {
			break
		}
		w.SeedPV(res.PV, depth)
	}

	if res.Move == board.NoMove {
		res.Move = legal.Get(0)
		res.PV = []board.Move{res.Move}
	}
	res.Nodes = w.Nodes()
	res.Time = time.Since(start)
	return res
}

// Stop ends the running search. The current iteration is discarded.
func (e *Engine) Stop() {
	e.stop.Store(true)
}

// Clear empties the transposition table.
func (e *Engine) Clear() {
	e.tt.Clear()
}

// HashFull returns the permille of the transposition table in use.
func (e *Engine) HashFull() int {
	return e.tt.HashFull()
}

// HitRate returns the percentage of table probes since the last Clear that
// produced a usable result.
func (e *Engine) HitRate() float64 {
	return e.tt.HitRate()
}

// Evaluate returns the static evaluation of pos for the side to move.
func (e *Engine) Evaluate(pos *board.Position) int {
	return e.eval.Evaluate(pos)
}
