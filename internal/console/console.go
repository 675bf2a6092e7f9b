// Package console is a line-oriented shell around one engine. Searches run
// on a worker goroutine so that stop can interrupt them.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hailam/rotorchess/internal/board"
	"github.com/hailam/rotorchess/internal/engine"
)

var errBusy = errors.New("search already running")

// Console reads commands and writes the engine's answers.
type Console struct {
	engine   *engine.Engine
	position *board.Position

	// Clock budgets go commands that carry no limits. Without it such a
	// search runs until stop.
	Clock *engine.TimeManager

	mu  sync.Mutex // guards out
	out io.Writer

	jobs    chan search
	busy    atomic.Bool
	running sync.WaitGroup
	cancel  context.CancelFunc
}

type search struct {
	ctx    context.Context
	pos    *board.Position
	limits engine.SearchLimits
	timed  bool // charged to Clock
}

// New creates a console at the start position.
func New(eng *engine.Engine, out io.Writer) *Console {
	c := &Console{
		engine:   eng,
		position: board.NewPosition(),
		out:      out,
	}
	eng.OnInfo = c.sendInfo
	return c
}

func (c *Console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format, args...)
}

// Run reads commands from r until quit or end of input. quit stops a
// running search; end of input lets it finish first.
func (c *Console) Run(ctx context.Context, r io.Reader) error {
	c.jobs = make(chan search)
	worker := make(chan struct{})
	go func() {
		defer close(worker)
		c.work()
	}()
	defer func() {
		close(c.jobs)
		<-worker
	}()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "fen":
			err = c.handleFEN(args)
		case "startpos":
			c.position = board.NewPosition()
			err = c.applyMoves(args)
		case "moves":
			err = c.applyMoves(args)
		case "go":
			err = c.handleGo(ctx, args)
		case "stop":
			c.handleStop()
		case "d":
			c.printf("%s", c.position)
		case "eval":
			err = c.handleEval()
		case "perft":
			err = c.handlePerft(args)
		case "quit":
			c.handleStop()
			return nil
		default:
			err = fmt.Errorf("unknown command %q", cmd)
		}
		if err != nil {
			c.printf("error: %v\n", err)
		}
	}
	c.running.Wait()
	c.handleStop()
	return scanner.Err()
}

// handleFEN sets up "fen <fen> [moves ...]".
func (c *Console) handleFEN(args []string) error {
	end := len(args)
	for i, arg := range args {
		if arg == "moves" {
			end = i
			break
		}
	}
	pos, err := board.ParseFEN(strings.Join(args[:end], " "))
	if err != nil {
		return err
	}
	c.position = pos
	return c.applyMoves(args[end:])
}

// applyMoves plays coordinate moves on the current position. A leading
// "moves" keyword is skipped. Moves before the first bad one stay played.
func (c *Console) applyMoves(args []string) error {
	if len(args) > 0 && args[0] == "moves" {
		args = args[1:]
	}
	for _, s := range args {
		m, err := c.position.ParseMove(s)
		if err != nil {
			return err
		}
		c.position.MakeMove(m)
	}
	return nil
}

func (c *Console) handleEval() error {
	if c.busy.Load() {
		return errBusy
	}
	c.printf("eval %s\n", engine.ScoreToString(c.engine.Evaluate(c.position)))
	return nil
}

// parseLimits reads "depth N", "movetime MS" and "nodes N".
func parseLimits(args []string) (engine.SearchLimits, error) {
	var limits engine.SearchLimits
	for i := 0; i < len(args); i++ {
		if i+1 >= len(args) {
			return limits, fmt.Errorf("%s needs a value", args[i])
		}
		n, err := strconv.ParseUint(args[i+1], 10, 64)
		if err != nil {
			return limits, fmt.Errorf("%s: %w", args[i], err)
		}
		switch args[i] {
		case "depth":
			limits.Depth = int(n)
		case "movetime":
			limits.MoveTime = time.Duration(n) * time.Millisecond
		case "nodes":
			limits.Nodes = n
		default:
			return limits, fmt.Errorf("unknown limit %q", args[i])
		}
		i++
	}
	return limits, nil
}

// handleGo hands a copy of the position to the worker.
func (c *Console) handleGo(ctx context.Context, args []string) error {
	if c.busy.Load() {
		return errBusy
	}
	if c.cancel != nil {
		c.cancel()
	}
	limits, err := parseLimits(args)
	if err != nil {
		return err
	}
	timed := false
	if limits == (engine.SearchLimits{}) && c.Clock != nil {
		limits.MoveTime = c.Clock.NextMove()
		timed = true
	}

	snap := c.position.Snapshot()
	sctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.busy.Store(true)
	c.running.Add(1)
	c.jobs <- search{ctx: sctx, pos: &snap, limits: limits, timed: timed}
	return nil
}

func (c *Console) handleStop() {
	if c.cancel == nil {
		return
	}
	c.cancel()
	c.running.Wait()
	c.cancel = nil
}

// work runs searches until the job channel is closed.
func (c *Console) work() {
	for s := range c.jobs {
		res := c.engine.Search(s.ctx, s.pos, s.limits)
		if s.timed {
			c.Clock.Moved(res.Time)
		}
		if res.Move == board.NoMove {
			c.printf("bestmove (none)\n")
		} else {
			c.printf("bestmove %s (%s)\n", res.Move, res.Move.Algebraic())
		}
		c.busy.Store(false)
		c.running.Done()
	}
}

// sendInfo prints one completed iteration.
func (c *Console) sendInfo(info engine.SearchInfo) {
	var parts []string
	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))
	parts = append(parts, "score "+engine.ScoreToString(info.Score))
	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))
	if info.Time > 0 {
		parts = append(parts, fmt.Sprintf("nps %d", uint64(float64(info.Nodes)/info.Time.Seconds())))
	}
	if info.HashFull > 0 {
		parts = append(parts, fmt.Sprintf("hashfull %d", info.HashFull))
	}
	if len(info.PV) > 0 {
		pv := make([]string, len(info.PV))
		for i, m := range info.PV {
			pv[i] = m.String()
		}
		parts = append(parts, "pv "+strings.Join(pv, " "))
	}
	c.printf("info %s\n", strings.Join(parts, " "))
}

func (c *Console) handlePerft(args []string) error {
	if len(args) != 1 {
		return errors.New("usage: perft <depth>")
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 0 {
		return fmt.Errorf("bad depth %q", args[0])
	}

	start := time.Now()
	nodes := c.position.Perft(depth)
	elapsed := time.Since(start)

	c.printf("Nodes: %d\n", nodes)
	c.printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		c.printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
	return nil
}
