package epd

import (
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/hailam/rotorchess/internal/board"
	"github.com/hailam/rotorchess/internal/engine"
	"github.com/hailam/rotorchess/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Outcome is the engine's answer to one test.
type Outcome struct {
	Test   *Test
	Result engine.Result
	Passed bool
}

// Report is the result of a suite run.
type Report struct {
	Outcomes  []Outcome // in suite order
	Passed    int
	StartedAt time.Time
	Elapsed   time.Duration
}

// Percent returns the share of tests passed.
func (r *Report) Percent() float64 {
	if len(r.Outcomes) == 0 {
		return 0
	}
	return 100 * float64(r.Passed) / float64(len(r.Outcomes))
}

// SuiteRun converts the report into its stored form.
func (r *Report) SuiteRun(suite string, strategy engine.Strategy, moveTime time.Duration) *storage.SuiteRun {
	run := &storage.SuiteRun{
		Suite:     suite,
		Strategy:  strategy.String(),
		MoveTime:  moveTime,
		Passed:    r.Passed,
		Total:     len(r.Outcomes),
		StartedAt: r.StartedAt,
		Elapsed:   r.Elapsed,
	}
	for _, o := range r.Outcomes {
		if !o.Passed {
			run.Failed = append(run.Failed, o.Test.Name())
		}
	}
	return run
}

// Runner searches every position of a suite.
type Runner struct {
	// NewEngine builds the engine for one worker. Engines are not shared
	// between workers.
	NewEngine func() *engine.Engine
	Limits    engine.SearchLimits
	Workers   int       // defaults to GOMAXPROCS
	Out       io.Writer // per-test lines and the summary; nil discards
}

type indexed struct {
	i   int
	res engine.Result
}

// Run searches the tests and reports as each one finishes. Cancelling ctx
// stops the run; the tests finished so far are still reported.
func (r *Runner) Run(ctx context.Context, tests []Test) (*Report, error) {
	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = min(workers, max(len(tests), 1))
	out := r.Out
	if out == nil {
		out = io.Discard
	}

	log.Printf("[suite] %d positions, %d workers", len(tests), workers)
	report := &Report{Outcomes: make([]Outcome, 0, len(tests)), StartedAt: time.Now()}

	g, gctx := errgroup.WithContext(ctx)
	jobs := make(chan int)
	results := make(chan indexed)

	g.Go(func() error {
		defer close(jobs)
		for i := range tests {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return nil
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			eng := r.NewEngine()
			for i := range jobs {
				eng.Clear()
				res := eng.Search(gctx, tests[i].Position, r.Limits)
				if gctx.Err() != nil {
					return nil
				}
				select {
				case results <- indexed{i, res}:
				case <-gctx.Done():
					return nil
				}
			}
			return nil
		})
	}

	g.Go(func() error {
		wg.Wait()
		close(results)
		return nil
	})

	done := make([]*Outcome, len(tests))
	for ir := range results {
		t := &tests[ir.i]
		o := &Outcome{Test: t, Result: ir.res, Passed: t.Solves(ir.res.Move)}
		done[ir.i] = o
		if o.Passed {
			report.Passed++
		}
		writeOutcome(out, o, report.Passed, countDone(done))
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, o := range done {
		if o != nil {
			report.Outcomes = append(report.Outcomes, *o)
		}
	}
	report.Elapsed = time.Since(report.StartedAt)
	fmt.Fprintf(out, "\nPassed %.1f%% of tests.\n", report.Percent())
	log.Printf("[suite] finished in %v", report.Elapsed.Round(time.Millisecond))
	return report, ctx.Err()
}

func countDone(done []*Outcome) int {
	n := 0
	for _, o := range done {
		if o != nil {
			n++
		}
	}
	return n
}

func writeOutcome(w io.Writer, o *Outcome, passed, total int) {
	res := o.Result
	nps := uint64(0)
	if s := res.Time.Seconds(); s > 0 {
		nps = uint64(float64(res.Nodes) / s)
	}
	suggested := "(none)"
	if res.Move != board.NoMove {
		suggested = res.Move.Algebraic()
	}
	fmt.Fprintf(w, "%s\n", o.Test.Name())
	fmt.Fprintf(w, "Nodes per second: %d\n", nps)
	fmt.Fprintf(w, "  Suggested move: %s\n", suggested)
	fmt.Fprintf(w, "       Best move: %s\n", strings.Join(o.Test.BestMoves, ", "))
	fmt.Fprintf(w, "           Score: %d/%d\n\n", passed, total)
}
