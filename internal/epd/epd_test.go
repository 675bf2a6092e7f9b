package epd

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/hailam/rotorchess/internal/board"
	"github.com/hailam/rotorchess/internal/engine"
)

const suite = `# tactics
6kr/p1p1qppp/5n2/1p6/PP6/K7/3r4/8 b - - bm Qe3#; id "mate.001";

4k3/8/8/3q4/8/8/3R4/4K3 w - - bm Rxd5; id "hang.001";
4k3/8/8/3q4/8/8/3R4/4K3 w - - bm Kf1 Ke2; id "hang.002";
4k3/8/8/8/8/8/8/4K3 w - - am Kd1; id "no.bm";
`

func TestParse(t *testing.T) {
	tests, err := Parse(strings.NewReader(suite))
	if err != nil {
		t.Fatal(err)
	}
	type summary struct {
		ID        string
		BestMoves []string
		Line      int
	}
	var got []summary
	for _, tc := range tests {
		got = append(got, summary{tc.ID, tc.BestMoves, tc.Line})
	}
	want := []summary{
		{"mate.001", []string{"Qe3#"}, 2},
		{"hang.001", []string{"Rxd5"}, 4},
		{"hang.002", []string{"Kf1", "Ke2"}, 5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse() mismatch (-want +got):\n%s", diff)
	}
	if got := tests[0].Position.SideToMove; got != board.Black {
		t.Errorf("side to move = %v, want black", got)
	}
}

func TestParseLine(t *testing.T) {
	tc, err := ParseLine("8/8/8/8/8/8/8/K6k w - - bm Kb2")
	if err != nil {
		t.Fatal(err)
	}
	if tc.ID != "" || tc.Name() != "line 0" {
		t.Errorf("unnamed record: id %q, name %q", tc.ID, tc.Name())
	}
	if diff := cmp.Diff([]string{"Kb2"}, tc.BestMoves); diff != "" {
		t.Errorf("best moves (-want +got):\n%s", diff)
	}

	if _, err := ParseLine("8/8/8/8/8/8/8/K6k w - - id \"x\";"); !errors.Is(err, ErrNoBestMove) {
		t.Errorf("missing bm: error = %v, want ErrNoBestMove", err)
	}
	if _, err := ParseLine("8/8/8/8/8/8/8/K6k w - - bm ;"); !errors.Is(err, ErrNoBestMove) {
		t.Errorf("empty bm: error = %v, want ErrNoBestMove", err)
	}
}

func TestParseRejectsBadPosition(t *testing.T) {
	_, err := Parse(strings.NewReader("8/8/8/8 w - - bm Ka1;\n"))
	if !errors.Is(err, board.ErrInvalidFEN) {
		t.Fatalf("error = %v, want ErrInvalidFEN", err)
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("error %q does not name the line", err)
	}
}

func TestSolves(t *testing.T) {
	tests, err := Parse(strings.NewReader(suite))
	if err != nil {
		t.Fatal(err)
	}
	mate := &tests[0]
	for _, tc := range []struct {
		move string
		want bool
	}{
		{"e7e3", true},
		{"e7e5", false},
	} {
		m, err := mate.Position.ParseMove(tc.move)
		if err != nil {
			t.Fatal(err)
		}
		if got := mate.Solves(m); got != tc.want {
			t.Errorf("Solves(%s) = %v, want %v", tc.move, got, tc.want)
		}
	}
	if mate.Solves(board.NoMove) {
		t.Error("NoMove solved a test")
	}
}

func newRunner(out *bytes.Buffer) *Runner {
	return &Runner{
		NewEngine: func() *engine.Engine {
			return engine.NewEngine(engine.NewClassicalEvaluator(1), 4)
		},
		Limits:  engine.SearchLimits{Depth: 3},
		Workers: 2,
		Out:     out,
	}
}

func TestRunnerRun(t *testing.T) {
	tests, err := Parse(strings.NewReader(suite))
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	report, err := newRunner(&out).Run(context.Background(), tests)
	if err != nil {
		t.Fatal(err)
	}

	var passed []bool
	for _, o := range report.Outcomes {
		passed = append(passed, o.Passed)
	}
	if diff := cmp.Diff([]bool{true, true, false}, passed); diff != "" {
		t.Errorf("outcomes (-want +got):\n%s", diff)
	}
	if report.Passed != 2 {
		t.Errorf("Passed = %d, want 2", report.Passed)
	}
	if !strings.Contains(out.String(), "Passed 66.7% of tests.") {
		t.Errorf("summary missing from output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "Suggested move: Qe3") {
		t.Errorf("mate test line missing from output:\n%s", out.String())
	}

	run := report.SuiteRun("tactics", engine.AlphaBeta, 0)
	if run.Total != 3 || run.Passed != 2 || run.Strategy != "alphabeta" {
		t.Errorf("SuiteRun = %+v", run)
	}
	if diff := cmp.Diff([]string{"hang.002"}, run.Failed); diff != "" {
		t.Errorf("failed ids (-want +got):\n%s", diff)
	}
}

func TestRunnerCancelled(t *testing.T) {
	tests, err := Parse(strings.NewReader(suite))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	report, err := newRunner(&out).Run(ctx, tests)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if len(report.Outcomes) != 0 {
		t.Errorf("%d outcomes after cancellation", len(report.Outcomes))
	}
}
