// Package epd reads EPD test suites and measures how many of their best
// moves an engine finds.
package epd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hailam/rotorchess/internal/board"
)

// ErrNoBestMove is returned for a record without a bm operation.
var ErrNoBestMove = errors.New("epd: no best move")

// Test is one suite position.
type Test struct {
	ID        string
	Position  *board.Position
	BestMoves []string // algebraic, as written in the record
	Line      int
}

// Name returns the id operand, or the line number when the record has none.
func (t *Test) Name() string {
	if t.ID != "" {
		return t.ID
	}
	return fmt.Sprintf("line %d", t.Line)
}

// ParseLine parses a record of the form "<fen> bm <moves>; [id "..."; ...]".
func ParseLine(line string) (Test, error) {
	i := strings.Index(line, " bm ")
	if i < 0 {
		return Test{}, ErrNoBestMove
	}
	pos, err := board.ParseFEN(strings.TrimSpace(line[:i]))
	if err != nil {
		return Test{}, err
	}

	ops := line[i+len(" bm "):]
	bm, rest, _ := strings.Cut(ops, ";")
	moves := strings.Fields(bm)
	if len(moves) == 0 {
		return Test{}, ErrNoBestMove
	}
	return Test{ID: operand(rest, "id"), Position: pos, BestMoves: moves}, nil
}

// operand returns the unquoted operand of the named opcode.
func operand(ops, name string) string {
	for op := range strings.SplitSeq(ops, ";") {
		code, arg, ok := strings.Cut(strings.TrimSpace(op), " ")
		if ok && code == name {
			return strings.Trim(strings.TrimSpace(arg), `"`)
		}
	}
	return ""
}

// Parse reads a suite. Blank lines, comments and records without a best
// move are skipped; a record whose position does not parse is an error.
func Parse(r io.Reader) ([]Test, error) {
	var tests []Test
	sc := bufio.NewScanner(r)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := ParseLine(line)
		if errors.Is(err, ErrNoBestMove) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("epd line %d: %w", n, err)
		}
		t.Line = n
		tests = append(tests, t)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read epd: %w", err)
	}
	return tests, nil
}

// Load parses the suite in the named file.
func Load(path string) ([]Test, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// Solves reports whether the algebraic form of m matches one of the best
// moves. A best move written with a check sign or disambiguation still
// matches when it starts with the engine's form.
func (t *Test) Solves(m board.Move) bool {
	if m == board.NoMove {
		return false
	}
	san := m.Algebraic()
	for _, bm := range t.BestMoves {
		if strings.HasPrefix(bm, san) {
			return true
		}
	}
	return false
}
