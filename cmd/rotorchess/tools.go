package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/hailam/rotorchess/internal/board"
	"github.com/hailam/rotorchess/internal/console"
	"github.com/hailam/rotorchess/internal/diagram"
	"github.com/hailam/rotorchess/internal/engine"
)

func runPerft(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("perft", flag.ExitOnError)
	fen := fs.String("fen", board.StartFEN, "position")
	depth := fs.Int("depth", 5, "depth")
	divide := fs.Bool("divide", false, "print the count below each root move")
	fs.Parse(args)

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		return err
	}

	start := time.Now()
	var nodes int64
	if *divide {
		counts := pos.Divide(*depth)
		moves := make([]string, 0, len(counts))
		for m := range counts {
			moves = append(moves, m)
		}
		slices.Sort(moves)
		for _, m := range moves {
			fmt.Printf("%s: %d\n", m, counts[m])
			nodes += counts[m]
		}
	} else {
		nodes = pos.Perft(*depth)
	}
	elapsed := time.Since(start)

	fmt.Printf("Nodes: %d\n", nodes)
	fmt.Printf("Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Printf("NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
	return nil
}

func runDiagram(_ context.Context, args []string) error {
	fs := flag.NewFlagSet("diagram", flag.ExitOnError)
	fen := fs.String("fen", defaultFEN, "position")
	out := fs.String("o", "board.png", "output file")
	size := fs.Int("size", 48, "square size in pixels")
	flip := fs.Bool("flip", false, "Black at the bottom")
	coords := fs.Bool("coords", true, "draw file and rank labels")
	move := fs.String("move", "", "draw an arrow for this move (coordinate form)")
	fs.Parse(args)

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		return err
	}
	opts := diagram.DefaultOptions()
	opts.SquareSize = *size
	opts.Flip = *flip
	opts.Coordinates = *coords
	if *move != "" {
		if opts.Arrow, err = pos.ParseMove(*move); err != nil {
			return err
		}
	}

	f, err := os.Create(*out)
	if err != nil {
		return err
	}
	if err := diagram.WritePNG(f, pos, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func runConsole(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("console", flag.ExitOnError)
	perMove := fs.Duration("permove", 0, "fixed time for a plain go")
	base := fs.Duration("base", 0, "clock for plain go commands")
	inc := fs.Duration("inc", 0, "clock increment per move")
	ef := addEngineFlags(fs, 64)
	fs.Parse(args)

	if *perMove > 0 && *base > 0 {
		return errors.New("-permove and -base are exclusive")
	}
	eng, err := ef.newEngine()
	if err != nil {
		return err
	}
	c := console.New(eng, os.Stdout)
	switch {
	case *perMove > 0:
		c.Clock = engine.NewFixedTimeManager(*perMove)
	case *base > 0:
		c.Clock = engine.NewClockTimeManager(*base, *inc)
	}
	return c.Run(ctx, os.Stdin)
}
