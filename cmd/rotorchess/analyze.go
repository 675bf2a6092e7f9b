package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/hailam/rotorchess/internal/board"
	"github.com/hailam/rotorchess/internal/diagram"
	"github.com/hailam/rotorchess/internal/engine"
	"github.com/hailam/rotorchess/internal/storage"
)

func runAnalyze(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	fen := fs.String("fen", defaultFEN, "position to analyse")
	moveTime := fs.Duration("movetime", 10*time.Second, "thinking time")
	depth := fs.Int("depth", 0, "depth limit (0 = none)")
	nodes := fs.Uint64("nodes", 0, "node limit (0 = none)")
	dbDir := fs.String("db", "", "analysis database directory (default: $ROTORCHESS_DB or the user cache directory)")
	noCache := fs.Bool("nocache", false, "neither read nor write the analysis database")
	pngPath := fs.String("png", "", "also write a diagram with the best move to this file")
	ef := addEngineFlags(fs, 200)
	fs.Parse(args)

	pos, err := board.ParseFEN(*fen)
	if err != nil {
		return err
	}
	eng, err := ef.newEngine()
	if err != nil {
		return err
	}

	var db *storage.Storage
	if !*noCache {
		db, err = openStorage(*dbDir)
		if err != nil {
			log.Printf("[storage] Warning: analysis cache disabled: %v", err)
		} else {
			defer db.Close()
		}
	}

	// A fixed-depth request can be answered from an earlier search that
	// went at least as deep.
	if db != nil && *depth > 0 {
		a, err := db.LoadAnalysis(pos.ToFEN(), *depth)
		switch {
		case err == nil:
			fmt.Printf("cached: depth %d score %s (%s, %v)\n", a.Depth, engine.ScoreToString(a.Score), a.Strategy, a.Elapsed.Round(time.Millisecond))
			fmt.Printf("pv %s\nbestmove %s\n", strings.Join(a.PV, " "), a.Move)
			return writeDiagram(*pngPath, pos, a.Move)
		case !errors.Is(err, storage.ErrNotFound):
			return err
		}
	}

	fmt.Print(pos)
	eng.OnInfo = func(info engine.SearchInfo) {
		fmt.Printf("depth %2d  score %-12s  nodes %10d  time %8v  pv %s\n",
			info.Depth, engine.ScoreToString(info.Score), info.Nodes,
			info.Time.Round(time.Millisecond), board.FormatLine(info.PV))
	}
	limits := engine.SearchLimits{Depth: *depth, Nodes: *nodes, MoveTime: *moveTime}
	res := eng.Search(ctx, pos, limits)
	switch {
	case pos.IsCheckmate():
		fmt.Println("checkmate")
		return nil
	case pos.IsStalemate():
		fmt.Println("stalemate")
		return nil
	}
	fmt.Printf("bestmove %s (%s) score %s\n", res.Move.Algebraic(), res.Move, engine.ScoreToString(res.Score))
	fmt.Printf("hash full %d‰  hit rate %.1f%%\n", eng.HashFull(), eng.HitRate())

	if db != nil && res.Depth > 0 {
		a := &storage.Analysis{
			FEN:      pos.ToFEN(),
			Depth:    res.Depth,
			Move:     res.Move.String(),
			Score:    res.Score,
			Nodes:    res.Nodes,
			Elapsed:  res.Time,
			Strategy: eng.Options().Strategy.String(),
		}
		for _, m := range res.PV {
			a.PV = append(a.PV, m.String())
		}
		if err := db.SaveAnalysis(a); err != nil {
			return err
		}
	}
	return writeDiagram(*pngPath, pos, res.Move.String())
}

func openStorage(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.OpenDefault()
	}
	return storage.Open(dir)
}

// writeDiagram draws pos with move as an arrow. An empty path is a no-op.
func writeDiagram(path string, pos *board.Position, move string) error {
	if path == "" {
		return nil
	}
	opts := diagram.DefaultOptions()
	if m, err := pos.ParseMove(move); err == nil {
		opts.Arrow = m
	}
	opts.Flip = pos.SideToMove == board.Black
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := diagram.WritePNG(f, pos, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
