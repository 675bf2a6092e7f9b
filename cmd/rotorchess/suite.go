package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hailam/rotorchess/internal/engine"
	"github.com/hailam/rotorchess/internal/epd"
)

func runSuite(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("suite", flag.ExitOnError)
	moveTime := fs.Duration("movetime", time.Second, "thinking time per position")
	workers := fs.Int("workers", 0, "positions searched in parallel (0 = GOMAXPROCS)")
	name := fs.String("name", "", "name the run is recorded under (default: file name)")
	dbDir := fs.String("db", "", "database directory (default: $ROTORCHESS_DB or the user cache directory)")
	history := fs.Bool("history", false, "print earlier runs of the suite")
	ef := addEngineFlags(fs, 32)
	fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("usage: rotorchess suite [flags] <file.epd>")
	}
	path := fs.Arg(0)
	if *name == "" {
		*name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	tests, err := epd.Load(path)
	if err != nil {
		return err
	}
	if len(tests) == 0 {
		return fmt.Errorf("%s: %w", path, epd.ErrNoBestMove)
	}
	// Validate the flags once before every worker builds its own engine.
	if _, err := ef.newEngine(); err != nil {
		return err
	}

	runner := &epd.Runner{
		NewEngine: func() *engine.Engine {
			eng, _ := ef.newEngine()
			return eng
		},
		Limits:  engine.SearchLimits{MoveTime: *moveTime},
		Workers: *workers,
		Out:     os.Stdout,
	}
	report, err := runner.Run(ctx, tests)
	if err != nil {
		return err
	}

	db, err := openStorage(*dbDir)
	if err != nil {
		log.Printf("[storage] Warning: run not recorded: %v", err)
		return nil
	}
	defer db.Close()

	strategy, _ := engine.ParseStrategy(ef.strategy)
	if err := db.RecordSuiteRun(report.SuiteRun(*name, strategy, *moveTime)); err != nil {
		return err
	}
	if !*history {
		return nil
	}
	runs, err := db.SuiteRuns(*name)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s history:\n", *name)
	for _, r := range runs {
		fmt.Printf("  %s  %-9s %6v  %d/%d (%.1f%%)\n",
			r.StartedAt.Format(time.DateTime), r.Strategy, r.MoveTime, r.Passed, r.Total, r.Percent())
	}
	return nil
}
