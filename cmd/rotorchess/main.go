// Command rotorchess analyses chess positions from the command line.
//
// Usage:
//
//	rotorchess [-cpuprofile file] <command> [flags]
//
// Commands are analyze, suite, perft, diagram and console.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/hailam/rotorchess/internal/engine"
)

// defaultFEN is analysed when no position is given. Black mates in one.
const defaultFEN = "6kr/p1p1qppp/5n2/1p6/PP6/K7/3r4/8 b - - 0 36"

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")

type command struct {
	name  string
	usage string
	run   func(ctx context.Context, args []string) error
}

var commands = []command{
	{"analyze", "search one position and print the best line", runAnalyze},
	{"suite", "run an EPD test suite", runSuite},
	{"perft", "count move-generation leaves", runPerft},
	{"diagram", "render a position as PNG", runDiagram},
	{"console", "interactive command shell", runConsole},
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: rotorchess [-cpuprofile file] <command> [flags]\n\ncommands:\n")
	for _, c := range commands {
		fmt.Fprintf(flag.CommandLine.Output(), "  %-8s %s\n", c.name, c.usage)
	}
}

func main() {
	log.SetFlags(log.Ltime)
	flag.Usage = usage
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	name, args := "analyze", []string(nil)
	if flag.NArg() > 0 {
		name, args = flag.Arg(0), flag.Args()[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	for _, c := range commands {
		if c.name == name {
			if err := c.run(ctx, args); err != nil {
				// log.Fatal would skip the deferred profile flush.
				log.Printf("%s: %v", name, err)
				pprof.StopCPUProfile()
				os.Exit(1)
			}
			return
		}
	}
	usage()
	os.Exit(2)
}

// engineFlags are shared by the commands that search.
type engineFlags struct {
	hash     int
	strategy string
	nullMove bool
	killers  bool
	eval     string
}

func addEngineFlags(fs *flag.FlagSet, hashMB int) *engineFlags {
	ef := &engineFlags{}
	fs.IntVar(&ef.hash, "hash", hashMB, "transposition table size in MB")
	fs.StringVar(&ef.strategy, "strategy", "alphabeta", "search driver: alphabeta or mtdf")
	fs.BoolVar(&ef.nullMove, "nullmove", true, "use null-move pruning")
	fs.BoolVar(&ef.killers, "killers", true, "use killer moves")
	fs.StringVar(&ef.eval, "eval", "classical", "evaluator: classical or material")
	return ef
}

func (ef *engineFlags) options() ([]engine.Option, error) {
	s, ok := engine.ParseStrategy(ef.strategy)
	if !ok {
		return nil, fmt.Errorf("unknown strategy %q", ef.strategy)
	}
	return []engine.Option{
		engine.WithStrategy(s),
		engine.WithNullMove(ef.nullMove),
		engine.WithKillers(ef.killers),
	}, nil
}

func (ef *engineFlags) evaluator() (engine.Evaluator, error) {
	switch ef.eval {
	case "classical":
		return engine.NewClassicalEvaluator(2), nil
	case "material":
		return engine.MaterialEvaluator{}, nil
	}
	return nil, fmt.Errorf("unknown evaluator %q", ef.eval)
}

// newEngine builds an engine from the flags.
func (ef *engineFlags) newEngine() (*engine.Engine, error) {
	opts, err := ef.options()
	if err != nil {
		return nil, err
	}
	eval, err := ef.evaluator()
	if err != nil {
		return nil, err
	}
	return engine.NewEngine(eval, ef.hash, opts...), nil
}
