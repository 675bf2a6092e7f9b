package main

import (
	"flag"
	"testing"

	"github.com/hailam/rotorchess/internal/engine"
)

func parseEngineFlags(t *testing.T, args ...string) *engineFlags {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	ef := addEngineFlags(fs, 16)
	if err := fs.Parse(args); err != nil {
		t.Fatal(err)
	}
	return ef
}

func TestEngineFlags(t *testing.T) {
	eng, err := parseEngineFlags(t, "-strategy", "mtdf", "-nullmove=false").newEngine()
	if err != nil {
		t.Fatal(err)
	}
	want := engine.Options{Strategy: engine.MTDF, NullMove: false, Killers: true}
	if got := eng.Options(); got != want {
		t.Errorf("Options() = %+v, want %+v", got, want)
	}

	if _, err := parseEngineFlags(t, "-eval", "material").evaluator(); err != nil {
		t.Errorf("material evaluator: %v", err)
	}
	for _, args := range [][]string{
		{"-strategy", "pvs"},
		{"-eval", "nnue"},
	} {
		if _, err := parseEngineFlags(t, args...).newEngine(); err == nil {
			t.Errorf("%v accepted", args)
		}
	}
}
