package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-satkit/satkit"
	"github.com/go-satkit/satkit/trace"
	"github.com/hashicorp/go-hclog"
	"github.com/pkg/errors"
)

func parseEngine(name string) (satkit.Engine, error) {
	switch name {
	case "watched", "watched-dpll":
		return satkit.EngineWatchedDPLL, nil
	case "classical", "classical-dpll":
		return satkit.EngineClassicalDPLL, nil
	case "naive-dpll":
		return satkit.EngineNaiveDPLL, nil
	case "optimized-resolution":
		return satkit.EngineOptimizedResolution, nil
	case "naive-resolution":
		return satkit.EngineNaiveResolution, nil
	case "truth-table":
		return satkit.EngineTruthTable, nil
	default:
		return 0, errors.Errorf("unknown engine %q", name)
	}
}

func parseTraceMode(name string) (trace.Mode, error) {
	switch name {
	case "", "off":
		return trace.Off, nil
	case "plain":
		return trace.Plain, nil
	case "html":
		return trace.HTML, nil
	case "console":
		return trace.Console, nil
	default:
		return trace.Off, errors.Errorf("unknown trace mode %q", name)
	}
}

// solveCommand implements `satkit solve`: read a DIMACS problem and report
// its verdict.
type solveCommand struct {
	logger hclog.Logger
}

func (c *solveCommand) Synopsis() string { return "Decide satisfiability of a DIMACS CNF problem" }

func (c *solveCommand) Help() string {
	return `Usage: satkit solve [options] [file]

  Reads a DIMACS CNF problem from file, or stdin if omitted, and reports
  whether it is satisfiable.

Options:

  -engine=watched|classical|naive-dpll|optimized-resolution|naive-resolution|truth-table
  -trace=off|plain|html|console
  -leaves-only     (truth-table engine only) disable early short-circuit
`
}

func (c *solveCommand) Run(args []string) int {
	fs := flag.NewFlagSet("solve", flag.ContinueOnError)
	engineName := fs.String("engine", "watched", "decision engine to use")
	traceName := fs.String("trace", "off", "trace rendering mode")
	leavesOnly := fs.Bool("leaves-only", false, "truth-table engine: disable early short-circuit")
	if err := fs.Parse(args); err != nil {
		return 1
	}

	eng, err := parseEngine(*engineName)
	if err != nil {
		c.logger.Error("invalid engine", "error", err)
		return 1
	}
	mode, err := parseTraceMode(*traceName)
	if err != nil {
		c.logger.Error("invalid trace mode", "error", err)
		return 1
	}

	var r io.Reader = os.Stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			c.logger.Error("opening input", "error", err)
			return 1
		}
		defer f.Close()
		r = f
	}

	clauses, err := satkit.ParseDIMACS(r)
	if err != nil {
		c.logger.Error("parsing DIMACS", "error", err)
		return 1
	}

	verdict, tr, err := satkit.Solve(context.Background(), clauses, satkit.Options{
		Engine:               eng,
		TraceMode:            mode,
		TruthTableLeavesOnly: *leavesOnly,
	})
	if err != nil {
		c.logger.Error("solving", "error", err)
		return 1
	}

	if verdict.Satisfiable {
		fmt.Println("SAT")
		if verdict.Model != nil {
			fmt.Println(satkit.RenderModel(verdict.Model, nil))
		}
	} else {
		fmt.Println("UNSAT")
	}
	if mode != trace.Off {
		fmt.Println(tr.String())
	}
	return 0
}

// benchCommand implements `satkit bench`: run every engine against a
// DIMACS problem and report each engine's verdict, wall time, and trace
// statistics.
type benchCommand struct {
	logger hclog.Logger
}

func (c *benchCommand) Synopsis() string { return "Compare engines on a DIMACS CNF problem" }

func (c *benchCommand) Help() string {
	return `Usage: satkit bench [file]

  Runs every engine against the given DIMACS problem (or stdin) and
  prints each engine's verdict, wall time, and trace statistics.
`
}

func (c *benchCommand) Run(args []string) int {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return 1
	}

	var r io.Reader = os.Stdin
	if fs.NArg() > 0 {
		f, err := os.Open(fs.Arg(0))
		if err != nil {
			c.logger.Error("opening input", "error", err)
			return 1
		}
		defer f.Close()
		r = f
	}

	clauses, err := satkit.ParseDIMACS(r)
	if err != nil {
		c.logger.Error("parsing DIMACS", "error", err)
		return 1
	}

	engines := []satkit.Engine{
		satkit.EngineWatchedDPLL,
		satkit.EngineClassicalDPLL,
		satkit.EngineNaiveDPLL,
		satkit.EngineOptimizedResolution,
		satkit.EngineNaiveResolution,
		satkit.EngineTruthTable,
	}
	for _, eng := range engines {
		start := time.Now()
		verdict, tr, err := satkit.Solve(context.Background(), clauses, satkit.Options{Engine: eng})
		elapsed := time.Since(start)
		if err != nil {
			c.logger.Error("solving", "engine", eng.String(), "error", err)
			continue
		}
		fmt.Printf("%-22s sat=%-5t %-10s %s\n", eng.String(), verdict.Satisfiable, elapsed, tr.Stats.Line())
	}
	return 0
}

// selftestCommand implements `satkit selftest`: run a small fixed battery
// of scenarios across every engine and report pass/fail, without
// requiring `go test`.
type selftestCommand struct {
	logger hclog.Logger
}

func (c *selftestCommand) Synopsis() string { return "Run a built-in cross-engine regression check" }

func (c *selftestCommand) Help() string {
	return `Usage: satkit selftest

  Runs a small fixed set of satisfiable and unsatisfiable formulas
  through every engine and reports any engine whose verdict disagrees
  with the expected answer.
`
}

var selftestScenarios = []struct {
	name    string
	clauses [][]int
	sat     bool
}{
	{"unit-conflict", [][]int{{-1, 2}, {1}, {-2}}, false},
	{"unit-chain-sat", [][]int{{-1, 2}, {1}}, true},
	{"pigeonhole-2", [][]int{{1, 2}, {-1, 2}, {1, -2}, {-1, -2}}, false},
	{"small-unsat-3", [][]int{{1, 2, 3}, {-1}, {-2}, {-3}}, false},
	{"sat-3var", [][]int{{1, -2, 3}, {-1, 2, -3}, {-1, -2, 3}, {1, 2, -3}}, true},
}

var selftestEngines = []satkit.Engine{
	satkit.EngineWatchedDPLL,
	satkit.EngineClassicalDPLL,
	satkit.EngineNaiveDPLL,
	satkit.EngineOptimizedResolution,
	satkit.EngineNaiveResolution,
	satkit.EngineTruthTable,
}

func (c *selftestCommand) Run(args []string) int {
	failures := 0
	for _, s := range selftestScenarios {
		for _, eng := range selftestEngines {
			verdict, _, err := satkit.Solve(context.Background(), s.clauses, satkit.Options{Engine: eng})
			if err != nil {
				c.logger.Error("selftest", "scenario", s.name, "engine", eng.String(), "error", err)
				failures++
				continue
			}
			if verdict.Satisfiable != s.sat {
				c.logger.Error("selftest disagreement",
					"scenario", s.name, "engine", eng.String(),
					"want", s.sat, "got", verdict.Satisfiable)
				failures++
				continue
			}
			fmt.Printf("ok   %-16s %s\n", s.name, eng.String())
		}
	}
	if failures > 0 {
		fmt.Printf("%d failure(s)\n", failures)
		return 1
	}
	fmt.Println("all scenarios agree")
	return 0
}
