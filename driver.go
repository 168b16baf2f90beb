// Package satkit is the CNF satisfiability toolkit's driver: it accepts a
// clause set plus an engine choice and dispatches to the chosen decision
// procedure, returning a verdict and the accumulated trace.
package satkit

import (
	"context"
	"strings"

	"github.com/go-satkit/satkit/cnf"
	"github.com/go-satkit/satkit/dpll"
	"github.com/go-satkit/satkit/resolution"
	"github.com/go-satkit/satkit/trace"
	"github.com/go-satkit/satkit/truthtable"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// Engine selects which decision procedure Solve dispatches to.
type Engine int

const (
	EngineWatchedDPLL Engine = iota
	EngineClassicalDPLL
	EngineNaiveDPLL
	EngineOptimizedResolution
	EngineNaiveResolution
	EngineTruthTable
)

func (e Engine) String() string {
	switch e {
	case EngineWatchedDPLL:
		return "watched-dpll"
	case EngineClassicalDPLL:
		return "classical-dpll"
	case EngineNaiveDPLL:
		return "naive-dpll"
	case EngineOptimizedResolution:
		return "optimized-resolution"
	case EngineNaiveResolution:
		return "naive-resolution"
	case EngineTruthTable:
		return "truth-table"
	default:
		return "unknown-engine"
	}
}

// Options configures a single Solve call.
type Options struct {
	Engine Engine
	MaxVar int // 0 = infer from input
	Names  []string

	TraceMode            trace.Mode
	TruthTableLeavesOnly bool
}

// Verdict is the outcome of a Solve call.
type Verdict struct {
	Satisfiable bool
	Model       []int // signed literals; nil when no witness reconstructible
	Partial     bool  // true when Model is a partial (units-only) witness
}

// strictEngines validate the input up front and return an error on any
// out-of-range variable rather than silently recomputing the variable
// count; the naive engines and the truth-table engine instead clamp,
// recomputing V from the input, since they never build an index keyed
// by a caller-declared V.
var strictEngines = map[Engine]bool{
	EngineOptimizedResolution: true,
	EngineWatchedDPLL:         true,
	EngineClassicalDPLL:       true,
}

// Solve is the single Go-native entry point a CLI, test, or embedding
// program uses. An error return is reserved for input-structural
// problems; it is never used to report UNSAT, which is a
// Verdict{Satisfiable: false}.
func Solve(ctx context.Context, clauses [][]int, opts Options) (Verdict, *trace.Trace, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cs := cnf.FromInts(clauses)
	maxVar := cnf.Var(opts.MaxVar)
	if maxVar == 0 {
		maxVar = cnf.MaxVar(cs)
	}

	if strictEngines[opts.Engine] {
		if errs := cnf.Validate(cs, maxVar); len(errs) > 0 {
			var merr *multierror.Error
			for _, e := range errs {
				merr = multierror.Append(merr, e)
			}
			return Verdict{}, nil, errors.Wrap(merr.ErrorOrNil(), "satkit: invalid input")
		}
	} else {
		maxVar = cnf.MaxVar(cs)
	}

	if err := ctx.Err(); err != nil {
		return Verdict{}, nil, errors.Wrap(err, "satkit: canceled before dispatch")
	}

	tr := trace.New(opts.TraceMode)

	switch opts.Engine {
	case EngineTruthTable:
		sat, model := truthtable.Solve(cs, maxVar, truthtable.Options{LeavesOnly: opts.TruthTableLeavesOnly}, tr)
		return totalVerdict(sat, model), tr, nil
	case EngineNaiveResolution:
		sat := resolution.SolveNaive(cs, tr)
		return Verdict{Satisfiable: sat}, tr, nil
	case EngineOptimizedResolution:
		sat, model := resolution.SolveOptimized(cs, maxVar, tr)
		return partialVerdict(sat, model), tr, nil
	case EngineNaiveDPLL:
		sat, model := dpll.SolveNaive(cs, maxVar, tr)
		return totalVerdict(sat, model), tr, nil
	case EngineClassicalDPLL:
		sat, model := dpll.SolveClassical(cs, maxVar, tr)
		return totalVerdict(sat, model), tr, nil
	case EngineWatchedDPLL:
		sat, model := dpll.SolveWatched(cs, maxVar, tr)
		return totalVerdict(sat, model), tr, nil
	default:
		return Verdict{}, nil, errors.Errorf("satkit: unknown engine %d", opts.Engine)
	}
}

func totalVerdict(sat bool, model cnf.Assignment) Verdict {
	if !sat {
		return Verdict{Satisfiable: false}
	}
	return Verdict{Satisfiable: true, Model: cnf.Model(model)}
}

func partialVerdict(sat bool, model cnf.Assignment) Verdict {
	if !sat {
		return Verdict{Satisfiable: false}
	}
	return Verdict{Satisfiable: true, Model: cnf.Model(model), Partial: true}
}

// RenderModel formats a verdict's model using names, falling back to the
// numeric encoding for any variable names doesn't cover.
func RenderModel(model []int, names cnf.Names) string {
	parts := make([]string, len(model))
	for i, v := range model {
		lit := cnf.NewLit(cnf.Var(v), false)
		if v < 0 {
			lit = cnf.NewLit(cnf.Var(-v), true)
		}
		parts[i] = names.Lookup(lit)
	}
	return strings.Join(parts, " ")
}
