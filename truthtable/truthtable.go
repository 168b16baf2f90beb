// Package truthtable implements the recursive partial-assignment
// enumerator: a brute-force decision procedure that tries
// every assignment to variables 1..V in order, optionally short-circuiting
// a branch as soon as the partial assignment already settles the clause
// set's truth value.
package truthtable

import (
	"github.com/go-satkit/satkit/cnf"
	"github.com/go-satkit/satkit/trace"
)

// Options configures the search.
type Options struct {
	// LeavesOnly restricts evaluation to full assignments (leaves); when
	// false ("nodes" mode) every partial assignment is evaluated so a
	// branch can terminate early once already satisfied or falsified.
	LeavesOnly bool
}

// solver owns all per-run state; no package-level globals (Design Note
// "Global mutable state").
type solver struct {
	clauses []cnf.Clause
	v       cnf.Var
	opts    Options
	tr      trace.Sink
	stats   *trace.Stats
	model   cnf.Assignment
}

// Solve decides satisfiability of clauses over variables 1..v by
// exhaustive partial-assignment search. tr may be nil.
func Solve(clauses []cnf.Clause, v cnf.Var, opts Options, tr *trace.Trace) (sat bool, model cnf.Assignment) {
	if tr == nil {
		tr = trace.New(trace.Off)
	}
	s := &solver{clauses: clauses, v: v, opts: opts, tr: tr, stats: &tr.Stats}
	a := cnf.NewAssignment(v)
	if s.search(a, 1, 0) {
		return true, s.model
	}
	return false, nil
}

// evaluate classifies S under the (possibly partial) assignment a:
// True if every clause is satisfied, False if any clause is falsified,
// Unassigned ("undetermined") otherwise.
func (s *solver) evaluate(a cnf.Assignment) cnf.Value {
	allSatisfied := true
	for _, c := range s.clauses {
		satisfied := false
		falsified := true
		for _, l := range c {
			switch a.ValueOf(l) {
			case cnf.True:
				satisfied = true
			case cnf.Unassigned:
				falsified = false
			}
		}
		if satisfied {
			continue
		}
		if falsified {
			return cnf.False
		}
		allSatisfied = false
	}
	if allSatisfied {
		return cnf.True
	}
	return cnf.Unassigned
}

func (s *solver) search(a cnf.Assignment, pos cnf.Var, depth int) bool {
	if int64(depth) > s.stats.MaxDepth {
		s.stats.MaxDepth = int64(depth)
	}

	if pos > s.v {
		s.stats.Leaves++
		s.stats.Evaluations++
		if cnf.Satisfies(s.clauses, a) {
			s.tr.Enter(depth, "leaf %v satisfies", cnf.Model(a))
			s.model = a.Clone()
			return true
		}
		s.tr.Enter(depth, "leaf %v falsifies", cnf.Model(a))
		return false
	}

	if !s.opts.LeavesOnly {
		s.stats.Evaluations++
		switch s.evaluate(a) {
		case cnf.True:
			s.tr.Enter(depth, "var %d: already satisfied", pos)
			s.model = a.Clone()
			return true
		case cnf.False:
			s.tr.Enter(depth, "var %d: already falsified", pos)
			return false
		}
	}

	a.Set(cnf.NewLit(pos, false))
	s.tr.Enter(depth, "var %d = true", pos)
	if s.search(a, pos+1, depth+1) {
		return true
	}

	a.Set(cnf.NewLit(pos, true))
	s.tr.Enter(depth, "var %d = false", pos)
	if s.search(a, pos+1, depth+1) {
		return true
	}

	a.Unset(pos)
	return false
}
