// Package dpll implements the three DPLL-family decision procedures:
// naive (this file), classical (classical.go), and watched-literal
// (watched.go).
package dpll

import (
	"github.com/go-satkit/satkit/cnf"
	"github.com/go-satkit/satkit/trace"
)

type propResult int

const (
	propSat propResult = iota
	propConflict
	propUndetermined
)

// unitPropagateNaive iterates the unit rule to a fixpoint by rescanning
// every clause each pass: no occurrence index, just a linear
// classify-and-apply loop. It returns the list of variables it assigned,
// so a caller can undo exactly those on conflict or on backtrack.
func unitPropagateNaive(clauses []cnf.Clause, a cnf.Assignment, stats *trace.Stats, tr trace.Sink, depth int) (propResult, []cnf.Var) {
	var propagated []cnf.Var
	for {
		allSatisfied := true
		var queue []cnf.Lit
		for _, c := range clauses {
			satisfied := false
			unassignedCount := 0
			var unit cnf.Lit
			for _, l := range c {
				switch a.ValueOf(l) {
				case cnf.True:
					satisfied = true
				case cnf.Unassigned:
					unassignedCount++
					unit = l
				}
			}
			if satisfied {
				continue
			}
			allSatisfied = false
			if unassignedCount == 0 {
				return propConflict, propagated
			}
			if unassignedCount == 1 {
				queue = append(queue, unit)
			}
		}
		if allSatisfied {
			return propSat, propagated
		}
		if len(queue) == 0 {
			return propUndetermined, propagated
		}
		for _, l := range queue {
			switch a.ValueOf(l) {
			case cnf.True:
				continue
			case cnf.False:
				return propConflict, propagated
			default:
				a.Set(l)
				propagated = append(propagated, l.Var())
				stats.UnitPropagations++
				tr.Enter(depth, "unit propagate %v", l)
			}
		}
	}
}

func firstUnassigned(a cnf.Assignment, maxVar cnf.Var) (cnf.Var, bool) {
	for v := cnf.Var(1); v <= maxVar; v++ {
		if a.Get(v) == cnf.Unassigned {
			return v, true
		}
	}
	return 0, false
}

// SolveNaive decides clauses over variables 1..maxVar by recursive
// splitting plus iterated unit propagation without any occurrence index.
func SolveNaive(clauses []cnf.Clause, maxVar cnf.Var, tr *trace.Trace) (sat bool, model cnf.Assignment) {
	if tr == nil {
		tr = trace.New(trace.Off)
	}
	a := cnf.NewAssignment(maxVar)
	if searchNaive(clauses, a, maxVar, 0, tr) {
		return true, a
	}
	return false, nil
}

func searchNaive(clauses []cnf.Clause, a cnf.Assignment, maxVar cnf.Var, depth int, tr *trace.Trace) bool {
	if int64(depth) > tr.Stats.MaxDepth {
		tr.Stats.MaxDepth = int64(depth)
	}

	result, propagated := unitPropagateNaive(clauses, a, &tr.Stats, tr, depth)
	switch result {
	case propSat:
		tr.Enter(depth, "unit propagation closes all clauses: SAT")
		return true
	case propConflict:
		for _, v := range propagated {
			a.Unset(v)
		}
		tr.Enter(depth, "unit propagation conflict")
		return false
	}

	v, ok := firstUnassigned(a, maxVar)
	if !ok {
		// No clause had two unassigned literals and none were settled:
		// with every variable assigned, every clause must already be
		// satisfied.
		return true
	}

	a.Set(cnf.NewLit(v, false))
	tr.Enter(depth, "decide %d = true", v)
	if searchNaive(clauses, a, maxVar, depth+1, tr) {
		return true
	}
	a.Unset(v)

	a.Set(cnf.NewLit(v, true))
	tr.Enter(depth, "decide %d = false", v)
	if searchNaive(clauses, a, maxVar, depth+1, tr) {
		return true
	}
	a.Unset(v)

	for _, pv := range propagated {
		a.Unset(pv)
	}
	return false
}
