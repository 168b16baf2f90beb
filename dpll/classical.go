package dpll

import (
	"github.com/go-satkit/satkit/cnf"
	"github.com/go-satkit/satkit/trace"
)

// buildOccurrence indexes every literal occurrence by variable and
// polarity: every occurrence is indexed, not watches, in contrast with
// the watched-literal engine's two-per-clause invariant.
func buildOccurrence(clauses []cnf.Clause, maxVar cnf.Var) (pos, neg map[cnf.Var][]int) {
	pos = make(map[cnf.Var][]int, maxVar)
	neg = make(map[cnf.Var][]int, maxVar)
	for idx, c := range clauses {
		for _, l := range c {
			if l.Negated() {
				neg[l.Var()] = append(neg[l.Var()], idx)
			} else {
				pos[l.Var()] = append(pos[l.Var()], idx)
			}
		}
	}
	return pos, neg
}

func clauseUnitOrConflict(c cnf.Clause, a cnf.Assignment) (satisfied bool, unit cnf.Lit, isUnit bool, conflict bool) {
	unassignedCount := 0
	for _, l := range c {
		switch a.ValueOf(l) {
		case cnf.True:
			return true, 0, false, false
		case cnf.Unassigned:
			unassignedCount++
			unit = l
		}
	}
	if unassignedCount == 0 {
		return false, 0, false, true
	}
	if unassignedCount == 1 {
		return false, unit, true, false
	}
	return false, 0, false, false
}

func allSatisfied(clauses []cnf.Clause, a cnf.Assignment) bool {
	for _, c := range clauses {
		satisfied := false
		for _, l := range c {
			if a.ValueOf(l) == cnf.True {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

// unitPropagateIndexed iterates the unit rule by only revisiting clauses
// in the occurrence bucket of the opposite polarity of each freshly
// assigned literal, rather than rescanning every clause. Literals
// are assigned as soon as they are derived so later bucket scans in the
// same fixpoint see them immediately.
func unitPropagateIndexed(clauses []cnf.Clause, a cnf.Assignment, pos, neg map[cnf.Var][]int, stats *trace.Stats, tr trace.Sink, depth int, queue []cnf.Lit) (propResult, []cnf.Var) {
	var propagated []cnf.Var
	for len(queue) > 0 {
		l := queue[0]
		queue = queue[1:]

		var bucket []int
		if l.Negated() {
			bucket = pos[l.Var()] // clauses containing -l == Negate(l): l negative means Negate(l) positive
		} else {
			bucket = neg[l.Var()]
		}

		for _, idx := range bucket {
			satisfied, unit, isUnit, conflict := clauseUnitOrConflict(clauses[idx], a)
			if satisfied {
				continue
			}
			if conflict {
				return propConflict, propagated
			}
			if !isUnit {
				continue
			}
			switch a.ValueOf(unit) {
			case cnf.True:
				continue
			case cnf.False:
				return propConflict, propagated
			default:
				a.Set(unit)
				propagated = append(propagated, unit.Var())
				queue = append(queue, unit)
				stats.UnitPropagations++
				tr.Enter(depth, "unit propagate %v", unit)
			}
		}
	}
	if allSatisfied(clauses, a) {
		return propSat, propagated
	}
	return propUndetermined, propagated
}

// chooseVariable implements both the weighted decision heuristic and the
// pure-literal rule: the score for an unassigned variable sums a
// length-dependent bonus (shorter not-yet-satisfied clauses score more)
// over every clause it occurs in; a variable appearing in only one
// polarity among not-yet-satisfied clauses is reported as pure (forced,
// no split needed) in preference to the weighted pick. Ties in the
// weighted pick go to the smallest variable index.
func chooseVariable(clauses []cnf.Clause, a cnf.Assignment, maxVar cnf.Var) (v cnf.Var, pureValue cnf.Value, isPure bool) {
	posSeen := make(map[cnf.Var]bool)
	negSeen := make(map[cnf.Var]bool)
	score := make(map[cnf.Var]float64)
	any := false

	for _, c := range clauses {
		satisfied := false
		for _, l := range c {
			if a.ValueOf(l) == cnf.True {
				satisfied = true
				break
			}
		}
		if satisfied {
			continue
		}
		bonus := 1.0 / float64(len(c)*len(c))
		for _, l := range c {
			if a.Get(l.Var()) != cnf.Unassigned {
				continue
			}
			any = true
			score[l.Var()] += bonus
			if l.Negated() {
				negSeen[l.Var()] = true
			} else {
				posSeen[l.Var()] = true
			}
		}
	}
	if !any {
		return 0, 0, false
	}

	for cand := cnf.Var(1); cand <= maxVar; cand++ {
		if a.Get(cand) != cnf.Unassigned {
			continue
		}
		p, n := posSeen[cand], negSeen[cand]
		if p && !n {
			return cand, cnf.True, true
		}
		if n && !p {
			return cand, cnf.False, true
		}
	}

	var best cnf.Var
	bestScore := -1.0
	for cand := cnf.Var(1); cand <= maxVar; cand++ {
		if a.Get(cand) != cnf.Unassigned {
			continue
		}
		if score[cand] > bestScore {
			bestScore = score[cand]
			best = cand
		}
	}
	return best, 0, false
}

// SolveClassical decides clauses using positive/negative occurrence
// buckets, the pure-literal rule applied on every split, and weighted
// variable selection.
func SolveClassical(clauses []cnf.Clause, maxVar cnf.Var, tr *trace.Trace) (sat bool, model cnf.Assignment) {
	if tr == nil {
		tr = trace.New(trace.Off)
	}
	for _, c := range clauses {
		if c.IsEmpty() {
			return false, nil
		}
	}

	pos, neg := buildOccurrence(clauses, maxVar)
	a := cnf.NewAssignment(maxVar)

	var seed []cnf.Lit
	for _, c := range clauses {
		if !c.IsUnit() {
			continue
		}
		l := c[0]
		switch a.ValueOf(l) {
		case cnf.True:
			continue
		case cnf.False:
			return false, nil
		default:
			a.Set(l)
			seed = append(seed, l)
			tr.Stats.UnitsDerived++
		}
	}

	result, _ := unitPropagateIndexed(clauses, a, pos, neg, &tr.Stats, tr, 0, seed)
	switch result {
	case propConflict:
		return false, nil
	case propSat:
		return true, a
	}

	if searchClassical(clauses, a, pos, neg, maxVar, 1, tr) {
		return true, a
	}
	return false, nil
}

func searchClassical(clauses []cnf.Clause, a cnf.Assignment, pos, neg map[cnf.Var][]int, maxVar cnf.Var, depth int, tr *trace.Trace) bool {
	if int64(depth) > tr.Stats.MaxDepth {
		tr.Stats.MaxDepth = int64(depth)
	}

	v, val, isPure := chooseVariable(clauses, a, maxVar)
	if v == 0 {
		return true
	}

	if isPure {
		tr.Stats.PureDerivations++
		lit := cnf.NewLit(v, val == cnf.False)
		a.Set(lit)
		tr.Enter(depth, "pure literal %v forced", lit)
		result, propagated := unitPropagateIndexed(clauses, a, pos, neg, &tr.Stats, tr, depth, []cnf.Lit{lit})
		switch result {
		case propSat:
			return true
		case propConflict:
			a.Unset(v)
			for _, pv := range propagated {
				a.Unset(pv)
			}
			return false
		}
		if searchClassical(clauses, a, pos, neg, maxVar, depth+1, tr) {
			return true
		}
		a.Unset(v)
		for _, pv := range propagated {
			a.Unset(pv)
		}
		return false
	}

	for _, negated := range [2]bool{false, true} {
		lit := cnf.NewLit(v, negated)
		a.Set(lit)
		tr.Enter(depth, "decide %v", lit)
		result, propagated := unitPropagateIndexed(clauses, a, pos, neg, &tr.Stats, tr, depth, []cnf.Lit{lit})
		var ok bool
		switch result {
		case propSat:
			ok = true
		case propConflict:
			ok = false
		default:
			ok = searchClassical(clauses, a, pos, neg, maxVar, depth+1, tr)
		}
		if ok {
			return true
		}
		a.Unset(v)
		for _, pv := range propagated {
			a.Unset(pv)
		}
	}
	return false
}
