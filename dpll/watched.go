package dpll

import (
	"math"

	"github.com/go-satkit/satkit/cnf"
	"github.com/go-satkit/satkit/trace"
)

// wClause is the watched-literal clause header: the two watch literals
// live in dedicated fields rather than as conventional slots inside the
// body, so a watch swap never touches body indices it isn't replacing.
type wClause struct {
	watch0, watch1 cnf.Lit
	body           cnf.Clause
}

func removeClauseIdx(s []int, idx int) []int {
	for i, v := range s {
		if v == idx {
			s[i] = s[len(s)-1]
			return s[:len(s)-1]
		}
	}
	return s
}

type ppOutcome int

const (
	ppOutcomeUndetermined ppOutcome = iota
	ppOutcomeSat
	ppOutcomeUnsat
)

// watchedState owns the two-watched-literal database: one dense bucket of
// clause indices per literal (swap-remove, never compacted further), an
// activity score per variable driving decisions, and the trail of
// assigned literals used for chronological backtracking. Backtracking
// undoes only trail entries; bucket and watch-pointer mutations are
// never rolled back; they remain valid regardless of which way a
// variable was eventually decided.
type watchedState struct {
	clauses  []*wClause
	watchOf  map[cnf.Lit][]int
	assign   cnf.Assignment
	activity map[cnf.Var]float64
	propCount int64
	trail    []cnf.Lit
	maxVar   cnf.Var
	tr       *trace.Trace
}

func newWatchedState(maxVar cnf.Var, tr *trace.Trace) *watchedState {
	return &watchedState{
		watchOf:  make(map[cnf.Lit][]int),
		assign:   cnf.NewAssignment(maxVar),
		activity: make(map[cnf.Var]float64),
		maxVar:   maxVar,
		tr:       tr,
	}
}

// preprocess runs unit-cutoff/subsumption and pure-literal elimination to
// a fixpoint, then builds the watched-clause database for whatever
// survives. Pure-literal elimination happens here only, once, not on
// every split the way the classical engine does it: once the formula is
// loaded into watch buckets, purity is never rechecked.
func (s *watchedState) preprocess(input []cnf.Clause) ppOutcome {
	live := make([]cnf.Clause, len(input))
	for i, c := range input {
		cc := c.Clone()
		cc.Sort()
		live[i] = cc
	}

	for {
		changed := false
		var next []cnf.Clause
		for _, c := range live {
			if c.IsTautology() {
				changed = true
				continue
			}
			var out cnf.Clause
			satisfied := false
			for i, l := range c {
				if i > 0 && c[i-1] == l {
					continue
				}
				switch s.assign.ValueOf(l) {
				case cnf.True:
					satisfied = true
				case cnf.False:
					changed = true
				default:
					out = append(out, l)
				}
			}
			if satisfied {
				changed = true
				continue
			}
			if len(out) == 0 {
				return ppOutcomeUnsat
			}
			if len(out) == 1 {
				lit := out[0]
				if s.assign.ValueOf(lit) == cnf.False {
					return ppOutcomeUnsat
				}
				if s.assign.ValueOf(lit) == cnf.Unassigned {
					s.assign.Set(lit)
					s.trail = append(s.trail, lit)
					s.tr.Stats.UnitsDerived++
					s.tr.Enter(0, "unit derived during preprocessing: %v", lit)
				}
				changed = true
				continue
			}
			next = append(next, out)
		}
		live = next
		if len(live) == 0 {
			return ppOutcomeSat
		}

		posSeen := make(map[cnf.Var]bool)
		negSeen := make(map[cnf.Var]bool)
		for _, c := range live {
			for _, l := range c {
				if l.Negated() {
					negSeen[l.Var()] = true
				} else {
					posSeen[l.Var()] = true
				}
			}
		}
		for v := cnf.Var(1); v <= s.maxVar; v++ {
			if s.assign.Get(v) != cnf.Unassigned {
				continue
			}
			p, n := posSeen[v], negSeen[v]
			if p == n {
				continue // not pure (occurs both ways, or not at all)
			}
			lit := cnf.NewLit(v, !p)
			s.assign.Set(lit)
			s.trail = append(s.trail, lit)
			s.tr.Stats.PureDerivations++
			s.tr.Enter(0, "pure literal %v forced during preprocessing", lit)
			changed = true
		}

		if !changed {
			break
		}
	}

	for _, c := range live {
		idx := len(s.clauses)
		wc := &wClause{watch0: c[0], watch1: c[1], body: c[2:]}
		s.clauses = append(s.clauses, wc)
		s.watchOf[wc.watch0] = append(s.watchOf[wc.watch0], idx)
		s.watchOf[wc.watch1] = append(s.watchOf[wc.watch1], idx)
		bonus := 1.0 / float64(len(c))
		for _, l := range c {
			s.activity[l.Var()] += bonus
		}
	}
	return ppOutcomeUndetermined
}

// bumpActivity rewards every variable in a clause that just produced a
// conflict, scaled by how much propagation work has happened so far —
// the bump grows over the run instead of the usual periodic decay of
// older scores.
func (s *watchedState) bumpActivity(c *wClause) {
	bump := 2 * math.Pow(float64(s.propCount), 1.5)
	s.activity[c.watch0.Var()] += bump
	s.activity[c.watch1.Var()] += bump
	for _, l := range c.body {
		s.activity[l.Var()] += bump
	}
}

// propagate drains queue by walking, for each newly false literal, only
// the bucket of clauses currently watching it — never the full clause
// set. A clause loses its watch on that literal as soon as a
// replacement is found; otherwise it keeps watching it and the other
// watch is checked for a forced assignment or a conflict.
func (s *watchedState) propagate(queue []cnf.Lit, depth int) bool {
	for len(queue) > 0 {
		lit := queue[0]
		queue = queue[1:]
		neg := lit.Negate()

		watchers := append([]int(nil), s.watchOf[neg]...)
		for _, idx := range watchers {
			c := s.clauses[idx]
			if c.watch0 == neg {
				c.watch0, c.watch1 = c.watch1, c.watch0
			}

			if s.assign.ValueOf(c.watch0) == cnf.True {
				continue
			}

			replaced := false
			for bi, bl := range c.body {
				if s.assign.ValueOf(bl) == cnf.False {
					continue
				}
				c.body[bi] = neg
				c.watch1 = bl
				s.watchOf[neg] = removeClauseIdx(s.watchOf[neg], idx)
				s.watchOf[bl] = append(s.watchOf[bl], idx)
				replaced = true
				break
			}
			if replaced {
				continue
			}

			switch s.assign.ValueOf(c.watch0) {
			case cnf.False:
				s.bumpActivity(c)
				return false
			default:
				s.assign.Set(c.watch0)
				s.trail = append(s.trail, c.watch0)
				queue = append(queue, c.watch0)
				s.propCount++
				s.tr.Stats.UnitPropagations++
				s.tr.Enter(depth, "unit propagate %v", c.watch0)
			}
		}
	}
	return true
}

// pickVar returns the unassigned variable with the highest activity,
// breaking ties by the smallest index.
func (s *watchedState) pickVar() (cnf.Var, bool) {
	var best cnf.Var
	found := false
	bestScore := -1.0
	for v := cnf.Var(1); v <= s.maxVar; v++ {
		if s.assign.Get(v) != cnf.Unassigned {
			continue
		}
		found = true
		if s.activity[v] > bestScore {
			bestScore = s.activity[v]
			best = v
		}
	}
	return best, found
}

func (s *watchedState) search(depth int) bool {
	if int64(depth) > s.tr.Stats.MaxDepth {
		s.tr.Stats.MaxDepth = int64(depth)
	}
	v, ok := s.pickVar()
	if !ok {
		return true
	}

	trailMark := len(s.trail)
	for _, negated := range [2]bool{false, true} {
		lit := cnf.NewLit(v, negated)
		s.assign.Set(lit)
		s.trail = append(s.trail, lit)
		s.tr.Enter(depth, "decide %v", lit)

		if s.propagate([]cnf.Lit{lit}, depth) && s.search(depth+1) {
			return true
		}

		for i := len(s.trail) - 1; i >= trailMark; i-- {
			s.assign.Unset(s.trail[i].Var())
		}
		s.trail = s.trail[:trailMark]
	}
	return false
}

// SolveWatched decides clauses using a two-watched-literal database built
// once during preprocessing, activity-guided decisions, and chronological
// backtracking that restores assignments but never the watch structure.
func SolveWatched(clauses []cnf.Clause, maxVar cnf.Var, tr *trace.Trace) (sat bool, model cnf.Assignment) {
	if tr == nil {
		tr = trace.New(trace.Off)
	}
	s := newWatchedState(maxVar, tr)

	switch s.preprocess(clauses) {
	case ppOutcomeUnsat:
		return false, nil
	case ppOutcomeSat:
		return true, s.assign
	}

	if s.search(0) {
		return true, s.assign
	}
	return false, nil
}
