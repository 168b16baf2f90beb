package resolution

import (
	"github.com/go-satkit/satkit/cnf"
	"github.com/go-satkit/satkit/subsume"
	"github.com/go-satkit/satkit/trace"
)

// lengthBuckets holds usable clauses keyed by length: usable[k] for k
// in 1..98, usable[99] catches length >= 99.
// Clause selection always picks from the smallest nonempty bucket.
type lengthBuckets struct {
	buckets [100][]cnf.Clause
}

func bucketIndex(n int) int {
	if n >= 99 {
		return 99
	}
	return n
}

func (b *lengthBuckets) push(c cnf.Clause) {
	k := bucketIndex(len(c))
	b.buckets[k] = append(b.buckets[k], c)
}

func (b *lengthBuckets) popSmallest() (cnf.Clause, bool) {
	for k := 1; k <= 99; k++ {
		if n := len(b.buckets[k]); n > 0 {
			c := b.buckets[k][0]
			b.buckets[k] = b.buckets[k][1:]
			return c, true
		}
	}
	return nil, false
}

// procClause is a processed-set entry. deleted marks it logically removed
// ("replaced by true in its slot") by partial backward
// subsumption; it is never physically removed from the index.
type procClause struct {
	lits    cnf.Clause
	deleted bool
}

// processedIndex indexes the processed set by first literal: the
// ordered-resolution pivot is always a clause's first literal, so both
// the resolution step and the subsumption scan inside preprocessClause
// key off it.
type processedIndex struct {
	clauses    []*procClause
	byFirstLit map[cnf.Lit][]*procClause
}

func newProcessedIndex() *processedIndex {
	return &processedIndex{byFirstLit: make(map[cnf.Lit][]*procClause)}
}

func (idx *processedIndex) add(c cnf.Clause) *procClause {
	pc := &procClause{lits: c}
	idx.clauses = append(idx.clauses, pc)
	if len(c) > 0 {
		idx.byFirstLit[c[0]] = append(idx.byFirstLit[c[0]], pc)
	}
	return pc
}

type ppResult int

const (
	ppUnsat ppResult = iota
	ppSubsumed
	ppClause
)

// preprocessClause drops duplicates and literals cut by assign, detect that assign already satisfies a
// non-unit clause (Subsumed — unit clauses are exempt, they must survive
// to keep feeding the unit-cut path elsewhere), detect the all-cut case
// (Unsat), and otherwise check the surviving literals against the
// processed index for an ordered subsuming clause. c must already be
// sorted and tautology-free.
func preprocessClause(c cnf.Clause, assign cnf.Assignment, idx *processedIndex) (ppResult, cnf.Clause) {
	if c.IsUnit() {
		return ppClause, c
	}

	out := make(cnf.Clause, 0, len(c))
	for i, l := range c {
		if i > 0 && c[i-1] == l {
			continue // duplicate; c is sorted so dups are adjacent
		}
		switch assign.ValueOf(l) {
		case cnf.True:
			return ppSubsumed, nil
		case cnf.False:
			continue // cut
		default:
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		return ppUnsat, nil
	}
	for _, l := range out {
		for _, p := range idx.byFirstLit[l] {
			if p.deleted {
				continue
			}
			if subsume.OrderedSubsumes(p.lits, out) {
				return ppSubsumed, nil
			}
		}
	}
	return ppClause, out
}

// SolveOptimized runs the preprocessing + given-clause loop: unit
// collection, tautology/duplicate/satisfied-literal simplification,
// horn detection, shortest-bucket selection, ordered (first-literal)
// resolution, and partial backward subsumption. On SAT it returns the
// assignment accumulated from units as the model.
func SolveOptimized(clauses []cnf.Clause, maxVar cnf.Var, tr *trace.Trace) (sat bool, model cnf.Assignment) {
	if tr == nil {
		tr = trace.New(trace.Off)
	}
	stats := &tr.Stats
	assign := cnf.NewAssignment(maxVar)
	units := subsume.Units{}
	buckets := &lengthBuckets{}
	idx := newProcessedIndex()

	setUnit := func(l cnf.Lit) bool {
		switch assign.ValueOf(l) {
		case cnf.True:
			return true
		case cnf.False:
			return false
		}
		assign.Set(l)
		units[l] = true
		stats.UnitsDerived++
		tr.Enter(0, "unit derived: %v", l)
		return true
	}

	// Pass 1: collect units, and a tautology-free, sorted non-unit set.
	var nonUnits []cnf.Clause
	horn := true
	for _, c := range clauses {
		cc := c.Clone()
		cc.Sort()
		if cc.IsTautology() {
			continue
		}
		positives := 0
		for _, l := range cc {
			if !l.Negated() {
				positives++
			}
		}
		if positives > 1 {
			horn = false
		}
		if cc.IsUnit() {
			if !setUnit(cc[0]) {
				tr.Enter(0, "conflicting units on %v: UNSAT", cc[0].Var())
				return false, nil
			}
			buckets.push(cc)
			continue
		}
		nonUnits = append(nonUnits, cc)
	}

	// Pass 2: preprocess_clause against the (still-empty) processed set.
	for _, c := range nonUnits {
		switch kind, out := preprocessClause(c, assign, idx); kind {
		case ppUnsat:
			return false, nil
		case ppSubsumed:
			continue
		case ppClause:
			buckets.push(out)
		}
	}

	stats.Selected = 0
mainLoop:
	for {
		c, ok := buckets.popSmallest()
		if !ok {
			break
		}
		stats.Selected++

		if !c.IsUnit() {
			switch kind, out := preprocessClause(c, assign, idx); kind {
			case ppUnsat:
				return false, nil
			case ppSubsumed:
				continue mainLoop
			case ppClause:
				c = out
			}
		}

		if c.IsUnit() {
			if !setUnit(c[0]) {
				return false, nil
			}
		}

		pivot := c[0]
		oppo := pivot.Negate()
		for _, p := range idx.byFirstLit[oppo] {
			if p.deleted {
				continue
			}
			if horn && len(c) > 1 && len(p.lits) > 1 {
				continue // horn restriction: unit resolution suffices
			}
			stats.Generated++
			res := subsume.Merge(c, p.lits, 0, 0, units)
			switch res.Kind {
			case subsume.KindEmpty:
				tr.Enter(0, "resolving %s with %s: empty clause derived, UNSAT", c, p.lits)
				return false, nil
			case subsume.KindTautology:
				continue
			case subsume.KindClause:
				resolvent := res.Clause
				if resolvent.IsUnit() {
					if !setUnit(resolvent[0]) {
						return false, nil
					}
				}
				if subsume.OrderedSubsumes(resolvent, p.lits) {
					p.deleted = true // partial backward subsumption
				}
				buckets.push(resolvent)
				stats.Kept++
			}
		}

		idx.add(c)
	}

	tr.Enter(0, "usable exhausted: SAT")
	return true, assign
}
