// Package resolution implements the given-clause resolution saturation
// engines: naive (this file) and optimized (optimized.go).
package resolution

import (
	"github.com/go-satkit/satkit/cnf"
	"github.com/go-satkit/satkit/subsume"
	"github.com/go-satkit/satkit/trace"
)

// naiveState owns all per-run state; no package-level globals (Design
// Note "Global mutable state").
type naiveState struct {
	usable    []cnf.Clause // FIFO queue
	processed []cnf.Clause
	tr        trace.Sink
	stats     *trace.Stats
}

// SolveNaive runs the naive given-clause loop: each selected clause, once
// not subsumed by the processed set, resolves against every processed
// clause; every non-tautology, non-empty resolvent is appended to usable.
// It returns only a bare satisfiability verdict — resolution does not
// construct a witness on the fly (Design Note, Open Question "empty SAT
// model"), so a caller must not fabricate one.
func SolveNaive(clauses []cnf.Clause, tr *trace.Trace) bool {
	if tr == nil {
		tr = trace.New(trace.Off)
	}
	s := &naiveState{tr: tr, stats: &tr.Stats}
	s.usable = make([]cnf.Clause, len(clauses))
	copy(s.usable, clauses)

	for len(s.usable) > 0 {
		c := s.usable[0]
		s.usable = s.usable[1:]
		s.stats.Selected++

		subsumed := false
		for _, p := range s.processed {
			if subsume.Subsumes(p, c) {
				subsumed = true
				break
			}
		}
		if subsumed {
			s.tr.Enter(0, "selected %s: forward-subsumed by processed set, discarded", c)
			continue
		}

		for _, p := range s.processed {
			for i1, l1 := range c {
				for i2, l2 := range p {
					if l1 != l2.Negate() {
						continue
					}
					s.stats.Generated++
					res := subsume.Merge(c, p, i1, i2, nil)
					switch res.Kind {
					case subsume.KindEmpty:
						s.tr.Enter(0, "resolving %s with %s: empty clause derived, UNSAT", c, p)
						return false
					case subsume.KindTautology:
						s.tr.Enter(0, "resolving %s with %s: tautology, discarded", c, p)
					case subsume.KindClause:
						s.tr.Enter(0, "resolving %s with %s: derived %s", c, p, res.Clause)
						s.usable = append(s.usable, res.Clause)
						s.stats.Kept++
					}
				}
			}
		}
		s.processed = append(s.processed, c)
	}
	s.tr.Enter(0, "usable exhausted: SAT")
	return true
}
