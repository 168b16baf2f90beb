package dpll

import (
	"testing"

	"github.com/go-satkit/satkit/cnf"
	"github.com/go-satkit/satkit/trace"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(raw [][]int) []cnf.Clause { return cnf.FromInts(raw) }

var scenarios = []struct {
	name    string
	clauses [][]int
	sat     bool
}{
	{"unit-conflict", [][]int{{-1, 2}, {1}, {-2}}, false},
	{"unit-chain-sat", [][]int{{-1, 2}, {1}}, true},
	{"pigeonhole-2", [][]int{{1, 2}, {-1, 2}, {1, -2}, {-1, -2}}, false},
	{"small-unsat-3", [][]int{{1, 2, 3}, {-1}, {-2}, {-3}}, false},
	{"sat-3var", [][]int{{1, -2, 3}, {-1, 2, -3}, {-1, -2, 3}, {1, 2, -3}}, true},
	{"empty-clause", [][]int{{}}, false},
	{"no-clauses", [][]int{}, true},
}

func TestSolveNaiveScenarios(t *testing.T) {
	for _, s := range scenarios {
		t.Run(s.name, func(t *testing.T) {
			clauses := parse(s.clauses)
			sat, model := SolveNaive(clauses, cnf.MaxVar(clauses), nil)
			assert.Equal(t, s.sat, sat)
			if sat {
				assert.True(t, cnf.Satisfies(clauses, model))
			}
		})
	}
}

func TestSolveClassicalScenarios(t *testing.T) {
	for _, s := range scenarios {
		t.Run(s.name, func(t *testing.T) {
			clauses := parse(s.clauses)
			sat, model := SolveClassical(clauses, cnf.MaxVar(clauses), nil)
			assert.Equal(t, s.sat, sat)
			if sat {
				assert.True(t, cnf.Satisfies(clauses, model))
			}
		})
	}
}

func TestSolveWatchedScenarios(t *testing.T) {
	for _, s := range scenarios {
		t.Run(s.name, func(t *testing.T) {
			clauses := parse(s.clauses)
			sat, model := SolveWatched(clauses, cnf.MaxVar(clauses), nil)
			assert.Equal(t, s.sat, sat)
			if sat {
				assert.True(t, cnf.Satisfies(clauses, model))
			}
		})
	}
}

func TestAllThreeEnginesAgree(t *testing.T) {
	for _, s := range scenarios {
		t.Run(s.name, func(t *testing.T) {
			clauses := parse(s.clauses)
			maxVar := cnf.MaxVar(clauses)
			naiveSat, _ := SolveNaive(clauses, maxVar, nil)
			classicalSat, _ := SolveClassical(clauses, maxVar, nil)
			watchedSat, _ := SolveWatched(clauses, maxVar, nil)
			assert.Equal(t, naiveSat, classicalSat)
			assert.Equal(t, naiveSat, watchedSat)
		})
	}
}

// TestWatchedLiteralInvariant checks that every clause has two distinct
// watches, both present in the bucket structure after preprocessing, and
// that both are still present after a full search has moved watches.
func TestWatchedLiteralInvariant(t *testing.T) {
	clauses := parse([][]int{
		{1, 2, 3, 4},
		{-1, 2},
		{-2, 3},
		{-3, 4},
		{-4, -1},
	})
	maxVar := cnf.MaxVar(clauses)
	tr := trace.New(trace.Off)
	s := newWatchedState(maxVar, tr)
	outcome := s.preprocess(clauses)
	require.Equal(t, ppOutcomeUndetermined, outcome)

	for idx, c := range s.clauses {
		assert.Contains(t, s.watchOf[c.watch0], idx)
		assert.Contains(t, s.watchOf[c.watch1], idx)
		assert.NotEqual(t, c.watch0, c.watch1)
	}

	_ = s.search(0)

	for idx, c := range s.clauses {
		assert.Contains(t, s.watchOf[c.watch0], idx)
		assert.Contains(t, s.watchOf[c.watch1], idx)
	}
}

// TestBucketLengthInvariant checks that a clause index never appears
// twice in the same literal's bucket, and that swap-remove never leaves
// a stale duplicate behind after repeated watch switches.
func TestBucketLengthInvariant(t *testing.T) {
	clauses := parse([][]int{
		{1, 2, 3},
		{-1, 2, 3},
		{1, -2, 3},
		{-1, -2, 3},
		{1, 2, -3},
	})
	maxVar := cnf.MaxVar(clauses)
	tr := trace.New(trace.Off)
	s := newWatchedState(maxVar, tr)
	outcome := s.preprocess(clauses)
	require.Equal(t, ppOutcomeUndetermined, outcome)

	_ = s.search(0)

	seen := map[cnf.Lit]map[int]bool{}
	for lit, bucket := range s.watchOf {
		seen[lit] = map[int]bool{}
		for _, idx := range bucket {
			assert.False(t, seen[lit][idx], "duplicate clause %d in bucket for %v", idx, lit)
			seen[lit][idx] = true
		}
	}
}

func TestBacktrackingRestoresAssignment(t *testing.T) {
	clauses := parse([][]int{{1, 2}, {-1, 2}, {1, -2}, {-1, -2}})
	maxVar := cnf.MaxVar(clauses)
	sat, model := SolveNaive(clauses, maxVar, nil)
	assert.False(t, sat)
	assert.Nil(t, model)

	// A failed search must leave every variable as it found it.
	a := cnf.NewAssignment(maxVar)
	assert.False(t, searchNaive(clauses, a, maxVar, 0, trace.New(trace.Off)))
	for v := cnf.Var(1); v <= maxVar; v++ {
		assert.Equal(t, cnf.Unassigned, a.Get(v), "variable %d", v)
	}
}
