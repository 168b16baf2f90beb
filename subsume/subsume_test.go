package subsume

import (
	"testing"

	"github.com/go-satkit/satkit/cnf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lits(xs ...int) cnf.Clause {
	c := make(cnf.Clause, len(xs))
	for i, x := range xs {
		c[i] = cnf.Lit(x)
	}
	return c
}

func TestSubsumes(t *testing.T) {
	assert.True(t, Subsumes(lits(1, 2), lits(1, 2, 3)))
	assert.True(t, Subsumes(lits(1, 2), lits(2, 1)))
	assert.False(t, Subsumes(lits(1, -2), lits(1, 2, 3)))
	assert.True(t, Subsumes(lits(), lits(1, 2)))
}

func TestOrderedSubsumes(t *testing.T) {
	c1 := lits(1, 3)
	c2 := lits(1, 2, 3, 4)
	c1.Sort()
	c2.Sort()
	assert.True(t, OrderedSubsumes(c1, c2))

	c3 := lits(1, 5)
	c3.Sort()
	assert.False(t, OrderedSubsumes(c3, c2))
}

func TestMergeTautologyFromUnion(t *testing.T) {
	c1 := lits(1, 2)
	c2 := lits(-1, -2)
	res := Merge(c1, c2, 0, 0, nil)
	require.Equal(t, KindTautology, res.Kind)
}

func TestMergeEmpty(t *testing.T) {
	c1 := lits(1)
	c2 := lits(-1)
	res := Merge(c1, c2, 0, 0, nil)
	require.Equal(t, KindEmpty, res.Kind)
}

func TestMergeClause(t *testing.T) {
	c1 := lits(1, 2, 3)
	c2 := lits(-1, 4)
	res := Merge(c1, c2, 0, 0, nil)
	require.Equal(t, KindClause, res.Kind)
	assert.ElementsMatch(t, []cnf.Lit{2, 3, 4}, res.Clause)
	assert.True(t, res.Clause.Sorted())
}

func TestMergeUnitCut(t *testing.T) {
	c1 := lits(1, 2)
	c2 := lits(-1, -3)
	units := Units{cnf.Lit(3): true} // 3 is known true, so -3 is cut
	res := Merge(c1, c2, 0, 0, units)
	require.Equal(t, KindClause, res.Kind)
	assert.ElementsMatch(t, []cnf.Lit{2}, res.Clause)
}

func TestMergeUnitSubsumedBecomesTautology(t *testing.T) {
	c1 := lits(1, 2)
	c2 := lits(-1, 2)
	units := Units{cnf.Lit(2): true}
	res := Merge(c1, c2, 0, 0, units)
	require.Equal(t, KindTautology, res.Kind)
}

func TestMergePanicsOnNonComplementaryPivot(t *testing.T) {
	assert.Panics(t, func() {
		Merge(lits(1, 2), lits(3, 4), 0, 0, nil)
	})
}
