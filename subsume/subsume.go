// Package subsume implements the subsumption test and resolvent (merge)
// construction primitives shared by both resolution engines and by the
// optimized/watched-literal DPLL preprocessors.
package subsume

import "github.com/go-satkit/satkit/cnf"

// Subsumes reports whether c1 subsumes c2 under the unordered definition:
// every literal of c1 occurs in c2. No precondition on ordering;
// O(|c1|*|c2|).
func Subsumes(c1, c2 cnf.Clause) bool {
	for _, l := range c1 {
		found := false
		for _, m := range c2 {
			if l == m {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// OrderedSubsumes is the same relation as Subsumes, but assumes both
// clauses are already sorted under cnf.Less, and exploits that order for
// a linear-time scan with an advancing pointer into c2.
func OrderedSubsumes(c1, c2 cnf.Clause) bool {
	i, j := 0, 0
	for i < len(c1) {
		if j >= len(c2) {
			return false
		}
		switch {
		case c1[i] == c2[j]:
			i++
			j++
		case cnf.Less(c2[j], c1[i]):
			j++
		default:
			// c1[i] would have to appear before c2[j] in the order but
			// doesn't appear at all: c1 is not a subset of c2.
			return false
		}
	}
	return true
}

// Units is the current unit index consulted during merge: a unit clause
// {u} is recorded by setting Units[u] = true. Merge uses it both to
// short-circuit resolvents that a known fact already subsumes and to cut
// literals a known fact falsifies.
type Units map[cnf.Lit]bool

// Has reports whether l is a currently-known unit literal.
func (u Units) Has(l cnf.Lit) bool { return u != nil && u[l] }

// Kind tags the outcome of Merge, per Design Note "Tagged returns": an
// explicit sum type rather than value overloading (false/true/array).
type Kind int

const (
	KindClause Kind = iota
	KindTautology
	KindEmpty
)

// Result is a tagged resolvent: Clause is only meaningful when Kind ==
// KindClause.
type Result struct {
	Kind   Kind
	Clause cnf.Clause
}

// Merge computes the resolvent of c1 and c2 on the complementary literals
// at positions i1 and i2 (precondition: c1[i1] == c2[i2].Negate()):
//
//   - the multiset union of (c1 minus i1) and (c2 minus i2), deduplicated;
//   - Tautology if any variable appears with both polarities in the union,
//     or if any known unit literal already appears in the union (the
//     resolvent would add nothing units hasn't already settled);
//   - any literal whose negation is a known unit is cut (dropped), since
//     units already assigns it false;
//   - Empty if nothing survives;
//   - otherwise a fresh, sorted Clause. Inputs are never mutated.
func Merge(c1, c2 cnf.Clause, i1, i2 int, units Units) Result {
	if c1[i1] != c2[i2].Negate() {
		panic("subsume: Merge pivot literals are not complementary")
	}

	seen := make(map[cnf.Lit]bool, len(c1)+len(c2))
	var lits []cnf.Lit
	add := func(l cnf.Lit) {
		if !seen[l] {
			seen[l] = true
			lits = append(lits, l)
		}
	}
	for idx, l := range c1 {
		if idx == i1 {
			continue
		}
		add(l)
	}
	for idx, l := range c2 {
		if idx == i2 {
			continue
		}
		add(l)
	}

	varPos := make(map[cnf.Var]bool)
	varNeg := make(map[cnf.Var]bool)
	for _, l := range lits {
		if l.Negated() {
			varNeg[l.Var()] = true
		} else {
			varPos[l.Var()] = true
		}
	}
	for v := range varPos {
		if varNeg[v] {
			return Result{Kind: KindTautology}
		}
	}

	for _, l := range lits {
		if units.Has(l) {
			return Result{Kind: KindTautology}
		}
	}

	if len(units) > 0 {
		filtered := lits[:0:0]
		for _, l := range lits {
			if units.Has(l.Negate()) {
				continue
			}
			filtered = append(filtered, l)
		}
		lits = filtered
	}

	if len(lits) == 0 {
		return Result{Kind: KindEmpty}
	}

	out := make(cnf.Clause, len(lits))
	copy(out, lits)
	out.Sort()
	return Result{Kind: KindClause, Clause: out}
}
