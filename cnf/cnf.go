// Package cnf defines the shared literal/clause/assignment model used by
// every decision procedure in satkit: variables are dense positive integers,
// literals are signed, and clauses are ordered sequences of literals
// interpreted as a disjunction.
package cnf

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Var is a propositional variable, numbered 1..V. Var 0 is never valid.
type Var int

// Lit is a signed, nonzero literal. Its magnitude is the variable, its sign
// the polarity. Negate is just unary minus.
type Lit int32

// NewLit builds a literal for v under the given polarity.
func NewLit(v Var, negated bool) Lit {
	if negated {
		return -Lit(v)
	}
	return Lit(v)
}

// Var returns the variable underlying the literal.
func (l Lit) Var() Var {
	if l < 0 {
		return Var(-l)
	}
	return Var(l)
}

// Negated reports whether the literal is the negative polarity.
func (l Lit) Negated() bool { return l < 0 }

// Negate returns the complementary literal.
func (l Lit) Negate() Lit { return -l }

func (l Lit) String() string { return strconv.Itoa(int(l)) }

// Less imposes the total order on literals that the sorted-clause
// invariant relies on: grouped by variable, negative
// literal before positive, so a tautology (v and -v) is always adjacent
// and the ordered-subsumption scan can advance both pointers in lockstep.
func Less(a, b Lit) bool {
	if a.Var() != b.Var() {
		return a.Var() < b.Var()
	}
	return a.Negated() && !b.Negated()
}

// Clause is an ordered sequence of literals, interpreted as their
// disjunction. A clause of length 1 is a unit clause; length 0 is the
// empty clause (falsehood).
type Clause []Lit

// Clone returns a fresh copy; the merge primitives in package subsume rely
// on callers never mutating a clause another clause still references.
func (c Clause) Clone() Clause {
	out := make(Clause, len(c))
	copy(out, c)
	return out
}

// IsUnit reports whether c has exactly one literal.
func (c Clause) IsUnit() bool { return len(c) == 1 }

// IsEmpty reports whether c is the empty (falsity) clause.
func (c Clause) IsEmpty() bool { return len(c) == 0 }

// Sort puts c into the canonical literal order defined by Less. Many
// components (ordered subsumption, preprocess_clause, watched-literal
// preprocessing) require this invariant to hold before they run.
func (c Clause) Sort() { sort.Slice(c, func(i, j int) bool { return Less(c[i], c[j]) }) }

// Sorted reports whether c already satisfies the canonical order.
func (c Clause) Sorted() bool {
	for i := 1; i < len(c); i++ {
		if Less(c[i], c[i-1]) {
			return false
		}
	}
	return true
}

// IsTautology reports whether c contains some variable in both polarities.
// Assumes c is sorted; tautologous pairs are then adjacent.
func (c Clause) IsTautology() bool {
	for i := 1; i < len(c); i++ {
		if c[i].Var() == c[i-1].Var() && c[i] != c[i-1] {
			return true
		}
	}
	return false
}

func (c Clause) String() string {
	parts := make([]string, len(c))
	for i, l := range c {
		parts[i] = l.String()
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// MaxVar returns the largest variable index appearing in clauses, or 0 if
// clauses is empty. Used to infer V when the caller supplies none.
func MaxVar(clauses []Clause) Var {
	var max Var
	for _, c := range clauses {
		for _, l := range c {
			if v := l.Var(); v > max {
				max = v
			}
		}
	}
	return max
}

// FromInts converts the external wire representation (signed int literal
// arrays) into Clause values. It does not sort or validate; callers
// that need the sorted invariant call Sort afterward.
func FromInts(raw [][]int) []Clause {
	out := make([]Clause, len(raw))
	for i, cls := range raw {
		lits := make(Clause, len(cls))
		for j, v := range cls {
			lits[j] = Lit(v)
		}
		out[i] = lits
	}
	return out
}

// ToInts is the inverse of FromInts, used when returning a verdict's model
// or a clause set across the driver boundary.
func ToInts(clauses []Clause) [][]int {
	out := make([][]int, len(clauses))
	for i, cls := range clauses {
		raw := make([]int, len(cls))
		for j, l := range cls {
			raw[j] = int(l)
		}
		out[i] = raw
	}
	return out
}

// Value is the truth state of a variable under a partial assignment.
type Value uint8

const (
	Unassigned Value = iota
	True
	False
)

func (v Value) String() string {
	switch v {
	case True:
		return "T"
	case False:
		return "F"
	default:
		return "?"
	}
}

// Assignment is a dense mapping from Var (1..V) to Value. Index 0 is
// unused so that a Var can index directly.
type Assignment []Value

// NewAssignment allocates an assignment for variables 1..v, all Unassigned.
func NewAssignment(v Var) Assignment {
	return make(Assignment, v+1)
}

// Get returns the value assigned to variable v, or Unassigned.
func (a Assignment) Get(v Var) Value {
	if int(v) >= len(a) {
		return Unassigned
	}
	return a[v]
}

// ValueOf evaluates literal l under the assignment: True iff a[|l|] equals
// l's polarity, False iff the opposite polarity, Unassigned otherwise
// the Assignment invariants.
func (a Assignment) ValueOf(l Lit) Value {
	switch a.Get(l.Var()) {
	case Unassigned:
		return Unassigned
	case True:
		if l.Negated() {
			return False
		}
		return True
	default: // False
		if l.Negated() {
			return True
		}
		return False
	}
}

// Set assigns l's variable so that l evaluates to True.
func (a Assignment) Set(l Lit) {
	if l.Negated() {
		a[l.Var()] = False
	} else {
		a[l.Var()] = True
	}
}

// Unset restores v to Unassigned, as required on backtrack.
func (a Assignment) Unset(v Var) { a[v] = Unassigned }

// Clone returns an independent copy of the assignment.
func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	copy(out, a)
	return out
}

// Names is the 1-indexed variable-name table from the parser/renamer
// collaborator. Names[0] is reserved and never read.
type Names []string

// Lookup renders l using names when present for its variable, else falls
// back to the numeric encoding.
func (n Names) Lookup(l Lit) string {
	v := int(l.Var())
	var base string
	if v < len(n) && n[v] != "" {
		base = n[v]
	} else {
		base = strconv.Itoa(v)
	}
	if l.Negated() {
		return "-" + base
	}
	return base
}

// Model renders a total or partial assignment as signed-literal ints,
// suitable for the Verdict.Model field. Unassigned variables are
// omitted (this is how a partial assignment over derived units only
// witness is expressed).
func Model(a Assignment) []int {
	var out []int
	for v := 1; v < len(a); v++ {
		switch a[v] {
		case True:
			out = append(out, v)
		case False:
			out = append(out, -v)
		}
	}
	return out
}

// Satisfies reports whether every clause in clauses has at least one
// literal evaluating to True under a (used by soundness tests).
func Satisfies(clauses []Clause, a Assignment) bool {
	for _, c := range clauses {
		ok := false
		for _, l := range c {
			if a.ValueOf(l) == True {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	return true
}

// ValidationError reports a clause referencing a variable outside 1..V.
type ValidationError struct {
	ClauseIndex int
	Var         Var
	MaxVar      Var
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("clause %d: variable %d out of range [1, %d]", e.ClauseIndex, e.Var, e.MaxVar)
}

// Validate checks that every literal in clauses refers to a variable in
// 1..maxVar, returning one *ValidationError per offending clause via the
// errs slice (callers typically fold these into a multierror.Error).
func Validate(clauses []Clause, maxVar Var) []error {
	var errs []error
	for i, c := range clauses {
		for _, l := range c {
			if v := l.Var(); v < 1 || v > maxVar {
				errs = append(errs, &ValidationError{ClauseIndex: i, Var: v, MaxVar: maxVar})
				break
			}
		}
	}
	return errs
}
