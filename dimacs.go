package satkit

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// lineKind classifies one line of DIMACS input so the parser can dispatch
// on it instead of testing the same prefixes in every branch.
type lineKind int

const (
	lineBlank lineKind = iota
	lineComment
	lineTrailer
	lineHeader
	lineLiterals
)

func classifyLine(line string) lineKind {
	switch {
	case len(line) == 0:
		return lineBlank
	case line[0] == 'c':
		return lineComment
	case line == "%":
		return lineTrailer
	case line[0] == 'p':
		return lineHeader
	default:
		return lineLiterals
	}
}

// dimacsParser accumulates clauses line by line. It is a small state
// machine rather than a single function: sawHeader/declaredVars/
// declaredClauses hold whatever the (optional) problem line asserted, and
// finish cross-checks the accumulated clauses against it once scanning
// is done.
type dimacsParser struct {
	sawHeader       bool
	declaredVars    int
	declaredClauses int

	clauses [][]int
	current []int
}

func (p *dimacsParser) header(line string) error {
	if len(p.clauses) > 0 {
		return errors.New("dimacs: problem line appears after clauses")
	}
	if p.sawHeader {
		return errors.New("dimacs: multiple problem lines")
	}
	fields := strings.Fields(line)
	if len(fields) != 4 || fields[0] != "p" {
		return errors.Errorf("dimacs: malformed problem line %q", line)
	}
	if fields[1] != "cnf" {
		return errors.Errorf("dimacs: only cnf supported; got %q", fields[1])
	}
	vars, err := strconv.Atoi(fields[2])
	if err != nil {
		return errors.Wrap(err, "dimacs: malformed #vars in problem line")
	}
	clauses, err := strconv.Atoi(fields[3])
	if err != nil {
		return errors.Wrap(err, "dimacs: malformed #clauses in problem line")
	}
	if vars < 0 || clauses < 0 {
		return errors.Errorf("dimacs: negative count in problem line %q", line)
	}
	p.sawHeader = true
	p.declaredVars = vars
	p.declaredClauses = clauses
	return nil
}

func (p *dimacsParser) literals(line string) error {
	for _, field := range strings.Fields(line) {
		n, err := strconv.Atoi(field)
		if err != nil {
			return errors.Wrap(err, "dimacs: invalid literal")
		}
		if n == 0 {
			p.clauses = append(p.clauses, p.current)
			p.current = nil
			continue
		}
		p.current = append(p.current, n)
	}
	return nil
}

// finish closes out any trailing unterminated clause and, if a problem
// line declaring a nonzero variable count was seen, cross-checks its
// declared counts against what was actually read. A problem line that
// declares zero variables disables both checks.
func (p *dimacsParser) finish() ([][]int, error) {
	if len(p.current) > 0 {
		p.clauses = append(p.clauses, p.current)
	}
	if !p.sawHeader || p.declaredVars == 0 {
		return p.clauses, nil
	}

	for _, c := range p.clauses {
		for _, lit := range c {
			v := lit
			if v < 0 {
				v = -v
			}
			if v > p.declaredVars {
				return nil, errors.Errorf(
					"dimacs: formula contains var %d, but problem line asserts %d vars (only vars in [1, %d] expected)",
					v, p.declaredVars, p.declaredVars)
			}
		}
	}
	// Some vars may legitimately be missing from the formula, so only the
	// clause count is checked strictly.
	if len(p.clauses) != p.declaredClauses {
		return nil, errors.Errorf("dimacs: problem line specifies %d clauses, but there are %d", p.declaredClauses, len(p.clauses))
	}
	return p.clauses, nil
}

// ParseDIMACS parses text in the DIMACS CNF format. This is the
// out-of-scope "parser collaborator": the core engines never call it, it
// exists only so cmd/satkit can read problem files.
//
// For convenience, a few non-standard variations are accepted:
//
//   - Comments (lines beginning with 'c') may appear anywhere, not just in
//     the preamble.
//   - The problem line may be missing.
//   - A trailer after a lone "%" line is ignored.
func ParseDIMACS(r io.Reader) ([][]int, error) {
	p := &dimacsParser{}
	s := bufio.NewScanner(r)

scan:
	for s.Scan() {
		line := s.Text()
		switch classifyLine(line) {
		case lineBlank, lineComment:
			continue
		case lineTrailer:
			break scan
		case lineHeader:
			if err := p.header(line); err != nil {
				return nil, err
			}
		case lineLiterals:
			if err := p.literals(line); err != nil {
				return nil, err
			}
		}
	}
	if err := s.Err(); err != nil {
		return nil, errors.Wrap(err, "dimacs: scanning input")
	}
	return p.finish()
}

// WriteDIMACS renders clauses (and a derived problem line) in DIMACS CNF
// format.
func WriteDIMACS(w io.Writer, clauses [][]int) error {
	bw := bufio.NewWriter(w)

	maxVar := 0
	for _, c := range clauses {
		for _, v := range c {
			if v < 0 {
				v = -v
			}
			if v > maxVar {
				maxVar = v
			}
		}
	}

	if _, err := bw.WriteString("p cnf " + strconv.Itoa(maxVar) + " " + strconv.Itoa(len(clauses)) + "\n"); err != nil {
		return errors.Wrap(err, "dimacs: writing problem line")
	}
	for _, c := range clauses {
		for _, v := range c {
			if _, err := bw.WriteString(strconv.Itoa(v)); err != nil {
				return errors.Wrap(err, "dimacs: writing clause")
			}
			if err := bw.WriteByte(' '); err != nil {
				return errors.Wrap(err, "dimacs: writing clause")
			}
		}
		if _, err := bw.WriteString("0\n"); err != nil {
			return errors.Wrap(err, "dimacs: writing clause")
		}
	}
	return bw.Flush()
}
