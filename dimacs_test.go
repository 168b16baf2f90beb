package satkit

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/kr/pretty"
	"github.com/pkg/errors"
)

func TestParseDIMACSValid(t *testing.T) {
	for _, tt := range []struct {
		name string
		in   string
		want [][]int
	}{
		{
			name: "empty problem",
			in:   "p cnf 0 0\n",
			want: [][]int{},
		},
		{
			name: "declared vars exceed what's used",
			in:   "c a formula that never mentions var 5\np cnf 5 1\n1 2 0\n",
			want: [][]int{{1, 2}},
		},
		{
			name: "single unit clause",
			in:   "p cnf 1 1\n1 0\n",
			want: [][]int{{1}},
		},
		{
			name: "clauses packed onto one line and split across several",
			in:   "p cnf 3 3\n1 2 0 -3 0\n1 -2 3 0\n",
			want: [][]int{{1, 2}, {-3}, {1, -2, 3}},
		},
		{
			name: "an empty (falsity) clause in the middle",
			in:   "p cnf 2 3\n1 0 0 -2 0\n",
			want: [][]int{{1}, {}, {-2}},
		},
		{
			name: "comments interleaved with clauses, not just in the preamble",
			in:   "c header\np cnf 2 2\nc a clause\n1 2 0\nc another\n-1 -2 0\n",
			want: [][]int{{1, 2}, {-1, -2}},
		},
		{
			name: "no problem line at all",
			in:   "1 2 0\n-1 0\n",
			want: [][]int{{1, 2}, {-1}},
		},
		{
			name: "trailing clause with no terminating 0",
			in:   "p cnf 2 1\n1 2",
			want: [][]int{{1, 2}},
		},
		{
			name: "percent trailer discards everything after it",
			in:   "p cnf 2 2\n1 2 0\n-1 2 0\n%\nthis is not DIMACS at all\n",
			want: [][]int{{1, 2}, {-1, 2}},
		},
		{
			name: "blank lines are skipped",
			in:   "p cnf 1 1\n\n1 0\n\n",
			want: [][]int{{1}},
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDIMACS(strings.NewReader(tt.in))
			if err != nil {
				t.Fatalf("ParseDIMACS: unexpected error: %v\ninput: %q", err, tt.in)
			}
			if diff := cmp.Diff(tt.want, got, cmpopts.EquateEmpty()); diff != "" {
				t.Fatalf("ParseDIMACS (-want +got):\n%s\ngot: %s", diff, pretty.Sprint(got))
			}
		})
	}
}

func TestParseDIMACSErrors(t *testing.T) {
	for _, tt := range []struct {
		name      string
		in        string
		wantInErr string
	}{
		{
			name:      "problem line after a clause",
			in:        "p cnf 1 1\n1 0\np cnf 1 1\n",
			wantInErr: "problem line appears after clauses",
		},
		{
			name:      "two problem lines",
			in:        "p cnf 1 1\np cnf 2 2\n1 2 0\n",
			wantInErr: "multiple problem lines",
		},
		{
			name:      "problem line missing a field",
			in:        "p cnf 1\n",
			wantInErr: "malformed problem line",
		},
		{
			name:      "problem line naming a non-cnf format",
			in:        "p sat 1 1\n",
			wantInErr: "only cnf supported",
		},
		{
			name:      "non-numeric var count",
			in:        "p cnf x 1\n",
			wantInErr: "malformed #vars",
		},
		{
			name:      "non-numeric clause count",
			in:        "p cnf 1 x\n",
			wantInErr: "malformed #clauses",
		},
		{
			name:      "negative var count",
			in:        "p cnf -1 1\n1 0\n",
			wantInErr: "negative count",
		},
		{
			name:      "non-numeric literal",
			in:        "p cnf 1 1\nfoo 0\n",
			wantInErr: "invalid literal",
		},
		{
			name:      "literal exceeding the declared var count",
			in:        "p cnf 1 1\n1 2 0\n",
			wantInErr: "formula contains var 2",
		},
		{
			name:      "clause count mismatch",
			in:        "p cnf 2 2\n1 2 0\n",
			wantInErr: "specifies 2 clauses, but there are 1",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDIMACS(strings.NewReader(tt.in))
			if err == nil {
				t.Fatalf("ParseDIMACS: expected an error containing %q, got nil", tt.wantInErr)
			}
			if !strings.Contains(err.Error(), tt.wantInErr) {
				t.Fatalf("ParseDIMACS: error %q does not contain %q", err.Error(), tt.wantInErr)
			}
			// errors produced by the parser are pkg/errors values, so
			// unwrapping via Cause must terminate rather than loop.
			cause := errors.Cause(err)
			if cause == nil {
				t.Fatalf("ParseDIMACS: errors.Cause returned nil for %v", err)
			}
		})
	}
}

func TestWriteDIMACS(t *testing.T) {
	for _, tt := range []struct {
		name    string
		clauses [][]int
		want    string
	}{
		{
			name:    "no clauses",
			clauses: [][]int{},
			want:    "p cnf 0 0\n",
		},
		{
			name:    "one clause",
			clauses: [][]int{{1, -2, 3}},
			want:    "p cnf 3 1\n1 -2 3 0\n",
		},
		{
			name:    "an empty clause among others",
			clauses: [][]int{{1}, {}, {-1}},
			want:    "p cnf 1 3\n1 0\n0\n-1 0\n",
		},
		{
			name:    "max var derived from negative literals too",
			clauses: [][]int{{-5, 2}},
			want:    "p cnf 5 1\n-5 2 0\n",
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			var b strings.Builder
			if err := WriteDIMACS(&b, tt.clauses); err != nil {
				t.Fatalf("WriteDIMACS: unexpected error: %v", err)
			}
			if b.String() != tt.want {
				t.Fatalf("WriteDIMACS(%v):\ngot:  %q\nwant: %q", tt.clauses, b.String(), tt.want)
			}
		})
	}
}

// failingWriter returns an error from every Write, so WriteDIMACS's error
// return can be exercised without a real I/O failure.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("boom")
}

func TestWriteDIMACSPropagatesWriteErrors(t *testing.T) {
	err := WriteDIMACS(failingWriter{}, [][]int{{1, 2}})
	if err == nil {
		t.Fatal("WriteDIMACS: expected an error from a failing writer")
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Fatalf("WriteDIMACS: error %q does not wrap the underlying write error", err.Error())
	}
}

func TestParseThenWriteRoundtrips(t *testing.T) {
	in := "p cnf 3 3\n1 2 0\n-3 0\n1 -2 3 0\n"
	clauses, err := ParseDIMACS(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseDIMACS: %v", err)
	}
	var b strings.Builder
	if err := WriteDIMACS(&b, clauses); err != nil {
		t.Fatalf("WriteDIMACS: %v", err)
	}
	roundtripped, err := ParseDIMACS(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("ParseDIMACS(WriteDIMACS(...)): %v", err)
	}
	if diff := cmp.Diff(clauses, roundtripped, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("roundtrip mismatch (-original +roundtripped):\n%s", diff)
	}
}
