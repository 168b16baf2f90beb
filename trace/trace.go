// Package trace implements the depth-indented, pluggable diagnostic
// message stream shared by every engine. It is deliberately separate
// from operational logging: the core engines never use a logger, only a
// Sink.
package trace

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// Mode selects how entries are rendered by String. The engines
// themselves are mode-agnostic; they only call Sink.Enter.
type Mode int

const (
	// Off disables trace collection. Enter becomes a no-op so a
	// slow/absent host consumer never blocks the engine.
	Off Mode = iota
	Plain
	HTML
	Console
)

// Sink is the small capability every engine depends on. Formatting
// choice (plain/HTML/console) lives entirely on the consuming side, so
// tests can assert on structured events rather than rendered text.
type Sink interface {
	Enter(depth int, format string, args ...interface{})
}

// Entry is one buffered diagnostic message.
type Entry struct {
	Depth   int
	Message string
}

// Stats enumerates the counters every engine's trace ends with:
// selected/generated/kept clauses for the resolution engines; unit
// propagations, units derived, pure derivations, and max depth for the
// DPLL engines; truth-value evaluations and leaf count for the
// truth-table engine. An engine only touches the fields relevant to it;
// the rest stay zero.
type Stats struct {
	Selected         int64
	Generated        int64
	Kept             int64
	UnitPropagations int64
	UnitsDerived     int64
	PureDerivations  int64
	MaxDepth         int64
	Evaluations      int64
	Leaves           int64
}

// Line renders the one-line statistics record that always terminates a
// trace.
func (s Stats) Line() string {
	return fmt.Sprintf(
		"stats: selected=%d generated=%d kept=%d unit_props=%d units_derived=%d pure=%d max_depth=%d evaluations=%d leaves=%d",
		s.Selected, s.Generated, s.Kept, s.UnitPropagations, s.UnitsDerived,
		s.PureDerivations, s.MaxDepth, s.Evaluations, s.Leaves,
	)
}

// Trace buffers entries in memory and implements Sink. Writes are
// synchronous but never block the engine on a slow consumer: String is
// only called once the engine has finished.
type Trace struct {
	mode    Mode
	entries []Entry
	Stats   Stats
}

// New creates a Trace in the given mode.
func New(mode Mode) *Trace {
	return &Trace{mode: mode}
}

// Mode reports the trace's rendering mode.
func (t *Trace) Mode() Mode { return t.mode }

// Enter records one depth-indented message. A no-op when mode is Off.
func (t *Trace) Enter(depth int, format string, args ...interface{}) {
	if t == nil || t.mode == Off {
		return
	}
	t.entries = append(t.entries, Entry{Depth: depth, Message: fmt.Sprintf(format, args...)})
}

// Entries returns the buffered entries, for tests that assert on
// structure rather than rendered text.
func (t *Trace) Entries() []Entry {
	if t == nil {
		return nil
	}
	return t.entries
}

// String renders the full trace: one line per entry, indented by
// recursion depth, followed by the statistics line. The literal
// rendering depends on Mode.
func (t *Trace) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	for _, e := range t.entries {
		switch t.mode {
		case HTML:
			b.WriteString("<div style=\"margin-left:")
			b.WriteString(strconv.Itoa(e.Depth * 2))
			b.WriteString("em\">")
			b.WriteString(html.EscapeString(e.Message))
			b.WriteString("</div>\n")
		case Console:
			b.WriteString("\033[2m")
			b.WriteString(strings.Repeat("| ", e.Depth))
			b.WriteString("\033[0m")
			b.WriteString(e.Message)
			b.WriteByte('\n')
		default: // Plain, and Off (no entries to render anyway)
			b.WriteString(strings.Repeat("  ", e.Depth))
			b.WriteString(e.Message)
			b.WriteByte('\n')
		}
	}
	if t.mode == HTML {
		b.WriteString("<div>")
		b.WriteString(html.EscapeString(t.Stats.Line()))
		b.WriteString("</div>\n")
	} else {
		b.WriteString(t.Stats.Line())
		b.WriteByte('\n')
	}
	return b.String()
}
