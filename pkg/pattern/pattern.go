// Package pattern compiles search expressions and runs them against a flat
// string, producing ordered, non-overlapping match records with capture spans.
package pattern

import (
	"fmt"
	"strings"
)

// Engine selects the regular-expression implementation behind a Pattern.
type Engine string

const (
	// EngineRE2 uses the standard library regexp package (linear time).
	EngineRE2 Engine = "re2"

	// EngineECMAScript uses regexp2 in ECMAScript mode, which adds
	// lookaround and backreferences.
	EngineECMAScript Engine = "ecmascript"
)

// IsValid returns true if the engine is known.
func (e Engine) IsValid() bool {
	switch e {
	case EngineRE2, EngineECMAScript:
		return true
	default:
		return false
	}
}

// Options controls how an expression is compiled.
type Options struct {
	// Global selects all-matches mode. Without it only the first match is reported.
	Global bool

	IgnoreCase bool
	Multiline  bool
	DotAll     bool

	// Engine defaults to EngineRE2.
	Engine Engine
}

// Span is a half-open byte range [Start, End) into the searched string.
// Start is -1 for a capture group that did not participate in the match.
type Span struct {
	Start int
	End   int
}

// Participated reports whether the span belongs to a group that matched.
func (s Span) Participated() bool {
	return s.Start >= 0
}

// Len returns the length of the span, or 0 for a non-participating group.
func (s Span) Len() int {
	if !s.Participated() {
		return 0
	}
	return s.End - s.Start
}

// Match is one match of a pattern against a string.
type Match struct {
	// Start and End bound the overall match.
	Start int
	End   int

	// Groups holds one span per capture group; Groups[0] is the whole match.
	Groups []Span

	// Text is the matched substring.
	Text string
}

// Group returns the span of capture group i. Out-of-range groups are
// reported as not participating.
func (m Match) Group(i int) Span {
	if i < 0 || i >= len(m.Groups) {
		return Span{Start: -1, End: -1}
	}
	return m.Groups[i]
}

// matcher is implemented by each engine.
type matcher interface {
	find(s string, limit int) ([]Match, error)
	numGroups() int
}

// Pattern is a compiled search expression.
type Pattern struct {
	source string
	opts   Options
	m      matcher
}

// Compile compiles expr with the given options.
func Compile(expr string, opts Options) (*Pattern, error) {
	if opts.Engine == "" {
		opts.Engine = EngineRE2
	}

	var (
		m   matcher
		err error
	)
	switch opts.Engine {
	case EngineRE2:
		m, err = compileRE2(expr, opts)
	case EngineECMAScript:
		m, err = compileECMAScript(expr, opts)
	default:
		return nil, &SyntaxError{Expr: expr, Message: fmt.Sprintf("unknown engine %q", opts.Engine)}
	}
	if err != nil {
		return nil, err
	}

	return &Pattern{source: expr, opts: opts, m: m}, nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(expr string, opts Options) *Pattern {
	p, err := Compile(expr, opts)
	if err != nil {
		panic(err)
	}
	return p
}

// Source returns the expression the pattern was compiled from.
func (p *Pattern) Source() string {
	return p.source
}

// Global reports whether the pattern runs in all-matches mode.
func (p *Pattern) Global() bool {
	return p.opts.Global
}

// Engine returns the engine the pattern was compiled with.
func (p *Pattern) Engine() Engine {
	return p.opts.Engine
}

// NumGroups returns the number of capture groups, not counting the whole match.
func (p *Pattern) NumGroups() int {
	return p.m.numGroups()
}

// FindMatches runs the pattern against s. In global mode every
// non-overlapping match is returned in increasing start order; otherwise at
// most one match is returned.
func (p *Pattern) FindMatches(s string) ([]Match, error) {
	limit := 1
	if p.opts.Global {
		limit = -1
	}
	return p.m.find(s, limit)
}

// String renders the pattern in literal form, e.g. /foo/gi.
func (p *Pattern) String() string {
	var flags strings.Builder
	if p.opts.Global {
		flags.WriteByte('g')
	}
	if p.opts.IgnoreCase {
		flags.WriteByte('i')
	}
	if p.opts.Multiline {
		flags.WriteByte('m')
	}
	if p.opts.DotAll {
		flags.WriteByte('s')
	}
	return "/" + p.source + "/" + flags.String()
}

// SyntaxError reports an expression or flag that could not be compiled.
type SyntaxError struct {
	Expr    string
	Message string
	Err     error
}

func (e *SyntaxError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid pattern %q: %s: %v", e.Expr, e.Message, e.Err)
	}
	return fmt.Sprintf("invalid pattern %q: %s", e.Expr, e.Message)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}

// MatchError reports a failure while searching, such as the ECMAScript
// engine exceeding its match timeout. The expression itself is valid.
type MatchError struct {
	Expr string
	Err  error
}

func (e *MatchError) Error() string {
	return fmt.Sprintf("matching %q failed: %v", e.Expr, e.Err)
}

func (e *MatchError) Unwrap() error {
	return e.Err
}
