package pattern

import (
	"strings"
	"time"

	"github.com/dlclark/regexp2"
)

// ecmaMatchTimeout bounds a single backtracking search.
const ecmaMatchTimeout = 5 * time.Second

type ecmaMatcher struct {
	re *regexp2.Regexp

	// order maps a group index counted left to right, as ECMAScript numbers
	// groups, to regexp2's group number. regexp2 numbers unnamed groups
	// before named ones.
	order []int
}

func compileECMAScript(expr string, opts Options) (*ecmaMatcher, error) {
	if opts.DotAll {
		return nil, &SyntaxError{Expr: expr, Message: "flag s is not supported by the ecmascript engine"}
	}

	ro := regexp2.RegexOptions(regexp2.ECMAScript)
	if opts.IgnoreCase {
		ro |= regexp2.IgnoreCase
	}
	if opts.Multiline {
		ro |= regexp2.Multiline
	}

	re, err := regexp2.Compile(expr, ro)
	if err != nil {
		return nil, &SyntaxError{Expr: expr, Message: "compile", Err: err}
	}
	re.MatchTimeout = ecmaMatchTimeout

	return &ecmaMatcher{re: re, order: groupOrder(expr, re)}, nil
}

func (m *ecmaMatcher) numGroups() int {
	return len(m.order) - 1
}

// groupOrder lists regexp2 group numbers in the order their opening
// parentheses appear in expr. If the scan disagrees with the compiled group
// count, regexp2's own numbering is used.
func groupOrder(expr string, re *regexp2.Regexp) []int {
	numbers := re.GetGroupNumbers()

	order := []int{0}
	unnamed := 0
	for _, name := range captureOpeners(expr) {
		if name == "" {
			unnamed++
			order = append(order, unnamed)
			continue
		}
		num := re.GroupNumberFromName(name)
		if num < 0 {
			return numbers
		}
		order = append(order, num)
	}

	if len(order) != len(numbers) {
		return numbers
	}
	return order
}

// captureOpeners returns one entry per capturing group of expr in source
// order: the group name, or "" for an unnamed group.
func captureOpeners(expr string) []string {
	var names []string
	inClass := false
	for i := 0; i < len(expr); i++ {
		switch c := expr[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '(':
			rest := expr[i+1:]
			if !strings.HasPrefix(rest, "?") {
				names = append(names, "")
				continue
			}
			if name, ok := groupName(rest[1:]); ok {
				names = append(names, name)
			}
		}
	}
	return names
}

// groupName parses the name of a named group from the text after "(?".
// Lookbehinds (?<= and (?<! are not groups.
func groupName(s string) (string, bool) {
	s = strings.TrimPrefix(s, "P")
	if s == "" {
		return "", false
	}

	var closer byte
	switch s[0] {
	case '<':
		closer = '>'
	case '\'':
		closer = '\''
	default:
		return "", false
	}
	if len(s) > 1 && (s[1] == '=' || s[1] == '!') {
		return "", false
	}

	end := strings.IndexByte(s[1:], closer)
	if end <= 0 {
		return "", false
	}
	return s[1 : end+1], true
}

// find walks FindStringMatch/FindNextMatch. regexp2 reports rune indexes, so
// every span is translated to byte offsets before it leaves the package.
func (m *ecmaMatcher) find(s string, limit int) ([]Match, error) {
	offsets := runeOffsets(s)

	var matches []Match
	match, err := m.re.FindStringMatch(s)
	for match != nil && err == nil {
		matches = append(matches, m.convert(s, match, offsets))
		if limit > 0 && len(matches) >= limit {
			break
		}
		match, err = m.re.FindNextMatch(match)
	}
	if err != nil {
		return nil, &MatchError{Expr: m.re.String(), Err: err}
	}
	return matches, nil
}

func (m *ecmaMatcher) convert(s string, match *regexp2.Match, offsets []int) Match {
	groups := make([]Span, len(m.order))
	for i := range groups {
		g := match.GroupByNumber(m.order[i])
		if g == nil || len(g.Captures) == 0 {
			groups[i] = Span{Start: -1, End: -1}
			continue
		}
		groups[i] = Span{Start: offsets[g.Index], End: offsets[g.Index+g.Length]}
	}

	start, end := offsets[match.Index], offsets[match.Index+match.Length]
	groups[0] = Span{Start: start, End: end}

	return Match{Start: start, End: end, Groups: groups, Text: s[start:end]}
}

// runeOffsets maps rune index to byte offset; the extra final entry is len(s).
func runeOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}
