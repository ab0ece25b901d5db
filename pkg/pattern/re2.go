package pattern

import (
	"regexp"
	"strings"
)

type re2Matcher struct {
	re *regexp.Regexp
}

func compileRE2(expr string, opts Options) (*re2Matcher, error) {
	var flags strings.Builder
	if opts.IgnoreCase {
		flags.WriteByte('i')
	}
	if opts.Multiline {
		flags.WriteByte('m')
	}
	if opts.DotAll {
		flags.WriteByte('s')
	}

	full := expr
	if flags.Len() > 0 {
		full = "(?" + flags.String() + ")" + expr
	}

	re, err := regexp.Compile(full)
	if err != nil {
		return nil, &SyntaxError{Expr: expr, Message: "compile", Err: err}
	}
	return &re2Matcher{re: re}, nil
}

func (m *re2Matcher) numGroups() int {
	return m.re.NumSubexp()
}

// find relies on FindAllStringSubmatchIndex for the scan: matches are
// non-overlapping and an empty match advances the search by one character.
func (m *re2Matcher) find(s string, limit int) ([]Match, error) {
	all := m.re.FindAllStringSubmatchIndex(s, limit)
	if len(all) == 0 {
		return nil, nil
	}

	matches := make([]Match, 0, len(all))
	for _, loc := range all {
		groups := make([]Span, len(loc)/2)
		for i := range groups {
			groups[i] = Span{Start: loc[2*i], End: loc[2*i+1]}
		}
		matches = append(matches, Match{
			Start:  loc[0],
			End:    loc[1],
			Groups: groups,
			Text:   s[loc[0]:loc[1]],
		})
	}
	return matches, nil
}
