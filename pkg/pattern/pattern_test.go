package pattern_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/domsplice/pkg/pattern"
)

var engines = []pattern.Engine{pattern.EngineRE2, pattern.EngineECMAScript}

func TestFindMatches_GlobalAndSingle(t *testing.T) {
	t.Parallel()

	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			t.Parallel()

			single := pattern.MustCompile(`at`, pattern.Options{Engine: engine})
			matches, err := single.FindMatches("a cat sat")
			require.NoError(t, err)
			require.Len(t, matches, 1)
			assert.Equal(t, 3, matches[0].Start)
			assert.Equal(t, "at", matches[0].Text)

			global := pattern.MustCompile(`at`, pattern.Options{Engine: engine, Global: true})
			matches, err = global.FindMatches("a cat sat")
			require.NoError(t, err)
			require.Len(t, matches, 2)
			assert.Equal(t, 7, matches[1].Start)
			assert.Equal(t, 9, matches[1].End)
		})
	}
}

func TestFindMatches_NonOverlapping(t *testing.T) {
	t.Parallel()

	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			t.Parallel()

			p := pattern.MustCompile(`aa`, pattern.Options{Engine: engine, Global: true})
			matches, err := p.FindMatches("aaaaa")
			require.NoError(t, err)
			require.Len(t, matches, 2)

			for i := 1; i < len(matches); i++ {
				assert.GreaterOrEqual(t, matches[i].Start, matches[i-1].End)
				assert.Greater(t, matches[i].Start, matches[i-1].Start)
			}
		})
	}
}

func TestFindMatches_EmptyMatchTerminates(t *testing.T) {
	t.Parallel()

	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			t.Parallel()

			p := pattern.MustCompile(`x*`, pattern.Options{Engine: engine, Global: true})
			matches, err := p.FindMatches("abc")
			require.NoError(t, err)
			assert.NotEmpty(t, matches)
			assert.LessOrEqual(t, len(matches), 4)
			for _, m := range matches {
				assert.Equal(t, m.Start, m.End)
			}
		})
	}
}

func TestFindMatches_CaptureGroups(t *testing.T) {
	t.Parallel()

	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			t.Parallel()

			p := pattern.MustCompile(`(TEST)(x)?hello`, pattern.Options{Engine: engine, Global: true})
			assert.Equal(t, 2, p.NumGroups())

			matches, err := p.FindMatches("TEST TESThello")
			require.NoError(t, err)
			require.Len(t, matches, 1)

			m := matches[0]
			assert.Equal(t, pattern.Span{Start: 5, End: 14}, m.Group(0))
			assert.Equal(t, pattern.Span{Start: 5, End: 9}, m.Group(1))
			assert.False(t, m.Group(2).Participated())
			assert.False(t, m.Group(7).Participated())
		})
	}
}

func TestFindMatches_ByteOffsetsForMultibyteText(t *testing.T) {
	t.Parallel()

	text := "Я люблю кошек"
	for _, engine := range engines {
		t.Run(string(engine), func(t *testing.T) {
			t.Parallel()

			p := pattern.MustCompile(`кошек`, pattern.Options{Engine: engine})
			matches, err := p.FindMatches(text)
			require.NoError(t, err)
			require.Len(t, matches, 1)
			assert.Equal(t, "кошек", text[matches[0].Start:matches[0].End])
		})
	}
}

func TestECMAScript_Lookahead(t *testing.T) {
	t.Parallel()

	p := pattern.MustCompile(`foo(?=bar)`, pattern.Options{Engine: pattern.EngineECMAScript, Global: true})
	matches, err := p.FindMatches("foobaz foobar")
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 7, matches[0].Start)

	_, err = pattern.Compile(`foo(?=bar)`, pattern.Options{})
	var syntaxErr *pattern.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		input      string
		wantSource string
		wantGlobal bool
		wantString string
		wantErr    bool
	}{
		{"bare expression", `foo`, "foo", false, "/foo/", false},
		{"literal without flags", `/foo/`, "foo", false, "/foo/", false},
		{"literal with flags", `/te(st)/gi`, "te(st)", true, "/te(st)/gi", false},
		{"escaped slash", `/a\/b/g`, "a/b", true, "/a/b/g", false},
		{"unknown flag", `/foo/q`, "", false, "", true},
		{"invalid expression", `/(foo/`, "", false, "", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p, err := pattern.Parse(tc.input, pattern.Options{})
			if tc.wantErr {
				var syntaxErr *pattern.SyntaxError
				assert.ErrorAs(t, err, &syntaxErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantSource, p.Source())
			assert.Equal(t, tc.wantGlobal, p.Global())
			assert.Equal(t, tc.wantString, p.String())
		})
	}
}

func TestParse_IgnoreCaseFlag(t *testing.T) {
	t.Parallel()

	p, err := pattern.Parse(`/test/ig`, pattern.Options{})
	require.NoError(t, err)

	matches, err := p.FindMatches("Test TEST test")
	require.NoError(t, err)
	assert.Len(t, matches, 3)
}

func TestCompile_ECMAScriptRejectsDotAll(t *testing.T) {
	t.Parallel()

	_, err := pattern.Compile(`a.b`, pattern.Options{Engine: pattern.EngineECMAScript, DotAll: true})
	require.Error(t, err)
}

func TestFindMatches_GroupsNumberedLeftToRight(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		engine pattern.Engine
		expr   string
		input  string
		want   []pattern.Span
	}{
		{"re2 named first", pattern.EngineRE2, `(?P<n>a)(b)`, "ab", []pattern.Span{span(0, 2), span(0, 1), span(1, 2)}},
		{"ecmascript named first", pattern.EngineECMAScript, `(?<n>a)(b)`, "ab", []pattern.Span{span(0, 2), span(0, 1), span(1, 2)}},
		{"ecmascript quoted name", pattern.EngineECMAScript, `(?'n'a)(b)(c)`, "abc", []pattern.Span{span(0, 3), span(0, 1), span(1, 2), span(2, 3)}},
		{"ecmascript nested", pattern.EngineECMAScript, `((?<x>a)b)(c)`, "abc", []pattern.Span{span(0, 3), span(0, 2), span(0, 1), span(2, 3)}},
		{"ecmascript lookbehind is not a group", pattern.EngineECMAScript, `(?<=x)(?<n>a)(b)`, "xab", []pattern.Span{span(1, 3), span(1, 2), span(2, 3)}},
		{"ecmascript escaped and class parens", pattern.EngineECMAScript, `\((?<n>a)[(](b)`, "(a(b", []pattern.Span{span(0, 4), span(1, 2), span(3, 4)}},
		{"ecmascript non-capturing", pattern.EngineECMAScript, `(?:(?<n>a))(b)`, "ab", []pattern.Span{span(0, 2), span(0, 1), span(1, 2)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			p := pattern.MustCompile(tc.expr, pattern.Options{Engine: tc.engine})
			assert.Equal(t, len(tc.want)-1, p.NumGroups())

			matches, err := p.FindMatches(tc.input)
			require.NoError(t, err)
			require.Len(t, matches, 1)
			assert.Equal(t, tc.want, matches[0].Groups)
		})
	}
}

func TestCompile_ECMAScriptFlags(t *testing.T) {
	t.Parallel()

	p := pattern.MustCompile(`^b`, pattern.Options{Engine: pattern.EngineECMAScript, Global: true, IgnoreCase: true, Multiline: true})
	matches, err := p.FindMatches("a\nB\nb")
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, 2, matches[0].Start)
	assert.Equal(t, 4, matches[1].Start)
}

func span(start, end int) pattern.Span {
	return pattern.Span{Start: start, End: end}
}
