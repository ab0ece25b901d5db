package pattern

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestECMAScript_TimeoutIsMatchError(t *testing.T) {
	t.Parallel()

	m, err := compileECMAScript(`^(a+)+$`, Options{})
	require.NoError(t, err)
	m.re.MatchTimeout = time.Millisecond

	_, err = m.find(strings.Repeat("a", 40)+"b", -1)
	require.Error(t, err)

	var matchErr *MatchError
	require.ErrorAs(t, err, &matchErr)
	var syntaxErr *SyntaxError
	assert.False(t, errors.As(err, &syntaxErr))
}

func TestCaptureOpeners(t *testing.T) {
	t.Parallel()

	tests := []struct {
		expr string
		want []string
	}{
		{`abc`, nil},
		{`(a)(?:b)(c)`, []string{"", ""}},
		{`(?<x>a)(b)(?'y'c)`, []string{"x", "", "y"}},
		{`(?P<x>a)`, []string{"x"}},
		{`(?<=a)(?<!b)(?=c)(?!d)`, nil},
		{`\(a\)[()](b)`, []string{""}},
		{`[\]()](c)`, []string{""}},
	}

	for _, tc := range tests {
		t.Run(tc.expr, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, captureOpeners(tc.expr))
		})
	}
}
