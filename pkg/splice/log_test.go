package splice_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/yaklabco/domsplice/pkg/splice"
)

func TestLog_SplitLeaf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		offset    int
		wantLeft  string
		wantRight string
		wantNoop  bool
		wantShape []string
	}{
		{name: "negative offset", offset: -1, wantRight: "hello", wantNoop: true, wantShape: []string{"hello"}},
		{name: "at start", offset: 0, wantRight: "hello", wantNoop: true, wantShape: []string{"hello"}},
		{name: "middle", offset: 2, wantLeft: "he", wantRight: "llo", wantShape: []string{"he", "llo"}},
		{name: "at end", offset: 5, wantLeft: "hello", wantNoop: true, wantShape: []string{"hello"}},
		{name: "beyond end", offset: 9, wantLeft: "hello", wantNoop: true, wantShape: []string{"hello"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			root := fragment(t, "<b>hello</b>")
			leaf := root.FirstChild.FirstChild

			var l splice.Log
			left, right, err := l.SplitLeaf(leaf, tc.offset)
			require.NoError(t, err)
			assert.Equal(t, tc.wantShape, leafShape(root))

			switch {
			case tc.wantLeft == "":
				assert.Nil(t, left)
				assert.Same(t, leaf, right)
			case tc.wantRight == "":
				assert.Same(t, leaf, left)
				assert.Nil(t, right)
			default:
				assert.Same(t, leaf, left, "left half keeps the leaf's identity")
				assert.Equal(t, tc.wantLeft, left.Data)
				assert.Equal(t, tc.wantRight, right.Data)
				assert.Same(t, right, leaf.NextSibling)
			}

			if tc.wantNoop {
				assert.Zero(t, l.Len())
			} else {
				assert.Equal(t, 1, l.Len())
			}

			l.Revert()
			assert.Equal(t, []string{"hello"}, leafShape(root))
			assert.Same(t, leaf, root.FirstChild.FirstChild)
		})
	}
}

func TestLog_SplitLeafDetached(t *testing.T) {
	t.Parallel()

	leaf := &html.Node{Type: html.TextNode, Data: "hello"}

	var l splice.Log
	_, _, err := l.SplitLeaf(leaf, 2)
	require.ErrorIs(t, err, splice.ErrDetachedLeaf)
	assert.Equal(t, "hello", leaf.Data)
	assert.Zero(t, l.Len())

	left, right, err := l.SplitLeaf(leaf, 0)
	require.NoError(t, err, "boundary splits need no parent")
	assert.Nil(t, left)
	assert.Same(t, leaf, right)
}
