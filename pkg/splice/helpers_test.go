package splice_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/yaklabco/domsplice/pkg/pattern"
)

// fragment parses markup into the children of a fresh <div>.
func fragment(t *testing.T, markup string) *html.Node {
	t.Helper()

	div := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), div)
	require.NoError(t, err)
	for _, n := range nodes {
		div.AppendChild(n)
	}
	return div
}

// inner renders the children of n.
func inner(t *testing.T, n *html.Node) string {
	t.Helper()

	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		require.NoError(t, html.Render(&b, c))
	}
	return b.String()
}

// leafShape lists each text leaf's data in document order, which captures
// leaf boundaries that rendering hides.
func leafShape(n *html.Node) []string {
	var out []string
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			out = append(out, n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return out
}

func leafNodes(n *html.Node) []*html.Node {
	var out []*html.Node
	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.TextNode {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(n)
	return out
}

func mustParse(t *testing.T, literal string) *pattern.Pattern {
	t.Helper()

	p, err := pattern.Parse(literal, pattern.Options{})
	require.NoError(t, err)
	return p
}
