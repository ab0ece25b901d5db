// Package domtext flattens the text leaves of an HTML tree into one string and
// maps offsets in that string back to the leaves they came from.
package domtext

import (
	"errors"

	"golang.org/x/net/html"
)

// SkipChildren can be returned by a WalkFunc to skip the children of the
// node just visited. It is never returned by Walk.
var SkipChildren = errors.New("skip children")

// WalkFunc is called for each node in pre-order.
// Return a non-nil error other than SkipChildren to stop the walk.
type WalkFunc func(n *html.Node) error

// Walk performs a pre-order traversal of the tree starting at root,
// visiting each node's children left to right.
func Walk(root *html.Node, walkFunc WalkFunc) error {
	if root == nil {
		return nil
	}

	if err := walkFunc(root); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}

	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if err := Walk(child, walkFunc); err != nil {
			return err
		}
	}

	return nil
}

// IsText reports whether n is a text leaf.
func IsText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// IsContainer reports whether n can hold text leaves.
func IsContainer(n *html.Node) bool {
	return n != nil && (n.Type == html.ElementNode || n.Type == html.DocumentNode)
}

// TextContent returns the concatenated text of every leaf under n, without
// applying any filter.
func TextContent(n *html.Node) string {
	if IsText(n) {
		return n.Data
	}
	text, err := Aggregate(n, nil)
	if err != nil {
		return ""
	}
	return text.Content
}
