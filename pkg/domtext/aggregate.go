package domtext

import (
	"sort"
	"strings"

	"golang.org/x/net/html"
)

// Leaf records where a text leaf's content sits in Text.Content.
type Leaf struct {
	Node  *html.Node
	Start int
	Len   int
}

// End returns the offset just past the leaf's content.
func (l Leaf) End() int {
	return l.Start + l.Len
}

// Text is the flattened view of a tree: the concatenated content of every
// included text leaf, plus one Leaf record per leaf in document order.
// Leaves cover Content with no gaps or overlaps; empty leaves are recorded
// with Len 0 at the current offset.
type Text struct {
	Content string
	Leaves  []Leaf
}

// Aggregate walks root in document order and builds its Text. Elements
// rejected by filter are skipped together with their subtree. A nil filter
// includes everything. Aggregate never modifies the tree.
func Aggregate(root *html.Node, filter Filter) (*Text, error) {
	if filter == nil {
		filter = IncludeAll
	}

	var (
		buf    strings.Builder
		leaves []Leaf
	)

	err := Walk(root, func(n *html.Node) error {
		switch n.Type {
		case html.TextNode:
			leaves = append(leaves, Leaf{Node: n, Start: buf.Len(), Len: len(n.Data)})
			buf.WriteString(n.Data)
		case html.ElementNode:
			include, err := filter(n)
			if err != nil {
				return &FilterError{Element: n, Err: err}
			}
			if !include {
				return SkipChildren
			}
		case html.DocumentNode:
		default:
			// Comments, doctypes and raw nodes carry no matchable text.
			return SkipChildren
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Text{Content: buf.String(), Leaves: leaves}, nil
}

// Locate returns the index of the leaf containing offset, or -1 when the
// offset is outside Content. Empty leaves are never returned.
func (t *Text) Locate(offset int) int {
	if offset < 0 || offset >= len(t.Content) {
		return -1
	}
	i := sort.Search(len(t.Leaves), func(i int) bool {
		return t.Leaves[i].End() > offset
	})
	if i == len(t.Leaves) {
		return -1
	}
	return i
}

// Portion is the part of one text leaf covered by a span of Content.
type Portion struct {
	// Leaf indexes Text.Leaves.
	Leaf int

	// Node is the text leaf as it was when the Text was built.
	Node *html.Node

	// Start and End are local byte offsets inside the leaf.
	Start int
	End   int

	// Offset is where the portion begins relative to the start of the span.
	Offset int
}

// Len returns the number of bytes the portion covers.
func (p Portion) Len() int {
	return p.End - p.Start
}

// Resolve maps the half-open span [start, end) of Content to the ordered
// list of leaf portions it touches. Empty spans and empty leaves produce no
// portions.
func (t *Text) Resolve(start, end int) []Portion {
	if start < 0 {
		start = 0
	}
	if end > len(t.Content) {
		end = len(t.Content)
	}
	if start >= end {
		return nil
	}

	var portions []Portion
	for i := t.Locate(start); i >= 0 && i < len(t.Leaves); i++ {
		leaf := t.Leaves[i]
		if leaf.Start >= end {
			break
		}
		if leaf.Len == 0 {
			continue
		}
		lo := max(start, leaf.Start)
		hi := min(end, leaf.End())
		portions = append(portions, Portion{
			Leaf:   i,
			Node:   leaf.Node,
			Start:  lo - leaf.Start,
			End:    hi - leaf.Start,
			Offset: lo - start,
		})
	}
	return portions
}
