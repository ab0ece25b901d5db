package splice

import (
	"golang.org/x/net/html"
)

// edit is one reversible structural change.
type edit interface {
	undo()
}

// splitEdit records a leaf split: left kept its identity and the text after
// the split point moved into the new sibling right.
type splitEdit struct {
	left  *html.Node
	right *html.Node
}

func (e splitEdit) undo() {
	e.left.Data += e.right.Data
	if e.right.Parent != nil {
		e.right.Parent.RemoveChild(e.right)
	}
}

// swapEdit records the removal of one node and the insertion of zero or more
// nodes in its place. next is the sibling that followed the removed node.
type swapEdit struct {
	parent   *html.Node
	removed  *html.Node
	inserted []*html.Node
	next     *html.Node
}

func (e swapEdit) undo() {
	anchor := e.next
	if len(e.inserted) > 0 {
		anchor = e.inserted[0]
	}
	e.parent.InsertBefore(e.removed, anchor)
	for _, n := range e.inserted {
		if n.Parent == e.parent {
			e.parent.RemoveChild(n)
		}
	}
}

// Log is the ordered record of every edit made by one Run. Reverting walks
// it backwards, so the tree passes through each intermediate state in
// reverse and split leaves are merged back into their original node.
type Log struct {
	edits   []edit
	matches int
	swaps   int
}

// Len returns the number of recorded edits.
func (l *Log) Len() int {
	if l == nil {
		return 0
	}
	return len(l.edits)
}

// Matches returns the number of matches whose replacement was applied.
func (l *Log) Matches() int {
	if l == nil {
		return 0
	}
	return l.matches
}

// Replacements returns the number of portions that were replaced.
func (l *Log) Replacements() int {
	if l == nil {
		return 0
	}
	return l.swaps
}

// Revert undoes every edit in reverse order and empties the log. Reverting
// an empty or already reverted log does nothing.
func (l *Log) Revert() {
	if l == nil {
		return
	}
	l.rollback(0)
	l.matches = 0
	l.swaps = 0
}

func (l *Log) mark() int {
	return len(l.edits)
}

// rollback undoes edits recorded after mark.
func (l *Log) rollback(mark int) {
	for i := len(l.edits) - 1; i >= mark; i-- {
		if _, ok := l.edits[i].(swapEdit); ok {
			l.swaps--
		}
		l.edits[i].undo()
	}
	l.edits = l.edits[:mark]
}

// SplitLeaf splits a text leaf at a byte offset. leaf keeps the text before
// the offset and a new leaf holding the rest is inserted right after it.
// Splitting at or beyond either edge is a no-op: at offset <= 0 left is nil
// and right is leaf; at offset >= len(leaf.Data) left is leaf and right is nil.
func (l *Log) SplitLeaf(leaf *html.Node, offset int) (*html.Node, *html.Node, error) {
	if offset <= 0 {
		return nil, leaf, nil
	}
	if offset >= len(leaf.Data) {
		return leaf, nil, nil
	}
	if leaf.Parent == nil {
		return nil, nil, ErrDetachedLeaf
	}

	right := newText(leaf.Data[offset:])
	leaf.Data = leaf.Data[:offset]
	leaf.Parent.InsertBefore(right, leaf.NextSibling)

	l.edits = append(l.edits, splitEdit{left: leaf, right: right})
	return leaf, right, nil
}

// swap replaces old with nodes at old's position.
func (l *Log) swap(old *html.Node, nodes []*html.Node) {
	parent := old.Parent
	next := old.NextSibling
	for _, n := range nodes {
		parent.InsertBefore(n, old)
	}
	parent.RemoveChild(old)

	l.edits = append(l.edits, swapEdit{parent: parent, removed: old, inserted: nodes, next: next})
	l.swaps++
}
