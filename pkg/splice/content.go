package splice

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Portion describes one leaf fragment of a match, as seen by a content
// factory.
type Portion struct {
	// Text is the fragment's text.
	Text string

	// Index is the fragment's position within its match; IsLast marks the
	// final fragment.
	Index  int
	IsLast bool

	// Offset is the byte offset of Text within Match.
	Offset int

	// MatchIndex is the index of the match within the run and Match is the
	// full replaced text (the selected capture group when one is set).
	MatchIndex int
	Match      string
}

// Content produces the nodes inserted in place of a portion. It is one of
// Text, Tag, Template, Func or TextFunc.
type Content interface {
	produce(p Portion) ([]*html.Node, error)
	validate() error
}

type textContent struct {
	text string
}

// Text replaces each match with a single new text leaf holding s. The leaf
// takes the place of the first portion; any further portions of the same
// match are removed.
func Text(s string) Content {
	return textContent{text: s}
}

func (c textContent) produce(p Portion) ([]*html.Node, error) {
	if p.Index > 0 {
		return nil, nil
	}
	return []*html.Node{newText(c.text)}, nil
}

func (textContent) validate() error { return nil }

type tagContent struct {
	name string
}

// Tag wraps every portion in a new element with the given tag name.
func Tag(name string) Content {
	return tagContent{name: name}
}

func (c tagContent) produce(p Portion) ([]*html.Node, error) {
	el := &html.Node{
		Type:     html.ElementNode,
		Data:     c.name,
		DataAtom: atom.Lookup([]byte(c.name)),
	}
	el.AppendChild(newText(p.Text))
	return []*html.Node{el}, nil
}

func (c tagContent) validate() error {
	if c.name == "" {
		return fmt.Errorf("%w: empty tag name", ErrInvalidContent)
	}
	return nil
}

type templateContent struct {
	template *html.Node
}

// Template wraps every portion in a shallow copy of el: the copy has el's
// tag, namespace and attributes but none of its children. el itself is never
// inserted.
func Template(el *html.Node) Content {
	return templateContent{template: el}
}

func (c templateContent) produce(p Portion) ([]*html.Node, error) {
	el := cloneShallow(c.template)
	el.AppendChild(newText(p.Text))
	return []*html.Node{el}, nil
}

func (c templateContent) validate() error {
	if c.template == nil || c.template.Type != html.ElementNode {
		return fmt.Errorf("%w: template must be an element", ErrInvalidContent)
	}
	return nil
}

type funcContent struct {
	fn func(Portion) (*html.Node, error)
}

// Func calls fn once per portion, in document order, and inserts the node
// it returns. A nil node removes the portion. The returned node must not be
// attached to any tree.
func Func(fn func(p Portion) (*html.Node, error)) Content {
	return funcContent{fn: fn}
}

func (c funcContent) produce(p Portion) ([]*html.Node, error) {
	n, err := c.fn(p)
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, nil
	}
	if n.Parent != nil || n.PrevSibling != nil || n.NextSibling != nil {
		return nil, ErrAttachedNode
	}
	return []*html.Node{n}, nil
}

func (c funcContent) validate() error {
	if c.fn == nil {
		return fmt.Errorf("%w: nil factory", ErrInvalidContent)
	}
	return nil
}

type textFuncContent struct {
	fn func(Portion) (string, error)
}

// TextFunc calls fn once per portion, in document order, and inserts a text
// leaf holding the returned string.
func TextFunc(fn func(p Portion) (string, error)) Content {
	return textFuncContent{fn: fn}
}

func (c textFuncContent) produce(p Portion) ([]*html.Node, error) {
	s, err := c.fn(p)
	if err != nil {
		return nil, err
	}
	return []*html.Node{newText(s)}, nil
}

func (c textFuncContent) validate() error {
	if c.fn == nil {
		return fmt.Errorf("%w: nil factory", ErrInvalidContent)
	}
	return nil
}

// ReplaceText substitutes the matched text with s as plain text while
// keeping the surrounding structure. The characters of s are spread over a
// match's portions in proportion to the characters each portion held; the
// last portion takes whatever is left over.
func ReplaceText(s string) Content {
	replacement := []rune(s)
	return TextFunc(func(p Portion) (string, error) {
		from := utf8.RuneCountInString(p.Match[:p.Offset])
		if from >= len(replacement) {
			return "", nil
		}
		if p.IsLast {
			return string(replacement[from:]), nil
		}
		to := min(from+utf8.RuneCountInString(p.Text), len(replacement))
		return string(replacement[from:to]), nil
	})
}

func newText(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func cloneShallow(n *html.Node) *html.Node {
	clone := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
	}
	if len(n.Attr) > 0 {
		clone.Attr = make([]html.Attribute, len(n.Attr))
		copy(clone.Attr, n.Attr)
	}
	return clone
}
