// Package splice finds pattern matches in the rendered text of an HTML tree
// and replaces them in place, even when a match spans several text leaves
// and element boundaries. Every edit is logged so a run can be reverted.
package splice

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"golang.org/x/net/html"

	"github.com/yaklabco/domsplice/pkg/domtext"
	"github.com/yaklabco/domsplice/pkg/pattern"
)

// Options controls a Run.
type Options struct {
	// Group restricts replacement to one capture group. 0 is the whole match.
	// Matches in which the group did not participate are skipped.
	Group int

	// Filter excludes element subtrees from matching. Nil includes everything.
	Filter domtext.Filter

	// Logger receives debug output. Nil disables logging.
	Logger *log.Logger
}

// Run finds pat in the text under root and replaces every selected span
// with content. Matches are applied left to right from a single scan of the
// original text.
//
// Configuration problems (bad group, invalid content, failing filter) are
// reported before the tree is touched. A failure while replacing a match
// rolls back that match only: Run then returns the log of the matches already
// applied together with a *ReplaceError, so the caller can still revert them.
func Run(root *html.Node, pat *pattern.Pattern, content Content, opts Options) (*Log, error) {
	found, err := Find(root, pat, opts)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, fmt.Errorf("%w: nil content", ErrInvalidContent)
	}
	if err := content.validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	r := &replacer{
		log:     &Log{},
		content: content,
		cursors: make(map[int]cursor),
	}
	for _, f := range found {
		if err := r.apply(f); err != nil {
			logger.Debug("replacement failed", "match", f.Index, "error", err)
			return r.log, err
		}
		logger.Debug("replaced match",
			"match", f.Index,
			"start", f.Span.Start,
			"end", f.Span.End,
			"portions", len(f.Portions),
		)
	}

	logger.Debug("run complete", "matches", r.log.Matches(), "edits", r.log.Len())
	return r.log, nil
}

// Found is a match resolved against the tree.
type Found struct {
	// Index is the match's position among all matches of the scan.
	Index int

	Match pattern.Match

	// Span is the replaced range: the whole match or the selected group.
	Span pattern.Span

	// Portions are the leaf fragments Span covers, in document order.
	Portions []domtext.Portion
}

// Text returns the text covered by Span.
func (f Found) Text() string {
	return f.Match.Text[f.Span.Start-f.Match.Start : f.Span.End-f.Match.Start]
}

// Find runs the matching half of Run without modifying the tree. Matches
// whose selected group did not participate, or whose span is empty, are
// left out.
func Find(root *html.Node, pat *pattern.Pattern, opts Options) ([]Found, error) {
	switch {
	case root == nil:
		return nil, ErrNilRoot
	case !domtext.IsContainer(root):
		return nil, ErrInvalidRoot
	case pat == nil:
		return nil, ErrNilPattern
	}
	if opts.Group < 0 || opts.Group > pat.NumGroups() {
		return nil, fmt.Errorf("%w: group %d, pattern %s has %d",
			ErrGroupOutOfRange, opts.Group, pat, pat.NumGroups())
	}

	flat, err := domtext.Aggregate(root, opts.Filter)
	if err != nil {
		return nil, err
	}

	matches, err := pat.FindMatches(flat.Content)
	if err != nil {
		return nil, err
	}

	found := make([]Found, 0, len(matches))
	for i, m := range matches {
		span := m.Group(opts.Group)
		if !span.Participated() {
			continue
		}
		portions := flat.Resolve(span.Start, span.End)
		if len(portions) == 0 {
			continue
		}
		found = append(found, Found{Index: i, Match: m, Span: span, Portions: portions})
	}
	return found, nil
}

// cursor tracks what remains of an original leaf after earlier portions
// were cut out of it: node now holds the original text from base onwards.
type cursor struct {
	node *html.Node
	base int
}

type replacer struct {
	log     *Log
	content Content
	cursors map[int]cursor
}

// apply replaces every portion of one match. On error the match's edits are
// undone and the leaf cursors restored.
func (r *replacer) apply(f Found) error {
	mark := r.log.mark()
	saved := make(map[int]cursor, len(f.Portions))
	matched := f.Text()

	fail := func(i int, err error) error {
		r.log.rollback(mark)
		for leaf, c := range saved {
			if c.node == nil {
				delete(r.cursors, leaf)
			} else {
				r.cursors[leaf] = c
			}
		}
		return &ReplaceError{Match: f.Index, Portion: i, Err: err}
	}

	for i, p := range f.Portions {
		if _, ok := saved[p.Leaf]; !ok {
			saved[p.Leaf] = r.cursors[p.Leaf]
		}

		piece, err := r.isolate(p)
		if err != nil {
			return fail(i, err)
		}

		nodes, err := r.content.produce(Portion{
			Text:       piece.Data,
			Index:      i,
			IsLast:     i == len(f.Portions)-1,
			Offset:     p.Offset,
			MatchIndex: f.Index,
			Match:      matched,
		})
		if err != nil {
			return fail(i, err)
		}
		r.log.swap(piece, nodes)
	}

	r.log.matches++
	return nil
}

// isolate splits the current remainder of p's leaf so that exactly the
// portion's text sits in its own leaf, and returns that leaf.
func (r *replacer) isolate(p domtext.Portion) (*html.Node, error) {
	c, ok := r.cursors[p.Leaf]
	if !ok {
		c = cursor{node: p.Node}
	}

	_, piece, err := r.log.SplitLeaf(c.node, p.Start-c.base)
	if err != nil {
		return nil, err
	}
	piece, rest, err := r.log.SplitLeaf(piece, p.End-p.Start)
	if err != nil {
		return nil, err
	}

	r.cursors[p.Leaf] = cursor{node: rest, base: p.End}
	return piece, nil
}
