// Package document loads HTML and Markdown sources into an html.Node tree,
// selects the subtrees a replacement should run under, and renders the tree
// back to bytes.
package document

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/go-enry/go-enry/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Format identifies the source syntax of a document.
type Format string

const (
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// IsValid returns true if the format is known.
func (f Format) IsValid() bool {
	switch f {
	case FormatHTML, FormatMarkdown:
		return true
	default:
		return false
	}
}

// DefaultExtensions returns the file extensions handled by default.
func DefaultExtensions() []string {
	return []string{".html", ".htm", ".xhtml", ".md", ".markdown"}
}

// DetectFormat guesses a document's format from its name and content using
// go-enry, falling back to the file extension. Unknown inputs are treated as HTML.
func DetectFormat(path string, content []byte) Format {
	switch enry.GetLanguage(filepath.Base(path), content) {
	case "Markdown":
		return FormatMarkdown
	case "HTML":
		return FormatHTML
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdown", ".mkd":
		return FormatMarkdown
	default:
		return FormatHTML
	}
}

// Options controls parsing.
type Options struct {
	// Format overrides detection when set.
	Format Format

	// GFM enables GitHub Flavored Markdown extensions for Markdown input.
	GFM bool
}

// Document is a parsed source.
type Document struct {
	// Path is the source path, used for detection and messages only.
	Path string

	// Format is the source format. Markdown sources render as HTML.
	Format Format

	// Root is the tree. It is a document node: either the full parsed
	// document, or a holder for the nodes of a fragment.
	Root *html.Node

	// Fragment is true when the source had no <html> element of its own;
	// Render then emits only the fragment.
	Fragment bool
}

// Parse builds a Document from content.
func Parse(path string, content []byte, opts Options) (*Document, error) {
	format := opts.Format
	if format == "" {
		format = DetectFormat(path, content)
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("unknown format %q", format)
	}

	source := content
	if format == FormatMarkdown {
		rendered, err := renderMarkdown(content, opts.GFM)
		if err != nil {
			return nil, fmt.Errorf("render markdown %s: %w", path, err)
		}
		source = rendered
	}

	doc := &Document{Path: path, Format: format}

	if isFullDocument(source) {
		root, err := html.Parse(bytes.NewReader(source))
		if err != nil {
			return nil, fmt.Errorf("parse html %s: %w", path, err)
		}
		doc.Root = root
		return doc, nil
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(source), body)
	if err != nil {
		return nil, fmt.Errorf("parse html fragment %s: %w", path, err)
	}
	doc.Root = &html.Node{Type: html.DocumentNode}
	for _, n := range nodes {
		doc.Root.AppendChild(n)
	}
	doc.Fragment = true
	return doc, nil
}

// Roots returns the subtrees matching a CSS selector. An empty selector
// selects the whole document. Nodes nested inside another selected node are
// dropped so that no text is visited twice.
func (d *Document) Roots(selector string) ([]*html.Node, error) {
	if strings.TrimSpace(selector) == "" {
		return []*html.Node{d.Root}, nil
	}

	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("invalid selector %q: %w", selector, err)
	}

	matched := goquery.NewDocumentFromNode(d.Root).FindMatcher(sel).Nodes

	selected := make(map[*html.Node]struct{}, len(matched))
	for _, n := range matched {
		selected[n] = struct{}{}
	}

	roots := make([]*html.Node, 0, len(matched))
	for _, n := range matched {
		if !hasSelectedAncestor(n, selected) {
			roots = append(roots, n)
		}
	}
	return roots, nil
}

// Render serializes the tree.
func (d *Document) Render() ([]byte, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, d.Root); err != nil {
		return nil, fmt.Errorf("render %s: %w", d.Path, err)
	}
	return buf.Bytes(), nil
}

// OutputPath returns where a modified document is written. HTML documents
// are written in place; Markdown sources get a sibling .html file.
func (d *Document) OutputPath() string {
	if d.Format != FormatMarkdown {
		return d.Path
	}
	return strings.TrimSuffix(d.Path, filepath.Ext(d.Path)) + ".html"
}

func hasSelectedAncestor(n *html.Node, selected map[*html.Node]struct{}) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if _, ok := selected[p]; ok {
			return true
		}
	}
	return false
}

func isFullDocument(source []byte) bool {
	head := bytes.ToLower(source[:min(len(source), 1024)])
	return bytes.Contains(head, []byte("<!doctype")) || bytes.Contains(head, []byte("<html"))
}

func renderMarkdown(content []byte, gfm bool) ([]byte, error) {
	var opts []goldmark.Option
	if gfm {
		opts = append(opts, goldmark.WithExtensions(extension.GFM))
	}

	var buf bytes.Buffer
	if err := goldmark.New(opts...).Convert(content, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
