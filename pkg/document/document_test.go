package document_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/yaklabco/domsplice/pkg/document"
)

func TestDetectFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    string
		content string
		want    document.Format
	}{
		{"html extension", "index.html", "<p>hi</p>", document.FormatHTML},
		{"htm extension", "page.htm", "<p>hi</p>", document.FormatHTML},
		{"markdown extension", "README.md", "# Title\n\ntext\n", document.FormatMarkdown},
		{"long markdown extension", "notes.markdown", "text\n", document.FormatMarkdown},
		{"unknown defaults to html", "data.txt", "plain", document.FormatHTML},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, document.DetectFormat(tc.path, []byte(tc.content)))
		})
	}
}

func TestParse_FragmentRoundTrip(t *testing.T) {
	t.Parallel()

	const src = `<p>Hello <b>world</b></p>`
	doc, err := document.Parse("frag.html", []byte(src), document.Options{})
	require.NoError(t, err)

	assert.True(t, doc.Fragment)
	assert.Equal(t, html.DocumentNode, doc.Root.Type)

	out, err := doc.Render()
	require.NoError(t, err)
	assert.Equal(t, src, string(out))
	assert.Equal(t, "frag.html", doc.OutputPath())
}

func TestParse_FullDocument(t *testing.T) {
	t.Parallel()

	const src = `<!DOCTYPE html><html><head><title>t</title></head><body><p>x</p></body></html>`
	doc, err := document.Parse("index.html", []byte(src), document.Options{})
	require.NoError(t, err)

	assert.False(t, doc.Fragment)
	out, err := doc.Render()
	require.NoError(t, err)
	assert.Equal(t, `<!DOCTYPE html><html><head><title>t</title></head><body><p>x</p></body></html>`, string(out))
}

func TestParse_Markdown(t *testing.T) {
	t.Parallel()

	doc, err := document.Parse("README.md", []byte("# Title\n\nSome *emphasis* here.\n"), document.Options{})
	require.NoError(t, err)

	assert.Equal(t, document.FormatMarkdown, doc.Format)
	assert.Equal(t, "README.html", doc.OutputPath())

	out, err := doc.Render()
	require.NoError(t, err)
	assert.Contains(t, string(out), "<h1>Title</h1>")
	assert.Contains(t, string(out), "<em>emphasis</em>")
}

func TestParse_MarkdownGFM(t *testing.T) {
	t.Parallel()

	src := []byte("~~gone~~\n")
	doc, err := document.Parse("a.md", src, document.Options{GFM: true})
	require.NoError(t, err)

	out, err := doc.Render()
	require.NoError(t, err)
	assert.Contains(t, string(out), "<del>gone</del>")
}

func TestParse_InvalidFormat(t *testing.T) {
	t.Parallel()

	_, err := document.Parse("a.html", []byte("x"), document.Options{Format: "pdf"})
	require.Error(t, err)
}

func TestRoots(t *testing.T) {
	t.Parallel()

	doc, err := document.Parse("a.html", []byte(`<div class="a"><div class="a">x</div></div><p class="a">y</p><p>z</p>`),
		document.Options{})
	require.NoError(t, err)

	roots, err := doc.Roots("")
	require.NoError(t, err)
	assert.Equal(t, []*html.Node{doc.Root}, roots)

	roots, err = doc.Roots(".a")
	require.NoError(t, err)
	require.Len(t, roots, 2, "nested match is dropped")
	assert.Equal(t, "div", roots[0].Data)
	assert.Equal(t, "p", roots[1].Data)

	_, err = doc.Roots("[[[")
	require.Error(t, err)
}
