package runner

import (
	"context"

	"github.com/yaklabco/domsplice/pkg/document"
	"github.com/yaklabco/domsplice/pkg/splice"
)

// Hit is one match reported by Scan.
type Hit struct {
	Rule string `json:"rule"`

	// Start and End are offsets into the text of the selected subtree.
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`

	// Portions is the number of text nodes the match spans.
	Portions int `json:"portions"`
}

// Scan reports what rules would match in content without modifying anything.
// Every rule sees the unmodified tree.
func Scan(ctx context.Context, path string, content []byte, rules []Rule, opts document.Options) ([]Hit, error) {
	doc, err := document.Parse(path, content, opts)
	if err != nil {
		return nil, err
	}

	var hits []Hit
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		roots, err := doc.Roots(rule.Select)
		if err != nil {
			return nil, err
		}

		for _, root := range roots {
			found, err := splice.Find(root, rule.Pattern, splice.Options{Group: rule.Group, Filter: rule.Filter})
			if err != nil {
				return nil, err
			}
			for _, f := range found {
				hits = append(hits, Hit{
					Rule:     rule.Name,
					Start:    f.Span.Start,
					End:      f.Span.End,
					Text:     f.Text(),
					Portions: len(f.Portions),
				})
			}
		}
	}
	return hits, nil
}
