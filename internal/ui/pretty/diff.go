package pretty

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const diffContext = 3

// Diff returns a unified diff of before and after, styled line by line.
// Identical inputs give an empty string.
func (s *Styles) Diff(path string, before, after []byte) (string, error) {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  diffContext,
	})
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	if text == "" {
		return "", nil
	}

	var b strings.Builder
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			b.WriteString(s.DiffHeader.Render(body))
		case strings.HasPrefix(body, "@@"):
			b.WriteString(s.DiffHunk.Render(body))
		case strings.HasPrefix(body, "+"):
			b.WriteString(s.DiffAdd.Render(body))
		case strings.HasPrefix(body, "-"):
			b.WriteString(s.DiffRemove.Render(body))
		default:
			b.WriteString(body)
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}
