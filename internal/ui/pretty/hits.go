package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/domsplice/pkg/runner"
)

const ellipsis = "…"

// FormatHits renders the matches found in one file, one per line:
//
//	path:start-end  rule  "text"  (n nodes)
//
// Match text is flattened to one line and truncated to fit width.
func (s *Styles) FormatHits(path string, hits []runner.Hit, width int) string {
	var b strings.Builder
	for _, h := range hits {
		loc := fmt.Sprintf("%s:%d-%d", path, h.Start, h.End)
		suffix := ""
		if h.Portions > 1 {
			suffix = fmt.Sprintf("  (%d nodes)", h.Portions)
		}

		room := width - len(loc) - len(h.Rule) - len(suffix) - 8
		text := truncate(flatten(h.Text), room)

		b.WriteString(s.FilePath.Render(loc))
		b.WriteString("  ")
		b.WriteString(s.Rule.Render(h.Rule))
		b.WriteString("  ")
		b.WriteString(s.Match.Render(fmt.Sprintf("%q", text)))
		b.WriteString(s.Dim.Render(suffix))
		b.WriteByte('\n')
	}
	return b.String()
}

func flatten(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if limit < 1 {
		limit = 1
	}
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}
