package pretty

import (
	"fmt"
	"strings"

	"github.com/yaklabco/domsplice/pkg/runner"
)

func plural(n int, word string) string {
	switch {
	case n == 1:
		return fmt.Sprintf("%d %s", n, word)
	case strings.HasSuffix(word, "ch"):
		return fmt.Sprintf("%d %ses", n, word)
	default:
		return fmt.Sprintf("%d %ss", n, word)
	}
}

// FormatSummary renders run statistics as one line, e.g.
// "12 replacements (5 matches) in 3 files, 2 written, 1 failed".
func (s *Styles) FormatSummary(stats runner.Stats, dryRun bool) string {
	if stats.Matches == 0 && stats.FilesErrored == 0 {
		return s.Success.Render("No matches") +
			s.Dim.Render(fmt.Sprintf(" (%s checked)", plural(stats.FilesProcessed, "file"))) + "\n"
	}

	parts := []string{fmt.Sprintf("%s (%s) in %s",
		plural(stats.Replacements, "replacement"),
		plural(stats.Matches, "match"),
		plural(stats.FilesChanged, "file"),
	)}

	switch {
	case dryRun:
		parts = append(parts, s.Warning.Render("dry run, nothing written"))
	case stats.FilesWritten > 0:
		parts = append(parts, s.Success.Render(fmt.Sprintf("%d written", stats.FilesWritten)))
	}
	if stats.BackupsCreated > 0 {
		parts = append(parts, s.Dim.Render(plural(stats.BackupsCreated, "backup")))
	}
	if stats.FilesErrored > 0 {
		parts = append(parts, s.Failure.Render(fmt.Sprintf("%d failed", stats.FilesErrored)))
	}

	return strings.Join(parts, ", ") + "\n"
}
