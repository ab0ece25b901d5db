package runner

import (
	"bytes"
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/yaklabco/domsplice/internal/logging"
	"github.com/yaklabco/domsplice/pkg/document"
	"github.com/yaklabco/domsplice/pkg/splice"
)

// RuleStats counts what one rule did to one file.
type RuleStats struct {
	Rule         string
	Matches      int
	Replacements int
}

// FileResult is the outcome of applying rules to one source.
type FileResult struct {
	// Path is the source path. OutputPath is where the result belongs; it
	// differs from Path only for Markdown sources.
	Path       string
	OutputPath string

	// Before is the rendered tree prior to replacement and After the rendered
	// result. Both are HTML, so they diff cleanly even for Markdown sources.
	Before []byte
	After  []byte

	Rules        []RuleStats
	Matches      int
	Replacements int

	// Changed is true when at least one replacement was made.
	Changed bool

	// Written and BackedUp record what happened on disk.
	Written  bool
	BackedUp bool
}

// Process applies rules to content. Rules run in order, each over the tree
// left by the previous one. If any rule fails, every replacement already
// made to this file is reverted and the error is returned.
func Process(ctx context.Context, path string, content []byte, rules []Rule, opts document.Options) (*FileResult, error) {
	logger := logging.FromContext(ctx)

	doc, err := document.Parse(path, content, opts)
	if err != nil {
		return nil, err
	}

	before, err := doc.Render()
	if err != nil {
		return nil, err
	}

	result := &FileResult{
		Path:       path,
		OutputPath: doc.OutputPath(),
		Before:     before,
		After:      before,
	}

	var logs []*splice.Log
	revert := func() {
		for i := len(logs) - 1; i >= 0; i-- {
			logs[i].Revert()
		}
	}

	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			revert()
			return nil, fmt.Errorf("process %s: %w", path, err)
		}

		stats, ruleLogs, err := applyRule(doc, rule, logger)
		logs = append(logs, ruleLogs...)
		if err != nil {
			revert()
			return nil, fmt.Errorf("%s: rule %s: %w", path, rule.Name, err)
		}

		result.Rules = append(result.Rules, stats)
		result.Matches += stats.Matches
		result.Replacements += stats.Replacements
	}

	if result.Replacements == 0 {
		return result, nil
	}

	after, err := doc.Render()
	if err != nil {
		return nil, err
	}
	result.After = after
	result.Changed = !bytes.Equal(before, after) || doc.Format == document.FormatMarkdown

	return result, nil
}

func applyRule(doc *document.Document, rule Rule, logger *log.Logger) (RuleStats, []*splice.Log, error) {
	stats := RuleStats{Rule: rule.Name}

	roots, err := doc.Roots(rule.Select)
	if err != nil {
		return stats, nil, err
	}

	var logs []*splice.Log
	for _, root := range roots {
		l, err := splice.Run(root, rule.Pattern, rule.Content, splice.Options{
			Group:  rule.Group,
			Filter: rule.Filter,
			Logger: logger,
		})
		if l != nil {
			logs = append(logs, l)
			stats.Matches += l.Matches()
			stats.Replacements += l.Replacements()
		}
		if err != nil {
			return stats, logs, err
		}
	}

	logger.Debug("rule applied",
		logging.FieldPath, doc.Path,
		logging.FieldRule, rule.Name,
		logging.FieldPattern, rule.Pattern.String(),
		logging.FieldMatches, stats.Matches,
		logging.FieldReplacements, stats.Replacements,
	)

	return stats, logs, nil
}
