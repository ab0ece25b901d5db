package config

import "fmt"

// templateHeader documents the generated configuration file.
const templateHeader = `# domsplice configuration
#
# Rules run in order against every HTML or Markdown file.
#   pattern: /expr/flags literal (g = every match, i, m, s) or a bare expression
#   replace: replacement text, spread over the matched fragments
#   literal: insert replace as one text node per match instead
#   wrap:    wrap each matched fragment in a new element (class optional)
#   group:   only replace one capture group of each match
#   select:  CSS selector limiting the rule to some subtrees
#   exclude: element names whose text is never matched`

// GenerateTemplate returns a starter configuration file.
func GenerateTemplate() ([]byte, error) {
	cfg := NewConfig()
	cfg.Rules = []Rule{
		{
			Name:    "highlight-todo",
			Pattern: `/\bTODO\b/g`,
			Wrap:    "mark",
			Class:   "todo",
		},
		{
			Name:    "rename-product",
			Pattern: `/Acme Widget/g`,
			Replace: "Acme Gadget",
		},
	}

	content, err := cfg.ToYAMLWithHeader(templateHeader)
	if err != nil {
		return nil, fmt.Errorf("generate template: %w", err)
	}
	return content, nil
}
